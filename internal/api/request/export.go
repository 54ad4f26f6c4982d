package request

// ExportRequest represents the request body for the export endpoint.
// Format is "csv" (default) or "parquet". OutputDir overrides the
// configured export directory when set.
type ExportRequest struct {
	Filename  string `json:"filename"`
	Contents  string `json:"contents"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Format    string `json:"format"`
	OutputDir string `json:"output_dir"`
}
