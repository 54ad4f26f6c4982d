package request

// OptionsRequest represents the request body for the options endpoint.
// Contents is the uploaded CSV, base64 encoded, optionally with a data-URI
// prefix. Dates are ISO "2006-01-02"; empty strings mean not yet selected.
type OptionsRequest struct {
	Filename  string `json:"filename"`
	Contents  string `json:"contents"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// ChartRequest represents the request body for the chart endpoint.
type ChartRequest struct {
	Filename       string   `json:"filename"`
	Contents       string   `json:"contents"`
	StartDate      string   `json:"start_date"`
	EndDate        string   `json:"end_date"`
	CutoffDate     string   `json:"cutoff_date"`
	SelectedStocks []string `json:"selected_stocks"`
}

// CutoffsRequest represents the request body for the all-cutoffs endpoint.
type CutoffsRequest struct {
	Filename  string `json:"filename"`
	Contents  string `json:"contents"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}
