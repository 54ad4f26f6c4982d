// Command snapshot runs the dashboard pipeline once from the command line:
// parse a watchlist CSV, download price history, write per-symbol export
// files, and optionally report cumulative change since a cutoff.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/tdegroot/Stock-Data-Dashboard-Backend/internal/config"
	"github.com/tdegroot/Stock-Data-Dashboard-Backend/internal/dashboard"
	"github.com/tdegroot/Stock-Data-Dashboard-Backend/internal/export"
	"github.com/tdegroot/Stock-Data-Dashboard-Backend/internal/marketdata"
	"github.com/tdegroot/Stock-Data-Dashboard-Backend/internal/transform"
	"github.com/tdegroot/Stock-Data-Dashboard-Backend/internal/validation"
	"github.com/tdegroot/Stock-Data-Dashboard-Backend/internal/watchlist"
)

type snapshotOptions struct {
	watchlistPath string
	startDate     string
	endDate       string
	days          int
	cutoff        string
	format        string
	outDir        string
	allCutoffs    bool
	provider      string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Fatalf("snapshot failed: %v", err)
	}
}

func newRootCmd() *cobra.Command {
	var opts snapshotOptions

	root := &cobra.Command{
		Use:           "snapshot",
		Short:         "One-shot watchlist export and cumulative-change report",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSnapshot(cmd.Context(), &opts)
		},
	}

	root.Flags().StringVar(&opts.watchlistPath, "watchlist", "stock_list.csv", "watchlist CSV path (requires a 'Stock' column)")
	root.Flags().StringVar(&opts.startDate, "start", "", "range start (YYYY-MM-DD)")
	root.Flags().StringVar(&opts.endDate, "end", "", "range end (YYYY-MM-DD)")
	root.Flags().IntVar(&opts.days, "days", 0, "trailing window in days, used when --start/--end are not set")
	root.Flags().StringVar(&opts.cutoff, "cutoff", "first", "cutoff date (YYYY-MM-DD) or 'first' for the earliest fetched date")
	root.Flags().StringVar(&opts.format, "format", "csv", "export format: csv or parquet")
	root.Flags().StringVar(&opts.outDir, "out", "", "output directory (default from EXPORT_DIR)")
	root.Flags().BoolVar(&opts.allCutoffs, "all-cutoffs", false, "also write per-symbol cumulative changes for every possible cutoff")
	root.Flags().StringVar(&opts.provider, "provider", "", "market data provider: yahoo or alpaca (default from MARKET_PROVIDER)")

	return root
}

func runSnapshot(ctx context.Context, opts *snapshotOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	providerName := opts.provider
	if providerName == "" {
		providerName = cfg.Market.Provider
	}
	provider, err := marketdata.NewProvider(
		providerName,
		cfg.Market.AlpacaKey,
		cfg.Market.AlpacaSecret,
		cfg.Market.AlpacaBaseURL,
		cfg.Market.AlpacaFeed,
	)
	if err != nil {
		return err
	}

	format, err := export.ParseFormat(opts.format)
	if err != nil {
		return err
	}

	outDir := opts.outDir
	if outDir == "" {
		outDir = cfg.Export.Dir
	}

	start, end, err := resolveRange(opts, cfg.Market.DefaultRangeDays)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(opts.watchlistPath)
	if err != nil {
		return fmt.Errorf("reading watchlist: %w", err)
	}
	wl, err := watchlist.Parse(opts.watchlistPath, data)
	if err != nil {
		return err
	}
	fmt.Println(wl.UploadMessage())

	downloader := marketdata.NewDownloader(provider)
	history, fetchErrors, err := downloader.DownloadAll(ctx, wl.Symbols, start, end)
	for _, fetchErr := range fetchErrors {
		fmt.Fprintln(os.Stderr, fetchErr.Message())
	}
	if err != nil {
		return err
	}

	for _, series := range history.Series {
		path, err := export.WriteSeries(outDir, series, format)
		if err != nil {
			return err
		}
		fmt.Printf("wrote %s (%d rows)\n", path, len(series.Points))
	}

	cutoff, err := resolveCutoff(opts.cutoff, history)
	if err != nil {
		return err
	}
	printCutoffSummary(history, cutoff)

	if opts.allCutoffs {
		rows := transform.AllCutoffs(history)
		for _, symbol := range history.Symbols() {
			path, err := export.WriteCutoffCSV(outDir, symbol, rows)
			if err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", path)
		}
	}

	fmt.Printf("Data loaded successfully.%s\n", dashboard.ErrorSuffix(fetchErrors))
	return nil
}

// resolveRange picks the date range: explicit --start/--end, or a trailing
// --days window (default from configuration) ending tomorrow so today's
// close is included.
func resolveRange(opts *snapshotOptions, defaultDays int) (time.Time, time.Time, error) {
	if opts.startDate != "" || opts.endDate != "" {
		if opts.startDate == "" || opts.endDate == "" {
			return time.Time{}, time.Time{}, fmt.Errorf("--start and --end must be set together")
		}
		start, err := validation.ParseDate(opts.startDate)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		end, err := validation.ParseDate(opts.endDate)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		if err := validation.ValidateDateRange(start, end); err != nil {
			return time.Time{}, time.Time{}, err
		}
		return start, end, nil
	}

	days := opts.days
	if days <= 0 {
		days = defaultDays
	}
	end := time.Now().UTC().Truncate(24*time.Hour).AddDate(0, 0, 1)
	return end.AddDate(0, 0, -days-1), end, nil
}

// resolveCutoff parses --cutoff; "first" selects the earliest fetched date.
func resolveCutoff(value string, history *marketdata.History) (time.Time, error) {
	if value == "first" {
		dates := history.Dates()
		if len(dates) == 0 {
			return time.Time{}, fmt.Errorf("no dates in fetched data")
		}
		return dates[0], nil
	}
	return validation.ParseDate(value)
}

// printCutoffSummary prints the final cumulative change of every symbol
// since the cutoff.
func printCutoffSummary(history *marketdata.History, cutoff time.Time) {
	rows := transform.CumulativeChange(history, cutoff)

	last := make(map[string]float64)
	order := history.Symbols()
	for _, row := range rows {
		last[row.Name] = row.CumulativeChange
	}

	fmt.Printf("Cumulative change since %s:\n", cutoff.Format(dashboard.DateFormat))
	for _, symbol := range order {
		fmt.Printf("  %-8s %+.4f\n", symbol, last[symbol])
	}
}
