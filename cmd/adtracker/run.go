// ABOUTME: The run command fetches ads for the given keywords and records the run
// ABOUTME: Prints the ranking table and top domains, appends history and optionally exports

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"adtracker/core/domain"
	coreerrors "adtracker/core/errors"
	"adtracker/core/export"
	"adtracker/core/keywords"
	"adtracker/core/report"
	"adtracker/core/tracker"
	"adtracker/pkg/featureflags"
	timeutil "adtracker/pkg/utils/time"
)

type runOptions struct {
	keywords    string
	file        string
	column      string
	apiKey      string
	date        string
	exportPath  string
	top         int
	concurrency int
	budget      int
	noSave      bool
	noCache     bool
	quiet       bool
}

func newRunCmd(global *globalOptions) *cobra.Command {
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Fetch ad rankings for a keyword list",
		Example: `  adtracker run --keywords "running shoes, trail shoes"
  adtracker run --file keywords.xlsx --column Keyword --export ad_rankings.xlsx`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runTracker(ctx, cmd, global, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.keywords, "keywords", "k", "", "keywords separated by commas or newlines")
	f.StringVarP(&opts.file, "file", "f", "", "keyword file (.xlsx, .csv or .txt); takes precedence over --keywords")
	f.StringVar(&opts.column, "column", "", "header of the keyword column in --file (default first column)")
	f.StringVar(&opts.apiKey, "api-key", "", "SerpApi key (default $SERPAPI_API_KEY)")
	f.StringVar(&opts.date, "date", "", "date to record the run under (default today)")
	f.StringVarP(&opts.exportPath, "export", "o", "", "also write results to this .xlsx or .csv file")
	f.IntVar(&opts.top, "top", 10, "number of top domains to show")
	f.IntVar(&opts.concurrency, "concurrency", 0, "keywords fetched at once (default from config)")
	f.IntVar(&opts.budget, "budget", -1, "maximum API requests for this run, 0 for unlimited (default from config)")
	f.BoolVar(&opts.noSave, "no-save", false, "do not append the run to history")
	f.BoolVar(&opts.noCache, "no-cache", false, "bypass the response cache")
	f.BoolVarP(&opts.quiet, "quiet", "q", false, "do not print progress")
	return cmd
}

func runTracker(ctx context.Context, cmd *cobra.Command, global *globalOptions, opts *runOptions) error {
	cfg := global.cfg
	out := cmd.OutOrStdout()
	errOut := cmd.ErrOrStderr()

	kws, err := loadKeywords(opts)
	if err != nil {
		return err
	}
	if len(kws) == 0 {
		fmt.Fprintln(out, "No keywords given. Use --keywords or --file.")
		return nil
	}

	apiKey := strings.TrimSpace(opts.apiKey)
	if apiKey == "" {
		apiKey = cfg.SerpAPI.APIKey
	}
	if apiKey == "" {
		return &coreerrors.ValidationError{Field: "api_key", Message: "set --api-key or SERPAPI_API_KEY"}
	}

	asOf := time.Now()
	if opts.date != "" {
		d, ok := timeutil.ParseDate(opts.date)
		if !ok {
			return &coreerrors.ValidationError{Field: "date", Message: fmt.Sprintf("cannot parse %q", opts.date)}
		}
		asOf = d
	}

	if opts.exportPath != "" {
		if _, err := export.FormatFromPath(opts.exportPath); err != nil {
			return err
		}
	}

	a, err := newApp(cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	concurrency := cfg.Tracker.Concurrency
	if opts.concurrency > 0 {
		concurrency = opts.concurrency
	}
	if concurrency > 1 && cmd.Flags().Changed("concurrency") {
		a.flags.SetEnabled(featureflags.ParallelFetch, true)
	}
	if opts.noCache {
		a.flags.SetEnabled(featureflags.ResponseCache, false)
	}
	budget := cfg.Tracker.RequestBudget
	if opts.budget >= 0 {
		budget = opts.budget
	}

	svc, err := a.newTracker(ctx, concurrency, budget)
	if err != nil {
		return err
	}

	progress := func(done, total int) {
		if !opts.quiet {
			fmt.Fprintf(errOut, "[%d/%d] keywords fetched\n", done, total)
		}
	}
	rs := svc.Run(ctx, kws, apiKey, asOf, progress)
	a.flushMetrics(time.Now())

	printRecords(out, rs.Records)
	sum := tracker.Summarize(rs)
	if sum.Empty {
		fmt.Fprintln(out, "\nNo ads found for the entered keywords.")
	} else {
		fmt.Fprintln(out, "\nTop domains by frequency:")
		printCounts(out, report.TopDomains(rs.Records, opts.top))
	}
	if sum.Failures > 0 {
		fmt.Fprintf(out, "\n%d keyword(s) failed: %s\n", len(sum.FailedKeywords), strings.Join(sum.FailedKeywords, ", "))
	}

	if !opts.noSave {
		// a cancelled run still records what it fetched
		if err := a.store.Append(context.WithoutCancel(ctx), rs); err != nil {
			return fmt.Errorf("saving history: %w", err)
		}
	}

	if opts.exportPath != "" {
		if err := export.WriteFile(opts.exportPath, rs.Records); err != nil {
			return err
		}
		fmt.Fprintf(out, "\nResults written to %s\n", opts.exportPath)
	}
	return nil
}

// loadKeywords reads the keyword file when given, otherwise the typed list
func loadKeywords(opts *runOptions) ([]string, error) {
	if opts.file != "" {
		return keywords.FromFile(opts.file, opts.column)
	}
	return keywords.FromText(opts.keywords), nil
}

// recordsOrEmpty keeps table output stable for nil slices
func recordsOrEmpty(records []domain.AdRecord) []domain.AdRecord {
	if records == nil {
		return []domain.AdRecord{}
	}
	return records
}
