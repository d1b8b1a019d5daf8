// ABOUTME: The history command prints stored ad records and best-rank trends
// ABOUTME: Shares keyword, domain and date filters with top and export

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"adtracker/core/domain"
	coreerrors "adtracker/core/errors"
	"adtracker/core/report"
	timeutil "adtracker/pkg/utils/time"
)

// historyFilter narrows loaded history before display or export
type historyFilter struct {
	keyword       string
	domain        string
	since         string
	includeErrors bool
}

func (f *historyFilter) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.keyword, "keyword", "", "only records for this keyword")
	cmd.Flags().StringVar(&f.domain, "domain", "", "only records for this domain or its subdomains")
	cmd.Flags().StringVar(&f.since, "since", "", "only records checked on or after this date")
}

func (f *historyFilter) query() (domain.HistoryQuery, error) {
	q := domain.HistoryQuery{Keyword: f.keyword, Domain: f.domain}
	if f.since != "" {
		since, ok := timeutil.ParseDate(f.since)
		if !ok {
			return q, &coreerrors.ValidationError{Field: "since", Message: fmt.Sprintf("cannot parse %q", f.since)}
		}
		q.Since = since
	}
	return q, nil
}

// loadHistory opens the configured store and returns its filtered records
func loadHistory(ctx context.Context, global *globalOptions, filter *historyFilter) ([]domain.AdRecord, error) {
	q, err := filter.query()
	if err != nil {
		return nil, err
	}

	a, err := newApp(global.cfg)
	if err != nil {
		return nil, err
	}
	defer a.Close()

	records, err := report.Load(ctx, a.store, q)
	if err != nil {
		return nil, err
	}
	if !filter.includeErrors {
		records = report.Ranked(records)
	}
	return records, nil
}

func newHistoryCmd(global *globalOptions) *cobra.Command {
	filter := &historyFilter{}
	var best bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded ad rankings",
		Example: `  adtracker history --keyword "running shoes"
  adtracker history --domain example.com --best`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := loadHistory(cmd.Context(), global, filter)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(records) == 0 {
				fmt.Fprintln(out, "No history records match.")
				return nil
			}
			if best {
				printBest(out, report.BestPositions(records))
				return nil
			}
			printRecords(out, records)
			return nil
		},
	}

	filter.register(cmd)
	cmd.Flags().BoolVar(&filter.includeErrors, "include-errors", false, "also show failed fetches")
	cmd.Flags().BoolVar(&best, "best", false, "show the best position per domain and date")
	return cmd
}
