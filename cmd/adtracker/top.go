// ABOUTME: The top command ranks domains by how often their ads appear in history

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"adtracker/core/report"
)

func newTopCmd(global *globalOptions) *cobra.Command {
	filter := &historyFilter{}
	var (
		n           int
		advertisers bool
	)

	cmd := &cobra.Command{
		Use:   "top",
		Short: "Show the most frequent advertising domains",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := loadHistory(cmd.Context(), global, filter)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(records) == 0 {
				fmt.Fprintln(out, "No ads recorded yet.")
				return nil
			}
			if advertisers {
				printCounts(out, report.TopAdvertisers(records, n))
				return nil
			}
			printCounts(out, report.TopDomains(records, n))
			return nil
		},
	}

	filter.register(cmd)
	cmd.Flags().IntVarP(&n, "n", "n", 10, "number of domains to show, 0 for all")
	cmd.Flags().BoolVar(&advertisers, "advertisers", false, "group subdomains under their registrable domain")
	return cmd
}
