// ABOUTME: The export command writes filtered history to an .xlsx or .csv file

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"adtracker/core/export"
)

func newExportCmd(global *globalOptions) *cobra.Command {
	filter := &historyFilter{}

	cmd := &cobra.Command{
		Use:     "export <path>",
		Short:   "Export history to a spreadsheet",
		Example: `  adtracker export ad_rankings.xlsx --since 2024-06-01`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if _, err := export.FormatFromPath(path); err != nil {
				return err
			}

			records, err := loadHistory(cmd.Context(), global, filter)
			if err != nil {
				return err
			}
			if err := export.WriteFile(path, records); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d records to %s\n", len(records), path)
			return nil
		},
	}

	filter.register(cmd)
	cmd.Flags().BoolVar(&filter.includeErrors, "include-errors", true, "include failed fetches")
	return cmd
}
