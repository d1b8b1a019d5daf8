// ABOUTME: Plain text table output for records, domain counts and rank trends
// ABOUTME: Uses tabwriter so columns line up in a terminal

package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"adtracker/core/domain"
	"adtracker/core/report"
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func printRecords(w io.Writer, records []domain.AdRecord) {
	records = recordsOrEmpty(records)
	tw := newTable(w)
	fmt.Fprintln(tw, "KEYWORD\tPOSITION\tDOMAIN\tTITLE\tDATE")
	for _, r := range records {
		date := ""
		if !r.CheckedAt.IsZero() {
			date = r.CheckedAt.Format(domain.DateLayout)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", r.Keyword, r.Position, r.Domain, truncate(r.Title, 60), date)
	}
	tw.Flush()
}

func printCounts(w io.Writer, counts []report.DomainCount) {
	tw := newTable(w)
	fmt.Fprintln(tw, "DOMAIN\tADS")
	for _, c := range counts {
		fmt.Fprintf(tw, "%s\t%d\n", c.Domain, c.Count)
	}
	tw.Flush()
}

func printBest(w io.Writer, best []report.BestPosition) {
	tw := newTable(w)
	fmt.Fprintln(tw, "DATE\tDOMAIN\tBEST POSITION")
	for _, b := range best {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", b.Date.Format(domain.DateLayout), b.Domain, b.Position)
	}
	tw.Flush()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
