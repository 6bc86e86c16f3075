package main

import (
	"fmt"
	"io"
	"time"

	"github.com/fwojciec/linkscan"
	"github.com/rodaine/table"
)

func printSummary(w io.Writer, report *linkscan.Report) {
	stats := report.Stats()
	fmt.Fprintf(w, "Pages scanned: %d\n", stats.PagesScanned)
	fmt.Fprintf(w, "Links found:   %d\n", stats.LinksFound)
	fmt.Fprintf(w, "Unique links:  %d\n", stats.UniqueLinks)
	fmt.Fprintf(w, "Broken links:  %d\n", stats.BrokenLinks)
	fmt.Fprintf(w, "Duration:      %s\n", report.Duration().Round(time.Millisecond))
}

// printBrokenLinks writes one row per broken reference, grouped under the
// page it was found on.
func printBrokenLinks(w io.Writer, links []linkscan.BrokenLink) {
	tbl := table.New("Page", "Link", "Source", "Status").WithWriter(w)
	var page string
	for _, l := range links {
		source := l.Reference.SourcePage
		if source == page {
			source = ""
		}
		page = l.Reference.SourcePage
		tbl.AddRow(source, l.Reference.URL, l.Reference.Origin.String(), status(l.Result))
	}
	tbl.Print()
}

// status renders a result as "404 Not Found", or as the error when no
// status was obtained.
func status(r *linkscan.ValidationResult) string {
	if r.StatusCode == nil {
		if r.Error != "" {
			return r.Error
		}
		return r.StatusText
	}
	if r.Error != "" {
		return fmt.Sprintf("%d %s", *r.StatusCode, r.Error)
	}
	return fmt.Sprintf("%d %s", *r.StatusCode, r.StatusText)
}
