package output

import (
	"io"

	"github.com/rodaine/table"

	"github.com/dhanasekarraju/wayBackAnalyzer/crawler"
)

// PrintSummary prints the result counts as a terminal table.
func PrintSummary(w io.Writer, report crawler.Report, dir string) {
	tbl := table.New("Item", "Count").WithWriter(w)

	tbl.AddRow("Snapshots", len(report.Snapshots))
	tbl.AddRow("Visited links", len(report.Links))
	tbl.AddRow("Discovered links", len(report.Discovered))
	for _, row := range categoryCounts(report.Files) {
		tbl.AddRow("Files: "+row[0], row[1])
	}
	tbl.AddRow("Failed pages", len(failedPages(report.Pages)))
	if dir != "" {
		tbl.AddRow("Output", dir)
	}

	tbl.Print()
}
