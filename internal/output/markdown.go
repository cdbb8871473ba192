package output

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"

	"github.com/nao1215/markdown"

	"github.com/dhanasekarraju/wayBackAnalyzer/crawler"
)

func writeSummary(path string, report crawler.Report) error {
	file, err := os.Create(path) //nolint:gosec // path is built from the output directory
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	if err := renderSummary(file, report); err != nil {
		_ = file.Close()
		return fmt.Errorf("write summary: %w", err)
	}

	if err := file.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}

	return nil
}

func renderSummary(w io.Writer, report crawler.Report) error {
	md := markdown.NewMarkdown(w)

	md.H1("Wayback Analysis: " + report.Domain)
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Root URL", report.RootURL},
			{"Generated", report.GeneratedAt},
			{"Max depth", strconv.Itoa(report.MaxDepth)},
			{"Max snapshots", strconv.Itoa(report.MaxSnapshots)},
			{"Same-site policy", report.SameSite},
		},
	})
	md.PlainText("")

	md.H2("Counts")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Item", "Count"},
		Rows: [][]string{
			{"Snapshots", strconv.Itoa(len(report.Snapshots))},
			{"Visited links", strconv.Itoa(len(report.Links))},
			{"Discovered links", strconv.Itoa(len(report.Discovered))},
			{"Files", strconv.Itoa(len(report.Files))},
			{"Failed pages", strconv.Itoa(len(failedPages(report.Pages)))},
		},
	})
	md.PlainText("")

	if counts := categoryCounts(report.Files); len(counts) > 0 {
		md.H2("Files by Category")
		md.PlainText("")
		md.Table(markdown.TableSet{
			Header: []string{"Category", "Count"},
			Rows:   counts,
		})
		md.PlainText("")
	}

	md.H2("Snapshots")
	md.PlainText("")
	switch {
	case report.SnapshotError != "":
		md.PlainTextf("Snapshot lookup failed: %s", report.SnapshotError)
	case len(report.Snapshots) == 0:
		md.PlainText("No snapshots found.")
	default:
		rows := make([][]string, 0, len(report.Snapshots))
		for _, s := range report.Snapshots {
			rows = append(rows, []string{s.Timestamp, s.ArchivedURL})
		}
		md.Table(markdown.TableSet{
			Header: []string{"Timestamp", "Archived URL"},
			Rows:   rows,
		})
	}
	md.PlainText("")

	if failed := failedPages(report.Pages); len(failed) > 0 {
		md.H2("Failed Pages")
		md.PlainText("")
		items := make([]string, 0, len(failed))
		for _, page := range failed {
			items = append(items, page.URL+": "+page.Error)
		}
		md.BulletList(items...)
		md.PlainText("")
	}

	return md.Build()
}

func failedPages(pages []crawler.Page) []crawler.Page {
	var failed []crawler.Page
	for _, page := range pages {
		if page.Error != "" {
			failed = append(failed, page)
		}
	}

	return failed
}

// categoryCounts returns [category, count] rows sorted by category.
func categoryCounts(files []crawler.FileRecord) [][]string {
	counts := map[string]int{}
	for _, f := range files {
		counts[f.Category]++
	}

	categories := make([]string, 0, len(counts))
	for category := range counts {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	rows := make([][]string, 0, len(categories))
	for _, category := range categories {
		rows = append(rows, []string{category, strconv.Itoa(counts[category])})
	}

	return rows
}
