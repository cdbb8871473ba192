package crawler

import (
	"context"
	"encoding/json"
	"sort"
)

// Analyze looks up Wayback snapshots for opts.URL, crawls the live site and returns the report.
// A failed snapshot lookup is reported in Report.SnapshotError and does not stop the crawl.
func Analyze(ctx context.Context, opts Options) (Report, error) {
	return analyzeReport(ctx, opts)
}

// MarshalReport encodes the report as JSON.
// indent affects formatting only, and the output always ends with a newline.
// The caller's Pages slice is left untouched.
func MarshalReport(report Report, indent bool) []byte {
	pages := make([]Page, len(report.Pages))
	copy(pages, report.Pages)
	sortPages(pages)
	report.Pages = pages

	var (
		data []byte
		err  error
	)

	if indent {
		data, err = json.MarshalIndent(report, "", "  ")
	} else {
		data, err = json.Marshal(report)
	}

	if err != nil {
		data = []byte(`{"error":"failed to marshal report"}`)
	}

	return ensureNewline(data)
}

func ensureNewline(data []byte) []byte {
	if len(data) == 0 || data[len(data)-1] != '\n' {
		return append(data, '\n')
	}

	return data
}

func sortPages(pages []Page) {
	sort.SliceStable(pages, func(i, j int) bool {
		if pages[i].Depth != pages[j].Depth {
			return pages[i].Depth < pages[j].Depth
		}

		return pages[i].URL < pages[j].URL
	})
}
