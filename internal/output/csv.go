package output

import (
	"fmt"
	"os"
	"sort"

	"github.com/gocarina/gocsv"

	"github.com/dhanasekarraju/wayBackAnalyzer/crawler"
)

// SnapshotRow is one line of snapshots.csv.
type SnapshotRow struct {
	Timestamp   string `csv:"timestamp"`
	OriginalURL string `csv:"original_url"`
	ArchivedURL string `csv:"archived_url"`
	StatusCode  int    `csv:"status_code"`
	MimeType    string `csv:"mime_type"`
}

// FileRow is one line of files.csv.
type FileRow struct {
	SourceURL string `csv:"source_url"`
	URL       string `csv:"url"`
	Category  string `csv:"category"`
}

func snapshotRows(snapshots []crawler.Snapshot) []SnapshotRow {
	rows := make([]SnapshotRow, 0, len(snapshots))
	for _, s := range snapshots {
		rows = append(rows, SnapshotRow{
			Timestamp:   s.Timestamp,
			OriginalURL: s.OriginalURL,
			ArchivedURL: s.ArchivedURL,
			StatusCode:  s.StatusCode,
			MimeType:    s.MimeType,
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Timestamp < rows[j].Timestamp
	})

	return rows
}

func fileRows(files []crawler.FileRecord) []FileRow {
	rows := make([]FileRow, 0, len(files))
	for _, f := range files {
		rows = append(rows, FileRow{SourceURL: f.SourceURL, URL: f.URL, Category: f.Category})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Category != rows[j].Category {
			return rows[i].Category < rows[j].Category
		}

		return rows[i].URL < rows[j].URL
	})

	return rows
}

// writeCSV marshals rows, a pointer-free slice of tagged structs, into path.
func writeCSV[T any](path string, rows []T) error {
	file, err := os.Create(path) //nolint:gosec // path is built from the output directory
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	if err := gocsv.MarshalFile(&rows, file); err != nil {
		_ = file.Close()
		return fmt.Errorf("write csv %s: %w", path, err)
	}

	if err := file.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}

	return nil
}
