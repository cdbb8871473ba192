// Package output writes an analysis report into a directory tree.
package output

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dhanasekarraju/wayBackAnalyzer/crawler"
)

// Names of the generated entries, relative to the report directory.
const (
	ReportFile     = "report.json"
	SummaryFile    = "summary.md"
	SnapshotsDir   = "snapshots"
	LinksDir       = "links"
	FilesDir       = "files"
	SnapshotsText  = "snapshots.txt"
	SnapshotsCSV   = "snapshots.csv"
	VisitedText    = "visited.txt"
	DiscoveredText = "discovered.txt"
	FilesCSV       = "files.csv"
)

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// Filters restricts the link listings by substring.
// Include keeps only lines containing at least one entry; Exclude drops lines containing any.
type Filters struct {
	Include []string
	Exclude []string
}

// Keep reports whether line passes the filters.
func (f Filters) Keep(line string) bool {
	for _, pattern := range f.Exclude {
		if pattern != "" && strings.Contains(line, pattern) {
			return false
		}
	}

	if len(f.Include) == 0 {
		return true
	}

	for _, pattern := range f.Include {
		if strings.Contains(line, pattern) {
			return true
		}
	}

	return false
}

func (f Filters) apply(lines []string) []string {
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		if f.Keep(line) {
			kept = append(kept, line)
		}
	}

	return kept
}

// Dir returns the report directory for report under root: one folder per domain.
func Dir(root string, report crawler.Report) string {
	domain := report.Domain
	if domain == "" {
		domain = "unknown"
	}

	return filepath.Join(root, sanitize(domain))
}

func sanitize(name string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		default:
			return r
		}
	}, name)
}

// Write creates dir and writes every listing of report into it.
// Each file is fully written and closed before the next one is opened.
func Write(dir string, report crawler.Report, filters Filters) error {
	for _, sub := range []string{"", SnapshotsDir, LinksDir, FilesDir} {
		if err := os.MkdirAll(filepath.Join(dir, sub), dirPerm); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}

	if err := writeBytes(filepath.Join(dir, ReportFile), crawler.MarshalReport(report, true)); err != nil {
		return err
	}

	if err := writeSummary(filepath.Join(dir, SummaryFile), report); err != nil {
		return err
	}

	if err := writeSnapshots(filepath.Join(dir, SnapshotsDir), report.Snapshots); err != nil {
		return err
	}

	if err := writeLinks(filepath.Join(dir, LinksDir), report, filters); err != nil {
		return err
	}

	return writeFiles(filepath.Join(dir, FilesDir), report.Files)
}

func writeSnapshots(dir string, snapshots []crawler.Snapshot) error {
	archived := make([]string, 0, len(snapshots))
	for _, s := range snapshots {
		archived = append(archived, s.ArchivedURL)
	}

	if err := writeLines(filepath.Join(dir, SnapshotsText), archived); err != nil {
		return err
	}

	return writeCSV(filepath.Join(dir, SnapshotsCSV), snapshotRows(snapshots))
}

func writeLinks(dir string, report crawler.Report, filters Filters) error {
	if err := writeLines(filepath.Join(dir, VisitedText), filters.apply(report.Links)); err != nil {
		return err
	}

	return writeLines(filepath.Join(dir, DiscoveredText), filters.apply(report.Discovered))
}

func writeFiles(dir string, files []crawler.FileRecord) error {
	for category, urls := range filesByCategory(files) {
		if err := writeLines(filepath.Join(dir, sanitize(category)+".txt"), urls); err != nil {
			return err
		}
	}

	return writeCSV(filepath.Join(dir, FilesCSV), fileRows(files))
}

func filesByCategory(files []crawler.FileRecord) map[string][]string {
	grouped := map[string][]string{}
	for _, f := range files {
		grouped[f.Category] = append(grouped[f.Category], f.URL)
	}

	return grouped
}

// writeLines writes one sorted line per entry.
func writeLines(path string, lines []string) error {
	sorted := make([]string, len(lines))
	copy(sorted, lines)
	sort.Strings(sorted)

	var builder strings.Builder
	for _, line := range sorted {
		builder.WriteString(line)
		builder.WriteByte('\n')
	}

	return writeBytes(path, []byte(builder.String()))
}

func writeBytes(path string, data []byte) error {
	if err := os.WriteFile(path, data, filePerm); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}

	return nil
}
