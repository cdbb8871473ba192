package crawler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/dhanasekarraju/wayBackAnalyzer/internal/clock"
)

// Options configures a crawl and snapshot lookup.
// MaxDepth is the maximum crawl depth from the root (0 fetches only the root).
// MaxSnapshots caps the Wayback lookup; 0 skips it.
// MaxPages caps fetched pages; 0 means unlimited.
// SameSite is one of "origin", "host" or "domain"; empty selects "host".
// Extensions maps file categories to extensions; nil selects the built-in map.
type Options struct {
	URL                string
	MaxDepth           int
	MaxSnapshots       int
	MaxPages           int
	SameSite           string
	Extensions         map[string][]string
	UserAgent          string
	Timeout            time.Duration
	MaxBodyBytes       int64
	WaybackEndpoint    string
	WaybackArchiveBase string
	HTTPClient         *http.Client
	Clock              clock.Clock
	Logger             *slog.Logger
}

// Result holds the outcome of a crawl.
// Links is the visited set; Discovered holds every http(s) anchor seen on fetched pages.
type Result struct {
	Links      []string     `json:"links"`
	Discovered []string     `json:"discovered"`
	Files      []FileRecord `json:"files"`
	Pages      []Page       `json:"pages"`
}

// FileRecord describes a downloadable resource referenced by a crawled page.
type FileRecord struct {
	SourceURL string `json:"source_url"`
	URL       string `json:"url"`
	Category  string `json:"category"`
}

// Page describes a visited URL. HTTPStatus is 0 when no response was received.
type Page struct {
	URL        string `json:"url"`
	Depth      int    `json:"depth"`
	HTTPStatus int    `json:"http_status"`
	Status     string `json:"status"`
	Title      string `json:"title"`
	Error      string `json:"error"`

	// RedirectURL is the resolved Location of a 3xx page.
	RedirectURL string `json:"redirect_url,omitempty"`
}

// Snapshot is an archived capture returned by the Wayback lookup.
type Snapshot struct {
	Timestamp   string `json:"timestamp"`
	OriginalURL string `json:"original_url"`
	ArchivedURL string `json:"archived_url"`
	StatusCode  int    `json:"status_code"`
	MimeType    string `json:"mime_type"`
}

// Report is the combined result returned by Analyze.
// SnapshotError is set when the lookup failed; Snapshots is then empty.
type Report struct {
	RootURL       string       `json:"root_url"`
	Domain        string       `json:"domain"`
	MaxDepth      int          `json:"max_depth"`
	MaxSnapshots  int          `json:"max_snapshots"`
	SameSite      string       `json:"same_site"`
	GeneratedAt   string       `json:"generated_at"`
	Snapshots     []Snapshot   `json:"snapshots"`
	SnapshotError string       `json:"snapshot_error"`
	Links         []string     `json:"links"`
	Discovered    []string     `json:"discovered"`
	Files         []FileRecord `json:"files"`
	Pages         []Page       `json:"pages"`
}
