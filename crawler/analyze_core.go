package crawler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/dhanasekarraju/wayBackAnalyzer/internal/clock"
	"github.com/dhanasekarraju/wayBackAnalyzer/internal/fetcher"
	"github.com/dhanasekarraju/wayBackAnalyzer/internal/filetype"
	"github.com/dhanasekarraju/wayBackAnalyzer/internal/urlutil"
	"github.com/dhanasekarraju/wayBackAnalyzer/internal/wayback"
)

const (
	// DefaultUserAgent is sent when Options.UserAgent is empty.
	DefaultUserAgent = "wayback-analyzer/1.0"

	statusOK       = "ok"
	statusError    = "error"
	statusRedirect = "redirect"
)

// Validation errors returned before any network activity.
var (
	ErrMissingURL         = errors.New("url is required")
	ErrInvalidURL         = errors.New("invalid root url")
	ErrNegativeDepth      = errors.New("max depth must be >= 0")
	ErrNegativeSnapshots  = errors.New("max snapshots must be >= 0")
	ErrNegativePages      = errors.New("max pages must be >= 0")
	ErrHTTPClientRequired = errors.New("http client is required")
)

// prepared is the validated form of Options shared by Crawl and Analyze.
type prepared struct {
	root       *url.URL
	site       *urlutil.SiteMatcher
	classifier *filetype.Classifier
	fetch      *fetcher.Fetcher
	clock      clock.Clock
	logger     *slog.Logger
}

// Crawl traverses the site rooted at opts.URL and returns the visited links,
// discovered links, file records and page records. Fetch failures are logged and
// recorded per page; only invalid options or context cancellation return an error.
func Crawl(ctx context.Context, opts Options) (Result, error) {
	p, err := prepare(opts)
	if err != nil {
		return emptyResult(), err
	}

	return crawlPrepared(ctx, opts, p)
}

// analyzeReport runs the snapshot lookup and the crawl and assembles a report.
func analyzeReport(ctx context.Context, opts Options) (Report, error) {
	p, err := prepare(opts)
	if err != nil {
		return Report{}, err
	}

	report := newReport(opts, p)

	snapshots, snapshotErr := lookupSnapshots(ctx, opts, p)
	report.Snapshots = snapshots
	if snapshotErr != nil {
		report.SnapshotError = snapshotErr.Error()
	}

	result, err := crawlPrepared(ctx, opts, p)
	report.Links = result.Links
	report.Discovered = result.Discovered
	report.Files = result.Files
	report.Pages = result.Pages

	return report, err
}

func crawlPrepared(ctx context.Context, opts Options, p prepared) (Result, error) {
	p.logger.Info("starting crawl",
		"url", p.root.String(),
		"max_depth", opts.MaxDepth,
		"same_site", string(p.site.Policy()),
	)

	t := newTraversal(p.root, p.fetch.WithoutRedirects(), p.site, p.classifier, opts.MaxDepth, opts.MaxPages, p.logger)
	err := t.run(ctx)
	result := t.result()

	p.logger.Info("crawl finished",
		"visited", len(result.Links),
		"discovered", len(result.Discovered),
		"files", len(result.Files),
	)

	return result, err
}

// lookupSnapshots never aborts the run: failures yield an empty list and the error.
func lookupSnapshots(ctx context.Context, opts Options, p prepared) ([]Snapshot, error) {
	if opts.MaxSnapshots == 0 {
		return []Snapshot{}, nil
	}

	p.logger.Info("fetching wayback snapshots", "url", p.root.String(), "limit", opts.MaxSnapshots)

	client := wayback.New(p.fetch, opts.WaybackEndpoint, opts.WaybackArchiveBase)
	found, err := client.Snapshots(ctx, p.root.String(), opts.MaxSnapshots)
	if err != nil {
		p.logger.Warn("wayback lookup failed", "url", p.root.String(), "error", err)

		return []Snapshot{}, fmt.Errorf("wayback lookup: %w", err)
	}

	snapshots := make([]Snapshot, 0, len(found))
	for _, s := range found {
		snapshots = append(snapshots, Snapshot{
			Timestamp:   s.Timestamp,
			OriginalURL: s.OriginalURL,
			ArchivedURL: s.ArchivedURL,
			StatusCode:  s.StatusCode,
			MimeType:    s.MimeType,
		})
	}

	p.logger.Info("wayback snapshots fetched", "count", len(snapshots))

	return snapshots, nil
}

func prepare(opts Options) (prepared, error) {
	if opts.URL == "" {
		return prepared{}, ErrMissingURL
	}

	root, err := urlutil.ParseAbsolute(opts.URL)
	if err != nil {
		return prepared{}, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}

	if opts.MaxDepth < 0 {
		return prepared{}, fmt.Errorf("%w (got %d)", ErrNegativeDepth, opts.MaxDepth)
	}

	if opts.MaxSnapshots < 0 {
		return prepared{}, fmt.Errorf("%w (got %d)", ErrNegativeSnapshots, opts.MaxSnapshots)
	}

	if opts.MaxPages < 0 {
		return prepared{}, fmt.Errorf("%w (got %d)", ErrNegativePages, opts.MaxPages)
	}

	if opts.HTTPClient == nil {
		return prepared{}, ErrHTTPClientRequired
	}

	policy, err := urlutil.ParseSitePolicy(opts.SameSite)
	if err != nil {
		return prepared{}, err
	}

	classifier := filetype.Default()
	if opts.Extensions != nil {
		classifier = filetype.NewClassifier(opts.Extensions)
	}

	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}

	timer := opts.Clock
	if timer == nil {
		timer = clock.NewSystem()
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return prepared{
		root:       root,
		site:       urlutil.NewSiteMatcher(root, policy),
		classifier: classifier,
		fetch:      fetcher.New(opts.HTTPClient, opts.Timeout, userAgent, opts.MaxBodyBytes),
		clock:      timer,
		logger:     logger,
	}, nil
}

func newReport(opts Options, p prepared) Report {
	return Report{
		RootURL:      p.root.String(),
		Domain:       urlutil.DomainName(p.root),
		MaxDepth:     opts.MaxDepth,
		MaxSnapshots: opts.MaxSnapshots,
		SameSite:     string(p.site.Policy()),
		GeneratedAt:  p.clock.Now().UTC().Format(time.RFC3339),
		Snapshots:    []Snapshot{},
		Links:        []string{},
		Discovered:   []string{},
		Files:        []FileRecord{},
		Pages:        []Page{},
	}
}

func emptyResult() Result {
	return Result{
		Links:      []string{},
		Discovered: []string{},
		Files:      []FileRecord{},
		Pages:      []Page{},
	}
}
