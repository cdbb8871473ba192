package crawler

import (
	"context"
	"log/slog"
	"net/url"
	"sort"

	"github.com/dhanasekarraju/wayBackAnalyzer/internal/fetcher"
	"github.com/dhanasekarraju/wayBackAnalyzer/internal/filetype"
	"github.com/dhanasekarraju/wayBackAnalyzer/internal/parser"
	"github.com/dhanasekarraju/wayBackAnalyzer/internal/urlutil"
	"github.com/dhanasekarraju/wayBackAnalyzer/internal/visited"
)

// pageFetcher is the HTTP capability the traversal depends on.
type pageFetcher interface {
	Fetch(ctx context.Context, rawURL string) (fetcher.Result, error)
}

type frontierEntry struct {
	url   string
	depth int
}

// traversal holds all state of a single crawl. It is created by Crawl and
// discarded when Crawl returns.
type traversal struct {
	fetch      pageFetcher
	logger     *slog.Logger
	site       *urlutil.SiteMatcher
	classifier *filetype.Classifier
	maxDepth   int
	maxPages   int

	frontier   []frontierEntry
	queued     *visited.Set
	visited    *visited.Set
	discovered *visited.Set
	files      map[string]FileRecord
	pages      []Page
	lastDepth  int
}

func newTraversal(
	root *url.URL,
	fetch pageFetcher,
	site *urlutil.SiteMatcher,
	classifier *filetype.Classifier,
	maxDepth int,
	maxPages int,
	logger *slog.Logger,
) *traversal {
	t := &traversal{
		fetch:      fetch,
		logger:     logger,
		site:       site,
		classifier: classifier,
		maxDepth:   maxDepth,
		maxPages:   maxPages,
		queued:     visited.New(),
		visited:    visited.New(),
		discovered: visited.New(),
		files:      map[string]FileRecord{},
		lastDepth:  -1,
	}

	t.push(frontierEntry{url: root.String(), depth: 0})

	return t
}

// run drains the frontier breadth-first. It stops early only when ctx is done
// or the page cap is reached.
func (t *traversal) run(ctx context.Context) error {
	for len(t.frontier) > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}

		if t.maxPages > 0 && t.visited.Len() >= t.maxPages {
			t.logger.Info("page limit reached", "max_pages", t.maxPages, "pending", len(t.frontier))

			break
		}

		entry := t.pop()
		if entry.depth > t.maxDepth {
			continue
		}

		if !t.visited.Add(entry.url) {
			continue
		}

		if entry.depth > t.lastDepth {
			t.lastDepth = entry.depth
			t.logger.Info("crawling depth", "depth", entry.depth)
		}

		t.visit(ctx, entry)
	}

	return nil
}

func (t *traversal) push(entry frontierEntry) {
	if entry.depth > t.maxDepth {
		return
	}

	if t.visited.Has(entry.url) || !t.queued.Add(entry.url) {
		return
	}

	t.frontier = append(t.frontier, entry)
}

func (t *traversal) pop() frontierEntry {
	entry := t.frontier[0]
	t.frontier[0] = frontierEntry{}
	t.frontier = t.frontier[1:]

	return entry
}

func (t *traversal) visit(ctx context.Context, entry frontierEntry) {
	page := Page{URL: entry.url, Depth: entry.depth}
	t.logger.Debug("fetching page", "url", entry.url, "depth", entry.depth)

	result, err := t.fetch.Fetch(ctx, entry.url)
	page.HTTPStatus = result.StatusCode
	if err != nil {
		t.logger.Warn("fetch failed", "url", entry.url, "status", result.StatusCode, "error", err)
		t.recordFailure(page, err.Error())

		return
	}

	if location, ok := result.Redirect(); ok {
		t.followRedirect(page, entry, location)

		return
	}

	page.Status = statusOK
	if !result.IsHTML() {
		t.logger.Debug("skipping non-html page", "url", entry.url, "content_type", result.ContentType())
		t.pages = append(t.pages, page)

		return
	}

	parsed, err := parser.ParseHTML(result.Body)
	if err != nil {
		t.logger.Warn("parse failed", "url", entry.url, "error", err)
		t.recordFailure(page, "parse html: "+err.Error())

		return
	}

	page.Title = parsed.Title
	t.pages = append(t.pages, page)

	base, err := url.Parse(entry.url)
	if err != nil {
		return
	}

	for _, href := range parsed.Links {
		t.handleLink(base, entry, href)
	}

	for _, ref := range parsed.Resources {
		absoluteURL, ok := urlutil.Resolve(base, ref)
		if !ok {
			continue
		}

		if category, isFile := t.classifier.Classify(absoluteURL); isFile {
			t.addFile(entry.url, absoluteURL, category)
		}
	}
}

func (t *traversal) handleLink(base *url.URL, entry frontierEntry, href string) {
	absoluteURL, ok := urlutil.Resolve(base, href)
	if !ok {
		return
	}

	if category, isFile := t.classifier.Classify(absoluteURL); isFile {
		t.addFile(entry.url, absoluteURL, category)

		return
	}

	t.discovered.Add(absoluteURL)

	if !t.site.Match(absoluteURL) {
		return
	}

	t.push(frontierEntry{url: absoluteURL, depth: entry.depth + 1})
}

// followRedirect records a 3xx page and treats its Location as a link found on
// that page. The target keeps the depth of the redirecting URL.
func (t *traversal) followRedirect(page Page, entry frontierEntry, location string) {
	page.Status = statusRedirect

	base, err := url.Parse(entry.url)
	if err != nil {
		t.pages = append(t.pages, page)

		return
	}

	target, ok := urlutil.Resolve(base, location)
	if !ok {
		t.logger.Warn("invalid redirect location", "url", entry.url, "location", location)
		t.pages = append(t.pages, page)

		return
	}

	page.RedirectURL = target
	t.pages = append(t.pages, page)
	t.logger.Debug("redirect", "url", entry.url, "location", target)

	if category, isFile := t.classifier.Classify(target); isFile {
		t.addFile(entry.url, target, category)

		return
	}

	t.discovered.Add(target)

	if !t.site.Match(target) {
		t.logger.Debug("redirect leaves site", "url", entry.url, "location", target)

		return
	}

	t.push(frontierEntry{url: target, depth: entry.depth})
}

func (t *traversal) addFile(sourceURL, fileURL, category string) {
	if _, ok := t.files[fileURL]; ok {
		return
	}

	t.files[fileURL] = FileRecord{
		SourceURL: sourceURL,
		URL:       fileURL,
		Category:  category,
	}
}

func (t *traversal) recordFailure(page Page, message string) {
	page.Status = statusError
	page.Error = message
	t.pages = append(t.pages, page)
}

func (t *traversal) result() Result {
	files := make([]FileRecord, 0, len(t.files))
	for _, record := range t.files {
		files = append(files, record)
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].URL < files[j].URL
	})

	pages := make([]Page, len(t.pages))
	copy(pages, t.pages)
	sortPages(pages)

	return Result{
		Links:      t.visited.Sorted(),
		Discovered: t.discovered.Sorted(),
		Files:      files,
		Pages:      pages,
	}
}
