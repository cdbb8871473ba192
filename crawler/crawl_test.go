package crawler

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCrawl_DepthOneCollectsLinksAndFiles(t *testing.T) {
	t.Parallel()

	site := newFakeSite(map[string]route{
		fixtureRoot:                 htmlPage(anchors("/about", "/doc.pdf")),
		"http://example.test/about": htmlPage(anchors("/deeper")),
	})

	result, err := Crawl(context.Background(), fixtureOptions(site, 1))
	require.NoError(t, err)

	require.Equal(t, []string{"http://example.test/", "http://example.test/about"}, result.Links)
	require.Equal(t, []FileRecord{{
		SourceURL: fixtureRoot,
		URL:       "http://example.test/doc.pdf",
		Category:  "pdf",
	}}, result.Files)
	require.Zero(t, site.count("http://example.test/doc.pdf"), "files are never fetched")
	require.Zero(t, site.count("http://example.test/deeper"), "depth 2 is beyond the limit")
	require.Contains(t, result.Discovered, "http://example.test/deeper")
}

func TestCrawl_DepthZeroFetchesOnlyRoot(t *testing.T) {
	t.Parallel()

	site := newFakeSite(map[string]route{
		fixtureRoot:                 htmlPage(anchors("/about", "/contact")),
		"http://example.test/about": htmlPage(anchors()),
	})

	result, err := Crawl(context.Background(), fixtureOptions(site, 0))
	require.NoError(t, err)

	require.Equal(t, []string{fixtureRoot}, result.Links)
	require.Equal(t, []string{fixtureRoot}, site.requested())
	require.Equal(t, []string{"http://example.test/about", "http://example.test/contact"}, result.Discovered)
}

func TestCrawl_NoURLIsFetchedTwice(t *testing.T) {
	t.Parallel()

	site := newFakeSite(map[string]route{
		fixtureRoot: htmlPage(anchors(
			"/a", "/b", "/", "#top", "http://EXAMPLE.test", "http://example.test:80/a#section",
		)),
		"http://example.test/a": htmlPage(anchors("/b", "/", "/a")),
		"http://example.test/b": htmlPage(anchors("/a", "/c")),
		"http://example.test/c": htmlPage(anchors("/", "/b")),
	})

	result, err := Crawl(context.Background(), fixtureOptions(site, 10))
	require.NoError(t, err)

	for _, requested := range site.requested() {
		require.Equal(t, 1, site.count(requested), "requested twice: %s", requested)
	}

	require.Equal(t, []string{
		"http://example.test/",
		"http://example.test/a",
		"http://example.test/b",
		"http://example.test/c",
	}, result.Links)
	require.Len(t, result.Pages, 4)
}

func TestCrawl_DepthNeverExceedsLimit(t *testing.T) {
	t.Parallel()

	site := newFakeSite(map[string]route{
		fixtureRoot:             htmlPage(anchors("/1")),
		"http://example.test/1": htmlPage(anchors("/2")),
		"http://example.test/2": htmlPage(anchors("/3")),
		"http://example.test/3": htmlPage(anchors("/4")),
	})

	result, err := Crawl(context.Background(), fixtureOptions(site, 2))
	require.NoError(t, err)

	for _, page := range result.Pages {
		require.LessOrEqual(t, page.Depth, 2)
	}

	require.Equal(t, []string{
		"http://example.test/",
		"http://example.test/1",
		"http://example.test/2",
	}, site.requested())
}

func TestCrawl_BreadthFirstOrder(t *testing.T) {
	t.Parallel()

	site := newFakeSite(map[string]route{
		fixtureRoot:                 htmlPage(anchors("/left", "/right")),
		"http://example.test/left":  htmlPage(anchors("/left/deep")),
		"http://example.test/right": htmlPage(anchors("/right/deep")),
	})

	_, err := Crawl(context.Background(), fixtureOptions(site, 2))
	require.NoError(t, err)

	require.Equal(t, []string{
		"http://example.test/",
		"http://example.test/left",
		"http://example.test/right",
		"http://example.test/left/deep",
		"http://example.test/right/deep",
	}, site.requested())
}

func TestCrawl_DiscardsMalformedAndNonHTTPReferences(t *testing.T) {
	t.Parallel()

	site := newFakeSite(map[string]route{
		fixtureRoot: htmlPage(anchors(
			"mailto:someone@example.test",
			"javascript:void(0)",
			"ftp://example.test/file.txt",
			"tel:+123",
			"http://[::1",
			"",
			"#only-fragment",
			"/valid",
		)),
		"http://example.test/valid": htmlPage(anchors()),
	})

	result, err := Crawl(context.Background(), fixtureOptions(site, 1))
	require.NoError(t, err)

	require.Equal(t, []string{"http://example.test/valid"}, result.Discovered)
	require.Empty(t, result.Files)
	require.Equal(t, []string{"http://example.test/", "http://example.test/valid"}, site.requested())
}

func TestCrawl_CollectsFilesFromResourcesAndExternalHosts(t *testing.T) {
	t.Parallel()

	body := `<html><head>
		<link rel="stylesheet" href="/css/site.css">
		<link rel="alternate" href="/feed">
		<script src="https://cdn.test/lib.js"></script>
		</head><body>
		<img src="/img/Photo.JPG">
		<a href="https://files.test/archive.zip">zip</a>
		<a href="/docs/Guide.PDF?download=1">guide</a>
		<a href="/img/Photo.JPG">same photo</a>
		</body></html>`

	site := newFakeSite(map[string]route{fixtureRoot: htmlPage(body)})

	result, err := Crawl(context.Background(), fixtureOptions(site, 1))
	require.NoError(t, err)

	require.Equal(t, []FileRecord{
		{SourceURL: fixtureRoot, URL: "http://example.test/css/site.css", Category: "stylesheet"},
		{SourceURL: fixtureRoot, URL: "http://example.test/docs/Guide.PDF?download=1", Category: "pdf"},
		{SourceURL: fixtureRoot, URL: "http://example.test/img/Photo.JPG", Category: "image"},
		{SourceURL: fixtureRoot, URL: "https://cdn.test/lib.js", Category: "script"},
		{SourceURL: fixtureRoot, URL: "https://files.test/archive.zip", Category: "archive"},
	}, result.Files)
	require.Equal(t, []string{fixtureRoot}, site.requested(), "resources are never fetched")
}

func TestCrawl_FileSourceIsFirstPageSeen(t *testing.T) {
	t.Parallel()

	site := newFakeSite(map[string]route{
		fixtureRoot:             htmlPage(anchors("/a", "/b")),
		"http://example.test/a": htmlPage(anchors("/shared.pdf")),
		"http://example.test/b": htmlPage(anchors("/shared.pdf")),
	})

	result, err := Crawl(context.Background(), fixtureOptions(site, 1))
	require.NoError(t, err)

	require.Len(t, result.Files, 1)
	require.Equal(t, "http://example.test/a", result.Files[0].SourceURL)
}

func TestCrawl_CustomExtensions(t *testing.T) {
	t.Parallel()

	site := newFakeSite(map[string]route{
		fixtureRoot: htmlPage(anchors("/data.csv", "/doc.pdf")),
		"http://example.test/doc.pdf": {
			status: http.StatusOK, contentType: "application/pdf", body: "%PDF",
		},
	})

	opts := fixtureOptions(site, 1)
	opts.Extensions = map[string][]string{"data": {"csv"}}

	result, err := Crawl(context.Background(), opts)
	require.NoError(t, err)

	require.Equal(t, []FileRecord{
		{SourceURL: fixtureRoot, URL: "http://example.test/data.csv", Category: "data"},
	}, result.Files)
	require.Contains(t, result.Links, "http://example.test/doc.pdf")
}

func TestCrawl_NonHTMLPagesAreNotParsed(t *testing.T) {
	t.Parallel()

	site := newFakeSite(map[string]route{
		fixtureRoot: htmlPage(anchors("/feed")),
		"http://example.test/feed": {
			status:      http.StatusOK,
			contentType: "application/json",
			body:        `{"html":"<a href=\"/hidden\">x</a>"}`,
		},
	})

	result, err := Crawl(context.Background(), fixtureOptions(site, 3))
	require.NoError(t, err)

	require.Equal(t, []string{"http://example.test/", "http://example.test/feed"}, result.Links)
	require.Zero(t, site.count("http://example.test/hidden"))

	feed := result.Pages[1]
	require.Equal(t, "http://example.test/feed", feed.URL)
	require.Equal(t, statusOK, feed.Status)
	require.Equal(t, http.StatusOK, feed.HTTPStatus)
}

func TestCrawl_MaxPagesCapsFetches(t *testing.T) {
	t.Parallel()

	site := newFakeSite(map[string]route{
		fixtureRoot:             htmlPage(anchors("/1", "/2", "/3")),
		"http://example.test/1": htmlPage(anchors()),
		"http://example.test/2": htmlPage(anchors()),
		"http://example.test/3": htmlPage(anchors()),
	})

	opts := fixtureOptions(site, 1)
	opts.MaxPages = 2

	result, err := Crawl(context.Background(), opts)
	require.NoError(t, err)

	require.Len(t, site.requested(), 2)
	require.Equal(t, []string{"http://example.test/", "http://example.test/1"}, result.Links)
	require.Contains(t, result.Discovered, "http://example.test/3")
}

func TestCrawl_CanceledContextStops(t *testing.T) {
	t.Parallel()

	site := newFakeSite(map[string]route{fixtureRoot: htmlPage(anchors("/a"))})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := Crawl(ctx, fixtureOptions(site, 1))
	require.ErrorIs(t, err, context.Canceled)
	require.Empty(t, result.Links)
	require.Empty(t, site.requested())
}

func TestCrawl_IsIdempotent(t *testing.T) {
	t.Parallel()

	routes := map[string]route{
		fixtureRoot:                 htmlPage(anchors("/about", "/doc.pdf", "https://other.test/")),
		"http://example.test/about": htmlPage(anchors("/", "/team", "/logo.png")),
		"http://example.test/team":  htmlPage(anchors("/about")),
	}

	first, err := Crawl(context.Background(), fixtureOptions(newFakeSite(routes), 2))
	require.NoError(t, err)

	second, err := Crawl(context.Background(), fixtureOptions(newFakeSite(routes), 2))
	require.NoError(t, err)

	require.Equal(t, first, second)
}

func pageByURL(t *testing.T, pages []Page, rawURL string) Page {
	t.Helper()

	for _, page := range pages {
		if page.URL == rawURL {
			return page
		}
	}

	require.Failf(t, "page not found", "no page for %s in %v", rawURL, pages)

	return Page{}
}

func TestCrawl_RedirectResolvesAgainstTarget(t *testing.T) {
	t.Parallel()

	site := newFakeSite(map[string]route{
		fixtureRoot:                      htmlPage(anchors("/docs", "/docs/")),
		"http://example.test/docs":       redirectTo("/docs/"),
		"http://example.test/docs/":      htmlPage(anchors("intro")),
		"http://example.test/docs/intro": htmlPage(anchors()),
	})

	result, err := Crawl(context.Background(), fixtureOptions(site, 2))
	require.NoError(t, err)

	require.Equal(t, 1, site.count("http://example.test/docs"))
	require.Equal(t, 1, site.count("http://example.test/docs/"))
	require.Equal(t, 1, site.count("http://example.test/docs/intro"))
	require.Zero(t, site.count("http://example.test/intro"))

	require.Contains(t, result.Discovered, "http://example.test/docs/intro")
	require.NotContains(t, result.Discovered, "http://example.test/intro")

	redirect := pageByURL(t, result.Pages, "http://example.test/docs")
	require.Equal(t, statusRedirect, redirect.Status)
	require.Equal(t, http.StatusMovedPermanently, redirect.HTTPStatus)
	require.Equal(t, "http://example.test/docs/", redirect.RedirectURL)
	require.Empty(t, redirect.Error)

	target := pageByURL(t, result.Pages, "http://example.test/docs/")
	require.Equal(t, statusOK, target.Status)
	require.Equal(t, 1, target.Depth)
}

func TestCrawl_RedirectTargetKeepsDepth(t *testing.T) {
	t.Parallel()

	site := newFakeSite(map[string]route{
		fixtureRoot:                    htmlPage(anchors("/old")),
		"http://example.test/old":      redirectTo("http://example.test/new"),
		"http://example.test/new":      htmlPage(anchors("/too-deep")),
		"http://example.test/too-deep": htmlPage(anchors()),
	})

	result, err := Crawl(context.Background(), fixtureOptions(site, 1))
	require.NoError(t, err)

	require.Equal(t, []string{
		"http://example.test/",
		"http://example.test/new",
		"http://example.test/old",
	}, result.Links)
	require.Equal(t, 1, pageByURL(t, result.Pages, "http://example.test/new").Depth)
	require.Zero(t, site.count("http://example.test/too-deep"))
	require.Contains(t, result.Discovered, "http://example.test/too-deep")
}

func TestCrawl_OffSiteRedirectIsNotFollowed(t *testing.T) {
	t.Parallel()

	site := newFakeSite(map[string]route{
		fixtureRoot:                  htmlPage(anchors("/out")),
		"http://example.test/out":    redirectTo("https://other.test/landing"),
		"https://other.test/landing": htmlPage(anchors("https://other.test/secret")),
	})

	result, err := Crawl(context.Background(), fixtureOptions(site, 3))
	require.NoError(t, err)

	require.Zero(t, site.count("https://other.test/landing"))
	require.Contains(t, result.Discovered, "https://other.test/landing")
	require.NotContains(t, result.Links, "https://other.test/landing")
	require.NotContains(t, result.Discovered, "https://other.test/secret")

	out := pageByURL(t, result.Pages, "http://example.test/out")
	require.Equal(t, statusRedirect, out.Status)
	require.Equal(t, "https://other.test/landing", out.RedirectURL)
}

func TestCrawl_RedirectLoopFetchesEachURLOnce(t *testing.T) {
	t.Parallel()

	site := newFakeSite(map[string]route{
		fixtureRoot:             htmlPage(anchors("/a")),
		"http://example.test/a": redirectTo("/b"),
		"http://example.test/b": redirectTo("/a"),
	})

	result, err := Crawl(context.Background(), fixtureOptions(site, 2))
	require.NoError(t, err)

	require.Equal(t, 1, site.count("http://example.test/a"))
	require.Equal(t, 1, site.count("http://example.test/b"))
	require.Len(t, site.requested(), 3)
	require.Len(t, result.Pages, 3)
}

func TestCrawl_RedirectToFileIsRecorded(t *testing.T) {
	t.Parallel()

	site := newFakeSite(map[string]route{
		fixtureRoot:                    htmlPage(anchors("/download")),
		"http://example.test/download": redirectTo("/files/report.pdf"),
	})

	result, err := Crawl(context.Background(), fixtureOptions(site, 1))
	require.NoError(t, err)

	require.Zero(t, site.count("http://example.test/files/report.pdf"))
	require.Equal(t, []FileRecord{{
		SourceURL: "http://example.test/download",
		URL:       "http://example.test/files/report.pdf",
		Category:  "pdf",
	}}, result.Files)
}
