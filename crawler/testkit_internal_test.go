package crawler

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/dhanasekarraju/wayBackAnalyzer/internal/clock"
)

const fixtureRoot = "http://example.test/"

var fixtureTime = time.Date(2024, time.June, 1, 12, 34, 56, 0, time.UTC)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (fn roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) { return fn(req) }

// route is a canned response. A non-nil err simulates a transport failure.
type route struct {
	status      int
	contentType string
	body        string
	location    string
	err         error
}

func htmlPage(body string) route {
	return route{status: http.StatusOK, contentType: "text/html; charset=utf-8", body: body}
}

func redirectTo(location string) route {
	return route{status: http.StatusMovedPermanently, location: location}
}

func anchors(hrefs ...string) string {
	var builder strings.Builder
	builder.WriteString("<html><body>")
	for _, href := range hrefs {
		fmt.Fprintf(&builder, `<a href="%s">link</a>`, href)
	}
	builder.WriteString("</body></html>")

	return builder.String()
}

// fakeSite serves routes keyed by absolute URL and counts every request.
type fakeSite struct {
	mu       sync.Mutex
	routes   map[string]route
	requests map[string]int
	order    []string
}

func newFakeSite(routes map[string]route) *fakeSite {
	return &fakeSite{
		routes:   routes,
		requests: map[string]int{},
	}
}

func (s *fakeSite) client() *http.Client {
	return &http.Client{
		Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
			key := req.URL.String()

			s.mu.Lock()
			s.requests[key]++
			s.order = append(s.order, key)
			r, ok := s.routes[key]
			s.mu.Unlock()

			if !ok {
				return responseForRequest(req, http.StatusNotFound, "not found", nil), nil
			}

			if r.err != nil {
				return nil, r.err
			}

			header := http.Header{}
			if r.contentType != "" {
				header.Set("Content-Type", r.contentType)
			}
			if r.location != "" {
				header.Set("Location", r.location)
			}

			return responseForRequest(req, r.status, r.body, header), nil
		}),
	}
}

func (s *fakeSite) count(rawURL string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.requests[rawURL]
}

func (s *fakeSite) requested() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]string, len(s.order))
	copy(out, s.order)

	return out
}

func responseWithBody(status int, body []byte, header http.Header) *http.Response {
	if header == nil {
		header = http.Header{}
	}

	return &http.Response{
		StatusCode: status,
		Header:     header,
		Body:       io.NopCloser(bytes.NewReader(body)),
	}
}

func responseForRequest(req *http.Request, status int, body string, header http.Header) *http.Response {
	resp := responseWithBody(status, []byte(body), header)
	resp.Request = req

	return resp
}

func fixtureOptions(site *fakeSite, maxDepth int) Options {
	return Options{
		URL:          fixtureRoot,
		MaxDepth:     maxDepth,
		MaxSnapshots: 0,
		Timeout:      time.Second,
		UserAgent:    "test-agent",
		HTTPClient:   site.client(),
		Clock:        clock.Fixed{At: fixtureTime},
	}
}
