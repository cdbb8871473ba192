package crawler_test

import (
	"bytes"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dhanasekarraju/wayBackAnalyzer/internal/clock"
)

const (
	fixtureBaseURL = "http://example.test/"
	fixtureCDXURL  = "http://cdx.test/cdx/search/cdx"
)

var fixtureTime = time.Date(2024, time.June, 1, 12, 34, 56, 0, time.UTC)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (fn roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) { return fn(req) }

func readFixture(t *testing.T, parts ...string) []byte {
	t.Helper()

	path := filepath.Join(append([]string{"..", "testdata"}, parts...)...)
	b, err := os.ReadFile(path)
	require.NoError(t, err, "failed to read fixture: %s", path)

	return b
}

// newFixtureClient serves testdata/site pages for example.test and testdata/cdx for cdx.test.
func newFixtureClient(t *testing.T) *http.Client {
	t.Helper()

	rootHTML := readFixture(t, "site", "root.html")
	aboutHTML := readFixture(t, "site", "about.html")
	cdx := readFixture(t, "cdx", "snapshots.json")

	return &http.Client{
		Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
			if req.URL.Host == "cdx.test" {
				return responseWithBody(http.StatusOK, cdx, http.Header{
					"Content-Type": []string{"application/json"},
				}), nil
			}

			switch req.URL.Path {
			case "/":
				return responseWithBody(http.StatusOK, rootHTML, http.Header{
					"Content-Type": []string{"text/html"},
				}), nil
			case "/about":
				return responseWithBody(http.StatusOK, aboutHTML, http.Header{
					"Content-Type": []string{"text/html"},
				}), nil
			default:
				return responseWithBody(http.StatusNotFound, []byte("not found"), http.Header{}), nil
			}
		}),
	}
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

func fixedClock() clock.Clock {
	return clock.Fixed{At: fixtureTime}
}
