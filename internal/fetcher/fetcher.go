package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultMaxBodyBytes caps response bodies when no limit is configured.
const DefaultMaxBodyBytes int64 = 10 * 1024 * 1024

// ErrInvalidRequest is returned when a request cannot be built from the URL.
var ErrInvalidRequest = errors.New("invalid request")

// StatusError reports a response outside the 2xx range.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return statusText(e.StatusCode)
}

// Result contains the HTTP response data.
type Result struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// ContentType returns the media type of the response without parameters.
func (r Result) ContentType() string {
	value := r.Header.Get("Content-Type")
	if idx := strings.Index(value, ";"); idx >= 0 {
		value = value[:idx]
	}

	return strings.ToLower(strings.TrimSpace(value))
}

// IsHTML reports whether the response can be parsed for links.
// A missing Content-Type is treated as HTML.
func (r Result) IsHTML() bool {
	contentType := r.ContentType()

	return contentType == "" || strings.Contains(contentType, "html")
}

// Redirect returns the Location of a 3xx response, unresolved.
// It only reports true when redirects were not followed by the client.
func (r Result) Redirect() (string, bool) {
	if r.StatusCode < http.StatusMultipleChoices || r.StatusCode >= http.StatusBadRequest {
		return "", false
	}

	location := strings.TrimSpace(r.Header.Get("Location"))

	return location, location != ""
}

// Fetcher performs single GET requests. It never retries.
type Fetcher struct {
	client          *http.Client
	timeout         time.Duration
	userAgent       string
	maxBodyBytes    int64
	returnRedirects bool
}

// New creates a Fetcher with the provided configuration.
func New(client *http.Client, timeout time.Duration, userAgent string, maxBodyBytes int64) *Fetcher {
	if client == nil {
		client = &http.Client{}
	}

	if maxBodyBytes <= 0 {
		maxBodyBytes = DefaultMaxBodyBytes
	}

	return &Fetcher{
		client:       client,
		timeout:      timeout,
		userAgent:    userAgent,
		maxBodyBytes: maxBodyBytes,
	}
}

// WithoutRedirects returns a copy that hands 3xx responses back to the caller
// instead of following them. The original client is not modified.
func (f *Fetcher) WithoutRedirects() *Fetcher {
	client := *f.client
	client.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}

	clone := *f
	clone.client = &client
	clone.returnRedirects = true

	return &clone
}

// Fetch performs a GET request. Responses outside 2xx are returned together with a *StatusError,
// except redirects with a Location when the Fetcher was built by WithoutRedirects.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (Result, error) {
	requestCtx := ctx
	var cancel context.CancelFunc
	if f.timeout > 0 {
		requestCtx, cancel = context.WithTimeout(ctx, f.timeout)
	}
	if cancel != nil {
		defer cancel()
	}

	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	if parsedURL.Path == "" {
		parsedURL.Path = "/"
	}

	request, err := http.NewRequestWithContext(requestCtx, http.MethodGet, parsedURL.String(), nil)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	if f.userAgent != "" {
		request.Header.Set("User-Agent", f.userAgent)
	}

	response, err := f.client.Do(request)
	if err != nil {
		return Result{}, err
	}
	defer func() {
		_ = response.Body.Close()
	}()

	body, err := io.ReadAll(io.LimitReader(response.Body, f.maxBodyBytes))
	if err != nil {
		return Result{StatusCode: response.StatusCode, Header: response.Header}, fmt.Errorf("read body: %w", err)
	}

	result := Result{StatusCode: response.StatusCode, Header: response.Header, Body: body}
	if _, ok := result.Redirect(); ok && f.returnRedirects {
		return result, nil
	}

	if response.StatusCode < http.StatusOK || response.StatusCode >= http.StatusMultipleChoices {
		return result, &StatusError{StatusCode: response.StatusCode}
	}

	return result, nil
}

func statusText(statusCode int) string {
	text := http.StatusText(statusCode)
	if text == "" {
		return fmt.Sprintf("http status %d", statusCode)
	}

	return fmt.Sprintf("http status %d: %s", statusCode, text)
}
