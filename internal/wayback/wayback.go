// Package wayback queries the Wayback Machine CDX index for archived captures of a URL.
package wayback

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/dhanasekarraju/wayBackAnalyzer/internal/fetcher"
)

const (
	// DefaultEndpoint is the public CDX search API.
	DefaultEndpoint = "https://web.archive.org/cdx/search/cdx"
	// DefaultArchiveBase prefixes "<timestamp>/<original>" to form a replay URL.
	DefaultArchiveBase = "https://web.archive.org/web/"
)

// ErrMalformedResponse is returned when the CDX response cannot be decoded.
var ErrMalformedResponse = errors.New("malformed cdx response")

// Getter fetches a URL. *fetcher.Fetcher satisfies it.
type Getter interface {
	Fetch(ctx context.Context, rawURL string) (fetcher.Result, error)
}

// Snapshot is a single archived capture.
type Snapshot struct {
	Timestamp   string    `json:"timestamp"`
	OriginalURL string    `json:"original_url"`
	ArchivedURL string    `json:"archived_url"`
	StatusCode  int       `json:"status_code"`
	MimeType    string    `json:"mime_type"`
}

// Client looks up snapshots through a CDX endpoint.
type Client struct {
	getter      Getter
	endpoint    string
	archiveBase string
}

// New creates a Client. Empty endpoint or archiveBase fall back to the public Wayback Machine.
func New(getter Getter, endpoint, archiveBase string) *Client {
	if strings.TrimSpace(endpoint) == "" {
		endpoint = DefaultEndpoint
	}

	if strings.TrimSpace(archiveBase) == "" {
		archiveBase = DefaultArchiveBase
	}

	if !strings.HasSuffix(archiveBase, "/") {
		archiveBase += "/"
	}

	return &Client{
		getter:      getter,
		endpoint:    endpoint,
		archiveBase: archiveBase,
	}
}

// Snapshots returns at most limit captures of target, oldest first.
// A limit of zero or less returns no snapshots and performs no request.
func (c *Client) Snapshots(ctx context.Context, target string, limit int) ([]Snapshot, error) {
	if limit <= 0 {
		return []Snapshot{}, nil
	}

	queryURL, err := c.queryURL(target, limit)
	if err != nil {
		return []Snapshot{}, err
	}

	result, err := c.getter.Fetch(ctx, queryURL)
	if err != nil {
		return []Snapshot{}, fmt.Errorf("query cdx: %w", err)
	}

	snapshots, err := c.decode(result.Body)
	if err != nil {
		return []Snapshot{}, err
	}

	if len(snapshots) > limit {
		snapshots = snapshots[:limit]
	}

	return snapshots, nil
}

func (c *Client) queryURL(target string, limit int) (string, error) {
	endpoint, err := url.Parse(c.endpoint)
	if err != nil {
		return "", fmt.Errorf("parse cdx endpoint: %w", err)
	}

	query := endpoint.Query()
	query.Set("url", target)
	query.Set("output", "json")
	query.Set("fl", "timestamp,original,statuscode,mimetype")
	query.Set("limit", strconv.Itoa(limit))
	endpoint.RawQuery = query.Encode()

	return endpoint.String(), nil
}

// decode reads the CDX JSON table. The first row names the columns.
func (c *Client) decode(body []byte) ([]Snapshot, error) {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return []Snapshot{}, nil
	}

	var rows [][]string
	if err := json.Unmarshal([]byte(trimmed), &rows); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	if len(rows) == 0 {
		return []Snapshot{}, nil
	}

	columns := make(map[string]int, len(rows[0]))
	for idx, name := range rows[0] {
		columns[name] = idx
	}

	tsIdx, okTS := columns["timestamp"]
	origIdx, okOrig := columns["original"]
	if !okTS || !okOrig {
		return nil, fmt.Errorf("%w: header %v lacks timestamp or original", ErrMalformedResponse, rows[0])
	}

	snapshots := make([]Snapshot, 0, len(rows)-1)
	for _, row := range rows[1:] {
		timestamp := column(row, tsIdx)
		original := column(row, origIdx)
		if timestamp == "" || original == "" {
			continue
		}

		snapshot := Snapshot{
			Timestamp:   timestamp,
			OriginalURL: original,
			ArchivedURL: c.archiveBase + timestamp + "/" + original,
		}

		if idx, ok := columns["statuscode"]; ok {
			snapshot.StatusCode, _ = strconv.Atoi(column(row, idx))
		}

		if idx, ok := columns["mimetype"]; ok {
			snapshot.MimeType = column(row, idx)
		}

		snapshots = append(snapshots, snapshot)
	}

	return snapshots, nil
}

func column(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}
