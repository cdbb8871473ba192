// Package config loads the YAML configuration of wayback-analyzer.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"

	"github.com/dhanasekarraju/wayBackAnalyzer/internal/filetype"
	"github.com/dhanasekarraju/wayBackAnalyzer/internal/logging"
	"github.com/dhanasekarraju/wayBackAnalyzer/internal/urlutil"
)

const (
	// AppName names the XDG config subdirectory.
	AppName = "wayback-analyzer"
	// DefaultConfigFile is looked up inside the XDG config directory.
	DefaultConfigFile = "config.yaml"
	// DefaultUserAgent identifies the crawler to remote servers.
	DefaultUserAgent = "wayback-analyzer/1.0"
)

// Config is the full configuration of a run.
type Config struct {
	Crawl   CrawlConfig   `yaml:"crawl"`
	Wayback WaybackConfig `yaml:"wayback"`
	Output  OutputConfig  `yaml:"output"`
	Logging LoggingConfig `yaml:"logging"`
}

// CrawlConfig controls the live-site traversal.
type CrawlConfig struct {
	MaxDepth       int                 `yaml:"max_depth"`
	MaxPages       int                 `yaml:"max_pages"`
	SameSite       string              `yaml:"same_site"`
	UserAgent      string              `yaml:"user_agent"`
	RequestTimeout Duration            `yaml:"request_timeout"`
	MaxBodyBytes   int64               `yaml:"max_body_bytes"`
	Extensions     map[string][]string `yaml:"extensions"`
}

// WaybackConfig controls the snapshot lookup.
type WaybackConfig struct {
	MaxSnapshots int    `yaml:"max_snapshots"`
	Endpoint     string `yaml:"endpoint"`
	ArchiveBase  string `yaml:"archive_base"`
}

// OutputConfig controls where and what is written.
type OutputConfig struct {
	Directory string           `yaml:"directory"`
	Links     LinkFilterConfig `yaml:"links"`
}

// LinkFilterConfig filters link listings by substring.
type LinkFilterConfig struct {
	Include []string `yaml:"include"`
	Exclude []string `yaml:"exclude"`
}

// LoggingConfig selects log verbosity and format.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns a Config populated with the built-in defaults.
func Default() Config {
	return Config{
		Crawl: CrawlConfig{
			MaxDepth:       2,
			SameSite:       string(urlutil.DefaultSitePolicy),
			UserAgent:      DefaultUserAgent,
			RequestTimeout: DurationFrom(10 * time.Second),
			MaxBodyBytes:   10 * 1024 * 1024,
			Extensions:     filetype.DefaultExtensions(),
		},
		Wayback: WaybackConfig{
			MaxSnapshots: 10,
		},
		Output: OutputConfig{
			Directory: ".",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: logging.FormatText,
		},
	}
}

// XDGConfigDir returns the wayback-analyzer directory under the XDG config home.
// On Linux: ~/.config/wayback-analyzer
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// FindConfigFile returns the config file to load.
// An explicit path must exist. Otherwise config.yaml in the XDG config directory
// is used when present, and "" means defaults only.
func FindConfigFile(explicit string) (string, error) {
	return findConfigFile(explicit, XDGConfigDir())
}

func findConfigFile(explicit, configDir string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return "", fmt.Errorf("%w: %s", ErrConfigNotFound, explicit)
			}
			return "", fmt.Errorf("stat config: %w", err)
		}
		return explicit, nil
	}

	candidate := filepath.Join(configDir, DefaultConfigFile)
	if _, err := os.Stat(candidate); err == nil {
		return candidate, nil
	}

	return "", nil
}

// Load reads and validates configuration from a YAML file. An empty path yields the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		cfg := Default()
		return &cfg, nil
	}

	fh, err := os.Open(path) //nolint:gosec // user-provided config path is intentional
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer fh.Close()

	return LoadFromReader(fh)
}

// LoadFromReader decodes configuration from an arbitrary reader on top of the defaults.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := Default()
	if err := decodeYAML(r, &cfg); err != nil {
		return nil, err
	}
	cfg.normalise()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func decodeYAML(r io.Reader, cfg *Config) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("decode config: %w", err)
	}
	return nil
}

// Validate checks every field against its allowed range.
func (c Config) Validate() error {
	if c.Crawl.MaxDepth < 0 {
		return fmt.Errorf("%w (got %d)", ErrInvalidMaxDepth, c.Crawl.MaxDepth)
	}
	if c.Crawl.MaxPages < 0 {
		return fmt.Errorf("%w (got %d)", ErrInvalidMaxPages, c.Crawl.MaxPages)
	}
	if c.Wayback.MaxSnapshots < 0 {
		return fmt.Errorf("%w (got %d)", ErrInvalidMaxSnapshots, c.Wayback.MaxSnapshots)
	}
	if c.Crawl.RequestTimeout.Duration <= 0 {
		return fmt.Errorf("%w (got %s)", ErrInvalidTimeout, c.Crawl.RequestTimeout.Duration)
	}
	if c.Crawl.MaxBodyBytes <= 0 {
		return fmt.Errorf("%w (got %d)", ErrInvalidMaxBodyBytes, c.Crawl.MaxBodyBytes)
	}
	if _, err := urlutil.ParseSitePolicy(c.Crawl.SameSite); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSameSite, err)
	}
	for category, exts := range c.Crawl.Extensions {
		if strings.TrimSpace(category) == "" || len(exts) == 0 {
			return fmt.Errorf("%w (category %q)", ErrInvalidExtensions, category)
		}
	}
	if strings.TrimSpace(c.Output.Directory) == "" {
		return ErrEmptyOutputDir
	}
	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidLogging, err)
	}
	if _, err := logging.ParseFormat(c.Logging.Format); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidLogging, err)
	}
	return nil
}

func (c *Config) normalise() {
	c.Crawl.SameSite = strings.ToLower(strings.TrimSpace(c.Crawl.SameSite))
	c.Crawl.UserAgent = strings.TrimSpace(c.Crawl.UserAgent)
	if c.Crawl.UserAgent == "" {
		c.Crawl.UserAgent = DefaultUserAgent
	}
	c.Wayback.Endpoint = strings.TrimSpace(c.Wayback.Endpoint)
	c.Wayback.ArchiveBase = strings.TrimSpace(c.Wayback.ArchiveBase)
	c.Output.Directory = strings.TrimSpace(c.Output.Directory)

	if len(c.Crawl.Extensions) > 0 {
		cleaned := make(map[string][]string, len(c.Crawl.Extensions))
		for category, exts := range c.Crawl.Extensions {
			cleaned[strings.ToLower(strings.TrimSpace(category))] = normaliseExtensions(exts)
		}
		c.Crawl.Extensions = cleaned
	}

	c.Output.Links.Include = dedupeTrimmed(c.Output.Links.Include)
	c.Output.Links.Exclude = dedupeTrimmed(c.Output.Links.Exclude)
}

func normaliseExtensions(values []string) []string {
	dotted := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.ToLower(strings.TrimSpace(v))
		if v != "" && !strings.HasPrefix(v, ".") {
			v = "." + v
		}
		dotted = append(dotted, v)
	}
	return dedupeTrimmed(dotted)
}

func dedupeTrimmed(values []string) []string {
	unique := make(map[string]struct{}, len(values))
	cleaned := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := unique[v]; ok {
			continue
		}
		unique[v] = struct{}{}
		cleaned = append(cleaned, v)
	}
	sort.Strings(cleaned)
	return cleaned
}
