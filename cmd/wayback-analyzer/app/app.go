package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/urfave/cli"

	"github.com/dhanasekarraju/wayBackAnalyzer/crawler"
	"github.com/dhanasekarraju/wayBackAnalyzer/internal/clock"
	"github.com/dhanasekarraju/wayBackAnalyzer/internal/config"
	"github.com/dhanasekarraju/wayBackAnalyzer/internal/logging"
	"github.com/dhanasekarraju/wayBackAnalyzer/internal/output"
)

const appName = "wayback-analyzer"

// Run executes the CLI: it looks up snapshots, crawls the site, writes the output
// tree and prints a summary table to stdout. Logs go to stderr.
// A missing URL prints help and returns crawler.ErrMissingURL.
func Run(
	ctx context.Context,
	args []string,
	stdout, stderr io.Writer,
	client *http.Client,
	timer clock.Clock,
) error {
	app := cli.NewApp()
	app.Name = appName
	app.Usage = "list Wayback Machine snapshots and crawl a site for links and files"
	app.UsageText = appName + " [options] <url>"
	app.HideVersion = true
	app.Writer = stdout
	app.ErrWriter = stderr
	app.Flags = []cli.Flag{
		cli.IntFlag{
			Name:  "max-depth",
			Usage: "crawl depth (0 fetches only the start page)",
			Value: 2,
		},
		cli.IntFlag{
			Name:  "max-snapshots",
			Usage: "maximum number of Wayback snapshots to list (0 skips the lookup)",
			Value: 10,
		},
		cli.StringFlag{
			Name:  "output, o",
			Usage: "output root directory; results go to <output>/<domain>",
			Value: ".",
		},
		cli.StringFlag{
			Name:  "config, c",
			Usage: "YAML config file (default: $XDG_CONFIG_HOME/" + config.AppName + "/" + config.DefaultConfigFile + ")",
		},
		cli.DurationFlag{
			Name:  "timeout",
			Usage: "per-request timeout",
			Value: 10 * time.Second,
		},
		cli.StringFlag{
			Name:  "user-agent",
			Usage: "custom user agent",
		},
		cli.StringFlag{
			Name:  "same-site",
			Usage: "which links to follow: origin, host or domain",
			Value: "host",
		},
		cli.IntFlag{
			Name:  "max-pages",
			Usage: "cap on fetched pages (0 = unlimited)",
		},
		cli.BoolFlag{
			Name:  "verbose",
			Usage: "enable debug logging",
		},
		cli.StringFlag{
			Name:  "log-format",
			Usage: "log format: text or json",
			Value: "text",
		},
	}
	app.Action = func(c *cli.Context) error {
		rootURL := c.Args().First()
		if rootURL == "" {
			_ = cli.ShowAppHelp(c)

			return crawler.ErrMissingURL
		}

		cfg, err := loadConfig(c)
		if err != nil {
			return err
		}

		logger, err := logging.New(stderr, cfg.Logging.Level, cfg.Logging.Format)
		if err != nil {
			return err
		}

		return analyze(ctx, rootURL, cfg, stdout, client, timer, logger)
	}

	return app.Run(reorderArgs(app.Flags, args))
}

func analyze(
	ctx context.Context,
	rootURL string,
	cfg *config.Config,
	stdout io.Writer,
	client *http.Client,
	timer clock.Clock,
	logger *slog.Logger,
) error {
	report, err := crawler.Analyze(ctx, optionsFromConfig(rootURL, cfg, client, timer, logger))
	if err != nil {
		return err
	}

	dir := output.Dir(cfg.Output.Directory, report)
	filters := output.Filters{
		Include: cfg.Output.Links.Include,
		Exclude: cfg.Output.Links.Exclude,
	}

	if err := output.Write(dir, report, filters); err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	logger.Info("results written", "dir", dir)
	output.PrintSummary(stdout, report, dir)

	return nil
}

// loadConfig reads the config file, then applies the flags the user set explicitly.
func loadConfig(c *cli.Context) (*config.Config, error) {
	path, err := config.FindConfigFile(c.String("config"))
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	if c.IsSet("max-depth") {
		cfg.Crawl.MaxDepth = c.Int("max-depth")
	}
	if c.IsSet("max-snapshots") {
		cfg.Wayback.MaxSnapshots = c.Int("max-snapshots")
	}
	if c.IsSet("max-pages") {
		cfg.Crawl.MaxPages = c.Int("max-pages")
	}
	if c.IsSet("output") {
		cfg.Output.Directory = c.String("output")
	}
	if c.IsSet("timeout") {
		cfg.Crawl.RequestTimeout = config.DurationFrom(c.Duration("timeout"))
	}
	if c.IsSet("user-agent") {
		cfg.Crawl.UserAgent = c.String("user-agent")
	}
	if c.IsSet("same-site") {
		cfg.Crawl.SameSite = c.String("same-site")
	}
	if c.IsSet("log-format") {
		cfg.Logging.Format = c.String("log-format")
	}
	if c.Bool("verbose") {
		cfg.Logging.Level = "debug"
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func optionsFromConfig(
	rootURL string,
	cfg *config.Config,
	client *http.Client,
	timer clock.Clock,
	logger *slog.Logger,
) crawler.Options {
	return crawler.Options{
		URL:                rootURL,
		MaxDepth:           cfg.Crawl.MaxDepth,
		MaxSnapshots:       cfg.Wayback.MaxSnapshots,
		MaxPages:           cfg.Crawl.MaxPages,
		SameSite:           cfg.Crawl.SameSite,
		Extensions:         cfg.Crawl.Extensions,
		UserAgent:          cfg.Crawl.UserAgent,
		Timeout:            cfg.Crawl.RequestTimeout.Duration,
		MaxBodyBytes:       cfg.Crawl.MaxBodyBytes,
		WaybackEndpoint:    cfg.Wayback.Endpoint,
		WaybackArchiveBase: cfg.Wayback.ArchiveBase,
		HTTPClient:         client,
		Clock:              timer,
		Logger:             logger,
	}
}
