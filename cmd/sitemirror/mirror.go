package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nao1215/sitemirror/internal/archive"
	"github.com/nao1215/sitemirror/internal/config"
	"github.com/nao1215/sitemirror/internal/crawler"
	"github.com/nao1215/sitemirror/internal/database"
	"github.com/nao1215/sitemirror/internal/log"
	"github.com/nao1215/sitemirror/internal/model"
)

// NewMirrorCmd creates the mirror command.
func NewMirrorCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mirror [url]",
		Short: "Download a site for offline browsing",
		Long: `Mirror downloads a site so it can be browsed offline.

It crawls internal pages from the start URL, saves each page's assets,
rewrites links and asset references to relative local paths, and strips
the platform's promotional badge markup.

Examples:
  # Mirror a whole site (up to 150 pages)
  sitemirror mirror https://example.com

  # Mirror a single page
  sitemirror mirror --mode single_page https://example.com/pricing

  # Mirror a hand-picked set of pages
  sitemirror mirror --page https://example.com --page https://example.com/about https://example.com

  # Strip the Framer badge and package the result
  sitemirror mirror --platform framer --zip site.zip https://example.com

Configuration file (.sitemirror) example:
  sites:
    example.com:
      platform: framer
      cookie: "session=abc123"
      headers:
        Authorization: "Bearer token"`,
		Args: cobra.ExactArgs(1),
		RunE: runMirrorCmd,
	}

	cmd.Flags().StringP("platform", "p", model.PlatformGeneral.String(),
		"Site platform for badge stripping (framer, webflow, wordpress, ... or general)")
	cmd.Flags().StringP("mode", "m", model.ModeMultiPage.String(),
		"Crawl mode: single_page or multi_page")
	cmd.Flags().StringArray("page", nil,
		"Mirror only this page URL (repeatable, at most 25)")
	cmd.Flags().StringP("output", "o", "",
		"Output directory (default: the site's hostname)")
	cmd.Flags().StringP("zip", "z", "",
		"Package the output tree into this zip file and remove the tree")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Timeout for each page and asset request")
	cmd.Flags().Int("max-pages", config.DefaultMaxPages,
		"Maximum number of pages for a multi-page mirror")
	cmd.Flags().String("user-agent", config.DefaultUserAgent,
		"User-Agent header for all requests")
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .sitemirror in current or home directory)")
	cmd.Flags().Bool("save-db", false,
		"Save the job to the history database in the XDG data directory")

	return cmd
}

// runMirrorCmd executes the mirror command.
func runMirrorCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildMirrorConfig(cmd, args)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := log.NewLogger(os.Stderr, getVerboseFlag(cmd))
	slog.SetDefault(logger)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			logger.Info("received shutdown signal, cancelling...")
			cancel()
		case <-ctx.Done():
		}
	}()

	return runMirror(ctx, cmd, cfg, logger)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildMirrorConfig creates a Config from cobra command flags, applying
// any site-specific settings from the configuration file.
func buildMirrorConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.StartURL = args[0]

	platform, err := cmd.Flags().GetString("platform")
	if err != nil {
		return nil, err
	}
	cfg.Platform = model.ParsePlatform(platform)

	mode, err := cmd.Flags().GetString("mode")
	if err != nil {
		return nil, err
	}
	cfg.Mode = model.CrawlMode(mode)

	cfg.SelectedPages, err = cmd.Flags().GetStringArray("page")
	if err != nil {
		return nil, err
	}

	cfg.OutputRoot, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, err
	}

	cfg.ZipPath, err = cmd.Flags().GetString("zip")
	if err != nil {
		return nil, err
	}

	cfg.Timeout, err = cmd.Flags().GetDuration("timeout")
	if err != nil {
		return nil, err
	}

	cfg.MaxPages, err = cmd.Flags().GetInt("max-pages")
	if err != nil {
		return nil, err
	}

	cfg.UserAgent, err = cmd.Flags().GetString("user-agent")
	if err != nil {
		return nil, err
	}

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	if err := loadSiteConfigs(cfg); err != nil {
		return nil, err
	}

	saveDB, err := cmd.Flags().GetBool("save-db")
	if err != nil {
		return nil, err
	}
	if saveDB {
		cfg.SaveToDB = true
		cfg.DBDir = config.XDGDataDir()
	}

	// Site-specific settings fill in what flags left at their defaults.
	if host := hostOf(cfg.StartURL); host != "" {
		site := cfg.SiteConfigs.GetSiteConfig(host)
		if site.Platform != "" && !cmd.Flags().Changed("platform") {
			cfg.Platform = model.ParsePlatform(site.Platform)
		}
		if site.UserAgent != "" && !cmd.Flags().Changed("user-agent") {
			cfg.UserAgent = site.UserAgent
		}
		if cfg.OutputRoot == "" {
			cfg.OutputRoot = host
		}
	}

	return cfg, nil
}

// loadSiteConfigs populates cfg.SiteConfigs from the configuration
// file. A missing file is only an error when its path was given
// explicitly.
func loadSiteConfigs(cfg *config.Config) error {
	explicit := cfg.ConfigFilePath != ""
	path := config.FindConfigFile(cfg.ConfigFilePath)

	switch {
	case path != "":
		siteConfigs, err := config.LoadConfigFile(path)
		if err != nil {
			return fmt.Errorf("failed to load config file %s: %w", path, err)
		}
		cfg.SiteConfigs = siteConfigs
	case explicit:
		return fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	default:
		cfg.SiteConfigs = &config.File{Sites: make(map[string]config.SiteConfig)}
	}
	return nil
}

// hostOf extracts the hostname from a URL, or "" when unparsable.
func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Hostname()
}

// runMirror executes the mirror job described by cfg.
func runMirror(ctx context.Context, cmd *cobra.Command, cfg *config.Config, logger *slog.Logger) error {
	logger.Info("starting mirror",
		"url", cfg.StartURL,
		"platform", cfg.Platform.String(),
		"mode", cfg.Mode.String(),
		"output", cfg.OutputRoot,
	)

	headers := siteHeaders(cfg)
	spider, err := crawler.New(cfg.Platform,
		crawler.WithClient(&http.Client{Timeout: cfg.Timeout}),
		crawler.WithUserAgent(cfg.UserAgent),
		crawler.WithMaxPages(cfg.MaxPages),
		crawler.WithAssetConcurrency(cfg.AssetConcurrency),
		crawler.WithHeaders(headers),
		crawler.WithLogger(logger),
	)
	if err != nil {
		return err
	}

	result, err := spider.Crawl(ctx, model.CrawlJob{
		StartURL:      cfg.StartURL,
		Mode:          cfg.Mode,
		SelectedPages: cfg.SelectedPages,
		OutputRoot:    cfg.OutputRoot,
	})
	if err != nil {
		return err
	}

	if cfg.SaveToDB {
		if err := saveJob(ctx, cfg, result, logger); err != nil {
			logger.Error("failed to save job", "error", err)
		}
	}

	if cfg.ZipPath != "" {
		if err := archive.Pack(result.OutputRoot, cfg.ZipPath); err != nil {
			return err
		}
		if err := archive.Cleanup(result.OutputRoot); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Mirrored %d pages into %s\n", result.PageCount, cfg.ZipPath)
		return nil
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Mirrored %d pages into %s\n", result.PageCount, result.OutputRoot)
	return nil
}

// siteHeaders collects the extra request headers for the start URL's
// host from the loaded site configs.
func siteHeaders(cfg *config.Config) map[string]string {
	host := hostOf(cfg.StartURL)
	if host == "" || cfg.SiteConfigs == nil {
		return nil
	}
	site := cfg.SiteConfigs.GetSiteConfig(host)

	headers := make(map[string]string, len(site.Headers)+1)
	for k, v := range site.Headers {
		headers[k] = v
	}
	if site.Cookie != "" {
		headers["Cookie"] = site.Cookie
	}
	if len(headers) == 0 {
		return nil
	}
	return headers
}

// saveJob stores the completed job in the history database.
func saveJob(ctx context.Context, cfg *config.Config, result *model.CrawlResult, logger *slog.Logger) error {
	db, err := database.Open(cfg.DBDir, database.DefaultOptions())
	if err != nil {
		return err
	}
	defer db.Close()

	jobID, err := db.SaveResult(ctx, model.CrawlJob{
		StartURL:      cfg.StartURL,
		Mode:          cfg.Mode,
		SelectedPages: cfg.SelectedPages,
		OutputRoot:    cfg.OutputRoot,
	}, cfg.Platform, result)
	if err != nil {
		return err
	}

	logger.Info("job saved", "id", jobID, "dir", cfg.DBDir)
	return nil
}
