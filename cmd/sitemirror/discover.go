package main

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/nao1215/sitemirror/internal/config"
	"github.com/nao1215/sitemirror/internal/crawler"
	"github.com/nao1215/sitemirror/internal/log"
	"github.com/nao1215/sitemirror/internal/model"
	"github.com/nao1215/sitemirror/internal/report"
)

// NewDiscoverCmd creates the discover command.
func NewDiscoverCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "discover [url]",
		Short: "List a site's pages without downloading anything",
		Long: `Discover enumerates the pages reachable from a start URL without
writing any files. Use it to pick pages for a selective mirror.

Examples:
  # List pages as a table
  sitemirror discover https://example.com

  # JSON for scripting
  sitemirror discover --json https://example.com

  # Markdown report to a file
  sitemirror discover --markdown -o pages.md https://example.com`,
		Args: cobra.ExactArgs(1),
		RunE: runDiscoverCmd,
	}

	cmd.Flags().StringP("platform", "p", model.PlatformGeneral.String(),
		"Site platform, recorded in the report")
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write the report to this file instead of stdout")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Timeout for each page request")

	return cmd
}

// runDiscoverCmd executes the discover command.
func runDiscoverCmd(cmd *cobra.Command, args []string) error {
	cfg := config.NewConfig()
	cfg.StartURL = args[0]

	platform, err := cmd.Flags().GetString("platform")
	if err != nil {
		return err
	}
	cfg.Platform = model.ParsePlatform(platform)

	cfg.JSONReport, err = cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}
	cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return err
	}
	cfg.ReportFile, err = cmd.Flags().GetString("output")
	if err != nil {
		return err
	}
	cfg.Timeout, err = cmd.Flags().GetDuration("timeout")
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := log.NewLogger(os.Stderr, getVerboseFlag(cmd))
	slog.SetDefault(logger)

	spider, err := crawler.New(cfg.Platform,
		crawler.WithClient(&http.Client{Timeout: cfg.Timeout}),
		crawler.WithUserAgent(cfg.UserAgent),
		crawler.WithLogger(logger),
	)
	if err != nil {
		return err
	}

	pages, err := spider.Discover(cmd.Context(), cfg.StartURL)
	if err != nil {
		return err
	}

	discovery := &report.Discovery{
		StartURL:    cfg.StartURL,
		Platform:    cfg.Platform.String(),
		GeneratedAt: time.Now(),
		Pages:       pages,
	}
	return writeDiscovery(cmd, cfg, discovery)
}

// writeDiscovery renders the report in the configured format and
// destination.
func writeDiscovery(cmd *cobra.Command, cfg *config.Config, discovery *report.Discovery) error {
	var out io.Writer = cmd.OutOrStdout()
	if cfg.ReportFile != "" {
		if dir := filepath.Dir(cfg.ReportFile); dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create report directory: %w", err)
			}
		}
		f, err := os.Create(cfg.ReportFile)
		if err != nil {
			return fmt.Errorf("failed to create report file: %w", err)
		}
		defer f.Close()
		out = f
	}

	var w report.Writer
	switch {
	case cfg.JSONReport:
		w = report.NewJSONWriter(out, report.WithPrettyPrint())
	case cfg.MarkdownReport:
		w = report.NewMarkdownWriter(out)
	default:
		w = report.NewTextWriter(out)
	}

	_, err := w.Write(discovery)
	return err
}
