package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"

	"github.com/nao1215/sitemirror/internal/model"
)

// Default configuration values. These follow the behavior site
// platforms expect from ordinary browser traffic.
const (
	// DefaultTimeout is the per-request timeout for pages and assets.
	// Site builders serve from CDNs; 30 seconds covers slow origins
	// without letting a dead host stall the whole mirror.
	DefaultTimeout = 30 * time.Second

	// DefaultMaxPages is the page ceiling for unrestricted multi-page
	// mirrors. This prevents runaway crawling on large or
	// infinitely-generating sites.
	DefaultMaxPages = 150

	// DefaultSelectedPagesLimit bounds explicit page selections. A
	// larger hand-picked set defeats the point of selecting.
	DefaultSelectedPagesLimit = 25

	// DefaultDiscoveryDepth is how many link levels discovery follows.
	DefaultDiscoveryDepth = 3

	// DefaultDiscoveryFanout is how many links discovery takes per page.
	DefaultDiscoveryFanout = 10

	// DefaultAssetConcurrency bounds parallel asset downloads per page.
	DefaultAssetConcurrency = 8

	// DefaultUserAgent is a desktop Chrome UA string. Several site
	// platforms serve reduced or blocked markup to unknown agents.
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

	// AppName is the application name used for XDG directory paths.
	AppName = "sitemirror"
)

// Config holds all configuration options for sitemirror. It is
// populated from CLI flags and passed through the application via
// dependency injection rather than global state.
//
// Design decision: We use a single flat struct instead of nested structs
// for simplicity. The number of options is manageable, and nesting would
// add complexity without significant benefit.
type Config struct {
	// StartURL is the page the mirror or discovery is seeded with.
	StartURL string

	// Platform selects which badge stripper runs on every page.
	Platform model.Platform

	// Mode selects single-page or multi-page mirroring.
	Mode model.CrawlMode

	// SelectedPages, when non-empty, exactly bounds the mirrored set.
	SelectedPages []string

	// OutputRoot is the directory the mirrored tree is written under.
	OutputRoot string

	// ZipPath, when set, packages the output tree into this archive and
	// removes the tree afterwards.
	ZipPath string

	// Timeout is the per-request timeout for pages and assets.
	Timeout time.Duration

	// MaxPages is the page ceiling for unrestricted mirrors.
	MaxPages int

	// UserAgent is the User-Agent header sent with every request.
	UserAgent string

	// AssetConcurrency bounds parallel asset downloads per page.
	AssetConcurrency int

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only info and above are logged.
	Verbose bool

	// ConfigFilePath is the path to the configuration file. If empty,
	// the tool searches for .sitemirror in the current directory and
	// then in the user's home directory.
	ConfigFilePath string

	// SiteConfigs holds site-specific settings loaded from the config
	// file, keyed by host.
	SiteConfigs *File

	// JSONReport outputs the discovery report as JSON.
	// Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport outputs the discovery report as Markdown.
	// Mutually exclusive with JSONReport.
	MarkdownReport bool

	// ReportFile writes the discovery report to this file instead of
	// stdout.
	ReportFile string

	// DBDir is the directory for the SQLite job history database. When
	// set, completed jobs are saved for later inspection. When empty,
	// nothing is persisted.
	DBDir string

	// SaveToDB indicates whether to save completed jobs to the database.
	// Set automatically when DBDir is configured.
	SaveToDB bool
}

// NewConfig creates a new Config with default values.
//
// Design decision: We use a constructor function instead of relying on
// zero values because many defaults are non-zero. This also serves as
// documentation of what the defaults are.
func NewConfig() *Config {
	return &Config{
		Platform:         model.PlatformGeneral,
		Mode:             model.ModeMultiPage,
		Timeout:          DefaultTimeout,
		MaxPages:         DefaultMaxPages,
		UserAgent:        DefaultUserAgent,
		AssetConcurrency: DefaultAssetConcurrency,
	}
}

// XDGDataDir returns the XDG data directory for sitemirror.
// On Linux: ~/.local/share/sitemirror
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for sitemirror.
// On Linux: ~/.config/sitemirror
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid. It returns a specific
// error describing what is invalid.
//
// Design decision: We validate at the config level rather than at each
// point of use to fail fast and provide clear error messages upfront.
// This is called once after CLI parsing, before any crawling begins.
func (c *Config) Validate() error {
	if c.StartURL == "" {
		return ErrNoStartURL
	}
	if !c.Platform.IsValid() {
		return ErrUnsupportedPlatform
	}
	if !c.Mode.IsValid() {
		return ErrInvalidMode
	}
	if len(c.SelectedPages) > DefaultSelectedPagesLimit {
		return ErrTooManyPages
	}
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.MaxPages <= 0 {
		return ErrInvalidMaxPages
	}
	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}
	return nil
}
