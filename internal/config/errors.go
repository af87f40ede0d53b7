package config

import "errors"

// Configuration validation errors returned by Config.Validate().
//
// Design decision: We use package-level sentinel errors rather than
// creating new error instances in Validate(). This allows callers to use
// errors.Is() for programmatic error handling while still providing
// human-readable messages.
var (
	// ErrNoStartURL is returned when no URL to mirror is specified.
	ErrNoStartURL = errors.New("no start URL specified: provide a site URL to mirror")

	// ErrUnsupportedPlatform is returned when the platform name does not
	// match any known stripper. Run with a known platform or "general".
	ErrUnsupportedPlatform = errors.New("unsupported platform: use a known platform name or \"general\"")

	// ErrInvalidMode is returned for crawl modes other than single_page
	// and multi_page.
	ErrInvalidMode = errors.New("invalid mode: use \"single_page\" or \"multi_page\"")

	// ErrTooManyPages is returned when an explicit page selection
	// exceeds the selection limit.
	ErrTooManyPages = errors.New("too many selected pages: at most 25 pages can be selected")

	// ErrInvalidTimeout is returned when the timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidMaxPages is returned when the page ceiling is not positive.
	ErrInvalidMaxPages = errors.New("invalid max pages: must be positive")

	// ErrConflictingReportFormats is returned when both --json and
	// --markdown are specified. Only one output format can be used.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")
)
