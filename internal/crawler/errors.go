package crawler

import "errors"

var (
	// ErrUnsupportedPlatform is returned when a Spider is created for a
	// platform name the stripper rules do not know.
	ErrUnsupportedPlatform = errors.New("unsupported platform")

	// ErrInvalidStartURL is returned when a job's start URL is missing,
	// unparsable, or not http(s).
	ErrInvalidStartURL = errors.New("invalid start URL")

	// ErrInvalidMode is returned when a job carries an unknown crawl mode.
	ErrInvalidMode = errors.New("invalid crawl mode")

	// ErrTooManySelectedPages is returned when a job selects more pages
	// than the selection limit allows. No fetch happens first.
	ErrTooManySelectedPages = errors.New("too many selected pages")
)
