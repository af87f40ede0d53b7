// Package log provides logging built on the standard slog package, with
// automatic masking of sensitive values such as cookies and auth headers
// loaded from site configurations.
package log
