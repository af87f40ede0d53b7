// Package config holds the runtime configuration for sitemirror: CLI
// defaults, validation, XDG directories, and the optional .sitemirror
// YAML file with per-site settings.
package config
