// Package main provides the entry point for the sitemirror CLI.
//
// sitemirror downloads a site for offline browsing: it crawls internal
// pages, saves their assets, rewrites links so the tree works from
// disk, and strips platform promotional badges.
//
// Usage:
//
//	sitemirror mirror https://example.com
//	sitemirror discover https://example.com
//
// See --help for all available options.
package main

// main is the entry point for sitemirror.
func main() {
	Execute()
}
