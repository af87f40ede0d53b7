// Package model defines the core data types shared across sitemirror:
// the supported platform selectors, crawl jobs and modes, and the records
// produced by mirroring and discovery.
//
// Types in this package are plain values with no I/O. A CrawlJob and the
// records derived from it are scoped to a single crawl invocation; the
// crawler constructs all mutable per-job state (visited set, asset cache)
// fresh for each job so nothing leaks between jobs.
package model
