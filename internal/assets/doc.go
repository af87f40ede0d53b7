// Package assets downloads the resources referenced by mirrored pages:
// stylesheets, scripts, images, and fonts.
//
// A Fetcher is constructed per crawl job and owns that job's asset
// cache. Downloads are deduplicated by resolved URL, so an asset
// referenced by many pages is stored once, and failures are soft: a
// reference that cannot be downloaded stays pointed at its original URL
// instead of aborting the page.
//
// Stylesheets get one extra pass: url(...) references inside a
// downloaded sheet (fonts, background images) are fetched too and
// repointed at their local copies.
package assets
