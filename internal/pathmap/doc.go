// Package pathmap maps URLs to deterministic local file paths and
// classifies links as internal or external.
//
// All functions are pure and perform no I/O, which keeps the relocated
// directory-tree math testable in isolation: for any pair of clean paths
// (a, b), resolving RelativeLink(a, b) against the directory of a yields
// exactly b. The crawler, rewriter, and asset fetcher all derive their
// on-disk layout from this package so a mirrored tree stays internally
// consistent.
package pathmap
