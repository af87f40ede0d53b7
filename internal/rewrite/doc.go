// Package rewrite transforms downloaded HTML for offline browsing.
// It normalizes absolute same-origin URLs, repoints internal hyperlinks
// at their clean local paths, substitutes downloaded asset copies for
// remote references, and runs the platform badge stripper as the final
// step so stripped markup is never re-fetched.
package rewrite
