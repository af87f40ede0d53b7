// Package crawler walks a site and writes its offline mirror. The
// Spider fetches pages breadth-first from a start URL, hands each page
// to the rewriter, and writes the result at the page's clean path.
// Discovery mode enumerates pages without writing files so a caller can
// present a selection first.
package crawler
