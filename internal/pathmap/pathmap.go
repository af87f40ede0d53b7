package pathmap

import (
	"net/url"
	"path"
	"strings"
	"unicode"
)

// IndexFile is the file name URLs with an empty path map to.
const IndexFile = "index.html"

// externalDomains are well-known third-party hosts that are always
// treated as external, even when a page links to them with a bare
// hostname match. Matching is by substring on the link's host.
var externalDomains = []string{
	"facebook.com",
	"twitter.com",
	"instagram.com",
	"linkedin.com",
	"youtube.com",
	"google.com",
	"maps.google.com",
}

// CleanPath maps a URL to its canonical local file path, relative to the
// output root. Query and fragment are stripped. An empty or "/" path maps
// to IndexFile; otherwise the final segment is forced to end in ".html",
// replacing any other extension. Folder nesting is preserved.
//
// CleanPath is deterministic: identical URLs (modulo query and fragment)
// always map to the same path.
func CleanPath(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return IndexFile
	}

	p := strings.Trim(u.Path, "/")
	if p == "" {
		return IndexFile
	}

	segments := make([]string, 0, strings.Count(p, "/")+1)
	for _, seg := range strings.Split(p, "/") {
		if seg != "" {
			segments = append(segments, seg)
		}
	}
	if len(segments) == 0 {
		return IndexFile
	}

	last := segments[len(segments)-1]
	switch {
	case strings.Contains(last, ".") && !strings.HasSuffix(last, ".html"):
		// Replace the existing extension. Multi-dot names keep only the
		// first token, matching how mirrored pages are deduplicated.
		last = strings.SplitN(last, ".", 2)[0] + ".html"
	case !strings.HasSuffix(last, ".html"):
		last += ".html"
	}
	segments[len(segments)-1] = last

	return strings.Join(segments, "/")
}

// RelativeLink computes the relative reference from one clean path to
// another. It finds the longest common leading-directory prefix, emits
// one ".." per remaining directory level of the source path, and appends
// the remainder of the target. The same-directory case yields a bare
// filename.
//
// Resolving the result against the directory of fromCleanPath yields
// exactly toCleanPath.
func RelativeLink(fromCleanPath, toCleanPath string) string {
	fromDir := dirSegments(fromCleanPath)
	toDir := dirSegments(toCleanPath)

	common := 0
	for common < len(fromDir) && common < len(toDir) && fromDir[common] == toDir[common] {
		common++
	}

	parts := make([]string, 0, len(fromDir)-common+len(toDir)-common+1)
	for i := common; i < len(fromDir); i++ {
		parts = append(parts, "..")
	}
	parts = append(parts, toDir[common:]...)
	parts = append(parts, path.Base(toCleanPath))

	return strings.Join(parts, "/")
}

// dirSegments returns the directory portion of a clean path as segments.
func dirSegments(cleanPath string) []string {
	dir := path.Dir(cleanPath)
	if dir == "." || dir == "/" {
		return nil
	}
	return strings.Split(dir, "/")
}

// IsInternal reports whether a link belongs to the same site as the
// current page. Scheme-only links (mailto:, tel:, javascript:) and pure
// fragments are never internal. Absolute links are internal when their
// host matches the current page's host and does not fall on the
// external-domain denylist. Relative and protocol-relative links default
// to internal unless they resolve into the denylist.
func IsInternal(link, currentURL string) bool {
	link = strings.TrimSpace(link)
	if link == "" {
		return false
	}
	for _, prefix := range []string{"mailto:", "tel:", "#", "javascript:"} {
		if strings.HasPrefix(link, prefix) {
			return false
		}
	}

	cur, err := url.Parse(currentURL)
	if err != nil {
		return false
	}
	ref, err := url.Parse(link)
	if err != nil {
		return false
	}
	resolved := cur.ResolveReference(ref)

	host := strings.ToLower(resolved.Hostname())
	for _, domain := range externalDomains {
		if strings.Contains(host, domain) {
			return false
		}
	}

	if strings.HasPrefix(link, "http://") || strings.HasPrefix(link, "https://") {
		return strings.EqualFold(resolved.Hostname(), cur.Hostname())
	}
	return true
}

// PageName derives a human-readable page name from a URL, used as the
// discovery title fallback when a page has no <title> tag. The root path
// yields "Home"; otherwise the last path segment with dashes and
// underscores turned into spaces, title-cased.
func PageName(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "Page"
	}

	p := strings.Trim(u.Path, "/")
	if p == "" {
		return "Home"
	}

	segments := strings.Split(p, "/")
	last := segments[len(segments)-1]
	name := strings.NewReplacer("-", " ", "_", " ").Replace(last)
	return titleCase(name)
}

// titleCase upper-cases the first letter of each space-separated word.
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}
