package assets

import (
	"context"
	"regexp"
	"strings"

	"github.com/nao1215/sitemirror/internal/pathmap"
)

// cssURLPattern matches url(...) references in stylesheet text.
var cssURLPattern = regexp.MustCompile(`url\(\s*["']?([^"')]+)["']?\s*\)`)

// RewriteCSS downloads the url(...) references in a block of CSS and
// repoints them at the stored copies. baseURL is the URL the CSS was
// served from (or the page URL for inline styles); fromLocalPath is the
// root-relative path of the file the CSS ends up in, so references are
// emitted relative to it. References that fail to download keep their
// original URL.
func (f *Fetcher) RewriteCSS(ctx context.Context, css, baseURL, fromLocalPath string) string {
	refs := make([]string, 0, 4)
	for _, m := range cssURLPattern.FindAllStringSubmatch(css, -1) {
		ref := strings.TrimSpace(m[1])
		if ref == "" || strings.HasPrefix(ref, "data:") || ref == baseURL {
			continue
		}
		refs = append(refs, ref)
	}
	if len(refs) == 0 {
		return css
	}

	// Warm the cache concurrently, then substitute sequentially.
	f.FetchAll(ctx, refs, baseURL)

	return cssURLPattern.ReplaceAllStringFunc(css, func(match string) string {
		ref := strings.TrimSpace(cssURLPattern.FindStringSubmatch(match)[1])
		if ref == "" || strings.HasPrefix(ref, "data:") || ref == baseURL {
			return match
		}
		local := f.fetch(ctx, ref, baseURL, false)
		if local == ref {
			return match // download failed, keep the remote reference
		}
		return `url("` + pathmap.RelativeLink(fromLocalPath, local) + `")`
	})
}
