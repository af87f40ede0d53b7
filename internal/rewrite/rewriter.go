package rewrite

import (
	"context"
	"log/slog"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/nao1215/sitemirror/internal/assets"
	"github.com/nao1215/sitemirror/internal/badge"
	"github.com/nao1215/sitemirror/internal/pathmap"
)

// Rewriter turns a fetched page into its offline-browsable form: links
// to internal pages become relative references between clean paths,
// asset references are downloaded and repointed at local copies, and
// the platform stripper removes badge markup last.
type Rewriter struct {
	// fetcher downloads and caches the page's assets.
	fetcher *assets.Fetcher

	// stripper removes platform badge markup after all rewriting.
	stripper badge.Stripper

	// logger receives per-page debug output.
	logger *slog.Logger
}

// Option configures a Rewriter.
type Option func(*Rewriter)

// WithLogger sets the logger used for per-page output.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Rewriter) {
		r.logger = logger
	}
}

// New creates a Rewriter using the given asset fetcher and platform
// stripper. The fetcher carries the per-job asset cache; the stripper
// is stateless and may be shared.
func New(fetcher *assets.Fetcher, stripper badge.Stripper, opts ...Option) *Rewriter {
	r := &Rewriter{
		fetcher:  fetcher,
		stripper: stripper,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	return r
}

// Rewrite processes one page's HTML and returns the serialized result
// ready to be written at the page's clean path. Steps run in a fixed
// order: the textual normalization pre-pass, the DOM link pass, the
// asset pass, and finally the platform stripper.
func (r *Rewriter) Rewrite(ctx context.Context, htmlContent, pageURL string) (string, error) {
	page, err := url.Parse(pageURL)
	if err != nil {
		return "", err
	}

	htmlContent = normalizeAbsoluteURLs(htmlContent, page.Host)

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return "", err
	}

	pageClean := pathmap.CleanPath(pageURL)
	origin := page.Scheme + "://" + page.Host

	r.rewriteLinks(doc, pageURL, pageClean, origin)
	r.rewriteAssets(ctx, doc, pageURL, pageClean)
	r.stripper.Strip(doc)

	return doc.Html()
}

// normalizeAbsoluteURLs collapses literal absolute same-origin URL
// strings to root-relative form. This is a best-effort textual pass that
// catches URLs embedded outside parseable attributes (JSON blobs,
// inline scripts); the DOM pass below is the authoritative one.
func normalizeAbsoluteURLs(htmlContent, host string) string {
	if host == "" {
		return htmlContent
	}
	re := regexp.MustCompile(`https?://` + regexp.QuoteMeta(host) + `/?`)
	return re.ReplaceAllString(htmlContent, "/")
}

// rewriteLinks replaces internal hyperlinks with relative references
// between clean paths. External, mailto, tel, javascript, and pure
// fragment links are left untouched.
func (r *Rewriter) rewriteLinks(doc *goquery.Document, pageURL, pageClean, origin string) {
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		href = strings.TrimSpace(href)

		for _, prefix := range []string{"mailto:", "tel:", "javascript:", "#"} {
			if strings.HasPrefix(href, prefix) {
				return
			}
		}

		var target string
		switch {
		case strings.HasPrefix(href, "//"):
			return // protocol-relative links are left to the asset pass
		case href == "/" || href == "":
			target = origin + "/"
		case strings.HasPrefix(href, "/"):
			target = origin + href
		case strings.HasPrefix(href, "http://"), strings.HasPrefix(href, "https://"):
			if !pathmap.IsInternal(href, pageURL) {
				return
			}
			target = href
		default:
			return
		}

		s.SetAttr("href", pathmap.RelativeLink(pageClean, pathmap.CleanPath(target)))
	})
}

// rewriteAssets downloads every referenced asset and substitutes the
// stored copy's page-relative path. All of one page's downloads are
// issued concurrently up front; substitution then runs sequentially
// against the warmed cache.
func (r *Rewriter) rewriteAssets(ctx context.Context, doc *goquery.Document, pageURL, pageClean string) {
	r.fetcher.FetchAll(ctx, collectAssetRefs(doc, pageURL), pageURL)

	substitute := func(s *goquery.Selection, attr string) {
		ref, ok := s.Attr(attr)
		if !ok || strings.TrimSpace(ref) == "" {
			return
		}
		ref = strings.TrimSpace(ref)
		local := r.fetcher.Fetch(ctx, ref, pageURL)
		if local == ref {
			return // soft failure keeps the remote reference
		}
		s.SetAttr(attr, pathmap.RelativeLink(pageClean, local))
	}

	doc.Find(`link[rel="stylesheet"]`).Each(func(_ int, s *goquery.Selection) {
		substitute(s, "href")
	})
	doc.Find("script[src]").Each(func(_ int, s *goquery.Selection) {
		substitute(s, "src")
	})
	doc.Find("img").Each(func(_ int, s *goquery.Selection) {
		substitute(s, "src")
		r.rewriteSrcset(ctx, s, pageURL, pageClean)
	})
	doc.Find("source").Each(func(_ int, s *goquery.Selection) {
		substitute(s, "src")
		r.rewriteSrcset(ctx, s, pageURL, pageClean)
	})
	doc.Find("video, audio").Each(func(_ int, s *goquery.Selection) {
		substitute(s, "src")
		substitute(s, "poster")
	})
	doc.Find("iframe[src]").Each(func(_ int, s *goquery.Selection) {
		if src, ok := s.Attr("src"); ok && pathmap.IsInternal(src, pageURL) {
			substitute(s, "src")
		}
	})

	// Inline <style> blocks and style attributes may carry url() refs
	// to fonts and background images.
	doc.Find("style").Each(func(_ int, s *goquery.Selection) {
		if text := s.Text(); strings.Contains(text, "url(") {
			s.SetText(r.fetcher.RewriteCSS(ctx, text, pageURL, pageClean))
		}
	})
	doc.Find("[style]").Each(func(_ int, s *goquery.Selection) {
		if style, ok := s.Attr("style"); ok && strings.Contains(style, "url(") {
			s.SetAttr("style", r.fetcher.RewriteCSS(ctx, style, pageURL, pageClean))
		}
	})
}

// rewriteSrcset substitutes each candidate in a srcset attribute,
// preserving width and density descriptors.
func (r *Rewriter) rewriteSrcset(ctx context.Context, s *goquery.Selection, pageURL, pageClean string) {
	srcset, ok := s.Attr("srcset")
	if !ok || strings.TrimSpace(srcset) == "" {
		return
	}

	parts := strings.Split(srcset, ",")
	for i, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		ref, descriptor := part, ""
		if idx := strings.LastIndex(part, " "); idx >= 0 {
			ref, descriptor = part[:idx], part[idx+1:]
		}

		local := r.fetcher.Fetch(ctx, ref, pageURL)
		if local != ref {
			ref = pathmap.RelativeLink(pageClean, local)
		}
		if descriptor != "" {
			parts[i] = ref + " " + descriptor
		} else {
			parts[i] = ref
		}
	}
	s.SetAttr("srcset", strings.Join(parts, ", "))
}

// collectAssetRefs gathers every downloadable reference on a page so
// FetchAll can warm the cache in one concurrent batch.
func collectAssetRefs(doc *goquery.Document, pageURL string) []string {
	refs := make([]string, 0, 16)
	add := func(ref string) {
		ref = strings.TrimSpace(ref)
		if ref != "" && !strings.HasPrefix(ref, "data:") {
			refs = append(refs, ref)
		}
	}

	doc.Find(`link[rel="stylesheet"]`).Each(func(_ int, s *goquery.Selection) {
		if href, ok := s.Attr("href"); ok {
			add(href)
		}
	})
	doc.Find("script[src]").Each(func(_ int, s *goquery.Selection) {
		if src, ok := s.Attr("src"); ok {
			add(src)
		}
	})
	doc.Find("img[src]").Each(func(_ int, s *goquery.Selection) {
		if src, ok := s.Attr("src"); ok {
			add(src)
		}
	})
	doc.Find("video[src], audio[src], source[src]").Each(func(_ int, s *goquery.Selection) {
		if src, ok := s.Attr("src"); ok {
			add(src)
		}
	})
	doc.Find("iframe[src]").Each(func(_ int, s *goquery.Selection) {
		if src, ok := s.Attr("src"); ok && pathmap.IsInternal(src, pageURL) {
			add(src)
		}
	})
	return refs
}
