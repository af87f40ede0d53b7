package crawler

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/net/html/charset"

	"github.com/nao1215/sitemirror/internal/assets"
	"github.com/nao1215/sitemirror/internal/badge"
	"github.com/nao1215/sitemirror/internal/model"
	"github.com/nao1215/sitemirror/internal/pathmap"
	"github.com/nao1215/sitemirror/internal/rewrite"
)

// Default crawl ceilings and transport settings.
const (
	// DefaultMaxPages bounds an unrestricted multi-page mirror.
	DefaultMaxPages = 150

	// DefaultSelectedPagesLimit bounds an explicit page selection.
	DefaultSelectedPagesLimit = 25

	// DefaultDiscoveryDepth is how many link levels discovery follows
	// from the start URL.
	DefaultDiscoveryDepth = 3

	// DefaultDiscoveryFanout is how many links discovery takes from one
	// page.
	DefaultDiscoveryFanout = 10

	// DefaultTimeout is the per-request timeout.
	DefaultTimeout = 30 * time.Second

	// DefaultMaxBodySize limits how much of a page response is read.
	DefaultMaxBodySize = 10 * 1024 * 1024 // 10MB

	// DefaultUserAgent is sent with every page request. Several site
	// platforms serve reduced markup to unknown agents.
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// Spider mirrors a site page by page. It manages a queue of URLs to
// visit, writes each rewritten page at its clean path, and delegates
// asset handling to a per-job fetcher.
//
// Design decision: We call it "Spider" rather than "Crawler" because:
//  1. "Spider" is the traditional term for web crawlers
//  2. Distinguishes the component from the package name
//  3. Clearer in code: crawler.NewSpider() vs crawler.NewCrawler()
type Spider struct {
	// platform selects the badge stripper applied to every page.
	platform model.Platform

	// client performs page requests. It carries the request timeout.
	client *http.Client

	// userAgent is the User-Agent header to use.
	userAgent string

	// maxPages limits an unrestricted multi-page mirror.
	maxPages int

	// selectedLimit bounds explicit page selections.
	selectedLimit int

	// discoveryDepth limits how deep discovery follows links.
	discoveryDepth int

	// discoveryFanout limits how many links discovery takes per page.
	discoveryFanout int

	// maxBodySize limits the size of page bodies to read.
	maxBodySize int64

	// assetConcurrency bounds parallel asset downloads per page.
	assetConcurrency int

	// headers are extra HTTP headers sent with every page request,
	// typically cookies for gated sites.
	headers map[string]string

	// logger receives progress and warning output.
	logger *slog.Logger
}

// SpiderOption configures a Spider.
type SpiderOption func(*Spider)

// WithClient sets a custom HTTP client. The client's timeout applies to
// every page request.
func WithClient(client *http.Client) SpiderOption {
	return func(s *Spider) {
		s.client = client
	}
}

// WithUserAgent sets a custom User-Agent header.
func WithUserAgent(ua string) SpiderOption {
	return func(s *Spider) {
		if ua != "" {
			s.userAgent = ua
		}
	}
}

// WithMaxPages sets the page ceiling for unrestricted mirrors.
func WithMaxPages(n int) SpiderOption {
	return func(s *Spider) {
		if n > 0 {
			s.maxPages = n
		}
	}
}

// WithSelectedPagesLimit sets the explicit selection ceiling.
func WithSelectedPagesLimit(n int) SpiderOption {
	return func(s *Spider) {
		if n > 0 {
			s.selectedLimit = n
		}
	}
}

// WithDiscoveryLimits sets discovery depth and per-page fan-out.
func WithDiscoveryLimits(depth, fanout int) SpiderOption {
	return func(s *Spider) {
		if depth > 0 {
			s.discoveryDepth = depth
		}
		if fanout > 0 {
			s.discoveryFanout = fanout
		}
	}
}

// WithMaxBodySize sets the maximum page response size.
func WithMaxBodySize(size int64) SpiderOption {
	return func(s *Spider) {
		if size > 0 {
			s.maxBodySize = size
		}
	}
}

// WithAssetConcurrency bounds parallel asset downloads per page.
func WithAssetConcurrency(n int) SpiderOption {
	return func(s *Spider) {
		if n > 0 {
			s.assetConcurrency = n
		}
	}
}

// WithHeaders sets extra HTTP headers sent with every page request.
func WithHeaders(headers map[string]string) SpiderOption {
	return func(s *Spider) {
		s.headers = headers
	}
}

// WithLogger sets the logger used for progress output.
func WithLogger(logger *slog.Logger) SpiderOption {
	return func(s *Spider) {
		s.logger = logger
	}
}

// New creates a Spider for the given platform. The platform selects
// which badge stripper runs on every mirrored page; unknown platforms
// are rejected before any network I/O.
func New(platform model.Platform, opts ...SpiderOption) (*Spider, error) {
	if !platform.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedPlatform, platform)
	}

	s := &Spider{
		platform:        platform,
		client:          &http.Client{Timeout: DefaultTimeout},
		userAgent:       DefaultUserAgent,
		maxPages:        DefaultMaxPages,
		selectedLimit:   DefaultSelectedPagesLimit,
		discoveryDepth:  DefaultDiscoveryDepth,
		discoveryFanout: DefaultDiscoveryFanout,
		maxBodySize:     DefaultMaxBodySize,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s, nil
}

// Crawl executes one mirror job. Configuration-class failures (bad
// start URL, unknown mode, oversized selection) return an error before
// any fetch; per-page and per-asset failures are logged, skipped, and
// reflected only in the result's page count.
func (s *Spider) Crawl(ctx context.Context, job model.CrawlJob) (*model.CrawlResult, error) {
	start, err := s.validate(job)
	if err != nil {
		return &model.CrawlResult{OutputRoot: job.OutputRoot}, err
	}

	fetcher := assets.NewFetcher(job.OutputRoot, start.Host,
		assets.WithClient(s.client),
		assets.WithUserAgent(s.userAgent),
		assets.WithConcurrency(s.assetConcurrency),
		assets.WithLogger(s.logger),
	)
	rewriter := rewrite.New(fetcher, badge.ForPlatform(s.platform), rewrite.WithLogger(s.logger))

	var pages []model.PageRecord
	switch {
	case job.Mode == model.ModeSinglePage:
		if record, _, ok := s.mirrorPage(ctx, rewriter, job.OutputRoot, start.String()); ok {
			pages = append(pages, record)
		}
	case len(job.SelectedPages) > 0:
		pages = s.mirrorSelection(ctx, rewriter, job)
	default:
		pages = s.mirrorSite(ctx, rewriter, job.OutputRoot, start)
	}

	return &model.CrawlResult{
		Success:    true,
		PageCount:  len(pages),
		OutputRoot: job.OutputRoot,
		Pages:      pages,
	}, nil
}

// validate rejects configuration-class job failures before any I/O.
func (s *Spider) validate(job model.CrawlJob) (*url.URL, error) {
	start, err := url.Parse(job.StartURL)
	if err != nil || start.Host == "" || (start.Scheme != "http" && start.Scheme != "https") {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStartURL, job.StartURL)
	}
	if !job.Mode.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidMode, job.Mode)
	}
	if len(job.SelectedPages) > s.selectedLimit {
		return nil, fmt.Errorf("%w: %d pages selected, limit is %d",
			ErrTooManySelectedPages, len(job.SelectedPages), s.selectedLimit)
	}
	return start, nil
}

// mirrorSelection mirrors exactly the job's selected pages. No link
// discovery happens beyond the selection, and duplicate entries in the
// selection are fetched once.
func (s *Spider) mirrorSelection(ctx context.Context, rewriter *rewrite.Rewriter, job model.CrawlJob) []model.PageRecord {
	pages := make([]model.PageRecord, 0, len(job.SelectedPages))
	visited := make(map[string]bool, len(job.SelectedPages))
	for _, pageURL := range job.SelectedPages {
		if ctx.Err() != nil {
			break
		}
		key := normalizeURL(pageURL)
		if visited[key] {
			continue
		}
		visited[key] = true
		if record, _, ok := s.mirrorPage(ctx, rewriter, job.OutputRoot, pageURL); ok {
			pages = append(pages, record)
			s.logger.Info("mirrored page", "url", pageURL,
				"progress", fmt.Sprintf("%d/%d", len(pages), len(job.SelectedPages)))
		}
	}
	return pages
}

// mirrorSite mirrors the whole site breadth-first from the start URL,
// bounded by the page ceiling. The ceiling counts fetch attempts,
// failures included, so a frontier of broken links cannot extend the
// crawl past it. URLs are marked visited at enqueue time so link cycles
// cannot grow the frontier.
func (s *Spider) mirrorSite(ctx context.Context, rewriter *rewrite.Rewriter, outputRoot string, start *url.URL) []model.PageRecord {
	pages := make([]model.PageRecord, 0, 16)
	visited := map[string]bool{normalizeURL(start.String()): true}
	queue := []string{start.String()}

	attempted := 0
	for len(queue) > 0 && attempted < s.maxPages {
		if ctx.Err() != nil {
			break
		}

		pageURL := queue[0]
		queue = queue[1:]
		attempted++

		record, links, ok := s.mirrorPage(ctx, rewriter, outputRoot, pageURL)
		if !ok {
			continue
		}
		pages = append(pages, record)
		s.logger.Info("mirrored page", "url", pageURL,
			"progress", fmt.Sprintf("%d/%d", attempted, s.maxPages))

		for _, link := range links {
			key := normalizeURL(link)
			if !visited[key] {
				visited[key] = true
				queue = append(queue, link)
			}
		}
	}
	return pages
}

// mirrorPage fetches one page, rewrites it, and writes it at its clean
// path under the output root. Failures are logged and reported as ok ==
// false so the caller can continue.
func (s *Spider) mirrorPage(ctx context.Context, rewriter *rewrite.Rewriter, outputRoot, pageURL string) (model.PageRecord, []string, bool) {
	htmlContent, err := s.fetchHTML(ctx, pageURL)
	if err != nil {
		s.logger.Warn("skipping page", "url", pageURL, "error", err)
		return model.PageRecord{}, nil, false
	}

	parsed := s.parse(pageURL, htmlContent)

	rewritten, err := rewriter.Rewrite(ctx, htmlContent, pageURL)
	if err != nil {
		s.logger.Warn("skipping page", "url", pageURL, "error", err)
		return model.PageRecord{}, nil, false
	}

	cleanPath := pathmap.CleanPath(pageURL)
	target := filepath.Join(outputRoot, filepath.FromSlash(cleanPath))
	if err := os.MkdirAll(filepath.Dir(target), 0750); err != nil {
		s.logger.Warn("skipping page", "url", pageURL, "error", err)
		return model.PageRecord{}, nil, false
	}
	if err := os.WriteFile(target, []byte(rewritten), 0600); err != nil {
		s.logger.Warn("skipping page", "url", pageURL, "error", err)
		return model.PageRecord{}, nil, false
	}

	title := parsed.Title
	if title == "" {
		title = pathmap.PageName(pageURL)
	}
	return model.PageRecord{URL: pageURL, LocalPath: cleanPath, Title: title}, parsed.InternalLinks, true
}

// Discover enumerates linkable pages without writing any files. It
// follows links breadth-first up to the discovery depth, taking at most
// the fan-out count of new links from each page.
func (s *Spider) Discover(ctx context.Context, startURL string) ([]model.DiscoveredPage, error) {
	start, err := url.Parse(startURL)
	if err != nil || start.Host == "" || (start.Scheme != "http" && start.Scheme != "https") {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStartURL, startURL)
	}

	discovered := make([]model.DiscoveredPage, 0, 16)
	visited := map[string]bool{normalizeURL(start.String()): true}
	queue := []queueItem{{url: start.String(), depth: 0}}

	for len(queue) > 0 && len(discovered) < s.maxPages {
		if err := ctx.Err(); err != nil {
			return discovered, err
		}

		item := queue[0]
		queue = queue[1:]

		htmlContent, err := s.fetchHTML(ctx, item.url)
		if err != nil {
			s.logger.Debug("skipping page", "url", item.url, "error", err)
			continue
		}
		parsed := s.parse(item.url, htmlContent)

		title := parsed.Title
		if title == "" {
			title = pathmap.PageName(item.url)
		}
		discovered = append(discovered, model.DiscoveredPage{
			URL:   item.url,
			Title: title,
			Path:  pathmap.CleanPath(item.url),
		})

		if item.depth >= s.discoveryDepth {
			continue
		}
		taken := 0
		for _, link := range parsed.InternalLinks {
			if taken >= s.discoveryFanout {
				break
			}
			key := normalizeURL(link)
			if !visited[key] {
				visited[key] = true
				queue = append(queue, queueItem{url: link, depth: item.depth + 1})
				taken++
			}
		}
	}
	return discovered, nil
}

// queueItem represents an item in the discovery queue.
type queueItem struct {
	url   string
	depth int
}

// fetchHTML retrieves one page and returns its body decoded to UTF-8.
// Non-2xx responses and non-HTML content types are errors.
func (s *Spider) fetchHTML(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")
	for k, v := range s.headers {
		req.Header.Set(k, v)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType != "" && !strings.Contains(contentType, "text/html") {
		return "", fmt.Errorf("not an HTML page: %s", contentType)
	}

	reader, err := charset.NewReader(io.LimitReader(resp.Body, s.maxBodySize), contentType)
	if err != nil {
		return "", err
	}
	body, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// parse extracts the title and internal links, tolerating parser
// failures with an empty result.
func (s *Spider) parse(pageURL, htmlContent string) *ParseResult {
	parser, err := NewParser(pageURL)
	if err != nil {
		return &ParseResult{}
	}
	result, err := parser.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return &ParseResult{}
	}
	return result
}

// normalizeURL normalizes a URL for visited-set deduplication.
//
// Design decision: We normalize URLs because:
//  1. Same page can have different URL representations
//  2. Fragments and queries don't change which page is written
//  3. Empty path and "/" are the same page
func normalizeURL(pageURL string) string {
	u, err := url.Parse(pageURL)
	if err != nil {
		return pageURL
	}
	u.Fragment = ""
	u.RawQuery = ""
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	if u.Path == "" {
		u.Path = "/"
	}
	return u.String()
}
