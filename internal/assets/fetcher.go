package assets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// Default fetcher settings.
const (
	// DefaultTimeout is the per-request timeout for asset downloads.
	DefaultTimeout = 30 * time.Second

	// DefaultMaxBodySize limits how much of an asset response is read.
	DefaultMaxBodySize = 25 * 1024 * 1024 // 25MB

	// DefaultConcurrency bounds how many asset downloads for one page
	// run at the same time.
	DefaultConcurrency = 8
)

// Fetcher downloads the assets referenced by mirrored pages and stores
// them under the job's output root. It is scoped to a single crawl job:
// the URL cache guarantees at most one stored file per unique asset URL
// within that job, and the whole Fetcher is discarded with the job.
//
// Design decision: the cache is guarded by a mutex and downloads go
// through singleflight even though page traversal is sequential, because
// the assets of a single page are fetched concurrently. Single-flight
// keyed by resolved URL closes the check-then-fetch race that would
// otherwise double-download an asset referenced twice on one page.
type Fetcher struct {
	// client performs the HTTP requests. It carries the request timeout.
	client *http.Client

	// outputRoot is the directory assets are written under.
	outputRoot string

	// baseHost is the host of the job's start URL, used to resolve
	// root-relative asset references.
	baseHost string

	// userAgent is sent with every asset request.
	userAgent string

	// maxBodySize limits the bytes read from one response.
	maxBodySize int64

	// concurrency bounds parallel downloads per FetchAll call.
	concurrency int

	// logger receives per-asset debug and warning output.
	logger *slog.Logger

	// mu guards cache.
	mu sync.Mutex

	// cache maps resolved asset URLs to their stored root-relative
	// paths. An empty value marks a URL whose download already failed,
	// so each URL gets one attempt per job.
	cache map[string]string

	// cssDone marks stylesheets whose url() references have been
	// rewritten, so an import cycle terminates after one pass.
	cssDone map[string]bool

	// group deduplicates concurrent downloads of the same URL.
	group singleflight.Group
}

// errAssetUnavailable marks fetches that hit a negative cache entry.
var errAssetUnavailable = errors.New("asset marked unavailable")

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithClient sets a custom HTTP client. The client's timeout applies to
// every asset request.
func WithClient(client *http.Client) Option {
	return func(f *Fetcher) {
		f.client = client
	}
}

// WithUserAgent sets the User-Agent header for asset requests.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// WithLogger sets the logger used for per-asset output.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Fetcher) {
		f.logger = logger
	}
}

// WithConcurrency sets how many asset downloads may run in parallel.
func WithConcurrency(n int) Option {
	return func(f *Fetcher) {
		if n > 0 {
			f.concurrency = n
		}
	}
}

// WithMaxBodySize sets the maximum response size read per asset.
func WithMaxBodySize(size int64) Option {
	return func(f *Fetcher) {
		if size > 0 {
			f.maxBodySize = size
		}
	}
}

// NewFetcher creates a Fetcher writing under outputRoot. baseHost is the
// host of the job's start URL and anchors root-relative references.
func NewFetcher(outputRoot, baseHost string, opts ...Option) *Fetcher {
	f := &Fetcher{
		client:      &http.Client{Timeout: DefaultTimeout},
		outputRoot:  outputRoot,
		baseHost:    baseHost,
		maxBodySize: DefaultMaxBodySize,
		concurrency: DefaultConcurrency,
		cache:       make(map[string]string),
		cssDone:     make(map[string]bool),
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.logger == nil {
		f.logger = slog.Default()
	}
	return f
}

// Fetch downloads one asset and returns its stored path relative to the
// output root. Protocol-relative and root-relative references are
// resolved against the current page's origin first. On any transport
// error, timeout, or non-2xx status the original reference is returned
// unchanged so the page keeps its remote URL rather than a broken local
// one. Repeat fetches of the same URL hit the per-job cache; a URL that
// failed once is not retried for the rest of the job.
func (f *Fetcher) Fetch(ctx context.Context, assetURL, baseURL string) string {
	return f.fetch(ctx, assetURL, baseURL, true)
}

// FetchAll downloads a batch of asset references concurrently, bounded
// by the fetcher's concurrency limit. It is used to warm the cache for
// one page before the rewriter substitutes references sequentially.
func (f *Fetcher) FetchAll(ctx context.Context, assetURLs []string, baseURL string) {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(f.concurrency)
	for _, assetURL := range assetURLs {
		g.Go(func() error {
			f.Fetch(ctx, assetURL, baseURL)
			return nil
		})
	}
	_ = g.Wait() // individual failures are soft
}

// fetch implements Fetch. processCSS controls whether a fetched
// stylesheet gets its own url() references rewritten; the substitution
// pass inside RewriteCSS passes false because the warm-up pass already
// processed the sheet.
func (f *Fetcher) fetch(ctx context.Context, assetURL, baseURL string, processCSS bool) string {
	if assetURL == "" || strings.HasPrefix(assetURL, "data:") {
		return assetURL
	}

	fullURL, localPath, err := f.resolve(assetURL, baseURL)
	if err != nil {
		f.logger.Debug("skipping unresolvable asset", "asset", assetURL, "error", err)
		return assetURL
	}

	f.mu.Lock()
	if cached, ok := f.cache[fullURL]; ok {
		f.mu.Unlock()
		if cached == "" {
			return assetURL
		}
		return cached
	}
	f.mu.Unlock()

	stored, err, _ := f.group.Do(fullURL, func() (any, error) {
		// Re-check under single-flight: a concurrent caller may have
		// completed while this one waited.
		f.mu.Lock()
		if cached, ok := f.cache[fullURL]; ok {
			f.mu.Unlock()
			if cached == "" {
				return nil, errAssetUnavailable
			}
			return cached, nil
		}
		f.mu.Unlock()

		if err := f.download(ctx, fullURL, localPath); err != nil {
			f.mu.Lock()
			f.cache[fullURL] = "" // one attempt per URL per job
			f.mu.Unlock()
			return nil, err
		}

		f.mu.Lock()
		f.cache[fullURL] = localPath
		f.mu.Unlock()
		return localPath, nil
	})
	if err != nil {
		if !errors.Is(err, errAssetUnavailable) {
			f.logger.Warn("asset download failed", "asset", fullURL, "error", err)
		}
		return assetURL
	}

	local := stored.(string)
	if processCSS && strings.HasSuffix(local, ".css") {
		f.processStylesheet(ctx, fullURL, local)
	}
	return local
}

// processStylesheet rewrites the url() references inside a stored
// stylesheet, at most once per URL per job. The done marker is set
// before the rewrite runs so a stylesheet import cycle terminates at the
// cache instead of re-entering the in-flight download. Nested fetches
// happen here, outside the single-flight critical section.
func (f *Fetcher) processStylesheet(ctx context.Context, fullURL, localPath string) {
	f.mu.Lock()
	if f.cssDone[fullURL] {
		f.mu.Unlock()
		return
	}
	f.cssDone[fullURL] = true
	f.mu.Unlock()

	target := filepath.Join(f.outputRoot, filepath.FromSlash(localPath))
	body, err := os.ReadFile(target)
	if err != nil {
		f.logger.Warn("stylesheet rewrite failed", "asset", fullURL, "error", err)
		return
	}

	rewritten := f.RewriteCSS(ctx, string(body), fullURL, localPath)
	if rewritten == string(body) {
		return
	}
	if err := os.WriteFile(target, []byte(rewritten), 0600); err != nil {
		f.logger.Warn("stylesheet rewrite failed", "asset", fullURL, "error", err)
	}
}

// download retrieves one asset and writes it under the output root.
// Writes are full-overwrite and idempotent.
func (f *Fetcher) download(ctx context.Context, fullURL, localPath string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return err
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}
	req.Header.Set("Accept", "*/*")

	resp, err := f.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodySize))
	if err != nil {
		return err
	}

	target := filepath.Join(f.outputRoot, filepath.FromSlash(localPath))
	if err := os.MkdirAll(filepath.Dir(target), 0750); err != nil {
		return err
	}
	if err := os.WriteFile(target, body, 0600); err != nil {
		return err
	}

	f.logger.Debug("saved asset", "asset", fullURL, "path", localPath)
	return nil
}

// resolve turns an asset reference into the absolute URL to request and
// the root-relative path to store it under. The stored layout mirrors
// the site: root-relative references keep their path, everything else is
// filed under its host.
func (f *Fetcher) resolve(assetURL, baseURL string) (fullURL, localPath string, err error) {
	scheme := "https"
	if base, parseErr := url.Parse(baseURL); parseErr == nil && base.Scheme != "" {
		scheme = base.Scheme
	}

	switch {
	case strings.HasPrefix(assetURL, "//"):
		fullURL = scheme + ":" + assetURL
		localPath = strings.TrimPrefix(assetURL, "//")
	case strings.HasPrefix(assetURL, "/"):
		fullURL = scheme + "://" + f.baseHost + assetURL
		localPath = strings.TrimPrefix(assetURL, "/")
	case strings.HasPrefix(assetURL, "http://"), strings.HasPrefix(assetURL, "https://"):
		u, parseErr := url.Parse(assetURL)
		if parseErr != nil {
			return "", "", parseErr
		}
		fullURL = assetURL
		localPath = u.Host + u.Path
	default:
		base, parseErr := url.Parse(baseURL)
		if parseErr != nil {
			return "", "", parseErr
		}
		ref, parseErr := url.Parse(assetURL)
		if parseErr != nil {
			return "", "", parseErr
		}
		resolved := base.ResolveReference(ref)
		fullURL = resolved.String()
		localPath = strings.TrimPrefix(resolved.Path, "/")
	}

	localPath = sanitizeLocalPath(localPath)
	if localPath == "" {
		return "", "", fmt.Errorf("no usable local path for %q", assetURL)
	}
	return fullURL, localPath, nil
}

// sanitizeLocalPath strips query strings and rejects traversal outside
// the output root.
func sanitizeLocalPath(p string) string {
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	p = path.Clean(p)
	if p == "." || p == "/" || strings.HasPrefix(p, "..") {
		return ""
	}
	return strings.TrimPrefix(p, "/")
}
