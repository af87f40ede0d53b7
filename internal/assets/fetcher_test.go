package assets

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// TestFetcherDeduplicates verifies repeat references to one asset URL
// resolve to one stored file without a second request.
func TestFetcherDeduplicates(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte("body{color:red}"))
	}))
	defer srv.Close()

	host := mustHost(t, srv.URL)
	f := NewFetcher(t.TempDir(), host)

	first := f.Fetch(context.Background(), srv.URL+"/style.css", srv.URL)
	second := f.Fetch(context.Background(), srv.URL+"/style.css", srv.URL)

	if first != second {
		t.Errorf("expected identical local paths, got %q and %q", first, second)
	}
	if got := hits.Load(); got != 1 {
		t.Errorf("expected 1 request, got %d", got)
	}
	if want := host + "/style.css"; first != want {
		t.Errorf("expected local path %q, got %q", want, first)
	}
}

// TestFetcherSingleFlight verifies concurrent fetches of one URL issue
// a single request.
func TestFetcherSingleFlight(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		<-release
		w.Write([]byte("x"))
	}))
	defer srv.Close()

	f := NewFetcher(t.TempDir(), mustHost(t, srv.URL))

	var wg sync.WaitGroup
	results := make([]string, 4)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = f.Fetch(context.Background(), srv.URL+"/app.js", srv.URL)
		}()
	}
	// Give the goroutines time to pile up behind the in-flight request.
	close(release)
	wg.Wait()

	if got := hits.Load(); got != 1 {
		t.Errorf("expected 1 request for concurrent fetches, got %d", got)
	}
	for _, r := range results[1:] {
		if r != results[0] {
			t.Errorf("expected all callers to share one path, got %v", results)
		}
	}
}

// TestFetcherSoftFail verifies transport failures return the original
// reference unchanged.
func TestFetcherSoftFail(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	f := NewFetcher(t.TempDir(), mustHost(t, srv.URL))

	ref := srv.URL + "/missing.png"
	if got := f.Fetch(context.Background(), ref, srv.URL); got != ref {
		t.Errorf("expected original reference on 404, got %q", got)
	}
}

// TestFetcherFailureCached verifies a failed download is attempted once
// per job, no matter how many references point at it.
func TestFetcherFailureCached(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		http.NotFound(w, r)
	}))
	defer srv.Close()

	f := NewFetcher(t.TempDir(), mustHost(t, srv.URL))

	ref := srv.URL + "/missing.png"
	if got := f.Fetch(context.Background(), ref, srv.URL); got != ref {
		t.Errorf("expected original reference on 404, got %q", got)
	}
	if got := f.Fetch(context.Background(), ref, srv.URL); got != ref {
		t.Errorf("expected original reference on repeat fetch, got %q", got)
	}
	// A differently spelled reference to the same URL must not retry
	// either, and must keep its own spelling.
	if got := f.Fetch(context.Background(), "/missing.png", srv.URL); got != "/missing.png" {
		t.Errorf("expected root-relative spelling kept, got %q", got)
	}

	if got := hits.Load(); got != 1 {
		t.Errorf("expected 1 request for a failing asset, got %d", got)
	}
}

// TestFetchStylesheetImportCycle verifies stylesheets that import each
// other (or themselves) are fetched, rewritten, and returned without
// hanging the job.
func TestFetchStylesheetImportCycle(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/a.css":
			w.Write([]byte(`@import url("/b.css");` + "\n" + `@import url("/a.css");`))
		case "/b.css":
			w.Write([]byte(`@import url("/a.css");`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	outputRoot := t.TempDir()
	f := NewFetcher(outputRoot, mustHost(t, srv.URL))

	done := make(chan string, 1)
	go func() {
		done <- f.Fetch(context.Background(), "/a.css", srv.URL+"/")
	}()

	var got string
	select {
	case got = <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Fetch did not return for a stylesheet import cycle")
	}
	if want := "a.css"; got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}

	a, err := os.ReadFile(filepath.Join(outputRoot, "a.css"))
	if err != nil {
		t.Fatalf("expected a.css stored: %v", err)
	}
	if !strings.Contains(string(a), `url("b.css")`) {
		t.Errorf("expected a.css repointed at the local b.css, got:\n%s", a)
	}
	b, err := os.ReadFile(filepath.Join(outputRoot, "b.css"))
	if err != nil {
		t.Fatalf("expected b.css stored: %v", err)
	}
	if !strings.Contains(string(b), `url("a.css")`) {
		t.Errorf("expected b.css repointed at the local a.css, got:\n%s", b)
	}
}

// TestFetcherResolvesRelativeForms tests protocol-relative and
// root-relative reference resolution.
func TestFetcherResolvesRelativeForms(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("asset"))
	}))
	defer srv.Close()

	host := mustHost(t, srv.URL)
	outputRoot := t.TempDir()
	f := NewFetcher(outputRoot, host)

	t.Run("root relative", func(t *testing.T) {
		got := f.Fetch(context.Background(), "/img/logo.png", srv.URL+"/blog/post")
		want := "img/logo.png"
		if got != want {
			t.Errorf("expected %q, got %q", want, got)
		}
		if _, err := os.Stat(filepath.Join(outputRoot, filepath.FromSlash(want))); err != nil {
			t.Errorf("expected stored file: %v", err)
		}
	})

	t.Run("page relative", func(t *testing.T) {
		got := f.Fetch(context.Background(), "css/site.css", srv.URL+"/docs/guide")
		if want := "docs/css/site.css"; got != want {
			t.Errorf("expected %q, got %q", want, got)
		}
	})

	t.Run("data url untouched", func(t *testing.T) {
		ref := "data:image/png;base64,AAAA"
		if got := f.Fetch(context.Background(), ref, srv.URL); got != ref {
			t.Errorf("expected data URL unchanged, got %q", got)
		}
	})
}

// TestRewriteCSS verifies url() references inside stylesheets are
// fetched and repointed relative to the sheet's location.
func TestRewriteCSS(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, ".woff2") {
			w.Write([]byte("font-bytes"))
			return
		}
		http.NotFound(w, r)
	}))
	defer srv.Close()

	host := mustHost(t, srv.URL)
	f := NewFetcher(t.TempDir(), host)

	css := `@font-face { src: url("` + srv.URL + `/fonts/body.woff2"); }
.bg { background: url(/broken.png); }`

	got := f.RewriteCSS(context.Background(), css, srv.URL+"/css/site.css", host+"/css/site.css")

	if !strings.Contains(got, `url("../fonts/body.woff2")`) {
		t.Errorf("expected font repointed relative to the sheet, got:\n%s", got)
	}
	if !strings.Contains(got, "url(/broken.png)") {
		t.Errorf("expected failed reference kept verbatim, got:\n%s", got)
	}
}

// mustHost extracts the host:port from a test server URL.
func mustHost(t *testing.T, rawURL string) string {
	t.Helper()
	u, err := url.Parse(rawURL)
	if err != nil {
		t.Fatalf("failed to parse %q: %v", rawURL, err)
	}
	return u.Host
}
