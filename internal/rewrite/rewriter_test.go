package rewrite

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nao1215/sitemirror/internal/assets"
	"github.com/nao1215/sitemirror/internal/badge"
	"github.com/nao1215/sitemirror/internal/model"
)

// newTestRewriter builds a Rewriter writing under outputRoot with the
// platform's stripper.
func newTestRewriter(t *testing.T, serverURL, outputRoot string, platform model.Platform) *Rewriter {
	t.Helper()
	u, err := url.Parse(serverURL)
	if err != nil {
		t.Fatalf("failed to parse %q: %v", serverURL, err)
	}
	return New(assets.NewFetcher(outputRoot, u.Host), badge.ForPlatform(platform))
}

// TestRewriteLinks verifies internal hyperlinks become relative
// references between clean paths while external and non-navigational
// links survive untouched.
func TestRewriteLinks(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	r := newTestRewriter(t, srv.URL, t.TempDir(), model.PlatformGeneral)

	html := `<html><body>
<a href="/about">About</a>
<a href="/">Home</a>
<a href="` + srv.URL + `/pricing">Pricing</a>
<a href="mailto:team@example.com">Mail</a>
<a href="#top">Top</a>
<a href="https://facebook.com/acme">Facebook</a>
</body></html>`

	got, err := r.Rewrite(context.Background(), html, srv.URL+"/blog/post")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wants := []string{
		`href="../about.html"`,
		`href="../index.html"`,
		`href="../pricing.html"`,
		`href="mailto:team@example.com"`,
		`href="#top"`,
		`href="https://facebook.com/acme"`,
	}
	for _, want := range wants {
		if !strings.Contains(got, want) {
			t.Errorf("expected output to contain %s, got:\n%s", want, got)
		}
	}
}

// TestRewriteAssets verifies referenced assets are downloaded, stored
// under the output root, and referenced relative to the page.
func TestRewriteAssets(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/static/app.css":
			w.Write([]byte("body{margin:0}"))
		case "/static/logo.png":
			w.Write([]byte("png-bytes"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	outputRoot := t.TempDir()
	r := newTestRewriter(t, srv.URL, outputRoot, model.PlatformGeneral)

	html := `<html><head>
<link rel="stylesheet" href="/static/app.css">
</head><body>
<img src="/static/logo.png" alt="logo">
<img src="data:image/png;base64,AAAA" alt="inline">
<img src="/missing.png" alt="gone">
</body></html>`

	got, err := r.Rewrite(context.Background(), html, srv.URL+"/docs/guide")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(got, `href="../static/app.css"`) {
		t.Errorf("expected stylesheet repointed, got:\n%s", got)
	}
	if !strings.Contains(got, `src="../static/logo.png"`) {
		t.Errorf("expected image repointed, got:\n%s", got)
	}
	if !strings.Contains(got, `src="data:image/png;base64,AAAA"`) {
		t.Errorf("expected data URL untouched, got:\n%s", got)
	}
	if !strings.Contains(got, `src="/missing.png"`) {
		t.Errorf("expected failed asset to keep its reference, got:\n%s", got)
	}

	for _, p := range []string{"static/app.css", "static/logo.png"} {
		if _, err := os.Stat(filepath.Join(outputRoot, filepath.FromSlash(p))); err != nil {
			t.Errorf("expected stored asset %s: %v", p, err)
		}
	}
}

// TestRewriteSrcset verifies each srcset candidate is substituted while
// its descriptor is preserved.
func TestRewriteSrcset(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("img"))
	}))
	defer srv.Close()

	r := newTestRewriter(t, srv.URL, t.TempDir(), model.PlatformGeneral)

	html := `<img src="/img/a.png" srcset="/img/a.png 1x, /img/b.png 2x">`

	got, err := r.Rewrite(context.Background(), html, srv.URL+"/docs/guide")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(got, `srcset="../img/a.png 1x, ../img/b.png 2x"`) {
		t.Errorf("expected srcset candidates repointed, got:\n%s", got)
	}
}

// TestRewriteInlineStyle verifies url() references inside style blocks
// and style attributes are routed through the stylesheet rewriter.
func TestRewriteInlineStyle(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("bg"))
	}))
	defer srv.Close()

	r := newTestRewriter(t, srv.URL, t.TempDir(), model.PlatformGeneral)

	html := `<html><head>
<style>.hero { background: url(/img/bg.png); }</style>
</head><body>
<div style="background-image: url(/img/tile.png)">x</div>
</body></html>`

	got, err := r.Rewrite(context.Background(), html, srv.URL+"/docs/guide")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(got, `url(&#34;../img/bg.png&#34;)`) && !strings.Contains(got, `url("../img/bg.png")`) {
		t.Errorf("expected style block repointed, got:\n%s", got)
	}
	if !strings.Contains(got, "../img/tile.png") {
		t.Errorf("expected style attribute repointed, got:\n%s", got)
	}
}

// TestRewriteStripsBadgeLast verifies the platform stripper runs after
// rewriting, so badge markup disappears while regular links are still
// processed.
func TestRewriteStripsBadgeLast(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	r := newTestRewriter(t, srv.URL, t.TempDir(), model.PlatformFramer)

	html := `<html><body>
<div id="__framer-badge-container">badge</div>
<a href="/about">About</a>
</body></html>`

	got, err := r.Rewrite(context.Background(), html, srv.URL+"/index")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if strings.Contains(got, `id="__framer-badge-container"`) {
		t.Errorf("expected badge container removed, got:\n%s", got)
	}
	if !strings.Contains(got, `href="about.html"`) {
		t.Errorf("expected link rewritten, got:\n%s", got)
	}
}
