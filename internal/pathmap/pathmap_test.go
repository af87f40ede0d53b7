package pathmap

import (
	"path"
	"testing"
)

// TestCleanPath tests URL to local path mapping.
func TestCleanPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		url  string
		want string
	}{
		{"root", "https://example.com/", "index.html"},
		{"empty path", "https://example.com", "index.html"},
		{"query and fragment stripped", "https://example.com/blog/post-1?utm=x#top", "blog/post-1.html"},
		{"single segment", "https://example.com/about", "about.html"},
		{"already html", "https://example.com/about.html", "about.html"},
		{"other extension replaced", "https://example.com/page.php", "page.html"},
		{"multi dot keeps first token", "https://example.com/app.min.js", "app.html"},
		{"nested folders preserved", "https://example.com/docs/guide/start", "docs/guide/start.html"},
		{"trailing slash", "https://example.com/blog/", "blog.html"},
		{"double slashes collapsed", "https://example.com//blog//post", "blog/post.html"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := CleanPath(tt.url); got != tt.want {
				t.Errorf("CleanPath(%q) = %q, want %q", tt.url, got, tt.want)
			}
		})
	}
}

// TestCleanPathDeterministic verifies identical URLs modulo query and
// fragment always map to the same path.
func TestCleanPathDeterministic(t *testing.T) {
	t.Parallel()

	variants := []string{
		"https://example.com/blog/post-1",
		"https://example.com/blog/post-1?utm=x",
		"https://example.com/blog/post-1#top",
		"https://example.com/blog/post-1?a=b#frag",
	}
	want := CleanPath(variants[0])
	for _, v := range variants {
		if got := CleanPath(v); got != want {
			t.Errorf("CleanPath(%q) = %q, want %q", v, got, want)
		}
	}
}

// TestRelativeLink tests relative reference computation between clean paths.
func TestRelativeLink(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		from string
		to   string
		want string
	}{
		{"same directory", "a.html", "b.html", "b.html"},
		{"root to nested", "index.html", "blog/post.html", "blog/post.html"},
		{"nested to root", "blog/post-1.html", "index.html", "../index.html"},
		{"sibling directories", "blog/post.html", "docs/guide.html", "../docs/guide.html"},
		{"shared prefix", "docs/guide/start.html", "docs/api/ref.html", "../api/ref.html"},
		{"multi level ancestor", "a/b/c/deep.html", "index.html", "../../../index.html"},
		{"same nested directory", "blog/a.html", "blog/b.html", "b.html"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := RelativeLink(tt.from, tt.to)
			if got != tt.want {
				t.Errorf("RelativeLink(%q, %q) = %q, want %q", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

// TestRelativeLinkRoundTrip verifies that resolving the relative link
// against the source directory yields the target path.
func TestRelativeLinkRoundTrip(t *testing.T) {
	t.Parallel()

	pairs := [][2]string{
		{"index.html", "about.html"},
		{"blog/post-1.html", "index.html"},
		{"blog/post-1.html", "blog/post-2.html"},
		{"a/b/c.html", "x/y/z.html"},
		{"docs/guide/start.html", "docs/index.html"},
	}

	for _, pair := range pairs {
		from, to := pair[0], pair[1]
		rel := RelativeLink(from, to)
		resolved := path.Clean(path.Join(path.Dir(from), rel))
		if resolved != to {
			t.Errorf("resolving %q from %q gives %q, want %q", rel, from, resolved, to)
		}
	}
}

// TestIsInternal tests internal/external link classification.
func TestIsInternal(t *testing.T) {
	t.Parallel()

	const current = "https://example.com/blog/post"

	tests := []struct {
		name string
		link string
		want bool
	}{
		{"mailto", "mailto:hi@example.com", false},
		{"tel", "tel:+123456", false},
		{"fragment", "#section", false},
		{"javascript", "javascript:void(0)", false},
		{"empty", "", false},
		{"relative", "about", true},
		{"root relative", "/contact", true},
		{"same host absolute", "https://example.com/pricing", true},
		{"other host absolute", "https://other.com/page", false},
		{"denylist on host match", "https://youtube.com/watch", false},
		{"denylist subdomain", "https://www.facebook.com/page", false},
		{"protocol relative same host", "//example.com/assets", true},
		{"protocol relative denylist", "//maps.google.com/embed", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := IsInternal(tt.link, current); got != tt.want {
				t.Errorf("IsInternal(%q, %q) = %v, want %v", tt.link, current, got, tt.want)
			}
		})
	}
}

// TestPageName tests URL derived page titles.
func TestPageName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		url  string
		want string
	}{
		{"https://example.com/", "Home"},
		{"https://example.com/about-us", "About Us"},
		{"https://example.com/docs/getting_started", "Getting Started"},
	}

	for _, tt := range tests {
		if got := PageName(tt.url); got != tt.want {
			t.Errorf("PageName(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
}
