package archive

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"sort"
	"testing"
)

// TestPackRoundTrip verifies the archive contains exactly the written
// files with their content intact.
func TestPackRoundTrip(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	files := map[string]string{
		"index.html":     "<html>home</html>",
		"blog/post.html": "<html>post</html>",
		"static/app.css": "body{margin:0}",
	}
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
			t.Fatalf("failed to create dir: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			t.Fatalf("failed to write file: %v", err)
		}
	}

	zipPath := filepath.Join(t.TempDir(), "site.zip")
	if err := Pack(root, zipPath); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	r, err := zip.OpenReader(zipPath)
	if err != nil {
		t.Fatalf("failed to open archive: %v", err)
	}
	defer r.Close()

	var names []string
	for _, f := range r.File {
		names = append(names, f.Name)

		rc, err := f.Open()
		if err != nil {
			t.Fatalf("failed to open entry %s: %v", f.Name, err)
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatalf("failed to read entry %s: %v", f.Name, err)
		}
		if got, want := string(content), files[f.Name]; got != want {
			t.Errorf("entry %s: got %q, want %q", f.Name, got, want)
		}
	}

	sort.Strings(names)
	want := []string{"blog/post.html", "index.html", "static/app.css"}
	if len(names) != len(want) {
		t.Fatalf("expected entries %v, got %v", want, names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("expected entries %v, got %v", want, names)
			break
		}
	}
}

// TestCleanup verifies the output tree is removed.
func TestCleanup(t *testing.T) {
	t.Parallel()

	root := filepath.Join(t.TempDir(), "out")
	if err := os.MkdirAll(filepath.Join(root, "blog"), 0750); err != nil {
		t.Fatalf("failed to create dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(root, "index.html"), []byte("x"), 0600); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	if err := Cleanup(root); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := os.Stat(root); !os.IsNotExist(err) {
		t.Errorf("expected tree removed, stat returned %v", err)
	}
}
