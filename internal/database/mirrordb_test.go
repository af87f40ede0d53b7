package database

import (
	"context"
	"testing"

	"github.com/nao1215/sitemirror/internal/model"
)

// TestSaveAndListJobs verifies a completed job round-trips through the
// database with its page records.
func TestSaveAndListJobs(t *testing.T) {
	t.Parallel()

	mdb, err := Open(t.TempDir(), DefaultOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer mdb.Close()

	job := model.CrawlJob{
		StartURL:   "https://example.com",
		Mode:       model.ModeMultiPage,
		OutputRoot: "/tmp/out",
	}
	result := &model.CrawlResult{
		Success:    true,
		PageCount:  2,
		OutputRoot: "/tmp/out",
		Pages: []model.PageRecord{
			{URL: "https://example.com/", LocalPath: "index.html", Title: "Home"},
			{URL: "https://example.com/about", LocalPath: "about.html", Title: "About"},
		},
	}

	jobID, err := mdb.SaveResult(context.Background(), job, model.PlatformFramer, result)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if jobID == 0 {
		t.Fatal("expected non-zero job ID")
	}

	jobs, err := mdb.ListJobs(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(jobs) != 1 {
		t.Fatalf("expected 1 job, got %d", len(jobs))
	}
	got := jobs[0]
	if got.StartURL != job.StartURL || got.Platform != "framer" || got.Mode != "multi_page" || got.PageCount != 2 {
		t.Errorf("unexpected job record: %+v", got)
	}

	pages, err := mdb.PagesForJob(context.Background(), jobID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pages) != 2 {
		t.Fatalf("expected 2 pages, got %d", len(pages))
	}
	if pages[0].LocalPath != "index.html" || pages[1].LocalPath != "about.html" {
		t.Errorf("unexpected page order: %+v", pages)
	}
}

// TestOpenRequiresExisting verifies mode=rw refuses to create a new
// database file.
func TestOpenRequiresExisting(t *testing.T) {
	t.Parallel()

	opts := DefaultOptions()
	opts.CreateIfNotExists = false

	if _, err := Open(t.TempDir(), opts); err == nil {
		t.Fatal("expected error for missing database")
	}
}
