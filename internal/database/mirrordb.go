package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/sitemirror/internal/model"
)

// MirrorDB provides SQLite-based storage for mirror job history. Each
// completed job is stored with its page records so earlier mirrors of a
// site can be inspected and compared.
type MirrorDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures MirrorDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent performance.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a MirrorDB in the specified directory.
func Open(dbDir string, opts Options) (*MirrorDB, error) {
	dbPath := filepath.Join(dbDir, "sitemirror.db")

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// modernc.org/sqlite connection string: mode=rw prevents creating
	// new files, mode=rwc allows creation.
	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	mdb := &MirrorDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := mdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return mdb, nil
}

// Close closes the database connection.
func (mdb *MirrorDB) Close() error {
	return mdb.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (mdb *MirrorDB) createTables() error {
	schema := `
	-- Jobs store one row per completed mirror invocation
	CREATE TABLE IF NOT EXISTS jobs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		start_url TEXT NOT NULL,
		platform TEXT NOT NULL,
		mode TEXT NOT NULL,
		page_count INTEGER NOT NULL,
		output_root TEXT NOT NULL,
		timestamp DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_jobs_start_url ON jobs(start_url);
	CREATE INDEX IF NOT EXISTS idx_jobs_timestamp ON jobs(timestamp);

	-- Pages store the written page records of each job
	CREATE TABLE IF NOT EXISTS pages (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		job_id INTEGER NOT NULL REFERENCES jobs(id) ON DELETE CASCADE,
		url TEXT NOT NULL,
		local_path TEXT NOT NULL,
		title TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_pages_job ON pages(job_id);
	`

	_, err := mdb.db.ExecContext(context.Background(), schema)
	return err
}

// JobRecord summarizes one stored mirror job.
type JobRecord struct {
	// ID is the job's database identifier.
	ID int64

	// StartURL is the URL the job was seeded with.
	StartURL string

	// Platform is the platform the stripper ran for.
	Platform string

	// Mode is the crawl mode the job ran in.
	Mode string

	// PageCount is how many pages the job wrote.
	PageCount int

	// OutputRoot is where the mirrored tree was written.
	OutputRoot string

	// Timestamp is when the job finished.
	Timestamp time.Time
}

// SaveResult stores one completed job and its page records. It returns
// the new job's ID.
func (mdb *MirrorDB) SaveResult(ctx context.Context, job model.CrawlJob, platform model.Platform, result *model.CrawlResult) (int64, error) {
	tx, err := mdb.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	res, err := tx.ExecContext(ctx,
		`INSERT INTO jobs (start_url, platform, mode, page_count, output_root) VALUES (?, ?, ?, ?, ?)`,
		job.StartURL, platform.String(), job.Mode.String(), result.PageCount, result.OutputRoot,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert job: %w", err)
	}
	jobID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read job id: %w", err)
	}

	for _, page := range result.Pages {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO pages (job_id, url, local_path, title) VALUES (?, ?, ?, ?)`,
			jobID, page.URL, page.LocalPath, page.Title,
		); err != nil {
			return 0, fmt.Errorf("failed to insert page record: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit job: %w", err)
	}
	return jobID, nil
}

// ListJobs returns stored jobs, newest first.
func (mdb *MirrorDB) ListJobs(ctx context.Context) ([]JobRecord, error) {
	rows, err := mdb.db.QueryContext(ctx, `
	SELECT id, start_url, platform, mode, page_count, output_root, timestamp
	FROM jobs
	ORDER BY timestamp DESC, id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	defer rows.Close()

	var jobs []JobRecord
	for rows.Next() {
		var job JobRecord
		var timestamp string
		if err := rows.Scan(&job.ID, &job.StartURL, &job.Platform, &job.Mode,
			&job.PageCount, &job.OutputRoot, &timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan job: %w", err)
		}
		job.Timestamp = parseTimestamp(timestamp)
		jobs = append(jobs, job)
	}

	return jobs, rows.Err()
}

// PagesForJob returns the page records of one job in insertion order.
func (mdb *MirrorDB) PagesForJob(ctx context.Context, jobID int64) ([]model.PageRecord, error) {
	rows, err := mdb.db.QueryContext(ctx, `
	SELECT url, local_path, title FROM pages
	WHERE job_id = ?
	ORDER BY id
	`, jobID)
	if err != nil {
		return nil, fmt.Errorf("failed to query pages: %w", err)
	}
	defer rows.Close()

	var pages []model.PageRecord
	for rows.Next() {
		var page model.PageRecord
		if err := rows.Scan(&page.URL, &page.LocalPath, &page.Title); err != nil {
			return nil, fmt.Errorf("failed to scan page: %w", err)
		}
		pages = append(pages, page)
	}

	return pages, rows.Err()
}

// timestampFormats contains the timestamp formats that SQLite may return.
// More specific formats come first.
var timestampFormats = []string{
	"2006-01-02 15:04:05",     // SQLite default datetime format
	"2006-01-02T15:04:05Z",    // ISO 8601 with Z suffix
	"2006-01-02T15:04:05",     // ISO 8601 without timezone
	time.RFC3339,              // Full RFC3339 format
	time.RFC3339Nano,          // RFC3339 with nanoseconds
	"2006-01-02 15:04:05.999", // SQLite with milliseconds
}

// parseTimestamp attempts to parse a timestamp string using multiple
// formats. Returns zero time when no format matches.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
