package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"catacrawl/internal/model"
)

// CrawlDB provides SQLite-based storage for crawl history and asset
// records. It manages connection pooling and provides methods for CRUD
// operations.
//
// A single database file covers all crawled pages rather than one file
// per output directory. This keeps re-crawl detection and history
// queries in one place.
type CrawlDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures CrawlDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent performance.
	// This is recommended for most use cases.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a CrawlDB at the specified directory.
// If CreateIfNotExists is true, the directory and database file are created.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*CrawlDB, error) {
	dbPath := filepath.Join(dbDir, "catacrawl.db")

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// modernc.org/sqlite uses mode=rw to prevent creating new files and
	// mode=rwc to allow creation.
	var dsn string
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	} else {
		dsn = dbPath + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	cdb := &CrawlDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := cdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return cdb, nil
}

// Close closes the database connection.
func (cdb *CrawlDB) Close() error {
	return cdb.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (cdb *CrawlDB) createTables() error {
	schema := `
	-- Page records store one row per crawled catalog page
	CREATE TABLE IF NOT EXISTS pages (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		url TEXT NOT NULL UNIQUE,
		output_dir TEXT NOT NULL,
		level TEXT NOT NULL,
		title TEXT,
		content_hash TEXT,
		document_count INTEGER DEFAULT 0,
		image_count INTEGER DEFAULT 0,
		diagram_count INTEGER DEFAULT 0,
		crawled_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_pages_url ON pages(url);
	CREATE INDEX IF NOT EXISTS idx_pages_crawled_at ON pages(crawled_at);

	-- Asset records store the files downloaded for each page
	CREATE TABLE IF NOT EXISTS assets (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		page_id INTEGER NOT NULL,
		kind TEXT NOT NULL,
		name TEXT NOT NULL,
		file_path TEXT NOT NULL,
		url TEXT NOT NULL,
		language TEXT,
		date TEXT,
		description TEXT,
		exif TEXT,
		FOREIGN KEY(page_id) REFERENCES pages(id)
	);

	CREATE INDEX IF NOT EXISTS idx_assets_page ON assets(page_id);
	CREATE INDEX IF NOT EXISTS idx_assets_kind ON assets(kind);
	`

	_, err := cdb.db.ExecContext(context.Background(), schema)
	return err
}

// SavePage inserts or updates the page record for a URL and returns its
// row ID. Re-crawling a URL replaces the previous record.
func (cdb *CrawlDB) SavePage(ctx context.Context, record *model.PageRecord) (int64, error) {
	query := `
	INSERT INTO pages (url, output_dir, level, title, content_hash, document_count, image_count, diagram_count)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(url) DO UPDATE SET
		output_dir = excluded.output_dir,
		level = excluded.level,
		title = excluded.title,
		content_hash = excluded.content_hash,
		document_count = excluded.document_count,
		image_count = excluded.image_count,
		diagram_count = excluded.diagram_count,
		crawled_at = CURRENT_TIMESTAMP
	`

	_, err := cdb.db.ExecContext(ctx, query,
		record.URL,
		record.OutputDir,
		string(record.Level),
		record.Title,
		record.ContentHash,
		record.DocumentCount,
		record.ImageCount,
		record.DiagramCount,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to save page record: %w", err)
	}

	// LastInsertId is unreliable for upserts that hit the update branch,
	// so read the row ID back by URL.
	var id int64
	if err := cdb.db.QueryRowContext(ctx, "SELECT id FROM pages WHERE url = ?", record.URL).Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to read back page ID: %w", err)
	}
	return id, nil
}

// GetPage retrieves the page record for a URL. Returns nil without an
// error when the URL has never been crawled.
func (cdb *CrawlDB) GetPage(ctx context.Context, url string) (*model.PageRecord, error) {
	query := `
	SELECT id, url, output_dir, level, title, content_hash, document_count, image_count, diagram_count, crawled_at
	FROM pages
	WHERE url = ?
	`

	var record model.PageRecord
	var level string
	var crawledAt string

	err := cdb.db.QueryRowContext(ctx, query, url).Scan(
		&record.ID,
		&record.URL,
		&record.OutputDir,
		&level,
		&record.Title,
		&record.ContentHash,
		&record.DocumentCount,
		&record.ImageCount,
		&record.DiagramCount,
		&crawledAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get page record: %w", err)
	}

	record.Level = model.PageLevel(level)
	record.CrawledAt = parseTimestamp(crawledAt)
	return &record, nil
}

// HasRecentCrawl checks if a URL was crawled within the specified duration.
func (cdb *CrawlDB) HasRecentCrawl(ctx context.Context, url string, duration time.Duration) (bool, error) {
	query := `
	SELECT COUNT(*) FROM pages
	WHERE url = ? AND crawled_at > datetime('now', ?)
	`

	// SQLite datetime modifier format
	modifier := fmt.Sprintf("-%d seconds", int(duration.Seconds()))

	var count int
	err := cdb.db.QueryRowContext(ctx, query, url, modifier).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check recent crawl: %w", err)
	}

	return count > 0, nil
}

// SaveAssets replaces the stored asset records of one kind for a page.
// Replacement keeps the table consistent with the folder contents after
// a re-crawl.
func (cdb *CrawlDB) SaveAssets(ctx context.Context, pageID int64, kind model.AssetType, assets []model.Asset) error {
	tx, err := cdb.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM assets WHERE page_id = ? AND kind = ?", pageID, string(kind)); err != nil {
		return fmt.Errorf("failed to clear previous assets: %w", err)
	}

	insert := `
	INSERT INTO assets (page_id, kind, name, file_path, url, language, date, description, exif)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	for _, asset := range assets {
		var exifJSON string
		if len(asset.Exif) > 0 {
			data, err := json.Marshal(asset.Exif)
			if err != nil {
				return fmt.Errorf("failed to serialize EXIF tags: %w", err)
			}
			exifJSON = string(data)
		}
		if _, err := tx.ExecContext(ctx, insert,
			pageID,
			string(kind),
			asset.Name,
			asset.FilePath,
			asset.URL,
			asset.Language,
			asset.Date,
			asset.Description,
			exifJSON,
		); err != nil {
			return fmt.Errorf("failed to insert asset record: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit asset records: %w", err)
	}
	return nil
}

// GetAssets retrieves the stored asset records of one kind for a page.
func (cdb *CrawlDB) GetAssets(ctx context.Context, pageID int64, kind model.AssetType) ([]model.Asset, error) {
	query := `
	SELECT name, file_path, url, language, date, description, exif
	FROM assets
	WHERE page_id = ? AND kind = ?
	ORDER BY id
	`

	rows, err := cdb.db.QueryContext(ctx, query, pageID, string(kind))
	if err != nil {
		return nil, fmt.Errorf("failed to query assets: %w", err)
	}
	defer rows.Close()

	var results []model.Asset
	for rows.Next() {
		var asset model.Asset
		var exifJSON sql.NullString

		if err := rows.Scan(
			&asset.Name,
			&asset.FilePath,
			&asset.URL,
			&asset.Language,
			&asset.Date,
			&asset.Description,
			&exifJSON,
		); err != nil {
			return nil, fmt.Errorf("failed to scan asset record: %w", err)
		}

		if exifJSON.Valid && exifJSON.String != "" {
			if err := json.Unmarshal([]byte(exifJSON.String), &asset.Exif); err != nil {
				return nil, fmt.Errorf("failed to parse EXIF tags: %w", err)
			}
		}
		results = append(results, asset)
	}

	return results, rows.Err()
}

// ListPages returns all page records, most recently crawled first.
func (cdb *CrawlDB) ListPages(ctx context.Context) ([]model.PageRecord, error) {
	query := `
	SELECT id, url, output_dir, level, title, content_hash, document_count, image_count, diagram_count, crawled_at
	FROM pages
	ORDER BY crawled_at DESC
	`

	rows, err := cdb.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list pages: %w", err)
	}
	defer rows.Close()

	var results []model.PageRecord
	for rows.Next() {
		var record model.PageRecord
		var level string
		var crawledAt string

		if err := rows.Scan(
			&record.ID,
			&record.URL,
			&record.OutputDir,
			&level,
			&record.Title,
			&record.ContentHash,
			&record.DocumentCount,
			&record.ImageCount,
			&record.DiagramCount,
			&crawledAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan page record: %w", err)
		}

		record.Level = model.PageLevel(level)
		record.CrawledAt = parseTimestamp(crawledAt)
		results = append(results, record)
	}

	return results, rows.Err()
}

// timestampFormats contains the timestamp formats that SQLite may return.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	"2006-01-02 15:04:05",     // SQLite default datetime format
	"2006-01-02T15:04:05Z",    // ISO 8601 with Z suffix
	"2006-01-02T15:04:05",     // ISO 8601 without timezone
	time.RFC3339,              // Full RFC3339 format
	time.RFC3339Nano,          // RFC3339 with nanoseconds
	"2006-01-02 15:04:05.999", // SQLite with milliseconds
}

// parseTimestamp attempts to parse a timestamp string using multiple formats.
// SQLite may return timestamps in different formats depending on configuration.
// If parsing fails with all formats, returns zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
