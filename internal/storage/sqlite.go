package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"pymap/internal/crawler"
)

// SQLiteStore is the SQLite-backed crawl history store.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates or opens a SQLite database at path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}

	s := &SQLiteStore{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to init schema: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) initSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS crawls (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			root TEXT NOT NULL,
			started_at TIMESTAMP NOT NULL,
			status TEXT NOT NULL,
			message TEXT,
			dirs INTEGER NOT NULL,
			files INTEGER NOT NULL,
			analyzed INTEGER NOT NULL,
			failures INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS crawl_files (
			crawl_id INTEGER NOT NULL REFERENCES crawls(id),
			path TEXT NOT NULL,
			classes JSON,
			functions JSON,
			error TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_crawl_files_crawl ON crawl_files(crawl_id)`,
	}

	for _, q := range queries {
		if _, err := s.db.Exec(q); err != nil {
			return err
		}
	}
	return nil
}

// SaveCrawl records one finished crawl and its per-file analyses in a single
// transaction.
func (s *SQLiteStore) SaveCrawl(ctx context.Context, res *crawler.Result) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	r, err := tx.ExecContext(ctx,
		`INSERT INTO crawls (root, started_at, status, message, dirs, files, analyzed, failures)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		res.Root, res.StartedAt.UTC(), res.Status.String(), res.Message,
		res.Dirs, res.Files, res.Analyzed, res.Failures)
	if err != nil {
		return 0, fmt.Errorf("insert crawl: %w", err)
	}
	crawlID, err := r.LastInsertId()
	if err != nil {
		return 0, err
	}

	for _, file := range res.FileRecords {
		classes, err := json.Marshal(file.Classes)
		if err != nil {
			return 0, err
		}
		functions, err := json.Marshal(file.Functions)
		if err != nil {
			return 0, err
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO crawl_files (crawl_id, path, classes, functions, error)
			 VALUES (?, ?, ?, ?, ?)`,
			crawlID, file.Path, string(classes), string(functions), file.Error); err != nil {
			return 0, fmt.Errorf("insert crawl file %s: %w", file.Path, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return crawlID, nil
}

// ListCrawls returns the most recent crawl records, newest first.
func (s *SQLiteStore) ListCrawls(ctx context.Context, limit int) ([]CrawlRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, root, started_at, status, message, dirs, files, analyzed, failures
		 FROM crawls ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []CrawlRecord
	for rows.Next() {
		var rec CrawlRecord
		var started time.Time
		if err := rows.Scan(&rec.ID, &rec.Root, &started, &rec.Status, &rec.Message,
			&rec.Dirs, &rec.Files, &rec.Analyzed, &rec.Failures); err != nil {
			return nil, err
		}
		rec.StartedAt = started
		records = append(records, rec)
	}
	return records, rows.Err()
}

// FilesForCrawl returns the per-file analysis records of one crawl.
func (s *SQLiteStore) FilesForCrawl(ctx context.Context, crawlID int64) ([]crawler.FileRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT path, classes, functions, error FROM crawl_files WHERE crawl_id = ? ORDER BY path`, crawlID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []crawler.FileRecord
	for rows.Next() {
		var rec crawler.FileRecord
		var classes, functions string
		if err := rows.Scan(&rec.Path, &classes, &functions, &rec.Error); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(classes), &rec.Classes); err != nil {
			return nil, fmt.Errorf("decode classes for %s: %w", rec.Path, err)
		}
		if err := json.Unmarshal([]byte(functions), &rec.Functions); err != nil {
			return nil, fmt.Errorf("decode functions for %s: %w", rec.Path, err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
