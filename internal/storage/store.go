package storage

import (
	"context"
	"time"

	"pymap/internal/crawler"
)

// CrawlRecord is one recorded crawl run.
type CrawlRecord struct {
	ID        int64
	Root      string
	StartedAt time.Time
	Status    string
	Message   string
	Dirs      int
	Files     int
	Analyzed  int
	Failures  int
}

// HistoryStore persists completed crawl runs and their per-file analyses.
type HistoryStore interface {
	// SaveCrawl records one finished crawl and returns its row ID.
	SaveCrawl(ctx context.Context, res *crawler.Result) (int64, error)

	// ListCrawls returns the most recent crawls, newest first.
	ListCrawls(ctx context.Context, limit int) ([]CrawlRecord, error)

	// FilesForCrawl returns the per-file analysis records of one crawl.
	FilesForCrawl(ctx context.Context, crawlID int64) ([]crawler.FileRecord, error)

	Close() error
}
