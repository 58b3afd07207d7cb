// Package postgres adapts the wellness content database to the engine's
// document-source interface. The life_situations table is the system of
// record for searchable content; the builder reads it exactly once per
// index build.
package postgres

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/lib/pq"

	"github.com/nishantgupta83/mindful-living/internal/search/index"
	"github.com/nishantgupta83/mindful-living/pkg/errors"
	pkgpostgres "github.com/nishantgupta83/mindful-living/pkg/postgres"
	"github.com/nishantgupta83/mindful-living/pkg/resilience"
)

const fetchAllQuery = `
SELECT id, title, description, approach, steps, category, tags
FROM life_situations
ORDER BY id`

// fetchAttemptTimeout bounds a single query attempt so one hung connection
// cannot stall the whole build past the retry budget.
const fetchAttemptTimeout = 30 * time.Second

// Source is a document source backed by PostgreSQL.
type Source struct {
	client *pkgpostgres.Client
	retry  resilience.RetryConfig
	logger *slog.Logger
}

// NewSource creates a Source over an established Postgres client.
func NewSource(client *pkgpostgres.Client) *Source {
	return &Source{
		client: client,
		retry:  resilience.RetryConfig{MaxAttempts: 3},
		logger: slog.Default().With("component", "document-source"),
	}
}

// FetchAll loads every life situation. Transient failures are retried with
// backoff; a final failure is reported as ErrSourceUnavailable so the cache
// layer can fall back to a stale snapshot where one exists.
func (s *Source) FetchAll(ctx context.Context) ([]index.Document, error) {
	var docs []index.Document
	err := resilience.Retry(ctx, "fetch-documents", s.retry, func() error {
		return resilience.WithTimeout(ctx, fetchAttemptTimeout, "fetch-documents", func(ctx context.Context) error {
			fetched, err := s.fetchOnce(ctx)
			if err != nil {
				return err
			}
			docs = fetched
			return nil
		})
	})
	if err != nil {
		return nil, errors.Newf(errors.ErrSourceUnavailable,
			http.StatusServiceUnavailable, "fetching life situations: %v", err)
	}
	s.logger.Debug("documents fetched", "count", len(docs))
	return docs, nil
}

func (s *Source) fetchOnce(ctx context.Context) ([]index.Document, error) {
	rows, err := s.client.DB.QueryContext(ctx, fetchAllQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	docs := make([]index.Document, 0, 128)
	for rows.Next() {
		var doc index.Document
		if err := rows.Scan(
			&doc.ID,
			&doc.Title,
			&doc.Description,
			&doc.Approach,
			pq.Array(&doc.Steps),
			&doc.Category,
			pq.Array(&doc.Tags),
		); err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}
