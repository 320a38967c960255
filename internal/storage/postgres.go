package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/user/social-extractor/internal/domain"
)

// PostgresStore persists extraction runs.
//
// Schema:
//
//	CREATE TABLE extraction_runs (
//	    id           BIGSERIAL PRIMARY KEY,
//	    query        TEXT NOT NULL,
//	    platforms    TEXT[] NOT NULL,
//	    total_images INT NOT NULL,
//	    unique_images INT NOT NULL,
//	    started_at   TIMESTAMPTZ NOT NULL,
//	    completed_at TIMESTAMPTZ NOT NULL,
//	    result       JSONB NOT NULL,
//	    created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
//	);
//	CREATE INDEX extraction_runs_query_idx ON extraction_runs (query, completed_at DESC);
type PostgresStore struct {
	db *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, connStr string) (*PostgresStore, error) {
	db, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}
	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

func (s *PostgresStore) Close() {
	s.db.Close()
}

// SaveRun stores a completed aggregate result.
func (s *PostgresStore) SaveRun(ctx context.Context, query string, platforms []string, result *domain.AggregateResult) error {
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal extraction result: %w", err)
	}

	_, err = s.db.Exec(ctx,
		`INSERT INTO extraction_runs (query, platforms, total_images, unique_images, started_at, completed_at, result)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		query,
		platforms,
		result.TotalImagesExtracted,
		result.UniqueImages,
		result.ExtractionStarted,
		result.ExtractionCompleted,
		resultJSON,
	)
	return err
}

// FindLatestRun returns the most recent stored run for a query, or nil when
// none exists.
func (s *PostgresStore) FindLatestRun(ctx context.Context, query string) (*domain.ExtractionRun, error) {
	row := s.db.QueryRow(ctx,
		`SELECT id, query, platforms, result, created_at
		 FROM extraction_runs
		 WHERE query = $1
		 ORDER BY completed_at DESC
		 LIMIT 1`,
		query,
	)

	var run domain.ExtractionRun
	var resultJSON []byte
	err := row.Scan(&run.ID, &run.Query, &run.Platforms, &resultJSON, &run.CreatedAt)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(resultJSON, &run.Result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal stored result: %w", err)
	}
	return &run, nil
}
