package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/HelicopterHelicopter/AssetHound/internal/domain"
)

// ErrNotFound is returned when a URL has no persisted outcome.
var ErrNotFound = errors.New("url not checked")

// PostgresStore keeps the latest validation outcome per URL so hosts
// can query liveness history between runs.
type PostgresStore struct {
	db *pgxpool.Pool
}

func NewPostgresStore(connStr string) (*PostgresStore, error) {
	db, err := pgxpool.New(context.Background(), connStr)
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

// SaveOutcome upserts the latest outcome for a URL.
func (s *PostgresStore) SaveOutcome(ctx context.Context, outcome domain.ValidationOutcome) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO checked_urls (url, is_valid, status_code, status_text, error_message, checked_at)
		 VALUES ($1, $2, $3, $4, $5, NOW())
		 ON CONFLICT (url) DO UPDATE SET
		   is_valid = EXCLUDED.is_valid, status_code = EXCLUDED.status_code,
		   status_text = EXCLUDED.status_text, error_message = EXCLUDED.error_message,
		   checked_at = NOW()`,
		outcome.URL, outcome.IsValid, outcome.StatusCode, outcome.StatusText, outcome.Error,
	)
	return err
}

// GetStatus retrieves the last persisted outcome for a URL.
func (s *PostgresStore) GetStatus(ctx context.Context, url string) (*domain.CheckStatus, error) {
	var status domain.CheckStatus
	err := s.db.QueryRow(ctx,
		`SELECT url, is_valid, status_code, error_message, checked_at FROM checked_urls WHERE url = $1`,
		url,
	).Scan(&status.URL, &status.IsValid, &status.StatusCode, &status.Error, &status.CheckedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &status, nil
}
