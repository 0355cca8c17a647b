package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/hoanghai1803/newswire/internal/models"
)

// GetSourceByID returns the publisher source with the given identifier.
// Returns nil, ErrNotFound if no matching row exists.
func (s *Store) GetSourceByID(ctx context.Context, id string) (*models.Source, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, country, category, trust_score, articles_analyzed, last_updated
		 FROM sources WHERE id = ?`, id)

	src, err := scanSource(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("getting source by id: %w", err)
	}
	return src, nil
}

// InsertSource inserts a new publisher source. It is a no-op if a source
// with the same identifier already exists, so calling it for every article
// in a batch is safe.
func (s *Store) InsertSource(ctx context.Context, src *models.Source) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sources (id, name, country, category, trust_score, articles_analyzed)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO NOTHING`,
		src.ID, src.Name, nullableString(src.Country),
		nullableString(src.Category), src.TrustScore, src.ArticlesAnalyzed,
	)
	if err != nil {
		return fmt.Errorf("inserting source %q: %w", src.ID, err)
	}
	return nil
}

// UpdateSourceTrust writes a new trust score and analyzed counter for the
// given source and refreshes last_updated.
// Returns ErrNotFound if no source matches the given identifier.
func (s *Store) UpdateSourceTrust(ctx context.Context, id string, trustScore float64, articlesAnalyzed int) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE sources
		 SET trust_score = ?, articles_analyzed = ?, last_updated = datetime('now')
		 WHERE id = ?`, trustScore, articlesAnalyzed, id)
	if err != nil {
		return fmt.Errorf("updating source trust %q: %w", id, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected for source %q: %w", id, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// ListSources returns all publisher sources ordered by name.
func (s *Store) ListSources(ctx context.Context) ([]models.Source, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, country, category, trust_score, articles_analyzed, last_updated
		 FROM sources ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("querying sources: %w", err)
	}
	defer rows.Close()

	var sources []models.Source
	for rows.Next() {
		src, err := scanSource(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning source row: %w", err)
		}
		sources = append(sources, *src)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating source rows: %w", err)
	}

	if sources == nil {
		sources = []models.Source{}
	}
	return sources, nil
}

// scanSource scans a single source row into a models.Source.
func scanSource(row scanner) (*models.Source, error) {
	var (
		src         models.Source
		country     sql.NullString
		category    sql.NullString
		lastUpdated string
	)

	if err := row.Scan(
		&src.ID, &src.Name, &country, &category,
		&src.TrustScore, &src.ArticlesAnalyzed, &lastUpdated,
	); err != nil {
		return nil, err
	}

	src.Country = country.String
	src.Category = category.String
	src.LastUpdated = parseTime(lastUpdated)

	return &src, nil
}
