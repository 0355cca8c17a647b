package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/hoanghai1803/newswire/internal/models"
)

// GetGroupByKey returns the topic group with the given topic key.
// Returns nil, ErrNotFound if no matching row exists.
func (s *Store) GetGroupByKey(ctx context.Context, topicKey string) (*models.TopicGroup, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT topic_key, topic_title, article_count, avg_integrity_score, created_at
		 FROM topic_groups WHERE topic_key = ?`, topicKey)

	group, err := scanGroup(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("getting group by key: %w", err)
	}
	return group, nil
}

// InsertGroup inserts a new topic group. Groups are created once and never
// updated by ingestion; ON CONFLICT DO NOTHING keeps a concurrent refresh
// from failing when both cycles materialize the same cluster.
func (s *Store) InsertGroup(ctx context.Context, g *models.TopicGroup) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO topic_groups (topic_key, topic_title, article_count, avg_integrity_score)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(topic_key) DO NOTHING`,
		g.TopicKey, g.TopicTitle, g.ArticleCount, g.AvgIntegrityScore,
	)
	if err != nil {
		return fmt.Errorf("inserting group %q: %w", g.TopicKey, err)
	}
	return nil
}

// ListGroups returns topic groups ordered by creation time, newest first.
// Limit <= 0 defaults to 100.
func (s *Store) ListGroups(ctx context.Context, limit int) ([]models.TopicGroup, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT topic_key, topic_title, article_count, avg_integrity_score, created_at
		 FROM topic_groups
		 ORDER BY created_at DESC, topic_key
		 LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying groups: %w", err)
	}
	defer rows.Close()

	var groups []models.TopicGroup
	for rows.Next() {
		g, err := scanGroup(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning group row: %w", err)
		}
		groups = append(groups, *g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating group rows: %w", err)
	}

	if groups == nil {
		groups = []models.TopicGroup{}
	}
	return groups, nil
}

// scanGroup scans a single topic group row into a models.TopicGroup.
func scanGroup(row scanner) (*models.TopicGroup, error) {
	var (
		g         models.TopicGroup
		avgScore  sql.NullFloat64
		createdAt string
	)

	if err := row.Scan(
		&g.TopicKey, &g.TopicTitle, &g.ArticleCount, &avgScore, &createdAt,
	); err != nil {
		return nil, err
	}

	if avgScore.Valid {
		g.AvgIntegrityScore = &avgScore.Float64
	}
	g.CreatedAt = parseTime(createdAt)

	return &g, nil
}
