package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/hoanghai1803/newswire/internal/models"
)

// CreateRefreshSession inserts a refresh cycle audit row and returns its ID.
func (s *Store) CreateRefreshSession(ctx context.Context, session *models.RefreshSession) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO refresh_sessions
			(categories, articles_fetched, groups_created, failed_regions, status, error)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		session.Categories, session.ArticlesFetched, session.GroupsCreated,
		nullableString(session.FailedRegions), session.Status,
		nullableString(session.Error),
	)
	if err != nil {
		return 0, fmt.Errorf("creating refresh session: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting refresh session id: %w", err)
	}
	return id, nil
}

// LatestRefreshSession returns the most recent refresh session.
// Returns nil, ErrNotFound if no refresh has ever run.
func (s *Store) LatestRefreshSession(ctx context.Context) (*models.RefreshSession, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, categories, articles_fetched, groups_created,
				failed_regions, status, error, created_at
		 FROM refresh_sessions
		 ORDER BY created_at DESC, id DESC
		 LIMIT 1`)

	var (
		sess          models.RefreshSession
		failedRegions sql.NullString
		errMsg        sql.NullString
		createdAt     string
	)
	err := row.Scan(
		&sess.ID, &sess.Categories, &sess.ArticlesFetched, &sess.GroupsCreated,
		&failedRegions, &sess.Status, &errMsg, &createdAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("getting latest refresh session: %w", err)
	}

	sess.FailedRegions = failedRegions.String
	sess.Error = errMsg.String
	sess.CreatedAt = parseTime(createdAt)

	return &sess, nil
}
