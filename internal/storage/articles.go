package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/hoanghai1803/newswire/internal/models"
)

const articleColumns = `id, title, description, content, url, image_url,
	published_at, source_id, source_name, country, category, topic_key,
	integrity_score, integrity_status, analyzed, saved, created_at`

// UpsertArticle inserts an article or updates it if a row with the same URL
// already exists. On conflict the content, metadata, and topic key fields are
// updated; integrity fields and the saved flag are left untouched so that
// re-ingestion never clobbers analysis results or user state. The row ID of
// the stored article is returned.
func (s *Store) UpsertArticle(ctx context.Context, a *models.Article) (int64, error) {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO articles
			(title, description, content, url, image_url, published_at,
			 source_id, source_name, country, category, topic_key)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(url) DO UPDATE SET
			title        = excluded.title,
			description  = excluded.description,
			content      = excluded.content,
			image_url    = excluded.image_url,
			published_at = excluded.published_at,
			source_id    = excluded.source_id,
			source_name  = excluded.source_name,
			country      = excluded.country,
			category     = excluded.category,
			topic_key    = excluded.topic_key`,
		a.Title, nullableString(a.Description), nullableString(a.Content),
		a.URL, nullableString(a.ImageURL), timeToMillis(a.PublishedAt),
		a.SourceID, a.SourceName, nullableString(a.Country),
		nullableString(a.Category), a.TopicKey,
	)
	if err != nil {
		return 0, fmt.Errorf("upserting article %q: %w", a.URL, err)
	}

	// last_insert_rowid() is unreliable on the UPDATE path, so query by URL.
	var id int64
	if err := s.db.QueryRowContext(ctx, `SELECT id FROM articles WHERE url = ?`, a.URL).Scan(&id); err != nil {
		return 0, fmt.Errorf("getting upserted article id: %w", err)
	}
	return id, nil
}

// SaveArticles batch-upserts multiple articles inside a single transaction.
func (s *Store) SaveArticles(ctx context.Context, articles []models.Article) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO articles
			(title, description, content, url, image_url, published_at,
			 source_id, source_name, country, category, topic_key)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(url) DO UPDATE SET
			title        = excluded.title,
			description  = excluded.description,
			content      = excluded.content,
			image_url    = excluded.image_url,
			published_at = excluded.published_at,
			source_id    = excluded.source_id,
			source_name  = excluded.source_name,
			country      = excluded.country,
			category     = excluded.category,
			topic_key    = excluded.topic_key`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for i := range articles {
		a := &articles[i]
		if _, err := stmt.ExecContext(ctx,
			a.Title, nullableString(a.Description), nullableString(a.Content),
			a.URL, nullableString(a.ImageURL), timeToMillis(a.PublishedAt),
			a.SourceID, a.SourceName, nullableString(a.Country),
			nullableString(a.Category), a.TopicKey,
		); err != nil {
			return fmt.Errorf("upserting article %q: %w", a.URL, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// GetArticleByID returns the article with the given ID.
// Returns nil, ErrNotFound if no matching row exists.
func (s *Store) GetArticleByID(ctx context.Context, id int64) (*models.Article, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+articleColumns+` FROM articles WHERE id = ?`, id)

	article, err := scanArticle(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("getting article by id: %w", err)
	}
	return article, nil
}

// GetArticleByURL returns the article with the given URL.
// Returns nil, ErrNotFound if no matching row exists.
func (s *Store) GetArticleByURL(ctx context.Context, url string) (*models.Article, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+articleColumns+` FROM articles WHERE url = ?`, url)

	article, err := scanArticle(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("getting article by url: %w", err)
	}
	return article, nil
}

// ListArticles returns articles ordered by publication time, newest first.
// An empty category matches all categories. Limit <= 0 defaults to 100.
func (s *Store) ListArticles(ctx context.Context, category string, limit int) ([]models.Article, error) {
	if limit <= 0 {
		limit = 100
	}

	query := `SELECT ` + articleColumns + ` FROM articles`
	args := []any{}
	if category != "" {
		query += ` WHERE category = ?`
		args = append(args, category)
	}
	query += ` ORDER BY published_at DESC, id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying articles: %w", err)
	}
	defer rows.Close()

	return scanArticles(rows)
}

// ListArticlesByTopic returns all articles carrying the given topic key,
// ordered by publication time, newest first.
func (s *Store) ListArticlesByTopic(ctx context.Context, topicKey string) ([]models.Article, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+articleColumns+` FROM articles
		 WHERE topic_key = ?
		 ORDER BY published_at DESC, id DESC`, topicKey)
	if err != nil {
		return nil, fmt.Errorf("querying articles by topic: %w", err)
	}
	defer rows.Close()

	return scanArticles(rows)
}

// CountArticlesByTopic returns the number of stored articles carrying the
// given topic key.
func (s *Store) CountArticlesByTopic(ctx context.Context, topicKey string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM articles WHERE topic_key = ?`, topicKey,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting articles by topic: %w", err)
	}
	return count, nil
}

// SetArticleAnalysis writes the integrity fields for an article. This is the
// only path that sets analyzed = 1; it touches no other columns.
// Returns ErrNotFound if no article matches the given ID.
func (s *Store) SetArticleAnalysis(ctx context.Context, id int64, score float64, status string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE articles
		 SET integrity_score = ?, integrity_status = ?, analyzed = 1
		 WHERE id = ?`, score, status, id)
	if err != nil {
		return fmt.Errorf("setting article analysis %d: %w", id, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected for article %d: %w", id, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// SetArticleSaved sets the user-controlled saved flag. Ingestion never calls
// this; it belongs to the user-facing layer.
// Returns ErrNotFound if no article matches the given ID.
func (s *Store) SetArticleSaved(ctx context.Context, id int64, saved bool) error {
	savedInt := 0
	if saved {
		savedInt = 1
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE articles SET saved = ? WHERE id = ?`, savedInt, id)
	if err != nil {
		return fmt.Errorf("setting article saved %d: %w", id, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected for article %d: %w", id, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// ListSavedArticles returns all articles the user has saved, ordered by
// publication time, newest first.
func (s *Store) ListSavedArticles(ctx context.Context) ([]models.Article, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+articleColumns+` FROM articles
		 WHERE saved = 1
		 ORDER BY published_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("querying saved articles: %w", err)
	}
	defer rows.Close()

	return scanArticles(rows)
}

// SearchArticles performs a case-insensitive substring search over article
// titles and descriptions. Limit <= 0 defaults to 20.
func (s *Store) SearchArticles(ctx context.Context, query string, limit int) ([]models.Article, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []models.Article{}, nil
	}
	if limit <= 0 {
		limit = 20
	}

	pattern := "%" + query + "%"
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+articleColumns+` FROM articles
		 WHERE title LIKE ? OR description LIKE ?
		 ORDER BY published_at DESC, id DESC
		 LIMIT ?`, pattern, pattern, limit)
	if err != nil {
		return nil, fmt.Errorf("searching articles: %w", err)
	}
	defer rows.Close()

	return scanArticles(rows)
}

// scanner is a minimal interface satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanArticle scans a single article row into a models.Article.
func scanArticle(row scanner) (*models.Article, error) {
	var (
		a               models.Article
		description     sql.NullString
		content         sql.NullString
		imageURL        sql.NullString
		publishedAt     int64
		country         sql.NullString
		category        sql.NullString
		topicKey        sql.NullString
		integrityScore  sql.NullFloat64
		integrityStatus sql.NullString
		analyzed        int
		saved           int
		createdAt       string
	)

	if err := row.Scan(
		&a.ID, &a.Title, &description, &content, &a.URL, &imageURL,
		&publishedAt, &a.SourceID, &a.SourceName, &country, &category,
		&topicKey, &integrityScore, &integrityStatus, &analyzed, &saved,
		&createdAt,
	); err != nil {
		return nil, err
	}

	a.Description = description.String
	a.Content = content.String
	a.ImageURL = imageURL.String
	a.PublishedAt = millisToTime(publishedAt)
	a.Country = country.String
	a.Category = category.String
	if topicKey.Valid {
		a.TopicKey = &topicKey.String
	}
	if integrityScore.Valid {
		a.IntegrityScore = &integrityScore.Float64
	}
	if integrityStatus.Valid {
		a.IntegrityStatus = &integrityStatus.String
	}
	a.Analyzed = analyzed == 1
	a.Saved = saved == 1
	a.CreatedAt = parseTime(createdAt)

	return &a, nil
}

// scanArticles reads all rows from an articles query into a slice.
func scanArticles(rows *sql.Rows) ([]models.Article, error) {
	var articles []models.Article
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning article row: %w", err)
		}
		articles = append(articles, *a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating article rows: %w", err)
	}

	// Return empty slice instead of nil for consistent JSON serialization.
	if articles == nil {
		articles = []models.Article{}
	}
	return articles, nil
}

// nullableString converts an empty string to nil for nullable TEXT columns.
func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
