package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hoanghai1803/newswire/internal/models"
)

// SaveVerdict stores the full integrity verdict for an article. Re-analyzing
// an article replaces its previous verdict.
func (s *Store) SaveVerdict(ctx context.Context, v *models.Verdict) error {
	indicators, err := json.Marshal(v.ManipulationIndicators)
	if err != nil {
		return fmt.Errorf("marshaling manipulation indicators: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO verdicts
			(article_id, score, status, reasoning, manipulation_indicators,
			 fact_check_results, fallback_reason, model_used)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(article_id) DO UPDATE SET
			score                   = excluded.score,
			status                  = excluded.status,
			reasoning               = excluded.reasoning,
			manipulation_indicators = excluded.manipulation_indicators,
			fact_check_results      = excluded.fact_check_results,
			fallback_reason         = excluded.fallback_reason,
			model_used              = excluded.model_used,
			created_at              = datetime('now')`,
		v.ArticleID, v.Score, v.Status, nullableString(v.Reasoning),
		string(indicators), nullableString(v.FactCheckResults),
		nullableString(v.FallbackReason), nullableString(v.ModelUsed),
	)
	if err != nil {
		return fmt.Errorf("saving verdict for article %d: %w", v.ArticleID, err)
	}
	return nil
}

// GetVerdictByArticle returns the stored verdict for the given article.
// Returns nil, ErrNotFound if the article has no verdict.
func (s *Store) GetVerdictByArticle(ctx context.Context, articleID int64) (*models.Verdict, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, article_id, score, status, reasoning,
				manipulation_indicators, fact_check_results, fallback_reason,
				model_used, created_at
		 FROM verdicts WHERE article_id = ?`, articleID)

	var (
		v          models.Verdict
		reasoning  sql.NullString
		indicators sql.NullString
		factCheck  sql.NullString
		fallback   sql.NullString
		modelUsed  sql.NullString
		createdAt  string
	)

	err := row.Scan(
		&v.ID, &v.ArticleID, &v.Score, &v.Status, &reasoning,
		&indicators, &factCheck, &fallback, &modelUsed, &createdAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("getting verdict for article %d: %w", articleID, err)
	}

	v.Reasoning = reasoning.String
	v.FactCheckResults = factCheck.String
	v.FallbackReason = fallback.String
	v.ModelUsed = modelUsed.String
	v.CreatedAt = parseTime(createdAt)

	if indicators.Valid && indicators.String != "" {
		if err := json.Unmarshal([]byte(indicators.String), &v.ManipulationIndicators); err != nil {
			return nil, fmt.Errorf("unmarshaling manipulation indicators: %w", err)
		}
	}
	if v.ManipulationIndicators == nil {
		v.ManipulationIndicators = []string{}
	}

	return &v, nil
}
