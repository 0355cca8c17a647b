package models

import "time"

// Fallback reasons recorded on a verdict when the real analysis could not
// be obtained. Empty means the model's structured response parsed cleanly.
const (
	FallbackNone      = ""
	FallbackParse     = "parse"
	FallbackTransport = "transport"
)

// Verdict is the structured result of an integrity analysis for one article.
type Verdict struct {
	ID                     int64     `json:"id"`
	ArticleID              int64     `json:"article_id"`
	Score                  float64   `json:"score"`
	Status                 string    `json:"status"`
	Reasoning              string    `json:"reasoning"`
	ManipulationIndicators []string  `json:"manipulation_indicators"`
	FactCheckResults       string    `json:"fact_check_results"`
	FallbackReason         string    `json:"fallback_reason,omitempty"`
	ModelUsed              string    `json:"model_used,omitempty"`
	CreatedAt              time.Time `json:"created_at"`
}

// StatusForScore maps an integrity score onto its categorical status band.
func StatusForScore(score float64) string {
	switch {
	case score < 4:
		return StatusRed
	case score < 8:
		return StatusYellow
	default:
		return StatusGreen
	}
}
