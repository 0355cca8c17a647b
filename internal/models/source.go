package models

import "time"

// NeutralTrustScore is the midpoint of the 1-10 trust scale. New sources
// start here and fallback verdicts score here.
const NeutralTrustScore = 5.0

// Source is a publisher profile with a continuously-learned trust score.
//
// The ID is the provider-supplied source id, or the display name when the
// provider has none. The same fallback is applied everywhere an identifier
// is derived so that attribution never fragments across two records.
type Source struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Country          string    `json:"country,omitempty"`
	Category         string    `json:"category,omitempty"`
	TrustScore       float64   `json:"trust_score"`
	ArticlesAnalyzed int       `json:"articles_analyzed"`
	LastUpdated      time.Time `json:"last_updated"`
}
