package models

import "time"

// Integrity status values assigned by the analyzer. An article whose
// verdict score falls in 1-3 is RED, 4-7 YELLOW, 8-10 GREEN. UNKNOWN is
// reserved for records migrated from before analysis existed.
const (
	StatusRed     = "RED"
	StatusYellow  = "YELLOW"
	StatusGreen   = "GREEN"
	StatusUnknown = "UNKNOWN"
)

// Article represents a single news item fetched from a headline provider.
//
// The URL is the deduplication key: re-ingesting the same URL updates the
// existing row rather than creating a new one. Integrity fields are written
// only by the analysis path, and Saved only by the user-facing layer.
type Article struct {
	ID              int64      `json:"id"`
	Title           string     `json:"title"`
	Description     string     `json:"description,omitempty"`
	Content         string     `json:"content,omitempty"`
	URL             string     `json:"url"`
	ImageURL        string     `json:"image_url,omitempty"`
	PublishedAt     time.Time  `json:"published_at"`
	SourceID        string     `json:"source_id"`
	SourceName      string     `json:"source_name"`
	Country         string     `json:"country,omitempty"`
	Category        string     `json:"category,omitempty"`
	TopicKey        *string    `json:"topic_key,omitempty"`
	IntegrityScore  *float64   `json:"integrity_score,omitempty"`
	IntegrityStatus *string    `json:"integrity_status,omitempty"`
	Analyzed        bool       `json:"analyzed"`
	Saved           bool       `json:"saved"`
	CreatedAt       time.Time  `json:"created_at"`
}

// TopicGroup is a cluster of articles believed to cover the same event.
// A group is materialized only when at least two articles in one refresh
// batch share a topic key; singletons carry the key but produce no group.
type TopicGroup struct {
	TopicKey          string    `json:"topic_key"`
	TopicTitle        string    `json:"topic_title"`
	ArticleCount      int       `json:"article_count"`
	AvgIntegrityScore *float64  `json:"avg_integrity_score,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
}
