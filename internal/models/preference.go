package models

import "time"

// Preference stores a single user preference as a key-value pair
// with a JSON-encoded value.
type Preference struct {
	ID        int64     `json:"id"`
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Refresh session outcomes. A session is "done" even when some regions
// failed; "failed" means the cycle aborted before persisting its batch.
const (
	SessionDone   = "done"
	SessionFailed = "failed"
)

// RefreshSession records an audit trail of each ingestion refresh cycle.
type RefreshSession struct {
	ID              int64     `json:"id"`
	Categories      string    `json:"categories"`
	ArticlesFetched int       `json:"articles_fetched"`
	GroupsCreated   int       `json:"groups_created"`
	FailedRegions   string    `json:"failed_regions,omitempty"`
	Status          string    `json:"status"`
	Error           string    `json:"error,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}
