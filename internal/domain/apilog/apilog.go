package apilog

import "time"

// Entry is one recorded API call. Rows are append-only: the application
// never updates or deletes them.
type Entry struct {
	ID         string    `json:"id"`
	UserID     *string   `json:"userId"`
	Method     string    `json:"method"`
	Path       string    `json:"path"`
	StatusCode int       `json:"statusCode"`
	IP         string    `json:"ip"`
	UserAgent  *string   `json:"userAgent"`
	DurationMs int64     `json:"durationMs"`
	CreatedAt  time.Time `json:"createdAt"`
}

type ListFilter struct {
	UserID   *string
	Endpoint *string // substring match on path
	Method   *string
	From     *time.Time
	To       *time.Time
}
