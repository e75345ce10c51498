package model

import (
	"time"
)

type PageView struct {
	ID        string    `db:"id"`
	UserID    *string   `db:"user_id"`
	Path      string    `db:"path"`
	Referrer  *string   `db:"referrer"`
	UserAgent string    `db:"user_agent"`
	CreatedAt time.Time `db:"created_at"`
}

// PathCount is one row of the page view summary.
type PathCount struct {
	Path  string `db:"path" json:"path"`
	Views int    `db:"views" json:"views"`
}
