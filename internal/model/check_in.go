package model

import (
	"time"
)

type CheckIn struct {
	ID           string    `db:"id" json:"id"`
	ResolutionID string    `db:"resolution_id" json:"resolutionId"`
	Note         string    `db:"note" json:"note"`
	Date         Date      `db:"checked_in_on" json:"date"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
}
