package model

import (
	"time"
)

type Category string

const (
	CategoryHealthFitness  Category = "Health & Fitness"
	CategoryCareer         Category = "Career"
	CategoryLearning       Category = "Learning"
	CategoryFinance        Category = "Finance"
	CategoryRelationships  Category = "Relationships"
	CategoryPersonalGrowth Category = "Personal Growth"
	CategoryOther          Category = "Other"
)

// Categories lists every category in display order.
var Categories = []Category{
	CategoryHealthFitness,
	CategoryCareer,
	CategoryLearning,
	CategoryFinance,
	CategoryRelationships,
	CategoryPersonalGrowth,
	CategoryOther,
}

func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

type Status string

const (
	StatusNotStarted Status = "not_started"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusAbandoned  Status = "abandoned"
)

var Statuses = []Status{
	StatusNotStarted,
	StatusInProgress,
	StatusCompleted,
	StatusAbandoned,
}

func (s Status) Valid() bool {
	for _, known := range Statuses {
		if s == known {
			return true
		}
	}
	return false
}

const (
	ProgressMin = 0
	ProgressMax = 100
)

type Resolution struct {
	ID          string    `db:"id" json:"id"`
	UserID      string    `db:"user_id" json:"userId"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`
	Category    Category  `db:"category" json:"category"`
	Status      Status    `db:"status" json:"status"`
	TargetDate  *Date     `db:"target_date" json:"targetDate"`
	Progress    int       `db:"progress" json:"progress"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}

// Overdue reports whether the target date has passed without the resolution being closed.
func (r *Resolution) Overdue(now time.Time) bool {
	if r.TargetDate == nil {
		return false
	}
	if r.Status == StatusCompleted || r.Status == StatusAbandoned {
		return false
	}
	return r.TargetDate.Before(NewDate(now).Time)
}
