package model

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func withStatuses(statuses ...Status) []*Resolution {
	resolutions := make([]*Resolution, 0, len(statuses))
	for _, s := range statuses {
		resolutions = append(resolutions, &Resolution{Status: s})
	}
	return resolutions
}

func TestComputeStatsEmpty(t *testing.T) {
	assert.Equal(t, Stats{}, ComputeStats(nil))
	assert.Equal(t, Stats{}, ComputeStats([]*Resolution{}))
}

func TestComputeStats(t *testing.T) {
	stats := ComputeStats(withStatuses(StatusCompleted, StatusInProgress, StatusInProgress, StatusNotStarted, StatusAbandoned))

	assert.Equal(t, Stats{Total: 5, Completed: 1, InProgress: 2, CompletionRate: 20}, stats)
}

func TestComputeStatsRounds(t *testing.T) {
	tests := []struct {
		name     string
		statuses []Status
		want     int
	}{
		{"one of three", []Status{StatusCompleted, StatusNotStarted, StatusNotStarted}, 33},
		{"two of three", []Status{StatusCompleted, StatusCompleted, StatusNotStarted}, 67},
		{"half", []Status{StatusCompleted, StatusAbandoned}, 50},
		{"all", []Status{StatusCompleted, StatusCompleted}, 100},
		{"none", []Status{StatusInProgress}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ComputeStats(withStatuses(tt.statuses...)).CompletionRate)
		})
	}
}

func TestComputeStatsRateInRange(t *testing.T) {
	for total := 1; total <= 40; total++ {
		for completed := 0; completed <= total; completed++ {
			statuses := make([]Status, 0, total)
			for i := 0; i < total; i++ {
				if i < completed {
					statuses = append(statuses, StatusCompleted)
				} else {
					statuses = append(statuses, StatusInProgress)
				}
			}

			stats := ComputeStats(withStatuses(statuses...))
			want := int(math.Round(float64(completed) / float64(total) * 100))

			assert.Equal(t, want, stats.CompletionRate)
			assert.GreaterOrEqual(t, stats.CompletionRate, 0)
			assert.LessOrEqual(t, stats.CompletionRate, 100)
		}
	}
}

func TestComputeStatsSkipsNil(t *testing.T) {
	stats := ComputeStats([]*Resolution{nil, {Status: StatusCompleted}})
	assert.Equal(t, 1, stats.Total)
	assert.Equal(t, 100, stats.CompletionRate)
}

func TestCategoriesAndStatusesAreClosed(t *testing.T) {
	assert.Len(t, Categories, 7)
	for _, c := range Categories {
		assert.True(t, c.Valid(), c)
	}
	assert.False(t, Category("Hobbies").Valid())

	assert.Len(t, Statuses, 4)
	for _, s := range Statuses {
		assert.True(t, s.Valid(), s)
	}
	assert.False(t, Status("paused").Valid())
}

func TestOverdue(t *testing.T) {
	now := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)
	past := NewDate(time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC))
	today := NewDate(now)
	future := NewDate(time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC))

	assert.True(t, (&Resolution{Status: StatusInProgress, TargetDate: &past}).Overdue(now))
	assert.False(t, (&Resolution{Status: StatusCompleted, TargetDate: &past}).Overdue(now))
	assert.False(t, (&Resolution{Status: StatusInProgress, TargetDate: &future}).Overdue(now))
	assert.False(t, (&Resolution{Status: StatusInProgress, TargetDate: &today}).Overdue(now))
	assert.False(t, (&Resolution{Status: StatusInProgress}).Overdue(now))
}

func TestUserDisplayName(t *testing.T) {
	assert.Equal(t, "Ada Lovelace", (&User{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com"}).DisplayName())
	assert.Equal(t, "Ada", (&User{FirstName: "Ada", Email: "ada@example.com"}).DisplayName())
	assert.Equal(t, "ada@example.com", (&User{Email: "ada@example.com"}).DisplayName())
	assert.True(t, (&User{Role: RoleAdmin}).IsAdmin())
	assert.False(t, (&User{Role: RoleUser}).IsAdmin())
}
