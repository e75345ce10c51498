package model

import "math"

type Stats struct {
	Total          int `json:"total"`
	Completed      int `json:"completed"`
	InProgress     int `json:"inProgress"`
	CompletionRate int `json:"completionRate"`
}

// ComputeStats derives the dashboard counters from a set of resolutions.
// CompletionRate is a rounded percentage and 0 for an empty set.
func ComputeStats(resolutions []*Resolution) Stats {
	var stats Stats
	for _, r := range resolutions {
		if r == nil {
			continue
		}
		stats.Total++
		switch r.Status {
		case StatusCompleted:
			stats.Completed++
		case StatusInProgress:
			stats.InProgress++
		}
	}

	if stats.Total > 0 {
		stats.CompletionRate = int(math.Round(float64(stats.Completed) / float64(stats.Total) * 100))
	}

	return stats
}
