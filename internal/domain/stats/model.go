// Package stats exposes the supervisor dashboard counters.
package stats

// Stats is the payload served to the supervisor dashboard.
type Stats struct {
	Pending        int `json:"pending"`
	Total          int `json:"total"`
	Resolved       int `json:"resolved"`
	LearnedAnswers int `json:"learned_answers"`
}
