package insights

import "time"

// Finding is an observed security/maturity issue extracted from generated text.
// Findings are immutable once created; identity is assigned by the repository.
type Finding struct {
	ID           string    `json:"id"`
	AssessmentID string    `json:"assessmentId"`
	Title        string    `json:"title"`
	Severity     string    `json:"severity"`
	Area         string    `json:"area,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Recommendation is a prioritized remediation suggestion extracted from
// generated text.
type Recommendation struct {
	ID            string    `json:"id"`
	AssessmentID  string    `json:"assessmentId"`
	Title         string    `json:"title"`
	Priority      string    `json:"priority"`
	Effort        string    `json:"effort"`
	TimelineWeeks *int      `json:"timelineWeeks,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

// RunLog is the audit artifact for one generate+parse cycle. It captures a
// bounded preview of the model input and output and is never mutated.
type RunLog struct {
	ID            string    `json:"id"`
	AssessmentID  string    `json:"assessmentId"`
	Agent         string    `json:"agent"`
	InputPreview  string    `json:"inputPreview"`
	OutputPreview string    `json:"outputPreview"`
	CreatedAt     time.Time `json:"createdAt"`
}
