package assessments

import "time"

// Assessment represents one maturity assessment engagement.
type Assessment struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Framework string    `json:"framework,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
