package insights

import "context"

// Repo defines persistence operations for extraction outputs. Create methods
// assign identity and creation timestamps; callers hand over value objects
// without IDs.
type Repo interface {
	CreateFindings(ctx context.Context, findings []Finding) ([]Finding, error)
	CreateRecommendations(ctx context.Context, recs []Recommendation) ([]Recommendation, error)
	CreateRunLog(ctx context.Context, runLog RunLog) (RunLog, error)
	ListFindings(ctx context.Context, assessmentID string) ([]Finding, error)
	ListRecommendations(ctx context.Context, assessmentID string) ([]Recommendation, error)
	ListRunLogs(ctx context.Context, assessmentID string) ([]RunLog, error)
}
