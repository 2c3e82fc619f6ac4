package insights

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryRepo stores extraction outputs in memory and is safe for concurrent
// use. Insertion order is preserved per assessment.
type MemoryRepo struct {
	mu      sync.RWMutex
	finds   map[string][]Finding
	recs    map[string][]Recommendation
	runLogs map[string][]RunLog
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		finds:   make(map[string][]Finding),
		recs:    make(map[string][]Recommendation),
		runLogs: make(map[string][]RunLog),
	}
}

// CreateFindings stores findings, assigning IDs and timestamps.
func (r *MemoryRepo) CreateFindings(ctx context.Context, findings []Finding) ([]Finding, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	out := make([]Finding, 0, len(findings))
	for _, f := range findings {
		f.ID = uuid.NewString()
		f.CreatedAt = now
		r.finds[f.AssessmentID] = append(r.finds[f.AssessmentID], f)
		out = append(out, f)
	}
	return out, nil
}

// CreateRecommendations stores recommendations, assigning IDs and timestamps.
func (r *MemoryRepo) CreateRecommendations(ctx context.Context, recs []Recommendation) ([]Recommendation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	out := make([]Recommendation, 0, len(recs))
	for _, rec := range recs {
		rec.ID = uuid.NewString()
		rec.CreatedAt = now
		r.recs[rec.AssessmentID] = append(r.recs[rec.AssessmentID], rec)
		out = append(out, rec)
	}
	return out, nil
}

// CreateRunLog stores one run log, assigning ID and timestamp.
func (r *MemoryRepo) CreateRunLog(ctx context.Context, runLog RunLog) (RunLog, error) {
	if err := ctx.Err(); err != nil {
		return RunLog{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	runLog.ID = uuid.NewString()
	runLog.CreatedAt = time.Now().UTC()
	r.runLogs[runLog.AssessmentID] = append(r.runLogs[runLog.AssessmentID], runLog)
	return runLog, nil
}

// ListFindings returns findings for an assessment in insertion order.
func (r *MemoryRepo) ListFindings(ctx context.Context, assessmentID string) ([]Finding, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Finding, len(r.finds[assessmentID]))
	copy(out, r.finds[assessmentID])
	return out, nil
}

// ListRecommendations returns recommendations for an assessment in insertion order.
func (r *MemoryRepo) ListRecommendations(ctx context.Context, assessmentID string) ([]Recommendation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Recommendation, len(r.recs[assessmentID]))
	copy(out, r.recs[assessmentID])
	return out, nil
}

// ListRunLogs returns run logs for an assessment in insertion order.
func (r *MemoryRepo) ListRunLogs(ctx context.Context, assessmentID string) ([]RunLog, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]RunLog, len(r.runLogs[assessmentID]))
	copy(out, r.runLogs[assessmentID])
	return out, nil
}

var _ Repo = (*MemoryRepo)(nil)
