package insights

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// CreateFindings inserts findings, assigning IDs and timestamps.
func (r *PGRepo) CreateFindings(ctx context.Context, findings []Finding) ([]Finding, error) {
	const query = `
INSERT INTO findings (id, assessment_id, title, severity, area, created_at)
VALUES ($1, $2, $3, $4, $5, $6)`
	now := time.Now().UTC()
	out := make([]Finding, 0, len(findings))
	for _, f := range findings {
		f.ID = uuid.NewString()
		f.CreatedAt = now
		if _, err := r.DB.ExecContext(ctx, query, f.ID, f.AssessmentID, f.Title, f.Severity, f.Area, f.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}

// CreateRecommendations inserts recommendations, assigning IDs and timestamps.
func (r *PGRepo) CreateRecommendations(ctx context.Context, recs []Recommendation) ([]Recommendation, error) {
	const query = `
INSERT INTO recommendations (id, assessment_id, title, priority, effort, timeline_weeks, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`
	now := time.Now().UTC()
	out := make([]Recommendation, 0, len(recs))
	for _, rec := range recs {
		rec.ID = uuid.NewString()
		rec.CreatedAt = now
		var weeks sql.NullInt64
		if rec.TimelineWeeks != nil {
			weeks = sql.NullInt64{Int64: int64(*rec.TimelineWeeks), Valid: true}
		}
		if _, err := r.DB.ExecContext(ctx, query, rec.ID, rec.AssessmentID, rec.Title, rec.Priority, rec.Effort, weeks, rec.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

// CreateRunLog inserts one run log, assigning ID and timestamp.
func (r *PGRepo) CreateRunLog(ctx context.Context, runLog RunLog) (RunLog, error) {
	const query = `
INSERT INTO run_logs (id, assessment_id, agent, input_preview, output_preview, created_at)
VALUES ($1, $2, $3, $4, $5, $6)`
	runLog.ID = uuid.NewString()
	runLog.CreatedAt = time.Now().UTC()
	if _, err := r.DB.ExecContext(ctx, query, runLog.ID, runLog.AssessmentID, runLog.Agent, runLog.InputPreview, runLog.OutputPreview, runLog.CreatedAt); err != nil {
		return RunLog{}, err
	}
	return runLog, nil
}

// ListFindings returns findings for an assessment ordered by creation.
func (r *PGRepo) ListFindings(ctx context.Context, assessmentID string) ([]Finding, error) {
	const query = `
SELECT id, assessment_id, title, severity, area, created_at
FROM findings
WHERE assessment_id = $1
ORDER BY created_at ASC, id ASC`
	rows, err := r.DB.QueryContext(ctx, query, assessmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Finding{}
	for rows.Next() {
		var f Finding
		if err := rows.Scan(&f.ID, &f.AssessmentID, &f.Title, &f.Severity, &f.Area, &f.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// ListRecommendations returns recommendations for an assessment ordered by creation.
func (r *PGRepo) ListRecommendations(ctx context.Context, assessmentID string) ([]Recommendation, error) {
	const query = `
SELECT id, assessment_id, title, priority, effort, timeline_weeks, created_at
FROM recommendations
WHERE assessment_id = $1
ORDER BY created_at ASC, id ASC`
	rows, err := r.DB.QueryContext(ctx, query, assessmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Recommendation{}
	for rows.Next() {
		var rec Recommendation
		var weeks sql.NullInt64
		if err := rows.Scan(&rec.ID, &rec.AssessmentID, &rec.Title, &rec.Priority, &rec.Effort, &weeks, &rec.CreatedAt); err != nil {
			return nil, err
		}
		if weeks.Valid {
			n := int(weeks.Int64)
			rec.TimelineWeeks = &n
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// ListRunLogs returns run logs for an assessment ordered by creation.
func (r *PGRepo) ListRunLogs(ctx context.Context, assessmentID string) ([]RunLog, error) {
	const query = `
SELECT id, assessment_id, agent, input_preview, output_preview, created_at
FROM run_logs
WHERE assessment_id = $1
ORDER BY created_at ASC, id ASC`
	rows, err := r.DB.QueryContext(ctx, query, assessmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []RunLog{}
	for rows.Next() {
		var rl RunLog
		if err := rows.Scan(&rl.ID, &rl.AssessmentID, &rl.Agent, &rl.InputPreview, &rl.OutputPreview, &rl.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, rl)
	}
	return out, rows.Err()
}

var _ Repo = (*PGRepo)(nil)
