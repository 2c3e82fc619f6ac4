package assessments

import (
	"context"
	"database/sql"
	"errors"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a new assessment.
func (r *PGRepo) Create(ctx context.Context, assessment Assessment) error {
	const query = `
INSERT INTO assessments (id, name, framework, created_at)
VALUES ($1, $2, $3, $4)`
	_, err := r.DB.ExecContext(ctx, query,
		assessment.ID,
		assessment.Name,
		assessment.Framework,
		assessment.CreatedAt,
	)
	return err
}

// GetByID returns an assessment by ID.
func (r *PGRepo) GetByID(ctx context.Context, assessmentID string) (Assessment, error) {
	const query = `
SELECT id, name, framework, created_at
FROM assessments
WHERE id = $1
LIMIT 1`
	var a Assessment
	err := r.DB.QueryRowContext(ctx, query, assessmentID).
		Scan(&a.ID, &a.Name, &a.Framework, &a.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Assessment{}, ErrNotFound
	}
	if err != nil {
		return Assessment{}, err
	}
	return a, nil
}

// List returns assessments newest-first with limit/offset.
func (r *PGRepo) List(ctx context.Context, limit, offset int) ([]Assessment, error) {
	const query = `
SELECT id, name, framework, created_at
FROM assessments
ORDER BY created_at DESC, id DESC
LIMIT $1 OFFSET $2`
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	rows, err := r.DB.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Assessment{}
	for rows.Next() {
		var a Assessment
		if err := rows.Scan(&a.ID, &a.Name, &a.Framework, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

var _ Repo = (*PGRepo)(nil)
