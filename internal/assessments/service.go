package assessments

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Service contains business logic for assessments.
type Service struct {
	Repo Repo
}

// NewService constructs a Service.
func NewService(repo Repo) *Service {
	return &Service{Repo: repo}
}

// Create registers a new assessment.
func (s *Service) Create(ctx context.Context, name, framework string) (Assessment, error) {
	if strings.TrimSpace(name) == "" {
		return Assessment{}, errors.New("name is required")
	}
	assessment := Assessment{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(name),
		Framework: strings.TrimSpace(framework),
		CreatedAt: time.Now().UTC(),
	}
	if err := s.Repo.Create(ctx, assessment); err != nil {
		return Assessment{}, err
	}
	return assessment, nil
}

// Get returns an assessment by ID.
func (s *Service) Get(ctx context.Context, assessmentID string) (Assessment, error) {
	if assessmentID == "" {
		return Assessment{}, errors.New("assessmentID is required")
	}
	return s.Repo.GetByID(ctx, assessmentID)
}

// List returns assessments newest-first.
func (s *Service) List(ctx context.Context, limit, offset int) ([]Assessment, error) {
	return s.Repo.List(ctx, limit, offset)
}

// Exists reports whether the assessment is present.
func (s *Service) Exists(ctx context.Context, assessmentID string) (bool, error) {
	_, err := s.Repo.GetByID(ctx, assessmentID)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
