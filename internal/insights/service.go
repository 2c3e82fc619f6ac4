package insights

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ValeriiSysoiev/AI-Enable-Cyber-Maturity-Assessment-2-sub003/internal/evidence"
	"github.com/ValeriiSysoiev/AI-Enable-Cyber-Maturity-Assessment-2-sub003/internal/shared/telemetry"
)

// AssessmentDirectory lets the service verify an assessment exists before
// attaching extraction output to it.
type AssessmentDirectory interface {
	Exists(ctx context.Context, assessmentID string) (bool, error)
}

// Service runs the generate+extract pipeline and persists its outputs.
type Service struct {
	Repo        Repo
	Engine      *Engine
	Assessments AssessmentDirectory
}

// Analyze runs the document-analysis agent over the given content, persists
// the extracted findings and the audit run log, and returns both.
func (s *Service) Analyze(ctx context.Context, assessmentID, content string) ([]Finding, RunLog, error) {
	if strings.TrimSpace(assessmentID) == "" {
		return nil, RunLog{}, errors.New("assessmentID is required")
	}
	if strings.TrimSpace(content) == "" {
		return nil, RunLog{}, errors.New("content is required")
	}
	if err := s.checkAssessment(ctx, assessmentID); err != nil {
		return nil, RunLog{}, err
	}

	findings, runLog, err := s.Engine.Analyze(ctx, assessmentID, content)
	if err != nil {
		return nil, RunLog{}, err
	}

	findings, err = s.Repo.CreateFindings(ctx, findings)
	if err != nil {
		return nil, RunLog{}, fmt.Errorf("store findings: %w", err)
	}
	runLog, err = s.Repo.CreateRunLog(ctx, runLog)
	if err != nil {
		return nil, RunLog{}, fmt.Errorf("store run log: %w", err)
	}

	telemetry.Info("insights.analyze", map[string]any{
		"assessment_id": assessmentID,
		"agent":         AgentDocAnalyzer,
		"findings":      len(findings),
	})
	return findings, runLog, nil
}

// AnalyzeDocument extracts plain text from an uploaded evidence document and
// runs Analyze over it.
func (s *Service) AnalyzeDocument(ctx context.Context, assessmentID string, data []byte, mimeType, fileName string) ([]Finding, RunLog, error) {
	text, err := evidence.ExtractText(ctx, data, mimeType, fileName)
	if err != nil {
		return nil, RunLog{}, fmt.Errorf("extract evidence text: %w", err)
	}
	return s.Analyze(ctx, assessmentID, text)
}

// Recommend runs the gap-recommendation agent. When findingsPrompt is empty
// it is built from the assessment's stored findings.
func (s *Service) Recommend(ctx context.Context, assessmentID, findingsPrompt string) ([]Recommendation, RunLog, error) {
	if strings.TrimSpace(assessmentID) == "" {
		return nil, RunLog{}, errors.New("assessmentID is required")
	}
	if err := s.checkAssessment(ctx, assessmentID); err != nil {
		return nil, RunLog{}, err
	}

	if strings.TrimSpace(findingsPrompt) == "" {
		findings, err := s.Repo.ListFindings(ctx, assessmentID)
		if err != nil {
			return nil, RunLog{}, fmt.Errorf("load findings: %w", err)
		}
		findingsPrompt = FormatFindingsPrompt(findings)
	}
	if strings.TrimSpace(findingsPrompt) == "" {
		return nil, RunLog{}, ErrNoFindings
	}

	recs, runLog, err := s.Engine.Recommend(ctx, assessmentID, findingsPrompt)
	if err != nil {
		return nil, RunLog{}, err
	}

	recs, err = s.Repo.CreateRecommendations(ctx, recs)
	if err != nil {
		return nil, RunLog{}, fmt.Errorf("store recommendations: %w", err)
	}
	runLog, err = s.Repo.CreateRunLog(ctx, runLog)
	if err != nil {
		return nil, RunLog{}, fmt.Errorf("store run log: %w", err)
	}

	telemetry.Info("insights.recommend", map[string]any{
		"assessment_id":   assessmentID,
		"agent":           AgentGapRecommender,
		"recommendations": len(recs),
	})
	return recs, runLog, nil
}

// Findings lists stored findings for an assessment.
func (s *Service) Findings(ctx context.Context, assessmentID string) ([]Finding, error) {
	return s.Repo.ListFindings(ctx, assessmentID)
}

// Recommendations lists stored recommendations for an assessment.
func (s *Service) Recommendations(ctx context.Context, assessmentID string) ([]Recommendation, error) {
	return s.Repo.ListRecommendations(ctx, assessmentID)
}

// RunLogs lists stored run logs for an assessment.
func (s *Service) RunLogs(ctx context.Context, assessmentID string) ([]RunLog, error) {
	return s.Repo.ListRunLogs(ctx, assessmentID)
}

func (s *Service) checkAssessment(ctx context.Context, assessmentID string) error {
	if s.Assessments == nil {
		return nil
	}
	ok, err := s.Assessments.Exists(ctx, assessmentID)
	if err != nil {
		return fmt.Errorf("assessment lookup id=%s: %w", assessmentID, err)
	}
	if !ok {
		return ErrAssessmentNotFound
	}
	return nil
}

// FormatFindingsPrompt renders stored findings into the line format consumed
// by the recommendation agent.
func FormatFindingsPrompt(findings []Finding) string {
	var b strings.Builder
	for _, f := range findings {
		b.WriteString("- [")
		b.WriteString(f.Severity)
		b.WriteString("] ")
		if f.Area != "" {
			b.WriteString(f.Area)
			b.WriteString(": ")
		}
		b.WriteString(f.Title)
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
