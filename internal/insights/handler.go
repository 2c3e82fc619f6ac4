package insights

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ValeriiSysoiev/AI-Enable-Cyber-Maturity-Assessment-2-sub003/internal/llm"
	"github.com/ValeriiSysoiev/AI-Enable-Cyber-Maturity-Assessment-2-sub003/internal/shared/server/respond"
)

const maxEvidenceUploadBytes = 10 << 20

// Handler exposes the extraction pipeline over HTTP.
type Handler struct {
	svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Register attaches insight routes to the API group.
func (h *Handler) Register(api *gin.RouterGroup) {
	api.POST("/assessments/:id/analyze", h.analyze)
	api.POST("/assessments/:id/analyze-document", h.analyzeDocument)
	api.POST("/assessments/:id/recommend", h.recommend)
	api.GET("/assessments/:id/findings", h.listFindings)
	api.GET("/assessments/:id/recommendations", h.listRecommendations)
	api.GET("/assessments/:id/runlogs", h.listRunLogs)
}

type analyzeRequest struct {
	Content string `json:"content"`
}

type analyzeResponse struct {
	Findings []Finding `json:"findings"`
	RunLog   RunLog    `json:"runLog"`
}

func (h *Handler) analyze(c *gin.Context) {
	assessmentID := c.Param("id")
	c.Set("assessmentId", assessmentID)

	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "Body must be JSON with a content field", nil)
		return
	}
	if req.Content == "" {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "content is required", nil)
		return
	}

	findings, runLog, err := h.svc.Analyze(c.Request.Context(), assessmentID, req.Content)
	if err != nil {
		h.writeError(c, err)
		return
	}
	respond.OK(c, analyzeResponse{Findings: findings, RunLog: runLog})
}

func (h *Handler) analyzeDocument(c *gin.Context) {
	assessmentID := c.Param("id")
	c.Set("assessmentId", assessmentID)

	fileHeader, err := c.FormFile("document")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "multipart field document is required", nil)
		return
	}
	if fileHeader.Size > maxEvidenceUploadBytes {
		respond.Error(c, http.StatusRequestEntityTooLarge, "too_large", "document exceeds upload limit", nil)
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "cannot read uploaded document", nil)
		return
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, maxEvidenceUploadBytes+1))
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "cannot read uploaded document", nil)
		return
	}

	findings, runLog, err := h.svc.AnalyzeDocument(
		c.Request.Context(),
		assessmentID,
		data,
		fileHeader.Header.Get("Content-Type"),
		fileHeader.Filename,
	)
	if err != nil {
		h.writeError(c, err)
		return
	}
	respond.OK(c, analyzeResponse{Findings: findings, RunLog: runLog})
}

type recommendRequest struct {
	Findings string `json:"findings"`
}

type recommendResponse struct {
	Recommendations []Recommendation `json:"recommendations"`
	RunLog          RunLog           `json:"runLog"`
}

func (h *Handler) recommend(c *gin.Context) {
	assessmentID := c.Param("id")
	c.Set("assessmentId", assessmentID)

	var req recommendRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respond.Error(c, http.StatusBadRequest, "invalid_request", "Body must be JSON", nil)
			return
		}
	}

	recs, runLog, err := h.svc.Recommend(c.Request.Context(), assessmentID, req.Findings)
	if err != nil {
		h.writeError(c, err)
		return
	}
	respond.OK(c, recommendResponse{Recommendations: recs, RunLog: runLog})
}

func (h *Handler) listFindings(c *gin.Context) {
	findings, err := h.svc.Findings(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	respond.OK(c, gin.H{"findings": findings})
}

func (h *Handler) listRecommendations(c *gin.Context) {
	recs, err := h.svc.Recommendations(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	respond.OK(c, gin.H{"recommendations": recs})
}

func (h *Handler) listRunLogs(c *gin.Context) {
	runLogs, err := h.svc.RunLogs(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	respond.OK(c, gin.H{"runLogs": runLogs})
}

func (h *Handler) writeError(c *gin.Context, err error) {
	var llmErr *llm.Error
	switch {
	case errors.Is(err, ErrAssessmentNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "Assessment not found", nil)
	case errors.Is(err, ErrNoFindings):
		respond.Error(c, http.StatusBadRequest, "no_findings", "No findings to recommend against", nil)
	case errors.As(err, &llmErr):
		respond.Error(c, http.StatusBadGateway, "llm_error", llmErr.Message, nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal", err.Error(), nil)
	}
}
