package insights

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/ValeriiSysoiev/AI-Enable-Cyber-Maturity-Assessment-2-sub003/internal/llm"
)

func newTestRouter(svc *Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(svc).Register(r.Group("/api"))
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHandlerAnalyzeHappyPath(t *testing.T) {
	svc := newTestService(stubLLM{text: "- [high] Identity: MFA gap found"}, "a-1")
	r := newTestRouter(svc)

	w := doJSON(t, r, http.MethodPost, "/api/assessments/a-1/analyze", `{"content":"evidence body"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp analyzeResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Findings) != 1 || resp.Findings[0].Severity != "high" {
		t.Fatalf("unexpected findings %+v", resp.Findings)
	}
	if resp.RunLog.Agent != AgentDocAnalyzer {
		t.Fatalf("unexpected run log %+v", resp.RunLog)
	}
}

func TestHandlerAnalyzeValidation(t *testing.T) {
	svc := newTestService(stubLLM{text: "irrelevant"}, "a-1")
	r := newTestRouter(svc)

	w := doJSON(t, r, http.MethodPost, "/api/assessments/a-1/analyze", `{"content":""}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	w = doJSON(t, r, http.MethodPost, "/api/assessments/a-1/analyze", `not json`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestHandlerAnalyzeUnknownAssessment(t *testing.T) {
	svc := newTestService(stubLLM{text: "irrelevant"}, "a-1")
	r := newTestRouter(svc)

	w := doJSON(t, r, http.MethodPost, "/api/assessments/missing/analyze", `{"content":"x"}`)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", w.Code, w.Body.String())
	}
}

func TestHandlerAnalyzeLLMErrorMapsToBadGateway(t *testing.T) {
	svc := newTestService(stubLLM{err: &llm.Error{Message: "retries exhausted"}}, "a-1")
	r := newTestRouter(svc)

	w := doJSON(t, r, http.MethodPost, "/api/assessments/a-1/analyze", `{"content":"x"}`)
	if w.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d: %s", w.Code, w.Body.String())
	}
	if !bytes.Contains(w.Body.Bytes(), []byte("llm_error")) {
		t.Fatalf("expected llm_error code in body %s", w.Body.String())
	}
}

func TestHandlerRecommendWithoutFindings(t *testing.T) {
	svc := newTestService(stubLLM{text: "irrelevant"}, "a-1")
	r := newTestRouter(svc)

	w := doJSON(t, r, http.MethodPost, "/api/assessments/a-1/recommend", `{}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
	if !bytes.Contains(w.Body.Bytes(), []byte("no_findings")) {
		t.Fatalf("expected no_findings code in body %s", w.Body.String())
	}
}

func TestHandlerRecommendAndList(t *testing.T) {
	svc := newTestService(stubLLM{text: "1. Enforce MFA everywhere (P1, S, 2 weeks)"}, "a-1")
	r := newTestRouter(svc)

	w := doJSON(t, r, http.MethodPost, "/api/assessments/a-1/recommend", `{"findings":"- [high] MFA gap"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(t, r, http.MethodGet, "/api/assessments/a-1/recommendations", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var listResp struct {
		Recommendations []Recommendation `json:"recommendations"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &listResp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(listResp.Recommendations) != 1 || listResp.Recommendations[0].Priority != "P1" {
		t.Fatalf("unexpected recommendations %+v", listResp.Recommendations)
	}

	w = doJSON(t, r, http.MethodGet, "/api/assessments/a-1/runlogs", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}
