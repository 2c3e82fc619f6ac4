package azure

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ValeriiSysoiev/AI-Enable-Cyber-Maturity-Assessment-2-sub003/internal/llm"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClient(srv.URL, "test-key", "gpt-4o", "2024-02-15-preview")
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return client
}

func completionBody(content string) string {
	return `{"id":"cmpl-1","choices":[{"message":{"role":"assistant","content":` +
		string(mustJSON(content)) + `}}]}`
}

func mustJSON(v any) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return b
}

func TestNewClientValidation(t *testing.T) {
	if _, err := NewClient("", "key", "dep", ""); err == nil {
		t.Fatalf("expected error for missing endpoint")
	}
	if _, err := NewClient("https://x", "", "dep", ""); err == nil {
		t.Fatalf("expected error for missing api key")
	}
	if _, err := NewClient("https://x", "key", "", ""); err == nil {
		t.Fatalf("expected error for missing deployment")
	}

	c, err := NewClient("https://x/", "key", "dep", "")
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if c.apiVersion != defaultAPIVersion {
		t.Fatalf("expected default api version, got %q", c.apiVersion)
	}
	if c.endpoint != "https://x" {
		t.Fatalf("expected trailing slash trimmed, got %q", c.endpoint)
	}
}

func TestGenerateSendsChatCompletionRequest(t *testing.T) {
	var gotPath, gotQuery, gotKey string
	var gotBody chatRequest

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		gotKey = r.Header.Get("api-key")
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &gotBody)
		io.WriteString(w, completionBody("- [High] Identity: MFA gap"))
	})

	out, err := client.Generate(context.Background(), "you are an analyst", "document text")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if out != "- [High] Identity: MFA gap" {
		t.Fatalf("unexpected output %q", out)
	}
	if gotPath != "/openai/deployments/gpt-4o/chat/completions" {
		t.Fatalf("unexpected path %q", gotPath)
	}
	if !strings.Contains(gotQuery, "api-version=2024-02-15-preview") {
		t.Fatalf("unexpected query %q", gotQuery)
	}
	if gotKey != "test-key" {
		t.Fatalf("unexpected api-key header %q", gotKey)
	}
	if len(gotBody.Messages) != 2 ||
		gotBody.Messages[0].Role != "system" ||
		gotBody.Messages[1].Role != "user" {
		t.Fatalf("unexpected messages %+v", gotBody.Messages)
	}
	if gotBody.Temperature == nil || *gotBody.Temperature != samplingTemperature {
		t.Fatalf("unexpected temperature %v", gotBody.Temperature)
	}
}

func TestGenerateBlankContentYieldsPlaceholder(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, completionBody("   \n\t"))
	})

	out, err := client.Generate(context.Background(), "s", "u")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if out != blankContentPlaceholder {
		t.Fatalf("expected placeholder, got %q", out)
	}
}

func TestGenerateShapeValidation(t *testing.T) {
	cases := []struct {
		name    string
		body    string
		message string
	}{
		{"empty_body", "", "Empty response"},
		{"null_body", "null", "Empty response"},
		{"no_choices", `{"id":"cmpl-1","choices":[]}`, "missing choices"},
		{"no_message", `{"id":"cmpl-1","choices":[{}]}`, "missing message"},
		{"no_content", `{"id":"cmpl-1","choices":[{"message":{"role":"assistant"}}]}`, "missing content"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				io.WriteString(w, tc.body)
			})

			_, err := client.Generate(context.Background(), "s", "u")
			var llmErr *llm.Error
			if !errors.As(err, &llmErr) {
				t.Fatalf("expected *llm.Error, got %T: %v", err, err)
			}
			if llmErr.Message != tc.message {
				t.Fatalf("expected message %q, got %q", tc.message, llmErr.Message)
			}
		})
	}
}

func TestGenerateRateLimitedStatus(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		io.WriteString(w, `{"error":{"message":"rate limit exceeded","type":"requests","code":"429"}}`)
	})

	_, err := client.Generate(context.Background(), "s", "u")
	var provErr *llm.ProviderError
	if !errors.As(err, &provErr) {
		t.Fatalf("expected *llm.ProviderError, got %T: %v", err, err)
	}
	if !provErr.RateLimited() {
		t.Fatalf("expected rate limited, got status %d", provErr.StatusCode)
	}
	if provErr.Message != "rate limit exceeded" {
		t.Fatalf("unexpected message %q", provErr.Message)
	}
}

func TestGenerateErrorPayloadWithOKStatus(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"error":{"message":"content filter triggered","type":"invalid_request_error"}}`)
	})

	_, err := client.Generate(context.Background(), "s", "u")
	var provErr *llm.ProviderError
	if !errors.As(err, &provErr) {
		t.Fatalf("expected *llm.ProviderError, got %T: %v", err, err)
	}
	if provErr.Message != "content filter triggered" {
		t.Fatalf("unexpected message %q", provErr.Message)
	}
}

func TestGenerateNonOKStatusWithoutPayload(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := client.Generate(context.Background(), "s", "u")
	var provErr *llm.ProviderError
	if !errors.As(err, &provErr) {
		t.Fatalf("expected *llm.ProviderError, got %T: %v", err, err)
	}
	if provErr.StatusCode != http.StatusBadGateway {
		t.Fatalf("unexpected status %d", provErr.StatusCode)
	}
	if provErr.Message != "http status 502" {
		t.Fatalf("unexpected message %q", provErr.Message)
	}
}
