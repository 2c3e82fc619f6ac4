package azure

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ValeriiSysoiev/AI-Enable-Cyber-Maturity-Assessment-2-sub003/internal/llm"
)

const (
	defaultAPIVersion = "2024-02-15-preview"
	// Fixed sampling temperature for reproducible-ish extraction output.
	samplingTemperature = float32(0.2)
	// Returned when the provider answers successfully but with blank content.
	blankContentPlaceholder = "No content generated by the model."
)

// Client implements llm.Client against an Azure OpenAI chat-completions deployment.
type Client struct {
	endpoint   string
	apiKey     string
	deployment string
	apiVersion string
	httpClient *http.Client
}

// NewClient constructs a new Azure OpenAI client.
func NewClient(endpoint, apiKey, deployment, apiVersion string) (*Client, error) {
	if strings.TrimSpace(endpoint) == "" {
		return nil, fmt.Errorf("azure openai endpoint is required")
	}
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("azure openai api key is required")
	}
	if strings.TrimSpace(deployment) == "" {
		return nil, fmt.Errorf("azure openai deployment is required")
	}
	if strings.TrimSpace(apiVersion) == "" {
		apiVersion = defaultAPIVersion
	}
	timeout := 120 * time.Second
	if raw := strings.TrimSpace(os.Getenv("AZURE_OPENAI_TIMEOUT_SECONDS")); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			timeout = time.Duration(parsed) * time.Second
		}
	}
	return &Client{
		endpoint:   strings.TrimRight(strings.TrimSpace(endpoint), "/"),
		apiKey:     apiKey,
		deployment: deployment,
		apiVersion: apiVersion,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Messages    []chatMessage `json:"messages"`
	Temperature *float32      `json:"temperature,omitempty"`
}

// Pointer fields distinguish absent from empty when validating response shape.
type chatResponse struct {
	ID      string `json:"id"`
	Choices []struct {
		Message *struct {
			Role    string  `json:"role"`
			Content *string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code"`
	} `json:"error,omitempty"`
}

// Generate issues one chat completion with system and user message roles and
// validates the response shape. Blank content is not an error: it yields a
// fixed placeholder string.
func (c *Client) Generate(ctx context.Context, system, user string) (string, error) {
	temp := samplingTemperature
	reqBody := chatRequest{
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature: &temp,
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/openai/deployments/%s/chat/completions?api-version=%s",
		c.endpoint, c.deployment, c.apiVersion)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("api-key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || strings.Contains(err.Error(), "Client.Timeout") {
			return "", fmt.Errorf("azure openai request timeout: %w", err)
		}
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	if resp.StatusCode != http.StatusOK {
		return "", &llm.ProviderError{
			StatusCode: resp.StatusCode,
			Message:    providerMessage(body, resp.StatusCode),
		}
	}

	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" || trimmed == "null" {
		return "", &llm.Error{Message: "Empty response"}
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", &llm.Error{Message: "response parse failed", Err: err}
	}
	if parsed.Error != nil {
		return "", &llm.ProviderError{
			StatusCode: resp.StatusCode,
			Message:    parsed.Error.Message,
		}
	}
	if len(parsed.Choices) == 0 {
		return "", &llm.Error{Message: "missing choices"}
	}
	choice := parsed.Choices[0]
	if choice.Message == nil {
		return "", &llm.Error{Message: "missing message"}
	}
	if choice.Message.Content == nil {
		return "", &llm.Error{Message: "missing content"}
	}
	if strings.TrimSpace(*choice.Message.Content) == "" {
		return blankContentPlaceholder, nil
	}
	return *choice.Message.Content, nil
}

func providerMessage(body []byte, status int) string {
	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Error != nil && parsed.Error.Message != "" {
		return parsed.Error.Message
	}
	return fmt.Sprintf("http status %d", status)
}

var _ llm.Client = (*Client)(nil)
