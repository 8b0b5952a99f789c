package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/dylanlee20/job-resume-builder/internal/core/domain"
	"github.com/dylanlee20/job-resume-builder/internal/infrastructure/resilience"
)

// Client talks to an OpenAI-compatible chat completions endpoint. The base
// URL is configurable so tests and self-hosted gateways can stand in for the
// real API.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
	exec       *resilience.Executor
}

func New(baseURL, apiKey, model string, exec *resilience.Executor) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		model:      model,
		httpClient: &http.Client{Timeout: 120 * time.Second},
		exec:       exec,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Assess sends resume text to the model and decodes the structured reply.
// Transport failures come back wrapped as temporary; an undecodable reply is
// a malformed response. The caller owns the retry-once and fallback policy.
func (c *Client) Assess(ctx context.Context, resumeText string) (domain.AssessmentPayload, string, error) {
	request := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: assessmentSystemPrompt},
			{Role: "user", Content: buildAssessmentUserPrompt(resumeText)},
		},
		Temperature: 0.7,
		MaxTokens:   1000,
	}

	var response chatResponse
	call := func(ctx context.Context) error {
		return c.postJSON(ctx, "/v1/chat/completions", request, &response, "assess")
	}
	var err error
	if c.exec != nil {
		err = c.exec.Execute(ctx, "openai_assess", call, classifyOpenAIError)
	} else {
		err = call(ctx)
	}
	if err != nil {
		return domain.AssessmentPayload{}, c.model, wrapTemporaryIfNeeded("assess resume", err)
	}

	if len(response.Choices) == 0 {
		return domain.AssessmentPayload{}, c.model,
			domain.WrapError(domain.ErrMalformedResponse, "assess resume", errEmptyChoices)
	}

	content := extractJSONObject(response.Choices[0].Message.Content)
	var payload domain.AssessmentPayload
	if err := json.Unmarshal([]byte(content), &payload); err != nil {
		return domain.AssessmentPayload{}, c.model,
			domain.WrapError(domain.ErrMalformedResponse, "assess resume", err)
	}
	return payload, c.model, nil
}

// extractJSONObject trims any prose the model wraps around the JSON body.
func extractJSONObject(raw string) string {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start >= 0 && end > start {
		return raw[start : end+1]
	}
	return raw
}
