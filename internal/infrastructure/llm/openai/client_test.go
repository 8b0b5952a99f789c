package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dylanlee20/job-resume-builder/internal/core/domain"
)

func completionBody(content string) string {
	body, _ := json.Marshal(map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"content": content}},
		},
	})
	return string(body)
}

func TestAssessDecodesWrappedJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer key-1" {
			t.Errorf("unexpected auth header %q", got)
		}
		content := "Here is the assessment:\n" + `{"overall_score":70,"strengths":["a","b","c"],"weaknesses":["x","y","z"],"industry_compatibility":{"Investment Banking":70,"Sales & Trading":60,"Portfolio Management":50,"Risk Management":40,"M&A Advisory":30}}`
		_, _ = w.Write([]byte(completionBody(content)))
	}))
	defer server.Close()

	client := New(server.URL, "key-1", "gpt-4o-mini", nil)
	payload, model, err := client.Assess(context.Background(), "resume text")
	if err != nil {
		t.Fatalf("Assess() error = %v", err)
	}
	if model != "gpt-4o-mini" {
		t.Fatalf("unexpected model %q", model)
	}
	if payload.OverallScore != 70 || len(payload.Strengths) != 3 {
		t.Fatalf("unexpected payload: %+v", payload)
	}
}

func TestAssessMarksUndecodableReplyMalformed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(completionBody("I cannot help with that.")))
	}))
	defer server.Close()

	client := New(server.URL, "key-1", "gpt-4o-mini", nil)
	_, _, err := client.Assess(context.Background(), "resume text")
	if !domain.IsKind(err, domain.ErrMalformedResponse) {
		t.Fatalf("expected malformed response, got %v", err)
	}
}

func TestAssessMarksServerErrorTemporary(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream overloaded", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := New(server.URL, "key-1", "gpt-4o-mini", nil)
	_, _, err := client.Assess(context.Background(), "resume text")
	if !domain.IsKind(err, domain.ErrTemporary) {
		t.Fatalf("expected temporary error, got %v", err)
	}
}

func TestAssessMarksEmptyChoicesMalformed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer server.Close()

	client := New(server.URL, "key-1", "gpt-4o-mini", nil)
	_, _, err := client.Assess(context.Background(), "resume text")
	if !domain.IsKind(err, domain.ErrMalformedResponse) {
		t.Fatalf("expected malformed response, got %v", err)
	}
}
