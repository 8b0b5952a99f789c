package httpjson

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dylanlee20/job-resume-builder/internal/core/domain"
)

func TestFetchDecodesBareArray(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"company":"Bank A","title":"Analyst","location":"London","url":"https://x/1"}]`))
	}))
	defer server.Close()

	jobs, err := NewFetcher(0).Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if len(jobs) != 1 {
		t.Fatalf("expected 1 job, got %d", len(jobs))
	}
	if jobs[0].Source != server.URL {
		t.Fatalf("source must carry the feed url, got %q", jobs[0].Source)
	}
}

func TestFetchDecodesWrappedObject(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"jobs":[{"company":"Bank A","title":"Analyst"},{"company":"Bank B","title":"Trader"}]}`))
	}))
	defer server.Close()

	jobs, err := NewFetcher(0).Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if len(jobs) != 2 {
		t.Fatalf("expected 2 jobs, got %d", len(jobs))
	}
}

func TestFetchMarksUpstreamErrorsTemporary(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	}))
	defer server.Close()

	_, err := NewFetcher(0).Fetch(context.Background(), server.URL)
	if !domain.IsKind(err, domain.ErrTemporary) {
		t.Fatalf("expected temporary error, got %v", err)
	}
}
