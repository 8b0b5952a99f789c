package httpjson

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/dylanlee20/job-resume-builder/internal/core/domain"
)

const httpTimeout = 15 * time.Second

// Fetcher pulls job postings from JSON feed endpoints. All feeds share one
// rate limiter so a poll cycle over many sources stays polite to upstreams.
type Fetcher struct {
	client  *http.Client
	limiter *rate.Limiter
}

// NewFetcher constructs a fetcher allowing requestsPerSecond upstream calls.
// Zero or negative disables limiting.
func NewFetcher(requestsPerSecond float64) *Fetcher {
	var limiter *rate.Limiter
	if requestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), 1)
	}
	return &Fetcher{
		client:  &http.Client{Timeout: httpTimeout},
		limiter: limiter,
	}
}

// feedJob mirrors one listing in the upstream feed JSON.
type feedJob struct {
	Company     string `json:"company"`
	Title       string `json:"title"`
	Location    string `json:"location"`
	Description string `json:"description"`
	URL         string `json:"url"`
}

type feedResponse struct {
	Jobs []feedJob `json:"jobs"`
}

func (f *Fetcher) Fetch(ctx context.Context, sourceURL string) ([]domain.ScrapedJob, error) {
	if f.limiter != nil {
		if err := f.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sourceURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create feed request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, domain.WrapError(domain.ErrTemporary, "fetch feed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, domain.WrapError(domain.ErrTemporary, "fetch feed",
			fmt.Errorf("feed %s status: %s", sourceURL, resp.Status))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read feed body: %w", err)
	}

	jobs, err := decodeFeed(body)
	if err != nil {
		return nil, fmt.Errorf("decode feed %s: %w", sourceURL, err)
	}

	out := make([]domain.ScrapedJob, 0, len(jobs))
	for _, job := range jobs {
		out = append(out, domain.ScrapedJob{
			Company:     job.Company,
			Title:       job.Title,
			Location:    job.Location,
			Description: job.Description,
			URL:         job.URL,
			Source:      sourceURL,
		})
	}
	return out, nil
}

// decodeFeed accepts either a bare array of listings or an object with a
// jobs field; both shapes exist in the wild.
func decodeFeed(body []byte) ([]feedJob, error) {
	var direct []feedJob
	if err := json.Unmarshal(body, &direct); err == nil {
		return direct, nil
	}
	var wrapped feedResponse
	if err := json.Unmarshal(body, &wrapped); err != nil {
		return nil, err
	}
	return wrapped.Jobs, nil
}
