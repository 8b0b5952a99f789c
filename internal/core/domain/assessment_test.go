package domain

import (
	"testing"
	"time"
)

func payloadFixture() AssessmentPayload {
	return AssessmentPayload{
		OverallScore: 64,
		Strengths:    []string{"a", "b", "c", "d", "e", "f"},
		Weaknesses:   []string{"x", "y", "z"},
		IndustryCompatibility: map[string]int{
			"Investment Banking":   64,
			"Sales & Trading":      50,
			"Portfolio Management": 40,
			"Risk Management":      30,
			"M&A Advisory":         20,
		},
	}
}

func TestValidateTruncatesListsToFive(t *testing.T) {
	content, err := payloadFixture().Validate("m")
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if len(content.Strengths) != 5 {
		t.Fatalf("expected 5 strengths, got %d", len(content.Strengths))
	}
	if content.Strengths[0] != "a" || content.Strengths[4] != "e" {
		t.Fatalf("truncation must preserve order, got %v", content.Strengths)
	}
}

func TestValidateRejectsScoreOutOfRange(t *testing.T) {
	for _, score := range []int{-1, 101, 500} {
		p := payloadFixture()
		p.OverallScore = score
		if _, err := p.Validate("m"); !IsKind(err, ErrMalformedResponse) {
			t.Fatalf("score %d: expected malformed response, got %v", score, err)
		}
	}
}

func TestValidateRejectsShortLists(t *testing.T) {
	p := payloadFixture()
	p.Weaknesses = []string{"only", "  ", "two  entries?  no: one is blank"}
	if _, err := p.Validate("m"); !IsKind(err, ErrMalformedResponse) {
		t.Fatalf("expected malformed response, got %v", err)
	}
}

func TestValidateRequiresAllHeadlineIndustries(t *testing.T) {
	p := payloadFixture()
	delete(p.IndustryCompatibility, "Risk Management")
	if _, err := p.Validate("m"); !IsKind(err, ErrMalformedResponse) {
		t.Fatalf("expected malformed response for missing industry, got %v", err)
	}

	p = payloadFixture()
	p.IndustryCompatibility["Crypto"] = 10
	if _, err := p.Validate("m"); !IsKind(err, ErrMalformedResponse) {
		t.Fatalf("expected malformed response for extra industry, got %v", err)
	}

	p = payloadFixture()
	p.IndustryCompatibility["M&A Advisory"] = 120
	if _, err := p.Validate("m"); !IsKind(err, ErrMalformedResponse) {
		t.Fatalf("expected malformed response for out-of-range industry score, got %v", err)
	}
}

func TestFallbackAssessmentShape(t *testing.T) {
	fallback := FallbackAssessment()
	if !fallback.Degraded || fallback.Score != 0 {
		t.Fatalf("unexpected fallback: %+v", fallback)
	}
	if len(fallback.Strengths) != 1 || len(fallback.Weaknesses) != 1 {
		t.Fatalf("fallback lists must have one generic entry each")
	}
	if len(fallback.IndustryCompatibility) != 0 {
		t.Fatalf("fallback compatibility map must be empty")
	}
}

func TestNextUTCMidnight(t *testing.T) {
	now := time.Date(2026, 3, 14, 22, 45, 0, 0, time.UTC)
	reset := NextUTCMidnight(now)
	want := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	if !reset.Equal(want) {
		t.Fatalf("got %s, want %s", reset, want)
	}
}

func TestParseTier(t *testing.T) {
	if tier, err := ParseTier(" Premium "); err != nil || tier != TierPremium {
		t.Fatalf("got (%s, %v)", tier, err)
	}
	if tier, err := ParseTier(""); err != nil || tier != TierFree {
		t.Fatalf("empty tier should default to free, got (%s, %v)", tier, err)
	}
	if _, err := ParseTier("gold"); !IsKind(err, ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}
