package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

type Tier string

const (
	TierFree    Tier = "free"
	TierPremium Tier = "premium"
)

func ParseTier(raw string) (Tier, error) {
	switch Tier(strings.ToLower(strings.TrimSpace(raw))) {
	case TierPremium:
		return TierPremium, nil
	case TierFree, "":
		return TierFree, nil
	default:
		return "", WrapError(ErrInvalidInput, "parse tier", fmt.Errorf("unknown tier %q", raw))
	}
}

type AssessmentStatus string

const (
	// AssessmentStatusPending marks a reserved quota slot whose content has
	// not been written yet. Pending rows count against the daily quota.
	AssessmentStatusPending AssessmentStatus = "pending"
	AssessmentStatusFinal   AssessmentStatus = "final"
)

// HeadlineIndustries are the five admitted industries every assessment must
// score. Order is fixed; it is part of the persisted wire contract.
var HeadlineIndustries = []Category{
	CategoryInvestmentBanking,
	CategorySalesTrading,
	CategoryPortfolioManagement,
	CategoryRiskManagement,
	CategoryMAAdvisory,
}

type AssessmentResult struct {
	ID                    string           `json:"id"`
	ResumeID              string           `json:"resume_id"`
	OwnerID               string           `json:"owner_id"`
	Status                AssessmentStatus `json:"status"`
	Score                 int              `json:"score"`
	Strengths             []string         `json:"strengths"`
	Weaknesses            []string         `json:"weaknesses"`
	IndustryCompatibility map[string]int   `json:"industry_compatibility"`
	Degraded              bool             `json:"degraded"`
	Tier                  Tier             `json:"tier"`
	Model                 string           `json:"model,omitempty"`
	CreatedAt             time.Time        `json:"created_at"`
	FinalizedAt           *time.Time       `json:"finalized_at,omitempty"`
}

// AssessmentContent is the validated, immutable payload a reservation is
// finalized with.
type AssessmentContent struct {
	Score                 int
	Strengths             []string
	Weaknesses            []string
	IndustryCompatibility map[string]int
	Degraded              bool
	Model                 string
}

// AssessmentPayload mirrors the JSON shape the model is instructed to return.
type AssessmentPayload struct {
	OverallScore          int            `json:"overall_score"`
	Strengths             []string       `json:"strengths"`
	Weaknesses            []string       `json:"weaknesses"`
	IndustryCompatibility map[string]int `json:"industry_compatibility"`
}

const (
	minListEntries = 3
	maxListEntries = 5
)

// Validate checks the payload against the assessment contract and returns the
// normalized content. Every violation is an ErrMalformedResponse: scores out
// of [0,100] are rejected rather than clamped, lists shorter than three
// entries fail (longer ones are truncated to five), and the compatibility map
// must score exactly the five headline industries.
func (p AssessmentPayload) Validate(model string) (AssessmentContent, error) {
	if p.OverallScore < 0 || p.OverallScore > 100 {
		return AssessmentContent{}, WrapError(ErrMalformedResponse, "validate assessment",
			fmt.Errorf("overall_score %d out of range [0,100]", p.OverallScore))
	}

	strengths, err := normalizeList("strengths", p.Strengths)
	if err != nil {
		return AssessmentContent{}, err
	}
	weaknesses, err := normalizeList("weaknesses", p.Weaknesses)
	if err != nil {
		return AssessmentContent{}, err
	}

	if len(p.IndustryCompatibility) != len(HeadlineIndustries) {
		return AssessmentContent{}, WrapError(ErrMalformedResponse, "validate assessment",
			fmt.Errorf("industry_compatibility has %d keys, want %d", len(p.IndustryCompatibility), len(HeadlineIndustries)))
	}
	compat := make(map[string]int, len(HeadlineIndustries))
	for _, industry := range HeadlineIndustries {
		score, ok := p.IndustryCompatibility[string(industry)]
		if !ok {
			return AssessmentContent{}, WrapError(ErrMalformedResponse, "validate assessment",
				fmt.Errorf("industry_compatibility missing %q", industry))
		}
		if score < 0 || score > 100 {
			return AssessmentContent{}, WrapError(ErrMalformedResponse, "validate assessment",
				fmt.Errorf("industry_compatibility[%q] = %d out of range [0,100]", industry, score))
		}
		compat[string(industry)] = score
	}

	return AssessmentContent{
		Score:                 p.OverallScore,
		Strengths:             strengths,
		Weaknesses:            weaknesses,
		IndustryCompatibility: compat,
		Model:                 model,
	}, nil
}

func normalizeList(field string, entries []string) ([]string, error) {
	out := make([]string, 0, maxListEntries)
	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		out = append(out, entry)
		if len(out) == maxListEntries {
			break
		}
	}
	if len(out) < minListEntries {
		return nil, WrapError(ErrMalformedResponse, "validate assessment",
			fmt.Errorf("%s has %d usable entries, want at least %d", field, len(out), minListEntries))
	}
	return out, nil
}

// FallbackAssessment is the deterministic record written when the model call
// fails or keeps returning unusable output. A resume is never left without a
// finalized assessment.
func FallbackAssessment() AssessmentContent {
	return AssessmentContent{
		Score:                 0,
		Strengths:             []string{"Resume received and stored for later review"},
		Weaknesses:            []string{"Automated analysis was unavailable for this attempt"},
		IndustryCompatibility: map[string]int{},
		Degraded:              true,
		Model:                 "fallback",
	}
}

// NextUTCMidnight is the quota reset instant for any time within the current
// UTC day.
func NextUTCMidnight(now time.Time) time.Time {
	now = now.UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)
}

// StartOfUTCDay returns midnight UTC of the day containing now.
func StartOfUTCDay(now time.Time) time.Time {
	now = now.UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// ErrReservationFinalized signals a double finalize attempt on the same
// reservation.
var ErrReservationFinalized = errors.New("reservation already finalized")
