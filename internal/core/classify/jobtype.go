package classify

import (
	"strings"

	"github.com/dylanlee20/job-resume-builder/internal/core/domain"
)

var internshipKeywords = []string{
	"intern", "internship", "summer analyst", "summer associate",
	"graduate program", "grad program", "trainee", "campus",
	"rotational program", "off-cycle", "spring week", "spring intern",
	"winter intern", "insight program", "insight week", "co-op",
	"coop program", "placement year", "industrial placement",
}

// JobType separates internship/early-career postings from full-time roles.
func JobType(jobText string) domain.JobType {
	text := strings.ToLower(jobText)
	for _, keyword := range internshipKeywords {
		if strings.Contains(text, keyword) {
			return domain.JobTypeInternship
		}
	}
	return domain.JobTypeFullTime
}
