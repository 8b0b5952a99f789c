// Package classify tags job postings with one of the fixed finance
// categories and an admitted flag. Matching is pure and deterministic:
// admitted categories are scanned before excluded ones, in the priority
// order DefaultRules documents, and the first matching category wins.
package classify

import (
	"strings"
	"unicode"

	"github.com/dylanlee20/job-resume-builder/internal/core/domain"
)

type Classifier struct {
	admitted []Rule
	excluded []Rule
}

func New(rules []Rule) *Classifier {
	c := &Classifier{}
	for _, rule := range rules {
		if rule.Admitted {
			c.admitted = append(c.admitted, rule)
			continue
		}
		c.excluded = append(c.excluded, rule)
	}
	return c
}

func Default() *Classifier {
	return New(DefaultRules())
}

// Classify maps concatenated title+description text to a category and the
// admitted flag. Text matching no rule is Uncategorized and excluded: a
// posting must affirmatively match an admit pattern to be surfaced.
func (c *Classifier) Classify(jobText string) (domain.Category, bool) {
	text := strings.ToLower(jobText)
	if strings.TrimSpace(text) == "" {
		return domain.CategoryUncategorized, false
	}
	tokens := tokenSet(text)

	for _, rule := range c.admitted {
		if ruleMatches(rule, text, tokens) {
			return rule.Category, true
		}
	}

	// Leadership titles escape keyword-based exclusion; without an admit
	// match they still end up Uncategorized and hidden.
	if !containsSeniorTerm(text) {
		for _, rule := range c.excluded {
			if ruleMatches(rule, text, tokens) {
				return rule.Category, false
			}
		}
	}

	return domain.CategoryUncategorized, false
}

func ruleMatches(rule Rule, text string, tokens map[string]struct{}) bool {
	for _, phrase := range rule.Phrases {
		if strings.Contains(text, phrase) {
			return true
		}
	}
	for _, token := range rule.Tokens {
		if _, ok := tokens[token]; ok {
			return true
		}
	}
	return false
}

func containsSeniorTerm(text string) bool {
	for _, term := range seniorTerms {
		if strings.Contains(text, term) {
			return true
		}
	}
	return false
}

func tokenSet(text string) map[string]struct{} {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return set
}
