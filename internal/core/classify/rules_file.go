package classify

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dylanlee20/job-resume-builder/internal/core/domain"
)

type rulesFile struct {
	Admitted []ruleEntry `yaml:"admitted"`
	Excluded []ruleEntry `yaml:"excluded"`
}

type ruleEntry struct {
	Category string   `yaml:"category"`
	Phrases  []string `yaml:"phrases"`
	Tokens   []string `yaml:"tokens"`
}

// LoadRules reads a YAML rule-set override so keyword lists can be re-tuned
// without a rebuild. List order in the file is the priority order.
func LoadRules(path string) ([]Rule, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rules file: %w", err)
	}
	var file rulesFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse rules file: %w", err)
	}
	if len(file.Admitted) == 0 {
		return nil, fmt.Errorf("rules file %s declares no admitted categories", path)
	}

	rules := make([]Rule, 0, len(file.Admitted)+len(file.Excluded))
	for _, entry := range file.Admitted {
		rule, err := entry.toRule(true)
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}
	for _, entry := range file.Excluded {
		rule, err := entry.toRule(false)
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

func (e ruleEntry) toRule(admitted bool) (Rule, error) {
	if e.Category == "" {
		return Rule{}, fmt.Errorf("rule entry without category")
	}
	if len(e.Phrases) == 0 && len(e.Tokens) == 0 {
		return Rule{}, fmt.Errorf("category %q has no patterns", e.Category)
	}
	return Rule{
		Category: domain.Category(e.Category),
		Admitted: admitted,
		Phrases:  lowerAll(e.Phrases),
		Tokens:   lowerAll(e.Tokens),
	}, nil
}

func lowerAll(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, 0, len(in))
	for _, s := range in {
		out = append(out, strings.ToLower(strings.TrimSpace(s)))
	}
	return out
}
