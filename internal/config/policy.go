package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Policy overrides the built-in guardrail tables. Every empty section keeps the built-in value.
type Policy struct {
	Classifier  ClassifierPolicy  `yaml:"classifier"`
	Refusal     RefusalPolicy     `yaml:"refusal"`
	Suggestions SuggestionsPolicy `yaml:"suggestions"`
}

type ClassifierPolicy struct {
	OperationalKeywords []string `yaml:"operational_keywords"`
	AdvisoryPatterns    []string `yaml:"advisory_patterns"`
	FactualKeywords     []string `yaml:"factual_keywords"`
}

type RefusalPolicy struct {
	// Templates is keyed by refusal kind: comparison, portfolio_advice, timing, investment_advice, default.
	Templates map[string]RefusalTemplate `yaml:"templates"`
}

type RefusalTemplate struct {
	Message         string `yaml:"message"`
	EducationalLink string `yaml:"educational_link"`
}

type SuggestionsPolicy struct {
	NoAnswer        []string            `yaml:"no_answer"`
	AdvisoryRefusal []string            `yaml:"advisory_refusal"`
	FundSpecific    map[string][]string `yaml:"fund_specific"`
}

// LoadPolicy parses the YAML policy file at path. An empty path yields an empty policy.
func LoadPolicy(path string) (*Policy, error) {
	policy := &Policy{}
	if path == "" {
		return policy, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read policy file: %w", err)
	}

	if err := yaml.Unmarshal(data, policy); err != nil {
		return nil, fmt.Errorf("parse policy file %s: %w", path, err)
	}

	for kind, tpl := range policy.Refusal.Templates {
		if tpl.Message == "" {
			return nil, fmt.Errorf("policy file %s: refusal template %q has no message", path, kind)
		}
	}

	return policy, nil
}
