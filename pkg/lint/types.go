package lint

import (
	"github.com/ryandataengineergit/martlint/pkg/core"
)

// Violation is one lint finding against the registry.
type Violation struct {
	// RuleID identifies the rule that produced the finding, e.g. "MM01".
	RuleID string `json:"rule_id"`
	// Severity is the finding's severity after config overrides.
	Severity core.Severity `json:"-"`
	// SeverityName is the string form used in serialized reports.
	SeverityName string `json:"severity"`
	// Model is the offending model name; empty for registry-wide findings.
	Model string `json:"model,omitempty"`
	// Message is the human-readable explanation.
	Message string `json:"message"`
}

// Counts summarizes a report by severity.
type Counts struct {
	Errors   int `json:"errors"`
	Warnings int `json:"warnings"`
	Info     int `json:"info"`
	Hints    int `json:"hints"`
}

// Report is the outcome of one validation run: the ordered violation
// list plus overall pass/fail. Identical registries produce
// byte-identical reports, including the ID.
type Report struct {
	// ID is a deterministic identifier derived from the registry
	// fingerprint (UUIDv5), stable across runs on unchanged input.
	ID string `json:"id"`
	// Models is the number of models analyzed.
	Models int `json:"models"`
	// Violations are sorted by (model, rule, message).
	Violations []Violation `json:"violations"`
	// Counts tallies violations by severity.
	Counts Counts `json:"counts"`
	// Pass is true iff zero error-severity violations were found.
	// Warnings never affect pass/fail.
	Pass bool `json:"pass"`
}
