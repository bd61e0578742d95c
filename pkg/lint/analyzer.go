package lint

import (
	"runtime"
	"sort"

	"github.com/google/uuid"
	"github.com/ryandataengineergit/martlint/pkg/core"
	"golang.org/x/sync/errgroup"
)

// reportNamespace is the namespace for deterministic report IDs:
// UUIDv5 over the registry fingerprint, so the same input registry
// always yields the same report ID.
var reportNamespace = uuid.MustParse("a1f0c9a2-7c3e-5db1-9e44-52a6a1c2d9b7")

// AnalyzerConfig holds configuration for the analyzer.
type AnalyzerConfig struct {
	// DisabledRules contains rule IDs to skip.
	DisabledRules map[string]bool

	// SeverityOverrides changes the default severity of rules.
	SeverityOverrides map[string]core.Severity

	// Workers bounds the model-check parallelism; <=0 means NumCPU.
	Workers int
}

// NewAnalyzerConfig creates a default configuration.
func NewAnalyzerConfig() *AnalyzerConfig {
	return &AnalyzerConfig{
		DisabledRules:     make(map[string]bool),
		SeverityOverrides: make(map[string]core.Severity),
	}
}

// Analyzer runs registered rules against a validation context.
type Analyzer struct {
	config *AnalyzerConfig
}

// NewAnalyzer creates an analyzer with optional configuration.
func NewAnalyzer(config *AnalyzerConfig) *Analyzer {
	if config == nil {
		config = NewAnalyzerConfig()
	}
	return &Analyzer{config: config}
}

// Run executes all enabled rules and assembles the report.
//
// Per-model rules are embarrassingly parallel: models are fanned out
// across workers, each worker appending to its own local slice, and
// the local slices are merged afterwards so no shared list is written
// concurrently. Graph rules run sequentially once the model pass is
// complete. Violations are then sorted so repeated runs on the same
// registry produce byte-identical reports.
func (a *Analyzer) Run(ctx *Context) *Report {
	var violations []Violation

	modelRules, graphRules := a.enabledRules()

	models := ctx.Registry().Models()
	if len(models) > 0 && len(modelRules) > 0 {
		workers := a.config.Workers
		if workers <= 0 {
			workers = runtime.NumCPU()
		}
		if workers > len(models) {
			workers = len(models)
		}

		locals := make([][]Violation, workers)
		var g errgroup.Group
		for w := 0; w < workers; w++ {
			w := w
			g.Go(func() error {
				var local []Violation
				for i := w; i < len(models); i += workers {
					for _, rule := range modelRules {
						local = append(local, rule.CheckModel(ctx, models[i])...)
					}
				}
				locals[w] = local
				return nil
			})
		}
		// Checks are pure and never return errors.
		_ = g.Wait()
		for _, local := range locals {
			violations = append(violations, local...)
		}
	}

	for _, rule := range graphRules {
		violations = append(violations, rule.CheckGraph(ctx)...)
	}

	for i := range violations {
		violations[i].Severity = a.severityFor(violations[i].RuleID, violations[i].Severity)
		violations[i].SeverityName = violations[i].Severity.String()
	}

	sort.Slice(violations, func(i, j int) bool {
		a, b := violations[i], violations[j]
		if a.Model != b.Model {
			return a.Model < b.Model
		}
		if a.RuleID != b.RuleID {
			return a.RuleID < b.RuleID
		}
		return a.Message < b.Message
	})

	report := &Report{
		ID:         uuid.NewSHA1(reportNamespace, []byte(ctx.Registry().Fingerprint())).String(),
		Models:     ctx.Registry().ModelCount(),
		Violations: violations,
	}
	for _, v := range violations {
		switch v.Severity {
		case core.SeverityError:
			report.Counts.Errors++
		case core.SeverityWarning:
			report.Counts.Warnings++
		case core.SeverityInfo:
			report.Counts.Info++
		case core.SeverityHint:
			report.Counts.Hints++
		}
	}
	report.Pass = report.Counts.Errors == 0
	return report
}

// enabledRules splits the registered rules into model and graph rules,
// dropping disabled ones. GetAll is ID-sorted, so execution order is
// fixed.
func (a *Analyzer) enabledRules() (model, graph []RuleDef) {
	for _, rule := range GetAll() {
		if a.config.DisabledRules[rule.ID] {
			continue
		}
		if rule.CheckGraph != nil {
			graph = append(graph, rule)
		} else if rule.CheckModel != nil {
			model = append(model, rule)
		}
	}
	return model, graph
}

func (a *Analyzer) severityFor(ruleID string, def core.Severity) core.Severity {
	if sev, ok := a.config.SeverityOverrides[ruleID]; ok {
		return sev
	}
	return def
}
