package graph

import (
	"fmt"

	"github.com/ryandataengineergit/martlint/pkg/core"
	"github.com/ryandataengineergit/martlint/pkg/lint"
)

// orphanOptions are the configurable knobs for MG02, decoded from the
// rule's options map.
type orphanOptions struct {
	// IncludeMarts controls whether fully disconnected mart models are
	// flagged. Marts are expected terminal consumers, so some teams
	// exclude them.
	IncludeMarts bool `mapstructure:"include_marts"`
}

func init() {
	lint.Register(lint.RuleDef{
		ID:          "MG02",
		Name:        "orphan-model",
		Group:       "graph",
		Description: "Model has no inbound and no outbound references",
		Severity:    core.SeverityWarning,
		CheckGraph:  checkOrphanModels,
		ConfigKeys:  []string{"include_marts"},

		Rationale: `A model nothing references and that references nothing is usually a forgotten wiring job, not a
deliberate island. Flagged as a warning: it never fails the run, it only asks for a look.`,

		BadExample: `models:
  - name: int_patients_scored
    layer: intermediate
    references: []          # nothing reads it either`,

		GoodExample: `models:
  - name: int_patients_scored
    layer: intermediate
    references: [stg_cms_hcc__patient_risk_factors]`,

		Fix: "Wire the model into the graph, or delete it if it is dead.",
	})
}

// checkOrphanModels flags fully disconnected models. Source tables are
// exempt (an unreferenced source is a legal entry point).
func checkOrphanModels(ctx *lint.Context) []lint.Violation {
	opts := orphanOptions{IncludeMarts: true}
	if err := ctx.DecodeOptions("MG02", &opts); err != nil {
		opts = orphanOptions{IncludeMarts: true}
	}

	var violations []lint.Violation
	for _, name := range ctx.Graph().Orphans() {
		m, ok := ctx.Model(name)
		if !ok {
			continue // source table, never flagged
		}
		if m.Layer.IsMart() && !opts.IncludeMarts {
			continue
		}
		violations = append(violations, lint.Violation{
			RuleID:   "MG02",
			Severity: core.SeverityWarning,
			Model:    name,
			Message: fmt.Sprintf("model '%s' is disconnected: nothing references it and it references nothing",
				name),
		})
	}
	return violations
}
