// Package graph registers whole-graph rules (MG*): cycle detection
// and orphan analysis.
package graph

import (
	"fmt"
	"strings"

	"github.com/ryandataengineergit/martlint/pkg/core"
	"github.com/ryandataengineergit/martlint/pkg/lint"
)

func init() {
	lint.Register(lint.RuleDef{
		ID:          "MG01",
		Name:        "reference-cycle",
		Group:       "graph",
		Description: "Models form a reference cycle",
		Severity:    core.SeverityError,
		CheckGraph:  checkReferenceCycles,

		Rationale: `The reference graph must be a DAG: a cycle means no build order exists and the models involved can
never be materialized. Each cycle is reported with its full path so the offending edge is findable
without re-running.`,

		BadExample: `models:
  - name: int_orders_enriched
    references: [int_orders_ranked]
  - name: int_orders_ranked
    references: [int_orders_enriched]`,

		GoodExample: `models:
  - name: int_orders_enriched
    references: [stg_shop__orders]
  - name: int_orders_ranked
    references: [int_orders_enriched]`,

		Fix: "Break the cycle: move the shared logic into a model upstream of both participants.",
	})
}

// checkReferenceCycles reports one violation per cycle, carrying the
// full ordered path. Cycles made only reachable through utility models
// are still reported unless the policy turns utility cycle checks off.
func checkReferenceCycles(ctx *lint.Context) []lint.Violation {
	var violations []lint.Violation
	for _, cycle := range ctx.Graph().Cycles() {
		if !ctx.Policy().CycleChecks && containsUtility(ctx, cycle) {
			continue
		}
		violations = append(violations, lint.Violation{
			RuleID:   "MG01",
			Severity: core.SeverityError,
			Model:    cycle[0],
			Message: fmt.Sprintf("reference cycle: %s -> %s",
				strings.Join(cycle, " -> "), cycle[0]),
		})
	}
	return violations
}

func containsUtility(ctx *lint.Context, cycle []string) bool {
	for _, name := range cycle {
		if l, ok := ctx.LayerOf(name); ok && l == core.LayerUtility {
			return true
		}
	}
	return false
}
