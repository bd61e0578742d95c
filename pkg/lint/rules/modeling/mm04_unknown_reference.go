package modeling

import (
	"fmt"

	"github.com/ryandataengineergit/martlint/pkg/core"
	"github.com/ryandataengineergit/martlint/pkg/lint"
)

func init() {
	lint.Register(lint.RuleDef{
		ID:          "MM04",
		Name:        "unknown-reference",
		Group:       "modeling",
		Description: "Model references a name that is neither a model nor a declared source table",
		Severity:    core.SeverityError,
		CheckModel:  checkUnknownReferences,

		Rationale: `A reference the registry cannot resolve is either a typo or a table that bypassed source declaration.
Both hide lineage: the graph cannot place the edge, so layer checks and impact analysis silently miss it.`,

		BadExample: `models:
  - name: stg_cms_hcc__patient_risk_factors
    references: [cms_hc_source.patient_risk_factors]   # typo, source is cms_hcc_source`,

		GoodExample: `sources:
  - name: cms_hcc_source
    tables: [patient_risk_factors]
models:
  - name: stg_cms_hcc__patient_risk_factors
    references: [cms_hcc_source.patient_risk_factors]`,

		Fix: "Declare the source table or fix the reference name.",
	})
}

// checkUnknownReferences flags references that resolve to nothing in
// the registry.
func checkUnknownReferences(ctx *lint.Context, m *core.ModelDescriptor) []lint.Violation {
	var violations []lint.Violation
	for _, ref := range m.SortedReferences() {
		if _, ok := ctx.LayerOf(ref); ok {
			continue
		}
		violations = append(violations, lint.Violation{
			RuleID:   "MM04",
			Severity: core.SeverityError,
			Model:    m.Name,
			Message: fmt.Sprintf("model '%s' references '%s', which is neither a model nor a declared source table",
				m.Name, ref),
		})
	}
	return violations
}
