package modeling

import (
	"fmt"

	"github.com/ryandataengineergit/martlint/pkg/core"
	"github.com/ryandataengineergit/martlint/pkg/lint"
)

func init() {
	lint.Register(lint.RuleDef{
		ID:          "MM03",
		Name:        "upstream-materialization",
		Group:       "modeling",
		Description: "Staging/intermediate model is not a view, or utility model uses an exotic materialization",
		Severity:    core.SeverityError,
		CheckModel:  checkUpstreamMaterialization,

		Rationale: `Staging and intermediate models are plumbing, not endpoints. Keeping them as views avoids paying storage
and refresh cost for layers nobody queries directly, and guarantees they always reflect current source
data. Utility models may be views or tables.`,

		BadExample: `models:
  - name: stg_cms_hcc__patient_risk_factors
    layer: staging
    materialized: table`,

		GoodExample: `models:
  - name: stg_cms_hcc__patient_risk_factors
    layer: staging
    materialized: view`,

		Fix: "Set materialized: view on staging and intermediate models.",
	})
}

// checkUpstreamMaterialization requires view materialization for
// staging and intermediate models, and view-or-table for utility.
func checkUpstreamMaterialization(_ *lint.Context, m *core.ModelDescriptor) []lint.Violation {
	switch m.Layer {
	case core.LayerStaging, core.LayerIntermediate:
		if m.Materialized == core.MaterializationView {
			return nil
		}
		return []lint.Violation{{
			RuleID:   "MM03",
			Severity: core.SeverityError,
			Model:    m.Name,
			Message: fmt.Sprintf("%s model '%s' is materialized as '%s'; %s models must be materialized as view",
				m.Layer, m.Name, m.Materialized, m.Layer),
		}}
	case core.LayerUtility:
		if m.Materialized == core.MaterializationView || m.Materialized == core.MaterializationTable {
			return nil
		}
		return []lint.Violation{{
			RuleID:   "MM03",
			Severity: core.SeverityError,
			Model:    m.Name,
			Message: fmt.Sprintf("utility model '%s' is materialized as '%s'; utility models must be view or table",
				m.Name, m.Materialized),
		}}
	}
	return nil
}
