package modeling

import (
	"fmt"

	"github.com/ryandataengineergit/martlint/pkg/core"
	"github.com/ryandataengineergit/martlint/pkg/lint"
)

func init() {
	lint.Register(lint.RuleDef{
		ID:          "MM02",
		Name:        "mart-materialization",
		Group:       "modeling",
		Description: "Mart model is not materialized as a table",
		Severity:    core.SeverityError,
		CheckModel:  checkMartMaterialization,

		Rationale: `Marts are the business-facing terminal layer and get queried directly; materializing them as tables keeps
those queries fast and their cost predictable instead of re-running the upstream transformation on every read.`,

		BadExample: `models:
  - name: dim_patients
    layer: mart_dim
    materialized: view`,

		GoodExample: `models:
  - name: dim_patients
    layer: mart_dim
    materialized: table`,

		Fix: "Set materialized: table on the mart model.",
	})
}

// checkMartMaterialization requires table materialization for marts.
func checkMartMaterialization(_ *lint.Context, m *core.ModelDescriptor) []lint.Violation {
	if !m.Layer.IsMart() || m.Materialized == core.MaterializationTable {
		return nil
	}
	return []lint.Violation{{
		RuleID:   "MM02",
		Severity: core.SeverityError,
		Model:    m.Name,
		Message: fmt.Sprintf("mart model '%s' is materialized as '%s'; marts must be materialized as table",
			m.Name, m.Materialized),
	}}
}
