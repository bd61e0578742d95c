// Package modeling registers layering and materialization rules (MM*).
package modeling

import (
	"fmt"

	"github.com/ryandataengineergit/martlint/pkg/core"
	"github.com/ryandataengineergit/martlint/pkg/lint"
)

func init() {
	lint.Register(lint.RuleDef{
		ID:          "MM01",
		Name:        "illegal-layer-reference",
		Group:       "modeling",
		Description: "Model references a layer its own layer may not select from",
		Severity:    core.SeverityError,
		CheckModel:  checkLayerReferences,

		Rationale: `The pipeline flows sources → staging → intermediate → marts. Staging models select only from raw sources;
intermediate models select from staging or other intermediate models; marts select from intermediate or
other mart models. An edge that skips a layer (a mart reading a raw source, staging reading staging)
erodes the boundary between cleaning, transformation, and presentation.`,

		BadExample: `models:
  - name: dim_patients
    layer: mart_dim
    references: [cms_hcc_source.patient_risk_factors]   # mart reading a raw source`,

		GoodExample: `models:
  - name: dim_patients
    layer: mart_dim
    references: [int_patients_enriched]`,

		Fix: "Route the reference through the missing layer: add or reuse a staging/intermediate model in between.",
	})
}

// checkLayerReferences emits one violation per illegal reference edge.
// When the policy exempts utility models, edges touching the utility
// layer on either end are skipped.
func checkLayerReferences(ctx *lint.Context, m *core.ModelDescriptor) []lint.Violation {
	exemptUtility := ctx.Policy().ExemptLayerChecks
	if m.Layer == core.LayerUtility && exemptUtility {
		return nil
	}

	var violations []lint.Violation
	for _, ref := range m.SortedReferences() {
		targetLayer, ok := ctx.LayerOf(ref)
		if !ok {
			continue // MM04 reports unknown references
		}
		if targetLayer == core.LayerUtility && exemptUtility {
			continue
		}
		if m.Layer.MayReference(targetLayer) {
			continue
		}
		violations = append(violations, lint.Violation{
			RuleID:   "MM01",
			Severity: core.SeverityError,
			Model:    m.Name,
			Message: fmt.Sprintf("%s model '%s' references %s '%s'; %s models may only reference %s",
				m.Layer, m.Name, targetLayer, ref, m.Layer, allowedList(m.Layer)),
		})
	}
	return violations
}

func allowedList(l core.Layer) string {
	switch l {
	case core.LayerStaging:
		return "raw sources"
	case core.LayerIntermediate:
		return "staging or intermediate models"
	case core.LayerMartDim, core.LayerMartFact:
		return "intermediate or mart models"
	default:
		return "anything"
	}
}
