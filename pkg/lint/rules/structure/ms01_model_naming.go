// Package structure registers naming-convention rules (MS*).
package structure

import (
	"fmt"
	"regexp"

	"github.com/ryandataengineergit/martlint/pkg/core"
	"github.com/ryandataengineergit/martlint/pkg/lint"
)

// Name patterns per layer. Utility models are free-form snake_case,
// plural.
var (
	stagingName      = regexp.MustCompile(`^stg_[a-z][a-z0-9_]*__[a-z][a-z0-9_]*s$`)
	intermediateName = regexp.MustCompile(`^int_[a-z][a-z0-9_]*s_[a-z][a-z0-9_]*$`)
	factName         = regexp.MustCompile(`^fct_[a-z][a-z0-9_]*$`)
	dimName          = regexp.MustCompile(`^dim_[a-z][a-z0-9_]*$`)
	utilityName      = regexp.MustCompile(`^[a-z][a-z0-9_]*s$`)
)

func init() {
	lint.Register(lint.RuleDef{
		ID:          "MS01",
		Name:        "model-naming",
		Group:       "structure",
		Description: "Model name does not match its layer's naming pattern",
		Severity:    core.SeverityError,
		CheckModel:  checkModelNaming,

		Rationale: `Consistent naming makes model layers identifiable at a glance: staging models are stg_[source]__[entity]s,
intermediate models are int_[entity]s_[verb], facts are fct_[verb], dimensions are dim_[noun], and utility
models are plural snake_case. A name that breaks the pattern hides which layer a model belongs to.`,

		BadExample: `models:
  - name: patients            # staging model without stg_[source]__ prefix
    layer: staging`,

		GoodExample: `models:
  - name: stg_cms_hcc__patient_risk_factors
    layer: staging`,

		Fix: "Rename the model to match its layer's pattern.",
	})
}

// checkModelNaming emits exactly one naming violation for a model
// whose name does not match the pattern required by its layer.
func checkModelNaming(_ *lint.Context, m *core.ModelDescriptor) []lint.Violation {
	var pattern *regexp.Regexp
	var expected string

	switch m.Layer {
	case core.LayerStaging:
		pattern, expected = stagingName, "stg_[source]__[entity]s"
	case core.LayerIntermediate:
		pattern, expected = intermediateName, "int_[entity]s_[verb]"
	case core.LayerMartFact:
		pattern, expected = factName, "fct_[verb]"
	case core.LayerMartDim:
		pattern, expected = dimName, "dim_[noun]"
	case core.LayerUtility:
		pattern, expected = utilityName, "snake_case plural"
	default:
		return nil
	}

	if pattern.MatchString(m.Name) {
		return nil
	}
	return []lint.Violation{{
		RuleID:   "MS01",
		Severity: core.SeverityError,
		Model:    m.Name,
		Message: fmt.Sprintf("%s model '%s' does not match the '%s' naming pattern",
			m.Layer, m.Name, expected),
	}}
}
