package quality

import (
	"fmt"

	"github.com/ryandataengineergit/martlint/pkg/core"
	"github.com/ryandataengineergit/martlint/pkg/lint"
)

func init() {
	lint.Register(lint.RuleDef{
		ID:          "MQ02",
		Name:        "primary-key-tests",
		Group:       "quality",
		Description: "Primary key column lacks unique and not_null tests",
		Severity:    core.SeverityError,
		CheckModel:  checkPrimaryKeyTests,

		Rationale: `A declared key that is never tested is a claim, not a guarantee. The unique and not_null pair is the
minimum evidence that the model's grain actually holds.`,

		BadExample: `models:
  - name: dim_patients
    primary_key: patient_id
    columns:
      - name: patient_id
        type: string`,

		GoodExample: `models:
  - name: dim_patients
    primary_key: patient_id
    columns:
      - name: patient_id
        type: string
        tests: [unique, not_null]`,

		Fix: "Add unique and not_null tests to the primary key column.",
	})
}

// checkPrimaryKeyTests requires the key column to carry at least
// {unique, not_null}. Models without a key are MQ01's concern.
func checkPrimaryKeyTests(_ *lint.Context, m *core.ModelDescriptor) []lint.Violation {
	if m.PrimaryKey == "" {
		return nil
	}

	col, ok := m.Column(m.PrimaryKey)
	if !ok {
		return []lint.Violation{{
			RuleID:   "MQ02",
			Severity: core.SeverityError,
			Model:    m.Name,
			Message: fmt.Sprintf("model '%s' declares primary key '%s' but no matching column",
				m.Name, m.PrimaryKey),
		}}
	}

	var missing []string
	if !col.HasTest(core.TestUnique) {
		missing = append(missing, core.TestUnique)
	}
	if !col.HasTest(core.TestNotNull) {
		missing = append(missing, core.TestNotNull)
	}
	if len(missing) == 0 {
		return nil
	}
	return []lint.Violation{{
		RuleID:   "MQ02",
		Severity: core.SeverityError,
		Model:    m.Name,
		Message: fmt.Sprintf("primary key '%s' on model '%s' is missing tests: %v",
			m.PrimaryKey, m.Name, missing),
	}}
}
