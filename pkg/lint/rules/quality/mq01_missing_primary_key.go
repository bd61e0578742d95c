// Package quality registers primary-key and test-coverage rules (MQ*).
package quality

import (
	"fmt"

	"github.com/ryandataengineergit/martlint/pkg/core"
	"github.com/ryandataengineergit/martlint/pkg/lint"
)

func init() {
	lint.Register(lint.RuleDef{
		ID:          "MQ01",
		Name:        "missing-primary-key",
		Group:       "quality",
		Description: "Model declares no primary key",
		Severity:    core.SeverityError,
		CheckModel:  checkMissingPrimaryKey,

		Rationale: `Every transformation model needs a declared grain. Without a primary key there is nothing to test
uniqueness against, and downstream joins have no stable handle on the model's rows.`,

		BadExample: `models:
  - name: dim_patients
    layer: mart_dim`,

		GoodExample: `models:
  - name: dim_patients
    layer: mart_dim
    primary_key: patient_id`,

		Fix: "Declare primary_key on the model.",
	})
}

// checkMissingPrimaryKey requires a non-empty primary key on every
// model layer (raw source declarations are not models and are exempt).
func checkMissingPrimaryKey(_ *lint.Context, m *core.ModelDescriptor) []lint.Violation {
	if m.PrimaryKey != "" {
		return nil
	}
	return []lint.Violation{{
		RuleID:   "MQ01",
		Severity: core.SeverityError,
		Model:    m.Name,
		Message:  fmt.Sprintf("model '%s' declares no primary key", m.Name),
	}}
}
