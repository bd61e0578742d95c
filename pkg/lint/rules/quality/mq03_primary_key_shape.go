package quality

import (
	"fmt"
	"strings"

	"github.com/ryandataengineergit/martlint/pkg/core"
	"github.com/ryandataengineergit/martlint/pkg/lint"
)

func init() {
	lint.Register(lint.RuleDef{
		ID:          "MQ03",
		Name:        "primary-key-shape",
		Group:       "quality",
		Description: "Primary key column is not a string named <object>_id",
		Severity:    core.SeverityError,
		CheckModel:  checkPrimaryKeyShape,

		Rationale: `Keys are opaque handles, not numbers: string typing survives warehouse migrations, zero-padded
identifiers, and composite surrogate keys. The <object>_id name makes join columns self-describing.`,

		BadExample: `columns:
  - name: id
    type: number`,

		GoodExample: `columns:
  - name: patient_id
    type: string`,

		Fix: "Rename the key column to <object>_id and declare it as string.",
	})
}

// checkPrimaryKeyShape requires the key column to be string-typed and
// named <object>_id.
func checkPrimaryKeyShape(_ *lint.Context, m *core.ModelDescriptor) []lint.Violation {
	if m.PrimaryKey == "" {
		return nil
	}

	var violations []lint.Violation
	if !strings.HasSuffix(m.PrimaryKey, "_id") {
		violations = append(violations, lint.Violation{
			RuleID:   "MQ03",
			Severity: core.SeverityError,
			Model:    m.Name,
			Message: fmt.Sprintf("primary key '%s' on model '%s' must be named '<object>_id'",
				m.PrimaryKey, m.Name),
		})
	}
	if col, ok := m.Column(m.PrimaryKey); ok && col.Type != core.ColumnTypeString {
		violations = append(violations, lint.Violation{
			RuleID:   "MQ03",
			Severity: core.SeverityError,
			Model:    m.Name,
			Message: fmt.Sprintf("primary key '%s' on model '%s' is declared as '%s'; keys must be string-typed",
				m.PrimaryKey, m.Name, col.Type),
		})
	}
	return violations
}
