package structure

import (
	"fmt"
	"strings"

	"github.com/ryandataengineergit/martlint/pkg/core"
	"github.com/ryandataengineergit/martlint/pkg/lint"
)

func init() {
	lint.Register(lint.RuleDef{
		ID:          "MS02",
		Name:        "boolean-column-naming",
		Group:       "structure",
		Description: "Boolean column name lacks an is_ or has_ prefix",
		Severity:    core.SeverityError,
		CheckModel:  checkBooleanColumns,

		Rationale: `Boolean columns read naturally in filters and joins when their names assert a condition. An is_ or has_
prefix tells the reader the column is two-valued without checking the schema.`,

		BadExample: `columns:
  - name: active
    type: boolean`,

		GoodExample: `columns:
  - name: is_active
    type: boolean`,

		Fix: "Prefix the column name with is_ or has_.",
	})
}

// checkBooleanColumns flags boolean-typed columns whose names are not
// prefixed is_ or has_.
func checkBooleanColumns(_ *lint.Context, m *core.ModelDescriptor) []lint.Violation {
	var violations []lint.Violation
	for _, c := range m.Columns {
		if c.Type != core.ColumnTypeBoolean {
			continue
		}
		if strings.HasPrefix(c.Name, "is_") || strings.HasPrefix(c.Name, "has_") {
			continue
		}
		violations = append(violations, lint.Violation{
			RuleID:   "MS02",
			Severity: core.SeverityError,
			Model:    m.Name,
			Message: fmt.Sprintf("boolean column '%s' on model '%s' must be prefixed 'is_' or 'has_'",
				c.Name, m.Name),
		})
	}
	return violations
}
