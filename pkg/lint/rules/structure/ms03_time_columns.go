package structure

import (
	"fmt"
	"strings"

	"github.com/ryandataengineergit/martlint/pkg/core"
	"github.com/ryandataengineergit/martlint/pkg/lint"
)

func init() {
	lint.Register(lint.RuleDef{
		ID:          "MS03",
		Name:        "time-column-naming",
		Group:       "structure",
		Description: "Timestamp or date column name breaks the _at/_date convention",
		Severity:    core.SeverityError,
		CheckModel:  checkTimeColumns,

		Rationale: `Timestamps are named <event>_at and dates <event>_date so the grain of a column is visible in its name.
Timestamps are assumed UTC; a non-UTC timestamp must carry its timezone as a suffix (created_at_pst) so
downstream consumers do not silently mix zones.`,

		BadExample: `columns:
  - name: created
    type: timestamp
  - name: birth
    type: date`,

		GoodExample: `columns:
  - name: created_at
    type: timestamp
  - name: birth_date
    type: date`,

		Fix: "Rename timestamp columns to <event>_at (plus a timezone suffix when not UTC) and date columns to <event>_date.",
	})
}

// checkTimeColumns enforces the naming convention for timestamp and
// date columns.
func checkTimeColumns(_ *lint.Context, m *core.ModelDescriptor) []lint.Violation {
	var violations []lint.Violation
	for _, c := range m.Columns {
		switch c.Type {
		case core.ColumnTypeTimestamp:
			if msg := timestampNameIssue(c); msg != "" {
				violations = append(violations, lint.Violation{
					RuleID:   "MS03",
					Severity: core.SeverityError,
					Model:    m.Name,
					Message:  fmt.Sprintf("timestamp column '%s' on model '%s' %s", c.Name, m.Name, msg),
				})
			}
		case core.ColumnTypeDate:
			if !strings.HasSuffix(c.Name, "_date") {
				violations = append(violations, lint.Violation{
					RuleID:   "MS03",
					Severity: core.SeverityError,
					Model:    m.Name,
					Message:  fmt.Sprintf("date column '%s' on model '%s' must be named '<event>_date'", c.Name, m.Name),
				})
			}
		}
	}
	return violations
}

// timestampNameIssue returns a description of the naming problem, or
// empty when the column conforms. UTC timestamps end in _at; non-UTC
// timestamps end in _at_<tz>.
func timestampNameIssue(c core.ColumnSpec) string {
	tz := strings.ToLower(c.Timezone)
	if tz == "" || tz == "utc" {
		if !strings.HasSuffix(c.Name, "_at") {
			return "must be named '<event>_at'"
		}
		return ""
	}
	want := "_at_" + tz
	if !strings.HasSuffix(c.Name, want) {
		return fmt.Sprintf("is declared in timezone %s and must carry the '%s' suffix", c.Timezone, want)
	}
	return ""
}
