package core

import "sort"

// Materialization constants for models.
const (
	MaterializationView        = "view"
	MaterializationTable       = "table"
	MaterializationIncremental = "incremental"
	MaterializationEphemeral   = "ephemeral"
)

// ValidMaterialization reports whether s is a known materialization.
func ValidMaterialization(s string) bool {
	switch s {
	case MaterializationView, MaterializationTable,
		MaterializationIncremental, MaterializationEphemeral:
		return true
	}
	return false
}

// Column type names used in declaration files.
const (
	ColumnTypeString    = "string"
	ColumnTypeBoolean   = "boolean"
	ColumnTypeTimestamp = "timestamp"
	ColumnTypeDate      = "date"
	ColumnTypeNumber    = "number"
)

// Test kinds applied to columns.
const (
	TestUnique         = "unique"
	TestNotNull        = "not_null"
	TestRelationships  = "relationships"
	TestAcceptedValues = "accepted_values"
)

// ColumnSpec describes a declared column of a model.
type ColumnSpec struct {
	// Name is the column name.
	Name string
	// Type is the declared logical type (string, boolean, timestamp, date, number).
	Type string
	// Tests are the test kinds declared on this column.
	Tests []string
	// Timezone is set for timestamp columns; empty means UTC.
	Timezone string
	// Description is a human-readable description.
	Description string
}

// HasTest reports whether the column declares the given test kind.
func (c ColumnSpec) HasTest(kind string) bool {
	for _, t := range c.Tests {
		if t == kind {
			return true
		}
	}
	return false
}

// ModelDescriptor describes one warehouse model. Descriptors are
// immutable once loaded; the lint pipeline never writes back into them.
type ModelDescriptor struct {
	// Name is the model name, unique across the registry.
	Name string
	// Layer is the pipeline layer this model belongs to.
	Layer Layer
	// FilePath is the declaration file this model came from, if any.
	FilePath string
	// Materialized defines how the model is stored: view, table, incremental, ephemeral.
	Materialized string
	// PrimaryKey is the primary key column name; required for all model layers.
	PrimaryKey string
	// References are the models or source tables this model selects from.
	References []string
	// Columns are the declared columns.
	Columns []ColumnSpec
	// Owner is the team/person responsible for this model.
	Owner string
	// Description is a human-readable description.
	Description string
	// Tags are metadata labels for filtering/organizing models.
	Tags []string
	// Meta contains custom extension fields.
	Meta map[string]any
}

// Column returns the column spec with the given name.
func (m *ModelDescriptor) Column(name string) (ColumnSpec, bool) {
	for _, c := range m.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return ColumnSpec{}, false
}

// SortedReferences returns the references sorted and de-duplicated.
func (m *ModelDescriptor) SortedReferences() []string {
	seen := make(map[string]bool, len(m.References))
	out := make([]string, 0, len(m.References))
	for _, r := range m.References {
		if !seen[r] {
			seen[r] = true
			out = append(out, r)
		}
	}
	sort.Strings(out)
	return out
}
