package loader

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ryandataengineergit/martlint/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validDecl = `
sources:
  - name: cms_hcc_source
    schema: raw
    tables:
      - patient_risk_factors

models:
  - name: stg_cms_hcc__patient_risk_factors
    materialized: view
    primary_key: patient_risk_factor_id
    references:
      - cms_hcc_source.patient_risk_factors
    columns:
      - name: patient_risk_factor_id
        type: string
        tests: [unique, not_null]
      - name: is_chronic
        type: boolean
      - name: recorded_at
        type: timestamp
`

func TestParseFile_Valid(t *testing.T) {
	models, sources, err := ParseFile("models/staging/patient_risk_factors.yml", []byte(validDecl))
	require.NoError(t, err)

	require.Len(t, sources, 1)
	assert.Equal(t, "cms_hcc_source", sources[0].Name)
	assert.Equal(t, []string{"patient_risk_factors"}, sources[0].Tables)

	require.Len(t, models, 1)
	m := models[0]
	assert.Equal(t, "stg_cms_hcc__patient_risk_factors", m.Name)
	assert.Equal(t, core.LayerStaging, m.Layer)
	assert.Equal(t, core.MaterializationView, m.Materialized)
	assert.Equal(t, "patient_risk_factor_id", m.PrimaryKey)
	require.Len(t, m.Columns, 3)

	col, ok := m.Column("patient_risk_factor_id")
	require.True(t, ok)
	assert.True(t, col.HasTest(core.TestUnique))
	assert.True(t, col.HasTest(core.TestNotNull))
}

func TestParseFile_LayerInference(t *testing.T) {
	decl := `
models:
  - name: patients_cleaned
    layer: intermediate
`
	models, _, err := ParseFile("models/whatever.yml", []byte(decl))
	require.NoError(t, err)
	require.Len(t, models, 1)
	assert.Equal(t, core.LayerIntermediate, models[0].Layer)
}

func TestParseFile_DirectoryInference(t *testing.T) {
	decl := `
models:
  - name: fct_visits
`
	models, _, err := ParseFile("models/marts/fct_visits.yml", []byte(decl))
	require.NoError(t, err)
	assert.Equal(t, core.LayerMartFact, models[0].Layer)
}

func TestParseFile_DefaultsToView(t *testing.T) {
	decl := `
models:
  - name: stg_shop__orders
`
	models, _, err := ParseFile("f.yml", []byte(decl))
	require.NoError(t, err)
	assert.Equal(t, core.MaterializationView, models[0].Materialized)
}

func TestParseFile_UnknownTopLevelField(t *testing.T) {
	decl := `
modells:
  - name: x
`
	_, _, err := ParseFile("f.yml", []byte(decl))
	var unknown *UnknownFieldError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, "modells", unknown.Field)
}

func TestParseFile_UnknownModelField(t *testing.T) {
	decl := `
models:
  - name: stg_shop__orders
    materialised: view
`
	_, _, err := ParseFile("f.yml", []byte(decl))
	var unknown *UnknownFieldError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, "models.materialised", unknown.Field)
}

func TestParseFile_MetaIsOpen(t *testing.T) {
	decl := `
models:
  - name: stg_shop__orders
    meta:
      anything: goes
      nested:
        too: true
`
	models, _, err := ParseFile("f.yml", []byte(decl))
	require.NoError(t, err)
	assert.Equal(t, "goes", models[0].Meta["anything"])
}

func TestParseFile_InvalidMaterialization(t *testing.T) {
	decl := `
models:
  - name: stg_shop__orders
    materialized: materialized_view
`
	_, _, err := ParseFile("f.yml", []byte(decl))
	var parseErr *DeclParseError
	require.True(t, errors.As(err, &parseErr))
	assert.Contains(t, parseErr.Message, "materialized_view")
}

func TestParseFile_InvalidLayer(t *testing.T) {
	decl := `
models:
  - name: stg_shop__orders
    layer: warehouse
`
	_, _, err := ParseFile("f.yml", []byte(decl))
	var parseErr *DeclParseError
	require.True(t, errors.As(err, &parseErr))
}

func TestParseFile_InvalidYAML(t *testing.T) {
	_, _, err := ParseFile("f.yml", []byte("models: [unclosed"))
	var parseErr *DeclParseError
	require.True(t, errors.As(err, &parseErr))
}

func TestParseFile_ColumnTypesLowercased(t *testing.T) {
	decl := `
models:
  - name: stg_shop__orders
    columns:
      - name: order_id
        type: STRING
`
	models, _, err := ParseFile("f.yml", []byte(decl))
	require.NoError(t, err)
	assert.Equal(t, core.ColumnTypeString, models[0].Columns[0].Type)
}

func TestLoad_Directory(t *testing.T) {
	dir := t.TempDir()
	staging := filepath.Join(dir, "staging")
	require.NoError(t, os.MkdirAll(staging, 0o755))

	require.NoError(t, os.WriteFile(filepath.Join(staging, "orders.yml"), []byte(`
models:
  - name: stg_shop__orders
`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sources.yaml"), []byte(`
sources:
  - name: shop
    tables: [orders]
`), 0o644))
	// Non-declaration files are ignored.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("# docs"), 0o644))

	result, err := Load(dir)
	require.NoError(t, err)

	assert.Len(t, result.Files, 2)
	assert.Len(t, result.Models, 1)
	assert.Len(t, result.Sources, 1)
}

func TestLoad_SkipsHiddenDirectories(t *testing.T) {
	dir := t.TempDir()
	hidden := filepath.Join(dir, ".cache")
	require.NoError(t, os.MkdirAll(hidden, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(hidden, "stale.yml"), []byte(`
models:
  - name: stg_old__things
`), 0o644))

	result, err := Load(dir)
	require.NoError(t, err)
	assert.Empty(t, result.Models)
}

func TestLoad_PropagatesParseErrors(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.yml"), []byte(`
models:
  - name: x
    surprise: field
`), 0o644))

	_, err := Load(dir)
	var unknown *UnknownFieldError
	require.True(t, errors.As(err, &unknown))
}
