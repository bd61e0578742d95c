package rules_test

import (
	"encoding/json"
	"testing"

	"github.com/ryandataengineergit/martlint/pkg/core"
	"github.com/ryandataengineergit/martlint/pkg/lint"
	_ "github.com/ryandataengineergit/martlint/pkg/lint/rules"
	"github.com/ryandataengineergit/martlint/pkg/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// keyColumn builds a fully tested string key column.
func keyColumn(name string) core.ColumnSpec {
	return core.ColumnSpec{
		Name:  name,
		Type:  core.ColumnTypeString,
		Tests: []string{core.TestUnique, core.TestNotNull},
	}
}

// conformingPipeline returns a source plus a staging→intermediate→mart
// chain that passes every rule.
func conformingPipeline() ([]*core.ModelDescriptor, []*core.SourceDescriptor) {
	sources := []*core.SourceDescriptor{
		{Name: "cms_hcc_source", Tables: []string{"patient_risk_factors"}},
	}
	models := []*core.ModelDescriptor{
		{
			Name:         "stg_cms_hcc__patient_risk_factors",
			Layer:        core.LayerStaging,
			Materialized: core.MaterializationView,
			PrimaryKey:   "patient_risk_factor_id",
			References:   []string{"cms_hcc_source.patient_risk_factors"},
			Columns:      []core.ColumnSpec{keyColumn("patient_risk_factor_id")},
		},
		{
			Name:         "int_patients_enriched",
			Layer:        core.LayerIntermediate,
			Materialized: core.MaterializationView,
			PrimaryKey:   "patient_id",
			References:   []string{"stg_cms_hcc__patient_risk_factors"},
			Columns:      []core.ColumnSpec{keyColumn("patient_id")},
		},
		{
			Name:         "dim_patients",
			Layer:        core.LayerMartDim,
			Materialized: core.MaterializationTable,
			PrimaryKey:   "patient_id",
			References:   []string{"int_patients_enriched"},
			Columns:      []core.ColumnSpec{keyColumn("patient_id")},
		},
	}
	return models, sources
}

func run(t *testing.T, models []*core.ModelDescriptor, sources []*core.SourceDescriptor) *lint.Report {
	t.Helper()
	return runWith(t, models, sources, lint.DefaultUtilityPolicy(), nil)
}

func runWith(t *testing.T, models []*core.ModelDescriptor, sources []*core.SourceDescriptor,
	policy lint.UtilityPolicy, options map[string]lint.RuleOptions) *lint.Report {
	t.Helper()
	reg, err := registry.Build(models, sources)
	require.NoError(t, err)
	ctx := lint.NewContext(reg, policy, options)
	return lint.NewAnalyzer(nil).Run(ctx)
}

// byRule collects violations per rule ID.
func byRule(report *lint.Report) map[string][]lint.Violation {
	out := make(map[string][]lint.Violation)
	for _, v := range report.Violations {
		out[v.RuleID] = append(out[v.RuleID], v)
	}
	return out
}

func TestConformingPipeline_NoViolations(t *testing.T) {
	models, sources := conformingPipeline()
	report := run(t, models, sources)

	assert.Empty(t, report.Violations)
	assert.True(t, report.Pass)
	assert.Equal(t, 3, report.Models)
}

func TestMartAsView_ExactlyOneViolation(t *testing.T) {
	models, sources := conformingPipeline()
	models[2].Materialized = core.MaterializationView // dim_patients

	report := run(t, models, sources)

	require.Len(t, report.Violations, 1)
	v := report.Violations[0]
	assert.Equal(t, "MM02", v.RuleID)
	assert.Equal(t, "dim_patients", v.Model)
	assert.False(t, report.Pass)
}

func TestIntermediateReferencingStaging_Legal(t *testing.T) {
	models, sources := conformingPipeline()
	report := run(t, models, sources)
	assert.Empty(t, byRule(report)["MM01"])
}

func TestIntermediateReferencingSource_ExactlyOneViolation(t *testing.T) {
	models, sources := conformingPipeline()
	models[1].References = append(models[1].References, "cms_hcc_source.patient_risk_factors")

	report := run(t, models, sources)

	mm01 := byRule(report)["MM01"]
	require.Len(t, mm01, 1)
	assert.Equal(t, "int_patients_enriched", mm01[0].Model)
	assert.Contains(t, mm01[0].Message, "cms_hcc_source.patient_risk_factors")
}

func TestStagingReferencingStaging_Illegal(t *testing.T) {
	models, sources := conformingPipeline()
	models = append(models, &core.ModelDescriptor{
		Name:         "stg_cms_hcc__patient_scores",
		Layer:        core.LayerStaging,
		Materialized: core.MaterializationView,
		PrimaryKey:   "patient_score_id",
		References:   []string{"stg_cms_hcc__patient_risk_factors"},
		Columns:      []core.ColumnSpec{keyColumn("patient_score_id")},
	})

	report := run(t, models, sources)

	mm01 := byRule(report)["MM01"]
	require.Len(t, mm01, 1)
	assert.Equal(t, "stg_cms_hcc__patient_scores", mm01[0].Model)
}

func TestModelNaming(t *testing.T) {
	tests := []struct {
		name  string
		layer core.Layer
		valid bool
	}{
		{"stg_cms_hcc__patient_risk_factors", core.LayerStaging, true},
		{"stg_shop__orders", core.LayerStaging, true},
		{"patients", core.LayerStaging, false},
		{"stg_shop__order", core.LayerStaging, false}, // singular entity
		{"int_patients_enriched", core.LayerIntermediate, true},
		{"int_enrich", core.LayerIntermediate, false},
		{"fct_visits", core.LayerMartFact, true},
		{"dim_patients", core.LayerMartDim, true},
		{"fct_", core.LayerMartFact, false},
		{"date_spines", core.LayerUtility, true},
		{"DateSpines", core.LayerUtility, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &core.ModelDescriptor{
				Name:         tt.name,
				Layer:        tt.layer,
				Materialized: core.MaterializationView,
				PrimaryKey:   "row_id",
				Columns:      []core.ColumnSpec{keyColumn("row_id")},
			}
			if tt.layer.IsMart() {
				m.Materialized = core.MaterializationTable
			}

			report := run(t, []*core.ModelDescriptor{m}, nil)
			ms01 := byRule(report)["MS01"]
			if tt.valid {
				assert.Empty(t, ms01)
			} else {
				require.Len(t, ms01, 1)
				assert.Equal(t, tt.name, ms01[0].Model)
			}
		})
	}
}

func TestBooleanColumnNaming(t *testing.T) {
	models, sources := conformingPipeline()
	models[0].Columns = append(models[0].Columns,
		core.ColumnSpec{Name: "is_active", Type: core.ColumnTypeBoolean},
		core.ColumnSpec{Name: "has_conditions", Type: core.ColumnTypeBoolean},
		core.ColumnSpec{Name: "active", Type: core.ColumnTypeBoolean},
	)

	report := run(t, models, sources)

	ms02 := byRule(report)["MS02"]
	require.Len(t, ms02, 1)
	assert.Contains(t, ms02[0].Message, "'active'")
}

func TestTimeColumnNaming(t *testing.T) {
	tests := []struct {
		column   core.ColumnSpec
		violates bool
	}{
		{core.ColumnSpec{Name: "created_at", Type: core.ColumnTypeTimestamp}, false},
		{core.ColumnSpec{Name: "created_at", Type: core.ColumnTypeTimestamp, Timezone: "UTC"}, false},
		{core.ColumnSpec{Name: "created", Type: core.ColumnTypeTimestamp}, true},
		{core.ColumnSpec{Name: "created_at_pst", Type: core.ColumnTypeTimestamp, Timezone: "PST"}, false},
		{core.ColumnSpec{Name: "created_at", Type: core.ColumnTypeTimestamp, Timezone: "PST"}, true},
		{core.ColumnSpec{Name: "birth_date", Type: core.ColumnTypeDate}, false},
		{core.ColumnSpec{Name: "birth", Type: core.ColumnTypeDate}, true},
		{core.ColumnSpec{Name: "notes", Type: core.ColumnTypeString}, false},
	}

	for _, tt := range tests {
		t.Run(tt.column.Name+"/"+tt.column.Timezone, func(t *testing.T) {
			models, sources := conformingPipeline()
			models[0].Columns = append(models[0].Columns, tt.column)

			report := run(t, models, sources)
			ms03 := byRule(report)["MS03"]
			if tt.violates {
				require.Len(t, ms03, 1)
			} else {
				assert.Empty(t, ms03)
			}
		})
	}
}

func TestUnknownReference(t *testing.T) {
	models, sources := conformingPipeline()
	models[1].References = append(models[1].References, "stg_cms_hcc__patient_riskfactors") // typo

	report := run(t, models, sources)

	mm04 := byRule(report)["MM04"]
	require.Len(t, mm04, 1)
	assert.Equal(t, "int_patients_enriched", mm04[0].Model)
	// The unknown name must not also trip layer checks.
	assert.Empty(t, byRule(report)["MM01"])
}

func TestUpstreamMaterialization(t *testing.T) {
	models, sources := conformingPipeline()
	models[0].Materialized = core.MaterializationTable       // staging as table
	models[1].Materialized = core.MaterializationIncremental // intermediate as incremental

	report := run(t, models, sources)

	mm03 := byRule(report)["MM03"]
	require.Len(t, mm03, 2)
}

func TestUtilityMaterialization(t *testing.T) {
	util := &core.ModelDescriptor{
		Name:         "date_spines",
		Layer:        core.LayerUtility,
		Materialized: core.MaterializationTable,
		PrimaryKey:   "date_spine_id",
		Columns:      []core.ColumnSpec{keyColumn("date_spine_id")},
	}

	report := run(t, []*core.ModelDescriptor{util}, nil)
	assert.Empty(t, byRule(report)["MM03"])

	util.Materialized = core.MaterializationEphemeral
	report = run(t, []*core.ModelDescriptor{util}, nil)
	require.Len(t, byRule(report)["MM03"], 1)
}

func TestPrimaryKeyRules(t *testing.T) {
	t.Run("missing key", func(t *testing.T) {
		models, sources := conformingPipeline()
		models[2].PrimaryKey = ""

		report := run(t, models, sources)
		mq01 := byRule(report)["MQ01"]
		require.Len(t, mq01, 1)
		assert.Equal(t, "dim_patients", mq01[0].Model)
		// No key means nothing for the test/shape rules to check.
		assert.Empty(t, byRule(report)["MQ02"])
		assert.Empty(t, byRule(report)["MQ03"])
	})

	t.Run("key without tests", func(t *testing.T) {
		models, sources := conformingPipeline()
		models[2].Columns = []core.ColumnSpec{{Name: "patient_id", Type: core.ColumnTypeString}}

		report := run(t, models, sources)
		mq02 := byRule(report)["MQ02"]
		require.Len(t, mq02, 1)
		assert.Contains(t, mq02[0].Message, "unique")
		assert.Contains(t, mq02[0].Message, "not_null")
	})

	t.Run("key without matching column", func(t *testing.T) {
		models, sources := conformingPipeline()
		models[2].Columns = nil

		report := run(t, models, sources)
		require.Len(t, byRule(report)["MQ02"], 1)
	})

	t.Run("numeric key named id", func(t *testing.T) {
		models, sources := conformingPipeline()
		models[2].PrimaryKey = "id"
		models[2].Columns = []core.ColumnSpec{{
			Name:  "id",
			Type:  core.ColumnTypeNumber,
			Tests: []string{core.TestUnique, core.TestNotNull},
		}}

		report := run(t, models, sources)
		// Two shape problems: name lacks _id suffix, type is not string.
		require.Len(t, byRule(report)["MQ03"], 2)
	})
}

func TestReferenceCycle_FullPath(t *testing.T) {
	models := []*core.ModelDescriptor{
		{
			Name: "int_orders_enriched", Layer: core.LayerIntermediate,
			Materialized: core.MaterializationView,
			PrimaryKey:   "order_id", Columns: []core.ColumnSpec{keyColumn("order_id")},
			References: []string{"int_orders_ranked"},
		},
		{
			Name: "int_orders_ranked", Layer: core.LayerIntermediate,
			Materialized: core.MaterializationView,
			PrimaryKey:   "order_id", Columns: []core.ColumnSpec{keyColumn("order_id")},
			References: []string{"int_orders_scored"},
		},
		{
			Name: "int_orders_scored", Layer: core.LayerIntermediate,
			Materialized: core.MaterializationView,
			PrimaryKey:   "order_id", Columns: []core.ColumnSpec{keyColumn("order_id")},
			References: []string{"int_orders_enriched"},
		},
	}

	report := run(t, models, nil)

	mg01 := byRule(report)["MG01"]
	require.Len(t, mg01, 1)
	assert.Equal(t,
		"reference cycle: int_orders_enriched -> int_orders_ranked -> int_orders_scored -> int_orders_enriched",
		mg01[0].Message)
	assert.False(t, report.Pass)
}

func TestOrphanModel_Warning(t *testing.T) {
	models, sources := conformingPipeline()
	models = append(models, &core.ModelDescriptor{
		Name:         "int_patients_scored",
		Layer:        core.LayerIntermediate,
		Materialized: core.MaterializationView,
		PrimaryKey:   "patient_id",
		Columns:      []core.ColumnSpec{keyColumn("patient_id")},
	})

	report := run(t, models, sources)

	mg02 := byRule(report)["MG02"]
	require.Len(t, mg02, 1)
	assert.Equal(t, "int_patients_scored", mg02[0].Model)
	assert.Equal(t, core.SeverityWarning, mg02[0].Severity)
	// A warning alone never fails the run.
	assert.True(t, report.Pass)
}

func TestOrphanModel_UnreferencedSourceNotFlagged(t *testing.T) {
	models, sources := conformingPipeline()
	sources = append(sources, &core.SourceDescriptor{Name: "billing", Tables: []string{"invoices"}})

	report := run(t, models, sources)
	assert.Empty(t, byRule(report)["MG02"])
}

func TestOrphanModel_ExcludeMartsOption(t *testing.T) {
	mart := &core.ModelDescriptor{
		Name:         "dim_regions",
		Layer:        core.LayerMartDim,
		Materialized: core.MaterializationTable,
		PrimaryKey:   "region_id",
		Columns:      []core.ColumnSpec{keyColumn("region_id")},
	}

	report := runWith(t, []*core.ModelDescriptor{mart}, nil, lint.DefaultUtilityPolicy(), nil)
	require.Len(t, byRule(report)["MG02"], 1)

	options := map[string]lint.RuleOptions{"MG02": {"include_marts": false}}
	report = runWith(t, []*core.ModelDescriptor{mart}, nil, lint.DefaultUtilityPolicy(), options)
	assert.Empty(t, byRule(report)["MG02"])
}

func TestUtilityPolicy_LayerExemption(t *testing.T) {
	models, sources := conformingPipeline()
	models = append(models, &core.ModelDescriptor{
		Name:         "date_spines",
		Layer:        core.LayerUtility,
		Materialized: core.MaterializationView,
		PrimaryKey:   "date_spine_id",
		Columns:      []core.ColumnSpec{keyColumn("date_spine_id")},
	})
	// An intermediate model leaning on the utility spine.
	models[1].References = append(models[1].References, "date_spines")

	// Default policy: edges into utility models are exempt.
	report := run(t, models, sources)
	assert.Empty(t, byRule(report)["MM01"])

	// Exemption off: utility is not in the intermediate layer's allowed
	// set, so the edge is flagged.
	policy := lint.UtilityPolicy{ExemptLayerChecks: false, CycleChecks: true}
	report = runWith(t, models, sources, policy, nil)
	mm01 := byRule(report)["MM01"]
	require.Len(t, mm01, 1)
	assert.Equal(t, "int_patients_enriched", mm01[0].Model)
}

func TestUtilityPolicy_CycleExemption(t *testing.T) {
	models := []*core.ModelDescriptor{
		{
			Name: "date_spines", Layer: core.LayerUtility,
			Materialized: core.MaterializationView,
			PrimaryKey:   "date_spine_id", Columns: []core.ColumnSpec{keyColumn("date_spine_id")},
			References: []string{"int_dates_expanded"},
		},
		{
			Name: "int_dates_expanded", Layer: core.LayerIntermediate,
			Materialized: core.MaterializationView,
			PrimaryKey:   "date_id", Columns: []core.ColumnSpec{keyColumn("date_id")},
			References: []string{"date_spines"},
		},
	}

	report := run(t, models, nil)
	require.Len(t, byRule(report)["MG01"], 1)

	policy := lint.UtilityPolicy{ExemptLayerChecks: true, CycleChecks: false}
	report = runWith(t, models, nil, policy, nil)
	assert.Empty(t, byRule(report)["MG01"])
}

// Serialized reports for the same input must be byte-identical.
func TestReportIdempotent(t *testing.T) {
	models, sources := conformingPipeline()
	models[2].Materialized = core.MaterializationView

	first, err := json.Marshal(run(t, models, sources))
	require.NoError(t, err)
	second, err := json.Marshal(run(t, models, sources))
	require.NoError(t, err)

	assert.Equal(t, string(first), string(second))
}
