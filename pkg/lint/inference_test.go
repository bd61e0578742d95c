package lint

import (
	"testing"

	"github.com/ryandataengineergit/martlint/pkg/core"
	"github.com/stretchr/testify/assert"
)

func TestInferLayer(t *testing.T) {
	tests := []struct {
		name     string
		model    string
		filePath string
		explicit string
		want     core.Layer
	}{
		{
			name:     "explicit wins over path and prefix",
			model:    "stg_shop__orders",
			filePath: "models/marts/stg_shop__orders.yml",
			explicit: "utility",
			want:     core.LayerUtility,
		},
		{
			name:     "invalid explicit falls through to path",
			model:    "orders",
			filePath: "models/staging/orders.yml",
			explicit: "warehouse",
			want:     core.LayerStaging,
		},
		{
			name:     "staging directory",
			model:    "orders",
			filePath: "models/staging/shop/orders.yml",
			want:     core.LayerStaging,
		},
		{
			name:     "intermediate directory",
			model:    "orders_joined",
			filePath: "models/intermediate/orders_joined.yml",
			want:     core.LayerIntermediate,
		},
		{
			name:     "marts directory defaults to dimension",
			model:    "patients",
			filePath: "models/marts/patients.yml",
			want:     core.LayerMartDim,
		},
		{
			name:     "marts directory with fct_ prefix",
			model:    "fct_visits",
			filePath: "models/marts/fct_visits.yml",
			want:     core.LayerMartFact,
		},
		{
			name:     "utility directory",
			model:    "date_spines",
			filePath: "models/utility/date_spines.yml",
			want:     core.LayerUtility,
		},
		{
			name:  "stg_ prefix without path hint",
			model: "stg_cms_hcc__patient_risk_factors",
			want:  core.LayerStaging,
		},
		{
			name:  "int_ prefix",
			model: "int_patients_enriched",
			want:  core.LayerIntermediate,
		},
		{
			name:  "fct_ prefix",
			model: "fct_visits",
			want:  core.LayerMartFact,
		},
		{
			name:  "dim_ prefix",
			model: "dim_patients",
			want:  core.LayerMartDim,
		},
		{
			name:  "no signal at all",
			model: "mystery",
			want:  core.Layer(""),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := InferLayer(tt.model, tt.filePath, tt.explicit)
			assert.Equal(t, tt.want, got)
		})
	}
}
