package lint

import (
	"strings"

	"github.com/ryandataengineergit/martlint/pkg/core"
)

// InferLayer determines a model's layer using hybrid logic:
//  1. explicit layer declaration (highest priority)
//  2. declaration-file directory segment (staging/, intermediate/, marts/)
//  3. name prefix (stg_, int_, fct_, dim_)
//
// Returns empty layer when nothing matches; the registry treats that
// as a malformed descriptor.
func InferLayer(name, filePath, explicit string) core.Layer {
	if explicit != "" {
		if l, err := core.ParseLayer(explicit); err == nil {
			return l
		}
	}

	pathLower := strings.ToLower(filePath)
	if strings.Contains(pathLower, "/staging/") {
		return core.LayerStaging
	}
	if strings.Contains(pathLower, "/intermediate/") {
		return core.LayerIntermediate
	}
	if strings.Contains(pathLower, "/marts/") {
		// Disambiguate fact vs dimension by prefix inside marts.
		if strings.HasPrefix(strings.ToLower(name), "fct_") {
			return core.LayerMartFact
		}
		return core.LayerMartDim
	}
	if strings.Contains(pathLower, "/utility/") || strings.Contains(pathLower, "/utils/") {
		return core.LayerUtility
	}

	nameLower := strings.ToLower(name)
	switch {
	case strings.HasPrefix(nameLower, "stg_"):
		return core.LayerStaging
	case strings.HasPrefix(nameLower, "int_"):
		return core.LayerIntermediate
	case strings.HasPrefix(nameLower, "fct_"):
		return core.LayerMartFact
	case strings.HasPrefix(nameLower, "dim_"):
		return core.LayerMartDim
	}

	return ""
}
