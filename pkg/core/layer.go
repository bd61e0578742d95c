package core

import (
	"fmt"
	"strings"
)

// Layer identifies where a model sits in the warehouse pipeline.
type Layer string

// Layer constants.
const (
	LayerSource       Layer = "source"
	LayerStaging      Layer = "staging"
	LayerIntermediate Layer = "intermediate"
	LayerMartDim      Layer = "mart_dim"
	LayerMartFact     Layer = "mart_fact"
	LayerUtility      Layer = "utility"
)

// AllLayers lists every valid layer in pipeline order.
var AllLayers = []Layer{
	LayerSource,
	LayerStaging,
	LayerIntermediate,
	LayerMartDim,
	LayerMartFact,
	LayerUtility,
}

// String returns the layer name.
func (l Layer) String() string { return string(l) }

// IsMart reports whether the layer is a mart layer (fact or dimension).
func (l Layer) IsMart() bool {
	return l == LayerMartDim || l == LayerMartFact
}

// IsModel reports whether the layer holds transformation models,
// as opposed to raw source declarations.
func (l Layer) IsModel() bool {
	return l != LayerSource && l != ""
}

// ParseLayer converts a string to a Layer.
// Accepts "mart" prefixed aliases used in declaration files
// ("marts_dim" etc. are not accepted; the canonical names are).
func ParseLayer(s string) (Layer, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "source":
		return LayerSource, nil
	case "staging":
		return LayerStaging, nil
	case "intermediate":
		return LayerIntermediate, nil
	case "mart_dim", "dim":
		return LayerMartDim, nil
	case "mart_fact", "fct", "fact":
		return LayerMartFact, nil
	case "utility":
		return LayerUtility, nil
	default:
		return "", fmt.Errorf("unknown layer %q", s)
	}
}

// AllowedReferenceLayers returns the set of layers a model in this
// layer may reference. Utility models return nil, meaning no
// restriction (policy-controlled by the caller).
func (l Layer) AllowedReferenceLayers() []Layer {
	switch l {
	case LayerStaging:
		return []Layer{LayerSource}
	case LayerIntermediate:
		return []Layer{LayerStaging, LayerIntermediate}
	case LayerMartDim, LayerMartFact:
		return []Layer{LayerIntermediate, LayerMartDim, LayerMartFact}
	default:
		return nil
	}
}

// MayReference reports whether a model in layer l may reference a
// model or source in layer target. Layers without restrictions
// (utility, source) allow everything.
func (l Layer) MayReference(target Layer) bool {
	allowed := l.AllowedReferenceLayers()
	if allowed == nil {
		return true
	}
	for _, a := range allowed {
		if a == target {
			return true
		}
	}
	return false
}
