package lint

import (
	"github.com/go-viper/mapstructure/v2"
	"github.com/ryandataengineergit/martlint/internal/dag"
	"github.com/ryandataengineergit/martlint/pkg/core"
	"github.com/ryandataengineergit/martlint/pkg/registry"
)

// RuleOptions holds rule-specific configuration options.
type RuleOptions map[string]any

// UtilityPolicy controls how utility-layer models participate in
// checks. The convention document leaves this open, so both sides are
// configurable rather than hardcoded.
type UtilityPolicy struct {
	// ExemptLayerChecks exempts utility models from layer-restriction
	// checks (they may reference anything).
	ExemptLayerChecks bool `koanf:"exempt_layer_checks" mapstructure:"exempt_layer_checks"`
	// CycleChecks keeps utility models inside cycle detection.
	CycleChecks bool `koanf:"cycle_checks" mapstructure:"cycle_checks"`
}

// DefaultUtilityPolicy returns the default policy: exempt from layer
// restrictions, still subject to cycle detection.
func DefaultUtilityPolicy() UtilityPolicy {
	return UtilityPolicy{ExemptLayerChecks: true, CycleChecks: true}
}

// Context provides all data rules need for one validation run:
// the immutable registry, the reference graph built from it, and
// per-rule options. Rules read it concurrently and never mutate it.
type Context struct {
	reg     *registry.Registry
	graph   *dag.Graph
	policy  UtilityPolicy
	options map[string]RuleOptions
}

// NewContext builds a context for the given registry. The reference
// graph is constructed here: an edge target→model for every reference
// the target is known for. References to undeclared names carry no
// edge; the unknown-reference rule reports them.
func NewContext(reg *registry.Registry, policy UtilityPolicy, options map[string]RuleOptions) *Context {
	g := dag.New()
	for _, name := range reg.SourceTableNames() {
		g.AddNode(name)
	}
	for _, name := range reg.ModelNames() {
		g.AddNode(name)
	}
	for _, m := range reg.Models() {
		for _, ref := range m.SortedReferences() {
			if g.HasNode(ref) {
				// Self-loops are rejected at registry build time.
				_ = g.AddEdge(ref, m.Name)
			}
		}
	}

	if options == nil {
		options = make(map[string]RuleOptions)
	}
	return &Context{reg: reg, graph: g, policy: policy, options: options}
}

// Registry returns the registry under analysis.
func (c *Context) Registry() *registry.Registry { return c.reg }

// Graph returns the reference graph.
func (c *Context) Graph() *dag.Graph { return c.graph }

// Policy returns the utility-layer policy.
func (c *Context) Policy() UtilityPolicy { return c.policy }

// Model returns a model descriptor by name.
func (c *Context) Model(name string) (*core.ModelDescriptor, bool) {
	return c.reg.Model(name)
}

// LayerOf resolves the layer of any registry node.
func (c *Context) LayerOf(name string) (core.Layer, bool) {
	return c.reg.LayerOf(name)
}

// DecodeOptions decodes the configured options for a rule into a typed
// struct via mapstructure. Missing options leave the struct untouched,
// so callers pass it pre-filled with defaults.
func (c *Context) DecodeOptions(ruleID string, out any) error {
	opts, ok := c.options[ruleID]
	if !ok {
		return nil
	}
	return mapstructure.Decode(opts, out)
}
