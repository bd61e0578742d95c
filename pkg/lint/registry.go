package lint

import (
	"sort"
	"sync"

	"github.com/ryandataengineergit/martlint/pkg/core"
)

// globalRegistry is the single global registry for lint rules.
var globalRegistry = &ruleRegistry{
	rules: make(map[string]RuleDef),
}

type ruleRegistry struct {
	mu    sync.RWMutex
	rules map[string]RuleDef // keyed by ID
}

// ModelCheck is a pure per-model check. It must not mutate the
// descriptor or the context; model checks for different descriptors
// run concurrently.
type ModelCheck func(ctx *Context, m *core.ModelDescriptor) []Violation

// GraphCheck analyzes the whole registry/graph. Graph checks run
// sequentially after the model pass.
type GraphCheck func(ctx *Context) []Violation

// RuleDef defines one lint rule. Exactly one of CheckModel and
// CheckGraph is set.
type RuleDef struct {
	ID          string        // Unique identifier, e.g. "MM01"
	Name        string        // Human-readable name, e.g. "illegal-layer-reference"
	Group       string        // Category: "structure", "modeling", "quality", "graph"
	Description string        // Human-readable description
	Severity    core.Severity // Default severity
	CheckModel  ModelCheck
	CheckGraph  GraphCheck
	ConfigKeys  []string // Configuration keys this rule accepts

	// Documentation fields for richer rule documentation
	Rationale   string // Why this rule exists, what problems it prevents
	BadExample  string // Declaration showing the anti-pattern
	GoodExample string // Declaration showing the correct pattern
	Fix         string // How to fix violations (when not obvious)
}

// Type returns "model" or "graph" depending on the check kind.
func (r RuleDef) Type() string {
	if r.CheckGraph != nil {
		return "graph"
	}
	return "model"
}

// Info returns the rule's metadata for documentation/tooling.
func (r RuleDef) Info() core.RuleInfo {
	return core.RuleInfo{
		ID:              r.ID,
		Name:            r.Name,
		Group:           r.Group,
		Description:     r.Description,
		DefaultSeverity: r.Severity,
		ConfigKeys:      r.ConfigKeys,
		Type:            r.Type(),
		Rationale:       r.Rationale,
		BadExample:      r.BadExample,
		GoodExample:     r.GoodExample,
		Fix:             r.Fix,
	}
}

// Register adds a rule to the global registry.
// Call this from init() functions in rule packages.
func Register(rule RuleDef) {
	globalRegistry.mu.Lock()
	defer globalRegistry.mu.Unlock()
	globalRegistry.rules[rule.ID] = rule
}

// GetAll returns all registered rules sorted by ID. The fixed order
// keeps rule execution and report output deterministic.
func GetAll() []RuleDef {
	globalRegistry.mu.RLock()
	defer globalRegistry.mu.RUnlock()

	rules := make([]RuleDef, 0, len(globalRegistry.rules))
	for _, rule := range globalRegistry.rules {
		rules = append(rules, rule)
	}
	sort.Slice(rules, func(i, j int) bool { return rules[i].ID < rules[j].ID })
	return rules
}

// GetByID returns a rule by its ID.
func GetByID(id string) (RuleDef, bool) {
	globalRegistry.mu.RLock()
	defer globalRegistry.mu.RUnlock()
	rule, ok := globalRegistry.rules[id]
	return rule, ok
}

// GetByGroup returns all rules in a specific group, sorted by ID.
func GetByGroup(group string) []RuleDef {
	var rules []RuleDef
	for _, rule := range GetAll() {
		if rule.Group == group {
			rules = append(rules, rule)
		}
	}
	return rules
}

// Count returns the number of registered rules.
func Count() int {
	globalRegistry.mu.RLock()
	defer globalRegistry.mu.RUnlock()
	return len(globalRegistry.rules)
}

// Clear removes all registered rules. Used for testing.
func Clear() {
	globalRegistry.mu.Lock()
	defer globalRegistry.mu.Unlock()
	globalRegistry.rules = make(map[string]RuleDef)
}
