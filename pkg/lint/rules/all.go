// Package rules registers all martlint convention rules.
// Import this package to register the full rule set with the global
// registry.
package rules

import (
	// Blank imports trigger init() functions that register rules.
	_ "github.com/ryandataengineergit/martlint/pkg/lint/rules/graph"     // registers MG* rules
	_ "github.com/ryandataengineergit/martlint/pkg/lint/rules/modeling"  // registers MM* rules
	_ "github.com/ryandataengineergit/martlint/pkg/lint/rules/quality"   // registers MQ* rules
	_ "github.com/ryandataengineergit/martlint/pkg/lint/rules/structure" // registers MS* rules
)
