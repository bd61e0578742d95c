// Package lint runs convention rules against a model registry and its
// reference graph, producing a deterministic violation report.
//
// Rules live in pkg/lint/rules/* subpackages and register themselves
// with the global registry from init(); import
// pkg/lint/rules to pull in the full set. A rule is either a
// per-model check (pure, run in parallel across models) or a
// graph-level check (run sequentially after the model pass).
package lint
