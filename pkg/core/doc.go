// Package core defines the shared data model for martlint: model and
// source descriptors, layers, materializations, column specs, and
// diagnostic severities. It performs no I/O; descriptors are built by
// loaders and consumed read-only by the registry, graph, and lint
// packages.
package core
