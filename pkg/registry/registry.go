// Package registry builds the in-memory registry of model and source
// descriptors for a validation run. Building fails fast on structural
// problems (duplicate names, malformed descriptors, self-references);
// everything else is left to the lint rules so a run can surface the
// complete violation set.
package registry

import (
	"crypto/sha256"
	"fmt"
	"sort"
	"strings"

	"github.com/ryandataengineergit/martlint/pkg/core"
)

// Registry maps names to descriptors for one validation run.
// It is immutable after Build; lint rules read it concurrently.
type Registry struct {
	models  map[string]*core.ModelDescriptor
	sources map[string]*core.SourceDescriptor
	// tables maps "source.table" node names to their owning source.
	tables map[string]*core.SourceDescriptor
}

// Build constructs a registry from model and source descriptors.
// It returns a structural error (DuplicateNameError,
// MalformedDescriptorError) if no meaningful registry can be built.
func Build(models []*core.ModelDescriptor, sources []*core.SourceDescriptor) (*Registry, error) {
	r := &Registry{
		models:  make(map[string]*core.ModelDescriptor, len(models)),
		sources: make(map[string]*core.SourceDescriptor, len(sources)),
		tables:  make(map[string]*core.SourceDescriptor),
	}

	for _, s := range sources {
		if s.Name == "" {
			return nil, &MalformedDescriptorError{Field: "name", Reason: "source declared without a name"}
		}
		if prev, ok := r.sources[s.Name]; ok {
			return nil, &DuplicateNameError{Name: s.Name, Kind: "source", First: prev.Name}
		}
		r.sources[s.Name] = s
		for _, ref := range s.TableRefs() {
			if _, ok := r.tables[ref]; ok {
				return nil, &DuplicateNameError{Name: ref, Kind: "source table"}
			}
			r.tables[ref] = s
		}
	}

	for _, m := range models {
		if m.Name == "" {
			return nil, &MalformedDescriptorError{File: m.FilePath, Field: "name", Reason: "model declared without a name"}
		}
		if m.Layer == "" {
			return nil, &MalformedDescriptorError{File: m.FilePath, Field: "layer", Reason: fmt.Sprintf("model %q has no layer and none could be inferred", m.Name)}
		}
		if prev, ok := r.models[m.Name]; ok {
			return nil, &DuplicateNameError{Name: m.Name, Kind: "model", First: prev.FilePath, Second: m.FilePath}
		}
		if _, ok := r.tables[m.Name]; ok {
			return nil, &DuplicateNameError{Name: m.Name, Kind: "model", Second: m.FilePath}
		}
		for _, ref := range m.References {
			if ref == m.Name {
				return nil, &MalformedDescriptorError{File: m.FilePath, Field: "references", Reason: fmt.Sprintf("model %q references itself", m.Name)}
			}
		}
		r.models[m.Name] = m
	}

	return r, nil
}

// Model returns the model descriptor with the given name.
func (r *Registry) Model(name string) (*core.ModelDescriptor, bool) {
	m, ok := r.models[name]
	return m, ok
}

// IsSourceTable reports whether name refers to a declared source table.
func (r *Registry) IsSourceTable(name string) bool {
	_, ok := r.tables[name]
	return ok
}

// LayerOf resolves the layer of any registry node: a model's declared
// layer, LayerSource for source tables, and false for unknown names.
func (r *Registry) LayerOf(name string) (core.Layer, bool) {
	if m, ok := r.models[name]; ok {
		return m.Layer, true
	}
	if _, ok := r.tables[name]; ok {
		return core.LayerSource, true
	}
	return "", false
}

// ModelNames returns all model names in sorted order.
func (r *Registry) ModelNames() []string {
	names := make([]string, 0, len(r.models))
	for name := range r.models {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Models returns all model descriptors ordered by name.
func (r *Registry) Models() []*core.ModelDescriptor {
	names := r.ModelNames()
	models := make([]*core.ModelDescriptor, len(names))
	for i, name := range names {
		models[i] = r.models[name]
	}
	return models
}

// SourceTableNames returns all source table node names in sorted order.
func (r *Registry) SourceTableNames() []string {
	names := make([]string, 0, len(r.tables))
	for name := range r.tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ModelCount returns the number of registered models.
func (r *Registry) ModelCount() int {
	return len(r.models)
}

// Fingerprint returns a stable digest of the registry contents.
// Identical inputs produce identical fingerprints, which keeps report
// output byte-identical across runs.
func (r *Registry) Fingerprint() string {
	h := sha256.New()
	for _, name := range r.SourceTableNames() {
		fmt.Fprintf(h, "source\x00%s\x00", name)
	}
	for _, m := range r.Models() {
		fmt.Fprintf(h, "model\x00%s\x00%s\x00%s\x00%s\x00%s\x00",
			m.Name, m.Layer, m.Materialized, m.PrimaryKey,
			strings.Join(m.SortedReferences(), ","))
		for _, c := range m.Columns {
			fmt.Fprintf(h, "col\x00%s\x00%s\x00%s\x00%s\x00",
				c.Name, c.Type, c.Timezone, strings.Join(c.Tests, ","))
		}
	}
	return fmt.Sprintf("%x", h.Sum(nil))
}
