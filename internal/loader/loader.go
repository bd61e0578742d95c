// Package loader parses model and source declaration files into core
// descriptors. All filesystem access for a validation run happens
// here; the registry and lint packages only ever see in-memory
// descriptors.
//
// A declaration file is YAML with top-level `models:` and `sources:`
// lists. Unknown fields are parse errors (use `meta` for extensions).
package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ryandataengineergit/martlint/pkg/core"
	"github.com/ryandataengineergit/martlint/pkg/lint"
	"gopkg.in/yaml.v3"
)

// Result holds everything parsed from a models directory.
type Result struct {
	Models  []*core.ModelDescriptor
	Sources []*core.SourceDescriptor
	// Files are the declaration files read, sorted.
	Files []string
}

// Load walks dir for *.yml / *.yaml declaration files and parses them.
// Files are visited in sorted order so descriptor order is stable.
func Load(dir string) (*Result, error) {
	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			// Skip hidden directories
			if name := info.Name(); len(name) > 1 && name[0] == '.' {
				return filepath.SkipDir
			}
			return nil
		}
		if ext := filepath.Ext(path); ext == ".yml" || ext == ".yaml" {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan models directory: %w", err)
	}
	sort.Strings(files)

	result := &Result{Files: files}
	for _, path := range files {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		models, sources, err := ParseFile(path, content)
		if err != nil {
			return nil, err
		}
		result.Models = append(result.Models, models...)
		result.Sources = append(result.Sources, sources...)
	}
	return result, nil
}

// declaration mirrors one declaration file.
type declaration struct {
	Models  []modelDecl  `yaml:"models"`
	Sources []sourceDecl `yaml:"sources"`
}

type modelDecl struct {
	Name         string         `yaml:"name"`
	Layer        string         `yaml:"layer"`
	Materialized string         `yaml:"materialized"`
	PrimaryKey   string         `yaml:"primary_key"`
	References   []string       `yaml:"references"`
	Columns      []columnDecl   `yaml:"columns"`
	Owner        string         `yaml:"owner"`
	Description  string         `yaml:"description"`
	Tags         []string       `yaml:"tags"`
	Meta         map[string]any `yaml:"meta"`
}

type columnDecl struct {
	Name        string   `yaml:"name"`
	Type        string   `yaml:"type"`
	Tests       []string `yaml:"tests"`
	Timezone    string   `yaml:"timezone"`
	Description string   `yaml:"description"`
}

type sourceDecl struct {
	Name        string   `yaml:"name"`
	Database    string   `yaml:"database"`
	Schema      string   `yaml:"schema"`
	Tables      []string `yaml:"tables"`
	Description string   `yaml:"description"`
}

var knownTopLevelFields = map[string]bool{
	"models":  true,
	"sources": true,
}

var knownModelFields = map[string]bool{
	"name": true, "layer": true, "materialized": true,
	"primary_key": true, "references": true, "columns": true,
	"owner": true, "description": true, "tags": true, "meta": true,
}

var knownSourceFields = map[string]bool{
	"name": true, "database": true, "schema": true,
	"tables": true, "description": true,
}

// ParseFile parses one declaration file into descriptors.
// Unknown fields and invalid materializations are parse errors.
func ParseFile(path string, content []byte) ([]*core.ModelDescriptor, []*core.SourceDescriptor, error) {
	// Decode into a raw map first to reject unknown fields.
	var rawMap map[string]any
	if err := yaml.Unmarshal(content, &rawMap); err != nil {
		return nil, nil, &DeclParseError{File: path, Message: fmt.Sprintf("invalid YAML: %v", err)}
	}
	for field := range rawMap {
		if !knownTopLevelFields[field] {
			return nil, nil, &UnknownFieldError{File: path, Field: field}
		}
	}
	if err := checkEntryFields(path, rawMap, "models", knownModelFields); err != nil {
		return nil, nil, err
	}
	if err := checkEntryFields(path, rawMap, "sources", knownSourceFields); err != nil {
		return nil, nil, err
	}

	var decl declaration
	if err := yaml.Unmarshal(content, &decl); err != nil {
		return nil, nil, &DeclParseError{File: path, Message: fmt.Sprintf("failed to parse declaration: %v", err)}
	}

	models := make([]*core.ModelDescriptor, 0, len(decl.Models))
	for _, d := range decl.Models {
		m, err := d.toDescriptor(path)
		if err != nil {
			return nil, nil, err
		}
		models = append(models, m)
	}

	sources := make([]*core.SourceDescriptor, 0, len(decl.Sources))
	for _, d := range decl.Sources {
		sources = append(sources, &core.SourceDescriptor{
			Name:        d.Name,
			Database:    d.Database,
			Schema:      d.Schema,
			Tables:      d.Tables,
			Description: d.Description,
		})
	}

	return models, sources, nil
}

// checkEntryFields validates the field names of every entry in a
// top-level list against the known set.
func checkEntryFields(path string, rawMap map[string]any, key string, known map[string]bool) error {
	list, ok := rawMap[key].([]any)
	if !ok {
		return nil
	}
	for _, entry := range list {
		m, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		for field := range m {
			if !known[field] {
				return &UnknownFieldError{File: path, Field: fmt.Sprintf("%s.%s", key, field)}
			}
		}
	}
	return nil
}

// toDescriptor converts a declaration entry to a core descriptor,
// applying layer inference and the view default.
func (d modelDecl) toDescriptor(path string) (*core.ModelDescriptor, error) {
	if d.Materialized != "" && !core.ValidMaterialization(d.Materialized) {
		return nil, &DeclParseError{
			File: path,
			Message: fmt.Sprintf("invalid materialized value %q for model %q, must be one of: view, table, incremental, ephemeral",
				d.Materialized, d.Name),
		}
	}
	if d.Layer != "" {
		if _, err := core.ParseLayer(d.Layer); err != nil {
			return nil, &DeclParseError{
				File:    path,
				Message: fmt.Sprintf("model %q: %v", d.Name, err),
			}
		}
	}

	materialized := d.Materialized
	if materialized == "" {
		materialized = core.MaterializationView
	}

	columns := make([]core.ColumnSpec, 0, len(d.Columns))
	for _, c := range d.Columns {
		columns = append(columns, core.ColumnSpec{
			Name:        c.Name,
			Type:        strings.ToLower(c.Type),
			Tests:       c.Tests,
			Timezone:    c.Timezone,
			Description: c.Description,
		})
	}

	return &core.ModelDescriptor{
		Name:         d.Name,
		Layer:        lint.InferLayer(d.Name, path, d.Layer),
		FilePath:     path,
		Materialized: materialized,
		PrimaryKey:   d.PrimaryKey,
		References:   d.References,
		Columns:      columns,
		Owner:        d.Owner,
		Description:  d.Description,
		Tags:         d.Tags,
		Meta:         d.Meta,
	}, nil
}
