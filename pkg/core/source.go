package core

// SourceDescriptor describes a raw external table group registered as
// a warehouse entry point. Sources are never produced by
// transformation, only consumed; they are immutable once loaded.
type SourceDescriptor struct {
	// Name is the source group name, unique across the registry.
	Name string
	// Database is the physical database the source lives in.
	Database string
	// Schema is the physical schema the source lives in.
	Schema string
	// Tables are the raw table names exposed by this source.
	Tables []string
	// Description is a human-readable description.
	Description string
}

// TableRef returns the registry/graph node name for one of the
// source's tables, in the form "source_name.table_name". Models
// reference source tables by this name.
func (s *SourceDescriptor) TableRef(table string) string {
	return s.Name + "." + table
}

// TableRefs returns node names for all tables of the source.
func (s *SourceDescriptor) TableRefs() []string {
	refs := make([]string, len(s.Tables))
	for i, t := range s.Tables {
		refs[i] = s.TableRef(t)
	}
	return refs
}
