package registry

import "fmt"

// DuplicateNameError reports two descriptors sharing a name.
// Structural: the run aborts before validation begins.
type DuplicateNameError struct {
	Name string
	Kind string // "model", "source", "source table"
	// First and Second are the declaration files involved, when known.
	First  string
	Second string
}

func (e *DuplicateNameError) Error() string {
	msg := fmt.Sprintf("duplicate %s name %q", e.Kind, e.Name)
	if e.First != "" && e.Second != "" {
		return fmt.Sprintf("%s: declared in %s and %s", msg, e.First, e.Second)
	}
	return msg
}

// MalformedDescriptorError reports a descriptor missing required
// fields or carrying values no registry can be built from.
// Structural: the run aborts before validation begins.
type MalformedDescriptorError struct {
	File   string
	Field  string
	Reason string
}

func (e *MalformedDescriptorError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("%s: malformed descriptor: %s", e.File, e.Reason)
	}
	return fmt.Sprintf("malformed descriptor: %s", e.Reason)
}
