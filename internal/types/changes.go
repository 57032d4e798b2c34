package types

import "fmt"

// FieldChange records one classification field transition for the external
// audit/history collaborator. The core produces these; it never persists them
// itself.
type FieldChange struct {
	Field       string `json:"field"`
	Old         string `json:"old"`
	New         string `json:"new"`
	Description string `json:"description"`
}

// NewFieldChange builds a FieldChange with a human-readable description.
func NewFieldChange(field, old, new_, by string) FieldChange {
	desc := fmt.Sprintf("%s changed from %q to %q", field, old, new_)
	if by != "" {
		desc += fmt.Sprintf(" by rule %q", by)
	}
	return FieldChange{Field: field, Old: old, New: new_, Description: desc}
}
