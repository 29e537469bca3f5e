package pulumi

import (
	"errors"
	"fmt"
)

// ErrStructure indicates a required path is absent from the program.
var ErrStructure = errors.New("malformed program")

// StructuralError describes a missing or mistyped path. ResourceID is empty
// for document-level problems.
type StructuralError struct {
	ResourceID string
	Path       string
	Reason     string
}

func (e *StructuralError) Error() string {
	if e.ResourceID == "" {
		return fmt.Sprintf("%s: %s: %s", ErrStructure, e.Path, e.Reason)
	}
	return fmt.Sprintf("%s: resource %s: %s: %s", ErrStructure, e.ResourceID, e.Path, e.Reason)
}

// Unwrap lets errors.Is match ErrStructure.
func (e *StructuralError) Unwrap() error {
	return ErrStructure
}
