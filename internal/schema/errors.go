package schema

import "fmt"

// DuplicateTypeError is a fatal configuration error: two schema entries
// declared the same name. Generation aborts immediately when it occurs.
type DuplicateTypeError struct {
	Name string
}

func (e *DuplicateTypeError) Error() string {
	return fmt.Sprintf("schema declares duplicate type name %q", e.Name)
}
