package generator

import "fmt"

// QueryError wraps a query evaluation failure with enough context to tell
// the user which binding in which file is broken. It is recorded on the
// query's module and never aborts the run.
type QueryError struct {
	Filename string
	Variable string
	Query    string
	Err      error
}

func (e *QueryError) Error() string {
	if e.Variable != "" {
		return fmt.Sprintf("query %q in %s: %v", e.Variable, e.Filename, e.Err)
	}
	return fmt.Sprintf("query in %s: %v", e.Filename, e.Err)
}

func (e *QueryError) Unwrap() error {
	return e.Err
}
