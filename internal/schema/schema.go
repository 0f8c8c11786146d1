// Package schema compiles a content schema into named TypeScript type
// declarations and provides the lookup and query-evaluation services used
// when lowering inferred query result types.
package schema

import (
	"github.com/google/uuid"

	"github.com/sanity-io/codegen/internal/typenode"
)

// Entry kinds as they appear in an extracted schema document.
const (
	KindDocument = "document"
	KindType     = "type"
)

// Entry is one named type declaration of a schema in declaration order.
type Entry struct {
	Name  string
	Kind  string
	Value typenode.Node
}

// Schema is an ordered list of named type entries. Each Schema value
// carries an opaque version token assigned at construction; compiled tables
// are memoized against it, so reusing one Schema value yields referentially
// stable output while any new Schema value recomputes.
type Schema struct {
	entries []Entry
	version string
}

// New creates a Schema from entries, preserving their order.
func New(entries []Entry) *Schema {
	return &Schema{
		entries: entries,
		version: uuid.NewString(),
	}
}

// Entries returns the schema entries in declaration order.
func (s *Schema) Entries() []Entry {
	return s.entries
}

// Len returns the number of entries.
func (s *Schema) Len() int {
	return len(s.entries)
}

// Version returns the opaque token identifying this schema value.
func (s *Schema) Version() string {
	return s.version
}
