package dedupe

import (
	"github.com/sanity-io/codegen/internal/naming"
	"github.com/sanity-io/codegen/internal/typenode"
)

const (
	// KeyKey is the synthetic per-element key attribute of keyed arrays.
	KeyKey = "_key"
	// RefKey is the reference attribute of reference-shaped objects.
	RefKey = "_ref"

	// fallbackBaseName names extracted shapes with no usable candidate.
	fallbackBaseName = "InlineType"
	// namePrefix marks extracted shared shapes in the output.
	namePrefix = "Inline"
)

// structuralKeys are bookkeeping attributes that do not make a shape worth
// naming on their own.
var structuralKeys = map[string]struct{}{
	TypeKey: {},
	KeyKey:  {},
	RefKey:  {},
}

// Entry is one shared shape in the registry.
type Entry struct {
	Identifier string
	Node       *typenode.Object
}

// Registry maps fingerprints of repeated object shapes to the generated
// identifiers under which they are emitted once and referenced everywhere
// else. It is built once per generation run and immutable afterward.
type Registry struct {
	order   []string
	entries map[string]Entry
}

// Lookup returns the shared entry for a fingerprint, if one was extracted.
func (r *Registry) Lookup(fp string) (Entry, bool) {
	if r == nil {
		return Entry{}, false
	}
	e, ok := r.entries[fp]
	return e, ok
}

// Len returns the number of extracted shapes.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.order)
}

// Entries iterates extracted shapes in first-occurrence order.
func (r *Registry) Entries() []Entry {
	if r == nil {
		return nil
	}
	out := make([]Entry, len(r.order))
	for i, fp := range r.order {
		out[i] = r.entries[fp]
	}
	return out
}

// BuildRegistry filters the collected occurrences down to shapes worth
// sharing and assigns each a unique identifier, reserving names one at a
// time against reservations so two shapes suggesting the same candidate
// name are distinguished with numeric suffixes.
//
// A shape qualifies when it occurred at least twice and carries at least
// two meaningful attributes, where the structural bookkeeping keys _type,
// _key and _ref do not count as meaningful.
func BuildRegistry(occ *Occurrences, reservations *naming.Reservations) *Registry {
	reg := &Registry{entries: make(map[string]Entry)}
	for _, rec := range occ.All() {
		if rec.Count < 2 {
			continue
		}
		if meaningfulAttributes(rec.Node) < 2 {
			continue
		}
		base := fallbackBaseName
		if rec.CandidateName != "" {
			base = namePrefix + naming.Sanitize(rec.CandidateName)
		}
		identifier := reservations.Reserve(base)
		reg.entries[rec.Fingerprint] = Entry{Identifier: identifier, Node: rec.Node}
		reg.order = append(reg.order, rec.Fingerprint)
	}
	return reg
}

func meaningfulAttributes(node *typenode.Object) int {
	count := 0
	for _, attr := range node.Attributes {
		if _, structural := structuralKeys[attr.Key]; !structural {
			count++
		}
	}
	return count
}
