// Package dedupe recognizes object shapes that occur repeatedly across the
// inferred result types of a query batch and assigns each a shared,
// uniquely named alias.
package dedupe

import (
	"github.com/sanity-io/codegen/internal/fingerprint"
	"github.com/sanity-io/codegen/internal/naming"
	"github.com/sanity-io/codegen/internal/typenode"
)

// TypeKey is the discriminator attribute of content documents and objects.
// A string literal stored there is the best candidate name for its shape.
const TypeKey = "_type"

// Occurrence tracks one distinct object shape seen during a collection pass.
type Occurrence struct {
	Fingerprint   string
	Node          *typenode.Object
	Count         int
	CandidateName string // empty when no usable hint was in scope
}

// Occurrences is an insertion-ordered map from fingerprint to occurrence
// record. Order is the order in which each shape was first seen.
type Occurrences struct {
	order []string
	byFP  map[string]*Occurrence
}

// Len returns the number of distinct object shapes collected.
func (o *Occurrences) Len() int { return len(o.order) }

// Get returns the record for a fingerprint, if any.
func (o *Occurrences) Get(fp string) (*Occurrence, bool) {
	rec, ok := o.byFP[fp]
	return rec, ok
}

// All iterates the records in first-sighted order.
func (o *Occurrences) All() []*Occurrence {
	out := make([]*Occurrence, len(o.order))
	for i, fp := range o.order {
		out[i] = o.byFP[fp]
	}
	return out
}

// Collect walks every tree in nodes and counts how often each distinct
// object shape occurs, deriving a candidate name for each shape the first
// time it is seen. A "parent key" hint follows the walk: attribute keys
// override it, array wrappers singularize it, unions pass it through
// unchanged.
func Collect(f *fingerprint.Fingerprinter, nodes []typenode.Node) *Occurrences {
	c := &collector{
		fp: f,
		occ: &Occurrences{
			byFP: make(map[string]*Occurrence),
		},
	}
	for _, n := range nodes {
		c.walk(n, "", false)
	}
	return c.occ
}

type collector struct {
	fp  *fingerprint.Fingerprinter
	occ *Occurrences
}

func (c *collector) walk(n typenode.Node, parentKey string, hasParentKey bool) {
	switch node := n.(type) {
	case *typenode.Array:
		if hasParentKey {
			c.walk(node.Of, naming.Singularize(parentKey), true)
		} else {
			c.walk(node.Of, "", false)
		}
	case *typenode.Union:
		// A union is not a naming context of its own.
		for _, member := range node.Of {
			c.walk(member, parentKey, hasParentKey)
		}
	case *typenode.Object:
		fp := c.fp.Fingerprint(node)
		if rec, ok := c.occ.byFP[fp]; ok {
			rec.Count++
		} else {
			c.occ.byFP[fp] = &Occurrence{
				Fingerprint:   fp,
				Node:          node,
				Count:         1,
				CandidateName: candidateName(node, parentKey, hasParentKey),
			}
			c.occ.order = append(c.occ.order, fp)
		}
		for _, attr := range node.Attributes {
			c.walk(attr.Value, attr.Key, true)
		}
		if node.Rest != nil {
			// Rest has no single associated key.
			c.walk(node.Rest, "", false)
		}
	default:
		// Primitives and inline references neither recurse nor collect.
	}
}

// candidateName prefers a literal type discriminator over the enclosing
// attribute key.
func candidateName(node *typenode.Object, parentKey string, hasParentKey bool) string {
	if attr, ok := node.Attribute(TypeKey); ok && !attr.Optional {
		if str, ok := attr.Value.(*typenode.String); ok && str.Value != nil {
			return *str.Value
		}
	}
	if hasParentKey {
		return parentKey
	}
	return ""
}
