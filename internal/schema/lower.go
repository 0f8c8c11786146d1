package schema

import (
	"fmt"
	"strconv"

	"github.com/sanity-io/codegen/internal/dedupe"
	"github.com/sanity-io/codegen/internal/fingerprint"
	"github.com/sanity-io/codegen/internal/tsast"
	"github.com/sanity-io/codegen/internal/typenode"
)

// Lowerer turns type-tree nodes into declaration syntax. With a
// deduplication registry attached, any object subtree whose fingerprint
// matches a registry entry is emitted as a reference to the shared alias
// instead of being inlined.
type Lowerer struct {
	tables   *Tables
	registry *dedupe.Registry
	fp       *fingerprint.Fingerprinter

	usedKeyedArray bool
}

// NewLowerer creates a Lowerer resolving inline references against tables.
// registry and fp may be nil together, which disables deduplication; this
// is how schema entries themselves are compiled.
func NewLowerer(tables *Tables, registry *dedupe.Registry, fp *fingerprint.Fingerprinter) *Lowerer {
	return &Lowerer{tables: tables, registry: registry, fp: fp}
}

// UsedKeyedArray reports whether any lowering so far produced the
// keyed-array generic, which decides whether its alias is emitted at all.
func (l *Lowerer) UsedKeyedArray() bool {
	return l.usedKeyedArray
}

// Lower converts n to a type expression.
func (l *Lowerer) Lower(n typenode.Node) tsast.Expr {
	switch node := n.(type) {
	case *typenode.Unknown:
		return &tsast.Unknown{}
	case *typenode.Null:
		return &tsast.Null{}
	case *typenode.Boolean:
		if node.Value != nil {
			return &tsast.Literal{Raw: strconv.FormatBool(*node.Value)}
		}
		return &tsast.Primitive{Name: "boolean"}
	case *typenode.Number:
		if node.Value != nil {
			return &tsast.Literal{Raw: strconv.FormatFloat(*node.Value, 'g', -1, 64)}
		}
		return &tsast.Primitive{Name: "number"}
	case *typenode.String:
		if node.Value != nil {
			return &tsast.Literal{Raw: strconv.Quote(*node.Value)}
		}
		return &tsast.Primitive{Name: "string"}
	case *typenode.Inline:
		return l.resolveReference(node.Name)
	case *typenode.Array:
		return l.lowerArray(node)
	case *typenode.Union:
		return l.lowerUnion(node.Of)
	case *typenode.Object:
		if entry, ok := l.lookupShared(node); ok {
			return &tsast.Ref{Name: entry.Identifier}
		}
		return l.lowerObjectShape(node)
	default:
		return &tsast.Commented{
			Expr:    &tsast.Unknown{},
			Comment: fmt.Sprintf("Unhandled type %T", n),
		}
	}
}

// LowerShared lowers the representative node of a registry entry. The node
// itself is inlined rather than resolved back to its own alias, while
// nested duplicates still collapse to references.
func (l *Lowerer) LowerShared(node *typenode.Object) tsast.Expr {
	return l.lowerObjectShape(node)
}

func (l *Lowerer) lookupShared(node *typenode.Object) (dedupe.Entry, bool) {
	if l.registry == nil || l.fp == nil {
		return dedupe.Entry{}, false
	}
	return l.registry.Lookup(l.fp.Fingerprint(node))
}

func (l *Lowerer) lowerUnion(members []typenode.Node) tsast.Expr {
	switch len(members) {
	case 0:
		return &tsast.Never{}
	case 1:
		return l.Lower(members[0])
	}
	lowered := make([]tsast.Expr, len(members))
	for i, member := range members {
		lowered[i] = l.Lower(member)
	}
	return &tsast.Union{Members: lowered}
}

// lowerArray emits Array<element>, except when the element union contains
// object members that are extracted as shared aliases: elements that came
// from a deduplicated shape carry an implicit per-element key, so those
// members move into the keyed-array generic and the remaining members keep
// the plain array form.
func (l *Lowerer) lowerArray(node *typenode.Array) tsast.Expr {
	union, ok := node.Of.(*typenode.Union)
	if !ok || l.registry == nil {
		return &tsast.Array{Elem: l.Lower(node.Of)}
	}

	var shared []tsast.Expr
	var rest []typenode.Node
	for _, member := range union.Of {
		if obj, isObj := member.(*typenode.Object); isObj {
			if entry, hit := l.lookupShared(obj); hit {
				shared = append(shared, &tsast.Ref{Name: entry.Identifier})
				continue
			}
		}
		rest = append(rest, member)
	}
	if len(shared) == 0 {
		return &tsast.Array{Elem: l.Lower(node.Of)}
	}

	l.usedKeyedArray = true
	var sharedArg tsast.Expr
	if len(shared) == 1 {
		sharedArg = shared[0]
	} else {
		sharedArg = &tsast.Union{Members: shared}
	}
	keyed := &tsast.Generic{Name: KeyedArrayName, Args: []tsast.Expr{sharedArg}}
	if len(rest) == 0 {
		return keyed
	}
	return &tsast.Union{Members: []tsast.Expr{
		&tsast.Array{Elem: l.lowerUnion(rest)},
		keyed,
	}}
}

func (l *Lowerer) resolveReference(name string) tsast.Expr {
	if ct, ok := l.tables.Get(name); ok {
		return &tsast.Ref{Name: ct.Identifier}
	}
	// Schemas may be partially available; a missing reference degrades to
	// unknown with a visible explanation instead of failing.
	return &tsast.Commented{
		Expr:    &tsast.Unknown{},
		Comment: fmt.Sprintf("Unable to locate the referenced type %q in schema", name),
	}
}

func (l *Lowerer) lowerObjectShape(node *typenode.Object) tsast.Expr {
	members := make([]tsast.Member, 0, len(node.Attributes)+1)
	for _, attr := range node.Attributes {
		members = append(members, tsast.Member{
			Key:      attr.Key,
			Optional: attr.Optional,
			Value:    l.Lower(attr.Value),
		})
	}

	switch rest := node.Rest.(type) {
	case nil:
		return &tsast.Object{Members: l.withDereference(members, node)}
	case *typenode.Unknown:
		// Nothing more specific than unknown can be claimed for the
		// whole object once arbitrary extra attributes are unknown.
		return &tsast.Unknown{}
	case *typenode.Object:
		restExpr := l.lowerObjectShape(rest)
		restObj, ok := restExpr.(*tsast.Object)
		if !ok {
			return &tsast.Intersection{Members: []tsast.Expr{
				&tsast.Object{Members: l.withDereference(members, node)},
				restExpr,
			}}
		}
		members = append(members, restObj.Members...)
		return &tsast.Object{Members: l.withDereference(members, node)}
	case *typenode.Inline:
		if ct, ok := l.tables.Get(rest.Name); ok {
			return &tsast.Intersection{Members: []tsast.Expr{
				&tsast.Object{Members: l.withDereference(members, node)},
				&tsast.Ref{Name: ct.Identifier},
			}}
		}
		// The object's own attributes are dropped along with the rest:
		// the unresolved remainder could override any of them.
		return &tsast.Commented{
			Expr:    &tsast.Unknown{},
			Comment: fmt.Sprintf("Unable to locate the referenced type %q in schema", rest.Name),
		}
	default:
		return &tsast.Commented{
			Expr:    &tsast.Unknown{},
			Comment: fmt.Sprintf("Unhandled rest type %T", node.Rest),
		}
	}
}

// withDereference appends the hidden symbol-keyed attribute naming the
// schema type a reference object resolves to. It is always optional so the
// declared shape of the reference itself is unchanged.
func (l *Lowerer) withDereference(members []tsast.Member, node *typenode.Object) []tsast.Member {
	if node.DereferencesTo == nil {
		return members
	}
	return append(members, tsast.Member{
		Key:      ReferenceSymbolName,
		Computed: true,
		Optional: true,
		Value:    &tsast.Literal{Raw: strconv.Quote(*node.DereferencesTo)},
	})
}
