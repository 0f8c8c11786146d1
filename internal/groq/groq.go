// Package groq statically evaluates a supported subset of GROQ against a
// content schema, inferring the result type of each query. It implements
// the query type-inference service the rest of the generator depends on:
// dataset queries with equality filters, projections, element accesses and
// slices. Queries outside the supported subset fail with a ParseError and
// are reported per query, never aborting a whole generation run.
package groq

import (
	"context"

	"github.com/sanity-io/codegen/internal/schema"
	"github.com/sanity-io/codegen/internal/typenode"
)

// Evaluator infers query result types against a schema. The zero value is
// ready to use; it is stateless and safe for concurrent use.
type Evaluator struct{}

// New creates an Evaluator.
func New() *Evaluator {
	return &Evaluator{}
}

// Evaluate parses query and walks its steps over the schema's document
// types, producing the inferred result type tree.
func (e *Evaluator) Evaluate(_ context.Context, s *schema.Schema, src string) (typenode.Node, error) {
	q, err := parse(src)
	if err != nil {
		return nil, err
	}

	// "*" is the whole dataset: an array over every document type.
	var node typenode.Node = &typenode.Array{Of: documentsUnion(s)}
	for _, st := range q.steps {
		node = applyStep(node, st)
	}
	return node, nil
}

func documentsUnion(s *schema.Schema) *typenode.Union {
	union := &typenode.Union{}
	for _, entry := range s.Entries() {
		if entry.Kind != schema.KindDocument {
			continue
		}
		union.Of = append(union.Of, entry.Value)
	}
	return union
}

func applyStep(node typenode.Node, st step) typenode.Node {
	switch s := st.(type) {
	case *filterStep:
		return mapArray(node, func(elem typenode.Node) typenode.Node {
			return filterMembers(elem, s.cond)
		})
	case *sliceStep:
		return node
	case *elementStep:
		arr, ok := node.(*typenode.Array)
		if !ok {
			return &typenode.Null{}
		}
		members := []typenode.Node{}
		if union, isUnion := arr.Of.(*typenode.Union); isUnion {
			members = append(members, union.Of...)
		} else {
			members = append(members, arr.Of)
		}
		return &typenode.Union{Of: append(members, &typenode.Null{})}
	case *projectStep:
		return mapElements(node, func(elem typenode.Node) typenode.Node {
			return project(elem, s.fields)
		})
	default:
		return &typenode.Unknown{}
	}
}

// mapArray rewrites the element type of an array, leaving other shapes
// untouched.
func mapArray(node typenode.Node, f func(typenode.Node) typenode.Node) typenode.Node {
	arr, ok := node.(*typenode.Array)
	if !ok {
		return node
	}
	return &typenode.Array{Of: f(arr.Of)}
}

// mapElements applies f to the element type of an array, to every union
// member, or to the value itself.
func mapElements(node typenode.Node, f func(typenode.Node) typenode.Node) typenode.Node {
	switch n := node.(type) {
	case *typenode.Array:
		return &typenode.Array{Of: mapElements(n.Of, f)}
	case *typenode.Union:
		members := make([]typenode.Node, len(n.Of))
		for i, member := range n.Of {
			members[i] = mapElements(member, f)
		}
		return &typenode.Union{Of: members}
	default:
		return f(node)
	}
}

// filterMembers narrows a union (or single candidate) to the members that
// can satisfy cond.
func filterMembers(node typenode.Node, c cond) typenode.Node {
	var candidates []typenode.Node
	if union, ok := node.(*typenode.Union); ok {
		candidates = union.Of
	} else {
		candidates = []typenode.Node{node}
	}

	kept := []typenode.Node{}
	for _, candidate := range candidates {
		if satisfies(candidate, c) {
			kept = append(kept, candidate)
		}
	}
	if len(kept) == 1 {
		return kept[0]
	}
	return &typenode.Union{Of: kept}
}

func satisfies(node typenode.Node, c cond) bool {
	switch cc := c.(type) {
	case *eqCond:
		obj, ok := node.(*typenode.Object)
		if !ok {
			return false
		}
		attr, ok := obj.Attribute(cc.attr)
		if !ok {
			return false
		}
		str, ok := attr.Value.(*typenode.String)
		return ok && str.Value != nil && *str.Value == cc.value
	case *andCond:
		for _, member := range cc.members {
			if !satisfies(node, member) {
				return false
			}
		}
		return true
	case *orCond:
		for _, member := range cc.members {
			if satisfies(node, member) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// project builds the object type produced by a projection. Attributes that
// do not exist on the source evaluate to null, as they do at runtime.
func project(node typenode.Node, fields []projField) typenode.Node {
	obj, ok := node.(*typenode.Object)
	if !ok {
		if _, isNull := node.(*typenode.Null); isNull {
			return &typenode.Null{}
		}
		return &typenode.Unknown{}
	}

	out := &typenode.Object{}
	for _, field := range fields {
		attr, found := obj.Attribute(field.Attr)
		if !found {
			out.Attributes = append(out.Attributes, typenode.ObjectAttribute{
				Key:   field.Alias,
				Value: &typenode.Null{},
			})
			continue
		}
		value := attr.Value
		if field.Sub != nil {
			value = mapElements(value, func(elem typenode.Node) typenode.Node {
				return project(elem, field.Sub)
			})
		}
		out.Attributes = append(out.Attributes, typenode.ObjectAttribute{
			Key:      field.Alias,
			Value:    value,
			Optional: attr.Optional,
		})
	}
	return out
}
