// Package schemajson reads extracted content-schema documents: a JSON array
// of named type entries whose values are serialized type-tree nodes.
package schemajson

import (
	"fmt"

	"github.com/valyala/fastjson"

	"github.com/sanity-io/codegen/internal/schema"
	"github.com/sanity-io/codegen/internal/typenode"
)

// Parse decodes a schema document into a Schema, preserving entry order.
func Parse(data []byte) (*schema.Schema, error) {
	root, err := fastjson.ParseBytes(data)
	if err != nil {
		return nil, fmt.Errorf("invalid schema JSON: %w", err)
	}
	items, err := root.Array()
	if err != nil {
		return nil, fmt.Errorf("schema document must be a JSON array: %w", err)
	}

	entries := make([]schema.Entry, 0, len(items))
	for i, item := range items {
		entry, err := parseEntry(item)
		if err != nil {
			return nil, fmt.Errorf("schema entry %d: %w", i, err)
		}
		entries = append(entries, entry)
	}
	return schema.New(entries), nil
}

func parseEntry(v *fastjson.Value) (schema.Entry, error) {
	name := v.GetStringBytes("name")
	if len(name) == 0 {
		return schema.Entry{}, fmt.Errorf("missing %q", "name")
	}
	kind := string(v.GetStringBytes("type"))
	if kind == "" {
		return schema.Entry{}, fmt.Errorf("missing %q", "type")
	}

	var value typenode.Node
	var err error
	switch {
	case v.Exists("attributes"):
		// Document entries serialize their shape as a bare attribute map.
		value, err = parseObjectShape(v)
	case v.Exists("value"):
		value, err = parseNode(v.Get("value"))
	default:
		return schema.Entry{}, fmt.Errorf("entry %q has neither attributes nor a value", name)
	}
	if err != nil {
		return schema.Entry{}, fmt.Errorf("entry %q: %w", name, err)
	}

	return schema.Entry{Name: string(name), Kind: kind, Value: value}, nil
}

// parseNode decodes one serialized type-tree node.
func parseNode(v *fastjson.Value) (typenode.Node, error) {
	if v == nil {
		return nil, fmt.Errorf("missing type node")
	}
	kind := string(v.GetStringBytes("type"))
	switch kind {
	case "unknown":
		return &typenode.Unknown{}, nil
	case "null":
		return &typenode.Null{}, nil
	case "boolean":
		node := &typenode.Boolean{}
		if lit := v.Get("value"); lit != nil && lit.Type() != fastjson.TypeNull {
			b, err := lit.Bool()
			if err != nil {
				return nil, fmt.Errorf("boolean literal: %w", err)
			}
			node.Value = &b
		}
		return node, nil
	case "number":
		node := &typenode.Number{}
		if lit := v.Get("value"); lit != nil && lit.Type() != fastjson.TypeNull {
			f, err := lit.Float64()
			if err != nil {
				return nil, fmt.Errorf("number literal: %w", err)
			}
			node.Value = &f
		}
		return node, nil
	case "string":
		node := &typenode.String{}
		if lit := v.Get("value"); lit != nil && lit.Type() != fastjson.TypeNull {
			s, err := lit.StringBytes()
			if err != nil {
				return nil, fmt.Errorf("string literal: %w", err)
			}
			str := string(s)
			node.Value = &str
		}
		return node, nil
	case "array":
		of, err := parseNode(v.Get("of"))
		if err != nil {
			return nil, fmt.Errorf("array element: %w", err)
		}
		return &typenode.Array{Of: of}, nil
	case "union":
		items := v.GetArray("of")
		members := make([]typenode.Node, 0, len(items))
		for i, item := range items {
			member, err := parseNode(item)
			if err != nil {
				return nil, fmt.Errorf("union member %d: %w", i, err)
			}
			members = append(members, member)
		}
		return &typenode.Union{Of: members}, nil
	case "inline":
		name := v.GetStringBytes("name")
		if len(name) == 0 {
			return nil, fmt.Errorf("inline reference missing name")
		}
		return &typenode.Inline{Name: string(name)}, nil
	case "object":
		return parseObjectShape(v)
	default:
		return nil, fmt.Errorf("unknown type node kind %q", kind)
	}
}

// parseObjectShape decodes the attributes, rest and dereference marker of
// an object node (or a document entry, which shares the same layout).
func parseObjectShape(v *fastjson.Value) (typenode.Node, error) {
	obj := &typenode.Object{}

	attrs := v.GetObject("attributes")
	if attrs != nil {
		var visitErr error
		attrs.Visit(func(key []byte, attr *fastjson.Value) {
			if visitErr != nil {
				return
			}
			value, err := parseNode(attr.Get("value"))
			if err != nil {
				visitErr = fmt.Errorf("attribute %q: %w", key, err)
				return
			}
			obj.Attributes = append(obj.Attributes, typenode.ObjectAttribute{
				Key:      string(key),
				Value:    value,
				Optional: attr.GetBool("optional"),
			})
		})
		if visitErr != nil {
			return nil, visitErr
		}
	}

	if v.Exists("rest") {
		rest, err := parseNode(v.Get("rest"))
		if err != nil {
			return nil, fmt.Errorf("rest: %w", err)
		}
		obj.Rest = rest
	}
	if deref := v.GetStringBytes("dereferencesTo"); len(deref) > 0 {
		target := string(deref)
		obj.DereferencesTo = &target
	}
	return obj, nil
}
