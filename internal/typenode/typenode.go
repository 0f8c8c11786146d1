// Package typenode defines the recursive type tree produced by query
// evaluation and consumed by schema compilation and lowering. Nodes are
// immutable after construction; structural equality is defined by content,
// not identity.
package typenode

// Node is the sealed interface implemented by every type-tree variant.
// All variants are pointer types, so Node values are comparable and can be
// used as cache keys for identity-based memoization.
type Node interface {
	isNode()
}

// Unknown is the top type: nothing is known about the value.
type Unknown struct{}

// Null is the null type.
type Null struct{}

// Boolean is the boolean type, optionally narrowed to a literal value.
type Boolean struct {
	Value *bool
}

// Number is the number type, optionally narrowed to a literal value.
type Number struct {
	Value *float64
}

// String is the string type, optionally narrowed to a literal value.
type String struct {
	Value *string
}

// Array wraps a single element type.
type Array struct {
	Of Node
}

// Union is an ordered list of member types. Member order is preserved as
// constructed but carries no structural meaning.
type Union struct {
	Of []Node
}

// Inline is a forward reference to another named type. It is deliberately
// not resolved during fingerprinting so that self-referential schemas do
// not recurse forever.
type Inline struct {
	Name string
}

// ObjectAttribute is a single named attribute of an Object.
type ObjectAttribute struct {
	Key      string
	Value    Node
	Optional bool
}

// Object is a structural type: an ordered attribute list, an optional rest
// type covering additional attributes, and an optional dereference target
// marking the object as a reference that resolves to a named type.
type Object struct {
	Attributes     []ObjectAttribute
	Rest           Node
	DereferencesTo *string
}

func (*Unknown) isNode() {}
func (*Null) isNode()    {}
func (*Boolean) isNode() {}
func (*Number) isNode()  {}
func (*String) isNode()  {}
func (*Array) isNode()   {}
func (*Union) isNode()   {}
func (*Inline) isNode()  {}
func (*Object) isNode()  {}

// Attribute returns the attribute with the given key, if present.
func (o *Object) Attribute(key string) (ObjectAttribute, bool) {
	for _, attr := range o.Attributes {
		if attr.Key == key {
			return attr, true
		}
	}
	return ObjectAttribute{}, false
}

// StringLiteral builds a string type narrowed to the given literal.
func StringLiteral(v string) *String {
	return &String{Value: &v}
}

// NumberLiteral builds a number type narrowed to the given literal.
func NumberLiteral(v float64) *Number {
	return &Number{Value: &v}
}

// BooleanLiteral builds a boolean type narrowed to the given literal.
func BooleanLiteral(v bool) *Boolean {
	return &Boolean{Value: &v}
}
