// Package tsast models the small subset of TypeScript declaration syntax
// the generator emits, together with a deterministic printer. It is a plain
// tree-to-text renderer: all naming and structure decisions happen upstream.
package tsast

// Expr is a TypeScript type expression.
type Expr interface {
	isExpr()
}

// Unknown prints as "unknown".
type Unknown struct{}

// Never prints as "never", the bottom type.
type Never struct{}

// Null prints as "null".
type Null struct{}

// Primitive is a built-in primitive type name: string, number, boolean.
type Primitive struct {
	Name string
}

// Literal is a single-value type over an already-rendered literal, for
// example `"post"`, `42` or `true`.
type Literal struct {
	Raw string
}

// Ref is a reference to a named type by identifier.
type Ref struct {
	Name string
}

// Array prints as Array<Elem>.
type Array struct {
	Elem Expr
}

// Generic prints as Name<Args...>.
type Generic struct {
	Name string
	Args []Expr
}

// Union prints as "A | B | C".
type Union struct {
	Members []Expr
}

// Intersection prints as "A & B".
type Intersection struct {
	Members []Expr
}

// Member is one attribute of an Object type literal.
type Member struct {
	Key      string
	Computed bool // renders the key as [Key] instead of a property name
	Optional bool
	Value    Expr
}

// Object is a structural type literal with members in declaration order.
type Object struct {
	Members []Member
}

// Commented attaches a trailing line comment to an expression, used to
// explain degraded output such as unresolved references.
type Commented struct {
	Expr    Expr
	Comment string
}

func (*Unknown) isExpr()      {}
func (*Never) isExpr()        {}
func (*Null) isExpr()         {}
func (*Primitive) isExpr()    {}
func (*Literal) isExpr()      {}
func (*Ref) isExpr()          {}
func (*Array) isExpr()        {}
func (*Generic) isExpr()      {}
func (*Union) isExpr()        {}
func (*Intersection) isExpr() {}
func (*Object) isExpr()       {}
func (*Commented) isExpr()    {}

// Decl is a top-level declaration.
type Decl interface {
	isDecl()
}

// TypeAlias is an exported "export type Name<Params> = Value;" declaration,
// optionally preceded by line comments.
type TypeAlias struct {
	Comments   []string
	Name       string
	TypeParams []string
	Value      Expr
}

// ConstSymbol is an "export declare const Name: unique symbol;" declaration.
type ConstSymbol struct {
	Name string
}

// MapEntry is one entry of a ModuleInterface.
type MapEntry struct {
	Key   string // quoted verbatim as a string key
	Value Expr
}

// ModuleInterface augments an interface inside an external module
// declaration:
//
//	declare module "mod" {
//	  interface Name { "key": Value; }
//	}
type ModuleInterface struct {
	Comment string
	Module  string
	Name    string
	Entries []MapEntry
}

// Comment is a standalone line comment declaration.
type Comment struct {
	Text string
}

func (*TypeAlias) isDecl()       {}
func (*ConstSymbol) isDecl()     {}
func (*ModuleInterface) isDecl() {}
func (*Comment) isDecl()         {}

// File is an ordered list of declarations.
type File struct {
	Decls []Decl
}
