package tsast

import (
	"strconv"
	"strings"
	"unicode"
)

const indentUnit = "  "

// Print renders a file as TypeScript declaration source. Output is
// deterministic for a given tree.
func Print(f *File) string {
	p := &printer{}
	for i, decl := range f.Decls {
		if i > 0 {
			p.b.WriteByte('\n')
		}
		p.decl(decl)
	}
	return p.b.String()
}

// PrintDecl renders a single declaration.
func PrintDecl(d Decl) string {
	p := &printer{}
	p.decl(d)
	return p.b.String()
}

// PrintExpr renders a single type expression at the top level.
func PrintExpr(e Expr) string {
	p := &printer{}
	p.expr(e, 0)
	return p.b.String()
}

type printer struct {
	b strings.Builder
}

func (p *printer) decl(d Decl) {
	switch decl := d.(type) {
	case *TypeAlias:
		for _, c := range decl.Comments {
			p.b.WriteString("// ")
			p.b.WriteString(c)
			p.b.WriteByte('\n')
		}
		p.b.WriteString("export type ")
		p.b.WriteString(decl.Name)
		if len(decl.TypeParams) > 0 {
			p.b.WriteByte('<')
			p.b.WriteString(strings.Join(decl.TypeParams, ", "))
			p.b.WriteByte('>')
		}
		p.b.WriteString(" = ")
		p.expr(decl.Value, 0)
		p.b.WriteString(";\n")
	case *ConstSymbol:
		p.b.WriteString("export declare const ")
		p.b.WriteString(decl.Name)
		p.b.WriteString(": unique symbol;\n")
	case *ModuleInterface:
		if decl.Comment != "" {
			p.b.WriteString("// ")
			p.b.WriteString(decl.Comment)
			p.b.WriteByte('\n')
		}
		p.b.WriteString("import ")
		p.b.WriteString(strconv.Quote(decl.Module))
		p.b.WriteString(";\n")
		p.b.WriteString("declare module ")
		p.b.WriteString(strconv.Quote(decl.Module))
		p.b.WriteString(" {\n")
		p.b.WriteString(indentUnit)
		p.b.WriteString("interface ")
		p.b.WriteString(decl.Name)
		p.b.WriteString(" {\n")
		for _, entry := range decl.Entries {
			p.b.WriteString(indentUnit)
			p.b.WriteString(indentUnit)
			p.b.WriteString(strconv.Quote(entry.Key))
			p.b.WriteString(": ")
			p.expr(entry.Value, 2)
			p.b.WriteString(";\n")
		}
		p.b.WriteString(indentUnit)
		p.b.WriteString("}\n")
		p.b.WriteString("}\n")
	case *Comment:
		p.b.WriteString("// ")
		p.b.WriteString(decl.Text)
		p.b.WriteByte('\n')
	}
}

func (p *printer) expr(e Expr, depth int) {
	switch expr := e.(type) {
	case *Unknown:
		p.b.WriteString("unknown")
	case *Never:
		p.b.WriteString("never")
	case *Null:
		p.b.WriteString("null")
	case *Primitive:
		p.b.WriteString(expr.Name)
	case *Literal:
		p.b.WriteString(expr.Raw)
	case *Ref:
		p.b.WriteString(expr.Name)
	case *Array:
		p.b.WriteString("Array<")
		p.expr(expr.Elem, depth)
		p.b.WriteByte('>')
	case *Generic:
		p.b.WriteString(expr.Name)
		p.b.WriteByte('<')
		for i, arg := range expr.Args {
			if i > 0 {
				p.b.WriteString(", ")
			}
			p.expr(arg, depth)
		}
		p.b.WriteByte('>')
	case *Union:
		p.joined(expr.Members, " | ", depth)
	case *Intersection:
		p.joined(expr.Members, " & ", depth)
	case *Object:
		if len(expr.Members) == 0 {
			p.b.WriteString("{}")
			return
		}
		p.b.WriteString("{\n")
		inner := strings.Repeat(indentUnit, depth+1)
		for _, member := range expr.Members {
			p.b.WriteString(inner)
			if member.Computed {
				p.b.WriteByte('[')
				p.b.WriteString(member.Key)
				p.b.WriteByte(']')
			} else {
				p.b.WriteString(propertyKey(member.Key))
			}
			if member.Optional {
				p.b.WriteByte('?')
			}
			p.b.WriteString(": ")
			p.expr(member.Value, depth+1)
			p.b.WriteString(";\n")
		}
		p.b.WriteString(strings.Repeat(indentUnit, depth))
		p.b.WriteByte('}')
	case *Commented:
		p.expr(expr.Expr, depth)
		p.b.WriteString(" /* ")
		p.b.WriteString(expr.Comment)
		p.b.WriteString(" */")
	}
}

// joined renders members separated by sep, parenthesizing nested unions and
// intersections so operator precedence survives round trips.
func (p *printer) joined(members []Expr, sep string, depth int) {
	if len(members) == 0 {
		p.b.WriteString("never")
		return
	}
	for i, member := range members {
		if i > 0 {
			p.b.WriteString(sep)
		}
		switch member.(type) {
		case *Union, *Intersection:
			p.b.WriteByte('(')
			p.expr(member, depth)
			p.b.WriteByte(')')
		default:
			p.expr(member, depth)
		}
	}
}

// propertyKey renders a member key bare when it is a valid identifier,
// quoted otherwise.
func propertyKey(key string) string {
	if isIdentifier(key) {
		return key
	}
	return strconv.Quote(key)
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		valid := r == '_' || r == '$' || unicode.IsLetter(r)
		if i > 0 {
			valid = valid || unicode.IsDigit(r)
		}
		if !valid {
			return false
		}
	}
	return true
}
