package groq

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// The parser covers the slice of GROQ the static evaluator understands:
// a dataset query "*" followed by any number of filters, projections,
// element accesses and slices. Anything outside that surface is rejected
// with a ParseError rather than guessed at.
//
//	query      := '*' suffix*
//	suffix     := '[' condition ']' | '[' int ']' | '[' int '...' int ']'
//	            | '{' field (',' field)* ','? '}'
//	condition  := and ('||' and)*
//	and        := term ('&&' term)*
//	term       := ident '==' string | '(' condition ')'
//	field      := ident | ident '{' … '}' | string ':' ident

// ParseError reports where and why a query could not be parsed.
type ParseError struct {
	Query string
	Pos   int
	Msg   string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("cannot parse query at offset %d: %s", e.Pos, e.Msg)
}

type tokenType int

const (
	tokEOF tokenType = iota
	tokStar
	tokLBracket
	tokRBracket
	tokLBrace
	tokRBrace
	tokLParen
	tokRParen
	tokComma
	tokColon
	tokEq
	tokAndAnd
	tokOrOr
	tokEllipsis
	tokIdent
	tokString
	tokNumber
)

type token struct {
	typ  tokenType
	text string
	pos  int
}

type lexer struct {
	src string
	pos int
}

func (l *lexer) errorf(pos int, format string, args ...any) error {
	return &ParseError{Query: l.src, Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

func (l *lexer) next() (token, error) {
	for l.pos < len(l.src) && unicode.IsSpace(rune(l.src[l.pos])) {
		l.pos++
	}
	if l.pos >= len(l.src) {
		return token{typ: tokEOF, pos: l.pos}, nil
	}

	start := l.pos
	c := l.src[l.pos]
	switch c {
	case '*':
		l.pos++
		return token{typ: tokStar, pos: start}, nil
	case '[':
		l.pos++
		return token{typ: tokLBracket, pos: start}, nil
	case ']':
		l.pos++
		return token{typ: tokRBracket, pos: start}, nil
	case '{':
		l.pos++
		return token{typ: tokLBrace, pos: start}, nil
	case '}':
		l.pos++
		return token{typ: tokRBrace, pos: start}, nil
	case '(':
		l.pos++
		return token{typ: tokLParen, pos: start}, nil
	case ')':
		l.pos++
		return token{typ: tokRParen, pos: start}, nil
	case ',':
		l.pos++
		return token{typ: tokComma, pos: start}, nil
	case ':':
		l.pos++
		return token{typ: tokColon, pos: start}, nil
	case '=':
		if strings.HasPrefix(l.src[l.pos:], "==") {
			l.pos += 2
			return token{typ: tokEq, pos: start}, nil
		}
		return token{}, l.errorf(start, "unexpected %q", "=")
	case '&':
		if strings.HasPrefix(l.src[l.pos:], "&&") {
			l.pos += 2
			return token{typ: tokAndAnd, pos: start}, nil
		}
		return token{}, l.errorf(start, "unexpected %q", "&")
	case '|':
		if strings.HasPrefix(l.src[l.pos:], "||") {
			l.pos += 2
			return token{typ: tokOrOr, pos: start}, nil
		}
		return token{}, l.errorf(start, "unexpected %q", "|")
	case '.':
		if strings.HasPrefix(l.src[l.pos:], "...") {
			l.pos += 3
			return token{typ: tokEllipsis, pos: start}, nil
		}
		return token{}, l.errorf(start, "unexpected %q", ".")
	case '"', '\'':
		return l.lexString(c)
	}

	if unicode.IsDigit(rune(c)) {
		for l.pos < len(l.src) && unicode.IsDigit(rune(l.src[l.pos])) {
			l.pos++
		}
		return token{typ: tokNumber, text: l.src[start:l.pos], pos: start}, nil
	}
	if isIdentStart(rune(c)) {
		for l.pos < len(l.src) && isIdentPart(rune(l.src[l.pos])) {
			l.pos++
		}
		return token{typ: tokIdent, text: l.src[start:l.pos], pos: start}, nil
	}
	return token{}, l.errorf(start, "unsupported character %q", string(c))
}

func (l *lexer) lexString(quote byte) (token, error) {
	start := l.pos
	l.pos++
	var b strings.Builder
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		switch c {
		case quote:
			l.pos++
			return token{typ: tokString, text: b.String(), pos: start}, nil
		case '\\':
			if l.pos+1 >= len(l.src) {
				return token{}, l.errorf(start, "unterminated string")
			}
			l.pos++
			b.WriteByte(l.src[l.pos])
			l.pos++
		default:
			b.WriteByte(c)
			l.pos++
		}
	}
	return token{}, l.errorf(start, "unterminated string")
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return isIdentStart(r) || unicode.IsDigit(r)
}

// Query AST.

type query struct {
	steps []step
}

type step interface {
	isStep()
}

// filterStep keeps dataset members satisfying cond.
type filterStep struct {
	cond cond
}

// elementStep is a single element access, such as [0].
type elementStep struct{}

// sliceStep is a range access, which keeps the array shape.
type sliceStep struct{}

// projectStep maps elements to a subset of their attributes.
type projectStep struct {
	fields []projField
}

func (*filterStep) isStep()  {}
func (*elementStep) isStep() {}
func (*sliceStep) isStep()   {}
func (*projectStep) isStep() {}

type projField struct {
	// Alias is the emitted attribute name; Attr is the source attribute.
	Alias string
	Attr  string
	// Sub projects into the attribute's own object value when non-nil.
	Sub []projField
}

type cond interface {
	isCond()
}

type eqCond struct {
	attr  string
	value string
}

type orCond struct {
	members []cond
}

type andCond struct {
	members []cond
}

func (*eqCond) isCond()  {}
func (*orCond) isCond()  {}
func (*andCond) isCond() {}

type parser struct {
	lex  *lexer
	tok  token
	prev token
}

func parse(src string) (*query, error) {
	p := &parser{lex: &lexer{src: src}}
	if err := p.advance(); err != nil {
		return nil, err
	}
	if p.tok.typ != tokStar {
		return nil, p.errorf("query must start with *")
	}
	if err := p.advance(); err != nil {
		return nil, err
	}

	q := &query{}
	for p.tok.typ != tokEOF {
		switch p.tok.typ {
		case tokLBracket:
			s, err := p.bracketStep()
			if err != nil {
				return nil, err
			}
			q.steps = append(q.steps, s)
		case tokLBrace:
			s, err := p.projection()
			if err != nil {
				return nil, err
			}
			q.steps = append(q.steps, s)
		default:
			return nil, p.errorf("unexpected token")
		}
	}
	return q, nil
}

func (p *parser) advance() error {
	p.prev = p.tok
	tok, err := p.lex.next()
	if err != nil {
		return err
	}
	p.tok = tok
	return nil
}

func (p *parser) expect(typ tokenType, what string) error {
	if p.tok.typ != typ {
		return p.errorf("expected %s", what)
	}
	return p.advance()
}

func (p *parser) errorf(format string, args ...any) error {
	return &ParseError{Query: p.lex.src, Pos: p.tok.pos, Msg: fmt.Sprintf(format, args...)}
}

func (p *parser) bracketStep() (step, error) {
	if err := p.advance(); err != nil { // consume '['
		return nil, err
	}
	if p.tok.typ == tokNumber {
		first := p.tok.text
		if err := p.advance(); err != nil {
			return nil, err
		}
		if p.tok.typ == tokEllipsis {
			if err := p.advance(); err != nil {
				return nil, err
			}
			if err := p.expect(tokNumber, "slice end"); err != nil {
				return nil, err
			}
			if err := p.expect(tokRBracket, "]"); err != nil {
				return nil, err
			}
			return &sliceStep{}, nil
		}
		if _, err := strconv.Atoi(first); err != nil {
			return nil, p.errorf("invalid index")
		}
		if err := p.expect(tokRBracket, "]"); err != nil {
			return nil, err
		}
		return &elementStep{}, nil
	}

	c, err := p.condition()
	if err != nil {
		return nil, err
	}
	if err := p.expect(tokRBracket, "]"); err != nil {
		return nil, err
	}
	return &filterStep{cond: c}, nil
}

func (p *parser) condition() (cond, error) {
	first, err := p.andCondition()
	if err != nil {
		return nil, err
	}
	members := []cond{first}
	for p.tok.typ == tokOrOr {
		if err := p.advance(); err != nil {
			return nil, err
		}
		next, err := p.andCondition()
		if err != nil {
			return nil, err
		}
		members = append(members, next)
	}
	if len(members) == 1 {
		return members[0], nil
	}
	return &orCond{members: members}, nil
}

func (p *parser) andCondition() (cond, error) {
	first, err := p.term()
	if err != nil {
		return nil, err
	}
	members := []cond{first}
	for p.tok.typ == tokAndAnd {
		if err := p.advance(); err != nil {
			return nil, err
		}
		next, err := p.term()
		if err != nil {
			return nil, err
		}
		members = append(members, next)
	}
	if len(members) == 1 {
		return members[0], nil
	}
	return &andCond{members: members}, nil
}

func (p *parser) term() (cond, error) {
	if p.tok.typ == tokLParen {
		if err := p.advance(); err != nil {
			return nil, err
		}
		c, err := p.condition()
		if err != nil {
			return nil, err
		}
		if err := p.expect(tokRParen, ")"); err != nil {
			return nil, err
		}
		return c, nil
	}

	if p.tok.typ != tokIdent {
		return nil, p.errorf("expected attribute name")
	}
	attr := p.tok.text
	if err := p.advance(); err != nil {
		return nil, err
	}
	if err := p.expect(tokEq, "=="); err != nil {
		return nil, err
	}
	if p.tok.typ != tokString {
		return nil, p.errorf("expected string literal")
	}
	value := p.tok.text
	if err := p.advance(); err != nil {
		return nil, err
	}
	return &eqCond{attr: attr, value: value}, nil
}

func (p *parser) projection() (step, error) {
	fields, err := p.fieldList()
	if err != nil {
		return nil, err
	}
	return &projectStep{fields: fields}, nil
}

func (p *parser) fieldList() ([]projField, error) {
	if err := p.advance(); err != nil { // consume '{'
		return nil, err
	}
	var fields []projField
	for p.tok.typ != tokRBrace {
		field, err := p.field()
		if err != nil {
			return nil, err
		}
		fields = append(fields, field)
		if p.tok.typ == tokComma {
			if err := p.advance(); err != nil {
				return nil, err
			}
			continue
		}
		break
	}
	if err := p.expect(tokRBrace, "}"); err != nil {
		return nil, err
	}
	return fields, nil
}

func (p *parser) field() (projField, error) {
	switch p.tok.typ {
	case tokIdent:
		name := p.tok.text
		if err := p.advance(); err != nil {
			return projField{}, err
		}
		if p.tok.typ == tokLBrace {
			sub, err := p.fieldList()
			if err != nil {
				return projField{}, err
			}
			return projField{Alias: name, Attr: name, Sub: sub}, nil
		}
		return projField{Alias: name, Attr: name}, nil
	case tokString:
		alias := p.tok.text
		if err := p.advance(); err != nil {
			return projField{}, err
		}
		if err := p.expect(tokColon, ":"); err != nil {
			return projField{}, err
		}
		if p.tok.typ != tokIdent {
			return projField{}, p.errorf("expected attribute name after alias")
		}
		attr := p.tok.text
		if err := p.advance(); err != nil {
			return projField{}, err
		}
		return projField{Alias: alias, Attr: attr}, nil
	default:
		return projField{}, p.errorf("expected projection field")
	}
}
