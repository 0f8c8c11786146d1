package naming

// reservedWords are TypeScript keywords and built-in type names that
// generated identifiers must never shadow. A sanitized name that lands on
// one of these is suffixed exactly as if it collided with an existing
// identifier.
var reservedWords = map[string]struct{}{
	"any":       {},
	"boolean":   {},
	"break":     {},
	"case":      {},
	"catch":     {},
	"class":     {},
	"const":     {},
	"continue":  {},
	"debugger":  {},
	"default":   {},
	"delete":    {},
	"do":        {},
	"else":      {},
	"enum":      {},
	"export":    {},
	"extends":   {},
	"false":     {},
	"finally":   {},
	"for":       {},
	"function":  {},
	"if":        {},
	"import":    {},
	"in":        {},
	"instanceof": {},
	"interface": {},
	"never":     {},
	"new":       {},
	"null":      {},
	"number":    {},
	"object":    {},
	"return":    {},
	"string":    {},
	"super":     {},
	"switch":    {},
	"symbol":    {},
	"this":      {},
	"throw":     {},
	"true":      {},
	"try":       {},
	"typeof":    {},
	"undefined": {},
	"unknown":   {},
	"var":       {},
	"void":      {},
	"while":     {},
	"with":      {},
}

// IsReserved reports whether name is a reserved word in the output language.
func IsReserved(name string) bool {
	_, ok := reservedWords[name]
	return ok
}
