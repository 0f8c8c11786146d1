package tsast

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrint_SimpleAlias(t *testing.T) {
	decl := &TypeAlias{
		Name: "Slug",
		Value: &Object{Members: []Member{
			{Key: "current", Value: &Primitive{Name: "string"}},
			{Key: "source", Optional: true, Value: &Primitive{Name: "string"}},
		}},
	}

	expected := "export type Slug = {\n" +
		"  current: string;\n" +
		"  source?: string;\n" +
		"};\n"
	assert.Equal(t, expected, PrintDecl(decl))
}

func TestPrint_AliasWithCommentsAndUnion(t *testing.T) {
	decl := &TypeAlias{
		Comments: []string{"Source: ./src/queries.ts", "Variable: postsQuery"},
		Name:     "PostsQueryResult",
		Value:    &Union{Members: []Expr{&Ref{Name: "Post"}, &Null{}}},
	}

	expected := "// Source: ./src/queries.ts\n" +
		"// Variable: postsQuery\n" +
		"export type PostsQueryResult = Post | null;\n"
	assert.Equal(t, expected, PrintDecl(decl))
}

func TestPrint_NestedObjectIndentation(t *testing.T) {
	decl := &TypeAlias{
		Name: "Post",
		Value: &Object{Members: []Member{
			{Key: "slug", Value: &Object{Members: []Member{
				{Key: "current", Value: &Primitive{Name: "string"}},
			}}},
		}},
	}

	expected := "export type Post = {\n" +
		"  slug: {\n" +
		"    current: string;\n" +
		"  };\n" +
		"};\n"
	assert.Equal(t, expected, PrintDecl(decl))
}

func TestPrint_ArrayAndGenerics(t *testing.T) {
	assert.Equal(t, "Array<string>", PrintExpr(&Array{Elem: &Primitive{Name: "string"}}))
	assert.Equal(t, "ArrayOfKeyed<InlineImage>",
		PrintExpr(&Generic{Name: "ArrayOfKeyed", Args: []Expr{&Ref{Name: "InlineImage"}}}))
}

func TestPrint_TypeParams(t *testing.T) {
	decl := &TypeAlias{
		Name:       "ArrayOfKeyed",
		TypeParams: []string{"T"},
		Value: &Array{Elem: &Intersection{Members: []Expr{
			&Ref{Name: "T"},
			&Object{Members: []Member{{Key: "_key", Value: &Primitive{Name: "string"}}}},
		}}},
	}

	expected := "export type ArrayOfKeyed<T> = Array<T & {\n" +
		"  _key: string;\n" +
		"}>;\n"
	assert.Equal(t, expected, PrintDecl(decl))
}

func TestPrint_NestedUnionParenthesized(t *testing.T) {
	expr := &Union{Members: []Expr{
		&Array{Elem: &Primitive{Name: "string"}},
		&Intersection{Members: []Expr{&Ref{Name: "A"}, &Ref{Name: "B"}}},
	}}

	assert.Equal(t, "Array<string> | (A & B)", PrintExpr(expr))
}

func TestPrint_EmptyUnionIsNever(t *testing.T) {
	assert.Equal(t, "never", PrintExpr(&Union{}))
	assert.Equal(t, "never", PrintExpr(&Never{}))
}

func TestPrint_QuotedAndComputedKeys(t *testing.T) {
	expr := &Object{Members: []Member{
		{Key: "valid_key$", Value: &Primitive{Name: "string"}},
		{Key: "kebab-key", Value: &Primitive{Name: "number"}},
		{Key: "internalGroqTypeReferenceTo", Computed: true, Optional: true, Value: &Literal{Raw: `"author"`}},
	}}

	expected := "{\n" +
		"  valid_key$: string;\n" +
		"  \"kebab-key\": number;\n" +
		"  [internalGroqTypeReferenceTo]?: \"author\";\n" +
		"}"
	assert.Equal(t, expected, PrintExpr(expr))
}

func TestPrint_CommentedExpr(t *testing.T) {
	expr := &Commented{
		Expr:    &Unknown{},
		Comment: `Unable to locate the referenced type "seo" in schema`,
	}

	assert.Equal(t, `unknown /* Unable to locate the referenced type "seo" in schema */`, PrintExpr(expr))
}

func TestPrint_ConstSymbolAndModuleInterface(t *testing.T) {
	file := &File{Decls: []Decl{
		&ConstSymbol{Name: "internalGroqTypeReferenceTo"},
		&ModuleInterface{
			Comment: "Query TypeMap",
			Module:  "@sanity/client",
			Name:    "SanityQueries",
			Entries: []MapEntry{
				{Key: `*[_type == "foo"]`, Value: &Ref{Name: "FooQueryResult"}},
			},
		},
	}}

	expected := "export declare const internalGroqTypeReferenceTo: unique symbol;\n" +
		"\n" +
		"// Query TypeMap\n" +
		"import \"@sanity/client\";\n" +
		"declare module \"@sanity/client\" {\n" +
		"  interface SanityQueries {\n" +
		"    \"*[_type == \\\"foo\\\"]\": FooQueryResult;\n" +
		"  }\n" +
		"}\n"
	assert.Equal(t, expected, Print(file))
}
