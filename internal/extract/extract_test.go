package extract

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanity-io/codegen/internal/generator"
)

func TestExtractQueries_TaggedTemplate(t *testing.T) {
	src := "import groq from \"groq\";\n" +
		"export const postsQuery = groq`*[_type == \"post\"]`;\n"

	queries := ExtractQueries(src)
	require.Len(t, queries, 1)
	assert.Equal(t, "postsQuery", queries[0].Name)
	assert.Equal(t, `*[_type == "post"]`, queries[0].Text)
}

func TestExtractQueries_DefineQuery(t *testing.T) {
	src := "const authors = defineQuery(\"*[_type == \\\"author\\\"]\");\n" +
		"let drafts = defineQuery('*[_id == \"drafts.x\"]');\n" +
		"var all = defineQuery(`*`);\n"

	queries := ExtractQueries(src)
	require.Len(t, queries, 3)
	assert.Equal(t, generator.Query{Name: "authors", Text: `*[_type == "author"]`}, queries[0])
	assert.Equal(t, generator.Query{Name: "drafts", Text: `*[_id == "drafts.x"]`}, queries[1])
	assert.Equal(t, generator.Query{Name: "all", Text: "*"}, queries[2])
}

func TestExtractQueries_MixedFormsKeepSourceOrder(t *testing.T) {
	src := "const b = defineQuery(`*[_type == \"b\"]`);\n" +
		"const a = groq`*[_type == \"a\"]`;\n" +
		"const c = defineQuery(`*[_type == \"c\"]`);\n"

	queries := ExtractQueries(src)
	require.Len(t, queries, 3)
	assert.Equal(t, []string{"b", "a", "c"},
		[]string{queries[0].Name, queries[1].Name, queries[2].Name})
}

func TestExtractQueries_MultilineTemplate(t *testing.T) {
	src := "export const q = groq`*[_type == \"post\"]{\n  title,\n  body\n}`;\n"

	queries := ExtractQueries(src)
	require.Len(t, queries, 1)
	assert.Contains(t, queries[0].Text, "\n  title,")
}

func TestExtractQueries_NoBindings(t *testing.T) {
	assert.Empty(t, ExtractQueries("const n = 1;\nclient.fetch(\"*\")\n"))
}

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}

func drain(t *testing.T, src generator.QuerySource) []generator.Module {
	t.Helper()
	var modules []generator.Module
	for {
		m, err := src.Next(context.Background())
		if errors.Is(err, generator.ErrEndOfSource) {
			return modules
		}
		require.NoError(t, err)
		modules = append(modules, m)
	}
}

func TestScanner_Source(t *testing.T) {
	root := writeTree(t, map[string]string{
		"src/a.ts":                  "export const a = groq`*[_type == \"a\"]`;\n",
		"src/b.ts":                  "export const b = defineQuery(`*[_type == \"b\"]`);\n",
		"src/empty.ts":              "const n = 1;\n",
		"node_modules/dep/index.ts": "export const dep = groq`*`;\n",
		"README.md":                 "const md = groq`*`;\n",
	})

	s, err := NewScanner(root, []string{"**.ts"}, []string{"**node_modules**"}, nil)
	require.NoError(t, err)

	modules := drain(t, s.Source(context.Background()))
	require.Len(t, modules, 2)

	// Lexical walk order.
	assert.Equal(t, filepath.Join(root, "src", "a.ts"), modules[0].Filename)
	assert.Equal(t, filepath.Join(root, "src", "b.ts"), modules[1].Filename)
	assert.Equal(t, "a", modules[0].Queries[0].Name)
	assert.Equal(t, "b", modules[1].Queries[0].Name)
}

func TestScanner_BadPattern(t *testing.T) {
	_, err := NewScanner(".", []string{"[invalid"}, nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid include pattern")
}

func TestScanner_Files_MissingRoot(t *testing.T) {
	s, err := NewScanner(filepath.Join(t.TempDir(), "nope"), []string{"**.ts"}, nil, nil)
	require.NoError(t, err)

	_, err = s.Files()
	require.Error(t, err)

	src := s.Source(context.Background())
	_, err = src.Next(context.Background())
	require.Error(t, err)
	assert.False(t, errors.Is(err, generator.ErrEndOfSource))
}
