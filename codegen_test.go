package codegen

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const e2eSchema = `[
  {
    "name": "post",
    "type": "document",
    "attributes": {
      "_id": {"type": "objectAttribute", "value": {"type": "string"}},
      "_type": {"type": "objectAttribute", "value": {"type": "string", "value": "post"}},
      "title": {"type": "objectAttribute", "value": {"type": "string"}, "optional": true},
      "views": {"type": "objectAttribute", "value": {"type": "number"}}
    }
  },
  {
    "name": "author",
    "type": "document",
    "attributes": {
      "_id": {"type": "objectAttribute", "value": {"type": "string"}},
      "_type": {"type": "objectAttribute", "value": {"type": "string", "value": "author"}},
      "name": {"type": "objectAttribute", "value": {"type": "string"}}
    }
  }
]`

func writeSchema(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "schema.json")
	require.NoError(t, os.WriteFile(path, []byte(e2eSchema), 0o644))
	return path
}

func TestGenerate_EndToEnd(t *testing.T) {
	source := NewSliceSource(Module{
		Filename: "src/queries.ts",
		Queries: []Query{
			{Name: "allPosts", Text: `*[_type == "post"]{title}`},
		},
	})

	// Options deliberately leave the aggregate map at its default, which
	// must be enabled.
	res, err := Generate(context.Background(), GenerateOptions{
		SchemaPath: writeSchema(t),
		Source:     source,
	})
	require.NoError(t, err)

	assert.Contains(t, res.Code, "export type Post = {")
	assert.Contains(t, res.Code, "export type Author = {")
	assert.Contains(t, res.Code, "export type AllSanitySchemaTypes = Post | Author;")
	assert.Contains(t, res.Code, "export type AllPostsResult = Array<{")
	assert.Contains(t, res.Code, "declare module \"@sanity/client\"")

	require.Len(t, res.Modules, 1)
	assert.Equal(t, "AllPostsResult", res.Modules[0].Queries[0].Identifier)
}

func TestGenerate_SchemaOnly(t *testing.T) {
	res, err := Generate(context.Background(), GenerateOptions{
		SchemaPath: writeSchema(t),
	})
	require.NoError(t, err)
	assert.Contains(t, res.Code, "export declare const internalGroqTypeReferenceTo: unique symbol;")
	assert.Empty(t, res.Modules)
}

func TestGenerate_MissingManifest(t *testing.T) {
	_, err := Generate(context.Background(), GenerateOptions{
		SchemaPath: filepath.Join(t.TempDir(), "missing.json"),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read schema manifest")
}

func TestGenerate_MalformedManifest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schema.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := Generate(context.Background(), GenerateOptions{SchemaPath: path})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse schema manifest")
}
