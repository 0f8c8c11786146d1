package naming

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"simple word", "post", "Post"},
		{"already pascal", "BlogPost", "BlogPost"},
		{"kebab case", "blog-post", "BlogPost"},
		{"snake case", "blog_post", "Blog_post"},
		{"dotted", "my.type.name", "MyTypeName"},
		{"spaces", "hero banner", "HeroBanner"},
		{"leading digit", "1abc", "_abc"},
		{"dollar preserved", "$special", "$special"},
		{"separator runs collapse", "a--b", "AB"},
		{"leading separator", "-foo", "Foo"},
		{"empty input", "", "_"},
		{"only separators", "--- ---", "_"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Sanitize(tt.input))
		})
	}
}

func TestUniqueIdentifier_NoCollision(t *testing.T) {
	current := map[string]struct{}{"Foo": {}}
	assert.Equal(t, "Bar", UniqueIdentifier("bar", current))
}

func TestUniqueIdentifier_Collision(t *testing.T) {
	current := map[string]struct{}{"Foo": {}}
	assert.Equal(t, "Foo_2", UniqueIdentifier("foo", current))

	current["Foo_2"] = struct{}{}
	assert.Equal(t, "Foo_3", UniqueIdentifier("foo", current))
}

func TestIsReserved(t *testing.T) {
	assert.True(t, IsReserved("string"))
	assert.True(t, IsReserved("never"))
	assert.False(t, IsReserved("String"))
	assert.False(t, IsReserved("Post"))
}

func TestUniqueIdentifier_DoesNotMutate(t *testing.T) {
	current := map[string]struct{}{"Foo": {}}
	_ = UniqueIdentifier("bar", current)
	assert.Len(t, current, 1)
}

func TestReservations_Sequential(t *testing.T) {
	r := NewReservations(nil)
	r.Seed("InlineSlug")

	assert.Equal(t, "InlineSlug_2", r.Reserve("InlineSlug"))
	assert.Equal(t, "InlineItem", r.Reserve("inline-item"))
	assert.Equal(t, "InlineItem_2", r.Reserve("inline-item"))
	assert.True(t, r.Has("InlineItem_2"))
	assert.False(t, r.Has("InlineItem_3"))
}
