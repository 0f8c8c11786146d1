package typenode

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCountStats_CountsEveryNodeOnce(t *testing.T) {
	node := &Array{
		Of: &Object{
			Attributes: []ObjectAttribute{
				{Key: "_id", Value: &String{}},
				{Key: "title", Value: &Union{Of: []Node{&String{}, &Null{}}}, Optional: true},
			},
		},
	}

	s := CountStats(node)

	// array + object + string + union + string + null
	assert.Equal(t, 6, s.AllTypes)
	assert.Equal(t, 0, s.UnknownTypes)
	assert.Equal(t, 0, s.EmptyUnions)
}

func TestCountStats_UnknownAndEmptyUnion(t *testing.T) {
	node := &Object{
		Attributes: []ObjectAttribute{
			{Key: "a", Value: &Unknown{}},
			{Key: "b", Value: &Union{}},
		},
		Rest: &Unknown{},
	}

	s := CountStats(node)

	assert.Equal(t, 4, s.AllTypes)
	assert.Equal(t, 2, s.UnknownTypes)
	assert.Equal(t, 1, s.EmptyUnions)
}

func TestCountStats_NilNode(t *testing.T) {
	assert.Equal(t, Stats{}, CountStats(nil))
}

func TestObject_Attribute(t *testing.T) {
	obj := &Object{
		Attributes: []ObjectAttribute{
			{Key: "_type", Value: StringLiteral("post")},
			{Key: "slug", Value: &String{}, Optional: true},
		},
	}

	attr, ok := obj.Attribute("slug")
	assert.True(t, ok)
	assert.True(t, attr.Optional)

	_, ok = obj.Attribute("missing")
	assert.False(t, ok)
}
