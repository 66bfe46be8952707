package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type widget struct {
	ID   int64
	Name string
}

func TestEntityRegistryResolvesBothKeys(t *testing.T) {
	reg := NewEntityRegistry()
	def := reg.Register("widgets", "widget", widget{})

	plural, ok := reg.Lookup("widgets")
	require.True(t, ok)
	singular, ok := reg.Lookup("widget")
	require.True(t, ok)

	assert.Same(t, def, plural)
	assert.Same(t, def, singular)
	assert.Equal(t, "widget", def.Type.Name())
}

func TestEntityRegistryAcceptsPointerPrototype(t *testing.T) {
	reg := NewEntityRegistry()
	def := reg.Register("widgets", "widget", &widget{})

	require.NotNil(t, def.Type)
	assert.Equal(t, "widget", def.Type.Name())
}

func TestEntityRegistryReplacesPriorRegistration(t *testing.T) {
	type gadget struct{ ID int64 }

	reg := NewEntityRegistry()
	reg.Register("widgets", "widget", widget{})
	def := reg.Register("widgets", "widget", gadget{})

	got, err := reg.Get("widget")
	require.NoError(t, err)
	assert.Same(t, def, got)
}

func TestEntityRegistryGetUnknown(t *testing.T) {
	reg := NewEntityRegistry()

	_, err := reg.Get("ghosts")
	assert.ErrorIs(t, err, ErrEntityNotFound)
}

func TestEntityRegistryNamesAreDistinctPlurals(t *testing.T) {
	reg := NewEntityRegistry()
	reg.Register("widgets", "widget", widget{})
	reg.Register("anchors", "anchor", widget{})

	assert.Equal(t, []string{"anchors", "widgets"}, reg.Names())
}

func TestDefaultInflector(t *testing.T) {
	inf := DefaultInflector()

	assert.Equal(t, "widget", inf.Singular("widgets"))
	assert.Equal(t, "widgets", inf.Plural("widget"))
	assert.Equal(t, "category", inf.Singular("categories"))
}
