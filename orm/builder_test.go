package orm

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilderRegisterDefaultsDataset(t *testing.T) {
	b := newBuilder(New(memorySettings()))
	b.Relation("widgets")

	defs := b.Defs()
	require.Len(t, defs, 1)
	assert.Equal(t, "widgets", defs[0].Dataset)
}

func TestBuilderRegisterOverwrites(t *testing.T) {
	b := newBuilder(New(memorySettings()))
	b.Register(RelationDef{Name: "widgets", Dataset: "widgets_v1"})
	b.Register(RelationDef{Name: "widgets", Dataset: "widgets_v2"})

	defs := b.Defs()
	require.Len(t, defs, 1)
	assert.Equal(t, "widgets_v2", defs[0].Dataset)
}

func TestBuilderAutoRegister(t *testing.T) {
	dir := t.TempDir()
	single := []byte("relation: widgets\nskip_schema: true\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "widgets.yaml"), single, 0644))
	list := []byte("- relation: anchors\n  skip_schema: true\n- relation: chains\n  dataset: chain_links\n  skip_schema: true\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "more.yml"), list, 0644))
	// Non-YAML files are ignored.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("ignored"), 0644))

	b := newBuilder(New(memorySettings()))
	require.NoError(t, b.AutoRegister(dir))

	defs := b.Defs()
	require.Len(t, defs, 3)
	assert.Equal(t, "anchors", defs[0].Name)
	assert.Equal(t, "chain_links", defs[1].Dataset)
	assert.Equal(t, "widgets", defs[2].Name)
}

func TestBuilderAutoRegisterRejectsNamelessDefinition(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.yaml"), []byte("dataset: widgets\n"), 0644))

	b := newBuilder(New(memorySettings()))
	assert.Error(t, b.AutoRegister(dir))
}

func TestBuilderAutoRegisterMissingDir(t *testing.T) {
	b := newBuilder(New(memorySettings()))
	assert.Error(t, b.AutoRegister(filepath.Join(t.TempDir(), "missing")))
}

func TestBuildSkipsSchemaInferenceWhenAsked(t *testing.T) {
	cfg := New(memorySettings())
	b := cfg.Builder()
	b.Register(RelationDef{Name: "widgets", SkipSchema: true})

	container, err := b.Build(context.Background())
	require.NoError(t, err)

	rel, err := container.Relation("widgets")
	require.NoError(t, err)
	assert.Nil(t, rel.Schema)
	assert.NotEmpty(t, container.ID())
}

func TestBuildFailsOnMissingTable(t *testing.T) {
	cfg := New(memorySettings())
	b := cfg.Builder()
	b.Relation("ghosts")

	_, err := b.Build(context.Background())
	assert.Error(t, err)
}

func TestContainerLookups(t *testing.T) {
	cfg := New(memorySettings())
	b := cfg.Builder()
	b.Register(RelationDef{Name: "widgets", SkipSchema: true})

	container, err := b.Build(context.Background())
	require.NoError(t, err)

	_, err = container.Relation("ghosts")
	assert.Error(t, err)
	_, err = container.Gateway("replica")
	assert.Error(t, err)
	assert.Equal(t, []string{"widgets"}, container.Relations())
	assert.Empty(t, container.Schemas())
}
