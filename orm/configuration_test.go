package orm

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"tether/config"
	"tether/core"
	"tether/gateway"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type widget struct {
	ID   int64
	Name string
}

type widgetRepo struct {
	rel *Relation
}

func (r *widgetRepo) RelationName() string       { return "widgets" }
func (r *widgetRepo) EntityName() string         { return "" }
func (r *widgetRepo) NewEntity() any             { return widget{} }
func (r *widgetRepo) BindRelation(rel *Relation) { r.rel = rel }

func memorySettings() *config.Settings {
	s := &config.Settings{Backend: "sqlite", URL: "sqlite::memory", Root: "."}
	s.ResolvePaths()
	return s
}

func createWidgetsTable(b *Builder) error {
	db, err := b.Connection()
	if err != nil {
		return err
	}
	_, err = db.Exec(`CREATE TABLE widgets (id INTEGER PRIMARY KEY, name TEXT NOT NULL, secret_ref TEXT)`)
	return err
}

func TestURLBlankFailsEveryCall(t *testing.T) {
	s := memorySettings()
	s.URL = ""
	cfg := New(s)

	for i := 0; i < 2; i++ {
		_, err := cfg.URL()
		require.Error(t, err)
		var cerr *ConfigurationError
		require.ErrorAs(t, err, &cerr)
		assert.ErrorIs(t, err, core.ErrBlankURL)
	}

	_, err := cfg.Gateway()
	assert.ErrorIs(t, err, core.ErrBlankURL)
	_, err = cfg.Connection()
	assert.ErrorIs(t, err, core.ErrBlankURL)
}

func TestContainerBeforeLoad(t *testing.T) {
	cfg := New(memorySettings())

	_, err := cfg.Container()
	assert.ErrorIs(t, err, core.ErrNotLoaded)
}

func TestGatewayIsMemoized(t *testing.T) {
	cfg := New(memorySettings())

	first, err := cfg.Gateway()
	require.NoError(t, err)
	second, err := cfg.Gateway()
	require.NoError(t, err)
	assert.Same(t, first, second)
}

func TestDefineMappingsOverwrites(t *testing.T) {
	cfg := New(memorySettings())

	cfg.DefineMappings("widgets", func(m *core.Mapping) { m.Attribute("A", "a") })
	cfg.DefineMappings("widgets", func(m *core.Mapping) { m.Attribute("B", "b") })

	m := cfg.Mappings()["widgets"]
	require.NotNil(t, m)
	assert.NotContains(t, m.Attributes, "A")
	assert.Equal(t, "b", m.Attributes["B"])
}

func TestRegisterEntityBothKeys(t *testing.T) {
	cfg := New(memorySettings())
	def := cfg.RegisterEntity("widgets", "widget", widget{})

	plural, ok := cfg.Entities().Lookup("widgets")
	require.True(t, ok)
	singular, ok := cfg.Entities().Lookup("widget")
	require.True(t, ok)
	assert.Same(t, def, plural)
	assert.Same(t, def, singular)
}

func TestLoadScenario(t *testing.T) {
	cfg := New(memorySettings())
	cfg.DefineMappings("widgets", func(m *core.Mapping) {
		m.Attribute("DisplayName", "name").Exclude("secret_ref")
	})

	repo := &widgetRepo{}
	container, err := cfg.Load(context.Background(), []Repository{repo}, createWidgetsTable)
	require.NoError(t, err)
	require.NotNil(t, container)

	// Entity registered under both names, schema attached.
	def, ok := cfg.Entities().Lookup("widgets")
	require.True(t, ok)
	bySingular, ok := cfg.Entities().Lookup("widget")
	require.True(t, ok)
	assert.Same(t, def, bySingular)

	require.NotNil(t, def.Schema)
	assert.Equal(t, "widgets", def.Schema.Relation)
	assert.Equal(t, "name", def.Schema.ColumnFor("DisplayName"))
	_, hasSecret := func() (core.Column, bool) {
		for _, c := range def.Schema.Columns {
			if c.Name == "secret_ref" {
				return c, true
			}
		}
		return core.Column{}, false
	}()
	assert.False(t, hasSecret, "excluded columns must not reach the entity schema")

	// Relation resolved with an introspected schema and bound to the repo.
	rel, err := container.Relation("widgets")
	require.NoError(t, err)
	require.NotNil(t, rel.Schema)
	assert.Equal(t, []string{"id"}, rel.Schema.PrimaryKey())
	assert.Same(t, rel, repo.rel)

	// The container is cached and idempotent.
	got, err := cfg.Container()
	require.NoError(t, err)
	assert.Same(t, container, got)

	again, err := cfg.Load(context.Background(), nil, nil)
	require.NoError(t, err)
	assert.Same(t, container, again)

	gw, err := container.Gateway(DefaultGatewayName)
	require.NoError(t, err)
	assert.Equal(t, "sqlite", gw.Backend())
}

func TestLoadWithoutEntitySchemaCapability(t *testing.T) {
	cfg := New(memorySettings(), WithoutEntitySchema())

	repo := &widgetRepo{}
	container, err := cfg.Load(context.Background(), []Repository{repo}, createWidgetsTable)
	require.NoError(t, err)
	require.NotNil(t, container)

	def, ok := cfg.Entities().Lookup("widgets")
	require.True(t, ok)
	assert.Nil(t, def.Schema, "absent capability must be a no-op, not an error")
}

func TestLoadGatewayCallbackFailure(t *testing.T) {
	cause := errors.New("gateway setup exploded")
	cfg := New(memorySettings(), WithGatewaySetup(func(*gateway.Gateway) error { return cause }))

	_, err := cfg.Load(context.Background(), nil, nil)
	require.Error(t, err)

	var berr *BootstrapError
	require.ErrorAs(t, err, &berr)
	assert.Equal(t, "gateway configuration", berr.Step)
	assert.ErrorIs(t, err, cause)

	_, err = cfg.Container()
	assert.ErrorIs(t, err, core.ErrNotLoaded)
}

func TestLoadSetupHookFailure(t *testing.T) {
	cause := errors.New("setup rejected")
	cfg := New(memorySettings())

	_, err := cfg.Load(context.Background(), nil, func(*Builder) error { return cause })
	var berr *BootstrapError
	require.ErrorAs(t, err, &berr)
	assert.Equal(t, "setup hook", berr.Step)
	assert.ErrorIs(t, err, cause)
}

// brokenDialect opens a working sqlite connection but fails catalog
// queries, standing in for a backend whose table enumeration breaks.
type brokenDialect struct{}

var errCatalog = errors.New("catalog unavailable")

func (brokenDialect) Name() string               { return "brokendb" }
func (brokenDialect) DSN(string) (string, error) { return ":memory:", nil }
func (brokenDialect) Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	return db, nil
}
func (brokenDialect) Configure(context.Context, *sql.DB) error { return nil }
func (brokenDialect) ListTables(context.Context, *sql.DB) ([]string, error) {
	return nil, errCatalog
}
func (brokenDialect) DescribeRelation(context.Context, *sql.DB, string) (*core.RelationSchema, error) {
	return nil, errCatalog
}

func TestLoadTableEnumerationFailure(t *testing.T) {
	gateway.RegisterDialect(brokenDialect{})

	s := &config.Settings{Backend: "brokendb", URL: "brokendb::memory", Root: "."}
	s.ResolvePaths()
	cfg := New(s)

	_, err := cfg.Load(context.Background(), nil, nil)
	require.Error(t, err)

	var berr *BootstrapError
	require.ErrorAs(t, err, &berr)
	assert.Equal(t, "table enumeration", berr.Step)
	assert.ErrorIs(t, err, errCatalog)

	_, err = cfg.Container()
	assert.ErrorIs(t, err, core.ErrNotLoaded)
}

func TestConfigureRepositoriesFailurePropagatesThroughLoad(t *testing.T) {
	cause := errors.New("configurer refused")
	cfg := New(memorySettings(), WithRepositoryConfigurer(failingConfigurer{cause}))

	_, err := cfg.Load(context.Background(), []Repository{&widgetRepo{}}, createWidgetsTable)
	var berr *BootstrapError
	require.ErrorAs(t, err, &berr)
	assert.Equal(t, "repository configuration", berr.Step)
	assert.ErrorIs(t, err, cause)
}

type failingConfigurer struct{ err error }

func (f failingConfigurer) Configure(Repository, *Configuration) error { return f.err }
