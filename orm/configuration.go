package orm

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"tether/config"
	"tether/core"
	"tether/gateway"
	"tether/schema"

	"go.uber.org/zap"
)

// DefaultGatewayName keys the single configured backend inside the
// container. The system supports exactly one backend at a time by
// construction; multi-backend support would key gateways by name
// throughout and is an explicit future extension.
const DefaultGatewayName = "default"

// GatewaySetup is the user-supplied gateway configuration callback,
// invoked once during bootstrap with the freshly constructed gateway.
type GatewaySetup func(*gateway.Gateway) error

// SetupHook is evaluated against the Builder before the container is
// built, the late-binding extension point of the bootstrap sequence.
type SetupHook func(*Builder) error

// Configuration collects adapter settings, lazily constructs the backing
// gateway and applies the fixed initialization order exactly once.
type Configuration struct {
	settings *config.Settings

	gatewaySetup  GatewaySetup
	configurer    RepositoryConfigurer
	schemaFactory schema.EntitySchemaFactory
	inflector     core.Inflector

	logger           *zap.SugaredLogger
	migrationsLogger *zap.SugaredLogger

	mappings map[string]*core.Mapping
	entities *core.EntityRegistry

	// Lazily initialized; check-then-set, not goroutine-safe.
	gw        *gateway.Gateway
	builder   *Builder
	container *Container
}

// Option customizes a Configuration at construction time.
type Option func(*Configuration)

// WithGatewaySetup installs the gateway configuration callback.
func WithGatewaySetup(fn GatewaySetup) Option {
	return func(c *Configuration) { c.gatewaySetup = fn }
}

// WithRepositoryConfigurer replaces the default repository configurer.
func WithRepositoryConfigurer(rc RepositoryConfigurer) Option {
	return func(c *Configuration) { c.configurer = rc }
}

// WithEntitySchemaFactory replaces the default entity-schema factory.
func WithEntitySchemaFactory(f schema.EntitySchemaFactory) Option {
	return func(c *Configuration) { c.schemaFactory = f }
}

// WithoutEntitySchema removes the entity-schema capability; entity wiring
// becomes a no-op, as in minimal deployments.
func WithoutEntitySchema() Option {
	return func(c *Configuration) { c.schemaFactory = nil }
}

// WithInflector replaces the default inflector.
func WithInflector(i core.Inflector) Option {
	return func(c *Configuration) { c.inflector = i }
}

// WithLogger installs the configuration logger, forwarded to the gateway
// during bootstrap.
func WithLogger(l *zap.SugaredLogger) Option {
	return func(c *Configuration) { c.SetLogger(l) }
}

// WithMigrationsLogger installs a separate logger for migration
// bookkeeping.
func WithMigrationsLogger(l *zap.SugaredLogger) Option {
	return func(c *Configuration) {
		if l != nil {
			c.migrationsLogger = l
		}
	}
}

// New creates a Configuration around settings. The entity-schema
// capability is present by default; use WithoutEntitySchema to drop it.
func New(settings *config.Settings, opts ...Option) *Configuration {
	c := &Configuration{
		settings:      settings,
		configurer:    DefaultConfigurer{},
		schemaFactory: schema.Factory{},
		inflector:     core.DefaultInflector(),
		logger:        zap.NewNop().Sugar(),
		mappings:      make(map[string]*core.Mapping),
		entities:      core.NewEntityRegistry(),
	}
	c.migrationsLogger = c.logger
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Settings returns the adapter settings the configuration was built from.
func (c *Configuration) Settings() *config.Settings { return c.settings }

// Root returns the application root directory.
func (c *Configuration) Root() string { return c.settings.Root }

// Migrations returns the migrations directory.
func (c *Configuration) Migrations() string { return c.settings.Migrations }

// Schema returns the schema dump path.
func (c *Configuration) Schema() string { return c.settings.Schema }

// Mappings returns the registered mappings keyed by relation name.
func (c *Configuration) Mappings() map[string]*core.Mapping { return c.mappings }

// Entities returns the entity registry.
func (c *Configuration) Entities() *core.EntityRegistry { return c.entities }

// Logger returns the configuration logger.
func (c *Configuration) Logger() *zap.SugaredLogger { return c.logger }

// MigrationsLogger returns the migrations logger.
func (c *Configuration) MigrationsLogger() *zap.SugaredLogger { return c.migrationsLogger }

// Inflector returns the configured inflector.
func (c *Configuration) Inflector() core.Inflector { return c.inflector }

// URL returns the connection URL. A blank URL fails with a
// *ConfigurationError on every call; the check re-runs each time because
// it is a derived validation rule, not a stored flag.
func (c *Configuration) URL() (string, error) {
	if strings.TrimSpace(c.settings.URL) == "" {
		return "", &ConfigurationError{Reason: "connection URL is blank", Err: core.ErrBlankURL}
	}
	return c.settings.URL, nil
}

// Gateway returns the gateway for the sole configured backend, building
// it on first use and memoizing it afterward.
func (c *Configuration) Gateway() (*gateway.Gateway, error) {
	if c.gw != nil {
		return c.gw, nil
	}

	url, err := c.URL()
	if err != nil {
		return nil, err
	}

	gw, err := gateway.New(c.settings.Backend, url)
	if err != nil {
		return nil, &ConfigurationError{
			Reason: fmt.Sprintf("cannot open %q gateway", c.settings.Backend),
			Err:    err,
		}
	}
	gw.AttachLogger(c.logger)
	c.gw = gw
	return gw, nil
}

// Connection returns the raw connection handle, delegating to the
// gateway.
func (c *Configuration) Connection() (*sql.DB, error) {
	gw, err := c.Gateway()
	if err != nil {
		return nil, err
	}
	return gw.Connection(), nil
}

// Builder returns the underlying configuration builder handle. It is the
// explicit extension surface for callers that need more than the
// Configuration accessors.
func (c *Configuration) Builder() *Builder {
	if c.builder == nil {
		c.builder = newBuilder(c)
	}
	return c.builder
}

// DefineMappings registers a named mapping, overwriting any prior mapping
// under the same relation name.
func (c *Configuration) DefineMappings(relation string, build core.MappingBuilder) {
	c.mappings[relation] = core.NewMapping(relation, build)
}

// RegisterEntity inserts the entity type under both the plural and the
// singular key.
func (c *Configuration) RegisterEntity(plural, singular string, entity any) *core.EntityDef {
	return c.entities.Register(plural, singular, entity)
}

// SetLogger stores the logger and forwards it to the gateway's
// logger-attachment hook. A nil logger is a no-op.
func (c *Configuration) SetLogger(logger *zap.SugaredLogger) {
	if logger == nil {
		return
	}
	c.logger = logger
	if c.gw != nil {
		c.gw.AttachLogger(logger)
	}
}

// ConfigureGateway invokes the user-supplied gateway configuration
// callback with the current gateway, if one was supplied.
func (c *Configuration) ConfigureGateway() error {
	if c.gatewaySetup == nil {
		return nil
	}
	gw, err := c.Gateway()
	if err != nil {
		return err
	}
	return c.gatewaySetup(gw)
}

// ConfigureRepositories runs the repository configurer against each
// repository. Failures propagate unchanged.
func (c *Configuration) ConfigureRepositories(repos []Repository) error {
	for _, repo := range repos {
		if err := c.configurer.Configure(repo, c); err != nil {
			return err
		}
	}
	return nil
}

// DefineEntitiesMappings composes an entity schema for each repository's
// entity from the relation's live schema and its declared mapping, and
// attaches it to the entity definition. Without the entity-schema
// capability this is a no-op, not an error.
func (c *Configuration) DefineEntitiesMappings(container *Container, repos []Repository) error {
	if c.schemaFactory == nil {
		return nil
	}

	for _, repo := range repos {
		name := repo.RelationName()
		def, ok := c.entities.Lookup(name)
		if !ok {
			continue
		}

		rel, err := container.Relation(name)
		if err != nil {
			return err
		}

		es, err := c.schemaFactory.EntitySchema(def, rel.Schema, c.mappings[name])
		if err != nil {
			return fmt.Errorf("compose entity schema for %q: %w", name, err)
		}
		def.Schema = es
	}
	return nil
}

// Container returns the loaded container. It fails with
// core.ErrNotLoaded until a Load call has completed successfully, and
// returns the same cached instance afterward.
func (c *Configuration) Container() (*Container, error) {
	if c.container == nil {
		return nil, core.ErrNotLoaded
	}
	return c.container, nil
}

// Load applies the bootstrap sequence once and caches the resulting
// container. Repeated calls return the cached container.
//
// The order is fixed: auto-registration, setup hook, gateway callback,
// repository configuration, logger attachment, an eager table-enumeration
// round-trip, container construction and entity-schema wiring. Any
// failure is returned as a *BootstrapError wrapping the cause; state
// mutated by earlier steps is left as-is and the container stays unset.
func (c *Configuration) Load(ctx context.Context, repos []Repository, setup SetupHook) (*Container, error) {
	if c.container != nil {
		return c.container, nil
	}

	builder := c.Builder()

	if dir := c.settings.AutoRegister; dir != "" {
		if err := builder.AutoRegister(dir); err != nil {
			return nil, &BootstrapError{Step: "auto-registration", Err: err}
		}
	}

	if setup != nil {
		if err := setup(builder); err != nil {
			return nil, &BootstrapError{Step: "setup hook", Err: err}
		}
	}

	if err := c.ConfigureGateway(); err != nil {
		return nil, &BootstrapError{Step: "gateway configuration", Err: err}
	}

	if err := c.ConfigureRepositories(repos); err != nil {
		return nil, &BootstrapError{Step: "repository configuration", Err: err}
	}

	c.SetLogger(c.logger)

	gw, err := c.Gateway()
	if err != nil {
		return nil, &BootstrapError{Step: "gateway resolution", Err: err}
	}

	// Touch the store before the container is built. Schema inference
	// misbehaves on some backends unless the connection has served at
	// least one statement, so the enumeration must stay ahead of Build.
	tables, err := gw.Tables(ctx)
	if err != nil {
		return nil, &BootstrapError{Step: "table enumeration", Err: err}
	}
	c.logger.Debugw("Touched storage", "backend", c.settings.Backend, "tables", len(tables))

	container, err := builder.Build(ctx)
	if err != nil {
		return nil, &BootstrapError{Step: "container construction", Err: err}
	}

	if err := c.DefineEntitiesMappings(container, repos); err != nil {
		return nil, &BootstrapError{Step: "entity schema wiring", Err: err}
	}

	for _, repo := range repos {
		binder, ok := repo.(RelationBinder)
		if !ok {
			continue
		}
		rel, err := container.Relation(repo.RelationName())
		if err != nil {
			return nil, &BootstrapError{Step: "repository binding", Err: err}
		}
		binder.BindRelation(rel)
	}

	c.container = container
	c.logger.Infow("Configuration loaded",
		"container", container.ID(),
		"backend", c.settings.Backend,
		"relations", len(container.Relations()))
	return container, nil
}
