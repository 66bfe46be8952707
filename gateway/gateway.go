// Package gateway owns the live connections to backing stores. A Gateway
// binds one backend dialect to one connection URL and exposes the small
// catalog surface the bootstrapper needs: the raw connection, table
// enumeration and a logger-attachment hook.
package gateway

import (
	"context"
	"database/sql"
	"fmt"

	"tether/core"

	"go.uber.org/zap"
)

// Gateway is the object owning the live connection to a backing store for
// one backend.
type Gateway struct {
	backend string
	url     string
	dialect Dialect
	db      *sql.DB
	logger  *zap.SugaredLogger
}

// New resolves the dialect registered for backend, normalizes url into a
// driver DSN and opens the connection pool.
func New(backend, url string) (*Gateway, error) {
	dialect, err := LookupDialect(backend)
	if err != nil {
		return nil, err
	}

	dsn, err := dialect.DSN(url)
	if err != nil {
		return nil, fmt.Errorf("normalize %s URL: %w", backend, err)
	}

	db, err := dialect.Open(dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s connection: %w", backend, err)
	}

	if err := dialect.Configure(context.Background(), db); err != nil {
		db.Close()
		return nil, fmt.Errorf("configure %s connection: %w", backend, err)
	}

	return &Gateway{
		backend: backend,
		url:     url,
		dialect: dialect,
		db:      db,
		logger:  zap.NewNop().Sugar(),
	}, nil
}

// Backend returns the backend identifier the gateway was opened for.
func (g *Gateway) Backend() string { return g.backend }

// URL returns the connection URL the gateway was opened with.
func (g *Gateway) URL() string { return g.url }

// Connection returns the raw connection pool.
func (g *Gateway) Connection() *sql.DB { return g.db }

// Dialect returns the dialect backing this gateway.
func (g *Gateway) Dialect() Dialect { return g.dialect }

// AttachLogger replaces the gateway logger. A nil logger is ignored.
func (g *Gateway) AttachLogger(logger *zap.SugaredLogger) {
	if logger == nil {
		return
	}
	g.logger = logger
}

// Logger returns the current gateway logger.
func (g *Gateway) Logger() *zap.SugaredLogger { return g.logger }

// Ping verifies the connection is alive.
func (g *Gateway) Ping(ctx context.Context) error {
	if err := g.db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping %s: %w", g.backend, err)
	}
	return nil
}

// Tables enumerates the relations visible on the connection.
func (g *Gateway) Tables(ctx context.Context) ([]string, error) {
	tables, err := g.dialect.ListTables(ctx, g.db)
	if err != nil {
		return nil, fmt.Errorf("list %s tables: %w", g.backend, err)
	}
	g.logger.Debugw("Enumerated tables", "backend", g.backend, "count", len(tables))
	return tables, nil
}

// Describe introspects the live schema of one relation.
func (g *Gateway) Describe(ctx context.Context, relation string) (*core.RelationSchema, error) {
	schema, err := g.dialect.DescribeRelation(ctx, g.db, relation)
	if err != nil {
		return nil, err
	}
	g.logger.Debugw("Described relation", "backend", g.backend, "relation", relation, "columns", len(schema.Columns))
	return schema, nil
}

// Close closes the underlying connection pool.
func (g *Gateway) Close() error {
	return g.db.Close()
}
