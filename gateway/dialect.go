package gateway

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"sync"

	"tether/core"
)

// Dialect adapts one backend to the gateway layer: DSN normalization,
// connection opening and the catalog queries the bootstrapper needs.
type Dialect interface {
	// Name is the backend identifier the dialect is registered under.
	Name() string

	// DSN normalizes a tether connection URL into a driver DSN.
	DSN(url string) (string, error)

	// Open opens the connection pool for a normalized DSN.
	Open(dsn string) (*sql.DB, error)

	// Configure applies per-backend connection settings after opening.
	Configure(ctx context.Context, db *sql.DB) error

	// ListTables enumerates the relations visible on the connection.
	ListTables(ctx context.Context, db *sql.DB) ([]string, error)

	// DescribeRelation introspects the live schema of one relation.
	DescribeRelation(ctx context.Context, db *sql.DB, relation string) (*core.RelationSchema, error)
}

var (
	dialectMu sync.RWMutex
	dialects  = make(map[string]Dialect)
)

// RegisterDialect makes a dialect available under its backend name. A
// later registration replaces an earlier one under the same name.
func RegisterDialect(d Dialect) {
	dialectMu.Lock()
	defer dialectMu.Unlock()
	dialects[d.Name()] = d
}

// LookupDialect resolves the dialect registered for backend.
func LookupDialect(backend string) (Dialect, error) {
	dialectMu.RLock()
	defer dialectMu.RUnlock()

	if d, ok := dialects[backend]; ok {
		return d, nil
	}

	names := make([]string, 0, len(dialects))
	for name := range dialects {
		names = append(names, name)
	}
	sort.Strings(names)
	return nil, fmt.Errorf("%w: %q (registered: %s)", core.ErrUnknownBackend, backend, strings.Join(names, ", "))
}

// Dialects returns the names of all registered dialects, sorted.
func Dialects() []string {
	dialectMu.RLock()
	defer dialectMu.RUnlock()

	names := make([]string, 0, len(dialects))
	for name := range dialects {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func init() {
	RegisterDialect(sqliteDialect{})
	RegisterDialect(clickhouseDialect{})
}
