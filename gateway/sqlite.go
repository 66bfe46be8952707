package gateway

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"tether/core"

	_ "modernc.org/sqlite" // registers the "sqlite" database/sql driver
)

type sqliteDialect struct{}

func (sqliteDialect) Name() string { return "sqlite" }

// DSN accepts "sqlite://path", "sqlite:path", "sqlite::memory" and plain
// file paths, returning the driver DSN.
func (sqliteDialect) DSN(url string) (string, error) {
	dsn := strings.TrimPrefix(url, "sqlite://")
	if dsn == url {
		dsn = strings.TrimPrefix(url, "sqlite:")
	}
	switch dsn {
	case "", ":memory", ":memory:", "memory":
		dsn = ":memory:"
	}
	return dsn, nil
}

func (sqliteDialect) Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if strings.Contains(dsn, ":memory:") {
		// Each pool connection to ":memory:" would open a separate empty
		// database; a single connection keeps all statements on one.
		db.SetMaxOpenConns(1)
	}
	return db, nil
}

func (sqliteDialect) Configure(ctx context.Context, db *sql.DB) error {
	// SQLite disables foreign keys by default; enable them explicitly so
	// referential integrity is enforced.
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON"); err != nil {
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	// Busy timeout prevents immediate SQLITE_BUSY errors under contention.
	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout=5000"); err != nil {
		return fmt.Errorf("failed to set busy timeout: %w", err)
	}

	return nil
}

func (sqliteDialect) ListTables(ctx context.Context, db *sql.DB) ([]string, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		tables = append(tables, name)
	}
	return tables, rows.Err()
}

func (sqliteDialect) DescribeRelation(ctx context.Context, db *sql.DB, relation string) (*core.RelationSchema, error) {
	rows, err := db.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%q)", relation))
	if err != nil {
		return nil, fmt.Errorf("describe %q: %w", relation, err)
	}
	defer rows.Close()

	schema := &core.RelationSchema{Relation: relation}
	for rows.Next() {
		var (
			cid        int
			name, typ  string
			notNull    int
			defaultVal sql.NullString
			pk         int
		)
		if err := rows.Scan(&cid, &name, &typ, &notNull, &defaultVal, &pk); err != nil {
			return nil, fmt.Errorf("describe %q: %w", relation, err)
		}
		schema.Columns = append(schema.Columns, core.Column{
			Name:       name,
			Type:       typ,
			Nullable:   notNull == 0 && pk == 0,
			PrimaryKey: pk > 0,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("describe %q: %w", relation, err)
	}
	if len(schema.Columns) == 0 {
		return nil, fmt.Errorf("%w: %q", core.ErrRelationNotFound, relation)
	}
	return schema, nil
}
