package gateway

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"tether/core"

	"github.com/ClickHouse/clickhouse-go/v2"
)

type clickhouseDialect struct{}

func (clickhouseDialect) Name() string { return "clickhouse" }

// DSN accepts "clickhouse://host:port/db?..." URLs as well as bare
// "host:port" addresses.
func (clickhouseDialect) DSN(url string) (string, error) {
	if strings.Contains(url, "://") {
		return url, nil
	}
	return "clickhouse://" + url, nil
}

func (clickhouseDialect) Open(dsn string) (*sql.DB, error) {
	opt, err := clickhouse.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse clickhouse DSN: %w", err)
	}
	if opt.DialTimeout == 0 {
		opt.DialTimeout = 10 * time.Second
	}
	if opt.Compression == nil {
		opt.Compression = &clickhouse.Compression{Method: clickhouse.CompressionLZ4}
	}
	return clickhouse.OpenDB(opt), nil
}

func (clickhouseDialect) Configure(ctx context.Context, db *sql.DB) error {
	db.SetConnMaxLifetime(1 * time.Hour)
	return nil
}

func (clickhouseDialect) ListTables(ctx context.Context, db *sql.DB) ([]string, error) {
	rows, err := db.QueryContext(ctx, "SHOW TABLES")
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

func (clickhouseDialect) DescribeRelation(ctx context.Context, db *sql.DB, relation string) (*core.RelationSchema, error) {
	if strings.ContainsAny(relation, "`\"';") {
		return nil, fmt.Errorf("invalid relation name %q", relation)
	}

	rows, err := db.QueryContext(ctx, fmt.Sprintf("DESCRIBE TABLE `%s`", relation))
	if err != nil {
		return nil, fmt.Errorf("describe %q: %w", relation, err)
	}
	defer rows.Close()

	schema := &core.RelationSchema{Relation: relation}
	for rows.Next() {
		var name, typ, defaultType, defaultExpr, comment, codec, ttl string
		if err := rows.Scan(&name, &typ, &defaultType, &defaultExpr, &comment, &codec, &ttl); err != nil {
			return nil, fmt.Errorf("describe %q: %w", relation, err)
		}
		schema.Columns = append(schema.Columns, core.Column{
			Name:     name,
			Type:     typ,
			Nullable: strings.HasPrefix(typ, "Nullable("),
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
