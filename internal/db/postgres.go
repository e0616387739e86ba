package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/tordrt/schemasync/internal/schema"
)

// PostgresInspector reads tables from information_schema of a PostgreSQL database
type PostgresInspector struct {
	conn   *pgx.Conn
	schema string
}

// NewPostgresInspector connects to PostgreSQL. schemaName defaults to "public".
func NewPostgresInspector(ctx context.Context, connString, schemaName string) (*PostgresInspector, error) {
	conn, err := pgx.Connect(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := conn.Ping(ctx); err != nil {
		_ = conn.Close(ctx)
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if schemaName == "" {
		schemaName = "public"
	}
	return &PostgresInspector{conn: conn, schema: schemaName}, nil
}

// Close closes the database connection
func (i *PostgresInspector) Close() error {
	return i.conn.Close(context.Background())
}

// Inspect reads the selected base tables of the schema
func (i *PostgresInspector) Inspect(ctx context.Context, names []string) (*schema.Schema, error) {
	filter, filterArgs := nameFilter("table_name", names, 1, dollar, "")
	query := `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = $1 AND table_type = 'BASE TABLE'` + filter + `
		ORDER BY table_name`

	rows, err := i.conn.Query(ctx, query, append([]any{i.schema}, filterArgs...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	tableNames, err := collectNames(rows)
	rows.Close()
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}

	s := &schema.Schema{Dialect: schema.DialectPostgres}
	for _, name := range tableNames {
		table, err := i.inspectTable(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("failed to inspect table %s: %w", name, err)
		}
		s.Tables = append(s.Tables, *table)
	}
	return s, nil
}

func (i *PostgresInspector) inspectTable(ctx context.Context, name string) (*schema.Table, error) {
	table := &schema.Table{Name: name}

	var err error
	if table.Columns, err = i.columns(ctx, name); err != nil {
		return nil, fmt.Errorf("failed to read columns: %w", err)
	}
	if table.PrimaryKey, err = i.primaryKey(ctx, name); err != nil {
		return nil, fmt.Errorf("failed to read primary key: %w", err)
	}
	if table.Relations, err = i.relations(ctx, name); err != nil {
		return nil, fmt.Errorf("failed to read foreign keys: %w", err)
	}
	return table, nil
}

func (i *PostgresInspector) columns(ctx context.Context, table string) ([]schema.Column, error) {
	rows, err := i.conn.Query(ctx, `
		SELECT column_name, data_type, is_nullable
		FROM information_schema.columns
		WHERE table_schema = $1 AND table_name = $2
		ORDER BY ordinal_position`, i.schema, table)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var columns []schema.Column
	for rows.Next() {
		var col schema.Column
		var nullable string
		if err := rows.Scan(&col.Name, &col.Type, &nullable); err != nil {
			return nil, err
		}
		col.Nullable = nullable == "YES"
		columns = append(columns, col)
	}
	return columns, rows.Err()
}

func (i *PostgresInspector) primaryKey(ctx context.Context, table string) ([]string, error) {
	rows, err := i.conn.Query(ctx, `
		SELECT kcu.column_name
		FROM information_schema.table_constraints tc
		JOIN information_schema.key_column_usage kcu
			ON tc.constraint_name = kcu.constraint_name
			AND tc.table_schema = kcu.table_schema
		WHERE tc.table_schema = $1 AND tc.table_name = $2 AND tc.constraint_type = 'PRIMARY KEY'
		ORDER BY kcu.ordinal_position`, i.schema, table)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectNames(rows)
}

func (i *PostgresInspector) relations(ctx context.Context, table string) ([]schema.Relation, error) {
	rows, err := i.conn.Query(ctx, `
		SELECT tc.constraint_name, kcu.column_name, ccu.table_name, ccu.column_name
		FROM information_schema.table_constraints tc
		JOIN information_schema.key_column_usage kcu
			ON tc.constraint_name = kcu.constraint_name
			AND tc.table_schema = kcu.table_schema
		JOIN information_schema.constraint_column_usage ccu
			ON ccu.constraint_name = tc.constraint_name
			AND ccu.table_schema = tc.table_schema
		WHERE tc.table_schema = $1 AND tc.table_name = $2 AND tc.constraint_type = 'FOREIGN KEY'
		ORDER BY tc.constraint_name, kcu.ordinal_position`, i.schema, table)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var relations []schema.Relation
	for rows.Next() {
		var rel schema.Relation
		if err := rows.Scan(&rel.Name, &rel.SourceColumn, &rel.TargetTable, &rel.TargetColumn); err != nil {
			return nil, err
		}
		relations = append(relations, rel)
	}
	return relations, rows.Err()
}
