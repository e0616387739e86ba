package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/go-sql-driver/mysql"

	"github.com/tordrt/schemasync/internal/schema"
)

// MySQLInspector reads tables from information_schema of a MySQL database
type MySQLInspector struct {
	db         *sql.DB
	schemaName string
}

// NewMySQLInspector connects to MySQL. An empty schemaName falls back to
// the database named in dsn.
func NewMySQLInspector(ctx context.Context, dsn, schemaName string) (*MySQLInspector, error) {
	if schemaName == "" {
		name, err := ParseDatabaseName(dsn)
		if err != nil {
			return nil, err
		}
		schemaName = name
	}

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return NewMySQLInspectorWithDB(db, schemaName), nil
}

// NewMySQLInspectorWithDB inspects schemaName through an open connection.
func NewMySQLInspectorWithDB(db *sql.DB, schemaName string) *MySQLInspector {
	return &MySQLInspector{db: db, schemaName: schemaName}
}

// ParseDatabaseName returns the database named in a MySQL DSN
func ParseDatabaseName(dsn string) (string, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "", fmt.Errorf("failed to parse MySQL DSN: %w", err)
	}
	if cfg.DBName == "" {
		return "", fmt.Errorf("no database name in MySQL DSN")
	}
	return cfg.DBName, nil
}

// Close closes the database connection
func (i *MySQLInspector) Close() error {
	return i.db.Close()
}

// Inspect reads the selected base tables of the schema
func (i *MySQLInspector) Inspect(ctx context.Context, names []string) (*schema.Schema, error) {
	filter, filterArgs := nameFilter("table_name", names, 1, questionMark, "")
	query := `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = ? AND table_type = 'BASE TABLE'` + filter + `
		ORDER BY table_name`

	rows, err := i.db.QueryContext(ctx, query, append([]any{i.schemaName}, filterArgs...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	tableNames, err := collectNames(rows)
	_ = rows.Close()
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}

	s := &schema.Schema{Dialect: schema.DialectMySQL}
	for _, name := range tableNames {
		table, err := i.inspectTable(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("failed to inspect table %s: %w", name, err)
		}
		s.Tables = append(s.Tables, *table)
	}
	return s, nil
}

func (i *MySQLInspector) inspectTable(ctx context.Context, name string) (*schema.Table, error) {
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

func (i *MySQLInspector) columns(ctx context.Context, table string) ([]schema.Column, error) {
	rows, err := i.db.QueryContext(ctx, `
		SELECT column_name, column_type, is_nullable
		FROM information_schema.columns
		WHERE table_schema = ? AND table_name = ?
		ORDER BY ordinal_position`, i.schemaName, table)
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

func (i *MySQLInspector) primaryKey(ctx context.Context, table string) ([]string, error) {
	rows, err := i.db.QueryContext(ctx, `
		SELECT column_name
		FROM information_schema.key_column_usage
		WHERE table_schema = ? AND table_name = ? AND constraint_name = 'PRIMARY'
		ORDER BY ordinal_position`, i.schemaName, table)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectNames(rows)
}

func (i *MySQLInspector) relations(ctx context.Context, table string) ([]schema.Relation, error) {
	rows, err := i.db.QueryContext(ctx, `
		SELECT constraint_name, column_name, referenced_table_name, referenced_column_name
		FROM information_schema.key_column_usage
		WHERE table_schema = ? AND table_name = ? AND referenced_table_name IS NOT NULL
		ORDER BY constraint_name, ordinal_position`, i.schemaName, table)
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
