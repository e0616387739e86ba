package db

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/tordrt/schemasync/internal/schema"
	"github.com/tordrt/schemasync/internal/sqlvalue"
)

// SQLiteInspector reads tables through SQLite pragmas
type SQLiteInspector struct {
	db *sql.DB
}

// NewSQLiteInspector opens the database file at path
func NewSQLiteInspector(ctx context.Context, path string) (*SQLiteInspector, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return &SQLiteInspector{db: db}, nil
}

// Close closes the database connection
func (i *SQLiteInspector) Close() error {
	return i.db.Close()
}

// Inspect reads the selected user tables
func (i *SQLiteInspector) Inspect(ctx context.Context, names []string) (*schema.Schema, error) {
	filter, filterArgs := nameFilter("name", names, 0, questionMark, sqliteLikeEscape)
	query := `
		SELECT name
		FROM sqlite_master
		WHERE type = 'table' AND name NOT LIKE 'sqlite_%'` + filter + `
		ORDER BY name`

	rows, err := i.db.QueryContext(ctx, query, filterArgs...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	tableNames, err := collectNames(rows)
	_ = rows.Close()
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}

	s := &schema.Schema{Dialect: schema.DialectSQLite}
	for _, name := range tableNames {
		table, err := i.inspectTable(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("failed to inspect table %s: %w", name, err)
		}
		s.Tables = append(s.Tables, *table)
	}
	return s, nil
}

func (i *SQLiteInspector) inspectTable(ctx context.Context, name string) (*schema.Table, error) {
	table := &schema.Table{Name: name}

	rows, err := i.db.QueryContext(ctx, "PRAGMA table_info("+sqlvalue.Backquote(name)+")")
	if err != nil {
		return nil, fmt.Errorf("failed to read columns: %w", err)
	}
	for rows.Next() {
		var cid, notNull, pk int
		var col schema.Column
		var defaultValue sql.NullString
		if err := rows.Scan(&cid, &col.Name, &col.Type, &notNull, &defaultValue, &pk); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("failed to read columns: %w", err)
		}
		col.Nullable = notNull == 0
		if pk > 0 {
			table.PrimaryKey = append(table.PrimaryKey, col.Name)
		}
		table.Columns = append(table.Columns, col)
	}
	err = rows.Err()
	_ = rows.Close()
	if err != nil {
		return nil, fmt.Errorf("failed to read columns: %w", err)
	}

	if table.Relations, err = i.relations(ctx, name); err != nil {
		return nil, fmt.Errorf("failed to read foreign keys: %w", err)
	}
	return table, nil
}

func (i *SQLiteInspector) relations(ctx context.Context, table string) ([]schema.Relation, error) {
	rows, err := i.db.QueryContext(ctx, "PRAGMA foreign_key_list("+sqlvalue.Backquote(table)+")")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var relations []schema.Relation
	for rows.Next() {
		var id, seq int
		var rel schema.Relation
		var target sql.NullString
		var onUpdate, onDelete, match string
		if err := rows.Scan(&id, &seq, &rel.TargetTable, &rel.SourceColumn, &target, &onUpdate, &onDelete, &match); err != nil {
			return nil, err
		}
		rel.TargetColumn = target.String
		// SQLite does not keep constraint names
		rel.Name = fmt.Sprintf("%s.%d", table, id)
		relations = append(relations, rel)
	}
	return relations, rows.Err()
}
