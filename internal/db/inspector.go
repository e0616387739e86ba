// Package db reads the live schema of MySQL, PostgreSQL and SQLite databases.
package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/tordrt/schemasync/internal/schema"
	"github.com/tordrt/schemasync/internal/sqlvalue"
)

// Inspector reads the tables of one database
type Inspector interface {
	// Inspect returns the named tables, all tables when names is empty.
	// A name containing LIKE wildcards selects every matching table.
	Inspect(ctx context.Context, names []string) (*schema.Schema, error)
	Close() error
}

// Open connects to the database of the given dialect. schemaName selects
// the MySQL database or the PostgreSQL schema; SQLite ignores it.
func Open(ctx context.Context, dialect, dsn, schemaName string) (Inspector, error) {
	switch dialect {
	case schema.DialectMySQL:
		return NewMySQLInspector(ctx, dsn, schemaName)
	case schema.DialectPostgres:
		return NewPostgresInspector(ctx, dsn, schemaName)
	case schema.DialectSQLite:
		return NewSQLiteInspector(ctx, dsn)
	default:
		return nil, fmt.Errorf("unsupported database type: %s", dialect)
	}
}

// nameFilter renders the WHERE condition selecting names on column.
// placeholder returns the bind marker of the n-th argument, starting at 1.
// Names with wildcards are compared with LIKE followed by likeSuffix, the
// others with = after removing their escapes.
func nameFilter(column string, names []string, offset int, placeholder func(n int) string, likeSuffix string) (string, []any) {
	if len(names) == 0 {
		return "", nil
	}
	conds := make([]string, 0, len(names))
	args := make([]any, 0, len(names))
	for i, name := range names {
		marker := placeholder(offset + i + 1)
		if sqlvalue.IsLike(name) {
			conds = append(conds, fmt.Sprintf("%s LIKE %s%s", column, marker, likeSuffix))
			args = append(args, name)
			continue
		}
		conds = append(conds, fmt.Sprintf("%s = %s", column, marker))
		args = append(args, sqlvalue.UnescapeLike(name))
	}
	return " AND (" + strings.Join(conds, " OR ") + ")", args
}

// sqliteLikeEscape makes SQLite honor backslash escapes in LIKE patterns,
// as MySQL and PostgreSQL do by default.
const sqliteLikeEscape = ` ESCAPE '\'`

func questionMark(int) string { return "?" }

func dollar(n int) string { return fmt.Sprintf("$%d", n) }

// rowScanner is the part of database/sql and pgx rows used by collect.
type rowScanner interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

// collectNames scans a single string column.
func collectNames(rows rowScanner) ([]string, error) {
	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}
