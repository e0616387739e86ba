// Package ddl builds MySQL data definition statements: column and
// constraint clauses, CREATE TABLE and batched ALTER TABLE.
package ddl

import (
	"strings"

	"github.com/tordrt/schemasync/internal/sqlvalue"
)

// reserved holds the MySQL reserved words likely to be used as column names.
var reserved = map[string]bool{
	"add": true, "all": true, "alter": true, "and": true, "as": true, "asc": true,
	"before": true, "between": true, "both": true, "by": true, "case": true, "change": true,
	"check": true, "column": true, "condition": true, "constraint": true, "create": true,
	"cross": true, "current_date": true, "current_time": true, "database": true,
	"default": true, "delete": true, "desc": true, "describe": true, "distinct": true,
	"div": true, "drop": true, "else": true, "exists": true, "explain": true, "false": true,
	"for": true, "foreign": true, "from": true, "grant": true, "group": true, "having": true,
	"if": true, "ignore": true, "in": true, "index": true, "inner": true, "insert": true,
	"interval": true, "into": true, "is": true, "join": true, "key": true, "keys": true,
	"kill": true, "left": true, "like": true, "limit": true, "lines": true, "load": true,
	"lock": true, "match": true, "mod": true, "natural": true, "not": true, "null": true,
	"of": true, "on": true, "option": true, "or": true, "order": true, "outer": true,
	"primary": true, "range": true, "read": true, "references": true, "regexp": true,
	"release": true, "rename": true, "repeat": true, "replace": true, "require": true,
	"right": true, "rlike": true, "schema": true, "select": true, "separator": true,
	"set": true, "show": true, "table": true, "then": true, "to": true, "trigger": true,
	"true": true, "union": true, "unique": true, "update": true, "usage": true, "use": true,
	"using": true, "values": true, "when": true, "where": true, "while": true, "with": true,
	"write": true, "xor": true,
}

// Ident renders a column name bare when it is a plain identifier that is
// not a reserved word, and backquoted otherwise.
func Ident(name string) string {
	if isPlain(name) && !reserved[strings.ToLower(name)] {
		return name
	}
	return sqlvalue.Backquote(name)
}

func isPlain(name string) bool {
	if name == "" {
		return false
	}
	for i := 0; i < len(name); i++ {
		ch := name[i]
		switch {
		case ch >= 'a' && ch <= 'z', ch >= 'A' && ch <= 'Z', ch == '_':
		case ch >= '0' && ch <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}

func quoteAll(names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = sqlvalue.Backquote(n)
	}
	return strings.Join(quoted, ", ")
}
