package ddl

import (
	"strings"

	"github.com/tordrt/schemasync/internal/sqlvalue"
)

// Key is a secondary (non-unique) index
type Key struct {
	Name    string
	Columns []string
}

// CreateTable is the full definition of a new table
type CreateTable struct {
	Name        string
	Columns     []Column
	PrimaryKey  []string
	Keys        []Key
	ForeignKeys []ForeignKey
}

// Build renders the CREATE TABLE IF NOT EXISTS statement, one definition per line.
func (t *CreateTable) Build() string {
	var defs []string
	for _, c := range t.Columns {
		defs = append(defs, c.SQL())
	}
	if len(t.PrimaryKey) > 0 {
		defs = append(defs, "PRIMARY KEY ("+quoteAll(t.PrimaryKey)+")")
	}
	for _, k := range t.Keys {
		defs = append(defs, "KEY "+sqlvalue.Backquote(k.Name)+" ("+quoteAll(k.Columns)+")")
	}
	for _, fk := range t.ForeignKeys {
		defs = append(defs, fk.SQL())
	}

	var b strings.Builder
	b.WriteString("CREATE TABLE IF NOT EXISTS ")
	b.WriteString(sqlvalue.Backquote(t.Name))
	b.WriteString(" (\n  ")
	b.WriteString(strings.Join(defs, ",\n  "))
	b.WriteString("\n) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4")
	return b.String()
}
