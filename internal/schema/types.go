// Package schema describes a live database schema as read by an inspector.
package schema

import "strings"

// Dialects of the inspected database
const (
	DialectMySQL    = "mysql"
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite"
)

// Schema represents the inspected tables of one database
type Schema struct {
	Dialect string
	Tables  []Table
}

// Table returns the table called name, nil when absent.
func (s *Schema) Table(name string) *Table {
	if s == nil {
		return nil
	}
	for i := range s.Tables {
		if s.Tables[i].Name == name {
			return &s.Tables[i]
		}
	}
	return nil
}

// Table represents a database table
type Table struct {
	Name       string
	Columns    []Column
	Relations  []Relation
	PrimaryKey []string
}

// Column returns the column called name, nil when absent.
func (t *Table) Column(name string) *Column {
	for i := range t.Columns {
		if t.Columns[i].Name == name {
			return &t.Columns[i]
		}
	}
	return nil
}

// HasForeignKey reports whether column carries a foreign key
func (t *Table) HasForeignKey(column string) bool {
	for _, r := range t.Relations {
		if r.SourceColumn == column {
			return true
		}
	}
	return false
}

// Column represents a table column
type Column struct {
	Name     string
	Type     string
	Nullable bool
}

// SameType reports whether the column has the given SQL type, ignoring case
// and the display width MySQL 8 no longer reports for integer types.
func (c *Column) SameType(sqlType string) bool {
	return normalizeType(c.Type) == normalizeType(sqlType)
}

func normalizeType(t string) string {
	t = strings.ToLower(strings.Join(strings.Fields(t), " "))
	for _, integer := range []string{"bigint", "int", "smallint", "mediumint"} {
		if strings.HasPrefix(t, integer+"(") {
			if end := strings.Index(t, ")"); end > 0 {
				t = integer + t[end+1:]
			}
			break
		}
	}
	return t
}

// Relation represents a foreign key relationship
type Relation struct {
	Name         string
	TargetTable  string
	TargetColumn string
	SourceColumn string
}
