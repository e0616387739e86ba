// Package naming maps classes and properties to table, column and
// constraint identifiers. Every function is deterministic: the same
// metadata always yields the same names.
package naming

import (
	"strings"

	"github.com/go-openapi/inflect"

	"github.com/tordrt/schemasync/internal/meta"
)

const (
	// MaxIdentifierLength is the MySQL limit for table, column and constraint names.
	MaxIdentifierLength = 64

	// ReferenceColumn is the primary key column every reference points to.
	ReferenceColumn = "id"

	// ReferencePrefix prefixes the column of a single-object reference.
	ReferencePrefix = "id_"
)

// ColumnName returns the column storing p on its owner's table.
func ColumnName(p *meta.Property) string {
	if p.Link() == meta.LinkObject {
		return ReferencePrefix + p.StorageName()
	}
	return p.StorageName()
}

// ConstraintName returns the foreign key constraint name for p on table,
// cut to MaxIdentifierLength. Long names may collide once cut.
func ConstraintName(table string, p *meta.Property) string {
	return Truncate(table + "." + ColumnName(p))
}

// LinkTableName joins two table names in ascending order so that both
// sides of a relation agree on the same link table.
func LinkTableName(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return a + "_" + b
}

// Truncate drops the characters past MaxIdentifierLength.
func Truncate(name string) string {
	if len(name) <= MaxIdentifierLength {
		return name
	}
	return name[:MaxIdentifierLength]
}

// ShortClassName strips namespace segments: `Sales\Order`, `sales.Order`
// and `sales/Order` all give `Order`.
func ShortClassName(class string) string {
	if i := strings.LastIndexAny(class, `\./`); i >= 0 {
		return class[i+1:]
	}
	return class
}

// ClassToTable returns the default table name of a class: its short name,
// underscored and pluralized. OrderLine and Order_Line give order_lines.
func ClassToTable(class string) string {
	return inflect.Pluralize(ClassToProperty(class))
}

// ClassToProperty returns the underscored lower-case short name of a class.
func ClassToProperty(class string) string {
	return strings.ToLower(inflect.Underscore(ShortClassName(class)))
}

// SetToClass returns the singular form of a set name.
func SetToClass(set string) string {
	return inflect.Singularize(set)
}
