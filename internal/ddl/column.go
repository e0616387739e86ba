package ddl

import (
	"strings"

	"github.com/tordrt/schemasync/internal/naming"
	"github.com/tordrt/schemasync/internal/sqlvalue"
)

// Column is the physical definition of a table column
type Column struct {
	Name          string
	Type          string
	Nullable      bool
	Default       any // nil writes no DEFAULT clause
	AutoIncrement bool
}

// SQL renders the column definition used by CREATE and ALTER statements,
// e.g. "status VARCHAR(20) NOT NULL DEFAULT \"new\"".
func (c Column) SQL() string {
	var b strings.Builder
	b.WriteString(Ident(c.Name))
	b.WriteString(" ")
	b.WriteString(c.Type)
	if !c.Nullable {
		b.WriteString(" NOT NULL")
	}
	if c.Default != nil {
		b.WriteString(" DEFAULT ")
		b.WriteString(sqlvalue.Escape(c.Default, false))
	}
	if c.AutoIncrement {
		b.WriteString(" AUTO_INCREMENT")
	}
	return b.String()
}

// Action is a foreign key referential action
type Action string

const (
	Cascade  Action = "CASCADE"
	Restrict Action = "RESTRICT"
)

// ForeignKey is a foreign key constraint on a single column
type ForeignKey struct {
	Name      string
	Column    string
	RefTable  string
	RefColumn string
	OnDelete  Action
	OnUpdate  Action
}

// SQL renders the constraint clause.
func (fk ForeignKey) SQL() string {
	return "CONSTRAINT " + sqlvalue.Backquote(fk.Name) +
		" FOREIGN KEY (" + sqlvalue.Backquote(fk.Column) + ")" +
		" REFERENCES " + sqlvalue.Backquote(fk.RefTable) + " (" + sqlvalue.Backquote(fk.RefColumn) + ")" +
		" ON DELETE " + string(fk.OnDelete) +
		" ON UPDATE " + string(fk.OnUpdate)
}

// LinkTable is the join table of a many-valued relation
type LinkTable struct {
	Name          string
	MasterTable   string
	MasterColumn  string
	ForeignTable  string
	ForeignColumn string
}

// ForeignKeys returns the two constraints of the link table. A link row
// goes away with either of its endpoints.
func (l LinkTable) ForeignKeys() []ForeignKey {
	return []ForeignKey{
		l.foreignKey(l.MasterColumn, l.MasterTable),
		l.foreignKey(l.ForeignColumn, l.ForeignTable),
	}
}

func (l LinkTable) foreignKey(column, table string) ForeignKey {
	return ForeignKey{
		Name:      naming.Truncate(l.Name + "." + column),
		Column:    column,
		RefTable:  table,
		RefColumn: naming.ReferenceColumn,
		OnDelete:  Cascade,
		OnUpdate:  Restrict,
	}
}

// CreateTable returns the definition of the link table.
func (l LinkTable) CreateTable() *CreateTable {
	return &CreateTable{
		Name: l.Name,
		Columns: []Column{
			{Name: l.MasterColumn, Type: ReferenceType},
			{Name: l.ForeignColumn, Type: ReferenceType},
		},
		PrimaryKey:  []string{l.MasterColumn, l.ForeignColumn},
		Keys:        []Key{{Name: l.ForeignColumn, Columns: []string{l.ForeignColumn}}},
		ForeignKeys: l.ForeignKeys(),
	}
}

// ReferenceType is the SQL type of id columns and of references to them.
const ReferenceType = "BIGINT UNSIGNED"

// IDColumn returns the synthetic primary key column
func IDColumn() Column {
	return Column{Name: naming.ReferenceColumn, Type: ReferenceType, AutoIncrement: true}
}
