package mapping

import (
	"fmt"

	"github.com/tordrt/schemasync/internal/ddl"
	"github.com/tordrt/schemasync/internal/meta"
	"github.com/tordrt/schemasync/internal/naming"
)

// Field is a property stored as a column of its owner's table
type Field struct {
	Property   *meta.Property
	Column     ddl.Column
	ForeignKey *ddl.ForeignKey // set for single-object references
}

// FormerColumn returns the column name before the property was renamed,
// "" when the property declares no former name.
func (f Field) FormerColumn() string {
	former := f.Property.FormerName()
	if former == "" {
		return ""
	}
	if f.Property.Link() == meta.LinkObject {
		return naming.ReferencePrefix + former
	}
	return former
}

// Table is the desired physical layout of one class
type Table struct {
	Class  string
	Name   string
	Fields []Field
	Links  []ddl.LinkTable

	// Errors holds the properties that could not be mapped. They are left
	// out of Fields and Links; the rest of the table is still usable.
	Errors []error
}

// Columns returns the id column followed by the field columns
func (t *Table) Columns() []ddl.Column {
	cols := make([]ddl.Column, 0, len(t.Fields)+1)
	cols = append(cols, ddl.IDColumn())
	for _, f := range t.Fields {
		cols = append(cols, f.Column)
	}
	return cols
}

// ForeignKeys returns the constraints of the reference fields
func (t *Table) ForeignKeys() []ddl.ForeignKey {
	var fks []ddl.ForeignKey
	for _, f := range t.Fields {
		if f.ForeignKey != nil {
			fks = append(fks, *f.ForeignKey)
		}
	}
	return fks
}

// CreateTable returns the table definition without its foreign keys, so
// that tables can be created before the tables they reference.
func (t *Table) CreateTable() *ddl.CreateTable {
	ct := &ddl.CreateTable{
		Name:       t.Name,
		Columns:    t.Columns(),
		PrimaryKey: []string{naming.ReferenceColumn},
	}
	for _, fk := range t.ForeignKeys() {
		ct.Keys = append(ct.Keys, ddl.Key{Name: fk.Column, Columns: []string{fk.Column}})
	}
	return ct
}

// TableMapper maps classes to tables
type TableMapper struct {
	provider meta.Provider
	names    *naming.Resolver
	columns  *ColumnBuilder
	links    *LinkTableResolver
}

// NewTableMapper creates a mapper over provider
func NewTableMapper(provider meta.Provider) *TableMapper {
	names := naming.NewResolver(provider)
	return &TableMapper{
		provider: provider,
		names:    names,
		columns:  NewColumnBuilder(names),
		links:    NewLinkTableResolver(names),
	}
}

// Map derives the table of class from its own and inherited properties.
// Property failures are collected in Table.Errors.
func (m *TableMapper) Map(class string) (*Table, error) {
	name, err := m.names.TableName(class)
	if err != nil {
		return nil, err
	}
	props, err := meta.Properties(m.provider, class)
	if err != nil {
		return nil, err
	}

	t := &Table{Class: class, Name: name}
	columns := map[string]string{naming.ReferenceColumn: "primary key"}
	for _, p := range props {
		if p.Link() == meta.LinkMap {
			link, err := m.links.Resolve(class, p)
			if err != nil {
				t.Errors = append(t.Errors, err)
				continue
			}
			t.Links = append(t.Links, link)
			continue
		}

		col, fk, err := m.columns.Build(name, p)
		if err != nil {
			t.Errors = append(t.Errors, err)
			continue
		}
		if other, taken := columns[col.Name]; taken {
			t.Errors = append(t.Errors, fmt.Errorf("%s.%s: column %s already used by %s", class, p.Name, col.Name, other))
			continue
		}
		columns[col.Name] = p.Name
		t.Fields = append(t.Fields, Field{Property: p, Column: col, ForeignKey: fk})
	}
	return t, nil
}
