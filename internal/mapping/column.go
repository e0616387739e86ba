// Package mapping derives the physical schema of classes: columns and
// foreign keys of their tables, and the link tables of their map
// properties.
package mapping

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/tordrt/schemasync/internal/ddl"
	"github.com/tordrt/schemasync/internal/meta"
	"github.com/tordrt/schemasync/internal/naming"
)

// ErrLinkProperty is returned when a column is requested for a property
// stored in a link table.
var ErrLinkProperty = errors.New("property is stored in a link table")

const defaultStringLength = 255

// ColumnBuilder derives the column and foreign key of a property
type ColumnBuilder struct {
	names *naming.Resolver
}

// NewColumnBuilder creates a builder resolving reference tables with names.
func NewColumnBuilder(names *naming.Resolver) *ColumnBuilder {
	return &ColumnBuilder{names: names}
}

// Build returns the column of p on table and, when p is a single-object
// reference, the foreign key to the referenced table. An unresolvable
// target yields a *naming.UnresolvableReferenceError and no constraint.
func (b *ColumnBuilder) Build(table string, p *meta.Property) (ddl.Column, *ddl.ForeignKey, error) {
	switch p.Link() {
	case meta.LinkMap:
		return ddl.Column{}, nil, fmt.Errorf("%s.%s: %w", p.Owner, p.Name, ErrLinkProperty)

	case meta.LinkObject:
		if p.Type.Kind != meta.KindObject {
			return ddl.Column{}, nil, fmt.Errorf("%s.%s: object link on %s type", p.Owner, p.Name, p.Type.Kind)
		}
		refTable, err := b.names.ReferenceTable(p)
		if err != nil {
			return ddl.Column{}, nil, err
		}
		col := ddl.Column{
			Name:     naming.ColumnName(p),
			Type:     ddl.ReferenceType,
			Nullable: !p.IsMandatory(),
		}
		fk := &ddl.ForeignKey{
			Name:      naming.ConstraintName(table, p),
			Column:    col.Name,
			RefTable:  refTable,
			RefColumn: naming.ReferenceColumn,
			OnDelete:  ddl.Restrict,
			OnUpdate:  ddl.Restrict,
		}
		if p.IsComposite() {
			fk.OnDelete = ddl.Cascade
		}
		return col, fk, nil

	default:
		if p.Type.Kind != meta.KindScalar {
			return ddl.Column{}, nil, fmt.Errorf("%s.%s: %s type %s has no link", p.Owner, p.Name, p.Type.Kind, p.Type)
		}
		col := ddl.Column{
			Name:     naming.ColumnName(p),
			Type:     ScalarType(p),
			Nullable: !p.IsMandatory(),
		}
		def, err := defaultValue(p)
		if err != nil {
			return ddl.Column{}, nil, err
		}
		col.Default = def
		return col, nil, nil
	}
}

// ScalarType returns the SQL type storing a scalar property.
func ScalarType(p *meta.Property) string {
	switch p.Type.Scalar {
	case meta.ScalarInteger:
		return "BIGINT"
	case meta.ScalarFloat:
		return "DOUBLE"
	case meta.ScalarBoolean:
		return "TINYINT(1)"
	case meta.ScalarDateTime:
		return "DATETIME"
	default:
		if p.IsMultiline() {
			return "TEXT"
		}
		n := p.MaxLength()
		if n == 0 {
			n = defaultStringLength
		}
		return "VARCHAR(" + strconv.Itoa(n) + ")"
	}
}

// defaultValue converts the declared default to the property's value kind.
func defaultValue(p *meta.Property) (any, error) {
	v, ok := p.Default()
	if !ok || v == nil {
		return nil, nil
	}
	s, isString := v.(string)
	if !isString {
		return v, nil
	}

	var (
		out any
		err error
	)
	switch p.Type.Scalar {
	case meta.ScalarInteger:
		out, err = strconv.ParseInt(s, 10, 64)
	case meta.ScalarFloat:
		out, err = strconv.ParseFloat(s, 64)
	case meta.ScalarBoolean:
		out, err = strconv.ParseBool(s)
	default:
		out = s
	}
	if err != nil {
		return nil, fmt.Errorf("%s.%s: invalid default %q for %s: %w", p.Owner, p.Name, s, p.Type.Scalar, err)
	}
	return out, nil
}
