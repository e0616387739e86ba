package mapping

import (
	"fmt"

	"github.com/tordrt/schemasync/internal/ddl"
	"github.com/tordrt/schemasync/internal/meta"
	"github.com/tordrt/schemasync/internal/naming"
)

// LinkTableResolver derives the link table of map properties
type LinkTableResolver struct {
	names *naming.Resolver
}

// NewLinkTableResolver creates a resolver using names for table names.
func NewLinkTableResolver(names *naming.Resolver) *LinkTableResolver {
	return &LinkTableResolver{names: names}
}

// Resolve returns the link table storing the map property p of class.
// class is the class being mapped, which may inherit p.
//
// Both sides of a relation resolve to the same table name; their master
// and foreign columns are swapped.
func (r *LinkTableResolver) Resolve(class string, p *meta.Property) (ddl.LinkTable, error) {
	if p.Link() != meta.LinkMap {
		return ddl.LinkTable{}, fmt.Errorf("%s.%s: not a map property", class, p.Name)
	}

	masterTable, err := r.names.TableName(class)
	if err != nil {
		return ddl.LinkTable{}, err
	}
	foreignTable, err := r.names.ReferenceTable(p)
	if err != nil {
		return ddl.LinkTable{}, err
	}

	master := p.ForeignPropertyName()
	if master == "" {
		master = naming.ClassToProperty(class)
	}
	foreign := p.ForeignLinkName()
	if foreign == "" {
		foreign = naming.ClassToProperty(p.Type.Class)
		if foreign == master {
			foreign = naming.ClassToProperty(naming.SetToClass(p.Name))
		}
	}
	if foreign == master {
		return ddl.LinkTable{}, fmt.Errorf("%s.%s: link columns both named %s%s, set @foreignlink",
			class, p.Name, naming.ReferencePrefix, master)
	}

	return ddl.LinkTable{
		Name:          naming.LinkTableName(masterTable, foreignTable),
		MasterTable:   masterTable,
		MasterColumn:  naming.ReferencePrefix + master,
		ForeignTable:  foreignTable,
		ForeignColumn: naming.ReferencePrefix + foreign,
	}, nil
}
