package mapping

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tordrt/schemasync/internal/ddl"
	"github.com/tordrt/schemasync/internal/meta"
	"github.com/tordrt/schemasync/internal/naming"
)

func prop(name string, typ meta.Type, annotations ...meta.Annotation) *meta.Property {
	return &meta.Property{Name: name, Type: typ, Annotations: annotations}
}

func shopModel(t *testing.T) *meta.Model {
	t.Helper()
	m, err := meta.NewModel(
		&meta.Class{Name: "Customer", Properties: []*meta.Property{
			prop("name", meta.ScalarType(meta.ScalarString), meta.Mandatory{}, meta.MaxLength{Length: 100}),
		}},
		&meta.Class{Name: "Order", Properties: []*meta.Property{
			prop("customer", meta.ObjectType("Customer")),
			prop("note", meta.ScalarType(meta.ScalarString), meta.Multiline{}),
			prop("total", meta.ScalarType(meta.ScalarFloat), meta.Default{Value: "0"}),
			prop("paid", meta.ScalarType(meta.ScalarBoolean), meta.Mandatory{}, meta.Default{Value: "false"}),
			prop("placed", meta.ScalarType(meta.ScalarDateTime)),
		}},
		&meta.Class{Name: "OrderLine", Properties: []*meta.Property{
			prop("order", meta.ObjectType("Order"), meta.Composite{}, meta.Mandatory{}),
			prop("quantity", meta.ScalarType(meta.ScalarInteger), meta.Default{Value: "1"}),
		}},
		&meta.Class{Name: "Product", Properties: []*meta.Property{
			prop("tags", meta.CollectionType("Tag")),
		}},
		&meta.Class{Name: "Tag", Properties: []*meta.Property{
			prop("products", meta.CollectionType("Product")),
		}},
		&meta.Class{Name: "User", Properties: []*meta.Property{
			prop("friends", meta.CollectionType("User")),
		}},
	)
	require.NoError(t, err)
	return m
}

func property(t *testing.T, m *meta.Model, class, name string) *meta.Property {
	t.Helper()
	c, err := m.Class(class)
	require.NoError(t, err)
	p, ok := c.Property(name)
	require.True(t, ok, "%s.%s", class, name)
	return p
}

func TestBuildReference(t *testing.T) {
	m := shopModel(t)
	b := NewColumnBuilder(naming.NewResolver(m))

	col, fk, err := b.Build("orders", property(t, m, "Order", "customer"))
	require.NoError(t, err)
	assert.Equal(t, ddl.Column{Name: "id_customer", Type: "BIGINT UNSIGNED", Nullable: true}, col)
	require.NotNil(t, fk)
	assert.Equal(t, ddl.ForeignKey{
		Name:      "orders.id_customer",
		Column:    "id_customer",
		RefTable:  "customers",
		RefColumn: "id",
		OnDelete:  ddl.Restrict,
		OnUpdate:  ddl.Restrict,
	}, *fk)
}

func TestBuildCompositeReference(t *testing.T) {
	m := shopModel(t)
	b := NewColumnBuilder(naming.NewResolver(m))

	col, fk, err := b.Build("order_lines", property(t, m, "OrderLine", "order"))
	require.NoError(t, err)
	assert.False(t, col.Nullable)
	require.NotNil(t, fk)
	assert.Equal(t, "order_lines.id_order", fk.Name)
	assert.Equal(t, "orders", fk.RefTable)
	assert.Equal(t, ddl.Cascade, fk.OnDelete)
	assert.Equal(t, ddl.Restrict, fk.OnUpdate)
}

func TestBuildScalars(t *testing.T) {
	m := shopModel(t)
	b := NewColumnBuilder(naming.NewResolver(m))

	tests := []struct {
		class, prop string
		want        ddl.Column
	}{
		{"Customer", "name", ddl.Column{Name: "name", Type: "VARCHAR(100)"}},
		{"Order", "note", ddl.Column{Name: "note", Type: "TEXT", Nullable: true}},
		{"Order", "total", ddl.Column{Name: "total", Type: "DOUBLE", Nullable: true, Default: float64(0)}},
		{"Order", "paid", ddl.Column{Name: "paid", Type: "TINYINT(1)", Default: false}},
		{"Order", "placed", ddl.Column{Name: "placed", Type: "DATETIME", Nullable: true}},
		{"OrderLine", "quantity", ddl.Column{Name: "quantity", Type: "BIGINT", Nullable: true, Default: int64(1)}},
	}

	for _, tt := range tests {
		t.Run(tt.class+"."+tt.prop, func(t *testing.T) {
			col, fk, err := b.Build("t", property(t, m, tt.class, tt.prop))
			require.NoError(t, err)
			assert.Nil(t, fk)
			assert.Equal(t, tt.want, col)
		})
	}
}

func TestBuildErrors(t *testing.T) {
	m := shopModel(t)
	b := NewColumnBuilder(naming.NewResolver(m))

	_, _, err := b.Build("products", property(t, m, "Product", "tags"))
	assert.ErrorIs(t, err, ErrLinkProperty)

	bad := prop("qty", meta.ScalarType(meta.ScalarInteger), meta.Default{Value: "many"})
	bad.Owner = "Order"
	_, _, err = b.Build("orders", bad)
	assert.ErrorContains(t, err, `Order.qty: invalid default "many"`)

	missing := prop("shipper", meta.ObjectType("Shipper"))
	missing.Owner = "Order"
	_, fk, err := b.Build("orders", missing)
	assert.Nil(t, fk)
	assert.True(t, errors.Is(err, naming.ErrUnresolvableReference))
}

func TestResolveLinkTableSymmetry(t *testing.T) {
	m := shopModel(t)
	r := NewLinkTableResolver(naming.NewResolver(m))

	fromProduct, err := r.Resolve("Product", property(t, m, "Product", "tags"))
	require.NoError(t, err)
	fromTag, err := r.Resolve("Tag", property(t, m, "Tag", "products"))
	require.NoError(t, err)

	assert.Equal(t, ddl.LinkTable{
		Name:          "products_tags",
		MasterTable:   "products",
		MasterColumn:  "id_product",
		ForeignTable:  "tags",
		ForeignColumn: "id_tag",
	}, fromProduct)
	assert.Equal(t, fromProduct.Name, fromTag.Name)
	assert.Equal(t, fromProduct.MasterColumn, fromTag.ForeignColumn)
	assert.Equal(t, fromProduct.ForeignColumn, fromTag.MasterColumn)
}

func TestResolveLinkTableClassEndingInS(t *testing.T) {
	m, err := meta.NewModel(
		&meta.Class{Name: "Address", Properties: []*meta.Property{
			prop("statuses", meta.CollectionType("Status")),
		}},
		&meta.Class{Name: "Status", Properties: []*meta.Property{
			prop("addresses", meta.CollectionType("Address")),
		}},
		&meta.Class{Name: "Bus", Properties: []*meta.Property{
			prop("analyses", meta.CollectionType("Analysis")),
		}},
		&meta.Class{Name: "Analysis"},
	)
	require.NoError(t, err)
	r := NewLinkTableResolver(naming.NewResolver(m))

	fromAddress, err := r.Resolve("Address", property(t, m, "Address", "statuses"))
	require.NoError(t, err)
	assert.Equal(t, "id_address", fromAddress.MasterColumn)
	assert.Equal(t, "id_status", fromAddress.ForeignColumn)

	fromStatus, err := r.Resolve("Status", property(t, m, "Status", "addresses"))
	require.NoError(t, err)
	assert.Equal(t, fromAddress.Name, fromStatus.Name)
	assert.Equal(t, "id_status", fromStatus.MasterColumn)
	assert.Equal(t, "id_address", fromStatus.ForeignColumn)

	fromBus, err := r.Resolve("Bus", property(t, m, "Bus", "analyses"))
	require.NoError(t, err)
	assert.Equal(t, "id_bus", fromBus.MasterColumn)
	assert.Equal(t, "id_analysis", fromBus.ForeignColumn)
}

func TestResolveSelfLink(t *testing.T) {
	m := shopModel(t)
	r := NewLinkTableResolver(naming.NewResolver(m))

	link, err := r.Resolve("User", property(t, m, "User", "friends"))
	require.NoError(t, err)
	assert.Equal(t, "users_users", link.Name)
	assert.Equal(t, "id_user", link.MasterColumn)
	assert.Equal(t, "id_friend", link.ForeignColumn)
}

func TestResolveLinkAnnotations(t *testing.T) {
	m := shopModel(t)
	r := NewLinkTableResolver(naming.NewResolver(m))

	p := prop("tags", meta.CollectionType("Tag"), meta.Foreign{Property: "item"}, meta.ForeignLink{Name: "label"})
	p.Owner = "Product"
	link, err := r.Resolve("Product", p)
	require.NoError(t, err)
	assert.Equal(t, "id_item", link.MasterColumn)
	assert.Equal(t, "id_label", link.ForeignColumn)

	clash := prop("users", meta.CollectionType("User"))
	clash.Owner = "User"
	_, err = r.Resolve("User", clash)
	assert.ErrorContains(t, err, "set @foreignlink")

	_, err = r.Resolve("Order", property(t, m, "Order", "customer"))
	assert.ErrorContains(t, err, "not a map property")
}

func TestTableMapperMap(t *testing.T) {
	m := shopModel(t)
	mapper := NewTableMapper(m)

	table, err := mapper.Map("Order")
	require.NoError(t, err)
	assert.Equal(t, "orders", table.Name)
	assert.Empty(t, table.Errors)

	var names []string
	for _, c := range table.Columns() {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"id", "id_customer", "note", "total", "paid", "placed"}, names)
	require.Len(t, table.ForeignKeys(), 1)

	ct := table.CreateTable()
	assert.Empty(t, ct.ForeignKeys, "constraints are added after every table exists")
	assert.Equal(t, []ddl.Key{{Name: "id_customer", Columns: []string{"id_customer"}}}, ct.Keys)

	product, err := mapper.Map("Product")
	require.NoError(t, err)
	assert.Empty(t, product.Fields)
	require.Len(t, product.Links, 1)
	assert.Equal(t, "products_tags", product.Links[0].Name)
}

func TestTableMapperInheritanceAndErrors(t *testing.T) {
	m, err := meta.NewModel(
		&meta.Class{Name: "Entity", Abstract: true, Properties: []*meta.Property{
			prop("created", meta.ScalarType(meta.ScalarDateTime)),
		}},
		&meta.Class{Name: "Invoice", Parent: "Entity", Properties: []*meta.Property{
			prop("client", meta.ObjectType("Client")),
			prop("number", meta.ScalarType(meta.ScalarString), meta.Former{Name: "ref"}),
			prop("id", meta.ScalarType(meta.ScalarInteger)),
			prop("owner", meta.ObjectType("Entity")),
		}},
	)
	require.NoError(t, err)
	mapper := NewTableMapper(m)

	table, err := mapper.Map("Invoice")
	require.NoError(t, err)
	require.Len(t, table.Fields, 2)
	assert.Equal(t, "created", table.Fields[0].Column.Name)
	assert.Equal(t, "number", table.Fields[1].Column.Name)
	assert.Equal(t, "ref", table.Fields[1].FormerColumn())

	require.Len(t, table.Errors, 3)
	assert.ErrorIs(t, table.Errors[0], naming.ErrUnresolvableReference)
	assert.ErrorContains(t, table.Errors[1], "column id already used")
	assert.ErrorIs(t, table.Errors[2], naming.ErrUnresolvableReference)

	_, err = mapper.Map("Entity")
	assert.ErrorIs(t, err, naming.ErrUnresolvableReference)
}

func TestFieldFormerColumn(t *testing.T) {
	ref := Field{Property: prop("buyer", meta.ObjectType("Customer"), meta.Former{Name: "customer"})}
	assert.Equal(t, "id_customer", ref.FormerColumn())

	plain := Field{Property: prop("title", meta.ScalarType(meta.ScalarString))}
	assert.Empty(t, plain.FormerColumn())
}
