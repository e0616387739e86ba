package ddl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAlterTableBuild(t *testing.T) {
	a := NewAlterTable("orders")
	a.AddColumn(Column{Name: "status", Type: "VARCHAR(20)", Nullable: true})
	a.AlterColumn("desc", Column{Name: "description", Type: "TEXT", Nullable: true})

	require.True(t, a.IsReady())
	assert.Equal(t, "ALTER TABLE `orders` ADD COLUMN status VARCHAR(20), CHANGE COLUMN `desc` description TEXT", a.Build())
}

func TestAlterTableGroupsOrder(t *testing.T) {
	a := NewAlterTable("orders")
	a.AlterColumn("desc", Column{Name: "description", Type: "TEXT", Nullable: true})
	a.AddForeignKey(ForeignKey{Name: "orders.id_customer", Column: "id_customer", RefTable: "customers",
		RefColumn: "id", OnDelete: Restrict, OnUpdate: Restrict})
	a.AddColumn(Column{Name: "status", Type: "VARCHAR(20)", Nullable: true})

	assert.Equal(t, "ALTER TABLE `orders` ADD COLUMN status VARCHAR(20), CHANGE COLUMN `desc` description TEXT, "+
		"ADD CONSTRAINT `orders.id_customer` FOREIGN KEY (`id_customer`) REFERENCES `customers` (`id`) ON DELETE RESTRICT ON UPDATE RESTRICT",
		a.Build())
}

func TestAlterTableLastWriteWins(t *testing.T) {
	a := NewAlterTable("items")
	a.AddColumn(Column{Name: "a", Type: "BIGINT", Nullable: true})
	a.AddColumn(Column{Name: "b", Type: "BIGINT", Nullable: true})
	a.AddColumn(Column{Name: "a", Type: "DOUBLE", Nullable: true})
	a.AlterColumn("c", Column{Name: "c", Type: "TEXT", Nullable: true})
	a.AlterColumn("c", Column{Name: "c2", Type: "TEXT"})

	assert.Equal(t, "ALTER TABLE `items` ADD COLUMN a DOUBLE, ADD COLUMN b BIGINT, CHANGE COLUMN `c` c2 TEXT NOT NULL", a.Build())
}

func TestAlterTableIsReady(t *testing.T) {
	a := NewAlterTable("orders")
	assert.False(t, a.IsReady())
	assert.Equal(t, "orders", a.Table())

	fkOnly := NewAlterTable("orders")
	fkOnly.AddForeignKey(ForeignKey{Name: "fk", Column: "id_x", RefTable: "xs", RefColumn: "id", OnDelete: Cascade, OnUpdate: Restrict})
	assert.True(t, fkOnly.IsReady())
}

func TestColumnSQL(t *testing.T) {
	tests := []struct {
		name string
		col  Column
		want string
	}{
		{"nullable", Column{Name: "note", Type: "TEXT", Nullable: true}, "note TEXT"},
		{"not null", Column{Name: "name", Type: "VARCHAR(100)"}, "name VARCHAR(100) NOT NULL"},
		{"string default", Column{Name: "state", Type: "VARCHAR(255)", Nullable: true, Default: "new"}, `state VARCHAR(255) DEFAULT "new"`},
		{"numeric default", Column{Name: "qty", Type: "BIGINT", Default: int64(1)}, "qty BIGINT NOT NULL DEFAULT 1"},
		{"bool default", Column{Name: "active", Type: "TINYINT(1)", Default: true}, "active TINYINT(1) NOT NULL DEFAULT 1"},
		{"reserved word", Column{Name: "order", Type: "BIGINT", Nullable: true}, "`order` BIGINT"},
		{"unsafe name", Column{Name: "unit price", Type: "DOUBLE", Nullable: true}, "`unit price` DOUBLE"},
		{"id", IDColumn(), "id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.col.SQL())
		})
	}
}

func TestForeignKeySQL(t *testing.T) {
	fk := ForeignKey{Name: "order_items.id_order", Column: "id_order", RefTable: "orders", RefColumn: "id",
		OnDelete: Cascade, OnUpdate: Restrict}
	assert.Equal(t, "CONSTRAINT `order_items.id_order` FOREIGN KEY (`id_order`) REFERENCES `orders` (`id`) ON DELETE CASCADE ON UPDATE RESTRICT", fk.SQL())
}

func TestLinkTable(t *testing.T) {
	l := LinkTable{
		Name:          "products_tags",
		MasterTable:   "products",
		MasterColumn:  "id_product",
		ForeignTable:  "tags",
		ForeignColumn: "id_tag",
	}

	fks := l.ForeignKeys()
	require.Len(t, fks, 2)
	assert.Equal(t, "products_tags.id_product", fks[0].Name)
	assert.Equal(t, "products", fks[0].RefTable)
	assert.Equal(t, "products_tags.id_tag", fks[1].Name)
	assert.Equal(t, "tags", fks[1].RefTable)
	for _, fk := range fks {
		assert.Equal(t, Cascade, fk.OnDelete)
		assert.Equal(t, Restrict, fk.OnUpdate)
	}

	want := "CREATE TABLE IF NOT EXISTS `products_tags` (\n" +
		"  id_product BIGINT UNSIGNED NOT NULL,\n" +
		"  id_tag BIGINT UNSIGNED NOT NULL,\n" +
		"  PRIMARY KEY (`id_product`, `id_tag`),\n" +
		"  KEY `id_tag` (`id_tag`),\n" +
		"  CONSTRAINT `products_tags.id_product` FOREIGN KEY (`id_product`) REFERENCES `products` (`id`) ON DELETE CASCADE ON UPDATE RESTRICT,\n" +
		"  CONSTRAINT `products_tags.id_tag` FOREIGN KEY (`id_tag`) REFERENCES `tags` (`id`) ON DELETE CASCADE ON UPDATE RESTRICT\n" +
		") ENGINE=InnoDB DEFAULT CHARSET=utf8mb4"
	assert.Equal(t, want, l.CreateTable().Build())
}

func TestCreateTableBuild(t *testing.T) {
	ct := &CreateTable{
		Name:       "customers",
		Columns:    []Column{IDColumn(), {Name: "name", Type: "VARCHAR(100)"}},
		PrimaryKey: []string{"id"},
	}
	want := "CREATE TABLE IF NOT EXISTS `customers` (\n" +
		"  id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,\n" +
		"  name VARCHAR(100) NOT NULL,\n" +
		"  PRIMARY KEY (`id`)\n" +
		") ENGINE=InnoDB DEFAULT CHARSET=utf8mb4"
	assert.Equal(t, want, ct.Build())
}

func TestIdent(t *testing.T) {
	assert.Equal(t, "status", Ident("status"))
	assert.Equal(t, "id_customer", Ident("id_customer"))
	assert.Equal(t, "`desc`", Ident("desc"))
	assert.Equal(t, "`Key`", Ident("Key"))
	assert.Equal(t, "`1st`", Ident("1st"))
	assert.Equal(t, "``", Ident(""))
}
