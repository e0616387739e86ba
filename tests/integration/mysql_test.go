//go:build integration
// +build integration

package integration

import (
	"context"
	"database/sql"
	"os"
	"testing"

	_ "github.com/go-sql-driver/mysql"

	"github.com/tordrt/schemasync"
)

func mysqlDSN() string {
	// Use environment variable if set, otherwise use default test connection string
	dsn := os.Getenv("MYSQL_TEST_URL")
	if dsn == "" {
		dsn = "root:testpassword@tcp(localhost:3306)/testdb"
	}
	return dsn
}

// openMySQL connects to the test database and drops the shop tables
// before and after the test.
func openMySQL(t *testing.T, ctx context.Context) *sql.DB {
	t.Helper()

	db, err := sql.Open("mysql", mysqlDSN())
	if err != nil {
		t.Fatalf("Failed to connect to MySQL: %v", err)
	}
	if err := db.PingContext(ctx); err != nil {
		t.Fatalf("Failed to connect to MySQL: %v", err)
	}

	drop := func() {
		for i := len(shopTables) - 1; i >= 0; i-- {
			if _, err := db.ExecContext(ctx, "DROP TABLE IF EXISTS `"+shopTables[i]+"`"); err != nil {
				t.Fatalf("Failed to drop %s: %v", shopTables[i], err)
			}
		}
	}
	drop()
	t.Cleanup(func() {
		drop()
		_ = db.Close()
	})
	return db
}

func TestMySQLFreshInstall(t *testing.T) {
	ctx := context.Background()
	db := openMySQL(t, ctx)
	model := loadShop(t)
	url := "mysql://" + mysqlDSN()

	live, err := schemasync.InspectSchema(ctx, url, nil)
	if err != nil {
		t.Fatalf("Failed to inspect schema: %v", err)
	}
	plan := schemasync.Plan(model, live, nil)
	if plan.Report.HasErrors() {
		t.Fatalf("Unexpected errors:\n%s", plan.Report)
	}
	verifyPlanTables(t, plan, shopTables)
	applyPlan(t, ctx, db, plan)

	live, err = schemasync.InspectSchema(ctx, url, nil)
	if err != nil {
		t.Fatalf("Failed to inspect schema: %v", err)
	}
	verifyTablesExist(t, live, shopTables)

	orders := live.Table("orders")
	verifyPrimaryKey(t, orders, []string{"id"})
	verifyColumns(t, orders, []string{"id", "created", "id_customer", "status", "description"})
	verifyForeignKey(t, live, "orders", "id_customer", "customers")
	verifyForeignKey(t, live, "order_items", "id_order", "orders")
	verifyForeignKey(t, live, "orders_products", "id_product", "products")

	// A synchronized database needs nothing more
	plan = schemasync.Plan(model, live, nil)
	if !plan.Empty() {
		t.Errorf("Expected an empty plan, got %v", plan.Tables())
	}
	if plan.Report.HasWarnings() {
		t.Errorf("Unexpected warnings:\n%s", plan.Report)
	}
}

func TestMySQLAlterExisting(t *testing.T) {
	ctx := context.Background()
	db := openMySQL(t, ctx)
	model := loadShop(t)
	url := "mysql://" + mysqlDSN()

	applyPlan(t, ctx, db, schemasync.Plan(model, nil, nil))
	for _, stmt := range []string{
		"ALTER TABLE `customers` DROP COLUMN email",
		"ALTER TABLE `orders` CHANGE COLUMN description `desc` TEXT",
	} {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			t.Fatalf("Failed to prepare schema: %v", err)
		}
	}

	live, err := schemasync.InspectSchema(ctx, url, &schemasync.Options{Tables: []string{"customers", "orders"}})
	if err != nil {
		t.Fatalf("Failed to inspect schema: %v", err)
	}
	plan := schemasync.Plan(model, live, &schemasync.Options{Tables: []string{"customers", "orders"}})
	verifyPlanTables(t, plan, []string{"customers", "orders"})

	want := []string{
		"ALTER TABLE `customers` ADD COLUMN email VARCHAR(190)",
		"ALTER TABLE `orders` CHANGE COLUMN `desc` description TEXT",
	}
	for i, s := range plan.Statements {
		if s.SQL != want[i] {
			t.Errorf("Statement %d: expected %q, got %q", i, want[i], s.SQL)
		}
	}

	applyPlan(t, ctx, db, plan)
	live, err = schemasync.InspectSchema(ctx, url, nil)
	if err != nil {
		t.Fatalf("Failed to inspect schema: %v", err)
	}
	if plan := schemasync.Plan(model, live, nil); !plan.Empty() {
		t.Errorf("Expected an empty plan, got %v", plan.Tables())
	}
}

func TestMySQLSpecificTables(t *testing.T) {
	ctx := context.Background()
	db := openMySQL(t, ctx)
	applyPlan(t, ctx, db, schemasync.Plan(loadShop(t), nil, nil))

	live, err := schemasync.InspectSchema(ctx, "mysql://"+mysqlDSN(), &schemasync.Options{
		Tables:        []string{"order%"},
		ExcludeTables: []string{"order_items"},
	})
	if err != nil {
		t.Fatalf("Failed to inspect schema: %v", err)
	}

	if len(live.Tables) != 2 {
		t.Errorf("Expected 2 tables, got %d", len(live.Tables))
	}
	verifyTablesExist(t, live, []string{"orders", "orders_products"})
}
