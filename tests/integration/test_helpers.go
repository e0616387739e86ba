//go:build integration
// +build integration

package integration

import (
	"context"
	"database/sql"
	"testing"

	"github.com/tordrt/schemasync"
	"github.com/tordrt/schemasync/internal/meta"
	"github.com/tordrt/schemasync/internal/migrate"
	"github.com/tordrt/schemasync/internal/schema"
)

const shopModel = "../../testdata/shop.yaml"

// shopTables are the tables of the shop model in creation order
var shopTables = []string{"customers", "orders", "order_items", "products", "orders_products"}

func loadShop(t *testing.T) *meta.Model {
	t.Helper()

	model, err := schemasync.LoadModel(shopModel)
	if err != nil {
		t.Fatalf("Failed to load model: %v", err)
	}
	return model
}

// applyPlan runs every statement of the plan, in order
func applyPlan(t *testing.T, ctx context.Context, db *sql.DB, plan *migrate.Plan) {
	t.Helper()

	for _, s := range plan.Statements {
		if _, err := db.ExecContext(ctx, s.SQL); err != nil {
			t.Fatalf("Failed to run %s %s: %v\n%s", s.Kind, s.Table, err, s.SQL)
		}
	}
}

// verifyTablesExist checks that all expected tables are present in the schema
func verifyTablesExist(t *testing.T, s *schema.Schema, expectedTables []string) {
	t.Helper()

	for _, tableName := range expectedTables {
		if s.Table(tableName) == nil {
			t.Errorf("Expected table %s not found in schema", tableName)
		}
	}
}

// verifyColumns checks that expected columns exist in a table
func verifyColumns(t *testing.T, table *schema.Table, expectedColumns []string) {
	t.Helper()

	for _, colName := range expectedColumns {
		if table.Column(colName) == nil {
			t.Errorf("Expected column %s not found in %s table", colName, table.Name)
		}
	}
}

// verifyPrimaryKey checks that a table has the expected primary key
func verifyPrimaryKey(t *testing.T, table *schema.Table, expectedPK []string) {
	t.Helper()

	if len(table.PrimaryKey) != len(expectedPK) {
		t.Errorf("Expected primary key %v, got %v", expectedPK, table.PrimaryKey)
		return
	}

	for i, pk := range expectedPK {
		if table.PrimaryKey[i] != pk {
			t.Errorf("Expected primary key %v, got %v", expectedPK, table.PrimaryKey)
			return
		}
	}
}

// verifyForeignKey checks that a foreign key relationship exists
func verifyForeignKey(t *testing.T, s *schema.Schema, tableName, sourceColumn, targetTable string) {
	t.Helper()

	table := s.Table(tableName)
	if table == nil {
		t.Fatalf("Table %s not found", tableName)
	}

	for _, rel := range table.Relations {
		if rel.TargetTable == targetTable && rel.SourceColumn == sourceColumn {
			return
		}
	}

	t.Errorf("Expected foreign key relationship from %s.%s to %s not found", tableName, sourceColumn, targetTable)
}

// verifyPlanTables checks the tables touched by the plan
func verifyPlanTables(t *testing.T, plan *migrate.Plan, expectedTables []string) {
	t.Helper()

	got := plan.Tables()
	if len(got) != len(expectedTables) {
		t.Fatalf("Expected plan on %v, got %v", expectedTables, got)
	}
	for i, name := range expectedTables {
		if got[i] != name {
			t.Errorf("Expected plan on %v, got %v", expectedTables, got)
			return
		}
	}
}
