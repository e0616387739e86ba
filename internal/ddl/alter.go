package ddl

import (
	"strings"

	"github.com/tordrt/schemasync/internal/sqlvalue"
)

type change struct {
	old    string
	column Column
}

// AlterTable accumulates the column and constraint changes of one table
// and builds them into a single ALTER TABLE statement.
//
// Each group keeps the order in which its keys were first registered;
// registering a key again replaces its definition in place.
type AlterTable struct {
	table string

	adds     []Column
	addAt    map[string]int
	changes  []change
	changeAt map[string]int
	fks      []ForeignKey
	fkAt     map[string]int
}

// NewAlterTable creates an empty alteration of table.
func NewAlterTable(table string) *AlterTable {
	return &AlterTable{
		table:    table,
		addAt:    make(map[string]int),
		changeAt: make(map[string]int),
		fkAt:     make(map[string]int),
	}
}

// Table returns the name of the altered table
func (a *AlterTable) Table() string { return a.table }

// AddColumn registers a column to add, keyed by its name.
func (a *AlterTable) AddColumn(c Column) {
	if i, ok := a.addAt[c.Name]; ok {
		a.adds[i] = c
		return
	}
	a.addAt[c.Name] = len(a.adds)
	a.adds = append(a.adds, c)
}

// AlterColumn registers the new definition of the column currently
// called old. The new definition may rename it.
func (a *AlterTable) AlterColumn(old string, c Column) {
	if i, ok := a.changeAt[old]; ok {
		a.changes[i].column = c
		return
	}
	a.changeAt[old] = len(a.changes)
	a.changes = append(a.changes, change{old: old, column: c})
}

// AddForeignKey registers a constraint to add, keyed by its name.
func (a *AlterTable) AddForeignKey(fk ForeignKey) {
	if i, ok := a.fkAt[fk.Name]; ok {
		a.fks[i] = fk
		return
	}
	a.fkAt[fk.Name] = len(a.fks)
	a.fks = append(a.fks, fk)
}

// IsReady reports whether there is anything to alter. Build must not be
// called otherwise.
func (a *AlterTable) IsReady() bool {
	return len(a.adds) > 0 || len(a.changes) > 0 || len(a.fks) > 0
}

// Build renders the statement: added columns, then changed columns, then
// added constraints.
func (a *AlterTable) Build() string {
	clauses := make([]string, 0, len(a.adds)+len(a.changes)+len(a.fks))
	for _, c := range a.adds {
		clauses = append(clauses, "ADD COLUMN "+c.SQL())
	}
	for _, ch := range a.changes {
		clauses = append(clauses, "CHANGE COLUMN "+sqlvalue.Backquote(ch.old)+" "+ch.column.SQL())
	}
	for _, fk := range a.fks {
		clauses = append(clauses, "ADD "+fk.SQL())
	}
	return "ALTER TABLE " + sqlvalue.Backquote(a.table) + " " + strings.Join(clauses, ", ")
}
