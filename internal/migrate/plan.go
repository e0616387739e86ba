// Package migrate reconciles a live schema with the tables derived from a
// class model and produces the DDL statements closing the gap.
package migrate

import (
	"io"
	"log/slog"
	"strings"

	"github.com/tordrt/schemasync/internal/ddl"
	"github.com/tordrt/schemasync/internal/mapping"
	"github.com/tordrt/schemasync/internal/meta"
	"github.com/tordrt/schemasync/internal/naming"
	"github.com/tordrt/schemasync/internal/schema"
	"github.com/tordrt/schemasync/internal/sqlvalue"
)

// StatementKind tells what a statement does
type StatementKind int

const (
	CreateTable StatementKind = iota
	AlterTable
	CreateLinkTable
)

func (k StatementKind) String() string {
	switch k {
	case CreateTable:
		return "create"
	case AlterTable:
		return "alter"
	default:
		return "link"
	}
}

// Statement is one DDL statement of a plan
type Statement struct {
	Kind  StatementKind
	Table string
	SQL   string
}

// Plan is the ordered list of statements bringing a database up to date.
type Plan struct {
	Dialect    string
	Statements []Statement
	Report     *Report
}

// Empty reports whether the database is already up to date
func (p *Plan) Empty() bool {
	return len(p.Statements) == 0
}

// Tables returns the tables touched by the plan in statement order
func (p *Plan) Tables() []string {
	var tables []string
	seen := make(map[string]bool)
	for _, s := range p.Statements {
		if !seen[s.Table] {
			seen[s.Table] = true
			tables = append(tables, s.Table)
		}
	}
	return tables
}

// Options configures planning
type Options struct {
	// Tables restricts the plan to these tables. Entries naming a model
	// table select it alone; other entries with LIKE wildcards match table
	// names, and \_ or \% match a literal _ or %. Empty plans every table.
	Tables []string

	// ExcludeTables are never created nor altered.
	ExcludeTables []string

	// Logger receives debug traces. Nil discards them.
	Logger *slog.Logger
}

// Planner plans the synchronization of a model with live schemas
type Planner struct {
	provider meta.Provider
	mapper   *mapping.TableMapper
	only     []string
	exclude  map[string]bool
	exact    map[string]bool
	log      *slog.Logger
}

// NewPlanner creates a planner for the classes of provider
func NewPlanner(provider meta.Provider, opts *Options) *Planner {
	if opts == nil {
		opts = &Options{}
	}
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	p := &Planner{
		provider: provider,
		mapper:   mapping.NewTableMapper(provider),
		log:      log,
	}
	if len(opts.Tables) > 0 {
		p.only = opts.Tables
		p.exact = make(map[string]bool)
		for _, name := range p.TableNames() {
			p.exact[name] = true
		}
	}
	p.exclude = make(map[string]bool, len(opts.ExcludeTables))
	for _, t := range opts.ExcludeTables {
		p.exclude[t] = true
	}
	return p
}

// Plan compares the model with live and returns the statements to run,
// in three phases: entity tables are created without constraints, then
// each table gets one ALTER TABLE with its missing columns and foreign
// keys, then missing link tables are created. A nil live schema plans a
// fresh install.
func (p *Planner) Plan(live *schema.Schema) *Plan {
	if live == nil {
		live = &schema.Schema{Dialect: schema.DialectMySQL}
	}
	plan := &Plan{Dialect: live.Dialect, Report: &Report{}}
	compareTypes := live.Dialect == "" || live.Dialect == schema.DialectMySQL
	if !compareTypes {
		plan.Report.addWarning("", "%s schema: column types are not compared, only columns, nullability and foreign keys", live.Dialect)
	}

	tables := p.selectTables(p.mapTables(plan.Report))

	for _, t := range tables {
		if !p.selected(t.Name) || live.Table(t.Name) != nil {
			continue
		}
		p.log.Debug("create table", "table", t.Name, "class", t.Class)
		plan.add(CreateTable, t.Name, t.CreateTable().Build())
	}

	for _, t := range tables {
		if !p.selected(t.Name) {
			continue
		}
		alter := ddl.NewAlterTable(t.Name)
		lt := live.Table(t.Name)
		if lt != nil {
			diffColumns(alter, t, lt, compareTypes)
			if len(lt.PrimaryKey) != 1 || lt.PrimaryKey[0] != naming.ReferenceColumn {
				plan.Report.addWarning(t.Name, "primary key is (%s), expected (%s)",
					strings.Join(lt.PrimaryKey, ", "), naming.ReferenceColumn)
			}
		}
		for _, f := range t.Fields {
			if f.ForeignKey != nil && !hasForeignKey(lt, f) {
				alter.AddForeignKey(*f.ForeignKey)
			}
		}
		if alter.IsReady() {
			p.log.Debug("alter table", "table", t.Name)
			plan.add(AlterTable, t.Name, alter.Build())
		}
	}

	seen := make(map[string]bool)
	for _, t := range tables {
		for _, l := range t.Links {
			if seen[l.Name] || !p.selected(l.Name) {
				continue
			}
			seen[l.Name] = true
			if live.Table(l.Name) != nil {
				continue
			}
			p.log.Debug("create link table", "table", l.Name, "master", l.MasterTable, "foreign", l.ForeignTable)
			plan.add(CreateLinkTable, l.Name, l.CreateTable().Build())
		}
	}

	checkConstraintNames(tables, plan.Report)
	p.log.Info("plan ready", "statements", len(plan.Statements),
		"errors", len(plan.Report.Errors), "warnings", len(plan.Report.Warnings))
	return plan
}

// mapTables maps every concrete class, reporting what cannot be mapped.
func (p *Planner) mapTables(report *Report) []*mapping.Table {
	var tables []*mapping.Table
	for _, c := range p.provider.Classes() {
		if c.Abstract {
			continue
		}
		t, err := p.mapper.Map(c.Name)
		if err != nil {
			report.addError(c.Name, err)
			continue
		}
		for _, e := range t.Errors {
			report.addError(t.Name, e)
		}
		tables = append(tables, t)
	}
	return tables
}

// selectTables keeps the selected tables and those with a selected link.
// Selection entries naming a model table match that table only, even when
// they contain a LIKE wildcard such as the _ of order_items.
func (p *Planner) selectTables(tables []*mapping.Table) []*mapping.Table {
	var selected []*mapping.Table
	for _, t := range tables {
		if p.selected(t.Name) || p.linksSelected(t) {
			selected = append(selected, t)
		}
	}
	return selected
}

func (p *Planner) selected(table string) bool {
	if p.exclude[table] {
		return false
	}
	if p.only == nil {
		return true
	}
	for _, name := range p.only {
		switch {
		case name == table:
			return true
		case p.exact[name]:
			// names another model table
		case sqlvalue.IsLike(name):
			if sqlvalue.MatchLike(name, table) {
				return true
			}
		case sqlvalue.UnescapeLike(name) == table:
			return true
		}
	}
	return false
}

// TableNames returns the names of the entity and link tables of the model.
func (p *Planner) TableNames() []string {
	return tableNames(p.mapTables(&Report{}))
}

func tableNames(tables []*mapping.Table) []string {
	var names []string
	seen := make(map[string]bool)
	add := func(name string) {
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	for _, t := range tables {
		add(t.Name)
		for _, l := range t.Links {
			add(l.Name)
		}
	}
	return names
}

func (p *Planner) linksSelected(t *mapping.Table) bool {
	for _, l := range t.Links {
		if p.selected(l.Name) {
			return true
		}
	}
	return false
}

func (p *Plan) add(kind StatementKind, table, sql string) {
	p.Statements = append(p.Statements, Statement{Kind: kind, Table: table, SQL: sql})
}

// diffColumns registers the columns of t missing from or differing in lt.
func diffColumns(alter *ddl.AlterTable, t *mapping.Table, lt *schema.Table, compareTypes bool) {
	for _, f := range t.Fields {
		want := f.Column
		if have := lt.Column(want.Name); have != nil {
			if have.Nullable != want.Nullable || compareTypes && !have.SameType(want.Type) {
				alter.AlterColumn(want.Name, want)
			}
			continue
		}
		if former := renamedFrom(f, lt); former != "" {
			alter.AlterColumn(former, want)
			continue
		}
		alter.AddColumn(want)
	}
}

// renamedFrom returns the live column f is renamed from, "" when f keeps
// its name or its former column does not exist.
func renamedFrom(f mapping.Field, lt *schema.Table) string {
	former := f.FormerColumn()
	if former == "" || lt.Column(f.Column.Name) != nil || lt.Column(former) == nil {
		return ""
	}
	return former
}

// hasForeignKey reports whether the live table already constrains the
// column of f. A constraint on a column being renamed follows the column.
func hasForeignKey(lt *schema.Table, f mapping.Field) bool {
	if lt == nil {
		return false
	}
	if lt.HasForeignKey(f.Column.Name) {
		return true
	}
	former := renamedFrom(f, lt)
	return former != "" && lt.HasForeignKey(former)
}

// checkConstraintNames warns about constraint names made equal by truncation.
func checkConstraintNames(tables []*mapping.Table, report *Report) {
	owners := make(map[string]string)
	check := func(table string, fk ddl.ForeignKey) {
		owner := table + "." + fk.Column
		if first, dup := owners[fk.Name]; dup && first != owner {
			report.addWarning(table, "constraint name %q of %s collides with %s after truncation", fk.Name, owner, first)
			return
		}
		owners[fk.Name] = owner
	}
	for _, t := range tables {
		for _, fk := range t.ForeignKeys() {
			check(t.Name, fk)
		}
		for _, l := range t.Links {
			for _, fk := range l.ForeignKeys() {
				check(l.Name, fk)
			}
		}
	}
}
