// Package planner computes the structural diff between a current and a
// target InfraMap, converts table-level changes into engine-specific OLAP
// operations, filters out anything a protected lifecycle forbids, and runs
// a final safety guard immediately before execution.
package planner

import (
	"github.com/R3E-Network/moose-control-plane/domain/inframap"
)

// ChangeKind discriminates the structural diff's outer sum type.
type ChangeKind string

const (
	ChangeAdded   ChangeKind = "added"
	ChangeRemoved ChangeKind = "removed"
	ChangeUpdated ChangeKind = "updated"
)

// ColumnChangeKind discriminates a single column-level edit within a
// table's Updated change.
type ColumnChangeKind string

const (
	ColumnAdded   ColumnChangeKind = "added"
	ColumnRemoved ColumnChangeKind = "removed"
	ColumnUpdated ColumnChangeKind = "updated"
)

// ColumnChange describes one column-level edit. AfterColumn preserves
// ordering intent for Added: the new column should be placed immediately
// after the named column, or first if empty.
type ColumnChange struct {
	Kind        ColumnChangeKind
	Column      inframap.Column
	Before      inframap.Column // set only for Kind == ColumnUpdated
	AfterColumn string          // set only for Kind == ColumnAdded
}

// OrderByChangeKind discriminates how a table's ORDER BY clause changed.
type OrderByChangeKind string

const (
	OrderByNone    OrderByChangeKind = "none"
	OrderByAdded   OrderByChangeKind = "added"
	OrderByRemoved OrderByChangeKind = "removed"
	OrderByChanged OrderByChangeKind = "changed"
)

// OrderByChange describes how Table.OrderBy changed between before and
// after. Any change other than OrderByNone forces a drop+create at the
// strategy layer, per §4.2.1.
type OrderByChange struct {
	Kind   OrderByChangeKind
	Before []string
	After  []string
}

// PartitionByChange mirrors OrderByChange for Table.PartitionBy.
type PartitionByChange struct {
	Kind   OrderByChangeKind
	Before []string
	After  []string
}

// TableChange is the Updated-variant payload specific to tables: the
// ordered column edits, the table-settings that changed value (alterable
// in place), and the layout-clause/engine changes that force replacement
// rather than in-place alteration.
type TableChange struct {
	Columns     []ColumnChange
	OrderBy     OrderByChange
	PartitionBy PartitionByChange

	// Settings holds the TableSettings keys whose value differs between
	// before and after (added keys included), applied via
	// ALTER TABLE ... MODIFY SETTING without requiring replacement.
	Settings map[string]string

	// EngineChanged is true if the engine itself (family, replication,
	// params), engine_params_hash (which folds in Database), the
	// primary-key expression, sample-by, TTL, cluster placement, or the
	// set of data-skipping indexes differ — every one of these is
	// non-alterable in this port and forces a Removed+Added pair per
	// §4.2.1.
	EngineChanged bool
}

// Change is one computed structural edit for a single entity. Entity is
// always set (the after-state, or the before-state for Removed); Before is
// set only for Updated, and Table only for an Updated table.
type Change struct {
	Kind     ChangeKind
	EntityID string
	Entity   inframap.Entity // the entity this change concerns: after-state for Added/Updated, before-state for Removed
	Before   inframap.Entity // the prior entity, set only for Kind == ChangeUpdated; nil for Added/Removed
	Table    *TableChange    // non-nil only when Kind == ChangeUpdated and the entity is a Table
}

// Diff is the complete structural diff between two InfraMaps, one slice of
// Change per entity kind so downstream stages (lifecycle filter, DDL
// orderer) can apply kind-specific logic without type-switching on Entity.
type Diff struct {
	Tables               []Change
	Topics               []Change
	ApiEndpoints         []Change
	Views                []Change
	MaterializedViews    []Change
	CustomViews          []Change
	SqlResources         []Change
	Workflows            []Change
	CdcSources           []Change
	WebApps              []Change
	FunctionProcesses    []Change
	OrchestrationWorkers []Change
	SyncProcesses        []Change
}

// All returns every change across every entity kind, tables first (the
// order downstream stages rely on least, since the DDL orderer re-sorts
// everything by dependency anyway).
func (d *Diff) All() []Change {
	var out []Change
	out = append(out, d.Tables...)
	out = append(out, d.Topics...)
	out = append(out, d.ApiEndpoints...)
	out = append(out, d.Views...)
	out = append(out, d.MaterializedViews...)
	out = append(out, d.CustomViews...)
	out = append(out, d.SqlResources...)
	out = append(out, d.Workflows...)
	out = append(out, d.CdcSources...)
	out = append(out, d.WebApps...)
	out = append(out, d.FunctionProcesses...)
	out = append(out, d.OrchestrationWorkers...)
	out = append(out, d.SyncProcesses...)
	return out
}
