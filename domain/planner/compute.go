package planner

import (
	"sort"

	"github.com/R3E-Network/moose-control-plane/domain/inframap"
)

// Compute produces the structural diff between current and target. Both
// maps are immutable inputs; Compute never mutates either. SQL-bearing
// kinds (SqlResource, CustomView) compare via normalized SQL using
// target.DefaultDatabase, per §4.1.2, so an edit that only changes
// qualifier/whitespace/case never surfaces as a change.
func Compute(current, target *inframap.InfraMap) *Diff {
	defaultDB := target.DefaultDatabase
	d := &Diff{}
	d.Tables = diffTables(current.Tables, target.Tables)
	d.Topics = diffGeneric(toEntityMap(current.Topics), toEntityMap(target.Topics), defaultDB)
	d.ApiEndpoints = diffGeneric(toEntityMap(current.ApiEndpoints), toEntityMap(target.ApiEndpoints), defaultDB)
	d.Views = diffGeneric(toEntityMap(current.Views), toEntityMap(target.Views), defaultDB)
	d.MaterializedViews = diffGeneric(toEntityMap(current.MaterializedViews), toEntityMap(target.MaterializedViews), defaultDB)
	d.CustomViews = diffGeneric(toEntityMap(current.CustomViews), toEntityMap(target.CustomViews), defaultDB)
	d.SqlResources = diffGeneric(toEntityMap(current.SqlResources), toEntityMap(target.SqlResources), defaultDB)
	d.Workflows = diffGeneric(toEntityMap(current.Workflows), toEntityMap(target.Workflows), defaultDB)
	d.CdcSources = diffGeneric(toEntityMap(current.CdcSources), toEntityMap(target.CdcSources), defaultDB)
	d.WebApps = diffGeneric(toEntityMap(current.WebApps), toEntityMap(target.WebApps), defaultDB)
	d.FunctionProcesses = diffGeneric(toEntityMap(current.FunctionProcesses), toEntityMap(target.FunctionProcesses), defaultDB)
	d.OrchestrationWorkers = diffGeneric(toEntityMap(current.OrchestrationWorkers), toEntityMap(target.OrchestrationWorkers), defaultDB)
	d.SyncProcesses = diffGeneric(toEntityMap(current.SyncProcesses), toEntityMap(target.SyncProcesses), defaultDB)
	return d
}

func toEntityMap[V inframap.Entity](m map[string]V) map[string]inframap.Entity {
	out := make(map[string]inframap.Entity, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func unionSortedKeys(a, b map[string]inframap.Entity) []string {
	seen := make(map[string]bool, len(a)+len(b))
	var keys []string
	for k := range a {
		if !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}
	for k := range b {
		if !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

// diffGeneric handles every entity kind except Table, which additionally
// needs column/order-by/partition-by comparison and so has its own
// function below.
func diffGeneric(current, target map[string]inframap.Entity, defaultDatabase string) []Change {
	var out []Change
	for _, id := range unionSortedKeys(current, target) {
		before, hasBefore := current[id]
		after, hasAfter := target[id]
		switch {
		case !hasBefore && hasAfter:
			out = append(out, Change{Kind: ChangeAdded, EntityID: id, Entity: after})
		case hasBefore && !hasAfter:
			out = append(out, Change{Kind: ChangeRemoved, EntityID: id, Entity: before})
		case hasBefore && hasAfter:
			// Non-table kinds are treated as a whole-entity replace: any
			// structural difference is surfaced as Updated with the new
			// entity as After. There is no field-level edit IR for these
			// kinds because, unlike tables, none of them support partial
			// in-place alteration in the underlying systems they map to.
			if !entitiesEqual(before, after, defaultDatabase) {
				out = append(out, Change{Kind: ChangeUpdated, EntityID: id, Entity: after, Before: before})
			}
		}
	}
	return out
}

func diffTables(current, target map[string]inframap.Table) []Change {
	currentEntities := make(map[string]inframap.Entity, len(current))
	for k, v := range current {
		currentEntities[k] = v
	}
	targetEntities := make(map[string]inframap.Entity, len(target))
	for k, v := range target {
		targetEntities[k] = v
	}

	var out []Change
	for _, id := range unionSortedKeys(currentEntities, targetEntities) {
		before, hasBefore := current[id]
		after, hasAfter := target[id]
		switch {
		case !hasBefore && hasAfter:
			out = append(out, Change{Kind: ChangeAdded, EntityID: id, Entity: after})
		case hasBefore && !hasAfter:
			out = append(out, Change{Kind: ChangeRemoved, EntityID: id, Entity: before})
		case hasBefore && hasAfter:
			if tc := diffTable(before, after); tc != nil {
				out = append(out, Change{Kind: ChangeUpdated, EntityID: id, Entity: after, Before: before, Table: tc})
			}
		}
	}
	return out
}

// diffTable computes the TableChange between before and after, or nil if
// they are structurally identical. Per §4.2.1, order-by/partition-by/
// engine changes are recorded but never expressed as in-place column
// edits: the strategy layer (strategy.go) decides whether to alter or
// replace based on these flags.
func diffTable(before, after inframap.Table) *TableChange {
	tc := &TableChange{
		OrderBy:     diffStringSlice(before.OrderBy, after.OrderBy),
		PartitionBy: diffPartitionBy(before.PartitionBy, after.PartitionBy),
		Columns:     diffColumns(before.Columns, after.Columns),
		Settings:    diffTableSettings(before.TableSettings, after.TableSettings),
	}
	tc.EngineChanged = !before.Engine.Equal(after.Engine) ||
		before.EngineParamsHash() != after.EngineParamsHash() ||
		before.PrimaryKeyExpression != after.PrimaryKeyExpression ||
		before.Version != after.Version ||
		before.TTL != after.TTL ||
		before.ClusterName != after.ClusterName ||
		!stringSliceEqual(before.SampleBy, after.SampleBy) ||
		!tableIndexesEqual(before.Indexes, after.Indexes)

	if len(tc.Columns) == 0 && len(tc.Settings) == 0 && tc.OrderBy.Kind == OrderByNone &&
		tc.PartitionBy.Kind == OrderByNone && !tc.EngineChanged {
		return nil
	}
	return tc
}

// diffTableSettings returns the TableSettings keys whose value differs
// between before and after, including keys newly added in after. Removed
// keys are not reported: this port has no ALTER TABLE ... RESET SETTING
// path, matching the same limitation s3QueueStrategy already has for
// engine params.
func diffTableSettings(before, after map[string]string) map[string]string {
	var out map[string]string
	for k, v := range after {
		if before[k] != v {
			if out == nil {
				out = map[string]string{}
			}
			out[k] = v
		}
	}
	return out
}

func tableIndexesEqual(before, after []inframap.TableIndex) bool {
	if len(before) != len(after) {
		return false
	}
	for i := range before {
		if !before[i].Equal(after[i]) {
			return false
		}
	}
	return true
}

func diffStringSlice(before, after []string) OrderByChange {
	switch {
	case len(before) == 0 && len(after) == 0:
		return OrderByChange{Kind: OrderByNone}
	case len(before) == 0 && len(after) > 0:
		return OrderByChange{Kind: OrderByAdded, After: after}
	case len(before) > 0 && len(after) == 0:
		return OrderByChange{Kind: OrderByRemoved, Before: before}
	case stringSliceEqual(before, after):
		return OrderByChange{Kind: OrderByNone}
	default:
		return OrderByChange{Kind: OrderByChanged, Before: before, After: after}
	}
}

func diffPartitionBy(before, after []string) PartitionByChange {
	c := diffStringSlice(before, after)
	return PartitionByChange{Kind: c.Kind, Before: c.Before, After: c.After}
}

func stringSliceEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// diffColumns computes the ordered ColumnChange list. Added preserves the
// predecessor column's name in AfterColumn so the strategy layer can emit
// ADD COLUMN ... AFTER <name>. Per §4.2.1, a column whose type and
// nullability are both unchanged is not reported even if other fields
// (comment, default, unique, primary key) differ, and a
// nullability-only change reports only the required-flag delta by still
// using ColumnUpdated (the strategy layer is responsible for emitting the
// narrower MODIFY when only nullability moved).
func diffColumns(before, after []inframap.Column) []ColumnChange {
	beforeByName := make(map[string]inframap.Column, len(before))
	for _, c := range before {
		beforeByName[c.Name] = c
	}
	afterByName := make(map[string]inframap.Column, len(after))
	for _, c := range after {
		afterByName[c.Name] = c
	}

	var changes []ColumnChange
	prevName := ""
	for _, c := range after {
		if prevC, ok := beforeByName[c.Name]; ok {
			if !prevC.DataType.Equal(c.DataType) || prevC.Required != c.Required {
				changes = append(changes, ColumnChange{Kind: ColumnUpdated, Column: c, Before: prevC})
			}
		} else {
			changes = append(changes, ColumnChange{Kind: ColumnAdded, Column: c, AfterColumn: prevName})
		}
		prevName = c.Name
	}
	for _, c := range before {
		if _, ok := afterByName[c.Name]; !ok {
			changes = append(changes, ColumnChange{Kind: ColumnRemoved, Column: c})
		}
	}
	return changes
}

// entitiesEqual compares two entities of the same kind for structural
// equality. SqlResource and CustomView carry hand-authored SQL, so they
// compare via SQLEqual's normalized text instead: wire equality would
// treat a capitalization, backtick, or whitespace-only edit as a real
// change and needlessly drop+recreate the resource (§4.1.2). Every other
// kind has no such cosmetic-equivalence concern and compares via its wire
// encoding, since every InfraMap entity kind already implements a
// deterministic marshal used for proto round-trip; reusing it here avoids
// a second hand-written Equal per entity kind.
func entitiesEqual(a, b inframap.Entity, defaultDatabase string) bool {
	switch av := a.(type) {
	case inframap.SqlResource:
		bv, ok := b.(inframap.SqlResource)
		return ok && av.SQLEqual(bv, defaultDatabase)
	case inframap.CustomView:
		bv, ok := b.(inframap.CustomView)
		return ok && av.SQLEqual(bv, defaultDatabase)
	default:
		return inframap.EntityWireEqual(a, b)
	}
}
