package planner

import (
	"fmt"
	"sort"

	"github.com/R3E-Network/moose-control-plane/domain/inframap"
	svcerrors "github.com/R3E-Network/moose-control-plane/infrastructure/errors"
)

// OlapOp discriminates the low-level OLAP operation kind a TableDiffStrategy
// emits. This is the IR the executor's OLAP phase consumes (the lifecycle
// filter and DDL orderer work on Change values, before it exists); it
// never reaches a driver directly.
type OlapOp string

const (
	OlapCreateTable              OlapOp = "create_table"
	OlapDropTable                OlapOp = "drop_table"
	OlapAddColumn                OlapOp = "add_column"
	OlapDropColumn               OlapOp = "drop_column"
	OlapModifyColumn             OlapOp = "modify_column"
	OlapAlterSetting             OlapOp = "alter_setting"
	OlapPopulateMaterializedView OlapOp = "populate_materialized_view"
)

// OlapChange is one concrete operation against the OLAP backend, produced
// by a TableDiffStrategy from a TableChange.
type OlapChange struct {
	Op          OlapOp
	TableID     string
	OnCluster   string // the after-table's OnCluster(): its ClusterName, else a Replicated engine's cluster_name
	Column      inframap.Column
	AfterColumn string
	Setting     string
	Value       string

	// PopulateTargetID and PopulateSelectSQL carry the backfill statement
	// for OlapPopulateMaterializedView: "INSERT INTO <target> <select>".
	PopulateTargetID  string
	PopulateSelectSQL string
}

// TableDiffStrategy converts a table-level Updated change into the
// concrete OLAP operations that realize it, per the rules each engine
// family exposes in §4.2.2. Implementations never see Added/Removed
// changes: those are always a single OlapCreateTable/OlapDropTable.
type TableDiffStrategy interface {
	// Diff returns the operations needed to bring before's table up to
	// after's definition, or an svcerrors.EngineChangeError if tc forces a
	// full replacement this strategy cannot express as an alter.
	Diff(tableID string, before, after inframap.Table, tc *TableChange) ([]OlapChange, error)
}

// strategyRegistry maps an EngineFamily to the strategy that knows how to
// alter it. Dynamic dispatch through this map (rather than a type switch)
// keeps adding a new engine family a matter of registering one more entry,
// matching §9's note that engine dispatch is table-driven.
var strategyRegistry = map[inframap.EngineFamily]TableDiffStrategy{}

func init() {
	mt := mergeTreeStrategy{}
	for family := range map[inframap.EngineFamily]bool{
		inframap.MergeTree:                   true,
		inframap.ReplacingMergeTree:          true,
		inframap.SummingMergeTree:            true,
		inframap.AggregatingMergeTree:        true,
		inframap.CollapsingMergeTree:         true,
		inframap.VersionedCollapsingMergeTree: true,
	} {
		strategyRegistry[family] = mt
	}
	strategyRegistry[inframap.S3Queue] = s3QueueStrategy{}
}

// StrategyFor returns the registered TableDiffStrategy for family, or false
// if no strategy has been registered for it.
func StrategyFor(family inframap.EngineFamily) (TableDiffStrategy, bool) {
	s, ok := strategyRegistry[family]
	return s, ok
}

// forceReplace reports whether tc carries an order-by, partition-by, or
// engine-params change that §4.2.1 requires to be expressed as a drop+
// create rather than an alter, regardless of engine family.
func forceReplace(tc *TableChange) bool {
	return tc.OrderBy.Kind != OrderByNone || tc.PartitionBy.Kind != OrderByNone || tc.EngineChanged
}

// --- MergeTree family ---

// mergeTreeStrategy handles MergeTree and every MergeTree-derived engine
// identically: column additions, removals, and type/nullability changes
// are alterable in place; anything forceReplace flags is rejected here so
// the caller falls back to Removed+Added at the planner layer.
type mergeTreeStrategy struct{}

func (mergeTreeStrategy) Diff(tableID string, before, after inframap.Table, tc *TableChange) ([]OlapChange, error) {
	if forceReplace(tc) {
		return nil, svcerrors.EngineChangeError(tableID, before.Engine.Name(), after.Engine.Name())
	}
	cluster := after.OnCluster()
	var out []OlapChange
	for _, cc := range tc.Columns {
		switch cc.Kind {
		case ColumnAdded:
			out = append(out, OlapChange{Op: OlapAddColumn, TableID: tableID, OnCluster: cluster, Column: cc.Column, AfterColumn: cc.AfterColumn})
		case ColumnRemoved:
			out = append(out, OlapChange{Op: OlapDropColumn, TableID: tableID, OnCluster: cluster, Column: cc.Column})
		case ColumnUpdated:
			out = append(out, OlapChange{Op: OlapModifyColumn, TableID: tableID, OnCluster: cluster, Column: cc.Column})
		}
	}
	for _, k := range sortedSettingKeys(tc.Settings) {
		out = append(out, OlapChange{Op: OlapAlterSetting, TableID: tableID, OnCluster: cluster, Setting: k, Value: tc.Settings[k]})
	}
	return out, nil
}

// sortedSettingKeys returns m's keys sorted, so a multi-setting change
// always emits its ALTER TABLE ... MODIFY SETTING statements in a
// deterministic order.
func sortedSettingKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// --- S3Queue ---

// s3QueueStrategy only permits settings changes; any schema or
// keeper-path (a setting key) change forces a full replacement.
type s3QueueStrategy struct{}

func (s3QueueStrategy) Diff(tableID string, before, after inframap.Table, tc *TableChange) ([]OlapChange, error) {
	if len(tc.Columns) > 0 || tc.OrderBy.Kind != OrderByNone || tc.PartitionBy.Kind != OrderByNone {
		return nil, svcerrors.EngineChangeError(tableID, before.Engine.Name(), after.Engine.Name())
	}
	if !tc.EngineChanged {
		return nil, nil
	}
	var out []OlapChange
	for k, v := range after.Engine.Params {
		if before.Engine.Params[k] == v {
			continue
		}
		if k == "keeper_path" {
			return nil, svcerrors.EngineChangeError(tableID, before.Engine.Name(), after.Engine.Name())
		}
		out = append(out, OlapChange{Op: OlapAlterSetting, TableID: tableID, Setting: k, Value: v})
	}
	if len(out) == 0 {
		// EngineChanged tripped on something other than an engine param
		// (primary key, version, TTL, cluster, sample-by, or indexes) —
		// none of those are alterable for this engine family either.
		return nil, svcerrors.EngineChangeError(tableID, before.Engine.Name(), after.Engine.Name())
	}
	return out, nil
}

// ResolveTableChanges converts a table Change produced by Compute into its
// concrete OLAP operations via the registered strategy, or a single
// Removed+Added pair if the strategy rejects the change as requiring
// replacement. c must have Kind == ChangeUpdated and Table set.
func ResolveTableChanges(c Change, before inframap.Table) ([]OlapChange, error) {
	if c.Kind != ChangeUpdated || c.Table == nil {
		return nil, fmt.Errorf("planner: ResolveTableChanges requires an Updated table change")
	}
	after, ok := c.Entity.(inframap.Table)
	if !ok {
		return nil, fmt.Errorf("planner: change entity %s is not a Table", c.EntityID)
	}
	strategy, ok := StrategyFor(after.Engine.Family)
	if !ok {
		return nil, fmt.Errorf("planner: no TableDiffStrategy registered for engine family %q", after.Engine.Family)
	}

	ops, err := strategy.Diff(c.EntityID, before, after, c.Table)
	if svcErr := asEngineChangeError(err); svcErr != nil {
		return []OlapChange{
			{Op: OlapDropTable, TableID: c.EntityID, OnCluster: before.OnCluster()},
			{Op: OlapCreateTable, TableID: c.EntityID, OnCluster: after.OnCluster()},
		}, nil
	}
	return ops, err
}

func asEngineChangeError(err error) *svcerrors.ServiceError {
	se := svcerrors.GetServiceError(err)
	if se == nil || se.Code != svcerrors.ErrCodeEngineChange {
		return nil
	}
	return se
}
