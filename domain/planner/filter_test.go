package planner

import (
	"testing"

	"github.com/R3E-Network/moose-control-plane/domain/inframap"
)

func TestApplyLifecycleFilter_BlocksProtectedRemoval(t *testing.T) {
	changes := []Change{
		{Kind: ChangeRemoved, EntityID: "db_t", Entity: inframap.Table{ID: "db_t", Lifecycle: inframap.DeletionProtected}},
	}
	result := ApplyLifecycleFilter(changes)
	if len(result.Allowed) != 0 {
		t.Fatalf("expected no allowed changes, got %+v", result.Allowed)
	}
	if len(result.Filtered) != 1 {
		t.Fatalf("expected one filtered change, got %+v", result.Filtered)
	}
}

func TestApplyLifecycleFilter_FiltersOrphanAddedAfterBlockedRemoved(t *testing.T) {
	changes := []Change{
		{Kind: ChangeRemoved, EntityID: "db_t", Entity: inframap.Table{ID: "db_t", Lifecycle: inframap.DeletionProtected}},
		{Kind: ChangeAdded, EntityID: "db_t", Entity: inframap.Table{ID: "db_t", Lifecycle: inframap.FullyManaged}},
	}
	result := ApplyLifecycleFilter(changes)
	if len(result.Allowed) != 0 {
		t.Fatalf("expected the orphan Added to be filtered too, got %+v", result.Allowed)
	}
	if len(result.Filtered) != 2 {
		t.Fatalf("expected both changes filtered, got %+v", result.Filtered)
	}
}

func TestApplyLifecycleFilter_AllowsFullyManagedRemoval(t *testing.T) {
	changes := []Change{
		{Kind: ChangeRemoved, EntityID: "db_t", Entity: inframap.Table{ID: "db_t", Lifecycle: inframap.FullyManaged}},
	}
	result := ApplyLifecycleFilter(changes)
	if len(result.Allowed) != 1 {
		t.Fatalf("expected the removal to be allowed, got filtered=%+v", result.Filtered)
	}
}

func TestApplyLifecycleFilter_BlocksColumnRemovalOnDeletionProtectedTable(t *testing.T) {
	table := inframap.Table{ID: "db_t", Lifecycle: inframap.DeletionProtected}
	changes := []Change{
		{
			Kind:     ChangeUpdated,
			EntityID: "db_t",
			Entity:   table,
			Table: &TableChange{
				Columns: []ColumnChange{
					{Kind: ColumnRemoved, Column: inframap.Column{Name: "legacy"}},
					{Kind: ColumnAdded, Column: inframap.Column{Name: "new_col"}},
				},
			},
		},
	}
	result := ApplyLifecycleFilter(changes)
	if len(result.Allowed) != 1 {
		t.Fatalf("expected the Updated change to still be forwarded, got %+v", result.Allowed)
	}
	if len(result.Allowed[0].Table.Columns) != 1 || result.Allowed[0].Table.Columns[0].Kind != ColumnAdded {
		t.Fatalf("expected only the added column to survive, got %+v", result.Allowed[0].Table.Columns)
	}
	if len(result.Filtered) != 1 {
		t.Fatalf("expected the column removal to be recorded as filtered, got %+v", result.Filtered)
	}
}

func TestApplyLifecycleFilter_EmptyUpdatedColumnListIsForwardedAsNoOp(t *testing.T) {
	table := inframap.Table{ID: "db_t", Lifecycle: inframap.DeletionProtected}
	changes := []Change{
		{
			Kind:     ChangeUpdated,
			EntityID: "db_t",
			Entity:   table,
			Table: &TableChange{
				Columns: []ColumnChange{
					{Kind: ColumnRemoved, Column: inframap.Column{Name: "legacy"}},
				},
			},
		},
	}
	result := ApplyLifecycleFilter(changes)
	if len(result.Allowed) != 1 {
		t.Fatalf("expected the Updated change to be forwarded even with an empty column list, got %+v", result.Allowed)
	}
	if len(result.Allowed[0].Table.Columns) != 0 {
		t.Fatalf("expected an empty column list, got %+v", result.Allowed[0].Table.Columns)
	}
}

func TestApplyLifecycleFilter_BlocksExternallyManagedAlterationEntirely(t *testing.T) {
	table := inframap.Table{ID: "db_t", Lifecycle: inframap.ExternallyManaged}
	changes := []Change{
		{Kind: ChangeUpdated, EntityID: "db_t", Entity: table, Table: &TableChange{}},
	}
	result := ApplyLifecycleFilter(changes)
	if len(result.Allowed) != 0 {
		t.Fatalf("expected no allowed changes for an externally-managed table, got %+v", result.Allowed)
	}
}
