package ddl

import (
	"testing"

	"github.com/R3E-Network/moose-control-plane/domain/inframap"
	"github.com/R3E-Network/moose-control-plane/domain/planner"
	svcerrors "github.com/R3E-Network/moose-control-plane/infrastructure/errors"
)

func TestBuildPlan_MaterializedViewSourceTargetOrder(t *testing.T) {
	source := inframap.Table{ID: "db_source"}
	target := inframap.Table{ID: "db_target"}
	mv := inframap.MaterializedView{ID: "db_mv", SourceIDs: []string{"db_source"}, TargetTableID: "db_target"}

	changes := []planner.Change{
		{Kind: planner.ChangeAdded, EntityID: "db_mv", Entity: mv},
		{Kind: planner.ChangeAdded, EntityID: "db_target", Entity: target},
		{Kind: planner.ChangeAdded, EntityID: "db_source", Entity: source},
	}

	plan, err := BuildPlan(changes)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var order []string
	for _, c := range plan.Setup {
		order = append(order, c.EntityID)
	}
	if len(order) != 3 || order[0] != "db_source" || order[1] != "db_target" || order[2] != "db_mv" {
		t.Fatalf("expected setup order [source, target, mv], got %v", order)
	}
}

func TestBuildPlan_TeardownIsReverseOfSetup(t *testing.T) {
	source := inframap.Table{ID: "db_source"}
	mv := inframap.View{ID: "db_view", DependsOn: []string{"db_source"}}

	changes := []planner.Change{
		{Kind: planner.ChangeRemoved, EntityID: "db_view", Entity: mv},
		{Kind: planner.ChangeRemoved, EntityID: "db_source", Entity: source},
	}

	plan, err := BuildPlan(changes)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var order []string
	for _, c := range plan.Teardown {
		order = append(order, c.EntityID)
	}
	if len(order) != 2 || order[0] != "db_view" || order[1] != "db_source" {
		t.Fatalf("expected teardown order [db_view, db_source] (dependents before dependencies), got %v", order)
	}
}

func TestBuildPlan_TieBreaksByIDForIndependentNodes(t *testing.T) {
	changes := []planner.Change{
		{Kind: planner.ChangeAdded, EntityID: "db_zebra", Entity: inframap.Table{ID: "db_zebra"}},
		{Kind: planner.ChangeAdded, EntityID: "db_apple", Entity: inframap.Table{ID: "db_apple"}},
	}
	plan, err := BuildPlan(changes)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if plan.Setup[0].EntityID != "db_apple" || plan.Setup[1].EntityID != "db_zebra" {
		t.Fatalf("expected independent nodes ordered by id, got %v, %v", plan.Setup[0].EntityID, plan.Setup[1].EntityID)
	}
}

func TestBuildPlan_CycleReturnsPlanOrderingError(t *testing.T) {
	a := inframap.WebApp{ID: "app_a", PullsDataFrom: []string{"app_b"}}
	b := inframap.WebApp{ID: "app_b", PullsDataFrom: []string{"app_a"}}
	changes := []planner.Change{
		{Kind: planner.ChangeAdded, EntityID: "app_a", Entity: a},
		{Kind: planner.ChangeAdded, EntityID: "app_b", Entity: b},
	}
	_, err := BuildPlan(changes)
	se := svcerrors.GetServiceError(err)
	if se == nil || se.Code != svcerrors.ErrCodePlanOrdering {
		t.Fatalf("expected a PlanOrderingError, got %v", err)
	}
}

func TestBuildPlan_S3OrderByChangeDropThenCreate(t *testing.T) {
	before := inframap.Table{ID: "db_foo", OrderBy: []string{"id"}}
	after := inframap.Table{ID: "db_foo", OrderBy: []string{"ts", "id"}}
	changes := []planner.Change{
		{Kind: planner.ChangeRemoved, EntityID: "db_foo", Entity: before},
	}
	teardown, err := BuildPlan(changes)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(teardown.Teardown) != 1 || teardown.Teardown[0].EntityID != "db_foo" {
		t.Fatalf("expected a single teardown entry for db_foo, got %+v", teardown.Teardown)
	}

	setupChanges := []planner.Change{
		{Kind: planner.ChangeAdded, EntityID: "db_foo", Entity: after},
	}
	setup, err := BuildPlan(setupChanges)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(setup.Setup) != 1 || setup.Setup[0].EntityID != "db_foo" {
		t.Fatalf("expected a single setup entry for db_foo, got %+v", setup.Setup)
	}
}

func TestBuildPlan_RejectsMalformedWorkflowSchedule(t *testing.T) {
	wf := inframap.Workflow{ID: "wf_nightly", Config: inframap.WorkflowConfig{Schedule: "not a cron"}}
	changes := []planner.Change{
		{Kind: planner.ChangeAdded, EntityID: "wf_nightly", Entity: wf},
	}

	_, err := BuildPlan(changes)
	if err == nil {
		t.Fatal("expected an error for a malformed workflow schedule")
	}
	if se := svcerrors.GetServiceError(err); se == nil || se.Code != svcerrors.ErrCodeInvalidFormat {
		t.Fatalf("expected an InvalidFormat ServiceError, got %v", err)
	}
}

func TestBuildPlan_AllowsUnscheduledOrValidWorkflow(t *testing.T) {
	onDemand := inframap.Workflow{ID: "wf_ondemand"}
	scheduled := inframap.Workflow{ID: "wf_hourly", Config: inframap.WorkflowConfig{Schedule: "0 * * * *"}}
	changes := []planner.Change{
		{Kind: planner.ChangeAdded, EntityID: "wf_ondemand", Entity: onDemand},
		{Kind: planner.ChangeAdded, EntityID: "wf_hourly", Entity: scheduled},
	}

	if _, err := BuildPlan(changes); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
