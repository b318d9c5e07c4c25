// Package executor applies a DDL plan against the OLAP backend, the
// streaming backend, and the API/WebApp/process subsystems, in the exact
// serial order §4.4 specifies, writing the new infrastructure map to the
// state store only once every phase has succeeded.
package executor

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/R3E-Network/moose-control-plane/domain/ddl"
	"github.com/R3E-Network/moose-control-plane/domain/inframap"
	"github.com/R3E-Network/moose-control-plane/domain/planner"
	"github.com/R3E-Network/moose-control-plane/infrastructure/state"
)

// OlapApplyFunc executes a single resolved OLAP operation (CREATE/DROP
// TABLE, ADD/DROP/MODIFY COLUMN, ALTER SETTING) against the warehouse.
type OlapApplyFunc func(ctx context.Context, op planner.OlapChange) error

// StreamApplyFunc applies a single Topic-kind change (create/delete/alter
// partition count or retention) against the streaming backend.
type StreamApplyFunc func(ctx context.Context, c planner.Change) error

// ChangeFunc is a fire-and-forget channel send used for the API and
// WebApp phases: the executor never blocks on or fails because of the
// consumer.
type ChangeFunc func(c planner.Change)

// ProcessApplyFunc starts, stops, or restarts a supervised process (a
// FunctionProcess or SyncProcess) in response to a change. Used for the
// non-leader process phase.
type ProcessApplyFunc func(ctx context.Context, c planner.Change) error

// LeaderApplyFunc performs a leader-only action: orchestration-worker
// (re)scheduling or workflow (re)scheduling. Only invoked when Input.IsLeader
// is true.
type LeaderApplyFunc func(ctx context.Context, c planner.Change) error

// Input bundles everything a single execution run needs. Every Func field
// may be nil, in which case changes of that kind are silently skipped —
// useful for a bypass_infrastructure_execution run, or a caller that only
// wants to exercise a subset of phases in a test.
type Input struct {
	Plan      *ddl.Plan
	TargetMap *inframap.InfraMap
	Store     state.Storage

	// Bypass, when true, skips both OLAP and streaming teardown/setup
	// entirely (bypass_infrastructure_execution), leaving only the
	// API/WebApp/process phases and the final state write.
	Bypass bool
	// IsLeader gates phase 10 (leader-only process/workflow rescheduling).
	// Non-leaders run every other phase.
	IsLeader bool

	ApplyOlap    OlapApplyFunc
	ApplyStream  StreamApplyFunc
	EmitAPI      ChangeFunc
	EmitWebApp   ChangeFunc
	ApplyProcess ProcessApplyFunc
	ApplyLeader  LeaderApplyFunc

	Log *logrus.Logger
}

// Result reports what each phase did, primarily for diagnostics and
// tests; the executor's correctness does not depend on callers reading it.
type Result struct {
	OlapOpsApplied        int
	StreamChangesApplied  int
	APIChangesEmitted     int
	WebAppChangesEmitted  int
	ProcessChangesApplied int
	LeaderChangesApplied  int
}

// Run executes in.Plan through every phase in the §4.4 order. OLAP and
// streaming failures abort immediately, before the state store is
// touched, leaving the previous snapshot and an unreleased migration lock
// for the caller to handle. API and WebApp sends never fail the run. On
// success, the new infrastructure map is written to the state store as
// the very last step.
func Run(ctx context.Context, in Input) (*Result, error) {
	log := in.Log
	if log == nil {
		log = logrus.StandardLogger()
	}
	res := &Result{}

	olapChanges, streamChanges, apiChanges, webAppChanges, processChanges, leaderChanges := classify(in.Plan)

	if !in.Bypass {
		// 1. OLAP teardown.
		if err := applyOlapPhase(ctx, in.ApplyOlap, filterRemoved(olapChanges), res); err != nil {
			return res, fmt.Errorf("executor: olap teardown: %w", err)
		}
		// 2. Streaming teardown.
		if err := applyStreamPhase(ctx, in.ApplyStream, filterRemoved(streamChanges), res); err != nil {
			return res, fmt.Errorf("executor: streaming teardown: %w", err)
		}
	}

	// 3. API diff, fire-and-forget.
	emitPhase(in.EmitAPI, apiChanges, &res.APIChangesEmitted, log, "api")
	// 4. WebApp diff, fire-and-forget.
	emitPhase(in.EmitWebApp, webAppChanges, &res.WebAppChangesEmitted, log, "webapp")
	// 5. Sync/process diff (non-leader portion).
	if err := applyProcessPhase(ctx, in.ApplyProcess, processChanges, res); err != nil {
		return res, fmt.Errorf("executor: process diff: %w", err)
	}

	if !in.Bypass {
		// 6. OLAP setup.
		if err := applyOlapPhase(ctx, in.ApplyOlap, filterNonRemoved(olapChanges), res); err != nil {
			return res, fmt.Errorf("executor: olap setup: %w", err)
		}
		// 7. Streaming setup.
		if err := applyStreamPhase(ctx, in.ApplyStream, filterNonRemoved(streamChanges), res); err != nil {
			return res, fmt.Errorf("executor: streaming setup: %w", err)
		}
	}

	// 8/9. API/WebApp setup changes were already emitted together with
	// teardown changes in phases 3/4 above: the channel consumer, not the
	// executor, distinguishes add/remove/update, matching the "unbounded,
	// fire-and-forget" contract that carries the whole Change value.

	// 10. Leader-only: process and workflow (re)scheduling.
	if in.IsLeader {
		if err := applyLeaderPhase(ctx, in.ApplyLeader, leaderChanges, res); err != nil {
			return res, fmt.Errorf("executor: leader phase: %w", err)
		}
	}

	if in.Store != nil && in.TargetMap != nil {
		if err := in.TargetMap.Store(ctx, in.Store); err != nil {
			return res, fmt.Errorf("executor: writing new infrastructure map: %w", err)
		}
	}

	return res, nil
}

// classify partitions plan.All() (teardown followed by setup, each
// already in dependency order) into per-subsystem buckets while
// preserving within-bucket order, since the OLAP/streaming appliers must
// still see their portion of the DDL-ordered sequence.
func classify(plan *ddl.Plan) (olap, stream, api, webApp, process, leader []planner.Change) {
	if plan == nil {
		return nil, nil, nil, nil, nil, nil
	}
	all := append(append([]planner.Change{}, plan.Teardown...), plan.Setup...)
	for _, c := range all {
		switch c.Entity.(type) {
		case inframap.Table, inframap.View, inframap.MaterializedView, inframap.CustomView, inframap.SqlResource:
			olap = append(olap, c)
		case inframap.Topic:
			stream = append(stream, c)
		case inframap.ApiEndpoint:
			api = append(api, c)
		case inframap.WebApp:
			webApp = append(webApp, c)
		case inframap.FunctionProcess, inframap.SyncProcess:
			process = append(process, c)
		case inframap.OrchestrationWorkerProcess, inframap.Workflow, inframap.CdcSource:
			leader = append(leader, c)
		}
	}
	return olap, stream, api, webApp, process, leader
}

func filterRemoved(changes []planner.Change) []planner.Change {
	var out []planner.Change
	for _, c := range changes {
		if c.Kind == planner.ChangeRemoved {
			out = append(out, c)
		}
	}
	return out
}

func filterNonRemoved(changes []planner.Change) []planner.Change {
	var out []planner.Change
	for _, c := range changes {
		if c.Kind != planner.ChangeRemoved {
			out = append(out, c)
		}
	}
	return out
}

// applyOlapPhase resolves each table change into concrete OlapChange
// operations (via planner.ResolveTableChanges for Updated tables; a
// single drop/create for Added/Removed and for every non-table OLAP
// entity kind) and applies them in order, failing fast on the first
// error as the OLAP subsystem contract requires.
func applyOlapPhase(ctx context.Context, apply OlapApplyFunc, changes []planner.Change, res *Result) error {
	if apply == nil {
		return nil
	}
	for _, c := range changes {
		ops, err := resolveOlapOps(c)
		if err != nil {
			return err
		}
		for _, op := range ops {
			if err := apply(ctx, op); err != nil {
				return fmt.Errorf("entity %s: %w", c.EntityID, err)
			}
			res.OlapOpsApplied++
		}
	}
	return nil
}

func resolveOlapOps(c planner.Change) ([]planner.OlapChange, error) {
	switch c.Kind {
	case planner.ChangeAdded:
		ops := []planner.OlapChange{{Op: planner.OlapCreateTable, TableID: c.EntityID}}
		if mv, ok := c.Entity.(inframap.MaterializedView); ok && mv.Populate == inframap.PopulateOnCreate {
			ops = append(ops, planner.OlapChange{
				Op:                planner.OlapPopulateMaterializedView,
				TableID:           c.EntityID,
				PopulateTargetID:  mv.TargetTableID,
				PopulateSelectSQL: mv.SelectSQL,
			})
		}
		return ops, nil
	case planner.ChangeRemoved:
		return []planner.OlapChange{{Op: planner.OlapDropTable, TableID: c.EntityID}}, nil
	case planner.ChangeUpdated:
		before, isTable := c.Before.(inframap.Table)
		if !isTable || c.Table == nil {
			// Non-table OLAP kinds (View, MaterializedView, CustomView,
			// SqlResource) have no partial-alter strategy: any Updated
			// change replaces the resource's defining statement wholesale.
			return []planner.OlapChange{{Op: planner.OlapDropTable, TableID: c.EntityID}, {Op: planner.OlapCreateTable, TableID: c.EntityID}}, nil
		}
		return planner.ResolveTableChanges(c, before)
	}
	return nil, nil
}

func applyStreamPhase(ctx context.Context, apply StreamApplyFunc, changes []planner.Change, res *Result) error {
	if apply == nil {
		return nil
	}
	for _, c := range changes {
		if err := apply(ctx, c); err != nil {
			return fmt.Errorf("topic %s: %w", c.EntityID, err)
		}
		res.StreamChangesApplied++
	}
	return nil
}

func emitPhase(emit ChangeFunc, changes []planner.Change, counter *int, log *logrus.Logger, phase string) {
	if emit == nil {
		return
	}
	for _, c := range changes {
		func() {
			defer func() {
				if r := recover(); r != nil {
					log.WithFields(logrus.Fields{"phase": phase, "entity_id": c.EntityID}).
						Warnf("dropped %s change: consumer panicked: %v", phase, r)
				}
			}()
			emit(c)
			*counter++
		}()
	}
}

func applyProcessPhase(ctx context.Context, apply ProcessApplyFunc, changes []planner.Change, res *Result) error {
	if apply == nil {
		return nil
	}
	for _, c := range changes {
		if err := apply(ctx, c); err != nil {
			return fmt.Errorf("process %s: %w", c.EntityID, err)
		}
		res.ProcessChangesApplied++
	}
	return nil
}

func applyLeaderPhase(ctx context.Context, apply LeaderApplyFunc, changes []planner.Change, res *Result) error {
	if apply == nil {
		return nil
	}
	for _, c := range changes {
		if err := apply(ctx, c); err != nil {
			return fmt.Errorf("leader change %s: %w", c.EntityID, err)
		}
		res.LeaderChangesApplied++
	}
	return nil
}
