// Package ddl builds the dependency graph between entities slated for
// change and topologically sorts it into a teardown plan and a setup
// plan, per §4.3.
package ddl

import (
	"sort"

	"github.com/hashicorp/go-multierror"

	"github.com/R3E-Network/moose-control-plane/domain/inframap"
	"github.com/R3E-Network/moose-control-plane/domain/planner"
	svcerrors "github.com/R3E-Network/moose-control-plane/infrastructure/errors"
)

// Plan is the ordered output of the DDL orderer: a teardown plan, applied
// first in reverse-dependency order, and a setup plan, applied after, in
// dependency order.
type Plan struct {
	Teardown []planner.Change
	Setup    []planner.Change
}

// graph is an adjacency list keyed by entity ID: edges[a] contains every
// node that depends on a, i.e. every node that must come after a in setup
// order (and before a in teardown order).
type graph struct {
	nodes map[string]bool
	edges map[string][]string
}

func newGraph() *graph {
	return &graph{nodes: map[string]bool{}, edges: map[string][]string{}}
}

func (g *graph) addNode(id string) {
	g.nodes[id] = true
}

func (g *graph) addEdge(from, to string) {
	if from == to {
		return
	}
	g.edges[from] = append(g.edges[from], to)
}

// buildGraph constructs the dependency graph over every entity named in
// changes. Edges come from each entity's Dependencies() — which already
// encodes, per concrete kind, the view→table, materialized-view→source+
// target, sync-process→topic+table, and API-ingress→topic edges spec'd in
// §4.3 — restricted to dependencies that are themselves present in this
// plan; a dependency on an entity that is not changing already exists and
// needs no ordering edge.
func buildGraph(changes []planner.Change) *graph {
	g := newGraph()
	for _, c := range changes {
		g.addNode(c.EntityID)
	}
	for _, c := range changes {
		dep, ok := c.Entity.(inframap.DependentEntity)
		if !ok {
			continue
		}
		for _, depID := range dep.Dependencies() {
			if g.nodes[depID] {
				g.addEdge(depID, c.EntityID)
			}
		}
	}
	return g
}

// topoSort returns g's nodes in dependency order (a node always appears
// after every node it depends on), breaking ties between nodes with no
// remaining ordering constraint by ID so that runs are deterministic. It
// returns a PlanOrderingError if g contains a cycle.
func topoSort(g *graph) ([]string, error) {
	inDegree := make(map[string]int, len(g.nodes))
	for id := range g.nodes {
		inDegree[id] = 0
	}
	for _, targets := range g.edges {
		for _, t := range targets {
			inDegree[t]++
		}
	}

	var ready []string
	for id, deg := range inDegree {
		if deg == 0 {
			ready = append(ready, id)
		}
	}
	sort.Strings(ready)

	var order []string
	for len(ready) > 0 {
		sort.Strings(ready)
		next := ready[0]
		ready = ready[1:]
		order = append(order, next)

		for _, t := range g.edges[next] {
			inDegree[t]--
			if inDegree[t] == 0 {
				ready = append(ready, t)
			}
		}
	}

	if len(order) != len(g.nodes) {
		var cycleMembers []string
		for id, deg := range inDegree {
			if deg > 0 {
				cycleMembers = append(cycleMembers, id)
			}
		}
		sort.Strings(cycleMembers)
		return nil, svcerrors.PlanOrderingError(cycleMembers)
	}
	return order, nil
}

// BuildPlan produces the teardown and setup plans for changes. Teardown
// covers every Removed change, in reverse dependency order (dependents
// before dependencies); setup covers every Added/Updated change, in
// forward dependency order (dependencies before dependents). The two
// plans are built from independent subgraphs of the full change set since
// a cycle that only involves, say, unrelated Added entities must not block
// an otherwise-orderable teardown.
func BuildPlan(changes []planner.Change) (*Plan, error) {
	var removed, rest []planner.Change
	for _, c := range changes {
		if c.Kind == planner.ChangeRemoved {
			removed = append(removed, c)
		} else {
			rest = append(rest, c)
		}
	}

	if err := validateWorkflowSchedules(rest); err != nil {
		return nil, err
	}

	teardownOrder, err := orderedChangeIDs(removed)
	if err != nil {
		return nil, err
	}
	setupOrder, err := orderedChangeIDs(rest)
	if err != nil {
		return nil, err
	}

	reverse(teardownOrder)

	byID := make(map[string]planner.Change, len(changes))
	for _, c := range changes {
		byID[c.EntityID] = c
	}

	plan := &Plan{}
	for _, id := range teardownOrder {
		plan.Teardown = append(plan.Teardown, byID[id])
	}
	for _, id := range setupOrder {
		plan.Setup = append(plan.Setup, byID[id])
	}
	return plan, nil
}

// validateWorkflowSchedules rejects any plan that would add or alter a
// Workflow with a malformed cron schedule before it reaches the executor —
// a typo in a schedule string should fail the plan at build time, not
// silently never fire once deployed. Every bad schedule in the plan is
// collected into a single combined error rather than failing on the first.
func validateWorkflowSchedules(changes []planner.Change) error {
	var combined *multierror.Error
	for _, c := range changes {
		wf, ok := c.Entity.(inframap.Workflow)
		if !ok {
			continue
		}
		if err := wf.ValidateSchedule(); err != nil {
			combined = multierror.Append(combined,
				svcerrors.InvalidFormat("workflow."+wf.ID+".schedule", "standard five-field cron expression").WithDetails("cause", err.Error()))
		}
	}
	return combined.ErrorOrNil()
}

func orderedChangeIDs(changes []planner.Change) ([]string, error) {
	g := buildGraph(changes)
	return topoSort(g)
}

func reverse(ids []string) {
	for i, j := 0, len(ids)-1; i < j; i, j = i+1, j-1 {
		ids[i], ids[j] = ids[j], ids[i]
	}
}
