// Package inframap defines the typed entity model the control plane diffs
// and applies: tables, topics, API endpoints, views, SQL resources,
// workflows, CDC sources, web apps, and the background processes that serve
// them, plus the InfraMap container that holds a consistent snapshot of all
// of them and the lineage between them.
package inframap

// Lifecycle controls what the planner is allowed to do to an entity when
// its declared definition no longer matches the target. It never affects
// what is allowed when the entity is being newly created.
type Lifecycle string

const (
	// FullyManaged entities may be added, altered, or dropped freely. This
	// is the default for every entity that does not declare otherwise.
	FullyManaged Lifecycle = "fully_managed"

	// DeletionProtected entities may be added or altered, but a computed
	// removal is blocked: the planner must filter it out rather than drop
	// the entity, leaving it "orphaned" (present in the real infrastructure
	// but absent from the code-defined infrastructure map).
	DeletionProtected Lifecycle = "deletion_protected"

	// ExternallyManaged entities are never altered or dropped by this
	// control plane (an Added change for one is still allowed, see
	// AllowsAddition); they exist in the infrastructure map so other
	// entities (e.g. a CustomView) can reference them by ID.
	ExternallyManaged Lifecycle = "externally_managed"
)

// Valid reports whether l is one of the three recognized lifecycle values.
func (l Lifecycle) Valid() bool {
	switch l {
	case FullyManaged, DeletionProtected, ExternallyManaged:
		return true
	default:
		return false
	}
}

// AllowsRemoval reports whether the planner may emit a Removed change for
// an entity with this lifecycle.
func (l Lifecycle) AllowsRemoval() bool {
	return l == FullyManaged
}

// AllowsAlteration reports whether the planner may emit an Updated change
// for an entity with this lifecycle.
func (l Lifecycle) AllowsAlteration() bool {
	return l == FullyManaged || l == DeletionProtected
}

// AllowsAddition reports whether the planner may emit an Added change for
// an entity with this lifecycle. Addition is always allowed: Lifecycle
// only constrains what happens to an entity that already exists.
func (l Lifecycle) AllowsAddition() bool {
	return true
}

// String returns the lifecycle's wire/display name.
func (l Lifecycle) String() string {
	return string(l)
}
