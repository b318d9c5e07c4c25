package planner

// FilteredChange records a change the lifecycle filter blocked, preserving
// the original for observability (logging, dry-run output) even though it
// will never be executed.
type FilteredChange struct {
	Reason   string
	Original Change
}

// FilterResult is the output of applying lifecycle policy to a Diff: the
// changes still safe to execute, plus every change blocked along the way.
type FilterResult struct {
	Allowed  []Change
	Filtered []FilteredChange
}

// ApplyLifecycleFilter enforces §3.5 against every change in d. A Removed
// change whose target lifecycle forbids removal is rewritten to a
// FilteredChange and its ID recorded so that a subsequent orphan Added for
// the same ID (e.g. the user deleted then immediately re-added a resource
// under a different definition) is filtered too, per §4.2.3.
func ApplyLifecycleFilter(changes []Change) FilterResult {
	result := FilterResult{}
	blockedIDs := make(map[string]bool)

	// First pass: Removed changes decide blockedIDs; everything else is
	// deferred to the second pass so that an Added processed before its
	// matching blocked Removed (unlikely given sorted IDs, but not
	// guaranteed across entity kinds) is still caught.
	for _, c := range changes {
		if c.Kind != ChangeRemoved {
			continue
		}
		if !c.Entity.EntityLifecycle().AllowsRemoval() {
			blockedIDs[c.EntityID] = true
			result.Filtered = append(result.Filtered, FilteredChange{
				Reason:   "removal blocked by lifecycle " + c.Entity.EntityLifecycle().String(),
				Original: c,
			})
		} else {
			result.Allowed = append(result.Allowed, c)
		}
	}

	for _, c := range changes {
		switch c.Kind {
		case ChangeRemoved:
			continue // already handled above
		case ChangeAdded:
			if blockedIDs[c.EntityID] {
				result.Filtered = append(result.Filtered, FilteredChange{
					Reason:   "orphan create for id blocked by a filtered removal",
					Original: c,
				})
				continue
			}
			result.Allowed = append(result.Allowed, c)
		case ChangeUpdated:
			allowed, blockedColumns := filterUpdated(c)
			if allowed == nil {
				result.Filtered = append(result.Filtered, FilteredChange{
					Reason:   "alteration blocked by lifecycle " + c.Entity.EntityLifecycle().String(),
					Original: c,
				})
				continue
			}
			if len(blockedColumns) > 0 {
				blocked := c
				blockedTC := *c.Table
				blockedTC.Columns = blockedColumns
				blocked.Table = &blockedTC
				result.Filtered = append(result.Filtered, FilteredChange{
					Reason:   "column removal blocked by lifecycle " + c.Entity.EntityLifecycle().String(),
					Original: blocked,
				})
			}
			// An Updated whose column list became empty after filtering
			// is still forwarded: downstream execution must treat an
			// empty operation list as a no-op rather than an error.
			result.Allowed = append(result.Allowed, *allowed)
		}
	}

	return result
}

// filterUpdated partitions a table's column changes into allowed and
// blocked. It returns (nil, nil) if the whole Updated change is blocked
// outright: an entity whose lifecycle forbids alteration entirely
// (ExternallyManaged). An allowed change with no Table part (a non-table
// kind) is returned whole. For a table that does allow
// alteration, a lifecycle that forbids removal (DeletionProtected) also
// blocks individual column removals — dropping a column is itself a form
// of deletion — while additions and type/nullability updates still pass.
func filterUpdated(c Change) (allowed *Change, blockedColumns []ColumnChange) {
	if !c.Entity.EntityLifecycle().AllowsAlteration() {
		return nil, nil
	}
	if c.Table == nil {
		return &c, nil
	}

	blockRemovals := !c.Entity.EntityLifecycle().AllowsRemoval()
	allowedColumns := make([]ColumnChange, 0, len(c.Table.Columns))
	for _, cc := range c.Table.Columns {
		if blockRemovals && cc.Kind == ColumnRemoved {
			blockedColumns = append(blockedColumns, cc)
			continue
		}
		allowedColumns = append(allowedColumns, cc)
	}

	filtered := c
	tc := *c.Table
	tc.Columns = allowedColumns
	filtered.Table = &tc
	return &filtered, blockedColumns
}
