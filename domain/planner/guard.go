package planner

import svcerrors "github.com/R3E-Network/moose-control-plane/infrastructure/errors"

// ValidateLifecycleCompliance re-scans changes for any drop or alteration
// targeting a protected resource, immediately before execution. Per §4.2.4
// this is a defense-in-depth check: ApplyLifecycleFilter should already
// have removed every such change, but a bug upstream must never let one
// reach the executor. A non-empty violation list fails the entire plan.
func ValidateLifecycleCompliance(changes []Change) error {
	var violations []svcerrors.Violation
	for _, c := range changes {
		switch c.Kind {
		case ChangeRemoved:
			if !c.Entity.EntityLifecycle().AllowsRemoval() {
				violations = append(violations, svcerrors.Violation{
					EntityID: c.EntityID,
					Reason:   "removal of a lifecycle-protected entity reached the execution plan",
				})
			}
		case ChangeUpdated:
			if !c.Entity.EntityLifecycle().AllowsAlteration() {
				violations = append(violations, svcerrors.Violation{
					EntityID: c.EntityID,
					Reason:   "alteration of an externally-managed entity reached the execution plan",
				})
				continue
			}
			if c.Table == nil || c.Entity.EntityLifecycle().AllowsRemoval() {
				continue
			}
			for _, cc := range c.Table.Columns {
				if cc.Kind == ColumnRemoved {
					violations = append(violations, svcerrors.Violation{
						EntityID: c.EntityID,
						Reason:   "column removal on a deletion-protected table reached the execution plan",
					})
					break
				}
			}
		}
	}
	if len(violations) > 0 {
		return svcerrors.LifecycleViolation(violations)
	}
	return nil
}
