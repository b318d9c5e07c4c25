package inframap

import (
	"time"

	"github.com/robfig/cron/v3"
)

// WorkflowConfig holds the scheduling and retry policy for a Workflow, as
// authored by user code rather than inferred from the database.
type WorkflowConfig struct {
	Schedule string
	Retries  uint32
	Timeout  time.Duration
}

// Workflow is a leader-scheduled background job (e.g. a periodic ETL or
// maintenance task). Only the elected leader instance runs its schedule;
// followers keep the definition loaded but never fire it themselves.
type Workflow struct {
	ID            string
	Name          string
	Config        WorkflowConfig
	PullsDataFrom []string
	PushesDataTo  []string
	Lifecycle     Lifecycle
}

func (w Workflow) EntityID() string           { return w.ID }
func (w Workflow) EntityKind() string         { return "workflow" }
func (w Workflow) EntityLifecycle() Lifecycle { return w.Lifecycle }

func (w Workflow) Dependencies() []string {
	deps := make([]string, 0, len(w.PullsDataFrom)+len(w.PushesDataTo))
	deps = append(deps, w.PullsDataFrom...)
	deps = append(deps, w.PushesDataTo...)
	return deps
}

// HasSchedule reports whether this workflow runs on a cron schedule as
// opposed to being invoked only on demand.
func (w Workflow) HasSchedule() bool {
	return w.Config.Schedule != ""
}

// ValidateSchedule parses Config.Schedule with the standard five-field
// cron parser, returning a descriptive error if it is malformed. This is
// called at plan time so a typo in a workflow's schedule fails the plan
// instead of silently never firing once deployed.
func (w Workflow) ValidateSchedule() error {
	if !w.HasSchedule() {
		return nil
	}
	_, err := cron.ParseStandard(w.Config.Schedule)
	return err
}

// NextRun computes the next scheduled fire time strictly after `after`.
// Called by the leader instance once a workflow change reaches the
// executor's leader phase, so a newly (re)scheduled workflow is armed
// against its next occurrence rather than the one it may have just missed.
// The zero time and an error are returned for an unscheduled or malformed
// workflow; callers should have already rejected the latter via
// ValidateSchedule at plan time.
func (w Workflow) NextRun(after time.Time) (time.Time, error) {
	if !w.HasSchedule() {
		return time.Time{}, nil
	}
	sched, err := cron.ParseStandard(w.Config.Schedule)
	if err != nil {
		return time.Time{}, err
	}
	return sched.Next(after), nil
}
