package inframap

import (
	"testing"
	"time"
)

func TestWorkflow_HasSchedule(t *testing.T) {
	scheduled := Workflow{Config: WorkflowConfig{Schedule: "@every 5m"}}
	unscheduled := Workflow{}
	if !scheduled.HasSchedule() {
		t.Fatalf("expected scheduled workflow to report HasSchedule")
	}
	if unscheduled.HasSchedule() {
		t.Fatalf("expected unscheduled workflow to report no schedule")
	}
}

func TestWorkflow_ValidateSchedule_Valid(t *testing.T) {
	w := Workflow{Config: WorkflowConfig{Schedule: "0 */6 * * *"}}
	if err := w.ValidateSchedule(); err != nil {
		t.Fatalf("expected valid cron schedule, got error: %v", err)
	}
}

func TestWorkflow_ValidateSchedule_Invalid(t *testing.T) {
	w := Workflow{Config: WorkflowConfig{Schedule: "not a cron expression"}}
	if err := w.ValidateSchedule(); err == nil {
		t.Fatalf("expected invalid cron schedule to fail validation")
	}
}

func TestWorkflow_ValidateSchedule_EmptyIsValid(t *testing.T) {
	w := Workflow{}
	if err := w.ValidateSchedule(); err != nil {
		t.Fatalf("expected empty schedule to validate without error, got %v", err)
	}
}

func TestWorkflow_NextRun_ComputesNextOccurrence(t *testing.T) {
	w := Workflow{Config: WorkflowConfig{Schedule: "0 0 * * *"}}
	after := time.Date(2026, 7, 30, 13, 0, 0, 0, time.UTC)

	next, err := w.NextRun(after)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := time.Date(2026, 7, 31, 0, 0, 0, 0, time.UTC)
	if !next.Equal(want) {
		t.Fatalf("expected next run %v, got %v", want, next)
	}
}

func TestWorkflow_NextRun_UnscheduledReturnsZero(t *testing.T) {
	w := Workflow{}
	next, err := w.NextRun(time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !next.IsZero() {
		t.Fatalf("expected zero time for unscheduled workflow, got %v", next)
	}
}

func TestWorkflow_NextRun_MalformedScheduleErrors(t *testing.T) {
	w := Workflow{Config: WorkflowConfig{Schedule: "garbage"}}
	if _, err := w.NextRun(time.Now()); err == nil {
		t.Fatal("expected an error for a malformed schedule")
	}
}

func TestWorkflow_Dependencies(t *testing.T) {
	w := Workflow{PullsDataFrom: []string{"a"}, PushesDataTo: []string{"b", "c"}}
	if len(w.Dependencies()) != 3 {
		t.Fatalf("expected 3 dependencies, got %v", w.Dependencies())
	}
}
