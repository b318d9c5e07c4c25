package processes

import (
	"context"
	"testing"
	"time"
)

func TestRegistry_StartRejectsDuplicateID(t *testing.T) {
	r := newRegistry("test", nil)
	if err := r.Start(context.Background(), "p1", quickExit("sleep 30")); err != nil {
		t.Fatalf("unexpected error starting p1: %v", err)
	}
	defer r.StopAll()

	if err := r.Start(context.Background(), "p1", quickExit("sleep 30")); err == nil {
		t.Fatalf("expected error starting duplicate id")
	}
}

func TestRegistry_StopRemovesFromIDs(t *testing.T) {
	r := newRegistry("test", nil)
	if err := r.Start(context.Background(), "p1", quickExit("sleep 30")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	r.Stop("p1")

	ids := r.IDs()
	if len(ids) != 0 {
		t.Fatalf("expected no registered ids after Stop, got %v", ids)
	}
}

func TestRegistries_StopAllStopsEverySubRegistry(t *testing.T) {
	regs := NewRegistries(nil)
	if err := regs.Functions.Start(context.Background(), "f1", quickExit("sleep 30")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := regs.Syncing.Start(context.Background(), "s1", quickExit("sleep 30")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	done := make(chan struct{})
	go func() {
		regs.StopAll()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatalf("expected StopAll to complete within the shutdown window")
	}

	if len(regs.Functions.IDs()) != 0 || len(regs.Syncing.IDs()) != 0 {
		t.Fatalf("expected all sub-registries empty after StopAll")
	}
}
