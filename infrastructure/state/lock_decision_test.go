package state

import (
	"testing"
	"time"
)

func TestDecideAcquire_NoExistingLock(t *testing.T) {
	now := time.Now()
	acquired, isNew, result := decideAcquire(nil, "machine-a", now, 5*time.Minute)

	if !acquired || !isNew {
		t.Fatalf("expected acquired=true isNew=true, got acquired=%v isNew=%v", acquired, isNew)
	}
	if result.MachineID != "machine-a" {
		t.Errorf("MachineID = %q, want machine-a", result.MachineID)
	}
	if !result.ExpiresAt.Equal(now.Add(5 * time.Minute)) {
		t.Errorf("ExpiresAt = %v, want %v", result.ExpiresAt, now.Add(5*time.Minute))
	}
}

func TestDecideAcquire_ExpiredLockIsReclaimed(t *testing.T) {
	now := time.Now()
	expired := &MigrationLock{MachineID: "machine-b", StartedAt: now.Add(-10 * time.Minute), ExpiresAt: now.Add(-1 * time.Minute)}

	acquired, isNew, result := decideAcquire(expired, "machine-a", now, 5*time.Minute)

	if !acquired || !isNew {
		t.Fatalf("expected acquired=true isNew=true for expired lock, got acquired=%v isNew=%v", acquired, isNew)
	}
	if result.MachineID != "machine-a" {
		t.Errorf("MachineID = %q, want machine-a", result.MachineID)
	}
}

func TestDecideAcquire_SameHolderRenews(t *testing.T) {
	now := time.Now()
	started := now.Add(-2 * time.Minute)
	current := &MigrationLock{MachineID: "machine-a", StartedAt: started, ExpiresAt: now.Add(3 * time.Minute)}

	acquired, isNew, result := decideAcquire(current, "machine-a", now, 5*time.Minute)

	if !acquired || isNew {
		t.Fatalf("expected acquired=true isNew=false for renewal, got acquired=%v isNew=%v", acquired, isNew)
	}
	if !result.StartedAt.Equal(started) {
		t.Errorf("StartedAt = %v, want original %v (renewal preserves start time)", result.StartedAt, started)
	}
	if !result.ExpiresAt.Equal(now.Add(5 * time.Minute)) {
		t.Errorf("ExpiresAt = %v, want extended to %v", result.ExpiresAt, now.Add(5*time.Minute))
	}
}

func TestDecideAcquire_OtherHolderBlocksAcquisition(t *testing.T) {
	now := time.Now()
	current := &MigrationLock{MachineID: "machine-b", StartedAt: now.Add(-1 * time.Minute), ExpiresAt: now.Add(4 * time.Minute)}

	acquired, isNew, result := decideAcquire(current, "machine-a", now, 5*time.Minute)

	if acquired || isNew {
		t.Fatalf("expected acquired=false isNew=false, got acquired=%v isNew=%v", acquired, isNew)
	}
	if result.MachineID != "machine-b" {
		t.Errorf("result should echo the current holder, got %q", result.MachineID)
	}
}

func TestMigrationLock_Expired(t *testing.T) {
	now := time.Now()

	notExpired := MigrationLock{ExpiresAt: now.Add(1 * time.Minute)}
	if notExpired.Expired(now) {
		t.Error("lock with future ExpiresAt should not be expired")
	}

	expired := MigrationLock{ExpiresAt: now.Add(-1 * time.Minute)}
	if !expired.Expired(now) {
		t.Error("lock with past ExpiresAt should be expired")
	}

	exactlyNow := MigrationLock{ExpiresAt: now}
	if !exactlyNow.Expired(now) {
		t.Error("lock expiring exactly now should be considered expired")
	}
}
