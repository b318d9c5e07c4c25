package cache

import (
	"testing"
	"time"
)

func TestSnapshotCache_SetGet(t *testing.T) {
	c := New(Config{DefaultTTL: time.Minute})
	c.Set("plan", "payload", 0)

	v, ok := c.Get("plan")
	if !ok || v != "payload" {
		t.Fatalf("expected cached payload, got %v, %v", v, ok)
	}
}

func TestSnapshotCache_ExpiredEntryNotReturned(t *testing.T) {
	c := New(Config{DefaultTTL: time.Minute})
	c.Set("plan", "payload", -time.Second)

	if _, ok := c.Get("plan"); ok {
		t.Fatal("expected an already-expired entry to not be returned")
	}
}

func TestSnapshotCache_InvalidateVersionClearsEntriesAndBumpsVersion(t *testing.T) {
	c := New(Config{DefaultTTL: time.Minute})
	c.Set("plan", "v1", 0)

	if v := c.CurrentVersion(); v != 0 {
		t.Fatalf("expected initial version 0, got %d", v)
	}

	c.InvalidateVersion()

	if _, ok := c.Get("plan"); ok {
		t.Fatal("expected InvalidateVersion to drop all cached entries")
	}
	if v := c.CurrentVersion(); v != 1 {
		t.Fatalf("expected version to bump to 1, got %d", v)
	}
}

func TestSnapshotCache_GetVersionedReportsCaptureVersion(t *testing.T) {
	c := New(Config{DefaultTTL: time.Minute})
	c.InvalidateVersion()
	c.Set("plan", "v2", 0)

	_, version, ok := c.GetVersioned("plan")
	if !ok || version != 1 {
		t.Fatalf("expected version 1, got %d, ok=%v", version, ok)
	}
}

func TestSnapshotCache_SizeCountsOnlyLiveEntries(t *testing.T) {
	c := New(Config{DefaultTTL: time.Minute})
	c.Set("live", "a", time.Minute)
	c.Set("dead", "b", -time.Second)

	if size := c.Size(); size != 1 {
		t.Fatalf("expected size 1, got %d", size)
	}
}
