package state

import (
	"context"
	"time"
)

// MigrationLock records which machine currently holds exclusive rights to
// apply a plan, and when that right expires if the holder never releases it
// explicitly (crash, SIGKILL, network partition).
type MigrationLock struct {
	MachineID string
	StartedAt time.Time
	ExpiresAt time.Time
}

// Expired reports whether the lock's TTL has elapsed as of now.
func (l MigrationLock) Expired(now time.Time) bool {
	return !l.ExpiresAt.After(now)
}

// Storage is the interface the control plane uses to persist the last
// applied infrastructure map and to coordinate exclusive access to the
// migration process across machines. Implementations: KVBackend (Redis) and
// OlapBackend (a SQL OLAP warehouse acting as its own coordination store).
//
// Implementations store and load the infrastructure map as opaque bytes;
// callers are responsible for serializing/deserializing with the
// domain/inframap codec. This keeps this package free of a dependency on
// domain/inframap, avoiding an import cycle with callers that also need to
// construct a Storage from domain-level configuration.
type Storage interface {
	// StoreInfrastructureMap persists the current infrastructure map,
	// overwriting or versioning the prior entry depending on the backend.
	StoreInfrastructureMap(ctx context.Context, data []byte) error

	// LoadInfrastructureMap returns the most recently stored infrastructure
	// map. found is false if none has ever been stored.
	LoadInfrastructureMap(ctx context.Context) (data []byte, found bool, err error)

	// AcquireMigrationLock attempts to become (or remain) the exclusive
	// holder of the migration lock. acquired is true if the caller now
	// holds the lock (either newly or because it already did); isNew
	// distinguishes a fresh acquisition from a no-op renewal by the
	// existing holder, mirroring leadership_manager.attempt_lock semantics.
	AcquireMigrationLock(ctx context.Context, machineID string, ttl time.Duration) (acquired bool, isNew bool, current *MigrationLock, err error)

	// ReleaseMigrationLock releases the lock if and only if machineID is
	// the current holder. Releasing a lock you do not hold is a no-op, not
	// an error, since a caller that lost a race should not be able to free
	// another machine's in-progress migration.
	ReleaseMigrationLock(ctx context.Context, machineID string) error

	// Close releases any underlying connection resources.
	Close(ctx context.Context) error
}
