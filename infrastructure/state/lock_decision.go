package state

import "time"

// decideAcquire is the pure decision core of OlapBackend's lock
// acquisition: given the lock row currently visible to the caller (or nil
// if none exists), decide whether machineID should become or remain the
// holder, and what the resulting lock row should look like. The I/O shell
// around this function only needs to handle reading the current row,
// writing the resulting one, and resolving the insert race. KVBackend does
// not call it; it decides through Redis SetNX and its own renewal path.
func decideAcquire(current *MigrationLock, machineID string, now time.Time, ttl time.Duration) (acquired, isNew bool, result MigrationLock) {
	if current == nil || current.Expired(now) {
		return true, true, MigrationLock{MachineID: machineID, StartedAt: now, ExpiresAt: now.Add(ttl)}
	}
	if current.MachineID == machineID {
		return true, false, MigrationLock{MachineID: machineID, StartedAt: current.StartedAt, ExpiresAt: now.Add(ttl)}
	}
	return false, false, *current
}
