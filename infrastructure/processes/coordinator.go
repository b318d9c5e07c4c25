package processes

import "sync"

// ProcessingCoordinator is a read/write gate that serializes tool reads
// with respect to mutating migrations: any number of readers may observe
// state concurrently, but a migration (writer) excludes all readers while
// it holds the lock, and vice versa. Cloning/sharing a ProcessingCoordinator
// value (it is safe to copy and pass by value since it only wraps a
// pointer) shares the same underlying lock across every holder.
type ProcessingCoordinator struct {
	mu *sync.RWMutex
}

// NewProcessingCoordinator returns a coordinator ready for use.
func NewProcessingCoordinator() *ProcessingCoordinator {
	return &ProcessingCoordinator{mu: &sync.RWMutex{}}
}

// WriteGuard releases the write lock exactly once, however the caller
// exits the critical section — including via panic, since Release runs
// from a deferred call.
type WriteGuard struct {
	mu   *sync.RWMutex
	done bool
}

// Release unlocks the write lock. Calling it more than once is a no-op.
func (g *WriteGuard) Release() {
	if g.done {
		return
	}
	g.done = true
	g.mu.Unlock()
}

// BeginProcessing acquires the write lock, excluding every reader until
// the returned guard is released. Callers should immediately `defer
// guard.Release()` so the lock is freed even if the migration panics.
func (c *ProcessingCoordinator) BeginProcessing() *WriteGuard {
	c.mu.Lock()
	return &WriteGuard{mu: c.mu}
}

// WaitForStableState blocks until no migration is in progress, then
// returns immediately; it does not hold the lock afterward, so it is safe
// to call from any number of concurrent readers.
func (c *ProcessingCoordinator) WaitForStableState() {
	c.mu.RLock()
	c.mu.RUnlock()
}
