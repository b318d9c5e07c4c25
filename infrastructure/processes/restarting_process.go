// Package processes supervises the long-running children the control
// plane starts and keeps alive: stream transforms, data-block processes,
// sync workers, and orchestration workers.
package processes

import (
	"context"
	"os/exec"
	"sync"
	"syscall"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"
)

const (
	minBackoff   = 1 * time.Second
	maxBackoff   = 60 * time.Second
	stableUptime = 10 * time.Second
	termTimeout  = 10 * time.Second
	killTimeout  = 1 * time.Second
)

// StartChildFn launches one instance of the supervised child and returns a
// handle the monitor can wait on and signal.
type StartChildFn func(ctx context.Context) (*exec.Cmd, error)

// ShutdownOutcome records which path a graceful shutdown took.
type ShutdownOutcome string

const (
	ShutdownGraceful ShutdownOutcome = "graceful_sigterm"
	ShutdownForced   ShutdownOutcome = "forced_sigkill"
	ShutdownNotRunning ShutdownOutcome = "not_running"
)

// RestartingProcess supervises one child process, restarting it with
// exponential backoff whenever it exits unexpectedly, and tearing it down
// gracefully (SIGTERM, then SIGKILL after a timeout) on shutdown.
type RestartingProcess struct {
	id    string
	start StartChildFn
	log   *logrus.Entry

	mu       sync.Mutex
	cmd      *exec.Cmd
	running  bool
	restarts int

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewRestartingProcess creates a supervisor for id, not yet started.
func NewRestartingProcess(id string, start StartChildFn, log *logrus.Logger) *RestartingProcess {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &RestartingProcess{
		id:     id,
		start:  start,
		log:    log.WithField("process_id", id),
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}
}

// Start launches the child and begins supervising it. Calling Start twice
// on the same instance is a programmer error and returns immediately.
func (p *RestartingProcess) Start(ctx context.Context) {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return
	}
	p.running = true
	p.mu.Unlock()

	go p.supervise(ctx)
}

// Restarts returns how many times the child has been restarted, for tests
// and diagnostics.
func (p *RestartingProcess) Restarts() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.restarts
}

func (p *RestartingProcess) supervise(ctx context.Context) {
	defer close(p.doneCh)
	defer func() {
		p.mu.Lock()
		p.running = false
		p.mu.Unlock()
	}()

	bo := newRestartBackoff()
	for {
		cmd, err := p.start(ctx)
		if err != nil {
			p.log.WithError(err).Warn("failed to start process, scheduling retry")
			if !p.sleepOrStop(bo.NextBackOff()) {
				return
			}
			continue
		}

		p.mu.Lock()
		p.cmd = cmd
		p.mu.Unlock()

		startedAt := time.Now()
		exitCh := make(chan error, 1)
		go func() { exitCh <- cmd.Wait() }()

		select {
		case <-p.stopCh:
			p.shutdownChild(cmd, exitCh)
			return
		case err := <-exitCh:
			ran := time.Since(startedAt)
			if err != nil {
				p.log.WithError(err).WithField("ran_for", ran).Warn("process exited, restarting")
			} else {
				p.log.WithField("ran_for", ran).Info("process exited cleanly, restarting")
			}
			if ran >= stableUptime {
				bo.Reset()
			}
			p.mu.Lock()
			p.restarts++
			p.mu.Unlock()

			if !p.sleepOrStop(bo.NextBackOff()) {
				return
			}
		}
	}
}

// sleepOrStop waits for d, returning false if a shutdown request arrives
// first so the caller can exit without starting another attempt.
func (p *RestartingProcess) sleepOrStop(d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-p.stopCh:
		return false
	case <-timer.C:
		return true
	}
}

// newRestartBackoff builds the exponential backoff schedule for a single
// supervise() run: no randomization, since jitter across restarts of the
// same child process offers no benefit a fixed-base warehouse or broker
// wouldn't already smooth out, and no elapsed-time cap, since a supervisor
// retries its child forever.
func newRestartBackoff() *backoff.ExponentialBackOff {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = minBackoff
	bo.MaxInterval = maxBackoff
	bo.Multiplier = 2
	bo.RandomizationFactor = 0
	bo.MaxElapsedTime = 0
	bo.Reset()
	return bo
}

// Stop requests graceful shutdown and blocks until the monitor goroutine
// has fully exited. Safe to call multiple times.
func (p *RestartingProcess) Stop() {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}
	p.mu.Unlock()

	select {
	case <-p.stopCh:
	default:
		close(p.stopCh)
	}
	<-p.doneCh
}

// shutdownChild signals cmd to terminate and waits on exitCh, the channel
// already fed by the single goroutine that owns this cmd's Wait() call
// (exec.Cmd.Wait must never be called more than once per process).
func (p *RestartingProcess) shutdownChild(cmd *exec.Cmd, exitCh <-chan error) ShutdownOutcome {
	if cmd == nil || cmd.Process == nil {
		return ShutdownNotRunning
	}

	_ = cmd.Process.Signal(syscall.SIGTERM)
	select {
	case <-exitCh:
		p.log.Info("process exited after SIGTERM")
		return ShutdownGraceful
	case <-time.After(termTimeout):
	}

	_ = cmd.Process.Signal(syscall.SIGKILL)
	select {
	case <-exitCh:
	case <-time.After(killTimeout):
	}
	p.log.Warn("process did not exit after SIGTERM, sent SIGKILL")
	return ShutdownForced
}
