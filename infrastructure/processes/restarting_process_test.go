package processes

import (
	"context"
	"os/exec"
	"testing"
	"time"
)

func quickExit(script string) StartChildFn {
	return func(ctx context.Context) (*exec.Cmd, error) {
		cmd := exec.Command("sh", "-c", script)
		if err := cmd.Start(); err != nil {
			return nil, err
		}
		return cmd, nil
	}
}

func TestRestartingProcess_RestartsOnExit(t *testing.T) {
	p := NewRestartingProcess("test-1", quickExit("exit 0"), nil)
	p.Start(context.Background())

	deadline := time.Now().Add(2 * time.Second)
	for p.Restarts() < 2 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	p.Stop()

	if p.Restarts() < 2 {
		t.Fatalf("expected at least 2 restarts, got %d", p.Restarts())
	}
}

func TestRestartingProcess_StopIsIdempotentAndBlocksUntilDone(t *testing.T) {
	p := NewRestartingProcess("test-2", quickExit("sleep 30"), nil)
	p.Start(context.Background())
	time.Sleep(20 * time.Millisecond)

	done := make(chan struct{})
	go func() {
		p.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(termTimeout + 2*time.Second):
		t.Fatalf("expected Stop to return within the graceful+forced shutdown window")
	}

	// Second Stop must not block or panic.
	p.Stop()
}

func TestRestartingProcess_NeverStartedStopIsNoop(t *testing.T) {
	p := NewRestartingProcess("test-3", quickExit("exit 0"), nil)
	p.Stop()
}

func TestRestartBackoff_CapsAtMax(t *testing.T) {
	bo := newRestartBackoff()
	var d time.Duration
	for i := 0; i < 10; i++ {
		d = bo.NextBackOff()
	}
	if d != maxBackoff {
		t.Fatalf("expected backoff to cap at %v, got %v", maxBackoff, d)
	}
}

func TestRestartBackoff_Doubles(t *testing.T) {
	bo := newRestartBackoff()
	first := bo.NextBackOff()
	second := bo.NextBackOff()
	if first != minBackoff {
		t.Fatalf("expected the first backoff to equal the initial interval %v, got %v", minBackoff, first)
	}
	if second != 2*minBackoff {
		t.Fatalf("expected backoff to double from %v to %v, got %v", minBackoff, 2*minBackoff, second)
	}
}

func TestRestartBackoff_ResetReturnsToInitial(t *testing.T) {
	bo := newRestartBackoff()
	bo.NextBackOff()
	bo.NextBackOff()
	bo.Reset()
	if got := bo.NextBackOff(); got != minBackoff {
		t.Fatalf("expected backoff to restart at the initial interval %v after Reset, got %v", minBackoff, got)
	}
}
