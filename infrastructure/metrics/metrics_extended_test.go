package metrics

import (
	"os"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestNewMetricsInstance(t *testing.T) {
	registry := prometheus.NewRegistry()

	m := NewWithRegistry("test-service", registry)
	if m == nil {
		t.Fatal("NewWithRegistry() returned nil")
	}

	if m.RequestsTotal == nil {
		t.Error("RequestsTotal should not be nil")
	}
	if m.RequestDuration == nil {
		t.Error("RequestDuration should not be nil")
	}
	if m.RequestsInFlight == nil {
		t.Error("RequestsInFlight should not be nil")
	}
	if m.ErrorsTotal == nil {
		t.Error("ErrorsTotal should not be nil")
	}
	if m.ExecutorPhaseTotal == nil {
		t.Error("ExecutorPhaseTotal should not be nil")
	}
	if m.ExecutorPhaseDuration == nil {
		t.Error("ExecutorPhaseDuration should not be nil")
	}
	if m.DdlOrderingTotal == nil {
		t.Error("DdlOrderingTotal should not be nil")
	}
	if m.StateOperationsTotal == nil {
		t.Error("StateOperationsTotal should not be nil")
	}
	if m.StateOperationDuration == nil {
		t.Error("StateOperationDuration should not be nil")
	}
	if m.ProcessRestartsTotal == nil {
		t.Error("ProcessRestartsTotal should not be nil")
	}
	if m.CoordinatorHoldTime == nil {
		t.Error("CoordinatorHoldTime should not be nil")
	}
	if m.ServiceUptime == nil {
		t.Error("ServiceUptime should not be nil")
	}
	if m.ServiceInfo == nil {
		t.Error("ServiceInfo should not be nil")
	}
}

func TestEnabled(t *testing.T) {
	savedMetrics := os.Getenv("METRICS_ENABLED")
	savedEnv := os.Getenv("ENVIRONMENT")
	defer func() {
		if savedMetrics != "" {
			os.Setenv("METRICS_ENABLED", savedMetrics)
		} else {
			os.Unsetenv("METRICS_ENABLED")
		}
		if savedEnv != "" {
			os.Setenv("ENVIRONMENT", savedEnv)
		} else {
			os.Unsetenv("ENVIRONMENT")
		}
	}()

	t.Run("explicitly enabled", func(t *testing.T) {
		os.Setenv("METRICS_ENABLED", "true")
		if !Enabled() {
			t.Error("Enabled() should return true when METRICS_ENABLED=true")
		}
	})

	t.Run("enabled with 1", func(t *testing.T) {
		os.Setenv("METRICS_ENABLED", "1")
		if !Enabled() {
			t.Error("Enabled() should return true when METRICS_ENABLED=1")
		}
	})

	t.Run("enabled with yes", func(t *testing.T) {
		os.Setenv("METRICS_ENABLED", "yes")
		if !Enabled() {
			t.Error("Enabled() should return true when METRICS_ENABLED=yes")
		}
	})

	t.Run("enabled with on", func(t *testing.T) {
		os.Setenv("METRICS_ENABLED", "on")
		if !Enabled() {
			t.Error("Enabled() should return true when METRICS_ENABLED=on")
		}
	})

	t.Run("explicitly disabled", func(t *testing.T) {
		os.Setenv("METRICS_ENABLED", "false")
		if Enabled() {
			t.Error("Enabled() should return false when METRICS_ENABLED=false")
		}
	})

	t.Run("disabled with 0", func(t *testing.T) {
		os.Setenv("METRICS_ENABLED", "0")
		if Enabled() {
			t.Error("Enabled() should return false when METRICS_ENABLED=0")
		}
	})

	t.Run("default in development", func(t *testing.T) {
		os.Unsetenv("METRICS_ENABLED")
		os.Setenv("ENVIRONMENT", "development")
		if !Enabled() {
			t.Error("Enabled() should return true by default in development")
		}
	})

	t.Run("default in production", func(t *testing.T) {
		os.Unsetenv("METRICS_ENABLED")
		os.Setenv("ENVIRONMENT", "production")
		if Enabled() {
			t.Error("Enabled() should return false by default in production")
		}
	})

	t.Run("case insensitive", func(t *testing.T) {
		os.Setenv("METRICS_ENABLED", "TRUE")
		if !Enabled() {
			t.Error("Enabled() should be case insensitive")
		}
	})

	t.Run("whitespace trimmed", func(t *testing.T) {
		os.Setenv("METRICS_ENABLED", "  true  ")
		if !Enabled() {
			t.Error("Enabled() should trim whitespace")
		}
	})
}

func TestInitAndGlobal(t *testing.T) {
	// Note: we can't fully reset global state because the Prometheus default
	// registry doesn't allow re-registration of the same metrics.

	t.Run("Init creates or returns global instance", func(t *testing.T) {
		m := Init("test-service")
		if m == nil {
			t.Fatal("Init() returned nil")
		}
	})

	t.Run("Init is idempotent", func(t *testing.T) {
		m1 := Init("service-1")
		m2 := Init("service-2")
		if m1 != m2 {
			t.Error("Init() should return same instance on subsequent calls")
		}
	})

	t.Run("Global returns same instance as Init", func(t *testing.T) {
		m1 := Init("test-service")
		m2 := Global()
		if m1 != m2 {
			t.Error("Global() should return same instance as Init()")
		}
	})

	t.Run("Global returns non-nil", func(t *testing.T) {
		m := Global()
		if m == nil {
			t.Fatal("Global() returned nil")
		}
	})
}
