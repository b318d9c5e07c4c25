// Command moosectl runs one control-plane migration cycle — load the
// current state, diff it against the target InfraMap, filter and validate
// the plan, execute it, and persist the new state — then serves a small
// diagnostics HTTP surface over the result.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/R3E-Network/moose-control-plane/domain/ddl"
	"github.com/R3E-Network/moose-control-plane/domain/inframap"
	"github.com/R3E-Network/moose-control-plane/domain/planner"
	"github.com/R3E-Network/moose-control-plane/infrastructure/cache"
	"github.com/R3E-Network/moose-control-plane/infrastructure/config"
	svcerrors "github.com/R3E-Network/moose-control-plane/infrastructure/errors"
	"github.com/R3E-Network/moose-control-plane/infrastructure/executor"
	"github.com/R3E-Network/moose-control-plane/infrastructure/logging"
	"github.com/R3E-Network/moose-control-plane/infrastructure/metrics"
	"github.com/R3E-Network/moose-control-plane/infrastructure/processes"
	"github.com/R3E-Network/moose-control-plane/infrastructure/state"
)

func main() {
	log := logging.New("moosectl", config.GetEnv("LOG_LEVEL", "info"), config.GetEnv("LOG_FORMAT", "json"))
	m := metrics.New("moosectl")
	registries := processes.NewRegistries(log.Logger)
	snapshots := cache.New(cache.DefaultConfig())

	store, err := buildStorage(context.Background())
	if err != nil {
		log.WithError(err).Fatal("failed to build state storage backend")
	}
	defer store.Close(context.Background())

	machineID := config.GetEnv("MOOSE_MACHINE_ID", uuid.NewString())
	lockTTL := config.GetEnv("MOOSE_MIGRATION_LOCK_TTL", "5m")
	ttl, ttlErr := time.ParseDuration(lockTTL)
	if ttlErr != nil {
		ttl = 5 * time.Minute
	}

	srv := &server{
		log:        log,
		metrics:    m,
		registries: registries,
		snapshots:  snapshots,
		store:      store,
		machineID:  machineID,
		lockTTL:    ttl,
	}

	if config.GetEnvBool("MOOSE_RUN_MIGRATION_ON_START", true) {
		if migrateErr := srv.runMigration(context.Background(), inframap.New(), false); migrateErr != nil {
			log.WithError(migrateErr).Error("startup migration failed")
		}
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)
	router.Get("/healthz", srv.handleHealthz)
	router.Get("/state", srv.handleState)
	router.Post("/plan", srv.handlePlan)

	addr := config.GetEnv("MOOSE_ADMIN_ADDR", ":5100")
	httpSrv := &http.Server{Addr: addr, Handler: router}

	go func() {
		log.WithField("addr", addr).Info("admin surface listening")
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Error("admin surface stopped")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	registries.StopAll()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = httpSrv.Shutdown(ctx)
}

// buildStorage selects the state.Storage backend from MOOSE_STATE_BACKEND:
// "kv" (Redis, the default) or "olap" (the SQL warehouse acting as its own
// coordination store).
func buildStorage(ctx context.Context) (state.Storage, error) {
	switch config.GetEnv("MOOSE_STATE_BACKEND", "kv") {
	case "olap":
		cfg := state.OlapConfig{
			DSN:       config.RequireEnvOrSecret(nil, "MOOSE_OLAP_DSN"),
			KeyPrefix: config.GetEnv("MOOSE_STATE_KEY_PREFIX", "moose"),
		}
		return state.NewOlapBackend(ctx, cfg)
	default:
		cfg := state.DefaultKVConfig()
		cfg.Addr = config.GetEnv("MOOSE_REDIS_ADDR", "localhost:6379")
		cfg.KeyPrefix = config.GetEnv("MOOSE_STATE_KEY_PREFIX", "moose")
		return state.NewKVBackend(cfg), nil
	}
}

type server struct {
	log        *logging.Logger
	metrics    *metrics.Metrics
	registries *processes.Registries
	snapshots  *cache.SnapshotCache
	store      state.Storage
	machineID  string
	lockTTL    time.Duration
}

// runMigration is the full control-plane cycle described in §2: load
// current state, diff against target, filter protected resources, validate
// the result, order it topologically, execute it, and persist the new
// state — all inside the ProcessingCoordinator's write gate so concurrent
// tool reads observe only a stable state.
func (s *server) runMigration(ctx context.Context, target *inframap.InfraMap, bypass bool) error {
	acquired, _, current, err := s.store.AcquireMigrationLock(ctx, s.machineID, s.lockTTL)
	if err != nil {
		return svcerrors.StateIOError("acquire_migration_lock", err)
	}
	if !acquired {
		holder := "unknown"
		expiresIn := time.Duration(0)
		if current != nil {
			holder = current.MachineID
			expiresIn = time.Until(current.ExpiresAt)
		}
		return svcerrors.MigrationInProgress(holder, expiresIn)
	}
	defer s.store.ReleaseMigrationLock(ctx, s.machineID)

	guard := s.registries.Coordinator.BeginProcessing()
	defer guard.Release()

	start := time.Now()

	currentMap, _, err := inframap.Load(ctx, s.store)
	if err != nil {
		return svcerrors.StateIOError("load_infrastructure_map", err)
	}
	if currentMap == nil {
		currentMap = inframap.New()
	}

	diff := planner.Compute(currentMap, target)
	filtered := planner.ApplyLifecycleFilter(diff.All())
	for _, f := range filtered.Filtered {
		s.log.WithFields(map[string]interface{}{
			"entity_id": f.Original.EntityID,
			"reason":    f.Reason,
		}).Warn("change blocked by lifecycle filter")
	}
	if err := planner.ValidateLifecycleCompliance(filtered.Allowed); err != nil {
		return err
	}

	plan, err := ddl.BuildPlan(filtered.Allowed)
	if err != nil {
		return err
	}

	res, err := executor.Run(ctx, executor.Input{
		Plan:      plan,
		TargetMap: target,
		Store:     s.store,
		Bypass:    bypass,
		IsLeader:  true,
		Log:       s.log.Logger,
	})
	s.metrics.ExecutorPhaseDuration.WithLabelValues("full_cycle").Observe(time.Since(start).Seconds())
	if err != nil {
		s.metrics.ErrorsTotal.WithLabelValues("moosectl", "migration", "execute").Inc()
		return err
	}

	const snapshotTTL = 24 * time.Hour
	s.snapshots.InvalidateVersion()
	s.snapshots.Set("plan", plan, snapshotTTL)
	s.snapshots.Set("result", res, snapshotTTL)
	s.snapshots.Set("target_map", target, snapshotTTL)

	s.log.WithFields(map[string]interface{}{
		"olap_ops":      res.OlapOpsApplied,
		"stream_ops":    res.StreamChangesApplied,
		"api_events":    res.APIChangesEmitted,
		"webapp_events": res.WebAppChangesEmitted,
	}).Info("migration completed")
	return nil
}

func (s *server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	s.registries.Coordinator.WaitForStableState()
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

func (s *server) handleState(w http.ResponseWriter, r *http.Request) {
	_, version, ok := s.snapshots.GetVersioned("result")
	w.Header().Set("Content-Type", "application/json")
	if !ok {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"error":"no migration has completed yet"}`))
		return
	}
	fmt.Fprintf(w, `{"version":%d}`, version)
}

func (s *server) handlePlan(w http.ResponseWriter, r *http.Request) {
	if err := s.runMigration(r.Context(), inframap.New(), false); err != nil {
		status := svcerrors.GetHTTPStatus(err)
		w.WriteHeader(status)
		w.Write([]byte(err.Error()))
		return
	}
	w.WriteHeader(http.StatusAccepted)
}
