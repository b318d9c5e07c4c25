package processes

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
)

// Registry manages a set of RestartingProcess instances keyed by ID,
// shared by the four process-kind-specific registries below so each gets
// the same start/stop/restart-count bookkeeping.
type Registry struct {
	kind string
	log  *logrus.Logger

	mu        sync.Mutex
	processes map[string]*RestartingProcess
}

func newRegistry(kind string, log *logrus.Logger) *Registry {
	return &Registry{
		kind:      kind,
		log:       log,
		processes: make(map[string]*RestartingProcess),
	}
}

// Start registers and launches a new supervised process under id. It is an
// error to start an id that is already running; callers must Stop it
// first.
func (r *Registry) Start(ctx context.Context, id string, start StartChildFn) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.processes[id]; exists {
		return fmt.Errorf("%s process %q is already running", r.kind, id)
	}
	p := NewRestartingProcess(id, start, r.log)
	r.processes[id] = p
	p.Start(ctx)
	return nil
}

// Stop gracefully shuts down and deregisters the process under id. It is a
// no-op if no process is registered under that id.
func (r *Registry) Stop(id string) {
	r.mu.Lock()
	p, exists := r.processes[id]
	if exists {
		delete(r.processes, id)
	}
	r.mu.Unlock()

	if exists {
		p.Stop()
	}
}

// StopAll gracefully shuts down every registered process, waiting for each
// to exit before returning.
func (r *Registry) StopAll() {
	r.mu.Lock()
	all := make([]*RestartingProcess, 0, len(r.processes))
	for id, p := range r.processes {
		all = append(all, p)
		delete(r.processes, id)
	}
	r.mu.Unlock()

	var wg sync.WaitGroup
	for _, p := range all {
		wg.Add(1)
		go func(p *RestartingProcess) {
			defer wg.Done()
			p.Stop()
		}(p)
	}
	wg.Wait()
}

// IDs returns the currently registered process IDs.
func (r *Registry) IDs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]string, 0, len(r.processes))
	for id := range r.processes {
		ids = append(ids, id)
	}
	return ids
}

// FunctionProcessRegistry supervises per-function stream-transform
// processes.
type FunctionProcessRegistry struct{ *Registry }

func NewFunctionProcessRegistry(log *logrus.Logger) *FunctionProcessRegistry {
	return &FunctionProcessRegistry{newRegistry("function", log)}
}

// BlocksProcessRegistry supervises per-data-block processes.
type BlocksProcessRegistry struct{ *Registry }

func NewBlocksProcessRegistry(log *logrus.Logger) *BlocksProcessRegistry {
	return &BlocksProcessRegistry{newRegistry("blocks", log)}
}

// OrchestrationWorkersRegistry supervises per-workflow-language worker
// processes. It is only populated when workflows are configured for the
// project.
type OrchestrationWorkersRegistry struct{ *Registry }

func NewOrchestrationWorkersRegistry(log *logrus.Logger) *OrchestrationWorkersRegistry {
	return &OrchestrationWorkersRegistry{newRegistry("orchestration_worker", log)}
}

// SyncingProcessesRegistry supervises topic-to-table and topic-to-topic
// bridge processes.
type SyncingProcessesRegistry struct{ *Registry }

func NewSyncingProcessesRegistry(log *logrus.Logger) *SyncingProcessesRegistry {
	return &SyncingProcessesRegistry{newRegistry("syncing", log)}
}

// Registries is the central container for every process-kind registry the
// control plane manages, plus the coordinator gating reads against
// migrations.
type Registries struct {
	Functions            *FunctionProcessRegistry
	Blocks               *BlocksProcessRegistry
	OrchestrationWorkers *OrchestrationWorkersRegistry
	Syncing              *SyncingProcessesRegistry
	Coordinator          *ProcessingCoordinator
}

// NewRegistries wires up all four sub-registries and a fresh coordinator.
func NewRegistries(log *logrus.Logger) *Registries {
	return &Registries{
		Functions:            NewFunctionProcessRegistry(log),
		Blocks:               NewBlocksProcessRegistry(log),
		OrchestrationWorkers: NewOrchestrationWorkersRegistry(log),
		Syncing:              NewSyncingProcessesRegistry(log),
		Coordinator:          NewProcessingCoordinator(),
	}
}

// StopAll gracefully tears down every process across every sub-registry.
func (r *Registries) StopAll() {
	var wg sync.WaitGroup
	for _, reg := range []*Registry{r.Functions.Registry, r.Blocks.Registry, r.OrchestrationWorkers.Registry, r.Syncing.Registry} {
		wg.Add(1)
		go func(reg *Registry) {
			defer wg.Done()
			reg.StopAll()
		}(reg)
	}
	wg.Wait()
}
