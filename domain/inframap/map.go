package inframap

import (
	"context"
	"fmt"
	"sort"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/R3E-Network/moose-control-plane/infrastructure/state"
)

// InfraMap is a process-wide immutable value built once per planning
// cycle: the complete declarative snapshot of every resource the control
// plane manages, keyed by entity ID within each entity kind. Insertion
// order within a kind carries no meaning; callers that need a stable
// order (diffing, serialization, display) always sort by ID explicitly.
type InfraMap struct {
	// DefaultDatabase is the database name SQLEqual strips as a redundant
	// qualifier prefix when comparing SqlResource/CustomView SQL, so that
	// "db.table" and "table" normalize identically inside it (§4.1.2).
	DefaultDatabase string

	Tables               map[string]Table
	Topics               map[string]Topic
	ApiEndpoints         map[string]ApiEndpoint
	Views                map[string]View
	MaterializedViews    map[string]MaterializedView
	CustomViews          map[string]CustomView
	SqlResources         map[string]SqlResource
	Workflows            map[string]Workflow
	CdcSources           map[string]CdcSource
	WebApps              map[string]WebApp
	FunctionProcesses    map[string]FunctionProcess
	OrchestrationWorkers map[string]OrchestrationWorkerProcess
	SyncProcesses        map[string]SyncProcess
}

// New returns an InfraMap with every collection initialized empty, ready
// for population by a language loader.
func New() *InfraMap {
	return &InfraMap{
		Tables:               map[string]Table{},
		Topics:               map[string]Topic{},
		ApiEndpoints:         map[string]ApiEndpoint{},
		Views:                map[string]View{},
		MaterializedViews:    map[string]MaterializedView{},
		CustomViews:          map[string]CustomView{},
		SqlResources:         map[string]SqlResource{},
		Workflows:            map[string]Workflow{},
		CdcSources:           map[string]CdcSource{},
		WebApps:              map[string]WebApp{},
		FunctionProcesses:    map[string]FunctionProcess{},
		OrchestrationWorkers: map[string]OrchestrationWorkerProcess{},
		SyncProcesses:        map[string]SyncProcess{},
	}
}

// ToProto serializes m to protobuf wire-format bytes. Every repeated
// submessage is emitted in ID order so that two structurally equal maps
// always serialize to byte-identical output (required for deterministic
// plan artifacts and VCS-friendly diffs).
func (m *InfraMap) ToProto() []byte {
	var b []byte
	if m.DefaultDatabase != "" {
		b = appendStringField(b, fieldDefaultDatabase, m.DefaultDatabase)
	}
	for _, id := range sortedTableIDs(m.Tables) {
		b = appendSubmessageField(b, fieldTables, m.Tables[id].marshal())
	}
	for _, id := range sortedTopicIDs(m.Topics) {
		b = appendSubmessageField(b, fieldTopics, m.Topics[id].marshal())
	}
	for _, id := range sortedApiEndpointIDs(m.ApiEndpoints) {
		b = appendSubmessageField(b, fieldApiEndpoints, m.ApiEndpoints[id].marshal())
	}
	for _, id := range sortedViewIDs(m.Views) {
		b = appendSubmessageField(b, fieldViews, m.Views[id].marshal())
	}
	for _, id := range sortedMaterializedViewIDs(m.MaterializedViews) {
		b = appendSubmessageField(b, fieldMaterializedViews, m.MaterializedViews[id].marshal())
	}
	for _, id := range sortedCustomViewIDs(m.CustomViews) {
		b = appendSubmessageField(b, fieldCustomViews, m.CustomViews[id].marshal())
	}
	for _, id := range sortedSqlResourceIDs(m.SqlResources) {
		b = appendSubmessageField(b, fieldSqlResources, m.SqlResources[id].marshal())
	}
	for _, id := range sortedWorkflowIDs(m.Workflows) {
		b = appendSubmessageField(b, fieldWorkflows, m.Workflows[id].marshal())
	}
	for _, id := range sortedCdcSourceIDs(m.CdcSources) {
		b = appendSubmessageField(b, fieldCdcSources, m.CdcSources[id].marshal())
	}
	for _, id := range sortedWebAppIDs(m.WebApps) {
		b = appendSubmessageField(b, fieldWebApps, m.WebApps[id].marshal())
	}
	for _, id := range sortedFunctionProcessIDs(m.FunctionProcesses) {
		b = appendSubmessageField(b, fieldFunctionProcesses, m.FunctionProcesses[id].marshal())
	}
	for _, id := range sortedOrchestrationWorkerIDs(m.OrchestrationWorkers) {
		b = appendSubmessageField(b, fieldOrchestrationWorker, m.OrchestrationWorkers[id].marshal())
	}
	for _, id := range sortedSyncProcessIDs(m.SyncProcesses) {
		b = appendSubmessageField(b, fieldSyncProcesses, m.SyncProcesses[id].marshal())
	}
	return b
}

// FromProto reconstructs an InfraMap from bytes produced by ToProto. It is
// the exact inverse: from_proto(to_proto(m)) == m for every valid m.
func FromProto(data []byte) (*InfraMap, error) {
	m := New()
	if err := fromProtoInto(m, data); err != nil {
		return nil, err
	}
	return m, nil
}

func fromProtoInto(m *InfraMap, data []byte) error {
	return consumeFields(data, func(num fieldNum, typ protowire.Type, b []byte) (int, error) {
		raw, n, err := consumeBytes(b)
		if err != nil {
			return n, err
		}
		if err := decodeEntityField(m, num, raw); err != nil {
			return n, err
		}
		return n, nil
	})
}

func decodeEntityField(m *InfraMap, num fieldNum, raw []byte) error {
	switch num {
	case fieldDefaultDatabase:
		m.DefaultDatabase = string(raw)
	case fieldTables:
		v, err := unmarshalTable(raw)
		if err != nil {
			return fmt.Errorf("table: %w", err)
		}
		m.Tables[v.ID] = v
	case fieldTopics:
		v, err := unmarshalTopic(raw)
		if err != nil {
			return fmt.Errorf("topic: %w", err)
		}
		m.Topics[v.ID] = v
	case fieldApiEndpoints:
		v, err := unmarshalApiEndpoint(raw)
		if err != nil {
			return fmt.Errorf("api_endpoint: %w", err)
		}
		m.ApiEndpoints[v.ID] = v
	case fieldViews:
		v, err := unmarshalView(raw)
		if err != nil {
			return fmt.Errorf("view: %w", err)
		}
		m.Views[v.ID] = v
	case fieldMaterializedViews:
		v, err := unmarshalMaterializedView(raw)
		if err != nil {
			return fmt.Errorf("materialized_view: %w", err)
		}
		m.MaterializedViews[v.ID] = v
	case fieldCustomViews:
		v, err := unmarshalCustomView(raw)
		if err != nil {
			return fmt.Errorf("custom_view: %w", err)
		}
		m.CustomViews[v.ID] = v
	case fieldSqlResources:
		v, err := unmarshalSqlResource(raw)
		if err != nil {
			return fmt.Errorf("sql_resource: %w", err)
		}
		m.SqlResources[v.ID] = v
	case fieldWorkflows:
		v, err := unmarshalWorkflow(raw)
		if err != nil {
			return fmt.Errorf("workflow: %w", err)
		}
		m.Workflows[v.ID] = v
	case fieldCdcSources:
		v, err := unmarshalCdcSource(raw)
		if err != nil {
			return fmt.Errorf("cdc_source: %w", err)
		}
		m.CdcSources[v.ID] = v
	case fieldWebApps:
		v, err := unmarshalWebApp(raw)
		if err != nil {
			return fmt.Errorf("web_app: %w", err)
		}
		m.WebApps[v.ID] = v
	case fieldFunctionProcesses:
		v, err := unmarshalFunctionProcess(raw)
		if err != nil {
			return fmt.Errorf("function_process: %w", err)
		}
		m.FunctionProcesses[v.ID] = v
	case fieldOrchestrationWorker:
		v, err := unmarshalOrchestrationWorkerProcess(raw)
		if err != nil {
			return fmt.Errorf("orchestration_worker: %w", err)
		}
		m.OrchestrationWorkers[v.ID] = v
	case fieldSyncProcesses:
		v, err := unmarshalSyncProcess(raw)
		if err != nil {
			return fmt.Errorf("sync_process: %w", err)
		}
		m.SyncProcesses[v.ID] = v
	}
	return nil
}

// Store serializes m and persists it through backend.
func (m *InfraMap) Store(ctx context.Context, backend state.Storage) error {
	return backend.StoreInfrastructureMap(ctx, m.ToProto())
}

// Load reads the most recently stored InfraMap from backend. found is
// false if no map has ever been stored.
func Load(ctx context.Context, backend state.Storage) (m *InfraMap, found bool, err error) {
	data, found, err := backend.LoadInfrastructureMap(ctx)
	if err != nil || !found {
		return nil, found, err
	}
	m, err = FromProto(data)
	return m, true, err
}

// InitApiEndpoints returns every ApiEndpoint in m sorted by ID, the
// bootstrap change set applied when starting from empty state (there is
// no "before" map to diff API endpoints against on first boot).
func (m *InfraMap) InitApiEndpoints() []ApiEndpoint {
	out := make([]ApiEndpoint, 0, len(m.ApiEndpoints))
	for _, id := range sortedApiEndpointIDs(m.ApiEndpoints) {
		out = append(out, m.ApiEndpoints[id])
	}
	return out
}

// InitWebApps returns every WebApp in m sorted by ID, for the same
// bootstrap reason as InitApiEndpoints.
func (m *InfraMap) InitWebApps() []WebApp {
	out := make([]WebApp, 0, len(m.WebApps))
	for _, id := range sortedWebAppIDs(m.WebApps) {
		out = append(out, m.WebApps[id])
	}
	return out
}

// InitProcesses returns every process-kind entity in m sorted by ID
// within each kind, for the same bootstrap reason as InitApiEndpoints.
func (m *InfraMap) InitProcesses() (functions []FunctionProcess, syncs []SyncProcess, workers []OrchestrationWorkerProcess) {
	for _, id := range sortedFunctionProcessIDs(m.FunctionProcesses) {
		functions = append(functions, m.FunctionProcesses[id])
	}
	for _, id := range sortedSyncProcessIDs(m.SyncProcesses) {
		syncs = append(syncs, m.SyncProcesses[id])
	}
	for _, id := range sortedOrchestrationWorkerIDs(m.OrchestrationWorkers) {
		workers = append(workers, m.OrchestrationWorkers[id])
	}
	return
}

// AllEntities returns every entity in m, regardless of kind, as the
// Entity interface. Used by the lifecycle filter and safety guard, which
// only need EntityID/EntityKind/EntityLifecycle.
func (m *InfraMap) AllEntities() []Entity {
	var out []Entity
	for _, id := range sortedTableIDs(m.Tables) {
		out = append(out, m.Tables[id])
	}
	for _, id := range sortedTopicIDs(m.Topics) {
		out = append(out, m.Topics[id])
	}
	for _, id := range sortedApiEndpointIDs(m.ApiEndpoints) {
		out = append(out, m.ApiEndpoints[id])
	}
	for _, id := range sortedViewIDs(m.Views) {
		out = append(out, m.Views[id])
	}
	for _, id := range sortedMaterializedViewIDs(m.MaterializedViews) {
		out = append(out, m.MaterializedViews[id])
	}
	for _, id := range sortedCustomViewIDs(m.CustomViews) {
		out = append(out, m.CustomViews[id])
	}
	for _, id := range sortedSqlResourceIDs(m.SqlResources) {
		out = append(out, m.SqlResources[id])
	}
	for _, id := range sortedWorkflowIDs(m.Workflows) {
		out = append(out, m.Workflows[id])
	}
	for _, id := range sortedCdcSourceIDs(m.CdcSources) {
		out = append(out, m.CdcSources[id])
	}
	for _, id := range sortedWebAppIDs(m.WebApps) {
		out = append(out, m.WebApps[id])
	}
	for _, id := range sortedFunctionProcessIDs(m.FunctionProcesses) {
		out = append(out, m.FunctionProcesses[id])
	}
	for _, id := range sortedOrchestrationWorkerIDs(m.OrchestrationWorkers) {
		out = append(out, m.OrchestrationWorkers[id])
	}
	for _, id := range sortedSyncProcessIDs(m.SyncProcesses) {
		out = append(out, m.SyncProcesses[id])
	}
	return out
}

// AllDependentEntities returns the subset of AllEntities that also
// implement DependentEntity, in the same deterministic order, for the DDL
// orderer's dependency-graph construction.
func (m *InfraMap) AllDependentEntities() []DependentEntity {
	var out []DependentEntity
	for _, e := range m.AllEntities() {
		if d, ok := e.(DependentEntity); ok {
			out = append(out, d)
		}
	}
	return out
}

// sortedKeys returns the keys of m in ascending order, so every iteration
// over an ID-keyed collection in this package is deterministic.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedTableIDs(m map[string]Table) []string                           { return sortedKeys(m) }
func sortedTopicIDs(m map[string]Topic) []string                           { return sortedKeys(m) }
func sortedApiEndpointIDs(m map[string]ApiEndpoint) []string               { return sortedKeys(m) }
func sortedViewIDs(m map[string]View) []string                             { return sortedKeys(m) }
func sortedMaterializedViewIDs(m map[string]MaterializedView) []string     { return sortedKeys(m) }
func sortedCustomViewIDs(m map[string]CustomView) []string                 { return sortedKeys(m) }
func sortedSqlResourceIDs(m map[string]SqlResource) []string               { return sortedKeys(m) }
func sortedWorkflowIDs(m map[string]Workflow) []string                     { return sortedKeys(m) }
func sortedCdcSourceIDs(m map[string]CdcSource) []string                   { return sortedKeys(m) }
func sortedWebAppIDs(m map[string]WebApp) []string                         { return sortedKeys(m) }
func sortedFunctionProcessIDs(m map[string]FunctionProcess) []string       { return sortedKeys(m) }
func sortedOrchestrationWorkerIDs(m map[string]OrchestrationWorkerProcess) []string {
	return sortedKeys(m)
}
func sortedSyncProcessIDs(m map[string]SyncProcess) []string { return sortedKeys(m) }
