package inframap

import (
	"fmt"
	"sort"
	"strings"
)

// EngineFamily discriminates the table engine sum type.
type EngineFamily string

const (
	MergeTree                   EngineFamily = "MergeTree"
	ReplacingMergeTree          EngineFamily = "ReplacingMergeTree"
	SummingMergeTree            EngineFamily = "SummingMergeTree"
	AggregatingMergeTree        EngineFamily = "AggregatingMergeTree"
	CollapsingMergeTree         EngineFamily = "CollapsingMergeTree"
	VersionedCollapsingMergeTree EngineFamily = "VersionedCollapsingMergeTree"
	S3Queue                     EngineFamily = "S3Queue"
)

// mergeTreeFamilies lists every family whose legal DDL and alterable
// parameter set is identical except for the extra settings each variant
// layers on top of MergeTree (sign_column, version_column, ...).
var mergeTreeFamilies = map[EngineFamily]bool{
	MergeTree:                    true,
	ReplacingMergeTree:           true,
	SummingMergeTree:             true,
	AggregatingMergeTree:         true,
	CollapsingMergeTree:          true,
	VersionedCollapsingMergeTree: true,
}

// IsMergeTreeFamily reports whether f is one of the MergeTree-derived
// engines, as opposed to a standalone engine like S3Queue.
func (f EngineFamily) IsMergeTreeFamily() bool {
	return mergeTreeFamilies[f]
}

// Engine is a tagged variant over every table engine the planner
// understands. Replicated is orthogonal to Family: any MergeTree-family
// engine may additionally be Replicated, in which case its DDL must be
// emitted with an ON CLUSTER clause and a ReplicatedXxx engine name.
// Params carries engine-specific settings (e.g. "sign_column",
// "version_column", or S3Queue's "s3_path"/"format"/"compression").
type Engine struct {
	Family     EngineFamily
	Replicated bool
	Params     map[string]string
}

// NewEngine constructs an Engine, defensively copying params so later
// mutation of the caller's map cannot alias into the InfraMap.
func NewEngine(family EngineFamily, replicated bool, params map[string]string) Engine {
	copied := make(map[string]string, len(params))
	for k, v := range params {
		copied[k] = v
	}
	return Engine{Family: family, Replicated: replicated, Params: copied}
}

// Name renders the ClickHouse-style engine name, e.g. "ReplicatedMergeTree"
// or "S3Queue".
func (e Engine) Name() string {
	if e.Replicated {
		return "Replicated" + string(e.Family)
	}
	return string(e.Family)
}

// Equal reports whether two engines are identical in family, replication,
// and parameters.
func (e Engine) Equal(other Engine) bool {
	if e.Family != other.Family || e.Replicated != other.Replicated {
		return false
	}
	if len(e.Params) != len(other.Params) {
		return false
	}
	for k, v := range e.Params {
		if other.Params[k] != v {
			return false
		}
	}
	return true
}

// ParamsHash is a deterministic fingerprint of Params, used by the planner
// to detect a settings-only change without caring about map iteration
// order.
func (e Engine) ParamsHash() string {
	keys := make([]string, 0, len(e.Params))
	for k := range e.Params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte(';')
		}
		fmt.Fprintf(&b, "%s=%s", k, e.Params[k])
	}
	return b.String()
}
