package inframap

import "strings"

// SqlResource is a free-form collection of setup/teardown DDL statements
// not otherwise modeled as a typed Table/View, e.g. a hand-written
// CREATE FUNCTION or a vendor-specific object the typed model doesn't
// cover. Statement order within SetupSQL/TeardownSQL is preserved exactly
// as authored; the DDL orderer treats the whole resource as one atomic
// unit relative to other entities, never reordering statements within it.
type SqlResource struct {
	ID          string
	Name        string
	SetupSQL    []string
	TeardownSQL []string
	DependsOn   []string
	Lifecycle   Lifecycle
}

func (s SqlResource) EntityID() string           { return s.ID }
func (s SqlResource) EntityKind() string         { return "sql_resource" }
func (s SqlResource) EntityLifecycle() Lifecycle { return s.Lifecycle }
func (s SqlResource) Dependencies() []string     { return s.DependsOn }

// SQLEqual reports whether two SqlResources are equivalent once each of
// their statements is normalized and compared pairwise in order.
func (s SqlResource) SQLEqual(other SqlResource, defaultDatabase string) bool {
	if len(s.SetupSQL) != len(other.SetupSQL) || len(s.TeardownSQL) != len(other.TeardownSQL) {
		return false
	}
	for i := range s.SetupSQL {
		if NormalizeSQL(s.SetupSQL[i], defaultDatabase) != NormalizeSQL(other.SetupSQL[i], defaultDatabase) {
			return false
		}
	}
	for i := range s.TeardownSQL {
		if NormalizeSQL(s.TeardownSQL[i], defaultDatabase) != NormalizeSQL(other.TeardownSQL[i], defaultDatabase) {
			return false
		}
	}
	return true
}

// NormalizedSetupSQL returns SetupSQL joined for logging/diff display, one
// statement per line, trimmed of surrounding whitespace.
func (s SqlResource) NormalizedSetupSQL(defaultDatabase string) string {
	out := make([]string, len(s.SetupSQL))
	for i, stmt := range s.SetupSQL {
		out[i] = NormalizeSQL(stmt, defaultDatabase)
	}
	return strings.Join(out, "\n")
}
