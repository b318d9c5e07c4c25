package inframap

// View is a plain (non-materialized) SQL view definition.
type View struct {
	ID        string
	Name      string
	Database  string
	SelectSQL string
	Columns   []Column
	Lifecycle Lifecycle
	DependsOn []string
}

func (v View) EntityID() string           { return v.ID }
func (v View) EntityKind() string         { return "view" }
func (v View) EntityLifecycle() Lifecycle { return v.Lifecycle }
func (v View) Dependencies() []string     { return v.DependsOn }

// PopulatePolicy controls whether a newly created MaterializedView is
// backfilled from its source tables at creation time.
type PopulatePolicy string

const (
	// PopulateOnCreate backfills the target table immediately after the
	// view is created, via "INSERT INTO target SELECT ... FROM mv".
	PopulateOnCreate PopulatePolicy = "populate_new"
	// NoPopulateOnCreate leaves the target table as-is; only rows written
	// after the view exists flow through it. This is the default for the
	// zero value so an unset policy never silently backfills.
	NoPopulateOnCreate PopulatePolicy = "no_populate"
)

// MaterializedView is backed by a real target table that is continuously
// populated from one or more source tables by the warehouse engine.
type MaterializedView struct {
	ID            string
	Name          string
	Database      string
	SelectSQL     string
	SourceIDs     []string
	TargetTableID string
	Lifecycle     Lifecycle

	// Populate controls whether creating this view also backfills its
	// target table from the existing source data (§8 scenario S6). It is
	// consulted only when the view is newly Added: an Updated view is
	// always dropped and recreated without a population statement, since
	// recomputing history for an already-populated target is never safe
	// to do implicitly.
	Populate PopulatePolicy
}

func (m MaterializedView) EntityID() string           { return m.ID }
func (m MaterializedView) EntityKind() string         { return "materialized_view" }
func (m MaterializedView) EntityLifecycle() Lifecycle { return m.Lifecycle }

// Dependencies: a materialized view must be set up after both its sources
// and its target table exist, since CREATE MATERIALIZED VIEW ... TO
// target references the target by name.
func (m MaterializedView) Dependencies() []string {
	deps := make([]string, 0, len(m.SourceIDs)+1)
	deps = append(deps, m.SourceIDs...)
	if m.TargetTableID != "" {
		deps = append(deps, m.TargetTableID)
	}
	return deps
}

// CustomView is a view whose SQL is hand-authored rather than generated
// from a typed definition, so structural diffing falls back to comparing
// normalized SQL text (see normalize_sql.go) instead of column-by-column.
type CustomView struct {
	ID        string
	Name      string
	Database  string
	RawSQL    string
	DependsOn []string
	Lifecycle Lifecycle
}

func (c CustomView) EntityID() string           { return c.ID }
func (c CustomView) EntityKind() string         { return "custom_view" }
func (c CustomView) EntityLifecycle() Lifecycle { return c.Lifecycle }
func (c CustomView) Dependencies() []string     { return c.DependsOn }

// SQLEqual reports whether two CustomViews are equivalent once their SQL
// is normalized, so that formatting-only edits (whitespace, backticks,
// keyword case) never trigger a drop/recreate.
func (c CustomView) SQLEqual(other CustomView, defaultDatabase string) bool {
	return NormalizeSQL(c.RawSQL, defaultDatabase) == NormalizeSQL(other.RawSQL, defaultDatabase)
}
