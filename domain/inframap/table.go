package inframap

// TableIndex is a ClickHouse-style data-skipping index: a secondary
// expression evaluated over granules of data rather than over the whole
// table, used to prune reads without the cost of a full secondary index.
type TableIndex struct {
	Name        string
	Expression  string
	Type        string // e.g. "minmax", "bloom_filter", "set(n)"
	Granularity uint32
}

// Equal reports whether two indexes are structurally identical.
func (i TableIndex) Equal(other TableIndex) bool {
	return i.Name == other.Name &&
		i.Expression == other.Expression &&
		i.Type == other.Type &&
		i.Granularity == other.Granularity
}

// Table is an OLAP table entity: its columns, engine, and the clauses that
// control physical layout (order-by, partition-by, sample-by, primary-key,
// ttl, cluster placement), plus the entities it structurally depends on for
// DDL ordering purposes.
type Table struct {
	ID       string
	Name     string
	Database string
	Columns  []Column
	Engine   Engine

	OrderBy     []string
	PartitionBy []string
	SampleBy    []string

	// PrimaryKeyExpression is the explicit PRIMARY KEY clause, when it
	// differs from (a prefix of) OrderBy. Per §4.2.1, any change to this
	// forces a Removed+Added pair rather than an in-place alter.
	PrimaryKeyExpression string

	// Version names the column a ReplacingMergeTree-family engine uses to
	// pick the surviving row among duplicates. Like the primary key, a
	// change here is non-alterable and forces replacement.
	Version string

	// TTL is the table-level TTL expression (e.g. "ts + INTERVAL 30 DAY
	// DELETE"), non-alterable without a full rebuild in this port.
	TTL string

	// ClusterName is the explicit ON CLUSTER target for this table's DDL.
	// It takes precedence over a Replicated engine's own cluster_name
	// parameter (see Table.OnCluster), since a table can be clustered
	// independently of whether its engine replicates.
	ClusterName string

	// TableSettings holds table-level settings (e.g. index_granularity)
	// applied in place via ALTER TABLE ... MODIFY SETTING; see
	// planner.diffTableSettings and mergeTreeStrategy.Diff.
	TableSettings map[string]string

	// Indexes lists the table's data-skipping indexes. Any difference here
	// forces replacement rather than ADD/DROP INDEX in this port; see
	// DESIGN.md.
	Indexes []TableIndex

	Lifecycle Lifecycle

	// Description and SourceFile are documentation-only metadata (the
	// author-facing description and the source file the table definition
	// was declared in); like Column.Comment, they never participate in
	// structural equality or trigger a DDL change.
	Description string
	SourceFile  string

	// SourcePrimitiveSignature fingerprints the source-language primitive
	// (e.g. a typed model class) that generated this table, for drift
	// detection between the declared schema and what actually produced
	// it. Documentation-only, like Description/SourceFile.
	SourcePrimitiveSignature string

	// PullsDataFrom names the IDs of topics/tables this table's ingestion
	// path (e.g. a materialized view or a sync process) reads from. The
	// DDL orderer uses this to place the table after its sources on setup
	// and before them on teardown.
	PullsDataFrom []string
}

func (t Table) EntityID() string { return t.ID }
func (t Table) EntityKind() string { return "table" }
func (t Table) EntityLifecycle() Lifecycle { return t.Lifecycle }
func (t Table) Dependencies() []string { return t.PullsDataFrom }

// ColumnByName returns the column with the given name, if any.
func (t Table) ColumnByName(name string) (Column, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// EngineParamsHash fingerprints the non-alterable engine arguments plus the
// database name, per spec.md's definition: a table moved to a different
// database, or with any engine parameter changed, must be recomputed and
// compared so the planner can force a Removed+Added pair rather than
// silently leaving the table on its old engine configuration.
func (t Table) EngineParamsHash() string {
	return t.Engine.ParamsHash() + "|db=" + t.Database
}

// OnCluster returns the ON CLUSTER target for DDL against this table. An
// explicit ClusterName always wins; otherwise it falls back to a
// Replicated engine's own cluster_name parameter.
func (t Table) OnCluster() string {
	if t.ClusterName != "" {
		return t.ClusterName
	}
	if !t.Engine.Replicated {
		return ""
	}
	return t.Engine.Params["cluster_name"]
}
