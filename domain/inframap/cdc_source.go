package inframap

// CdcTable is one table captured by a CdcSource's change-data-capture
// stream, mapping an upstream source table onto the stream/table pair
// the CDC connector publishes into.
type CdcTable struct {
	Name         string
	SourceTable  string
	PrimaryKey   []string
	Stream       string
	Table        string
	SnapshotMode string
}

// CdcSource is an externally-running change-data-capture connector (e.g.
// a Debezium/Postgres logical-replication source) that streams row
// changes into one or more destination tables/topics.
type CdcSource struct {
	ID         string
	Name       string
	Kind       string
	Connection string
	Tables     []CdcTable
	Lifecycle  Lifecycle
}

func (c CdcSource) EntityID() string           { return c.ID }
func (c CdcSource) EntityKind() string         { return "cdc_source" }
func (c CdcSource) EntityLifecycle() Lifecycle { return c.Lifecycle }

func (c CdcSource) TableByName(name string) (CdcTable, bool) {
	for _, t := range c.Tables {
		if t.Name == name {
			return t, true
		}
	}
	return CdcTable{}, false
}
