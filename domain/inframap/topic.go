package inframap

// Topic is a streaming topic entity (e.g. a Kafka/Redpanda topic).
type Topic struct {
	ID                string
	Name              string
	Namespace         string
	Columns           []Column
	PartitionCount    int
	RetentionSeconds  int64
	Lifecycle         Lifecycle
}

func (t Topic) EntityID() string           { return t.ID }
func (t Topic) EntityKind() string         { return "topic" }
func (t Topic) EntityLifecycle() Lifecycle { return t.Lifecycle }
