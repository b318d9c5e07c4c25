package inframap

// WebApp is a statically-built frontend mounted at a path and served
// alongside the generated API, carrying lineage (the infrastructure
// components it reads from and writes to) but no DDL of its own — its
// setup/teardown is a file-mount operation, not a database operation.
type WebApp struct {
	ID            string
	Name          string
	MountPath     string
	Description   string
	PullsDataFrom []string
	PushesDataTo  []string
	Lifecycle     Lifecycle
}

func (w WebApp) EntityID() string           { return w.ID }
func (w WebApp) EntityKind() string         { return "web_app" }
func (w WebApp) EntityLifecycle() Lifecycle { return w.Lifecycle }

// Dependencies returns the union of read and write lineage, since the web
// app's mount must come up after everything it reads from or writes to.
func (w WebApp) Dependencies() []string {
	deps := make([]string, 0, len(w.PullsDataFrom)+len(w.PushesDataTo))
	deps = append(deps, w.PullsDataFrom...)
	deps = append(deps, w.PushesDataTo...)
	return deps
}
