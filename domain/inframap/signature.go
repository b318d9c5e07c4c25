package inframap

// SignatureKind identifies which InfraMap collection an
// InfrastructureSignature points into.
type SignatureKind string

const (
	SignatureTable       SignatureKind = "table"
	SignatureTopic       SignatureKind = "topic"
	SignatureApiEndpoint SignatureKind = "api_endpoint"
	SignatureView        SignatureKind = "view"
	SignatureSqlResource SignatureKind = "sql_resource"
	SignatureCdcSource   SignatureKind = "cdc_source"
	SignatureWorkflow    SignatureKind = "workflow"
	SignatureWebApp      SignatureKind = "web_app"
)

// InfrastructureSignature is a typed, lightweight reference to another
// entity in the InfraMap, used to record lineage (what a process/workflow/
// web app reads from or writes to) without embedding the full entity.
type InfrastructureSignature struct {
	Kind SignatureKind
	ID   string
}

func (s InfrastructureSignature) String() string {
	return string(s.Kind) + ":" + s.ID
}
