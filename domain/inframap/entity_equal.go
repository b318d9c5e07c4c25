package inframap

// EntityWireEqual reports whether two entities of the same kind are
// structurally identical, by comparing their deterministic wire encoding.
// Comparing the encoding rather than adding a hand-written Equal to every
// entity kind keeps the two representations from drifting apart: any field
// the codec serializes is automatically part of equality.
func EntityWireEqual(a, b Entity) bool {
	if a.EntityKind() != b.EntityKind() {
		return false
	}
	return string(marshalEntity(a)) == string(marshalEntity(b))
}

func marshalEntity(e Entity) []byte {
	switch v := e.(type) {
	case Table:
		return v.marshal()
	case Topic:
		return v.marshal()
	case ApiEndpoint:
		return v.marshal()
	case View:
		return v.marshal()
	case MaterializedView:
		return v.marshal()
	case CustomView:
		return v.marshal()
	case SqlResource:
		return v.marshal()
	case Workflow:
		return v.marshal()
	case CdcSource:
		return v.marshal()
	case WebApp:
		return v.marshal()
	case FunctionProcess:
		return v.marshal()
	case OrchestrationWorkerProcess:
		return v.marshal()
	case SyncProcess:
		return v.marshal()
	default:
		return nil
	}
}
