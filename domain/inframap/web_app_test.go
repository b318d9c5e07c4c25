package inframap

import "testing"

func TestWebApp_Dependencies(t *testing.T) {
	w := WebApp{
		ID:            "app1",
		PullsDataFrom: []string{"table1"},
		PushesDataTo:  []string{"topic1", "topic2"},
	}
	deps := w.Dependencies()
	if len(deps) != 3 {
		t.Fatalf("expected 3 dependencies, got %v", deps)
	}
}

func TestWebApp_EntityContract(t *testing.T) {
	w := WebApp{ID: "app1", Lifecycle: FullyManaged}
	if w.EntityID() != "app1" || w.EntityKind() != "web_app" {
		t.Fatalf("unexpected entity identity: %+v", w)
	}
}
