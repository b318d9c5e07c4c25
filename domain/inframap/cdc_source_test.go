package inframap

import "testing"

func TestCdcSource_TableByName(t *testing.T) {
	src := CdcSource{
		ID: "cdc1",
		Tables: []CdcTable{
			{Name: "orders", SourceTable: "public.orders"},
			{Name: "customers", SourceTable: "public.customers"},
		},
	}
	tbl, ok := src.TableByName("orders")
	if !ok || tbl.SourceTable != "public.orders" {
		t.Fatalf("expected to find orders table, got %+v ok=%v", tbl, ok)
	}
	if _, ok := src.TableByName("missing"); ok {
		t.Fatalf("expected missing table to not be found")
	}
}

func TestCdcSource_EntityContract(t *testing.T) {
	src := CdcSource{ID: "cdc1", Lifecycle: ExternallyManaged}
	if src.EntityID() != "cdc1" || src.EntityKind() != "cdc_source" {
		t.Fatalf("unexpected entity identity: %+v", src)
	}
	if src.EntityLifecycle() != ExternallyManaged {
		t.Fatalf("expected lifecycle to round-trip")
	}
}
