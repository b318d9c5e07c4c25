package inframap

import "testing"

func TestSqlResource_SQLEqual_IgnoresFormatting(t *testing.T) {
	a := SqlResource{
		ID:          "r1",
		SetupSQL:    []string{"CREATE FUNCTION `foo`() AS x"},
		TeardownSQL: []string{"DROP FUNCTION `foo`"},
	}
	b := SqlResource{
		ID:          "r1",
		SetupSQL:    []string{"create function foo() as x"},
		TeardownSQL: []string{"drop function foo"},
	}
	if !a.SQLEqual(b, "") {
		t.Fatalf("expected formatting-only differences to be equal")
	}
}

func TestSqlResource_SQLEqual_DifferentStatementCount(t *testing.T) {
	a := SqlResource{SetupSQL: []string{"select 1"}}
	b := SqlResource{SetupSQL: []string{"select 1", "select 2"}}
	if a.SQLEqual(b, "") {
		t.Fatalf("expected different statement counts to be unequal")
	}
}

func TestSqlResource_Dependencies(t *testing.T) {
	r := SqlResource{ID: "r1", DependsOn: []string{"t1", "t2"}}
	deps := r.Dependencies()
	if len(deps) != 2 || deps[0] != "t1" || deps[1] != "t2" {
		t.Fatalf("unexpected dependencies: %v", deps)
	}
}
