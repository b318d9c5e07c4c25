package inframap

import "testing"

func TestColumnType_FixedStringEqual(t *testing.T) {
	a := NewFixedStringType(16)
	b := NewFixedStringType(16)
	c := NewFixedStringType(32)
	if !a.Equal(b) {
		t.Fatal("expected equal FixedString lengths to be equal")
	}
	if a.Equal(c) {
		t.Fatal("expected different FixedString lengths to be unequal")
	}
	if a.String() != "FixedString(16)" {
		t.Fatalf("unexpected String(): %q", a.String())
	}
}

func TestColumnType_BigIntEqual(t *testing.T) {
	signed := NewBigIntType(false)
	unsigned := NewBigIntType(true)
	if signed.Equal(unsigned) {
		t.Fatal("expected signed/unsigned BigInt to be unequal")
	}
	if signed.String() != "Int128" || unsigned.String() != "UInt128" {
		t.Fatalf("unexpected String(): %q / %q", signed.String(), unsigned.String())
	}
}

func TestColumnType_IPAndDate16AreDistinctKinds(t *testing.T) {
	if NewIPv4Type().Equal(NewIPv6Type()) {
		t.Fatal("expected IPv4 and IPv6 to be distinct kinds")
	}
	if NewDate16Type().Kind != ColumnTypeDate16 {
		t.Fatalf("unexpected kind: %v", NewDate16Type().Kind)
	}
}

func TestColumnType_ArrayElementNullableAffectsEquality(t *testing.T) {
	plain := NewArrayType(NewStringType())
	nullable := NewNullableArrayType(NewStringType())
	if plain.Equal(nullable) {
		t.Fatal("expected Array(String) and Array(Nullable(String)) to be unequal")
	}
	if nullable.String() != "Array(Nullable(String))" {
		t.Fatalf("unexpected String(): %q", nullable.String())
	}
}

func TestColumnType_MapKeyAndValueEquality(t *testing.T) {
	a := NewMapType(NewStringType(), NewIntType(Int64, false))
	b := NewMapType(NewStringType(), NewIntType(Int64, false))
	c := NewMapType(NewStringType(), NewIntType(Int32, false))
	if !a.Equal(b) {
		t.Fatal("expected identical Map(key, value) types to be equal")
	}
	if a.Equal(c) {
		t.Fatal("expected a different Map value type to be unequal")
	}
	if a.String() != "Map(String, Int64)" {
		t.Fatalf("unexpected String(): %q", a.String())
	}
}

func TestColumnType_MultiLineStringAndMultiPolygonAreDistinctFromSingular(t *testing.T) {
	if NewLineStringType().Equal(NewMultiLineStringType()) {
		t.Fatal("expected LineString and MultiLineString to be distinct kinds")
	}
	if NewPolygonType().Equal(NewMultiPolygonType()) {
		t.Fatal("expected Polygon and MultiPolygon to be distinct kinds")
	}
}
