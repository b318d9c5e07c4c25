package inframap

import "fmt"

// ColumnTypeKind discriminates the ColumnType sum type. Only one of the
// corresponding fields on ColumnType is meaningful for a given Kind.
type ColumnTypeKind string

const (
	ColumnTypeString      ColumnTypeKind = "string"
	ColumnTypeFixedString ColumnTypeKind = "fixed_string"
	ColumnTypeBoolean     ColumnTypeKind = "boolean"
	ColumnTypeInt         ColumnTypeKind = "int"
	ColumnTypeBigInt      ColumnTypeKind = "big_int"
	ColumnTypeFloat       ColumnTypeKind = "float"
	ColumnTypeDecimal     ColumnTypeKind = "decimal"
	ColumnTypeDateTime    ColumnTypeKind = "datetime"
	ColumnTypeDate        ColumnTypeKind = "date"
	ColumnTypeDate16      ColumnTypeKind = "date16"
	ColumnTypeUUID        ColumnTypeKind = "uuid"
	ColumnTypeJSON        ColumnTypeKind = "json"
	ColumnTypeBytes       ColumnTypeKind = "bytes"
	ColumnTypeIpV4        ColumnTypeKind = "ipv4"
	ColumnTypeIpV6        ColumnTypeKind = "ipv6"
	ColumnTypeEnum        ColumnTypeKind = "enum"
	ColumnTypeArray       ColumnTypeKind = "array"
	ColumnTypeMap         ColumnTypeKind = "map"
	ColumnTypeNested      ColumnTypeKind = "nested"
	ColumnTypeNamedTuple  ColumnTypeKind = "named_tuple"
	// Geographic types, supported by ClickHouse/PostGIS-class engines.
	ColumnTypePoint           ColumnTypeKind = "point"
	ColumnTypeLineString      ColumnTypeKind = "line_string"
	ColumnTypeMultiLineString ColumnTypeKind = "multi_line_string"
	ColumnTypeRing            ColumnTypeKind = "ring"
	ColumnTypePolygon         ColumnTypeKind = "polygon"
	ColumnTypeMultiPolygon    ColumnTypeKind = "multi_polygon"
)

// IntWidth is the bit width of an Int-kind column.
type IntWidth int

const (
	Int8 IntWidth = 8
	Int16 IntWidth = 16
	Int32 IntWidth = 32
	Int64 IntWidth = 64
)

// FloatWidth is the bit width of a Float-kind column.
type FloatWidth int

const (
	Float32 FloatWidth = 32
	Float64 FloatWidth = 64
)

// ColumnType is a closed sum type over every column type the planner's
// structural diff and TableDiffStrategy registry understand. Constructing
// one directly is discouraged in favor of the New* helpers, which enforce
// each kind's required fields.
type ColumnType struct {
	Kind ColumnTypeKind

	IntWidth    IntWidth   // Kind == ColumnTypeInt
	IntUnsigned bool       // Kind == ColumnTypeInt or ColumnTypeBigInt
	FloatWidth  FloatWidth // Kind == ColumnTypeFloat

	FixedStringLength int // Kind == ColumnTypeFixedString

	DecimalPrecision int // Kind == ColumnTypeDecimal
	DecimalScale     int // Kind == ColumnTypeDecimal

	EnumValues []string // Kind == ColumnTypeEnum

	ElementType     *ColumnType // Kind == ColumnTypeArray
	ElementNullable bool        // Kind == ColumnTypeArray: element is Nullable(ElementType)

	MapKeyType   *ColumnType // Kind == ColumnTypeMap
	MapValueType *ColumnType // Kind == ColumnTypeMap

	NestedColumns []Column // Kind == ColumnTypeNested or ColumnTypeNamedTuple
}

func NewStringType() ColumnType  { return ColumnType{Kind: ColumnTypeString} }
func NewBooleanType() ColumnType { return ColumnType{Kind: ColumnTypeBoolean} }
func NewIntType(width IntWidth, unsigned bool) ColumnType {
	return ColumnType{Kind: ColumnTypeInt, IntWidth: width, IntUnsigned: unsigned}
}
func NewFloatType(width FloatWidth) ColumnType {
	return ColumnType{Kind: ColumnTypeFloat, FloatWidth: width}
}
func NewDecimalType(precision, scale int) ColumnType {
	return ColumnType{Kind: ColumnTypeDecimal, DecimalPrecision: precision, DecimalScale: scale}
}
func NewDateTimeType() ColumnType { return ColumnType{Kind: ColumnTypeDateTime} }
func NewDateType() ColumnType     { return ColumnType{Kind: ColumnTypeDate} }
func NewUUIDType() ColumnType     { return ColumnType{Kind: ColumnTypeUUID} }
func NewJSONType() ColumnType     { return ColumnType{Kind: ColumnTypeJSON} }
func NewBytesType() ColumnType    { return ColumnType{Kind: ColumnTypeBytes} }
func NewEnumType(values []string) ColumnType {
	return ColumnType{Kind: ColumnTypeEnum, EnumValues: values}
}
func NewArrayType(element ColumnType) ColumnType {
	return ColumnType{Kind: ColumnTypeArray, ElementType: &element}
}

// NewNullableArrayType builds an Array whose element type is itself
// Nullable, e.g. ClickHouse's Array(Nullable(String)).
func NewNullableArrayType(element ColumnType) ColumnType {
	return ColumnType{Kind: ColumnTypeArray, ElementType: &element, ElementNullable: true}
}
func NewFixedStringType(length int) ColumnType {
	return ColumnType{Kind: ColumnTypeFixedString, FixedStringLength: length}
}
func NewBigIntType(unsigned bool) ColumnType {
	return ColumnType{Kind: ColumnTypeBigInt, IntUnsigned: unsigned}
}
func NewDate16Type() ColumnType { return ColumnType{Kind: ColumnTypeDate16} }
func NewIPv4Type() ColumnType   { return ColumnType{Kind: ColumnTypeIpV4} }
func NewIPv6Type() ColumnType   { return ColumnType{Kind: ColumnTypeIpV6} }
func NewMapType(key, value ColumnType) ColumnType {
	return ColumnType{Kind: ColumnTypeMap, MapKeyType: &key, MapValueType: &value}
}
func NewNestedType(columns []Column) ColumnType {
	return ColumnType{Kind: ColumnTypeNested, NestedColumns: columns}
}
func NewNamedTupleType(columns []Column) ColumnType {
	return ColumnType{Kind: ColumnTypeNamedTuple, NestedColumns: columns}
}
func NewPointType() ColumnType      { return ColumnType{Kind: ColumnTypePoint} }
func NewLineStringType() ColumnType { return ColumnType{Kind: ColumnTypeLineString} }
func NewMultiLineStringType() ColumnType { return ColumnType{Kind: ColumnTypeMultiLineString} }
func NewRingType() ColumnType       { return ColumnType{Kind: ColumnTypeRing} }
func NewPolygonType() ColumnType    { return ColumnType{Kind: ColumnTypePolygon} }
func NewMultiPolygonType() ColumnType { return ColumnType{Kind: ColumnTypeMultiPolygon} }

// Equal reports whether two ColumnTypes describe the same type, including
// recursively for Array/Nested/NamedTuple.
func (c ColumnType) Equal(other ColumnType) bool {
	if c.Kind != other.Kind {
		return false
	}
	switch c.Kind {
	case ColumnTypeInt:
		return c.IntWidth == other.IntWidth && c.IntUnsigned == other.IntUnsigned
	case ColumnTypeBigInt:
		return c.IntUnsigned == other.IntUnsigned
	case ColumnTypeFixedString:
		return c.FixedStringLength == other.FixedStringLength
	case ColumnTypeFloat:
		return c.FloatWidth == other.FloatWidth
	case ColumnTypeDecimal:
		return c.DecimalPrecision == other.DecimalPrecision && c.DecimalScale == other.DecimalScale
	case ColumnTypeEnum:
		if len(c.EnumValues) != len(other.EnumValues) {
			return false
		}
		for i := range c.EnumValues {
			if c.EnumValues[i] != other.EnumValues[i] {
				return false
			}
		}
		return true
	case ColumnTypeArray:
		if c.ElementNullable != other.ElementNullable {
			return false
		}
		if c.ElementType == nil || other.ElementType == nil {
			return c.ElementType == other.ElementType
		}
		return c.ElementType.Equal(*other.ElementType)
	case ColumnTypeMap:
		if c.MapKeyType == nil || other.MapKeyType == nil || c.MapValueType == nil || other.MapValueType == nil {
			return c.MapKeyType == other.MapKeyType && c.MapValueType == other.MapValueType
		}
		return c.MapKeyType.Equal(*other.MapKeyType) && c.MapValueType.Equal(*other.MapValueType)
	case ColumnTypeNested, ColumnTypeNamedTuple:
		if len(c.NestedColumns) != len(other.NestedColumns) {
			return false
		}
		for i := range c.NestedColumns {
			if !c.NestedColumns[i].Equal(other.NestedColumns[i]) {
				return false
			}
		}
		return true
	default:
		return true
	}
}

// String renders the type for logs and plan diffs, e.g. "UInt64".
func (c ColumnType) String() string {
	switch c.Kind {
	case ColumnTypeInt:
		if c.IntUnsigned {
			return fmt.Sprintf("UInt%d", int(c.IntWidth))
		}
		return fmt.Sprintf("Int%d", int(c.IntWidth))
	case ColumnTypeBigInt:
		if c.IntUnsigned {
			return "UInt128"
		}
		return "Int128"
	case ColumnTypeFixedString:
		return fmt.Sprintf("FixedString(%d)", c.FixedStringLength)
	case ColumnTypeFloat:
		return fmt.Sprintf("Float%d", int(c.FloatWidth))
	case ColumnTypeDecimal:
		return fmt.Sprintf("Decimal(%d, %d)", c.DecimalPrecision, c.DecimalScale)
	case ColumnTypeEnum:
		return fmt.Sprintf("Enum%v", c.EnumValues)
	case ColumnTypeArray:
		inner := "?"
		if c.ElementType != nil {
			inner = c.ElementType.String()
		}
		if c.ElementNullable {
			return fmt.Sprintf("Array(Nullable(%s))", inner)
		}
		return fmt.Sprintf("Array(%s)", inner)
	case ColumnTypeMap:
		key, value := "?", "?"
		if c.MapKeyType != nil {
			key = c.MapKeyType.String()
		}
		if c.MapValueType != nil {
			value = c.MapValueType.String()
		}
		return fmt.Sprintf("Map(%s, %s)", key, value)
	case ColumnTypeString:
		return "String"
	default:
		return string(c.Kind)
	}
}

// Column is a single field in a Table, View, or nested composite type.
type Column struct {
	Name          string
	DataType      ColumnType
	Required      bool
	Unique        bool
	PrimaryKey    bool
	DefaultValue  string
	Comment       string
	AnnotationTag string // free-form label, e.g. a data classification tag
}

// Equal reports whether two columns are structurally identical. Comment
// and AnnotationTag are documentation-only and excluded from equality so
// that changing a comment never triggers a DDL alter.
func (c Column) Equal(other Column) bool {
	return c.Name == other.Name &&
		c.DataType.Equal(other.DataType) &&
		c.Required == other.Required &&
		c.Unique == other.Unique &&
		c.PrimaryKey == other.PrimaryKey &&
		c.DefaultValue == other.DefaultValue
}
