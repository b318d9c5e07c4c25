package inframap

import (
	"fmt"
	"time"

	"google.golang.org/protobuf/encoding/protowire"
)

// This file hand-rolls a protobuf wire-format codec for InfraMap using the
// low-level encoding/protowire primitives from google.golang.org/protobuf,
// rather than a protoc-generated message: there is no protoc invocation
// available in this build environment, and protowire is the same module
// protoc-gen-go itself builds on, so the bytes this produces are standard
// protobuf wire format. Field numbers below are part of the wire contract
// and must never be reused or renumbered once assigned.

type fieldNum = protowire.Number

const (
	fieldTables              fieldNum = 1
	fieldTopics              fieldNum = 2
	fieldApiEndpoints        fieldNum = 3
	fieldViews               fieldNum = 4
	fieldMaterializedViews   fieldNum = 5
	fieldCustomViews         fieldNum = 6
	fieldSqlResources        fieldNum = 7
	fieldWorkflows           fieldNum = 8
	fieldCdcSources          fieldNum = 9
	fieldWebApps             fieldNum = 10
	fieldFunctionProcesses   fieldNum = 11
	fieldOrchestrationWorker fieldNum = 12
	fieldSyncProcesses       fieldNum = 13
	fieldDefaultDatabase     fieldNum = 14
)

func appendStringField(b []byte, num fieldNum, v string) []byte {
	if v == "" {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, v)
}

func appendVarintField(b []byte, num fieldNum, v uint64) []byte {
	if v == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, v)
}

func appendBoolField(b []byte, num fieldNum, v bool) []byte {
	if !v {
		return b
	}
	return appendVarintField(b, num, 1)
}

func appendSubmessageField(b []byte, num fieldNum, sub []byte) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, sub)
}

func appendRepeatedStrings(b []byte, num fieldNum, vs []string) []byte {
	for _, v := range vs {
		b = protowire.AppendTag(b, num, protowire.BytesType)
		b = protowire.AppendString(b, v)
	}
	return b
}

// consumeFields walks every top-level field of msg, invoking fn with the
// field number, wire type, and the remaining bytes positioned at the start
// of that field's value (i.e. just past the tag). fn must return how many
// bytes of the value it consumed; consumeFields advances past that and
// continues to the next field.
func consumeFields(msg []byte, fn func(num fieldNum, typ protowire.Type, b []byte) (int, error)) error {
	for len(msg) > 0 {
		num, typ, tagLen := protowire.ConsumeTag(msg)
		if tagLen < 0 {
			return fmt.Errorf("inframap: invalid tag: %w", protowire.ParseError(tagLen))
		}
		msg = msg[tagLen:]
		n, err := fn(num, typ, msg)
		if err != nil {
			return err
		}
		if n < 0 || n > len(msg) {
			return fmt.Errorf("inframap: field %d consumed invalid length %d", num, n)
		}
		msg = msg[n:]
	}
	return nil
}

func consumeVarint(b []byte) (uint64, int, error) {
	v, n := protowire.ConsumeVarint(b)
	if n < 0 {
		return 0, 0, fmt.Errorf("inframap: invalid varint: %w", protowire.ParseError(n))
	}
	return v, n, nil
}

func consumeString(b []byte) (string, int, error) {
	v, n := protowire.ConsumeString(b)
	if n < 0 {
		return "", 0, fmt.Errorf("inframap: invalid string: %w", protowire.ParseError(n))
	}
	return v, n, nil
}

func consumeBytes(b []byte) ([]byte, int, error) {
	v, n := protowire.ConsumeBytes(b)
	if n < 0 {
		return nil, 0, fmt.Errorf("inframap: invalid bytes: %w", protowire.ParseError(n))
	}
	return v, n, nil
}

func lifecycleToWire(l Lifecycle) uint64 {
	switch l {
	case DeletionProtected:
		return 1
	case ExternallyManaged:
		return 2
	default:
		return 0
	}
}

func lifecycleFromWire(v uint64) Lifecycle {
	switch v {
	case 1:
		return DeletionProtected
	case 2:
		return ExternallyManaged
	default:
		return FullyManaged
	}
}

// --- ColumnType ---

const (
	ctFieldKind            fieldNum = 1
	ctFieldIntWidth        fieldNum = 2
	ctFieldIntUnsigned     fieldNum = 3
	ctFieldFloatWidth      fieldNum = 4
	ctFieldDecimalPrec     fieldNum = 5
	ctFieldDecimalScale    fieldNum = 6
	ctFieldEnumValues      fieldNum = 7
	ctFieldElementType     fieldNum = 8
	ctFieldElementNullable fieldNum = 9
	ctFieldNestedColumns   fieldNum = 10
	ctFieldMapKeyType      fieldNum = 11
	ctFieldMapValueType    fieldNum = 12
	ctFieldFixedStrLen     fieldNum = 13
)

func (c ColumnType) marshal() []byte {
	var b []byte
	b = appendStringField(b, ctFieldKind, string(c.Kind))
	b = appendVarintField(b, ctFieldIntWidth, uint64(c.IntWidth))
	b = appendBoolField(b, ctFieldIntUnsigned, c.IntUnsigned)
	b = appendVarintField(b, ctFieldFloatWidth, uint64(c.FloatWidth))
	b = appendVarintField(b, ctFieldDecimalPrec, uint64(c.DecimalPrecision))
	b = appendVarintField(b, ctFieldDecimalScale, uint64(c.DecimalScale))
	b = appendRepeatedStrings(b, ctFieldEnumValues, c.EnumValues)
	if c.ElementType != nil {
		b = appendSubmessageField(b, ctFieldElementType, c.ElementType.marshal())
	}
	b = appendBoolField(b, ctFieldElementNullable, c.ElementNullable)
	for _, nc := range c.NestedColumns {
		b = appendSubmessageField(b, ctFieldNestedColumns, nc.marshal())
	}
	if c.MapKeyType != nil {
		b = appendSubmessageField(b, ctFieldMapKeyType, c.MapKeyType.marshal())
	}
	if c.MapValueType != nil {
		b = appendSubmessageField(b, ctFieldMapValueType, c.MapValueType.marshal())
	}
	b = appendVarintField(b, ctFieldFixedStrLen, uint64(c.FixedStringLength))
	return b
}

func unmarshalColumnType(msg []byte) (ColumnType, error) {
	var c ColumnType
	err := consumeFields(msg, func(num fieldNum, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case ctFieldKind:
			v, n, err := consumeString(b)
			c.Kind = ColumnTypeKind(v)
			return n, err
		case ctFieldIntWidth:
			v, n, err := consumeVarint(b)
			c.IntWidth = IntWidth(v)
			return n, err
		case ctFieldIntUnsigned:
			v, n, err := consumeVarint(b)
			c.IntUnsigned = v != 0
			return n, err
		case ctFieldFloatWidth:
			v, n, err := consumeVarint(b)
			c.FloatWidth = FloatWidth(v)
			return n, err
		case ctFieldDecimalPrec:
			v, n, err := consumeVarint(b)
			c.DecimalPrecision = int(v)
			return n, err
		case ctFieldDecimalScale:
			v, n, err := consumeVarint(b)
			c.DecimalScale = int(v)
			return n, err
		case ctFieldEnumValues:
			v, n, err := consumeString(b)
			c.EnumValues = append(c.EnumValues, v)
			return n, err
		case ctFieldElementType:
			raw, n, err := consumeBytes(b)
			if err != nil {
				return n, err
			}
			elem, err := unmarshalColumnType(raw)
			c.ElementType = &elem
			return n, err
		case ctFieldElementNullable:
			v, n, err := consumeVarint(b)
			c.ElementNullable = v != 0
			return n, err
		case ctFieldNestedColumns:
			raw, n, err := consumeBytes(b)
			if err != nil {
				return n, err
			}
			nc, err := unmarshalColumn(raw)
			c.NestedColumns = append(c.NestedColumns, nc)
			return n, err
		case ctFieldMapKeyType:
			raw, n, err := consumeBytes(b)
			if err != nil {
				return n, err
			}
			key, err := unmarshalColumnType(raw)
			c.MapKeyType = &key
			return n, err
		case ctFieldMapValueType:
			raw, n, err := consumeBytes(b)
			if err != nil {
				return n, err
			}
			value, err := unmarshalColumnType(raw)
			c.MapValueType = &value
			return n, err
		case ctFieldFixedStrLen:
			v, n, err := consumeVarint(b)
			c.FixedStringLength = int(v)
			return n, err
		default:
			return skipUnknown(typ, b)
		}
	})
	return c, err
}

// --- Column ---

const (
	colFieldName          fieldNum = 1
	colFieldDataType      fieldNum = 2
	colFieldRequired      fieldNum = 3
	colFieldUnique        fieldNum = 4
	colFieldPrimaryKey    fieldNum = 5
	colFieldDefaultValue  fieldNum = 6
	colFieldComment       fieldNum = 7
	colFieldAnnotationTag fieldNum = 8
)

func (c Column) marshal() []byte {
	var b []byte
	b = appendStringField(b, colFieldName, c.Name)
	b = appendSubmessageField(b, colFieldDataType, c.DataType.marshal())
	b = appendBoolField(b, colFieldRequired, c.Required)
	b = appendBoolField(b, colFieldUnique, c.Unique)
	b = appendBoolField(b, colFieldPrimaryKey, c.PrimaryKey)
	b = appendStringField(b, colFieldDefaultValue, c.DefaultValue)
	b = appendStringField(b, colFieldComment, c.Comment)
	b = appendStringField(b, colFieldAnnotationTag, c.AnnotationTag)
	return b
}

func unmarshalColumn(msg []byte) (Column, error) {
	var c Column
	err := consumeFields(msg, func(num fieldNum, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case colFieldName:
			v, n, err := consumeString(b)
			c.Name = v
			return n, err
		case colFieldDataType:
			raw, n, err := consumeBytes(b)
			if err != nil {
				return n, err
			}
			dt, err := unmarshalColumnType(raw)
			c.DataType = dt
			return n, err
		case colFieldRequired:
			v, n, err := consumeVarint(b)
			c.Required = v != 0
			return n, err
		case colFieldUnique:
			v, n, err := consumeVarint(b)
			c.Unique = v != 0
			return n, err
		case colFieldPrimaryKey:
			v, n, err := consumeVarint(b)
			c.PrimaryKey = v != 0
			return n, err
		case colFieldDefaultValue:
			v, n, err := consumeString(b)
			c.DefaultValue = v
			return n, err
		case colFieldComment:
			v, n, err := consumeString(b)
			c.Comment = v
			return n, err
		case colFieldAnnotationTag:
			v, n, err := consumeString(b)
			c.AnnotationTag = v
			return n, err
		default:
			return skipUnknown(typ, b)
		}
	})
	return c, err
}

// --- Engine ---

const (
	engFieldFamily     fieldNum = 1
	engFieldReplicated fieldNum = 2
	engFieldParamKey   fieldNum = 3
	engFieldParamValue fieldNum = 4
)

func (e Engine) marshal() []byte {
	var b []byte
	b = appendStringField(b, engFieldFamily, string(e.Family))
	b = appendBoolField(b, engFieldReplicated, e.Replicated)
	for _, k := range sortedKeys(e.Params) {
		b = appendStringField(b, engFieldParamKey, k)
		b = appendStringField(b, engFieldParamValue, e.Params[k])
	}
	return b
}

func unmarshalEngine(msg []byte) (Engine, error) {
	e := Engine{Params: map[string]string{}}
	var pendingKey string
	haveKey := false
	err := consumeFields(msg, func(num fieldNum, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case engFieldFamily:
			v, n, err := consumeString(b)
			e.Family = EngineFamily(v)
			return n, err
		case engFieldReplicated:
			v, n, err := consumeVarint(b)
			e.Replicated = v != 0
			return n, err
		case engFieldParamKey:
			v, n, err := consumeString(b)
			pendingKey, haveKey = v, true
			return n, err
		case engFieldParamValue:
			v, n, err := consumeString(b)
			if haveKey {
				e.Params[pendingKey] = v
				haveKey = false
			}
			return n, err
		default:
			return skipUnknown(typ, b)
		}
	})
	return e, err
}

func msToDuration(ms uint64) time.Duration {
	return time.Duration(ms) * time.Millisecond
}

func skipUnknown(typ protowire.Type, b []byte) (int, error) {
	n := protowire.ConsumeFieldValue(0, typ, b)
	if n < 0 {
		return 0, fmt.Errorf("inframap: invalid unknown field: %w", protowire.ParseError(n))
	}
	return n, nil
}
