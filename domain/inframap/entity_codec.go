package inframap

import "google.golang.org/protobuf/encoding/protowire"

// --- Table ---

const (
	tblFieldID                  fieldNum = 1
	tblFieldName                fieldNum = 2
	tblFieldDatabase            fieldNum = 3
	tblFieldColumns             fieldNum = 4
	tblFieldEngine              fieldNum = 5
	tblFieldOrderBy             fieldNum = 6
	tblFieldPartitionBy         fieldNum = 7
	tblFieldLifecycle           fieldNum = 8
	tblFieldPullsDataFrom       fieldNum = 9
	tblFieldSampleBy            fieldNum = 10
	tblFieldPrimaryKeyExpr      fieldNum = 11
	tblFieldVersion             fieldNum = 12
	tblFieldTTL                 fieldNum = 13
	tblFieldClusterName         fieldNum = 14
	tblFieldSettingKey          fieldNum = 15
	tblFieldSettingValue        fieldNum = 16
	tblFieldIndexes             fieldNum = 17
	tblFieldDescription         fieldNum = 18
	tblFieldSourceFile          fieldNum = 19
	tblFieldSourcePrimitiveSig  fieldNum = 20
)

const (
	tiFieldName        fieldNum = 1
	tiFieldExpression  fieldNum = 2
	tiFieldType        fieldNum = 3
	tiFieldGranularity fieldNum = 4
)

func (i TableIndex) marshal() []byte {
	var b []byte
	b = appendStringField(b, tiFieldName, i.Name)
	b = appendStringField(b, tiFieldExpression, i.Expression)
	b = appendStringField(b, tiFieldType, i.Type)
	b = appendVarintField(b, tiFieldGranularity, uint64(i.Granularity))
	return b
}

func unmarshalTableIndex(msg []byte) (TableIndex, error) {
	var i TableIndex
	err := consumeFields(msg, func(num fieldNum, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case tiFieldName:
			v, n, err := consumeString(b)
			i.Name = v
			return n, err
		case tiFieldExpression:
			v, n, err := consumeString(b)
			i.Expression = v
			return n, err
		case tiFieldType:
			v, n, err := consumeString(b)
			i.Type = v
			return n, err
		case tiFieldGranularity:
			v, n, err := consumeVarint(b)
			i.Granularity = uint32(v)
			return n, err
		default:
			return skipUnknown(typ, b)
		}
	})
	return i, err
}

func (t Table) marshal() []byte {
	var b []byte
	b = appendStringField(b, tblFieldID, t.ID)
	b = appendStringField(b, tblFieldName, t.Name)
	b = appendStringField(b, tblFieldDatabase, t.Database)
	for _, c := range t.Columns {
		b = appendSubmessageField(b, tblFieldColumns, c.marshal())
	}
	b = appendSubmessageField(b, tblFieldEngine, t.Engine.marshal())
	b = appendRepeatedStrings(b, tblFieldOrderBy, t.OrderBy)
	b = appendRepeatedStrings(b, tblFieldPartitionBy, t.PartitionBy)
	b = appendVarintField(b, tblFieldLifecycle, lifecycleToWire(t.Lifecycle))
	b = appendRepeatedStrings(b, tblFieldPullsDataFrom, t.PullsDataFrom)
	b = appendRepeatedStrings(b, tblFieldSampleBy, t.SampleBy)
	b = appendStringField(b, tblFieldPrimaryKeyExpr, t.PrimaryKeyExpression)
	b = appendStringField(b, tblFieldVersion, t.Version)
	b = appendStringField(b, tblFieldTTL, t.TTL)
	b = appendStringField(b, tblFieldClusterName, t.ClusterName)
	for _, k := range sortedKeys(t.TableSettings) {
		b = appendStringField(b, tblFieldSettingKey, k)
		b = appendStringField(b, tblFieldSettingValue, t.TableSettings[k])
	}
	for _, idx := range t.Indexes {
		b = appendSubmessageField(b, tblFieldIndexes, idx.marshal())
	}
	b = appendStringField(b, tblFieldDescription, t.Description)
	b = appendStringField(b, tblFieldSourceFile, t.SourceFile)
	b = appendStringField(b, tblFieldSourcePrimitiveSig, t.SourcePrimitiveSignature)
	return b
}

func unmarshalTable(msg []byte) (Table, error) {
	var t Table
	var pendingSettingKey string
	haveSettingKey := false
	err := consumeFields(msg, func(num fieldNum, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case tblFieldID:
			v, n, err := consumeString(b)
			t.ID = v
			return n, err
		case tblFieldName:
			v, n, err := consumeString(b)
			t.Name = v
			return n, err
		case tblFieldDatabase:
			v, n, err := consumeString(b)
			t.Database = v
			return n, err
		case tblFieldColumns:
			raw, n, err := consumeBytes(b)
			if err != nil {
				return n, err
			}
			c, err := unmarshalColumn(raw)
			t.Columns = append(t.Columns, c)
			return n, err
		case tblFieldEngine:
			raw, n, err := consumeBytes(b)
			if err != nil {
				return n, err
			}
			e, err := unmarshalEngine(raw)
			t.Engine = e
			return n, err
		case tblFieldOrderBy:
			v, n, err := consumeString(b)
			t.OrderBy = append(t.OrderBy, v)
			return n, err
		case tblFieldPartitionBy:
			v, n, err := consumeString(b)
			t.PartitionBy = append(t.PartitionBy, v)
			return n, err
		case tblFieldLifecycle:
			v, n, err := consumeVarint(b)
			t.Lifecycle = lifecycleFromWire(v)
			return n, err
		case tblFieldPullsDataFrom:
			v, n, err := consumeString(b)
			t.PullsDataFrom = append(t.PullsDataFrom, v)
			return n, err
		case tblFieldSampleBy:
			v, n, err := consumeString(b)
			t.SampleBy = append(t.SampleBy, v)
			return n, err
		case tblFieldPrimaryKeyExpr:
			v, n, err := consumeString(b)
			t.PrimaryKeyExpression = v
			return n, err
		case tblFieldVersion:
			v, n, err := consumeString(b)
			t.Version = v
			return n, err
		case tblFieldTTL:
			v, n, err := consumeString(b)
			t.TTL = v
			return n, err
		case tblFieldClusterName:
			v, n, err := consumeString(b)
			t.ClusterName = v
			return n, err
		case tblFieldSettingKey:
			v, n, err := consumeString(b)
			pendingSettingKey, haveSettingKey = v, true
			return n, err
		case tblFieldSettingValue:
			v, n, err := consumeString(b)
			if haveSettingKey {
				if t.TableSettings == nil {
					t.TableSettings = map[string]string{}
				}
				t.TableSettings[pendingSettingKey] = v
				haveSettingKey = false
			}
			return n, err
		case tblFieldIndexes:
			raw, n, err := consumeBytes(b)
			if err != nil {
				return n, err
			}
			idx, err := unmarshalTableIndex(raw)
			t.Indexes = append(t.Indexes, idx)
			return n, err
		case tblFieldDescription:
			v, n, err := consumeString(b)
			t.Description = v
			return n, err
		case tblFieldSourceFile:
			v, n, err := consumeString(b)
			t.SourceFile = v
			return n, err
		case tblFieldSourcePrimitiveSig:
			v, n, err := consumeString(b)
			t.SourcePrimitiveSignature = v
			return n, err
		default:
			return skipUnknown(typ, b)
		}
	})
	return t, err
}

// --- Topic ---

const (
	topFieldID               fieldNum = 1
	topFieldName             fieldNum = 2
	topFieldNamespace        fieldNum = 3
	topFieldColumns          fieldNum = 4
	topFieldPartitionCount   fieldNum = 5
	topFieldRetentionSeconds fieldNum = 6
	topFieldLifecycle        fieldNum = 7
)

func (t Topic) marshal() []byte {
	var b []byte
	b = appendStringField(b, topFieldID, t.ID)
	b = appendStringField(b, topFieldName, t.Name)
	b = appendStringField(b, topFieldNamespace, t.Namespace)
	for _, c := range t.Columns {
		b = appendSubmessageField(b, topFieldColumns, c.marshal())
	}
	b = appendVarintField(b, topFieldPartitionCount, uint64(t.PartitionCount))
	b = appendVarintField(b, topFieldRetentionSeconds, uint64(t.RetentionSeconds))
	b = appendVarintField(b, topFieldLifecycle, lifecycleToWire(t.Lifecycle))
	return b
}

func unmarshalTopic(msg []byte) (Topic, error) {
	var t Topic
	err := consumeFields(msg, func(num fieldNum, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case topFieldID:
			v, n, err := consumeString(b)
			t.ID = v
			return n, err
		case topFieldName:
			v, n, err := consumeString(b)
			t.Name = v
			return n, err
		case topFieldNamespace:
			v, n, err := consumeString(b)
			t.Namespace = v
			return n, err
		case topFieldColumns:
			raw, n, err := consumeBytes(b)
			if err != nil {
				return n, err
			}
			c, err := unmarshalColumn(raw)
			t.Columns = append(t.Columns, c)
			return n, err
		case topFieldPartitionCount:
			v, n, err := consumeVarint(b)
			t.PartitionCount = int(v)
			return n, err
		case topFieldRetentionSeconds:
			v, n, err := consumeVarint(b)
			t.RetentionSeconds = int64(v)
			return n, err
		case topFieldLifecycle:
			v, n, err := consumeVarint(b)
			t.Lifecycle = lifecycleFromWire(v)
			return n, err
		default:
			return skipUnknown(typ, b)
		}
	})
	return t, err
}

// --- ApiEndpoint ---

const (
	apiFieldID            fieldNum = 1
	apiFieldPath          fieldNum = 2
	apiFieldDirection     fieldNum = 3
	apiFieldTargetTopicID fieldNum = 4
	apiFieldTargetTableID fieldNum = 5
	apiFieldLifecycle     fieldNum = 6
)

func (a ApiEndpoint) marshal() []byte {
	var b []byte
	b = appendStringField(b, apiFieldID, a.ID)
	b = appendStringField(b, apiFieldPath, a.Path)
	dir := uint64(0)
	if a.Direction == Egress {
		dir = 1
	}
	b = appendVarintField(b, apiFieldDirection, dir)
	b = appendStringField(b, apiFieldTargetTopicID, a.TargetTopicID)
	b = appendStringField(b, apiFieldTargetTableID, a.TargetTableID)
	b = appendVarintField(b, apiFieldLifecycle, lifecycleToWire(a.Lifecycle))
	return b
}

func unmarshalApiEndpoint(msg []byte) (ApiEndpoint, error) {
	var a ApiEndpoint
	a.Direction = Ingress
	err := consumeFields(msg, func(num fieldNum, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case apiFieldID:
			v, n, err := consumeString(b)
			a.ID = v
			return n, err
		case apiFieldPath:
			v, n, err := consumeString(b)
			a.Path = v
			return n, err
		case apiFieldDirection:
			v, n, err := consumeVarint(b)
			if v == 1 {
				a.Direction = Egress
			} else {
				a.Direction = Ingress
			}
			return n, err
		case apiFieldTargetTopicID:
			v, n, err := consumeString(b)
			a.TargetTopicID = v
			return n, err
		case apiFieldTargetTableID:
			v, n, err := consumeString(b)
			a.TargetTableID = v
			return n, err
		case apiFieldLifecycle:
			v, n, err := consumeVarint(b)
			a.Lifecycle = lifecycleFromWire(v)
			return n, err
		default:
			return skipUnknown(typ, b)
		}
	})
	return a, err
}

// --- View ---

const (
	viewFieldID        fieldNum = 1
	viewFieldName      fieldNum = 2
	viewFieldDatabase  fieldNum = 3
	viewFieldSelectSQL fieldNum = 4
	viewFieldColumns   fieldNum = 5
	viewFieldLifecycle fieldNum = 6
	viewFieldDependsOn fieldNum = 7
)

func (v View) marshal() []byte {
	var b []byte
	b = appendStringField(b, viewFieldID, v.ID)
	b = appendStringField(b, viewFieldName, v.Name)
	b = appendStringField(b, viewFieldDatabase, v.Database)
	b = appendStringField(b, viewFieldSelectSQL, v.SelectSQL)
	for _, c := range v.Columns {
		b = appendSubmessageField(b, viewFieldColumns, c.marshal())
	}
	b = appendVarintField(b, viewFieldLifecycle, lifecycleToWire(v.Lifecycle))
	b = appendRepeatedStrings(b, viewFieldDependsOn, v.DependsOn)
	return b
}

func unmarshalView(msg []byte) (View, error) {
	var v View
	err := consumeFields(msg, func(num fieldNum, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case viewFieldID:
			s, n, err := consumeString(b)
			v.ID = s
			return n, err
		case viewFieldName:
			s, n, err := consumeString(b)
			v.Name = s
			return n, err
		case viewFieldDatabase:
			s, n, err := consumeString(b)
			v.Database = s
			return n, err
		case viewFieldSelectSQL:
			s, n, err := consumeString(b)
			v.SelectSQL = s
			return n, err
		case viewFieldColumns:
			raw, n, err := consumeBytes(b)
			if err != nil {
				return n, err
			}
			c, err := unmarshalColumn(raw)
			v.Columns = append(v.Columns, c)
			return n, err
		case viewFieldLifecycle:
			x, n, err := consumeVarint(b)
			v.Lifecycle = lifecycleFromWire(x)
			return n, err
		case viewFieldDependsOn:
			s, n, err := consumeString(b)
			v.DependsOn = append(v.DependsOn, s)
			return n, err
		default:
			return skipUnknown(typ, b)
		}
	})
	return v, err
}

// --- MaterializedView ---

const (
	mvFieldID            fieldNum = 1
	mvFieldName          fieldNum = 2
	mvFieldDatabase      fieldNum = 3
	mvFieldSelectSQL     fieldNum = 4
	mvFieldSourceIDs     fieldNum = 5
	mvFieldTargetTableID fieldNum = 6
	mvFieldLifecycle     fieldNum = 7
	mvFieldPopulate      fieldNum = 8
)

func (m MaterializedView) marshal() []byte {
	var b []byte
	b = appendStringField(b, mvFieldID, m.ID)
	b = appendStringField(b, mvFieldName, m.Name)
	b = appendStringField(b, mvFieldDatabase, m.Database)
	b = appendStringField(b, mvFieldSelectSQL, m.SelectSQL)
	b = appendRepeatedStrings(b, mvFieldSourceIDs, m.SourceIDs)
	b = appendStringField(b, mvFieldTargetTableID, m.TargetTableID)
	b = appendVarintField(b, mvFieldLifecycle, lifecycleToWire(m.Lifecycle))
	b = appendStringField(b, mvFieldPopulate, string(m.Populate))
	return b
}

func unmarshalMaterializedView(msg []byte) (MaterializedView, error) {
	var m MaterializedView
	err := consumeFields(msg, func(num fieldNum, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case mvFieldID:
			s, n, err := consumeString(b)
			m.ID = s
			return n, err
		case mvFieldName:
			s, n, err := consumeString(b)
			m.Name = s
			return n, err
		case mvFieldDatabase:
			s, n, err := consumeString(b)
			m.Database = s
			return n, err
		case mvFieldSelectSQL:
			s, n, err := consumeString(b)
			m.SelectSQL = s
			return n, err
		case mvFieldSourceIDs:
			s, n, err := consumeString(b)
			m.SourceIDs = append(m.SourceIDs, s)
			return n, err
		case mvFieldTargetTableID:
			s, n, err := consumeString(b)
			m.TargetTableID = s
			return n, err
		case mvFieldLifecycle:
			x, n, err := consumeVarint(b)
			m.Lifecycle = lifecycleFromWire(x)
			return n, err
		case mvFieldPopulate:
			s, n, err := consumeString(b)
			m.Populate = PopulatePolicy(s)
			return n, err
		default:
			return skipUnknown(typ, b)
		}
	})
	return m, err
}

// --- CustomView ---

const (
	cvFieldID        fieldNum = 1
	cvFieldName      fieldNum = 2
	cvFieldDatabase  fieldNum = 3
	cvFieldRawSQL    fieldNum = 4
	cvFieldDependsOn fieldNum = 5
	cvFieldLifecycle fieldNum = 6
)

func (c CustomView) marshal() []byte {
	var b []byte
	b = appendStringField(b, cvFieldID, c.ID)
	b = appendStringField(b, cvFieldName, c.Name)
	b = appendStringField(b, cvFieldDatabase, c.Database)
	b = appendStringField(b, cvFieldRawSQL, c.RawSQL)
	b = appendRepeatedStrings(b, cvFieldDependsOn, c.DependsOn)
	b = appendVarintField(b, cvFieldLifecycle, lifecycleToWire(c.Lifecycle))
	return b
}

func unmarshalCustomView(msg []byte) (CustomView, error) {
	var c CustomView
	err := consumeFields(msg, func(num fieldNum, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case cvFieldID:
			s, n, err := consumeString(b)
			c.ID = s
			return n, err
		case cvFieldName:
			s, n, err := consumeString(b)
			c.Name = s
			return n, err
		case cvFieldDatabase:
			s, n, err := consumeString(b)
			c.Database = s
			return n, err
		case cvFieldRawSQL:
			s, n, err := consumeString(b)
			c.RawSQL = s
			return n, err
		case cvFieldDependsOn:
			s, n, err := consumeString(b)
			c.DependsOn = append(c.DependsOn, s)
			return n, err
		case cvFieldLifecycle:
			x, n, err := consumeVarint(b)
			c.Lifecycle = lifecycleFromWire(x)
			return n, err
		default:
			return skipUnknown(typ, b)
		}
	})
	return c, err
}

// --- SqlResource ---

const (
	sqlFieldID          fieldNum = 1
	sqlFieldName        fieldNum = 2
	sqlFieldSetupSQL    fieldNum = 3
	sqlFieldTeardownSQL fieldNum = 4
	sqlFieldDependsOn   fieldNum = 5
	sqlFieldLifecycle   fieldNum = 6
)

func (s SqlResource) marshal() []byte {
	var b []byte
	b = appendStringField(b, sqlFieldID, s.ID)
	b = appendStringField(b, sqlFieldName, s.Name)
	b = appendRepeatedStrings(b, sqlFieldSetupSQL, s.SetupSQL)
	b = appendRepeatedStrings(b, sqlFieldTeardownSQL, s.TeardownSQL)
	b = appendRepeatedStrings(b, sqlFieldDependsOn, s.DependsOn)
	b = appendVarintField(b, sqlFieldLifecycle, lifecycleToWire(s.Lifecycle))
	return b
}

func unmarshalSqlResource(msg []byte) (SqlResource, error) {
	var s SqlResource
	err := consumeFields(msg, func(num fieldNum, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case sqlFieldID:
			v, n, err := consumeString(b)
			s.ID = v
			return n, err
		case sqlFieldName:
			v, n, err := consumeString(b)
			s.Name = v
			return n, err
		case sqlFieldSetupSQL:
			v, n, err := consumeString(b)
			s.SetupSQL = append(s.SetupSQL, v)
			return n, err
		case sqlFieldTeardownSQL:
			v, n, err := consumeString(b)
			s.TeardownSQL = append(s.TeardownSQL, v)
			return n, err
		case sqlFieldDependsOn:
			v, n, err := consumeString(b)
			s.DependsOn = append(s.DependsOn, v)
			return n, err
		case sqlFieldLifecycle:
			x, n, err := consumeVarint(b)
			s.Lifecycle = lifecycleFromWire(x)
			return n, err
		default:
			return skipUnknown(typ, b)
		}
	})
	return s, err
}

// --- Workflow ---

const (
	wfFieldID            fieldNum = 1
	wfFieldName          fieldNum = 2
	wfFieldSchedule      fieldNum = 3
	wfFieldRetries       fieldNum = 4
	wfFieldTimeoutMillis fieldNum = 5
	wfFieldPullsDataFrom fieldNum = 6
	wfFieldPushesDataTo  fieldNum = 7
	wfFieldLifecycle     fieldNum = 8
)

func (w Workflow) marshal() []byte {
	var b []byte
	b = appendStringField(b, wfFieldID, w.ID)
	b = appendStringField(b, wfFieldName, w.Name)
	b = appendStringField(b, wfFieldSchedule, w.Config.Schedule)
	b = appendVarintField(b, wfFieldRetries, uint64(w.Config.Retries))
	b = appendVarintField(b, wfFieldTimeoutMillis, uint64(w.Config.Timeout.Milliseconds()))
	b = appendRepeatedStrings(b, wfFieldPullsDataFrom, w.PullsDataFrom)
	b = appendRepeatedStrings(b, wfFieldPushesDataTo, w.PushesDataTo)
	b = appendVarintField(b, wfFieldLifecycle, lifecycleToWire(w.Lifecycle))
	return b
}

func unmarshalWorkflow(msg []byte) (Workflow, error) {
	var w Workflow
	err := consumeFields(msg, func(num fieldNum, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case wfFieldID:
			v, n, err := consumeString(b)
			w.ID = v
			return n, err
		case wfFieldName:
			v, n, err := consumeString(b)
			w.Name = v
			return n, err
		case wfFieldSchedule:
			v, n, err := consumeString(b)
			w.Config.Schedule = v
			return n, err
		case wfFieldRetries:
			v, n, err := consumeVarint(b)
			w.Config.Retries = uint32(v)
			return n, err
		case wfFieldTimeoutMillis:
			v, n, err := consumeVarint(b)
			w.Config.Timeout = msToDuration(v)
			return n, err
		case wfFieldPullsDataFrom:
			v, n, err := consumeString(b)
			w.PullsDataFrom = append(w.PullsDataFrom, v)
			return n, err
		case wfFieldPushesDataTo:
			v, n, err := consumeString(b)
			w.PushesDataTo = append(w.PushesDataTo, v)
			return n, err
		case wfFieldLifecycle:
			x, n, err := consumeVarint(b)
			w.Lifecycle = lifecycleFromWire(x)
			return n, err
		default:
			return skipUnknown(typ, b)
		}
	})
	return w, err
}

// --- CdcSource ---

const (
	cdcFieldID         fieldNum = 1
	cdcFieldName       fieldNum = 2
	cdcFieldKind       fieldNum = 3
	cdcFieldConnection fieldNum = 4
	cdcFieldTables     fieldNum = 5
	cdcFieldLifecycle  fieldNum = 6
)

const (
	cdcTblFieldName        fieldNum = 1
	cdcTblFieldSourceTable fieldNum = 2
	cdcTblFieldPrimaryKey  fieldNum = 3
	cdcTblFieldStream      fieldNum = 4
	cdcTblFieldTable       fieldNum = 5
	cdcTblFieldSnapshot    fieldNum = 6
)

func (t CdcTable) marshal() []byte {
	var b []byte
	b = appendStringField(b, cdcTblFieldName, t.Name)
	b = appendStringField(b, cdcTblFieldSourceTable, t.SourceTable)
	b = appendRepeatedStrings(b, cdcTblFieldPrimaryKey, t.PrimaryKey)
	b = appendStringField(b, cdcTblFieldStream, t.Stream)
	b = appendStringField(b, cdcTblFieldTable, t.Table)
	b = appendStringField(b, cdcTblFieldSnapshot, t.SnapshotMode)
	return b
}

func unmarshalCdcTable(msg []byte) (CdcTable, error) {
	var t CdcTable
	err := consumeFields(msg, func(num fieldNum, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case cdcTblFieldName:
			v, n, err := consumeString(b)
			t.Name = v
			return n, err
		case cdcTblFieldSourceTable:
			v, n, err := consumeString(b)
			t.SourceTable = v
			return n, err
		case cdcTblFieldPrimaryKey:
			v, n, err := consumeString(b)
			t.PrimaryKey = append(t.PrimaryKey, v)
			return n, err
		case cdcTblFieldStream:
			v, n, err := consumeString(b)
			t.Stream = v
			return n, err
		case cdcTblFieldTable:
			v, n, err := consumeString(b)
			t.Table = v
			return n, err
		case cdcTblFieldSnapshot:
			v, n, err := consumeString(b)
			t.SnapshotMode = v
			return n, err
		default:
			return skipUnknown(typ, b)
		}
	})
	return t, err
}

func (c CdcSource) marshal() []byte {
	var b []byte
	b = appendStringField(b, cdcFieldID, c.ID)
	b = appendStringField(b, cdcFieldName, c.Name)
	b = appendStringField(b, cdcFieldKind, c.Kind)
	b = appendStringField(b, cdcFieldConnection, c.Connection)
	for _, t := range c.Tables {
		b = appendSubmessageField(b, cdcFieldTables, t.marshal())
	}
	b = appendVarintField(b, cdcFieldLifecycle, lifecycleToWire(c.Lifecycle))
	return b
}

func unmarshalCdcSource(msg []byte) (CdcSource, error) {
	var c CdcSource
	err := consumeFields(msg, func(num fieldNum, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case cdcFieldID:
			v, n, err := consumeString(b)
			c.ID = v
			return n, err
		case cdcFieldName:
			v, n, err := consumeString(b)
			c.Name = v
			return n, err
		case cdcFieldKind:
			v, n, err := consumeString(b)
			c.Kind = v
			return n, err
		case cdcFieldConnection:
			v, n, err := consumeString(b)
			c.Connection = v
			return n, err
		case cdcFieldTables:
			raw, n, err := consumeBytes(b)
			if err != nil {
				return n, err
			}
			t, err := unmarshalCdcTable(raw)
			c.Tables = append(c.Tables, t)
			return n, err
		case cdcFieldLifecycle:
			x, n, err := consumeVarint(b)
			c.Lifecycle = lifecycleFromWire(x)
			return n, err
		default:
			return skipUnknown(typ, b)
		}
	})
	return c, err
}

// --- WebApp ---

const (
	waFieldID            fieldNum = 1
	waFieldName          fieldNum = 2
	waFieldMountPath     fieldNum = 3
	waFieldDescription   fieldNum = 4
	waFieldPullsDataFrom fieldNum = 5
	waFieldPushesDataTo  fieldNum = 6
	waFieldLifecycle     fieldNum = 7
)

func (w WebApp) marshal() []byte {
	var b []byte
	b = appendStringField(b, waFieldID, w.ID)
	b = appendStringField(b, waFieldName, w.Name)
	b = appendStringField(b, waFieldMountPath, w.MountPath)
	b = appendStringField(b, waFieldDescription, w.Description)
	b = appendRepeatedStrings(b, waFieldPullsDataFrom, w.PullsDataFrom)
	b = appendRepeatedStrings(b, waFieldPushesDataTo, w.PushesDataTo)
	b = appendVarintField(b, waFieldLifecycle, lifecycleToWire(w.Lifecycle))
	return b
}

func unmarshalWebApp(msg []byte) (WebApp, error) {
	var w WebApp
	err := consumeFields(msg, func(num fieldNum, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case waFieldID:
			v, n, err := consumeString(b)
			w.ID = v
			return n, err
		case waFieldName:
			v, n, err := consumeString(b)
			w.Name = v
			return n, err
		case waFieldMountPath:
			v, n, err := consumeString(b)
			w.MountPath = v
			return n, err
		case waFieldDescription:
			v, n, err := consumeString(b)
			w.Description = v
			return n, err
		case waFieldPullsDataFrom:
			v, n, err := consumeString(b)
			w.PullsDataFrom = append(w.PullsDataFrom, v)
			return n, err
		case waFieldPushesDataTo:
			v, n, err := consumeString(b)
			w.PushesDataTo = append(w.PushesDataTo, v)
			return n, err
		case waFieldLifecycle:
			x, n, err := consumeVarint(b)
			w.Lifecycle = lifecycleFromWire(x)
			return n, err
		default:
			return skipUnknown(typ, b)
		}
	})
	return w, err
}

// --- process entities ---

const (
	fpFieldID            fieldNum = 1
	fpFieldName          fieldNum = 2
	fpFieldSourceTopicID fieldNum = 3
	fpFieldTargetTopicID fieldNum = 4
	fpFieldLifecycle     fieldNum = 5
)

func (f FunctionProcess) marshal() []byte {
	var b []byte
	b = appendStringField(b, fpFieldID, f.ID)
	b = appendStringField(b, fpFieldName, f.Name)
	b = appendStringField(b, fpFieldSourceTopicID, f.SourceTopicID)
	b = appendStringField(b, fpFieldTargetTopicID, f.TargetTopicID)
	b = appendVarintField(b, fpFieldLifecycle, lifecycleToWire(f.Lifecycle))
	return b
}

func unmarshalFunctionProcess(msg []byte) (FunctionProcess, error) {
	var f FunctionProcess
	err := consumeFields(msg, func(num fieldNum, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case fpFieldID:
			v, n, err := consumeString(b)
			f.ID = v
			return n, err
		case fpFieldName:
			v, n, err := consumeString(b)
			f.Name = v
			return n, err
		case fpFieldSourceTopicID:
			v, n, err := consumeString(b)
			f.SourceTopicID = v
			return n, err
		case fpFieldTargetTopicID:
			v, n, err := consumeString(b)
			f.TargetTopicID = v
			return n, err
		case fpFieldLifecycle:
			x, n, err := consumeVarint(b)
			f.Lifecycle = lifecycleFromWire(x)
			return n, err
		default:
			return skipUnknown(typ, b)
		}
	})
	return f, err
}

const (
	owFieldID        fieldNum = 1
	owFieldLanguage  fieldNum = 2
	owFieldLifecycle fieldNum = 3
)

func (o OrchestrationWorkerProcess) marshal() []byte {
	var b []byte
	b = appendStringField(b, owFieldID, o.ID)
	b = appendStringField(b, owFieldLanguage, o.Language)
	b = appendVarintField(b, owFieldLifecycle, lifecycleToWire(o.Lifecycle))
	return b
}

func unmarshalOrchestrationWorkerProcess(msg []byte) (OrchestrationWorkerProcess, error) {
	var o OrchestrationWorkerProcess
	err := consumeFields(msg, func(num fieldNum, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case owFieldID:
			v, n, err := consumeString(b)
			o.ID = v
			return n, err
		case owFieldLanguage:
			v, n, err := consumeString(b)
			o.Language = v
			return n, err
		case owFieldLifecycle:
			x, n, err := consumeVarint(b)
			o.Lifecycle = lifecycleFromWire(x)
			return n, err
		default:
			return skipUnknown(typ, b)
		}
	})
	return o, err
}

const (
	spFieldID            fieldNum = 1
	spFieldSourceTopicID fieldNum = 2
	spFieldTargetTableID fieldNum = 3
	spFieldLifecycle     fieldNum = 4
)

func (s SyncProcess) marshal() []byte {
	var b []byte
	b = appendStringField(b, spFieldID, s.ID)
	b = appendStringField(b, spFieldSourceTopicID, s.SourceTopicID)
	b = appendStringField(b, spFieldTargetTableID, s.TargetTableID)
	b = appendVarintField(b, spFieldLifecycle, lifecycleToWire(s.Lifecycle))
	return b
}

func unmarshalSyncProcess(msg []byte) (SyncProcess, error) {
	var s SyncProcess
	err := consumeFields(msg, func(num fieldNum, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case spFieldID:
			v, n, err := consumeString(b)
			s.ID = v
			return n, err
		case spFieldSourceTopicID:
			v, n, err := consumeString(b)
			s.SourceTopicID = v
			return n, err
		case spFieldTargetTableID:
			v, n, err := consumeString(b)
			s.TargetTableID = v
			return n, err
		case spFieldLifecycle:
			x, n, err := consumeVarint(b)
			s.Lifecycle = lifecycleFromWire(x)
			return n, err
		default:
			return skipUnknown(typ, b)
		}
	})
	return s, err
}
