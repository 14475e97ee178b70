package marshal

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/datastax/go-cassandra-native-protocol/datatype"
	"github.com/gocql/gocql"
)

const Package = "org.apache.cassandra.db.marshal."

// Type is a parsed validation class descriptor.
type Type interface {
	// Name is the class name without package, e.g. "ListType".
	Name() string
	// Class is the fully qualified class name.
	Class() string
	// String is the canonical descriptor, parameters included.
	String() string
	// CQL is the type as rendered in system_schema.
	CQL() string
	// Size is the fixed value length in bytes, 0 when variable.
	Size() uint64
	TypeInfo(proto byte) gocql.TypeInfo
	DataType() datatype.DataType
}

type NativeType struct {
	name   string
	cql    string
	size   uint64
	typ    gocql.Type
	dt     datatype.DataType
	custom bool
}

func (n *NativeType) Name() string                { return n.name }
func (n *NativeType) Class() string               { return Package + n.name }
func (n *NativeType) String() string              { return n.Class() }
func (n *NativeType) CQL() string                 { return n.cql }
func (n *NativeType) Size() uint64                { return n.size }
func (n *NativeType) DataType() datatype.DataType { return n.dt }

func (n *NativeType) TypeInfo(proto byte) gocql.TypeInfo {
	if n.custom {
		return gocql.NewNativeType(proto, gocql.TypeCustom, n.Class())
	}
	return gocql.NewNativeType(proto, n.typ, "")
}

// customNative is a class with no CQL type of its own; CQL renders it as the
// quoted class name.
func customNative(name string, size uint64) *NativeType {
	return &NativeType{
		name:   name,
		cql:    "'" + Package + name + "'",
		size:   size,
		typ:    gocql.TypeCustom,
		dt:     datatype.NewCustomType(Package + name),
		custom: true,
	}
}

var (
	Bytes      = &NativeType{name: "BytesType", cql: "blob", typ: gocql.TypeBlob, dt: datatype.Blob}
	Ascii      = &NativeType{name: "AsciiType", cql: "ascii", typ: gocql.TypeAscii, dt: datatype.Ascii}
	UTF8       = &NativeType{name: "UTF8Type", cql: "text", typ: gocql.TypeVarchar, dt: datatype.Varchar}
	Int32      = &NativeType{name: "Int32Type", cql: "int", size: 4, typ: gocql.TypeInt, dt: datatype.Int}
	Integer    = &NativeType{name: "IntegerType", cql: "varint", typ: gocql.TypeVarint, dt: datatype.Varint}
	Long       = &NativeType{name: "LongType", cql: "bigint", size: 8, typ: gocql.TypeBigInt, dt: datatype.Bigint}
	UUID       = &NativeType{name: "UUIDType", cql: "uuid", size: 16, typ: gocql.TypeUUID, dt: datatype.Uuid}
	TimeUUID   = &NativeType{name: "TimeUUIDType", cql: "timeuuid", size: 16, typ: gocql.TypeTimeUUID, dt: datatype.Timeuuid}
	Date       = &NativeType{name: "DateType", cql: "timestamp", size: 8, typ: gocql.TypeTimestamp, dt: datatype.Timestamp}
	Timestamp  = &NativeType{name: "TimestampType", cql: "timestamp", size: 8, typ: gocql.TypeTimestamp, dt: datatype.Timestamp}
	Boolean    = &NativeType{name: "BooleanType", cql: "boolean", size: 1, typ: gocql.TypeBoolean, dt: datatype.Boolean}
	Float      = &NativeType{name: "FloatType", cql: "float", size: 4, typ: gocql.TypeFloat, dt: datatype.Float}
	Double     = &NativeType{name: "DoubleType", cql: "double", size: 8, typ: gocql.TypeDouble, dt: datatype.Double}
	Decimal    = &NativeType{name: "DecimalType", cql: "decimal", typ: gocql.TypeDecimal, dt: datatype.Decimal}
	Counter    = &NativeType{name: "CounterColumnType", cql: "counter", size: 8, typ: gocql.TypeCounter, dt: datatype.Counter}
	Inet       = &NativeType{name: "InetAddressType", cql: "inet", typ: gocql.TypeInet, dt: datatype.Inet}
	Short      = &NativeType{name: "ShortType", cql: "smallint", size: 2, typ: gocql.TypeSmallInt, dt: datatype.Smallint}
	Byte       = &NativeType{name: "ByteType", cql: "tinyint", size: 1, typ: gocql.TypeTinyInt, dt: datatype.Tinyint}
	SimpleDate = &NativeType{name: "SimpleDateType", cql: "date", size: 4, typ: gocql.TypeDate, dt: datatype.Date}
	Time       = &NativeType{name: "TimeType", cql: "time", size: 8, typ: gocql.TypeTime, dt: datatype.Time}
	Duration   = &NativeType{name: "DurationType", cql: "duration", typ: gocql.TypeDuration, dt: datatype.Duration}

	LexicalUUID = customNative("LexicalUUIDType", 16)
	Empty       = customNative("EmptyType", 0)
)

var natives = map[string]*NativeType{}

func init() {
	for _, n := range []*NativeType{
		Bytes, Ascii, UTF8, Int32, Integer, Long, UUID, TimeUUID, Date, Timestamp,
		Boolean, Float, Double, Decimal, Counter, Inet, Short, Byte, SimpleDate, Time,
		Duration, LexicalUUID, Empty,
	} {
		natives[n.name] = n
	}
}

// Native returns the non-parameterized class registered under name, short or
// qualified.
func Native(name string) (*NativeType, bool) {
	n, ok := natives[strings.TrimPrefix(name, Package)]
	return n, ok
}

// Bare container classes, as named by a validation class lookup before the
// element types are known. String renders them without parameters.
var (
	List = &ListType{}
	Set  = &SetType{}
	Map  = &MapType{}
)

type ListType struct {
	Elem Type
}

func NewList(elem Type) *ListType { return &ListType{Elem: elem} }

func (l *ListType) Name() string   { return "ListType" }
func (l *ListType) Class() string  { return Package + l.Name() }
func (l *ListType) String() string { return params(l.Class(), l.Elem) }
func (l *ListType) CQL() string    { return collection("list", l.Elem) }
func (l *ListType) Size() uint64   { return 0 }

func (l *ListType) TypeInfo(proto byte) gocql.TypeInfo {
	return gocql.CollectionType{
		NativeType: gocql.NewNativeType(proto, gocql.TypeList, ""),
		Elem:       typeInfo(l.Elem, proto),
	}
}

func (l *ListType) DataType() datatype.DataType {
	return datatype.NewListType(dataType(l.Elem))
}

type SetType struct {
	Elem Type
}

func NewSet(elem Type) *SetType { return &SetType{Elem: elem} }

func (s *SetType) Name() string   { return "SetType" }
func (s *SetType) Class() string  { return Package + s.Name() }
func (s *SetType) String() string { return params(s.Class(), s.Elem) }
func (s *SetType) CQL() string    { return collection("set", s.Elem) }
func (s *SetType) Size() uint64   { return 0 }

func (s *SetType) TypeInfo(proto byte) gocql.TypeInfo {
	return gocql.CollectionType{
		NativeType: gocql.NewNativeType(proto, gocql.TypeSet, ""),
		Elem:       typeInfo(s.Elem, proto),
	}
}

func (s *SetType) DataType() datatype.DataType {
	return datatype.NewSetType(dataType(s.Elem))
}

type MapType struct {
	Key   Type
	Value Type
}

func NewMap(key, value Type) *MapType { return &MapType{Key: key, Value: value} }

func (m *MapType) Name() string   { return "MapType" }
func (m *MapType) Class() string  { return Package + m.Name() }
func (m *MapType) String() string { return params(m.Class(), m.Key, m.Value) }
func (m *MapType) Size() uint64   { return 0 }

func (m *MapType) CQL() string {
	if m.Key == nil || m.Value == nil {
		return "map"
	}
	return fmt.Sprintf("map<%s, %s>", m.Key.CQL(), m.Value.CQL())
}

func (m *MapType) TypeInfo(proto byte) gocql.TypeInfo {
	return gocql.CollectionType{
		NativeType: gocql.NewNativeType(proto, gocql.TypeMap, ""),
		Key:        typeInfo(m.Key, proto),
		Elem:       typeInfo(m.Value, proto),
	}
}

func (m *MapType) DataType() datatype.DataType {
	return datatype.NewMapType(dataType(m.Key), dataType(m.Value))
}

// FrozenType only changes the CQL rendering; the driver and protocol see the
// inner type.
type FrozenType struct {
	Inner Type
}

func (f *FrozenType) Name() string                       { return "FrozenType" }
func (f *FrozenType) Class() string                      { return Package + f.Name() }
func (f *FrozenType) String() string                     { return params(f.Class(), f.Inner) }
func (f *FrozenType) CQL() string                        { return "frozen<" + f.Inner.CQL() + ">" }
func (f *FrozenType) Size() uint64                       { return f.Inner.Size() }
func (f *FrozenType) TypeInfo(proto byte) gocql.TypeInfo { return f.Inner.TypeInfo(proto) }
func (f *FrozenType) DataType() datatype.DataType        { return f.Inner.DataType() }

// CompositeType describes a compound partition key; CQL renders the
// components in key order.
type CompositeType struct {
	Components []Type
}

func (c *CompositeType) Name() string   { return "CompositeType" }
func (c *CompositeType) Class() string  { return Package + c.Name() }
func (c *CompositeType) String() string { return params(c.Class(), c.Components...) }
func (c *CompositeType) Size() uint64   { return 0 }

func (c *CompositeType) CQL() string {
	cqls := make([]string, len(c.Components))
	for i, t := range c.Components {
		cqls[i] = t.CQL()
	}
	return strings.Join(cqls, ", ")
}

func (c *CompositeType) TypeInfo(proto byte) gocql.TypeInfo {
	return tupleInfo(proto, c.Components)
}

func (c *CompositeType) DataType() datatype.DataType {
	return tupleDataType(c.Components)
}

type TupleType struct {
	Elems []Type
}

func (t *TupleType) Name() string   { return "TupleType" }
func (t *TupleType) Class() string  { return Package + t.Name() }
func (t *TupleType) String() string { return params(t.Class(), t.Elems...) }
func (t *TupleType) Size() uint64   { return 0 }

func (t *TupleType) CQL() string {
	cqls := make([]string, len(t.Elems))
	for i, e := range t.Elems {
		cqls[i] = e.CQL()
	}
	return "tuple<" + strings.Join(cqls, ", ") + ">"
}

func (t *TupleType) TypeInfo(proto byte) gocql.TypeInfo { return tupleInfo(proto, t.Elems) }
func (t *TupleType) DataType() datatype.DataType        { return tupleDataType(t.Elems) }

type UserField struct {
	Name string
	Type Type
}

// UserType is a user defined type. In the descriptor the type and field
// names are hex encoded: UserType(ks,61646472657373,73747265657473:UTF8Type).
type UserType struct {
	Keyspace string
	TypeName string
	Fields   []UserField
}

func (u *UserType) Name() string  { return "UserType" }
func (u *UserType) Class() string { return Package + u.Name() }
func (u *UserType) CQL() string   { return u.TypeName }
func (u *UserType) Size() uint64  { return 0 }

func (u *UserType) String() string {
	var sb strings.Builder
	sb.WriteString(u.Class())
	sb.WriteByte('(')
	sb.WriteString(u.Keyspace)
	sb.WriteByte(',')
	sb.WriteString(hex.EncodeToString([]byte(u.TypeName)))
	for _, f := range u.Fields {
		sb.WriteByte(',')
		sb.WriteString(hex.EncodeToString([]byte(f.Name)))
		sb.WriteByte(':')
		sb.WriteString(f.Type.String())
	}
	sb.WriteByte(')')
	return sb.String()
}

func (u *UserType) TypeInfo(proto byte) gocql.TypeInfo {
	elems := make([]gocql.UDTField, len(u.Fields))
	for i, f := range u.Fields {
		elems[i] = gocql.UDTField{Name: f.Name, Type: f.Type.TypeInfo(proto)}
	}
	return gocql.UDTTypeInfo{
		NativeType: gocql.NewNativeType(proto, gocql.TypeUDT, ""),
		KeySpace:   u.Keyspace,
		Name:       u.TypeName,
		Elements:   elems,
	}
}

func (u *UserType) DataType() datatype.DataType {
	names := make([]string, len(u.Fields))
	types := make([]datatype.DataType, len(u.Fields))
	for i, f := range u.Fields {
		names[i] = f.Name
		types[i] = f.Type.DataType()
	}
	// lengths always match, the only failure NewUserDefinedType reports
	dt, _ := datatype.NewUserDefinedType(u.Keyspace, u.TypeName, names, types)
	return dt
}

// ReversedType marks a clustering column with descending order.
type ReversedType struct {
	Inner Type
}

func (r *ReversedType) Name() string                       { return "ReversedType" }
func (r *ReversedType) Class() string                      { return Package + r.Name() }
func (r *ReversedType) String() string                     { return params(r.Class(), r.Inner) }
func (r *ReversedType) CQL() string                        { return r.Inner.CQL() }
func (r *ReversedType) Size() uint64                       { return r.Inner.Size() }
func (r *ReversedType) TypeInfo(proto byte) gocql.TypeInfo { return r.Inner.TypeInfo(proto) }
func (r *ReversedType) DataType() datatype.DataType        { return r.Inner.DataType() }

func params(class string, ts ...Type) string {
	for _, t := range ts {
		if t == nil {
			return class
		}
	}

	var sb strings.Builder
	sb.WriteString(class)
	sb.WriteByte('(')
	for i, t := range ts {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(t.String())
	}
	sb.WriteByte(')')
	return sb.String()
}

func collection(kind string, elem Type) string {
	if elem == nil {
		return kind
	}
	return kind + "<" + elem.CQL() + ">"
}

func typeInfo(t Type, proto byte) gocql.TypeInfo {
	if t == nil {
		return nil
	}
	return t.TypeInfo(proto)
}

func dataType(t Type) datatype.DataType {
	if t == nil {
		return nil
	}
	return t.DataType()
}

func tupleInfo(proto byte, ts []Type) gocql.TypeInfo {
	elems := make([]gocql.TypeInfo, len(ts))
	for i, t := range ts {
		elems[i] = t.TypeInfo(proto)
	}
	return gocql.TupleTypeInfo{
		NativeType: gocql.NewNativeType(proto, gocql.TypeTuple, ""),
		Elems:      elems,
	}
}

func tupleDataType(ts []Type) datatype.DataType {
	dts := make([]datatype.DataType, len(ts))
	for i, t := range ts {
		dts[i] = t.DataType()
	}
	return datatype.NewTupleType(dts...)
}
