// Package classifier maps host data types to Cassandra validation classes.
//
// Two modes exist. Thrift mode uses the legacy classes; CQL3 mode remaps
// byte and short to Int32Type and the date family to TimestampType. The
// tables are built once and never written afterwards, so lookups in either
// mode are safe from any number of goroutines.
package classifier

import (
	"errors"
	"fmt"

	"cassmapper/pkg/marshal"
)

// HostType tags a data type of the calling application.
type HostType string

const (
	String     HostType = "string"
	Char       HostType = "char"
	Int32      HostType = "int32"
	Short      HostType = "short"
	Byte       HostType = "byte"
	Long       HostType = "long"
	Float      HostType = "float"
	Double     HostType = "double"
	Boolean    HostType = "boolean"
	BigDecimal HostType = "bigdecimal"
	BigInteger HostType = "biginteger"
	UUID       HostType = "uuid"
	Date       HostType = "date"
	Time       HostType = "time"
	Timestamp  HostType = "timestamp"
	SQLDate    HostType = "sqldate"
	Calendar   HostType = "calendar"
	List       HostType = "list"
	Set        HostType = "set"
	Map        HostType = "map"
)

var ErrMissingElementType = errors.New("missing element type")

var thriftClasses = map[HostType]marshal.Type{
	String:     marshal.UTF8,
	Char:       marshal.UTF8,
	Time:       marshal.Date,
	Int32:      marshal.Int32,
	Timestamp:  marshal.Date,
	Short:      marshal.Integer,
	BigDecimal: marshal.Decimal,
	SQLDate:    marshal.Date,
	Date:       marshal.Date,
	BigInteger: marshal.Integer,
	Double:     marshal.Double,
	Boolean:    marshal.Boolean,
	Long:       marshal.Long,
	Byte:       marshal.Bytes,
	Float:      marshal.Float,
	UUID:       marshal.UUID,
	Calendar:   marshal.Date,
	List:       marshal.List,
	Set:        marshal.Set,
	Map:        marshal.Map,
}

// consulted before thriftClasses in CQL3 mode
var cql3Overrides = map[HostType]marshal.Type{
	Byte:      marshal.Int32,
	Short:     marshal.Int32,
	Time:      marshal.Timestamp,
	SQLDate:   marshal.Timestamp,
	Date:      marshal.Timestamp,
	Timestamp: marshal.Timestamp,
}

var replicationStrategies = []string{
	"org.apache.cassandra.locator.SimpleStrategy",
	"org.apache.cassandra.locator.NetworkTopologyStrategy",
}

var validatorsAndComparators = []string{
	marshal.Bytes.Name(),
	marshal.Ascii.Name(),
	marshal.UTF8.Name(),
	marshal.Int32.Name(),
	marshal.Integer.Name(),
	marshal.Long.Name(),
	marshal.UUID.Name(),
	marshal.Date.Name(),
	marshal.Boolean.Name(),
	marshal.Float.Name(),
	marshal.Double.Name(),
	marshal.Decimal.Name(),
	marshal.Counter.Name(),
}

// ValidationClass resolves host to its validation class. Unknown host types
// resolve to BytesType. Containers come back without element types; use
// ValueTypeName to get the parameterized descriptor.
func ValidationClass(host HostType, cql3 bool) marshal.Type {
	if cql3 {
		if t, ok := cql3Overrides[host]; ok {
			return t
		}
	}
	if t, ok := thriftClasses[host]; ok {
		return t
	}
	return marshal.Bytes
}

// ValidationClassName is ValidationClass without the package, e.g. "Int32Type".
func ValidationClassName(host HostType, cql3 bool) string {
	return ValidationClass(host, cql3).Name()
}

// ValueTypeName returns the canonical descriptor for host. For list and set
// elems holds the element type, for map the key and value types; extra
// entries are ignored.
func ValueTypeName(host HostType, elems []HostType, cql3 bool) (string, error) {
	t, err := valueType(host, elems, cql3)
	if err != nil {
		return "", err
	}
	return t.String(), nil
}

func valueType(host HostType, elems []HostType, cql3 bool) (marshal.Type, error) {
	class := ValidationClass(host, cql3)

	switch class.(type) {
	case *marshal.ListType, *marshal.SetType:
		if len(elems) < 1 {
			return nil, fmt.Errorf("%w: %s needs an element type", ErrMissingElementType, host)
		}
		elem, err := elementType(elems[0], cql3)
		if err != nil {
			return nil, err
		}
		if _, ok := class.(*marshal.ListType); ok {
			return marshal.NewList(elem), nil
		}
		return marshal.NewSet(elem), nil
	case *marshal.MapType:
		if len(elems) < 2 {
			return nil, fmt.Errorf("%w: %s needs key and value types", ErrMissingElementType, host)
		}
		key, err := elementType(elems[0], cql3)
		if err != nil {
			return nil, err
		}
		value, err := elementType(elems[1], cql3)
		if err != nil {
			return nil, err
		}
		return marshal.NewMap(key, value), nil
	}
	return class, nil
}

// elementType parses the element's class name, so a nested container yields a
// bare "ListType" that the grammar rejects.
func elementType(host HostType, cql3 bool) (marshal.Type, error) {
	t, err := marshal.Parse(ValidationClassName(host, cql3))
	if err != nil {
		return nil, fmt.Errorf("element type %s: %w", host, err)
	}
	return t, nil
}

// ReplicationStrategies returns the recognized replication strategy classes.
func ReplicationStrategies() []string {
	return append([]string(nil), replicationStrategies...)
}

// ValidatorsAndComparators returns the class names accepted as column
// validators and comparators.
func ValidatorsAndComparators() []string {
	return append([]string(nil), validatorsAndComparators...)
}
