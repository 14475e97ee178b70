package classifier

import (
	"math/big"
	"reflect"
	"time"

	"github.com/gocql/gocql"
	"github.com/google/uuid"
	"gopkg.in/inf.v0"
)

var (
	typeOfTime      = reflect.TypeOf(time.Time{})
	typeOfDuration  = reflect.TypeOf(time.Duration(0))
	typeOfGocqlUUID = reflect.TypeOf(gocql.UUID{})
	typeOfUUID      = reflect.TypeOf(uuid.UUID{})
	typeOfDec       = reflect.TypeOf(inf.Dec{})
	typeOfBigFloat  = reflect.TypeOf(big.Float{})
	typeOfBigInt    = reflect.TypeOf(big.Int{})
)

// HostTypeOf classifies a Go type. Pointers are followed. Types with no host
// counterpart return "", which ValidationClass resolves to BytesType.
func HostTypeOf(rt reflect.Type) HostType {
	for rt != nil && rt.Kind() == reflect.Pointer {
		rt = rt.Elem()
	}
	if rt == nil {
		return ""
	}

	switch rt {
	case typeOfTime:
		return Timestamp
	case typeOfDuration:
		return Time
	case typeOfGocqlUUID, typeOfUUID:
		return UUID
	case typeOfDec, typeOfBigFloat:
		return BigDecimal
	case typeOfBigInt:
		return BigInteger
	}

	switch rt.Kind() {
	case reflect.String:
		return String
	case reflect.Int32:
		return Int32
	case reflect.Int16, reflect.Uint16:
		return Short
	case reflect.Int8, reflect.Uint8:
		return Byte
	// int is 64 bits wide and uint32 overflows a signed int
	case reflect.Int, reflect.Int64, reflect.Uint, reflect.Uint32:
		return Long
	case reflect.Uint64:
		return BigInteger
	case reflect.Float32:
		return Float
	case reflect.Float64:
		return Double
	case reflect.Bool:
		return Boolean
	case reflect.Map:
		if isSetValue(rt.Elem()) {
			return Set
		}
		return Map
	case reflect.Slice, reflect.Array:
		// raw bytes stay opaque
		if rt.Elem().Kind() == reflect.Uint8 {
			return ""
		}
		return List
	}
	return ""
}

// ElementHostTypes returns the element type of a list or set, or the key and
// value types of a map. Other types have no elements.
func ElementHostTypes(rt reflect.Type) []HostType {
	for rt != nil && rt.Kind() == reflect.Pointer {
		rt = rt.Elem()
	}
	switch HostTypeOf(rt) {
	case List:
		return []HostType{HostTypeOf(rt.Elem())}
	case Set:
		return []HostType{HostTypeOf(rt.Key())}
	case Map:
		return []HostType{HostTypeOf(rt.Key()), HostTypeOf(rt.Elem())}
	}
	return nil
}

// ValueTypeNameOf is ValueTypeName for a Go type.
func ValueTypeNameOf(rt reflect.Type, cql3 bool) (string, error) {
	return ValueTypeName(HostTypeOf(rt), ElementHostTypes(rt), cql3)
}

// the driver writes a set only from a slice, an array or map[K]struct{}
func isSetValue(rt reflect.Type) bool {
	return rt.Kind() == reflect.Struct && rt.NumField() == 0
}
