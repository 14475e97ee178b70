package marshal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Type
	}{
		{
			name:     "short native name",
			input:    "Int32Type",
			expected: Int32,
		},
		{
			name:     "qualified native name",
			input:    "org.apache.cassandra.db.marshal.UTF8Type",
			expected: UTF8,
		},
		{
			name:     "surrounding blanks",
			input:    "  LongType \n",
			expected: Long,
		},
		{
			name:     "list",
			input:    "ListType(Int32Type)",
			expected: NewList(Int32),
		},
		{
			name:     "set of qualified names",
			input:    "org.apache.cassandra.db.marshal.SetType(org.apache.cassandra.db.marshal.UUIDType)",
			expected: NewSet(UUID),
		},
		{
			name:     "map with blanks between parameters",
			input:    "MapType( UTF8Type , LongType )",
			expected: NewMap(UTF8, Long),
		},
		{
			name:     "frozen map of list",
			input:    "FrozenType(MapType(AsciiType,ListType(DoubleType)))",
			expected: &FrozenType{Inner: NewMap(Ascii, NewList(Double))},
		},
		{
			name:     "compound partition key",
			input:    "CompositeType(UTF8Type,Int32Type,UUIDType)",
			expected: &CompositeType{Components: []Type{UTF8, Int32, UUID}},
		},
		{
			name:     "reversed clustering column",
			input:    "ReversedType(TimestampType)",
			expected: &ReversedType{Inner: Timestamp},
		},
		{
			name:     "duration",
			input:    "DurationType",
			expected: Duration,
		},
		{
			name:     "custom class",
			input:    "org.apache.cassandra.db.marshal.LexicalUUIDType",
			expected: LexicalUUID,
		},
		{
			name:     "empty",
			input:    "EmptyType",
			expected: Empty,
		},
		{
			name:     "tuple",
			input:    "FrozenType(TupleType(Int32Type,UTF8Type))",
			expected: &FrozenType{Inner: &TupleType{Elems: []Type{Int32, UTF8}}},
		},
		{
			name:  "user type",
			input: "UserType(app,61646472657373,737472656574:UTF8Type,7a6970:Int32Type)",
			expected: &UserType{
				Keyspace: "app",
				TypeName: "address",
				Fields:   []UserField{{Name: "street", Type: UTF8}, {Name: "zip", Type: Int32}},
			},
		},
		{
			name:  "list of frozen user type",
			input: "ListType(FrozenType(UserType(app, 6c6f63, 6c6174 : DoubleType)))",
			expected: NewList(&FrozenType{Inner: &UserType{
				Keyspace: "app",
				TypeName: "loc",
				Fields:   []UserField{{Name: "lat", Type: Double}},
			}}),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		err   error
	}{
		{name: "empty", input: "", err: ErrSyntax},
		{name: "blank", input: "   ", err: ErrSyntax},
		{name: "no class name", input: "(Int32Type)", err: ErrSyntax},
		{name: "unclosed parameters", input: "ListType(Int32Type", err: ErrSyntax},
		{name: "trailing input", input: "Int32Type LongType", err: ErrSyntax},
		{name: "double comma", input: "MapType(UTF8Type,,LongType)", err: ErrSyntax},
		{name: "illegal character", input: "Int32Type;", err: ErrSyntax},
		{name: "unknown class", input: "VectorType", err: ErrConfiguration},
		{name: "foreign package", input: "com.example.UTF8Type", err: ErrConfiguration},
		{name: "bare container", input: "ListType", err: ErrConfiguration},
		{name: "empty parameters", input: "SetType()", err: ErrConfiguration},
		{name: "map with one parameter", input: "MapType(UTF8Type)", err: ErrConfiguration},
		{name: "list with two parameters", input: "ListType(UTF8Type,LongType)", err: ErrConfiguration},
		{name: "bare composite", input: "CompositeType", err: ErrConfiguration},
		{name: "parameters on native", input: "Int32Type(LongType)", err: ErrConfiguration},
		{name: "nested unknown class", input: "ListType(Foo)", err: ErrConfiguration},
		{name: "empty tuple", input: "TupleType()", err: ErrConfiguration},
		{name: "bare user type", input: "UserType", err: ErrConfiguration},
		{name: "user type without keyspace", input: "UserType(,6c6f63)", err: ErrSyntax},
		{name: "user type name not hex", input: "UserType(app,loc)", err: ErrSyntax},
		{name: "user field without type", input: "UserType(app,6c6f63,6c6174)", err: ErrSyntax},
		{name: "user field unknown type", input: "UserType(app,6c6f63,6c6174:Foo)", err: ErrConfiguration},
		{name: "unclosed user type", input: "UserType(app,6c6f63,6c6174:DoubleType", err: ErrSyntax},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			assert.Nil(t, got)
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestParseRoundTrip(t *testing.T) {
	inputs := []string{
		"org.apache.cassandra.db.marshal.BytesType",
		"org.apache.cassandra.db.marshal.ListType(org.apache.cassandra.db.marshal.Int32Type)",
		"org.apache.cassandra.db.marshal.MapType(org.apache.cassandra.db.marshal.UTF8Type,org.apache.cassandra.db.marshal.LongType)",
		"org.apache.cassandra.db.marshal.FrozenType(org.apache.cassandra.db.marshal.SetType(org.apache.cassandra.db.marshal.InetAddressType))",
		"org.apache.cassandra.db.marshal.TupleType(org.apache.cassandra.db.marshal.DurationType,org.apache.cassandra.db.marshal.UTF8Type)",
		"org.apache.cassandra.db.marshal.UserType(app,61646472657373,737472656574:org.apache.cassandra.db.marshal.UTF8Type,7a6970:org.apache.cassandra.db.marshal.Int32Type)",
	}

	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			got, err := Parse(in)
			require.NoError(t, err)
			assert.Equal(t, in, got.String())
		})
	}
}
