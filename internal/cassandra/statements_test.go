package cassandra

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cassmapper/pkg/classifier"
	"cassmapper/pkg/marshal"
)

func TestParseField(t *testing.T) {
	tests := []struct {
		input    string
		expected Field
	}{
		{input: "id:uuid", expected: Field{Name: "id", Host: classifier.UUID}},
		{input: "tags:set:string", expected: Field{Name: "tags", Host: classifier.Set, Elems: []classifier.HostType{classifier.String}}},
		{input: "scores:map:string,long", expected: Field{Name: "scores", Host: classifier.Map, Elems: []classifier.HostType{classifier.String, classifier.Long}}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseField(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}

	for _, bad := range []string{"", "id", ":uuid", "id:", "m:map:string,"} {
		_, err := ParseField(bad)
		assert.ErrorIs(t, err, ErrInvalidField, bad)
	}
}

func TestFieldType(t *testing.T) {
	f := Field{Name: "seen", Host: classifier.List, Elems: []classifier.HostType{classifier.Date}}

	got, err := f.Type(true)
	require.NoError(t, err)
	assert.Equal(t, marshal.NewList(marshal.Timestamp), got)

	_, err = Field{Name: "bad", Host: classifier.Map}.Type(false)
	assert.ErrorIs(t, err, classifier.ErrMissingElementType)
}

func TestStrategy(t *testing.T) {
	got, err := Strategy("SimpleStrategy")
	require.NoError(t, err)
	assert.Equal(t, "org.apache.cassandra.locator.SimpleStrategy", got)

	got, err = Strategy("org.apache.cassandra.locator.NetworkTopologyStrategy")
	require.NoError(t, err)
	assert.Equal(t, "org.apache.cassandra.locator.NetworkTopologyStrategy", got)

	_, err = Strategy("EverywhereStrategy")
	assert.ErrorIs(t, err, ErrUnknownStrategy)

	_, err = Strategy("Strategy")
	assert.ErrorIs(t, err, ErrUnknownStrategy)
}

func TestKeyspaceStatement(t *testing.T) {
	got, err := KeyspaceStatement("app", "SimpleStrategy", map[string]string{"replication_factor": "3"})
	require.NoError(t, err)
	assert.Equal(t, "CREATE KEYSPACE IF NOT EXISTS app WITH replication = {'class': 'org.apache.cassandra.locator.SimpleStrategy', 'replication_factor': '3'}", got)

	got, err = KeyspaceStatement("app", "NetworkTopologyStrategy", map[string]string{"dc2": "2", "dc1": "3"})
	require.NoError(t, err)
	assert.Equal(t, "CREATE KEYSPACE IF NOT EXISTS app WITH replication = {'class': 'org.apache.cassandra.locator.NetworkTopologyStrategy', 'dc1': '3', 'dc2': '2'}", got)

	_, err = KeyspaceStatement("app", "SimpleStrategy", nil)
	assert.ErrorIs(t, err, ErrInvalidReplication)

	_, err = KeyspaceStatement("app", "NetworkTopologyStrategy", nil)
	assert.ErrorIs(t, err, ErrInvalidReplication)

	_, err = KeyspaceStatement("", "SimpleStrategy", map[string]string{"replication_factor": "1"})
	assert.ErrorIs(t, err, ErrInvalidReplication)

	_, err = KeyspaceStatement("app", "LocalStrategy", nil)
	assert.ErrorIs(t, err, ErrUnknownStrategy)
}

func TestKeyspaceStatementQuoting(t *testing.T) {
	got, err := KeyspaceStatement("app", "NetworkTopologyStrategy", map[string]string{"dc'1": "3'}; DROP KEYSPACE x; --"})
	require.NoError(t, err)
	assert.Equal(t, "CREATE KEYSPACE IF NOT EXISTS app WITH replication = {'class': 'org.apache.cassandra.locator.NetworkTopologyStrategy', 'dc''1': '3''}; DROP KEYSPACE x; --'}", got)

	for _, ks := range []string{"app; DROP KEYSPACE x", "1app", "my-app", strings.Repeat("k", 49)} {
		_, err = KeyspaceStatement(ks, "SimpleStrategy", map[string]string{"replication_factor": "1"})
		assert.ErrorIs(t, err, ErrInvalidName, ks)
	}
}

func TestTableStatement(t *testing.T) {
	fields := []Field{
		{Name: "id", Host: classifier.UUID},
		{Name: "created", Host: classifier.Timestamp},
		{Name: "level", Host: classifier.Short},
		{Name: "tags", Host: classifier.Set, Elems: []classifier.HostType{classifier.String}},
		{Name: "scores", Host: classifier.Map, Elems: []classifier.HostType{classifier.String, classifier.Double}},
	}

	got, err := TableStatement("app", "events", fields, []string{"id", "created"}, true)
	require.NoError(t, err)
	assert.Equal(t, "CREATE TABLE IF NOT EXISTS app.events (id uuid, created timestamp, level int, tags set<text>, scores map<text, double>, PRIMARY KEY (id, created))", got)

	got, err = TableStatement("", "events", fields[:3], []string{"id"}, false)
	require.NoError(t, err)
	assert.Equal(t, "CREATE TABLE IF NOT EXISTS events (id uuid, created timestamp, level varint, PRIMARY KEY (id))", got)
}

func TestTableStatementErrors(t *testing.T) {
	id := Field{Name: "id", Host: classifier.UUID}

	_, err := TableStatement("app", "", []Field{id}, []string{"id"}, true)
	assert.ErrorIs(t, err, ErrInvalidTable)

	_, err = TableStatement("app", "t", nil, []string{"id"}, true)
	assert.ErrorIs(t, err, ErrInvalidTable)

	_, err = TableStatement("app", "t", []Field{id}, nil, true)
	assert.ErrorIs(t, err, ErrInvalidTable)

	_, err = TableStatement("app", "t", []Field{id}, []string{"other"}, true)
	assert.ErrorIs(t, err, ErrInvalidTable)

	_, err = TableStatement("app", "t", []Field{id, id}, []string{"id"}, true)
	assert.ErrorIs(t, err, ErrInvalidTable)

	_, err = TableStatement("app", "t (x int); --", []Field{id}, []string{"id"}, true)
	assert.ErrorIs(t, err, ErrInvalidName)

	_, err = TableStatement("a.b", "t", []Field{id}, []string{"id"}, true)
	assert.ErrorIs(t, err, ErrInvalidName)

	_, err = TableStatement("app", "t", []Field{id, {Name: "v blob, w", Host: classifier.String}}, []string{"id"}, true)
	assert.ErrorIs(t, err, ErrInvalidName)

	_, err = TableStatement("app", "t", []Field{id, {Name: "l", Host: classifier.List, Elems: []classifier.HostType{classifier.List}}}, []string{"id"}, true)
	assert.ErrorIs(t, err, marshal.ErrConfiguration)
}
