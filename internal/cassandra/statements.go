package cassandra

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"cassmapper/pkg/classifier"
)

var (
	ErrUnknownStrategy    = errors.New("unknown replication strategy")
	ErrInvalidReplication = errors.New("invalid replication options")
	ErrInvalidTable       = errors.New("invalid table definition")
	ErrInvalidName        = errors.New("invalid name")
)

// unquoted CQL identifier
var identifier = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]{0,47}$`)

func checkName(kind, name string) error {
	if !identifier.MatchString(name) {
		return fmt.Errorf("%w: %s %q", ErrInvalidName, kind, name)
	}
	return nil
}

// literal renders s as a CQL string constant.
func literal(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// Strategy returns the qualified replication strategy class for name, which
// may be qualified or short ("SimpleStrategy").
func Strategy(name string) (string, error) {
	for _, s := range classifier.ReplicationStrategies() {
		if name == s || strings.HasSuffix(s, "."+name) {
			return s, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
}

// KeyspaceStatement builds the CREATE KEYSPACE statement. SimpleStrategy
// needs a replication_factor option; NetworkTopologyStrategy needs at least
// one datacenter.
func KeyspaceStatement(ks, strategy string, options map[string]string) (string, error) {
	if ks == "" {
		return "", fmt.Errorf("%w: empty keyspace name", ErrInvalidReplication)
	}
	if err := checkName("keyspace", ks); err != nil {
		return "", err
	}
	class, err := Strategy(strategy)
	if err != nil {
		return "", err
	}

	_, hasRF := options["replication_factor"]
	if strings.HasSuffix(class, ".SimpleStrategy") && !hasRF {
		return "", fmt.Errorf("%w: SimpleStrategy needs replication_factor", ErrInvalidReplication)
	}
	if strings.HasSuffix(class, ".NetworkTopologyStrategy") && len(options) == 0 {
		return "", fmt.Errorf("%w: NetworkTopologyStrategy needs at least one datacenter", ErrInvalidReplication)
	}

	keys := make([]string, 0, len(options))
	for k := range options {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	replication := "'class': " + literal(class)
	for _, k := range keys {
		replication += ", " + literal(k) + ": " + literal(options[k])
	}

	return "CREATE KEYSPACE IF NOT EXISTS " + ks + " WITH replication = {" + replication + "}", nil
}

// TableStatement builds the CREATE TABLE statement for fields. key lists the
// primary key columns, partition key first.
func TableStatement(ks, table string, fields []Field, key []string, cql3 bool) (string, error) {
	if table == "" || len(fields) == 0 {
		return "", fmt.Errorf("%w: table needs a name and at least one column", ErrInvalidTable)
	}
	if len(key) == 0 {
		return "", fmt.Errorf("%w: table %s has no primary key", ErrInvalidTable, table)
	}
	if ks != "" {
		if err := checkName("keyspace", ks); err != nil {
			return "", err
		}
	}
	if err := checkName("table", table); err != nil {
		return "", err
	}

	known := make(map[string]struct{}, len(fields))
	columns := make([]string, 0, len(fields)+1)
	for _, f := range fields {
		if err := checkName("column", f.Name); err != nil {
			return "", err
		}
		if _, dup := known[f.Name]; dup {
			return "", fmt.Errorf("%w: duplicate column %s", ErrInvalidTable, f.Name)
		}
		known[f.Name] = struct{}{}

		t, err := f.Type(cql3)
		if err != nil {
			return "", err
		}
		columns = append(columns, f.Name+" "+t.CQL())
	}

	for _, k := range key {
		if _, ok := known[k]; !ok {
			return "", fmt.Errorf("%w: primary key column %s is not defined", ErrInvalidTable, k)
		}
	}
	columns = append(columns, "PRIMARY KEY ("+strings.Join(key, ", ")+")")

	name := table
	if ks != "" {
		name = ks + "." + table
	}
	return "CREATE TABLE IF NOT EXISTS " + name + " (" + strings.Join(columns, ", ") + ")", nil
}
