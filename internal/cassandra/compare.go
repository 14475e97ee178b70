package cassandra

import (
	"fmt"
	"strings"
)

// ColumnInfo is a row of system_schema.columns.
type ColumnInfo struct {
	Name string
	Kind string
	Type string
}

// Mismatch reports a column whose live type differs from the expected one.
// Actual is empty when the column does not exist.
type Mismatch struct {
	Column   string
	Expected string
	Actual   string
}

func (m Mismatch) String() string {
	if m.Actual == "" {
		return fmt.Sprintf("%s: missing, expected %s", m.Column, m.Expected)
	}
	return fmt.Sprintf("%s: got %s, expected %s", m.Column, m.Actual, m.Expected)
}

// Compare checks fields against the live columns of a table, in field order.
// Columns not named by any field are ignored.
func Compare(fields []Field, columns []ColumnInfo, cql3 bool) ([]Mismatch, error) {
	live := make(map[string]string, len(columns))
	for _, c := range columns {
		live[c.Name] = c.Type
	}

	var mismatches []Mismatch
	for _, f := range fields {
		t, err := f.Type(cql3)
		if err != nil {
			return nil, err
		}
		expected := t.CQL()

		actual, ok := live[f.Name]
		if !ok {
			mismatches = append(mismatches, Mismatch{Column: f.Name, Expected: expected})
			continue
		}
		if normalizeCQL(actual) != normalizeCQL(expected) {
			mismatches = append(mismatches, Mismatch{Column: f.Name, Expected: expected, Actual: actual})
		}
	}
	return mismatches, nil
}

// varchar is an alias of text
func normalizeCQL(s string) string {
	s = strings.ToLower(strings.Join(strings.Fields(s), ""))
	return strings.ReplaceAll(s, "varchar", "text")
}
