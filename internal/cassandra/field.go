package cassandra

import (
	"errors"
	"fmt"
	"strings"

	"cassmapper/pkg/classifier"
	"cassmapper/pkg/marshal"
)

var ErrInvalidField = errors.New("invalid field")

// Field is a column described by its host type.
type Field struct {
	Name  string
	Host  classifier.HostType
	Elems []classifier.HostType
}

// ParseField reads "name:host" or "name:host:elem[,elem]", e.g.
// "tags:set:string" or "scores:map:string,long".
func ParseField(s string) (Field, error) {
	parts := strings.SplitN(s, ":", 3)
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return Field{}, fmt.Errorf("%w: %q, want name:host[:elem,...]", ErrInvalidField, s)
	}

	f := Field{
		Name: parts[0],
		Host: classifier.HostType(parts[1]),
	}
	if len(parts) == 3 {
		for _, e := range strings.Split(parts[2], ",") {
			if e == "" {
				return Field{}, fmt.Errorf("%w: %q has an empty element type", ErrInvalidField, s)
			}
			f.Elems = append(f.Elems, classifier.HostType(e))
		}
	}
	return f, nil
}

// Type resolves the field to its parameterized validation class.
func (f Field) Type(cql3 bool) (marshal.Type, error) {
	name, err := classifier.ValueTypeName(f.Host, f.Elems, cql3)
	if err != nil {
		return nil, fmt.Errorf("field %s: %w", f.Name, err)
	}
	t, err := marshal.Parse(name)
	if err != nil {
		return nil, fmt.Errorf("field %s: %w", f.Name, err)
	}
	return t, nil
}
