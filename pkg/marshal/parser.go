package marshal

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrSyntax is returned when a descriptor is not well formed.
	ErrSyntax = errors.New("syntax error")
	// ErrConfiguration is returned when a well formed descriptor names an
	// unknown class or passes it the wrong parameters.
	ErrConfiguration = errors.New("configuration error")
)

// Parse reads a validation class descriptor such as
// "MapType(UTF8Type,org.apache.cassandra.db.marshal.LongType)".
func Parse(s string) (Type, error) {
	p := &parser{str: s}
	t, err := p.parse()
	if err != nil {
		return nil, err
	}
	p.skipBlank()
	if !p.eos() {
		return nil, p.syntaxError("unexpected trailing input")
	}
	return t, nil
}

type parser struct {
	str string
	idx int
}

func (p *parser) parse() (Type, error) {
	p.skipBlank()
	name := p.readIdentifier()
	if name == "" {
		return nil, p.syntaxError("expected class name")
	}
	p.skipBlank()
	if p.eos() || p.str[p.idx] != '(' {
		return build(name, nil)
	}

	p.idx++ // (
	if strings.TrimPrefix(name, Package) == "UserType" {
		return p.userType()
	}

	var args []Type
	for {
		p.skipBlankAndComma()
		if p.eos() {
			return nil, p.syntaxError("unexpected end of input")
		}
		if p.str[p.idx] == ')' {
			p.idx++
			break
		}
		t, err := p.parse()
		if err != nil {
			return nil, err
		}
		args = append(args, t)
	}
	if len(args) == 0 {
		return nil, fmt.Errorf("%w: %s takes type parameters, got none", ErrConfiguration, name)
	}
	return build(name, args)
}

func build(name string, args []Type) (Type, error) {
	short := strings.TrimPrefix(name, Package)
	if n, ok := natives[short]; ok {
		if len(args) > 0 {
			return nil, fmt.Errorf("%w: %s takes no type parameters", ErrConfiguration, short)
		}
		return n, nil
	}

	switch short {
	case "CompositeType", "TupleType":
		if len(args) == 0 {
			return nil, fmt.Errorf("%w: %s takes type parameters, got none", ErrConfiguration, short)
		}
		if short == "TupleType" {
			return &TupleType{Elems: args}, nil
		}
		return &CompositeType{Components: args}, nil
	case "UserType":
		return nil, fmt.Errorf("%w: UserType takes a keyspace, a name and fields", ErrConfiguration)
	}

	want := 1
	switch short {
	case "MapType":
		want = 2
	case "ListType", "SetType", "FrozenType", "ReversedType":
	default:
		return nil, fmt.Errorf("%w: unknown class %q", ErrConfiguration, name)
	}
	if len(args) != want {
		return nil, fmt.Errorf("%w: %s takes %d type parameter(s), got %d", ErrConfiguration, short, want, len(args))
	}

	switch short {
	case "ListType":
		return NewList(args[0]), nil
	case "SetType":
		return NewSet(args[0]), nil
	case "MapType":
		return NewMap(args[0], args[1]), nil
	case "FrozenType":
		return &FrozenType{Inner: args[0]}, nil
	default:
		return &ReversedType{Inner: args[0]}, nil
	}
}

// userType reads the parameters of UserType after the opening parenthesis:
// keyspace, hex name, then hexfield:type pairs.
func (p *parser) userType() (Type, error) {
	p.skipBlank()
	ks := p.readIdentifier()
	if ks == "" {
		return nil, p.syntaxError("expected user type keyspace")
	}
	p.skipBlankAndComma()
	name, err := p.readHex("user type name")
	if err != nil {
		return nil, err
	}

	u := &UserType{Keyspace: ks, TypeName: name}
	for {
		p.skipBlankAndComma()
		if p.eos() {
			return nil, p.syntaxError("unexpected end of input")
		}
		if p.str[p.idx] == ')' {
			p.idx++
			return u, nil
		}

		field, err := p.readHex("user type field")
		if err != nil {
			return nil, err
		}
		p.skipBlank()
		if p.eos() || p.str[p.idx] != ':' {
			return nil, p.syntaxError("expected ':' after user type field")
		}
		p.idx++
		t, err := p.parse()
		if err != nil {
			return nil, err
		}
		u.Fields = append(u.Fields, UserField{Name: field, Type: t})
	}
}

func (p *parser) readHex(what string) (string, error) {
	s := p.readIdentifier()
	if s == "" {
		return "", p.syntaxError("expected " + what)
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return "", p.syntaxError(fmt.Sprintf("%s %q is not hex encoded", what, s))
	}
	return string(b), nil
}

func (p *parser) eos() bool {
	return p.idx >= len(p.str)
}

func (p *parser) skipBlank() {
	for !p.eos() && isBlank(p.str[p.idx]) {
		p.idx++
	}
}

func (p *parser) skipBlankAndComma() {
	commaFound := false
	for !p.eos() {
		c := p.str[p.idx]
		if c == ',' {
			if commaFound {
				return
			}
			commaFound = true
		} else if !isBlank(c) {
			return
		}
		p.idx++
	}
}

func (p *parser) readIdentifier() string {
	start := p.idx
	for !p.eos() && isIdentifierChar(p.str[p.idx]) {
		p.idx++
	}
	return p.str[start:p.idx]
}

func (p *parser) syntaxError(msg string) error {
	return fmt.Errorf("%w: %s at offset %d of %q", ErrSyntax, msg, p.idx, p.str)
}

func isBlank(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isIdentifierChar(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') ||
		c == '-' || c == '+' || c == '.' || c == '_' || c == '&' || c == '$'
}
