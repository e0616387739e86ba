package meta

import (
	"fmt"
	"strings"
)

// Kind is the shape of a property's declared type
type Kind int

const (
	// KindScalar is a plain value stored in its own column
	KindScalar Kind = iota
	// KindObject references a single object of another class
	KindObject
	// KindCollection holds many objects of another class
	KindCollection
)

func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindObject:
		return "object"
	case KindCollection:
		return "collection"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Scalar is the value kind of a scalar property
type Scalar string

const (
	ScalarString   Scalar = "string"
	ScalarInteger  Scalar = "integer"
	ScalarFloat    Scalar = "float"
	ScalarBoolean  Scalar = "boolean"
	ScalarDateTime Scalar = "datetime"
)

var scalars = map[string]Scalar{
	"string":   ScalarString,
	"integer":  ScalarInteger,
	"int":      ScalarInteger,
	"float":    ScalarFloat,
	"boolean":  ScalarBoolean,
	"bool":     ScalarBoolean,
	"datetime": ScalarDateTime,
	"date":     ScalarDateTime,
}

// Type is the declared type of a property
type Type struct {
	Kind   Kind
	Scalar Scalar // set when Kind is KindScalar
	Class  string // element class when Kind is KindObject or KindCollection
}

// ScalarType returns the type of a scalar property
func ScalarType(s Scalar) Type {
	return Type{Kind: KindScalar, Scalar: s}
}

// ObjectType returns the type of a single-object reference to class
func ObjectType(class string) Type {
	return Type{Kind: KindObject, Class: class}
}

// CollectionType returns the type of a collection of class objects
func CollectionType(class string) Type {
	return Type{Kind: KindCollection, Class: class}
}

// ParseType reads a type declaration: a scalar name, a class name,
// or a class name prefixed with "[]" for collections.
func ParseType(s string) (Type, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Type{}, fmt.Errorf("empty type")
	}
	if sc, ok := scalars[strings.ToLower(s)]; ok {
		return ScalarType(sc), nil
	}
	if rest, ok := strings.CutPrefix(s, "[]"); ok {
		rest = strings.TrimSpace(rest)
		if rest == "" {
			return Type{}, fmt.Errorf("collection type %q has no element class", s)
		}
		if _, ok := scalars[strings.ToLower(rest)]; ok {
			return Type{}, fmt.Errorf("collection type %q must hold a class, not a scalar", s)
		}
		return CollectionType(rest), nil
	}
	return ObjectType(s), nil
}

func (t Type) String() string {
	switch t.Kind {
	case KindScalar:
		return string(t.Scalar)
	case KindCollection:
		return "[]" + t.Class
	default:
		return t.Class
	}
}
