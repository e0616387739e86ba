package meta

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
)

// AnnotationKind identifies an annotation type
type AnnotationKind string

const (
	KindLink        AnnotationKind = "link"
	KindComposite   AnnotationKind = "composite"
	KindStorage     AnnotationKind = "storage"
	KindForeign     AnnotationKind = "foreign"
	KindForeignLink AnnotationKind = "foreignlink"
	KindMandatory   AnnotationKind = "mandatory"
	KindMultiline   AnnotationKind = "multiline"
	KindMaxLength   AnnotationKind = "max_length"
	KindFormer      AnnotationKind = "former"
	KindDefault     AnnotationKind = "default"
)

// Annotation is a typed piece of metadata attached to a property.
type Annotation interface {
	Kind() AnnotationKind
}

// LinkKind tells how a property is stored relative to its owner
type LinkKind int

const (
	// LinkNone is a plain value column
	LinkNone LinkKind = iota
	// LinkObject is a single-object reference stored as an id_ column
	LinkObject
	// LinkMap is a many-valued reference stored in a link table
	LinkMap
)

func (k LinkKind) String() string {
	switch k {
	case LinkNone:
		return "None"
	case LinkObject:
		return "Object"
	case LinkMap:
		return "Map"
	default:
		return fmt.Sprintf("LinkKind(%d)", int(k))
	}
}

// ParseLinkKind reads a link kind name, case-insensitively.
func ParseLinkKind(s string) (LinkKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return LinkNone, nil
	case "object":
		return LinkObject, nil
	case "map":
		return LinkMap, nil
	default:
		return LinkNone, fmt.Errorf("unknown link kind %q", s)
	}
}

type (
	// Link overrides the link kind inferred from the property type.
	Link struct{ Link LinkKind }

	// Composite marks a reference whose target lifecycle belongs to the owner.
	Composite struct{}

	// Storage overrides the storage name of the property.
	Storage struct{ Name string }

	// Foreign names the property on the other side of a link table that
	// points back to the owner.
	Foreign struct{ Property string }

	// ForeignLink names the link column of the referenced class in a link table.
	ForeignLink struct{ Name string }

	// Mandatory forbids empty values; the column is NOT NULL.
	Mandatory struct{}

	// Multiline marks a large text value.
	Multiline struct{}

	// MaxLength bounds the length of a string value.
	MaxLength struct{ Length int }

	// Former is the storage name the property had before a rename.
	Former struct{ Name string }

	// Default is the default value stored when none is given.
	Default struct{ Value any }
)

func (Link) Kind() AnnotationKind        { return KindLink }
func (Composite) Kind() AnnotationKind   { return KindComposite }
func (Storage) Kind() AnnotationKind     { return KindStorage }
func (Foreign) Kind() AnnotationKind     { return KindForeign }
func (ForeignLink) Kind() AnnotationKind { return KindForeignLink }
func (Mandatory) Kind() AnnotationKind   { return KindMandatory }
func (Multiline) Kind() AnnotationKind   { return KindMultiline }
func (MaxLength) Kind() AnnotationKind   { return KindMaxLength }
func (Former) Kind() AnnotationKind      { return KindFormer }
func (Default) Kind() AnnotationKind     { return KindDefault }

// AnnotationParser builds an annotation from its textual value.
type AnnotationParser func(value string) (Annotation, error)

var (
	parsersMu sync.RWMutex
	parsers   = map[AnnotationKind]AnnotationParser{}
)

// RegisterAnnotation makes kind available to model loaders. It is meant
// to be called from init functions; registering a kind twice panics.
func RegisterAnnotation(kind AnnotationKind, parse AnnotationParser) {
	parsersMu.Lock()
	defer parsersMu.Unlock()
	if parse == nil {
		panic("meta: RegisterAnnotation parser is nil")
	}
	if _, dup := parsers[kind]; dup {
		panic("meta: RegisterAnnotation called twice for " + string(kind))
	}
	parsers[kind] = parse
}

// ParseAnnotation builds an annotation of the given kind from value.
func ParseAnnotation(kind AnnotationKind, value string) (Annotation, error) {
	parsersMu.RLock()
	parse, ok := parsers[kind]
	parsersMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown annotation %q", kind)
	}
	a, err := parse(value)
	if err != nil {
		return nil, fmt.Errorf("invalid @%s value %q: %w", kind, value, err)
	}
	return a, nil
}

// RegisteredAnnotations lists the known annotation kinds in name order.
func RegisteredAnnotations() []AnnotationKind {
	parsersMu.RLock()
	defer parsersMu.RUnlock()
	kinds := make([]AnnotationKind, 0, len(parsers))
	for k := range parsers {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

func parseFlag(a Annotation) AnnotationParser {
	return func(value string) (Annotation, error) {
		if value == "" {
			return a, nil
		}
		on, err := strconv.ParseBool(value)
		if err != nil {
			return nil, err
		}
		if !on {
			return nil, nil
		}
		return a, nil
	}
}

func parseName(build func(string) Annotation) AnnotationParser {
	return func(value string) (Annotation, error) {
		value = strings.TrimSpace(value)
		if value == "" {
			return nil, fmt.Errorf("a name is required")
		}
		return build(value), nil
	}
}

func init() {
	RegisterAnnotation(KindLink, func(value string) (Annotation, error) {
		k, err := ParseLinkKind(value)
		if err != nil {
			return nil, err
		}
		return Link{Link: k}, nil
	})
	RegisterAnnotation(KindComposite, parseFlag(Composite{}))
	RegisterAnnotation(KindMandatory, parseFlag(Mandatory{}))
	RegisterAnnotation(KindMultiline, parseFlag(Multiline{}))
	RegisterAnnotation(KindStorage, parseName(func(s string) Annotation { return Storage{Name: s} }))
	RegisterAnnotation(KindForeign, parseName(func(s string) Annotation { return Foreign{Property: s} }))
	RegisterAnnotation(KindForeignLink, parseName(func(s string) Annotation { return ForeignLink{Name: s} }))
	RegisterAnnotation(KindFormer, parseName(func(s string) Annotation { return Former{Name: s} }))
	RegisterAnnotation(KindMaxLength, func(value string) (Annotation, error) {
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return nil, err
		}
		if n <= 0 {
			return nil, fmt.Errorf("length must be positive")
		}
		return MaxLength{Length: n}, nil
	})
	RegisterAnnotation(KindDefault, func(value string) (Annotation, error) {
		return Default{Value: value}, nil
	})
}
