package meta

// Property is one persistent property of a class
type Property struct {
	Name        string
	Type        Type
	Annotations []Annotation

	// Owner is the name of the class that declares the property.
	Owner string
}

// Annotation returns the first annotation of the given kind.
func (p *Property) Annotation(kind AnnotationKind) (Annotation, bool) {
	for _, a := range p.Annotations {
		if a != nil && a.Kind() == kind {
			return a, true
		}
	}
	return nil, false
}

// Link returns how the property is stored. An explicit Link annotation
// wins; otherwise object types are single-object references and
// collection types are maps.
func (p *Property) Link() LinkKind {
	if a, ok := p.Annotation(KindLink); ok {
		return a.(Link).Link
	}
	switch p.Type.Kind {
	case KindObject:
		return LinkObject
	case KindCollection:
		return LinkMap
	default:
		return LinkNone
	}
}

// IsComposite reports whether the referenced object is owned by this one
func (p *Property) IsComposite() bool {
	_, ok := p.Annotation(KindComposite)
	return ok
}

// IsMandatory reports whether the property must hold a value
func (p *Property) IsMandatory() bool {
	_, ok := p.Annotation(KindMandatory)
	return ok
}

// IsMultiline reports whether the property holds large text
func (p *Property) IsMultiline() bool {
	_, ok := p.Annotation(KindMultiline)
	return ok
}

// StorageName returns the storage override, or the property name.
func (p *Property) StorageName() string {
	if a, ok := p.Annotation(KindStorage); ok {
		return a.(Storage).Name
	}
	return p.Name
}

// MaxLength returns the declared maximum length, 0 when unbounded.
func (p *Property) MaxLength() int {
	if a, ok := p.Annotation(KindMaxLength); ok {
		return a.(MaxLength).Length
	}
	return 0
}

// ForeignPropertyName returns the @foreign value, "" when absent.
func (p *Property) ForeignPropertyName() string {
	if a, ok := p.Annotation(KindForeign); ok {
		return a.(Foreign).Property
	}
	return ""
}

// ForeignLinkName returns the @foreignlink value, "" when absent.
func (p *Property) ForeignLinkName() string {
	if a, ok := p.Annotation(KindForeignLink); ok {
		return a.(ForeignLink).Name
	}
	return ""
}

// FormerName returns the storage name before a rename, "" when absent.
func (p *Property) FormerName() string {
	if a, ok := p.Annotation(KindFormer); ok {
		return a.(Former).Name
	}
	return ""
}

// Default returns the default value and whether one is declared.
func (p *Property) Default() (any, bool) {
	if a, ok := p.Annotation(KindDefault); ok {
		return a.(Default).Value, true
	}
	return nil, false
}

// Class is a persistent class and its declared properties
type Class struct {
	Name       string
	Parent     string
	Storage    string // table name override
	Abstract   bool
	Properties []*Property
}

// Property returns the declared property called name.
func (c *Class) Property(name string) (*Property, bool) {
	for _, p := range c.Properties {
		if p.Name == name {
			return p, true
		}
	}
	return nil, false
}
