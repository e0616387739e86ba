package meta

import (
	"errors"
	"fmt"
)

// ErrClassNotFound is returned when a class is not part of the model.
var ErrClassNotFound = errors.New("meta: class not found")

// ClassNotFoundError reports a lookup of an unknown class
type ClassNotFoundError struct {
	Name string
}

func (e *ClassNotFoundError) Error() string {
	return fmt.Sprintf("meta: class %q not found", e.Name)
}

// Is lets errors.Is(err, ErrClassNotFound) match.
func (e *ClassNotFoundError) Is(err error) bool {
	return err == ErrClassNotFound
}

// Provider gives read access to class metadata
type Provider interface {
	Class(name string) (*Class, error)
	Classes() []*Class
}

// Model is an in-memory Provider keeping classes in declaration order.
type Model struct {
	classes []*Class
	byName  map[string]*Class
}

// NewModel creates a model from classes. Class names must be unique.
func NewModel(classes ...*Class) (*Model, error) {
	m := &Model{byName: make(map[string]*Class, len(classes))}
	for _, c := range classes {
		if err := m.Add(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Add appends a class to the model
func (m *Model) Add(c *Class) error {
	if c == nil || c.Name == "" {
		return fmt.Errorf("class name is required")
	}
	if _, dup := m.byName[c.Name]; dup {
		return fmt.Errorf("duplicate class %q", c.Name)
	}
	seen := make(map[string]bool, len(c.Properties))
	for _, p := range c.Properties {
		if p.Name == "" {
			return fmt.Errorf("class %s: property name is required", c.Name)
		}
		if seen[p.Name] {
			return fmt.Errorf("class %s: duplicate property %q", c.Name, p.Name)
		}
		seen[p.Name] = true
		if p.Owner == "" {
			p.Owner = c.Name
		}
	}
	if m.byName == nil {
		m.byName = make(map[string]*Class)
	}
	m.classes = append(m.classes, c)
	m.byName[c.Name] = c
	return nil
}

// Class returns the class called name
func (m *Model) Class(name string) (*Class, error) {
	if c, ok := m.byName[name]; ok {
		return c, nil
	}
	return nil, &ClassNotFoundError{Name: name}
}

// Classes returns all classes in declaration order
func (m *Model) Classes() []*Class {
	return m.classes
}

// Properties returns the persistent properties of a class: those of its
// ancestors first, then its own. A property redeclared by a subclass
// replaces the inherited one in place.
func Properties(p Provider, name string) ([]*Property, error) {
	chain, err := ancestry(p, name)
	if err != nil {
		return nil, err
	}

	var props []*Property
	index := make(map[string]int)
	for i := len(chain) - 1; i >= 0; i-- {
		for _, prop := range chain[i].Properties {
			if at, ok := index[prop.Name]; ok {
				props[at] = prop
				continue
			}
			index[prop.Name] = len(props)
			props = append(props, prop)
		}
	}
	return props, nil
}

// ancestry returns the class followed by its parents, nearest first.
func ancestry(p Provider, name string) ([]*Class, error) {
	var chain []*Class
	visited := make(map[string]bool)
	for name != "" {
		if visited[name] {
			return nil, fmt.Errorf("class %s: inheritance cycle", name)
		}
		visited[name] = true
		c, err := p.Class(name)
		if err != nil {
			return nil, err
		}
		chain = append(chain, c)
		name = c.Parent
	}
	return chain, nil
}
