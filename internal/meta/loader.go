package meta

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

type modelFile struct {
	Classes []classFile `yaml:"classes"`
}

type classFile struct {
	Name       string         `yaml:"name"`
	Parent     string         `yaml:"parent"`
	Storage    string         `yaml:"storage"`
	Abstract   bool           `yaml:"abstract"`
	Properties []propertyFile `yaml:"properties"`
}

type propertyFile struct {
	Name        string         `yaml:"name"`
	Type        string         `yaml:"type"`
	Annotations map[string]any `yaml:"annotations"`
}

// LoadFile reads a YAML model definition from path
func LoadFile(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read model file: %w", err)
	}
	m, err := Load(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// Load reads a YAML model definition:
//
//	classes:
//	  - name: Order
//	    properties:
//	      - name: customer
//	        type: Customer
//	        annotations: {composite: true}
func Load(r io.Reader) (*Model, error) {
	var f modelFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to decode model: %w", err)
	}

	m := &Model{byName: make(map[string]*Class, len(f.Classes))}
	for _, cf := range f.Classes {
		c, err := cf.class()
		if err != nil {
			return nil, err
		}
		if err := m.Add(c); err != nil {
			return nil, err
		}
	}

	for _, c := range m.classes {
		if c.Parent == "" {
			continue
		}
		if _, err := ancestry(m, c.Name); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (cf classFile) class() (*Class, error) {
	c := &Class{
		Name:     cf.Name,
		Parent:   cf.Parent,
		Storage:  cf.Storage,
		Abstract: cf.Abstract,
	}
	for _, pf := range cf.Properties {
		t, err := ParseType(pf.Type)
		if err != nil {
			return nil, fmt.Errorf("class %s: property %s: %w", cf.Name, pf.Name, err)
		}
		p := &Property{Name: pf.Name, Type: t, Owner: cf.Name}

		kinds := make([]string, 0, len(pf.Annotations))
		for k := range pf.Annotations {
			kinds = append(kinds, k)
		}
		sort.Strings(kinds)
		for _, k := range kinds {
			a, err := ParseAnnotation(AnnotationKind(k), annotationValue(pf.Annotations[k]))
			if err != nil {
				return nil, fmt.Errorf("class %s: property %s: %w", cf.Name, pf.Name, err)
			}
			if a != nil {
				p.Annotations = append(p.Annotations, a)
			}
		}
		c.Properties = append(c.Properties, p)
	}
	return c, nil
}

func annotationValue(v any) string {
	if v == nil {
		return ""
	}
	return fmt.Sprint(v)
}
