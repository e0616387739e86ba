package naming

import (
	"errors"
	"fmt"

	"github.com/tordrt/schemasync/internal/meta"
)

// ErrUnresolvableReference is matched by every UnresolvableReferenceError.
var ErrUnresolvableReference = errors.New("unresolvable reference")

// UnresolvableReferenceError reports a reference whose target class has
// no table. No foreign key may be emitted for it.
type UnresolvableReferenceError struct {
	Class    string // owning class, empty when resolving a class directly
	Property string
	Target   string
	Err      error
}

func (e *UnresolvableReferenceError) Error() string {
	msg := fmt.Sprintf("cannot resolve storage of class %q", e.Target)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if e.Property != "" {
		return fmt.Sprintf("%s.%s: %s", e.Class, e.Property, msg)
	}
	return msg
}

func (e *UnresolvableReferenceError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrUnresolvableReference) match.
func (e *UnresolvableReferenceError) Is(err error) bool {
	return err == ErrUnresolvableReference
}

// Resolver maps classes to their tables using a metadata provider.
type Resolver struct {
	provider meta.Provider
}

// NewResolver creates a resolver over provider
func NewResolver(provider meta.Provider) *Resolver {
	return &Resolver{provider: provider}
}

// TableName returns the table of class: its storage override, or the
// name derived by ClassToTable.
func (r *Resolver) TableName(class string) (string, error) {
	if class == "" {
		return "", &UnresolvableReferenceError{Err: errors.New("no class given")}
	}
	c, err := r.provider.Class(class)
	if err != nil {
		return "", &UnresolvableReferenceError{Target: class, Err: err}
	}
	if c.Abstract {
		return "", &UnresolvableReferenceError{Target: class, Err: errors.New("abstract class has no table")}
	}
	if c.Storage != "" {
		return c.Storage, nil
	}
	return ClassToTable(c.Name), nil
}

// ReferenceTable returns the table holding the objects p points to.
func (r *Resolver) ReferenceTable(p *meta.Property) (string, error) {
	table, err := r.TableName(p.Type.Class)
	if err != nil {
		var ue *UnresolvableReferenceError
		if errors.As(err, &ue) {
			ue.Class, ue.Property, ue.Target = p.Owner, p.Name, p.Type.Class
		}
		return "", err
	}
	return table, nil
}
