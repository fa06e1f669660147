package tool

import (
	"fmt"
)

// Registry maps tool names to their specs, preserving registration order.
// It is meant to be filled once at startup and read afterwards; it is not
// safe for concurrent mutation.
type Registry struct {
	specs map[string]*Spec
	order []string
}

// NewRegistry creates a registry holding specs, in order.
func NewRegistry(specs ...Spec) (*Registry, error) {
	r := &Registry{specs: make(map[string]*Spec)}
	for _, s := range specs {
		if err := r.Register(s); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register adds spec. It fails with *DuplicateToolError if the name is
// already present, in which case the registry is left unchanged.
func (r *Registry) Register(spec Spec) error {
	if spec.Name == "" {
		return ErrEmptyName
	}
	if spec.Execute == nil {
		return fmt.Errorf("%s: %w", spec.Name, ErrNilExecute)
	}
	if _, exists := r.specs[spec.Name]; exists {
		return &DuplicateToolError{Name: spec.Name}
	}

	validator, err := compileSchema(spec.Parameters)
	if err != nil {
		return fmt.Errorf("%s: %w: %v", spec.Name, ErrInvalidSchema, err)
	}
	spec.validator = validator

	r.specs[spec.Name] = &spec
	r.order = append(r.order, spec.Name)
	return nil
}

// Resolve returns the spec registered under name.
func (r *Registry) Resolve(name string) (*Spec, error) {
	s, ok := r.specs[name]
	if !ok {
		return nil, &UnknownToolError{Name: name}
	}
	return s, nil
}

// Specs returns all specs in registration order.
func (r *Registry) Specs() []Spec {
	out := make([]Spec, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, *r.specs[name])
	}
	return out
}

// Declarations returns the declarations of all specs in registration order.
func (r *Registry) Declarations() []Declaration {
	out := make([]Declaration, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.specs[name].Declaration())
	}
	return out
}

// Names returns the registered tool names in registration order.
func (r *Registry) Names() []string {
	return append([]string(nil), r.order...)
}

// Len returns the number of registered tools.
func (r *Registry) Len() int {
	return len(r.order)
}
