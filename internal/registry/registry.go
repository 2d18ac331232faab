// Package registry holds the named, invokable capabilities producers run
// their plans through. Registration happens once at startup; the registry is
// read-only afterwards and is pure lookup plus invocation.
package registry

import (
	"context"
	"sync"

	"github.com/kweiss/deskpilot/pkg/models"
)

// Args is the argument and result map for a capability invocation.
type Args map[string]any

// String returns the string value for a key, or "" if absent.
func (a Args) String(key string) string {
	s, _ := a[key].(string)
	return s
}

// Int returns the integer value for a key, accepting the numeric types JSON
// decoding produces.
func (a Args) Int(key string) (int, bool) {
	switch v := a[key].(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}

// InvokeFunc is the underlying operation of a capability.
type InvokeFunc func(ctx context.Context, args Args) (Args, error)

// Param describes one expected argument of a capability.
type Param struct {
	// Name is the argument name.
	Name string `json:"name"`
	// Type is the JSON-schema type: string, integer, or any.
	Type string `json:"type"`
	// Required marks arguments the invocation cannot run without.
	Required bool `json:"required"`
	// Description explains the argument to the planning collaborator.
	Description string `json:"description,omitempty"`
}

// Capability is a named, versionless unit registered once at startup.
type Capability struct {
	// Name is the globally unique capability name.
	Name string `json:"name"`
	// Kind is the artifact kind this capability touches.
	Kind models.ArtifactKind `json:"kind"`
	// Description states what invoking the capability does.
	Description string `json:"description"`
	// Params lists the expected arguments.
	Params []Param `json:"params,omitempty"`
	// Fn is the underlying operation.
	Fn InvokeFunc `json:"-"`
}

// Registry maps capability names to capabilities and preserves registration
// order for kind-scoped listings.
type Registry struct {
	mu    sync.RWMutex
	byName map[string]Capability
	order  []string
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{byName: make(map[string]Capability)}
}

// Register adds a capability. Registering a name twice is a configuration
// error; the first registration stays intact.
func (r *Registry) Register(c Capability) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byName[c.Name]; exists {
		return &DuplicateCapabilityError{Name: c.Name}
	}
	r.byName[c.Name] = c
	r.order = append(r.order, c.Name)
	return nil
}

// Resolve returns the capability registered under name.
func (r *Registry) Resolve(name string) (Capability, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.byName[name]
	if !ok {
		return Capability{}, &UnknownCapabilityError{Name: name}
	}
	return c, nil
}

// Invoke resolves and runs a capability. Any failure from the underlying
// operation is wrapped in an InvocationError; a raw error never escapes.
func (r *Registry) Invoke(ctx context.Context, name string, args Args) (Args, error) {
	c, err := r.Resolve(name)
	if err != nil {
		return nil, &InvocationError{Capability: name, Cause: err}
	}
	out, err := c.Fn(ctx, args)
	if err != nil {
		return nil, &InvocationError{Capability: name, Cause: err}
	}
	return out, nil
}

// ListByKind returns capabilities of the given kind in registration order.
func (r *Registry) ListByKind(kind models.ArtifactKind) []Capability {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Capability
	for _, name := range r.order {
		if c := r.byName[name]; c.Kind == kind {
			out = append(out, c)
		}
	}
	return out
}

// List returns all capabilities in registration order.
func (r *Registry) List() []Capability {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Capability, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.byName[name])
	}
	return out
}
