package core

import (
	"fmt"
	"reflect"
	"sort"
)

// EntityDef records one registered entity type together with the entity
// schema attached to it after bootstrap.
type EntityDef struct {
	// Name is the plural name, matching the relation the entity maps to.
	Name string
	// Singular is the singular name the entity also resolves under.
	Singular string
	// Type is the underlying struct type of the entity.
	Type reflect.Type
	// Schema is set during bootstrap when the entity-schema capability is
	// present; nil otherwise.
	Schema *EntitySchema
}

// EntityRegistry resolves entity definitions by plural or singular name.
// Both keys always resolve to the same definition.
type EntityRegistry struct {
	defs map[string]*EntityDef
}

// NewEntityRegistry creates an empty registry.
func NewEntityRegistry() *EntityRegistry {
	return &EntityRegistry{defs: make(map[string]*EntityDef)}
}

// Register inserts entity under both the plural and the singular key,
// replacing any prior registration under either key. The entity may be a
// struct value or a pointer to one.
func (r *EntityRegistry) Register(plural, singular string, entity any) *EntityDef {
	t := reflect.TypeOf(entity)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	def := &EntityDef{Name: plural, Singular: singular, Type: t}
	r.defs[plural] = def
	if singular != "" {
		r.defs[singular] = def
	}
	return def
}

// Lookup returns the definition registered under name, plural or singular.
func (r *EntityRegistry) Lookup(name string) (*EntityDef, bool) {
	def, ok := r.defs[name]
	return def, ok
}

// Get is Lookup with an error instead of a bool.
func (r *EntityRegistry) Get(name string) (*EntityDef, error) {
	if def, ok := r.defs[name]; ok {
		return def, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrEntityNotFound, name)
}

// Names returns the distinct plural names of all registered entities,
// sorted for stable iteration.
func (r *EntityRegistry) Names() []string {
	seen := make(map[string]struct{}, len(r.defs))
	var names []string
	for _, def := range r.defs {
		if _, ok := seen[def.Name]; ok {
			continue
		}
		seen[def.Name] = struct{}{}
		names = append(names, def.Name)
	}
	sort.Strings(names)
	return names
}
