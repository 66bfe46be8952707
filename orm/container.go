package orm

import (
	"database/sql"
	"fmt"
	"sort"

	"tether/core"
	"tether/gateway"
)

// Relation is a named, queryable collection resolved inside a container.
type Relation struct {
	// Name is the relation name repositories refer to.
	Name string
	// Dataset is the physical table backing the relation.
	Dataset string
	// Schema is the introspected schema, nil when inference was skipped.
	Schema *core.RelationSchema

	gw *gateway.Gateway
}

// Gateway returns the gateway the relation reads from.
func (r *Relation) Gateway() *gateway.Gateway { return r.gw }

// Connection returns the raw connection behind the relation.
func (r *Relation) Connection() *sql.DB { return r.gw.Connection() }

// Container is the immutable, fully assembled configuration result holding
// all resolved relations and gateways. It is created exactly once, by the
// first successful Load, and read-only afterward.
type Container struct {
	id        string
	relations map[string]*Relation
	gateways  map[string]*gateway.Gateway
}

// ID uniquely identifies this container instance.
func (c *Container) ID() string { return c.id }

// Relation returns the named relation.
func (c *Container) Relation(name string) (*Relation, error) {
	if rel, ok := c.relations[name]; ok {
		return rel, nil
	}
	return nil, fmt.Errorf("%w: %q", core.ErrRelationNotFound, name)
}

// Relations returns all resolved relation names, sorted.
func (c *Container) Relations() []string {
	names := make([]string, 0, len(c.relations))
	for name := range c.relations {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Gateway returns the named gateway. The bootstrapper registers a single
// backend under DefaultGatewayName.
func (c *Container) Gateway(name string) (*gateway.Gateway, error) {
	if gw, ok := c.gateways[name]; ok {
		return gw, nil
	}
	return nil, fmt.Errorf("%w: %q", core.ErrGatewayNotFound, name)
}

// Schemas returns the introspected schemas of all relations that have one,
// sorted by relation name.
func (c *Container) Schemas() []*core.RelationSchema {
	var schemas []*core.RelationSchema
	for _, name := range c.Relations() {
		if rel := c.relations[name]; rel.Schema != nil {
			schemas = append(schemas, rel.Schema)
		}
	}
	return schemas
}
