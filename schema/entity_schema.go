// Package schema composes entity schemas from introspected relation
// schemas and declared mappings, and persists schema dumps as YAML.
package schema

import (
	"fmt"

	"tether/core"
)

// EntitySchemaFactory composes an entity schema object from the entity
// definition, a relation's live schema and the mapping declared for it.
//
// The factory is an optional capability: deployments without it skip
// entity-schema wiring entirely, which is a no-op rather than an error.
type EntitySchemaFactory interface {
	EntitySchema(def *core.EntityDef, relation *core.RelationSchema, mapping *core.Mapping) (*core.EntitySchema, error)
}

// Factory is the default composed-schema implementation. It copies the
// relation's columns, drops the mapping's exclusions and carries the
// mapping along for attribute resolution.
type Factory struct{}

// EntitySchema implements EntitySchemaFactory.
func (Factory) EntitySchema(def *core.EntityDef, relation *core.RelationSchema, mapping *core.Mapping) (*core.EntitySchema, error) {
	if relation == nil {
		return nil, fmt.Errorf("entity %q has no relation schema to compose from", def.Name)
	}

	es := &core.EntitySchema{
		Relation: relation.Relation,
		Mapping:  mapping,
	}
	for _, col := range relation.Columns {
		if mapping != nil && mapping.Excluded(col.Name) {
			continue
		}
		es.Columns = append(es.Columns, col)
	}
	return es, nil
}
