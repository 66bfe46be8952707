package core

// Column describes a single attribute of a relation as reported by the
// backing store.
type Column struct {
	Name       string `yaml:"name" json:"name"`
	Type       string `yaml:"type" json:"type"`
	Nullable   bool   `yaml:"nullable" json:"nullable"`
	PrimaryKey bool   `yaml:"primary_key" json:"primary_key"`
}

// RelationSchema is the live, introspected description of one relation.
type RelationSchema struct {
	Relation string   `yaml:"relation" json:"relation"`
	Columns  []Column `yaml:"columns" json:"columns"`
}

// Column returns the named column, if present.
func (s *RelationSchema) Column(name string) (Column, bool) {
	for _, c := range s.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// PrimaryKey returns the names of the primary key columns in declaration
// order.
func (s *RelationSchema) PrimaryKey() []string {
	var pk []string
	for _, c := range s.Columns {
		if c.PrimaryKey {
			pk = append(pk, c.Name)
		}
	}
	return pk
}

// EntitySchema composes a relation's live schema with the mapping declared
// for the entity bound to that relation. It is attached to entity
// definitions during bootstrap when the schema capability is present.
type EntitySchema struct {
	Relation string
	Columns  []Column
	Mapping  *Mapping
}

// ColumnFor resolves the relation column backing an entity field. Fields
// without an explicit mapping attribute fall through to the field name.
func (s *EntitySchema) ColumnFor(field string) string {
	if s.Mapping != nil {
		if col, ok := s.Mapping.Attributes[field]; ok {
			return col
		}
	}
	return field
}
