package core

// MappingBuilder mutates a fresh Mapping at registration time. It plays
// the role of the declarative mapping block: the builder receives the
// mapping and declares attributes and exclusions on it.
type MappingBuilder func(*Mapping)

// Mapping declares how rows of one relation convert to and from an entity
// struct. Mappings are registered by relation name before bootstrap; the
// latest registration under a name wins.
type Mapping struct {
	// Relation is the name of the relation this mapping applies to.
	Relation string

	// Attributes maps entity field names to relation column names.
	Attributes map[string]string

	// Exclusions lists relation columns never copied onto the entity.
	Exclusions []string
}

// NewMapping creates a mapping for relation and applies the builder to it.
// A nil builder yields an empty identity mapping.
func NewMapping(relation string, build MappingBuilder) *Mapping {
	m := &Mapping{
		Relation:   relation,
		Attributes: make(map[string]string),
	}
	if build != nil {
		build(m)
	}
	return m
}

// Attribute declares that field is backed by column.
func (m *Mapping) Attribute(field, column string) *Mapping {
	m.Attributes[field] = column
	return m
}

// Exclude marks columns as never mapped onto the entity.
func (m *Mapping) Exclude(columns ...string) *Mapping {
	m.Exclusions = append(m.Exclusions, columns...)
	return m
}

// Excluded reports whether column is excluded from the entity.
func (m *Mapping) Excluded(column string) bool {
	for _, c := range m.Exclusions {
		if c == column {
			return true
		}
	}
	return false
}
