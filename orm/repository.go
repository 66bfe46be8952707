package orm

import "fmt"

// Repository is an application-level object bound to one relation/entity
// pair. Implementations declare the relation they read from and provide a
// prototype of their entity struct; the configurer does the rest.
type Repository interface {
	// RelationName is the plural relation name the repository is bound to.
	RelationName() string
	// EntityName is the singular entity name; empty means derive it from
	// the relation name through the configuration's inflector.
	EntityName() string
	// NewEntity returns a prototype of the entity struct (value or
	// pointer) used to register the entity type.
	NewEntity() any
}

// RelationBinder is implemented by repositories that want the resolved
// relation handed to them once the container is built.
type RelationBinder interface {
	BindRelation(*Relation)
}

// RepositoryConfigurer binds a repository into a configuration's
// relation/entity namespace before the container is built. Failures
// propagate unchanged to the bootstrap sequence, which translates them.
type RepositoryConfigurer interface {
	Configure(repo Repository, cfg *Configuration) error
}

// DefaultConfigurer registers the repository's relation with the builder
// and its entity under both plural and singular names.
type DefaultConfigurer struct{}

// Configure implements RepositoryConfigurer.
func (DefaultConfigurer) Configure(repo Repository, cfg *Configuration) error {
	name := repo.RelationName()
	if name == "" {
		return fmt.Errorf("repository %T declares no relation name", repo)
	}
	cfg.Builder().Relation(name)

	if entity := repo.NewEntity(); entity != nil {
		singular := repo.EntityName()
		if singular == "" {
			singular = cfg.Inflector().Singular(name)
		}
		cfg.RegisterEntity(name, singular, entity)
	}
	return nil
}
