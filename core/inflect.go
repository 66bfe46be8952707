package core

import pluralize "github.com/gertd/go-pluralize"

// Inflector derives singular and plural relation/entity names. The
// bootstrapper uses it when a repository declares only its relation name.
type Inflector interface {
	Singular(word string) string
	Plural(word string) string
}

type pluralizeInflector struct {
	client *pluralize.Client
}

// DefaultInflector returns the pluralize-backed inflector.
func DefaultInflector() Inflector {
	return &pluralizeInflector{client: pluralize.NewClient()}
}

func (i *pluralizeInflector) Singular(word string) string {
	return i.client.Singular(word)
}

func (i *pluralizeInflector) Plural(word string) string {
	return i.client.Plural(word)
}
