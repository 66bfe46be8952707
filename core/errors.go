package core

import "errors"

// Shared error constants
var (
	// ErrNotLoaded is returned when the container is accessed before a
	// successful bootstrap.
	ErrNotLoaded = errors.New("configuration not loaded")

	// ErrBlankURL is returned when the connection URL is missing or blank.
	ErrBlankURL = errors.New("connection URL is blank")

	// ErrUnknownBackend is returned when no dialect is registered for the
	// configured backend identifier.
	ErrUnknownBackend = errors.New("unknown backend")

	// ErrRelationNotFound is returned when a container does not hold the
	// requested relation.
	ErrRelationNotFound = errors.New("relation not found")

	// ErrEntityNotFound is returned when the entity registry has no entry
	// under the requested name.
	ErrEntityNotFound = errors.New("entity not found")

	// ErrGatewayNotFound is returned when a container does not hold the
	// requested gateway.
	ErrGatewayNotFound = errors.New("gateway not found")
)
