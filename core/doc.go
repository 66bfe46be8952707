// Package core defines the domain model shared by the tether packages.
//
// The core package provides:
//   - Introspected relation schema types (Column, RelationSchema)
//   - Declarative relation-to-entity mappings (Mapping)
//   - The entity registry resolving entity definitions by plural and
//     singular name
//   - The Inflector used to derive singular names
//   - Sentinel errors shared across packages
//
// Service-facing interfaces follow the usual layering rules: interfaces
// are defined where they are consumed, constructors return concrete
// types, and errors are typed and wrapped.
package core
