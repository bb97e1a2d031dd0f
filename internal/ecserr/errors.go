// Package ecserr holds the sentinel errors shared by the core package and
// its leaf subpackage classindex. It exists only to let that subpackage
// return the same error identities the root package re-exports,
// without an import cycle back through the root package.
package ecserr

import "errors"

var (
	// ErrOutOfCapacity is returned when a pool has exhausted its
	// idSchema's chunkCount x chunkCapacity = 2^31 entity ceiling.
	ErrOutOfCapacity = errors.New("ecs: chunk pool exhausted its id capacity")
	// ErrUnknownComponentType is returned by the world façade's
	// CreateEntityAs when the supplied component types do not match the
	// prefab's composition.
	ErrUnknownComponentType = errors.New("ecs: component type has no interned index")
	// ErrComponentIndexFull is returned when interning a new component
	// type would exceed the ClassIndex's fixed capacity.
	ErrComponentIndexFull = errors.New("ecs: component index capacity exceeded")
	// ErrUnknownFactory is returned when a named engine implementation
	// cannot be resolved by the façade's service-provider lookup.
	ErrUnknownFactory = errors.New("ecs: no engine implementation registered for that name")
)
