package ecs

import "github.com/keystone-ecs/ecs/internal/ecserr"

// These re-export the shared sentinel errors so callers of the core
// package never need to import internal/ecserr themselves.
var (
	ErrOutOfCapacity        = ecserr.ErrOutOfCapacity
	ErrUnknownComponentType = ecserr.ErrUnknownComponentType
	ErrComponentIndexFull   = ecserr.ErrComponentIndexFull
	ErrUnknownFactory       = ecserr.ErrUnknownFactory
)
