// Package world is the minimal runnable façade spec.md §6 names as an
// external collaborator of the storage/identity core: a name-addressable
// factory, a composition registry keyed by component shape, and the thin
// CreateEntity/CreateEntityAs/DeleteEntity/FindComponents surface the core
// itself deliberately excludes (spec.md §1). It contains no query
// planning beyond a linear scan over matching compositions, no scheduler,
// and no classpath scanning — those remain out of scope per spec.md's
// Non-goals.
package world

import (
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/keystone-ecs/ecs"
	"github.com/keystone-ecs/ecs/arraypool"
	"github.com/keystone-ecs/ecs/classindex"
	"github.com/keystone-ecs/ecs/config"
	"github.com/keystone-ecs/ecs/logging"
)

// World owns one ChunkedPool, one ClassIndex, and a registry mapping each
// distinct component shape to the Composition that owns it. Every
// Composition in the registry shares the World's pool, so a handle
// resolves to its entity in O(1) regardless of which composition produced
// it.
type World struct {
	name       string
	cfg        config.Config
	pool       *ecs.ChunkedPool
	classIndex *classindex.Index
	arrayPool  *arraypool.Pool
	log        logging.Context

	mu        sync.RWMutex
	byKey     map[string]*ecs.Composition
	resources Resources
	events    EventBus
}

// Factory builds a World from a validated Config. Providers register one
// under a name via Register; spec.md §6 calls this the "service-provider
// mechanism supplied by the host".
type Factory func(config.Config) (*World, error)

var (
	providersMu sync.RWMutex
	providers   = map[string]Factory{}
)

func init() {
	Register("default", newDefaultWorld)
}

// Register installs a named World factory. Call from an init() in a
// provider package; the core ships its own implementation under "default".
func Register(name string, factory Factory) {
	providersMu.Lock()
	defer providersMu.Unlock()
	providers[name] = factory
}

func newDefaultWorld(cfg config.Config) (*World, error) {
	level := logging.LevelInfo
	switch cfg.LogLevel {
	case "trace":
		level = logging.LevelTrace
	case "debug":
		level = logging.LevelDebug
	case "warn":
		level = logging.LevelWarn
	case "error":
		level = logging.LevelError
	}
	return &World{
		cfg:        cfg,
		pool:       ecs.NewChunkedPoolWithMultiplier(ecs.NewIdSchema(cfg.ChunkBit), cfg.IdStackCapacityMultiplier),
		classIndex: classindex.New(classindex.DefaultCapacity),
		arrayPool:  arraypool.New(6),
		log:        logging.NewContext(nil, level, "world"),
		byKey:      make(map[string]*ecs.Composition),
	}, nil
}

// Create builds a World with the "default" provider. Per spec.md §6 this
// is the factory's zero-argument overload.
func Create(opts ...config.Option) (*World, error) {
	return CreateNamed("default", opts...)
}

// CreateNamed builds a World with the named provider, returning
// ecs.ErrUnknownFactory if no provider is registered under that name, per
// spec.md §7's "Unknown factory" error kind.
func CreateNamed(name string, opts ...config.Option) (*World, error) {
	providersMu.RLock()
	factory, ok := providers[name]
	providersMu.RUnlock()
	if !ok {
		return nil, ecs.ErrUnknownFactory
	}
	cfg := config.Apply(opts...)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	w, err := factory(cfg)
	if err != nil {
		return nil, err
	}
	w.name = name
	return w, nil
}

// Name returns the name this World was created under.
func (w *World) Name() string { return w.name }

// Resources returns the World's resource registry.
func (w *World) Resources() *Resources { return &w.resources }

// Events returns the World's event bus.
func (w *World) Events() *EventBus { return &w.events }

// compositionKey canonicalizes an unordered type set into a lookup key,
// independent of argument order, so CreateEntity(A{}, B{}) and
// CreateEntity(B{}, A{}) resolve to the same Composition.
func compositionKey(types []reflect.Type) string {
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = t.String()
	}
	sort.Strings(names)
	return strings.Join(names, "\x00")
}

// compositionFor returns the Composition already interned for types,
// creating and registering a new one — with types in first-seen canonical
// order, per spec.md §3 — on first sight of this shape.
func (w *World) compositionFor(types []reflect.Type) (*ecs.Composition, error) {
	key := compositionKey(types)

	w.mu.RLock()
	c, ok := w.byKey[key]
	w.mu.RUnlock()
	if ok {
		return c, nil
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if c, ok = w.byKey[key]; ok {
		return c, nil
	}
	c, err := ecs.NewComposition(w.pool, w.classIndex, w.arrayPool, w.log, types...)
	if err != nil {
		return nil, err
	}
	w.byKey[key] = c
	return c, nil
}

func typesOf(components []any) []reflect.Type {
	types := make([]reflect.Type, len(components))
	for i, c := range components {
		types[i] = reflect.TypeOf(c)
	}
	return types
}

// CreateEntity interns the composition matching components' types (in
// whatever order they were interned first) and creates a new entity there.
func (w *World) CreateEntity(components ...any) (*ecs.Entity, error) {
	c, err := w.compositionFor(typesOf(components))
	if err != nil {
		return nil, err
	}
	return c.CreateEntity(components...)
}

// CreateEntityAs creates a new entity sharing prefab's composition. The
// supplied components must be exactly prefab's component types (any
// order); their values replace prefab's own. This is the façade's prefab
// convenience named in spec.md §6, not a core operation.
func (w *World) CreateEntityAs(prefab *ecs.Entity, components ...any) (*ecs.Entity, error) {
	c := prefab.Composition()
	if compositionKey(typesOf(components)) != compositionKey(c.ComponentTypes()) {
		return nil, ecs.ErrUnknownComponentType
	}
	return c.CreateEntity(components...)
}

// DeleteEntity removes entity from whichever composition currently owns
// it.
func (w *World) DeleteEntity(entity *ecs.Entity) {
	entity.Composition().DeleteEntity(entity)
}
