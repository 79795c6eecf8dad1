package gamestrategy

import (
	"context"
	"fmt"

	"github.com/timechallenge/backend/pkg/errorx"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Registry maps a game type to the factory of its strategy. It is filled at
// startup and sealed before it is shared, after which lookups need no lock.
type Registry struct {
	factories map[string]Factory
	sealed    bool
}

func NewRegistry() *Registry {
	return &Registry{factories: map[string]Factory{}}
}

// NewDefaultRegistry returns a sealed registry with every shipped strategy.
func NewDefaultRegistry() *Registry {
	return NewRegistry().
		Register(TimerType, NewTimer).
		Seal()
}

// Register panics if the registry is sealed or the type is already
// registered, both being programming errors at startup.
func (r *Registry) Register(typeID string, factory Factory) *Registry {
	if r.sealed {
		panic(fmt.Sprintf("register game type %s on a sealed registry", typeID))
	}

	if _, ok := r.factories[typeID]; ok {
		panic(fmt.Sprintf("game type %s is registered twice", typeID))
	}

	r.factories[typeID] = factory
	return r
}

func (r *Registry) Seal() *Registry {
	r.sealed = true
	return r
}

func (r *Registry) Create(ctx context.Context, typeID string, config map[string]any) (Strategy, error) {
	factory, ok := r.factories[typeID]
	if !ok {
		return nil, errorx.New(errorx.UnsupportedGameType, "Game type %s is not supported", typeID)
	}

	return factory(ctx, config)
}

func (r *Registry) IsSupported(typeID string) bool {
	_, ok := r.factories[typeID]
	return ok
}

func (r *Registry) SupportedTypes() []string {
	types := maps.Keys(r.factories)
	slices.Sort(types)
	return types
}
