package agent

import (
	"fmt"
	"sort"
	"sync"

	"github.com/kingrea/parley/internal/board"
)

// Config carries provider-specific settings (model name, seed, API
// options) opaquely through the registry.
type Config map[string]any

// SpymasterFactory constructs a spymaster for a team.
type SpymasterFactory func(name string, team board.Team, cfg Config) (Spymaster, error)

// OperativeFactory constructs an operative for a team.
type OperativeFactory func(name string, team board.Team, cfg Config) (Operative, error)

// Registry maintains the known agent providers so drivers can assemble
// rosters from configuration by provider id ("random", "openai", ...).
type Registry struct {
	mu         sync.RWMutex
	spymasters map[string]SpymasterFactory
	operatives map[string]OperativeFactory
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		spymasters: map[string]SpymasterFactory{},
		operatives: map[string]OperativeFactory{},
	}
}

// RegisterSpymaster installs a spymaster provider. The id must be new.
func (r *Registry) RegisterSpymaster(id string, factory SpymasterFactory) error {
	if id == "" {
		return fmt.Errorf("agent: provider id is required")
	}
	if factory == nil {
		return fmt.Errorf("agent: factory is required for %s", id)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.spymasters[id]; exists {
		return fmt.Errorf("agent: spymaster provider %s already registered", id)
	}
	r.spymasters[id] = factory
	return nil
}

// RegisterOperative installs an operative provider. The id must be new.
func (r *Registry) RegisterOperative(id string, factory OperativeFactory) error {
	if id == "" {
		return fmt.Errorf("agent: provider id is required")
	}
	if factory == nil {
		return fmt.Errorf("agent: factory is required for %s", id)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.operatives[id]; exists {
		return fmt.Errorf("agent: operative provider %s already registered", id)
	}
	r.operatives[id] = factory
	return nil
}

// MustRegisterSpymaster panics if registration fails.
func (r *Registry) MustRegisterSpymaster(id string, factory SpymasterFactory) {
	if err := r.RegisterSpymaster(id, factory); err != nil {
		panic(err)
	}
}

// MustRegisterOperative panics if registration fails.
func (r *Registry) MustRegisterOperative(id string, factory OperativeFactory) {
	if err := r.RegisterOperative(id, factory); err != nil {
		panic(err)
	}
}

// NewSpymaster constructs a spymaster from a registered provider.
func (r *Registry) NewSpymaster(providerID, name string, team board.Team, cfg Config) (Spymaster, error) {
	r.mu.RLock()
	factory, ok := r.spymasters[providerID]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("agent: unknown spymaster provider %s", providerID)
	}
	return factory(name, team, cfg)
}

// NewOperative constructs an operative from a registered provider.
func (r *Registry) NewOperative(providerID, name string, team board.Team, cfg Config) (Operative, error) {
	r.mu.RLock()
	factory, ok := r.operatives[providerID]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("agent: unknown operative provider %s", providerID)
	}
	return factory(name, team, cfg)
}

// Providers returns the sorted ids that offer both roles.
func (r *Registry) Providers() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.operatives))
	for id := range r.operatives {
		if _, ok := r.spymasters[id]; ok {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}
