package protocol

import (
	"fmt"
	"sort"
	"sync"
)

// Registry maintains the known protocol stages.
type Registry struct {
	mu     sync.RWMutex
	stages map[string]Stage
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{stages: map[string]Stage{}}
}

// Register installs a stage. Returns an error if the ID already exists.
func (r *Registry) Register(stage Stage) error {
	if stage == nil {
		return fmt.Errorf("protocol: stage is required")
	}
	id := stage.ID()
	if id == "" {
		return fmt.Errorf("protocol: stage id is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.stages[id]; exists {
		return fmt.Errorf("protocol: stage %s already registered", id)
	}
	r.stages[id] = stage
	return nil
}

// MustRegister panics if registration fails.
func (r *Registry) MustRegister(stage Stage) {
	if err := r.Register(stage); err != nil {
		panic(err)
	}
}

// Resolve looks a stage up by ID.
func (r *Registry) Resolve(id string) (Stage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	stage, ok := r.stages[id]
	if !ok {
		return nil, fmt.Errorf("protocol: unknown stage %q", id)
	}
	return stage, nil
}

// IDs returns the registered stage identifiers in protocol order. Stage IDs
// sort lexicographically into the documented 1a, 1b, 2, ... sequence.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.stages))
	for id := range r.stages {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Stages returns every registered stage in protocol order.
func (r *Registry) Stages() []Stage {
	ids := r.IDs()
	r.mu.RLock()
	defer r.mu.RUnlock()
	stages := make([]Stage, 0, len(ids))
	for _, id := range ids {
		stages = append(stages, r.stages[id])
	}
	return stages
}
