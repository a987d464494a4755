package tts

import (
	"fmt"
	"log/slog"
	"sync"
)

// Registry maps provider modes to backends. Populated once at startup,
// read-only afterward; safe for concurrent lookup.
type Registry struct {
	mu        sync.RWMutex
	providers map[Mode]Provider
}

// NewRegistry creates an empty provider registry.
func NewRegistry() *Registry {
	return &Registry{providers: make(map[Mode]Provider)}
}

// Register binds a provider to its mode. Re-registering a mode replaces
// the previous binding with a warning.
func (r *Registry) Register(p Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	mode := p.Mode().Canonical()
	if _, existed := r.providers[mode]; existed {
		slog.Warn("tts: provider already registered", "mode", mode)
	}
	r.providers[mode] = p
}

// Lookup returns the provider for a mode. The default alias resolves to
// the primary provider.
func (r *Registry) Lookup(mode Mode) (Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.providers[mode.Canonical()]
	if !ok {
		return nil, fmt.Errorf("tts: no provider registered for mode %q", mode)
	}
	return p, nil
}

// Modes returns the registered canonical modes.
func (r *Registry) Modes() []Mode {
	r.mu.RLock()
	defer r.mu.RUnlock()
	modes := make([]Mode, 0, len(r.providers))
	for m := range r.providers {
		modes = append(modes, m)
	}
	return modes
}
