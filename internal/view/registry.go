package view

import "sync"

// Registry hands out one View per page key, so concurrent requests for the
// same page share state and supersede each other's refresh cycles.
type Registry struct {
	mu    sync.Mutex
	views map[string]*View
}

func NewRegistry() *Registry {
	return &Registry{views: make(map[string]*View)}
}

func (r *Registry) Get(key string) *View {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.views[key]
	if !ok {
		v = New()
		r.views[key] = v
	}
	return v
}
