package model

import (
	"sort"
	"sync"
)

// Namespace holds the models known to a process and acts as the type
// registry for late-bound name resolution. Models are added during the
// registration phase; Lookup resolves names only after Boot has fired, so
// configuration registered against a not-yet-defined model name stays
// unresolved until boot rather than failing eagerly.
type Namespace struct {
	mu     sync.RWMutex
	models map[string]*Model
	booted bool
}

// NewNamespace creates an empty namespace.
func NewNamespace() *Namespace {
	return &Namespace{models: make(map[string]*Model)}
}

// Add registers a model under its name.
// If multiple models share a name, the last added wins.
func (n *Namespace) Add(m *Model) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.models[m.Name()] = m
}

// Boot fires the boot signal. Models added after Boot are still stored but
// are not visible to consumers that captured resolutions at boot time.
func (n *Namespace) Boot() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.booted = true
}

// Booted reports whether the boot signal has fired.
func (n *Namespace) Booted() bool {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.booted
}

// Lookup resolves a model by name. Resolution is only available once the
// boot signal has fired; before that every lookup reports not found.
func (n *Namespace) Lookup(name string) (*Model, bool) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	if !n.booted {
		return nil, false
	}
	m, ok := n.models[name]
	return m, ok
}

// Models returns all registered models sorted by name. Unlike Lookup this
// works before boot; it serves enumeration, not proxy resolution.
func (n *Namespace) Models() []*Model {
	n.mu.RLock()
	defer n.mu.RUnlock()
	out := make([]*Model, 0, len(n.models))
	for _, m := range n.models {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}

// Count returns the number of registered models.
func (n *Namespace) Count() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.models)
}
