// Package proxy implements method proxying between data models: a public
// model declares which operations it forwards to an internal model, named by
// string and resolved only when the surrounding system fires its boot
// signal. Bound operations forward through a dual calling-convention
// adapter, and successful results are transcoded so they present as
// public-model values. Failures from the internal model propagate verbatim.
package proxy

import (
	"sync"

	"github.com/leapstack-labs/modelproxy/pkg/model"
)

// Options is the configuration surface for one proxy: the internal type
// name to resolve at boot, the operations to forward, and whether results
// are filtered to the public schema.
type Options struct {
	// ProxyFor is the internal model name, resolved at boot. Required.
	ProxyFor string
	// Methods lists operations to forward, in binding order. "name" binds a
	// type-level operation, "prototype.name" a record-level one.
	Methods []string
	// Strict restricts transcoded results to the public model's declared
	// fields.
	Strict bool
}

// Config is a registered proxy configuration. It is owned by the Registry
// and immutable after Finalize.
type Config struct {
	Public   *model.Model
	ProxyFor string
	Methods  []Descriptor
	Strict   bool
}

// State tracks a configuration through its lifecycle.
type State int

const (
	// StateRegistered: stored, internal name not yet resolved.
	StateRegistered State = iota
	// StateResolved: internal name resolved at boot, not yet bound.
	StateResolved
	// StateUnresolved: internal name was not resolvable at boot.
	StateUnresolved
	// StateActive: forwarding wrappers installed. Terminal.
	StateActive
	// StateFailing: failing stubs installed. Terminal.
	StateFailing
)

func (s State) String() string {
	switch s {
	case StateRegistered:
		return "registered"
	case StateResolved:
		return "resolved"
	case StateUnresolved:
		return "unresolved"
	case StateActive:
		return "active"
	case StateFailing:
		return "failing"
	default:
		return "unknown"
	}
}

// Handle refers to a registered configuration and tracks its state.
type Handle struct {
	mu     sync.Mutex
	config *Config
	state  State
}

// Config returns the configuration this handle refers to.
func (h *Handle) Config() *Config {
	return h.config
}

// State returns the configuration's current lifecycle state.
func (h *Handle) State() State {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state
}

func (h *Handle) setState(s State) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.state = s
}

// Resolution is the per-config outcome of Finalize: a resolved internal
// model, or an error naming the missing internal type. Exactly one
// Resolution exists per registered configuration.
type Resolution struct {
	Handle   *Handle
	Internal *model.Model
	Err      error
}

// Resolved reports whether the internal model was found.
func (r *Resolution) Resolved() bool {
	return r.Err == nil
}

// LookupFunc resolves an internal model by name. It is supplied by the type
// registry collaborator at boot.
type LookupFunc func(name string) (*model.Model, bool)

// Registry stores proxy configurations from registration until process end.
// Configurations are written before the boot signal and read-only after it;
// resolution of internal type names is deferred to Finalize.
type Registry struct {
	mu      sync.Mutex
	handles []*Handle
}

// NewRegistry creates an empty registry. Create one per process, or per test
// for isolation.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register stores a proxy configuration for the public model. Method strings
// are parsed once here; the internal type name stays unresolved until
// Finalize. Register never fails.
func (r *Registry) Register(public *model.Model, opts Options) *Handle {
	methods := make([]Descriptor, len(opts.Methods))
	for i, m := range opts.Methods {
		methods[i] = parseDescriptor(m)
	}
	h := &Handle{
		config: &Config{
			Public:   public,
			ProxyFor: opts.ProxyFor,
			Methods:  methods,
			Strict:   opts.Strict,
		},
		state: StateRegistered,
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handles = append(r.handles, h)
	return h
}

// Finalize resolves every stored configuration against lookup, in
// registration order. Configurations whose internal name resolves become
// Resolved; the rest become Unresolved with a ConfigurationError. Finalize
// is intended to run exactly once, at the boot signal; invoking it again
// with identical lookup results recomputes the same resolutions. Failed
// resolutions are never retried implicitly.
func (r *Registry) Finalize(lookup LookupFunc) []*Resolution {
	r.mu.Lock()
	defer r.mu.Unlock()

	resolutions := make([]*Resolution, 0, len(r.handles))
	for _, h := range r.handles {
		internal, ok := lookup(h.config.ProxyFor)
		if !ok {
			h.setState(StateUnresolved)
			resolutions = append(resolutions, &Resolution{
				Handle: h,
				Err: &ConfigurationError{
					PublicType:   h.config.Public.Name(),
					InternalType: h.config.ProxyFor,
				},
			})
			continue
		}
		h.setState(StateResolved)
		resolutions = append(resolutions, &Resolution{Handle: h, Internal: internal})
	}
	return resolutions
}

// Handles returns the registered handles in registration order.
func (r *Registry) Handles() []*Handle {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*Handle, len(r.handles))
	copy(out, r.handles)
	return out
}

// Count returns the number of registered configurations.
func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.handles)
}

// Reset drops all registrations. It exists for test isolation; production
// registries live for the process lifetime.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handles = nil
}
