// Package engine orchestrates the model-proxy boot sequence: it builds the
// namespace from model definitions, registers proxy configurations, connects
// the datasource, fires the boot signal, finalizes name resolution, and
// installs the proxy bindings.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/leapstack-labs/modelproxy/internal/loader"
	"github.com/leapstack-labs/modelproxy/pkg/connector"
	"github.com/leapstack-labs/modelproxy/pkg/model"
	"github.com/leapstack-labs/modelproxy/pkg/proxy"
)

// Config holds engine configuration.
type Config struct {
	// Definitions are the model definitions to register. Either Definitions
	// or ModelsDir must be set.
	Definitions []*loader.Definition
	// ModelsDir is the directory to load definitions from when Definitions
	// is nil.
	ModelsDir string
	// Datasource configures the backing store shared by attached models.
	Datasource connector.Config
	// Logger is the structured logger (optional, uses discard if nil).
	Logger *slog.Logger
}

// Engine wires models, proxy registry, datasource, and binder together for
// one process.
type Engine struct {
	logger      *slog.Logger
	ds          model.DataSource
	ns          *model.Namespace
	registry    *proxy.Registry
	binder      *proxy.Binder
	resolutions []*proxy.Resolution
	booted      bool
}

// New creates an engine and registers all models and proxy configurations.
// Nothing is resolved or bound until Boot.
func New(cfg Config) (*Engine, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	defs := cfg.Definitions
	if defs == nil {
		var err error
		defs, err = loader.LoadDir(cfg.ModelsDir)
		if err != nil {
			return nil, fmt.Errorf("failed to load model definitions: %w", err)
		}
	}

	ds, err := connector.New(cfg.Datasource, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create datasource: %w", err)
	}

	e := &Engine{
		logger:   logger,
		ds:       ds,
		ns:       model.NewNamespace(),
		registry: proxy.NewRegistry(),
		binder:   proxy.NewBinder(logger),
	}

	// Registration phase: define every model, attach datasources, and store
	// proxy configurations unresolved. Definition order is registration
	// order, which also fixes binding order at boot.
	for _, def := range defs {
		m := model.New(def.Name, model.NewSchema(def.Name, def.Properties))
		if def.Datasource {
			m.Attach(ds)
		}
		e.ns.Add(m)

		if def.Proxy != nil {
			e.registry.Register(m, proxy.Options{
				ProxyFor: def.Proxy.For,
				Methods:  def.Proxy.Methods,
				Strict:   def.Proxy.Strict,
			})
			logger.Debug("registered proxy config",
				"public", def.Name, "proxy_for", def.Proxy.For,
				"methods", len(def.Proxy.Methods), "strict", def.Proxy.Strict)
		}
	}

	logger.Debug("engine initialized", "models", e.ns.Count(), "proxies", e.registry.Count())
	return e, nil
}

// Boot connects the datasource, fires the boot signal, finalizes proxy name
// resolution, and binds every resolution. Unresolvable proxies do not fail
// the boot; they are bound to failing stubs and reported in Resolutions.
func (e *Engine) Boot(ctx context.Context) error {
	if e.booted {
		return fmt.Errorf("engine already booted")
	}

	if err := e.ds.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect datasource: %w", err)
	}

	e.ns.Boot()
	e.resolutions = e.registry.Finalize(e.ns.Lookup)
	e.binder.BindAll(e.resolutions)
	e.booted = true

	for _, res := range e.resolutions {
		if !res.Resolved() {
			e.logger.Warn("proxy unresolved at boot",
				"public", res.Handle.Config().Public.Name(),
				"proxy_for", res.Handle.Config().ProxyFor)
		}
	}

	e.logger.Info("boot complete",
		"models", e.ns.Count(), "proxies", len(e.resolutions), "datasource", e.ds.Name())
	return nil
}

// Close releases the datasource.
func (e *Engine) Close() error {
	return e.ds.Close()
}

// Namespace returns the engine's model namespace.
func (e *Engine) Namespace() *model.Namespace {
	return e.ns
}

// Registry returns the engine's proxy registry.
func (e *Engine) Registry() *proxy.Registry {
	return e.registry
}

// DataSource returns the shared datasource.
func (e *Engine) DataSource() model.DataSource {
	return e.ds
}

// Resolutions returns the boot-time resolutions, nil before Boot.
func (e *Engine) Resolutions() []*proxy.Resolution {
	return e.resolutions
}

// Model returns a registered model by name, independent of boot state.
func (e *Engine) Model(name string) (*model.Model, bool) {
	for _, m := range e.ns.Models() {
		if m.Name() == name {
			return m, true
		}
	}
	return nil, false
}

// CallStatic invokes a type-level operation on a model and awaits the result.
func (e *Engine) CallStatic(ctx context.Context, modelName, opName string, args ...any) (any, error) {
	m, ok := e.Model(modelName)
	if !ok {
		return nil, fmt.Errorf("unknown model %q", modelName)
	}
	op, ok := m.Operation(opName)
	if !ok {
		return nil, fmt.Errorf("model %q has no operation %q", modelName, opName)
	}
	return proxy.Invoke(ctx, op, args).Await(ctx)
}

// CallRecord invokes a record-level operation against the record of the
// model sharing the given identifier, and awaits the result.
func (e *Engine) CallRecord(ctx context.Context, modelName, opName, id string, args ...any) (any, error) {
	m, ok := e.Model(modelName)
	if !ok {
		return nil, fmt.Errorf("unknown model %q", modelName)
	}
	op, ok := m.RecordOperation(opName)
	if !ok {
		return nil, fmt.Errorf("model %q has no record operation %q", modelName, opName)
	}
	return proxy.InvokeRecord(ctx, op, id, args).Await(ctx)
}

// Call parses "Model.op" or "Model.prototype.op" and dispatches accordingly;
// record-level calls take the identifier as the first argument.
func (e *Engine) Call(ctx context.Context, target string, args ...any) (any, error) {
	parts := strings.Split(target, ".")
	switch {
	case len(parts) == 2:
		return e.CallStatic(ctx, parts[0], parts[1], args...)
	case len(parts) == 3 && parts[1] == "prototype":
		if len(args) == 0 {
			return nil, fmt.Errorf("record-level call %q requires an id argument", target)
		}
		id, ok := args[0].(string)
		if !ok {
			return nil, fmt.Errorf("record-level call %q: id must be a string", target)
		}
		return e.CallRecord(ctx, parts[0], parts[2], id, args[1:]...)
	default:
		return nil, fmt.Errorf("invalid call target %q (want Model.op or Model.prototype.op)", target)
	}
}
