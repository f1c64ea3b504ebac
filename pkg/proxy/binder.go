package proxy

import (
	"context"
	"log/slog"

	"github.com/leapstack-labs/modelproxy/pkg/model"
)

// Binder installs forwarding operations on public models from finalized
// resolutions.
type Binder struct {
	logger *slog.Logger
}

// NewBinder creates a binder. A nil logger discards output.
func NewBinder(logger *slog.Logger) *Binder {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Binder{logger: logger}
}

// Bind walks the resolution's configured operations in declaration order and
// installs one forwarding operation per descriptor on the public model,
// shadowing pre-existing operations of the same name; later descriptors for
// the same name overwrite earlier ones. Unresolved configurations get stubs
// that fail with the resolution's ConfigurationError in both calling
// conventions. Bind moves the configuration to its terminal state.
func (b *Binder) Bind(res *Resolution) {
	cfg := res.Handle.Config()
	public := cfg.Public

	if !res.Resolved() {
		for _, d := range cfg.Methods {
			switch d.Scope {
			case ScopeRecord:
				public.SetRecordOperation(d.Name, b.failingRecordOp(res.Err))
			default:
				public.SetOperation(d.Name, b.failingOp(res.Err))
			}
		}
		res.Handle.setState(StateFailing)
		b.logger.Warn("bound failing proxy stubs",
			"public", public.Name(), "proxy_for", cfg.ProxyFor, "methods", len(cfg.Methods))
		return
	}

	for _, d := range cfg.Methods {
		switch d.Scope {
		case ScopeRecord:
			public.SetRecordOperation(d.Name, b.forwardRecordOp(res.Internal, d.Name, cfg))
		default:
			public.SetOperation(d.Name, b.forwardOp(res.Internal, d.Name, cfg))
		}
		b.logger.Debug("bound proxy operation",
			"public", public.Name(), "internal", res.Internal.Name(),
			"operation", d.Name, "scope", d.Scope.String())
	}
	res.Handle.setState(StateActive)
}

// BindAll binds every resolution in order.
func (b *Binder) BindAll(resolutions []*Resolution) {
	for _, res := range resolutions {
		b.Bind(res)
	}
}

// forwardOp builds a type-level forwarding operation: resolve the internal
// operation by name at call time, issue it through the invocation adapter,
// transcode on success, and answer in whichever convention the caller used.
// Failures skip transcoding and propagate unchanged.
func (b *Binder) forwardOp(internal *model.Model, name string, cfg *Config) model.Operation {
	return func(ctx context.Context, args []any) (any, error) {
		op, ok := internal.Operation(name)
		if !ok {
			return failWith(args, &OperationError{Model: internal.Name(), Name: name, Scope: ScopeStatic})
		}
		cb, rest := SplitCallback(args)
		if cb != nil {
			Invoke(ctx, op, append(rest, b.transcodingCallback(cb, cfg)))
			return nil, nil
		}
		value, err := Invoke(ctx, op, rest).Await(ctx)
		if err != nil {
			return nil, err
		}
		return Transcode(value, cfg.Public.Name(), cfg.Public.Schema(), cfg.Strict), nil
	}
}

// forwardRecordOp builds a record-level forwarding operation. The public
// record and its internal counterpart are distinct storage entities linked
// only by a shared identifier, so the wrapper carries the caller's
// identifier into the internal model's operation rather than following any
// object reference.
func (b *Binder) forwardRecordOp(internal *model.Model, name string, cfg *Config) model.RecordOperation {
	return func(ctx context.Context, id string, args []any) (any, error) {
		op, ok := internal.RecordOperation(name)
		if !ok {
			return failWith(args, &OperationError{Model: internal.Name(), Name: name, Scope: ScopeRecord})
		}
		cb, rest := SplitCallback(args)
		if cb != nil {
			InvokeRecord(ctx, op, id, append(rest, b.transcodingCallback(cb, cfg)))
			return nil, nil
		}
		value, err := InvokeRecord(ctx, op, id, rest).Await(ctx)
		if err != nil {
			return nil, err
		}
		return Transcode(value, cfg.Public.Name(), cfg.Public.Schema(), cfg.Strict), nil
	}
}

// transcodingCallback wraps the caller's callback so successful values are
// transcoded before delivery. Errors pass through untouched.
func (b *Binder) transcodingCallback(cb Callback, cfg *Config) Callback {
	return func(err error, value any) {
		if err != nil {
			cb(err, nil)
			return
		}
		cb(nil, Transcode(value, cfg.Public.Name(), cfg.Public.Schema(), cfg.Strict))
	}
}

// failingOp is a stub that fails every call with err, in both conventions.
func (b *Binder) failingOp(err error) model.Operation {
	return func(_ context.Context, args []any) (any, error) {
		return failWith(args, err)
	}
}

func (b *Binder) failingRecordOp(err error) model.RecordOperation {
	return func(_ context.Context, _ string, args []any) (any, error) {
		return failWith(args, err)
	}
}

// failWith delivers err in the caller's convention: synchronously through a
// trailing callback when one is present, otherwise as the returned error.
func failWith(args []any, err error) (any, error) {
	if cb, _ := SplitCallback(args); cb != nil {
		cb(err, nil)
		return nil, nil
	}
	return nil, err
}
