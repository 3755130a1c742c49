// Package scooplog ports claircore's toolkit/log context-carried-attribute
// pattern: callers stash slog.Attr values on the context, and a wrapping
// slog.Handler splices them into every record logged through that context,
// without every call site needing to remember to pass them explicitly.
//
// This is the same mechanism as claircore's toolkit/log package
// (ctxkey.go/wrap.go); it's ported by hand rather than depended on because
// that package lives in claircore's own nested submodule, outside this
// module's dependency graph.
package scooplog

import (
	"context"
	"log/slog"
	"slices"
)

type ctxkey int

const (
	_ ctxkey = iota
	attrsKey
	levelKey
)

// With stores args (in slog.Logger.With's key-value-pairs shape) on ctx.
func With(ctx context.Context, args ...any) context.Context {
	return WithAttrs(ctx, argsToAttrs(args)...)
}

// WithAttrs stores attrs on ctx, merging with and overriding any attrs
// already present under the same key.
func WithAttrs(ctx context.Context, attrs ...slog.Attr) context.Context {
	if v, ok := ctx.Value(attrsKey).(slog.Value); ok {
		attrs = append(v.Group(), attrs...)
	}
	seen := make(map[string]struct{}, len(attrs))
	del := func(a slog.Attr) bool {
		_, dup := seen[a.Key]
		seen[a.Key] = struct{}{}
		return dup
	}
	slices.Reverse(attrs)
	attrs = slices.DeleteFunc(attrs, del)
	slices.Reverse(attrs)
	return context.WithValue(ctx, attrsKey, slog.GroupValue(attrs...))
}

// WithLevel stores a minimum level on ctx, consulted by WrapHandler.
func WithLevel(ctx context.Context, l slog.Leveler) context.Context {
	return context.WithValue(ctx, levelKey, l)
}

// StartOp stamps "component" and "op" attrs on ctx and returns a function
// that should be deferred to log completion at debug level. This replaces
// the inline zlog.ContextWithValues(ctx, "component", "pkg/Op") idiom
// claircore repeats at every call site with a single helper.
func StartOp(ctx context.Context, logger *slog.Logger, component, op string) (context.Context, func(*error)) {
	ctx = With(ctx, "component", component, "op", op)
	logger.DebugContext(ctx, "start")
	return ctx, func(errp *error) {
		if errp != nil && *errp != nil {
			logger.ErrorContext(ctx, "failed", "error", *errp)
			return
		}
		logger.DebugContext(ctx, "done")
	}
}

func argsToAttrs(args []any) []slog.Attr {
	attrs := make([]slog.Attr, 0, len(args)/2)
	for i := 0; i+1 < len(args); i += 2 {
		k, _ := args[i].(string)
		attrs = append(attrs, slog.Any(k, args[i+1]))
	}
	return attrs
}

// WrapHandler wraps next so that Handle splices in attrs stored by With and
// Enabled additionally consults a per-context minimum level from WithLevel.
func WrapHandler(next slog.Handler) slog.Handler { return handler{next: next} }

var _ slog.Handler = handler{}

type handler struct{ next slog.Handler }

func (h handler) Enabled(ctx context.Context, l slog.Level) bool {
	min := slog.Level(1<<31 - 1)
	if lv, ok := ctx.Value(levelKey).(slog.Leveler); ok {
		min = lv.Level()
	}
	return l >= min || h.next.Enabled(ctx, l)
}

func (h handler) Handle(ctx context.Context, r slog.Record) error {
	if v, ok := ctx.Value(attrsKey).(slog.Value); ok {
		r.AddAttrs(v.Group()...)
	}
	return h.next.Handle(ctx, r)
}

func (h handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return handler{next: h.next.WithAttrs(attrs)}
}

func (h handler) WithGroup(name string) slog.Handler {
	return handler{next: h.next.WithGroup(name)}
}
