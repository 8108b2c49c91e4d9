package log

import (
	"context"

	"go.uber.org/zap"
)

type contextKeyType struct{}

var contextKey contextKeyType

const poolKey = "pool"

// AttachArgs are used to create loggers to be attached to context object with
// pre-filled key-value pairs.
//
// Zero value fields are ignored.
type AttachArgs struct {
	// Pool is the name of the connection pool the context is operating on.
	Pool string

	AdditionalPairs map[string]interface{}
}

// Attach attaches a logger with data extracted from args into the context
// object.
func Attach(ctx context.Context, args AttachArgs) context.Context {
	kv := make([]interface{}, 0, len(args.AdditionalPairs)*2+2)
	if args.Pool != "" {
		kv = append(kv, poolKey, args.Pool)
	}
	for k, v := range args.AdditionalPairs {
		kv = append(kv, k, v)
	}

	l := C(ctx)
	if len(kv) > 0 {
		l = l.With(kv...)
	}
	return context.WithValue(ctx, contextKey, l)
}

// C is short for Context.
//
// It extracts the logger attached to the context object,
// and falls back to the global logger if none is found:
//
//	log.C(ctx).Errorw("Failed to close connection", "err", err)
//
// The return value is guaranteed to be non-nil.
func C(ctx context.Context) *zap.SugaredLogger {
	if l, ok := ctx.Value(contextKey).(*zap.SugaredLogger); ok && l != nil {
		return l
	}
	return With()
}
