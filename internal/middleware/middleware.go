package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"
)

// Handler is one menu operation.
type Handler func(ctx context.Context) error

// Middleware wraps a Handler.
type Middleware func(name string, next Handler) Handler

// PanicError is returned by Recoverer when an operation panicked.
type PanicError struct {
	Operation string
	Value     any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("operation %q failed unexpectedly: %v", e.Operation, e.Value)
}

// Chain applies mws so that the first one is the outermost.
func Chain(name string, h Handler, mws ...Middleware) Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](name, h)
	}
	return h
}

// Logger logs every operation with its duration and outcome.
func Logger(logger *slog.Logger) Middleware {
	return func(name string, next Handler) Handler {
		return func(ctx context.Context) error {
			start := time.Now()
			err := next(ctx)

			attrs := []any{
				slog.String("operation", name),
				slog.Duration("duration", time.Since(start)),
			}
			if err != nil {
				logger.Info("operation failed", append(attrs, slog.Any("error", err))...)
				return err
			}
			logger.Info("operation completed", attrs...)
			return nil
		}
	}
}

// Recoverer turns a panic inside an operation into a *PanicError so the
// session can report it instead of crashing.
func Recoverer(logger *slog.Logger) Middleware {
	return func(name string, next Handler) Handler {
		return func(ctx context.Context) (err error) {
			defer func() {
				if v := recover(); v != nil {
					logger.Error("panic recovered",
						slog.String("operation", name),
						slog.Any("error", v),
						slog.String("stack", string(debug.Stack())),
					)
					err = &PanicError{Operation: name, Value: v}
				}
			}()
			return next(ctx)
		}
	}
}
