// Package logger provides a structured, levelled logger built on log/slog.
//
// WithCtx returns the request-scoped logger injected by the HTTP Logger
// middleware, so every line from a handler carries the request id:
//
//	log := logger.WithCtx(r.Context())
//	log.Info("product created", "product_id", p.ID)
//	// → time=... level=INFO msg="product created" request_id=5f0c… product_id=12
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/shashiranjanraj/catalog/config"
)

var L *slog.Logger

func init() {
	L = slog.New(consoleHandler(config.AppEnv(), os.Stdout))
	slog.SetDefault(L)
}

// Options configures Init.
type Options struct {
	Env    string
	Output io.Writer

	// MongoURI enables the MongoDB sink when non-empty.
	MongoURI        string
	MongoDB         string
	MongoCollection string
}

// OptionsFromConfig reads APP_ENV and LOG_MONGO_* from config.
func OptionsFromConfig() Options {
	return Options{
		Env:             config.AppEnv(),
		Output:          os.Stdout,
		MongoURI:        config.LogMongoURI(),
		MongoDB:         config.LogMongoDB(),
		MongoCollection: config.LogMongoCollection(),
	}
}

// Init rebuilds L from opts. The returned func flushes and closes any
// external sink and must be called on shutdown.
func Init(opts Options) (func(), error) {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	handler := consoleHandler(opts.Env, opts.Output)
	closer := func() {}

	if opts.MongoURI != "" {
		mh, err := NewMongoHandler(opts.MongoURI, opts.MongoDB, opts.MongoCollection)
		if err != nil {
			return closer, fmt.Errorf("logger: %w", err)
		}
		handler = NewMultiHandler(handler, mh)
		closer = mh.Close
	}

	L = slog.New(handler)
	slog.SetDefault(L)
	return closer, nil
}

// consoleHandler emits JSON in production and text everywhere else.
func consoleHandler(env string, w io.Writer) slog.Handler {
	switch env {
	case "production", "prod":
		return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})
	default:
		return slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug})
	}
}

// ─────────────────────────────────────────────
// Context-aware logger
// ─────────────────────────────────────────────

type ctxKey struct{}

// WithCtx returns the logger stored by InjectLogger, or L.
func WithCtx(ctx context.Context) *slog.Logger {
	if log, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok && log != nil {
		return log
	}
	return L
}

// InjectLogger stores log in ctx. Called by the Logger middleware.
func InjectLogger(ctx context.Context, log *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, log)
}

// Debug logs at DEBUG level.
func Debug(msg string, args ...any) { L.Debug(msg, args...) }

// Info logs at INFO level.
func Info(msg string, args ...any) { L.Info(msg, args...) }

// Warn logs at WARN level.
func Warn(msg string, args ...any) { L.Warn(msg, args...) }

// Error logs at ERROR level.
func Error(msg string, args ...any) { L.Error(msg, args...) }
