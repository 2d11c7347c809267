package graphql

import (
	"time"

	"github.com/graph-gophers/graphql-fn/config"
	"github.com/graph-gophers/graphql-fn/log"
	"github.com/graph-gophers/graphql-fn/ratelimit"
	"github.com/graph-gophers/graphql-fn/trace/tracer"
)

// EngineOpt is an option for NewEngine and ParseSchema.
type EngineOpt func(*Engine)

// MaxDepth specifies the maximum field nesting depth in a query. The default is 50; 0
// disables the check.
func MaxDepth(n int) EngineOpt {
	return func(e *Engine) {
		e.maxDepth = n
	}
}

// MaxParallelism specifies the maximum number of resolvers per request allowed to run in
// parallel. The default is 10; 0 removes the limit.
func MaxParallelism(n int) EngineOpt {
	return func(e *Engine) {
		e.maxParallelism = n
	}
}

// Timeout bounds every request. When it runs out no further resolvers are started and the
// response carries a DeadlineExceededError.
func Timeout(d time.Duration) EngineOpt {
	return func(e *Engine) {
		e.timeout = d
	}
}

// Tracer is used to trace queries and fields. It defaults to noop.Tracer.
func Tracer(t tracer.Tracer) EngineOpt {
	return func(e *Engine) {
		e.tracer = t
	}
}

// Logger is used to log panics during query execution. It defaults to log.DefaultLogger.
func Logger(logger log.Logger) EngineOpt {
	return func(e *Engine) {
		e.logger = logger
	}
}

// RateLimiter is consulted before a request is parsed.
func RateLimiter(rl ratelimit.RateLimiter) EngineOpt {
	return func(e *Engine) {
		e.rateLimiter = rl
	}
}

// RootValue is handed to the resolvers of the root fields as their parent.
func RootValue(root interface{}) EngineOpt {
	return func(e *Engine) {
		e.root = root
	}
}

// RequestIDExtension adds the request id used in the logs to the response extensions.
func RequestIDExtension() EngineOpt {
	return func(e *Engine) {
		e.requestIDs = true
	}
}

// UseMiddleware wraps execution. The first middleware given is the outermost.
func UseMiddleware(mw ...Middleware) EngineOpt {
	return func(e *Engine) {
		e.middleware = append(e.middleware, mw...)
	}
}

// WithConfig applies the limits held by cfg.
func WithConfig(cfg *config.Config) EngineOpt {
	return func(e *Engine) {
		if cfg == nil {
			return
		}
		e.maxDepth = cfg.MaxDepth
		e.maxParallelism = cfg.MaxParallelism
		e.timeout = cfg.Timeout
		e.requestIDs = cfg.RequestIDs
	}
}
