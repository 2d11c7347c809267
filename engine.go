package graphql

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"github.com/segmentio/ksuid"
	"golang.org/x/sync/semaphore"

	qerrors "github.com/graph-gophers/graphql-fn/errors"
	gcontext "github.com/graph-gophers/graphql-fn/internal/context"
	"github.com/graph-gophers/graphql-fn/internal/exec"
	"github.com/graph-gophers/graphql-fn/internal/query"
	"github.com/graph-gophers/graphql-fn/internal/validation"
	"github.com/graph-gophers/graphql-fn/log"
	"github.com/graph-gophers/graphql-fn/ratelimit"
	"github.com/graph-gophers/graphql-fn/ratelimit/noop"
	"github.com/graph-gophers/graphql-fn/resolvers"
	"github.com/graph-gophers/graphql-fn/schema"
	noopTrace "github.com/graph-gophers/graphql-fn/trace/noop"
	"github.com/graph-gophers/graphql-fn/trace/tracer"
)

// Engine serves GraphQL requests against one schema and resolver registry. Both are
// read-only once the engine is built, so a single Engine is shared by all invocations.
type Engine struct {
	schema           *schema.Schema
	resolvers        *resolvers.Registry
	maxDepth         int
	maxParallelism   int
	timeout          time.Duration
	tracer           tracer.Tracer
	validationTracer tracer.ValidationTracer
	logger           log.Logger
	rateLimiter      ratelimit.RateLimiter
	root             interface{}
	requestIDs       bool
	middleware       []Middleware
	exec             Exec
}

// Request is one GraphQL request as it arrives from a transport.
type Request struct {
	Query         string                 `json:"query"`
	OperationName string                 `json:"operationName"`
	Variables     map[string]interface{} `json:"variables"`
}

// Response is the standard GraphQL response envelope. Data is absent when the request never
// reached execution and "null" when null propagation reached the root.
type Response struct {
	Data       json.RawMessage        `json:"data,omitempty"`
	Errors     []*qerrors.QueryError  `json:"errors,omitempty"`
	Extensions map[string]interface{} `json:"extensions,omitempty"`
}

// NewEngine checks that every resolver in reg is bound to a field declared in s and freezes
// the registry. A nil registry serves every field with the default property resolver.
func NewEngine(s *schema.Schema, reg *resolvers.Registry, opts ...EngineOpt) (*Engine, error) {
	if s == nil {
		return nil, errors.New("graphql: schema is nil")
	}
	if reg == nil {
		reg = resolvers.NewRegistry()
	}
	if err := reg.Check(s); err != nil {
		return nil, errors.Wrap(err, "graphql: invalid resolver registry")
	}
	reg.Freeze()

	e := &Engine{
		schema:         s,
		resolvers:      reg,
		maxDepth:       50,
		maxParallelism: 10,
		tracer:         noopTrace.Tracer{},
		logger:         log.NewDefaultLogger(),
		rateLimiter:    &noop.RateLimiter{},
	}
	for _, opt := range opts {
		opt(e)
	}
	if vt, ok := e.tracer.(tracer.ValidationTracer); ok {
		e.validationTracer = vt
	} else {
		e.validationTracer = noopTrace.Tracer{}
	}

	e.exec = e.execute
	for i := len(e.middleware) - 1; i >= 0; i-- {
		e.exec = e.middleware[i](e.exec)
	}
	return e, nil
}

// ParseSchema builds an engine from schema definition language and a resolver map.
func ParseSchema(sdl string, m resolvers.Map, opts ...EngineOpt) (*Engine, error) {
	b, err := schema.ParseSDL(sdl)
	if err != nil {
		return nil, err
	}
	s, err := b.Build()
	if err != nil {
		return nil, err
	}
	reg, err := resolvers.FromMap(m)
	if err != nil {
		return nil, err
	}
	return NewEngine(s, reg, opts...)
}

// MustParseSchema calls ParseSchema and panics on error.
func MustParseSchema(sdl string, m resolvers.Map, opts ...EngineOpt) *Engine {
	e, err := ParseSchema(sdl, m, opts...)
	if err != nil {
		panic(err)
	}
	return e
}

// Schema returns the type registry the engine executes against.
func (e *Engine) Schema() *schema.Schema {
	return e.schema
}

// Execute serves a decoded transport request.
func (e *Engine) Execute(ctx context.Context, req *Request) *Response {
	return e.Handle(ctx, req.Query, req.Variables, req.OperationName)
}

// Handle parses, validates and executes one request. Parse, validation and variable errors are
// returned without data and without calling any resolver. Field errors are returned alongside
// the data that could still be produced.
func (e *Engine) Handle(ctx context.Context, queryString string, variables map[string]interface{}, operationName string) *Response {
	requestID := ksuid.New().String()
	logger := log.FromContext(ctx).WithValues("request_id", requestID)
	if operationName != "" {
		logger = logger.WithValues("operation", operationName)
	}
	ctx = log.WithLogger(ctx, logger)
	ctx = gcontext.WithRequestID(ctx, requestID)

	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	start := time.Now()
	resp := e.exec(ctx, &Request{Query: queryString, OperationName: operationName, Variables: variables})
	logger.V(2).Info("graphql request served", "duration", time.Since(start), "errors", len(resp.Errors))

	if e.requestIDs {
		withID := *resp
		withID.Extensions = make(map[string]interface{}, len(resp.Extensions)+1)
		for k, v := range resp.Extensions {
			withID.Extensions[k] = v
		}
		withID.Extensions["requestId"] = requestID
		resp = &withID
	}
	return resp
}

func (e *Engine) execute(ctx context.Context, req *Request) *Response {
	logger := log.FromContext(ctx)
	queryString, operationName, variables := req.Query, req.OperationName, req.Variables

	if e.rateLimiter.LimitQuery(ctx, queryString, operationName, variables) {
		logger.V(1).Info("graphql request rate limited")
		return &Response{Errors: []*qerrors.QueryError{qerrors.Kindf(qerrors.RateLimitedError, "too many requests")}}
	}

	doc, qErr := query.Parse(queryString)
	if qErr != nil {
		logger.V(1).Info("graphql request rejected", "error", qErr.Message)
		return &Response{Errors: []*qerrors.QueryError{qErr}}
	}

	traceCtx, finish := e.tracer.TraceQuery(ctx, tracer.Request{
		ID:            gcontext.RequestID(ctx),
		Query:         queryString,
		OperationName: operationName,
		Variables:     variables,
	})

	validationFinish := e.validationTracer.TraceValidation(traceCtx)
	errs := validation.Validate(e.schema, doc, e.maxDepth)
	validationFinish(errs)
	if len(errs) != 0 {
		finish(errs)
		logger.V(1).Info("graphql request rejected", "errors", len(errs), "first", errs[0].Message)
		return &Response{Errors: errs}
	}

	op, qErr := validation.Operation(doc, operationName)
	if qErr != nil {
		finish([]*qerrors.QueryError{qErr})
		return &Response{Errors: []*qerrors.QueryError{qErr}}
	}

	vars, errs := exec.CoerceVariables(e.schema, op, variables)
	if len(errs) != 0 {
		finish(errs)
		logger.V(1).Info("graphql request rejected", "errors", len(errs), "first", errs[0].Message)
		return &Response{Errors: errs}
	}

	r := &exec.Request{
		Schema:    e.schema,
		Resolvers: e.resolvers,
		Doc:       doc,
		Vars:      vars,
		Root:      e.root,
		Tracer:    e.tracer,
		Logger:    e.logger,
	}
	if e.maxParallelism > 0 {
		r.Limiter = semaphore.NewWeighted(int64(e.maxParallelism))
	}

	data, errs := r.Execute(traceCtx, op)
	finish(errs)
	return &Response{Data: data, Errors: errs}
}
