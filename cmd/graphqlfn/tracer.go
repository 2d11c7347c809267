package main

import (
	"io"

	"github.com/go-logr/logr"
	gopentracing "github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"
	jaegercfg "github.com/uber/jaeger-client-go/config"
	jaegerlog "github.com/uber/jaeger-client-go/log"

	"github.com/graph-gophers/graphql-fn/trace/noop"
	"github.com/graph-gophers/graphql-fn/trace/opentracing"
	"github.com/graph-gophers/graphql-fn/trace/otel"
	"github.com/graph-gophers/graphql-fn/trace/tracer"
)

// newTracer returns the tracer named by name and a function releasing it.
func newTracer(name string, logger logr.Logger) (tracer.Tracer, func(), error) {
	switch name {
	case "", "noop":
		return noop.Tracer{}, func() {}, nil

	case "opentracing":
		// Spans go to whatever the host installed as the global tracer.
		return opentracing.Tracer{}, func() {}, nil

	case "jaeger":
		cfg, err := jaegercfg.FromEnv()
		if err != nil {
			return nil, nil, errors.Wrap(err, "reading jaeger configuration")
		}
		if cfg.ServiceName == "" {
			cfg.ServiceName = "graphqlfn"
		}
		t, closer, err := cfg.NewTracer(jaegercfg.Logger(jaegerlog.StdLogger))
		if err != nil {
			return nil, nil, errors.Wrap(err, "starting jaeger tracer")
		}
		gopentracing.SetGlobalTracer(t)
		return opentracing.Tracer{}, closeWith(closer, logger), nil

	case "otel":
		return otel.DefaultTracer(), func() {}, nil

	default:
		return nil, nil, errors.Errorf("unknown tracer %q, want one of [noop, opentracing, jaeger, otel]", name)
	}
}

func closeWith(c io.Closer, logger logr.Logger) func() {
	return func() {
		if err := c.Close(); err != nil {
			logger.Error(err, "closing tracer")
		}
	}
}
