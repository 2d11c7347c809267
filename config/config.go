// Package config holds the engine limits in a form that can be loaded from files and
// environment variables.
package config

import "time"

type Config struct {
	MaxDepth       int           `mapstructure:"max-depth" yaml:"max-depth"`
	MaxParallelism int           `mapstructure:"max-parallelism" yaml:"max-parallelism"`
	Timeout        time.Duration `mapstructure:"timeout" yaml:"timeout"`
	RequestIDs     bool          `mapstructure:"request-ids" yaml:"request-ids"`
	// Tracer names the tracer the command line installs: noop, opentracing, jaeger or otel.
	Tracer string `mapstructure:"tracer" yaml:"tracer"`
}

func Default() *Config {
	return &Config{
		MaxDepth:       50,
		MaxParallelism: 10,
		Tracer:         "noop",
	}
}
