package main

import (
	"context"
	stdlog "log"
	"os"
	"strings"

	"github.com/go-logr/logr"
	"github.com/go-logr/stdr"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	graphql "github.com/graph-gophers/graphql-fn"
	"github.com/graph-gophers/graphql-fn/config"
	"github.com/graph-gophers/graphql-fn/log"
)

const envPrefix = "GRAPHQLFN"

// cli holds what every subcommand shares: the merged configuration and a logger.
type cli struct {
	conf   *viper.Viper
	logger logr.Logger
}

func newRootCmd() *cobra.Command {
	root, _ := buildRootCmd()
	return root
}

func buildRootCmd() (*cobra.Command, *cli) {
	c := &cli{conf: viper.New()}
	def := config.Default()

	root := &cobra.Command{
		Use:          "graphqlfn",
		Short:        "Serve a GraphQL schema the way a function runtime would",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.init()
		},
	}

	flags := root.PersistentFlags()
	flags.String("config", "", "Configuration file. Defaults to ./graphqlfn.yaml when present. "+
		"Values are overridden by "+envPrefix+"_* environment variables and flags.")
	flags.String("schema", "", "Path to the schema definition language file.")
	flags.String("resolvers", "", "Path to a YAML fixture of static field values keyed by type and field.")
	flags.Int("max-depth", def.MaxDepth, "Maximum field nesting depth of a query. 0 disables the check.")
	flags.Int("max-parallelism", def.MaxParallelism, "Maximum resolvers running in parallel per request. 0 removes the limit.")
	flags.Duration("timeout", def.Timeout, "Deadline for every request. 0 means none.")
	flags.Bool("request-ids", def.RequestIDs, "Add the request id to the response extensions.")
	flags.String("tracer", def.Tracer, "Tracer to install, one of [noop, opentracing, jaeger, otel].")
	flags.IntP("verbosity", "v", 0, "Log verbosity. 1 logs rejected requests, 2 logs every request.")
	_ = c.conf.BindPFlags(flags)

	root.AddCommand(newExecCmd(c), newServeCmd(c))
	return root, c
}

func (c *cli) init() error {
	c.conf.SetEnvPrefix(envPrefix)
	c.conf.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.conf.AutomaticEnv()

	if file := c.conf.GetString("config"); file != "" {
		c.conf.SetConfigFile(file)
		if err := c.conf.ReadInConfig(); err != nil {
			return errors.Wrap(err, "reading config")
		}
	} else {
		c.conf.SetConfigName("graphqlfn")
		c.conf.SetConfigType("yaml")
		c.conf.AddConfigPath(".")
		if err := c.conf.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return errors.Wrap(err, "reading config")
			}
		}
	}

	stdr.SetVerbosity(c.conf.GetInt("verbosity"))
	c.logger = stdr.New(stdlog.New(os.Stderr, "", stdlog.LstdFlags)).WithName("graphqlfn")
	return nil
}

// engineConfig decodes the engine limits from the merged flags, environment and file.
func (c *cli) engineConfig() (*config.Config, error) {
	cfg := config.Default()
	if err := c.conf.Unmarshal(cfg); err != nil {
		return nil, errors.Wrap(err, "decoding config")
	}
	return cfg, nil
}

// engine builds the engine described by the configuration. The returned function releases
// the tracer and must be called once the engine is no longer used.
func (c *cli) engine() (*graphql.Engine, func(), error) {
	cfg, err := c.engineConfig()
	if err != nil {
		return nil, nil, err
	}

	schemaPath := c.conf.GetString("schema")
	if schemaPath == "" {
		return nil, nil, errors.New("no schema given, set --schema")
	}
	sdl, err := os.ReadFile(schemaPath)
	if err != nil {
		return nil, nil, errors.Wrap(err, "reading schema")
	}

	var m map[string]map[string]interface{}
	if path := c.conf.GetString("resolvers"); path != "" {
		m, err = loadFixture(path)
		if err != nil {
			return nil, nil, err
		}
	}

	t, closeTracer, err := newTracer(cfg.Tracer, c.logger)
	if err != nil {
		return nil, nil, err
	}

	e, err := graphql.ParseSchema(string(sdl), fixtureResolvers(m),
		graphql.WithConfig(cfg),
		graphql.Tracer(t),
		graphql.Logger(&log.DefaultLogger{Sink: c.logger}),
	)
	if err != nil {
		closeTracer()
		return nil, nil, errors.Wrapf(err, "loading %s", schemaPath)
	}
	c.logger.V(1).Info("engine ready", "schema", schemaPath, "types", len(e.Schema().Types()),
		"tracer", cfg.Tracer, "max_depth", cfg.MaxDepth, "max_parallelism", cfg.MaxParallelism)
	return e, closeTracer, nil
}

func (c *cli) context(ctx context.Context) context.Context {
	return log.WithLogger(ctx, c.logger)
}
