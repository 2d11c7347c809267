package main

import (
	"context"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/graph-gophers/graphql-fn/relay"
)

func newServeCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the schema over HTTP for local testing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return c.serve(ctx)
		},
	}
	cmd.Flags().String("addr", ":8080", "Address to listen on.")
	_ = c.conf.BindPFlags(cmd.Flags())
	return cmd
}

func (c *cli) serve(ctx context.Context) error {
	e, closeTracer, err := c.engine()
	if err != nil {
		return err
	}
	defer closeTracer()

	mux := http.NewServeMux()
	mux.Handle("/query", &relay.Handler{Engine: e})

	srv := &http.Server{
		Addr:              c.conf.GetString("addr"),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(_ net.Listener) context.Context { return c.context(context.Background()) },
	}

	errc := make(chan error, 1)
	go func() {
		c.logger.Info("listening", "addr", srv.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return errors.Wrap(err, "serving")
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "shutting down")
	}
	c.logger.Info("stopped")
	return nil
}
