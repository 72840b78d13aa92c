package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/meshforce/pkg/pipeline"
	"github.com/matzehuels/meshforce/pkg/server"
	"github.com/matzehuels/meshforce/pkg/store"
)

// serveCommand creates the serve command that runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the layout HTTP API",
		Long: `Run the layout HTTP API.

Endpoints:
  GET  /healthz                  liveness and build info
  POST /v1/layouts               lay out the OBJ request body
  GET  /v1/layouts               list recent jobs
  GET  /v1/layouts/{id}          job record
  GET  /v1/layouts/{id}/result   encoded result of a finished job

Jobs are kept in MongoDB when server.mongo_uri is configured, otherwise in
memory.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("addr") {
				addr = c.cfg.Server.Addr
			}
			return c.runServe(cmd.Context(), addr, noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr string, noCache bool) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	st, err := c.newStore(ctx)
	if err != nil {
		return err
	}
	defer func() {
		// ctx is already canceled on shutdown.
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := st.Close(closeCtx); err != nil {
			c.Logger.Warn("close store", "err", err)
		}
	}()

	defaults := pipeline.DefaultOptions()
	defaults.Params = c.cfg.Layout
	defaults.Format = c.cfg.Output.Format

	srv := server.New(runner, st, c.Logger, server.Options{
		Defaults:     defaults,
		MaxBodyBytes: c.cfg.Server.MaxBodyBytes,
	})
	return srv.ListenAndServe(ctx, addr)
}

func (c *CLI) newStore(ctx context.Context) (store.Store, error) {
	if c.cfg.Server.MongoURI == "" {
		c.Logger.Info("using in-memory job store")
		return store.NewMemoryStore(), nil
	}
	st, err := store.NewMongoStore(ctx, c.cfg.Server.MongoURI, c.cfg.Server.Database)
	if err != nil {
		return nil, fmt.Errorf("connect job store: %w", err)
	}
	c.Logger.Info("using mongodb job store", "database", c.cfg.Server.Database)
	return st, nil
}
