package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/Mindgrove-Technologies/sphinxcontrib-wavedrom/internal/server"
	"github.com/Mindgrove-Technologies/sphinxcontrib-wavedrom/pkg/cache"
)

// serveCommand creates the serve command for the diagram preview server.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the diagram preview server",
		Long: `Start the diagram preview server.

The server renders WaveJSON documents on demand, without touching the
filesystem:

    POST /api/render?format=svg|png   render the request body
    GET  /r/{id}                      fetch a rendered artifact
    GET  /healthz                     liveness probe
    GET  /metrics                     prometheus metrics

POST responses carry {"id","url","format"} pointing at the artifact, or
the image bytes directly when the request prefers an image content type.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, addrFlag string) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	addr := cfg.Server.Addr
	if addrFlag != "" {
		addr = addrFlag
	}

	store, err := c.newCache(ctx, cfg, false)
	if err != nil {
		return err
	}
	defer store.Close()

	srv := server.New(server.Options{
		Logger:   c.Logger,
		Renderer: cfg.NewRenderer(),
		Restyle:  cfg.RestyleOptions(),
		Skin:     cfg.Skin,
		DPI:      cfg.DPI,
		Cache:    store,
		// Server keys share the backend with CLI builds; the scope
		// prefix keeps the two populations distinguishable.
		Keyer: cache.NewScopedKeyer(cache.NewDefaultKeyer(), "server:"),
	})
	srv.RegisterMetrics()

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- httpServer.ListenAndServe() }()

	c.Logger.Info("preview server listening", "addr", addr)
	printInfo("Preview server at http://%s", addr)
	printNextStep("Try it", fmt.Sprintf("curl -sS -X POST --data-binary @diagram.json 'http://%s/api/render?format=svg'", addr))

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return ctx.Err()
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
