package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/docweave/docsearch/internal/mcp"
)

var flagMetricsAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve documentation search over MCP on stdio",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagMetricsAddr, "metrics-addr", "", "address for the Prometheus /metrics endpoint (empty disables)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := newApp(true)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// The loader publishes a cached corpus synchronously when one is
	// fresh, so search answers immediately; the network refresh continues
	// in the background.
	if err := a.loader.Start(ctx); err != nil {
		return err
	}
	a.enhancer.Start(ctx)

	if a.cfg.Source.File != "" {
		go func() {
			if err := a.loader.Watch(ctx); err != nil {
				a.log.Warn().Err(err).Msg("corpus file watch stopped")
			}
		}()
	}

	if flagMetricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			if err := http.ListenAndServe(flagMetricsAddr, mux); err != nil {
				a.log.Warn().Err(err).Msg("metrics endpoint stopped")
			}
		}()
	}

	server := mcp.NewServer(mcp.Deps{
		Engine:   a.engine,
		Loader:   a.loader,
		Enhancer: a.enhancer,
		Log:      a.log,
	})

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		a.log.Info().Msg("MCP server ready, listening on stdio")
		errChan <- server.Serve(ctx)
	}()

	select {
	case sig := <-sigChan:
		a.log.Info().Str("signal", sig.String()).Msg("shutting down")
		cancel()
		return nil
	case err := <-errChan:
		return err
	}
}
