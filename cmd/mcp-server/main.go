// Command mcp-server exposes the gowick tools to MCP clients.
//
// Usage:
//
//	mcp-server --transport stdio
//	mcp-server --transport http --addr :8080
//
// Over HTTP the MCP endpoint is /mcp and a liveness check is served on /health.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/njchilds90/gowick/internal/config"
	"github.com/njchilds90/gowick/internal/logging"
	"github.com/njchilds90/gowick/internal/mcpserver"
)

var version = "dev"

func main() {
	var (
		configPath string
		transport  string
		addr       string
	)
	cmd := &cobra.Command{
		Use:           "mcp-server",
		Short:         "Serve Wick's theorem tools over MCP",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("transport") {
				cfg.MCP.Transport = transport
			}
			if cmd.Flags().Changed("addr") {
				cfg.MCP.Addr = addr
			}
			logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return run(ctx, cfg, logger)
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "path to a YAML config file")
	cmd.Flags().StringVar(&transport, "transport", mcpserver.TransportStdio, "stdio or http")
	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address for the http transport")

	if err := cmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "mcp-server:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	srv := mcpserver.New(mcpserver.Options{Version: version, Workers: cfg.Engine.Workers, Logger: logger})
	switch cfg.MCP.Transport {
	case mcpserver.TransportStdio:
		return srv.Run(ctx, &mcp.StdioTransport{})
	case mcpserver.TransportHTTP:
		return serveHTTP(ctx, cfg.MCP.Addr, srv, logger)
	}
	return fmt.Errorf("transport %q is not supported", cfg.MCP.Transport)
}

func serveHTTP(ctx context.Context, addr string, srv *mcpserver.Server, logger *zap.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/mcp", recoverPanics(srv.HTTPHandler(), logger))
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status":  "ok",
			"version": version,
			"time":    time.Now().UTC().Format(time.RFC3339),
		})
	})

	// no write timeout: streamable HTTP keeps event streams open
	httpSrv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		logger.Info("mcp server listening", zap.String("addr", addr))
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return httpSrv.Shutdown(shutdownCtx)
}

func recoverPanics(next http.Handler, logger *zap.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.Error("panic in mcp handler", zap.Any("panic", rec), zap.ByteString("stack", debug.Stack()))
				http.Error(w, "internal server error", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
