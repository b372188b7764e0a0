package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/sealboard/internal/api"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the REST API and the MCP endpoint over HTTP",
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := openApp(cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	mcpServer := a.mcpServer(cfg, logger)
	mcpHandler := sdkmcp.NewStreamableHTTPHandler(
		func(*http.Request) *sdkmcp.Server { return mcpServer },
		&sdkmcp.StreamableHTTPOptions{SessionTimeout: 30 * time.Minute},
	)

	handler := api.NewHandler(api.Services{
		Projects:   a.projects,
		MasterData: a.masterData,
		Activity:   a.activity,
	}, logger, version)
	router := api.NewRouter(handler, api.AuthOptions{
		Enabled:       cfg.Auth.Enabled,
		JWTSecret:     cfg.Auth.JWTSecret,
		DefaultTenant: cfg.Auth.DefaultTenant,
	}, map[string]http.Handler{
		"/mcp":   mcpHandler,
		"/mcp/*": mcpHandler,
	})

	srv := &http.Server{
		Addr:        cfg.Server.Addr(),
		Handler:     router,
		ReadTimeout: cfg.Server.ReadTimeout.Std(),
		// WriteTimeout is left to the handlers; MCP streams stay open.
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("server listening", "addr", srv.Addr, "auth", cfg.Auth.Enabled, "db", cfg.DB.Path)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout.Std())
		defer cancel()
		logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
