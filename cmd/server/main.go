package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/thanhnp/web3relay/internal/api"
	"github.com/thanhnp/web3relay/internal/api/handlers"
	"github.com/thanhnp/web3relay/internal/config"
	"github.com/thanhnp/web3relay/internal/rpc"
	"github.com/thanhnp/web3relay/internal/storage"
	"github.com/thanhnp/web3relay/internal/storage/mongostore"
	"github.com/thanhnp/web3relay/pkg/logger"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "web3relay",
		Short: "Explorer relay answering from the cache and falling back to a live node",
		Long: `Serve POST /web3relay for the explorer front end.

Lookups are answered from the explorer cache (pebble or mongo) when possible
and from the node's websocket JSON-RPC otherwise.

Examples:
  web3relay
  web3relay --config /etc/web3relay/config.yaml`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(configPath)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "config.yaml", "Path to configuration file")
	return cmd
}

// cache is the explorer cache plus its shutdown.
type cache interface {
	handlers.Cache
	Close() error
}

func openCache(ctx context.Context, cfg config.CacheConfig, log *zap.Logger) (cache, error) {
	switch cfg.Driver {
	case config.DriverMongo:
		log.Info("Connecting to MongoDB cache", zap.String("database", cfg.MongoDatabase))
		return mongostore.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase)
	default:
		log.Info("Opening Pebble cache", zap.String("path", cfg.Path))
		return storage.Open(cfg.Path)
	}
}

func run(configPath string) error {
	// Load configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.Initialize(cfg.Log)
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	if cfg.Source == "embedded" {
		log.Info("No config file found, using the bundled example configuration", zap.String("path", configPath))
	} else {
		log.Info("Configuration loaded", zap.String("path", cfg.Source))
	}
	log.Info("Starting web3relay server...")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	connectCtx, connectCancel := context.WithTimeout(ctx, 30*time.Second)
	store, err := openCache(connectCtx, cfg.Cache, logger.Named("storage"))
	connectCancel()
	if err != nil {
		return fmt.Errorf("failed to open cache: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Error("Error closing cache", zap.Error(err))
		}
	}()

	node := rpc.Dial(ctx, rpc.Config{
		URL:               cfg.NodeURL(),
		ReconnectDelay:    cfg.Node.ReconnectDelay,
		ReconnectAttempts: cfg.Node.ReconnectAttempts,
	}, logger.Named("rpc"))
	defer node.Close()

	if node.Connected() {
		if _, err := node.DetectNode(ctx); err != nil {
			log.Warn("Node detection failed", zap.Error(err))
		}
	} else {
		log.Warn("Node not reachable at startup, requests will reconnect", zap.String("url", node.URL()))
	}

	traceFrom, _ := cfg.TraceFromBlock()
	h := handlers.New(node, store, handlers.Options{
		UseFiat:        cfg.Settings.UseFiat,
		TraceFromBlock: traceFrom,
		RetryInterval:  cfg.Node.RetryInterval,
	}, logger.Named("api"))

	router := api.NewRouter(h, node, cfg.Metrics.Enabled, logger.Named("http"))

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      router.Engine(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("HTTP server listening", zap.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-quit:
		log.Info("Shutting down...", zap.String("signal", sig.String()))
	case err := <-errCh:
		return fmt.Errorf("HTTP server error: %w", err)
	}

	cancel()

	// Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", zap.Error(err))
	}

	log.Info("Server stopped")
	return nil
}
