package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/solatis/craftbook/internal/core/api"
	"github.com/solatis/craftbook/internal/core/config"
	"github.com/solatis/craftbook/internal/core/metrics"
	"github.com/solatis/craftbook/internal/core/server"
	"github.com/solatis/craftbook/internal/dictionary"
)

const shutdownTimeout = 30 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the gRPC logic service",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("host", "0.0.0.0", "gRPC server host")
	serveCmd.Flags().Int("port", 50061, "gRPC server port")
	serveCmd.Flags().Int("metrics-port", 9161, "metrics HTTP port (0 disables)")
	serveCmd.Flags().String("lst-dir", "", "directory holding ParamNames.lst and ItemNames.lst")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, map[string]string{
		"server.host":         "host",
		"server.port":         "port",
		"server.metrics_port": "metrics-port",
		"dictionary.lst_dir":  "lst-dir",
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	lookup, closeLookup, err := serveLookup(ctx, cfg.Dictionary)
	if err != nil {
		return err
	}
	defer closeLookup()

	m := metrics.New()
	service, err := api.NewLogicService(api.Options{
		Render:           cfg.Render.Build(),
		Lookup:           lookup,
		Metrics:          m,
		Log:              logger,
		MaxExpressionLen: cfg.Server.MaxExpressionLen,
	})
	if err != nil {
		return fmt.Errorf("failed to create service: %w", err)
	}

	grpcServer, err := server.NewGRPCServer(cfg.Server, service, logger)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}
	var metricsServer *server.MetricsServer
	if addr := cfg.Server.MetricsAddr(); addr != "" {
		metricsServer = server.NewMetricsServer(addr, m, logger)
	}

	logger.Info("starting craftbook logic service",
		zap.String("version", Version),
		zap.String("addr", cfg.Server.Addr()),
		zap.String("metrics_addr", cfg.Server.MetricsAddr()))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return grpcServer.Start(gctx)
	})
	if metricsServer != nil {
		g.Go(func() error {
			return metricsServer.Start(gctx)
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down gracefully")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		errs := []error{grpcServer.Shutdown(shutdownCtx)}
		if metricsServer != nil {
			errs = append(errs, metricsServer.Shutdown(shutdownCtx))
		}
		return errors.Join(errs...)
	})
	return g.Wait()
}

// serveLookup picks the request dictionary: per-request database lookups
// when a database is configured, the in-memory LST table otherwise.
func serveLookup(ctx context.Context, cfg config.DictionaryConfig) (api.LookupFunc, func(), error) {
	if cfg.DBURL == "" {
		table, err := loadDictionary(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		return api.StaticLookup(table), func() {}, nil
	}

	database, store, err := openStore(ctx, cfg.DBURL)
	if err != nil {
		return nil, nil, err
	}
	lookup := func(ctx context.Context) dictionary.Lookup {
		return store.WithContext(ctx)
	}
	return lookup, func() { database.Close() }, nil
}
