package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/xtding233/ttk-backend/internal/config"
	"github.com/xtding233/ttk-backend/internal/game"
	"github.com/xtding233/ttk-backend/internal/logging"
	"github.com/xtding233/ttk-backend/internal/server"
	"github.com/xtding233/ttk-backend/internal/telemetry"
)

func main() {
	configDir := pflag.String("config", ".", "directory containing ttk.yaml")
	pflag.Parse()

	cfg, err := config.Load(*configDir)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log := logging.New(os.Stdout, cfg.LogLevel, cfg.LogPretty)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error().Err(err).Msg("server stopped")
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, log zerolog.Logger) error {
	metrics, err := telemetry.New()
	if err != nil {
		return err
	}

	srv := server.New(log, cfg.Sim, metrics)
	loader := game.NewLoader(cfg.DataDir)
	if err := srv.Reload(ctx, loader); err != nil {
		return fmt.Errorf("initial catalog load: %w", err)
	}
	hs := health.NewServer()
	srv.SetHealth(hs)

	if cfg.Watch {
		w := game.NewFileWatcher(cfg.DataDir, cfg.WatchDebounce, func(path string) {
			log.Info().Str("path", path).Msg("catalog changed")
			_ = srv.Reload(ctx, loader)
		})
		w.OnError(func(err error) {
			log.Warn().Err(err).Msg("catalog watcher error")
		})
		if err := w.Start(); err != nil {
			log.Warn().Err(err).Str("dir", cfg.DataDir).Msg("hot reload disabled")
		} else {
			defer w.Stop()
		}
	}

	grpcSrv := grpc.NewServer()
	healthpb.RegisterHealthServer(grpcSrv, hs)
	reflection.Register(grpcSrv)

	httpSrv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	if cfg.GRPCAddr != "" {
		g.Go(func() error {
			lis, err := net.Listen("tcp", cfg.GRPCAddr)
			if err != nil {
				return fmt.Errorf("grpc listen: %w", err)
			}
			log.Info().Str("addr", cfg.GRPCAddr).Msg("grpc health listening")
			return grpcSrv.Serve(lis)
		})
	}
	g.Go(func() error {
		log.Info().Str("addr", cfg.ListenAddr).Msg("http listening")
		if err := httpSrv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down")
		hs.Shutdown()
		grpcSrv.GracefulStop()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
