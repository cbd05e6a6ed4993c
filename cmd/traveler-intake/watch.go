package main

import (
	"context"
	"errors"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/joseph-ayodele/traveler-intake/internal/async"
	"github.com/joseph-ayodele/traveler-intake/internal/export"
	"github.com/joseph-ayodele/traveler-intake/internal/ingest"
	"github.com/joseph-ayodele/traveler-intake/internal/pipeline"
)

var (
	flagDebounce   time.Duration
	flagHealthAddr string
)

var watchCmd = &cobra.Command{
	Use:   "watch DIR",
	Short: "Run an intake pass whenever documents or drawings land in DIR",
	Args:  cobra.ExactArgs(1),
	RunE:  runWatch,
}

func init() {
	addPassFlags(watchCmd)
	watchCmd.Flags().DurationVar(&flagDebounce, "debounce", 0, "quiet period before a pass starts (env INTAKE_WATCH_DEBOUNCE)")
	watchCmd.Flags().StringVar(&flagHealthAddr, "health-addr", "", "serve gRPC health checks on this address, e.g. :8081 (env INTAKE_HEALTH_ADDR)")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if flagDebounce > 0 {
		cfg.Watch.Debounce = flagDebounce
	}
	if flagHealthAddr != "" {
		cfg.Watch.HealthAddr = flagHealthAddr
	}
	logger := newLogger(cfg.Log, os.Stderr)
	dir := args[0]

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	proc, cleanup, err := buildProcessor(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	var hs *health.Server
	if cfg.Watch.HealthAddr != "" {
		lis, err := net.Listen("tcp", cfg.Watch.HealthAddr)
		if err != nil {
			return err
		}
		grpcServer := grpc.NewServer()
		hs = health.NewServer()
		healthpb.RegisterHealthServer(grpcServer, hs)
		hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
		reflection.Register(grpcServer)

		go func() {
			if err := grpcServer.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
				logger.Error("grpc serve failed", "error", err)
			}
		}()
		defer grpcServer.GracefulStop()
		logger.Info("health endpoint serving", "addr", lis.Addr().String())
	}

	exporter := export.NewService(logger)
	var queue async.Queue = async.NewPassQueue(proc, logger, async.WithReportHook(func(job async.Job, report *pipeline.Report, err error) {
		if hs != nil {
			status := healthpb.HealthCheckResponse_SERVING
			if err != nil {
				status = healthpb.HealthCheckResponse_NOT_SERVING
			}
			hs.SetServingStatus("traveler-intake.pass", status)
		}
		if report == nil || cfg.Export.Path == "" {
			return
		}
		if err := exporter.WriteFile(context.Background(), cfg.Export.Path, exportRows(report)); err != nil {
			logger.Error("export failed", "path", cfg.Export.Path, "error", err)
		}
	}))

	events, errs, err := ingest.StartWatcher(ctx, ingest.WatchConfig{
		Dir:         dir,
		InitialScan: true,
		Debounce:    cfg.Watch.Debounce,
		Logger:      logger,
	})
	if err != nil {
		queue.Shutdown(context.Background())
		return err
	}
	logger.Info("watching directory", "dir", dir, "debounce", cfg.Watch.Debounce, "dry_run", flagDryRun)

	for events != nil {
		select {
		case d, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			if err := queue.Enqueue(ctx, async.Job{Dir: d, Reason: "fs-event"}); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("enqueue failed", "dir", d, "error", err)
			}
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			logger.Warn("watcher reported an error", "error", err)
		}
	}

	logger.Info("shutting down...")
	if hs != nil {
		hs.Shutdown()
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	queue.Shutdown(shutdownCtx)
	return nil
}
