package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/ANIKETSHETTY47/smart-energy-dashboard/internal/api"
	"github.com/ANIKETSHETTY47/smart-energy-dashboard/internal/config"
	"github.com/ANIKETSHETTY47/smart-energy-dashboard/internal/export"
	"github.com/ANIKETSHETTY47/smart-energy-dashboard/internal/live"
	"github.com/ANIKETSHETTY47/smart-energy-dashboard/internal/server"
	"github.com/ANIKETSHETTY47/smart-energy-dashboard/internal/service"
	"github.com/ANIKETSHETTY47/smart-energy-dashboard/internal/viewstate"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	if err := config.Load(); err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}
	zerolog.SetGlobalLevel(config.LogLevel())
	logger := log.Logger

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := api.New(config.APIURL(), api.WithTimeout(config.HTTPTimeout()), api.WithLogger(logger))
	screens := server.NewScreens(service.New(client), viewstate.Options{
		NoticeTTL: config.NoticeTTL(),
		Logger:    logger,
	})
	defer screens.Close()

	store, err := exportStore(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("export store")
	}
	srv := server.New(screens, export.NewExporter(store, logger), logger)
	srv.Start(ctx)

	if broker := config.MQTTBroker(); broker != "" {
		mc, err := live.Connect(broker, "dashboard-"+uuid.NewString())
		if err != nil {
			log.Fatal().Err(err).Msg("mqtt connect")
		}
		sub := live.NewSubscriber(mc, config.MQTTRealtimeTopic(), screens.Dashboard, logger)
		if err := sub.Start(); err != nil {
			log.Fatal().Err(err).Msg("subscribe failed")
		}
		defer sub.Stop()
	}

	httpSrv := &http.Server{
		Addr:              config.DashboardAddr(),
		Handler:           srv,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return live.NewPoller(screens.Dashboard, config.RealtimePollInterval(), logger).Run(gctx)
	})
	g.Go(func() error {
		log.Info().Str("addr", httpSrv.Addr).Str("api", config.APIURL()).Msg("dashboard listening")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("server exit")
	}
}

// exportStore uploads to S3 when a bucket is configured and writes to the local export
// directory otherwise.
func exportStore(ctx context.Context) (export.Store, error) {
	if bucket := config.S3Bucket(); bucket != "" {
		return export.NewS3Store(ctx, config.AWSRegion(), bucket)
	}
	return export.DirStore{Dir: config.ExportDir()}, nil
}
