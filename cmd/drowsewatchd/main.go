package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/celerix-dev/drowsewatch/internal/api"
	"github.com/celerix-dev/drowsewatch/internal/bootstrap"
	"github.com/celerix-dev/drowsewatch/internal/config"
	"github.com/celerix-dev/drowsewatch/internal/records"
	"github.com/celerix-dev/drowsewatch/internal/seed"
	"github.com/celerix-dev/drowsewatch/internal/server"
	"github.com/celerix-dev/drowsewatch/internal/vault"
	"github.com/celerix-dev/drowsewatch/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

func main() {
	configPath := flag.String("config", "configs/default.yaml", "path to the YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Env)
	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("drowsewatchd stopped")
	}
}

func run(cfg config.Config, log zerolog.Logger) error {
	log.Info().Msg("starting drowsewatch daemon")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := bootstrap.OpenStore(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() {
		log.Info().Msg("finalizing disk writes")
		if err := store.Close(); err != nil {
			log.Error().Err(err).Msg("close store")
		}
	}()

	svc := records.NewService(store,
		records.WithDefaultUsers(seed.Users()),
		records.WithReports(seed.Reports()),
		records.WithStrictNotFound(cfg.StrictNotFound),
	)

	var guard seed.Guard
	if err := seed.NewSeeder(svc, seed.Users(), seed.Reports(), log).Run(ctx, &guard); err != nil {
		return err
	}

	// TCP protocol, only for stores this process owns.
	var router *server.Router
	if cfg.TCPPort > 0 && store.Backend != bootstrap.BackendRemote {
		router = server.NewRouter(store, log)
		if !cfg.DisableTLS {
			cert, err := vault.GenerateSelfSignedCert()
			if err != nil {
				return fmt.Errorf("generate tls certificate: %w", err)
			}
			router.SetCertificate(cert)
		}
		go func() {
			port := strconv.Itoa(cfg.TCPPort)
			log.Info().Str("port", port).Bool("tls", !cfg.DisableTLS).Msg("record store listening (TCP)")
			if err := router.Listen(port); err != nil {
				log.Error().Err(err).Msg("tcp server failed")
				stop()
			}
		}()
	}

	if cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	h := &api.Handler{Records: svc, Log: log}
	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.HTTPPort),
		Handler:           api.NewEngine(h, log, cfg.CORSOrigin),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("http api listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("http server failed")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	if router != nil {
		if err := router.Stop(); err != nil {
			log.Error().Err(err).Msg("tcp shutdown")
		}
	}
	return nil
}
