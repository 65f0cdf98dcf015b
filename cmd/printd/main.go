package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/posdesk/printd/internal/api"
	"github.com/posdesk/printd/internal/config"
	"github.com/posdesk/printd/internal/core"
	"github.com/posdesk/printd/internal/db"
	"github.com/posdesk/printd/internal/escpos"
	"github.com/posdesk/printd/internal/registry"
)

const version = "1.2.0"

func main() {
	configPath := flag.String("config", "./config.yaml", "path to config file")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logrus.WithError(err).Fatal("failed to load config")
	}
	cfg.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		logrus.WithError(err).Fatal("invalid config")
	}

	log := newLogger(cfg.Logging)

	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		log.WithError(err).Fatal("failed to create data directory")
	}

	database, err := db.Open(cfg.Database.Path)
	if err != nil {
		log.WithError(err).Fatal("failed to open database")
	}
	defer database.Close()

	settings := db.NewSettingsStore(database)
	serverID, err := settings.ServerID(context.Background())
	if err != nil {
		log.WithError(err).Fatal("failed to resolve server identity")
	}
	log.WithFields(logrus.Fields{"server_id": serverID, "version": version}).Info("printd starting")

	reg := registry.New(cfg.Registry.PrintersPath, cfg.Registry.ClientsPath)

	renderer := core.NewRenderer(nil, log)
	executor := core.NewExecutor(renderer, func(w io.Writer) core.Sink {
		return escpos.NewDevice(w)
	}, cfg.Probe.PrintTimeout, log)

	router := api.NewRouter(cfg, reg, executor, settings, version)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.WithField("addr", srv.Addr).Info("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.WithError(err).Error("forced shutdown")
	}
}

func newLogger(cfg config.LoggingConfig) *logrus.Logger {
	log := logrus.New()

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	if cfg.Format == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	return log
}
