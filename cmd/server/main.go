package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/NeuralTrust/XSSGuard/pkg/config"
	"github.com/NeuralTrust/XSSGuard/pkg/dependency_container"
	"github.com/NeuralTrust/XSSGuard/pkg/infra/database"
	infraLogger "github.com/NeuralTrust/XSSGuard/pkg/infra/logger"
	_ "github.com/NeuralTrust/XSSGuard/pkg/infra/migrations"
	"github.com/NeuralTrust/XSSGuard/pkg/infra/prometheus"
	"github.com/NeuralTrust/XSSGuard/pkg/server"
	"github.com/NeuralTrust/XSSGuard/pkg/version"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"
)

func main() {
	envFile := os.Getenv("ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil {
		log.Println("no .env file found, using system environment variables")
	}

	cfg, err := config.Load(configPath())
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := infraLogger.NewLogger(infraLogger.Config{
		Level:   cfg.Log.Level,
		File:    cfg.Log.File,
		Console: cfg.Log.Console,
	})
	logger.WithField("version", version.GetInfo().String()).Info("starting")

	if cfg.Metrics.Enabled {
		prometheus.Initialize()
	}

	db, err := database.NewDB(logger, &database.Config{
		Driver:   cfg.Database.Driver,
		Path:     cfg.Database.Path,
		DSN:      cfg.Database.DSN(),
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.DBName,
		SSLMode:  cfg.Database.SSLMode,
	})
	if err != nil {
		logger.Fatalf("failed to initialize database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.WithError(err).Warn("failed to close database")
		}
	}()

	container, err := dependency_container.NewContainer(dependency_container.ContainerDI{
		Cfg:    cfg,
		Logger: logger,
		DB:     db,
	})
	if err != nil {
		logger.Fatalf("failed to initialize dependency container: %v", err)
	}
	defer container.Close()

	srv := server.NewAppServer(server.AppServerDI{
		Config:              cfg,
		Logger:              logger,
		MiddlewareTransport: container.MiddlewareTransport,
		Routers:             container.Routers,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(srv.Run)
	g.Go(srv.RunMetrics)
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down server")
		return srv.Shutdown()
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.WithError(err).Error("server stopped with error")
		return
	}
	logger.Info("server gracefully stopped")
}

func configPath() string {
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		return p
	}
	return "./config"
}
