package app

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/golang-migrate/migrate/v4"
	pgmigrate "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/labstack/echo"
	"github.com/prometheus/client_golang/prometheus"

	"eventfoundry-api/internal/config"
	"eventfoundry-api/internal/controller"
	"eventfoundry-api/internal/metrics"
	"eventfoundry-api/internal/notify"
	"eventfoundry-api/internal/repo"
	"eventfoundry-api/internal/service"
	"eventfoundry-api/internal/watchdog"
	"eventfoundry-api/pkg/http_server"
	"eventfoundry-api/pkg/postgres"
)

func runMigrations(postgresDB *postgres.Postgres) {
	driver, err := pgmigrate.WithInstance(postgresDB.Database, &pgmigrate.Config{})
	if err != nil {
		log.Fatal(err)
	}

	migrations, err := migrate.NewWithDatabaseInstance("file://migrations/event-bid-migrations", "postgres", driver)
	if err != nil {
		log.Fatal(err)
	}

	if err := migrations.Up(); err != nil {
		if err.Error() == "no change" {
			log.Println("no change made by migration scripts")
		} else {
			log.Fatal(err)
		}
	}
}

func Run() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Configuration error: ", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	log.Println("Connecting database...")
	postgresDB, err := postgres.NewDB(cfg.PostgresConn)
	if err != nil {
		log.Fatal("Error occurred while connecting to db: ", err)
	}
	defer postgresDB.Close()

	log.Println("Running migrations...")
	runMigrations(postgresDB)

	registry := prometheus.NewRegistry()

	repositories := repo.NewRepositories(postgresDB)
	services := service.NewServices(&service.Dependencies{
		Repos:          repositories,
		Notifier:       notify.NewLogNotifier(logger),
		Metrics:        metrics.New(registry),
		Log:            logger,
		ShortlistSize:  cfg.ShortlistSize,
		FinalBidWindow: cfg.FinalBidWindow,
	})

	handler := echo.New()

	log.Println("Setup routes...")
	controller.SetupRoutesHandlers(handler, services, registry)

	log.Println("Starting bidding window watchdog...")
	dog := watchdog.New(watchdog.Config{
		Interval:     cfg.WatchdogInterval,
		SweepTimeout: cfg.WatchdogSweepTimeout,
	}, services.Bidding, logger)
	if err := dog.Start(context.Background()); err != nil {
		log.Fatal("Watchdog error: ", err)
	}

	log.Println("Starting server...")
	httpServer := http_server.New(handler, cfg.ServerAddress)

	log.Println("Ready to process requests...")

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	select {
	case s := <-interrupt:
		log.Println("Got signal: " + s.String())
	case err = <-httpServer.Notify():
		log.Fatal("Notify error: ", err)
	}

	log.Println("Shutting down...")
	stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := dog.Stop(stopCtx); err != nil {
		log.Println("Watchdog shutdown error: ", err)
	}

	err = httpServer.Shutdown()
	if err != nil {
		log.Fatal("Shutdown error: ", err)
	} else {
		log.Println("Successful shutdown")
	}
}
