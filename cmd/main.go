package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"motor_monitoring/internal/handlers"
	"motor_monitoring/internal/health"
	"motor_monitoring/internal/logger"
	"motor_monitoring/internal/plc"
	"motor_monitoring/internal/repository"
	"motor_monitoring/internal/repository/db"
	"motor_monitoring/internal/server"
	"motor_monitoring/internal/service"
	"motor_monitoring/internal/state"
	"motor_monitoring/internal/ws"

	"github.com/spf13/viper"
)

func main() {
	cfgErr := loadConfig()

	log := logger.Get(viper.GetString("log.level"))
	if cfgErr != nil {
		log.Fatalw("error reading config", "err", cfgErr)
	}

	database, err := openDB(log)
	if err != nil {
		log.Fatalw("failed to init sqlite", "err", err)
	}
	defer func() {
		if cerr := database.Close(); cerr != nil {
			log.Errorw("failed to close sqlite", "err", cerr)
		}
	}()

	// shared state and live feed
	store := state.New(
		durationOr("timeouts.esp", 30*time.Second),
		durationOr("timeouts.plc", 60*time.Second),
	)
	hub := ws.New(log.Named("ws"), func() []ws.Envelope {
		snap, cs, h := store.View()
		return []ws.Envelope{
			{Type: ws.EventSensorUpdate, Data: snap},
			{Type: ws.EventStatusUpdate, Data: cs},
			{Type: ws.EventHealthUpdate, Data: h},
		}
	})

	plcClient, err := plc.NewClient(plc.Config{
		Endpoint: viper.GetString("plc.endpoint"),
		UnitID:   byte(viper.GetUint("plc.unit_id")),
		Timeout:  durationOr("plc.timeout", 3*time.Second),
	})
	if err != nil {
		log.Fatalw("failed to build plc client", "err", err)
	}
	defer func() { _ = plcClient.Close() }()

	// wire dependencies
	repos := repository.NewRepository(database)
	services := service.NewService(service.Deps{
		Repos:  repos,
		Store:  store,
		Scorer: health.NewScorer(health.DefaultConfig()),
		Reader: plcClient,
		Hub:    hub,
		Log:    log,
		Intervals: service.Intervals{
			Poll:     durationOr("intervals.poll", service.DefaultPollInterval),
			Analysis: durationOr("intervals.analysis", service.DefaultAnalysisInterval),
			Sweep:    durationOr("intervals.sweep", service.DefaultSweepInterval),
		},
		SigningKey: viper.GetString("auth.signing_key"),
	})
	apiHandler := handlers.NewHandler(services, hub, log)

	// context for background goroutines
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go hub.Run(ctx)
	go services.Scheduler.Run(ctx)

	srv := &server.Server{}
	runHTTPServer(srv, viper.GetString("port"), apiHandler, log)

	waitForShutdown(cancel, srv, log)
}

func loadConfig() error {
	viper.AddConfigPath("configs") // configs/config.yml
	viper.SetConfigName("config")
	return viper.ReadInConfig()
}

func durationOr(key string, def time.Duration) time.Duration {
	if d := viper.GetDuration(key); d > 0 {
		return d
	}
	return def
}

// openDB initializes the SQLite database using configuration.
func openDB(log *logger.Logger) (*sql.DB, error) {
	dbPath := viper.GetString("db.path")
	if dbPath == "" {
		log.Infow("db.path not set in config; using default file", "default", "motor_monitoring.db")
		dbPath = "motor_monitoring.db"
	}
	return db.InitDB(dbPath)
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, port string, handler *handlers.Handler, log *logger.Logger) {
	go func() {
		if port == "" {
			port = "8080"
		}
		if err := srv.Run(port, handler.InitRoutes()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown listens for termination signals and performs graceful shutdown.
func waitForShutdown(cancel context.CancelFunc, srv *server.Server, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	// stop the scheduler loops and the hub
	cancel()

	// allow in-flight requests to complete
	ctx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalw("server forced to shutdown", "err", err)
	}
}
