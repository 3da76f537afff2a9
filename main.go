package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/roniherschmann/clicklog/internal/config"
	"github.com/roniherschmann/clicklog/internal/core"
	httpapi "github.com/roniherschmann/clicklog/internal/http"
	"github.com/roniherschmann/clicklog/internal/store"
)

func main() {
	// Fast JSON logs by default; pretty if running in a TTY/dev
	if isatty() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	} else {
		zerolog.TimeFieldFormat = time.RFC3339
	}

	cfg := config.Load()

	var dsnFlag string
	var portFlag int
	flag.StringVar(&dsnFlag, "dsn", "", "database URL (overrides env DATABASE_URL)")
	flag.IntVar(&portFlag, "port", 0, "listen port (overrides env PORT)")
	flag.Parse()
	if dsnFlag != "" {
		cfg.DatabaseURL = dsnFlag
	}
	if portFlag != 0 {
		cfg.Port = portFlag
	}

	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	} else {
		log.Warn().Str("level", cfg.LogLevel).Msg("unknown log level, using info")
	}

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("config")
	}

	db, dialect, err := store.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("open database")
	}
	defer db.Close()

	// Connection pool tuning
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	// Bootstrap schema once. A database that is down at startup is not fatal:
	// redirects still work and /stats shows the error until it comes back.
	migrateCtx, cancelMigrate := context.WithTimeout(context.Background(), 15*time.Second)
	if err := store.Migrate(migrateCtx, db, dialect); err != nil {
		log.Warn().Err(err).Str("dialect", string(dialect)).Msg("schema not initialized")
	}
	cancelMigrate()

	svc := core.NewService(store.NewSQL(db, dialect))

	// HTTP server
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           httpapi.NewRouter(svc),
		ReadHeaderTimeout: 5 * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info().Int("port", cfg.Port).Str("dialect", string(dialect)).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutdown signal")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}
	log.Info().Msg("bye")
}

func isatty() bool {
	fi, err := os.Stderr.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}
