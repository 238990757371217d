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

	_ "github.com/lib/pq"
	goredis "github.com/redis/go-redis/v9"

	"gopass/internal/audit"
	"gopass/internal/checkin"
	checkinhandler "gopass/internal/checkin/handler"
	flighthandler "gopass/internal/flight/handler"
	flightservice "gopass/internal/flight/service"
	flightstore "gopass/internal/flight/store"
	"gopass/internal/jwtauth"
	passhandler "gopass/internal/pass/handler"
	passservice "gopass/internal/pass/service"
	passstore "gopass/internal/pass/store"
	"gopass/internal/platform/config"
	"gopass/internal/platform/httpserver"
	"gopass/internal/platform/logger"
	"gopass/internal/platform/metrics"
	platformredis "gopass/internal/platform/redis"
	"gopass/internal/reporting"
	reportinghandler "gopass/internal/reporting/handler"
	httptransport "gopass/internal/transport/http"
)

// main wires dependencies and owns the server lifecycle. Business logic
// lives in the internal service packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	var (
		passes  passstore.Store
		flights flightstore.Store
		ledger  audit.Store
		health  []httptransport.HealthChecker
	)

	if cfg.DatabaseURL != "" {
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			log.Error("open database", "error", err)
			os.Exit(1)
		}
		defer db.Close()

		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := db.PingContext(pingCtx); err != nil {
			cancel()
			log.Error("database unreachable", "error", err)
			os.Exit(1)
		}
		cancel()

		passes = passstore.NewPostgres(db)
		flights = flightstore.NewPostgres(db)
		ledger = audit.NewPostgresStore(db)
		health = append(health, dbHealth{db})
		log.Info("storage backend", "kind", "postgres")
	} else {
		passes = passstore.NewInMemory()
		flights = flightstore.NewInMemory()
		ledger = audit.NewInMemoryStore()
		log.Info("storage backend", "kind", "memory")
	}

	rdb, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Error("connect redis", "error", err)
		os.Exit(1)
	}
	var cache goredis.Cmdable
	if rdb != nil {
		defer rdb.Close()
		cache = rdb.Client
		health = append(health, rdb)
	}

	m := metrics.New()

	flightSvc, err := flightservice.New(flights, log)
	if err != nil {
		log.Error("build flight service", "error", err)
		os.Exit(1)
	}
	passSvc, err := passservice.New(passes, flightSvc, log, m)
	if err != nil {
		log.Error("build pass service", "error", err)
		os.Exit(1)
	}
	engine, err := checkin.New(passes, flightSvc, ledger, log, m)
	if err != nil {
		log.Error("build check-in engine", "error", err)
		os.Exit(1)
	}
	statsSvc, err := reporting.New(passes, ledger, cache, config.StatsCacheTTL, log)
	if err != nil {
		log.Error("build reporting service", "error", err)
		os.Exit(1)
	}

	tokens := jwtauth.NewService(cfg.JWTSigningKey, "gopass", "gopass-operators")

	router := httptransport.NewRouter(httptransport.Deps{
		Logger:     log,
		Validator:  tokens,
		Passes:     passhandler.New(passSvc, statsSvc, log),
		CheckIn:    checkinhandler.New(engine, log),
		Flights:    flighthandler.New(flightSvc, log),
		Reporting:  reportinghandler.New(statsSvc, log),
		HealthDeps: health,
	})

	srv := httpserver.New(cfg.Addr, router)

	go func() {
		log.Info("server listening", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
}

type dbHealth struct {
	db *sql.DB
}

func (h dbHealth) Health(ctx context.Context) error {
	return h.db.PingContext(ctx)
}
