// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in the internal feature
// packages.
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	adminhandler "matadan/internal/admin/handler"
	adminservice "matadan/internal/admin/service"
	adminstore "matadan/internal/admin/store"
	"matadan/internal/audit"
	"matadan/internal/broadcast"
	electionhandler "matadan/internal/election/handler"
	electionservice "matadan/internal/election/service"
	electionstore "matadan/internal/election/store"
	httpapi "matadan/internal/http"
	jwttoken "matadan/internal/jwt_token"
	"matadan/internal/platform/config"
	"matadan/internal/platform/httpserver"
	"matadan/internal/platform/logger"
	"matadan/internal/platform/metrics"
	platformredis "matadan/internal/platform/redis"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.FromEnv()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer func() { _ = db.Close() }()

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}

	if err := electionstore.Migrate(ctx, db); err != nil {
		return err
	}
	if err := adminstore.Migrate(ctx, db); err != nil {
		return err
	}
	if err := audit.Migrate(ctx, db); err != nil {
		return err
	}

	m := metrics.New()

	rdb, err := platformredis.New(cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	if rdb != nil {
		defer func() { _ = rdb.Close() }()
	}

	hub := broadcast.NewHub(log, m)
	var broadcaster electionservice.Broadcaster = hub
	var bridge *broadcast.Bridge
	if rdb != nil {
		bridge = broadcast.NewBridge(hub, rdb, log)
		broadcaster = bridge
	}

	auditStore := audit.NewPostgresStore(db)
	auditPublisher := audit.NewPublisher(log)
	auditWorker := audit.NewWorker(auditStore, auditPublisher.Inbox(), log)

	jwtService := jwttoken.NewJWTService(cfg.JWTSigningKey, "matadan", cfg.TokenTTL)
	jwtValidator := jwttoken.NewJWTServiceAdapter(jwtService)

	stores := electionstore.NewPostgresStores(db)
	tx := electionstore.NewPostgresTx(db)
	electionSvc := electionservice.New(stores, tx, broadcaster, auditPublisher, log, m)

	adminSvc := adminservice.New(adminstore.NewPostgresStore(db), jwtService, auditPublisher, auditStore, log)
	if err := adminSvc.Seed(ctx, cfg.AdminUsername, cfg.AdminPassword); err != nil {
		return err
	}

	router := httpapi.NewRouter(log, httpapi.RouterDeps{
		Election: electionhandler.New(electionSvc, log, jwtValidator),
		Admin:    adminhandler.New(adminSvc, log, jwtValidator),
		Live:     broadcast.NewSSEHandler(hub, log),
		Metrics:  m,
		DB:       db,
		Redis:    rdb,
	})

	srv := httpserver.New(cfg.Addr, router)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting matadan server", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		return auditWorker.Run(gctx)
	})
	if bridge != nil {
		g.Go(func() error {
			return bridge.Run(gctx)
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	log.Info("server stopped")
	return nil
}
