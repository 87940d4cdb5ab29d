// Package http assembles the public router from the feature handlers.
package http

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	adminhandler "matadan/internal/admin/handler"
	"matadan/internal/broadcast"
	electionhandler "matadan/internal/election/handler"
	"matadan/internal/http/shared"
	"matadan/internal/platform/metrics"
	"matadan/internal/platform/middleware"
	"matadan/internal/platform/redis"
)

const apiTimeout = 30 * time.Second

// RouterDeps carries everything the router mounts. The sql and redis handles
// are only used by the health endpoint.
type RouterDeps struct {
	Election *electionhandler.Handler
	Admin    *adminhandler.Handler
	Live     *broadcast.SSEHandler
	Metrics  *metrics.Metrics
	DB       *sql.DB
	Redis    *redis.Client
}

// NewRouter wires the middleware chain and mounts the feature handlers. The
// live stream sits outside the timeout group because it holds its connection
// open indefinitely.
func NewRouter(logger *slog.Logger, deps RouterDeps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.ClientMetadata)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Latency(deps.Metrics))

	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	r.Get("/healthz", healthHandler(deps.DB, deps.Redis))
	deps.Live.Register(r)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(apiTimeout))
		deps.Election.Register(r)
		deps.Admin.Register(r)
	})

	return r
}

func healthHandler(db *sql.DB, rdb *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := map[string]string{"status": "ok"}
		code := http.StatusOK
		if db != nil {
			if err := db.PingContext(r.Context()); err != nil {
				status["status"] = "degraded"
				status["database"] = err.Error()
				code = http.StatusServiceUnavailable
			}
		}
		if rdb != nil {
			if err := rdb.Health(r.Context()); err != nil {
				status["status"] = "degraded"
				status["redis"] = err.Error()
				code = http.StatusServiceUnavailable
			}
		}
		shared.WriteJSON(w, code, status)
	}
}
