package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"todolist/internal/config"
	"todolist/internal/stats"
	"todolist/internal/todo"
)

// Pinger 用于健康检查，*sql.DB 满足该接口
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Deps struct {
	Todos  *todo.Handler
	Stats  *stats.Handler
	DB     Pinger
	Logger *log.Logger
}

// Routes 注册中间件、CORS 与各业务路由
func Routes(cfg config.Config, deps Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{
		Logger:  deps.Logger.StandardLog(log.StandardLogOptions{ForceLevel: log.InfoLevel}),
		NoColor: true,
	}))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.ClientOrigin},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", healthHandler(deps.DB, deps.Logger))

	api := chi.NewRouter()
	api.Mount("/todos", deps.Todos.Routes())
	if deps.Stats != nil {
		api.Mount("/stats", deps.Stats.Routes())
	}

	if cfg.APIPrefix == "" {
		r.Mount("/", api)
	} else {
		r.Mount(cfg.APIPrefix, api)
	}
	return r
}

func healthHandler(db Pinger, logger *log.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// 健康检查，顺带确认数据库可达
		status, body := http.StatusOK, "ok"
		if db != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := db.PingContext(ctx); err != nil {
				logger.Warn("health check failed", "err", err)
				status, body = http.StatusServiceUnavailable, "unavailable"
			}
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if err := json.NewEncoder(w).Encode(map[string]string{"status": body}); err != nil {
			logger.Error("json encode error", "err", err)
		}
	}
}
