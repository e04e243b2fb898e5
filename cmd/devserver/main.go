package main

import (
	"log/slog"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httplog/v3"
	"github.com/joho/godotenv"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog/log"

	"poker-miniapp/internal/config"
	"poker-miniapp/internal/logging"
)

var (
	tokenEntropy   = ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0)
	tokenEntropyMu sync.Mutex
)

func newToken() string {
	tokenEntropyMu.Lock()
	defer tokenEntropyMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), tokenEntropy).String()
}

func main() {
	_ = godotenv.Load()

	logCfg, err := config.LoadLog()
	if err != nil {
		log.Fatal().Err(err).Msg("load log config failed")
	}
	logging.Init(logCfg)

	cfg, err := config.LoadDevServer()
	if err != nil {
		log.Fatal().Err(err).Msg("load devserver config failed")
	}

	h := newHub(cfg)
	r := newRouter(h)

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	log.Info().Str("addr", cfg.HTTPAddr).Int("tables", cfg.SeedTables).Msg("devserver listening")
	log.Fatal().Err(server.ListenAndServe()).Msg("devserver stopped")
}

func newRouter(h *hub) *chi.Mux {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(apiLogMiddleware())

	r.Route("/api", func(r chi.Router) {
		r.Get("/tables", tablesHandler(h))
		r.Post("/tables/{table_id}/join", joinTableHandler(h))
		r.Get("/game/state/{table_id}", gameStateHandler(h))
		r.Post("/game/ready", readyHandler(h))
		r.Post("/game/action", actionHandler(h))
		r.Post("/game/leave/{table_id}", leaveHandler(h))
		r.Post("/auth/login", loginHandler())
		r.Get("/user/settings", settingsHandler(h))
		r.Post("/user/settings", settingsHandler(h))
		r.Get("/user/stats", statsHandler())
		r.Post("/user/bonus", bonusHandler(h))
	})
	return r
}

func apiLogMiddleware() func(http.Handler) http.Handler {
	return httplog.RequestLogger(
		slog.New(slog.NewJSONHandler(logging.Writer(), &slog.HandlerOptions{})),
		&httplog.Options{
			Level:  slog.LevelInfo,
			Schema: httplog.Schema{ResponseStatus: "status", ResponseDuration: "duration_ms"},
			LogExtraAttrs: func(req *http.Request, _ string, _ int) []slog.Attr {
				return []slog.Attr{
					slog.String("request_id", chimw.GetReqID(req.Context())),
					slog.String("method", req.Method),
					slog.String("path", req.URL.Path),
				}
			},
		},
	)
}
