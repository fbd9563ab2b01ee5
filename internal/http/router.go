package httpx

import (
	"log/slog"
	"net/http"

	"codesync/internal/app"
	"codesync/internal/execrun"
	"codesync/internal/relay"
	"codesync/internal/store"
	"codesync/internal/video"
	"codesync/pkg/auth"
	"codesync/pkg/metrics"
)

// NewRouter wires up all HTTP routes, middleware, and handlers
func NewRouter(cfg app.Config, logger *slog.Logger, hub *relay.Hub, db *store.Postgres) http.Handler {
	mw := NewMiddleware(cfg)

	j := auth.New(cfg.JWTSecret)
	authAPI := &AuthAPI{DB: db, JWT: j}
	sessionsAPI := &SessionsAPI{DB: db, Video: video.New(cfg.DailyAPIKey, cfg.DailySubdomain)}
	problemsAPI := &ProblemsAPI{DB: db}
	executeAPI := &ExecuteAPI{Runner: execrun.NewClient(cfg.ExecBaseURL)}

	mux := http.NewServeMux()

	// Health / readiness / metrics
	mux.Handle("/healthz", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(200) }))
	mux.Handle("/readyz", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(200) }))
	mux.Handle("/metrics", metrics.Handler())

	// Relay endpoint (token comes in as a query param on the upgrade)
	mux.Handle("/ws", mw.Auth(http.HandlerFunc(hub.ServeWS)))

	// Auth endpoints
	mux.Handle("POST /api/auth/sync", http.HandlerFunc(authAPI.Sync))
	mux.Handle("POST /api/auth/register", http.HandlerFunc(authAPI.Register))
	mux.Handle("POST /api/auth/login", http.HandlerFunc(authAPI.Login))
	mux.Handle("GET /api/auth/me", mw.Auth(http.HandlerFunc(authAPI.Me)))
	mux.Handle("GET /api/users/{id}", mw.Auth(http.HandlerFunc(authAPI.GetUser)))
	mux.Handle("PATCH /api/users/{id}/role", mw.Auth(http.HandlerFunc(authAPI.UpdateRole)))

	// Session endpoints (JWT-protected)
	mux.Handle("GET /api/sessions", mw.Auth(http.HandlerFunc(sessionsAPI.List)))
	mux.Handle("POST /api/sessions", mw.Auth(http.HandlerFunc(sessionsAPI.Create)))
	mux.Handle("GET /api/sessions/{id}", mw.Auth(http.HandlerFunc(sessionsAPI.Get)))
	mux.Handle("PATCH /api/sessions/{id}", mw.Auth(http.HandlerFunc(sessionsAPI.Patch)))
	mux.Handle("DELETE /api/sessions/{id}", mw.Auth(http.HandlerFunc(sessionsAPI.Delete)))

	// Problem endpoints
	mux.Handle("GET /api/problems", mw.Auth(http.HandlerFunc(problemsAPI.List)))
	mux.Handle("POST /api/problems", mw.Auth(http.HandlerFunc(problemsAPI.Create)))
	mux.Handle("POST /api/problems/seed", mw.Auth(http.HandlerFunc(problemsAPI.Seed)))
	mux.Handle("GET /api/problems/{id}", mw.Auth(http.HandlerFunc(problemsAPI.Get)))

	// Code execution proxy
	mux.Handle("POST /api/execute", mw.Auth(http.HandlerFunc(executeAPI.Run)))

	// CORS + rate limit applied globally
	return mw.Wrap(mux)
}
