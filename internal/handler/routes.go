package handler

import (
	"net/http"

	"github.com/fakhrymubarak/skycast/internal/middleware"
)

// RegisterRoutes wires the handlers into mux. Chat sends get their own rate limit
// on top of the global one applied around the whole mux.
func RegisterRoutes(mux *http.ServeMux, h *Handler, rl *middleware.RateLimiter) {
	mux.HandleFunc("GET /health", h.HandleHealth)

	mux.HandleFunc("GET /api/v1/dashboard", h.HandleDashboard)
	mux.HandleFunc("GET /api/v1/forecast", h.HandleForecast)
	mux.HandleFunc("GET /api/v1/location", h.HandleLocation)
	mux.HandleFunc("POST /api/v1/location/geolocation-error", h.HandleGeolocationError)
	mux.HandleFunc("GET /api/v1/country/{code}", h.HandleCountry)

	mux.Handle("POST /api/v1/chat", rl.ChatMiddleware(http.HandlerFunc(h.HandleChat)))
	mux.HandleFunc("DELETE /api/v1/chat/{session_id}", h.HandleCancelChat)

	mux.HandleFunc("GET /api/v1/preferences/theme", h.HandleGetTheme)
	mux.HandleFunc("PUT /api/v1/preferences/theme", h.HandleSetTheme)
	mux.HandleFunc("GET /api/v1/preferences/pending-query", h.HandleTakePendingQuery)
	mux.HandleFunc("PUT /api/v1/preferences/pending-query", h.HandleSetPendingQuery)
}

// NewRouter builds the full handler chain: recovery, request logging, rate limiting, routes.
func NewRouter(h *Handler, rl *middleware.RateLimiter) http.Handler {
	mux := http.NewServeMux()
	RegisterRoutes(mux, h, rl)
	return middleware.Chain(mux,
		middleware.Recoverer(h.logger),
		middleware.RequestLogger(h.logger),
		rl.Middleware,
	)
}
