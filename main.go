package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/fakhrymubarak/skycast/internal/config"
	"github.com/fakhrymubarak/skycast/internal/handler"
	"github.com/fakhrymubarak/skycast/internal/middleware"
	"github.com/fakhrymubarak/skycast/internal/redis"
	"github.com/fakhrymubarak/skycast/internal/repository"
	"github.com/fakhrymubarak/skycast/internal/scheduler"
	"github.com/fakhrymubarak/skycast/internal/service"
)

func main() {
	logger := config.GetLogger()
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := redis.Ping(ctx); err != nil {
		logger.Warnw("Redis is not reachable, saved location and preferences are unavailable", "addr", config.GetRedisAddr(), "error", err)
	}
	defer func() { _ = redis.Close() }()

	if config.GetOpenWeatherMapAPIKey() == "" {
		logger.Warnw("OPENWEATHERMAP_API_KEY is not set, weather lookups will fail")
	}
	if config.GetModelAPIKey() == "" {
		logger.Warnw("GEMINI_API_KEY is not set, the assistant will not answer")
	}

	// Shared HTTP client for outbound calls.
	httpClient := &http.Client{Timeout: config.GetHTTPTimeout()}

	state := service.NewAppState()
	weatherRepo := repository.NewWeatherRepository(httpClient)
	locations := service.NewLocationService(weatherRepo, repository.NewLocationRepository(), state)
	forecasts := service.NewForecastService(weatherRepo, config.GetBreakerConfig())
	countries := service.NewCountryService(repository.NewCountryRepository(httpClient))
	assistant := service.NewAssistantService(locations, repository.NewModelRepository(httpClient), state)

	// Restore the saved location so the assistant is grounded from the first message.
	if loc, ok, err := locations.LoadCachedLocation(ctx); err != nil {
		logger.Warnw("Failed to load saved location", "error", err)
	} else if ok {
		state.SetLocation(*loc, nil)
		logger.Infow("Restored saved location", "location", loc.Name)
	}

	sched := scheduler.New(locations, config.GetSchedulerInterval())
	if err := sched.Start(); err != nil {
		logger.Fatalw("Failed to start scheduler", "error", err)
	}
	defer sched.Stop()

	rl := middleware.NewRateLimiter(middleware.DefaultRateLimiterConfig())
	rl.StartCleanup(ctx)

	h := handler.NewHandler(handler.Services{
		Dashboard:   service.NewDashboardService(locations, forecasts, countries),
		Locations:   locations,
		Forecasts:   forecasts,
		Countries:   countries,
		Chat:        service.NewChatSessions(assistant),
		Preferences: service.NewPreferenceService(repository.NewPreferenceRepository()),
		Ping:        redis.Ping,
	})

	srv := &http.Server{
		Addr:              ":" + config.GetServerPort(),
		Handler:           handler.NewRouter(h, rl),
		ReadHeaderTimeout: config.GetServerTimeout("read_header_timeout"),
		ReadTimeout:       config.GetServerTimeout("read_timeout"),
		WriteTimeout:      config.GetServerTimeout("write_timeout"),
		IdleTimeout:       config.GetServerTimeout("idle_timeout"),
	}

	go func() {
		logger.Infow("SkyCast server running", "port", config.GetServerPort())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Errorw("Server stopped", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.GetServerTimeout("shutdown_timeout"))
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorw("Error during shutdown", "error", err)
	}
}
