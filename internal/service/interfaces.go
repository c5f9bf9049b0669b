package service

import (
	"context"

	"github.com/fakhrymubarak/skycast/internal/model"
)

// The handler package depends on these interfaces rather than the concrete services.

type DashboardServiceInterface interface {
	ByCity(ctx context.Context, city string) (*model.Dashboard, error)
	ByCoordinates(ctx context.Context, lat, lon float64) (*model.Dashboard, error)
}

type LocationServiceInterface interface {
	LoadCachedLocation(ctx context.Context) (*model.Location, bool, error)
}

type ForecastServiceInterface interface {
	FetchForecast(ctx context.Context, lat, lon float64) model.Forecast
	BreakerState() string
}

type CountryServiceInterface interface {
	Lookup(ctx context.Context, code string) (*model.CountryInfo, error)
}

type ChatServiceInterface interface {
	Send(ctx context.Context, sessionID, text string) (string, Reply, error)
	Cancel(sessionID string) bool
}

type PreferenceServiceInterface interface {
	Theme(ctx context.Context) (string, error)
	SetTheme(ctx context.Context, theme string) error
	SetPendingQuery(ctx context.Context, query string) error
	TakePendingQuery(ctx context.Context, override string) (string, bool, error)
}

var (
	_ DashboardServiceInterface  = (*DashboardService)(nil)
	_ LocationServiceInterface   = (*LocationService)(nil)
	_ ForecastServiceInterface   = (*ForecastService)(nil)
	_ CountryServiceInterface    = (*CountryService)(nil)
	_ ChatServiceInterface       = (*ChatSessions)(nil)
	_ PreferenceServiceInterface = (*PreferenceService)(nil)
	_ Responder                  = (*AssistantService)(nil)
	_ CityLookup                 = (*LocationService)(nil)
)
