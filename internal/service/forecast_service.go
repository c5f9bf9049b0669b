package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/fakhrymubarak/skycast/internal/config"
	"github.com/fakhrymubarak/skycast/internal/model"
	"github.com/fakhrymubarak/skycast/internal/repository"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// ForecastService combines the aggregate forecast endpoint with the legacy 3-hour
// endpoint into one Forecast.
type ForecastService struct {
	repo    repository.WeatherRepository
	breaker *gobreaker.CircuitBreaker
	logger  *zap.SugaredLogger
}

func NewForecastService(repo repository.WeatherRepository, cfg config.BreakerConfig) *ForecastService {
	logger := config.GetLogger()
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "onecall",
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.ConsecutiveFailures
		},
		// a caller giving up says nothing about the upstream
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Infow("Circuit breaker state changed", "breaker", name, "from", from.String(), "to", to.String())
		},
	})
	return &ForecastService{repo: repo, breaker: cb, logger: logger}
}

// FetchForecast never fails: when the aggregate endpoint is unavailable the legacy
// endpoint is called once, and when that fails too an empty forecast is returned.
// A cancelled ctx yields an empty forecast without trying the legacy endpoint.
func (s *ForecastService) FetchForecast(ctx context.Context, lat, lon float64) model.Forecast {
	fc, err := s.fetchPrimary(ctx, lat, lon)
	if err == nil {
		return fc
	}
	if ctx.Err() != nil {
		s.logger.Infow("Forecast request cancelled", "lat", lat, "lon", lon, "error", ctx.Err())
		return model.EmptyForecast()
	}
	s.logger.Warnw("Aggregate forecast unavailable, using 3-hour forecast", "lat", lat, "lon", lon, "error", err)

	fc, err = s.fetchFallback(ctx, lat, lon)
	if err != nil {
		s.logger.Errorw("Fallback forecast failed", "lat", lat, "lon", lon, "error", err)
		return model.EmptyForecast()
	}
	return fc
}

func (s *ForecastService) fetchPrimary(ctx context.Context, lat, lon float64) (model.Forecast, error) {
	result, err := s.breaker.Execute(func() (interface{}, error) {
		return s.repo.OneCall(ctx, lat, lon)
	})
	if err != nil {
		return model.Forecast{}, fmt.Errorf("%w: %w", ErrUpstreamUnavailable, err)
	}
	data := result.(*model.OneCallResponse)
	return model.Forecast{
		Current: data.CurrentConditions(),
		Hourly:  data.HourlyEntries(),
		Daily:   data.DailyEntries(),
		Alerts:  SortAlerts(data.WeatherAlerts()),
		Source:  model.SourceOneCall,
	}, nil
}

func (s *ForecastService) fetchFallback(ctx context.Context, lat, lon float64) (model.Forecast, error) {
	data, err := s.repo.Forecast(ctx, lat, lon)
	if err != nil {
		return model.Forecast{}, err
	}
	return model.Forecast{
		Hourly: DeriveHourly(data.List),
		Daily:  DeriveDaily(data.List, data.City.Timezone),
		Alerts: []model.WeatherAlert{},
		Source: model.SourceFallback,
	}, nil
}

// BreakerState reports the aggregate endpoint breaker state, for health output.
func (s *ForecastService) BreakerState() string {
	return s.breaker.State().String()
}
