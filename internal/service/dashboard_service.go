package service

import (
	"context"

	"github.com/fakhrymubarak/skycast/internal/config"
	"github.com/fakhrymubarak/skycast/internal/model"
	"go.uber.org/zap"
)

// DashboardService builds everything the dashboard renders for one location:
// resolution, forecast and country metadata.
type DashboardService struct {
	locations *LocationService
	forecasts *ForecastService
	countries *CountryService
	logger    *zap.SugaredLogger
}

func NewDashboardService(locations *LocationService, forecasts *ForecastService, countries *CountryService) *DashboardService {
	return &DashboardService{
		locations: locations,
		forecasts: forecasts,
		countries: countries,
		logger:    config.GetLogger(),
	}
}

func (s *DashboardService) ByCity(ctx context.Context, city string) (*model.Dashboard, error) {
	res, err := s.locations.ResolveByCity(ctx, city)
	if err != nil {
		return nil, err
	}
	return s.build(ctx, res), nil
}

func (s *DashboardService) ByCoordinates(ctx context.Context, lat, lon float64) (*model.Dashboard, error) {
	res, err := s.locations.ResolveByCoordinates(ctx, lat, lon)
	if err != nil {
		return nil, err
	}
	return s.build(ctx, res), nil
}

func (s *DashboardService) build(ctx context.Context, res *Resolution) *model.Dashboard {
	fc := s.forecasts.FetchForecast(ctx, res.Location.Lat, res.Location.Lon)

	current := res.Current
	if fc.Current != nil {
		// the aggregate endpoint has no place name
		c := *fc.Current
		c.Location = res.Location.Name
		c.Country = res.Location.Country
		current = c
	}

	dash := &model.Dashboard{
		Location: res.Location,
		Current:  &current,
		Forecast: fc,
	}
	if res.Location.Country != "" {
		info, err := s.countries.Lookup(ctx, res.Location.Country)
		if err != nil {
			s.logger.Warnw("Country lookup failed", "country", res.Location.Country, "error", err)
		} else {
			dash.Country = info
		}
	}
	return dash
}
