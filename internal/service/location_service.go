package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fakhrymubarak/skycast/internal/config"
	"github.com/fakhrymubarak/skycast/internal/model"
	"github.com/fakhrymubarak/skycast/internal/repository"
	redisv9 "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Resolution is a resolved location together with the conditions the lookup returned.
type Resolution struct {
	Location model.Location          `json:"location"`
	Current  model.CurrentConditions `json:"current"`
}

// LocationService resolves city names and coordinates to a Location and keeps
// the single persisted location slot up to date.
type LocationService struct {
	weatherRepo  repository.WeatherRepository
	locationRepo repository.LocationRepository
	state        *AppState
	logger       *zap.SugaredLogger
}

func NewLocationService(weatherRepo repository.WeatherRepository, locationRepo repository.LocationRepository, state *AppState) *LocationService {
	return &LocationService{
		weatherRepo:  weatherRepo,
		locationRepo: locationRepo,
		state:        state,
		logger:       config.GetLogger(),
	}
}

// LookupByCity queries current weather by name without persisting anything.
func (s *LocationService) LookupByCity(ctx context.Context, name string) (*Resolution, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: city name is required", ErrInvalidInput)
	}
	data, err := s.weatherRepo.CurrentByCity(ctx, name)
	if err != nil {
		return nil, mapLookupError(err)
	}
	return &Resolution{
		Location: model.Location{
			Name:    data.Name,
			Country: data.Sys.Country,
			Lat:     data.Coord.Lat,
			Lon:     data.Coord.Lon,
		},
		Current: data.ToCurrentConditions(),
	}, nil
}

// LookupByCoordinates queries current weather by coordinates without persisting anything.
// The returned location keeps the requested coordinates.
func (s *LocationService) LookupByCoordinates(ctx context.Context, lat, lon float64) (*Resolution, error) {
	data, err := s.weatherRepo.CurrentByCoordinates(ctx, lat, lon)
	if err != nil {
		return nil, mapLookupError(err)
	}
	return &Resolution{
		Location: model.Location{Name: data.Name, Country: data.Sys.Country, Lat: lat, Lon: lon},
		Current:  data.ToCurrentConditions(),
	}, nil
}

// ResolveByCity looks a city up and makes it the current location.
func (s *LocationService) ResolveByCity(ctx context.Context, name string) (*Resolution, error) {
	res, err := s.LookupByCity(ctx, name)
	if err != nil {
		return nil, err
	}
	s.commit(ctx, res)
	return res, nil
}

// ResolveByCoordinates looks coordinates up and makes them the current location.
func (s *LocationService) ResolveByCoordinates(ctx context.Context, lat, lon float64) (*Resolution, error) {
	res, err := s.LookupByCoordinates(ctx, lat, lon)
	if err != nil {
		return nil, err
	}
	s.commit(ctx, res)
	return res, nil
}

func (s *LocationService) commit(ctx context.Context, res *Resolution) {
	s.state.SetLocation(res.Location, &res.Current)
	if err := s.locationRepo.Save(ctx, res.Location); err != nil {
		s.logger.Warnw("Failed to persist location", "location", res.Location.Name, "error", err)
	}
}

// LoadCachedLocation reads the persisted location without any upstream request.
func (s *LocationService) LoadCachedLocation(ctx context.Context) (*model.Location, bool, error) {
	loc, err := s.locationRepo.Load(ctx)
	if errors.Is(err, redisv9.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return loc, true, nil
}

// RefreshCurrent fetches current conditions for loc and stores them as the ambient snapshot.
func (s *LocationService) RefreshCurrent(ctx context.Context, loc model.Location) (*model.CurrentConditions, error) {
	res, err := s.LookupByCoordinates(ctx, loc.Lat, loc.Lon)
	if err != nil {
		return nil, err
	}
	if _, ok := s.state.Location(); !ok {
		s.state.SetLocation(loc, &res.Current)
	} else {
		s.state.SetCurrent(res.Current)
	}
	return &res.Current, nil
}

const geolocationPrefix = "Unable to retrieve your location."

// DescribeGeolocationFailure maps a browser geolocation error code to a user-facing
// message and the matching error kind.
func DescribeGeolocationFailure(code int) (string, error) {
	switch code {
	case 1:
		return geolocationPrefix + " Please allow location access in your browser settings.", ErrPermissionDenied
	case 2:
		return geolocationPrefix + " Position unavailable. Please try again later.", ErrPositionUnavailable
	case 3:
		return geolocationPrefix + " Request timed out. Please try again.", ErrTimeout
	default:
		return geolocationPrefix, fmt.Errorf("%w: geolocation code %d", ErrInvalidInput, code)
	}
}
