package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/fakhrymubarak/skycast/internal/model"
	"github.com/fakhrymubarak/skycast/internal/repository"
	redisv9 "github.com/redis/go-redis/v9"
)

var errNotConfigured = errors.New("mock not configured")

// mockWeatherRepository answers with the configured funcs and counts calls.
type mockWeatherRepository struct {
	currentByCity   func(ctx context.Context, city string) (*model.OpenWeatherMapResponse, error)
	currentByCoords func(ctx context.Context, lat, lon float64) (*model.OpenWeatherMapResponse, error)
	oneCall         func(ctx context.Context, lat, lon float64) (*model.OneCallResponse, error)
	forecast        func(ctx context.Context, lat, lon float64) (*model.ForecastResponse, error)

	cityCalls     atomic.Int32
	oneCallCalls  atomic.Int32
	forecastCalls atomic.Int32
}

func (m *mockWeatherRepository) CurrentByCity(ctx context.Context, city string) (*model.OpenWeatherMapResponse, error) {
	m.cityCalls.Add(1)
	if m.currentByCity == nil {
		return nil, errNotConfigured
	}
	return m.currentByCity(ctx, city)
}

func (m *mockWeatherRepository) CurrentByCoordinates(ctx context.Context, lat, lon float64) (*model.OpenWeatherMapResponse, error) {
	if m.currentByCoords == nil {
		return nil, errNotConfigured
	}
	return m.currentByCoords(ctx, lat, lon)
}

func (m *mockWeatherRepository) OneCall(ctx context.Context, lat, lon float64) (*model.OneCallResponse, error) {
	m.oneCallCalls.Add(1)
	if m.oneCall == nil {
		return nil, errNotConfigured
	}
	return m.oneCall(ctx, lat, lon)
}

func (m *mockWeatherRepository) Forecast(ctx context.Context, lat, lon float64) (*model.ForecastResponse, error) {
	m.forecastCalls.Add(1)
	if m.forecast == nil {
		return nil, errNotConfigured
	}
	return m.forecast(ctx, lat, lon)
}

var _ repository.WeatherRepository = (*mockWeatherRepository)(nil)

// mockModelRepository records every request it receives.
type mockModelRepository struct {
	mu       sync.Mutex
	requests [][]model.ChatTurn
	generate func(ctx context.Context, call int, turns []model.ChatTurn) (string, error)
}

func (m *mockModelRepository) Generate(ctx context.Context, turns []model.ChatTurn) (string, error) {
	m.mu.Lock()
	m.requests = append(m.requests, append([]model.ChatTurn(nil), turns...))
	call := len(m.requests)
	m.mu.Unlock()
	return m.generate(ctx, call, turns)
}

func (m *mockModelRepository) Requests() [][]model.ChatTurn {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([][]model.ChatTurn(nil), m.requests...)
}

var _ repository.ModelRepository = (*mockModelRepository)(nil)

func owmResponse(name, country string, lat, lon, temp float64) *model.OpenWeatherMapResponse {
	r := &model.OpenWeatherMapResponse{Name: name}
	r.Coord.Lat = lat
	r.Coord.Lon = lon
	r.Sys.Country = country
	r.Main.Temp = temp
	r.Main.Humidity = 60
	r.Wind.Speed = 3.5
	r.Weather = []model.OWMCondition{{Main: "Clear", Description: "clear sky", Icon: "01d"}}
	return r
}

func sample(dt int64, temp float64, icon string, pop *float64) model.ForecastSample {
	s := model.ForecastSample{
		Dt:      dt,
		Weather: []model.OWMCondition{{Icon: icon, Description: "desc " + icon}},
		Pop:     pop,
	}
	s.Main.Temp = temp
	return s
}

func ptr(f float64) *float64 { return &f }

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redisv9.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redisv9.NewClient(&redisv9.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}
