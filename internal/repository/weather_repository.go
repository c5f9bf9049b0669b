package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/fakhrymubarak/skycast/internal/config"
	"github.com/fakhrymubarak/skycast/internal/model"
	"github.com/go-resty/resty/v2"
)

// Custom error types
var (
	ErrLocationNotFound = errors.New("location not found")
	ErrAPIKeyMissing    = errors.New("API key missing")
	ErrExternalAPI      = errors.New("external API error")
	ErrMalformedBody    = errors.New("malformed response body")
)

// WeatherRepository defines the interface for OpenWeatherMap data access
type WeatherRepository interface {
	CurrentByCity(ctx context.Context, city string) (*model.OpenWeatherMapResponse, error)
	CurrentByCoordinates(ctx context.Context, lat, lon float64) (*model.OpenWeatherMapResponse, error)
	OneCall(ctx context.Context, lat, lon float64) (*model.OneCallResponse, error)
	Forecast(ctx context.Context, lat, lon float64) (*model.ForecastResponse, error)
}

// weatherRepository implements WeatherRepository
type weatherRepository struct {
	client *resty.Client
	apiKey func() string
}

// NewWeatherRepository creates a new weather repository instance
func NewWeatherRepository(httpClient ...*http.Client) WeatherRepository {
	client := &http.Client{}
	if len(httpClient) > 0 && httpClient[0] != nil {
		client = httpClient[0]
	}
	return newWeatherRepository(client, config.GetOpenWeatherBaseURL(), config.GetOpenWeatherMapAPIKey)
}

func newWeatherRepository(httpClient *http.Client, baseURL string, apiKey func() string) *weatherRepository {
	return &weatherRepository{
		client: resty.NewWithClient(httpClient).
			SetBaseURL(baseURL).
			SetTimeout(config.GetHTTPTimeout()),
		apiKey: apiKey,
	}
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// CurrentByCity retrieves current weather by city name. Any non-success status means the city is unknown.
func (r *weatherRepository) CurrentByCity(ctx context.Context, city string) (*model.OpenWeatherMapResponse, error) {
	if city == "" {
		return nil, fmt.Errorf("%w: empty city", ErrLocationNotFound)
	}
	var data model.OpenWeatherMapResponse
	if err := r.getCurrent(ctx, map[string]string{"q": city}, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// CurrentByCoordinates retrieves current weather for a coordinate pair.
func (r *weatherRepository) CurrentByCoordinates(ctx context.Context, lat, lon float64) (*model.OpenWeatherMapResponse, error) {
	var data model.OpenWeatherMapResponse
	params := map[string]string{"lat": formatCoord(lat), "lon": formatCoord(lon)}
	if err := r.getCurrent(ctx, params, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

func (r *weatherRepository) getCurrent(ctx context.Context, params map[string]string, out interface{}) error {
	err := r.get(ctx, "/weather", params, out)
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return fmt.Errorf("%w: status %d", ErrLocationNotFound, statusErr.Code)
	}
	return err
}

// OneCall retrieves the aggregate forecast. Minutely data is never requested.
func (r *weatherRepository) OneCall(ctx context.Context, lat, lon float64) (*model.OneCallResponse, error) {
	var data model.OneCallResponse
	params := map[string]string{
		"lat":     formatCoord(lat),
		"lon":     formatCoord(lon),
		"exclude": "minutely",
	}
	if err := r.get(ctx, "/onecall", params, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// Forecast retrieves the legacy 5 day / 3 hour forecast.
func (r *weatherRepository) Forecast(ctx context.Context, lat, lon float64) (*model.ForecastResponse, error) {
	var data model.ForecastResponse
	params := map[string]string{"lat": formatCoord(lat), "lon": formatCoord(lon)}
	if err := r.get(ctx, "/forecast", params, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// get performs a metric-unit GET against the OpenWeatherMap API and decodes the body into out.
func (r *weatherRepository) get(ctx context.Context, path string, params map[string]string, out interface{}) error {
	apiKey := r.apiKey()
	if apiKey == "" {
		return ErrAPIKeyMissing
	}

	resp, err := r.client.R().
		SetContext(ctx).
		SetQueryParams(params).
		SetQueryParam("units", "metric").
		SetQueryParam("appid", apiKey).
		Get(path)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: %s: %v", ErrExternalAPI, path, err)
	}
	if !resp.IsSuccess() {
		return &StatusError{Path: path, Code: resp.StatusCode()}
	}
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrMalformedBody, path, err)
	}
	return nil
}

// StatusError is returned when an upstream answers with a non-success status.
type StatusError struct {
	Path string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: unexpected status %d", e.Path, e.Code)
}

// Unwrap lets callers match every status failure as ErrExternalAPI.
func (e *StatusError) Unwrap() error {
	return ErrExternalAPI
}
