package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/fakhrymubarak/skycast/internal/config"
	"github.com/fakhrymubarak/skycast/internal/model"
	"github.com/fakhrymubarak/skycast/internal/redis"
	"github.com/go-resty/resty/v2"
)

const countryKeyPrefix = "country:"

// CountryRepository looks up country names and flags, checking the cache first.
type CountryRepository interface {
	GetCountry(ctx context.Context, code string) (*model.CountryInfo, error)
}

type countryRepository struct {
	redisClient RedisStore
	client      *resty.Client
	ttl         time.Duration
}

func NewCountryRepository(httpClient ...*http.Client) CountryRepository {
	client := &http.Client{}
	if len(httpClient) > 0 && httpClient[0] != nil {
		client = httpClient[0]
	}
	return newCountryRepository(redis.GetClient(), client, config.GetRestCountriesBaseURL(), config.GetCacheExpiration())
}

func newCountryRepository(store RedisStore, httpClient *http.Client, baseURL string, ttl time.Duration) *countryRepository {
	return &countryRepository{
		redisClient: store,
		client: resty.NewWithClient(httpClient).
			SetBaseURL(baseURL).
			SetTimeout(config.GetHTTPTimeout()),
		ttl: ttl,
	}
}

// GetCountry retrieves country metadata, checking cache first, then the external API
func (r *countryRepository) GetCountry(ctx context.Context, code string) (*model.CountryInfo, error) {
	code = strings.ToUpper(code)
	if cached, err := r.getFromCache(ctx, code); err == nil {
		return cached, nil
	}

	info, err := r.fetchFromExternalAPI(ctx, code)
	if err != nil {
		return nil, err
	}

	r.cacheCountry(ctx, info)
	return info, nil
}

func (r *countryRepository) getFromCache(ctx context.Context, code string) (*model.CountryInfo, error) {
	val, err := r.redisClient.Get(ctx, countryKeyPrefix+code).Result()
	if err != nil {
		return nil, err
	}
	var info model.CountryInfo
	if err := json.Unmarshal([]byte(val), &info); err != nil {
		return nil, err
	}
	return &info, nil
}

func (r *countryRepository) fetchFromExternalAPI(ctx context.Context, code string) (*model.CountryInfo, error) {
	resp, err := r.client.R().
		SetContext(ctx).
		SetPathParam("code", code).
		Get("/alpha/{code}")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExternalAPI, err)
	}
	if resp.StatusCode() == http.StatusNotFound {
		return nil, fmt.Errorf("%w: country %s", ErrLocationNotFound, code)
	}
	if !resp.IsSuccess() {
		return nil, &StatusError{Path: "/alpha", Code: resp.StatusCode()}
	}

	var data []model.RestCountry
	if err := json.Unmarshal(resp.Body(), &data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedBody, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: country %s", ErrLocationNotFound, code)
	}
	return &model.CountryInfo{
		Code:    code,
		Name:    data[0].Name.Common,
		FlagURL: data[0].Flags.PNG,
	}, nil
}

func (r *countryRepository) cacheCountry(ctx context.Context, info *model.CountryInfo) {
	if b, err := json.Marshal(info); err == nil {
		_ = r.redisClient.Set(ctx, countryKeyPrefix+info.Code, b, r.ttl).Err()
	}
}
