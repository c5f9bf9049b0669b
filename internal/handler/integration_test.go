package handler

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/fakhrymubarak/skycast/internal/config"
	"github.com/fakhrymubarak/skycast/internal/middleware"
	"github.com/fakhrymubarak/skycast/internal/model"
	"github.com/fakhrymubarak/skycast/internal/redis"
	"github.com/fakhrymubarak/skycast/internal/repository"
	"github.com/fakhrymubarak/skycast/internal/service"
	"github.com/stretchr/testify/suite"
)

const threeHours = 3 * 3600

// upstream fakes OpenWeatherMap, restcountries and the language model.
type upstream struct {
	mu          sync.Mutex
	modelStatus int
	modelReply  string
	modelBodies []string
}

func parisForecastBody() string {
	start := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC).Unix()
	temps := []float64{10, 11, 12, 14, 18, 17, 15, 12}
	var list []string
	for d := 0; d < 2; d++ {
		for i, temp := range temps {
			icon := "01n"
			if i == 4 {
				icon = "10d"
			}
			dt := start + int64(d)*86400 + int64(i)*threeHours
			list = append(list, fmt.Sprintf(`{"dt":%d,"main":{"temp":%v},"weather":[{"icon":%q,"description":"x"}],"pop":0.%d}`, dt, temp, icon, i))
		}
	}
	return `{"list":[` + strings.Join(list, ",") + `],"city":{"name":"Paris","country":"FR","timezone":3600}}`
}

func (u *upstream) roundTrip(req *http.Request) *http.Response {
	u.mu.Lock()
	defer u.mu.Unlock()

	path := req.URL.Path
	switch {
	case strings.HasSuffix(path, ":generateContent"):
		body, _ := io.ReadAll(req.Body)
		u.modelBodies = append(u.modelBodies, string(body))
		if u.modelStatus != http.StatusOK {
			return repository.JSONResponse(req, u.modelStatus, `{"error":{"code":500}}`)
		}
		reply, _ := json.Marshal(u.modelReply)
		return repository.JSONResponse(req, http.StatusOK, `{"candidates":[{"content":{"role":"model","parts":[{"text":`+string(reply)+`}]}}]}`)
	case strings.HasSuffix(path, "/onecall"):
		return repository.JSONResponse(req, http.StatusServiceUnavailable, `{"cod":503}`)
	case strings.HasSuffix(path, "/forecast"):
		return repository.JSONResponse(req, http.StatusOK, parisForecastBody())
	case strings.HasSuffix(path, "/weather"):
		switch req.URL.Query().Get("q") {
		case "Paris":
			return repository.JSONResponse(req, http.StatusOK, `{"coord":{"lat":48.8534,"lon":2.3488},"name":"Paris","sys":{"country":"FR"},"main":{"temp":16,"humidity":55},"wind":{"speed":2.1},"weather":[{"description":"few clouds","icon":"02d"}]}`)
		case "Tokyo":
			return repository.JSONResponse(req, http.StatusOK, `{"coord":{"lat":35.6895,"lon":139.6917},"name":"Tokyo","sys":{"country":"JP"},"main":{"temp":21.4,"humidity":60},"wind":{"speed":3.5},"weather":[{"description":"clear sky","icon":"01d"}]}`)
		}
		return repository.JSONResponse(req, http.StatusNotFound, `{"cod":"404","message":"city not found"}`)
	case strings.HasSuffix(path, "/alpha/FR"):
		return repository.JSONResponse(req, http.StatusOK, `[{"name":{"common":"France"},"flags":{"png":"https://flagcdn.com/w320/fr.png"}}]`)
	}
	return repository.JSONResponse(req, http.StatusNotFound, `{}`)
}

type SkycastSuite struct {
	suite.Suite
	mr       *miniredis.Miniredis
	upstream *upstream
	router   http.Handler
	state    *service.AppState
}

func TestSkycastSuite(t *testing.T) {
	suite.Run(t, new(SkycastSuite))
}

func (s *SkycastSuite) SetupTest() {
	s.mr = miniredis.RunT(s.T())
	s.T().Setenv("REDIS_ADDR", s.mr.Addr())
	s.T().Setenv("OPENWEATHERMAP_API_KEY", "owm-test")
	s.T().Setenv("GEMINI_API_KEY", "model-test")
	redis.ResetClientForTest()

	s.upstream = &upstream{modelStatus: http.StatusOK}
	httpClient := repository.NewMockHTTPClient(s.upstream.roundTrip)

	s.state = service.NewAppState()
	weatherRepo := repository.NewWeatherRepository(httpClient)
	locations := service.NewLocationService(weatherRepo, repository.NewLocationRepository(), s.state)
	forecasts := service.NewForecastService(weatherRepo, config.GetBreakerConfig())
	countries := service.NewCountryService(repository.NewCountryRepository(httpClient))
	assistant := service.NewAssistantService(locations, repository.NewModelRepository(httpClient), s.state)

	h := NewHandler(Services{
		Dashboard:   service.NewDashboardService(locations, forecasts, countries),
		Locations:   locations,
		Forecasts:   forecasts,
		Countries:   countries,
		Chat:        service.NewChatSessions(assistant),
		Preferences: service.NewPreferenceService(repository.NewPreferenceRepository()),
		Ping:        redis.Ping,
	})
	s.router = NewRouter(h, middleware.NewRateLimiter(middleware.DefaultRateLimiterConfig()))
}

func (s *SkycastSuite) TearDownTest() {
	_ = redis.Close()
	redis.ResetClientForTest()
}

func (s *SkycastSuite) TestParisDashboardFallsBackToThreeHourForecast() {
	code, env := do(s.T(), s.router, http.MethodGet, "/api/v1/dashboard?city=Paris", "")
	s.Require().Equal(http.StatusOK, code)

	var dash model.Dashboard
	s.Require().NoError(json.Unmarshal(env.Data, &dash))
	s.Equal(model.Location{Name: "Paris", Country: "FR", Lat: 48.8534, Lon: 2.3488}, dash.Location)
	s.Require().NotNil(dash.Current)
	s.Equal(16.0, dash.Current.Temperature)

	s.Equal(model.SourceFallback, dash.Forecast.Source)
	s.Require().Len(dash.Forecast.Daily, 2)
	for _, d := range dash.Forecast.Daily {
		s.Equal(10.0, d.TempMin)
		s.Equal(18.0, d.TempMax)
		s.Equal("10d", d.IconCode)
	}
	s.Empty(dash.Forecast.Alerts)

	s.Require().NotNil(dash.Country)
	s.Equal("France", dash.Country.Name)
	s.True(s.mr.Exists("country:FR"))

	code, env = do(s.T(), s.router, http.MethodGet, "/api/v1/location", "")
	s.Equal(http.StatusOK, code)
	s.JSONEq(`{"name":"Paris","country":"FR","lat":48.8534,"lon":2.3488}`, string(env.Data))
}

func (s *SkycastSuite) TestUnknownCityIsNotFoundAndNotSaved() {
	code, env := do(s.T(), s.router, http.MethodGet, "/api/v1/dashboard?city=Atlantis", "")

	s.Equal(http.StatusNotFound, code)
	s.Require().NotNil(env.Error)
	s.Equal(service.NotFoundMessage, *env.Error)
	s.False(s.mr.Exists(repository.LocationKey))
	_, ok := s.state.Location()
	s.False(ok)
}

func (s *SkycastSuite) TestTokyoQuestionIsGroundedOnLiveWeather() {
	s.upstream.modelReply = "It's a clear day in Tokyo at about 21°C.\n\nI don't have access to real-time weather data, so check a local source."

	code, env := do(s.T(), s.router, http.MethodPost, "/api/v1/chat", `{"message":"What's the weather in Tokyo?"}`)
	s.Require().Equal(http.StatusOK, code)

	var out chatResponse
	s.Require().NoError(json.Unmarshal(env.Data, &out))
	s.Equal("It's a clear day in Tokyo at about 21°C.", out.Reply)
	s.Equal("Tokyo", out.GroundedOn)
	s.NotEmpty(out.SessionID)
	s.Len(out.History, 3)

	s.Require().Len(s.upstream.modelBodies, 1)
	body := s.upstream.modelBodies[0]
	s.Contains(body, "Current weather in Tokyo, JP: clear sky, 21°C, humidity 60%, wind 3.5 m/s.")
	s.NotContains(body, "model-test", "the key travels in the query string only")

	// a grounding lookup does not move the dashboard
	s.False(s.mr.Exists(repository.LocationKey))
}

func (s *SkycastSuite) TestChatModelFailureRetriesOnceThenReportsError() {
	s.upstream.modelStatus = http.StatusInternalServerError

	code, env := do(s.T(), s.router, http.MethodPost, "/api/v1/chat", `{"message":"Will it snow tomorrow?"}`)

	s.Equal(http.StatusBadGateway, code)
	s.Require().NotNil(env.Error)
	s.Equal(service.ChatErrorMessage, *env.Error)
	s.Len(s.upstream.modelBodies, 2)
}

func (s *SkycastSuite) TestHealthReportsRedis() {
	code, env := do(s.T(), s.router, http.MethodGet, "/health", "")
	s.Equal(http.StatusOK, code)
	s.JSONEq(`{"status":"ok","service":"skycast","onecall_breaker":"closed","redis":"ok"}`, string(env.Data))
}
