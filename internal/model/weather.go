package model

// Location is the single "current" place the dashboard is showing.
type Location struct {
	Name    string  `json:"name"`
	Country string  `json:"country"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

// CurrentConditions is a snapshot of the weather at a location. Timestamps are unix seconds.
type CurrentConditions struct {
	Location          string  `json:"location,omitempty"`
	Country           string  `json:"country,omitempty"`
	Temperature       float64 `json:"temperature"`
	FeelsLike         float64 `json:"feels_like"`
	Humidity          int     `json:"humidity"`
	WindSpeed         float64 `json:"wind_speed"`
	WindDirectionDeg  float64 `json:"wind_direction_deg"`
	Pressure          int     `json:"pressure"`
	VisibilityMeters  int     `json:"visibility_meters"`
	Main              string  `json:"main,omitempty"`
	Description       string  `json:"description"`
	IconCode          string  `json:"icon_code"`
	Sunrise           int64   `json:"sunrise"`
	Sunset            int64   `json:"sunset"`
	TimezoneOffsetSec int     `json:"timezone_offset_sec"`
}

type DailyForecastEntry struct {
	Date              int64   `json:"date"`
	TempMin           float64 `json:"temp_min"`
	TempMax           float64 `json:"temp_max"`
	IconCode          string  `json:"icon_code"`
	Description       string  `json:"description"`
	PrecipProbability float64 `json:"precip_probability"`
}

type HourlyForecastEntry struct {
	Time              int64   `json:"time"`
	Temp              float64 `json:"temp"`
	FeelsLike         float64 `json:"feels_like"`
	Humidity          int     `json:"humidity"`
	Pressure          int     `json:"pressure"`
	IconCode          string  `json:"icon_code"`
	Description       string  `json:"description"`
	PrecipProbability float64 `json:"precip_probability"`
}

// Severity is the display level of a weather alert.
type Severity string

const (
	SeverityExtreme  Severity = "extreme"
	SeveritySevere   Severity = "severe"
	SeverityModerate Severity = "moderate"
	SeverityMinor    Severity = "minor"
)

// Rank orders severities, 1 being the most severe. Unknown values rank last.
func (s Severity) Rank() int {
	switch s {
	case SeverityExtreme:
		return 1
	case SeveritySevere:
		return 2
	case SeverityModerate:
		return 3
	default:
		return 4
	}
}

type WeatherAlert struct {
	Event       string   `json:"event"`
	SenderName  string   `json:"sender_name"`
	Start       int64    `json:"start"`
	End         int64    `json:"end"`
	Description string   `json:"description"`
	Severity    Severity `json:"severity"`
}

// ForecastSource records which upstream produced a Forecast.
type ForecastSource string

const (
	SourceOneCall  ForecastSource = "onecall"
	SourceFallback ForecastSource = "fallback"
	SourceNone     ForecastSource = "none"
)

// Forecast is the unified result of the aggregator. Slices are never nil.
type Forecast struct {
	Current *CurrentConditions    `json:"current,omitempty"`
	Hourly  []HourlyForecastEntry `json:"hourly"`
	Daily   []DailyForecastEntry  `json:"daily"`
	Alerts  []WeatherAlert        `json:"alerts"`
	Source  ForecastSource        `json:"source"`
}

// EmptyForecast is the degraded result when no upstream answered.
func EmptyForecast() Forecast {
	return Forecast{
		Hourly: []HourlyForecastEntry{},
		Daily:  []DailyForecastEntry{},
		Alerts: []WeatherAlert{},
		Source: SourceNone,
	}
}

// Dashboard is everything the presentation layer needs to render one location.
type Dashboard struct {
	Location Location           `json:"location"`
	Current  *CurrentConditions `json:"current,omitempty"`
	Forecast Forecast           `json:"forecast"`
	Country  *CountryInfo       `json:"country,omitempty"`
}
