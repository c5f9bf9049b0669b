package model

// OWMCondition is one entry of the "weather" array every OpenWeatherMap endpoint returns.
type OWMCondition struct {
	ID          int    `json:"id"`
	Main        string `json:"main"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// OpenWeatherMapResponse is the body of /weather.
type OpenWeatherMapResponse struct {
	Coord struct {
		Lat float64 `json:"lat"`
		Lon float64 `json:"lon"`
	} `json:"coord"`
	Weather []OWMCondition `json:"weather"`
	Main    struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		TempMin   float64 `json:"temp_min"`
		TempMax   float64 `json:"temp_max"`
		Pressure  int     `json:"pressure"`
		Humidity  int     `json:"humidity"`
	} `json:"main"`
	Visibility int `json:"visibility"`
	Wind       struct {
		Speed float64 `json:"speed"`
		Deg   float64 `json:"deg"`
	} `json:"wind"`
	Sys struct {
		Country string `json:"country"`
		Sunrise int64  `json:"sunrise"`
		Sunset  int64  `json:"sunset"`
	} `json:"sys"`
	Timezone int    `json:"timezone"`
	Name     string `json:"name"`
}

func firstCondition(list []OWMCondition) OWMCondition {
	if len(list) == 0 {
		return OWMCondition{}
	}
	return list[0]
}

// ToCurrentConditions maps the /weather body to a snapshot.
func (r OpenWeatherMapResponse) ToCurrentConditions() CurrentConditions {
	c := firstCondition(r.Weather)
	return CurrentConditions{
		Location:          r.Name,
		Country:           r.Sys.Country,
		Temperature:       r.Main.Temp,
		FeelsLike:         r.Main.FeelsLike,
		Humidity:          r.Main.Humidity,
		WindSpeed:         r.Wind.Speed,
		WindDirectionDeg:  r.Wind.Deg,
		Pressure:          r.Main.Pressure,
		VisibilityMeters:  r.Visibility,
		Main:              c.Main,
		Description:       c.Description,
		IconCode:          c.Icon,
		Sunrise:           r.Sys.Sunrise,
		Sunset:            r.Sys.Sunset,
		TimezoneOffsetSec: r.Timezone,
	}
}

// OneCallAlert is one entry of the /onecall "alerts" array.
type OneCallAlert struct {
	SenderName  string `json:"sender_name"`
	Event       string `json:"event"`
	Start       int64  `json:"start"`
	End         int64  `json:"end"`
	Description string `json:"description"`
}

type OneCallCurrent struct {
	Dt         int64          `json:"dt"`
	Sunrise    int64          `json:"sunrise"`
	Sunset     int64          `json:"sunset"`
	Temp       float64        `json:"temp"`
	FeelsLike  float64        `json:"feels_like"`
	Pressure   int            `json:"pressure"`
	Humidity   int            `json:"humidity"`
	Visibility int            `json:"visibility"`
	WindSpeed  float64        `json:"wind_speed"`
	WindDeg    float64        `json:"wind_deg"`
	Weather    []OWMCondition `json:"weather"`
}

type OneCallHourly struct {
	Dt        int64          `json:"dt"`
	Temp      float64        `json:"temp"`
	FeelsLike float64        `json:"feels_like"`
	Pressure  int            `json:"pressure"`
	Humidity  int            `json:"humidity"`
	Pop       float64        `json:"pop"`
	Weather   []OWMCondition `json:"weather"`
}

type OneCallDaily struct {
	Dt   int64 `json:"dt"`
	Temp struct {
		Min float64 `json:"min"`
		Max float64 `json:"max"`
	} `json:"temp"`
	Pop     float64        `json:"pop"`
	Weather []OWMCondition `json:"weather"`
}

// OneCallResponse is the body of /onecall (minutely excluded).
type OneCallResponse struct {
	Lat            float64         `json:"lat"`
	Lon            float64         `json:"lon"`
	TimezoneOffset int             `json:"timezone_offset"`
	Current        *OneCallCurrent `json:"current"`
	Hourly         []OneCallHourly `json:"hourly"`
	Daily          []OneCallDaily  `json:"daily"`
	Alerts         []OneCallAlert  `json:"alerts"`
}

// CurrentConditions maps the "current" block; nil when the upstream omitted it.
func (r OneCallResponse) CurrentConditions() *CurrentConditions {
	if r.Current == nil {
		return nil
	}
	c := firstCondition(r.Current.Weather)
	return &CurrentConditions{
		Temperature:       r.Current.Temp,
		FeelsLike:         r.Current.FeelsLike,
		Humidity:          r.Current.Humidity,
		WindSpeed:         r.Current.WindSpeed,
		WindDirectionDeg:  r.Current.WindDeg,
		Pressure:          r.Current.Pressure,
		VisibilityMeters:  r.Current.Visibility,
		Main:              c.Main,
		Description:       c.Description,
		IconCode:          c.Icon,
		Sunrise:           r.Current.Sunrise,
		Sunset:            r.Current.Sunset,
		TimezoneOffsetSec: r.TimezoneOffset,
	}
}

func (r OneCallResponse) HourlyEntries() []HourlyForecastEntry {
	out := make([]HourlyForecastEntry, 0, len(r.Hourly))
	for _, h := range r.Hourly {
		c := firstCondition(h.Weather)
		out = append(out, HourlyForecastEntry{
			Time:              h.Dt,
			Temp:              h.Temp,
			FeelsLike:         h.FeelsLike,
			Humidity:          h.Humidity,
			Pressure:          h.Pressure,
			IconCode:          c.Icon,
			Description:       c.Description,
			PrecipProbability: h.Pop,
		})
	}
	return out
}

func (r OneCallResponse) DailyEntries() []DailyForecastEntry {
	out := make([]DailyForecastEntry, 0, len(r.Daily))
	for _, d := range r.Daily {
		c := firstCondition(d.Weather)
		out = append(out, DailyForecastEntry{
			Date:              d.Dt,
			TempMin:           d.Temp.Min,
			TempMax:           d.Temp.Max,
			IconCode:          c.Icon,
			Description:       c.Description,
			PrecipProbability: d.Pop,
		})
	}
	return out
}

// WeatherAlerts maps alerts without severity; classification happens in the service.
func (r OneCallResponse) WeatherAlerts() []WeatherAlert {
	out := make([]WeatherAlert, 0, len(r.Alerts))
	for _, a := range r.Alerts {
		out = append(out, WeatherAlert{
			Event:       a.Event,
			SenderName:  a.SenderName,
			Start:       a.Start,
			End:         a.End,
			Description: a.Description,
		})
	}
	return out
}

// ForecastSample is one 3-hour entry of /forecast.
type ForecastSample struct {
	Dt   int64 `json:"dt"`
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Pressure  int     `json:"pressure"`
		Humidity  int     `json:"humidity"`
	} `json:"main"`
	Weather []OWMCondition `json:"weather"`
	Pop     *float64       `json:"pop,omitempty"`
}

// Condition returns the first weather condition of the sample.
func (s ForecastSample) Condition() OWMCondition {
	return firstCondition(s.Weather)
}

// PrecipProbability returns pop, 0 when absent.
func (s ForecastSample) PrecipProbability() float64 {
	if s.Pop == nil {
		return 0
	}
	return *s.Pop
}

// ForecastResponse is the body of the legacy /forecast endpoint.
type ForecastResponse struct {
	List []ForecastSample `json:"list"`
	City struct {
		Name     string `json:"name"`
		Country  string `json:"country"`
		Timezone int    `json:"timezone"`
		Sunrise  int64  `json:"sunrise"`
		Sunset   int64  `json:"sunset"`
	} `json:"city"`
}
