package service

import (
	"time"

	"github.com/fakhrymubarak/skycast/internal/model"
)

func localTime(dt int64, tzOffsetSec int) time.Time {
	return time.Unix(dt, 0).UTC().Add(time.Duration(tzOffsetSec) * time.Second)
}

// isMidday reports whether the local hour is in [11,14].
func isMidday(t time.Time) bool {
	return t.Hour() >= 11 && t.Hour() <= 14
}

// DeriveDaily groups 3-hour samples by location-local calendar day, in order of first appearance.
// Each day gets the min and max sample temperature, the highest precipitation probability and
// the icon of its last midday sample, or of its first sample when none falls at midday.
// Date is the unix time of local midnight. Days follow the location's offset rather than the
// UTC date, so a +9h zone can span one more day than the same samples grouped in UTC.
func DeriveDaily(samples []model.ForecastSample, tzOffsetSec int) []model.DailyForecastEntry {
	days := make([]model.DailyForecastEntry, 0)
	index := make(map[string]int)

	for _, s := range samples {
		local := localTime(s.Dt, tzOffsetSec)
		key := local.Format("2006-01-02")
		cond := s.Condition()

		i, ok := index[key]
		if !ok {
			start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
			index[key] = len(days)
			days = append(days, model.DailyForecastEntry{
				Date:              start.Unix() - int64(tzOffsetSec),
				TempMin:           s.Main.Temp,
				TempMax:           s.Main.Temp,
				IconCode:          cond.Icon,
				Description:       cond.Description,
				PrecipProbability: s.PrecipProbability(),
			})
			continue
		}

		d := &days[i]
		if s.Main.Temp < d.TempMin {
			d.TempMin = s.Main.Temp
		}
		if s.Main.Temp > d.TempMax {
			d.TempMax = s.Main.Temp
		}
		if p := s.PrecipProbability(); p > d.PrecipProbability {
			d.PrecipProbability = p
		}
		if isMidday(local) {
			d.IconCode = cond.Icon
			d.Description = cond.Description
		}
	}
	return days
}

// DeriveHourly maps each 3-hour sample to one hourly entry.
func DeriveHourly(samples []model.ForecastSample) []model.HourlyForecastEntry {
	out := make([]model.HourlyForecastEntry, 0, len(samples))
	for _, s := range samples {
		cond := s.Condition()
		out = append(out, model.HourlyForecastEntry{
			Time:              s.Dt,
			Temp:              s.Main.Temp,
			FeelsLike:         s.Main.FeelsLike,
			Humidity:          s.Main.Humidity,
			Pressure:          s.Main.Pressure,
			IconCode:          cond.Icon,
			Description:       cond.Description,
			PrecipProbability: s.PrecipProbability(),
		})
	}
	return out
}
