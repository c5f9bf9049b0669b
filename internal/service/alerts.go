package service

import (
	"sort"
	"strings"

	"github.com/fakhrymubarak/skycast/internal/model"
)

// severityKeywords is checked top to bottom; the first level with a matching keyword wins.
var severityKeywords = []struct {
	level    model.Severity
	keywords []string
}{
	{model.SeverityExtreme, []string{"extreme", "tornado", "hurricane", "typhoon"}},
	{model.SeveritySevere, []string{"severe", "warning", "thunderstorm", "flood"}},
	{model.SeverityModerate, []string{"moderate", "watch", "advisory"}},
}

// hasAny returns true if s contains any of the substrings.
func hasAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// ClassifySeverity maps an alert event name to a severity. Unknown or empty events are minor.
func ClassifySeverity(event string) model.Severity {
	event = strings.ToLower(event)
	if event == "" {
		return model.SeverityMinor
	}
	for _, s := range severityKeywords {
		if hasAny(event, s.keywords...) {
			return s.level
		}
	}
	return model.SeverityMinor
}

// SortAlerts classifies every alert and returns a copy ordered from most to least severe.
// Alerts of equal severity keep their original order.
func SortAlerts(alerts []model.WeatherAlert) []model.WeatherAlert {
	out := make([]model.WeatherAlert, len(alerts))
	copy(out, alerts)
	for i := range out {
		out[i].Severity = ClassifySeverity(out[i].Event)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Severity.Rank() < out[j].Severity.Rank()
	})
	return out
}
