package service

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/fakhrymubarak/skycast/internal/model"
)

const (
	// IntroTurn opens every new conversation as a model turn.
	IntroTurn = "I'm SkyBot, your friendly weather assistant. I can help you with weather-related questions."

	// StoppedText is the reply when generation is cancelled.
	StoppedText = "Response generation stopped."

	// ChatErrorMessage is shown inline when the model fails twice.
	ChatErrorMessage = "Sorry, I encountered an error. Please try again later."
)

var locationPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)weather\s+(?:in|for|at)\s+([a-zA-Z\s,]+)`),
	regexp.MustCompile(`(?i)(?:how's|how is|what's|what is)\s+(?:the\s+)?weather\s+(?:in|at|for)\s+([a-zA-Z\s,]+)`),
}

var trailingTimeWords = regexp.MustCompile(`(?i)[\s,]+(today|tomorrow|tonight|now|right now|this week|this weekend)$`)

var disclaimers = []string{
	"I don't have access to real-time weather data",
	"I do not have real-time access to",
	"I don't have the ability to check",
	"I don't have current weather information",
	"I cannot provide real-time weather updates",
	"I don't have access to live weather data",
	"Powered by Google Gemini",
	"Powered by Gemini",
}

// ExtractLocation returns the place named in a "weather in X" style question, or "".
func ExtractLocation(text string) string {
	for _, re := range locationPatterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		loc := strings.TrimSpace(m[1])
		for {
			trimmed := strings.TrimSpace(trailingTimeWords.ReplaceAllString(loc, ""))
			if trimmed == loc {
				break
			}
			loc = trimmed
		}
		loc = strings.TrimRight(loc, ", ")
		if loc != "" {
			return loc
		}
	}
	return ""
}

// roundHalfUp rounds .5 toward positive infinity.
func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}

// WeatherContext renders the one-line summary handed to the model.
func WeatherContext(name, country string, c model.CurrentConditions) string {
	return fmt.Sprintf("Current weather in %s, %s: %s, %d°C, humidity %d%%, wind %s m/s.",
		name, country, c.Description, roundHalfUp(c.Temperature), c.Humidity,
		strconv.FormatFloat(c.WindSpeed, 'f', -1, 64))
}

// EnhancedPrompt is the user turn appended to the conversation history.
func EnhancedPrompt(message, weatherContext string) string {
	if weatherContext != "" {
		return message + "\n\nI have the following real-time weather information to use in my response: " +
			weatherContext +
			"\n\nPlease use this actual data in your response without disclaimers about not having access to real-time data."
	}
	return message + "\n\nPlease note that I don't have specific weather data for this query. " +
		"If the user is asking about current weather conditions for a specific location, suggest checking a weather website or app."
}

// SimplifiedPrompt is the single-turn request used for the retry.
func SimplifiedPrompt(message, weatherContext string) string {
	info := "I don't have specific weather data for this query."
	if weatherContext != "" {
		info = "I have access to the following weather information: " + weatherContext
	}
	return "User: " + message + "\n\nI am SkyBot, a weather assistant. " + info +
		"\n\nImportant: If I have weather data provided above, use it in my response instead of saying I don't have access to real-time weather data."
}

// StripDisclaimers drops every blank-line separated paragraph that contains a known disclaimer.
func StripDisclaimers(text string) string {
	paragraphs := strings.Split(text, "\n\n")
	kept := make([]string, 0, len(paragraphs))
	for _, p := range paragraphs {
		if !containsDisclaimer(p) {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, "\n\n")
}

func containsDisclaimer(paragraph string) bool {
	lower := strings.ToLower(paragraph)
	for _, d := range disclaimers {
		if strings.Contains(lower, strings.ToLower(d)) {
			return true
		}
	}
	return false
}
