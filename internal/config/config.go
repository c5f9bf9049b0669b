package config

import (
	"flag"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var once sync.Once
var logger *zap.SugaredLogger
var loggerOnce sync.Once

// isTestRun returns true if the current process is a Go test binary.
func isTestRun() bool {
	return flag.Lookup("test.v") != nil || filepath.Ext(os.Args[0]) == ".test"
}

func initConfig() {
	once.Do(func() {
		root, err := getProjectRoot()
		if err != nil {
			GetLogger().Errorw("Error finding project root", "error", err)
		}
		viper.SetConfigType("yaml")

		viper.SetConfigName("config")
		viper.AddConfigPath(root)
		if err = viper.ReadInConfig(); err != nil {
			GetLogger().Errorw("Error reading config file", "error", err)
		}

		if isTestRun() {
			viper.SetConfigName("config_test")
			if err = viper.MergeInConfig(); err != nil {
				GetLogger().Errorw("Error merging test config file", "error", err)
			}
		}
	})
}

func getProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", os.ErrNotExist
}

func getDuration(key string, def time.Duration) time.Duration {
	initConfig()
	durStr := viper.GetString(key)
	if durStr == "" {
		return def
	}
	dur, err := time.ParseDuration(durStr)
	if err != nil {
		return def
	}
	return dur
}

func getStringDefault(key, def string) string {
	initConfig()
	if v := viper.GetString(key); v != "" {
		return v
	}
	return def
}

// GetOpenWeatherBaseURL returns the OpenWeatherMap data API root, without a trailing slash.
func GetOpenWeatherBaseURL() string {
	return strings.TrimRight(getStringDefault("openweathermap.base_url", "https://api.openweathermap.org/data/2.5"), "/")
}

func GetOpenWeatherMapAPIKey() string {
	_ = godotenv.Load()
	return os.Getenv("OPENWEATHERMAP_API_KEY")
}

func GetRestCountriesBaseURL() string {
	return strings.TrimRight(getStringDefault("restcountries.base_url", "https://restcountries.com/v3.1"), "/")
}

// GetModelEndpoint returns the generateContent URL of the language model.
func GetModelEndpoint() string {
	return getStringDefault("gemini.endpoint",
		"https://generativelanguage.googleapis.com/v1beta/models/gemini-1.5-flash:generateContent")
}

// GetModelAPIKey reads the language model key from the environment only.
// The key is never served to clients.
func GetModelAPIKey() string {
	_ = godotenv.Load()
	return os.Getenv("GEMINI_API_KEY")
}

func GetRedisAddr() string {
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		return addr
	}
	return getStringDefault("redis.addr", "localhost:6379")
}

func GetRedisPassword() string {
	_ = godotenv.Load()
	if pw := os.Getenv("REDIS_PASSWORD"); pw != "" {
		return pw
	}
	initConfig()
	return viper.GetString("redis.password")
}

func GetRedisDB() int {
	initConfig()
	return viper.GetInt("redis.db")
}

func GetServerPort() string {
	if port := os.Getenv("PORT"); port != "" {
		return port
	}
	return getStringDefault("server.port", "8080")
}

// GetServerTimeout returns server.<key> as a duration, 15s when unset.
func GetServerTimeout(key string) time.Duration {
	return getDuration("server."+key, 15*time.Second)
}

// GetCacheExpiration is the TTL of cached country metadata.
func GetCacheExpiration() time.Duration {
	return getDuration("cache.expiration", 24*time.Hour)
}

func GetHTTPTimeout() time.Duration {
	return getDuration("http.timeout", 10*time.Second)
}

// BreakerConfig holds circuit breaker settings for the aggregate forecast endpoint.
type BreakerConfig struct {
	MaxRequests         uint32
	Interval            time.Duration
	Timeout             time.Duration
	ConsecutiveFailures uint32
}

func GetBreakerConfig() BreakerConfig {
	initConfig()
	cfg := BreakerConfig{
		MaxRequests:         uint32(viper.GetInt("breaker.max_requests")),
		Interval:            getDuration("breaker.interval", time.Minute),
		Timeout:             getDuration("breaker.timeout", 2*time.Minute),
		ConsecutiveFailures: uint32(viper.GetInt("breaker.consecutive_failures")),
	}
	if cfg.MaxRequests == 0 {
		cfg.MaxRequests = 1
	}
	if cfg.ConsecutiveFailures == 0 {
		cfg.ConsecutiveFailures = 3
	}
	return cfg
}

func GetSchedulerInterval() time.Duration {
	return getDuration("scheduler.interval", 15*time.Minute)
}

// ReloadConfigForTest resets the config singleton and reloads Viper config. Use only in tests.
func ReloadConfigForTest() {
	once = sync.Once{}
	initConfig()
}

func GetLogger() *zap.SugaredLogger {
	loggerOnce.Do(func() {
		l, err := zap.NewDevelopment()
		if err != nil {
			panic(err)
		}
		logger = l.Sugar()
	})
	return logger
}

// GetRateLimiterCleanupTimeout returns the rate limiter cleanup timeout as a time.Duration.
// Defaults to 3m if not set or invalid.
func GetRateLimiterCleanupTimeout() time.Duration {
	return getDuration("rate_limiter.cleanup_timeout", 3*time.Minute)
}

func getLimiterConfig(name string, defRate float64, defBurst int) (rate float64, burst int) {
	initConfig()
	rate = viper.GetFloat64("rate_limiter." + name + ".rate")
	if rate == 0 {
		rate = defRate
	}
	burst = viper.GetInt("rate_limiter." + name + ".burst")
	if burst == 0 {
		burst = defBurst
	}
	return
}

// GetGlobalRateLimiterConfig returns requests per minute and burst for the per-IP limiter.
func GetGlobalRateLimiterConfig() (rate float64, burst int) {
	return getLimiterConfig("global", 60, 20)
}

// GetParamRateLimiterConfig returns requests per minute and burst for the per-IP, per-city limiter.
func GetParamRateLimiterConfig() (rate float64, burst int) {
	return getLimiterConfig("param", 10, 5)
}

// GetChatRateLimiterConfig returns requests per minute and burst for chat sends per IP.
func GetChatRateLimiterConfig() (rate float64, burst int) {
	return getLimiterConfig("chat", 6, 3)
}
