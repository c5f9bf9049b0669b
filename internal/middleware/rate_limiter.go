package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/fakhrymubarak/skycast/internal/config"
	"github.com/fakhrymubarak/skycast/internal/model"
	"golang.org/x/time/rate"
)

// LimitConfig is a token bucket expressed in requests per minute.
type LimitConfig struct {
	PerMinute float64
	Burst     int
}

// RateLimiterConfig configures the three limiter groups.
type RateLimiterConfig struct {
	Global LimitConfig
	Param  LimitConfig
	Chat   LimitConfig
	// ParamKey is the query parameter used for per-param limiting.
	ParamKey       string
	CleanupTimeout time.Duration
}

// DefaultRateLimiterConfig reads the limits from config.yaml.
func DefaultRateLimiterConfig() RateLimiterConfig {
	gRate, gBurst := config.GetGlobalRateLimiterConfig()
	pRate, pBurst := config.GetParamRateLimiterConfig()
	cRate, cBurst := config.GetChatRateLimiterConfig()
	return RateLimiterConfig{
		Global:         LimitConfig{PerMinute: gRate, Burst: gBurst},
		Param:          LimitConfig{PerMinute: pRate, Burst: pBurst},
		Chat:           LimitConfig{PerMinute: cRate, Burst: cBurst},
		ParamKey:       "city",
		CleanupTimeout: config.GetRateLimiterCleanupTimeout(),
	}
}

// the visitor holds the rate limiter and last seen time for one key.
type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// limiterGroup maps keys (an IP, or an IP and a parameter value) to their visitor.
type limiterGroup struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	cfg      LimitConfig
}

func newLimiterGroup(cfg LimitConfig) *limiterGroup {
	return &limiterGroup{visitors: make(map[string]*visitor), cfg: cfg}
}

// get returns the rate limiter for the given key, creating one if it does not exist.
func (g *limiterGroup) get(key string) *rate.Limiter {
	g.mu.Lock()
	defer g.mu.Unlock()
	v, exists := g.visitors[key]
	if !exists {
		limiter := rate.NewLimiter(rate.Limit(g.cfg.PerMinute/60.0), g.cfg.Burst)
		g.visitors[key] = &visitor{limiter, time.Now()}
		return limiter
	}
	v.lastSeen = time.Now()
	return v.limiter
}

// cleanup removes visitors that have not been seen for longer than maxIdle.
func (g *limiterGroup) cleanup(maxIdle time.Duration) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for key, v := range g.visitors {
		if time.Since(v.lastSeen) > maxIdle {
			delete(g.visitors, key)
		}
	}
}

func (g *limiterGroup) reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.visitors = make(map[string]*visitor)
}

func (g *limiterGroup) size() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.visitors)
}

// RateLimiter enforces a per-IP limit on every request, a per-IP limit per value of
// the configured query parameter, and a separate per-IP limit on chat sends.
type RateLimiter struct {
	global *limiterGroup
	param  *limiterGroup
	chat   *limiterGroup
	cfg    RateLimiterConfig
}

func NewRateLimiter(cfg RateLimiterConfig) *RateLimiter {
	if cfg.ParamKey == "" {
		cfg.ParamKey = "city"
	}
	if cfg.CleanupTimeout <= 0 {
		cfg.CleanupTimeout = 3 * time.Minute
	}
	return &RateLimiter{
		global: newLimiterGroup(cfg.Global),
		param:  newLimiterGroup(cfg.Param),
		chat:   newLimiterGroup(cfg.Chat),
		cfg:    cfg,
	}
}

// StartCleanup removes stale visitors every minute until ctx is done.
func (rl *RateLimiter) StartCleanup(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				rl.Cleanup()
			}
		}
	}()
}

// Cleanup removes visitors idle for longer than the configured timeout.
func (rl *RateLimiter) Cleanup() {
	rl.global.cleanup(rl.cfg.CleanupTimeout)
	rl.param.cleanup(rl.cfg.CleanupTimeout)
	rl.chat.cleanup(rl.cfg.CleanupTimeout)
}

// Reset clears all visitor states. Used primarily for testing.
func (rl *RateLimiter) Reset() {
	rl.global.reset()
	rl.param.reset()
	rl.chat.reset()
}

// getIP extracts the client's IP address from the HTTP request, considering X-Forwarded-For headers.
func getIP(r *http.Request) string {
	xff := r.Header.Get("X-Forwarded-For")
	if xff != "" {
		ips := strings.Split(xff, ",")
		return strings.TrimSpace(ips[0])
	}
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr // fallback
	}
	return ip
}

func writeTooManyRequests(w http.ResponseWriter, errMsg, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusTooManyRequests)
	_ = json.NewEncoder(w).Encode(model.Failure(errMsg, message))
}

// Middleware enforces global and per-parameter rate limiting.
// If the rate limit is exceeded, it responds with a 429 status and a JSON error message.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := getIP(r)
		if !rl.global.get(ip).Allow() {
			writeTooManyRequests(w,
				fmt.Sprintf("Rate limit exceeded: max %g requests per minute per user/IP", rl.cfg.Global.PerMinute),
				"Too Many Requests (global limit)")
			return
		}
		// only requests carrying the parameter are limited per value
		if param := strings.ToLower(strings.TrimSpace(r.URL.Query().Get(rl.cfg.ParamKey))); param != "" {
			if !rl.param.get(ip + "|" + param).Allow() {
				writeTooManyRequests(w,
					fmt.Sprintf("Rate limit exceeded: max %g requests per minute per unique %s per user/IP", rl.cfg.Param.PerMinute, rl.cfg.ParamKey),
					"Too Many Requests (per-param limit)")
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

// ChatMiddleware limits chat sends per IP. Each send costs a model call.
func (rl *RateLimiter) ChatMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.chat.get(getIP(r)).Allow() {
			writeTooManyRequests(w,
				fmt.Sprintf("Rate limit exceeded: max %g chat messages per minute per user/IP", rl.cfg.Chat.PerMinute),
				"Too Many Requests (chat limit)")
			return
		}
		next.ServeHTTP(w, r)
	})
}
