package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fakhrymubarak/skycast/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// Bursts are small so only the burst is allowed instantly; refill is too slow to matter in a test.
func testLimiter() *RateLimiter {
	return NewRateLimiter(RateLimiterConfig{
		Global:         LimitConfig{PerMinute: 1, Burst: 10},
		Param:          LimitConfig{PerMinute: 1, Burst: 2},
		Chat:           LimitConfig{PerMinute: 1, Burst: 3},
		ParamKey:       "city",
		CleanupTimeout: time.Minute,
	})
}

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
})

func serve(h http.Handler, target, remote string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	req.RemoteAddr = remote
	h.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) model.Response {
	t.Helper()
	var resp model.Response
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	require.NotNil(t, resp.Error)
	return resp
}

func TestRateLimiter_GlobalBurst(t *testing.T) {
	rl := testLimiter()
	mw := rl.Middleware(okHandler)
	ip := "1.2.3.4:1234"

	for i := 0; i < 10; i++ {
		w := serve(mw, fmt.Sprintf("/api/v1/dashboard?city=city%d", i), ip)
		require.Equal(t, http.StatusOK, w.Code, "request %d", i+1)
	}

	w := serve(mw, "/api/v1/dashboard?city=other", ip)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	resp := decodeError(t, w)
	assert.Contains(t, *resp.Error, "Rate limit exceeded")
	assert.Equal(t, "Too Many Requests (global limit)", resp.Message)

	// another client is unaffected
	assert.Equal(t, http.StatusOK, serve(mw, "/api/v1/dashboard", "9.9.9.9:1").Code)
}

func TestRateLimiter_PerParamBurst(t *testing.T) {
	rl := testLimiter()
	mw := rl.Middleware(okHandler)
	ip := "2.3.4.5:2345"

	for i := 0; i < 2; i++ {
		require.Equal(t, http.StatusOK, serve(mw, "/api/v1/dashboard?city=London", ip).Code)
	}

	w := serve(mw, "/api/v1/dashboard?city=%20london", ip)
	assert.Equal(t, http.StatusTooManyRequests, w.Code, "param values are normalized")
	resp := decodeError(t, w)
	assert.Equal(t, "Too Many Requests (per-param limit)", resp.Message)

	assert.Equal(t, http.StatusOK, serve(mw, "/api/v1/dashboard?city=Paris", ip).Code)
}

func TestRateLimiter_ChatBurst(t *testing.T) {
	rl := testLimiter()
	mw := rl.ChatMiddleware(okHandler)

	for i := 0; i < 3; i++ {
		require.Equal(t, http.StatusOK, serve(mw, "/api/v1/chat", "5.5.5.5:80").Code)
	}
	w := serve(mw, "/api/v1/chat", "5.5.5.5:80")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "Too Many Requests (chat limit)", decodeError(t, w).Message)
}

func TestRateLimiter_ResetAndCleanup(t *testing.T) {
	rl := testLimiter()
	mw := rl.Middleware(okHandler)
	serve(mw, "/?city=Oslo", "7.7.7.7:1")
	assert.Equal(t, 1, rl.global.size())
	assert.Equal(t, 1, rl.param.size())

	rl.cfg.CleanupTimeout = 0
	time.Sleep(time.Millisecond)
	rl.Cleanup()
	assert.Equal(t, 0, rl.global.size())
	assert.Equal(t, 0, rl.param.size())

	serve(mw, "/", "7.7.7.7:1")
	rl.Reset()
	assert.Equal(t, 0, rl.global.size())
}

func TestRateLimiter_StartCleanupStopsWithContext(t *testing.T) {
	rl := testLimiter()
	ctx, cancel := context.WithCancel(context.Background())
	rl.StartCleanup(ctx)
	cancel()
}

func TestGetIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:5555"
	assert.Equal(t, "10.0.0.1", getIP(req))

	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	assert.Equal(t, "203.0.113.7", getIP(req))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "no-port"
	assert.Equal(t, "no-port", getIP(req))
}

func TestRecoverer(t *testing.T) {
	h := Recoverer(zap.NewNop().Sugar())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))
	w := serve(h, "/", "1.1.1.1:1")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Internal server error", *decodeError(t, w).Error)
}

func TestChainOrderAndRequestLogger(t *testing.T) {
	var order []string
	mark := func(name string) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}
	teapot := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	h := Chain(teapot, mark("a"), RequestLogger(zap.NewNop().Sugar()), mark("b"))

	w := serve(h, "/", "1.1.1.1:1")
	assert.Equal(t, http.StatusTeapot, w.Code)
	assert.Equal(t, []string{"a", "b"}, order)
}
