package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

type countingLimiter struct {
	mu   sync.Mutex
	max  int
	seen map[string]int
	keys []string
}

func (c *countingLimiter) Allow(_ context.Context, key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.seen == nil {
		c.seen = map[string]int{}
	}
	c.seen[key]++
	c.keys = append(c.keys, key)
	return c.seen[key] <= c.max
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRateLimit_BlocksAfterLimit(t *testing.T) {
	l := &countingLimiter{max: 2}
	h := RateLimit(l, "login:")(okHandler())

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
		req.RemoteAddr = "10.0.0.1:5555"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}

	assert.Equal(t, []int{200, 200, 429}, codes)
	assert.Equal(t, "login:10.0.0.1", l.keys[0])
}

func TestRateLimit_KeysPerClient(t *testing.T) {
	l := &countingLimiter{max: 1}
	h := RateLimit(l, "login:")(okHandler())

	for _, addr := range []string{"10.0.0.1:1", "10.0.0.2:1"} {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestRateLimit_NilLimiterPassesThrough(t *testing.T) {
	h := RateLimit(nil, "login:")(okHandler())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRedisLimiter_NilClientFailsOpen(t *testing.T) {
	var l *RedisLimiter
	assert.True(t, l.Allow(context.Background(), "k"))
	assert.True(t, NewRedisLimiter(nil, 5, 0).Allow(context.Background(), "k"))
}
