package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type fakeClock struct{ t time.Time }

func (f *fakeClock) now() time.Time          { return f.t }
func (f *fakeClock) advance(d time.Duration) { f.t = f.t.Add(d) }

func newTestLimiter(perMinute, perHour int) (*RateLimiter, *fakeClock) {
	clock := &fakeClock{t: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	rl := NewRateLimiter(perMinute, perHour, true)
	rl.now = clock.now
	return rl, clock
}

func TestAllowRequest_PerKeyMinuteWindow(t *testing.T) {
	rl, clock := newTestLimiter(2, 0)

	assert.True(t, rl.AllowRequest("1.1.1.1"))
	assert.True(t, rl.AllowRequest("1.1.1.1"))
	assert.False(t, rl.AllowRequest("1.1.1.1"))
	assert.True(t, rl.AllowRequest("2.2.2.2"), "keys are independent")

	clock.advance(61 * time.Second)
	assert.True(t, rl.AllowRequest("1.1.1.1"))
}

func TestAllowRequest_HourWindow(t *testing.T) {
	rl, clock := newTestLimiter(10, 3)

	for i := 0; i < 3; i++ {
		assert.True(t, rl.AllowRequest("k"))
		clock.advance(2 * time.Minute)
	}
	assert.False(t, rl.AllowRequest("k"))

	stats := rl.GetStats("k")
	assert.Equal(t, 3, stats.RequestsLastHour)
	assert.Equal(t, 0, stats.RemainingThisHour)
	assert.Equal(t, 10, stats.RemainingThisMinute)
}

func TestDisabled(t *testing.T) {
	rl := NewRateLimiter(1, 1, false)
	for i := 0; i < 5; i++ {
		assert.True(t, rl.AllowRequest("k"))
	}
	assert.False(t, rl.GetStats("k").Enabled)
}

func TestSweep(t *testing.T) {
	rl, clock := newTestLimiter(5, 5)
	rl.AllowRequest("old")
	clock.advance(30 * time.Minute)
	rl.AllowRequest("new")
	clock.advance(31 * time.Minute)

	assert.Equal(t, 1, rl.Sweep())
	assert.Equal(t, 1, rl.GetStats("new").RequestsLastHour)
}

func TestMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rl, _ := newTestLimiter(1, 0)

	r := gin.New()
	r.POST("/visit", Middleware(rl), func(c *gin.Context) { c.Status(http.StatusCreated) })

	post := func() int {
		req := httptest.NewRequest(http.MethodPost, "/visit", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}
	assert.Equal(t, http.StatusCreated, post())
	assert.Equal(t, http.StatusTooManyRequests, post())
}
