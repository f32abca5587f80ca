package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newEngine(mw ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(mw...)
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	r.POST("/echo", func(c *gin.Context) {
		body, err := c.GetRawData()
		if err != nil {
			c.Status(http.StatusRequestEntityTooLarge)
			return
		}
		c.String(http.StatusOK, string(body))
	})
	return r
}

func do(r http.Handler, method, path, body, ip string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.RemoteAddr = ip + ":12345"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRateLimiter_Refills(t *testing.T) {
	rl := NewRateLimiter(2, time.Second)
	start := rl.lastTime

	assert.True(t, rl.allowAt(start))
	assert.True(t, rl.allowAt(start))
	assert.False(t, rl.allowAt(start))

	// 半秒補回一個令牌
	assert.True(t, rl.allowAt(start.Add(500*time.Millisecond)))
	assert.False(t, rl.allowAt(start.Add(600*time.Millisecond)))
}

func TestRateLimit_PerClient(t *testing.T) {
	r := newEngine(RateLimit(2, time.Minute))

	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/ping", "", "10.0.0.1").Code)
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/ping", "", "10.0.0.1").Code)

	w := do(r, http.MethodGet, "/ping", "", "10.0.0.1")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "60", w.Header().Get("Retry-After"))
	assert.Contains(t, w.Body.String(), "TOO_MANY_REQUESTS")

	// 其他客戶端不受影響
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/ping", "", "10.0.0.2").Code)
}

func TestDeduplication(t *testing.T) {
	r := newEngine(Deduplication(time.Minute))

	w := do(r, http.MethodPost, "/echo", `{"text":"water"}`, "10.0.0.1")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `{"text":"water"}`, w.Body.String(), "body is restored for the handler")

	assert.Equal(t, http.StatusTooManyRequests, do(r, http.MethodPost, "/echo", `{"text":"water"}`, "10.0.0.1").Code)
	assert.Equal(t, http.StatusOK, do(r, http.MethodPost, "/echo", `{"text":"glycerin"}`, "10.0.0.1").Code)
	assert.Equal(t, http.StatusOK, do(r, http.MethodPost, "/echo", `{"text":"water"}`, "10.0.0.2").Code)

	// GET 不去重
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/ping", "", "10.0.0.1").Code)
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/ping", "", "10.0.0.1").Code)
}

func TestDeduplicator_WindowExpires(t *testing.T) {
	d := newDeduplicator(time.Second)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	d.now = func() time.Time { return now }

	assert.False(t, d.seen("a"))
	assert.True(t, d.seen("a"))

	now = now.Add(2 * time.Second)
	assert.False(t, d.seen("a"))
}

func TestBodySizeLimit(t *testing.T) {
	r := newEngine(BodySizeLimit(8))

	assert.Equal(t, http.StatusOK, do(r, http.MethodPost, "/echo", "short", "10.0.0.1").Code)

	w := do(r, http.MethodPost, "/echo", "this body is too long", "10.0.0.1")
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Contains(t, w.Body.String(), "REQUEST_TOO_LARGE")
}

func TestRecovery(t *testing.T) {
	r := gin.New()
	r.Use(Recovery())
	r.GET("/boom", func(c *gin.Context) { panic("boom") })

	w := do(r, http.MethodGet, "/boom", "", "10.0.0.1")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "INTERNAL_ERROR")
}

func TestTimeout_WritesGatewayTimeout(t *testing.T) {
	r := gin.New()
	r.Use(Timeout(20 * time.Millisecond))
	r.GET("/stuck", func(c *gin.Context) {
		<-c.Request.Context().Done()
	})

	w := do(r, http.MethodGet, "/stuck", "", "10.0.0.1")
	assert.Equal(t, http.StatusGatewayTimeout, w.Code)
	assert.Contains(t, w.Body.String(), "GATEWAY_TIMEOUT")
}

func TestTimeout(t *testing.T) {
	r := gin.New()
	r.Use(Timeout(20 * time.Millisecond))
	r.GET("/slow", func(c *gin.Context) {
		select {
		case <-c.Request.Context().Done():
			assert.ErrorIs(t, c.Request.Context().Err(), context.DeadlineExceeded)
			c.Status(http.StatusGatewayTimeout)
		case <-time.After(time.Second):
			c.Status(http.StatusOK)
		}
	})

	assert.Equal(t, http.StatusGatewayTimeout, do(r, http.MethodGet, "/slow", "", "10.0.0.1").Code)
}
