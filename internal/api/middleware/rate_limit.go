package middleware

import (
	"fmt"
	"math"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"ingredient-safety/internal/pkg/common"
)

// RateLimiter 令牌桶限流器
type RateLimiter struct {
	mu       sync.Mutex
	tokens   float64
	capacity float64
	rate     float64
	lastTime time.Time
}

// NewRateLimiter 創建新的限流器
func NewRateLimiter(requests int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		tokens:   float64(requests),
		capacity: float64(requests),
		rate:     float64(requests) / window.Seconds(),
		lastTime: time.Now(),
	}
}

// Allow 檢查是否允許請求
func (rl *RateLimiter) Allow() bool {
	return rl.allowAt(time.Now())
}

func (rl *RateLimiter) allowAt(now time.Time) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if elapsed := now.Sub(rl.lastTime).Seconds(); elapsed > 0 {
		rl.tokens = math.Min(rl.capacity, rl.tokens+elapsed*rl.rate)
		rl.lastTime = now
	}

	if rl.tokens >= 1 {
		rl.tokens--
		return true
	}
	return false
}

// idleAt 令牌已補滿，代表客戶端已閒置
func (rl *RateLimiter) idleAt(now time.Time) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return rl.tokens+now.Sub(rl.lastTime).Seconds()*rl.rate >= rl.capacity
}

// clientLimiters 每個客戶端 IP 各自一個令牌桶
type clientLimiters struct {
	mu        sync.Mutex
	requests  int
	window    time.Duration
	limiters  map[string]*RateLimiter
	lastSweep time.Time
}

func (cl *clientLimiters) get(key string, now time.Time) *RateLimiter {
	cl.mu.Lock()
	defer cl.mu.Unlock()

	if now.Sub(cl.lastSweep) > cl.window {
		for k, l := range cl.limiters {
			if l.idleAt(now) {
				delete(cl.limiters, k)
			}
		}
		cl.lastSweep = now
	}

	l, ok := cl.limiters[key]
	if !ok {
		l = NewRateLimiter(cl.requests, cl.window)
		l.lastTime = now
		cl.limiters[key] = l
	}
	return l
}

// RateLimit 依客戶端 IP 限流的中間件
func RateLimit(requests int, window time.Duration) gin.HandlerFunc {
	clients := &clientLimiters{
		requests: requests,
		window:   window,
		limiters: make(map[string]*RateLimiter),
	}

	return func(c *gin.Context) {
		now := time.Now()
		if !clients.get(c.ClientIP(), now).allowAt(now) {
			common.LogInfo("Rate limit exceeded",
				zap.String("ip", c.ClientIP()),
				zap.String("path", c.Request.URL.Path),
			)

			c.Header("Retry-After", fmt.Sprintf("%d", int(math.Ceil(window.Seconds()))))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, common.ErrTooManyRequests.Response(false))
			return
		}

		c.Next()
	}
}
