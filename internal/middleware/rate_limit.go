package middleware

import (
	"net/http"
	"sync"

	"github.com/AdrianRusan/employee-profile-management-system-sub000/internal/shared/response"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// limiterPool menyimpan satu token bucket per key; key-nya alamat IP untuk
// endpoint publik dan user ID untuk endpoint ber-auth. Bucket dibuat lazily
// saat key pertama kali muncul.
type limiterPool struct {
	mu      sync.Mutex
	buckets map[string]*rate.Limiter
	r       rate.Limit // request per detik
	b       int        // burst
}

func newLimiterPool(r rate.Limit, b int) *limiterPool {
	return &limiterPool{
		buckets: make(map[string]*rate.Limiter),
		r:       r,
		b:       b,
	}
}

func (p *limiterPool) get(key string) *rate.Limiter {
	p.mu.Lock()
	defer p.mu.Unlock()

	lim, ok := p.buckets[key]
	if !ok {
		lim = rate.NewLimiter(p.r, p.b)
		p.buckets[key] = lim
	}
	return lim
}

// RateLimitByIP dipasang di endpoint yang bisa diakses tanpa login
// (login, refresh); di sana IP satu-satunya identitas yang ada.
func RateLimitByIP(r rate.Limit, b int) gin.HandlerFunc {
	pool := newLimiterPool(r, b)
	return func(c *gin.Context) {
		if !pool.get(c.ClientIP()).Allow() {
			response.Error(c, http.StatusTooManyRequests, "RATE_LIMITED", "Too many requests from this IP", nil)
			c.Abort()
			return
		}
		c.Next()
	}
}

// RateLimitByUser membatasi per user ID dari claims. Tanpa user di context
// (dipasang sebelum AuthMiddleware) request dibiarkan lewat; limit per-IP
// yang menjaga jalur itu.
func RateLimitByUser(r rate.Limit, b int) gin.HandlerFunc {
	pool := newLimiterPool(r, b)
	return func(c *gin.Context) {
		userID := c.GetString("user_id")
		if userID == "" {
			c.Next()
			return
		}
		if !pool.get(userID).Allow() {
			response.Error(c, http.StatusTooManyRequests, "RATE_LIMITED", "Too many requests, slow down", nil)
			c.Abort()
			return
		}
		c.Next()
	}
}
