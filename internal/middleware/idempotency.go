package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/AdrianRusan/employee-profile-management-system-sub000/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// Idempotency melindungi endpoint POST dari submit ganda.
// Client mengirim header Idempotency-Key; response pertama di-cache,
// request ulang dengan key yang sama langsung dibalas dari cache.
func Idempotency(rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		idempKey := c.GetHeader("Idempotency-Key")
		userID := c.GetString("user_id")
		if userID == "" {
			userID = c.GetString("user_id_validated")
		}

		if idempKey == "" || c.Request.Method != http.MethodPost {
			c.Next()
			return
		}

		cacheKey := fmt.Sprintf("idemp:%s:%s:%s", c.FullPath(), userID, idempKey)
		lockKey := cacheKey + ":lock"

		val, err := rdb.Get(c.Request.Context(), cacheKey).Result()
		if err == nil {
			var cachedRes any
			if unmarshalErr := json.Unmarshal([]byte(val), &cachedRes); unmarshalErr == nil {
				response.Success(c, http.StatusOK, cachedRes, nil)
				c.Abort()
				return
			}
		}

		// Lock pendek supaya request kembar yang datang bersamaan tidak
		// dua-duanya masuk handler. Expiry menjaga lock hilang sendiri
		// kalau proses pertama mati di tengah jalan.
		isNew, _ := rdb.SetNX(c.Request.Context(), lockKey, "locked", 30*time.Second).Result()
		if !isNew {
			response.Error(c, http.StatusConflict, "PROCESSING", "Request dengan Idempotency-Key ini sedang diproses, mohon tunggu.", nil)
			c.Abort()
			return
		}

		// Handler yang menyimpan hasil ke cacheKey dan melepas lockKey.
		c.Set("idempotency_cache_key", cacheKey)
		c.Set("idempotency_lock_key", lockKey)

		c.Next()
	}
}
