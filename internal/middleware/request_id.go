package middleware

import (
	"github.com/AdrianRusan/employee-profile-management-system-sub000/internal/shared/contextutil"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Header dari client dipercaya selama ukurannya wajar; lebih dari ini
// dianggap sampah dan diganti id baru.
const maxRequestIDLen = 64

// RequestID memastikan setiap request punya id: pakai X-Request-ID bawaan
// client kalau ada, generate UUID kalau tidak. Id yang sama dikembalikan di
// response header supaya client bisa menyebutnya saat lapor masalah.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader("X-Request-ID")
		if rid == "" || len(rid) > maxRequestIDLen {
			rid = uuid.New().String()
		}

		c.Set("request_id", rid)

		ctx := contextutil.WithRequestID(c.Request.Context(), rid)
		c.Request = c.Request.WithContext(ctx)

		c.Header("X-Request-ID", rid)
		c.Next()
	}
}
