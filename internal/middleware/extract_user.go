package middleware

import (
	"net/http"

	"github.com/AdrianRusan/employee-profile-management-system-sub000/internal/shared/response"

	"github.com/gin-gonic/gin"
)

// ExtractUserID menegaskan claim user_id hasil AuthMiddleware bertipe string
// dan tidak kosong, lalu menyimpannya ulang sebagai user_id_validated.
// Handler yang membaca key itu tidak perlu type-assert lagi.
func ExtractUserID() gin.HandlerFunc {
	return func(c *gin.Context) {
		v, exists := c.Get("user_id")
		if !exists {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "User tidak terautentikasi", nil)
			c.Abort()
			return
		}

		userID, ok := v.(string)
		if !ok || userID == "" {
			response.Error(c, http.StatusUnauthorized, "INVALID_USER_ID", "Format user_id tidak valid", nil)
			c.Abort()
			return
		}

		c.Set("user_id_validated", userID)
		c.Next()
	}
}
