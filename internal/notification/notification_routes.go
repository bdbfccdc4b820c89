package notification

import (
	"github.com/AdrianRusan/employee-profile-management-system-sub000/internal/middleware"
	"github.com/AdrianRusan/employee-profile-management-system-sub000/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, rbacService rbac.Service) {
	notifications := r.Group("/notifications")
	notifications.Use(middleware.AuthMiddleware())
	{
		notifications.GET("",
			middleware.RateLimitByUser(2, 10),
			middleware.RBACAuthorize(rbacService, "notification", "read"),
			h.List,
		)
		notifications.PUT("/:id/read",
			middleware.RBACAuthorize(rbacService, "notification", "update"),
			h.MarkRead,
		)
	}
}
