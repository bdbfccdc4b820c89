package feedback

import (
	"github.com/AdrianRusan/employee-profile-management-system-sub000/internal/middleware"
	"github.com/AdrianRusan/employee-profile-management-system-sub000/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, rbacService rbac.Service) {
	feedbacks := r.Group("/feedbacks")
	feedbacks.Use(middleware.AuthMiddleware())
	{
		feedbacks.POST("",
			middleware.RateLimitByUser(0.5, 3),
			middleware.RBACAuthorize(rbacService, "feedback", "create"),
			h.Create,
		)
		feedbacks.GET("/received",
			middleware.RBACAuthorize(rbacService, "feedback", "read"),
			h.ListReceived,
		)
	}
}
