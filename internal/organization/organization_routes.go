package organization

import (
	"github.com/AdrianRusan/employee-profile-management-system-sub000/internal/middleware"
	"github.com/AdrianRusan/employee-profile-management-system-sub000/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService rbac.Service) {
	organizations := r.Group("/organizations")
	{
		// Onboarding publik, limit ketat per IP
		organizations.POST("",
			middleware.RateLimitByIP(0.05, 2),
			handler.Create,
		)

		// 1. Get My Organization (dipanggil dashboard/profile)
		organizations.GET("/me",
			middleware.AuthMiddleware(),
			middleware.RateLimitByUser(2, 10),
			middleware.RBACAuthorize(rbacService, "organization", "read"),
			handler.GetMe,
		)

		// 2. Update My Organization (jarang)
		organizations.PUT("/me",
			middleware.AuthMiddleware(),
			middleware.RateLimitByUser(0.1, 1),
			middleware.RBACAuthorize(rbacService, "organization", "update"),
			handler.UpdateMe,
		)
	}
}
