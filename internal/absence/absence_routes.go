package absence

import (
	"github.com/AdrianRusan/employee-profile-management-system-sub000/internal/middleware"
	"github.com/AdrianRusan/employee-profile-management-system-sub000/internal/rbac"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
	rdb ...*redis.Client,
) {
	var redisClient *redis.Client
	if len(rdb) > 0 {
		redisClient = rdb[0]
	}

	absences := r.Group("/absences")
	absences.Use(middleware.AuthMiddleware())
	absences.Use(middleware.ExtractUserID())
	{
		absences.GET("", middleware.RBACAuthorize(rbacService, "absence", "read"), handler.GetAll)
		absences.GET("/upcoming", middleware.RBACAuthorize(rbacService, "absence", "upcoming"), handler.GetUpcoming)
		absences.GET("/statistics", middleware.RBACAuthorize(rbacService, "absence", "read"), handler.GetStatistics)
		absences.GET("/:id", middleware.RBACAuthorize(rbacService, "absence", "read"), handler.GetById)
		// RBAC dulu baru idempotency; request yang ditolak tidak boleh
		// meninggalkan lock.
		if redisClient != nil {
			absences.POST(
				"",
				middleware.RBACAuthorize(rbacService, "absence", "create"),
				middleware.Idempotency(redisClient),
				handler.Create,
			)
		} else {
			absences.POST("", middleware.RBACAuthorize(rbacService, "absence", "create"), handler.Create)
		}
		absences.POST("/:id/approve", middleware.RBACAuthorize(rbacService, "absence", "approve"), handler.Approve)
		absences.POST("/:id/reject", middleware.RBACAuthorize(rbacService, "absence", "approve"), handler.Reject)
		absences.DELETE("/:id", middleware.RBACAuthorize(rbacService, "absence", "delete"), handler.Delete)
	}
}
