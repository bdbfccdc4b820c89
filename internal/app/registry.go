package app

import (
	"database/sql"

	"github.com/AdrianRusan/employee-profile-management-system-sub000/internal/absence"
	"github.com/AdrianRusan/employee-profile-management-system-sub000/internal/auth"
	"github.com/AdrianRusan/employee-profile-management-system-sub000/internal/feedback"
	"github.com/AdrianRusan/employee-profile-management-system-sub000/internal/messaging/kafka"
	"github.com/AdrianRusan/employee-profile-management-system-sub000/internal/notification"
	"github.com/AdrianRusan/employee-profile-management-system-sub000/internal/organization"
	"github.com/AdrianRusan/employee-profile-management-system-sub000/internal/rbac"
	"github.com/AdrianRusan/employee-profile-management-system-sub000/internal/rbac/infra"
	"github.com/AdrianRusan/employee-profile-management-system-sub000/internal/rbac/rbac_http"
	"github.com/AdrianRusan/employee-profile-management-system-sub000/internal/shared/counter"
	"github.com/AdrianRusan/employee-profile-management-system-sub000/internal/shared/fieldcrypt"
	"github.com/AdrianRusan/employee-profile-management-system-sub000/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
	cfg Config,
) error {
	// --- Repositories ---
	counterRepo := counter.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)
	userRepo := user.NewRepository(gormDB)
	organizationRepo := organization.NewRepository(gormDB)
	absenceRepo := absence.NewRepository(gormDB)
	feedbackRepo := feedback.NewRepository(gormDB)
	notificationRepo := notification.NewRepository(gormDB)

	// --- RBAC Core ---
	enforcer, err := infra.NewEnforcer()
	if err != nil {
		return err
	}
	rbacService := rbac.NewService(enforcer)

	// --- Services ---
	crypter, err := fieldcrypt.New(cfg.FieldEncryptionKey)
	if err != nil {
		return err
	}
	userService := user.NewServiceWithOutbox(db, userRepo, counterRepo, crypter, outboxRepo, rdb)
	authService := auth.NewService(userRepo)
	organizationService := organization.NewService(organizationRepo, userService)
	absenceService := absence.NewServiceWithOutbox(db, absenceRepo, counterRepo, outboxRepo)
	feedbackService := feedback.NewService(feedbackRepo, userRepo, feedback.PassthroughPolisher{})
	// API hanya melayani list dan mark-read; email dikirim proses consumer.
	notificationService := notification.NewService(notificationRepo, userRepo, nil)

	// --- Handlers ---
	authHandler := auth.NewHandler(authService)
	organizationHandler := organization.NewHandler(organizationService)
	userHandler := user.NewHandler(userService)
	absenceHandler := absence.NewHandlerWithRedis(absenceService, rdb)
	feedbackHandler := feedback.NewHandler(feedbackService)
	notificationHandler := notification.NewHandler(notificationService)
	rbacHandler := rbac.NewHandler(rbacService)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		auth.RegisterRoutes(api, authHandler)
		organization.RegisterRoutes(api, organizationHandler, rbacService)
		user.RegisterRoutes(api, userHandler, rbacService, zap.L())
		absence.RegisterRoutes(api, absenceHandler, rbacService, rdb)
		feedback.RegisterRoutes(api, feedbackHandler, rbacService)
		notification.RegisterRoutes(api, notificationHandler, rbacService)
		rbac_http.RegisterRoutes(api, rbacHandler)
	}

	return nil
}
