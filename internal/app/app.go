package app

import (
	"log"
	"time"

	"github.com/AdrianRusan/employee-profile-management-system-sub000/internal/middleware"
	"github.com/AdrianRusan/employee-profile-management-system-sub000/internal/shared/connection"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func BuildApp(router *gin.Engine) error {
	cfg, err := LoadConfig()
	if err != nil {
		return err
	}

	// 1. Setup Infrastructure
	gormDB, err := connection.ConnectGORMWithRetry(
		cfg.DBHost,
		cfg.DBUser,
		cfg.DBPassword,
		cfg.DBName,
		cfg.DBPort,
		cfg.DBSSLMode,
		5,
	)
	if err != nil {
		return err
	}
	log.Println("✅ Database connection established")

	db, err := gormDB.DB()
	if err != nil {
		return err
	}

	redisClient, err := connection.ConnectRedisWithRetry(cfg.RedisAddr, 5)
	if err != nil {
		return err
	}
	log.Println("✅ Redis connection established")

	// 2. Global Middleware
	router.Use(middleware.RequestID())
	router.Use(middleware.ContextLogger(zap.L()))
	router.Use(cors.New(cors.Config{
		AllowOrigins:  cfg.CORSAllowedOrigins,
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Accept", "Authorization", "Content-Type", "X-Request-ID", "X-Client-Type", "Idempotency-Key"},
		ExposeHeaders: []string{"X-Request-ID"},
		// Web client memakai cookie access_token, jadi credentials wajib diizinkan.
		AllowCredentials: true,
		MaxAge:           300 * time.Second,
	}))

	// 3. Register Modules & Routes
	return registerModules(router, db, gormDB, redisClient, cfg)
}
