package main

import (
	"os"

	"github.com/AdrianRusan/employee-profile-management-system-sub000/internal/app"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// Consumer membaca topic absence dan menuliskan notifikasi per penerima.
func main() {
	_ = godotenv.Load()

	logger, err := buildLogger()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	if err := app.RunConsumer(); err != nil {
		logger.Fatal("run consumer failed", zap.Error(err))
	}
}

func buildLogger() (*zap.Logger, error) {
	if os.Getenv("APP_ENV") == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
