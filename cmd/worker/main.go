package main

import (
	"os"

	"github.com/AdrianRusan/employee-profile-management-system-sub000/internal/app"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// Worker me-relay baris outbox ke Kafka. Tidak ada HTTP di proses ini.
func main() {
	_ = godotenv.Load()

	logger, err := buildLogger()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	if err := app.RunWorker(); err != nil {
		logger.Fatal("run worker failed", zap.Error(err))
	}
}

func buildLogger() (*zap.Logger, error) {
	if os.Getenv("APP_ENV") == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
