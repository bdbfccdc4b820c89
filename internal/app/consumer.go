package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/AdrianRusan/employee-profile-management-system-sub000/internal/events"
	"github.com/AdrianRusan/employee-profile-management-system-sub000/internal/messaging/kafka/consumer"
	"github.com/AdrianRusan/employee-profile-management-system-sub000/internal/notification"
	"github.com/AdrianRusan/employee-profile-management-system-sub000/internal/shared/connection"
	"github.com/AdrianRusan/employee-profile-management-system-sub000/internal/user"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// RunConsumer menjalankan consumer notifikasi: satu consumer group dengan
// dua reader, untuk event absence requested dan absence decided.
func RunConsumer() error {
	logger := zap.L().Named("app.consumer")

	cfg, err := LoadConfig()
	if err != nil {
		return err
	}

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

	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	if cfg.KafkaBroker == "" {
		return fmt.Errorf("KAFKA_BROKER is required")
	}
	if err := connection.ConnectKafkaWithRetry(cfg.KafkaBroker, 5); err != nil {
		return err
	}

	notificationRepo := notification.NewRepository(gormDB)
	userRepo := user.NewRepository(gormDB)

	var emailSender notification.EmailSender
	if cfg.SMTPHost != "" {
		emailSender = notification.NewSMTPEmailSender(notification.EmailConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			User:     cfg.SMTPUser,
			Password: cfg.SMTPPassword,
			From:     cfg.SMTPFrom,
			FromName: cfg.SMTPFromName,
		})
	} else {
		logger.Warn("SMTP_HOST kosong, email hanya dicatat ke log")
		emailSender = notification.NewNoopEmailSender(logger)
	}

	notificationService := notification.NewService(notificationRepo, userRepo, emailSender)

	// CommitInterval 0 berarti commit sinkron; offset baru maju setelah
	// notifikasinya tersimpan.
	requestedReader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:        []string{cfg.KafkaBroker},
		Topic:          events.AbsenceRequestedTopic,
		GroupID:        "staff-notifications",
		CommitInterval: 0,
		StartOffset:    kafkago.FirstOffset,
	})
	defer requestedReader.Close()

	decidedReader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:        []string{cfg.KafkaBroker},
		Topic:          events.AbsenceDecidedTopic,
		GroupID:        "staff-notifications",
		CommitInterval: 0,
		StartOffset:    kafkago.FirstOffset,
	})
	defer decidedReader.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go consumer.ConsumeAbsenceRequested(ctx, requestedReader, notificationService, logger)
	go consumer.ConsumeAbsenceDecided(ctx, decidedReader, notificationService, logger)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("consumer shutting down")
	cancel()

	return nil
}
