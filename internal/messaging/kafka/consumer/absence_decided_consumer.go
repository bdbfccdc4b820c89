package consumer

import (
	"context"
	"encoding/json"

	"github.com/AdrianRusan/employee-profile-management-system-sub000/internal/events"
	"github.com/AdrianRusan/employee-profile-management-system-sub000/internal/notification"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

func ConsumeAbsenceDecided(
	ctx context.Context,
	reader *kafkago.Reader,
	notificationService notification.Service,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.absence_decided")
	log.Info("absence decided consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("absence decided consumer stopped")
				return
			}
			log.Error("fetch absence decided message failed", zap.Error(err))
			continue
		}

		eventID := eventIDFromMessage(msg)
		if eventID == "" {
			log.Error("absence decided message missing event_id header, skipping",
				zap.Int64("offset", msg.Offset),
			)
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		var event events.AbsenceDecidedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode absence decided event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		if err := notificationService.HandleAbsenceDecided(ctx, eventID, event); err != nil {
			log.Error("handle absence decided event failed",
				zap.String("event_id", eventID),
				zap.String("absence_id", event.AbsenceID),
				zap.Error(err),
			)
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit absence decided message failed", zap.Error(err))
			continue
		}

		log.Info("absence decided event handled",
			zap.String("event_id", eventID),
			zap.String("absence_id", event.AbsenceID),
			zap.String("status", event.Status),
		)
	}
}
