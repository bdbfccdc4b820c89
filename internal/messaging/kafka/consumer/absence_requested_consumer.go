package consumer

import (
	"context"
	"encoding/json"

	"github.com/AdrianRusan/employee-profile-management-system-sub000/internal/events"
	"github.com/AdrianRusan/employee-profile-management-system-sub000/internal/notification"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// eventIDFromMessage membaca header event_id yang ditulis publisher outbox.
func eventIDFromMessage(msg kafkago.Message) string {
	for _, h := range msg.Headers {
		if h.Key == "event_id" {
			return string(h.Value)
		}
	}
	return ""
}

func ConsumeAbsenceRequested(
	ctx context.Context,
	reader *kafkago.Reader,
	notificationService notification.Service,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.absence_requested")
	log.Info("absence requested consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("absence requested consumer stopped")
				return
			}
			log.Error("fetch absence requested message failed", zap.Error(err))
			continue
		}

		eventID := eventIDFromMessage(msg)
		if eventID == "" {
			// Tanpa event_id dedup mustahil; pesan dianggap cacat dan di-skip
			log.Error("absence requested message missing event_id header, skipping",
				zap.Int64("offset", msg.Offset),
			)
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		var event events.AbsenceRequestedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode absence requested event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		if err := notificationService.HandleAbsenceRequested(ctx, eventID, event); err != nil {
			log.Error("handle absence requested event failed",
				zap.String("event_id", eventID),
				zap.String("absence_id", event.AbsenceID),
				zap.Error(err),
			)
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit absence requested message failed", zap.Error(err))
			continue
		}

		log.Info("absence requested event handled",
			zap.String("event_id", eventID),
			zap.String("absence_id", event.AbsenceID),
			zap.String("reference", event.Reference),
		)
	}
}
