package producer

import (
	"context"
	"time"

	"github.com/AdrianRusan/employee-profile-management-system-sub000/internal/messaging/kafka"

	"go.uber.org/zap"
)

const relayBatchSize = 50

// ProcessOutboxEvents polling tabel outbox dan mem-publish baris pending.
// Satu tick menguras backlog sampai habis, bukan cuma satu batch; lonjakan
// pengajuan absence tidak perlu menunggu beberapa interval.
func ProcessOutboxEvents(
	ctx context.Context,
	repo kafka.OutboxRepository,
	writer MessageWriter,
	logger *zap.Logger,
	pollInterval time.Duration,
) {
	if pollInterval <= 0 {
		pollInterval = 3 * time.Second
	}

	log := logger.Named("kafka.producer.worker")
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	log.Info("outbox relay started", zap.Duration("poll_interval", pollInterval))

	for {
		select {
		case <-ctx.Done():
			log.Info("outbox relay stopped")
			return
		case <-ticker.C:
			drainPending(ctx, repo, writer, log)
		}
	}
}

func drainPending(ctx context.Context, repo kafka.OutboxRepository, writer MessageWriter, logger *zap.Logger) {
	for {
		if ctx.Err() != nil {
			return
		}

		n, err := relayBatch(ctx, repo, writer, logger)
		if err != nil {
			logger.Error("relay outbox batch failed", zap.Error(err))
			return
		}
		if n < relayBatchSize {
			return
		}
	}
}

// relayBatch mengembalikan jumlah baris yang diambil, bukan yang sukses;
// pemanggil memakainya untuk tahu apakah backlog masih ada.
func relayBatch(ctx context.Context, repo kafka.OutboxRepository, writer MessageWriter, logger *zap.Logger) (int, error) {
	events, err := repo.ListPending(ctx, relayBatchSize)
	if err != nil {
		return 0, err
	}

	if len(events) == 0 {
		return 0, nil
	}

	sent := 0
	failed := 0

	for _, event := range events {
		if err := publishEvent(ctx, writer, event); err != nil {
			failed++
			logger.Error("publish outbox event failed",
				zap.String("outbox_id", event.ID),
				zap.String("event_type", event.EventType),
				zap.String("topic", event.Topic),
				zap.Error(err),
			)
			if markErr := repo.MarkFailed(ctx, event.ID, err.Error()); markErr != nil {
				logger.Error("mark outbox failed failed",
					zap.String("outbox_id", event.ID),
					zap.Error(markErr),
				)
			}
			continue
		}

		// Gagal MarkSent berarti baris terkirim tapi masih pending; dia akan
		// terkirim ulang di pass berikutnya, dedup di consumer yang menahannya.
		if err := repo.MarkSent(ctx, event.ID); err != nil {
			logger.Error("mark outbox sent failed",
				zap.String("outbox_id", event.ID),
				zap.Error(err),
			)
			continue
		}

		sent++
		logger.Info("outbox event sent",
			zap.String("outbox_id", event.ID),
			zap.String("event_type", event.EventType),
			zap.String("topic", event.Topic),
		)
	}

	logger.Info("outbox batch relayed",
		zap.Int("fetched", len(events)),
		zap.Int("sent", sent),
		zap.Int("failed", failed),
	)

	return len(events), nil
}
