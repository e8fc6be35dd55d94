package satellite

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/croppulse/farm-boundary-service/internal/domain"
	"github.com/croppulse/farm-boundary-service/internal/domain/repository"
	"github.com/croppulse/farm-boundary-service/internal/worker"
)

const (
	emptyQueueSleep = 100 * time.Millisecond
	deferredSleep   = time.Second
)

// Verifier is the slice of the verification usecase the worker needs.
type Verifier interface {
	VerifyFarm(ctx context.Context, farmID uuid.UUID) (*domain.SatelliteScan, error)
	RecordFailure(ctx context.Context, farmID uuid.UUID, cause error) error
}

// ScanWorker consumes verification requests and runs satellite size checks.
// Failed verifications are re-enqueued with exponential backoff until the
// retry budget runs out, then recorded as failed scans.
type ScanWorker struct {
	*worker.BaseWorker
	streamRepo     repository.StreamRepository
	verificationUC Verifier
	consumerName   string
	maxRetries     int
	backoffBase    time.Duration
	batchSize      int
}

func NewScanWorker(
	streamRepo repository.StreamRepository,
	verificationUC Verifier,
	consumerGroup string,
	maxRetries int,
	backoffBase time.Duration,
	batchSize int,
	logger *zap.Logger,
) *ScanWorker {
	hostname, _ := os.Hostname()
	consumerName := fmt.Sprintf("%s-%d", hostname, os.Getpid())

	return &ScanWorker{
		BaseWorker:     worker.NewBaseWorker("satellite-scan", consumerGroup, logger),
		streamRepo:     streamRepo,
		verificationUC: verificationUC,
		consumerName:   consumerName,
		maxRetries:     maxRetries,
		backoffBase:    backoffBase,
		batchSize:      batchSize,
	}
}

func (w *ScanWorker) Start(ctx context.Context) error {
	logger := w.Logger()
	logger.Info("Starting ScanWorker",
		zap.String("consumer_group", w.ConsumerGroup()),
		zap.String("consumer_name", w.consumerName),
		zap.Int("batch_size", w.batchSize),
		zap.Int("max_retries", w.maxRetries))

	if err := w.streamRepo.CreateConsumerGroup(ctx, domain.StreamVerificationRequest, w.ConsumerGroup()); err != nil {
		logger.Error("Failed to create consumer group", zap.Error(err))
		return fmt.Errorf("failed to create consumer group: %w", err)
	}

	for {
		select {
		case <-w.StopChan():
			logger.Info("Worker stopped")
			return nil

		case <-ctx.Done():
			logger.Info("Context cancelled")
			return ctx.Err()

		default:
			processed, deferred, err := w.processBatch(ctx)
			if err != nil {
				logger.Error("Failed to process batch", zap.Error(err))
				time.Sleep(time.Second)
				continue
			}

			if processed == 0 {
				if deferred > 0 {
					// Everything in the batch is waiting out a backoff.
					time.Sleep(deferredSleep)
				} else {
					time.Sleep(emptyQueueSleep)
				}
			}
		}
	}
}

// processBatch consumes and handles one batch. Returns how many messages were
// actually verified and how many were re-enqueued for a later attempt.
func (w *ScanWorker) processBatch(ctx context.Context) (int, int, error) {
	logger := w.Logger()

	messages, err := w.streamRepo.ConsumeBatch(
		ctx,
		domain.StreamVerificationRequest,
		w.ConsumerGroup(),
		w.consumerName,
		w.batchSize,
	)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to consume batch: %w", err)
	}
	if len(messages) == 0 {
		return 0, 0, nil
	}

	processed, deferred := 0, 0
	for _, msg := range messages {
		event, err := parseEvent(msg)
		if err != nil {
			logger.Warn("Failed to parse message, skipping",
				zap.String("message_id", msg.ID),
				zap.Error(err))
			// Ack the broken message so it does not jam the stream.
			_ = w.ack(ctx, msg.ID)
			continue
		}

		if event.NotBefore != nil && time.Now().Before(*event.NotBefore) {
			// Backoff deadline not reached, push it back onto the stream.
			if err := w.streamRepo.PublishToStream(ctx, domain.StreamVerificationRequest, event); err != nil {
				logger.Error("Failed to re-enqueue deferred event",
					zap.String("farm_id", event.FarmID.String()),
					zap.Error(err))
				continue // leave unacked so it is redelivered
			}
			_ = w.ack(ctx, msg.ID)
			deferred++
			continue
		}

		w.handle(ctx, msg.ID, event)
		processed++
	}

	return processed, deferred, nil
}

func (w *ScanWorker) handle(ctx context.Context, messageID string, event *domain.VerificationRequestEvent) {
	logger := w.Logger()

	_, err := w.verificationUC.VerifyFarm(ctx, event.FarmID)
	if err == nil {
		_ = w.ack(ctx, messageID)
		return
	}

	if event.Attempt >= w.maxRetries {
		logger.Error("Verification retries exhausted",
			zap.String("farm_id", event.FarmID.String()),
			zap.Int("attempts", event.Attempt+1),
			zap.Error(err))
		if recErr := w.verificationUC.RecordFailure(ctx, event.FarmID, err); recErr != nil {
			logger.Error("Failed to record verification failure",
				zap.String("farm_id", event.FarmID.String()),
				zap.Error(recErr))
		}
		_ = w.ack(ctx, messageID)
		return
	}

	backoff := w.backoffBase * (1 << event.Attempt)
	notBefore := time.Now().Add(backoff)
	retry := domain.VerificationRequestEvent{
		FarmID:      event.FarmID,
		RequestedAt: event.RequestedAt,
		Attempt:     event.Attempt + 1,
		NotBefore:   &notBefore,
	}

	logger.Warn("Verification failed, scheduling retry",
		zap.String("farm_id", event.FarmID.String()),
		zap.Int("attempt", retry.Attempt),
		zap.Duration("backoff", backoff),
		zap.Error(err))

	if pubErr := w.streamRepo.PublishToStream(ctx, domain.StreamVerificationRequest, retry); pubErr != nil {
		logger.Error("Failed to enqueue retry, leaving message unacked",
			zap.String("farm_id", event.FarmID.String()),
			zap.Error(pubErr))
		return
	}
	_ = w.ack(ctx, messageID)
}

func (w *ScanWorker) ack(ctx context.Context, messageID string) error {
	return w.streamRepo.AckMessage(ctx, domain.StreamVerificationRequest, w.ConsumerGroup(), messageID)
}

func parseEvent(msg domain.StreamMessage) (*domain.VerificationRequestEvent, error) {
	data, err := json.Marshal(msg.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal message data: %w", err)
	}

	var event domain.VerificationRequestEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return nil, fmt.Errorf("failed to unmarshal event: %w", err)
	}
	if event.FarmID == uuid.Nil {
		return nil, fmt.Errorf("event has no farm_id")
	}
	return &event, nil
}
