package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sautihq/sauti-notes/internal/transcription/domain"
)

// spawnWorkerPool spawns N worker goroutines based on concurrency configuration
func (w *Worker) spawnWorkerPool(ctx context.Context) {
	w.logger.Info("Spawning worker pool",
		slog.Int("concurrency", w.concurrency),
		slog.String("worker_id", w.workerID),
	)

	for i := 0; i < w.concurrency; i++ {
		w.wg.Add(1)
		go w.workerLoop(ctx, i)
	}
}

// workerLoop is the main processing loop for each worker goroutine
func (w *Worker) workerLoop(ctx context.Context, workerNum int) {
	defer w.wg.Done()

	workerName := fmt.Sprintf("%s-%d", w.workerID, workerNum)
	w.logger.Info("Worker goroutine started",
		slog.String("worker_name", workerName),
	)

	for {
		select {
		case <-w.stopChan:
			w.logger.Info("Worker goroutine stopping - stopChan closed",
				slog.String("worker_name", workerName),
			)
			return

		case <-ctx.Done():
			w.logger.Info("Worker goroutine stopping - context canceled",
				slog.String("worker_name", workerName),
			)
			return

		case msg, ok := <-w.jobsChan:
			if !ok {
				w.logger.Info("Worker goroutine stopping - jobsChan closed",
					slog.String("worker_name", workerName),
				)
				return
			}

			err := w.processJob(ctx, msg)

			channel := w.rabbitClient.GetChannel()
			if channel == nil {
				w.logger.Error("Failed to get RabbitMQ channel for ACK/NACK",
					slog.String("worker_name", workerName),
					slog.String("transcription_id", msg.TranscriptionID.String()),
				)
				continue
			}

			if err != nil && !isSettledOutcome(err) {
				w.logger.Error("Job processing failed without a persisted outcome",
					slog.String("worker_name", workerName),
					slog.String("transcription_id", msg.TranscriptionID.String()),
					slog.String("error", err.Error()),
				)

				if nackErr := channel.Nack(msg.DeliveryTag, false, false); nackErr != nil {
					w.logger.Error("Failed to NACK message",
						slog.String("worker_name", workerName),
						slog.String("transcription_id", msg.TranscriptionID.String()),
						slog.String("error", nackErr.Error()),
					)
				}
				continue
			}

			if err != nil {
				w.logger.Warn("Job finished FAILED",
					slog.String("worker_name", workerName),
					slog.String("transcription_id", msg.TranscriptionID.String()),
					slog.String("error", err.Error()),
				)
			} else {
				w.logger.Info("Job finished COMPLETED",
					slog.String("worker_name", workerName),
					slog.String("transcription_id", msg.TranscriptionID.String()),
				)
			}

			if ackErr := channel.Ack(msg.DeliveryTag, false); ackErr != nil {
				w.logger.Error("Failed to ACK message",
					slog.String("worker_name", workerName),
					slog.String("transcription_id", msg.TranscriptionID.String()),
					slog.String("error", ackErr.Error()),
				)
			}
		}
	}
}

// isSettledOutcome reports whether the error represents a job whose
// terminal FAILED state was persisted by the orchestrator. Settled jobs
// are ACKed; redelivery would only produce an invalid-transition loop.
// An unknown id is treated as settled too: requeueing it can never
// succeed.
func isSettledOutcome(err error) bool {
	if errors.Is(err, domain.ErrNotFound) {
		return true
	}
	if errors.Is(err, domain.ErrBlobUnavailable) ||
		errors.Is(err, domain.ErrTranscriptionFailed) ||
		errors.Is(err, domain.ErrEmptyTranscript) ||
		errors.Is(err, domain.ErrSummarizationFailed) {
		return true
	}
	return domain.IsInvalidTransition(err)
}
