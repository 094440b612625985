package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sautihq/sauti-notes/shared/rabbitmq"
)

// JobProcessor runs the transcribe-then-summarize workflow for one job.
type JobProcessor interface {
	ProcessJob(ctx context.Context, id uuid.UUID) error
}

// Config holds worker configuration
type Config struct {
	Logger        *slog.Logger
	RabbitClient  *rabbitmq.Client
	Processor     JobProcessor
	Concurrency   int
	JobTimeout    time.Duration
	PrefetchCount int
	QueueName     string
}

// Worker consumes transcription jobs from RabbitMQ and dispatches them
// to a bounded pool of processing goroutines.
type Worker struct {
	logger        *slog.Logger
	rabbitClient  *rabbitmq.Client
	processor     JobProcessor
	concurrency   int
	jobTimeout    time.Duration
	prefetchCount int
	queueName     string
	workerID      string
	jobsChan      chan *jobDelivery
	wg            sync.WaitGroup
	stopChan      chan struct{}
}

// jobDelivery pairs a validated transcription id with the RabbitMQ
// delivery tag needed to ACK or NACK it.
type jobDelivery struct {
	TranscriptionID uuid.UUID
	DeliveryTag     uint64
}

// NewWorker creates a new worker instance
func NewWorker(cfg *Config) *Worker {
	return &Worker{
		logger:        cfg.Logger,
		rabbitClient:  cfg.RabbitClient,
		processor:     cfg.Processor,
		concurrency:   cfg.Concurrency,
		jobTimeout:    cfg.JobTimeout,
		prefetchCount: cfg.PrefetchCount,
		queueName:     cfg.QueueName,
		workerID:      fmt.Sprintf("sauti-worker-%s", uuid.New().String()[:8]),
		jobsChan:      make(chan *jobDelivery),
		stopChan:      make(chan struct{}),
	}
}

// Start begins consuming and processing jobs. Blocks until ctx is
// canceled or the delivery channel closes.
func (w *Worker) Start(ctx context.Context) error {
	w.logger.Info("Starting worker",
		slog.String("worker_id", w.workerID),
		slog.Int("concurrency", w.concurrency),
		slog.Duration("job_timeout", w.jobTimeout),
	)

	deliveries, err := w.setupConsumer()
	if err != nil {
		return fmt.Errorf("failed to setup consumer: %w", err)
	}

	w.spawnWorkerPool(ctx)
	w.startMessageDispatcher(ctx, deliveries)

	return nil
}

// Stop gracefully stops the worker, waiting for in-flight jobs
func (w *Worker) Stop() {
	w.logger.Info("Stopping worker...", slog.String("worker_id", w.workerID))
	close(w.stopChan)
	w.wg.Wait()
	w.logger.Info("Worker stopped", slog.String("worker_id", w.workerID))
}

// processJob runs one transcription job under the configured timeout.
func (w *Worker) processJob(ctx context.Context, msg *jobDelivery) error {
	jobCtx, cancel := context.WithTimeout(ctx, w.jobTimeout)
	defer cancel()

	w.logger.Info("Processing transcription job",
		slog.String("worker_id", w.workerID),
		slog.String("transcription_id", msg.TranscriptionID.String()),
	)

	return w.processor.ProcessJob(jobCtx, msg.TranscriptionID)
}
