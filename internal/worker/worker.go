package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Dangerousyusuf/gymclub-backend/pkg/queue"
)

// LogoDeleter removes logo objects from storage.
type LogoDeleter interface {
	DeleteLogo(ctx context.Context, key string) error
}

// LogoUsage reports whether a club still points at a logo key.
type LogoUsage interface {
	LogoInUse(ctx context.Context, key string) (bool, error)
}

// JobSource is the queue the processor consumes.
type JobSource interface {
	Dequeue(ctx context.Context) (*queue.Job, error)
	Retry(ctx context.Context, job *queue.Job) error
}

// LogoCleanupProcessor deletes logo objects that were replaced or whose club was deleted.
type LogoCleanupProcessor struct {
	storage LogoDeleter
	usage   LogoUsage
	queue   JobSource
	logger  *zap.Logger
	backoff time.Duration
}

// NewLogoCleanupProcessor creates a logo cleanup processor.
func NewLogoCleanupProcessor(storage LogoDeleter, usage LogoUsage, q JobSource, logger *zap.Logger) *LogoCleanupProcessor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogoCleanupProcessor{storage: storage, usage: usage, queue: q, logger: logger, backoff: queue.RetryBackoff}
}

// Process executes one cleanup job. A key that a club references again is left alone.
func (p *LogoCleanupProcessor) Process(ctx context.Context, job *queue.Job) error {
	if job.Type != queue.JobTypeLogoCleanup {
		return fmt.Errorf("unknown job type: %s", job.Type)
	}
	var payload queue.LogoCleanupPayload
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}
	if payload.Key == "" {
		return fmt.Errorf("empty logo key")
	}

	inUse, err := p.usage.LogoInUse(ctx, payload.Key)
	if err != nil {
		return fmt.Errorf("check logo usage: %w", err)
	}
	if inUse {
		p.logger.Info("logo still referenced, skipping", zap.String("key", payload.Key))
		return nil
	}
	if err := p.storage.DeleteLogo(ctx, payload.Key); err != nil {
		return fmt.Errorf("delete logo: %w", err)
	}
	p.logger.Info("logo deleted",
		zap.String("club_id", payload.ClubID.String()),
		zap.String("key", payload.Key),
		zap.String("reason", payload.Reason))
	return nil
}

// Run starts the worker loop: dequeue, process, retry on error.
func (p *LogoCleanupProcessor) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			p.logger.Info("logo cleanup worker stopping")
			return
		default:
		}

		job, err := p.queue.Dequeue(ctx)
		if err != nil {
			if ctx.Err() != nil {
				continue
			}
			p.logger.Warn("dequeue error", zap.Error(err))
			p.sleep(ctx)
			continue
		}
		if job == nil {
			continue
		}

		p.logger.Debug("processing job", zap.String("job_id", job.ID), zap.String("type", string(job.Type)))
		if err := p.Process(ctx, job); err != nil {
			p.logger.Error("job failed", zap.String("job_id", job.ID), zap.Error(err))
			if reErr := p.queue.Retry(ctx, job); reErr != nil {
				p.logger.Error("retry enqueue failed", zap.Error(reErr))
			}
			p.sleep(ctx)
		}
	}
}

func (p *LogoCleanupProcessor) sleep(ctx context.Context) {
	t := time.NewTimer(p.backoff)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
