package biz

import (
	"context"
	"time"

	"github.com/zhenzou/executors"
	"go.uber.org/fx"
	"gorm.io/gorm"

	"github.com/Ukvalley1218/bestkitchennet-backend/internal/log"
	"github.com/Ukvalley1218/bestkitchennet-backend/internal/models"
)

type CallRetryWorkerParams struct {
	fx.In

	DB *gorm.DB
}

// NewCallRetryWorker creates the sweep worker for queued call retries.
func NewCallRetryWorker(params CallRetryWorkerParams) *CallRetryWorker {
	return &CallRetryWorker{
		AbstractService: &AbstractService{db: params.DB},
		Executor:        executors.NewPoolScheduleExecutor(executors.WithMaxConcurrent(1)),
		now:             time.Now,
	}
}

// CallRetryWorker promotes due retry-queue entries back into the calling
// pipeline: the lead returns to the assigned stage so it reappears in the
// employee's worklist, and the queue entry is removed.
type CallRetryWorker struct {
	*AbstractService

	Executor executors.ScheduledExecutor

	now func() time.Time
}

// Start schedules the sweep to run every minute.
func (w *CallRetryWorker) Start(ctx context.Context) error {
	_, err := w.Executor.ScheduleFuncAtCronRate(
		w.sweep,
		executors.CRONRule{Expr: "* * * * *"},
	)

	return err
}

// Stop stops the worker.
func (w *CallRetryWorker) Stop(ctx context.Context) error {
	return w.Executor.Shutdown(ctx)
}

func (w *CallRetryWorker) sweep(ctx context.Context) {
	if _, err := w.SweepDueRetries(ctx); err != nil {
		log.Error(ctx, "call retry sweep failed", log.Cause(err))
	}
}

// SweepDueRetries requeues every due retry entry and reports how many leads
// were promoted. Each entry is handled in its own transaction so one bad row
// does not stall the rest of the queue.
func (w *CallRetryWorker) SweepDueRetries(ctx context.Context) (int, error) {
	var due []*models.CallRetry

	err := w.dbFromContext(ctx).
		Where("next_retry_at <= ?", w.now()).
		Order("next_retry_at ASC").
		Find(&due).Error
	if err != nil {
		return 0, err
	}

	promoted := 0

	for _, retry := range due {
		err := w.dbFromContext(ctx).Transaction(func(tx *gorm.DB) error {
			err := tx.Model(&models.Lead{}).
				Where("id = ? AND stage = ?", retry.LeadID, models.LeadStageRetry).
				Update("stage", models.LeadStageAssigned).Error
			if err != nil {
				return err
			}

			return tx.Delete(retry).Error
		})
		if err != nil {
			log.Warn(ctx, "failed to requeue lead from retry queue",
				log.String("lead_id", retry.LeadID), log.Cause(err))

			continue
		}

		promoted++
	}

	if promoted > 0 {
		log.Info(ctx, "promoted due call retries", log.Int("count", promoted))
	}

	return promoted, nil
}
