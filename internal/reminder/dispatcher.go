package reminder

import (
	"context"
	"time"

	"LendIt/internal/repo"

	"go.uber.org/zap"
)

// Dispatcher доставляет сработавшие напоминания и планирует повторные.
type Dispatcher struct {
	reminders repo.ReminderRepository
	sink      Sink
	scheduler *Scheduler
	logger    *zap.SugaredLogger
	now       func() time.Time
}

func NewDispatcher(reminders repo.ReminderRepository, sink Sink, scheduler *Scheduler,
	logger *zap.SugaredLogger, now func() time.Time) *Dispatcher {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Dispatcher{reminders: reminders, sink: sink, scheduler: scheduler, logger: logger, now: now}
}

// RunOnce доставляет все напоминания с FireAt <= now и возвращает число доставленных.
// Недоставленное напоминание остаётся в хранилище до следующего прохода.
func (d *Dispatcher) RunOnce(ctx context.Context) (int, error) {
	due, err := d.reminders.Due(ctx, d.now())
	if err != nil {
		return 0, err
	}

	delivered := 0
	for _, r := range due {
		if err := ctx.Err(); err != nil {
			return delivered, err
		}
		if err := d.sink.Deliver(ctx, r); err != nil {
			d.logger.Warnw("reminder delivery failed", "id", r.ID, "item_id", r.ItemID, "error", err)
			continue
		}
		delivered++
		if err := d.reminders.Delete(ctx, r.ID); err != nil {
			d.logger.Errorw("failed to remove delivered reminder", "id", r.ID, "error", err)
			continue
		}
		if d.scheduler == nil {
			continue
		}
		if _, err := d.scheduler.FollowUp(ctx, r); err != nil {
			d.logger.Warnw("follow-up scheduling failed", "item_id", r.ItemID, "error", err)
		}
	}
	return delivered, nil
}

// Run опрашивает хранилище каждые every до отмены ctx.
func (d *Dispatcher) Run(ctx context.Context, every time.Duration) {
	if every <= 0 {
		every = time.Minute
	}
	t := time.NewTicker(every)
	defer t.Stop()

	for {
		if n, err := d.RunOnce(ctx); err != nil {
			if ctx.Err() != nil {
				return
			}
			d.logger.Errorw("reminder dispatch failed", "error", err)
		} else if n > 0 {
			d.logger.Infow("reminders delivered", "count", n)
		}

		select {
		case <-ctx.Done():
			return
		case <-t.C:
		}
	}
}
