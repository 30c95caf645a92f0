package reminder

import (
	"context"
	"fmt"
	"math"
	"time"

	"LendIt/internal/model"
	"LendIt/internal/repo"

	"go.uber.org/zap"
)

const (
	TitleOverdue  = "Item Overdue!"
	TitleFollowUp = "Reminder: Item Still Overdue!"
)

// Scheduled описывает запланированное напоминание.
type Scheduled struct {
	Handle    string
	At        time.Time
	Kind      model.ReminderKind
	Immediate bool
}

// Scheduler планирует напоминания по записям и повторные напоминания после доставки.
type Scheduler struct {
	notifier  Notifier
	reminders repo.ReminderRepository
	items     repo.ItemRepository
	policy    Policy
	logger    *zap.SugaredLogger
	now       func() time.Time
}

func NewScheduler(n Notifier, reminders repo.ReminderRepository, items repo.ItemRepository,
	policy Policy, logger *zap.SugaredLogger, now func() time.Time) *Scheduler {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Scheduler{
		notifier:  n,
		reminders: reminders,
		items:     items,
		policy:    policy,
		logger:    logger,
		now:       now,
	}
}

// Policy возвращает действующее правило расчёта.
func (s *Scheduler) Policy() Policy { return s.policy }

// counterpartyRole — кто держит вещь с точки зрения текста уведомления.
func counterpartyRole(it model.Item) string {
	if it.ItemType == model.ItemTypeBorrowed {
		return "lent by"
	}
	return "borrowed by"
}

func overdueBody(it model.Item, immediate bool) string {
	if immediate {
		return fmt.Sprintf("%q %s %s is overdue", it.ItemName, counterpartyRole(it), it.CounterpartyName)
	}
	return fmt.Sprintf("%q %s %s was due yesterday", it.ItemName, counterpartyRole(it), it.CounterpartyName)
}

func followUpBody(it model.Item, at time.Time) string {
	days := int(math.Floor(-it.DaysUntilDue(at)))
	if days < 1 {
		days = 1
	}
	return fmt.Sprintf("%q %s %s is %d days overdue", it.ItemName, counterpartyRole(it), it.CounterpartyName, days)
}

// Schedule заменяет напоминания записи первым напоминанием о просрочке.
// Если расчётный момент уже прошёл, напоминание планируется на now.
func (s *Scheduler) Schedule(ctx context.Context, it model.Item) (Scheduled, error) {
	if it.IsReturned {
		return Scheduled{}, model.ErrAlreadyReturned
	}
	// старые напоминания снимаются только после того, как новое запланировано
	prev, err := s.reminders.ListByItem(ctx, it.ID)
	if err != nil {
		return Scheduled{}, err
	}

	now := s.now()
	at := s.policy.FireAt(it.ExpectedReturnDate, now)
	immediate := !at.After(now)

	handle, err := s.notifier.ScheduleAt(ctx, at, Notification{
		ItemID: it.ID,
		Kind:   model.ReminderOverdue,
		Title:  TitleOverdue,
		Body:   overdueBody(it, immediate),
	})
	if err != nil {
		return Scheduled{}, err
	}
	sch := Scheduled{Handle: handle, At: at, Kind: model.ReminderOverdue, Immediate: immediate}
	for _, r := range prev {
		if err := s.notifier.Cancel(ctx, r.ID); err != nil {
			return sch, err
		}
	}
	s.logger.Infow("reminder scheduled", "item_id", it.ID, "handle", handle, "at", at, "immediate", immediate)
	return sch, nil
}

// CancelItem отменяет все напоминания записи.
func (s *Scheduler) CancelItem(ctx context.Context, itemID string) error {
	list, err := s.reminders.ListByItem(ctx, itemID)
	if err != nil {
		return err
	}
	for _, r := range list {
		if err := s.notifier.Cancel(ctx, r.ID); err != nil {
			return err
		}
	}
	return nil
}

func (s *Scheduler) CancelAll(ctx context.Context) error {
	return s.notifier.CancelAll(ctx)
}

// FollowUp планирует следующее напоминание после доставки fired, пока вещь не возвращена.
// Возвращает nil, если запись удалена или уже возвращена.
func (s *Scheduler) FollowUp(ctx context.Context, fired model.Reminder) (*Scheduled, error) {
	it, err := s.items.GetByID(ctx, fired.ItemID)
	if err != nil {
		return nil, err
	}
	if it == nil || !it.Outstanding() {
		return nil, nil
	}

	at := s.policy.FollowUpAt(s.now())
	handle, err := s.notifier.ScheduleAt(ctx, at, Notification{
		ItemID: it.ID,
		Kind:   model.ReminderFollowUp,
		Title:  TitleFollowUp,
		Body:   followUpBody(*it, at),
	})
	if err != nil {
		return nil, err
	}
	s.logger.Infow("follow-up scheduled", "item_id", it.ID, "handle", handle, "at", at)
	return &Scheduled{Handle: handle, At: at, Kind: model.ReminderFollowUp}, nil
}
