package reminder

import (
	"context"
	"fmt"
	"time"

	"LendIt/internal/model"
	"LendIt/internal/repo"

	"github.com/google/uuid"
)

// Notification — содержимое уведомления.
type Notification struct {
	ItemID string
	Kind   model.ReminderKind
	Title  string
	Body   string
}

// Notifier — внешний механизм доставки уведомлений.
type Notifier interface {
	RequestPermission(ctx context.Context) (bool, error)
	// ScheduleAt планирует уведомление и возвращает handle для отмены.
	ScheduleAt(ctx context.Context, at time.Time, n Notification) (string, error)
	Cancel(ctx context.Context, handle string) error
	CancelAll(ctx context.Context) error
}

// StoreNotifier хранит запланированные уведомления в таблице reminders;
// доставку выполняет Dispatcher. handle совпадает с id напоминания.
type StoreNotifier struct {
	reminders repo.ReminderRepository
	enabled   bool
	now       func() time.Time
}

func NewStoreNotifier(reminders repo.ReminderRepository, enabled bool, now func() time.Time) *StoreNotifier {
	if now == nil {
		now = time.Now
	}
	return &StoreNotifier{reminders: reminders, enabled: enabled, now: now}
}

var _ Notifier = (*StoreNotifier)(nil)

// RequestPermission отражает настройку NOTIFICATIONS_ENABLED.
func (s *StoreNotifier) RequestPermission(_ context.Context) (bool, error) {
	return s.enabled, nil
}

func (s *StoreNotifier) ScheduleAt(ctx context.Context, at time.Time, n Notification) (string, error) {
	ok, err := s.RequestPermission(ctx)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", model.ErrPermissionDenied
	}
	rem := model.Reminder{
		ID:        fmt.Sprintf("%s-%s", n.Kind, uuid.NewString()),
		ItemID:    n.ItemID,
		Kind:      n.Kind,
		FireAt:    at,
		Title:     n.Title,
		Body:      n.Body,
		CreatedAt: s.now(),
	}
	if err := s.reminders.Save(ctx, rem); err != nil {
		return "", err
	}
	return rem.ID, nil
}

func (s *StoreNotifier) Cancel(ctx context.Context, handle string) error {
	return s.reminders.Delete(ctx, handle)
}

func (s *StoreNotifier) CancelAll(ctx context.Context) error {
	return s.reminders.DeleteAll(ctx)
}
