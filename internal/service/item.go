package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"LendIt/internal/model"
	"LendIt/internal/reminder"
	"LendIt/internal/repo"

	"github.com/hay-kot/criterio"
	"go.uber.org/zap"
	"golang.org/x/text/language"
)

// ErrRemindersDisabled — сервис создан без планировщика напоминаний.
var ErrRemindersDisabled = errors.New("reminders are not configured")

var (
	errRequired      = errors.New("is required")
	errStartInFuture = errors.New("must not be in the future")
	errDueBeforeFrom = errors.New("must not be earlier than start date")
	errBadItemType   = errors.New("must be lent or borrowed")
	errNothingToSave = errors.New("no fields to update")
	errTooShort      = fmt.Errorf("must be at least %d characters", minNameLen)
)

// Reminders — часть планировщика напоминаний, нужная сервису.
type Reminders interface {
	Schedule(ctx context.Context, it model.Item) (reminder.Scheduled, error)
	CancelItem(ctx context.Context, itemID string) error
}

var _ Reminders = (*reminder.Scheduler)(nil)

// ItemService инкапсулирует бизнес-логику работы с записями: создание,
// изменение, возврат, удаление и выборку списка.
type ItemService struct {
	repo        repo.ItemRepository
	reminders   Reminders
	logger      *zap.SugaredLogger
	now         func() time.Time
	dueSoonDays int
	locale      language.Tag
}

// Option настраивает ItemService.
type Option func(*ItemService)

func WithClock(now func() time.Time) Option {
	return func(s *ItemService) {
		if now != nil {
			s.now = now
		}
	}
}

func WithDueSoonDays(days int) Option {
	return func(s *ItemService) {
		if days >= 0 {
			s.dueSoonDays = days
		}
	}
}

// WithLocale задаёт язык для сравнения строк при сортировке.
func WithLocale(tag language.Tag) Option {
	return func(s *ItemService) { s.locale = tag }
}

func WithReminders(r Reminders) Option {
	return func(s *ItemService) { s.reminders = r }
}

func NewItemService(r repo.ItemRepository, logger *zap.SugaredLogger, opts ...Option) *ItemService {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	s := &ItemService{
		repo:        r,
		logger:      logger,
		now:         time.Now,
		dueSoonDays: model.DefaultDueSoonDays,
		locale:      language.English,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Now возвращает текущее время по часам сервиса.
func (s *ItemService) Now() time.Time { return s.now() }

// DueSoonDays — действующий порог статуса due_soon.
func (s *ItemService) DueSoonDays() int { return s.dueSoonDays }

// StatusOf вычисляет статус записи на текущий момент.
func (s *ItemService) StatusOf(it model.Item) model.Status {
	return it.StatusAt(s.now(), s.dueSoonDays)
}

func trimOpt(p *string) *string {
	if p == nil {
		return nil
	}
	v := strings.TrimSpace(*p)
	if v == "" {
		return nil
	}
	return &v
}

// minNameLen — минимальная длина имени предмета и контрагента в символах.
const minNameLen = 2

func checkName(errs criterio.FieldErrorsBuilder, field, v string) criterio.FieldErrorsBuilder {
	switch {
	case v == "":
		return errs.Append(field, errRequired)
	case utf8.RuneCountInString(v) < minNameLen:
		return errs.Append(field, errTooShort)
	}
	return errs
}

// normalizeCreate обрезает строки и проверяет входные данные.
func (s *ItemService) normalizeCreate(in model.CreateItem) (model.CreateItem, error) {
	in.ItemName = strings.TrimSpace(in.ItemName)
	in.CounterpartyName = strings.TrimSpace(in.CounterpartyName)
	in.CounterpartyContact = trimOpt(in.CounterpartyContact)
	in.Notes = trimOpt(in.Notes)

	var errs criterio.FieldErrorsBuilder
	errs = checkName(errs, "itemName", in.ItemName)
	errs = checkName(errs, "counterpartyName", in.CounterpartyName)
	if !in.ItemType.Valid() {
		errs = errs.Append("itemType", errBadItemType)
	}
	switch {
	case in.StartDate.IsZero():
		errs = errs.Append("startDate", errRequired)
	case in.StartDate.After(s.now()):
		errs = errs.Append("startDate", errStartInFuture)
	}
	switch {
	case in.ExpectedReturnDate.IsZero():
		errs = errs.Append("expectedReturnDate", errRequired)
	case !in.StartDate.IsZero() && in.ExpectedReturnDate.Before(in.StartDate):
		errs = errs.Append("expectedReturnDate", errDueBeforeFrom)
	}
	return in, model.NewValidationError(errs.ToError())
}

// Create проверяет и сохраняет новую запись. Напоминание не планируется.
func (s *ItemService) Create(ctx context.Context, in model.CreateItem) (*model.Item, error) {
	in, err := s.normalizeCreate(in)
	if err != nil {
		return nil, err
	}
	it, err := s.repo.Create(ctx, in)
	if err != nil {
		s.logger.Errorw("create item failed", "error", err)
		return nil, err
	}
	s.logger.Infow("item created", "id", it.ID, "type", it.ItemType)
	return it, nil
}

// CreateResult — итог создания записи вместе с попыткой запланировать напоминание.
type CreateResult struct {
	Item        *model.Item
	Reminder    *reminder.Scheduled
	ReminderErr error
}

// CreateWithReminder создаёт запись и планирует напоминание.
// Ошибка планирования не откатывает созданную запись и возвращается в ReminderErr.
func (s *ItemService) CreateWithReminder(ctx context.Context, in model.CreateItem) (CreateResult, error) {
	it, err := s.Create(ctx, in)
	if err != nil {
		return CreateResult{}, err
	}
	res := CreateResult{Item: it}
	sched, err := s.ScheduleReminder(ctx, *it)
	if err != nil {
		s.logger.Warnw("reminder scheduling failed", "id", it.ID, "error", err)
		res.ReminderErr = err
		return res, nil
	}
	res.Reminder = &sched
	return res, nil
}

// ScheduleReminder планирует напоминание о просрочке для записи.
func (s *ItemService) ScheduleReminder(ctx context.Context, it model.Item) (reminder.Scheduled, error) {
	if s.reminders == nil {
		return reminder.Scheduled{}, ErrRemindersDisabled
	}
	return s.reminders.Schedule(ctx, it)
}

func (s *ItemService) validatePatch(p model.ItemPatch) (model.ItemPatch, error) {
	if p.Empty() {
		return p, model.NewValidationError(criterio.NewFieldErrors("", errNothingToSave))
	}
	var errs criterio.FieldErrorsBuilder
	if p.ItemName != nil {
		v := strings.TrimSpace(*p.ItemName)
		p.ItemName = &v
		errs = checkName(errs, "itemName", v)
	}
	if p.CounterpartyName != nil {
		v := strings.TrimSpace(*p.CounterpartyName)
		p.CounterpartyName = &v
		errs = checkName(errs, "counterpartyName", v)
	}
	if p.ExpectedReturnDate != nil && p.ExpectedReturnDate.IsZero() {
		errs = errs.Append("expectedReturnDate", errRequired)
	}
	return p, model.NewValidationError(errs.ToError())
}

// Update применяет частичное изменение. При переносе срока напоминание перепланируется.
func (s *ItemService) Update(ctx context.Context, id string, patch model.ItemPatch) (*model.Item, error) {
	patch, err := s.validatePatch(patch)
	if err != nil {
		return nil, err
	}
	it, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	if patch.ExpectedReturnDate != nil && it.Outstanding() && s.reminders != nil {
		if _, err := s.reminders.Schedule(ctx, *it); err != nil {
			s.logger.Warnw("reminder rescheduling failed", "id", id, "error", err)
		}
	}
	return it, nil
}

// MarkReturned отмечает возврат. Повторный возврат — ErrAlreadyReturned.
func (s *ItemService) MarkReturned(ctx context.Context, id string, at *time.Time) (*model.Item, error) {
	it, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if it == nil {
		return nil, model.ErrNotFound
	}
	if it.IsReturned {
		return nil, model.ErrAlreadyReturned
	}
	if at != nil && at.IsZero() {
		at = nil
	}
	it, err = s.repo.MarkAsReturned(ctx, id, at)
	if err != nil {
		return nil, err
	}
	s.cancelReminders(ctx, id)
	s.logger.Infow("item returned", "id", id)
	return it, nil
}

// Delete безвозвратно удаляет запись и её напоминания.
func (s *ItemService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.cancelReminders(ctx, id)
	s.logger.Infow("item deleted", "id", id)
	return nil
}

func (s *ItemService) cancelReminders(ctx context.Context, id string) {
	if s.reminders == nil {
		return
	}
	if err := s.reminders.CancelItem(ctx, id); err != nil {
		s.logger.Warnw("reminder cancel failed", "id", id, "error", err)
	}
}

// Get возвращает запись по id или ErrNotFound.
func (s *ItemService) Get(ctx context.Context, id string) (*model.Item, error) {
	it, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if it == nil {
		return nil, model.ErrNotFound
	}
	return it, nil
}

// ListByCounterparty — записи с точным совпадением имени контрагента, новые первыми.
func (s *ItemService) ListByCounterparty(ctx context.Context, name string) ([]model.Item, error) {
	items, err := s.repo.GetByCounterparty(ctx, strings.TrimSpace(name))
	if err != nil {
		return nil, err
	}
	sortItems(items, SortNone, s.now(), s.dueSoonDays, s.locale)
	return items, nil
}
