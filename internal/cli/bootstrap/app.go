// Package bootstrap собирает зависимости CLI из конфигурации: база, репозитории,
// планировщик напоминаний и сервис. Глобального контейнера нет, всё передаётся явно.
package bootstrap

import (
	"fmt"
	"time"

	"LendIt/internal/config"
	"LendIt/internal/i18n"
	"LendIt/internal/reminder"
	"LendIt/internal/repo"
	"LendIt/internal/service"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// App — собранное приложение. Close необходимо вызвать после окончания работы.
type App struct {
	Config    *config.Config
	Logger    *zap.SugaredLogger
	DB        *gorm.DB
	Items     repo.ItemRepository
	Reminders repo.ReminderRepository
	Scheduler *reminder.Scheduler
	Service   *service.ItemService
	I18n      *i18n.Translator

	now func() time.Time
}

// NewLogger возвращает zap-логгер: в production-режиме JSON, иначе development.
func NewLogger(mode string) (*zap.Logger, error) {
	if mode == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// CLILogger — для CLI лог включается только флагом --verbose.
func CLILogger(cfg *config.Config) *zap.SugaredLogger {
	if cfg == nil || !cfg.Verbose {
		return zap.NewNop().Sugar()
	}
	l, err := NewLogger(cfg.LogMode)
	if err != nil {
		return zap.NewNop().Sugar()
	}
	return l.Sugar()
}

// PolicyFrom строит правило напоминаний из конфигурации.
func PolicyFrom(cfg *config.Config) reminder.Policy {
	return reminder.Policy{
		Hour:     cfg.ReminderHour,
		FollowUp: cfg.FollowUpInterval(),
		Location: cfg.Location(),
	}
}

// Open открывает базу по cfg.DatabaseDSN и связывает репозитории, планировщик и сервис.
// now == nil означает time.Now.
func Open(cfg *config.Config, logger *zap.SugaredLogger, now func() time.Time) (*App, error) {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	db, err := repo.InitDB(cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	items := repo.NewItemRepository(db, now)
	reminders := repo.NewReminderRepository(db)
	notifier := reminder.NewStoreNotifier(reminders, cfg.NotificationsEnabled, now)
	scheduler := reminder.NewScheduler(notifier, reminders, items, PolicyFrom(cfg), logger, now)
	tr := i18n.New(cfg.Locale)

	svc := service.NewItemService(items, logger,
		service.WithClock(now),
		service.WithDueSoonDays(cfg.DueSoonDays),
		service.WithLocale(tr.Tag()),
		service.WithReminders(scheduler),
	)

	return &App{
		Config:    cfg,
		Logger:    logger,
		DB:        db,
		Items:     items,
		Reminders: reminders,
		Scheduler: scheduler,
		Service:   svc,
		I18n:      tr,
		now:       now,
	}, nil
}

// NewSink выбирает способ доставки напоминаний по cfg.Notifier.
func NewSink(cfg *config.Config, logger *zap.SugaredLogger) (reminder.Sink, error) {
	if cfg.Notifier == config.NotifierKafka {
		return reminder.NewKafkaSink(cfg.KafkaBrokers, cfg.KafkaTopic, logger)
	}
	return reminder.NewLogSink(logger), nil
}

// Dispatcher создаёт доставщик напоминаний поверх sink.
func (a *App) Dispatcher(sink reminder.Sink) *reminder.Dispatcher {
	return reminder.NewDispatcher(a.Reminders, sink, a.Scheduler, a.Logger, a.now)
}

// Close закрывает соединение с базой.
func (a *App) Close() error {
	if a == nil || a.DB == nil {
		return nil
	}
	return repo.Close(a.DB)
}
