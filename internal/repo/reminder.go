package repo

import (
	"context"
	"time"

	"LendIt/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ReminderRepository хранит запланированные напоминания.
type ReminderRepository interface {
	// Save создаёт или перезаписывает напоминание по его id.
	Save(ctx context.Context, r model.Reminder) error
	Delete(ctx context.Context, id string) error
	// DeleteByItem отменяет все напоминания записи.
	DeleteByItem(ctx context.Context, itemID string) error
	DeleteAll(ctx context.Context) error
	// Due возвращает напоминания с FireAt <= now, самые ранние первыми.
	Due(ctx context.Context, now time.Time) ([]model.Reminder, error)
	ListByItem(ctx context.Context, itemID string) ([]model.Reminder, error)
}

type reminderRow struct {
	ID        string `gorm:"primaryKey;type:varchar(80)"`
	ItemID    string `gorm:"column:item_id;not null;index"`
	Kind      string `gorm:"column:kind;not null"`
	FireAt    int64  `gorm:"column:fire_at;not null;index"`
	Title     string `gorm:"column:title;not null"`
	Body      string `gorm:"column:body;not null"`
	CreatedMs int64  `gorm:"column:created_at;not null"`
}

func (reminderRow) TableName() string { return "reminders" }

type reminderRepo struct {
	db *gorm.DB
}

func NewReminderRepository(db *gorm.DB) ReminderRepository {
	return &reminderRepo{db: db}
}

func reminderToRow(r model.Reminder) reminderRow {
	return reminderRow{
		ID:        r.ID,
		ItemID:    r.ItemID,
		Kind:      string(r.Kind),
		FireAt:    toMillis(r.FireAt),
		Title:     r.Title,
		Body:      r.Body,
		CreatedMs: toMillis(r.CreatedAt),
	}
}

func rowToReminder(r reminderRow) model.Reminder {
	return model.Reminder{
		ID:        r.ID,
		ItemID:    r.ItemID,
		Kind:      model.ReminderKind(r.Kind),
		FireAt:    fromMillis(r.FireAt),
		Title:     r.Title,
		Body:      r.Body,
		CreatedAt: fromMillis(r.CreatedMs),
	}
}

func (r *reminderRepo) Save(ctx context.Context, rem model.Reminder) error {
	row := reminderToRow(rem)
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(&row).Error
	if err != nil {
		return storeErr("save reminder", err)
	}
	return nil
}

func (r *reminderRepo) Delete(ctx context.Context, id string) error {
	if err := r.db.WithContext(ctx).Where("id = ?", id).Delete(&reminderRow{}).Error; err != nil {
		return storeErr("delete reminder", err)
	}
	return nil
}

func (r *reminderRepo) DeleteByItem(ctx context.Context, itemID string) error {
	if err := r.db.WithContext(ctx).Where("item_id = ?", itemID).Delete(&reminderRow{}).Error; err != nil {
		return storeErr("delete reminders by item", err)
	}
	return nil
}

func (r *reminderRepo) DeleteAll(ctx context.Context) error {
	if err := r.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&reminderRow{}).Error; err != nil {
		return storeErr("delete all reminders", err)
	}
	return nil
}

func (r *reminderRepo) list(ctx context.Context, op, query string, args ...any) ([]model.Reminder, error) {
	var rows []reminderRow
	if err := r.db.WithContext(ctx).Where(query, args...).Order("fire_at asc").Find(&rows).Error; err != nil {
		return nil, storeErr(op, err)
	}
	out := make([]model.Reminder, 0, len(rows))
	for _, row := range rows {
		out = append(out, rowToReminder(row))
	}
	return out, nil
}

func (r *reminderRepo) Due(ctx context.Context, now time.Time) ([]model.Reminder, error) {
	return r.list(ctx, "due reminders", "fire_at <= ?", toMillis(now))
}

func (r *reminderRepo) ListByItem(ctx context.Context, itemID string) ([]model.Reminder, error) {
	return r.list(ctx, "list reminders", "item_id = ?", itemID)
}
