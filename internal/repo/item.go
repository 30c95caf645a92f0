package repo

import (
	"context"
	"errors"
	"strings"
	"time"

	"LendIt/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ItemRepository определяет контракт доступа к записям для слоя сервиса.
type ItemRepository interface {
	// GetAll возвращает все записи, порядок не гарантируется.
	GetAll(ctx context.Context) ([]model.Item, error)

	// GetByID возвращает запись или (nil, nil), если её нет.
	GetByID(ctx context.Context, id string) (*model.Item, error)

	// GetByCounterparty возвращает записи с точным совпадением имени контрагента.
	GetByCounterparty(ctx context.Context, name string) ([]model.Item, error)

	// GetOverdueItems возвращает невозвращённые записи со сроком строго раньше текущего момента.
	GetOverdueItems(ctx context.Context) ([]model.Item, error)

	// GetActiveItems возвращает все невозвращённые записи.
	GetActiveItems(ctx context.Context) ([]model.Item, error)

	// Create сохраняет запись с новым id и метками времени.
	Create(ctx context.Context, in model.CreateItem) (*model.Item, error)

	// Update применяет только переданные поля патча. ErrNotFound, если записи нет.
	Update(ctx context.Context, id string, patch model.ItemPatch) (*model.Item, error)

	// Delete удаляет запись безвозвратно. ErrNotFound, если записи нет.
	Delete(ctx context.Context, id string) error

	// MarkAsReturned переводит запись в состояние returned. ErrNotFound, если записи нет.
	MarkAsReturned(ctx context.Context, id string, at *time.Time) (*model.Item, error)
}

// itemRow — строка таблицы lent_items. Все даты — epoch миллисекунды.
type itemRow struct {
	ID                  string  `gorm:"primaryKey;type:varchar(36)"`
	ItemName            string  `gorm:"column:item_name;not null"`
	CounterpartyName    string  `gorm:"column:counterparty_name;not null;index"`
	CounterpartyContact *string `gorm:"column:counterparty_contact"`
	StartDate           int64   `gorm:"column:start_date;not null"`
	ExpectedReturnDate  int64   `gorm:"column:expected_return_date;not null;index:idx_lent_items_open,priority:2"`
	ActualReturnDate    *int64  `gorm:"column:actual_return_date"`
	Notes               *string `gorm:"column:notes"`
	IsReturned          bool    `gorm:"column:is_returned;not null;index:idx_lent_items_open,priority:1"`
	ItemType            string  `gorm:"column:item_type;not null"`
	CreatedMs           int64   `gorm:"column:created_at;not null"`
	UpdatedMs           int64   `gorm:"column:updated_at;not null"`
}

func (itemRow) TableName() string { return "lent_items" }

type itemRepo struct {
	db  *gorm.DB
	now func() time.Time
}

// NewItemRepository создаёт реализацию репозитория поверх gorm.
// now используется для меток времени и запроса просроченных записей; nil — time.Now.
func NewItemRepository(db *gorm.DB, now func() time.Time) ItemRepository {
	if now == nil {
		now = time.Now
	}
	return &itemRepo{db: db, now: now}
}

func toMillis(t time.Time) int64 { return t.UnixMilli() }

func fromMillis(ms int64) time.Time { return time.UnixMilli(ms).UTC() }

// optString приводит пустую строку к NULL.
func optString(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

func rowToItem(r itemRow) model.Item {
	it := model.Item{
		ID:                  r.ID,
		ItemName:            r.ItemName,
		CounterpartyName:    r.CounterpartyName,
		CounterpartyContact: r.CounterpartyContact,
		ItemType:            model.ItemType(r.ItemType),
		StartDate:           fromMillis(r.StartDate),
		ExpectedReturnDate:  fromMillis(r.ExpectedReturnDate),
		Notes:               r.Notes,
		IsReturned:          r.IsReturned,
		CreatedAt:           fromMillis(r.CreatedMs),
		UpdatedAt:           fromMillis(r.UpdatedMs),
	}
	if r.ActualReturnDate != nil {
		at := fromMillis(*r.ActualReturnDate)
		it.ActualReturnDate = &at
	}
	return it
}

func rowsToItems(rows []itemRow) []model.Item {
	out := make([]model.Item, 0, len(rows))
	for _, r := range rows {
		out = append(out, rowToItem(r))
	}
	return out
}

func (r *itemRepo) find(ctx context.Context, op string, query string, args ...any) ([]model.Item, error) {
	var rows []itemRow
	tx := r.db.WithContext(ctx)
	if query != "" {
		tx = tx.Where(query, args...)
	}
	if err := tx.Find(&rows).Error; err != nil {
		return nil, storeErr(op, err)
	}
	return rowsToItems(rows), nil
}

func (r *itemRepo) GetAll(ctx context.Context) ([]model.Item, error) {
	return r.find(ctx, "get all", "")
}

func (r *itemRepo) GetByID(ctx context.Context, id string) (*model.Item, error) {
	var row itemRow
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, storeErr("get by id", err)
	}
	it := rowToItem(row)
	return &it, nil
}

func (r *itemRepo) GetByCounterparty(ctx context.Context, name string) ([]model.Item, error) {
	return r.find(ctx, "get by counterparty", "counterparty_name = ?", name)
}

func (r *itemRepo) GetOverdueItems(ctx context.Context) ([]model.Item, error) {
	return r.find(ctx, "get overdue", "is_returned = ? AND expected_return_date < ?", false, toMillis(r.now()))
}

func (r *itemRepo) GetActiveItems(ctx context.Context) ([]model.Item, error) {
	return r.find(ctx, "get active", "is_returned = ?", false)
}

func (r *itemRepo) Create(ctx context.Context, in model.CreateItem) (*model.Item, error) {
	now := toMillis(r.now())
	row := itemRow{
		ID:                  uuid.NewString(),
		ItemName:            in.ItemName,
		CounterpartyName:    in.CounterpartyName,
		CounterpartyContact: optString(in.CounterpartyContact),
		StartDate:           toMillis(in.StartDate),
		ExpectedReturnDate:  toMillis(in.ExpectedReturnDate),
		Notes:               optString(in.Notes),
		IsReturned:          false,
		ItemType:            string(in.ItemType),
		CreatedMs:           now,
		UpdatedMs:           now,
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, storeErr("create", err)
	}
	it := rowToItem(row)
	return &it, nil
}

// mutate выполняет изменение одной записи в транзакции: либо все поля, либо ничего.
func (r *itemRepo) mutate(ctx context.Context, op, id string, build func(row itemRow) map[string]any) (*model.Item, error) {
	var out itemRow
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row itemRow
		if err := tx.Where("id = ?", id).First(&row).Error; err != nil {
			return err
		}
		updates := build(row)
		updates["updated_at"] = toMillis(r.now())
		if err := tx.Model(&itemRow{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).First(&out).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, model.ErrNotFound
	}
	if err != nil {
		return nil, storeErr(op, err)
	}
	it := rowToItem(out)
	return &it, nil
}

func (r *itemRepo) Update(ctx context.Context, id string, patch model.ItemPatch) (*model.Item, error) {
	return r.mutate(ctx, "update", id, func(itemRow) map[string]any {
		updates := map[string]any{}
		if patch.ItemName != nil {
			updates["item_name"] = *patch.ItemName
		}
		if patch.CounterpartyName != nil {
			updates["counterparty_name"] = *patch.CounterpartyName
		}
		if patch.CounterpartyContact != nil {
			updates["counterparty_contact"] = optString(patch.CounterpartyContact)
		}
		if patch.ExpectedReturnDate != nil {
			updates["expected_return_date"] = toMillis(*patch.ExpectedReturnDate)
		}
		if patch.Notes != nil {
			updates["notes"] = optString(patch.Notes)
		}
		return updates
	})
}

func (r *itemRepo) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&itemRow{})
	if res.Error != nil {
		return storeErr("delete", res.Error)
	}
	if res.RowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *itemRepo) MarkAsReturned(ctx context.Context, id string, at *time.Time) (*model.Item, error) {
	return r.mutate(ctx, "mark returned", id, func(itemRow) map[string]any {
		returned := r.now()
		if at != nil {
			returned = *at
		}
		return map[string]any{
			"is_returned":        true,
			"actual_return_date": toMillis(returned),
		}
	})
}
