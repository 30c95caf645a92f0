package model

import "time"

// ItemType — направление обмена: я отдал вещь или я её взял.
type ItemType string

const (
	ItemTypeLent     ItemType = "lent"
	ItemTypeBorrowed ItemType = "borrowed"
)

// Valid сообщает, является ли значение одним из допустимых типов.
func (t ItemType) Valid() bool {
	return t == ItemTypeLent || t == ItemTypeBorrowed
}

// Status — вычисляемое состояние записи, в хранилище не сохраняется.
type Status string

const (
	StatusActive   Status = "active"
	StatusDueSoon  Status = "due_soon"
	StatusOverdue  Status = "overdue"
	StatusReturned Status = "returned"
)

// DefaultDueSoonDays — окно "скоро срок" по умолчанию, в днях.
const DefaultDueSoonDays = 3

const day = 24 * time.Hour

// Item — доменная модель одолженной/взятой вещи.
type Item struct {
	ID                  string
	ItemName            string
	CounterpartyName    string
	CounterpartyContact *string
	ItemType            ItemType
	StartDate           time.Time
	ExpectedReturnDate  time.Time
	ActualReturnDate    *time.Time
	Notes               *string
	IsReturned          bool
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// MarkAsReturned переводит запись в терминальное состояние.
// Если at == nil, датой возврата считается now. Повторный вызов не возвращает ошибку:
// запрет двойного возврата проверяется на уровне сервиса.
func (it *Item) MarkAsReturned(at *time.Time, now time.Time) {
	returned := now
	if at != nil {
		returned = *at
	}
	it.IsReturned = true
	it.ActualReturnDate = &returned
	it.UpdatedAt = now
}

// IsOverdue — срок возврата прошёл, а вещь не возвращена.
func (it *Item) IsOverdue(now time.Time) bool {
	if it.IsReturned {
		return false
	}
	return now.After(it.ExpectedReturnDate)
}

// DaysUntilDue возвращает дробное число дней до срока (отрицательное, если срок прошёл).
func (it *Item) DaysUntilDue(now time.Time) float64 {
	return float64(it.ExpectedReturnDate.Sub(now)) / float64(day)
}

// IsDueSoon — до срока осталось от 0 до thresholdDays дней включительно.
func (it *Item) IsDueSoon(now time.Time, thresholdDays int) bool {
	if it.IsReturned || it.IsOverdue(now) {
		return false
	}
	d := it.DaysUntilDue(now)
	return d >= 0 && d <= float64(thresholdDays)
}

// StatusAt вычисляет статус в порядке приоритета: returned, overdue, due_soon, active.
func (it *Item) StatusAt(now time.Time, thresholdDays int) Status {
	switch {
	case it.IsReturned:
		return StatusReturned
	case it.IsOverdue(now):
		return StatusOverdue
	case it.IsDueSoon(now, thresholdDays):
		return StatusDueSoon
	default:
		return StatusActive
	}
}

// Outstanding — вещь ещё не возвращена (active, due_soon или overdue).
func (it *Item) Outstanding() bool { return !it.IsReturned }

// CreateItem — входные данные для создания записи.
type CreateItem struct {
	ItemName            string
	CounterpartyName    string
	CounterpartyContact *string
	ItemType            ItemType
	StartDate           time.Time
	ExpectedReturnDate  time.Time
	Notes               *string
}

// ItemPatch — частичное обновление. nil означает "поле не передано";
// указатель на пустую строку означает "очистить значение".
type ItemPatch struct {
	ItemName            *string
	CounterpartyName    *string
	CounterpartyContact *string
	ExpectedReturnDate  *time.Time
	Notes               *string
}

// Empty сообщает, что в патче нет ни одного поля.
func (p ItemPatch) Empty() bool {
	return p.ItemName == nil && p.CounterpartyName == nil && p.CounterpartyContact == nil &&
		p.ExpectedReturnDate == nil && p.Notes == nil
}
