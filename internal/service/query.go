package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"LendIt/internal/model"

	"github.com/hay-kot/criterio"
	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortKey — порядок списка.
type SortKey string

const (
	SortNone         SortKey = ""
	SortDueDate      SortKey = "dueDate"
	SortCounterparty SortKey = "counterpartyName"
	SortItemName     SortKey = "itemName"
	SortStatus       SortKey = "status"
)

// Filter — базовая выборка списка.
type Filter string

const (
	FilterAll      Filter = "all"
	FilterActive   Filter = "active"
	FilterOverdue  Filter = "overdue"
	FilterReturned Filter = "returned"
)

// ListQuery — параметры выборки списка. Нулевое значение — все записи, новые первыми.
type ListQuery struct {
	SortBy   SortKey
	FilterBy Filter
	Search   string
}

// ParseSortKey разбирает ключ сортировки; пустая строка — SortNone.
func ParseSortKey(s string) (SortKey, error) {
	switch k := SortKey(strings.TrimSpace(s)); k {
	case SortNone, SortDueDate, SortCounterparty, SortItemName, SortStatus:
		return k, nil
	}
	return SortNone, model.NewValidationError(criterio.NewFieldErrors("sortBy", fmt.Errorf("unknown sort key %q", s)))
}

// ParseFilter разбирает фильтр; пустая строка — FilterAll.
func ParseFilter(s string) (Filter, error) {
	switch f := Filter(strings.TrimSpace(s)); f {
	case "":
		return FilterAll, nil
	case FilterAll, FilterActive, FilterOverdue, FilterReturned:
		return f, nil
	}
	return FilterAll, model.NewValidationError(criterio.NewFieldErrors("filterBy", fmt.Errorf("unknown filter %q", s)))
}

// statusRank задаёт порядок сортировки по статусу.
var statusRank = map[model.Status]int{
	model.StatusOverdue:  0,
	model.StatusDueSoon:  1,
	model.StatusActive:   2,
	model.StatusReturned: 3,
}

// List возвращает отфильтрованный, найденный и отсортированный список записей.
func (s *ItemService) List(ctx context.Context, q ListQuery) ([]model.Item, error) {
	items, err := s.base(ctx, q.FilterBy)
	if err != nil {
		return nil, err
	}
	items = search(items, q.Search)
	sortItems(items, q.SortBy, s.now(), s.dueSoonDays, s.locale)
	return items, nil
}

func (s *ItemService) base(ctx context.Context, f Filter) ([]model.Item, error) {
	switch f {
	case FilterActive:
		return s.repo.GetActiveItems(ctx)
	case FilterOverdue:
		return s.repo.GetOverdueItems(ctx)
	case FilterReturned:
		all, err := s.repo.GetAll(ctx)
		if err != nil {
			return nil, err
		}
		out := all[:0]
		for _, it := range all {
			if it.IsReturned {
				out = append(out, it)
			}
		}
		return out, nil
	default:
		return s.repo.GetAll(ctx)
	}
}

// search оставляет записи, где query встречается в названии, имени контрагента или заметках
// без учёта регистра.
func search(items []model.Item, query string) []model.Item {
	if query == "" {
		return items
	}
	fold := cases.Fold()
	needle := fold.String(query)
	match := func(s string) bool { return strings.Contains(fold.String(s), needle) }

	out := make([]model.Item, 0, len(items))
	for _, it := range items {
		if match(it.ItemName) || match(it.CounterpartyName) || (it.Notes != nil && match(*it.Notes)) {
			out = append(out, it)
		}
	}
	return out
}

// sortItems сортирует устойчиво: при равных ключах сохраняется исходный порядок.
func sortItems(items []model.Item, by SortKey, now time.Time, dueSoonDays int, tag language.Tag) {
	var less func(a, b *model.Item) bool
	switch by {
	case SortDueDate:
		less = func(a, b *model.Item) bool { return a.ExpectedReturnDate.Before(b.ExpectedReturnDate) }
	case SortCounterparty, SortItemName:
		// collate.Collator не потокобезопасен, поэтому создаётся на каждый вызов.
		c := collate.New(tag)
		key := func(it *model.Item) string { return it.ItemName }
		if by == SortCounterparty {
			key = func(it *model.Item) string { return it.CounterpartyName }
		}
		less = func(a, b *model.Item) bool { return c.CompareString(key(a), key(b)) < 0 }
	case SortStatus:
		less = func(a, b *model.Item) bool {
			return statusRank[a.StatusAt(now, dueSoonDays)] < statusRank[b.StatusAt(now, dueSoonDays)]
		}
	default:
		less = func(a, b *model.Item) bool { return a.CreatedAt.After(b.CreatedAt) }
	}
	sort.SliceStable(items, func(i, j int) bool { return less(&items[i], &items[j]) })
}
