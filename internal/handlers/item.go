package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"LendIt/internal/config"
	"LendIt/internal/model"
	"LendIt/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/hay-kot/criterio"
	"go.uber.org/zap"
)

// ItemHandler обрабатывает CRUD записей и выборку списка.
type ItemHandler struct {
	ItemService *service.ItemService
	Logger      *zap.SugaredLogger
	Config      *config.Config
}

// NewItemHandler создаёт хендлер items
func NewItemHandler(itemService *service.ItemService, logger *zap.SugaredLogger, cfg *config.Config) *ItemHandler {
	return &ItemHandler{ItemService: itemService, Logger: logger, Config: cfg}
}

// ItemDTO — представление записи в ответах API.
type ItemDTO struct {
	ID                  string     `json:"id"`
	ItemName            string     `json:"itemName"`
	CounterpartyName    string     `json:"counterpartyName"`
	CounterpartyContact *string    `json:"counterpartyContact"`
	ItemType            string     `json:"itemType"`
	StartDate           time.Time  `json:"startDate"`
	ExpectedReturnDate  time.Time  `json:"expectedReturnDate"`
	ActualReturnDate    *time.Time `json:"actualReturnDate"`
	Notes               *string    `json:"notes"`
	IsReturned          bool       `json:"isReturned"`
	Status              string     `json:"status"`
	DaysUntilDue        float64    `json:"daysUntilDue"`
	CreatedAt           time.Time  `json:"createdAt"`
	UpdatedAt           time.Time  `json:"updatedAt"`
}

func (h *ItemHandler) toDTO(it model.Item) ItemDTO {
	now := h.ItemService.Now()
	return ItemDTO{
		ID:                  it.ID,
		ItemName:            it.ItemName,
		CounterpartyName:    it.CounterpartyName,
		CounterpartyContact: it.CounterpartyContact,
		ItemType:            string(it.ItemType),
		StartDate:           it.StartDate,
		ExpectedReturnDate:  it.ExpectedReturnDate,
		ActualReturnDate:    it.ActualReturnDate,
		Notes:               it.Notes,
		IsReturned:          it.IsReturned,
		Status:              string(it.StatusAt(now, h.ItemService.DueSoonDays())),
		DaysUntilDue:        it.DaysUntilDue(now),
		CreatedAt:           it.CreatedAt,
		UpdatedAt:           it.UpdatedAt,
	}
}

func (h *ItemHandler) toDTOs(items []model.Item) []ItemDTO {
	out := make([]ItemDTO, 0, len(items))
	for _, it := range items {
		out = append(out, h.toDTO(it))
	}
	return out
}

// CreateItemRequest — тело POST /api/items. Даты: RFC3339 или YYYY-MM-DD.
type CreateItemRequest struct {
	ItemName            string  `json:"itemName"`
	CounterpartyName    string  `json:"counterpartyName"`
	CounterpartyContact *string `json:"counterpartyContact,omitempty"`
	ItemType            string  `json:"itemType"`
	StartDate           string  `json:"startDate"`
	ExpectedReturnDate  string  `json:"expectedReturnDate"`
	Notes               *string `json:"notes,omitempty"`
}

// UpdateItemRequest — тело PATCH /api/items/{id}; отсутствующее поле не меняется.
type UpdateItemRequest struct {
	ItemName            *string `json:"itemName,omitempty"`
	CounterpartyName    *string `json:"counterpartyName,omitempty"`
	CounterpartyContact *string `json:"counterpartyContact,omitempty"`
	ExpectedReturnDate  *string `json:"expectedReturnDate,omitempty"`
	Notes               *string `json:"notes,omitempty"`
}

// ReturnItemRequest — необязательное тело POST /api/items/{id}/return.
type ReturnItemRequest struct {
	ReturnDate *string `json:"returnDate,omitempty"`
}

// ReminderDTO описывает запланированное напоминание.
type ReminderDTO struct {
	Handle    string    `json:"handle"`
	At        time.Time `json:"at"`
	Immediate bool      `json:"immediate"`
}

// CreateItemResponse — созданная запись и результат планирования напоминания.
type CreateItemResponse struct {
	Item          ItemDTO      `json:"item"`
	Reminder      *ReminderDTO `json:"reminder"`
	ReminderError string       `json:"reminderError,omitempty"`
}

// parseDate принимает RFC3339 или дату без времени в часовом поясе конфигурации.
func parseDate(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.ParseInLocation(time.DateOnly, s, loc)
}

func (h *ItemHandler) location() *time.Location {
	if h.Config == nil {
		return time.Local
	}
	return h.Config.Location()
}

func decodeBody(r *http.Request, v any) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func badBody(err error) error {
	return model.NewValidationError(criterio.NewFieldErrors("body", err))
}

// List GET /api/items?filter=&sort=&q=
func (h *ItemHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	sortBy, err := service.ParseSortKey(q.Get("sort"))
	if err != nil {
		h.writeError(w, "List", err)
		return
	}
	filter, err := service.ParseFilter(q.Get("filter"))
	if err != nil {
		h.writeError(w, "List", err)
		return
	}

	items, err := h.ItemService.List(r.Context(), service.ListQuery{SortBy: sortBy, FilterBy: filter, Search: q.Get("q")})
	if err != nil {
		h.writeError(w, "List", err)
		return
	}
	writeJSON(w, http.StatusOK, h.toDTOs(items))
}

// Create POST /api/items
func (h *ItemHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateItemRequest
	if err := decodeBody(r, &req); err != nil {
		h.writeError(w, "Create", badBody(err))
		return
	}

	loc := h.location()
	var errs criterio.FieldErrorsBuilder
	start, err := parseDate(req.StartDate, loc)
	if err != nil {
		errs = errs.Append("startDate", err)
	}
	due, err := parseDate(req.ExpectedReturnDate, loc)
	if err != nil {
		errs = errs.Append("expectedReturnDate", err)
	}
	if err := model.NewValidationError(errs.ToError()); err != nil {
		h.writeError(w, "Create", err)
		return
	}

	res, err := h.ItemService.CreateWithReminder(r.Context(), model.CreateItem{
		ItemName:            req.ItemName,
		CounterpartyName:    req.CounterpartyName,
		CounterpartyContact: req.CounterpartyContact,
		ItemType:            model.ItemType(req.ItemType),
		StartDate:           start,
		ExpectedReturnDate:  due,
		Notes:               req.Notes,
	})
	if err != nil {
		h.writeError(w, "Create", err)
		return
	}

	resp := CreateItemResponse{Item: h.toDTO(*res.Item)}
	if res.Reminder != nil {
		resp.Reminder = &ReminderDTO{Handle: res.Reminder.Handle, At: res.Reminder.At, Immediate: res.Reminder.Immediate}
	}
	if res.ReminderErr != nil {
		resp.ReminderError = res.ReminderErr.Error()
	}
	writeJSON(w, http.StatusCreated, resp)
}

// Get GET /api/items/{id}
func (h *ItemHandler) Get(w http.ResponseWriter, r *http.Request) {
	it, err := h.ItemService.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, "Get", err)
		return
	}
	writeJSON(w, http.StatusOK, h.toDTO(*it))
}

// Update PATCH /api/items/{id}
func (h *ItemHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateItemRequest
	if err := decodeBody(r, &req); err != nil {
		h.writeError(w, "Update", badBody(err))
		return
	}

	patch := model.ItemPatch{
		ItemName:            req.ItemName,
		CounterpartyName:    req.CounterpartyName,
		CounterpartyContact: req.CounterpartyContact,
		Notes:               req.Notes,
	}
	if req.ExpectedReturnDate != nil {
		due, err := parseDate(*req.ExpectedReturnDate, h.location())
		if err != nil {
			h.writeError(w, "Update", model.NewValidationError(criterio.NewFieldErrors("expectedReturnDate", err)))
			return
		}
		patch.ExpectedReturnDate = &due
	}

	it, err := h.ItemService.Update(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		h.writeError(w, "Update", err)
		return
	}
	writeJSON(w, http.StatusOK, h.toDTO(*it))
}

// Return POST /api/items/{id}/return
func (h *ItemHandler) Return(w http.ResponseWriter, r *http.Request) {
	var req ReturnItemRequest
	if err := decodeBody(r, &req); err != nil {
		h.writeError(w, "Return", badBody(err))
		return
	}
	var at *time.Time
	if req.ReturnDate != nil {
		t, err := parseDate(*req.ReturnDate, h.location())
		if err != nil {
			h.writeError(w, "Return", model.NewValidationError(criterio.NewFieldErrors("returnDate", err)))
			return
		}
		at = &t
	}

	it, err := h.ItemService.MarkReturned(r.Context(), chi.URLParam(r, "id"), at)
	if err != nil {
		h.writeError(w, "Return", err)
		return
	}
	writeJSON(w, http.StatusOK, h.toDTO(*it))
}

// Delete DELETE /api/items/{id}
func (h *ItemHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.ItemService.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeError(w, "Delete", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ByCounterparty GET /api/counterparties/{name}/items
func (h *ItemHandler) ByCounterparty(w http.ResponseWriter, r *http.Request) {
	items, err := h.ItemService.ListByCounterparty(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		h.writeError(w, "ByCounterparty", err)
		return
	}
	writeJSON(w, http.StatusOK, h.toDTOs(items))
}
