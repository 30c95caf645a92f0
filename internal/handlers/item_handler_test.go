package handlers_test

import (
	"bytes"
	"compress/gzip"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"LendIt/internal/handlers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandlers_RequireAuth(t *testing.T) {
	e := newHandlersTestRouter(t, true)

	req := httptest.NewRequest(http.MethodGet, "/api/items", nil)
	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	// healthz открыт
	rr = httptest.NewRecorder()
	e.router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestHandlers_Create_RoundTrip(t *testing.T) {
	e := newHandlersTestRouter(t, true)

	rr := e.do(t, http.MethodPost, "/api/items", map[string]any{
		"itemName":            "  Book ",
		"counterpartyName":    "John",
		"counterpartyContact": "john@example.com",
		"itemType":            "lent",
		"startDate":           "2024-01-01",
		"expectedReturnDate":  "2024-01-08",
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	created := decode[handlers.CreateItemResponse](t, rr)
	assert.Equal(t, "Book", created.Item.ItemName)
	assert.False(t, created.Item.IsReturned)
	assert.Equal(t, "overdue", created.Item.Status)
	require.NotNil(t, created.Reminder)
	assert.True(t, created.Reminder.Immediate, "due date long past: reminder fires now")
	assert.Empty(t, created.ReminderError)

	rr = e.do(t, http.MethodGet, "/api/items/"+created.Item.ID, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	got := decode[handlers.ItemDTO](t, rr)
	assert.Equal(t, created.Item.ID, got.ID)
	assert.Equal(t, "John", got.CounterpartyName)
	require.NotNil(t, got.CounterpartyContact)
	assert.True(t, got.ExpectedReturnDate.Equal(time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC)))
}

func TestHandlers_Create_ReminderFailureStillCreates(t *testing.T) {
	e := newHandlersTestRouter(t, false)

	rr := e.do(t, http.MethodPost, "/api/items", map[string]any{
		"itemName":           "Drill",
		"counterpartyName":   "Ann",
		"itemType":           "borrowed",
		"startDate":          "2024-01-05",
		"expectedReturnDate": "2024-01-20",
	})
	require.Equal(t, http.StatusCreated, rr.Code)
	resp := decode[handlers.CreateItemResponse](t, rr)
	assert.Nil(t, resp.Reminder)
	assert.Contains(t, resp.ReminderError, "permissions")

	rr = e.do(t, http.MethodGet, "/api/items/"+resp.Item.ID, nil)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestHandlers_Create_Validation(t *testing.T) {
	e := newHandlersTestRouter(t, true)

	rr := e.do(t, http.MethodPost, "/api/items", map[string]any{
		"itemName":           "",
		"counterpartyName":   "John",
		"itemType":           "lent",
		"startDate":          "2024-01-08",
		"expectedReturnDate": "2024-01-01",
	})
	require.Equal(t, http.StatusBadRequest, rr.Code)
	er := decode[handlers.ErrorResponse](t, rr)
	assert.Equal(t, "ValidationError", er.Code)
	assert.Contains(t, er.Fields, "itemName")
	assert.Contains(t, er.Fields, "expectedReturnDate")

	// ничего не сохранено
	rr = e.do(t, http.MethodGet, "/api/items", nil)
	assert.Equal(t, "[]\n", rr.Body.String())

	rr = e.do(t, http.MethodPost, "/api/items", `{"itemName":`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = e.do(t, http.MethodPost, "/api/items", map[string]any{"startDate": "01/02/2024"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, decode[handlers.ErrorResponse](t, rr).Fields, "startDate")
}

func TestHandlers_ReturnTwice(t *testing.T) {
	e := newHandlersTestRouter(t, true)
	it := e.create(t, "Ladder", "Bob", "2024-01-01", "2024-01-08")

	rr := e.do(t, http.MethodPost, "/api/items/"+it.ID+"/return", map[string]any{"returnDate": "2024-01-09"})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	ret := decode[handlers.ItemDTO](t, rr)
	assert.Equal(t, "returned", ret.Status)
	require.NotNil(t, ret.ActualReturnDate)

	// напоминания отменены
	list, err := e.reminders.ListByItem(context.Background(), it.ID)
	require.NoError(t, err)
	assert.Empty(t, list)

	rr = e.do(t, http.MethodPost, "/api/items/"+it.ID+"/return", nil)
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, "AlreadyReturned", decode[handlers.ErrorResponse](t, rr).Code)

	rr = e.do(t, http.MethodGet, "/api/items/"+it.ID, nil)
	got := decode[handlers.ItemDTO](t, rr)
	assert.True(t, got.ActualReturnDate.Equal(*ret.ActualReturnDate), "first return date kept")
}

func TestHandlers_UpdateAndDelete(t *testing.T) {
	e := newHandlersTestRouter(t, true)
	it := e.create(t, "Tent", "Zoe", "2024-01-01", "2024-02-01")

	rr := e.do(t, http.MethodPatch, "/api/items/"+it.ID, map[string]any{"notes": "two poles missing"})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	upd := decode[handlers.ItemDTO](t, rr)
	require.NotNil(t, upd.Notes)
	assert.Equal(t, "two poles missing", *upd.Notes)
	assert.Equal(t, "Tent", upd.ItemName)

	rr = e.do(t, http.MethodPatch, "/api/items/"+it.ID, map[string]any{"itemName": " "})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = e.do(t, http.MethodPatch, "/api/items/missing", map[string]any{"notes": "x"})
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = e.do(t, http.MethodDelete, "/api/items/"+it.ID, nil)
	assert.Equal(t, http.StatusNoContent, rr.Code)
	rr = e.do(t, http.MethodDelete, "/api/items/"+it.ID, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	rr = e.do(t, http.MethodGet, "/api/items/"+it.ID, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestHandlers_List_FilterSortSearch(t *testing.T) {
	e := newHandlersTestRouter(t, true)
	late := e.create(t, "Camera", "Eve", "2024-01-01", "2024-01-03")
	soon := e.create(t, "Drill", "Adam", "2024-01-02", "2024-01-12")
	old := e.create(t, "Book", "Émile", "2024-01-01", "2024-01-08")
	e.create(t, "Tent", "Zoe", "2024-01-01", "2024-02-01")

	rr := e.do(t, http.MethodGet, "/api/items?filter=overdue&sort=dueDate", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	got := decode[[]handlers.ItemDTO](t, rr)
	require.Len(t, got, 2)
	assert.Equal(t, late.ID, got[0].ID)
	assert.Equal(t, old.ID, got[1].ID)

	rr = e.do(t, http.MethodGet, "/api/items?sort=status", nil)
	got = decode[[]handlers.ItemDTO](t, rr)
	require.Len(t, got, 4)
	assert.Equal(t, "overdue", got[0].Status)
	assert.Equal(t, "overdue", got[1].Status)
	assert.Equal(t, soon.ID, got[2].ID)
	assert.Equal(t, "due_soon", got[2].Status)

	rr = e.do(t, http.MethodGet, "/api/items?q=drI", nil)
	got = decode[[]handlers.ItemDTO](t, rr)
	require.Len(t, got, 1)
	assert.Equal(t, soon.ID, got[0].ID)

	rr = e.do(t, http.MethodGet, "/api/counterparties/Eve/items", nil)
	got = decode[[]handlers.ItemDTO](t, rr)
	require.Len(t, got, 1)
	assert.Equal(t, late.ID, got[0].ID)

	rr = e.do(t, http.MethodGet, "/api/items?sort=price", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	rr = e.do(t, http.MethodGet, "/api/items?filter=lost", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHandlers_GzipResponse(t *testing.T) {
	e := newHandlersTestRouter(t, true)
	e.create(t, "Book", "John", "2024-01-01", "2024-01-08")

	req := httptest.NewRequest(http.MethodGet, "/api/items", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	addAuth(t, req, e.cfg.AuthSecret)
	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)

	require.Equal(t, "gzip", rr.Header().Get("Content-Encoding"))
	zr, err := gzip.NewReader(bytes.NewReader(rr.Body.Bytes()))
	require.NoError(t, err)
	body, err := io.ReadAll(zr)
	require.NoError(t, err)
	assert.Contains(t, string(body), `"itemName":"Book"`)
}

func TestHandlers_SessionCookie(t *testing.T) {
	e := newHandlersTestRouter(t, true)

	rr := e.do(t, http.MethodPost, "/api/session", nil)
	require.Equal(t, http.StatusNoContent, rr.Code)
	cookies := rr.Result().Cookies()
	require.Len(t, cookies, 1)

	// cookie без заголовка Authorization тоже проходит RequireAuth
	req := httptest.NewRequest(http.MethodGet, "/api/items", nil)
	req.AddCookie(cookies[0])
	rr = httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
}
