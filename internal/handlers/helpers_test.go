package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"LendIt/internal/config"
	"LendIt/internal/handlers"
	"LendIt/internal/middleware"
	"LendIt/internal/reminder"
	"LendIt/internal/repo"
	"LendIt/internal/service"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// testNow — "сейчас" для всех хендлер-тестов.
var testNow = time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)

type testEnv struct {
	router    http.Handler
	cfg       *config.Config
	reminders repo.ReminderRepository
}

func newHandlersTestRouter(t *testing.T, notificationsEnabled bool) *testEnv {
	t.Helper()
	cfg := &config.Config{AuthSecret: "test-secret", Timezone: "UTC", DueSoonDays: 3}
	logger := zap.NewNop().Sugar()
	clock := func() time.Time { return testNow }

	db, err := repo.InitDB(filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close(db) })

	items := repo.NewItemRepository(db, clock)
	reminders := repo.NewReminderRepository(db)
	notifier := reminder.NewStoreNotifier(reminders, notificationsEnabled, clock)
	policy := reminder.Policy{Hour: 10, FollowUp: reminder.DefaultFollowUp, Location: time.UTC}
	sched := reminder.NewScheduler(notifier, reminders, items, policy, logger, clock)

	svc := service.NewItemService(items, logger,
		service.WithClock(clock),
		service.WithDueSoonDays(cfg.DueSoonDays),
		service.WithReminders(sched),
	)
	h := handlers.NewHandler(svc, logger, cfg)
	return &testEnv{router: h.Router, cfg: cfg, reminders: reminders}
}

func addAuth(t *testing.T, req *http.Request, secret string) {
	t.Helper()
	tok, err := middleware.IssueToken(secret, "tester", time.Hour)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+tok)
}

// do выполняет авторизованный запрос и возвращает рекордер.
func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != nil {
		if s, ok := body.(string); ok {
			rd = bytes.NewBufferString(s)
		} else {
			b, err := json.Marshal(body)
			require.NoError(t, err)
			rd = bytes.NewReader(b)
		}
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	addAuth(t, req, e.cfg.AuthSecret)
	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), rr.Body.String())
	return v
}

func (e *testEnv) create(t *testing.T, name, who, start, due string) handlers.ItemDTO {
	t.Helper()
	rr := e.do(t, http.MethodPost, "/api/items", map[string]any{
		"itemName":           name,
		"counterpartyName":   who,
		"itemType":           "lent",
		"startDate":          start,
		"expectedReturnDate": due,
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	return decode[handlers.CreateItemResponse](t, rr).Item
}
