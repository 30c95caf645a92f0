package commands

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"LendIt/internal/cli/bootstrap"
	"LendIt/internal/config"
	"LendIt/internal/model"
)

// testNow — фиксированное "сейчас" для команд.
var testNow = time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)

// withTestApp направляет команды во временную базу с фиксированными часами.
func withTestApp(t *testing.T) *config.Config {
	t.Helper()
	cfg := &config.Config{
		DatabaseDSN:          filepath.Join(t.TempDir(), "lendit.db"),
		AuthSecret:           "test-secret",
		Locale:               "en",
		Timezone:             "UTC",
		DueSoonDays:          3,
		ReminderHour:         10,
		ReminderFollowUpDays: 7,
		NotificationsEnabled: true,
		Notifier:             config.NotifierLog,
	}
	old := openApp
	openApp = func(cfg *config.Config) (*bootstrap.App, error) {
		return bootstrap.Open(cfg, nil, func() time.Time { return testNow })
	}
	t.Cleanup(func() { openApp = old })
	return cfg
}

// seed создаёт запись напрямую через сервис и возвращает её id.
func seed(t *testing.T, cfg *config.Config, name, who, start, due string) string {
	t.Helper()
	app, err := openApp(cfg)
	if err != nil {
		t.Fatalf("open app: %v", err)
	}
	defer app.Close()
	s, _ := time.Parse(time.DateOnly, start)
	d, _ := time.Parse(time.DateOnly, due)
	res, err := app.Service.CreateWithReminder(context.Background(), model.CreateItem{
		ItemName:           name,
		CounterpartyName:   who,
		ItemType:           model.ItemTypeLent,
		StartDate:          s,
		ExpectedReturnDate: d,
	})
	if err != nil {
		t.Fatalf("seed %s: %v", name, err)
	}
	return res.Item.ID
}

// run выполняет команду с перехватом вывода.
func run(t *testing.T, cmd Command, cfg *config.Config, args ...string) (string, error) {
	t.Helper()
	var err error
	out := withStdoutCapture(t, func() { err = cmd.Run(context.Background(), cfg, args) })
	return out, err
}

func mustUsage(t *testing.T, err error) {
	t.Helper()
	if !errors.Is(err, ErrUsage) {
		t.Fatalf("expected ErrUsage, got %v", err)
	}
}

// memTokenStore — токен в памяти вместо файла.
type memTokenStore struct{ tok string }

func (m *memTokenStore) Save(tok string) error { m.tok = tok; return nil }
func (m *memTokenStore) Load() (string, error) {
	if m.tok == "" {
		return "", errors.New("no token")
	}
	return m.tok, nil
}
