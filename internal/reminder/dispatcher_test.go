package reminder

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"LendIt/internal/model"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// recordingSink запоминает доставленные напоминания; failFor — id, на которых доставка падает.
type recordingSink struct {
	got     []model.Reminder
	failFor map[string]bool
}

func (s *recordingSink) Deliver(_ context.Context, r model.Reminder) error {
	if s.failFor[r.ID] {
		return errors.New("sink down")
	}
	s.got = append(s.got, r)
	return nil
}

func (s *recordingSink) Close() error { return nil }

var _ Sink = (*recordingSink)(nil)

func TestDispatcher_RunOnce_DeliversAndSchedulesFollowUp(t *testing.T) {
	start := time.Date(2024, 1, 5, 12, 0, 0, 0, time.UTC)
	e := newEnv(t, start, true)
	ctx := context.Background()
	it := e.create(t, "Book", time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC))
	_, err := e.scheduler.Schedule(ctx, it)
	require.NoError(t, err)

	sink := &recordingSink{}
	d := NewDispatcher(e.reminders, sink, e.scheduler, zap.NewNop().Sugar(), e.clock)

	// ещё рано
	n, err := d.RunOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	e.now = time.Date(2024, 1, 9, 10, 0, 5, 0, time.UTC)
	n, err = d.RunOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	require.Len(t, sink.got, 1)
	assert.Equal(t, model.ReminderOverdue, sink.got[0].Kind)

	list, err := e.reminders.ListByItem(ctx, it.ID)
	require.NoError(t, err)
	require.Len(t, list, 1, "delivered reminder replaced by weekly follow-up")
	assert.Equal(t, model.ReminderFollowUp, list[0].Kind)
	assert.True(t, list[0].FireAt.Equal(time.Date(2024, 1, 16, 10, 0, 0, 0, time.UTC)))

	// вещь вернули — следующая доставка не планирует новых повторов
	_, err = e.items.MarkAsReturned(ctx, it.ID, nil)
	require.NoError(t, err)
	e.now = time.Date(2024, 1, 16, 10, 1, 0, 0, time.UTC)
	n, err = d.RunOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	list, err = e.reminders.ListByItem(ctx, it.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestDispatcher_RunOnce_FailedDeliveryIsRetried(t *testing.T) {
	now := time.Date(2024, 1, 20, 9, 0, 0, 0, time.UTC)
	e := newEnv(t, now, true)
	ctx := context.Background()
	it := e.create(t, "Drill", time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC))
	s, err := e.scheduler.Schedule(ctx, it)
	require.NoError(t, err)

	sink := &recordingSink{failFor: map[string]bool{s.Handle: true}}
	d := NewDispatcher(e.reminders, sink, e.scheduler, nil, e.clock)

	n, err := d.RunOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	due, err := e.reminders.Due(ctx, now)
	require.NoError(t, err)
	assert.Len(t, due, 1, "undelivered reminder stays in store")

	sink.failFor = nil
	n, err = d.RunOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestDispatcher_Run_StopsOnCancel(t *testing.T) {
	e := newEnv(t, time.Date(2024, 1, 20, 9, 0, 0, 0, time.UTC), true)
	d := NewDispatcher(e.reminders, &recordingSink{}, e.scheduler, nil, e.clock)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		d.Run(ctx, 10*time.Millisecond)
		close(done)
	}()
	time.Sleep(30 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("dispatcher did not stop")
	}
}

func TestKafkaSink_Deliver(t *testing.T) {
	cfg := sarama.NewConfig()
	cfg.Producer.Return.Successes = true
	p := mocks.NewSyncProducer(t, cfg)

	rem := model.Reminder{
		ID:     "overdue-1",
		ItemID: "item-1",
		Kind:   model.ReminderOverdue,
		Title:  TitleOverdue,
		Body:   `"Book" borrowed by John is overdue`,
		FireAt: time.Date(2024, 1, 9, 10, 0, 0, 0, time.UTC),
	}

	p.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		var ev reminderEvent
		if err := json.Unmarshal(val, &ev); err != nil {
			return err
		}
		if ev.ItemID != "item-1" || ev.Title != TitleOverdue || ev.Kind != "overdue" {
			return errors.New("unexpected payload")
		}
		return nil
	})
	p.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	sink := NewKafkaSinkWithProducer(p, "lendit.reminders", zap.NewNop().Sugar())
	require.NoError(t, sink.Deliver(context.Background(), rem))

	err := sink.Deliver(context.Background(), rem)
	assert.ErrorIs(t, err, sarama.ErrOutOfBrokers)

	require.NoError(t, sink.Close())
}

func TestNewKafkaSink_NoBrokers(t *testing.T) {
	_, err := NewKafkaSink(nil, "t", nil)
	assert.Error(t, err)
}

func TestLogSink(t *testing.T) {
	s := NewLogSink(nil)
	assert.NoError(t, s.Deliver(context.Background(), model.Reminder{ID: "x"}))
	assert.NoError(t, s.Close())
}
