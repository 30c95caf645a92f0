// Package reminder вычисляет моменты напоминаний о просроченных записях,
// планирует их через Notifier и доставляет через Sink.
package reminder

import "time"

const (
	// DefaultHour — локальный час, к которому привязываются напоминания.
	DefaultHour = 10
	// DefaultFollowUp — шаг повторных напоминаний.
	DefaultFollowUp = 7 * 24 * time.Hour
)

// Policy — правило расчёта времени напоминаний. Все методы чистые.
type Policy struct {
	Hour     int
	FollowUp time.Duration
	Location *time.Location
}

// DefaultPolicy: первое напоминание на следующий день после срока в 10:00, затем раз в неделю.
func DefaultPolicy() Policy {
	return Policy{Hour: DefaultHour, FollowUp: DefaultFollowUp, Location: time.Local}
}

func (p Policy) loc() *time.Location {
	if p.Location == nil {
		return time.Local
	}
	return p.Location
}

func (p Policy) pin(t time.Time, addDays int) time.Time {
	l := t.In(p.loc())
	return time.Date(l.Year(), l.Month(), l.Day()+addDays, p.Hour, 0, 0, 0, p.loc())
}

// FirstAt — день после срока возврата, время p.Hour:00 по локальному времени.
func (p Policy) FirstAt(due time.Time) time.Time {
	return p.pin(due, 1)
}

// FireAt возвращает момент первого напоминания; если он уже прошёл — сам now.
func (p Policy) FireAt(due, now time.Time) time.Time {
	at := p.FirstAt(due)
	if !at.After(now) {
		return now
	}
	return at
}

// Delay — задержка до первого напоминания, никогда не отрицательная.
func (p Policy) Delay(due, now time.Time) time.Duration {
	return p.FireAt(due, now).Sub(now)
}

// Immediate сообщает, что напоминание должно сработать сразу.
func (p Policy) Immediate(due, now time.Time) bool {
	return p.Delay(due, now) == 0
}

// FollowUpAt — следующее повторное напоминание после срабатывания в firedAt.
func (p Policy) FollowUpAt(firedAt time.Time) time.Time {
	step := p.FollowUp
	if step <= 0 {
		step = DefaultFollowUp
	}
	days := int(step / (24 * time.Hour))
	if days < 1 {
		return firedAt.Add(step)
	}
	return p.pin(firedAt, days)
}
