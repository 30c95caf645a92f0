package model

import "time"

// ReminderKind различает первое напоминание и еженедельные повторы.
type ReminderKind string

const (
	ReminderOverdue  ReminderKind = "overdue"
	ReminderFollowUp ReminderKind = "follow_up"
)

// Reminder — запланированное уведомление по записи.
type Reminder struct {
	ID        string
	ItemID    string
	Kind      ReminderKind
	FireAt    time.Time
	Title     string
	Body      string
	CreatedAt time.Time
}
