package appointment

import (
	"database/sql/driver"
	"fmt"
	"time"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

// ActiveStatuses occupy their (date, time_slot).
var ActiveStatuses = []Status{StatusPending, StatusConfirmed}

var transitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCompleted, StatusCancelled},
}

func (s Status) Value() (driver.Value, error) {
	return string(s), nil
}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

func (s Status) Terminal() bool {
	return s == StatusCancelled || s == StatusCompleted
}

func (s Status) Active() bool {
	return s == StatusPending || s == StatusConfirmed
}

// CanTransition reports whether from -> to is in the lifecycle table.
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// CheckTransition returns a *TransitionError for any move outside the lifecycle table.
func CheckTransition(from, to Status) error {
	if !CanTransition(from, to) {
		return &TransitionError{From: from, To: to}
	}
	return nil
}

type TransitionError struct {
	From Status
	To   Status
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("invalid status transition %s -> %s", e.From, e.To)
}

func (e *TransitionError) Is(target error) bool {
	return target == ErrInvalidStatusTransition
}

// Appointment is one booking in the ledger, bound to a single date and slot.
type Appointment struct {
	ID                int64      `json:"id" gorm:"primaryKey"`
	Name              string     `json:"name" gorm:"type:varchar(255);not null"`
	Email             string     `json:"email" gorm:"type:varchar(255);not null;index"`
	Phone             string     `json:"phone,omitempty" gorm:"type:varchar(50)"`
	Company           string     `json:"company,omitempty" gorm:"type:varchar(255)"`
	Service           string     `json:"service" gorm:"type:varchar(255);not null"`
	Date              string     `json:"date" gorm:"type:varchar(10);not null;index:idx_appointments_date_status"`
	TimeSlot          string     `json:"time_slot" gorm:"type:varchar(5);not null"`
	Message           string     `json:"message,omitempty" gorm:"type:text"`
	Status            Status     `json:"status" gorm:"type:varchar(20);not null;index:idx_appointments_date_status"`
	CancellationToken string     `json:"-" gorm:"type:varchar(64);not null;uniqueIndex"`
	ReminderSentAt    *time.Time `json:"reminder_sent_at,omitempty"`
	CancelledAt       *time.Time `json:"cancelled_at,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

func (Appointment) TableName() string {
	return "appointments"
}

// Starts returns the appointment start in loc.
func (a Appointment) Starts(loc *time.Location) (time.Time, error) {
	return time.ParseInLocation("2006-01-02 15:04", a.Date+" "+a.TimeSlot, loc)
}

// ActiveSlotIndex enforces at most one pending or confirmed appointment per slot.
// Partial indexes are supported by both PostgreSQL and SQLite.
const ActiveSlotIndex = `CREATE UNIQUE INDEX IF NOT EXISTS idx_appointments_active_slot
ON appointments (date, time_slot)
WHERE status IN ('pending', 'confirmed')`

// Models and Statements are consumed by database.Migrate.
func Models() []any {
	return []any{&Appointment{}}
}

func Statements() []string {
	return []string{ActiveSlotIndex}
}

// CancellationSummary is returned to the requester after self-service cancellation.
type CancellationSummary struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Service  string `json:"service"`
	Date     string `json:"date"`
	TimeSlot string `json:"time_slot"`
	Status   Status `json:"status"`
	Message  string `json:"message"`
}
