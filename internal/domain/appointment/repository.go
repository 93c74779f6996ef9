package appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"agencyhub/internal/database"
)

// ListFilter narrows staff listings. Zero values mean "any".
type ListFilter struct {
	Status Status
	Date   string
	From   string
	To     string
	Limit  int
	Offset int
}

type Repository interface {
	// CreateIfSlotFree re-checks the slot and inserts in one transaction.
	// It returns ErrSlotNoLongerAvailable when an active appointment holds the slot.
	CreateIfSlotFree(ctx context.Context, a *Appointment) error
	GetByID(ctx context.Context, id int64) (*Appointment, error)
	GetByToken(ctx context.Context, token string) (*Appointment, error)
	List(ctx context.Context, f ListFilter) ([]Appointment, int64, error)
	TakenSlots(ctx context.Context, date string) ([]string, error)
	// UpdateStatus applies from -> to only if the row is still in from; false means it was not.
	UpdateStatus(ctx context.Context, id int64, from, to Status, at time.Time) (bool, error)
	ListReminderCandidates(ctx context.Context, fromDate, toDate string) ([]Appointment, error)
	MarkReminded(ctx context.Context, id int64, at time.Time) error
	ListPendingUntil(ctx context.Context, date string) ([]Appointment, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateIfSlotFree(ctx context.Context, a *Appointment) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cnt int64
		if err := tx.Model(&Appointment{}).
			Where("date = ? AND time_slot = ? AND status IN ?", a.Date, a.TimeSlot, ActiveStatuses).
			Count(&cnt).Error; err != nil {
			return fmt.Errorf("check slot: %w", err)
		}
		if cnt > 0 {
			return ErrSlotNoLongerAvailable
		}
		return tx.Create(a).Error
	})
	if database.IsUniqueViolation(err) {
		return ErrSlotNoLongerAvailable
	}
	return err
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Appointment, error) {
	var a Appointment
	err := r.db.WithContext(ctx).First(&a, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *repository) GetByToken(ctx context.Context, token string) (*Appointment, error) {
	var a Appointment
	err := r.db.WithContext(ctx).Where("cancellation_token = ?", token).First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *repository) List(ctx context.Context, f ListFilter) ([]Appointment, int64, error) {
	q := r.db.WithContext(ctx).Model(&Appointment{})
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Date != "" {
		q = q.Where("date = ?", f.Date)
	}
	if f.From != "" {
		q = q.Where("date >= ?", f.From)
	}
	if f.To != "" {
		q = q.Where("date <= ?", f.To)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit := f.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	var out []Appointment
	err := q.Order("date ASC").Order("time_slot ASC").Order("id ASC").
		Limit(limit).Offset(f.Offset).
		Find(&out).Error
	return out, total, err
}

func (r *repository) TakenSlots(ctx context.Context, date string) ([]string, error) {
	var slots []string
	err := r.db.WithContext(ctx).
		Model(&Appointment{}).
		Where("date = ? AND status IN ?", date, ActiveStatuses).
		Pluck("time_slot", &slots).Error
	return slots, err
}

func (r *repository) UpdateStatus(ctx context.Context, id int64, from, to Status, at time.Time) (bool, error) {
	updates := map[string]any{
		"status":     to,
		"updated_at": at,
	}
	if to == StatusCancelled {
		updates["cancelled_at"] = at
	}
	res := r.db.WithContext(ctx).
		Model(&Appointment{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *repository) ListReminderCandidates(ctx context.Context, fromDate, toDate string) ([]Appointment, error) {
	var out []Appointment
	err := r.db.WithContext(ctx).
		Where("status = ? AND reminder_sent_at IS NULL AND date >= ? AND date <= ?", StatusConfirmed, fromDate, toDate).
		Order("date ASC").Order("time_slot ASC").
		Find(&out).Error
	return out, err
}

func (r *repository) MarkReminded(ctx context.Context, id int64, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&Appointment{}).
		Where("id = ? AND reminder_sent_at IS NULL", id).
		Updates(map[string]any{"reminder_sent_at": at, "updated_at": at}).Error
}

func (r *repository) ListPendingUntil(ctx context.Context, date string) ([]Appointment, error) {
	var out []Appointment
	err := r.db.WithContext(ctx).
		Where("status = ? AND date <= ?", StatusPending, date).
		Order("date ASC").Order("time_slot ASC").
		Find(&out).Error
	return out, err
}
