package schedule

import (
	"context"
	"errors"
	"time"

	"agencyhub/internal/database"

	"gorm.io/gorm"
)

type TemplateRepository interface {
	List(ctx context.Context) ([]WeeklyTemplateSlot, error)
	ListActiveByWeekday(ctx context.Context, day time.Weekday) ([]WeeklyTemplateSlot, error)
	GetByID(ctx context.Context, id int64) (*WeeklyTemplateSlot, error)
	Create(ctx context.Context, t *WeeklyTemplateSlot) error
	Update(ctx context.Context, t *WeeklyTemplateSlot) error
	Delete(ctx context.Context, id int64) error
}

type BlockedDateRepository interface {
	List(ctx context.Context, fromDate string) ([]BlockedDate, error)
	IsBlocked(ctx context.Context, date string) (bool, error)
	Create(ctx context.Context, b *BlockedDate) error
	Delete(ctx context.Context, id int64) error
}

type templateRepository struct {
	db *gorm.DB
}

func NewTemplateRepository(db *gorm.DB) TemplateRepository {
	return &templateRepository{db: db}
}

func (r *templateRepository) List(ctx context.Context) ([]WeeklyTemplateSlot, error) {
	var out []WeeklyTemplateSlot
	err := r.db.WithContext(ctx).
		Order("day_of_week").
		Order("start_time").
		Find(&out).Error
	return out, err
}

func (r *templateRepository) ListActiveByWeekday(ctx context.Context, day time.Weekday) ([]WeeklyTemplateSlot, error) {
	var out []WeeklyTemplateSlot
	err := r.db.WithContext(ctx).
		Where("day_of_week = ? AND is_active = ?", int(day), true).
		Order("start_time").
		Find(&out).Error
	return out, err
}

func (r *templateRepository) GetByID(ctx context.Context, id int64) (*WeeklyTemplateSlot, error) {
	var t WeeklyTemplateSlot
	err := r.db.WithContext(ctx).First(&t, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTemplateNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *templateRepository) Create(ctx context.Context, t *WeeklyTemplateSlot) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *templateRepository) Update(ctx context.Context, t *WeeklyTemplateSlot) error {
	res := r.db.WithContext(ctx).
		Model(&WeeklyTemplateSlot{}).
		Where("id = ?", t.ID).
		Updates(map[string]any{
			"day_of_week":      int(t.DayOfWeek),
			"start_time":       t.StartTime,
			"end_time":         t.EndTime,
			"duration_minutes": t.DurationMinutes,
			"is_active":        t.IsActive,
			"updated_at":       time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrTemplateNotFound
	}
	return nil
}

func (r *templateRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&WeeklyTemplateSlot{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrTemplateNotFound
	}
	return nil
}

type blockedDateRepository struct {
	db *gorm.DB
}

func NewBlockedDateRepository(db *gorm.DB) BlockedDateRepository {
	return &blockedDateRepository{db: db}
}

func (r *blockedDateRepository) List(ctx context.Context, fromDate string) ([]BlockedDate, error) {
	q := r.db.WithContext(ctx).Order("date")
	if fromDate != "" {
		q = q.Where("date >= ?", fromDate)
	}
	var out []BlockedDate
	err := q.Find(&out).Error
	return out, err
}

func (r *blockedDateRepository) IsBlocked(ctx context.Context, date string) (bool, error) {
	var cnt int64
	err := r.db.WithContext(ctx).
		Model(&BlockedDate{}).
		Where("date = ?", date).
		Count(&cnt).Error
	if err != nil {
		return false, err
	}
	return cnt > 0, nil
}

func (r *blockedDateRepository) Create(ctx context.Context, b *BlockedDate) error {
	err := r.db.WithContext(ctx).Create(b).Error
	if database.IsUniqueViolation(err) {
		return ErrDateAlreadyBlocked
	}
	return err
}

func (r *blockedDateRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&BlockedDate{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrBlockedDateNotFound
	}
	return nil
}
