package schedule

import (
	"time"
)

// WeeklyTemplateSlot is one recurring availability window, tiled into slots of DurationMinutes.
type WeeklyTemplateSlot struct {
	ID              int64        `json:"id" gorm:"primaryKey"`
	DayOfWeek       time.Weekday `json:"day_of_week" gorm:"not null;index"` // 0=Sunday ... 6=Saturday
	StartTime       WallClock    `json:"start_time" gorm:"type:varchar(5);not null"`
	EndTime         WallClock    `json:"end_time" gorm:"type:varchar(5);not null"`
	DurationMinutes int          `json:"duration_minutes" gorm:"not null"`
	IsActive        bool         `json:"is_active" gorm:"not null"`
	CreatedAt       time.Time    `json:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at"`
}

func (WeeklyTemplateSlot) TableName() string {
	return "weekly_template_slots"
}

func (t WeeklyTemplateSlot) Duration() time.Duration {
	return time.Duration(t.DurationMinutes) * time.Minute
}

func (t WeeklyTemplateSlot) Validate() error {
	if t.DayOfWeek < time.Sunday || t.DayOfWeek > time.Saturday {
		return ErrInvalidTemplate
	}
	if !t.StartTime.Valid() || !t.EndTime.Valid() || !t.StartTime.Before(t.EndTime) {
		return ErrInvalidTemplate
	}
	if t.DurationMinutes <= 0 || t.StartTime.Add(t.Duration()).After(t.EndTime) {
		return ErrInvalidTemplate
	}
	return nil
}

// Overlaps reports whether both windows fall on the same weekday and share any minute.
func (t WeeklyTemplateSlot) Overlaps(o WeeklyTemplateSlot) bool {
	if t.DayOfWeek != o.DayOfWeek {
		return false
	}
	return t.StartTime.Before(o.EndTime) && o.StartTime.Before(t.EndTime)
}

// BlockedDate marks a whole calendar day as unavailable.
type BlockedDate struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	Date      string    `json:"date" gorm:"type:varchar(10);not null;uniqueIndex"`
	Reason    string    `json:"reason,omitempty" gorm:"type:text"`
	CreatedAt time.Time `json:"created_at"`
}

func (BlockedDate) TableName() string {
	return "blocked_dates"
}
