package schedule

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Service is the staff-facing management surface for templates and blocked dates.
// The availability engine reads the same repositories directly.
type Service struct {
	templates TemplateRepository
	blocked   BlockedDateRepository
	loc       *time.Location
	log       *zap.Logger
}

func NewService(templates TemplateRepository, blocked BlockedDateRepository, loc *time.Location, log *zap.Logger) *Service {
	if loc == nil {
		loc = time.UTC
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		templates: templates,
		blocked:   blocked,
		loc:       loc,
		log:       log,
	}
}

func (s *Service) ListTemplates(ctx context.Context) ([]WeeklyTemplateSlot, error) {
	return s.templates.List(ctx)
}

func (s *Service) CreateTemplate(ctx context.Context, req TemplateRequest) (*WeeklyTemplateSlot, error) {
	t, err := templateFromRequest(req)
	if err != nil {
		return nil, err
	}
	if err := s.checkOverlap(ctx, t); err != nil {
		return nil, err
	}
	if err := s.templates.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("create template: %w", err)
	}

	s.log.Info("weekly template created",
		zap.Int64("template_id", t.ID),
		zap.String("day", t.DayOfWeek.String()),
		zap.Stringer("start", t.StartTime),
		zap.Stringer("end", t.EndTime),
	)
	return t, nil
}

func (s *Service) UpdateTemplate(ctx context.Context, id int64, req TemplateRequest) (*WeeklyTemplateSlot, error) {
	existing, err := s.templates.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	t, err := templateFromRequest(req)
	if err != nil {
		return nil, err
	}
	t.ID = existing.ID
	t.CreatedAt = existing.CreatedAt

	if err := s.checkOverlap(ctx, t); err != nil {
		return nil, err
	}
	if err := s.templates.Update(ctx, t); err != nil {
		return nil, err
	}
	return s.templates.GetByID(ctx, id)
}

func (s *Service) DeleteTemplate(ctx context.Context, id int64) error {
	return s.templates.Delete(ctx, id)
}

// checkOverlap rejects an active template whose window intersects another active one on the same weekday.
func (s *Service) checkOverlap(ctx context.Context, t *WeeklyTemplateSlot) error {
	if !t.IsActive {
		return nil
	}
	siblings, err := s.templates.ListActiveByWeekday(ctx, t.DayOfWeek)
	if err != nil {
		return fmt.Errorf("load templates: %w", err)
	}
	for _, other := range siblings {
		if other.ID == t.ID {
			continue
		}
		if t.Overlaps(other) {
			return ErrTemplateOverlap
		}
	}
	return nil
}

func (s *Service) ListBlockedDates(ctx context.Context, upcomingOnly bool) ([]BlockedDate, error) {
	from := ""
	if upcomingOnly {
		from = FormatDate(time.Now().In(s.loc))
	}
	return s.blocked.List(ctx, from)
}

func (s *Service) BlockDate(ctx context.Context, req BlockDateRequest) (*BlockedDate, error) {
	day, err := ParseDate(req.Date, s.loc)
	if err != nil {
		return nil, ErrInvalidDate
	}

	b := &BlockedDate{Date: FormatDate(day), Reason: req.Reason}
	if err := s.blocked.Create(ctx, b); err != nil {
		return nil, err
	}

	s.log.Info("date blocked", zap.String("date", b.Date), zap.String("reason", b.Reason))
	return b, nil
}

func (s *Service) UnblockDate(ctx context.Context, id int64) error {
	return s.blocked.Delete(ctx, id)
}

func templateFromRequest(req TemplateRequest) (*WeeklyTemplateSlot, error) {
	if req.DayOfWeek == nil {
		return nil, ErrInvalidTemplate
	}
	start, err := ParseWallClock(req.StartTime)
	if err != nil {
		return nil, ErrInvalidTemplate
	}
	end, err := ParseWallClock(req.EndTime)
	if err != nil {
		return nil, ErrInvalidTemplate
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	t := &WeeklyTemplateSlot{
		DayOfWeek:       time.Weekday(*req.DayOfWeek),
		StartTime:       start,
		EndTime:         end,
		DurationMinutes: req.DurationMinutes,
		IsActive:        active,
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}
