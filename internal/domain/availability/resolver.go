package availability

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"agencyhub/internal/domain/schedule"
	"agencyhub/internal/observability/metrics"
)

type TemplateReader interface {
	ListActiveByWeekday(ctx context.Context, day time.Weekday) ([]schedule.WeeklyTemplateSlot, error)
}

type BlockedDateReader interface {
	IsBlocked(ctx context.Context, date string) (bool, error)
}

// TakenSlotReader returns the "HH:MM" slots held by pending or confirmed appointments on date.
type TakenSlotReader interface {
	TakenSlots(ctx context.Context, date string) ([]string, error)
}

// Resolver combines templates, blocked dates and the booking ledger into bookable slots.
type Resolver struct {
	templates  TemplateReader
	blocked    BlockedDateReader
	taken      TakenSlotReader
	loc        *time.Location
	leadBuffer time.Duration
	now        func() time.Time
	log        *zap.Logger
	metrics    *metrics.BookingMetrics
}

type Option func(*Resolver)

// WithClock overrides time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(r *Resolver) { r.now = now }
}

func WithLeadBuffer(d time.Duration) Option {
	return func(r *Resolver) { r.leadBuffer = d }
}

func WithLogger(log *zap.Logger) Option {
	return func(r *Resolver) {
		if log != nil {
			r.log = log
		}
	}
}

func WithMetrics(m *metrics.BookingMetrics) Option {
	return func(r *Resolver) { r.metrics = m }
}

func NewResolver(templates TemplateReader, blocked BlockedDateReader, taken TakenSlotReader, loc *time.Location, opts ...Option) *Resolver {
	if loc == nil {
		loc = time.UTC
	}
	r := &Resolver{
		templates:  templates,
		blocked:    blocked,
		taken:      taken,
		loc:        loc,
		leadBuffer: DefaultLeadBuffer,
		now:        time.Now,
		log:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Resolver) Location() *time.Location { return r.loc }

// Now is the resolver's clock in the business location.
func (r *Resolver) Now() time.Time { return r.now().In(r.loc) }

// Resolve returns the ascending bookable slots for date ("YYYY-MM-DD").
// Store failures are returned to the caller; use AvailableSlots on the public read path.
func (r *Resolver) Resolve(ctx context.Context, date string) ([]schedule.WallClock, error) {
	day, err := schedule.ParseDate(date, r.loc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", schedule.ErrInvalidDate, err)
	}
	key := schedule.FormatDate(day)

	blocked, err := r.blocked.IsBlocked(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("check blocked date: %w", err)
	}
	if blocked {
		return nil, nil
	}

	templates, err := r.templates.ListActiveByWeekday(ctx, day.Weekday())
	if err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}
	if len(templates) == 0 {
		return nil, nil
	}

	generated := GenerateSlots(templates, r.Now(), day, r.leadBuffer)
	if len(generated) == 0 {
		return nil, nil
	}

	taken, err := r.taken.TakenSlots(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("load taken slots: %w", err)
	}
	takenSet := make(map[string]struct{}, len(taken))
	for _, s := range taken {
		takenSet[s] = struct{}{}
	}

	out := generated[:0]
	for _, slot := range generated {
		if _, ok := takenSet[slot.String()]; ok {
			continue
		}
		out = append(out, slot)
	}
	return out, nil
}

// AvailableSlots is the degraded read path: any lookup error is logged and reported as no slots.
func (r *Resolver) AvailableSlots(ctx context.Context, date string) []string {
	start := time.Now()
	slots, err := r.Resolve(ctx, date)
	if err != nil {
		r.log.Error("availability lookup failed", zap.String("date", date), zap.Error(err))
		r.metrics.ObserveAvailability("error", time.Since(start).Seconds())
		return []string{}
	}
	r.metrics.ObserveAvailability("ok", time.Since(start).Seconds())
	return Strings(slots)
}

// IsOffered reports whether slot is currently bookable on date.
func (r *Resolver) IsOffered(ctx context.Context, date string, slot schedule.WallClock) (bool, error) {
	slots, err := r.Resolve(ctx, date)
	if err != nil {
		return false, err
	}
	for _, s := range slots {
		if s == slot {
			return true, nil
		}
	}
	return false, nil
}
