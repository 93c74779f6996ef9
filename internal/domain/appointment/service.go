package appointment

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"agencyhub/internal/domain/schedule"
	"agencyhub/internal/observability/metrics"
	"agencyhub/internal/pkg/validator"
)

// Availability is the read side the admission controller re-checks before writing.
type Availability interface {
	IsOffered(ctx context.Context, date string, slot schedule.WallClock) (bool, error)
	Now() time.Time
}

// Notifier delivers requester and staff messages. Failures never undo the triggering operation.
type Notifier interface {
	BookingReceived(ctx context.Context, a Appointment) error
	StaffNewBooking(ctx context.Context, a Appointment) error
	BookingConfirmed(ctx context.Context, a Appointment) error
	BookingCancelled(ctx context.Context, a Appointment) error
	Reminder(ctx context.Context, a Appointment) error
}

// SlotEvents is told when a slot becomes held or free.
type SlotEvents interface {
	SlotTaken(date, slot string)
	SlotReleased(date, slot string)
}

type Service struct {
	repo           Repository
	availability   Availability
	notifier       Notifier
	events         SlotEvents
	reminderWindow time.Duration
	log            *zap.Logger
	metrics        *metrics.BookingMetrics
}

type Config struct {
	ReminderWindow time.Duration
	Logger         *zap.Logger
	Metrics        *metrics.BookingMetrics
	Events         SlotEvents
}

func NewService(repo Repository, availability Availability, notifier Notifier, cfg Config) *Service {
	s := &Service{
		repo:           repo,
		availability:   availability,
		notifier:       notifier,
		events:         cfg.Events,
		reminderWindow: cfg.ReminderWindow,
		log:            cfg.Logger,
		metrics:        cfg.Metrics,
	}
	if s.reminderWindow <= 0 {
		s.reminderWindow = 24 * time.Hour
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	if s.notifier == nil {
		s.notifier = noopNotifier{}
	}
	return s
}

// CreateAppointment admits a booking in pending status.
// The slot must be currently offered and free at commit time.
func (s *Service) CreateAppointment(ctx context.Context, req CreateRequest) (*Appointment, error) {
	date, slot, err := normalizeRequest(&req)
	if err != nil {
		s.metrics.ObserveBooking("invalid")
		return nil, err
	}

	offered, err := s.availability.IsOffered(ctx, date, slot)
	if err != nil {
		s.metrics.ObserveBooking("error")
		return nil, fmt.Errorf("check availability: %w", err)
	}
	if !offered {
		s.metrics.ObserveBooking("conflict")
		return nil, ErrSlotNoLongerAvailable
	}

	token, err := newCancellationToken()
	if err != nil {
		s.metrics.ObserveBooking("error")
		return nil, err
	}

	a := &Appointment{
		Name:              req.Name,
		Email:             req.Email,
		Phone:             req.Phone,
		Company:           req.Company,
		Service:           req.Service,
		Date:              date,
		TimeSlot:          slot.String(),
		Message:           req.Message,
		Status:            StatusPending,
		CancellationToken: token,
	}
	if err := s.repo.CreateIfSlotFree(ctx, a); err != nil {
		if errors.Is(err, ErrSlotNoLongerAvailable) {
			s.metrics.ObserveBooking("conflict")
			return nil, err
		}
		s.metrics.ObserveBooking("error")
		return nil, fmt.Errorf("create appointment: %w", err)
	}
	s.metrics.ObserveBooking("created")

	s.log.Info("appointment created",
		zap.Int64("appointment_id", a.ID),
		zap.String("date", a.Date),
		zap.String("time_slot", a.TimeSlot),
	)

	s.slotTaken(*a)
	s.notify(ctx, "received", *a, s.notifier.BookingReceived)
	s.notify(ctx, "staff_new_booking", *a, s.notifier.StaffNewBooking)
	return a, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Appointment, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, f ListFilter) ([]Appointment, int64, error) {
	if f.Status != "" && !f.Status.Valid() {
		return nil, 0, &ValidationError{Fields: map[string]string{"status": "oneof"}}
	}
	return s.repo.List(ctx, f)
}

// UpdateStatus moves an appointment along the lifecycle table.
// A concurrent change between read and write yields ErrStatusChanged.
func (s *Service) UpdateStatus(ctx context.Context, id int64, to Status) (*Appointment, error) {
	if !to.Valid() {
		return nil, &ValidationError{Fields: map[string]string{"status": "oneof"}}
	}

	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := CheckTransition(a.Status, to); err != nil {
		return nil, err
	}

	updated, err := s.transition(ctx, a, to)
	if err != nil {
		return nil, err
	}

	switch to {
	case StatusConfirmed:
		s.notify(ctx, "confirmed", *updated, s.notifier.BookingConfirmed)
	case StatusCancelled:
		s.notify(ctx, "cancelled", *updated, s.notifier.BookingCancelled)
	}
	return updated, nil
}

// CancelByToken is the requester's self-service cancellation.
// Only the caller whose write wins sends the cancellation notice.
func (s *Service) CancelByToken(ctx context.Context, token string) (*CancellationSummary, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrNotFound
	}

	a, err := s.repo.GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if a.Status == StatusCancelled {
		return nil, ErrAlreadyCancelled
	}
	if err := CheckTransition(a.Status, StatusCancelled); err != nil {
		return nil, err
	}

	updated, err := s.transition(ctx, a, StatusCancelled)
	if errors.Is(err, ErrStatusChanged) {
		current, gerr := s.repo.GetByID(ctx, a.ID)
		if gerr == nil && current.Status == StatusCancelled {
			return nil, ErrAlreadyCancelled
		}
		return nil, err
	}
	if err != nil {
		return nil, err
	}

	s.notify(ctx, "cancelled", *updated, s.notifier.BookingCancelled)

	return &CancellationSummary{
		ID:       updated.ID,
		Name:     updated.Name,
		Service:  updated.Service,
		Date:     updated.Date,
		TimeSlot: updated.TimeSlot,
		Status:   updated.Status,
		Message:  fmt.Sprintf("Your %s appointment on %s at %s has been cancelled.", updated.Service, updated.Date, updated.TimeSlot),
	}, nil
}

// SendReminders notifies confirmed appointments starting within the reminder window.
// Each appointment is attempted independently; reminder_sent_at is set only on success.
func (s *Service) SendReminders(ctx context.Context) (*ReminderReport, error) {
	now := s.availability.Now()
	until := now.Add(s.reminderWindow)

	candidates, err := s.repo.ListReminderCandidates(ctx, schedule.FormatDate(now), schedule.FormatDate(until))
	if err != nil {
		return nil, fmt.Errorf("load reminder candidates: %w", err)
	}

	report := &ReminderReport{Results: []Outcome{}}
	for _, a := range candidates {
		starts, err := a.Starts(now.Location())
		if err != nil || !starts.After(now) || starts.After(until) {
			continue
		}

		out := Outcome{AppointmentID: a.ID, Email: a.Email, Status: OutcomeSent}
		sendErr := s.notifier.Reminder(ctx, a)
		s.metrics.ObserveNotification("reminder", sendErr)
		s.metrics.ObserveReminder(sendErr)
		if sendErr != nil {
			out.Status = OutcomeFailed
			out.Error = sendErr.Error()
			report.Failed++
			s.log.Warn("reminder failed", zap.Int64("appointment_id", a.ID), zap.Error(sendErr))
		} else {
			report.Sent++
			if err := s.repo.MarkReminded(ctx, a.ID, time.Now()); err != nil {
				s.log.Error("mark reminded failed", zap.Int64("appointment_id", a.ID), zap.Error(err))
			}
		}
		report.Results = append(report.Results, out)
	}

	s.log.Info("reminder sweep finished", zap.Int("sent", report.Sent), zap.Int("failed", report.Failed))
	return report, nil
}

// ExpirePending cancels pending appointments whose start time has passed without confirmation.
func (s *Service) ExpirePending(ctx context.Context) (*ExpiryReport, error) {
	now := s.availability.Now()

	pending, err := s.repo.ListPendingUntil(ctx, schedule.FormatDate(now))
	if err != nil {
		return nil, fmt.Errorf("load pending appointments: %w", err)
	}

	report := &ExpiryReport{Results: []Outcome{}}
	for i := range pending {
		a := &pending[i]
		starts, err := a.Starts(now.Location())
		if err != nil || starts.After(now) {
			continue
		}

		out := Outcome{AppointmentID: a.ID, Email: a.Email, Status: OutcomeCancelled}
		updated, err := s.transition(ctx, a, StatusCancelled)
		switch {
		case errors.Is(err, ErrStatusChanged):
			out.Status = OutcomeSkipped
		case err != nil:
			out.Status = OutcomeFailed
			out.Error = err.Error()
			report.Failed++
		default:
			report.Cancelled++
			s.notify(ctx, "cancelled", *updated, s.notifier.BookingCancelled)
		}
		report.Results = append(report.Results, out)
	}

	s.log.Info("pending expiry sweep finished", zap.Int("cancelled", report.Cancelled), zap.Int("failed", report.Failed))
	return report, nil
}

// transition performs the conditional write and returns the fresh row.
func (s *Service) transition(ctx context.Context, a *Appointment, to Status) (*Appointment, error) {
	from := a.Status
	ok, err := s.repo.UpdateStatus(ctx, a.ID, from, to, time.Now())
	if err != nil {
		return nil, fmt.Errorf("update status: %w", err)
	}
	if !ok {
		return nil, ErrStatusChanged
	}
	s.metrics.ObserveTransition(string(from), string(to))
	s.log.Info("appointment status changed",
		zap.Int64("appointment_id", a.ID),
		zap.String("from", string(from)),
		zap.String("to", string(to)),
	)

	updated, err := s.repo.GetByID(ctx, a.ID)
	if err != nil {
		return nil, err
	}
	if from.Active() && !to.Active() {
		s.slotReleased(*updated)
	}
	return updated, nil
}

func (s *Service) notify(ctx context.Context, kind string, a Appointment, send func(context.Context, Appointment) error) {
	err := send(ctx, a)
	s.metrics.ObserveNotification(kind, err)
	if err != nil {
		s.log.Warn("notification failed",
			zap.String("kind", kind),
			zap.Int64("appointment_id", a.ID),
			zap.Error(err),
		)
	}
}

func (s *Service) slotTaken(a Appointment) {
	if s.events != nil {
		s.events.SlotTaken(a.Date, a.TimeSlot)
	}
}

func (s *Service) slotReleased(a Appointment) {
	if s.events != nil {
		s.events.SlotReleased(a.Date, a.TimeSlot)
	}
}

func normalizeRequest(req *CreateRequest) (string, schedule.WallClock, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Phone = strings.TrimSpace(req.Phone)
	req.Company = strings.TrimSpace(req.Company)
	req.Service = strings.TrimSpace(req.Service)
	req.Date = strings.TrimSpace(req.Date)
	req.TimeSlot = strings.TrimSpace(req.TimeSlot)

	fields := validator.Validate(req)
	if fields == nil {
		fields = map[string]string{}
	}

	var (
		date string
		slot schedule.WallClock
	)
	if _, bad := fields["date"]; !bad {
		d, err := schedule.ParseDate(req.Date, time.UTC)
		if err != nil {
			fields["date"] = "format"
		} else {
			date = schedule.FormatDate(d)
		}
	}
	if _, bad := fields["time_slot"]; !bad {
		w, err := schedule.ParseWallClock(req.TimeSlot)
		if err != nil {
			fields["time_slot"] = "format"
		} else {
			slot = w
		}
	}

	if len(fields) > 0 {
		return "", 0, &ValidationError{Fields: fields}
	}
	return date, slot, nil
}

func newCancellationToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate cancellation token: %w", err)
	}
	return hex.EncodeToString(b), nil
}

type noopNotifier struct{}

func (noopNotifier) BookingReceived(context.Context, Appointment) error  { return nil }
func (noopNotifier) StaffNewBooking(context.Context, Appointment) error  { return nil }
func (noopNotifier) BookingConfirmed(context.Context, Appointment) error { return nil }
func (noopNotifier) BookingCancelled(context.Context, Appointment) error { return nil }
func (noopNotifier) Reminder(context.Context, Appointment) error         { return nil }
