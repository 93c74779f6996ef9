package notify

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"agencyhub/internal/domain/appointment"
)

// AppointmentNotifier renders appointment lifecycle emails.
type AppointmentNotifier struct {
	sender       EmailSender
	baseURL      string
	staffEmail   string
	businessName string
}

type AppointmentNotifierConfig struct {
	PublicBaseURL string
	StaffEmail    string
	BusinessName  string
}

var _ appointment.Notifier = (*AppointmentNotifier)(nil)

func NewAppointmentNotifier(sender EmailSender, cfg AppointmentNotifierConfig) *AppointmentNotifier {
	name := cfg.BusinessName
	if name == "" {
		name = "our team"
	}
	return &AppointmentNotifier{
		sender:       sender,
		baseURL:      strings.TrimRight(cfg.PublicBaseURL, "/"),
		staffEmail:   cfg.StaffEmail,
		businessName: name,
	}
}

// CancelURL is the self-service cancellation link embedded in requester emails.
func (n *AppointmentNotifier) CancelURL(token string) string {
	return n.baseURL + "/api/v1/appointments/cancel?token=" + url.QueryEscape(token)
}

func (n *AppointmentNotifier) BookingReceived(ctx context.Context, a appointment.Appointment) error {
	body := fmt.Sprintf(
		"Hi %s,\n\nWe received your request for %s on %s at %s. We will confirm it shortly.\n\nNeed to cancel? %s\n\n%s",
		a.Name, a.Service, a.Date, a.TimeSlot, n.CancelURL(a.CancellationToken), n.businessName,
	)
	return n.send(ctx, a, "We received your appointment request", body)
}

// StaffNewBooking is skipped when no staff address is configured.
func (n *AppointmentNotifier) StaffNewBooking(ctx context.Context, a appointment.Appointment) error {
	if n.staffEmail == "" {
		return nil
	}
	var b strings.Builder
	fmt.Fprintf(&b, "New appointment request #%d\n\n", a.ID)
	fmt.Fprintf(&b, "When: %s %s\nService: %s\nName: %s\nEmail: %s\n", a.Date, a.TimeSlot, a.Service, a.Name, a.Email)
	if a.Phone != "" {
		fmt.Fprintf(&b, "Phone: %s\n", a.Phone)
	}
	if a.Company != "" {
		fmt.Fprintf(&b, "Company: %s\n", a.Company)
	}
	if a.Message != "" {
		fmt.Fprintf(&b, "\n%s\n", a.Message)
	}
	return n.sender.Send(ctx, EmailMessage{
		To:      n.staffEmail,
		Subject: fmt.Sprintf("New booking: %s on %s at %s", a.Service, a.Date, a.TimeSlot),
		Body:    b.String(),
	})
}

func (n *AppointmentNotifier) BookingConfirmed(ctx context.Context, a appointment.Appointment) error {
	body := fmt.Sprintf(
		"Hi %s,\n\nYour %s appointment on %s at %s is confirmed.\n\nCan't make it? %s\n\n%s",
		a.Name, a.Service, a.Date, a.TimeSlot, n.CancelURL(a.CancellationToken), n.businessName,
	)
	return n.send(ctx, a, "Your appointment is confirmed", body)
}

func (n *AppointmentNotifier) BookingCancelled(ctx context.Context, a appointment.Appointment) error {
	body := fmt.Sprintf(
		"Hi %s,\n\nYour %s appointment on %s at %s has been cancelled.\n\n%s",
		a.Name, a.Service, a.Date, a.TimeSlot, n.businessName,
	)
	return n.send(ctx, a, "Your appointment was cancelled", body)
}

func (n *AppointmentNotifier) Reminder(ctx context.Context, a appointment.Appointment) error {
	body := fmt.Sprintf(
		"Hi %s,\n\nA reminder that your %s appointment is on %s at %s.\n\nCan't make it? %s\n\n%s",
		a.Name, a.Service, a.Date, a.TimeSlot, n.CancelURL(a.CancellationToken), n.businessName,
	)
	return n.send(ctx, a, "Reminder: upcoming appointment", body)
}

func (n *AppointmentNotifier) send(ctx context.Context, a appointment.Appointment, subject, body string) error {
	return n.sender.Send(ctx, EmailMessage{
		To:      a.Email,
		ToName:  a.Name,
		Subject: subject,
		Body:    body,
	})
}
