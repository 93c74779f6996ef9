package message

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"agencyhub/internal/notify"
)

// Service stores contact-form messages and alerts staff about new ones.
type Service struct {
	repo       Repository
	sender     notify.EmailSender
	staffEmail string
	log        *zap.Logger
}

// NewService accepts a nil sender; staff alerts are then skipped.
func NewService(repo Repository, sender notify.EmailSender, staffEmail string, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{repo: repo, sender: sender, staffEmail: staffEmail, log: log}
}

// Submit is the public contact form. ip and userAgent are kept for abuse triage.
func (s *Service) Submit(ctx context.Context, req SubmitRequest, ip, userAgent string) (*Message, error) {
	m := &Message{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(req.Name),
		Email:     strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:     strings.TrimSpace(req.Phone),
		Company:   strings.TrimSpace(req.Company),
		Subject:   strings.TrimSpace(req.Subject),
		Body:      strings.TrimSpace(req.Body),
		Status:    StatusNew,
		IPAddress: ip,
		UserAgent: userAgent,
	}
	if err := s.repo.Create(ctx, m); err != nil {
		return nil, fmt.Errorf("create message: %w", err)
	}

	s.log.Info("contact message received", zap.String("message_id", m.ID))
	s.alertStaff(ctx, m)
	return m, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Message, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, status Status, limit, offset int) ([]Message, int64, error) {
	if status != "" && !status.Valid() {
		return nil, 0, ErrInvalidStatus
	}
	return s.repo.List(ctx, status, limit, offset)
}

func (s *Service) UpdateStatus(ctx context.Context, id string, status Status) (*Message, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}
	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) alertStaff(ctx context.Context, m *Message) {
	if s.sender == nil || s.staffEmail == "" {
		return
	}
	subject := m.Subject
	if subject == "" {
		subject = "New contact message"
	}
	body := fmt.Sprintf("From: %s <%s>\nPhone: %s\nCompany: %s\n\n%s", m.Name, m.Email, m.Phone, m.Company, m.Body)
	if err := s.sender.Send(ctx, notify.EmailMessage{To: s.staffEmail, Subject: subject, Body: body}); err != nil {
		s.log.Warn("staff alert for contact message failed", zap.String("message_id", m.ID), zap.Error(err))
	}
}
