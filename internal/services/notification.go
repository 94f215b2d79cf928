package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"farmtrack/internal/domain"
)

type notificationService struct {
	notificationRepo domain.NotificationRepository
	userRepo         domain.UserRepository
	deviceRepo       domain.DeviceRepository
	broadcaster      domain.NotificationBroadcaster
	pushSender       domain.PushSender
	emailService     domain.EmailService
	logger           *slog.Logger
}

// NewNotificationService creates a NotificationService. broadcaster, pushSender
// and emailService may be nil; the corresponding channel is then skipped.
func NewNotificationService(
	notificationRepo domain.NotificationRepository,
	userRepo domain.UserRepository,
	deviceRepo domain.DeviceRepository,
	broadcaster domain.NotificationBroadcaster,
	pushSender domain.PushSender,
	emailService domain.EmailService,
	logger *slog.Logger,
) domain.NotificationService {
	return &notificationService{
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
		deviceRepo:       deviceRepo,
		broadcaster:      broadcaster,
		pushSender:       pushSender,
		emailService:     emailService,
		logger:           logger,
	}
}

// Notify stores the notification, then fans it out. The database write is the
// only fatal step; delivery failures on the live channels are logged and
// swallowed so one broken channel cannot hide the alert from the others.
func (s *notificationService) Notify(ctx context.Context, n *domain.Notification) error {
	user, err := s.userRepo.GetByID(ctx, n.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrUserNotFound
		}
		return fmt.Errorf("failed to get user: %w", err)
	}

	if err := s.notificationRepo.Create(ctx, n); err != nil {
		return fmt.Errorf("failed to store notification: %w", err)
	}

	if s.broadcaster != nil {
		s.broadcaster.Push(n.UserID, n)
	}

	if !user.NotificationsEnabled {
		return nil
	}

	if s.pushSender != nil {
		devices, err := s.deviceRepo.ListByUserID(ctx, n.UserID)
		if err != nil {
			s.logger.Error("failed to list devices for push", "user_id", n.UserID, "err", err)
		} else if len(devices) > 0 {
			tokens := make([]string, 0, len(devices))
			for _, d := range devices {
				tokens = append(tokens, d.DeviceToken)
			}
			if err := s.pushSender.SendPush(ctx, tokens, n.Title, n.Body); err != nil {
				s.logger.Error("failed to send push notification", "user_id", n.UserID, "err", err)
			}
		}
	}

	if s.emailService != nil && (n.Severity == domain.SeverityHigh || n.Severity == domain.SeverityCritical) {
		data := &domain.AlertEmailData{
			Email:    user.Email,
			Username: user.Username,
			Title:    n.Title,
			Body:     n.Body,
			Severity: n.Severity,
		}
		if err := s.emailService.SendAlert(ctx, user.Language, data); err != nil {
			s.logger.Error("failed to send alert email", "user_id", n.UserID, "err", err)
		}
	}
	return nil
}

func (s *notificationService) ListActive(ctx context.Context, userID string, params domain.PaginationParams) ([]*domain.Notification, int, error) {
	notifications, total, err := s.notificationRepo.ListActiveByUserID(ctx, userID, params)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list notifications: %w", err)
	}
	return notifications, total, nil
}

func (s *notificationService) MarkRead(ctx context.Context, userID, notificationID string) error {
	n, err := s.notificationRepo.GetByID(ctx, notificationID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("failed to get notification: %w", err)
	}
	if n.UserID != userID {
		return domain.ErrForbidden
	}
	if n.Read {
		return nil
	}
	if err := s.notificationRepo.MarkRead(ctx, notificationID); err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	return nil
}
