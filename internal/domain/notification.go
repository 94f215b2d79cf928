package domain

import (
	"context"
	"time"
)

// Alert severities, ordered from least to most urgent.
const (
	SeverityLow      = "low"
	SeverityMedium   = "medium"
	SeverityHigh     = "high"
	SeverityCritical = "critical"
)

// Notification is a message addressed to one user: an analysis alert, a
// reminder, or an administrative notice. Unread notifications are "active".
// swagger:model Notification
type Notification struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Severity  string    `json:"severity"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

// NewNotification returns a new unread Notification. ID is set by the
// repository on create.
func NewNotification(userID, title, body, severity string, createdAt time.Time) *Notification {
	return &Notification{
		UserID:    userID,
		Title:     title,
		Body:      body,
		Severity:  severity,
		CreatedAt: createdAt,
	}
}

// NotificationRepository defines the interface for notification storage.
type NotificationRepository interface {
	Create(ctx context.Context, n *Notification) error
	GetByID(ctx context.Context, id string) (*Notification, error)
	// ListActiveByUserID returns the user's unread notifications, newest first,
	// along with the total unread count for pagination.
	ListActiveByUserID(ctx context.Context, userID string, params PaginationParams) ([]*Notification, int, error)
	MarkRead(ctx context.Context, id string) error
}

// NotificationBroadcaster pushes a notification to the user's live
// connections, if any. Implementations must not block on slow consumers.
type NotificationBroadcaster interface {
	Push(userID string, n *Notification)
}

// PushSender delivers a push notification to a set of device tokens.
// Implementations call an external push gateway; a nil-safe noop is fine in
// development.
type PushSender interface {
	SendPush(ctx context.Context, tokens []string, title, body string) error
}

// NotificationService defines notification delivery and retrieval logic.
type NotificationService interface {
	// Notify stores the notification and fans it out to the user's live
	// connections; high and critical severities are additionally emailed when
	// the user has notifications enabled.
	Notify(ctx context.Context, n *Notification) error
	ListActive(ctx context.Context, userID string, params PaginationParams) ([]*Notification, int, error)
	// MarkRead marks the notification read. Returns ErrForbidden when it does
	// not belong to userID.
	MarkRead(ctx context.Context, userID, notificationID string) error
}
