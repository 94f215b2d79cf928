package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"farmtrack/internal/domain"
)

func TestNotificationService_Notify(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	newUserRepoWith := func(enabled bool) *fakeUserRepo {
		f := newFakeUserRepo()
		f.add(&domain.User{
			ID: "u1", Username: "Alice", Email: "alice@example.com",
			Language: domain.LangFrench, NotificationsEnabled: enabled, Active: true,
		})
		return f
	}

	t.Run("stores, broadcasts, pushes and emails critical", func(t *testing.T) {
		notifRepo := newFakeNotificationRepo()
		userRepo := newUserRepoWith(true)
		deviceRepo := newFakeDeviceRepo()
		require.NoError(t, deviceRepo.Create(ctx, domain.NewDevice("u1", "tok-1", "Pixel", "android", "1.0", now, now)))
		broadcaster := newFakeBroadcaster()
		push := &fakePushSender{}
		emails := &fakeEmailService{}
		svc := NewNotificationService(notifRepo, userRepo, deviceRepo, broadcaster, push, emails, testLogger())

		n := domain.NewNotification("u1", "High mortality", "Mortality rate reached 7%", domain.SeverityCritical, now)
		require.NoError(t, svc.Notify(ctx, n))

		assert.NotEmpty(t, n.ID)
		assert.Len(t, broadcaster.pushed["u1"], 1)
		assert.Equal(t, []string{"tok-1"}, push.tokens)
		require.Len(t, emails.alerts, 1)
		assert.Equal(t, "alice@example.com", emails.alerts[0].Email)
		assert.Equal(t, domain.LangFrench, emails.alertLangs[0])
	})

	t.Run("low severity is not emailed", func(t *testing.T) {
		notifRepo := newFakeNotificationRepo()
		emails := &fakeEmailService{}
		svc := NewNotificationService(notifRepo, newUserRepoWith(true), newFakeDeviceRepo(), newFakeBroadcaster(), &fakePushSender{}, emails, testLogger())

		n := domain.NewNotification("u1", "Reminder", "Weigh flock A", domain.SeverityLow, now)
		require.NoError(t, svc.Notify(ctx, n))
		assert.Empty(t, emails.alerts)
	})

	t.Run("disabled notifications still stored and broadcast, nothing else", func(t *testing.T) {
		notifRepo := newFakeNotificationRepo()
		deviceRepo := newFakeDeviceRepo()
		require.NoError(t, deviceRepo.Create(ctx, domain.NewDevice("u1", "tok-1", "Pixel", "android", "1.0", now, now)))
		broadcaster := newFakeBroadcaster()
		push := &fakePushSender{}
		emails := &fakeEmailService{}
		svc := NewNotificationService(notifRepo, newUserRepoWith(false), deviceRepo, broadcaster, push, emails, testLogger())

		n := domain.NewNotification("u1", "High mortality", "Mortality rate reached 7%", domain.SeverityCritical, now)
		require.NoError(t, svc.Notify(ctx, n))

		assert.NotEmpty(t, n.ID)
		assert.Len(t, broadcaster.pushed["u1"], 1)
		assert.Empty(t, push.tokens)
		assert.Empty(t, emails.alerts)
	})

	t.Run("email failure does not fail the notify", func(t *testing.T) {
		notifRepo := newFakeNotificationRepo()
		emails := &fakeEmailService{err: assert.AnError}
		svc := NewNotificationService(notifRepo, newUserRepoWith(true), newFakeDeviceRepo(), newFakeBroadcaster(), &fakePushSender{}, emails, testLogger())

		n := domain.NewNotification("u1", "Alert", "Body", domain.SeverityHigh, now)
		require.NoError(t, svc.Notify(ctx, n))
		assert.NotEmpty(t, n.ID)
	})

	t.Run("unknown user", func(t *testing.T) {
		svc := NewNotificationService(newFakeNotificationRepo(), newFakeUserRepo(), newFakeDeviceRepo(), nil, nil, nil, testLogger())
		n := domain.NewNotification("missing", "Alert", "Body", domain.SeverityHigh, now)
		require.ErrorIs(t, svc.Notify(ctx, n), domain.ErrUserNotFound)
	})
}

func TestNotificationService_MarkRead(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	notifRepo := newFakeNotificationRepo()
	userRepo := newFakeUserRepo()
	userRepo.add(&domain.User{ID: "u1", NotificationsEnabled: true, Active: true})
	userRepo.add(&domain.User{ID: "u2", NotificationsEnabled: true, Active: true})
	svc := NewNotificationService(notifRepo, userRepo, newFakeDeviceRepo(), nil, nil, nil, testLogger())

	n := domain.NewNotification("u1", "Alert", "Body", domain.SeverityLow, now)
	require.NoError(t, svc.Notify(ctx, n))

	// Another user cannot mark it read.
	require.ErrorIs(t, svc.MarkRead(ctx, "u2", n.ID), domain.ErrForbidden)

	require.NoError(t, svc.MarkRead(ctx, "u1", n.ID))
	active, total, err := svc.ListActive(ctx, "u1", domain.PaginationParams{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Empty(t, active)
	assert.Zero(t, total)

	// Marking twice is a no-op.
	require.NoError(t, svc.MarkRead(ctx, "u1", n.ID))

	require.ErrorIs(t, svc.MarkRead(ctx, "u1", "missing"), domain.ErrNotFound)
}
