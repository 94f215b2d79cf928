package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"farmtrack/internal/domain"

	"github.com/stretchr/testify/require"
)

func TestNotificationRepository_ListActiveByUserID(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM notifications`).
		WithArgs("user-uuid-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectQuery(`SELECT (.+) FROM notifications`).
		WithArgs("user-uuid-1", 10, 0).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "title", "body", "severity", "read", "created_at"}).
			AddRow("n-2", "user-uuid-1", "Mortalité élevée (lot LOT-A)", "…", domain.SeverityCritical, false, now).
			AddRow("n-1", "user-uuid-1", "Taux de ponte faible (lot LOT-A)", "…", domain.SeverityHigh, false, now.Add(-time.Hour)))

	repo := NewNotificationRepository(db)
	notifications, total, err := repo.ListActiveByUserID(ctx, "user-uuid-1", domain.PaginationParams{Page: 1, PageSize: 10})
	require.NoError(t, err)
	require.Equal(t, 2, total)
	require.Len(t, notifications, 2)
	require.Equal(t, domain.SeverityCritical, notifications[0].Severity)
	require.False(t, notifications[0].Read)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestNotificationRepository_MarkRead(t *testing.T) {
	ctx := context.Background()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`UPDATE notifications SET read`).
		WithArgs("n-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE notifications SET read`).
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := NewNotificationRepository(db)
	require.NoError(t, repo.MarkRead(ctx, "n-1"))
	require.ErrorIs(t, repo.MarkRead(ctx, "missing"), domain.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}
