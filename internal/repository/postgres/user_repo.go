package postgres

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/lib/pq"

	"farmtrack/internal/domain"
)

type userRepository struct {
	DB *sql.DB
}

// NewUserRepository returns a domain.UserRepository implemented with Postgres.
func NewUserRepository(db *sql.DB) domain.UserRepository {
	return &userRepository{DB: db}
}

const userColumns = `id, username, phone, email, password_hash, salt, role, language, notifications_enabled, active, created_at, last_login`

func scanUser(row *sql.Row) (*domain.User, error) {
	u := &domain.User{}
	var lastLogin sql.NullTime
	err := row.Scan(
		&u.ID, &u.Username, &u.Phone, &u.Email, &u.PasswordHash, &u.Salt,
		&u.Role, &u.Language, &u.NotificationsEnabled, &u.Active, &u.CreatedAt, &lastLogin,
	)
	if err != nil {
		return nil, err
	}
	if lastLogin.Valid {
		u.LastLogin = &lastLogin.Time
	}
	return u, nil
}

func (r *userRepository) Create(ctx context.Context, u *domain.User) error {
	query := `
		INSERT INTO users (username, phone, email, password_hash, salt, role, language, notifications_enabled, active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query,
		u.Username, u.Phone, u.Email, u.PasswordHash, u.Salt,
		u.Role, u.Language, u.NotificationsEnabled, u.Active, u.CreatedAt,
	).Scan(&u.ID)
	if err != nil {
		return mapUserConstraint(err)
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.DB.QueryRowContext(ctx, query, id))
}

func (r *userRepository) GetByPhone(ctx context.Context, phone string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE phone = $1`
	return scanUser(r.DB.QueryRowContext(ctx, query, phone))
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanUser(r.DB.QueryRowContext(ctx, query, email))
}

func (r *userRepository) Update(ctx context.Context, u *domain.User) error {
	query := `
		UPDATE users
		SET username = $2, phone = $3, email = $4, role = $5, language = $6, notifications_enabled = $7, active = $8
		WHERE id = $1
	`
	result, err := r.DB.ExecContext(ctx, query,
		u.ID, u.Username, u.Phone, u.Email, u.Role, u.Language, u.NotificationsEnabled, u.Active,
	)
	if err != nil {
		return mapUserConstraint(err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *userRepository) UpdatePassword(ctx context.Context, id, salt, passwordHash string) error {
	result, err := r.DB.ExecContext(ctx, `UPDATE users SET salt = $2, password_hash = $3 WHERE id = $1`, id, salt, passwordHash)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *userRepository) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	result, err := r.DB.ExecContext(ctx, `UPDATE users SET last_login = $2 WHERE id = $1`, id, at)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *userRepository) List(ctx context.Context, params domain.PaginationParams) ([]*domain.User, int, error) {
	var total int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&total); err != nil {
		return nil, 0, err
	}
	query := `
		SELECT ` + userColumns + `
		FROM users
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.DB.QueryContext(ctx, query, params.PageSize, params.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	users := make([]*domain.User, 0)
	for rows.Next() {
		u := &domain.User{}
		var lastLogin sql.NullTime
		err := rows.Scan(
			&u.ID, &u.Username, &u.Phone, &u.Email, &u.PasswordHash, &u.Salt,
			&u.Role, &u.Language, &u.NotificationsEnabled, &u.Active, &u.CreatedAt, &lastLogin,
		)
		if err != nil {
			return nil, 0, err
		}
		if lastLogin.Valid {
			u.LastLogin = &lastLogin.Time
		}
		users = append(users, u)
	}
	return users, total, rows.Err()
}

// mapUserConstraint turns unique violations on users into the duplicate
// sentinels. The constraint name tells phone and email apart.
func mapUserConstraint(err error) error {
	if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
		switch {
		case strings.Contains(pqErr.Constraint, "phone"):
			return domain.ErrDuplicatePhone
		case strings.Contains(pqErr.Constraint, "email"):
			return domain.ErrDuplicateEmail
		default:
			return domain.ErrDuplicateIdentifier
		}
	}
	return err
}
