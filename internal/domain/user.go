package domain

import (
	"context"
	"time"
)

// Application roles. Farmers own their herds and flocks; managers additionally
// manage other users; admins can do everything including exports.
const (
	RoleFarmer  = "farmer"
	RoleManager = "manager"
	RoleAdmin   = "admin"
)

// Supported interface languages. French is the historical default of the
// application; English was added later.
const (
	LangFrench  = "fr"
	LangEnglish = "en"
)

// User represents a registered user of the farm management service.
// swagger:model User
type User struct {
	ID                   string     `json:"id"`
	Username             string     `json:"username"`
	Phone                string     `json:"phone"`
	Email                string     `json:"email"`
	PasswordHash         string     `json:"-"`
	Salt                 string     `json:"-"`
	Role                 string     `json:"role"`
	Language             string     `json:"language"`
	NotificationsEnabled bool       `json:"notifications_enabled"`
	Active               bool       `json:"active"`
	CreatedAt            time.Time  `json:"created_at"`
	LastLogin            *time.Time `json:"last_login"`
}

// NewUser returns a new User with the given fields. ID is set by the
// repository on create. Language defaults to French and notifications to
// enabled, matching fresh accounts in the mobile app.
func NewUser(username, phone, email, role string, createdAt time.Time) *User {
	return &User{
		Username:             username,
		Phone:                phone,
		Email:                email,
		Role:                 role,
		Language:             LangFrench,
		NotificationsEnabled: true,
		Active:               true,
		CreatedAt:            createdAt,
	}
}

// PasswordHasher handles salt generation, hashing, and verification.
// Implementations may use bcrypt, argon2, etc.
type PasswordHasher interface {
	GenerateSalt() (string, error)
	Hash(salt, password string) (hash string, err error)
	Compare(hash, salt, password string) error
}

// TokenIssuer issues tokens (e.g. JWT) for an authenticated user.
type TokenIssuer interface {
	Issue(userID, phone string, roles []string, expiry time.Duration) (string, error)
}

// TokenVerifier verifies a token and returns the authenticated user ID.
type TokenVerifier interface {
	Verify(token string) (userID string, err error)
}

// UserRepository defines the interface for user storage.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByPhone(ctx context.Context, phone string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Update(ctx context.Context, user *User) error
	UpdatePassword(ctx context.Context, id, salt, passwordHash string) error
	UpdateLastLogin(ctx context.Context, id string, at time.Time) error
	List(ctx context.Context, params PaginationParams) ([]*User, int, error)
}

// VerificationCodeRepository stores one-time signup verification codes,
// keyed by email, as sha256 hashes with an expiry.
type VerificationCodeRepository interface {
	Create(ctx context.Context, email, codeHash string, expiresAt time.Time) error
	Consume(ctx context.Context, email, codeHash string) (consumed bool, err error)
}

// SignUpData carries the fields of a signup request through the two-step flow.
// Language is negotiated from the request headers; it selects the verification
// email language and becomes the new account's locale.
type SignUpData struct {
	Username string
	Phone    string
	Email    string
	Password string
	Role     string
	Language string
}

// UserService defines the business logic for accounts and authentication.
// Signup is a two-step flow: RequestSignUp emails a verification code,
// ConfirmSignUp checks the code and creates the account.
type UserService interface {
	RequestSignUp(ctx context.Context, data SignUpData) error
	ConfirmSignUp(ctx context.Context, data SignUpData, code string) (*User, error)
	// Login authenticates by phone or email plus password and returns a signed token.
	Login(ctx context.Context, identifier, password string) (token string, user *User, err error)
	// RequestPasswordReset emails a one-time reset code to an existing account.
	RequestPasswordReset(ctx context.Context, email string) error
	// ResetPassword consumes the emailed code and replaces the password.
	ResetPassword(ctx context.Context, email, code, newPassword string) error
	GetByID(ctx context.Context, id string) (*User, error)
	Update(ctx context.Context, user *User) error
	// ChangeLanguage sets the user's active locale ("fr" or "en").
	ChangeLanguage(ctx context.Context, userID, lang string) (*User, error)
	SetNotificationsEnabled(ctx context.Context, userID string, enabled bool) (*User, error)
	List(ctx context.Context, params PaginationParams) ([]*User, int, error)
}
