package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"farmtrack/internal/domain"
	"farmtrack/internal/i18n"
)

const (
	verificationCodeDigits     = 6
	verificationCodeExpiryMins = 15
	minPasswordLength          = 8
)

var (
	emailRegexp = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	phoneRegexp = regexp.MustCompile(`^\+?[0-9]{8,15}$`)
	codeRegexp  = regexp.MustCompile(`^\d{6}$`)
)

type userService struct {
	userRepo     domain.UserRepository
	codeRepo     domain.VerificationCodeRepository
	hasher       domain.PasswordHasher
	tokenIssuer  domain.TokenIssuer
	tokenExpiry  time.Duration
	emailService domain.EmailService
}

// NewUserService creates a UserService with the given repositories and auth ports.
func NewUserService(userRepo domain.UserRepository, codeRepo domain.VerificationCodeRepository, hasher domain.PasswordHasher, tokenIssuer domain.TokenIssuer, tokenExpiry time.Duration, emailService domain.EmailService) domain.UserService {
	return &userService{
		userRepo:     userRepo,
		codeRepo:     codeRepo,
		hasher:       hasher,
		tokenIssuer:  tokenIssuer,
		tokenExpiry:  tokenExpiry,
		emailService: emailService,
	}
}

func normalizeSignUpData(data *domain.SignUpData) error {
	data.Username = strings.TrimSpace(data.Username)
	data.Email = strings.TrimSpace(strings.ToLower(data.Email))
	data.Phone = strings.ReplaceAll(strings.TrimSpace(data.Phone), " ", "")
	if data.Role == "" {
		data.Role = domain.RoleFarmer
	}
	if !i18n.Supported(data.Language) {
		data.Language = i18n.DefaultLang
	}
	if data.Username == "" {
		return fmt.Errorf("username is required")
	}
	if !emailRegexp.MatchString(data.Email) {
		return fmt.Errorf("invalid email format")
	}
	if !phoneRegexp.MatchString(data.Phone) {
		return fmt.Errorf("invalid phone format")
	}
	if len(data.Password) < minPasswordLength {
		return fmt.Errorf("password must be at least %d characters", minPasswordLength)
	}
	return nil
}

func (s *userService) checkAvailable(ctx context.Context, data domain.SignUpData) error {
	if _, err := s.userRepo.GetByPhone(ctx, data.Phone); err == nil {
		return domain.ErrDuplicatePhone
	} else if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("failed to check phone: %w", err)
	}
	if _, err := s.userRepo.GetByEmail(ctx, data.Email); err == nil {
		return domain.ErrDuplicateEmail
	} else if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("failed to check email: %w", err)
	}
	return nil
}

// RequestSignUp is step one of the signup flow: it validates the data, stores
// a one-time verification code, and emails it to the candidate address.
func (s *userService) RequestSignUp(ctx context.Context, data domain.SignUpData) error {
	if err := normalizeSignUpData(&data); err != nil {
		return err
	}
	if err := s.checkAvailable(ctx, data); err != nil {
		return err
	}
	code, err := generateVerificationCode(verificationCodeDigits)
	if err != nil {
		return fmt.Errorf("failed to generate code: %w", err)
	}
	expiresAt := time.Now().Add(verificationCodeExpiryMins * time.Minute)
	if err := s.codeRepo.Create(ctx, data.Email, hashVerificationCode(code), expiresAt); err != nil {
		return fmt.Errorf("failed to store verification code: %w", err)
	}
	if s.emailService != nil {
		emailData := &domain.VerificationEmailData{
			Email:            data.Email,
			Username:         data.Username,
			Code:             code,
			ExpiresInMinutes: verificationCodeExpiryMins,
		}
		if err := s.emailService.SendVerificationCode(ctx, data.Language, emailData); err != nil {
			return fmt.Errorf("failed to send verification email: %w", err)
		}
	}
	return nil
}

// ConfirmSignUp is step two: it consumes the verification code and creates
// the account.
func (s *userService) ConfirmSignUp(ctx context.Context, data domain.SignUpData, code string) (*domain.User, error) {
	if err := normalizeSignUpData(&data); err != nil {
		return nil, err
	}
	code = strings.TrimSpace(code)
	if !codeRegexp.MatchString(code) {
		return nil, domain.ErrInvalidCode
	}
	consumed, err := s.codeRepo.Consume(ctx, data.Email, hashVerificationCode(code))
	if err != nil {
		return nil, fmt.Errorf("failed to verify code: %w", err)
	}
	if !consumed {
		return nil, domain.ErrInvalidCode
	}
	if err := s.checkAvailable(ctx, data); err != nil {
		return nil, err
	}

	salt, err := s.hasher.GenerateSalt()
	if err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}
	hash, err := s.hasher.Hash(salt, data.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := domain.NewUser(data.Username, data.Phone, data.Email, data.Role, time.Now())
	user.Language = data.Language
	user.Salt = salt
	user.PasswordHash = hash
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// Login authenticates by phone or email plus password.
func (s *userService) Login(ctx context.Context, identifier, password string) (string, *domain.User, error) {
	identifier = strings.TrimSpace(identifier)

	var user *domain.User
	var err error
	if strings.Contains(identifier, "@") {
		user, err = s.userRepo.GetByEmail(ctx, strings.ToLower(identifier))
	} else {
		user, err = s.userRepo.GetByPhone(ctx, strings.ReplaceAll(identifier, " ", ""))
	}
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("failed to get user: %w", err)
	}
	if err := s.hasher.Compare(user.PasswordHash, user.Salt, password); err != nil {
		return "", nil, domain.ErrInvalidCredentials
	}
	if !user.Active {
		return "", nil, domain.ErrAccountDisabled
	}

	now := time.Now()
	if err := s.userRepo.UpdateLastLogin(ctx, user.ID, now); err != nil {
		return "", nil, fmt.Errorf("failed to update last login: %w", err)
	}
	user.LastLogin = &now

	token, err := s.tokenIssuer.Issue(user.ID, user.Phone, []string{user.Role}, s.tokenExpiry)
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign token: %w", err)
	}
	return token, user, nil
}

// RequestPasswordReset emails a one-time code to the account's address. The
// code goes through the same table as signup verification, keyed by email, so
// a later signup request for the same address simply replaces it.
func (s *userService) RequestPasswordReset(ctx context.Context, email string) error {
	email = strings.TrimSpace(strings.ToLower(email))
	if !emailRegexp.MatchString(email) {
		return fmt.Errorf("invalid email format")
	}
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrUserNotFound
		}
		return fmt.Errorf("failed to get user: %w", err)
	}
	code, err := generateVerificationCode(verificationCodeDigits)
	if err != nil {
		return fmt.Errorf("failed to generate code: %w", err)
	}
	expiresAt := time.Now().Add(verificationCodeExpiryMins * time.Minute)
	if err := s.codeRepo.Create(ctx, email, hashVerificationCode(code), expiresAt); err != nil {
		return fmt.Errorf("failed to store reset code: %w", err)
	}
	if s.emailService != nil {
		emailData := &domain.VerificationEmailData{
			Email:            email,
			Username:         user.Username,
			Code:             code,
			ExpiresInMinutes: verificationCodeExpiryMins,
		}
		if err := s.emailService.SendPasswordResetCode(ctx, user.Language, emailData); err != nil {
			return fmt.Errorf("failed to send reset email: %w", err)
		}
	}
	return nil
}

// ResetPassword consumes the reset code and replaces the account's password.
func (s *userService) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	email = strings.TrimSpace(strings.ToLower(email))
	if !emailRegexp.MatchString(email) {
		return fmt.Errorf("invalid email format")
	}
	if len(newPassword) < minPasswordLength {
		return fmt.Errorf("password must be at least %d characters", minPasswordLength)
	}
	code = strings.TrimSpace(code)
	if !codeRegexp.MatchString(code) {
		return domain.ErrInvalidCode
	}
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrUserNotFound
		}
		return fmt.Errorf("failed to get user: %w", err)
	}
	consumed, err := s.codeRepo.Consume(ctx, email, hashVerificationCode(code))
	if err != nil {
		return fmt.Errorf("failed to verify code: %w", err)
	}
	if !consumed {
		return domain.ErrInvalidCode
	}

	salt, err := s.hasher.GenerateSalt()
	if err != nil {
		return fmt.Errorf("failed to generate salt: %w", err)
	}
	hash, err := s.hasher.Hash(salt, newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.userRepo.UpdatePassword(ctx, user.ID, salt, hash); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}

func (s *userService) GetByID(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func (s *userService) Update(ctx context.Context, user *domain.User) error {
	user.Username = strings.TrimSpace(user.Username)
	if user.Email != "" && !emailRegexp.MatchString(user.Email) {
		return fmt.Errorf("invalid email format")
	}
	if user.Phone != "" && !phoneRegexp.MatchString(user.Phone) {
		return fmt.Errorf("invalid phone format")
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) || errors.Is(err, domain.ErrDuplicatePhone) || errors.Is(err, domain.ErrUserNotFound) {
			return err
		}
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}

func (s *userService) ChangeLanguage(ctx context.Context, userID, lang string) (*domain.User, error) {
	if !i18n.Supported(lang) {
		return nil, fmt.Errorf("unsupported language %q", lang)
	}
	user, err := s.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.Language == lang {
		return user, nil
	}
	user.Language = lang
	if err := s.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) SetNotificationsEnabled(ctx context.Context, userID string, enabled bool) (*domain.User, error) {
	user, err := s.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.NotificationsEnabled == enabled {
		return user, nil
	}
	user.NotificationsEnabled = enabled
	if err := s.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) List(ctx context.Context, params domain.PaginationParams) ([]*domain.User, int, error) {
	users, total, err := s.userRepo.List(ctx, params)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}
	return users, total, nil
}

func generateVerificationCode(digits int) (string, error) {
	const digitspace = "0123456789"
	b := make([]byte, digits)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	for i := range b {
		b[i] = digitspace[int(b[i])%len(digitspace)]
	}
	return string(b), nil
}

func hashVerificationCode(code string) string {
	sum := sha256.Sum256([]byte(code))
	return hex.EncodeToString(sum[:])
}
