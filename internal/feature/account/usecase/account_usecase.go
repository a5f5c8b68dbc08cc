package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"referearn_backend/internal/feature/account/domain/entity"
)

const (
	minPasswordLength = 8
	// bcrypt ignores input past 72 bytes.
	maxPasswordBytes  = 72
	maxUsernameLength = 50

	// dummyHash keeps Login timing uniform when the email is unknown.
	dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"
)

// UserRepository abstracts the persistence layer for user entities.
type UserRepository interface {
	// Create inserts the user. Unique violations are reported as
	// ErrUsernameTaken, ErrEmailAlreadyExists or ErrReferralCodeTaken.
	Create(ctx context.Context, user *entity.User) error

	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	FindByID(ctx context.Context, id uint) (*entity.User, error)
	FindByReferralCode(ctx context.Context, code string) (*entity.User, error)
}

// SessionEstablisher opens an authenticated session for a user.
type SessionEstablisher interface {
	EstablishSession(ctx context.Context, userID uint, meta entity.ClientMeta) (*entity.TokenPair, error)
}

// RegisterInput carries the raw registration fields.
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// AuthResult is returned by Register and Login.
type AuthResult struct {
	User   *entity.User
	Tokens *entity.TokenPair
}

// accountUsecase implements registration, login and user lookups.
type accountUsecase struct {
	users    UserRepository
	sessions SessionEstablisher
	newCode  CodeGenerator
	hashCost int
}

// NewAccountUsecase creates an accountUsecase. A nil newCode uses RandomReferralCode.
func NewAccountUsecase(users UserRepository, sessions SessionEstablisher, newCode CodeGenerator) *accountUsecase {
	if newCode == nil {
		newCode = RandomReferralCode
	}
	return &accountUsecase{
		users:    users,
		sessions: sessions,
		newCode:  newCode,
		hashCost: bcrypt.DefaultCost,
	}
}

func normalizeRegisterInput(in RegisterInput) (RegisterInput, error) {
	out := RegisterInput{
		Username: strings.TrimSpace(in.Username),
		Email:    strings.ToLower(strings.TrimSpace(in.Email)),
		Password: in.Password,
	}
	switch {
	case out.Username == "":
		return out, &ValidationError{Field: "username", Message: "is required"}
	case utf8.RuneCountInString(out.Username) > maxUsernameLength:
		return out, &ValidationError{Field: "username", Message: fmt.Sprintf("must be at most %d characters", maxUsernameLength)}
	case out.Email == "":
		return out, &ValidationError{Field: "email", Message: "is required"}
	case !strings.Contains(out.Email, "@"):
		return out, &ValidationError{Field: "email", Message: "is not a valid address"}
	case strings.TrimSpace(out.Password) == "":
		return out, &ValidationError{Field: "password", Message: "is required"}
	case len(out.Password) < minPasswordLength:
		return out, &ValidationError{Field: "password", Message: fmt.Sprintf("must be at least %d characters long", minPasswordLength)}
	case len(out.Password) > maxPasswordBytes:
		return out, &ValidationError{Field: "password", Message: fmt.Sprintf("must be at most %d bytes", maxPasswordBytes)}
	}
	return out, nil
}

// Register creates a user with a fresh referral code and opens a session.
// When the session cannot be opened the created user is still returned,
// together with an error wrapping ErrSessionNotEstablished.
func (u *accountUsecase) Register(ctx context.Context, in RegisterInput, meta entity.ClientMeta) (*AuthResult, error) {
	in, err := normalizeRegisterInput(in)
	if err != nil {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), u.hashCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := u.createWithUniqueCode(ctx, in, string(hashed))
	if err != nil {
		return nil, err
	}

	tokens, err := u.sessions.EstablishSession(ctx, user.ID, meta)
	if err != nil {
		zap.L().Error("session not established after registration",
			zap.Uint("user_id", user.ID), zap.Error(err))
		return &AuthResult{User: user}, fmt.Errorf("%w: %w", ErrSessionNotEstablished, err)
	}
	return &AuthResult{User: user, Tokens: tokens}, nil
}

func (u *accountUsecase) createWithUniqueCode(ctx context.Context, in RegisterInput, hash string) (*entity.User, error) {
	for attempt := 1; attempt <= maxCodeAttempts; attempt++ {
		code, err := u.newCode()
		if err != nil {
			return nil, err
		}
		user := &entity.User{
			Username:     in.Username,
			Email:        in.Email,
			PasswordHash: hash,
			ReferralCode: code,
		}
		err = u.users.Create(ctx, user)
		if err == nil {
			return user, nil
		}
		if !errors.Is(err, ErrReferralCodeTaken) {
			return nil, err
		}
		zap.L().Warn("referral code collision, regenerating", zap.Int("attempt", attempt))
	}
	return nil, ErrCodeGenerationExhausted
}

// Login verifies credentials and opens a session.
// The bcrypt comparison always runs so unknown emails take as long as wrong passwords.
func (u *accountUsecase) Login(ctx context.Context, email, password string, meta entity.ClientMeta) (*AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := u.users.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}

	passwordHash := dummyHash
	if err == nil {
		passwordHash = user.PasswordHash
	}
	compareErr := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(password))
	if err != nil || compareErr != nil {
		return nil, ErrInvalidCredentials
	}

	tokens, err := u.sessions.EstablishSession(ctx, user.ID, meta)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: user, Tokens: tokens}, nil
}

// GetUser returns the user with the given id.
func (u *accountUsecase) GetUser(ctx context.Context, id uint) (*entity.User, error) {
	return u.users.FindByID(ctx, id)
}

// LookupReferralCode resolves a referral code to its owner. An unknown or
// malformed code yields ok == false without an error.
func (u *accountUsecase) LookupReferralCode(ctx context.Context, code string) (uint, bool, error) {
	code = strings.ToLower(strings.TrimSpace(code))
	if !isHexCode(code) {
		return 0, false, nil
	}
	user, err := u.users.FindByReferralCode(ctx, code)
	if errors.Is(err, ErrUserNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return user.ID, true, nil
}

func isHexCode(s string) bool {
	if len(s) < referralCodeBytes*2 || len(s) > 16 {
		return false
	}
	for _, r := range s {
		if (r < '0' || r > '9') && (r < 'a' || r > 'f') {
			return false
		}
	}
	return true
}
