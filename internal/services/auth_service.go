package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/complytrack/compliance-tracker-api/internal/auth"
	"github.com/complytrack/compliance-tracker-api/internal/constants"
	"github.com/complytrack/compliance-tracker-api/internal/models"
	"github.com/complytrack/compliance-tracker-api/internal/observability/metrics"
	"github.com/complytrack/compliance-tracker-api/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailTaken           = errors.New("email already registered")
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrPasswordTooShort     = errors.New("password too short")
	ErrUserNotFound         = errors.New("user not found")
	ErrFailedToHashPassword = errors.New("failed to hash password")
	ErrTokenRevoked         = errors.New("token has been revoked")
)

// AuthService handles authentication related business logic.
type AuthService struct {
	users   repository.UserRepository
	grants  repository.GrantRepository
	tokens  *auth.TokenManager
	revoker auth.Revoker
	log     *slog.Logger
	now     func() time.Time
}

// NewAuthService creates a new AuthService.
func NewAuthService(
	users repository.UserRepository,
	grants repository.GrantRepository,
	tokens *auth.TokenManager,
	revoker auth.Revoker,
	log *slog.Logger,
) *AuthService {
	return &AuthService{
		users:   users,
		grants:  grants,
		tokens:  tokens,
		revoker: revoker,
		log:     log,
		now:     time.Now,
	}
}

// RegisterInput represents the required information to create a new user.
type RegisterInput struct {
	Email    string
	Password string
	FullName string
	Role     string
}

// LoginResult is a signed token and the user it was issued for.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      *models.User
}

// Register creates an active user with the given role.
func (s *AuthService) Register(input RegisterInput) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	fullName := strings.TrimSpace(input.FullName)

	verr := &ValidationError{}
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		verr.add("email", "must be a valid email address")
	}
	if fullName == "" {
		verr.add("full_name", "required")
	}
	role, err := models.ParseRole(input.Role)
	if err != nil {
		verr.add("role", "must be one of admin, management, accounts, tax, compliance, audit")
	}
	if err := verr.errOrNil(); err != nil {
		return nil, err
	}
	if len(input.Password) < constants.MinPasswordLength {
		return nil, ErrPasswordTooShort
	}

	if _, err := s.users.FindByEmail(email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrFailedToHashPassword
	}

	user := &models.User{
		Email:        email,
		FullName:     fullName,
		PasswordHash: string(hashedPassword),
		Role:         role,
		IsActive:     true,
	}
	if err := s.users.Create(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// Login verifies credentials, stamps the last login time and issues a token.
// Unknown, inactive and wrong-password logins are indistinguishable.
func (s *AuthService) Login(email, password string) (*LoginResult, error) {
	user, err := s.users.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			metrics.ObserveLogin("invalid")
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !user.IsActive {
		metrics.ObserveLogin("inactive")
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		metrics.ObserveLogin("invalid")
		return nil, ErrInvalidCredentials
	}

	now := s.now().UTC()
	if err := s.users.TouchLastLogin(user.ID, now); err != nil {
		return nil, fmt.Errorf("failed to record login: %w", err)
	}
	user.LastLoginAt = &now

	token, claims, err := s.tokens.GenerateToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	if err := s.attachGrants(user); err != nil {
		return nil, err
	}

	metrics.ObserveLogin("success")
	return &LoginResult{Token: token, ExpiresAt: claims.ExpiresAt.Time, User: user}, nil
}

// Authenticate validates a bearer token and checks it has not been revoked.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*auth.Claims, error) {
	claims, err := s.tokens.ValidateToken(token)
	if err != nil {
		return nil, err
	}

	if claims.ID != "" {
		revoked, err := s.revoker.IsRevoked(ctx, claims.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to check token revocation: %w", err)
		}
		if revoked {
			return nil, ErrTokenRevoked
		}
	}
	return claims, nil
}

// Logout revokes the presented token until it would have expired.
func (s *AuthService) Logout(ctx context.Context, claims *auth.Claims) error {
	if claims == nil || claims.ID == "" || claims.ExpiresAt == nil {
		return nil
	}
	if err := s.revoker.Revoke(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

// Profile returns a user with their active grants.
func (s *AuthService) Profile(id uint64) (*models.User, error) {
	user, err := s.users.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := s.attachGrants(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *AuthService) attachGrants(user *models.User) error {
	grants, err := s.grants.ListActiveByUser(user.ID)
	if err != nil {
		return fmt.Errorf("failed to load grants: %w", err)
	}
	user.Grants = grants
	return nil
}
