// Package app holds the application services and business logic.
package app

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"pomodoro/internal/domain"

	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrInvalidInput indicates a missing or malformed request field.
	ErrInvalidInput = errors.New("invalid input")
	// ErrInvalidCredentials indicates that the provided email or password was incorrect.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrEmailTaken indicates the email is already registered.
	ErrEmailTaken = errors.New("email already registered")
	// ErrSessionNotFound indicates that the requested session does not exist.
	ErrSessionNotFound = errors.New("session not found")
	// ErrSessionExpired indicates that the session has expired.
	ErrSessionExpired = errors.New("session expired")
)

const sessionTTL = 24 * time.Hour

// AuthService handles registration, authentication and login sessions.
type AuthService struct {
	users domain.UserRepository
	auth  domain.AuthSessionRepository
}

// NewAuthService creates a new authentication service.
func NewAuthService(users domain.UserRepository, auth domain.AuthSessionRepository) *AuthService {
	return &AuthService{users: users, auth: auth}
}

// Register creates a new user after validating the email and password
// policy: at least eight characters with an uppercase letter, a digit and
// a special character.
func (s *AuthService) Register(ctx context.Context, email, password string) (*domain.User, error) {
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", ErrInvalidInput)
	}
	if !validPassword(password) {
		return nil, fmt.Errorf("%w: password does not meet requirements", ErrInvalidInput)
	}

	existing, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return s.users.Create(ctx, email, string(hash))
}

// Login authenticates a user and creates a login session.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil || user == nil {
		return "", ErrInvalidCredentials
	}

	if err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	return s.createSession(ctx, user.ID)
}

// Logout invalidates a login session.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.auth.Delete(ctx, token)
}

// ValidateSession checks if a session token is valid and returns its user.
func (s *AuthService) ValidateSession(ctx context.Context, token string) (*domain.User, error) {
	session, err := s.auth.GetByToken(ctx, token)
	if err != nil || session == nil {
		return nil, ErrSessionNotFound
	}

	if time.Now().After(session.ExpiresAt) {
		_ = s.auth.Delete(ctx, token)
		return nil, ErrSessionExpired
	}

	user, err := s.users.GetByID(ctx, session.UserID)
	if err != nil || user == nil {
		return nil, ErrSessionNotFound
	}
	return user, nil
}

// LoginWithUser creates a session for an already authenticated identity
// (e.g. via SSO), auto-provisioning the user on first login.
func (s *AuthService) LoginWithUser(ctx context.Context, email string) (string, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if user == nil {
		// Empty password hash: SSO users never authenticate locally.
		user, err = s.users.Create(ctx, email, "")
		if err != nil {
			// Creation can race with another first login on a unique constraint.
			user, err = s.users.GetByEmail(ctx, email)
			if err != nil || user == nil {
				return "", err
			}
		}
	}
	return s.createSession(ctx, user.ID)
}

// DeleteExpiredSessions removes login sessions past their expiry.
func (s *AuthService) DeleteExpiredSessions(ctx context.Context) error {
	return s.auth.DeleteExpired(ctx)
}

func (s *AuthService) createSession(ctx context.Context, userID int64) (string, error) {
	token, err := generateToken()
	if err != nil {
		return "", err
	}
	if err := s.auth.Create(ctx, userID, token, time.Now().Add(sessionTTL)); err != nil {
		return "", err
	}
	return token, nil
}

func validPassword(password string) bool {
	if len(password) < 8 {
		return false
	}
	hasUpper := strings.ContainsFunc(password, func(r rune) bool { return r >= 'A' && r <= 'Z' })
	hasNum := strings.ContainsAny(password, "0123456789")
	hasSpec := strings.ContainsAny(password, "!@#$%^&*()_+-=[]{};':\"\\|,.<>/?")
	return hasUpper && hasNum && hasSpec
}

func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}
