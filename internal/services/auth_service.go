package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/yukikurage/showcase/internal/session"
	"github.com/yukikurage/showcase/internal/utils"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUnauthorized       = errors.New("authentication required")
)

const sessionTokenBytes = 32

// AuthService issues and checks login sessions.
type AuthService struct {
	identity *IdentityService
	sessions session.Store
	ttl      time.Duration
	now      func() time.Time

	// dummyHash is compared against when the username does not exist, so a
	// failed login costs one bcrypt comparison either way.
	dummyHash []byte
}

// NewAuthService creates a new AuthService.
func NewAuthService(identity *IdentityService, sessions session.Store, ttl time.Duration) (*AuthService, error) {
	dummy, err := bcrypt.GenerateFromPassword([]byte("not-a-real-password"), identity.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedToHashPassword, err)
	}
	return &AuthService{
		identity:  identity,
		sessions:  sessions,
		ttl:       ttl,
		now:       time.Now,
		dummyHash: dummy,
	}, nil
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Username string
	Password string
}

// Login verifies credentials and opens a session. Unknown usernames and wrong
// passwords both return ErrInvalidCredentials.
func (s *AuthService) Login(input LoginInput) (*session.Session, error) {
	user, err := s.identity.FindByUsername(input.Username)
	if err != nil {
		if !errors.Is(err, ErrUserNotFound) {
			return nil, err
		}
		_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(input.Password))
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := utils.GenerateToken(sessionTokenBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	now := s.now()
	sess := &session.Session{
		Token: token,
		Identity: session.Identity{
			UserID:   user.ID,
			Username: user.Username,
		},
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
	if err := s.sessions.Put(sess); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	return sess, nil
}

// Logout invalidates token. Empty or unknown tokens are a no-op.
func (s *AuthService) Logout(token string) error {
	if token == "" {
		return nil
	}
	return s.sessions.Delete(token)
}

// RequireAuthenticated returns the identity behind token, or ErrUnauthorized.
func (s *AuthService) RequireAuthenticated(token string) (session.Identity, error) {
	if token == "" {
		return session.Identity{}, ErrUnauthorized
	}

	sess, err := s.sessions.Get(token)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) || errors.Is(err, session.ErrExpired) {
			return session.Identity{}, ErrUnauthorized
		}
		return session.Identity{}, err
	}

	return sess.Identity, nil
}
