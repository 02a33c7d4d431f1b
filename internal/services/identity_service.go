package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yukikurage/showcase/internal/models"
	"github.com/yukikurage/showcase/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrUsernameTaken        = errors.New("username already exists")
	ErrUserNotFound         = errors.New("user not found")
	ErrUsernameRequired     = fmt.Errorf("%w: username is required", ErrValidation)
	ErrPasswordRequired     = fmt.Errorf("%w: password is required", ErrValidation)
	ErrFailedToHashPassword = errors.New("failed to hash password")
)

// IdentityService owns user records.
type IdentityService struct {
	userRepo   repository.UserRepository
	bcryptCost int
}

// NewIdentityService creates a new IdentityService. A cost outside bcrypt's
// range falls back to bcrypt.DefaultCost.
func NewIdentityService(userRepo repository.UserRepository, bcryptCost int) *IdentityService {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &IdentityService{
		userRepo:   userRepo,
		bcryptCost: bcryptCost,
	}
}

// RegisterInput represents the required information to create a new user.
type RegisterInput struct {
	Username string
	Password string
}

// Register creates a user with a bcrypt hashed password.
func (s *IdentityService) Register(input RegisterInput) (*models.User, error) {
	username := strings.TrimSpace(input.Username)
	if username == "" {
		return nil, ErrUsernameRequired
	}
	if input.Password == "" {
		return nil, ErrPasswordRequired
	}

	if _, err := s.userRepo.FindByUsername(username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: check username: %v", ErrPersistenceFailure, err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedToHashPassword, err)
	}

	user := &models.User{
		Username:     username,
		PasswordHash: string(hashedPassword),
	}

	if err := s.userRepo.Create(user); err != nil {
		// Lost a race with a concurrent registration.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("%w: create user: %v", ErrPersistenceFailure, err)
	}

	return user, nil
}

// FindByUsername looks up a user by exact username.
func (s *IdentityService) FindByUsername(username string) (*models.User, error) {
	user, err := s.userRepo.FindByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("%w: find user: %v", ErrPersistenceFailure, err)
	}
	return user, nil
}

// GetUser retrieves a user by ID.
func (s *IdentityService) GetUser(id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("%w: find user: %v", ErrPersistenceFailure, err)
	}
	return user, nil
}
