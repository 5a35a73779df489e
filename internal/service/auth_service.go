package service

import (
	"alcyxob/gymtracker/internal/auth"
	"alcyxob/gymtracker/internal/domain"
	"alcyxob/gymtracker/internal/repository"
	"context"
	"errors"
	"fmt"
)

// --- Error Definitions ---
var (
	ErrUserAlreadyExists    = errors.New("username already exists")
	ErrAuthenticationFailed = errors.New("invalid username or password")
	ErrCredentialsRequired  = fmt.Errorf("%w: username and password are required", ErrValidationFailed)
	ErrHashingFailed        = errors.New("failed to hash password")
	ErrTokenGeneration      = errors.New("failed to generate authentication token")
	ErrInvalidCredential    = errors.New("invalid or malformed credential")
)

// --- Service Interface ---
type AuthService interface {
	Register(ctx context.Context, username, password string) (*domain.User, error)
	Login(ctx context.Context, username, password string) (token string, user *domain.User, err error)
	// Authenticate resolves a bearer credential to the user id it was issued for.
	Authenticate(token string) (userID string, err error)
}

// --- Service Implementation ---

// authService implements the AuthService interface.
type authService struct {
	userRepo repository.UserRepository
	tokens   auth.TokenCodec
	hasher   auth.PasswordHasher
}

// NewAuthService creates a new instance of authService.
func NewAuthService(userRepo repository.UserRepository, tokens auth.TokenCodec, hasher auth.PasswordHasher) AuthService {
	if tokens == nil || hasher == nil {
		panic("token codec and password hasher are required") // Critical configuration
	}
	return &authService{
		userRepo: userRepo,
		tokens:   tokens,
		hasher:   hasher,
	}
}

// Register handles new user registration.
func (s *authService) Register(ctx context.Context, username, password string) (*domain.User, error) {
	if username == "" || password == "" {
		return nil, ErrCredentialsRequired
	}

	hashed, err := s.hasher.Hash(password)
	if err != nil {
		return nil, ErrHashingFailed
	}

	user := &domain.User{
		Username: username,
		Password: hashed,
		// ID and CreatedAt are set by the repository layer
	}

	// No existence pre-check: the unique index decides, so two concurrent
	// registrations cannot both succeed.
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrUserAlreadyExists
		}
		return nil, err
	}

	user.Password = ""
	return user, nil
}

// Login checks the password and issues a credential. Missing fields, unknown
// usernames and wrong passwords all yield ErrAuthenticationFailed.
func (s *authService) Login(ctx context.Context, username, password string) (token string, user *domain.User, err error) {
	if username == "" || password == "" {
		return "", nil, ErrAuthenticationFailed
	}

	user, err = s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", nil, ErrAuthenticationFailed
		}
		return "", nil, err
	}

	if err := s.hasher.Compare(user.Password, password); err != nil {
		return "", nil, ErrAuthenticationFailed
	}

	token, err = s.tokens.Issue(user.ID)
	if err != nil {
		return "", nil, ErrTokenGeneration
	}

	user.Password = ""
	return token, user, nil
}

func (s *authService) Authenticate(token string) (string, error) {
	userID, err := s.tokens.Parse(token)
	if err != nil {
		return "", ErrInvalidCredential
	}
	return userID, nil
}
