package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/mkazancev/relaychat-server/internal/store"
)

var (
	// ErrMissingFields is returned when a required signup field is empty.
	ErrMissingFields = errors.New("missing required fields")
	// ErrUserExists is returned when signing up with a taken email.
	ErrUserExists = errors.New("user already exists")
	// ErrUserNotFound is returned when the signin email is unknown.
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidCredentials is returned when the password doesn't match.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Service provides account signup and signin.
type Service struct {
	store     store.UserStore
	jwtConfig *JWTConfig
}

// NewService creates a new authentication service.
func NewService(userStore store.UserStore, jwtConfig *JWTConfig) *Service {
	return &Service{
		store:     userStore,
		jwtConfig: jwtConfig,
	}
}

// Signup creates a new account with a hashed password.
func (s *Service) Signup(ctx context.Context, firstName, lastName, email, password string) (*store.User, error) {
	firstName = strings.TrimSpace(firstName)
	lastName = strings.TrimSpace(lastName)
	email = strings.ToLower(strings.TrimSpace(email))
	if firstName == "" || lastName == "" || email == "" || password == "" {
		return nil, ErrMissingFields
	}

	if existing, err := s.store.GetUserByEmail(ctx, email); err == nil && existing != nil {
		return nil, ErrUserExists
	}

	hashed, err := HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &store.User{
		ID:           uuid.NewString(),
		FirstName:    firstName,
		LastName:     lastName,
		Email:        email,
		PasswordHash: hashed,
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	return user, nil
}

// Signin validates credentials and returns a JWT token with the account.
func (s *Service) Signin(ctx context.Context, email, password string) (string, *store.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return "", nil, ErrMissingFields
	}

	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", nil, ErrUserNotFound
		}
		return "", nil, fmt.Errorf("lookup user: %w", err)
	}

	if err := ComparePassword(user.PasswordHash, password); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := GenerateToken(s.jwtConfig, user.ID, user.Email)
	if err != nil {
		return "", nil, fmt.Errorf("generate token: %w", err)
	}

	return token, user, nil
}

// ValidateToken validates a JWT token and returns the claims.
func (s *Service) ValidateToken(tokenString string) (*Claims, error) {
	return ValidateToken(s.jwtConfig, tokenString)
}
