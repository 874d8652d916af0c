package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mkazancev/relaychat-server/internal/store/sqlite"
)

func newTestAuthService(t *testing.T) *Service {
	t.Helper()

	st, err := sqlite.New(":memory:")
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	jwtConfig := &JWTConfig{
		Secret:   []byte("test-secret-change-me"),
		Issuer:   "test",
		Audience: "test",
		TTL:      time.Hour,
	}

	return NewService(st, jwtConfig)
}

func TestSignup_RejectsMissingFields(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	cases := [][4]string{
		{"", "Liddell", "alice@example.com", "secret"},
		{"Alice", "", "alice@example.com", "secret"},
		{"Alice", "Liddell", "", "secret"},
		{"Alice", "Liddell", "alice@example.com", ""},
		{"  ", "Liddell", "alice@example.com", "secret"},
	}
	for _, c := range cases {
		if _, err := svc.Signup(ctx, c[0], c[1], c[2], c[3]); !errors.Is(err, ErrMissingFields) {
			t.Fatalf("expected ErrMissingFields for %v, got %v", c, err)
		}
	}
}

func TestSignup_CreatesUserAndRejectsDuplicate(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	user, err := svc.Signup(ctx, "Alice", "Liddell", "Alice@Example.com", "secret")
	if err != nil {
		t.Fatalf("expected signup success, got %v", err)
	}
	if user.ID == "" {
		t.Fatalf("expected generated id")
	}
	if user.Email != "alice@example.com" {
		t.Fatalf("email should be normalized, got %q", user.Email)
	}
	if user.PasswordHash == "secret" {
		t.Fatalf("password must not be stored in plaintext")
	}

	if _, err := svc.Signup(ctx, "Other", "Alice", "alice@example.com", "secret2"); !errors.Is(err, ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestSignin_Lifecycle(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	if _, _, err := svc.Signin(ctx, "nobody@example.com", "secret"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}

	created, err := svc.Signup(ctx, "Alice", "Liddell", "alice@example.com", "secret")
	if err != nil {
		t.Fatalf("signup: %v", err)
	}

	if _, _, err := svc.Signin(ctx, "alice@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}

	token, user, err := svc.Signin(ctx, "alice@example.com", "secret")
	if err != nil {
		t.Fatalf("signin: %v", err)
	}
	if token == "" || user.ID != created.ID {
		t.Fatalf("unexpected signin result: token=%q user=%+v", token, user)
	}

	claims, err := svc.ValidateToken(token)
	if err != nil {
		t.Fatalf("validate token: %v", err)
	}
	if claims.UserID != created.ID || claims.Email != "alice@example.com" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestValidateToken_RejectsGarbage(t *testing.T) {
	svc := newTestAuthService(t)

	if _, err := svc.ValidateToken("not-a-token"); err == nil {
		t.Fatalf("expected error for malformed token")
	}
}
