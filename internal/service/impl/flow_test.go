package impl

import (
	"context"
	"errors"
	"testing"
	"time"

	"accountd/internal/domain"
	"accountd/internal/dto"
)

// Full journey with the real hasher, generator and token service: signup,
// verify within the window, login, then validate the issued token.
func TestSignupVerifyLoginFlow(t *testing.T) {
	st := newMemoryStore()
	mail := &recordingMailer{}

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	ts := NewTokenServiceHS256(TokenConfig{
		Issuer:     "http://localhost:8081",
		Audience:   "client",
		AccessTTL:  time.Hour,
		SigningKey: []byte("test-signing-key-0123456789abcdef"),
	})
	ts.now = func() time.Time { return now }

	svc := &AuthServiceImpl{
		Store:           st,
		PasswordService: NewPasswordServiceArgon2id(),
		TService:        ts,
		Codes:           NewDigitCodeGenerator(),
		Mail:            mail,
		CodeTTL:         15 * time.Minute,
		Now:             func() time.Time { return now },
	}
	ctx := context.Background()

	if _, err := svc.Signup(ctx, dto.SignupRequest{Username: "alice", Email: "alice@x.com", Password: "Secret123!"}); err != nil {
		t.Fatalf("signup failed: %v", err)
	}
	if len(mail.sent) != 1 {
		t.Fatalf("expected one delivered code, got %d", len(mail.sent))
	}
	code := mail.sent[0].code

	// Login before verification fails regardless of the correct password.
	if _, err := svc.Login(ctx, dto.LoginRequest{Email: "alice@x.com", Password: "Secret123!"}); !errors.Is(err, domain.ErrAccountNotVerified) {
		t.Fatalf("expected ErrAccountNotVerified, got %v", err)
	}

	now = now.Add(10 * time.Minute)
	if err := svc.VerifyAccount(ctx, dto.VerifyRequest{Email: "alice@x.com", Code: code}); err != nil {
		t.Fatalf("verify failed: %v", err)
	}

	if _, err := svc.Login(ctx, dto.LoginRequest{Email: "alice@x.com", Password: "wrong-password"}); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}

	resp, err := svc.Login(ctx, dto.LoginRequest{Email: "alice@x.com", Password: "Secret123!"})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if resp.ExpiresIn <= 0 {
		t.Fatalf("token ttl must be positive, got %d", resp.ExpiresIn)
	}

	sub, err := ts.Validate(ctx, resp.Token)
	if err != nil {
		t.Fatalf("issued token did not validate: %v", err)
	}
	if sub != "alice@x.com" {
		t.Fatalf("token resolved wrong identity: %q", sub)
	}
}
