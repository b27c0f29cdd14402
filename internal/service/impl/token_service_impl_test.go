package impl

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"accountd/internal/domain"
)

func newTestTokenService() *TokenServiceImpl {
	return NewTokenServiceHS256(TokenConfig{
		Issuer:     "http://localhost:8081",
		Audience:   "client",
		AccessTTL:  1 * time.Hour,
		SigningKey: []byte("test-signing-key-0123456789abcdef"),
	})
}

func TestTokenRoundTrip(t *testing.T) {
	ts := newTestTokenService()
	ctx := context.Background()

	acc := &domain.Account{Email: "alice@x.com", Username: "alice", Verified: true}
	resp, err := ts.Issue(ctx, acc, nil)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	if resp.ExpiresIn != 3600 {
		t.Fatalf("unexpected ttl: %d", resp.ExpiresIn)
	}

	sub, err := ts.Validate(ctx, resp.Token)
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if sub != "alice@x.com" {
		t.Fatalf("subject mismatch: %q", sub)
	}
}

func TestTokenExpiry(t *testing.T) {
	ts := newTestTokenService()
	ctx := context.Background()

	issued := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	now := issued
	ts.now = func() time.Time { return now }

	resp, err := ts.Issue(ctx, &domain.Account{Email: "alice@x.com"}, nil)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	if _, err := ts.Validate(ctx, resp.Token); err != nil {
		t.Fatalf("token should validate immediately after issuance: %v", err)
	}

	now = issued.Add(1*time.Hour + time.Second)
	if _, err := ts.Validate(ctx, resp.Token); !errors.Is(err, domain.ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired past the ttl, got %v", err)
	}
}

func TestTokenTamperingIsInvalid(t *testing.T) {
	ts := newTestTokenService()
	ctx := context.Background()

	resp, err := ts.Issue(ctx, &domain.Account{Email: "alice@x.com"}, nil)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	// Flip a character in the middle of the signature. The final base64 char
	// carries only two significant bits, so tampering there can survive a
	// lenient decode; a mid-signature flip always changes the raw bytes.
	parts := strings.Split(resp.Token, ".")
	if len(parts) != 3 {
		t.Fatalf("expected three token segments, got %d", len(parts))
	}
	sig := []byte(parts[2])
	mid := len(sig) / 2
	if sig[mid] == 'A' {
		sig[mid] = 'B'
	} else {
		sig[mid] = 'A'
	}
	parts[2] = string(sig)
	if _, err := ts.Validate(ctx, strings.Join(parts, ".")); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid for tampered token, got %v", err)
	}

	if _, err := ts.Validate(ctx, "not-a-token"); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid for garbage, got %v", err)
	}
}

func TestTokenWrongKeyOrIssuer(t *testing.T) {
	ts := newTestTokenService()
	ctx := context.Background()

	resp, err := ts.Issue(ctx, &domain.Account{Email: "alice@x.com"}, nil)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	other := NewTokenServiceHS256(TokenConfig{
		Issuer:     "http://localhost:8081",
		Audience:   "client",
		AccessTTL:  time.Hour,
		SigningKey: []byte("a-completely-different-signing-key"),
	})
	if _, err := other.Validate(ctx, resp.Token); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid under another key, got %v", err)
	}

	strict := NewTokenServiceHS256(TokenConfig{
		Issuer:     "http://other-issuer",
		Audience:   "client",
		AccessTTL:  time.Hour,
		SigningKey: []byte("test-signing-key-0123456789abcdef"),
	})
	if _, err := strict.Validate(ctx, resp.Token); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid under another issuer, got %v", err)
	}
}

func TestExtractClaim(t *testing.T) {
	ts := newTestTokenService()
	ctx := context.Background()

	resp, err := ts.Issue(ctx, &domain.Account{Email: "alice@x.com", Username: "alice"}, map[string]any{"plan": "pro"})
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	v, err := ts.ExtractClaim(resp.Token, "username")
	if err != nil {
		t.Fatalf("extract username: %v", err)
	}
	if v != "alice" {
		t.Fatalf("unexpected username claim: %v", v)
	}

	v, err = ts.ExtractClaim(resp.Token, "plan")
	if err != nil {
		t.Fatalf("extract plan: %v", err)
	}
	if v != "pro" {
		t.Fatalf("extra claim lost: %v", v)
	}

	if _, err := ts.ExtractClaim(resp.Token, "missing"); !errors.Is(err, ErrClaimNotFound) {
		t.Fatalf("expected ErrClaimNotFound, got %v", err)
	}
	if _, err := ts.ExtractClaim("garbage", "sub"); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid for garbage, got %v", err)
	}
}
