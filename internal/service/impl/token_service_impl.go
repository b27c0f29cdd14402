package impl

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"accountd/internal/domain"
	"accountd/internal/dto"
	"accountd/internal/observability/metrics"
	"accountd/internal/observability/middleware"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ====== Config ======

type TokenConfig struct {
	Issuer     string        // e.g. "http://localhost:8081"
	Audience   string        // e.g. "client"
	AccessTTL  time.Duration // e.g. 1 * time.Hour
	SigningKey []byte        // HS256 secret, immutable for the process lifetime
}

// ====== Claims ======

type SessionClaims struct {
	Username string `json:"username,omitempty"`
	jwt.RegisteredClaims
}

// ====== Service ======

// TokenServiceImpl issues and validates stateless HS256 session tokens.
// There is no revocation list; validity is signature plus expiry only.
type TokenServiceImpl struct {
	cfg TokenConfig
	now func() time.Time
}

func NewTokenServiceHS256(cfg TokenConfig) *TokenServiceImpl {
	return &TokenServiceImpl{
		cfg: cfg,
		now: func() time.Time { return time.Now().UTC() },
	}
}

func (t *TokenServiceImpl) Issue(ctx context.Context, account *domain.Account, extra map[string]any) (*dto.TokenResponse, error) {
	result := "success"
	defer func() {
		metrics.TokensIssuedTotal.WithLabelValues(result).Inc()
	}()
	now := t.now()

	claims := jwt.MapClaims{}
	for k, v := range extra {
		claims[k] = v
	}
	claims["iss"] = t.cfg.Issuer
	claims["sub"] = account.Email
	claims["aud"] = t.cfg.Audience
	claims["iat"] = jwt.NewNumericDate(now)
	claims["exp"] = jwt.NewNumericDate(now.Add(t.cfg.AccessTTL))
	claims["jti"] = uuid.New().String()
	claims["username"] = account.Username

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.cfg.SigningKey)
	if err != nil {
		result = "failure"
		return nil, err
	}

	reqID := middleware.RequestIDFromContext(ctx)
	traceID := middleware.TraceIDFromContext(ctx)
	slog.Info("issued token", "account_id", account.ID, "request_id", reqID, "trace_id", traceID)

	return &dto.TokenResponse{
		Token:     signed,
		ExpiresIn: int64(t.cfg.AccessTTL.Seconds()),
	}, nil
}

// Validate checks signature, expiry, issuer and audience, and returns the
// subject. Expiry and malformation are distinguishable for the gate.
func (t *TokenServiceImpl) Validate(ctx context.Context, tokenStr string) (string, error) {
	claims := &SessionClaims{}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(t.now),
	)
	tok, err := parser.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return t.cfg.SigningKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", domain.ErrTokenExpired
		}
		return "", domain.ErrTokenInvalid
	}
	if !tok.Valid {
		return "", domain.ErrTokenInvalid
	}
	// Enforce issuer/audience manually (kept explicit for clarity).
	if claims.Issuer != t.cfg.Issuer {
		return "", domain.ErrTokenInvalid
	}
	if !containsAudience(claims.Audience, t.cfg.Audience) {
		return "", domain.ErrTokenInvalid
	}
	if claims.Subject == "" {
		return "", domain.ErrTokenInvalid
	}
	return claims.Subject, nil
}

// ExtractClaim reads a single claim without checking the signature.
// Only for inspecting tokens that already passed Validate.
func (t *TokenServiceImpl) ExtractClaim(tokenStr, name string) (any, error) {
	claims := jwt.MapClaims{}
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if _, _, err := parser.ParseUnverified(tokenStr, claims); err != nil {
		return nil, domain.ErrTokenInvalid
	}
	v, ok := claims[name]
	if !ok {
		return nil, ErrClaimNotFound
	}
	return v, nil
}

// containsAudience checks if the expected audience is present in the claim audience list.
func containsAudience(aud jwt.ClaimStrings, expected string) bool {
	for _, a := range aud {
		if a == expected {
			return true
		}
	}
	return false
}
