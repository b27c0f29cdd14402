package service

import (
	"context"

	"accountd/internal/domain"
	"accountd/internal/dto"
)

type TokenService interface {
	// Issue mints a signed session token for the account with optional extra
	// claims merged into the payload.
	Issue(ctx context.Context, account *domain.Account, extra map[string]any) (*dto.TokenResponse, error)
	// Validate checks signature and expiry and returns the subject claim.
	// Fails with domain.ErrTokenExpired or domain.ErrTokenInvalid.
	Validate(ctx context.Context, token string) (string, error)
	// ExtractClaim reads a claim without verifying the signature. Callers must
	// run Validate first; never trust a claim from an unvalidated token.
	ExtractClaim(token, name string) (any, error)
}
