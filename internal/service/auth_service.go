package service

import (
	"context"

	"accountd/internal/dto"
)

type AuthService interface {
	Signup(ctx context.Context, r dto.SignupRequest) (*dto.AccountResponse, error)
	VerifyAccount(ctx context.Context, r dto.VerifyRequest) error
	ResendVerification(ctx context.Context, email string) error
	Login(ctx context.Context, r dto.LoginRequest) (*dto.TokenResponse, error)
}
