package impl

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"accountd/internal/domain"
	"accountd/internal/dto"
	"accountd/internal/observability/metrics"
	"accountd/internal/observability/middleware"
	"accountd/internal/service"
	"accountd/internal/store"

	"github.com/google/uuid"
)

// AuthServiceImpl drives the account state machine: unverified at signup,
// verified exactly once, logins gated on verification.
type AuthServiceImpl struct {
	Store           dataStore
	PasswordService service.PasswordService
	TService        service.TokenService
	Codes           service.CodeGenerator
	Mail            service.EmailService
	CodeTTL         time.Duration
	Now             func() time.Time
}

func NewAuthServiceImpl(
	st *store.Store,
	passwordService service.PasswordService,
	tokenService service.TokenService,
	codes service.CodeGenerator,
	mail service.EmailService,
	codeTTL time.Duration,
) *AuthServiceImpl {
	return &AuthServiceImpl{
		Store:           gormStoreAdapter{store: st},
		PasswordService: passwordService,
		TService:        tokenService,
		Codes:           codes,
		Mail:            mail,
		CodeTTL:         codeTTL,
		Now:             func() time.Time { return time.Now().UTC() },
	}
}

type dataStore interface {
	WithTx(ctx context.Context, fn func(tx storeTx) error) error
}

type storeTx interface {
	Accounts() accountStore
	Credentials() credentialStore
}

type accountStore interface {
	Create(ctx context.Context, acc *domain.Account) error
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)
	GetByEmailForUpdate(ctx context.Context, email string) (*domain.Account, error)
	GetByUsername(ctx context.Context, username string) (*domain.Account, error)
	Update(ctx context.Context, acc *domain.Account) error
}

type credentialStore interface {
	UpsertPassword(ctx context.Context, c *domain.PasswordCredential) error
	GetPasswordByAccountID(ctx context.Context, accountID uuid.UUID) (*domain.PasswordCredential, error)
}

type gormStoreAdapter struct {
	store *store.Store
}

func (g gormStoreAdapter) WithTx(ctx context.Context, fn func(tx storeTx) error) error {
	if g.store == nil {
		return errors.New("nil store")
	}
	return g.store.WithTx(ctx, func(tx *store.Store) error {
		return fn(gormTxAdapter{tx: tx})
	})
}

type gormTxAdapter struct {
	tx *store.Store
}

func (g gormTxAdapter) Accounts() accountStore { return g.tx.Accounts() }

func (g gormTxAdapter) Credentials() credentialStore { return g.tx.Credentials() }

func (a *AuthServiceImpl) Signup(ctx context.Context, r dto.SignupRequest) (*dto.AccountResponse, error) {
	result := "success"
	defer func() {
		metrics.SignupsTotal.WithLabelValues(result).Inc()
	}()

	if r.Email == "" || r.Username == "" || r.Password == "" {
		result = "failure"
		return nil, ErrEmptyCredential
	}
	if len(r.Password) < 8 {
		result = "failure"
		return nil, ErrPasswordLength
	}
	email := normalizeEmail(r.Email)

	// Hash and generate before the transaction; neither touches shared state.
	hash, salt, paramsJSON, algo, ver, err := a.PasswordService.Hash(r.Password)
	if err != nil {
		result = "failure"
		return nil, err
	}
	code, err := a.Codes.Generate()
	if err != nil {
		result = "failure"
		return nil, err
	}

	var out dto.AccountResponse

	err = a.Store.WithTx(ctx, func(tx storeTx) error {
		now := a.Now()

		acc := &domain.Account{
			ID:        uuid.New(),
			Email:     email,
			Username:  r.Username,
			Verified:  false, // stays false until VerifyAccount succeeds
			CreatedAt: now,
			UpdatedAt: now,
		}
		acc.SetVerificationCode(code, now.Add(a.CodeTTL))

		// Both email and username carry unique indexes; check the username
		// up front so a taken name is not misreported as a taken email.
		if _, err := tx.Accounts().GetByUsername(ctx, r.Username); err == nil {
			return domain.ErrDuplicateUsername
		} else if !errors.Is(err, store.ErrRecordNotFound) {
			return storageErr(err)
		}

		// Concurrent signups on one email race here; the unique index on
		// accounts.email lets exactly one transaction win.
		if err := tx.Accounts().Create(ctx, acc); err != nil {
			if errors.Is(err, store.ErrDuplicateKey) {
				return domain.ErrDuplicateEmail
			}
			return storageErr(err)
		}

		cred := &domain.PasswordCredential{
			ID:          uuid.New(),
			AccountID:   acc.ID,
			Algo:        algo,
			Hash:        hash,
			Salt:        salt,
			ParamsJSON:  paramsJSON,
			PasswordVer: ver,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := tx.Credentials().UpsertPassword(ctx, cred); err != nil {
			return storageErr(err)
		}

		out = dto.AccountResponse{
			ID:        acc.ID.String(),
			Email:     acc.Email,
			Username:  acc.Username,
			Verified:  acc.Verified,
			CreatedAt: acc.CreatedAt,
		}
		return nil
	})

	if err != nil {
		result = "failure"
		return nil, err
	}

	a.deliverCode(ctx, email, code)
	return &out, nil
}

func (a *AuthServiceImpl) VerifyAccount(ctx context.Context, r dto.VerifyRequest) error {
	result := "success"
	defer func() {
		metrics.VerificationsTotal.WithLabelValues("verify", result).Inc()
	}()

	if r.Email == "" {
		result = "failure"
		return ErrEmptyEmail
	}
	email := normalizeEmail(r.Email)

	err := a.Store.WithTx(ctx, func(tx storeTx) error {
		acc, err := a.getByEmailForUpdate(ctx, tx, email)
		if err != nil {
			return err
		}
		if acc.Verified {
			return domain.ErrAlreadyVerified
		}
		if acc.CodeExpired(a.Now()) {
			return domain.ErrCodeExpired
		}
		// Exact match, no normalization of the submitted code.
		if acc.VerificationCode == nil || *acc.VerificationCode != r.Code {
			return domain.ErrInvalidCode
		}
		acc.MarkVerified()
		acc.UpdatedAt = a.Now()
		return storageErr(tx.Accounts().Update(ctx, acc))
	})

	if err != nil {
		result = "failure"
		return err
	}

	reqID := middleware.RequestIDFromContext(ctx)
	slog.Info("account verified", "email", email, "request_id", reqID)
	return nil
}

func (a *AuthServiceImpl) ResendVerification(ctx context.Context, email string) error {
	result := "success"
	defer func() {
		metrics.VerificationsTotal.WithLabelValues("resend", result).Inc()
	}()

	if email == "" {
		result = "failure"
		return ErrEmptyEmail
	}
	email = normalizeEmail(email)

	code, err := a.Codes.Generate()
	if err != nil {
		result = "failure"
		return err
	}

	err = a.Store.WithTx(ctx, func(tx storeTx) error {
		acc, err := a.getByEmailForUpdate(ctx, tx, email)
		if err != nil {
			return err
		}
		if acc.Verified {
			return domain.ErrAlreadyVerified
		}
		acc.SetVerificationCode(code, a.Now().Add(a.CodeTTL))
		acc.UpdatedAt = a.Now()
		return storageErr(tx.Accounts().Update(ctx, acc))
	})

	if err != nil {
		result = "failure"
		return err
	}

	a.deliverCode(ctx, email, code)
	return nil
}

func (a *AuthServiceImpl) Login(ctx context.Context, r dto.LoginRequest) (*dto.TokenResponse, error) {
	result := "success"
	defer func() {
		metrics.LoginsTotal.WithLabelValues(result).Inc()
	}()

	if r.Email == "" || r.Password == "" {
		result = "failure"
		return nil, ErrEmptyCredential
	}
	email := normalizeEmail(r.Email)

	// A tx because a policy rehash writes the credential back.
	var tokens *dto.TokenResponse

	err := a.Store.WithTx(ctx, func(tx storeTx) error {
		acc, err := a.getByEmail(ctx, tx, email)
		if err != nil {
			return err
		}
		// Verification gates everything; credentials are not even checked.
		if !acc.Verified {
			return domain.ErrAccountNotVerified
		}

		cred, err := tx.Credentials().GetPasswordByAccountID(ctx, acc.ID)
		if err != nil {
			if errors.Is(err, store.ErrRecordNotFound) {
				return domain.ErrInvalidCredentials
			}
			return storageErr(err)
		}

		rehashNeeded, ok := a.PasswordService.Verify(r.Password, cred)
		if !ok {
			return domain.ErrInvalidCredentials
		}

		// Transparent rehash on policy upgrade.
		if rehashNeeded {
			newHash, newSalt, newParamsJSON, algo, ver, err := a.PasswordService.Hash(r.Password)
			if err != nil {
				return err
			}
			cred.Algo = algo
			cred.Hash = newHash
			cred.Salt = newSalt
			cred.ParamsJSON = newParamsJSON
			cred.PasswordVer = ver
			cred.UpdatedAt = a.Now()
			if err := tx.Credentials().UpsertPassword(ctx, cred); err != nil {
				return storageErr(err)
			}
		}

		tr, err := a.TService.Issue(ctx, acc, nil)
		if err != nil {
			return err
		}
		tokens = tr
		return nil
	})

	if err != nil {
		result = "failure"
		return nil, err
	}
	return tokens, nil
}

func (a *AuthServiceImpl) getByEmail(ctx context.Context, tx storeTx, email string) (*domain.Account, error) {
	acc, err := tx.Accounts().GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, storageErr(err)
	}
	return acc, nil
}

// getByEmailForUpdate is the locking read used by verification-state
// transitions, so two requests on one account cannot act on a stale row.
func (a *AuthServiceImpl) getByEmailForUpdate(ctx context.Context, tx storeTx, email string) (*domain.Account, error) {
	acc, err := tx.Accounts().GetByEmailForUpdate(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, storageErr(err)
	}
	return acc, nil
}

// deliverCode hands the code to the mailer after the transaction committed.
// Delivery failure is logged, not surfaced; the caller can hit resend.
func (a *AuthServiceImpl) deliverCode(ctx context.Context, email, code string) {
	if a.Mail == nil {
		return
	}
	if err := a.Mail.SendVerificationCode(ctx, email, code); err != nil {
		reqID := middleware.RequestIDFromContext(ctx)
		slog.Warn("verification mail delivery failed", "email", email, "error", err, "request_id", reqID)
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func storageErr(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
}
