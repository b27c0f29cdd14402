package store

import (
	"context"

	"accountd/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AccountStore struct{ db *gorm.DB }

func (s *Store) Accounts() *AccountStore { return &AccountStore{db: s.DB} }

func (a *AccountStore) Create(ctx context.Context, acc *domain.Account) error {
	if acc.ID == uuid.Nil {
		acc.ID = uuid.New()
	}
	return translate(a.db.WithContext(ctx).Create(acc).Error)
}

func (a *AccountStore) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	var acc domain.Account
	if err := a.db.WithContext(ctx).First(&acc, "email = ?", email).Error; err != nil {
		return nil, translate(err)
	}
	return &acc, nil
}

// GetByEmailForUpdate locks the row for the rest of the transaction, so
// verification-state transitions on one email serialize instead of racing
// a stale read past each other.
func (a *AccountStore) GetByEmailForUpdate(ctx context.Context, email string) (*domain.Account, error) {
	var acc domain.Account
	if err := a.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&acc, "email = ?", email).Error; err != nil {
		return nil, translate(err)
	}
	return &acc, nil
}

func (a *AccountStore) GetByUsername(ctx context.Context, username string) (*domain.Account, error) {
	var acc domain.Account
	if err := a.db.WithContext(ctx).First(&acc, "username = ?", username).Error; err != nil {
		return nil, translate(err)
	}
	return &acc, nil
}

// Update persists the mutable account fields. Verification columns are listed
// explicitly so clearing them writes NULL instead of being skipped as zero
// values. UpdatedAt comes from the caller, which owns the clock.
func (a *AccountStore) Update(ctx context.Context, acc *domain.Account) error {
	return translate(a.db.WithContext(ctx).Model(&domain.Account{}).
		Where("id = ?", acc.ID).
		Select("username", "verified", "verification_code", "verification_code_expires_at", "updated_at").
		Updates(acc).Error)
}
