package domain

import "time"

// Account is the registered user's identity and verification record.
// VerificationCode and VerificationCodeExpiresAt are both nil or both set;
// a verified account always has both nil.
type Account struct {
	ID                        AccountID  `gorm:"type:uuid;primaryKey" db:"id" json:"id"`
	Email                     string     `gorm:"type:citext;uniqueIndex:ux_accounts_email" db:"email" json:"email"`
	Username                  string     `gorm:"type:citext;uniqueIndex:ux_accounts_username" db:"username" json:"username"`
	Verified                  bool       `gorm:"not null;default:false" db:"verified" json:"verified"`
	VerificationCode          *string    `gorm:"type:text" db:"verification_code" json:"-"`
	VerificationCodeExpiresAt *time.Time `db:"verification_code_expires_at" json:"-"`
	CreatedAt                 time.Time  `gorm:"not null" db:"created_at" json:"createdAt"`
	UpdatedAt                 time.Time  `gorm:"not null" db:"updated_at" json:"updatedAt"`
}

func (Account) TableName() string { return "accounts" }

// SetVerificationCode arms a pending verification. Expiry is exclusive:
// the code is usable only strictly before expiresAt.
func (a *Account) SetVerificationCode(code string, expiresAt time.Time) {
	a.VerificationCode = &code
	a.VerificationCodeExpiresAt = &expiresAt
}

// MarkVerified flips the account to verified and clears the pending code.
func (a *Account) MarkVerified() {
	a.Verified = true
	a.VerificationCode = nil
	a.VerificationCodeExpiresAt = nil
}

// CodeExpired reports whether the pending code is unusable at instant now.
// A missing expiry counts as expired so a half-cleared row can never verify.
func (a *Account) CodeExpired(now time.Time) bool {
	return a.VerificationCodeExpiresAt == nil || !now.Before(*a.VerificationCodeExpiresAt)
}
