// Package auth provides account registration, login and user invitations.
package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"folio/internal/core/apperror"
	"folio/internal/core/id"
)

// Account is the tenant: every ledger row is scoped to one account.
type Account struct {
	ID        id.ID     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	IsActive  bool      `db:"is_active" json:"isActive"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// NewAccount creates an active account.
func NewAccount(name string) *Account {
	now := time.Now().UTC()
	return &Account{
		ID:        id.New(),
		Name:      name,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// User belongs to exactly one account.
type User struct {
	ID                  id.ID      `db:"id" json:"id"`
	AccountID           id.ID      `db:"account_id" json:"-"`
	Email               string     `db:"email" json:"email"`
	PasswordHash        string     `db:"password_hash" json:"-"`
	FirstName           string     `db:"first_name" json:"firstName,omitempty"`
	LastName            string     `db:"last_name" json:"lastName,omitempty"`
	IsActive            bool       `db:"is_active" json:"isActive"`
	IsAdmin             bool       `db:"is_admin" json:"isAdmin"`
	LastLoginAt         *time.Time `db:"last_login_at" json:"lastLoginAt,omitempty"`
	FailedLoginAttempts int        `db:"failed_login_attempts" json:"-"`
	LockedUntil         *time.Time `db:"locked_until" json:"-"`
	CreatedAt           time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt           time.Time  `db:"updated_at" json:"updatedAt"`
	Version             int        `db:"version" json:"version"`
}

// NewUser creates an active user bound to an account.
func NewUser(accountID id.ID, email, passwordHash string) *User {
	now := time.Now().UTC()
	return &User{
		ID:           id.New(),
		AccountID:    accountID,
		Email:        email,
		PasswordHash: passwordHash,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
		Version:      1,
	}
}

// Validate checks user invariants.
func (u *User) Validate(ctx context.Context) error {
	if u.Email == "" {
		return apperror.NewValidation("email is required").WithDetail("field", "email")
	}
	if id.IsNil(u.AccountID) {
		return apperror.NewValidation("user account is required").WithDetail("field", "accountId")
	}
	return nil
}

// IsLocked returns true while the lockout window is open.
func (u *User) IsLocked() bool {
	if u.LockedUntil == nil {
		return false
	}
	return time.Now().Before(*u.LockedUntil)
}

// CanLogin checks the account state gates.
func (u *User) CanLogin() error {
	if !u.IsActive {
		return apperror.NewForbidden("account is disabled")
	}
	if u.IsLocked() {
		return apperror.NewForbidden("account is temporarily locked")
	}
	return nil
}

// RecordFailedLogin increments the failure counter and locks the user
// once the threshold is reached.
func (u *User) RecordFailedLogin(maxAttempts int, lockDuration time.Duration) {
	u.FailedLoginAttempts++
	if u.FailedLoginAttempts >= maxAttempts {
		lockUntil := time.Now().Add(lockDuration)
		u.LockedUntil = &lockUntil
	}
}

// RecordSuccessfulLogin resets the failure counter.
func (u *User) RecordSuccessfulLogin() {
	u.FailedLoginAttempts = 0
	u.LockedUntil = nil
	now := time.Now().UTC()
	u.LastLoginAt = &now
}

// FullName returns the display name, falling back to the email.
func (u *User) FullName() string {
	switch {
	case u.FirstName == "" && u.LastName == "":
		return u.Email
	case u.LastName == "":
		return u.FirstName
	case u.FirstName == "":
		return u.LastName
	}
	return u.FirstName + " " + u.LastName
}

// Invitation lets an existing admin bring a new user into the account.
// Only the SHA-256 of the token is stored; the raw token travels once,
// in the invitation email.
type Invitation struct {
	ID         id.ID      `db:"id" json:"id"`
	AccountID  id.ID      `db:"account_id" json:"-"`
	Email      string     `db:"email" json:"email"`
	TokenHash  string     `db:"token_hash" json:"-"`
	InvitedBy  id.ID      `db:"invited_by" json:"invitedBy"`
	ExpiresAt  time.Time  `db:"expires_at" json:"expiresAt"`
	AcceptedAt *time.Time `db:"accepted_at" json:"acceptedAt,omitempty"`
	CreatedAt  time.Time  `db:"created_at" json:"createdAt"`
}

// NewInvitation creates an invitation and returns the raw token.
func NewInvitation(accountID id.ID, email string, invitedBy id.ID, ttl time.Duration) (*Invitation, string, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return nil, "", apperror.NewInternal(err)
	}
	token := hex.EncodeToString(raw)

	now := time.Now().UTC()
	inv := &Invitation{
		ID:        id.New(),
		AccountID: accountID,
		Email:     email,
		TokenHash: HashToken(token),
		InvitedBy: invitedBy,
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
	}
	return inv, token, nil
}

// HashToken hashes an invitation token for storage and lookup.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// IsValid reports whether the invitation can still be accepted.
func (i *Invitation) IsValid() bool {
	return i.AcceptedAt == nil && time.Now().Before(i.ExpiresAt)
}

// Credentials for login.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenResult is issued on successful login or registration.
type TokenResult struct {
	AccessToken string    `json:"accessToken"`
	ExpiresAt   time.Time `json:"expiresAt"`
	TokenType   string    `json:"tokenType"`
	User        *User     `json:"user"`
}
