package auth

import (
	"context"

	"folio/internal/core/id"
)

// AccountRepository persists tenant accounts.
type AccountRepository interface {
	Create(ctx context.Context, account *Account) error
	GetByID(ctx context.Context, accountID id.ID) (*Account, error)
}

// UserRepository persists users. Email lookup is global: an email
// belongs to at most one account.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, userID id.ID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Update(ctx context.Context, user *User) error
	ListByAccount(ctx context.Context, accountID id.ID) ([]User, error)
}

// InvitationRepository persists invitations, looked up by token hash.
type InvitationRepository interface {
	Create(ctx context.Context, inv *Invitation) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*Invitation, error)
	MarkAccepted(ctx context.Context, invitationID id.ID) error
}

// ConceptSeeder creates the account's system payment concepts during
// registration. Implemented by the concept repository.
type ConceptSeeder interface {
	SeedSystemConcepts(ctx context.Context, accountID id.ID) error
}
