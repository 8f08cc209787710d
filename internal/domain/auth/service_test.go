package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"folio/internal/core/account"
	"folio/internal/core/apperror"
	appctx "folio/internal/core/context"
	"folio/internal/core/id"
)

type noopTxManager struct{}

func (noopTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type memStore struct {
	accounts    map[id.ID]*Account
	users       map[id.ID]*User
	invitations map[string]*Invitation
	seeded      []id.ID
}

func newMemStore() *memStore {
	return &memStore{
		accounts:    make(map[id.ID]*Account),
		users:       make(map[id.ID]*User),
		invitations: make(map[string]*Invitation),
	}
}

func (m *memStore) Create(ctx context.Context, acc *Account) error {
	m.accounts[acc.ID] = acc
	return nil
}

func (m *memStore) GetByID(ctx context.Context, accountID id.ID) (*Account, error) {
	acc, ok := m.accounts[accountID]
	if !ok {
		return nil, apperror.NewNotFound("account", accountID.String())
	}
	return acc, nil
}

type memUsers struct{ store *memStore }

func (m memUsers) Create(ctx context.Context, user *User) error {
	m.store.users[user.ID] = user
	return nil
}

func (m memUsers) GetByID(ctx context.Context, userID id.ID) (*User, error) {
	user, ok := m.store.users[userID]
	if !ok {
		return nil, apperror.NewNotFound("user", userID.String())
	}
	return user, nil
}

func (m memUsers) GetByEmail(ctx context.Context, email string) (*User, error) {
	for _, user := range m.store.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, apperror.NewNotFound("user", email)
}

func (m memUsers) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := m.GetByEmail(ctx, email)
	return err == nil, nil
}

func (m memUsers) Update(ctx context.Context, user *User) error {
	m.store.users[user.ID] = user
	return nil
}

func (m memUsers) ListByAccount(ctx context.Context, accountID id.ID) ([]User, error) {
	var out []User
	for _, user := range m.store.users {
		if user.AccountID == accountID {
			out = append(out, *user)
		}
	}
	return out, nil
}

type memInvitations struct{ store *memStore }

func (m memInvitations) Create(ctx context.Context, inv *Invitation) error {
	m.store.invitations[inv.TokenHash] = inv
	return nil
}

func (m memInvitations) GetByTokenHash(ctx context.Context, tokenHash string) (*Invitation, error) {
	inv, ok := m.store.invitations[tokenHash]
	if !ok {
		return nil, apperror.NewNotFound("invitation", tokenHash)
	}
	return inv, nil
}

func (m memInvitations) MarkAccepted(ctx context.Context, invitationID id.ID) error {
	for _, inv := range m.store.invitations {
		if inv.ID == invitationID {
			now := time.Now().UTC()
			inv.AcceptedAt = &now
			return nil
		}
	}
	return apperror.NewNotFound("invitation", invitationID.String())
}

type memSeeder struct{ store *memStore }

func (m memSeeder) SeedSystemConcepts(ctx context.Context, accountID id.ID) error {
	m.store.seeded = append(m.store.seeded, accountID)
	return nil
}

func newTestService() (*Service, *memStore) {
	store := newMemStore()
	svc := NewService(
		store,
		memUsers{store},
		memInvitations{store},
		memSeeder{store},
		noopTxManager{},
		NewJWTService(DefaultJWTConfig("test-secret")),
		DefaultServiceConfig(),
	)
	return svc, store
}

func register(t *testing.T, svc *Service) *TokenResult {
	t.Helper()
	result, err := svc.Register(context.Background(), RegisterRequest{
		AccountName: "Acme",
		Email:       "owner@acme.test",
		Password:    "correct-horse",
	})
	require.NoError(t, err)
	return result
}

func adminContext(user *User) context.Context {
	ctx := appctx.WithUser(context.Background(), &appctx.UserContext{
		UserID:    user.ID.String(),
		AccountID: user.AccountID.String(),
		Email:     user.Email,
		IsAdmin:   user.IsAdmin,
	})
	return account.WithID(ctx, user.AccountID)
}

func TestRegister_CreatesAccountAdminAndSeeds(t *testing.T) {
	svc, store := newTestService()

	result := register(t, svc)

	require.NotNil(t, result.User)
	assert.True(t, result.User.IsAdmin)
	assert.NotEmpty(t, result.AccessToken)
	assert.Len(t, store.accounts, 1)
	require.Len(t, store.seeded, 1)
	assert.Equal(t, result.User.AccountID, store.seeded[0])
}

func TestRegister_RejectsDuplicateEmail(t *testing.T) {
	svc, _ := newTestService()
	register(t, svc)

	_, err := svc.Register(context.Background(), RegisterRequest{
		AccountName: "Other",
		Email:       "Owner@Acme.Test", // same address, different case
		Password:    "correct-horse",
	})
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeConflict, appErr.Code)
}

func TestRegister_RejectsShortPassword(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Register(context.Background(), RegisterRequest{
		AccountName: "Acme",
		Email:       "owner@acme.test",
		Password:    "short",
	})
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestLogin_RoundTrip(t *testing.T) {
	svc, _ := newTestService()
	register(t, svc)

	result, err := svc.Login(context.Background(), Credentials{
		Email:    "owner@acme.test",
		Password: "correct-horse",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, result.AccessToken)

	// The token round-trips into a user context.
	jwtSvc := NewJWTService(DefaultJWTConfig("test-secret"))
	userCtx, err := jwtSvc.ValidateToken(result.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, result.User.ID.String(), userCtx.UserID)
	assert.Equal(t, result.User.AccountID.String(), userCtx.AccountID)
	assert.True(t, userCtx.IsAdmin)
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, _ := newTestService()
	register(t, svc)

	_, err := svc.Login(context.Background(), Credentials{
		Email:    "owner@acme.test",
		Password: "wrong",
	})
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeUnauthorized, appErr.Code)
}

func TestLogin_LocksAfterRepeatedFailures(t *testing.T) {
	svc, store := newTestService()
	result := register(t, svc)

	for i := 0; i < DefaultServiceConfig().MaxLoginAttempts; i++ {
		_, err := svc.Login(context.Background(), Credentials{
			Email:    "owner@acme.test",
			Password: "wrong",
		})
		require.Error(t, err)
	}

	assert.True(t, store.users[result.User.ID].IsLocked())

	// Even the right password is rejected while locked.
	_, err := svc.Login(context.Background(), Credentials{
		Email:    "owner@acme.test",
		Password: "correct-horse",
	})
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeForbidden, appErr.Code)
}

func TestInvite_AndAccept(t *testing.T) {
	svc, _ := newTestService()
	owner := register(t, svc)
	ctx := adminContext(owner.User)

	inv, token, err := svc.Invite(ctx, "new.hire@acme.test")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, owner.User.AccountID, inv.AccountID)

	result, err := svc.AcceptInvitation(context.Background(), token, "another-pass", "New", "Hire")
	require.NoError(t, err)
	assert.Equal(t, owner.User.AccountID, result.User.AccountID)
	assert.False(t, result.User.IsAdmin)

	// A used invitation cannot be redeemed again.
	_, err = svc.AcceptInvitation(context.Background(), token, "another-pass", "", "")
	require.Error(t, err)
}

func TestInvite_RequiresAdmin(t *testing.T) {
	svc, _ := newTestService()
	owner := register(t, svc)

	member := *owner.User
	member.IsAdmin = false
	_, _, err := svc.Invite(adminContext(&member), "someone@acme.test")
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeForbidden, appErr.Code)
}

func TestAcceptInvitation_BadToken(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.AcceptInvitation(context.Background(), "no-such-token", "password123", "", "")
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeUnauthorized, appErr.Code)
}

func TestListUsers_ScopedToAccount(t *testing.T) {
	svc, _ := newTestService()
	owner := register(t, svc)
	ctx := adminContext(owner.User)

	_, token, err := svc.Invite(ctx, "new.hire@acme.test")
	require.NoError(t, err)
	_, err = svc.AcceptInvitation(context.Background(), token, "another-pass", "", "")
	require.NoError(t, err)

	users, err := svc.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 2)
}
