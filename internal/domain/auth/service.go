package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"folio/internal/core/account"
	"folio/internal/core/apperror"
	appctx "folio/internal/core/context"
	"folio/internal/core/id"
	"folio/internal/core/tx"
	"folio/pkg/logger"
)

// ServiceConfig holds auth service configuration.
type ServiceConfig struct {
	MaxLoginAttempts  int
	LockDuration      time.Duration
	PasswordMinLength int
	InvitationTTL     time.Duration
}

// DefaultServiceConfig returns default configuration.
func DefaultServiceConfig() ServiceConfig {
	return ServiceConfig{
		MaxLoginAttempts:  5,
		LockDuration:      15 * time.Minute,
		PasswordMinLength: 8,
		InvitationTTL:     7 * 24 * time.Hour,
	}
}

// RegisterRequest opens a new account with its first (admin) user.
type RegisterRequest struct {
	AccountName string `json:"accountName"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	FirstName   string `json:"firstName,omitempty"`
	LastName    string `json:"lastName,omitempty"`
}

// Service provides account registration, login and invitations.
type Service struct {
	accounts    AccountRepository
	users       UserRepository
	invitations InvitationRepository
	seeder      ConceptSeeder
	txManager   tx.Manager
	jwtService  *JWTService
	config      ServiceConfig
}

// NewService creates a new auth service.
func NewService(
	accounts AccountRepository,
	users UserRepository,
	invitations InvitationRepository,
	seeder ConceptSeeder,
	txManager tx.Manager,
	jwtService *JWTService,
	config ServiceConfig,
) *Service {
	return &Service{
		accounts:    accounts,
		users:       users,
		invitations: invitations,
		seeder:      seeder,
		txManager:   txManager,
		jwtService:  jwtService,
		config:      config,
	}
}

// Register creates the account, its admin user and the two system
// payment concepts in one database transaction.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*TokenResult, error) {
	if req.AccountName == "" {
		return nil, apperror.NewValidation("account name is required").WithDetail("field", "accountName")
	}
	if err := s.validateCredentials(req.Email, req.Password); err != nil {
		return nil, err
	}

	email := normalizeEmail(req.Email)
	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("check email exists: %w", err)
	}
	if exists {
		return nil, apperror.NewConflict("email already registered").WithDetail("email", email)
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	acc := NewAccount(req.AccountName)
	user := NewUser(acc.ID, email, string(passwordHash))
	user.FirstName = req.FirstName
	user.LastName = req.LastName
	user.IsAdmin = true

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.accounts.Create(ctx, acc); err != nil {
			return fmt.Errorf("create account: %w", err)
		}
		if err := s.users.Create(ctx, user); err != nil {
			return fmt.Errorf("create user: %w", err)
		}
		// Every account needs its payment sentinels before the first
		// payment is registered.
		if err := s.seeder.SeedSystemConcepts(ctx, acc.ID); err != nil {
			return fmt.Errorf("seed system concepts: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "account registered",
		"account_id", acc.ID.String(),
		"user_id", user.ID.String(),
		"email", user.Email,
	)

	return s.issueToken(user)
}

// Login authenticates a user and returns an access token.
func (s *Service) Login(ctx context.Context, creds Credentials) (*TokenResult, error) {
	user, err := s.users.GetByEmail(ctx, normalizeEmail(creds.Email))
	if err != nil {
		return nil, apperror.NewUnauthorized("invalid credentials")
	}
	if err := user.CanLogin(); err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(creds.Password)); err != nil {
		user.RecordFailedLogin(s.config.MaxLoginAttempts, s.config.LockDuration)
		_ = s.users.Update(ctx, user)
		return nil, apperror.NewUnauthorized("invalid credentials")
	}

	user.RecordSuccessfulLogin()
	_ = s.users.Update(ctx, user)

	logger.Info(ctx, "user logged in",
		"user_id", user.ID.String(),
		"email", user.Email,
	)

	return s.issueToken(user)
}

// Invite creates an invitation for the caller's account and returns it
// together with the raw token (delivered out of band).
func (s *Service) Invite(ctx context.Context, email string) (*Invitation, string, error) {
	caller := appctx.GetUser(ctx)
	if caller == nil || !caller.IsAdmin {
		return nil, "", apperror.NewForbidden("only admins can invite users")
	}
	accountID, err := account.GetID(ctx)
	if err != nil {
		return nil, "", err
	}
	invitedBy, err := id.Parse(caller.UserID)
	if err != nil {
		return nil, "", apperror.NewUnauthorized("invalid user identity")
	}

	email = normalizeEmail(email)
	if email == "" {
		return nil, "", apperror.NewValidation("email is required").WithDetail("field", "email")
	}
	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, "", fmt.Errorf("check email exists: %w", err)
	}
	if exists {
		return nil, "", apperror.NewConflict("email already registered").WithDetail("email", email)
	}

	inv, token, err := NewInvitation(accountID, email, invitedBy, s.config.InvitationTTL)
	if err != nil {
		return nil, "", err
	}

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.invitations.Create(ctx, inv)
	})
	if err != nil {
		return nil, "", fmt.Errorf("create invitation: %w", err)
	}

	logger.Info(ctx, "user invited",
		"invitation_id", inv.ID.String(),
		"email", email,
	)
	return inv, token, nil
}

// AcceptInvitation redeems a raw invitation token and creates the user
// inside the inviting account.
func (s *Service) AcceptInvitation(ctx context.Context, token, password, firstName, lastName string) (*TokenResult, error) {
	inv, err := s.invitations.GetByTokenHash(ctx, HashToken(token))
	if err != nil {
		return nil, apperror.NewUnauthorized("invalid invitation token")
	}
	if !inv.IsValid() {
		return nil, apperror.NewUnauthorized("invitation expired or already used")
	}
	if err := s.validateCredentials(inv.Email, password); err != nil {
		return nil, err
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := NewUser(inv.AccountID, inv.Email, string(passwordHash))
	user.FirstName = firstName
	user.LastName = lastName

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.users.Create(ctx, user); err != nil {
			return fmt.Errorf("create user: %w", err)
		}
		if err := s.invitations.MarkAccepted(ctx, inv.ID); err != nil {
			return fmt.Errorf("mark invitation accepted: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "invitation accepted",
		"invitation_id", inv.ID.String(),
		"user_id", user.ID.String(),
	)

	return s.issueToken(user)
}

// GetUserByID loads a user profile.
func (s *Service) GetUserByID(ctx context.Context, userID id.ID) (*User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, apperror.NewNotFound("user", userID.String())
	}
	return user, nil
}

// ListUsers lists the caller's account members.
func (s *Service) ListUsers(ctx context.Context) ([]User, error) {
	accountID, err := account.GetID(ctx)
	if err != nil {
		return nil, err
	}
	return s.users.ListByAccount(ctx, accountID)
}

func (s *Service) issueToken(user *User) (*TokenResult, error) {
	token, expiresAt, err := s.jwtService.GenerateAccessToken(
		user.ID.String(), user.AccountID.String(), user.Email, user.IsAdmin)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}
	return &TokenResult{
		AccessToken: token,
		ExpiresAt:   expiresAt,
		TokenType:   "Bearer",
		User:        user,
	}, nil
}

func (s *Service) validateCredentials(email, password string) error {
	if email == "" {
		return apperror.NewValidation("email is required").WithDetail("field", "email")
	}
	if len(password) < s.config.PasswordMinLength {
		return apperror.NewValidation(
			fmt.Sprintf("password must be at least %d characters", s.config.PasswordMinLength),
		).WithDetail("field", "password")
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
