package dto

// RegisterRequest opens a new account with its first (admin) user.
type RegisterRequest struct {
	AccountName string `json:"accountName" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
}

// LoginRequest authenticates an existing user.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// InviteRequest invites a new user into the caller's account.
type InviteRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// InviteResponse returns the invitation and its one-time token.
type InviteResponse struct {
	InvitationID string `json:"invitationId"`
	Email        string `json:"email"`
	ExpiresAt    string `json:"expiresAt"`
	Token        string `json:"token"`
}

// AcceptInvitationRequest redeems an invitation token.
type AcceptInvitationRequest struct {
	Token     string `json:"token" binding:"required"`
	Password  string `json:"password" binding:"required"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}
