package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"folio/internal/core/apperror"
	appctx "folio/internal/core/context"
	"folio/internal/core/id"
	"folio/internal/domain/auth"
	"folio/internal/infrastructure/http/v1/dto"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	*BaseHandler
	service *auth.Service
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(base *BaseHandler, service *auth.Service) *AuthHandler {
	return &AuthHandler{
		BaseHandler: base,
		service:     service,
	}
}

// RegisterRoutes wires public and protected auth routes.
func (h *AuthHandler) RegisterRoutes(public, protected *gin.RouterGroup) {
	public.POST("/register", h.Register)
	public.POST("/login", h.Login)
	public.POST("/invitations/accept", h.AcceptInvitation)

	protected.GET("/me", h.Me)
	protected.GET("/users", h.ListUsers)
	protected.POST("/invitations", h.Invite)
}

// Register handles POST /auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.RegisterRequest
	if !h.BindJSON(c, &req) {
		return
	}

	result, err := h.service.Register(ctx, auth.RegisterRequest{
		AccountName: req.AccountName,
		Email:       req.Email,
		Password:    req.Password,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
	})
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, result)
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.LoginRequest
	if !h.BindJSON(c, &req) {
		return
	}

	result, err := h.service.Login(ctx, auth.Credentials{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Invite handles POST /auth/invitations
func (h *AuthHandler) Invite(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.InviteRequest
	if !h.BindJSON(c, &req) {
		return
	}

	inv, token, err := h.service.Invite(ctx, req.Email)
	if err != nil {
		h.Error(c, err)
		return
	}

	// The raw token is returned once; only its hash is stored.
	c.JSON(http.StatusCreated, dto.InviteResponse{
		InvitationID: inv.ID.String(),
		Email:        inv.Email,
		ExpiresAt:    inv.ExpiresAt.Format("2006-01-02T15:04:05Z07:00"),
		Token:        token,
	})
}

// AcceptInvitation handles POST /auth/invitations/accept
func (h *AuthHandler) AcceptInvitation(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.AcceptInvitationRequest
	if !h.BindJSON(c, &req) {
		return
	}

	result, err := h.service.AcceptInvitation(ctx, req.Token, req.Password, req.FirstName, req.LastName)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, result)
}

// Me handles GET /auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	ctx := c.Request.Context()

	userCtx := appctx.GetUser(ctx)
	if userCtx == nil {
		h.Error(c, apperror.NewUnauthorized("not authenticated"))
		return
	}

	userID, err := id.Parse(userCtx.UserID)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid user id"))
		return
	}

	user, err := h.service.GetUserByID(ctx, userID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// ListUsers handles GET /auth/users
func (h *AuthHandler) ListUsers(c *gin.Context) {
	ctx := c.Request.Context()

	users, err := h.service.ListUsers(ctx)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": users})
}
