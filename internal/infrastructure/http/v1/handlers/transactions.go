package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"folio/internal/core/apperror"
	"folio/internal/core/id"
	"folio/internal/domain/ledger"
	"folio/internal/infrastructure/http/v1/dto"
)

// TransactionHandler handles ledger transaction endpoints: composing,
// payments, compound movements, obligations and reconciliation.
type TransactionHandler struct {
	*BaseHandler
	service *ledger.Service
}

// NewTransactionHandler creates a new transaction handler.
func NewTransactionHandler(base *BaseHandler, service *ledger.Service) *TransactionHandler {
	return &TransactionHandler{
		BaseHandler: base,
		service:     service,
	}
}

// RegisterRoutes wires the ledger routes onto a group.
func (h *TransactionHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.POST("", h.Create)
	rg.GET("/:id", h.Get)
	rg.POST("/:id/payments", h.RegisterPayment)
	rg.POST("/:id/reconcile", h.Reconcile)
	rg.POST("/:id/deactivate", h.Deactivate)

	rg.POST("/deposits", h.CreateDeposit)
	rg.POST("/transfers", h.CreateTransfer)
	rg.POST("/:id/deactivate-movement", h.DeactivateMovement)

	rg.POST("/obligations", h.CreateObligation)
	rg.PUT("/obligations/:id", h.UpdateObligation)
}

// List handles GET /transactions
func (h *TransactionHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	filter, ok := h.parseFilter(c)
	if !ok {
		return
	}

	result, err := h.service.List(ctx, filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ListResponse{
		Items:      result.Items,
		TotalCount: result.TotalCount,
		Limit:      result.Limit,
		Offset:     result.Offset,
	})
}

// Create handles POST /transactions
func (h *TransactionHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.CreateTransactionRequest
	if !h.BindJSON(c, &req) {
		return
	}

	t, err := h.service.CreateWithDetails(ctx, req.ToInput())
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, t)
}

// Get handles GET /transactions/:id
func (h *TransactionHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()

	transactionID, ok := h.parseID(c)
	if !ok {
		return
	}

	t, err := h.service.GetByID(ctx, transactionID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, t)
}

// RegisterPayment handles POST /transactions/:id/payments
func (h *TransactionHandler) RegisterPayment(c *gin.Context) {
	ctx := c.Request.Context()

	transactionID, ok := h.parseID(c)
	if !ok {
		return
	}

	var req dto.RegisterPaymentRequest
	if !h.BindJSON(c, &req) {
		return
	}

	payment, err := h.service.RegisterPayment(ctx, transactionID, req.ToInput())
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, payment)
}

// Reconcile handles POST /transactions/:id/reconcile
func (h *TransactionHandler) Reconcile(c *gin.Context) {
	ctx := c.Request.Context()

	transactionID, ok := h.parseID(c)
	if !ok {
		return
	}

	var req dto.ReconcileRequest
	if !h.BindJSON(c, &req) {
		return
	}
	if req.ReconciledAt.IsZero() {
		req.ReconciledAt = time.Now().UTC()
	}

	if err := h.service.ReconcileTransaction(ctx, transactionID, req.ReconciledAt); err != nil {
		h.Error(c, err)
		return
	}

	h.Success(c, "transaction reconciled")
}

// Deactivate handles POST /transactions/:id/deactivate
func (h *TransactionHandler) Deactivate(c *gin.Context) {
	ctx := c.Request.Context()

	transactionID, ok := h.parseID(c)
	if !ok {
		return
	}

	if err := h.service.DeactivateTransaction(ctx, transactionID); err != nil {
		h.Error(c, err)
		return
	}

	h.Success(c, "transaction deactivated")
}

// CreateDeposit handles POST /transactions/deposits
func (h *TransactionHandler) CreateDeposit(c *gin.Context) {
	h.createMovement(c, h.service.CreateBankDeposit)
}

// CreateTransfer handles POST /transactions/transfers
func (h *TransactionHandler) CreateTransfer(c *gin.Context) {
	h.createMovement(c, h.service.CreateBankTransfer)
}

func (h *TransactionHandler) createMovement(
	c *gin.Context,
	create func(ctx context.Context, in ledger.MovementInput) (*ledger.MovementPair, error),
) {
	ctx := c.Request.Context()

	var req dto.MovementRequest
	if !h.BindJSON(c, &req) {
		return
	}

	pair, err := create(ctx, req.ToInput())
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, pair)
}

// DeactivateMovement handles POST /transactions/:id/deactivate-movement
func (h *TransactionHandler) DeactivateMovement(c *gin.Context) {
	ctx := c.Request.Context()

	transactionID, ok := h.parseID(c)
	if !ok {
		return
	}

	if err := h.service.DeactivateMovementGroup(ctx, transactionID); err != nil {
		h.Error(c, err)
		return
	}

	h.Success(c, "movement deactivated")
}

// CreateObligation handles POST /transactions/obligations
func (h *TransactionHandler) CreateObligation(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.CreateObligationRequest
	if !h.BindJSON(c, &req) {
		return
	}

	t, err := h.service.CreateInternalObligation(ctx, req.ToInput())
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, t)
}

// UpdateObligation handles PUT /transactions/obligations/:id
func (h *TransactionHandler) UpdateObligation(c *gin.Context) {
	ctx := c.Request.Context()

	obligationID, ok := h.parseID(c)
	if !ok {
		return
	}

	var req dto.UpdateObligationRequest
	if !h.BindJSON(c, &req) {
		return
	}

	t, err := h.service.UpdateInternalObligation(ctx, obligationID, req.Total, req.Description)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, t)
}

func (h *TransactionHandler) parseID(c *gin.Context) (id.ID, bool) {
	transactionID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return id.Nil(), false
	}
	return transactionID, true
}

func (h *TransactionHandler) parseFilter(c *gin.Context) (ledger.Filter, bool) {
	filter := ledger.Filter{
		OrderBy: c.Query("orderBy"),
		Limit:   h.ParseIntQuery(c, "limit", 50),
		Offset:  h.ParseIntQuery(c, "offset", 0),
	}

	for _, raw := range c.QueryArray("type") {
		t := parseTransactionType(raw)
		if t == 0 {
			h.Error(c, apperror.NewValidation("unknown transaction type").WithDetail("type", raw))
			return filter, false
		}
		filter.Types = append(filter.Types, t)
	}

	if v := c.Query("isActive"); v != "" {
		active := v == "true"
		filter.IsActive = &active
	}
	if v := c.Query("isReconciled"); v != "" {
		reconciled := v == "true"
		filter.IsReconciled = &reconciled
	}
	filter.OnlyWithBalance = c.Query("onlyWithBalance") == "true"

	for param, target := range map[string]**id.ID{
		"personId":      &filter.PersonID,
		"paymentFormId": &filter.PaymentFormID,
		"projectId":     &filter.ProjectID,
	} {
		if v := c.Query(param); v != "" {
			parsed, err := id.Parse(v)
			if err != nil {
				h.Error(c, apperror.NewValidation("invalid id format").WithDetail("param", param))
				return filter, false
			}
			*target = &parsed
		}
	}

	for param, target := range map[string]**time.Time{
		"dateFrom": &filter.DateFrom,
		"dateTo":   &filter.DateTo,
	} {
		if v := c.Query(param); v != "" {
			parsed, err := time.Parse("2006-01-02", v)
			if err != nil {
				h.Error(c, apperror.NewValidation("invalid date format, expected YYYY-MM-DD").WithDetail("param", param))
				return filter, false
			}
			*target = &parsed
		}
	}

	return filter, true
}

// parseTransactionType accepts both numeric and symbolic type names.
func parseTransactionType(raw string) ledger.Type {
	switch raw {
	case "1", "sale":
		return ledger.TypeSale
	case "2", "expense":
		return ledger.TypeExpense
	case "3", "income":
		return ledger.TypeIncome
	case "4", "purchase":
		return ledger.TypePurchase
	case "5", "outgoing_payment":
		return ledger.TypeOutgoingPayment
	case "6", "incoming_payment":
		return ledger.TypeIncomingPayment
	}
	return 0
}
