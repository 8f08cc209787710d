package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"folio/internal/core/apperror"
	"folio/internal/core/id"
	"folio/internal/domain/budget"
	"folio/internal/infrastructure/http/v1/dto"
)

// BudgetHandler handles budget endpoints.
type BudgetHandler struct {
	*BaseHandler
	service *budget.Service
}

// NewBudgetHandler creates a new budget handler.
func NewBudgetHandler(base *BaseHandler, service *budget.Service) *BudgetHandler {
	return &BudgetHandler{
		BaseHandler: base,
		service:     service,
	}
}

// RegisterRoutes wires the budget routes onto a group.
func (h *BudgetHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.POST("", h.Create)
	rg.GET("/:id", h.Get)
	rg.PUT("/:id", h.Update)
	rg.POST("/:id/deletion-mark", h.SetDeletionMark)
}

// List handles GET /budgets
func (h *BudgetHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	filter := budget.Filter{
		Limit:  h.ParseIntQuery(c, "limit", 50),
		Offset: h.ParseIntQuery(c, "offset", 0),
	}

	if v := c.Query("projectId"); v != "" {
		projectID, err := id.Parse(v)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid projectId format"))
			return
		}
		filter.ProjectID = &projectID
	}
	if v := c.Query("activeOn"); v != "" {
		activeOn, err := time.Parse("2006-01-02", v)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid activeOn format, expected YYYY-MM-DD"))
			return
		}
		filter.ActiveOn = &activeOn
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

// Create handles POST /budgets
func (h *BudgetHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.BudgetRequest
	if !h.BindJSON(c, &req) {
		return
	}

	b, err := h.service.Create(ctx, req.ToInput())
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, b)
}

// Get handles GET /budgets/:id
func (h *BudgetHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()

	budgetID, ok := h.parseID(c)
	if !ok {
		return
	}

	b, err := h.service.GetByID(ctx, budgetID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, b)
}

// Update handles PUT /budgets/:id
func (h *BudgetHandler) Update(c *gin.Context) {
	ctx := c.Request.Context()

	budgetID, ok := h.parseID(c)
	if !ok {
		return
	}

	var req dto.BudgetRequest
	if !h.BindJSON(c, &req) {
		return
	}

	b, err := h.service.Update(ctx, budgetID, req.ToInput())
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, b)
}

// SetDeletionMark handles POST /budgets/:id/deletion-mark
func (h *BudgetHandler) SetDeletionMark(c *gin.Context) {
	ctx := c.Request.Context()

	budgetID, ok := h.parseID(c)
	if !ok {
		return
	}

	var req dto.SetDeletionMarkRequest
	if !h.BindJSON(c, &req) {
		return
	}

	if err := h.service.SetDeletionMark(ctx, budgetID, req.Marked); err != nil {
		h.Error(c, err)
		return
	}

	h.Success(c, "deletion mark updated")
}

func (h *BudgetHandler) parseID(c *gin.Context) (id.ID, bool) {
	budgetID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return id.Nil(), false
	}
	return budgetID, true
}
