package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"folio/internal/core/apperror"
	"folio/internal/core/id"
	"folio/internal/domain/reports"
)

// ReportsHandler handles report endpoints.
type ReportsHandler struct {
	*BaseHandler
	service *reports.Service
}

// NewReportsHandler creates a new reports handler.
func NewReportsHandler(base *BaseHandler, service *reports.Service) *ReportsHandler {
	return &ReportsHandler{
		BaseHandler: base,
		service:     service,
	}
}

// RegisterRoutes wires the report routes onto a group.
func (h *ReportsHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/bank-reconciliation", h.BankReconciliation)
	rg.GET("/budget-execution/:budgetId", h.BudgetExecution)
}

// BankReconciliation handles GET /reports/bank-reconciliation
func (h *ReportsHandler) BankReconciliation(c *gin.Context) {
	ctx := c.Request.Context()

	paymentFormID, err := id.Parse(c.Query("paymentFormId"))
	if err != nil {
		h.Error(c, apperror.NewValidation("paymentFormId is required"))
		return
	}

	dateFrom, ok := h.parseDateQuery(c, "dateFrom", true)
	if !ok {
		return
	}
	dateTo, ok := h.parseDateQuery(c, "dateTo", true)
	if !ok {
		return
	}

	result, err := h.service.BankReconciliation(ctx, reports.ReconciliationFilter{
		PaymentFormID: paymentFormID,
		DateFrom:      *dateFrom,
		DateTo:        *dateTo,
	})
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// BudgetExecution handles GET /reports/budget-execution/:budgetId
func (h *ReportsHandler) BudgetExecution(c *gin.Context) {
	ctx := c.Request.Context()

	budgetID, err := id.Parse(c.Param("budgetId"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid budgetId format"))
		return
	}

	overrides := reports.ExecutionOverrides{}

	var ok bool
	if overrides.DateFrom, ok = h.parseDateQuery(c, "dateFrom", false); !ok {
		return
	}
	if overrides.DateTo, ok = h.parseDateQuery(c, "dateTo", false); !ok {
		return
	}
	if v := c.Query("projectId"); v != "" {
		projectID, err := id.Parse(v)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid projectId format"))
			return
		}
		overrides.ProjectID = &projectID
	}

	result, err := h.service.BudgetExecution(ctx, budgetID, overrides)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *ReportsHandler) parseDateQuery(c *gin.Context, key string, required bool) (*time.Time, bool) {
	v := c.Query(key)
	if v == "" {
		if required {
			h.Error(c, apperror.NewValidation(key+" is required"))
			return nil, false
		}
		return nil, true
	}
	parsed, err := time.Parse("2006-01-02", v)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid date format, expected YYYY-MM-DD").WithDetail("param", key))
		return nil, false
	}
	return &parsed, true
}
