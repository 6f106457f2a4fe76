package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-finance-tracker/internal/application"
	"github.com/oksasatya/go-finance-tracker/internal/domain/entity"
	"github.com/oksasatya/go-finance-tracker/internal/interface/middleware"
	"github.com/oksasatya/go-finance-tracker/pkg/response"
)

type DebtHandler struct {
	Debts  *application.DebtService
	Logger *logrus.Logger
}

func NewDebtHandler(svc *application.DebtService, logger *logrus.Logger) *DebtHandler {
	return &DebtHandler{Debts: svc, Logger: logger}
}

type debtRequest struct {
	Type        string  `json:"type" binding:"required,debttype"`
	PersonName  string  `json:"personName" binding:"required,max=100"`
	Amount      float64 `json:"amount" binding:"required,gt=0"`
	Description string  `json:"description" binding:"max=500"`
	Date        string  `json:"date"`
	DueDate     string  `json:"dueDate"`
}

func (h *DebtHandler) bind(c *gin.Context) (application.DebtInput, bool) {
	var req debtRequest
	if !bindJSON(c, &req) {
		return application.DebtInput{}, false
	}
	date, ok := parseDate(req.Date)
	due, dueOK := parseDate(req.DueDate)
	if !ok || !dueOK {
		response.Error[any](c, http.StatusBadRequest, "invalid date", nil)
		return application.DebtInput{}, false
	}
	in := application.DebtInput{
		Type:        entity.DebtType(req.Type),
		PersonName:  req.PersonName,
		Amount:      req.Amount,
		Description: req.Description,
		Date:        date,
	}
	if !due.IsZero() {
		in.DueDate = &due
	}
	return in, true
}

// List GET /api/v1/debts
func (h *DebtHandler) List(c *gin.Context) {
	debts, err := h.Debts.List(c.Request.Context(), c.GetString(middleware.CtxUserIDKey))
	if err != nil {
		response.FromError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, debts, "debts", gin.H{"count": len(debts)})
}

// Summary GET /api/v1/debts/summary
func (h *DebtHandler) Summary(c *gin.Context) {
	s, err := h.Debts.Summary(c.Request.Context(), c.GetString(middleware.CtxUserIDKey))
	if err != nil {
		response.FromError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, s, "debt summary", nil)
}

// Create POST /api/v1/debts
func (h *DebtHandler) Create(c *gin.Context) {
	in, ok := h.bind(c)
	if !ok {
		return
	}
	d, err := h.Debts.Create(c.Request.Context(), c.GetString(middleware.CtxUserIDKey), in)
	if err != nil {
		response.FromError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, d, "debt created", nil)
}

// Update PUT /api/v1/debts/:id
func (h *DebtHandler) Update(c *gin.Context) {
	in, ok := h.bind(c)
	if !ok {
		return
	}
	d, err := h.Debts.Update(c.Request.Context(), c.GetString(middleware.CtxUserIDKey), c.Param("id"), in)
	if err != nil {
		response.FromError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, d, "debt updated", nil)
}

// Settle PATCH /api/v1/debts/:id/settle
func (h *DebtHandler) Settle(c *gin.Context) {
	d, err := h.Debts.Settle(c.Request.Context(), c.GetString(middleware.CtxUserIDKey), c.Param("id"))
	if err != nil {
		response.FromError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, d, "debt settled", nil)
}

// Delete DELETE /api/v1/debts/:id
func (h *DebtHandler) Delete(c *gin.Context) {
	if err := h.Debts.Delete(c.Request.Context(), c.GetString(middleware.CtxUserIDKey), c.Param("id")); err != nil {
		response.FromError(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "debt deleted", nil)
}
