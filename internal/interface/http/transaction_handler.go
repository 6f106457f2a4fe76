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

// maxReceiptSize caps multipart uploads for receipts.
const maxReceiptSize = 5 << 20

type TransactionHandler struct {
	Transactions *application.TransactionService
	Logger       *logrus.Logger
}

func NewTransactionHandler(svc *application.TransactionService, logger *logrus.Logger) *TransactionHandler {
	return &TransactionHandler{Transactions: svc, Logger: logger}
}

type transactionRequest struct {
	Type        string  `json:"type" binding:"required,txtype"`
	Amount      float64 `json:"amount" binding:"required,gt=0"`
	Category    string  `json:"category" binding:"required,max=50"`
	Description string  `json:"description" binding:"max=500"`
	Date        string  `json:"date"`
}

func (r transactionRequest) input() (application.TransactionInput, bool) {
	d, ok := parseDate(r.Date)
	return application.TransactionInput{
		Type:        entity.TransactionType(r.Type),
		Amount:      r.Amount,
		Category:    r.Category,
		Description: r.Description,
		Date:        d,
	}, ok
}

func (h *TransactionHandler) bind(c *gin.Context) (application.TransactionInput, bool) {
	var req transactionRequest
	if !bindJSON(c, &req) {
		return application.TransactionInput{}, false
	}
	in, ok := req.input()
	if !ok {
		response.Error[any](c, http.StatusBadRequest, "invalid date", nil)
		return in, false
	}
	return in, true
}

// List GET /api/v1/transactions
func (h *TransactionHandler) List(c *gin.Context) {
	txs, err := h.Transactions.List(c.Request.Context(), c.GetString(middleware.CtxUserIDKey))
	if err != nil {
		response.FromError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, txs, "transactions", gin.H{"count": len(txs)})
}

// Create POST /api/v1/transactions
func (h *TransactionHandler) Create(c *gin.Context) {
	in, ok := h.bind(c)
	if !ok {
		return
	}
	t, err := h.Transactions.Create(c.Request.Context(), c.GetString(middleware.CtxUserIDKey), in)
	if err != nil {
		response.FromError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, t, "transaction created", nil)
}

// Update PUT /api/v1/transactions/:id
func (h *TransactionHandler) Update(c *gin.Context) {
	in, ok := h.bind(c)
	if !ok {
		return
	}
	t, err := h.Transactions.Update(c.Request.Context(), c.GetString(middleware.CtxUserIDKey), c.Param("id"), in)
	if err != nil {
		response.FromError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, t, "transaction updated", nil)
}

// Delete DELETE /api/v1/transactions/:id
func (h *TransactionHandler) Delete(c *gin.Context) {
	if err := h.Transactions.Delete(c.Request.Context(), c.GetString(middleware.CtxUserIDKey), c.Param("id")); err != nil {
		response.FromError(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "transaction deleted", nil)
}

// UploadReceipt POST /api/v1/transactions/:id/receipt (multipart field "file")
func (h *TransactionHandler) UploadReceipt(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxReceiptSize)
	fh, err := c.FormFile("file")
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "file is required", nil)
		return
	}
	f, err := fh.Open()
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "unreadable file", nil)
		return
	}
	defer f.Close()

	t, err := h.Transactions.AttachReceipt(c.Request.Context(), c.GetString(middleware.CtxUserIDKey), c.Param("id"),
		fh.Filename, fh.Header.Get("Content-Type"), f)
	if err != nil {
		response.FromError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, t, "receipt uploaded", nil)
}
