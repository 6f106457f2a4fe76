package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-finance-tracker/internal/application"
	"github.com/oksasatya/go-finance-tracker/internal/domain/entity"
	"github.com/oksasatya/go-finance-tracker/internal/interface/middleware"
	"github.com/oksasatya/go-finance-tracker/pkg/response"
)

type AdminHandler struct {
	Admin  *application.AdminService
	Logger *logrus.Logger
}

func NewAdminHandler(svc *application.AdminService, logger *logrus.Logger) *AdminHandler {
	return &AdminHandler{Admin: svc, Logger: logger}
}

// status is checked by the service so the self-update rule wins over a bad value
type statusRequest struct {
	Status string `json:"status" binding:"required"`
}

// Stats GET /api/v1/admin/stats
func (h *AdminHandler) Stats(c *gin.Context) {
	s, err := h.Admin.Stats(c.Request.Context())
	if err != nil {
		response.FromError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, s, "platform stats", nil)
}

// Users GET /api/v1/admin/users
func (h *AdminHandler) Users(c *gin.Context) {
	users, err := h.Admin.AllUsers(c.Request.Context())
	if err != nil {
		response.FromError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, users, "users", gin.H{"count": len(users)})
}

// SearchUsers GET /api/v1/admin/users/search?q=&size=
func (h *AdminHandler) SearchUsers(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		response.Error[any](c, http.StatusBadRequest, "q is required", nil)
		return
	}
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))
	users, err := h.Admin.SearchUsers(c.Request.Context(), q, size)
	if err != nil {
		response.FromError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, users, "users", gin.H{"count": len(users)})
}

// Transactions GET /api/v1/admin/transactions
func (h *AdminHandler) Transactions(c *gin.Context) {
	txs, err := h.Admin.AllTransactions(c.Request.Context())
	if err != nil {
		response.FromError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, txs, "transactions", gin.H{"count": len(txs)})
}

// UpdateUserStatus PUT /api/v1/admin/users/:id/status
func (h *AdminHandler) UpdateUserStatus(c *gin.Context) {
	var req statusRequest
	if !bindJSON(c, &req) {
		return
	}
	u, err := h.Admin.UpdateUserStatus(c.Request.Context(), middleware.CurrentUser(c), c.Param("id"), entity.Status(req.Status))
	if err != nil {
		response.FromError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, u, "user status updated", nil)
}
