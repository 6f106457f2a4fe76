package handlers

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-finance-tracker/internal/application"
	"github.com/oksasatya/go-finance-tracker/internal/domain/entity"
	"github.com/oksasatya/go-finance-tracker/internal/interface/middleware"
	"github.com/oksasatya/go-finance-tracker/pkg/response"
	"github.com/oksasatya/go-finance-tracker/pkg/validation"
)

type AuthHandler struct {
	Auth         *application.AuthService
	Registration *application.RegistrationService
	Tokens       *application.TokenService
	Logger       *logrus.Logger
	FrontendURL  string
}

func NewAuthHandler(auth *application.AuthService, reg *application.RegistrationService, tokens *application.TokenService, logger *logrus.Logger, frontendURL string) *AuthHandler {
	return &AuthHandler{Auth: auth, Registration: reg, Tokens: tokens, Logger: logger, FrontendURL: frontendURL}
}

type sendOTPRequest struct {
	Name     string `json:"name" binding:"required,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,pwd"`
}

type verifyOTPRequest struct {
	Email string `json:"email" binding:"required,email"`
	OTP   string `json:"otp" binding:"required,otp"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword" binding:"required,pwd"`
}

type authResponse struct {
	User   *entity.User          `json:"user"`
	Tokens application.TokenPair `json:"tokens"`
}

func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return false
	}
	return true
}

// SendOTP POST /api/v1/auth/send-otp
// The code goes out by email only; it is never part of the response.
func (h *AuthHandler) SendOTP(c *gin.Context) {
	var req sendOTPRequest
	if !bindJSON(c, &req) {
		return
	}
	if _, err := h.Registration.BeginRegistration(c.Request.Context(), req.Name, req.Email, req.Password); err != nil {
		response.FromError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"email": normalize(req.Email)}, "verification code sent", nil)
}

// VerifyOTP POST /api/v1/auth/verify-otp
func (h *AuthHandler) VerifyOTP(c *gin.Context) {
	var req verifyOTPRequest
	if !bindJSON(c, &req) {
		return
	}
	u, pair, err := h.Registration.ConfirmRegistration(c.Request.Context(), req.Email, req.OTP)
	if err != nil {
		response.FromError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, authResponse{User: u, Tokens: pair}, "registration complete", nil)
}

// Register POST /api/v1/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req sendOTPRequest
	if !bindJSON(c, &req) {
		return
	}
	u, pair, err := h.Auth.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		response.FromError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, authResponse{User: u, Tokens: pair}, "registered", nil)
}

// Login POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if !bindJSON(c, &req) {
		return
	}
	u, pair, err := h.Auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		response.FromError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, authResponse{User: u, Tokens: pair}, "login successful", nil)
}

// RefreshToken POST /api/v1/auth/refresh-token
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req refreshRequest
	if !bindJSON(c, &req) {
		return
	}
	access, err := h.Tokens.Renew(c.Request.Context(), req.RefreshToken)
	if err != nil {
		response.FromError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"access": access}, "token refreshed", nil)
}

// Logout POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	var req refreshRequest
	if !bindJSON(c, &req) {
		return
	}
	h.Tokens.Revoke(c.Request.Context(), req.RefreshToken)
	response.Success[any](c, http.StatusOK, nil, "logged out successfully", nil)
}

// Me GET /api/v1/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{"user": middleware.CurrentUser(c)}, "profile", nil)
}

// ChangePassword POST /api/v1/auth/change-password
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req changePasswordRequest
	if !bindJSON(c, &req) {
		return
	}
	uid := c.GetString(middleware.CtxUserIDKey)
	if err := h.Auth.ChangePassword(c.Request.Context(), uid, req.CurrentPassword, req.NewPassword); err != nil {
		response.FromError(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "password changed", nil)
}

// GoogleStart GET /api/v1/auth/google
func (h *AuthHandler) GoogleStart(c *gin.Context) {
	target, err := h.Auth.BeginFederated(c.Request.Context(), "google")
	if err != nil {
		response.FromError(c, h.Logger, err)
		return
	}
	c.Redirect(http.StatusFound, target)
}

// GoogleCallback GET /api/v1/auth/google/callback
// Redirects to the frontend with the token pair in the URL fragment, or with
// error=auth_failed.
func (h *AuthHandler) GoogleCallback(c *gin.Context) {
	_, pair, err := h.Auth.CompleteFederated(c.Request.Context(), "google", c.Query("state"), c.Query("code"))
	if err != nil {
		h.Logger.WithError(err).WithField("request_id", c.GetString("request_id")).Warn("google sign-in failed")
		c.Redirect(http.StatusFound, h.FrontendURL+"?error=auth_failed")
		return
	}
	frag := url.Values{}
	frag.Set("accessToken", pair.Access.Token)
	frag.Set("refreshToken", pair.Refresh.Token)
	c.Redirect(http.StatusFound, h.FrontendURL+"/auth/callback#"+frag.Encode())
}
