package handlers

import (
	"net/http"

	"clinic-scheduling-server/internal/apperrors"
	"clinic-scheduling-server/internal/config"
	"clinic-scheduling-server/internal/logger"
	"clinic-scheduling-server/internal/metrics"
	"clinic-scheduling-server/internal/middleware"
	"clinic-scheduling-server/internal/models"
	"clinic-scheduling-server/internal/services"
	"clinic-scheduling-server/internal/utils"

	"github.com/gin-gonic/gin"
)

// AuthHandler handles authentication-related requests.
type AuthHandler struct {
	Service *services.AuthService
	Cfg     *config.Config
	Metrics *metrics.Metrics
	Log     *logger.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(service *services.AuthService, cfg *config.Config, m *metrics.Metrics, log *logger.Logger) *AuthHandler {
	return &AuthHandler{Service: service, Cfg: cfg, Metrics: m, Log: log}
}

// SignupRequest represents the request body for user registration.
type SignupRequest struct {
	Name     string `json:"name" binding:"required,max=255"`
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,min=6"`
	Profile  string `json:"profile" binding:"required,max=50"`
}

// Signup handles user registration.
func (h *AuthHandler) Signup(c *gin.Context) {
	var req SignupRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	user, err := h.Service.Register(c.Request.Context(), services.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Profile:  models.Role(req.Profile),
	})
	if err != nil {
		respondError(c, h.Log, err)
		return
	}

	utils.Success(c, "Usuário cadastrado com sucesso", user.Sanitize())
}

// LoginRequest represents the request body for user login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse represents the response body for successful login.
type LoginResponse struct {
	Success bool                 `json:"success"`
	Message string               `json:"message"`
	Token   string               `json:"token"`
	User    models.UserSanitized `json:"user"`
}

// Login handles user login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	user, err := h.Service.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.Metrics.RecordAuthAttempt(false)
		respondError(c, h.Log, err)
		return
	}

	token, err := utils.GenerateAccessToken(user, h.Cfg.JWTSecret, h.Cfg.TokenTTL())
	if err != nil {
		respondError(c, h.Log, err)
		return
	}

	h.Metrics.RecordAuthAttempt(true)
	c.JSON(http.StatusOK, LoginResponse{
		Success: true,
		Message: "Login realizado com sucesso",
		Token:   token,
		User:    user.Sanitize(),
	})
}

// Me returns the authenticated user's profile.
func (h *AuthHandler) Me(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		respondError(c, h.Log, apperrors.ErrMissingToken)
		return
	}

	user, err := h.Service.GetProfile(c.Request.Context(), principal.UserID)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}

	utils.Success(c, "", user.Sanitize())
}
