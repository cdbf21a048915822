package handlers

import (
	"clinic-scheduling-server/internal/logger"
	"clinic-scheduling-server/internal/repository"
	"clinic-scheduling-server/internal/services"
	"clinic-scheduling-server/internal/utils"

	"github.com/gin-gonic/gin"
)

// SecretaryHandler handles secretary requests.
type SecretaryHandler struct {
	Service *services.SecretaryService
	Log     *logger.Logger
}

// NewSecretaryHandler creates a new SecretaryHandler.
func NewSecretaryHandler(service *services.SecretaryService, log *logger.Logger) *SecretaryHandler {
	return &SecretaryHandler{Service: service, Log: log}
}

// CreateSecretaryRequest is the body of POST /api/secretaries.
type CreateSecretaryRequest struct {
	UserID       string `json:"userId" binding:"required,uuid"`
	FullName     string `json:"fullName" binding:"required,max=100"`
	Registration string `json:"registration" binding:"required,min=1,max=20"`
	Email        string `json:"email" binding:"required,email,max=100"`
}

// CreateSecretary handles POST /api/secretaries.
func (h *SecretaryHandler) CreateSecretary(c *gin.Context) {
	var req CreateSecretaryRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	secretary, err := h.Service.Create(c.Request.Context(), services.SecretaryInput{
		UserID:       req.UserID,
		FullName:     req.FullName,
		Registration: req.Registration,
		Email:        req.Email,
	})
	if err != nil {
		respondError(c, h.Log, err)
		return
	}

	utils.Created(c, "Secretária cadastrada com sucesso", secretary)
}

// ListSecretaries handles GET /api/secretaries?fullName=&registration=.
func (h *SecretaryHandler) ListSecretaries(c *gin.Context) {
	secretaries, err := h.Service.List(c.Request.Context(), repository.SecretaryFilter{
		FullName:     c.Query("fullName"),
		Registration: c.Query("registration"),
	})
	if err != nil {
		respondError(c, h.Log, err)
		return
	}

	utils.Success(c, "", secretaries)
}

// GetSecretary handles GET /api/secretaries/:id.
func (h *SecretaryHandler) GetSecretary(c *gin.Context) {
	id, ok := pathID(c, h.Log)
	if !ok {
		return
	}

	secretary, err := h.Service.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}

	utils.Success(c, "", secretary)
}
