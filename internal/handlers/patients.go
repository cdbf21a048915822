package handlers

import (
	"clinic-scheduling-server/internal/logger"
	"clinic-scheduling-server/internal/models"
	"clinic-scheduling-server/internal/repository"
	"clinic-scheduling-server/internal/services"
	"clinic-scheduling-server/internal/utils"

	"github.com/gin-gonic/gin"
)

// PatientHandler handles patient requests.
type PatientHandler struct {
	Service *services.PatientService
	Log     *logger.Logger
}

// NewPatientHandler creates a new PatientHandler.
func NewPatientHandler(service *services.PatientService, log *logger.Logger) *PatientHandler {
	return &PatientHandler{Service: service, Log: log}
}

// CreatePatientRequest is the body of POST /api/pacientes.
type CreatePatientRequest struct {
	Name      string       `json:"name" binding:"required,max=100"`
	BirthDate *models.Date `json:"birthDate" binding:"required"`
	CPF       string       `json:"cpf" binding:"required,min=11,max=14"`
	Phone     *string      `json:"phone" binding:"omitempty,max=20"`
	Email     *string      `json:"email" binding:"omitempty,email,max=100"`
}

// UpdatePatientRequest is the body of PUT /api/pacientes/:id. Every field is
// optional.
type UpdatePatientRequest struct {
	Name      *string      `json:"name" binding:"omitempty,min=1,max=100"`
	BirthDate *models.Date `json:"birthDate"`
	CPF       *string      `json:"cpf" binding:"omitempty,min=11,max=14"`
	Phone     *string      `json:"phone" binding:"omitempty,max=20"`
	Email     *string      `json:"email" binding:"omitempty,email,max=100"`
}

// CreatePatient handles POST /api/pacientes.
func (h *PatientHandler) CreatePatient(c *gin.Context) {
	var req CreatePatientRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	patient, err := h.Service.Create(c.Request.Context(), services.PatientInput{
		Name:      req.Name,
		BirthDate: *req.BirthDate,
		CPF:       req.CPF,
		Phone:     req.Phone,
		Email:     req.Email,
	})
	if err != nil {
		respondError(c, h.Log, err)
		return
	}

	utils.Created(c, "Paciente cadastrado com sucesso", patient)
}

// ListPatients handles GET /api/pacientes?name=&cpf=.
func (h *PatientHandler) ListPatients(c *gin.Context) {
	patients, err := h.Service.List(c.Request.Context(), repository.PatientFilter{
		Name: c.Query("name"),
		CPF:  c.Query("cpf"),
	})
	if err != nil {
		respondError(c, h.Log, err)
		return
	}

	utils.Success(c, "", patients)
}

// GetPatient handles GET /api/pacientes/:id.
func (h *PatientHandler) GetPatient(c *gin.Context) {
	id, ok := pathID(c, h.Log)
	if !ok {
		return
	}

	patient, err := h.Service.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}

	utils.Success(c, "", patient)
}

// UpdatePatient handles PUT /api/pacientes/:id.
func (h *PatientHandler) UpdatePatient(c *gin.Context) {
	id, ok := pathID(c, h.Log)
	if !ok {
		return
	}

	var req UpdatePatientRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	patient, err := h.Service.Update(c.Request.Context(), id, services.PatientUpdate{
		Name:      req.Name,
		BirthDate: req.BirthDate,
		CPF:       req.CPF,
		Phone:     req.Phone,
		Email:     req.Email,
	})
	if err != nil {
		respondError(c, h.Log, err)
		return
	}

	utils.Success(c, "Paciente atualizado com sucesso", patient)
}
