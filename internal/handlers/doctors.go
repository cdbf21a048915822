package handlers

import (
	"clinic-scheduling-server/internal/logger"
	"clinic-scheduling-server/internal/repository"
	"clinic-scheduling-server/internal/services"
	"clinic-scheduling-server/internal/utils"

	"github.com/gin-gonic/gin"
)

// DoctorHandler handles doctor requests.
type DoctorHandler struct {
	Service *services.DoctorService
	Log     *logger.Logger
}

// NewDoctorHandler creates a new DoctorHandler.
func NewDoctorHandler(service *services.DoctorService, log *logger.Logger) *DoctorHandler {
	return &DoctorHandler{Service: service, Log: log}
}

// CreateDoctorRequest is the body of POST /api/medicos.
type CreateDoctorRequest struct {
	UserID    string `json:"userId" binding:"required,uuid"`
	Name      string `json:"name" binding:"required,max=255"`
	CRM       string `json:"crm" binding:"required,min=3,max=20"`
	Specialty string `json:"specialty" binding:"required,max=255"`
}

// CreateDoctor handles POST /api/medicos.
func (h *DoctorHandler) CreateDoctor(c *gin.Context) {
	var req CreateDoctorRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	doctor, err := h.Service.Create(c.Request.Context(), services.DoctorInput{
		UserID:    req.UserID,
		Name:      req.Name,
		CRM:       req.CRM,
		Specialty: req.Specialty,
	})
	if err != nil {
		respondError(c, h.Log, err)
		return
	}

	utils.Created(c, "Médico cadastrado com sucesso", doctor)
}

// ListDoctors handles GET /api/medicos?name=&specialty=.
func (h *DoctorHandler) ListDoctors(c *gin.Context) {
	doctors, err := h.Service.List(c.Request.Context(), repository.DoctorFilter{
		Name:      c.Query("name"),
		Specialty: c.Query("specialty"),
	})
	if err != nil {
		respondError(c, h.Log, err)
		return
	}

	utils.Success(c, "", doctors)
}

// GetDoctor handles GET /api/medicos/:id.
func (h *DoctorHandler) GetDoctor(c *gin.Context) {
	id, ok := pathID(c, h.Log)
	if !ok {
		return
	}

	doctor, err := h.Service.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}

	utils.Success(c, "", doctor)
}
