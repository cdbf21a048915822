package handlers

import (
	"time"

	"clinic-scheduling-server/internal/apperrors"
	"clinic-scheduling-server/internal/logger"
	"clinic-scheduling-server/internal/models"
	"clinic-scheduling-server/internal/repository"
	"clinic-scheduling-server/internal/services"
	"clinic-scheduling-server/internal/utils"

	"github.com/gin-gonic/gin"
)

// AppointmentHandler handles appointment-related requests.
type AppointmentHandler struct {
	Service *services.AppointmentService
	Log     *logger.Logger
}

// NewAppointmentHandler creates a new AppointmentHandler.
func NewAppointmentHandler(service *services.AppointmentService, log *logger.Logger) *AppointmentHandler {
	return &AppointmentHandler{Service: service, Log: log}
}

// CreateAppointmentRequest is the body of POST /api/consultas.
type CreateAppointmentRequest struct {
	PatientID       string                 `json:"patientId" binding:"required,uuid"`
	DoctorID        string                 `json:"doctorId" binding:"required,uuid"`
	SecretaryID     *string                `json:"secretaryId" binding:"omitempty,uuid"`
	DateTime        *time.Time             `json:"dateTime" binding:"required"`
	AppointmentType models.AppointmentType `json:"appointmentType" binding:"required,oneof=PRESENCIAL TELECONSULTA"`
	Reason          *string                `json:"reason" binding:"required,max=255"`
}

// UpdateAppointmentRequest is the body of PUT /api/consultas/:id.
type UpdateAppointmentRequest struct {
	DateTime        *time.Time              `json:"dateTime"`
	AppointmentType *models.AppointmentType `json:"appointmentType" binding:"omitempty,oneof=PRESENCIAL TELECONSULTA"`
	Reason          *string                 `json:"reason" binding:"omitempty,max=255"`
}

// CancelAppointmentRequest is the body of PUT /api/consultas/:id/cancelar.
type CancelAppointmentRequest struct {
	CancelReason *string `json:"cancelReason" binding:"omitempty,max=255"`
}

// CreateAppointment handles POST /api/consultas.
func (h *AppointmentHandler) CreateAppointment(c *gin.Context) {
	var req CreateAppointmentRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	appointment, err := h.Service.Create(c.Request.Context(), services.AppointmentInput{
		PatientID:       req.PatientID,
		DoctorID:        req.DoctorID,
		SecretaryID:     req.SecretaryID,
		DateTime:        *req.DateTime,
		AppointmentType: req.AppointmentType,
		Reason:          *req.Reason,
	})
	if err != nil {
		respondError(c, h.Log, err)
		return
	}

	utils.Created(c, "Consulta agendada com sucesso", appointment)
}

// ListAppointments handles
// GET /api/consultas?patientId=&doctorId=&status=&startDate=&endDate=.
func (h *AppointmentHandler) ListAppointments(c *gin.Context) {
	filter, err := appointmentFilterFromQuery(c)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}

	appointments, err := h.Service.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}

	utils.Success(c, "", appointments)
}

// GetAppointment handles GET /api/consultas/:id.
func (h *AppointmentHandler) GetAppointment(c *gin.Context) {
	id, ok := pathID(c, h.Log)
	if !ok {
		return
	}

	detail, err := h.Service.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}

	utils.Success(c, "", detail)
}

// UpdateAppointment handles PUT /api/consultas/:id.
func (h *AppointmentHandler) UpdateAppointment(c *gin.Context) {
	id, ok := pathID(c, h.Log)
	if !ok {
		return
	}

	var req UpdateAppointmentRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	appointment, err := h.Service.Update(c.Request.Context(), id, services.AppointmentUpdate{
		DateTime:        req.DateTime,
		AppointmentType: req.AppointmentType,
		Reason:          req.Reason,
	})
	if err != nil {
		respondError(c, h.Log, err)
		return
	}

	utils.Success(c, "Consulta atualizada com sucesso", appointment)
}

// CancelAppointment handles PUT /api/consultas/:id/cancelar.
func (h *AppointmentHandler) CancelAppointment(c *gin.Context) {
	id, ok := pathID(c, h.Log)
	if !ok {
		return
	}

	var req CancelAppointmentRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	appointment, err := h.Service.Cancel(c.Request.Context(), id, req.CancelReason)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}

	utils.Success(c, "Consulta cancelada com sucesso", appointment)
}

func appointmentFilterFromQuery(c *gin.Context) (repository.AppointmentFilter, error) {
	var filter repository.AppointmentFilter

	if v := c.Query("patientId"); v != "" {
		id, err := parseID(v)
		if err != nil {
			return filter, apperrors.Validation("INVALID_PATIENT_ID", "patientId inválido")
		}
		filter.PatientID = id
	}
	if v := c.Query("doctorId"); v != "" {
		id, err := parseID(v)
		if err != nil {
			return filter, apperrors.Validation("INVALID_DOCTOR_ID", "doctorId inválido")
		}
		filter.DoctorID = id
	}
	if v := c.Query("status"); v != "" {
		status := models.AppointmentStatus(v)
		switch status {
		case models.StatusAgendada, models.StatusRealizada, models.StatusCancelada:
			filter.Status = status
		default:
			return filter, apperrors.Validation("INVALID_STATUS", "status inválido")
		}
	}
	if v := c.Query("startDate"); v != "" {
		start, err := parseQueryTime(v, false)
		if err != nil {
			return filter, apperrors.Validation("INVALID_START_DATE", "startDate inválido")
		}
		filter.StartDate = &start
	}
	if v := c.Query("endDate"); v != "" {
		end, err := parseQueryTime(v, true)
		if err != nil {
			return filter, apperrors.Validation("INVALID_END_DATE", "endDate inválido")
		}
		filter.EndDate = &end
	}

	return filter, nil
}

// parseQueryTime accepts RFC 3339 timestamps or plain dates. A plain date
// used as an upper bound covers the whole day.
func parseQueryTime(value string, endOfDay bool) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t.UTC(), nil
	}

	d, err := models.ParseDate(value)
	if err != nil {
		return time.Time{}, err
	}
	if endOfDay {
		return d.Time.Add(24*time.Hour - services.SlotPrecision), nil
	}
	return d.Time, nil
}
