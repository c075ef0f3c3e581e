package handlers

import (
	"github.com/gin-gonic/gin"

	"health-portal-server/internal/middleware"
	"health-portal-server/internal/models"
	"health-portal-server/internal/repository"
	"health-portal-server/internal/utils"
)

// AppointmentHandler handles appointment requests.
type AppointmentHandler struct {
	Repo *repository.Repository
}

// NewAppointmentHandler creates a new AppointmentHandler.
func NewAppointmentHandler(repo *repository.Repository) *AppointmentHandler {
	return &AppointmentHandler{Repo: repo}
}

// BookAppointmentRequest represents the request body for booking.
type BookAppointmentRequest struct {
	ProviderID   string `json:"providerId" binding:"required"`
	ProviderName string `json:"providerName"`
	Date         string `json:"date" binding:"required"`
	Time         string `json:"time" binding:"required"`
	Type         string `json:"type" binding:"omitempty,oneof=VIDEO IN_PERSON"`
	Notes        string `json:"notes"`
}

// BookAppointment books an appointment for the calling patient. New
// appointments always start PENDING.
func (h *AppointmentHandler) BookAppointment(c *gin.Context) {
	patientID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	var req BookAppointmentRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	patient, err := h.Repo.GetUser(c.Request.Context(), patientID)
	if err != nil {
		utils.FromError(c, err)
		return
	}

	providerName := req.ProviderName
	if providerName == "" {
		if provider, err := h.Repo.GetUser(c.Request.Context(), req.ProviderID); err == nil {
			providerName = provider.Name
		}
	}

	apt, err := h.Repo.BookAppointment(c.Request.Context(), repository.AppointmentInput{
		PatientID:    patientID,
		ProviderID:   req.ProviderID,
		PatientName:  patient.Name,
		ProviderName: providerName,
		Date:         req.Date,
		Time:         req.Time,
		Type:         models.AppointmentType(req.Type),
		Notes:        req.Notes,
	})
	if err != nil {
		utils.FromError(c, err)
		return
	}
	utils.Created(c, "Appointment requested successfully", apt)
}

// GetAppointments lists the caller's appointments.
func (h *AppointmentHandler) GetAppointments(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	appointments, err := h.Repo.GetAppointments(c.Request.Context(), userID)
	if err != nil {
		utils.FromError(c, err)
		return
	}
	utils.Success(c, "Appointments retrieved successfully", appointments)
}

// ConfirmAppointmentRequest represents the provider's verdict.
type ConfirmAppointmentRequest struct {
	Confirm *bool `json:"confirm" binding:"required"`
}

// ConfirmAppointment moves an appointment to SCHEDULED or CANCELLED.
func (h *AppointmentHandler) ConfirmAppointment(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	var req ConfirmAppointmentRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	apt, err := h.Repo.ConfirmAppointment(c.Request.Context(), userID, c.Param("id"), *req.Confirm)
	if err != nil {
		utils.FromError(c, err)
		return
	}
	utils.Success(c, "Appointment updated successfully", apt)
}
