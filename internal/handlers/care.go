package handlers

import (
	"github.com/gin-gonic/gin"

	"health-portal-server/internal/middleware"
	"health-portal-server/internal/models"
	"health-portal-server/internal/repository"
	"health-portal-server/internal/utils"
)

// CareHandler handles notifications, provider tasks, wellness tracking,
// wearables and the emergency and risk prediction flows.
type CareHandler struct {
	Repo *repository.Repository
}

// NewCareHandler creates a new CareHandler.
func NewCareHandler(repo *repository.Repository) *CareHandler {
	return &CareHandler{Repo: repo}
}

// GetNotifications lists the caller's notifications, newest first.
func (h *CareHandler) GetNotifications(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	notifications, err := h.Repo.GetNotifications(c.Request.Context(), userID)
	if err != nil {
		utils.FromError(c, err)
		return
	}
	utils.Success(c, "Notifications retrieved successfully", notifications)
}

// CreateTaskRequest represents the request body for creating a task.
type CreateTaskRequest struct {
	PatientID   string `json:"patientId"`
	PatientName string `json:"patientName"`
	Description string `json:"description" binding:"required"`
	Priority    string `json:"priority" binding:"omitempty,oneof=LOW MEDIUM HIGH"`
	DueDate     string `json:"dueDate"`
}

// CreateTask adds a to-do item for the calling provider.
func (h *CareHandler) CreateTask(c *gin.Context) {
	providerID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	var req CreateTaskRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	priority := models.TaskPriority(req.Priority)
	if priority == "" {
		priority = models.PriorityMedium
	}

	task, err := h.Repo.AddTask(c.Request.Context(), models.DoctorTask{
		ProviderID:  providerID,
		PatientID:   req.PatientID,
		PatientName: req.PatientName,
		Description: req.Description,
		Status:      models.TaskPending,
		Priority:    priority,
		DueDate:     req.DueDate,
	})
	if err != nil {
		utils.FromError(c, err)
		return
	}
	utils.Created(c, "Task created successfully", task)
}

// GetTasks lists the calling provider's tasks.
func (h *CareHandler) GetTasks(c *gin.Context) {
	providerID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	tasks, err := h.Repo.GetTasks(c.Request.Context(), providerID)
	if err != nil {
		utils.FromError(c, err)
		return
	}
	utils.Success(c, "Tasks retrieved successfully", tasks)
}

// AddWellnessEntryRequest represents a self-reported wellness data point.
type AddWellnessEntryRequest struct {
	Date  string  `json:"date" binding:"required"`
	Type  string  `json:"type" binding:"required,oneof=SLEEP MOOD HYDRATION EXERCISE"`
	Value float64 `json:"value" binding:"required"`
	Notes string  `json:"notes"`
}

// AddWellnessEntry records a wellness data point for the caller.
func (h *CareHandler) AddWellnessEntry(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	var req AddWellnessEntryRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	if err := h.Repo.AddWellnessEntry(c.Request.Context(), models.WellnessEntry{
		UserID: userID,
		Date:   req.Date,
		Type:   models.WellnessType(req.Type),
		Value:  req.Value,
		Notes:  req.Notes,
	}); err != nil {
		utils.FromError(c, err)
		return
	}
	utils.Created(c, "Wellness entry recorded successfully", nil)
}

// GetWearables returns the current wearable snapshot for the caller.
func (h *CareHandler) GetWearables(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	data, err := h.Repo.GetWearables(c.Request.Context(), userID)
	if err != nil {
		utils.FromError(c, err)
		return
	}
	utils.Success(c, "Wearable data retrieved successfully", data)
}

// TriggerEmergencyRequest represents the request body for an SOS.
type TriggerEmergencyRequest struct {
	Symptoms string `json:"symptoms" binding:"required"`
}

// TriggerEmergency raises an SOS alert for the caller. The alert is
// triaged, anchored with a fingerprint and fanned out to connected
// providers.
func (h *CareHandler) TriggerEmergency(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	var req TriggerEmergencyRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	alert, err := h.Repo.TriggerEmergency(c.Request.Context(), userID, req.Symptoms)
	if err != nil {
		utils.FromError(c, err)
		return
	}
	utils.Created(c, "Emergency alert raised", alert)
}

// GetEmergencyAlerts lists active alerts of the calling provider's patients.
func (h *CareHandler) GetEmergencyAlerts(c *gin.Context) {
	providerID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	alerts, err := h.Repo.GetEmergencyAlerts(c.Request.Context(), providerID)
	if err != nil {
		utils.FromError(c, err)
		return
	}
	utils.Success(c, "Emergency alerts retrieved successfully", alerts)
}

// GenerateRiskPrediction runs the risk model over the caller's history and
// replaces their stored predictions.
func (h *CareHandler) GenerateRiskPrediction(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	risks, err := h.Repo.GenerateRiskPrediction(c.Request.Context(), userID)
	if err != nil {
		utils.FromError(c, err)
		return
	}
	utils.Success(c, "Risk predictions generated successfully", risks)
}

// GetRisks returns the caller's stored risk predictions.
func (h *CareHandler) GetRisks(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	risks, err := h.Repo.GetRisks(c.Request.Context(), userID)
	if err != nil {
		utils.FromError(c, err)
		return
	}
	utils.Success(c, "Risk predictions retrieved successfully", risks)
}
