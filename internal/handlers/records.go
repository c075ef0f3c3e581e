package handlers

import (
	"github.com/gin-gonic/gin"

	"health-portal-server/internal/middleware"
	"health-portal-server/internal/models"
	"health-portal-server/internal/repository"
	"health-portal-server/internal/utils"
)

// MedicalRecordHandler handles medical record requests.
type MedicalRecordHandler struct {
	Repo *repository.Repository
}

// NewMedicalRecordHandler creates a new MedicalRecordHandler.
func NewMedicalRecordHandler(repo *repository.Repository) *MedicalRecordHandler {
	return &MedicalRecordHandler{Repo: repo}
}

// CreateRecordRequest represents the request body for creating a record.
type CreateRecordRequest struct {
	PatientID string `json:"patientId" binding:"required"`
	Type      string `json:"type" binding:"required,oneof=PRESCRIPTION LAB_REPORT CLINICAL_NOTE IMAGING"`
	Title     string `json:"title" binding:"required"`
	Content   string `json:"content" binding:"required"`
	FileURL   string `json:"fileUrl"`
	FileName  string `json:"fileName"`
}

// CreateRecord creates a medical record authored by the calling provider.
// The integrity fingerprint is minted here, once, and never changes.
func (h *MedicalRecordHandler) CreateRecord(c *gin.Context) {
	providerID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	var req CreateRecordRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	record, err := h.Repo.AddRecord(c.Request.Context(), repository.RecordInput{
		PatientID:  req.PatientID,
		ProviderID: providerID,
		Type:       models.MedicalRecordType(req.Type),
		Title:      req.Title,
		Content:    req.Content,
		FileURL:    req.FileURL,
		FileName:   req.FileName,
	})
	if err != nil {
		utils.FromError(c, err)
		return
	}
	utils.Created(c, "Medical record created successfully", record)
}

// GetRecords lists the records visible to the caller.
func (h *MedicalRecordHandler) GetRecords(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	records, err := h.Repo.GetRecords(c.Request.Context(), userID)
	if err != nil {
		utils.FromError(c, err)
		return
	}
	utils.Success(c, "Medical records retrieved successfully", records)
}

// ShareRecordRequest represents the request body for sharing a record.
type ShareRecordRequest struct {
	UserID string `json:"userId" binding:"required"`
}

// ShareRecord grants another user read access to one of the caller's
// records. Sharing is additive; repeated grants are no-ops.
func (h *MedicalRecordHandler) ShareRecord(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	var req ShareRecordRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	if err := h.Repo.ShareRecord(c.Request.Context(), userID, c.Param("id"), req.UserID); err != nil {
		utils.FromError(c, err)
		return
	}
	utils.Success(c, "Medical record shared successfully", nil)
}
