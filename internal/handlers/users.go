package handlers

import (
	"github.com/gin-gonic/gin"

	"health-portal-server/internal/middleware"
	"health-portal-server/internal/models"
	"health-portal-server/internal/repository"
	"health-portal-server/internal/utils"
)

// UserHandler handles user profile, directory and household requests.
type UserHandler struct {
	Repo *repository.Repository
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(repo *repository.Repository) *UserHandler {
	return &UserHandler{Repo: repo}
}

// GetUser returns a user's public profile.
func (h *UserHandler) GetUser(c *gin.Context) {
	user, err := h.Repo.GetUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.FromError(c, err)
		return
	}
	utils.Success(c, "User retrieved successfully", user)
}

// UpdateProfileRequest represents a partial profile update.
type UpdateProfileRequest struct {
	Name        *string `json:"name"`
	AvatarURL   *string `json:"avatarUrl"`
	Country     *string `json:"country"`
	HealthScore *int    `json:"healthScore" binding:"omitempty,min=0,max=100"`
}

// UpdateProfile applies a partial update to the caller's own profile.
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	var req UpdateProfileRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	user, err := h.Repo.UpdateUser(c.Request.Context(), userID, repository.UserUpdate{
		Name:        req.Name,
		AvatarURL:   req.AvatarURL,
		Country:     req.Country,
		HealthScore: req.HealthScore,
	})
	if err != nil {
		utils.FromError(c, err)
		return
	}
	utils.Success(c, "Profile updated successfully", user)
}

// SearchDirectory lists connectable users of the opposite role.
func (h *UserHandler) SearchDirectory(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	users, err := h.Repo.SearchDirectory(c.Request.Context(), userID, c.Query("q"))
	if err != nil {
		utils.FromError(c, err)
		return
	}
	utils.Success(c, "Directory retrieved successfully", users)
}

// ConnectRequest represents the request body for creating a connection.
type ConnectRequest struct {
	UserID string `json:"userId" binding:"required"`
}

// Connect creates a mutual connection between the caller and another user.
func (h *UserHandler) Connect(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	var req ConnectRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	if err := h.Repo.Connect(c.Request.Context(), userID, req.UserID); err != nil {
		utils.FromError(c, err)
		return
	}
	utils.Success(c, "Connection created successfully", nil)
}

// GetContacts lists the caller's connections.
func (h *UserHandler) GetContacts(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	contacts, err := h.Repo.GetContacts(c.Request.Context(), userID)
	if err != nil {
		utils.FromError(c, err)
		return
	}
	utils.Success(c, "Contacts retrieved successfully", contacts)
}

// GetPatients lists a provider's patients.
func (h *UserHandler) GetPatients(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	patients, err := h.Repo.GetPatientsForProvider(c.Request.Context(), userID)
	if err != nil {
		utils.FromError(c, err)
		return
	}
	utils.Success(c, "Patients retrieved successfully", patients)
}

// GetDependents lists the caller's dependents.
func (h *UserHandler) GetDependents(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	dependents, err := h.Repo.GetDependents(c.Request.Context(), userID)
	if err != nil {
		utils.FromError(c, err)
		return
	}
	utils.Success(c, "Dependents retrieved successfully", dependents)
}

// AddDependentRequest represents the request body for adding a dependent.
type AddDependentRequest struct {
	Name     string `json:"name" binding:"required"`
	Relation string `json:"relation" binding:"required,oneof=CHILD PARENT SPOUSE OTHER"`
	Age      int    `json:"age" binding:"min=0,max=130"`
}

// AddDependent registers a household member under the caller's account.
func (h *UserHandler) AddDependent(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	var req AddDependentRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	dep, err := h.Repo.AddDependent(c.Request.Context(), userID, req.Name, models.Relation(req.Relation), req.Age)
	if err != nil {
		utils.FromError(c, err)
		return
	}
	utils.Created(c, "Dependent added successfully", dep)
}

// SwitchProfileRequest represents the request body for switching profiles.
type SwitchProfileRequest struct {
	TargetID string `json:"targetId" binding:"required"`
}

// SwitchProfile switches the dashboard to the caller's own account or one of
// their dependents.
func (h *UserHandler) SwitchProfile(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	var req SwitchProfileRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	profile, err := h.Repo.SwitchProfile(c.Request.Context(), userID, req.TargetID)
	if err != nil {
		utils.FromError(c, err)
		return
	}
	utils.Success(c, "Profile switched successfully", profile)
}

// ExportDatabase returns the full portal state as a JSON snapshot.
func (h *UserHandler) ExportDatabase(c *gin.Context) {
	dump, err := h.Repo.ExportDatabase(c.Request.Context())
	if err != nil {
		utils.FromError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="health-portal-backup.json"`)
	c.Data(200, "application/json", []byte(dump))
}

// ImportDatabase replaces the portal state with an uploaded snapshot.
func (h *UserHandler) ImportDatabase(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil {
		utils.BadRequest(c, "Failed to read snapshot: "+err.Error())
		return
	}
	if err := h.Repo.ImportDatabase(c.Request.Context(), string(raw)); err != nil {
		utils.BadRequest(c, "Invalid snapshot: "+err.Error())
		return
	}
	utils.Success(c, "Database imported successfully", nil)
}
