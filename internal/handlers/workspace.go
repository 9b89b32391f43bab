package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/taskhive-dev/taskhive/db"
	"github.com/taskhive-dev/taskhive/internal/access"
	"github.com/taskhive-dev/taskhive/internal/models"
	"github.com/taskhive-dev/taskhive/internal/types"
	"github.com/taskhive-dev/taskhive/internal/utils"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type CreateWorkspaceRequest struct {
	Name string `json:"name" binding:"required"`
}

type UpdateWorkspaceRequest struct {
	Name *string `json:"name"`
}

type WorkspaceResponse struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	CreatedBy uint   `json:"created_by"`
}

func workspaceResponse(workspace models.Workspace) WorkspaceResponse {
	return WorkspaceResponse{
		ID:        workspace.ID,
		Name:      workspace.Name,
		CreatedBy: workspace.CreatedBy,
	}
}

// CreateWorkspace creates the workspace and an admin membership row for the
// creator in one transaction.
func CreateWorkspace(ctx *gin.Context) {
	var req CreateWorkspaceRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	workspace := models.Workspace{
		Name:      req.Name,
		CreatedBy: userID,
	}

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&workspace).Error; err != nil {
			return err
		}

		membership := models.WorkspaceUser{
			WorkspaceID: workspace.ID,
			UserID:      userID,
			AccessLevel: types.AccessAdmin,
		}

		return tx.Create(&membership).Error
	})

	if err != nil {
		zap.L().Error("failed to create workspace", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create workspace"})
		return
	}

	ctx.JSON(http.StatusCreated, workspaceResponse(workspace))
}

func ListWorkspaces(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var workspaces []models.Workspace

	err = db.DB.
		Joins("JOIN workspace_users ON workspace_users.workspace_id = workspaces.id").
		Where("workspace_users.user_id = ? AND workspace_users.access_level <> ?", userID, types.AccessInvited).
		Find(&workspaces).Error

	if err != nil {
		zap.L().Error("failed to list workspaces", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve workspaces"})
		return
	}

	response := make([]WorkspaceResponse, 0, len(workspaces))
	for _, workspace := range workspaces {
		response = append(response, workspaceResponse(workspace))
	}

	ctx.JSON(http.StatusOK, response)
}

func GetWorkspace(ctx *gin.Context) {
	workspaceID, err := utils.GetWorkspaceID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	if err := access.RequireWorkspaceViewer(workspaceID, userID); err != nil {
		respondAccessError(ctx, err)
		return
	}

	var workspace models.Workspace

	if err := db.DB.First(&workspace, workspaceID).Error; err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Workspace not found"})
		return
	}

	ctx.JSON(http.StatusOK, workspaceResponse(workspace))
}

func UpdateWorkspace(ctx *gin.Context) {
	workspaceID, err := utils.GetWorkspaceID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	if err := access.RequireWorkspaceAdmin(workspaceID, userID); err != nil {
		respondAccessError(ctx, err)
		return
	}

	var req UpdateWorkspaceRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	var workspace models.Workspace

	if err := db.DB.First(&workspace, workspaceID).Error; err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Workspace not found"})
		return
	}

	if req.Name != nil {
		workspace.Name = *req.Name
	}

	if err := db.DB.Save(&workspace).Error; err != nil {
		zap.L().Error("failed to update workspace", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update workspace"})
		return
	}

	ctx.JSON(http.StatusOK, workspaceResponse(workspace))
}

func DeleteWorkspace(ctx *gin.Context) {
	workspaceID, err := utils.GetWorkspaceID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	if err := access.RequireWorkspaceAdmin(workspaceID, userID); err != nil {
		respondAccessError(ctx, err)
		return
	}

	if err := db.DB.Delete(&models.Workspace{}, workspaceID).Error; err != nil {
		zap.L().Error("failed to delete workspace", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete workspace"})
		return
	}

	ctx.Status(http.StatusNoContent)
}
