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

type CreateProjectRequest struct {
	Name        string `json:"name" binding:"required"`
	WorkspaceID uint   `json:"workspace_id" binding:"required"`
}

type UpdateProjectRequest struct {
	Name *string `json:"name"`
}

type ProjectResponse struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	WorkspaceID uint   `json:"workspace_id"`
	CreatedBy   uint   `json:"created_by"`
}

func projectResponse(project models.Project) ProjectResponse {
	return ProjectResponse{
		ID:          project.ID,
		Name:        project.Name,
		WorkspaceID: project.WorkspaceID,
		CreatedBy:   project.CreatedBy,
	}
}

// CreateProject requires workspace admin and makes the creator a project
// admin via a membership row.
func CreateProject(ctx *gin.Context) {
	var req CreateProjectRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	if err := access.RequireWorkspaceAdmin(req.WorkspaceID, userID); err != nil {
		respondAccessError(ctx, err)
		return
	}

	project := models.Project{
		Name:        req.Name,
		WorkspaceID: req.WorkspaceID,
		CreatedBy:   userID,
	}

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&project).Error; err != nil {
			return err
		}

		membership := models.ProjectUser{
			ProjectID:   project.ID,
			UserID:      userID,
			AccessLevel: types.AccessAdmin,
		}

		return tx.Create(&membership).Error
	})

	if err != nil {
		zap.L().Error("failed to create project", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create project"})
		return
	}

	ctx.JSON(http.StatusCreated, projectResponse(project))
}

// ListWorkspaceProjects returns the projects in the workspace the caller is a
// member of.
func ListWorkspaceProjects(ctx *gin.Context) {
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

	var projects []models.Project

	err = db.DB.
		Joins("JOIN project_users ON project_users.project_id = projects.id").
		Where("projects.workspace_id = ?", workspaceID).
		Where("project_users.user_id = ? AND project_users.access_level <> ?", userID, types.AccessInvited).
		Find(&projects).Error

	if err != nil {
		zap.L().Error("failed to list projects", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve projects"})
		return
	}

	response := make([]ProjectResponse, 0, len(projects))
	for _, project := range projects {
		response = append(response, projectResponse(project))
	}

	ctx.JSON(http.StatusOK, response)
}

func GetProject(ctx *gin.Context) {
	projectID, err := utils.GetProjectID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	if err := access.RequireProjectViewer(projectID, userID); err != nil {
		respondAccessError(ctx, err)
		return
	}

	var project models.Project

	if err := db.DB.First(&project, projectID).Error; err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		return
	}

	ctx.JSON(http.StatusOK, projectResponse(project))
}

func UpdateProject(ctx *gin.Context) {
	projectID, err := utils.GetProjectID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	if err := access.RequireProjectAdmin(projectID, userID); err != nil {
		respondAccessError(ctx, err)
		return
	}

	var req UpdateProjectRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	var project models.Project

	if err := db.DB.First(&project, projectID).Error; err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		return
	}

	if req.Name != nil {
		project.Name = *req.Name
	}

	if err := db.DB.Save(&project).Error; err != nil {
		zap.L().Error("failed to update project", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update project"})
		return
	}

	ctx.JSON(http.StatusOK, projectResponse(project))
}

func DeleteProject(ctx *gin.Context) {
	projectID, err := utils.GetProjectID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	if err := access.RequireProjectAdmin(projectID, userID); err != nil {
		respondAccessError(ctx, err)
		return
	}

	if err := db.DB.Delete(&models.Project{}, projectID).Error; err != nil {
		zap.L().Error("failed to delete project", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete project"})
		return
	}

	ctx.Status(http.StatusNoContent)
}
