package handlers

import (
	"errors"
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

type AddMemberRequest struct {
	UserID      uint              `json:"user_id" binding:"required"`
	AccessLevel types.AccessLevel `json:"access_level"`
}

type UpdateMemberRequest struct {
	AccessLevel types.AccessLevel `json:"access_level" binding:"required"`
}

type MemberResponse struct {
	UserID      uint              `json:"user_id"`
	Name        string            `json:"name"`
	Email       *string           `json:"email"`
	AccessLevel types.AccessLevel `json:"access_level"`
}

// AddProjectMember directly adds a user, bypassing the invite flow. Admin only.
func AddProjectMember(ctx *gin.Context) {
	projectID, err := utils.GetProjectID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	currentUserID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	if err := access.RequireProjectAdmin(projectID, currentUserID); err != nil {
		respondAccessError(ctx, err)
		return
	}

	var req AddMemberRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	level := req.AccessLevel
	if level == "" {
		level = types.AccessMember
	}
	if !types.ValidRole(level) {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid access level"})
		return
	}

	var user models.User

	if err := db.DB.First(&user, req.UserID).Error; err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	var existing models.ProjectUser

	err = db.DB.Where("project_id = ? AND user_id = ?", projectID, req.UserID).First(&existing).Error

	if err == nil {
		ctx.JSON(http.StatusConflict, gin.H{"error": "User is already in the project"})
		return
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		zap.L().Error("failed to check existing membership", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	membership := models.ProjectUser{
		ProjectID:   projectID,
		UserID:      req.UserID,
		AccessLevel: level,
	}

	if err := db.DB.Create(&membership).Error; err != nil {
		zap.L().Error("failed to add member", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add member"})
		return
	}

	ctx.JSON(http.StatusCreated, MemberResponse{
		UserID:      user.ID,
		Name:        user.Name,
		Email:       user.Email,
		AccessLevel: membership.AccessLevel,
	})
}

func ListProjectMembers(ctx *gin.Context) {
	projectID, err := utils.GetProjectID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	currentUserID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	if err := access.RequireProjectViewer(projectID, currentUserID); err != nil {
		respondAccessError(ctx, err)
		return
	}

	members, err := listMembers("project_users", "project_id", projectID)

	if err != nil {
		zap.L().Error("failed to list members", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve members"})
		return
	}

	ctx.JSON(http.StatusOK, members)
}

func UpdateProjectMemberRole(ctx *gin.Context) {
	projectID, err := utils.GetProjectID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	memberID, err := utils.GetUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	currentUserID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	if err := access.RequireProjectAdmin(projectID, currentUserID); err != nil {
		respondAccessError(ctx, err)
		return
	}

	var req UpdateMemberRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if !types.ValidRole(req.AccessLevel) {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid access level"})
		return
	}

	var membership models.ProjectUser

	if err := db.DB.Where("project_id = ? AND user_id = ?", projectID, memberID).First(&membership).Error; err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "User not found in the project"})
		return
	}

	membership.AccessLevel = req.AccessLevel

	if err := db.DB.Save(&membership).Error; err != nil {
		zap.L().Error("failed to update member role", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update member"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Member role updated"})
}

func RemoveProjectMember(ctx *gin.Context) {
	projectID, err := utils.GetProjectID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	memberID, err := utils.GetUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	currentUserID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	if err := access.RequireProjectAdmin(projectID, currentUserID); err != nil {
		respondAccessError(ctx, err)
		return
	}

	result := db.DB.Where("project_id = ? AND user_id = ?", projectID, memberID).Delete(&models.ProjectUser{})

	if result.Error != nil {
		zap.L().Error("failed to remove member", zap.Error(result.Error))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove member"})
		return
	}

	if result.RowsAffected == 0 {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "User not found in the project"})
		return
	}

	ctx.Status(http.StatusNoContent)
}

func ListWorkspaceMembers(ctx *gin.Context) {
	workspaceID, err := utils.GetWorkspaceID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	currentUserID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	if err := access.RequireWorkspaceViewer(workspaceID, currentUserID); err != nil {
		respondAccessError(ctx, err)
		return
	}

	members, err := listMembers("workspace_users", "workspace_id", workspaceID)

	if err != nil {
		zap.L().Error("failed to list members", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve members"})
		return
	}

	ctx.JSON(http.StatusOK, members)
}

func UpdateWorkspaceMemberRole(ctx *gin.Context) {
	workspaceID, err := utils.GetWorkspaceID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	memberID, err := utils.GetUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	currentUserID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	if err := access.RequireWorkspaceAdmin(workspaceID, currentUserID); err != nil {
		respondAccessError(ctx, err)
		return
	}

	var req UpdateMemberRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if !types.ValidRole(req.AccessLevel) {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid access level"})
		return
	}

	var membership models.WorkspaceUser

	if err := db.DB.Where("workspace_id = ? AND user_id = ?", workspaceID, memberID).First(&membership).Error; err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "User not found in the workspace"})
		return
	}

	membership.AccessLevel = req.AccessLevel

	if err := db.DB.Save(&membership).Error; err != nil {
		zap.L().Error("failed to update member role", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update member"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Member role updated"})
}

func RemoveWorkspaceMember(ctx *gin.Context) {
	workspaceID, err := utils.GetWorkspaceID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	memberID, err := utils.GetUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	currentUserID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	if err := access.RequireWorkspaceAdmin(workspaceID, currentUserID); err != nil {
		respondAccessError(ctx, err)
		return
	}

	result := db.DB.Where("workspace_id = ? AND user_id = ?", workspaceID, memberID).Delete(&models.WorkspaceUser{})

	if result.Error != nil {
		zap.L().Error("failed to remove member", zap.Error(result.Error))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove member"})
		return
	}

	if result.RowsAffected == 0 {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "User not found in the workspace"})
		return
	}

	ctx.Status(http.StatusNoContent)
}

func listMembers(table, column string, id uint) ([]MemberResponse, error) {
	var members []MemberResponse

	err := db.DB.Table(table).
		Select(table+".user_id, users.name, users.email, "+table+".access_level").
		Joins("JOIN users ON users.id = "+table+".user_id").
		Where(table+"."+column+" = ?", id).
		Scan(&members).Error

	if members == nil {
		members = []MemberResponse{}
	}

	return members, err
}
