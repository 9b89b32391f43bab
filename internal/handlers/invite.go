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

type SendInviteRequest struct {
	UserID uint `json:"user_id" binding:"required"`
}

type InviteResponse struct {
	ProjectID   uint   `json:"project_id"`
	ProjectName string `json:"project_name"`
}

// SendInvite creates a pending membership. The unique (project, user) index
// means a user who is already invited or a member cannot be invited again.
func SendInvite(ctx *gin.Context) {
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

	var req SendInviteRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	var invitee models.User

	if err := db.DB.First(&invitee, req.UserID).Error; err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	var existing models.ProjectUser

	err = db.DB.Where("project_id = ? AND user_id = ?", projectID, req.UserID).First(&existing).Error

	if err == nil {
		ctx.JSON(http.StatusConflict, gin.H{"error": "User is already a member or has a pending invite"})
		return
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		zap.L().Error("failed to check existing membership", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	invite := models.ProjectUser{
		ProjectID:   projectID,
		UserID:      req.UserID,
		AccessLevel: types.AccessInvited,
	}

	if err := db.DB.Create(&invite).Error; err != nil {
		zap.L().Error("failed to create invite", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send invite"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Invite sent"})
}

func pendingInvite(projectID, userID uint) (models.ProjectUser, error) {
	var invite models.ProjectUser

	err := db.DB.
		Where("project_id = ? AND user_id = ? AND access_level = ?", projectID, userID, types.AccessInvited).
		First(&invite).Error

	return invite, err
}

// AcceptInvite promotes the caller's pending invite to a member row.
func AcceptInvite(ctx *gin.Context) {
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

	invite, err := pendingInvite(projectID, userID)

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Invite not found"})
		} else {
			zap.L().Error("failed to fetch invite", zap.Error(err))
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	invite.AccessLevel = types.AccessMember

	if err := db.DB.Save(&invite).Error; err != nil {
		zap.L().Error("failed to accept invite", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to accept invite"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Invite accepted"})
}

// DeclineInvite removes the caller's pending invite.
func DeclineInvite(ctx *gin.Context) {
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

	invite, err := pendingInvite(projectID, userID)

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Invite not found"})
		} else {
			zap.L().Error("failed to fetch invite", zap.Error(err))
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	if err := db.DB.Delete(&invite).Error; err != nil {
		zap.L().Error("failed to decline invite", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decline invite"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Invite declined"})
}

// ListUserInvites returns the caller's pending project invites.
func ListUserInvites(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var invites []InviteResponse

	err = db.DB.Table("project_users").
		Select("project_users.project_id, projects.name as project_name").
		Joins("JOIN projects ON projects.id = project_users.project_id").
		Where("project_users.user_id = ? AND project_users.access_level = ?", userID, types.AccessInvited).
		Scan(&invites).Error

	if err != nil {
		zap.L().Error("failed to list invites", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve invites"})
		return
	}

	if invites == nil {
		invites = []InviteResponse{}
	}

	ctx.JSON(http.StatusOK, invites)
}
