package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/taskhive-dev/taskhive/db"
	"github.com/taskhive-dev/taskhive/internal/types"
	"github.com/taskhive-dev/taskhive/internal/utils"
	"go.uber.org/zap"
)

// ProjectTaskStats is the per-project breakdown for the caller. The four-state
// status enum is reduced to three buckets: DONE counts as completed and REVIEW
// folds into in-progress.
type ProjectTaskStats struct {
	ProjectID       uint   `json:"project_id"`
	ProjectName     string `json:"project_name"`
	TotalTasks      int64  `json:"total_tasks"`
	OpenTasks       int64  `json:"open_tasks"`
	InProgressTasks int64  `json:"in_progress_tasks"`
	CompletedTasks  int64  `json:"completed_tasks"`
}

func TaskStatistics(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var stats []ProjectTaskStats

	err = db.DB.Table("tasks").
		Select(`projects.id as project_id,
			projects.name as project_name,
			count(tasks.id) as total_tasks,
			sum(case when tasks.status = 'OPEN' then 1 else 0 end) as open_tasks,
			sum(case when tasks.status in ('IN_PROGRESS', 'REVIEW') then 1 else 0 end) as in_progress_tasks,
			sum(case when tasks.status = 'DONE' then 1 else 0 end) as completed_tasks`).
		Joins("JOIN projects ON projects.id = tasks.project_id").
		Joins("JOIN project_users ON project_users.project_id = projects.id").
		Where("project_users.user_id = ? AND project_users.access_level <> ?", userID, types.AccessInvited).
		Group("projects.id, projects.name").
		Order("projects.id").
		Scan(&stats).Error

	if err != nil {
		zap.L().Error("failed to aggregate task statistics", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve statistics"})
		return
	}

	if stats == nil {
		stats = []ProjectTaskStats{}
	}

	ctx.JSON(http.StatusOK, stats)
}
