package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/taskhive-dev/taskhive/db"
	"github.com/taskhive-dev/taskhive/internal/models"
	"github.com/taskhive-dev/taskhive/internal/utils"
	"go.uber.org/zap"
)

type DueReminder struct {
	ReminderID uint      `json:"reminder_id"`
	RemindAt   time.Time `json:"remind_at"`
	TaskID     uint      `json:"task_id"`
	TaskName   string    `json:"task_name"`
	ProjectID  uint      `json:"project_id"`
	DueDate    *string   `json:"due_date"`
}

func dueRemindersFor(userID uint, now time.Time) ([]DueReminder, error) {
	var rows []struct {
		models.Reminder
		TaskName  string
		ProjectID uint
		DueDate   *time.Time
	}

	err := db.DB.Table("reminders").
		Select("reminders.*, tasks.name as task_name, tasks.project_id, tasks.due_date").
		Joins("JOIN tasks ON tasks.id = reminders.task_id").
		Where("tasks.assigned_to = ? AND reminders.remind_at <= ? AND reminders.is_sent = ?", userID, now, false).
		Order("reminders.remind_at").
		Scan(&rows).Error

	if err != nil {
		return nil, err
	}

	reminders := make([]DueReminder, 0, len(rows))
	for _, row := range rows {
		var dueDate *string
		if row.DueDate != nil {
			formatted := row.DueDate.Format(dueDateLayout)
			dueDate = &formatted
		}

		reminders = append(reminders, DueReminder{
			ReminderID: row.ID,
			RemindAt:   row.RemindAt,
			TaskID:     row.TaskID,
			TaskName:   row.TaskName,
			ProjectID:  row.ProjectID,
			DueDate:    dueDate,
		})
	}

	return reminders, nil
}

// UserReminders returns due, not yet sent reminders for tasks assigned to the
// caller. Read-only; the websocket feed is what marks reminders sent.
func UserReminders(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	reminders, err := dueRemindersFor(userID, time.Now().UTC())

	if err != nil {
		zap.L().Error("failed to list reminders", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve reminders"})
		return
	}

	ctx.JSON(http.StatusOK, reminders)
}

// UsersBasicInfo returns the user directory used for assignee and invite
// pickers: id, name and email only.
func UsersBasicInfo(ctx *gin.Context) {
	var users []models.User

	if err := db.DB.Order("id").Find(&users).Error; err != nil {
		zap.L().Error("failed to list users", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve users"})
		return
	}

	response := make([]UserResponse, 0, len(users))
	for _, user := range users {
		response = append(response, UserResponse{ID: user.ID, Name: user.Name, Email: user.Email})
	}

	ctx.JSON(http.StatusOK, response)
}
