package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/taskhive-dev/taskhive/db"
	"github.com/taskhive-dev/taskhive/internal/access"
	"github.com/taskhive-dev/taskhive/internal/models"
	"github.com/taskhive-dev/taskhive/internal/types"
	"github.com/taskhive-dev/taskhive/internal/utils"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const dueDateLayout = "2006-01-02"

type CreateTaskRequest struct {
	Name         string     `json:"name" binding:"required"`
	ProjectID    uint       `json:"project_id" binding:"required"`
	Description  string     `json:"description"`
	Status       string     `json:"status"`
	Priority     string     `json:"priority"`
	DueDate      *string    `json:"due_date"` // YYYY-MM-DD
	AssignedTo   uint       `json:"assigned_to"`
	ParentTaskID uint       `json:"parent_task_id"` // 0 means no parent
	ReminderTime *time.Time `json:"reminder_time"`
}

type UpdateTaskRequest struct {
	Name         *string `json:"name"`
	Description  *string `json:"description"`
	Status       *string `json:"status"`
	Priority     *string `json:"priority"`
	DueDate      *string `json:"due_date"`
	AssignedTo   *uint   `json:"assigned_to"`
	ParentTaskID *uint   `json:"parent_task_id"` // 0 detaches
	IsCompleted  *bool   `json:"is_completed"`
}

type TaskResponse struct {
	ID           uint      `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Status       string    `json:"status"`
	Priority     string    `json:"priority"`
	DueDate      *string   `json:"due_date"`
	IsCompleted  bool      `json:"is_completed"`
	CreatedBy    uint      `json:"created_by"`
	AssignedTo   *uint     `json:"assigned_to"`
	ProjectID    uint      `json:"project_id"`
	ParentTaskID *uint     `json:"parent_task_id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TaskSummary is the reduced projection used for a task's immediate parent
// and children.
type TaskSummary struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Status      string `json:"status"`
	Priority    string `json:"priority"`
	IsCompleted bool   `json:"is_completed"`
}

type TaskDetailResponse struct {
	TaskResponse
	ParentTask *TaskSummary  `json:"parent_task"`
	Subtasks   []TaskSummary `json:"subtasks"`
}

type ReminderResponse struct {
	ID       uint      `json:"id"`
	TaskID   uint      `json:"task_id"`
	RemindAt time.Time `json:"remind_at"`
	IsSent   bool      `json:"is_sent"`
}

type TaskWithRemindersResponse struct {
	TaskResponse
	Reminders []ReminderResponse `json:"reminders"`
}

func taskResponse(task models.Task) TaskResponse {
	var dueDate *string
	if task.DueDate != nil {
		formatted := task.DueDate.Format(dueDateLayout)
		dueDate = &formatted
	}

	return TaskResponse{
		ID:           task.ID,
		Name:         task.Name,
		Description:  task.Description,
		Status:       string(task.Status),
		Priority:     string(task.Priority),
		DueDate:      dueDate,
		IsCompleted:  task.IsCompleted,
		CreatedBy:    task.CreatedBy,
		AssignedTo:   task.AssignedTo,
		ProjectID:    task.ProjectID,
		ParentTaskID: task.ParentTaskID,
		CreatedAt:    task.CreatedAt,
		UpdatedAt:    task.UpdatedAt,
	}
}

func taskSummary(task models.Task) TaskSummary {
	return TaskSummary{
		ID:          task.ID,
		Name:        task.Name,
		Status:      string(task.Status),
		Priority:    string(task.Priority),
		IsCompleted: task.IsCompleted,
	}
}

func reminderResponse(reminder models.Reminder) ReminderResponse {
	return ReminderResponse{
		ID:       reminder.ID,
		TaskID:   reminder.TaskID,
		RemindAt: reminder.RemindAt,
		IsSent:   reminder.IsSent,
	}
}

func parseDueDate(raw *string) (*time.Time, error) {
	if raw == nil {
		return nil, nil
	}

	parsed, err := time.Parse(dueDateLayout, *raw)
	if err != nil {
		return nil, err
	}

	return &parsed, nil
}

func fetchTask(ctx *gin.Context, taskID uint) (models.Task, bool) {
	var task models.Task

	if err := db.DB.First(&task, taskID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		} else {
			zap.L().Error("failed to fetch task", zap.Error(err))
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve task"})
		}
		return models.Task{}, false
	}

	return task, true
}

// validateParent checks that the proposed parent exists and lives in the same
// project. Returns the HTTP status to fail with, or 0 when the parent is fine.
func validateParent(parentID, projectID uint) (int, string) {
	var parent models.Task

	if err := db.DB.First(&parent, parentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return http.StatusNotFound, "Parent task not found"
		}
		return http.StatusInternalServerError, "Failed to retrieve parent task"
	}

	if parent.ProjectID != projectID {
		return http.StatusBadRequest, "Parent task belongs to a different project"
	}

	return 0, ""
}

// wouldCreateCycle walks up from the proposed parent; reattaching a task under
// itself or one of its descendants is rejected.
func wouldCreateCycle(taskID, parentID uint) (bool, error) {
	current := parentID

	for {
		if current == taskID {
			return true, nil
		}

		var parent models.Task

		if err := db.DB.Select("id", "parent_task_id").First(&parent, current).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return false, nil
			}
			return false, err
		}

		if parent.ParentTaskID == nil {
			return false, nil
		}

		current = *parent.ParentTaskID
	}
}

func CreateTask(ctx *gin.Context) {
	var req CreateTaskRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	if err := access.RequireProjectEditor(req.ProjectID, userID); err != nil {
		respondAccessError(ctx, err)
		return
	}

	status := types.TaskStatusOpen
	if req.Status != "" {
		status = types.TaskStatus(req.Status)
		if !types.ValidTaskStatus(status) {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task status"})
			return
		}
	}

	priority := types.TaskPriorityNone
	if req.Priority != "" {
		priority = types.TaskPriority(req.Priority)
		if !types.ValidTaskPriority(priority) {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task priority"})
			return
		}
	}

	dueDate, err := parseDueDate(req.DueDate)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid due date, expected YYYY-MM-DD"})
		return
	}

	// Sentinel 0 normalizes to "no parent" / "unassigned".
	var parentTaskID *uint
	if req.ParentTaskID != 0 {
		if status, msg := validateParent(req.ParentTaskID, req.ProjectID); status != 0 {
			ctx.JSON(status, gin.H{"error": msg})
			return
		}
		parentTaskID = &req.ParentTaskID
	}

	var assignedTo *uint
	if req.AssignedTo != 0 {
		assignedTo = &req.AssignedTo
	}

	task := models.Task{
		Name:         req.Name,
		Description:  req.Description,
		Status:       status,
		Priority:     priority,
		DueDate:      dueDate,
		CreatedBy:    userID,
		AssignedTo:   assignedTo,
		ProjectID:    req.ProjectID,
		ParentTaskID: parentTaskID,
	}

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&task).Error; err != nil {
			return err
		}

		if req.ReminderTime != nil {
			reminder := models.Reminder{
				TaskID:   task.ID,
				RemindAt: *req.ReminderTime,
			}
			return tx.Create(&reminder).Error
		}

		return nil
	})

	if err != nil {
		zap.L().Error("failed to create task", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create task"})
		return
	}

	ctx.JSON(http.StatusCreated, taskResponse(task))
}

// GetTask returns the task with its immediate parent and children.
func GetTask(ctx *gin.Context) {
	taskID, err := utils.GetTaskID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var task models.Task

	err = db.DB.Preload("ParentTask").Preload("Subtasks").First(&task, taskID).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		} else {
			zap.L().Error("failed to fetch task", zap.Error(err))
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve task"})
		}
		return
	}

	if err := access.RequireProjectViewer(task.ProjectID, userID); err != nil {
		respondAccessError(ctx, err)
		return
	}

	detail := TaskDetailResponse{
		TaskResponse: taskResponse(task),
		Subtasks:     make([]TaskSummary, 0, len(task.Subtasks)),
	}

	if task.ParentTask != nil {
		parent := taskSummary(*task.ParentTask)
		detail.ParentTask = &parent
	}

	for _, subtask := range task.Subtasks {
		detail.Subtasks = append(detail.Subtasks, taskSummary(subtask))
	}

	ctx.JSON(http.StatusOK, detail)
}

// UpdateTask applies a partial update: nil fields are left unchanged.
// Content edits require editor or above.
func UpdateTask(ctx *gin.Context) {
	taskID, err := utils.GetTaskID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	task, ok := fetchTask(ctx, taskID)
	if !ok {
		return
	}

	if err := access.RequireProjectEditor(task.ProjectID, userID); err != nil {
		respondAccessError(ctx, err)
		return
	}

	var req UpdateTaskRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if req.Name != nil {
		task.Name = *req.Name
	}
	if req.Description != nil {
		task.Description = *req.Description
	}
	if req.Status != nil {
		status := types.TaskStatus(*req.Status)
		if !types.ValidTaskStatus(status) {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task status"})
			return
		}
		task.Status = status
	}
	if req.Priority != nil {
		priority := types.TaskPriority(*req.Priority)
		if !types.ValidTaskPriority(priority) {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task priority"})
			return
		}
		task.Priority = priority
	}
	if req.DueDate != nil {
		dueDate, err := parseDueDate(req.DueDate)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid due date, expected YYYY-MM-DD"})
			return
		}
		task.DueDate = dueDate
	}
	if req.AssignedTo != nil {
		if *req.AssignedTo == 0 {
			task.AssignedTo = nil
		} else {
			task.AssignedTo = req.AssignedTo
		}
	}
	if req.IsCompleted != nil {
		task.IsCompleted = *req.IsCompleted
	}

	if req.ParentTaskID != nil {
		if *req.ParentTaskID == 0 {
			task.ParentTaskID = nil
		} else {
			if status, msg := validateParent(*req.ParentTaskID, task.ProjectID); status != 0 {
				ctx.JSON(status, gin.H{"error": msg})
				return
			}

			cycle, err := wouldCreateCycle(task.ID, *req.ParentTaskID)
			if err != nil {
				zap.L().Error("failed to walk task ancestors", zap.Error(err))
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update task"})
				return
			}
			if cycle {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": "Task cannot be its own ancestor"})
				return
			}

			task.ParentTaskID = req.ParentTaskID
		}
	}

	if err := db.DB.Save(&task).Error; err != nil {
		zap.L().Error("failed to update task", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update task"})
		return
	}

	ctx.JSON(http.StatusOK, taskResponse(task))
}

// CompleteTask toggles the completion flag. Editors may toggle any task, a
// viewer only tasks assigned to them.
func CompleteTask(ctx *gin.Context) {
	taskID, err := utils.GetTaskID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	task, ok := fetchTask(ctx, taskID)
	if !ok {
		return
	}

	if err := access.RequireProjectViewer(task.ProjectID, userID); err != nil {
		respondAccessError(ctx, err)
		return
	}

	allowed, err := access.CanToggleCompletion(task, userID)

	if err != nil {
		respondAccessError(ctx, err)
		return
	}

	if !allowed {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		return
	}

	isCompleted := true
	if raw, exists := ctx.GetQuery("is_completed"); exists && raw == "false" {
		isCompleted = false
	}

	task.IsCompleted = isCompleted

	if err := db.DB.Save(&task).Error; err != nil {
		zap.L().Error("failed to update task completion", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update task"})
		return
	}

	ctx.JSON(http.StatusOK, taskResponse(task))
}

// DeleteTask removes the task; subtasks, reminders and comments go with it
// through the foreign-key cascades.
func DeleteTask(ctx *gin.Context) {
	taskID, err := utils.GetTaskID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	task, ok := fetchTask(ctx, taskID)
	if !ok {
		return
	}

	if err := access.RequireProjectEditor(task.ProjectID, userID); err != nil {
		respondAccessError(ctx, err)
		return
	}

	if err := db.DB.Delete(&task).Error; err != nil {
		zap.L().Error("failed to delete task", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete task"})
		return
	}

	ctx.Status(http.StatusNoContent)
}

func ListProjectTasks(ctx *gin.Context) {
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

	var tasks []models.Task

	if err := db.DB.Where("project_id = ?", projectID).Order("id").Find(&tasks).Error; err != nil {
		zap.L().Error("failed to list tasks", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve tasks"})
		return
	}

	response := make([]TaskResponse, 0, len(tasks))
	for _, task := range tasks {
		response = append(response, taskResponse(task))
	}

	ctx.JSON(http.StatusOK, response)
}

// UserTasksByDate returns the caller's assigned tasks due on the given date.
func UserTasksByDate(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	raw := ctx.Query("target_date")

	if raw == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "target_date query parameter is required"})
		return
	}

	targetDate, err := time.Parse(dueDateLayout, raw)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid target_date, expected YYYY-MM-DD"})
		return
	}

	var tasks []models.Task

	err = db.DB.
		Where("assigned_to = ? AND due_date >= ? AND due_date < ?", userID, targetDate, targetDate.AddDate(0, 0, 1)).
		Order("due_date, id").
		Find(&tasks).Error

	if err != nil {
		zap.L().Error("failed to list user tasks", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve tasks"})
		return
	}

	response := make([]TaskResponse, 0, len(tasks))
	for _, task := range tasks {
		response = append(response, taskResponse(task))
	}

	ctx.JSON(http.StatusOK, response)
}

func GetTaskWithReminders(ctx *gin.Context) {
	taskID, err := utils.GetTaskID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var task models.Task

	err = db.DB.Preload("Reminders").First(&task, taskID).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		} else {
			zap.L().Error("failed to fetch task", zap.Error(err))
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve task"})
		}
		return
	}

	if err := access.RequireProjectViewer(task.ProjectID, userID); err != nil {
		respondAccessError(ctx, err)
		return
	}

	response := TaskWithRemindersResponse{
		TaskResponse: taskResponse(task),
		Reminders:    make([]ReminderResponse, 0, len(task.Reminders)),
	}

	for _, reminder := range task.Reminders {
		response.Reminders = append(response.Reminders, reminderResponse(reminder))
	}

	ctx.JSON(http.StatusOK, response)
}
