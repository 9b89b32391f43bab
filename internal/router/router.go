package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/taskhive-dev/taskhive/internal/handlers"
	"github.com/taskhive-dev/taskhive/internal/middleware"
	"github.com/taskhive-dev/taskhive/internal/types"
	"go.uber.org/zap"
)

func NewRouter() *gin.Engine {
	r := gin.New()

	r.Use(middleware.RequestLogger(zap.L()))
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     types.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	api := r.Group("/api")
	{
		api.GET("/health", handlers.HealthCheck)
		api.GET("/ws/reminders", middleware.AuthMiddleware(), handlers.ReminderSocket)

		auth := api.Group("/auth")
		{
			auth.POST("/register", handlers.Register)
			auth.POST("/login", handlers.Login)
			auth.POST("/refresh", handlers.Refresh)
			auth.POST("/telegram", handlers.TelegramAuth)
			auth.GET("/me", middleware.AuthMiddleware(), handlers.Me)
		}

		workspaces := api.Group("/workspaces", middleware.AuthMiddleware())
		{
			workspaces.POST("", handlers.CreateWorkspace)
			workspaces.GET("", handlers.ListWorkspaces)
			workspaces.GET("/:workspace_id", handlers.GetWorkspace)
			workspaces.PATCH("/:workspace_id", handlers.UpdateWorkspace)
			workspaces.DELETE("/:workspace_id", handlers.DeleteWorkspace)

			workspaces.GET("/:workspace_id/users", handlers.ListWorkspaceMembers)
			workspaces.PATCH("/:workspace_id/users/:user_id", handlers.UpdateWorkspaceMemberRole)
			workspaces.DELETE("/:workspace_id/users/:user_id", handlers.RemoveWorkspaceMember)
		}

		projects := api.Group("/projects", middleware.AuthMiddleware())
		{
			projects.POST("", handlers.CreateProject)
			projects.GET("/workspace/:workspace_id", handlers.ListWorkspaceProjects)
			projects.GET("/:project_id", handlers.GetProject)
			projects.PATCH("/:project_id", handlers.UpdateProject)
			projects.DELETE("/:project_id", handlers.DeleteProject)
			projects.GET("/:project_id/tasks", handlers.ListProjectTasks)

			projects.GET("/:project_id/users", handlers.ListProjectMembers)
			projects.POST("/:project_id/users", handlers.AddProjectMember)
			projects.PATCH("/:project_id/users/:user_id", handlers.UpdateProjectMemberRole)
			projects.DELETE("/:project_id/users/:user_id", handlers.RemoveProjectMember)

			projects.POST("/:project_id/invites/send", handlers.SendInvite)
			projects.POST("/:project_id/invites/accept", handlers.AcceptInvite)
			projects.POST("/:project_id/invites/decline", handlers.DeclineInvite)
		}

		tasks := api.Group("/tasks", middleware.AuthMiddleware())
		{
			tasks.POST("", handlers.CreateTask)
			tasks.GET("/stats", handlers.TaskStatistics)
			tasks.GET("/user/tasks", handlers.UserTasksByDate)
			tasks.GET("/project/:project_id", handlers.ListProjectTasks)
			tasks.GET("/:task_id", handlers.GetTask)
			tasks.PATCH("/:task_id", handlers.UpdateTask)
			tasks.PATCH("/:task_id/complete", handlers.CompleteTask)
			tasks.DELETE("/:task_id", handlers.DeleteTask)
			tasks.GET("/:task_id/comments", handlers.ListTaskComments)
			tasks.POST("/:task_id/comments", handlers.CreateTaskComment)
			tasks.GET("/:task_id/with_reminders", handlers.GetTaskWithReminders)
		}

		user := api.Group("/user", middleware.AuthMiddleware())
		{
			user.GET("/invites", handlers.ListUserInvites)
			user.GET("/reminders", handlers.UserReminders)
			user.GET("/basic-info", handlers.UsersBasicInfo)
		}
	}

	return r
}
