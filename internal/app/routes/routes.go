package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/yigit/projectdesk/internal/app/controllers"
	"github.com/yigit/projectdesk/internal/app/models"
	"github.com/yigit/projectdesk/internal/middleware"
	"github.com/yigit/projectdesk/internal/pkg/websocket"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	userController *controllers.UserController,
	projectController *controllers.ProjectController,
	documentController *controllers.DocumentController,
	healthController *controllers.HealthController,
	wsHandler *websocket.Handler,
	authMiddleware *middleware.AuthMiddleware,
) {
	api := router.Group("/api")

	api.GET("/health", healthController.Health)

	// --- Public routes ---
	users := api.Group("/users")
	{
		users.POST("/register", userController.Register)
		users.POST("/login", userController.Login)
	}

	projects := api.Group("/projects")
	projects.POST("/submit-registration", projectController.SubmitRegistration)

	// --- Authenticated routes ---
	authenticated := api.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		authenticated.GET("/ws/notifications", wsHandler.HandleConnection)

		usersProtected := authenticated.Group("/users")
		{
			usersProtected.PUT("/profile", userController.UpdateProfile)
			usersProtected.GET("/notifications", userController.ListNotifications)
			usersProtected.PUT("/notifications/:id/read", userController.MarkNotificationRead)
		}

		projectsProtected := authenticated.Group("/projects")
		{
			projectsProtected.GET("/all-assignments", projectController.Assignments)

			// Mentor-only routes; ownership of the project is checked by the services
			teacher := projectsProtected.Group("")
			teacher.Use(authMiddleware.RoleRequired(models.RoleTeacher))
			{
				teacher.GET("/teacher", projectController.TeacherProjects)
				teacher.PUT("/:id/status", projectController.RespondToRequest)
				teacher.PUT("/:id/remarks", projectController.SetRemarks)
				teacher.PUT("/documents/:docId/status", documentController.Review)
			}

			student := projectsProtected.Group("")
			student.Use(authMiddleware.RoleRequired(models.RoleStudent))
			{
				student.GET("/my-dashboard", projectController.MyDashboard)
				student.PUT("/description", projectController.UpdateDescription)
				student.POST("/upload-document/:projectId", documentController.Upload)
				student.GET("/documents/download/:fileName", documentController.Download)
				student.DELETE("/documents/:docId", documentController.Delete)
			}
		}
	}
}
