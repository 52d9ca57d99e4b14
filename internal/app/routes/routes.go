package routes

import (
	"github.com/dawan/studentprojects/internal/app/controllers"
	"github.com/dawan/studentprojects/internal/middleware"
	"github.com/gin-gonic/gin"
)

// Controllers groups every controller the router mounts
type Controllers struct {
	Auth    *controllers.AuthController
	Project *controllers.ProjectController
	Student *controllers.StudentController
	Health  *controllers.HealthController
}

// SetupRouter configures all application routes
func SetupRouter(router *gin.Engine, c Controllers, authMiddleware *middleware.AuthMiddleware) {
	router.GET("/", c.Health.Root)

	// API version group
	v1 := router.Group("/api/v1")
	v1.GET("/health", c.Health.Health)

	// --- Public Auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/register", c.Auth.Register)
		auth.POST("/login", c.Auth.Login)
		auth.GET("/me", authMiddleware.JWTAuth(), c.Auth.Me)
	}

	// --- Authenticated Routes Group ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())

	projects := authenticated.Group("/projects")
	{
		projects.GET("", c.Project.ListProjects)
		projects.POST("", c.Project.CreateProject)
		projects.GET("/:p_id", c.Project.GetProject)
		projects.PUT("/:p_id", c.Project.UpdateProject)
		projects.DELETE("/:p_id", c.Project.DeleteProject)
		projects.GET("/:p_id/students", c.Project.ListProjectStudents)
	}

	students := authenticated.Group("/students")
	{
		students.GET("", c.Student.ListStudents)
		students.POST("", c.Student.CreateStudent)
		students.GET("/:s_id", c.Student.GetStudent)
		students.PUT("/:s_id", c.Student.UpdateStudent)
		students.DELETE("/:s_id", c.Student.DeleteStudent)
	}
}
