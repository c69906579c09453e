package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/pmb/admissions/internal/app/controllers"
	"github.com/pmb/admissions/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	ctrls *controllers.Controllers,
	authMiddleware *middleware.AuthMiddleware,
) {
	router.NoRoute(middleware.NotFound)
	router.GET("/", ctrls.HealthController.Root)

	// API version group
	v1 := router.Group("/api/v1")
	v1.GET("/health", ctrls.HealthController.Health)

	// --- API key management ---
	apiKeys := v1.Group("/api-keys")
	apiKeys.Use(authMiddleware.AdminKeyAuth())
	{
		apiKeys.POST("", ctrls.APIKeyController.Create)
		apiKeys.GET("", ctrls.APIKeyController.FindAll)
		apiKeys.GET("/:id", ctrls.APIKeyController.FindByID)
		apiKeys.PUT("/:id/disable", ctrls.APIKeyController.Disable)
		apiKeys.PUT("/:id/enable", ctrls.APIKeyController.Enable)
		apiKeys.DELETE("/:id", ctrls.APIKeyController.Delete)
	}

	// --- Routes protected by x-api-key ---
	protected := v1.Group("")
	protected.Use(authMiddleware.APIKeyAuth())

	// Students are applicants holding a NIM and share the applicant handlers
	for _, prefix := range []string{"/applicants", "/students"} {
		registerApplicantRoutes(protected.Group(prefix), ctrls.ApplicantController)
	}

	studyPrograms := protected.Group("/study-programs")
	{
		// Static segments are registered before /:id
		studyPrograms.GET("/active", ctrls.StudyProgramController.FindAllActive)
		studyPrograms.POST("/sync", ctrls.StudyProgramController.Sync)

		studyPrograms.POST("", ctrls.StudyProgramController.Create)
		studyPrograms.GET("", ctrls.StudyProgramController.FindAll)
		studyPrograms.GET("/:id", ctrls.StudyProgramController.FindByID)
		studyPrograms.PUT("/:id", ctrls.StudyProgramController.Update)
		studyPrograms.DELETE("/:id", ctrls.StudyProgramController.Delete)
	}
}

func registerApplicantRoutes(group *gin.RouterGroup, ctrl *controllers.ApplicantController) {
	group.POST("/sync", ctrl.Sync)

	group.POST("", ctrl.Create)
	group.GET("", ctrl.FindAll)
	group.GET("/:id", ctrl.FindByID)
	group.PUT("/:id", ctrl.Update)
	group.DELETE("/:id", ctrl.Delete)
	group.POST("/:id/convert", ctrl.ConvertToStudent)
	group.POST("/:id/publish-loa", ctrl.PublishLoa)
}
