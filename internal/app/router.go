package app

import (
	"interrogator/internal/config"
	"interrogator/internal/middleware"
	"interrogator/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))
	router.GET("/metrics", monitoring.PrometheusHandler())

	a.registerPublicRoutes(router, c)

	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg.JWT.Secret))
	{
		a.registerSectionRoutes(authGroup, c)
		a.registerGroupRoutes(authGroup, c)
		a.registerQuestionRoutes(authGroup, c)
		a.registerAnswerRoutes(authGroup, c)

		authGroup.GET("/search", c.search.Search)
	}
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
	}
}

func (a *App) registerSectionRoutes(api *gin.RouterGroup, c *controllers) {
	sections := api.Group("/sections")
	{
		sections.GET("", c.section.List)
		sections.POST("", c.section.Create)
		sections.GET("/:ref", c.section.Get)
		sections.PUT("/:ref", c.section.Update)
		sections.DELETE("/:ref", c.section.Delete)
		sections.POST("/:ref/restore", c.section.Restore)
		sections.POST("/:ref/copy", c.section.Copy)
		sections.POST("/:ref/detach", c.section.Detach)
		sections.PUT("/:ref/options/:key", c.section.SetOption)
		sections.DELETE("/:ref/options/:key", c.section.UnsetOption)
	}
}

func (a *App) registerGroupRoutes(api *gin.RouterGroup, c *controllers) {
	groups := api.Group("/groups")
	{
		groups.GET("", c.group.List)
		groups.POST("", c.group.Create)
		groups.GET("/:ref", c.group.Get)
		groups.PUT("/:ref", c.group.Update)
		groups.DELETE("/:ref", c.group.Delete)
		groups.POST("/:ref/restore", c.group.Restore)
		groups.POST("/:ref/copy", c.group.Copy)
		groups.PUT("/:ref/options/:key", c.group.SetOption)
		groups.DELETE("/:ref/options/:key", c.group.UnsetOption)
	}
}

func (a *App) registerQuestionRoutes(api *gin.RouterGroup, c *controllers) {
	api.GET("/question-types", c.question.Types)

	questions := api.Group("/questions")
	{
		questions.GET("", c.question.List)
		questions.POST("", c.question.Create)
		questions.GET("/:ref", c.question.Get)
		questions.PUT("/:ref", c.question.Update)
		questions.DELETE("/:ref", c.question.Delete)
		questions.POST("/:ref/restore", c.question.Restore)
		questions.POST("/:ref/copy", c.question.Copy)
		questions.POST("/:ref/choices", c.question.AddChoices)
		questions.PUT("/:ref/allows-other", c.question.SetAllowsOther)
		questions.PUT("/:ref/options/:key", c.question.SetOption)
		questions.DELETE("/:ref/options/:key", c.question.UnsetOption)
	}
}

func (a *App) registerAnswerRoutes(api *gin.RouterGroup, c *controllers) {
	api.GET("/answerables", c.answer.Types)

	answerables := api.Group("/answerables/:type/:id")
	{
		answerables.GET("/sections", c.answer.Sections)
		answerables.GET("/answers", c.answer.List)
		answerables.GET("/answers/:question", c.answer.Get)
		answerables.PUT("/answers/:question", c.answer.Answer)
	}
}
