package app

import (
	"lingo_backend/docs"
	"lingo_backend/internal/config"
	"lingo_backend/internal/middleware"
	"lingo_backend/internal/model"
	"lingo_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	a.registerPublicRoutes(router, c)

	// 2. 学员接口
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		a.registerLearnerRoutes(authGroup, c)
	}

	// 3. 内容管理接口
	a.registerAdminRoutes(router, c, repos, cfg)
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/auth/register", c.auth.Register)
		public.POST("/auth/login", c.auth.Login)
	}
}

func (a *App) registerLearnerRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.GET("/auth/me", c.auth.Me)

	// 学习地图与课程
	rg.GET("/learning/map", c.learning.GetMap)
	rg.GET("/learning/lessons/:lessonId/modes", c.learning.GetLessonModes)
	rg.GET("/learning/lessons/:lessonId/overview", c.learning.GetLessonOverview)
	rg.GET("/learning/practice", c.learning.GetPracticeHub)
	rg.POST("/learning/practice/start", c.learning.StartPractice)

	// 测验流程
	rg.POST("/quiz/start", c.learning.StartQuiz)
	rg.GET("/quiz/resume", c.learning.ResumeQuiz)
	rg.GET("/quiz/:attemptId/current", c.learning.CurrentQuestion)
	rg.POST("/quiz/:attemptId/answer", c.learning.SubmitAnswer)
	rg.POST("/quiz/:attemptId/finish", c.learning.FinishQuiz)

	// 红心与进度
	rg.GET("/hearts", c.learning.GetHearts)
	rg.POST("/hearts/refill", c.learning.RefillHearts)
	rg.GET("/progress/summary", c.progress.GetSummary)

	// 目录（学员只读）
	rg.GET("/content/catalog", c.content.GetCatalog)
}

func (a *App) registerAdminRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	admin := router.Group("/api/admin")
	admin.Use(
		middleware.AuthMiddleware(cfg),
		middleware.ActivityMiddleware(repos.user),
		middleware.RoleMiddleware(model.Editor, model.Admin),
	)
	{
		admin.POST("/units", c.content.CreateUnit)
		admin.PUT("/units/:unitId", c.content.UpdateUnit)
		admin.DELETE("/units/:unitId", c.content.DeleteUnit)

		admin.POST("/lessons", c.content.CreateLesson)
		admin.PUT("/lessons/:lessonId", c.content.UpdateLesson)
		admin.DELETE("/lessons/:lessonId", c.content.DeleteLesson)

		admin.GET("/questions", c.content.ListQuestions)
		admin.POST("/questions", c.content.CreateQuestion)
		admin.PUT("/questions/:questionId", c.content.UpdateQuestion)
		admin.DELETE("/questions/:questionId", c.content.DeleteQuestion)

		admin.POST("/questions/:questionId/audio", c.audio.Upload)
		admin.GET("/questions/:questionId/audio", c.audio.Get)
		admin.DELETE("/questions/:questionId/audio", c.audio.Delete)
	}
}
