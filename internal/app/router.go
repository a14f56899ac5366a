package app

import (
	"lingua_edu_backend/docs"
	"lingua_edu_backend/internal/config"
	"lingua_edu_backend/internal/middleware"
	"lingua_edu_backend/internal/model"
	"lingua_edu_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, s *services, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由（无需登录）
	a.registerPublicRoutes(router, c)

	// 2. 需要登录的通用/学生路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		a.registerStudentRoutes(authGroup, c, s)
		a.registerTeacherRoutes(authGroup, c)
	}

	// 3. 管理员路由
	a.registerAdminRoutes(router, c, repos, cfg)
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	router.GET("/health", c.health.HealthCheck)

	public := router.Group("/api")
	{
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)

		// 课程目录和词典检索允许游客浏览
		public.GET("/courses", c.course.ListCourses)
		public.GET("/courses/:id", middleware.TryAuthMiddleware(a.Config), c.course.GetCourse)
		public.GET("/dictionary", c.dictionary.Search)
		public.GET("/dictionary/word-of-day", c.dictionary.WordOfTheDay)
		public.GET("/dictionary/:id", c.dictionary.GetEntry)
	}
}

func (a *App) registerStudentRoutes(group *gin.RouterGroup, c *controllers, s *services) {
	group.GET("/me", c.auth.Me)
	group.PUT("/profile", c.user.UpdateProfile)
	group.POST("/profile/avatar", c.user.UploadAvatar)

	// 选课与学习
	group.POST("/courses/:id/enroll", c.course.Enroll)
	group.GET("/my/courses", c.course.EnrolledCourses)
	group.GET("/lessons/:id", c.lesson.GetLesson)
	group.POST("/lessons/:id/complete", c.lesson.CompleteLesson)
	group.GET("/lessons/:id/quizzes", c.quiz.ListLessonQuizzes)

	// 测验
	group.GET("/quizzes/:id", c.quiz.GetQuiz)
	group.POST("/quizzes/:id/submit", c.quiz.SubmitQuiz)
	group.GET("/quizzes/:id/attempts", c.quiz.MyAttempts)

	// 词典练习与生词本
	group.GET("/dictionary/practice", c.dictionary.Practice)
	group.POST("/dictionary/:id/save", c.dictionary.SaveWord)
	group.DELETE("/dictionary/:id/save", c.dictionary.UnsaveWord)
	group.GET("/my/words", c.dictionary.SavedWords)

	// AI辅导：提问接口套按用户限额，会话管理不占额度
	tutor := group.Group("/tutor")
	{
		quota := middleware.TutorQuotaMiddleware(s.limiter)
		tutor.POST("/ask", quota, c.tutor.Ask)
		tutor.POST("/ask/stream", quota, c.tutor.AskStream)

		tutor.GET("/sessions", c.tutor.ListSessions)
		tutor.GET("/sessions/:id", c.tutor.GetSession)
		tutor.DELETE("/sessions/:id", c.tutor.DeleteSession)
	}
}

func (a *App) registerTeacherRoutes(group *gin.RouterGroup, c *controllers) {
	teacher := group.Group("/teacher")
	teacher.Use(middleware.RoleMiddleware(model.Teacher))
	{
		teacher.GET("/courses", c.course.MyCourses)
		teacher.POST("/courses", c.course.CreateCourse)
		teacher.PUT("/courses/:id", c.course.UpdateCourse)
		teacher.DELETE("/courses/:id", c.course.DeleteCourse)

		teacher.POST("/courses/:id/lessons", c.lesson.CreateLesson)
		teacher.PUT("/lessons/:id", c.lesson.UpdateLesson)
		teacher.DELETE("/lessons/:id", c.lesson.DeleteLesson)
		teacher.POST("/lessons/:id/audio", c.lesson.UploadAudio)

		teacher.POST("/lessons/:id/quizzes", c.quiz.CreateQuiz)
		teacher.GET("/quizzes/:id", c.quiz.GetQuizForTeacher)
		teacher.PUT("/quizzes/:id", c.quiz.UpdateQuiz)
		teacher.DELETE("/quizzes/:id", c.quiz.DeleteQuiz)
		teacher.GET("/quizzes/:id/attempts", c.quiz.QuizAttempts)
		teacher.GET("/quizzes/:id/stats", c.quiz.QuizStats)

		teacher.POST("/dictionary", c.dictionary.CreateEntry)
		teacher.PUT("/dictionary/:id", c.dictionary.UpdateEntry)
		teacher.DELETE("/dictionary/:id", c.dictionary.DeleteEntry)
	}
}

func (a *App) registerAdminRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	admin := router.Group("/api/admin")
	admin.Use(
		middleware.AuthMiddleware(cfg),
		middleware.ActivityMiddleware(repos.user),
		middleware.RoleMiddleware(model.Admin),
	)
	{
		admin.GET("/users", c.user.ListUsers)
		admin.PUT("/users/:id/disabled", c.user.SetUserDisabled)
	}
}
