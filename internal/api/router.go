package api

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	_ "github.com/pathwaygaza/pathway-back/docs"
	"github.com/pathwaygaza/pathway-back/internal/auth"
	"github.com/pathwaygaza/pathway-back/internal/config"
	"github.com/pathwaygaza/pathway-back/internal/db"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           Pathway API
// @version         1.0
// @description     Learning platform backend: curriculum, quizzes and progress tracking.
// @host            localhost:8000
// @BasePath        /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func SetupRouter(cfg *config.Config, log *zap.SugaredLogger) *gin.Engine {
	r := gin.Default()

	r.GET("/health", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(500, gin.H{"status": "db_ping_error"})
			return
		}
		c.JSON(200, gin.H{"status": "ok"})
	})

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	r.POST("/auth/signup", auth.SignupHandler(cfg))
	r.POST("/auth/login", auth.LoginHandler(cfg))
	r.POST("/auth/refresh", auth.RefreshHandler(cfg))
	r.GET("/auth/google/login", auth.GoogleLoginHandler())
	r.GET("/auth/google/callback", auth.GoogleCallbackHandler(cfg, log))

	// Grade catalog stays public so signup flows can offer a picker.
	r.GET("/api/learning/grades", ListGrades)

	verifier := auth.HSVerifier{Secret: []byte(cfg.JWTSecret)}

	api := r.Group("/api")
	api.Use(auth.Middleware(verifier))
	{
		learning := api.Group("/learning")
		{
			learning.GET("/courses", ListMyCourses)
			learning.GET("/grades/:grade_id/courses", ListGradeCourses)
			learning.GET("/courses/:course_id/units", ListCourseUnits)
		}

		quizzes := api.Group("/quizzes")
		{
			quizzes.GET("/lessons/:lesson_id", ListLessonQuizzes)
			quizzes.GET("/attempts", ListMyAttempts)
			quizzes.GET("/attempts/lessons/:lesson_id", ListLessonQuizzesWithAttempts)
			quizzes.GET("/attempts/:attempt_id", GetAttempt)
			quizzes.POST("/submit/:quiz_id", SubmitQuiz)
			quizzes.GET("/:quiz_id", GetQuiz)
		}

		progress := api.Group("/progress")
		{
			progress.GET("/lessons/:lesson_id", GetLessonProgress)
			progress.POST("/lessons/:lesson_id", TouchLessonProgress)
			progress.PATCH("/lessons/:lesson_id", UpdateLessonProgress)
			progress.GET("/courses/:course_id", GetCourseProgress)
			progress.GET("/overall", GetOverallProgress)
			progress.GET("/activity", GetLastActivity)
		}

		users := api.Group("/users")
		{
			users.GET("/me", GetMe)
			users.PATCH("/me", UpdateMe)
		}

		admin := api.Group("/admin")
		admin.Use(auth.RequireStaff())
		{
			admin.POST("/grades", CreateGrade)
			admin.DELETE("/grades/:grade_id", DeleteGrade)
			admin.POST("/courses", CreateCourse)
			admin.DELETE("/courses/:course_id", DeleteCourse)
			admin.POST("/units", CreateUnit)
			admin.DELETE("/units/:unit_id", DeleteUnit)
			admin.POST("/lessons", CreateLesson)
			admin.DELETE("/lessons/:lesson_id", DeleteLesson)
			admin.POST("/quizzes", CreateQuiz)
			admin.DELETE("/quizzes/:quiz_id", DeleteQuiz)
			admin.POST("/questions", CreateQuestion)
			admin.DELETE("/questions/:question_id", DeleteQuestion)
			admin.POST("/answers", CreateAnswer)
			admin.PUT("/answers/:answer_id", UpdateAnswer)
			admin.DELETE("/answers/:answer_id", DeleteAnswer)
			admin.POST("/import", ImportCurriculum)
		}
	}

	return r
}
