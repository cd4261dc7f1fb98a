package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"grade-center/backend/config"
	"grade-center/backend/internal/api/handler"
	"grade-center/backend/internal/api/middleware"
	"grade-center/backend/pkg/jwt"
)

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(cfg.Upload.MaxFileSize))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── API v1（全部需要管理员认证）──
	v1 := r.Group("/api/v1")
	v1.Use(middleware.AdminAuth(jwtMgr))
	{
		// 批量导入模块
		uploads := v1.Group("/uploads")
		{
			uploads.POST("", h.Upload.StartUpload)
			uploads.POST("/preview", h.Upload.Preview)
			uploads.GET("/:id", h.Upload.GetRun)
		}

		// 课程模块
		courses := v1.Group("/courses")
		{
			courses.GET("", h.Course.ListCourses)
			courses.POST("", h.Course.CreateCourse)
			courses.PUT("/:id", h.Course.UpdateCourse)
			courses.DELETE("/:id", h.Course.DeleteCourse)
			courses.DELETE("/:id/grades", h.Course.DeleteCourseGrades)
		}

		// 成绩模块
		grades := v1.Group("/grades")
		{
			grades.GET("", h.Grade.ListGrades)
			grades.POST("", h.Grade.CreateGrade)
			grades.PUT("/:id", h.Grade.UpdateGrade)
			grades.DELETE("/:id", h.Grade.DeleteGrade)
		}

		// 学生模块（只读）
		v1.GET("/students", h.Student.ListStudents)

		// 导出模块
		v1.GET("/export/grades", h.Grade.ExportGrades)

		// 系统危险操作
		v1.DELETE("/system/data", h.System.DeleteAllData)
	}

	return r
}
