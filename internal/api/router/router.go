package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/Mdmuzammil18/BayerHealthCare/config"
	"github.com/Mdmuzammil18/BayerHealthCare/internal/api/handler"
	"github.com/Mdmuzammil18/BayerHealthCare/internal/api/middleware"
	"github.com/Mdmuzammil18/BayerHealthCare/internal/model"
	"github.com/Mdmuzammil18/BayerHealthCare/pkg/jwt"
	"github.com/Mdmuzammil18/BayerHealthCare/pkg/redis"
)

const (
	loginRateLimit    = 10
	checkInOutLimit   = 30
	rateLimitWindow   = time.Minute
	healthPingTimeout = 2 * time.Second
)

// Pinger 健康检查依赖
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps 路由初始化所需依赖
type Deps struct {
	Config   *config.Config
	Handler  *handler.Handler
	JWT      *jwt.Manager
	Redis    *redis.Client // 可为 nil，黑名单与限流降级放行
	DB       Pinger
	Registry *prometheus.Registry
	Logger   *zap.Logger
}

// Setup 初始化并返回 Gin 路由引擎
func Setup(d Deps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	var (
		blacklist middleware.TokenBlacklist
		limiter   middleware.RateLimiter
	)
	if d.Redis != nil {
		blacklist = d.Redis
		limiter = d.Redis
	}
	h := d.Handler
	admin := middleware.RoleAuth(model.RoleAdmin)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(d.Logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(d.Config.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(d.Config.Server.MaxBodyBytes))
	r.Use(middleware.RequestTimeout(d.Config.Server.RequestTimeout))

	// ── 健康检查 / 指标 ──
	r.GET("/health", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthPingTimeout)
		defer cancel()
		if err := d.DB.Ping(ctx); err != nil {
			d.Logger.Warn("健康检查失败", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if d.Registry != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.Registry, promhttp.HandlerOpts{})))
	}

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 认证模块（无需认证）
		v1.POST("/auth/login", middleware.RateLimit(limiter, loginRateLimit, rateLimitWindow), h.Auth.Login)

		// 需要认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(d.JWT, blacklist))
		{
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.Me)

			// 人员模块
			staff := authorized.Group("/staff", admin)
			{
				staff.GET("", h.Staff.List)
				staff.POST("", h.Staff.Create)
				staff.GET("/:id", h.Staff.Get)
				staff.PUT("/:id", h.Staff.Update)
				staff.DELETE("/:id", h.Staff.Delete)
			}

			// 班次与排班模块
			shifts := authorized.Group("/shifts", admin)
			{
				shifts.GET("", h.Shift.List)
				shifts.POST("", h.Shift.Create)
				shifts.GET("/:id", h.Shift.Get)
				shifts.PUT("/:id", h.Shift.Update)
				shifts.DELETE("/:id", h.Shift.Delete)
				shifts.GET("/:id/assignments", h.Shift.ListAssignments)
				shifts.POST("/:id/assign", h.Shift.Assign)
				shifts.DELETE("/:id/assign", h.Shift.Unassign)
			}

			// 冲突检测
			authorized.GET("/conflicts", admin, h.Conflict.List)

			// 出勤模块
			attendance := authorized.Group("/attendance")
			{
				checkLimit := middleware.RateLimit(limiter, checkInOutLimit, rateLimitWindow)
				attendance.POST("/check-in", checkLimit, h.Attendance.CheckIn)
				attendance.POST("/check-out", checkLimit, h.Attendance.CheckOut)
				attendance.GET("/user/:id", h.Attendance.ListByUser) // admin 或本人（Service 层鉴权）
				attendance.GET("/:id", h.Attendance.Get)
				attendance.PUT("/:id", admin, h.Attendance.Update)
			}

			// 仪表盘
			authorized.GET("/dashboard/today", h.Dashboard.Today)

			// 导出模块
			export := authorized.Group("/export")
			{
				export.GET("/attendance", admin, h.Export.ExportAttendance)
				export.GET("/my-shifts.ics", h.Export.ExportMyShifts)
			}
		}
	}

	return r
}
