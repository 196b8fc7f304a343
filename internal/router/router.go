package router

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/tuanasish/leave-request/internal/config"
	adminhandlers "github.com/tuanasish/leave-request/internal/http/handlers/admin"
	publichandlers "github.com/tuanasish/leave-request/internal/http/handlers/public"
	"github.com/tuanasish/leave-request/internal/http/handlers/shared"
	"github.com/tuanasish/leave-request/internal/logger"
	"github.com/tuanasish/leave-request/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()
	shared.RegisterValidators()

	// 初始化 Handler（按前台/后台分组）
	publicHandler := publichandlers.New(c)
	adminHandler := adminhandlers.New(c)
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "lr"
	}
	limiter := NewRateLimiter(c.Cache.Client())
	sendOTPRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:send_otp", redisPrefix),
		WindowSeconds: cfg.Security.SendOTPRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.SendOTPRateLimit.MaxRequests,
		MessageKey:    "error.otp_too_frequent",
	}
	verifyOTPRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:verify_otp", redisPrefix),
		WindowSeconds: cfg.Security.VerifyOTPRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.VerifyOTPRateLimit.MaxRequests,
		MessageKey:    "error.rate_limited",
	}

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))
	r.Use(SessionMiddleware(c.SessionService))

	r.GET("/healthz", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		// 验证码接口（无需登录）
		api.POST("/send-otp", RateLimitMiddleware(limiter, sendOTPRule, KeyByIPAndJSONField("identifier")), publicHandler.SendOTP)
		api.POST("/verify-otp", RateLimitMiddleware(limiter, verifyOTPRule, KeyByIPAndJSONField("identifier")), publicHandler.VerifyOTP)
		api.GET("/captcha/image", publicHandler.GetImageCaptcha)

		// 员工接口
		authed := api.Group("")
		authed.Use(RequireSessionMiddleware())
		{
			authed.GET("/me", publicHandler.GetMe)
			authed.GET("/dashboard/stats", publicHandler.GetDashboardStats)
			authed.POST("/leave-requests", publicHandler.CreateLeaveRequest)
			authed.GET("/leave-requests", publicHandler.ListLeaveRequests)
			authed.GET("/leave-requests/:id", publicHandler.GetLeaveRequest)
			authed.DELETE("/leave-requests/:id", publicHandler.CancelLeaveRequest)
		}

		// 管理端接口
		admin := authed.Group("/admin")
		admin.Use(AdminRBACMiddleware(c.AuthzService, c.SessionService))
		{
			admin.GET("/leave-requests", adminHandler.ListLeaveRequests)
			admin.PATCH("/leave-requests/:id", adminHandler.ReviewLeaveRequest)
			admin.GET("/stats", adminHandler.GetStats)
			admin.GET("/employees", adminHandler.ListEmployees)
			admin.GET("/settings", adminHandler.ListSettings)
			admin.PUT("/settings/:key", adminHandler.UpdateSetting)
			admin.GET("/notification-logs", adminHandler.ListNotificationLogs)
			admin.GET("/sms/account", adminHandler.GetSMSAccount)
		}
	}

	// 页面请求：访问控制 + 静态资源
	r.NoRoute(PageHandler(cfg.Web, c.SessionService))

	return r
}
