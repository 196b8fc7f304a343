package router

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/tuanasish/leave-request/internal/authz"
	"github.com/tuanasish/leave-request/internal/config"
	"github.com/tuanasish/leave-request/internal/http/handlers/shared"
	"github.com/tuanasish/leave-request/internal/http/response"
	"github.com/tuanasish/leave-request/internal/i18n"
	"github.com/tuanasish/leave-request/internal/logger"
	"github.com/tuanasish/leave-request/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	requestIDKey       = "request_id"
	requestIDHeader    = "X-Request-ID"
	maxRequestIDLength = 64
)

// CORSMiddleware 跨域中间件
func CORSMiddleware(cfg config.CORSConfig) gin.HandlerFunc {
	allowedOrigins := cfg.AllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	allowedMethods := cfg.AllowedMethods
	if len(allowedMethods) == 0 {
		allowedMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	}
	allowedHeaders := cfg.AllowedHeaders
	if len(allowedHeaders) == 0 {
		allowedHeaders = []string{
			"Content-Type",
			"Content-Length",
			"Accept-Encoding",
			"Accept-Language",
			"Authorization",
			"Cache-Control",
			"X-Requested-With",
		}
	}
	methodsHeader := strings.Join(allowedMethods, ", ")
	headersHeader := strings.Join(allowedHeaders, ", ")

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		allowedOrigin := resolveAllowedOrigin(origin, allowedOrigins, cfg.AllowCredentials)
		if allowedOrigin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", allowedOrigin)
			if allowedOrigin != "*" {
				c.Writer.Header().Add("Vary", "Origin")
			}
		}
		if cfg.AllowCredentials {
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		}
		c.Writer.Header().Set("Access-Control-Allow-Headers", headersHeader)
		c.Writer.Header().Set("Access-Control-Allow-Methods", methodsHeader)
		if cfg.MaxAge > 0 {
			c.Writer.Header().Set("Access-Control-Max-Age", strconv.Itoa(cfg.MaxAge))
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func resolveAllowedOrigin(origin string, allowedOrigins []string, allowCredentials bool) string {
	if len(allowedOrigins) == 0 {
		return ""
	}
	for _, allowed := range allowedOrigins {
		if allowed == "*" {
			if allowCredentials && origin != "" {
				return origin
			}
			return "*"
		}
	}
	if origin == "" {
		return ""
	}
	for _, allowed := range allowedOrigins {
		if strings.EqualFold(allowed, origin) {
			return origin
		}
	}
	return ""
}

// RequestIDMiddleware 请求 ID 中间件，外部传入的 ID 过长或含非法字符时重新生成
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := strings.TrimSpace(c.GetHeader(requestIDHeader))
		if !validRequestID(requestID) {
			requestID = uuid.NewString()
		}
		c.Set(requestIDKey, requestID)
		c.Writer.Header().Set(requestIDHeader, requestID)
		c.Next()
	}
}

func validRequestID(id string) bool {
	if id == "" || len(id) > maxRequestIDLength {
		return false
	}
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
		default:
			return false
		}
	}
	return true
}

// LoggerMiddleware 请求日志：5xx 记 error，4xx 记 warn，其余 info
func LoggerMiddleware(log *zap.Logger) gin.HandlerFunc {
	if log == nil {
		log = zap.L()
	}
	sugar := log.Sugar()
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		fields := []interface{}{
			"request_id", getRequestID(c),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"route", c.FullPath(),
			"status", status,
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		}
		if userID := shared.OptionalSessionUserID(c); userID != "" {
			fields = append(fields, "user_id", userID)
		}
		if len(c.Errors) > 0 {
			fields = append(fields, "errors", c.Errors.String())
		}
		switch {
		case status >= 500:
			sugar.Errorw("request", fields...)
		case status >= 400:
			sugar.Warnw("request", fields...)
		default:
			sugar.Infow("request", fields...)
		}
	}
}

func getRequestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}

// SessionMiddleware 解析访问令牌（Authorization 优先，其次 Cookie），无效令牌视为未登录
func SessionMiddleware(sessions *service.SessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if sessions == nil {
			c.Next()
			return
		}
		tokenString := bearerToken(c.GetHeader("Authorization"))
		if tokenString == "" {
			if cookie, err := c.Cookie(sessions.CookieName()); err == nil {
				tokenString = cookie
			}
		}
		if tokenString != "" {
			session, err := sessions.ParseAccessToken(tokenString)
			if err == nil {
				c.Set(shared.ContextKeyUserID, session.UserID)
				c.Set(shared.ContextKeyUserEmail, session.Email)
				c.Set(shared.ContextKeyUserPhone, session.Phone)
			} else {
				logger.Debugw("session_token_invalid", "path", c.Request.URL.Path, "error", err)
			}
		}
		c.Next()
	}
}

func bearerToken(header string) string {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// RequireSessionMiddleware 要求已登录
func RequireSessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if shared.OptionalSessionUserID(c) == "" {
			msg := i18n.T(i18n.ResolveLocale(c), "error.unauthorized")
			response.Unauthorized(c, msg)
			c.Abort()
			return
		}
		c.Next()
	}
}

// AdminRBACMiddleware 管理端 RBAC 鉴权中间件，角色取自用户档案
func AdminRBACMiddleware(authzService *authz.Service, sessions *service.SessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if authzService == nil || sessions == nil {
			logger.Errorw("admin_rbac_service_unavailable")
			msg := i18n.T(i18n.ResolveLocale(c), "error.unauthorized")
			response.Unauthorized(c, msg)
			c.Abort()
			return
		}

		userID := shared.OptionalSessionUserID(c)
		if userID == "" {
			msg := i18n.T(i18n.ResolveLocale(c), "error.unauthorized")
			response.Unauthorized(c, msg)
			c.Abort()
			return
		}

		state := sessions.GateState(c.Request.Context(), userID)
		c.Set(shared.ContextKeyUserRole, state.Role)

		resource := c.FullPath()
		if strings.TrimSpace(resource) == "" {
			resource = c.Request.URL.Path
		}

		allowed, err := authzService.EnforceRole(state.Role, resource, c.Request.Method)
		if err != nil {
			logger.Errorw("admin_rbac_enforce_failed",
				"user_id", userID,
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
				"error", err,
			)
			msg := i18n.T(i18n.ResolveLocale(c), "error.forbidden")
			response.Forbidden(c, msg)
			c.Abort()
			return
		}
		if !allowed {
			logger.Warnw("admin_rbac_permission_denied",
				"user_id", userID,
				"role", state.Role,
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
				"resource", authz.NormalizeObject(resource),
			)
			msg := i18n.T(i18n.ResolveLocale(c), "error.forbidden")
			response.Forbidden(c, msg)
			c.Abort()
			return
		}

		c.Next()
	}
}
