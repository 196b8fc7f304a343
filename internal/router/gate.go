package router

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/tuanasish/leave-request/internal/config"
	"github.com/tuanasish/leave-request/internal/constants"
	"github.com/tuanasish/leave-request/internal/http/handlers/shared"
	"github.com/tuanasish/leave-request/internal/http/response"
	"github.com/tuanasish/leave-request/internal/i18n"
	"github.com/tuanasish/leave-request/internal/service"

	"github.com/gin-gonic/gin"
)

// 页面路径
const (
	pathLogin     = "/login"
	pathVerifyOTP = "/verify-otp"
	pathDashboard = "/dashboard"
	pathAdmin     = "/admin"
	pathAPIPrefix = "/api/"
)

var publicPathPrefixes = []string{
	pathLogin,
	"/register",
	pathVerifyOTP,
	"/forgot-password",
	"/reset-password",
}

// GateStatus 访问者会话状态
type GateStatus int

const (
	GateNoSession GateStatus = iota
	GateUnverified
	GateVerified
)

// GateVisitor 页面访问者快照
type GateVisitor struct {
	Status GateStatus
	Role   string
}

// GateDecision 放行或重定向
type GateDecision struct {
	Allow      bool
	RedirectTo string
}

func allowGate() GateDecision {
	return GateDecision{Allow: true}
}

func redirectGate(path string) GateDecision {
	return GateDecision{RedirectTo: path}
}

func isPublicPath(path string) bool {
	for _, prefix := range publicPathPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

func isAPIPath(path string) bool {
	return strings.HasPrefix(path, pathAPIPrefix)
}

func isAdminPath(path string) bool {
	return path == pathAdmin || strings.HasPrefix(path, pathAdmin+"/")
}

// DecideGate 根据会话状态与路径决定放行或重定向
func DecideGate(visitor GateVisitor, path string) GateDecision {
	switch {
	case isAPIPath(path):
		return allowGate()
	case isPublicPath(path):
		if visitor.Status == GateVerified {
			return redirectGate(pathDashboard)
		}
		return allowGate()
	}

	switch visitor.Status {
	case GateNoSession:
		return redirectGate(pathLogin)
	case GateUnverified:
		if path == pathVerifyOTP {
			return allowGate()
		}
		return redirectGate(pathVerifyOTP)
	}
	if isAdminPath(path) && visitor.Role != constants.RoleAdmin {
		return redirectGate(pathDashboard)
	}
	return allowGate()
}

// resolveGateVisitor 从会话上下文构造访问者快照
func resolveGateVisitor(c *gin.Context, sessions *service.SessionService) GateVisitor {
	userID := shared.OptionalSessionUserID(c)
	if userID == "" || sessions == nil {
		return GateVisitor{Status: GateNoSession}
	}
	state := sessions.GateState(c.Request.Context(), userID)
	if !state.Verified {
		return GateVisitor{Status: GateUnverified, Role: state.Role}
	}
	return GateVisitor{Status: GateVerified, Role: state.Role}
}

// PageHandler 页面请求入口：先过访问控制，再交给静态资源（SPA 回退 index.html）
func PageHandler(web config.WebConfig, sessions *service.SessionService) gin.HandlerFunc {
	staticDir := strings.TrimSpace(web.StaticDir)
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if isAPIPath(path) || path == strings.TrimSuffix(pathAPIPrefix, "/") {
			response.NotFound(c, i18n.T(i18n.ResolveLocale(c), "error.not_found"))
			return
		}
		if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
			response.NotFound(c, i18n.T(i18n.ResolveLocale(c), "error.not_found"))
			return
		}

		decision := DecideGate(resolveGateVisitor(c, sessions), path)
		if !decision.Allow {
			target := decision.RedirectTo
			if raw := c.Request.URL.RawQuery; raw != "" {
				target += "?" + raw
			}
			c.Redirect(http.StatusTemporaryRedirect, target)
			c.Abort()
			return
		}

		if staticDir == "" {
			response.NotFound(c, i18n.T(i18n.ResolveLocale(c), "error.not_found"))
			return
		}
		c.File(resolveStaticFile(staticDir, path))
	}
}

// resolveStaticFile 路径对应文件存在则直接返回，否则回退 index.html
func resolveStaticFile(staticDir, requestPath string) string {
	cleaned := filepath.Clean("/" + requestPath)
	candidate := filepath.Join(staticDir, filepath.FromSlash(cleaned))
	if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
		return candidate
	}
	return filepath.Join(staticDir, "index.html")
}
