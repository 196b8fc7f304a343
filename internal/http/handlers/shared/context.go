package shared

import (
	"strings"

	"github.com/tuanasish/leave-request/internal/http/response"

	"github.com/gin-gonic/gin"
)

// 会话中间件写入的上下文键
const (
	ContextKeyUserID    = "user_id"
	ContextKeyUserEmail = "user_email"
	ContextKeyUserPhone = "user_phone"
	ContextKeyUserRole  = "user_role"
)

// GetContextString 读取字符串上下文值
func GetContextString(c *gin.Context, key string) string {
	value, ok := c.Get(key)
	if !ok {
		return ""
	}
	s, _ := value.(string)
	return strings.TrimSpace(s)
}

// GetSessionUserID 读取当前会话用户ID，缺失时返回 401。
func GetSessionUserID(c *gin.Context) (string, bool) {
	userID := GetContextString(c, ContextKeyUserID)
	if userID == "" {
		RespondError(c, response.CodeUnauthorized, "error.unauthorized", nil)
		return "", false
	}
	return userID, true
}

// OptionalSessionUserID 读取当前会话用户ID，允许为空
func OptionalSessionUserID(c *gin.Context) string {
	return GetContextString(c, ContextKeyUserID)
}
