package i18n

import "github.com/gin-gonic/gin"

// ResolveLocale 从请求中解析语言：?lang= 优先，其次 Accept-Language
func ResolveLocale(c *gin.Context) string {
	if c == nil || c.Request == nil {
		return DefaultLocale
	}
	return Resolve(c.Query("lang"), c.GetHeader("Accept-Language"))
}
