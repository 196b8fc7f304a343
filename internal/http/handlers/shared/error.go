package shared

import (
	"errors"

	"github.com/tuanasish/leave-request/internal/http/response"
	"github.com/tuanasish/leave-request/internal/i18n"
	"github.com/tuanasish/leave-request/internal/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequestLog 提供携带 request_id 的日志实例。
func RequestLog(c *gin.Context) *zap.SugaredLogger {
	if c == nil {
		return logger.S()
	}
	if requestID, ok := c.Get("request_id"); ok {
		if id, ok := requestID.(string); ok && id != "" {
			return logger.SW("request_id", id)
		}
	}
	return logger.S()
}

// RespondError 返回国际化错误响应，并在有原始错误时记录日志。
func RespondError(c *gin.Context, code int, key string, err error) {
	RespondErrorWithData(c, code, key, nil, err)
}

// RespondErrorWithData 返回国际化错误响应，附加字段平铺到响应体。
func RespondErrorWithData(c *gin.Context, code int, key string, extra gin.H, err error) {
	msg := i18n.T(i18n.ResolveLocale(c), key)
	respond(c, response.WrapError(code, msg, err), extra)
}

// RespondErrorf 返回带参数的国际化错误响应。
func RespondErrorf(c *gin.Context, code int, extra gin.H, key string, args ...interface{}) {
	msg := i18n.Sprintf(i18n.ResolveLocale(c), key, args...)
	respond(c, response.WrapError(code, msg, nil), extra)
}

// RespondErrorWithMsg 返回自定义消息错误响应，并在有原始错误时记录日志。
func RespondErrorWithMsg(c *gin.Context, code int, msg string, err error) {
	respond(c, response.WrapError(code, msg, err), nil)
}

func respond(c *gin.Context, appErr *response.AppError, extra gin.H) {
	if appErr.Err != nil {
		RequestLog(c).Errorw("handler_error",
			"code", appErr.Code,
			"message", appErr.Message,
			"error", appErr.Err,
		)
	}
	response.ErrorWithData(c, appErr.Code, appErr.Message, extra)
}

// MappedError 定义业务错误到接口错误响应的映射关系。
type MappedError struct {
	Target error
	Code   int
	Key    string
}

// RespondMappedError 按规则表匹配业务错误，未命中时按兜底处理并记录原始错误。
func RespondMappedError(c *gin.Context, err error, rules []MappedError, fallbackCode int, fallbackKey string) {
	for _, rule := range rules {
		if errors.Is(err, rule.Target) {
			RespondError(c, rule.Code, rule.Key, nil)
			return
		}
	}
	RespondError(c, fallbackCode, fallbackKey, err)
}
