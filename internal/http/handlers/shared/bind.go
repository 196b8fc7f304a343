package shared

import (
	"errors"

	"github.com/tuanasish/leave-request/internal/http/response"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// FieldErrorKeys 字段校验失败时使用的错误文案 key（按结构体字段名）
type FieldErrorKeys map[string]string

// BindJSON 绑定并校验请求体；失败时直接写出 400 响应。
// 缺失必填字段优先于格式错误。
func BindJSON(c *gin.Context, dest interface{}, keys FieldErrorKeys) bool {
	RegisterValidators()
	err := c.ShouldBindJSON(dest)
	if err == nil {
		return true
	}
	RespondError(c, response.CodeBadRequest, ValidationErrorKey(err, keys), nil)
	return false
}

// ValidationErrorKey 将绑定错误映射为文案 key
func ValidationErrorKey(err error, keys FieldErrorKeys) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "error.bad_request"
	}
	for _, fe := range verrs {
		if fe.Tag() == "required" {
			return "error.missing_required"
		}
	}
	for _, fe := range verrs {
		if key, ok := keys[fe.Field()]; ok {
			return key
		}
	}
	return "error.bad_request"
}
