package shared

import (
	"strings"

	"github.com/tuanasish/leave-request/internal/service"

	"github.com/gin-gonic/gin"
)

// 表单未携带验证码时，前端也可通过请求头传递
const (
	HeaderCaptchaID   = "X-Captcha-Id"
	HeaderCaptchaCode = "X-Captcha-Code"
)

// CaptchaPayloadRequest send-otp 请求中的图片验证码
type CaptchaPayloadRequest struct {
	CaptchaID   string `json:"captcha_id"`
	CaptchaCode string `json:"captcha_code"`
}

// ResolveCaptchaPayload 合并请求体与请求头中的验证码，请求体优先
func ResolveCaptchaPayload(c *gin.Context, body CaptchaPayloadRequest) service.CaptchaVerifyPayload {
	payload := service.CaptchaVerifyPayload{
		CaptchaID:   strings.TrimSpace(body.CaptchaID),
		CaptchaCode: strings.TrimSpace(body.CaptchaCode),
	}
	if c == nil || c.Request == nil {
		return payload
	}
	if payload.CaptchaID == "" && payload.CaptchaCode == "" {
		payload.CaptchaID = strings.TrimSpace(c.GetHeader(HeaderCaptchaID))
		payload.CaptchaCode = strings.TrimSpace(c.GetHeader(HeaderCaptchaCode))
	}
	return payload
}
