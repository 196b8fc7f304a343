package public

import (
	"errors"

	"github.com/tuanasish/leave-request/internal/http/handlers/shared"
	"github.com/tuanasish/leave-request/internal/http/response"
	"github.com/tuanasish/leave-request/internal/service"

	"github.com/gin-gonic/gin"
)

// GetImageCaptcha 获取图片验证码挑战
func (h *Handler) GetImageCaptcha(c *gin.Context) {
	if h.CaptchaService == nil {
		shared.RespondError(c, response.CodeInternal, "error.captcha_config_invalid", service.ErrCaptchaConfigInvalid)
		return
	}

	challenge, err := h.CaptchaService.GenerateImageChallenge()
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCaptchaConfigInvalid):
			shared.RespondError(c, response.CodeBadRequest, "error.captcha_config_invalid", nil)
		default:
			shared.RespondError(c, response.CodeInternal, "error.internal", err)
		}
		return
	}

	response.Success(c, gin.H{
		"captcha_id":   challenge.CaptchaID,
		"image_base64": challenge.ImageBase64,
	})
}
