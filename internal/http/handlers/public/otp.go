package public

import (
	"errors"
	"time"

	"github.com/tuanasish/leave-request/internal/constants"
	"github.com/tuanasish/leave-request/internal/http/handlers/shared"
	"github.com/tuanasish/leave-request/internal/http/response"
	"github.com/tuanasish/leave-request/internal/i18n"
	"github.com/tuanasish/leave-request/internal/service"

	"github.com/gin-gonic/gin"
)

// SendOTPRequest 发送验证码请求
type SendOTPRequest struct {
	Identifier     string                       `json:"identifier" binding:"required"`
	Type           string                       `json:"type" binding:"required,oneof=register reset_password login"`
	Method         string                       `json:"method" binding:"required,oneof=email sms"`
	CaptchaPayload shared.CaptchaPayloadRequest `json:"captcha_payload"`
}

var sendOTPFieldKeys = shared.FieldErrorKeys{
	"Type":   "error.otp_type_invalid",
	"Method": "error.otp_method_invalid",
}

// SendOTP 发放一次性验证码
func (h *Handler) SendOTP(c *gin.Context) {
	var req SendOTPRequest
	if !shared.BindJSON(c, &req, sendOTPFieldKeys) {
		return
	}

	if h.CaptchaService != nil {
		if err := h.CaptchaService.Verify(constants.CaptchaSceneSendOTP, shared.ResolveCaptchaPayload(c, req.CaptchaPayload)); err != nil {
			shared.RespondMappedError(c, err, captchaErrorRules, response.CodeInternal, "error.internal")
			return
		}
	}

	locale := i18n.ResolveLocale(c)
	result, err := h.OTPService.Issue(c.Request.Context(), service.IssueOTPInput{
		Identifier: req.Identifier,
		Type:       req.Type,
		Channel:    req.Method,
		Locale:     locale,
	})
	if err != nil {
		respondSendOTPError(c, req.Method, err)
		return
	}

	messageKey := "message.otp_sent_sms"
	if result.Channel == constants.OTPChannelEmail {
		messageKey = "message.otp_sent_email"
	}
	body := gin.H{
		"message":   i18n.T(locale, messageKey),
		"expiresAt": result.ExpiresAt.UTC().Format(time.RFC3339),
	}
	if result.DevCode != "" {
		body["devOtp"] = result.DevCode
	}
	response.Success(c, body)
}

func respondSendOTPError(c *gin.Context, method string, err error) {
	var cooldown *service.OTPCooldownError
	if errors.As(err, &cooldown) {
		shared.RespondErrorf(c, response.CodeTooManyRequests, gin.H{"retryAfter": cooldown.RemainingSeconds},
			"error.otp_too_frequent", cooldown.RemainingSeconds)
		return
	}
	var dispatchErr *service.OTPDispatchError
	if errors.As(err, &dispatchErr) {
		if dispatchErr.Message != "" {
			shared.RespondErrorWithMsg(c, response.CodeBadRequest, dispatchErr.Message, err)
			return
		}
		key := "error.sms_send_failed"
		if method == constants.OTPChannelEmail {
			key = "error.email_send_failed"
		}
		shared.RespondError(c, response.CodeBadRequest, key, err)
		return
	}
	if errors.Is(err, service.ErrOTPCreateFailed) {
		shared.RespondError(c, response.CodeInternal, "error.otp_create_failed", err)
		return
	}
	shared.RespondMappedError(c, err, otpRequestErrorRules, response.CodeInternal, "error.internal")
}

// VerifyOTPRequest 校验验证码请求
type VerifyOTPRequest struct {
	Identifier string `json:"identifier" binding:"required"`
	OTP        string `json:"otp" binding:"required,otp"`
	Type       string `json:"type" binding:"required,oneof=register reset_password login"`
	UserID     string `json:"userId"`
}

var verifyOTPFieldKeys = shared.FieldErrorKeys{
	"OTP":  "error.otp_format_invalid",
	"Type": "error.otp_type_invalid",
}

// VerifyOTP 校验一次性验证码
func (h *Handler) VerifyOTP(c *gin.Context) {
	var req VerifyOTPRequest
	if !shared.BindJSON(c, &req, verifyOTPFieldKeys) {
		return
	}

	_, err := h.OTPService.Verify(c.Request.Context(), service.VerifyOTPInput{
		Identifier:    req.Identifier,
		Type:          req.Type,
		Code:          req.OTP,
		UserID:        req.UserID,
		SessionUserID: shared.OptionalSessionUserID(c),
	})
	if err != nil {
		var mismatch *service.OTPMismatchError
		if errors.As(err, &mismatch) {
			shared.RespondErrorf(c, response.CodeBadRequest, gin.H{"remainingAttempts": mismatch.RemainingAttempts},
				"error.otp_mismatch", mismatch.RemainingAttempts)
			return
		}
		shared.RespondMappedError(c, err, concatRules(otpVerifyErrorRules, otpRequestErrorRules), response.CodeInternal, "error.internal")
		return
	}

	response.Success(c, gin.H{"message": i18n.T(i18n.ResolveLocale(c), "message.otp_verified")})
}

func concatRules(groups ...[]shared.MappedError) []shared.MappedError {
	total := 0
	for _, group := range groups {
		total += len(group)
	}
	result := make([]shared.MappedError, 0, total)
	for _, group := range groups {
		result = append(result, group...)
	}
	return result
}
