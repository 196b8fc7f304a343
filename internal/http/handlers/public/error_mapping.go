package public

import (
	"github.com/tuanasish/leave-request/internal/http/handlers/shared"
	"github.com/tuanasish/leave-request/internal/http/response"
	"github.com/tuanasish/leave-request/internal/service"

	"github.com/gin-gonic/gin"
)

var otpRequestErrorRules = []shared.MappedError{
	{Target: service.ErrOTPIdentifierInvalid, Code: response.CodeBadRequest, Key: "error.missing_required"},
	{Target: service.ErrOTPTypeInvalid, Code: response.CodeBadRequest, Key: "error.otp_type_invalid"},
	{Target: service.ErrOTPMethodInvalid, Code: response.CodeBadRequest, Key: "error.otp_method_invalid"},
}

var otpVerifyErrorRules = []shared.MappedError{
	{Target: service.ErrOTPNotFound, Code: response.CodeBadRequest, Key: "error.otp_not_found"},
	{Target: service.ErrOTPExpired, Code: response.CodeBadRequest, Key: "error.otp_expired"},
	{Target: service.ErrOTPAttemptsExceeded, Code: response.CodeBadRequest, Key: "error.otp_attempts_exceeded"},
}

var captchaErrorRules = []shared.MappedError{
	{Target: service.ErrCaptchaRequired, Code: response.CodeBadRequest, Key: "error.captcha_required"},
	{Target: service.ErrCaptchaInvalid, Code: response.CodeBadRequest, Key: "error.captcha_invalid"},
	{Target: service.ErrCaptchaConfigInvalid, Code: response.CodeInternal, Key: "error.captcha_config_invalid"},
}

var leaveErrorRules = []shared.MappedError{
	{Target: service.ErrLeaveDateInvalid, Code: response.CodeBadRequest, Key: "error.leave_date_invalid"},
	{Target: service.ErrLeaveDateRangeInvalid, Code: response.CodeBadRequest, Key: "error.leave_date_range_invalid"},
	{Target: service.ErrLeaveReasonRequired, Code: response.CodeBadRequest, Key: "error.leave_reason_required"},
	{Target: service.ErrLeaveNotFound, Code: response.CodeNotFound, Key: "error.not_found"},
	{Target: service.ErrLeaveCancelNotAllowed, Code: response.CodeBadRequest, Key: "error.leave_cancel_not_allowed"},
}

func respondLeaveError(c *gin.Context, err error) {
	shared.RespondMappedError(c, err, leaveErrorRules, response.CodeInternal, "error.internal")
}
