package service

import (
	"errors"
	"fmt"
)

var (
	ErrOTPTypeInvalid       = errors.New("invalid otp type")
	ErrOTPMethodInvalid     = errors.New("invalid otp method")
	ErrOTPIdentifierInvalid = errors.New("invalid otp identifier")
	ErrOTPTooFrequent       = errors.New("otp requested too frequently")
	ErrOTPCreateFailed      = errors.New("otp create failed")
	ErrOTPDispatchFailed    = errors.New("otp dispatch failed")
	ErrOTPNotFound          = errors.New("otp not found")
	ErrOTPExpired           = errors.New("otp expired")
	ErrOTPAttemptsExceeded  = errors.New("otp attempts exceeded")
	ErrOTPMismatch          = errors.New("otp mismatch")

	ErrSessionInvalid = errors.New("session invalid")
	ErrProfileMissing = errors.New("profile not found")

	ErrLeaveDateInvalid      = errors.New("leave date invalid")
	ErrLeaveDateRangeInvalid = errors.New("leave start date after end date")
	ErrLeaveReasonRequired   = errors.New("leave reason required")
	ErrLeaveNotFound         = errors.New("leave request not found")
	ErrLeaveCancelNotAllowed = errors.New("only pending leave requests can be cancelled")
	ErrLeaveNotPending       = errors.New("leave request already reviewed")
	ErrLeaveStatusInvalid    = errors.New("invalid review status")

	ErrSettingNotFound     = errors.New("setting not found")
	ErrSettingValueInvalid = errors.New("setting value invalid")

	ErrEmailServiceDisabled      = errors.New("email service disabled")
	ErrEmailServiceNotConfigured = errors.New("email service not configured")
	ErrInvalidEmail              = errors.New("invalid email")
	ErrEmailRecipientRejected    = errors.New("email recipient rejected")

	ErrCaptchaRequired      = errors.New("captcha required")
	ErrCaptchaInvalid       = errors.New("captcha invalid")
	ErrCaptchaConfigInvalid = errors.New("captcha config invalid")

	ErrSMSAccountUnsupported = errors.New("sms provider does not expose account info")
)

// OTPCooldownError 重发间隔未到
type OTPCooldownError struct {
	RemainingSeconds int
}

func (e *OTPCooldownError) Error() string {
	return fmt.Sprintf("otp cooldown: retry in %d seconds", e.RemainingSeconds)
}

// Is 支持 errors.Is(err, ErrOTPTooFrequent)
func (e *OTPCooldownError) Is(target error) bool {
	return target == ErrOTPTooFrequent
}

// OTPMismatchError 验证码不匹配，携带剩余次数
type OTPMismatchError struct {
	RemainingAttempts int
}

func (e *OTPMismatchError) Error() string {
	return fmt.Sprintf("otp mismatch: %d attempts left", e.RemainingAttempts)
}

// Is 支持 errors.Is(err, ErrOTPMismatch)
func (e *OTPMismatchError) Is(target error) bool {
	return target == ErrOTPMismatch
}

// OTPDispatchError 验证码投递失败，Message 为面向用户的提示
type OTPDispatchError struct {
	Message string
	Cause   error
}

func (e *OTPDispatchError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("otp dispatch failed: %v", e.Cause)
	}
	return "otp dispatch failed: " + e.Message
}

// Is 支持 errors.Is(err, ErrOTPDispatchFailed)
func (e *OTPDispatchError) Is(target error) bool {
	return target == ErrOTPDispatchFailed
}

func (e *OTPDispatchError) Unwrap() error {
	return e.Cause
}
