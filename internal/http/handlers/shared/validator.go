package shared

import (
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// OTPCodeLength 验证码位数
const OTPCodeLength = 6

var registerValidatorsOnce sync.Once

// RegisterValidators 向 gin 默认校验器注册自定义规则
func RegisterValidators() {
	registerValidatorsOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = v.RegisterValidation("otp", validateOTPCode)
	})
}

// validateOTPCode 仅接受 6 位 ASCII 数字
func validateOTPCode(fl validator.FieldLevel) bool {
	return IsOTPCode(fl.Field().String())
}

// IsOTPCode 判断是否为 6 位数字验证码
func IsOTPCode(code string) bool {
	if len(code) != OTPCodeLength {
		return false
	}
	for i := 0; i < len(code); i++ {
		if code[i] < '0' || code[i] > '9' {
			return false
		}
	}
	return true
}
