package sms

import (
	"regexp"
	"strings"
)

var vnPhonePattern = regexp.MustCompile(`^(0|\+84)(3[2-9]|5[2689]|7[0-9]|8[1-9]|9[0-9])\d{7}$`)

// FormatPhone 转换为 84 开头的号码
func FormatPhone(phone string) string {
	formatted := strings.TrimPrefix(strings.TrimSpace(phone), "+")
	formatted = strings.Join(strings.Fields(formatted), "")
	switch {
	case strings.HasPrefix(formatted, "0"):
		return "84" + formatted[1:]
	case strings.HasPrefix(formatted, "84"):
		return formatted
	default:
		return "84" + formatted
	}
}

// IsVietnamesePhone 校验越南手机号（0 或 +84 开头）
func IsVietnamesePhone(phone string) bool {
	return vnPhonePattern.MatchString(strings.Join(strings.Fields(phone), ""))
}
