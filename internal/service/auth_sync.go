package service

import (
	"context"
	"strings"
	"time"

	"github.com/tuanasish/leave-request/internal/constants"
	"github.com/tuanasish/leave-request/internal/repository"
)

// 联系方式确认渠道
const (
	ConfirmChannelEmail = "email"
	ConfirmChannelPhone = "phone"
)

// AuthConfirmer 在认证后端标记用户邮箱或手机号已确认
type AuthConfirmer interface {
	ConfirmUser(ctx context.Context, userID, channel string) error
}

// LocalAuthConfirmer 本地档案确认（auth.provider=local）
type LocalAuthConfirmer struct {
	profiles repository.ProfileRepository
	now      func() time.Time
}

// NewLocalAuthConfirmer 创建本地确认器
func NewLocalAuthConfirmer(profiles repository.ProfileRepository) *LocalAuthConfirmer {
	return &LocalAuthConfirmer{profiles: profiles, now: time.Now}
}

// ConfirmUser 写入确认时间
func (c *LocalAuthConfirmer) ConfirmUser(ctx context.Context, userID, channel string) error {
	return c.profiles.ConfirmContact(ctx, userID, channel, c.now())
}

// confirmChannelFor 标识含 @ 视为邮箱，否则为手机号
func confirmChannelFor(identifier string) string {
	if strings.Contains(identifier, "@") {
		return ConfirmChannelEmail
	}
	return ConfirmChannelPhone
}

func isValidOTPType(otpType string) bool {
	switch otpType {
	case constants.OTPTypeRegister, constants.OTPTypeResetPassword, constants.OTPTypeLogin:
		return true
	default:
		return false
	}
}

func isValidOTPChannel(channel string) bool {
	switch channel {
	case constants.OTPChannelEmail, constants.OTPChannelSMS:
		return true
	default:
		return false
	}
}
