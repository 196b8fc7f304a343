package models

import "time"

// OTPCode 一次性验证码记录
type OTPCode struct {
	ID         uint      `gorm:"primarykey" json:"id"`                                                 // 主键
	Identifier string    `gorm:"size:255;not null;index:idx_otp_codes_lookup,priority:1" json:"identifier"` // 邮箱或手机号
	Code       string    `gorm:"size:16;not null" json:"-"`                                            // 验证码（不返回给前端）
	Type       string    `gorm:"size:32;not null;index:idx_otp_codes_lookup,priority:2" json:"type"`    // 用途（register/reset_password/login）
	ExpiresAt  time.Time `gorm:"not null;index" json:"expires_at"`                                     // 过期时间
	Used       bool      `gorm:"not null;default:false;index:idx_otp_codes_lookup,priority:3" json:"used"` // 是否已使用
	Attempts   int       `gorm:"not null;default:0" json:"attempts"`                                   // 已尝试次数
	CreatedAt  time.Time `gorm:"index:idx_otp_codes_lookup,priority:4" json:"created_at"`              // 创建时间
}

// TableName 指定表名
func (OTPCode) TableName() string {
	return "otp_codes"
}

// IsExpired 判断是否已过期
func (c *OTPCode) IsExpired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}
