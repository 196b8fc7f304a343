package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Profile 用户档案（与认证后端的用户一一对应）
type Profile struct {
	ID               string     `gorm:"primarykey;size:36" json:"id"`                 // 认证后端用户ID
	Email            string     `gorm:"size:255;index" json:"email"`                  // 邮箱
	Phone            string     `gorm:"size:32;index" json:"phone"`                   // 手机号
	FullName         string     `gorm:"size:100;not null;default:''" json:"full_name"` // 姓名
	Role             string     `gorm:"size:16;not null;default:'user'" json:"role"`  // 角色（user/admin）
	IsVerified       bool       `gorm:"not null;default:false" json:"is_verified"`    // 是否完成 OTP 验证
	EmailConfirmedAt *time.Time `json:"email_confirmed_at,omitempty"`                 // 邮箱确认时间
	PhoneConfirmedAt *time.Time `json:"phone_confirmed_at,omitempty"`                 // 手机确认时间
	CreatedAt        time.Time  `gorm:"index" json:"created_at"`                      // 创建时间
	UpdatedAt        time.Time  `json:"updated_at"`                                   // 更新时间
}

// TableName 指定表名
func (Profile) TableName() string {
	return "profiles"
}

// BeforeCreate 补全主键
func (p *Profile) BeforeCreate(tx *gorm.DB) error {
	if strings.TrimSpace(p.ID) == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
