package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LeaveRequest 请假申请
type LeaveRequest struct {
	ID           string     `gorm:"primarykey;size:36" json:"id"`                          // 主键
	UserID       string     `gorm:"size:36;not null;index" json:"user_id"`                 // 申请人
	StartDate    Date       `gorm:"type:date;not null;index" json:"start_date"`            // 开始日期
	EndDate      Date       `gorm:"type:date;not null;index" json:"end_date"`              // 结束日期
	Reason       string     `gorm:"type:text;not null" json:"reason"`                      // 请假原因
	Status       string     `gorm:"size:16;not null;default:'pending';index" json:"status"` // 状态（pending/approved/rejected）
	AdminNote    *string    `gorm:"type:text" json:"admin_note"`                           // 审批备注
	ReviewedBy   *string    `gorm:"size:36" json:"reviewed_by"`                            // 审批人
	ReviewedAt   *time.Time `json:"reviewed_at"`                                           // 审批时间
	ReminderSent bool       `gorm:"not null;default:false" json:"reminder_sent"`           // 是否已发送提醒
	CreatedAt    time.Time  `gorm:"index" json:"created_at"`                               // 创建时间
	UpdatedAt    time.Time  `json:"updated_at"`                                            // 更新时间

	Profile *Profile `gorm:"foreignKey:UserID;references:ID" json:"profiles,omitempty"` // 申请人档案
}

// TableName 指定表名
func (LeaveRequest) TableName() string {
	return "leave_requests"
}

// BeforeCreate 补全主键
func (r *LeaveRequest) BeforeCreate(tx *gorm.DB) error {
	if strings.TrimSpace(r.ID) == "" {
		r.ID = uuid.NewString()
	}
	return nil
}
