package models

import "time"

// NotificationLog 短信/邮件发送审计记录
type NotificationLog struct {
	ID               uint       `gorm:"primarykey" json:"id"`                       // 主键
	Channel          string     `gorm:"size:16;not null;index" json:"channel"`      // 渠道（sms/email）
	Recipient        string     `gorm:"size:255;not null;index" json:"recipient"`   // 接收方
	Message          string     `gorm:"type:text;not null" json:"message"`          // 内容
	Type             string     `gorm:"size:16;not null;index" json:"type"`         // 类型（otp/approval/rejection/reminder）
	Status           string     `gorm:"size:16;not null;index" json:"status"`       // 状态（pending/sent/failed）
	ProviderResponse JSON       `gorm:"type:json" json:"provider_response"`         // 服务商原始响应
	LeaveRequestID   *string    `gorm:"size:36;index" json:"leave_request_id"`      // 关联请假申请
	SentAt           *time.Time `json:"sent_at"`                                    // 发送时间
	ErrorMessage     string     `gorm:"type:text" json:"error_message,omitempty"`   // 失败原因
	CreatedAt        time.Time  `gorm:"index" json:"created_at"`                    // 创建时间
}

// TableName 指定表名
func (NotificationLog) TableName() string {
	return "notification_logs"
}
