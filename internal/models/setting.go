package models

import "time"

// Setting 系统设置表（键值对存储）
type Setting struct {
	ID          uint      `gorm:"primarykey" json:"id"`                        // 主键
	Key         string    `gorm:"size:64;uniqueIndex;not null" json:"key"`     // 配置键
	Value       JSONValue `gorm:"type:json" json:"value"`                      // 配置值（JSON）
	Description *string   `gorm:"type:text" json:"description"`                // 说明
	UpdatedAt   time.Time `json:"updated_at"`                                  // 更新时间
}

// TableName 指定表名
func (Setting) TableName() string {
	return "settings"
}
