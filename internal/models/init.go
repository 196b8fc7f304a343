package models

import (
	"errors"
	"strings"

	"github.com/tuanasish/leave-request/internal/constants"
	"github.com/tuanasish/leave-request/internal/logger"

	"gorm.io/gorm"
)

type settingSeed struct {
	key         string
	value       interface{}
	description string
}

var defaultSettings = []settingSeed{
	{constants.SettingKeyReminderDaysBefore, 1, "Số ngày nhắc nhở trước ngày nghỉ"},
	{constants.SettingKeySMSEnabled, false, "Bật/tắt gửi SMS thông báo"},
	{constants.SettingKeyCompanyName, constants.DefaultCompanyName, "Tên công ty hiển thị trong tin nhắn"},
}

// EnsureDefaultSettings 补齐缺失的设置项，已有值不覆盖
func EnsureDefaultSettings(db *gorm.DB) error {
	for _, seed := range defaultSettings {
		var count int64
		if err := db.Model(&Setting{}).Where(map[string]interface{}{"key": seed.key}).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}
		value, err := NewJSONValue(seed.value)
		if err != nil {
			return err
		}
		description := seed.description
		if err := db.Create(&Setting{Key: seed.key, Value: value, Description: &description}).Error; err != nil {
			return err
		}
		logger.Infow("default_setting_created", "key", seed.key)
	}
	return nil
}

// EnsureBootstrapAdmin 将指定邮箱的用户提升为管理员
func EnsureBootstrapAdmin(db *gorm.DB, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil
	}
	var profile Profile
	if err := db.Where("LOWER(email) = ?", email).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warnw("bootstrap_admin_profile_missing", "email", logger.Mask(email))
			return nil
		}
		return err
	}
	if profile.Role == constants.RoleAdmin {
		return nil
	}
	if err := db.Model(&Profile{}).Where("id = ?", profile.ID).Update("role", constants.RoleAdmin).Error; err != nil {
		return err
	}
	logger.Warnw("bootstrap_admin_promoted", "user_id", profile.ID, "email", logger.Mask(email))
	return nil
}
