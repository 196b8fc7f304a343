package service

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/tuanasish/leave-request/internal/cache"
	"github.com/tuanasish/leave-request/internal/constants"
	"github.com/tuanasish/leave-request/internal/logger"
	"github.com/tuanasish/leave-request/internal/models"
	"github.com/tuanasish/leave-request/internal/repository"
)

const (
	settingsCacheKey       = "admin:settings"
	settingsCacheTTL       = 10 * time.Minute
	defaultReminderDays    = 1
	maxReminderDaysSetting = 30
)

// NotificationSettings 通知相关设置
type NotificationSettings struct {
	SMSEnabled         bool
	CompanyName        string
	ReminderDaysBefore int
}

// SettingService 设置业务服务
type SettingService struct {
	repo  repository.SettingRepository
	cache *cache.Store
	now   func() time.Time
}

// NewSettingService 创建设置服务
func NewSettingService(repo repository.SettingRepository, store *cache.Store) *SettingService {
	return &SettingService{repo: repo, cache: store, now: time.Now}
}

// List 列出全部设置（缓存 10 分钟）
func (s *SettingService) List(ctx context.Context) ([]models.Setting, error) {
	return cache.Remember(ctx, s.cache, settingsCacheKey, settingsCacheTTL, []string{constants.CacheTagSettings}, func(ctx context.Context) ([]models.Setting, error) {
		list, err := s.repo.List(ctx)
		if err != nil {
			return nil, err
		}
		if list == nil {
			list = []models.Setting{}
		}
		return list, nil
	})
}

// Update 更新已存在的设置项
func (s *SettingService) Update(ctx context.Context, key string, value json.RawMessage) (*models.Setting, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, ErrSettingNotFound
	}
	trimmed := strings.TrimSpace(string(value))
	if trimmed == "" || !json.Valid([]byte(trimmed)) {
		return nil, ErrSettingValueInvalid
	}
	updated, err := s.repo.UpdateValue(ctx, key, models.JSONValue(trimmed), s.now())
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, ErrSettingNotFound
	}
	s.cache.InvalidateTags(ctx, constants.CacheTagSettings)
	logger.Infow("setting_updated", "key", key)
	return s.repo.GetByKey(ctx, key)
}

// NotificationSettings 读取短信开关、公司名与提醒天数
func (s *SettingService) NotificationSettings(ctx context.Context) (NotificationSettings, error) {
	result := NotificationSettings{
		CompanyName:        constants.DefaultCompanyName,
		ReminderDaysBefore: defaultReminderDays,
	}
	if s == nil || s.repo == nil {
		return result, nil
	}
	settings, err := s.repo.GetByKeys(ctx, []string{
		constants.SettingKeySMSEnabled,
		constants.SettingKeyCompanyName,
		constants.SettingKeyReminderDaysBefore,
	})
	if err != nil {
		return result, err
	}
	if setting, ok := settings[constants.SettingKeySMSEnabled]; ok {
		result.SMSEnabled = parseSettingBool(setting.Value)
	}
	if setting, ok := settings[constants.SettingKeyCompanyName]; ok {
		if name := parseSettingString(setting.Value); name != "" {
			result.CompanyName = name
		}
	}
	if setting, ok := settings[constants.SettingKeyReminderDaysBefore]; ok {
		result.ReminderDaysBefore = parseSettingInt(setting.Value, defaultReminderDays)
	}
	return result, nil
}

// parseSettingBool 接受 JSON true 或字符串 "true"
func parseSettingBool(raw models.JSONValue) bool {
	var value interface{}
	if err := json.Unmarshal(raw, &value); err != nil {
		return false
	}
	switch v := value.(type) {
	case bool:
		return v
	case string:
		return strings.TrimSpace(v) == "true"
	default:
		return false
	}
}

// parseSettingString 解析字符串设置，兼容被重复编码的 JSON 字符串
func parseSettingString(raw models.JSONValue) string {
	var value string
	if err := json.Unmarshal(raw, &value); err != nil {
		return ""
	}
	value = strings.TrimSpace(value)
	if strings.HasPrefix(value, `"`) {
		var inner string
		if err := json.Unmarshal([]byte(value), &inner); err == nil {
			value = strings.TrimSpace(inner)
		}
	}
	return value
}

func parseSettingInt(raw models.JSONValue, fallback int) int {
	var value interface{}
	if err := json.Unmarshal(raw, &value); err != nil {
		return fallback
	}
	var parsed int
	switch v := value.(type) {
	case float64:
		parsed = int(v)
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fallback
		}
		parsed = n
	default:
		return fallback
	}
	if parsed < 0 || parsed > maxReminderDaysSetting {
		return fallback
	}
	return parsed
}
