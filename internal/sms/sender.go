package sms

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tuanasish/leave-request/internal/config"
	"github.com/tuanasish/leave-request/internal/constants"
)

// 消息种类
const (
	KindOTP       = "otp"
	KindBrandname = "brandname"
)

var (
	// ErrNotConfigured 短信服务未配置
	ErrNotConfigured = errors.New("SMS service not configured")
	// ErrNetwork 网络或响应解析失败
	ErrNetwork = errors.New("Không thể gửi SMS qua SpeedSMS. Vui lòng thử lại sau.")
)

// Message 待发送短信
type Message struct {
	Phone   string
	Content string
	Kind    string
}

// Result 发送结果
type Result struct {
	MessageID string
	Raw       map[string]interface{}
}

// Sender 短信发送接口
type Sender interface {
	Name() string
	Send(ctx context.Context, msg Message) (*Result, error)
}

// ProviderError 服务商返回的业务错误
type ProviderError struct {
	Code    string
	Message string
	Raw     map[string]interface{}
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("sms provider error %s: %s", e.Code, e.Message)
}

// UserMessage 返回可展示给用户的错误文案
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var providerErr *ProviderError
	if errors.As(err, &providerErr) && strings.TrimSpace(providerErr.Message) != "" {
		return providerErr.Message
	}
	if errors.Is(err, ErrNotConfigured) {
		return ErrNotConfigured.Error()
	}
	if errors.Is(err, ErrNetwork) {
		return ErrNetwork.Error()
	}
	return ""
}

// RawResponse 提取错误携带的服务商原始响应
func RawResponse(err error) map[string]interface{} {
	var providerErr *ProviderError
	if errors.As(err, &providerErr) {
		return providerErr.Raw
	}
	return nil
}

// NewSender 根据配置创建短信发送器
func NewSender(cfg config.SMSConfig) Sender {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case constants.SMSProviderTwilio:
		return NewTwilioClient(cfg.Twilio)
	default:
		return NewSpeedSMSClient(cfg.SpeedSMS)
	}
}
