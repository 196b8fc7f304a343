package sms

import (
	"context"
	"strings"

	"github.com/tuanasish/leave-request/internal/config"
	"github.com/tuanasish/leave-request/internal/logger"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

// TwilioClient Twilio 短信客户端
type TwilioClient struct {
	client *twilio.RestClient
	from   string
}

// NewTwilioClient 创建 Twilio 客户端，凭据缺失时返回未配置的实例
func NewTwilioClient(cfg config.TwilioConfig) *TwilioClient {
	sid := strings.TrimSpace(cfg.AccountSID)
	token := strings.TrimSpace(cfg.AuthToken)
	if sid == "" || token == "" {
		return &TwilioClient{from: strings.TrimSpace(cfg.From)}
	}
	return &TwilioClient{
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: sid,
			Password: token,
		}),
		from: strings.TrimSpace(cfg.From),
	}
}

// Name 服务商名称
func (c *TwilioClient) Name() string {
	return "twilio"
}

// Send 发送短信
func (c *TwilioClient) Send(ctx context.Context, msg Message) (*Result, error) {
	if c.client == nil || c.from == "" {
		logger.Errorw("twilio_not_configured")
		return nil, ErrNotConfigured
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetFrom(c.from)
	params.SetTo("+" + FormatPhone(msg.Phone))
	params.SetBody(msg.Content)

	resp, err := c.client.Api.CreateMessage(params)
	if err != nil {
		logger.Warnw("twilio_send_failed", "error", err)
		return nil, &ProviderError{Code: "twilio", Message: "Không thể gửi tin nhắn SMS", Raw: map[string]interface{}{"error": err.Error()}}
	}

	result := &Result{Raw: map[string]interface{}{}}
	if resp.Sid != nil {
		result.MessageID = *resp.Sid
		result.Raw["sid"] = *resp.Sid
	}
	if resp.Status != nil {
		result.Raw["status"] = *resp.Status
	}
	return result, nil
}
