package sms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tuanasish/leave-request/internal/config"
	"github.com/tuanasish/leave-request/internal/logger"
)

const (
	defaultSpeedSMSBaseURL = "https://api.speedsms.vn"
	defaultSpeedSMSType    = 5 // 2: CSKH, 3: OTP, 5: Long code
	defaultSpeedSMSTimeout = 10 * time.Second
)

var speedSMSErrorMessages = map[string]string{
	"007":   "IP bị khóa (IP locked)",
	"008":   "Tài khoản bị khóa (Account blocked)",
	"009":   "Tài khoản không được quyền gọi API",
	"101":   "Tham số không hợp lệ hoặc thiếu",
	"105":   "Số điện thoại không hợp lệ",
	"110":   "Không hỗ trợ định dạng nội dung tin nhắn",
	"113":   "Nội dung tin nhắn quá dài",
	"300":   "Số dư tài khoản không đủ để gửi tin",
	"500":   "Lỗi hệ thống SpeedSMS",
	"error": "Gửi tin thất bại",
}

// SpeedSMSErrorMessage 错误码对应的提示文案
func SpeedSMSErrorMessage(code string) string {
	if msg, ok := speedSMSErrorMessages[code]; ok {
		return msg
	}
	return fmt.Sprintf("Lỗi gửi SMS SpeedSMS (code: %s)", code)
}

// SpeedSMSClient speedsms.vn 客户端
type SpeedSMSClient struct {
	accessToken string
	sender      string
	smsType     int
	baseURL     string
	httpClient  *http.Client
}

// NewSpeedSMSClient 创建 SpeedSMS 客户端
func NewSpeedSMSClient(cfg config.SpeedSMSConfig) *SpeedSMSClient {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultSpeedSMSBaseURL
	}
	smsType := cfg.SMSType
	if smsType <= 0 {
		smsType = defaultSpeedSMSType
	}
	timeout := defaultSpeedSMSTimeout
	if cfg.TimeoutMS > 0 {
		timeout = time.Duration(cfg.TimeoutMS) * time.Millisecond
	}
	return &SpeedSMSClient{
		accessToken: strings.TrimSpace(cfg.AccessToken),
		sender:      strings.TrimSpace(cfg.Sender),
		smsType:     smsType,
		baseURL:     baseURL,
		httpClient:  &http.Client{Timeout: timeout},
	}
}

// Name 服务商名称
func (c *SpeedSMSClient) Name() string {
	return "speedsms"
}

// Configured 是否已配置访问令牌
func (c *SpeedSMSClient) Configured() bool {
	return c != nil && c.accessToken != ""
}

// Send 发送短信
func (c *SpeedSMSClient) Send(ctx context.Context, msg Message) (*Result, error) {
	if !c.Configured() {
		logger.Errorw("speedsms_not_configured")
		return nil, ErrNotConfigured
	}

	payload := map[string]interface{}{
		"to":       []string{FormatPhone(msg.Phone)},
		"content":  msg.Content,
		"sms_type": c.smsType,
	}
	if c.sender != "" {
		payload["sender"] = c.sender
	}
	logger.Debugw("speedsms_send_payload", "to", payload["to"], "sms_type", c.smsType, "kind", msg.Kind)

	raw, err := c.do(ctx, http.MethodPost, "/index.php/sms/send", payload)
	if err != nil {
		logger.Errorw("speedsms_send_request_failed", "error", err)
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}

	status := stringField(raw, "status")
	code := stringField(raw, "code")
	if status == "success" || code == "00" {
		messageID := ""
		if data, ok := raw["data"].(map[string]interface{}); ok {
			messageID = stringField(data, "tranId")
		}
		if messageID == "" {
			messageID = stringField(raw, "tranId")
		}
		return &Result{MessageID: messageID, Raw: raw}, nil
	}

	lookup := code
	if lookup == "" {
		lookup = status
	}
	logger.Warnw("speedsms_send_rejected", "code", code, "status", status, "response", raw)
	return nil, &ProviderError{Code: lookup, Message: SpeedSMSErrorMessage(lookup), Raw: raw}
}

// AccountInfo 查询账户信息（余额等）
func (c *SpeedSMSClient) AccountInfo(ctx context.Context) (map[string]interface{}, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}
	raw, err := c.do(ctx, http.MethodGet, "/index.php/user/info", nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	return raw, nil
}

func (c *SpeedSMSClient) do(ctx context.Context, method, path string, payload interface{}) (map[string]interface{}, error) {
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(c.accessToken, "x")
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}
	var raw map[string]interface{}
	if err := json.Unmarshal(respBytes, &raw); err != nil {
		return nil, fmt.Errorf("decode response (http %d): %w", resp.StatusCode, err)
	}
	return raw, nil
}

func stringField(m map[string]interface{}, key string) string {
	if m == nil {
		return ""
	}
	switch v := m[key].(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return fmt.Sprintf("%.0f", v)
	case json.Number:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}
