package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tuanasish/leave-request/internal/config"
)

var (
	ErrConfigInvalid   = errors.New("supabase admin config invalid")
	ErrRequestFailed   = errors.New("supabase admin request failed")
	ErrResponseInvalid = errors.New("supabase admin response invalid")
)

const defaultTimeout = 5 * time.Second

// AdminClient 认证后端管理接口（使用 service role key）
type AdminClient struct {
	baseURL    string
	serviceKey string
	httpClient *http.Client
}

// NewAdminClient 创建管理客户端
func NewAdminClient(cfg config.AuthConfig) (*AdminClient, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.SupabaseURL), "/")
	serviceKey := strings.TrimSpace(cfg.ServiceRoleKey)
	if baseURL == "" || serviceKey == "" {
		return nil, ErrConfigInvalid
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigInvalid, err)
	}
	timeout := defaultTimeout
	if cfg.TimeoutMS > 0 {
		timeout = time.Duration(cfg.TimeoutMS) * time.Millisecond
	}
	return &AdminClient{
		baseURL:    baseURL,
		serviceKey: serviceKey,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

// ConfirmUser 标记用户邮箱或手机号已确认
func (c *AdminClient) ConfirmUser(ctx context.Context, userID, channel string) error {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return ErrConfigInvalid
	}
	attrs := map[string]interface{}{"phone_confirm": true}
	if channel == "email" {
		attrs = map[string]interface{}{"email_confirm": true}
	}
	body, err := json.Marshal(attrs)
	if err != nil {
		return err
	}

	endpoint := fmt.Sprintf("%s/auth/v1/admin/users/%s", c.baseURL, url.PathEscape(userID))
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("apikey", c.serviceKey)
	req.Header.Set("Authorization", "Bearer "+c.serviceKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("%w: http status %d: %s", ErrResponseInvalid, resp.StatusCode, strings.TrimSpace(string(respBody)))
	}
	return nil
}
