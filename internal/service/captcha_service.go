package service

import (
	"strings"
	"sync"
	"time"

	"github.com/tuanasish/leave-request/internal/config"
	"github.com/tuanasish/leave-request/internal/constants"

	"github.com/mojocn/base64Captcha"
)

const captchaCharset = "0123456789abcdefghijkmnpqrstuvwxyzABCDEFGHJKLMNPQRSTUVWXYZ"

// CaptchaVerifyPayload 验证码校验请求载荷
type CaptchaVerifyPayload struct {
	CaptchaID   string `json:"captcha_id"`
	CaptchaCode string `json:"captcha_code"`
}

// CaptchaImageChallenge 图片验证码挑战
type CaptchaImageChallenge struct {
	CaptchaID   string `json:"captcha_id"`
	ImageBase64 string `json:"image_base64"`
}

// CaptchaService 验证码服务
// 按场景开关决定是否需要验证码，目前仅支持图片验证码
type CaptchaService struct {
	cfg config.CaptchaConfig

	once  sync.Once
	store base64Captcha.Store
}

// NewCaptchaService 创建验证码服务
func NewCaptchaService(cfg config.CaptchaConfig) *CaptchaService {
	return &CaptchaService{cfg: normalizeCaptchaConfig(cfg)}
}

// Provider 当前验证码提供方
func (s *CaptchaService) Provider() string {
	if s == nil {
		return constants.CaptchaProviderNone
	}
	return s.cfg.Provider
}

// IsSceneEnabled 判断场景是否需要验证码
func (s *CaptchaService) IsSceneEnabled(scene string) bool {
	if s == nil || s.cfg.Provider == constants.CaptchaProviderNone {
		return false
	}
	switch scene {
	case constants.CaptchaSceneSendOTP:
		return s.cfg.Scenes.SendOTP
	default:
		return false
	}
}

// GenerateImageChallenge 生成图片验证码
func (s *CaptchaService) GenerateImageChallenge() (*CaptchaImageChallenge, error) {
	if s == nil || s.cfg.Provider != constants.CaptchaProviderImage {
		return nil, ErrCaptchaConfigInvalid
	}
	image := s.cfg.Image
	driver := base64Captcha.NewDriverString(
		image.Height,
		image.Width,
		image.NoiseCount,
		image.ShowLine,
		image.Length,
		captchaCharset,
		nil,
		base64Captcha.DefaultEmbeddedFonts,
		nil,
	)
	captcha := base64Captcha.NewCaptcha(driver, s.imageStore())
	id, b64s, _, err := captcha.Generate()
	if err != nil {
		return nil, err
	}
	return &CaptchaImageChallenge{
		CaptchaID:   strings.TrimSpace(id),
		ImageBase64: strings.TrimSpace(b64s),
	}, nil
}

// Verify 按场景校验验证码
func (s *CaptchaService) Verify(scene string, payload CaptchaVerifyPayload) error {
	if !s.IsSceneEnabled(scene) {
		return nil
	}
	if s.cfg.Provider != constants.CaptchaProviderImage {
		return ErrCaptchaConfigInvalid
	}
	captchaID := strings.TrimSpace(payload.CaptchaID)
	captchaCode := strings.TrimSpace(payload.CaptchaCode)
	if captchaID == "" || captchaCode == "" {
		return ErrCaptchaRequired
	}
	if !s.imageStore().Verify(captchaID, captchaCode, true) {
		return ErrCaptchaInvalid
	}
	return nil
}

func (s *CaptchaService) imageStore() base64Captcha.Store {
	s.once.Do(func() {
		s.store = base64Captcha.NewMemoryStore(s.cfg.Image.MaxStore, time.Duration(s.cfg.Image.ExpireSeconds)*time.Second)
	})
	return s.store
}

func normalizeCaptchaConfig(cfg config.CaptchaConfig) config.CaptchaConfig {
	provider := strings.ToLower(strings.TrimSpace(cfg.Provider))
	switch provider {
	case constants.CaptchaProviderImage, constants.CaptchaProviderNone:
		cfg.Provider = provider
	default:
		cfg.Provider = constants.CaptchaProviderNone
	}
	if cfg.Image.Length < 4 || cfg.Image.Length > 8 {
		cfg.Image.Length = 5
	}
	if cfg.Image.Width < 100 {
		cfg.Image.Width = 240
	}
	if cfg.Image.Height < 40 {
		cfg.Image.Height = 80
	}
	if cfg.Image.NoiseCount < 0 {
		cfg.Image.NoiseCount = 2
	}
	if cfg.Image.ShowLine < 0 {
		cfg.Image.ShowLine = 2
	}
	if cfg.Image.ExpireSeconds < 30 || cfg.Image.ExpireSeconds > 3600 {
		cfg.Image.ExpireSeconds = 300
	}
	if cfg.Image.MaxStore < 100 {
		cfg.Image.MaxStore = 10240
	}
	return cfg
}
