package service

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"math"
	"math/big"
	"strings"
	"time"

	"github.com/tuanasish/leave-request/internal/cache"
	"github.com/tuanasish/leave-request/internal/config"
	"github.com/tuanasish/leave-request/internal/constants"
	"github.com/tuanasish/leave-request/internal/logger"
	"github.com/tuanasish/leave-request/internal/models"
	"github.com/tuanasish/leave-request/internal/repository"
)

// OTPDeliverer 验证码投递
type OTPDeliverer interface {
	Dispatch(ctx context.Context, input OTPDispatch) error
}

// IssueOTPInput 发放验证码参数
type IssueOTPInput struct {
	Identifier string
	Type       string
	Channel    string
	Locale     string
}

// IssueOTPResult 发放结果
type IssueOTPResult struct {
	Channel   string
	ExpiresAt time.Time
	DevCode   string
}

// VerifyOTPInput 校验验证码参数
type VerifyOTPInput struct {
	Identifier    string
	Type          string
	Code          string
	UserID        string
	SessionUserID string
}

// VerifyOTPResult 校验结果
type VerifyOTPResult struct {
	Type   string
	UserID string
}

// OTPService 一次性验证码发放与校验
type OTPService struct {
	cfg       config.OTPConfig
	repo      repository.OTPCodeRepository
	profiles  repository.ProfileRepository
	deliverer OTPDeliverer
	confirmer AuthConfirmer
	cache     *cache.Store
	now       func() time.Time
}

// NewOTPService 创建验证码服务
func NewOTPService(
	cfg config.OTPConfig,
	repo repository.OTPCodeRepository,
	profiles repository.ProfileRepository,
	deliverer OTPDeliverer,
	confirmer AuthConfirmer,
	store *cache.Store,
) *OTPService {
	return &OTPService{
		cfg:       normalizeOTPConfig(cfg),
		repo:      repo,
		profiles:  profiles,
		deliverer: deliverer,
		confirmer: confirmer,
		cache:     store,
		now:       time.Now,
	}
}

// ExpireMinutes 验证码有效分钟数
func (s *OTPService) ExpireMinutes() int {
	return s.cfg.ExpireMinutes
}

// Issue 发放验证码：冷却检查、生成、落库、投递
func (s *OTPService) Issue(ctx context.Context, input IssueOTPInput) (*IssueOTPResult, error) {
	identifier := strings.TrimSpace(input.Identifier)
	otpType := strings.ToLower(strings.TrimSpace(input.Type))
	channel := strings.ToLower(strings.TrimSpace(input.Channel))
	if identifier == "" {
		return nil, ErrOTPIdentifierInvalid
	}
	if !isValidOTPType(otpType) {
		return nil, ErrOTPTypeInvalid
	}
	if !isValidOTPChannel(channel) {
		return nil, ErrOTPMethodInvalid
	}

	now := s.now()
	interval := time.Duration(s.cfg.ResendIntervalSeconds) * time.Second
	latest, err := s.repo.GetLatestActive(ctx, identifier, otpType)
	if err != nil {
		return nil, err
	}
	if latest != nil {
		if elapsed := now.Sub(latest.CreatedAt); elapsed < interval {
			return nil, &OTPCooldownError{RemainingSeconds: ceilSeconds(interval - elapsed)}
		}
	}

	code, err := randomNumericCode(s.cfg.Length)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOTPCreateFailed, err)
	}
	record := &models.OTPCode{
		Identifier: identifier,
		Code:       code,
		Type:       otpType,
		ExpiresAt:  now.Add(time.Duration(s.cfg.ExpireMinutes) * time.Minute),
		CreatedAt:  now,
	}
	if err := s.repo.Replace(ctx, record); err != nil {
		if errors.Is(err, repository.ErrActiveOTPExists) {
			return nil, &OTPCooldownError{RemainingSeconds: s.cfg.ResendIntervalSeconds}
		}
		logger.Errorw("otp_create_failed", "identifier", logger.Mask(identifier), "type", otpType, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrOTPCreateFailed, err)
	}
	if s.cfg.DevEcho {
		logger.Debugw("otp_issued_dev_echo", "identifier", logger.Mask(identifier), "type", otpType, "code", code)
	}

	if err := s.deliverer.Dispatch(ctx, OTPDispatch{
		Identifier:    identifier,
		Type:          otpType,
		Channel:       channel,
		Code:          code,
		ExpireMinutes: s.cfg.ExpireMinutes,
		Locale:        input.Locale,
	}); err != nil {
		if markErr := s.repo.MarkUsed(ctx, record.ID); markErr != nil {
			logger.Warnw("otp_issue_invalidate_failed", "otp_id", record.ID, "error", markErr)
		}
		logger.Warnw("otp_issue_dispatch_failed", "identifier", logger.Mask(identifier), "channel", channel, "error", err)
		var dispatchErr *OTPDispatchError
		if errors.As(err, &dispatchErr) {
			return nil, dispatchErr
		}
		return nil, &OTPDispatchError{Cause: err}
	}

	logger.Infow("otp_issued", "identifier", logger.Mask(identifier), "type", otpType, "channel", channel, "otp_id", record.ID)
	result := &IssueOTPResult{Channel: channel, ExpiresAt: record.ExpiresAt}
	if s.cfg.DevEcho {
		result.DevCode = code
	}
	return result, nil
}

// Verify 校验验证码；成功时消费记录，注册场景同步确认用户
func (s *OTPService) Verify(ctx context.Context, input VerifyOTPInput) (*VerifyOTPResult, error) {
	identifier := strings.TrimSpace(input.Identifier)
	otpType := strings.ToLower(strings.TrimSpace(input.Type))
	code := strings.TrimSpace(input.Code)
	if !isValidOTPType(otpType) {
		return nil, ErrOTPTypeInvalid
	}
	if identifier == "" || code == "" {
		return nil, ErrOTPNotFound
	}

	record, err := s.repo.GetLatestActive(ctx, identifier, otpType)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, ErrOTPNotFound
	}
	if record.IsExpired(s.now()) {
		s.invalidate(ctx, record.ID, "expired")
		return nil, ErrOTPExpired
	}
	if record.Attempts >= s.cfg.MaxAttempts {
		s.invalidate(ctx, record.ID, "attempts_exceeded")
		return nil, ErrOTPAttemptsExceeded
	}

	counted, err := s.repo.IncrementAttempt(ctx, record.ID, s.cfg.MaxAttempts)
	if err != nil {
		return nil, err
	}
	if !counted {
		current, err := s.repo.GetByID(ctx, record.ID)
		if err != nil {
			return nil, err
		}
		if current == nil || current.Used {
			return nil, ErrOTPNotFound
		}
		s.invalidate(ctx, record.ID, "attempts_exceeded")
		return nil, ErrOTPAttemptsExceeded
	}
	attempts := record.Attempts + 1

	if subtle.ConstantTimeCompare([]byte(record.Code), []byte(code)) != 1 {
		remaining := s.cfg.MaxAttempts - attempts
		if remaining < 0 {
			remaining = 0
		}
		logger.Infow("otp_verify_mismatch", "identifier", logger.Mask(identifier), "type", otpType, "attempts", attempts)
		return nil, &OTPMismatchError{RemainingAttempts: remaining}
	}

	consumed, err := s.repo.Consume(ctx, record.ID)
	if err != nil {
		return nil, err
	}
	if !consumed {
		return nil, ErrOTPNotFound
	}
	logger.Infow("otp_verified", "identifier", logger.Mask(identifier), "type", otpType, "otp_id", record.ID)

	result := &VerifyOTPResult{Type: otpType}
	if otpType == constants.OTPTypeRegister {
		result.UserID = s.completeRegistration(ctx, identifier, input)
	}
	return result, nil
}

// completeRegistration 注册验证成功后的同步操作，失败只记录日志
func (s *OTPService) completeRegistration(ctx context.Context, identifier string, input VerifyOTPInput) string {
	userID := strings.TrimSpace(input.UserID)
	if userID == "" {
		userID = strings.TrimSpace(input.SessionUserID)
	}
	if userID == "" {
		logger.Warnw("otp_verify_register_user_missing", "identifier", logger.Mask(identifier))
		return ""
	}

	channel := confirmChannelFor(identifier)
	if s.confirmer != nil {
		if err := s.confirmer.ConfirmUser(ctx, userID, channel); err != nil {
			logger.Errorw("otp_verify_auth_confirm_failed", "user_id", userID, "channel", channel, "error", err)
		}
	}
	if s.profiles != nil {
		if _, err := s.profiles.MarkVerified(ctx, userID); err != nil {
			logger.Errorw("otp_verify_profile_update_failed", "user_id", userID, "error", err)
		}
	}
	if err := s.cache.DelGateState(ctx, userID); err != nil {
		logger.Warnw("otp_verify_gate_cache_clear_failed", "user_id", userID, "error", err)
	}
	return userID
}

func (s *OTPService) invalidate(ctx context.Context, id uint, reason string) {
	if err := s.repo.MarkUsed(ctx, id); err != nil {
		logger.Warnw("otp_invalidate_failed", "otp_id", id, "reason", reason, "error", err)
	}
}

func normalizeOTPConfig(cfg config.OTPConfig) config.OTPConfig {
	if cfg.ExpireMinutes <= 0 {
		cfg.ExpireMinutes = 5
	}
	if cfg.ResendIntervalSeconds <= 0 {
		cfg.ResendIntervalSeconds = 60
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 5
	}
	if cfg.Length < 4 || cfg.Length > 10 {
		cfg.Length = 6
	}
	return cfg
}

func ceilSeconds(d time.Duration) int {
	seconds := int(math.Ceil(d.Seconds()))
	if seconds < 1 {
		return 1
	}
	return seconds
}

func randomNumericCode(length int) (string, error) {
	var b strings.Builder
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		b.WriteString(n.String())
	}
	return b.String(), nil
}
