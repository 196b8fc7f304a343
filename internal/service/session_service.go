package service

import (
	"context"
	"strings"
	"time"

	"github.com/tuanasish/leave-request/internal/cache"
	"github.com/tuanasish/leave-request/internal/config"
	"github.com/tuanasish/leave-request/internal/logger"
	"github.com/tuanasish/leave-request/internal/models"
	"github.com/tuanasish/leave-request/internal/repository"

	"github.com/golang-jwt/jwt/v5"
)

// SessionClaims 认证后端签发的访问令牌声明
type SessionClaims struct {
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
	Role  string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// Session 当前请求的会话
type Session struct {
	UserID string
	Email  string
	Phone  string
}

// SessionService 会话解析与访问快照
type SessionService struct {
	cfg      config.AuthConfig
	profiles repository.ProfileRepository
	cache    *cache.Store
	now      func() time.Time
}

// NewSessionService 创建会话服务
func NewSessionService(cfg config.AuthConfig, profiles repository.ProfileRepository, store *cache.Store) *SessionService {
	return &SessionService{cfg: cfg, profiles: profiles, cache: store, now: time.Now}
}

// CookieName 访问令牌 Cookie 名称
func (s *SessionService) CookieName() string {
	if name := strings.TrimSpace(s.cfg.AccessCookie); name != "" {
		return name
	}
	return "sb-access-token"
}

// GenerateAccessToken 签发访问令牌（本地认证模式与测试使用）
func (s *SessionService) GenerateAccessToken(profile *models.Profile, ttl time.Duration) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(ttl)
	claims := SessionClaims{
		Email: profile.Email,
		Phone: profile.Phone,
		Role:  "authenticated",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   profile.ID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// ParseAccessToken 校验 HS256 访问令牌
func (s *SessionService) ParseAccessToken(tokenString string) (*Session, error) {
	tokenString = strings.TrimSpace(tokenString)
	if tokenString == "" {
		return nil, ErrSessionInvalid
	}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	claims := &SessionClaims{}
	token, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrSessionInvalid
	}
	userID := strings.TrimSpace(claims.Subject)
	if userID == "" {
		return nil, ErrSessionInvalid
	}
	return &Session{UserID: userID, Email: claims.Email, Phone: claims.Phone}, nil
}

// GateState 获取用户访问快照；查询失败按未验证处理且不缓存
func (s *SessionService) GateState(ctx context.Context, userID string) *cache.GateState {
	if cached, hit, err := s.cache.GetGateState(ctx, userID); err != nil {
		logger.Warnw("gate_state_cache_get_failed", "user_id", userID, "error", err)
	} else if hit {
		return cached
	}

	profile, err := s.profiles.GetByID(ctx, userID)
	if err != nil {
		logger.Warnw("gate_state_profile_lookup_failed", "user_id", userID, "error", err)
		return &cache.GateState{UserID: userID}
	}
	if profile == nil {
		return &cache.GateState{UserID: userID}
	}
	state := &cache.GateState{
		UserID:    userID,
		Role:      profile.Role,
		Verified:  profile.IsVerified,
		UpdatedAt: s.now().Unix(),
	}
	if err := s.cache.SetGateState(ctx, state, s.gateTTL()); err != nil {
		logger.Warnw("gate_state_cache_set_failed", "user_id", userID, "error", err)
	}
	return state
}

// Profile 获取当前用户档案
func (s *SessionService) Profile(ctx context.Context, userID string) (*models.Profile, error) {
	profile, err := s.profiles.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, ErrProfileMissing
	}
	return profile, nil
}

func (s *SessionService) gateTTL() time.Duration {
	if s.cfg.GateCacheTTL <= 0 {
		return time.Minute
	}
	return time.Duration(s.cfg.GateCacheTTL) * time.Second
}
