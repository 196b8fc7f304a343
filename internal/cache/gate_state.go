package cache

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// GateState 页面访问控制所需的用户快照
type GateState struct {
	UserID    string `json:"user_id"`
	Role      string `json:"role"`
	Verified  bool   `json:"verified"`
	UpdatedAt int64  `json:"updated_at"`
}

func gateStateKey(userID string) string {
	return fmt.Sprintf("auth:gate:%s", userID)
}

// GetGateState 获取用户访问快照
func (s *Store) GetGateState(ctx context.Context, userID string) (*GateState, bool, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, false, nil
	}
	var state GateState
	hit, err := s.GetJSON(ctx, gateStateKey(userID), &state)
	if err != nil || !hit {
		return nil, hit, err
	}
	return &state, true, nil
}

// SetGateState 写入用户访问快照
func (s *Store) SetGateState(ctx context.Context, state *GateState, ttl time.Duration) error {
	if state == nil || strings.TrimSpace(state.UserID) == "" {
		return nil
	}
	return s.SetJSON(ctx, gateStateKey(state.UserID), state, ttl)
}

// DelGateState 删除用户访问快照
func (s *Store) DelGateState(ctx context.Context, userID string) error {
	if strings.TrimSpace(userID) == "" {
		return nil
	}
	return s.Del(ctx, gateStateKey(userID))
}
