package authz

import (
	"fmt"

	"github.com/tuanasish/leave-request/internal/constants"
	"github.com/tuanasish/leave-request/internal/logger"
)

// RoleSeed 预置角色定义
type RoleSeed struct {
	Role     string
	Policies []Policy
}

// BuiltinRoleSeeds 系统预置角色矩阵
func BuiltinRoleSeeds() []RoleSeed {
	return []RoleSeed{
		{
			Role: constants.RoleAdmin,
			Policies: []Policy{
				{Object: "/admin/*", Action: "*"},
			},
		},
		{
			// 普通员工不授予任何管理端权限，仅登记角色
			Role: constants.RoleUser,
		},
	}
}

// BootstrapBuiltinRoles 初始化预置角色与默认策略
func (s *Service) BootstrapBuiltinRoles() error {
	if s == nil || s.enforcer == nil {
		return fmt.Errorf("authz service unavailable")
	}

	for _, seed := range BuiltinRoleSeeds() {
		role, err := s.EnsureRole(seed.Role)
		if err != nil {
			return fmt.Errorf("create builtin role failed: %w", err)
		}
		for _, policy := range seed.Policies {
			added, err := s.GrantRolePolicy(role, policy.Object, policy.Action)
			if err != nil {
				return fmt.Errorf("add builtin policy failed: %w", err)
			}
			if added {
				logger.Infow("authz_builtin_policy_added", "role", role, "object", policy.Object, "action", policy.Action)
			}
		}
	}
	return nil
}
