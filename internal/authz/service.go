package authz

import (
	"errors"
	"fmt"
	"strings"

	"github.com/casbin/casbin/v3"
	"github.com/casbin/casbin/v3/model"
	"github.com/casbin/casbin/v3/util"
	gormadapter "github.com/casbin/gorm-adapter/v3"
	"gorm.io/gorm"
)

const (
	apiPrefix       = "/api"
	casbinTableName = "casbin_rule"
	rolePrefix      = "role:"
	// roleAnchor 角色登记用的占位父角色，使无策略角色也可被列出
	roleAnchor = "role:__anchor__"
)

// 主体为 profiles.role，对象为去掉 /api 前缀的路由模板
const rbacModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = (g(r.sub, p.sub) || r.sub == p.sub) && keyMatch2(r.obj, p.obj) && (r.act == p.act || p.act == "*")
`

var errUnavailable = errors.New("authz service unavailable")

// Policy 权限策略
type Policy struct {
	Subject string `json:"subject"`
	Object  string `json:"object"`
	Action  string `json:"action"`
}

// Service 管理端 RBAC，策略持久化在 casbin_rule 表
type Service struct {
	enforcer *casbin.SyncedEnforcer
}

// NewService 创建授权服务
func NewService(db *gorm.DB) (*Service, error) {
	if db == nil {
		return nil, errors.New("authz db is nil")
	}
	adapter, err := gormadapter.NewAdapterByDBUseTableName(db, "", casbinTableName)
	if err != nil {
		return nil, fmt.Errorf("create authz adapter failed: %w", err)
	}
	m, err := model.NewModelFromString(rbacModel)
	if err != nil {
		return nil, fmt.Errorf("load authz model failed: %w", err)
	}
	enforcer, err := casbin.NewSyncedEnforcer(m, adapter)
	if err != nil {
		return nil, fmt.Errorf("init authz enforcer failed: %w", err)
	}
	enforcer.AddFunction("keyMatch2", util.KeyMatch2Func)
	enforcer.EnableAutoSave(true)
	if err := enforcer.LoadPolicy(); err != nil {
		return nil, fmt.Errorf("load authz policy failed: %w", err)
	}
	return &Service{enforcer: enforcer}, nil
}

func (s *Service) available() bool {
	return s != nil && s.enforcer != nil
}

// EnforceRole 按用户档案中的角色判定能否访问路由；空角色一律拒绝
func (s *Service) EnforceRole(role, route, method string) (bool, error) {
	if !s.available() {
		return false, errUnavailable
	}
	subject, err := NormalizeRole(role)
	if err != nil {
		return false, nil
	}
	return s.enforcer.Enforce(subject, NormalizeObject(route), NormalizeAction(method))
}

// EnsureRole 登记角色
func (s *Service) EnsureRole(role string) (string, error) {
	subject, err := NormalizeRole(role)
	if err != nil {
		return "", err
	}
	if subject == roleAnchor {
		return "", errors.New("reserved role is not allowed")
	}
	if !s.available() {
		return "", errUnavailable
	}
	if _, err := s.enforcer.AddNamedGroupingPolicy("g", subject, roleAnchor); err != nil {
		return "", fmt.Errorf("create role failed: %w", err)
	}
	return subject, nil
}

// GrantRolePolicy 为角色授予路由权限，返回是否新增
func (s *Service) GrantRolePolicy(role, route, method string) (bool, error) {
	subject, err := s.EnsureRole(role)
	if err != nil {
		return false, err
	}
	action := NormalizeAction(method)
	if action == "" {
		return false, errors.New("action is required")
	}
	added, err := s.enforcer.AddPolicy(subject, NormalizeObject(route), action)
	if err != nil {
		return false, fmt.Errorf("grant policy failed: %w", err)
	}
	return added, nil
}

// GetRolePolicies 查询角色直接拥有的策略
func (s *Service) GetRolePolicies(role string) ([]Policy, error) {
	subject, err := NormalizeRole(role)
	if err != nil {
		return nil, err
	}
	if !s.available() {
		return nil, errUnavailable
	}
	rules, err := s.enforcer.GetFilteredPolicy(0, subject)
	if err != nil {
		return nil, fmt.Errorf("get role policies failed: %w", err)
	}
	policies := make([]Policy, 0, len(rules))
	for _, rule := range rules {
		if len(rule) < 3 {
			continue
		}
		policies = append(policies, Policy{Subject: rule[0], Object: rule[1], Action: rule[2]})
	}
	return policies, nil
}

// NormalizeRole profiles.role 转为 casbin 主体（role:admin）
func NormalizeRole(role string) (string, error) {
	name := strings.TrimPrefix(strings.ReplaceAll(strings.TrimSpace(role), " ", "_"), rolePrefix)
	if name == "" {
		return "", errors.New("role is required")
	}
	return rolePrefix + name, nil
}

// NormalizeObject 路由模板去掉 /api 前缀（/api/admin/stats -> /admin/stats）
func NormalizeObject(route string) string {
	normalized := strings.TrimSpace(route)
	if !strings.HasPrefix(normalized, "/") {
		normalized = "/" + normalized
	}
	switch {
	case normalized == apiPrefix:
		return "/"
	case strings.HasPrefix(normalized, apiPrefix+"/"):
		return strings.TrimPrefix(normalized, apiPrefix)
	}
	return normalized
}

// NormalizeAction HTTP 方法转大写
func NormalizeAction(method string) string {
	return strings.ToUpper(strings.TrimSpace(method))
}
