package authz

import (
	"fmt"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupAuthzServiceTest(t *testing.T) *Service {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	svc, err := NewService(db)
	if err != nil {
		t.Fatalf("new authz service failed: %v", err)
	}
	return svc
}

func TestBuiltinAdminRoleCoversAdminAPI(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	if err := svc.BootstrapBuiltinRoles(); err != nil {
		t.Fatalf("bootstrap builtin roles failed: %v", err)
	}
	// 重复初始化保持幂等
	if err := svc.BootstrapBuiltinRoles(); err != nil {
		t.Fatalf("bootstrap builtin roles twice failed: %v", err)
	}

	cases := []struct {
		role   string
		object string
		action string
		want   bool
	}{
		{"admin", "/api/admin/leave-requests", "get", true},
		{"admin", "/api/admin/leave-requests/9f1c", "PATCH", true},
		{"admin", "/api/admin/settings/sms_enabled", "PUT", true},
		{"user", "/api/admin/stats", "GET", false},
		{"", "/api/admin/stats", "GET", false},
		{"admin", "/api/leave-requests", "GET", false},
	}
	for _, tc := range cases {
		got, err := svc.EnforceRole(tc.role, tc.object, tc.action)
		if err != nil {
			t.Fatalf("enforce %s %s failed: %v", tc.role, tc.object, err)
		}
		if got != tc.want {
			t.Fatalf("enforce(%q, %s, %s) want %v got %v", tc.role, tc.object, tc.action, tc.want, got)
		}
	}

	policies, err := svc.GetRolePolicies("admin")
	if err != nil {
		t.Fatalf("get role policies failed: %v", err)
	}
	if len(policies) != 1 || policies[0].Object != "/admin/*" || policies[0].Action != "*" {
		t.Fatalf("unexpected admin policies: %+v", policies)
	}
}

func TestGrantRolePolicyAddsReadOnlyRole(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	if _, err := svc.GrantRolePolicy("hr viewer", "/admin/*", "GET"); err != nil {
		t.Fatalf("grant failed: %v", err)
	}
	allow, _ := svc.EnforceRole("hr_viewer", "/api/admin/employees", "GET")
	if !allow {
		t.Fatalf("expected GET allowed")
	}
	allow, _ = svc.EnforceRole("hr_viewer", "/api/admin/leave-requests/1", "PATCH")
	if allow {
		t.Fatalf("expected PATCH denied")
	}
}

func TestNormalizeHelpers(t *testing.T) {
	if got := NormalizeObject("api/admin/stats"); got != "/admin/stats" {
		t.Fatalf("unexpected normalized object: %s", got)
	}
	if got := NormalizeObject("/api"); got != "/" {
		t.Fatalf("unexpected normalized api root: %s", got)
	}
	if _, err := NormalizeRole("role:"); err == nil {
		t.Fatalf("expected empty role error")
	}
	if got, _ := NormalizeRole("admin"); got != "role:admin" {
		t.Fatalf("unexpected normalized role: %s", got)
	}
}
