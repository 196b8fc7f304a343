package router

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDecideGateTransitionTable(t *testing.T) {
	noSession := GateVisitor{Status: GateNoSession}
	unverified := GateVisitor{Status: GateUnverified, Role: "user"}
	verifiedUser := GateVisitor{Status: GateVerified, Role: "user"}
	verifiedAdmin := GateVisitor{Status: GateVerified, Role: "admin"}

	cases := []struct {
		name     string
		visitor  GateVisitor
		path     string
		redirect string
	}{
		{"anonymous public", noSession, "/login", ""},
		{"anonymous public prefix", noSession, "/reset-password/confirm", ""},
		{"anonymous api", noSession, "/api/leave-requests", ""},
		{"anonymous protected", noSession, "/dashboard", "/login"},
		{"anonymous root", noSession, "/", "/login"},
		{"unverified public", unverified, "/register", ""},
		{"unverified verify page", unverified, "/verify-otp", ""},
		{"unverified api", unverified, "/api/send-otp", ""},
		{"unverified protected", unverified, "/dashboard", "/verify-otp"},
		{"verified public", verifiedUser, "/login", "/dashboard"},
		{"verified verify page", verifiedUser, "/verify-otp", "/dashboard"},
		{"verified api", verifiedUser, "/api/me", ""},
		{"verified protected", verifiedUser, "/leave-requests/new", ""},
		{"verified user on admin", verifiedUser, "/admin", "/dashboard"},
		{"verified user on admin child", verifiedUser, "/admin/settings", "/dashboard"},
		{"verified user on admin-like path", verifiedUser, "/administrator", ""},
		{"admin on admin", verifiedAdmin, "/admin/leave-requests", ""},
		{"unverified admin on admin", GateVisitor{Status: GateUnverified, Role: "admin"}, "/admin", "/verify-otp"},
	}
	for _, tc := range cases {
		got := DecideGate(tc.visitor, tc.path)
		if tc.redirect == "" {
			if !got.Allow {
				t.Fatalf("%s: expected allow, got redirect %s", tc.name, got.RedirectTo)
			}
			continue
		}
		if got.Allow || got.RedirectTo != tc.redirect {
			t.Fatalf("%s: expected redirect %s, got %+v", tc.name, tc.redirect, got)
		}
	}
}

func TestResolveStaticFileFallsBackToIndex(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html></html>"), 0o644); err != nil {
		t.Fatalf("write index failed: %v", err)
	}
	if err := os.MkdirAll(filepath.Join(dir, "assets"), 0o755); err != nil {
		t.Fatalf("mkdir assets failed: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "assets", "app.js"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write asset failed: %v", err)
	}

	if got := resolveStaticFile(dir, "/assets/app.js"); got != filepath.Join(dir, "assets", "app.js") {
		t.Fatalf("expected asset path, got %s", got)
	}
	if got := resolveStaticFile(dir, "/dashboard"); got != filepath.Join(dir, "index.html") {
		t.Fatalf("expected index fallback, got %s", got)
	}
	if got := resolveStaticFile(dir, "/../../etc/passwd"); got != filepath.Join(dir, "index.html") {
		t.Fatalf("traversal must stay inside static dir, got %s", got)
	}
	if got := resolveStaticFile(dir, "/assets"); got != filepath.Join(dir, "index.html") {
		t.Fatalf("directories fall back to index, got %s", got)
	}
}
