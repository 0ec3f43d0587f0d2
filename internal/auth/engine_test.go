package auth

import (
	"testing"

	"hygio/internal/models"
)

var (
	superID    = Identity{UUID: "s-1", Role: models.RoleSuperAdmin}
	adminID    = Identity{UUID: "a-1", Role: models.RoleAdminClient, OwnSiret: "11112222333344"}
	employerID = Identity{UUID: "e-1", Role: models.RoleEmployer, InheritedSiret: "11112222333344"}
)

func TestAuthorizeEmployerNeverDeletesTemperature(t *testing.T) {
	// запрет не зависит от того, чей это замер
	for _, target := range []string{"", "11112222333344"} {
		d := Authorize(employerID, KindTemperature, OpDelete, target)
		if d.Allow {
			t.Fatalf("employer delete must be denied (target=%q)", target)
		}
	}
}

func TestAuthorizeAdminScopeOverride(t *testing.T) {
	// чужой target — отказ, а не работа в чужом scope
	d := Authorize(adminID, KindTemperature, OpList, "99998888777766")
	if d.Allow {
		t.Fatal("admin_client must not act on a foreign tenant")
	}

	// свой или пустой target — scope всегда собственный SIRET
	for _, target := range []string{"", "11112222333344"} {
		d := Authorize(adminID, KindTemperature, OpList, target)
		if !d.Allow {
			t.Fatalf("admin_client list denied (target=%q)", target)
		}
		if d.Scope != "11112222333344" {
			t.Fatalf("scope = %q, want own siret", d.Scope)
		}
	}
}

func TestAuthorizeSuperAdmin(t *testing.T) {
	d := Authorize(superID, KindEquipment, OpDelete, "99998888777766")
	if !d.Allow || d.Scope != "99998888777766" {
		t.Fatalf("super_admin with target: %+v", d)
	}
	// без target — разрешено, но scope пуст: вызывающий обязан
	// потребовать явный SIRET (валидация, не авторизация)
	d = Authorize(superID, KindEquipment, OpList, "")
	if !d.Allow || d.Scope != "" {
		t.Fatalf("super_admin without target: %+v", d)
	}
}

func TestAuthorizeEmployerMatrix(t *testing.T) {
	cases := []struct {
		kind  Kind
		op    Op
		allow bool
	}{
		{KindTemperature, OpCreate, true},
		{KindTemperature, OpRead, true},
		{KindTemperature, OpList, true},
		{KindTemperature, OpUpdate, true},
		{KindTemperature, OpDelete, false},
		{KindMedia, OpCreate, true},
		{KindMedia, OpUpdate, true},
		{KindMedia, OpDelete, false},
		{KindEquipment, OpRead, true},
		{KindEquipment, OpList, true},
		{KindEquipment, OpCreate, false},
		{KindEquipment, OpUpdate, false},
		{KindEquipment, OpDelete, false},
		{KindAlert, OpList, true},
		{KindAlert, OpUpdate, true},
		{KindAlert, OpDelete, false},
	}
	for _, c := range cases {
		d := Authorize(employerID, c.kind, c.op, "")
		if d.Allow != c.allow {
			t.Errorf("employer %s/%s: allow=%v, want %v", c.kind, c.op, d.Allow, c.allow)
		}
		if d.Allow && d.Scope != employerID.InheritedSiret {
			t.Errorf("employer %s/%s: scope=%q, want inherited", c.kind, c.op, d.Scope)
		}
	}
}

func TestAuthorizeAlertCreateDeniedForEveryone(t *testing.T) {
	for _, id := range []Identity{superID, adminID, employerID} {
		if Authorize(id, KindAlert, OpCreate, "11112222333344").Allow {
			t.Fatalf("alert create must be denied for role %s", id.Role)
		}
	}
}

func TestAuthorizeDefaultDeny(t *testing.T) {
	// неизвестная роль — запрет, не пропуск
	weird := Identity{UUID: "x", Role: "auditor"}
	if Authorize(weird, KindTemperature, OpRead, "").Allow {
		t.Fatal("unknown role must be denied")
	}
}

func TestResolveEffectiveSiret(t *testing.T) {
	if s, ok := ResolveEffectiveSiret(adminID); !ok || s != "11112222333344" {
		t.Fatalf("admin: %q %v", s, ok)
	}
	if s, ok := ResolveEffectiveSiret(employerID); !ok || s != "11112222333344" {
		t.Fatalf("employer: %q %v", s, ok)
	}
	if _, ok := ResolveEffectiveSiret(superID); ok {
		t.Fatal("super_admin must be unscoped")
	}
}

func TestValidSiret(t *testing.T) {
	good := []string{"11112222333344", "00000000000000"}
	bad := []string{"", "1111222233334", "111122223333445", "1111222233334a", "1111 222233334"}
	for _, s := range good {
		if !ValidSiret(s) {
			t.Errorf("ValidSiret(%q) = false", s)
		}
	}
	for _, s := range bad {
		if ValidSiret(s) {
			t.Errorf("ValidSiret(%q) = true", s)
		}
	}
}
