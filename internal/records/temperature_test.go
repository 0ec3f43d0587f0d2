package records

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"hygio/internal/auth"
	"hygio/internal/faults"
	"hygio/internal/logs"
	"hygio/internal/models"
	"hygio/internal/repo"
)

const (
	siretA = "11112222333344"
	siretB = "99998888777766"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	logs.Init(logs.Options{Level: "error"})
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Identity{},
		&models.TemperatureRecord{},
		&models.Equipment{},
		&models.MediaRecord{},
		&models.Alert{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// seedAdmin создаёт admin_client, чтобы проверка целостности
// сотрудников находила живого владельца SIRET.
func seedAdmin(t *testing.T, db *gorm.DB, siret string) {
	t.Helper()
	s := siret
	if err := db.Create(&models.Identity{
		UUID:     "admin-" + siret,
		Email:    "admin-" + siret + "@resto.fr",
		Role:     models.RoleAdminClient,
		OwnSiret: &s,
	}).Error; err != nil {
		t.Fatalf("seed admin: %v", err)
	}
}

func adminOf(siret string) auth.Identity {
	return auth.Identity{UUID: "admin-" + siret, Role: models.RoleAdminClient, OwnSiret: siret}
}

func employerOf(siret string) auth.Identity {
	return auth.Identity{UUID: "emp-" + siret, Role: models.RoleEmployer, InheritedSiret: siret}
}

func TestTemperatureRoundTrip(t *testing.T) {
	db := testDB(t)
	seedAdmin(t, db, siretA)
	seedAdmin(t, db, siretB)
	mgr := NewTemperatures(repo.NewTemperatureStore(db), repo.NewIdentityStore(db))
	ctx := context.Background()

	created, err := mgr.Create(ctx, adminOf(siretA), TemperatureInput{
		Kind:        "frigo",
		Location:    "cuisine",
		Temperature: 3.5,
		CapturedAt:  time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// свой арендатор видит запись ровно один раз
	own, err := mgr.List(ctx, adminOf(siretA), "", repo.ListFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(own) != 1 || own[0].UUID != created.UUID {
		t.Fatalf("own list = %d records", len(own))
	}

	// чужой — ноль раз
	foreign, err := mgr.List(ctx, adminOf(siretB), "", repo.ListFilter{})
	if err != nil {
		t.Fatalf("foreign list: %v", err)
	}
	if len(foreign) != 0 {
		t.Fatalf("foreign list leaked %d records", len(foreign))
	}
}

func TestTemperatureForeignUpdateMerged(t *testing.T) {
	db := testDB(t)
	seedAdmin(t, db, siretA)
	seedAdmin(t, db, siretB)
	mgr := NewTemperatures(repo.NewTemperatureStore(db), repo.NewIdentityStore(db))
	ctx := context.Background()

	created, err := mgr.Create(ctx, adminOf(siretB), TemperatureInput{
		Kind: "frigo", Location: "reserve", Temperature: 4,
		CapturedAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// admin A правит запись арендатора B: тот же ответ, что и
	// для несуществующего id — существование чужого не раскрываем
	loc := "sabotage"
	_, err = mgr.Update(ctx, adminOf(siretA), "", created.UUID, repo.TemperaturePatch{Location: &loc})
	if !errors.Is(err, faults.ErrNotFoundOrForbidden) {
		t.Fatalf("foreign update err = %v, want ErrNotFoundOrForbidden", err)
	}
	_, err = mgr.Update(ctx, adminOf(siretA), "", "00000000-0000-0000-0000-000000000000", repo.TemperaturePatch{Location: &loc})
	if !errors.Is(err, faults.ErrNotFoundOrForbidden) {
		t.Fatalf("missing update err = %v, want ErrNotFoundOrForbidden", err)
	}
}

func TestTemperatureEmployerRights(t *testing.T) {
	db := testDB(t)
	seedAdmin(t, db, siretA)
	mgr := NewTemperatures(repo.NewTemperatureStore(db), repo.NewIdentityStore(db))
	ctx := context.Background()
	emp := employerOf(siretA)

	created, err := mgr.Create(ctx, emp, TemperatureInput{
		Kind: "congelateur", Location: "cave", Temperature: -18,
		CapturedAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("employer create: %v", err)
	}

	// поправить можно
	note := "sonde recalibree"
	if _, err := mgr.Update(ctx, emp, "", created.UUID, repo.TemperaturePatch{Notes: &note}); err != nil {
		t.Fatalf("employer update: %v", err)
	}

	// удалить — нет, даже свою собственную запись
	if err := mgr.Delete(ctx, emp, "", created.UUID); !errors.Is(err, faults.ErrNotFoundOrForbidden) {
		t.Fatalf("employer delete err = %v, want ErrNotFoundOrForbidden", err)
	}

	// admin того же арендатора удалить может
	if err := mgr.Delete(ctx, adminOf(siretA), "", created.UUID); err != nil {
		t.Fatalf("admin delete: %v", err)
	}
}

func TestTemperatureOrphanEmployer(t *testing.T) {
	db := testDB(t)
	// admin-а с таким SIRET нет — сотрудник осиротел
	mgr := NewTemperatures(repo.NewTemperatureStore(db), repo.NewIdentityStore(db))
	_, err := mgr.Create(context.Background(), employerOf(siretA), TemperatureInput{
		Kind: "frigo", Location: "cuisine", Temperature: 2,
		CapturedAt: time.Now().UTC(),
	})
	if !errors.Is(err, faults.ErrIdentityIntegrity) {
		t.Fatalf("err = %v, want ErrIdentityIntegrity", err)
	}
}

func TestTemperatureSuperAdminNeedsExplicitSiret(t *testing.T) {
	db := testDB(t)
	seedAdmin(t, db, siretA)
	mgr := NewTemperatures(repo.NewTemperatureStore(db), repo.NewIdentityStore(db))
	ctx := context.Background()
	super := auth.Identity{UUID: "s", Role: models.RoleSuperAdmin}

	// без явного SIRET — валидация, не авторизация
	_, err := mgr.List(ctx, super, "", repo.ListFilter{})
	var v *faults.Validation
	if !errors.As(err, &v) {
		t.Fatalf("err = %v, want Validation", err)
	}

	// с явным — работает в указанном scope
	if _, err := mgr.Create(ctx, super, TemperatureInput{
		TargetSiret: siretA,
		Kind:        "frigo", Location: "bar", Temperature: 5,
		CapturedAt: time.Now().UTC(),
	}); err != nil {
		t.Fatalf("super create: %v", err)
	}
	out, err := mgr.List(ctx, super, siretA, repo.ListFilter{})
	if err != nil || len(out) != 1 {
		t.Fatalf("super list: %v, %d records", err, len(out))
	}
}

func TestEquipmentEmployerReadOnly(t *testing.T) {
	db := testDB(t)
	seedAdmin(t, db, siretA)
	mgr := NewEquipments(repo.NewEquipmentStore(db))
	ctx := context.Background()

	created, err := mgr.Create(ctx, adminOf(siretA), EquipmentInput{
		Name: "frigo bar", Kind: "frigo", TemperatureKind: "positive",
		MinTemp: 0, MaxTemp: 4,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	emp := employerOf(siretA)
	out, err := mgr.List(ctx, emp, "")
	if err != nil || len(out) != 1 {
		t.Fatalf("employer list: %v, %d", err, len(out))
	}

	if _, err := mgr.Create(ctx, emp, EquipmentInput{Name: "x", MaxTemp: 1}); !errors.Is(err, faults.ErrNotFoundOrForbidden) {
		t.Fatalf("employer create err = %v", err)
	}
	if err := mgr.Delete(ctx, emp, "", created.UUID); !errors.Is(err, faults.ErrNotFoundOrForbidden) {
		t.Fatalf("employer delete err = %v", err)
	}
}

func TestTemperatureUpdateKeepsCreateInvariants(t *testing.T) {
	db := testDB(t)
	seedAdmin(t, db, siretA)
	mgr := NewTemperatures(repo.NewTemperatureStore(db), repo.NewIdentityStore(db))
	ctx := context.Background()

	created, err := mgr.Create(ctx, adminOf(siretA), TemperatureInput{
		Kind: "frigo", Location: "cuisine", Temperature: 3,
		CapturedAt: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// обязательное поле нельзя затереть патчем
	empty := ""
	_, err = mgr.Update(ctx, adminOf(siretA), "", created.UUID, repo.TemperaturePatch{Location: &empty})
	var v *faults.Validation
	if !errors.As(err, &v) {
		t.Fatalf("empty location err = %v, want Validation", err)
	}
	_, err = mgr.Update(ctx, adminOf(siretA), "", created.UUID, repo.TemperaturePatch{Kind: &empty})
	if !errors.As(err, &v) {
		t.Fatalf("empty kind err = %v, want Validation", err)
	}
	zero := time.Time{}
	_, err = mgr.Update(ctx, adminOf(siretA), "", created.UUID, repo.TemperaturePatch{CapturedAt: &zero})
	if !errors.As(err, &v) {
		t.Fatalf("zero captured_at err = %v, want Validation", err)
	}

	// отклонённый патч ничего не меняет
	got, err := mgr.Get(ctx, adminOf(siretA), "", created.UUID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Location != "cuisine" || got.Kind != "frigo" {
		t.Fatalf("row changed by rejected patch: %+v", got)
	}
}

func TestEquipmentUpdateKeepsCreateInvariants(t *testing.T) {
	db := testDB(t)
	seedAdmin(t, db, siretA)
	mgr := NewEquipments(repo.NewEquipmentStore(db))
	ctx := context.Background()

	created, err := mgr.Create(ctx, adminOf(siretA), EquipmentInput{
		Name: "frigo bar", Kind: "frigo", TemperatureKind: "positive",
		MinTemp: 0, MaxTemp: 4,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	var v *faults.Validation

	// сдвиг одной границы не должен развернуть диапазон
	badMin := 10.0
	_, err = mgr.Update(ctx, adminOf(siretA), "", created.UUID, repo.EquipmentPatch{MinTemp: &badMin})
	if !errors.As(err, &v) {
		t.Fatalf("min above max err = %v, want Validation", err)
	}
	badMax := -1.0
	_, err = mgr.Update(ctx, adminOf(siretA), "", created.UUID, repo.EquipmentPatch{MaxTemp: &badMax})
	if !errors.As(err, &v) {
		t.Fatalf("max below min err = %v, want Validation", err)
	}
	empty := ""
	_, err = mgr.Update(ctx, adminOf(siretA), "", created.UUID, repo.EquipmentPatch{Name: &empty})
	if !errors.As(err, &v) {
		t.Fatalf("empty name err = %v, want Validation", err)
	}

	// согласованный патч обеих границ проходит
	newMin, newMax := -22.0, -18.0
	got, err := mgr.Update(ctx, adminOf(siretA), "", created.UUID, repo.EquipmentPatch{MinTemp: &newMin, MaxTemp: &newMax})
	if err != nil {
		t.Fatalf("valid patch: %v", err)
	}
	if got.MinTemp != -22 || got.MaxTemp != -18 {
		t.Fatalf("bounds = %v..%v", got.MinTemp, got.MaxTemp)
	}

	// отклонённые патчи имя не тронули
	if got.Name != "frigo bar" {
		t.Fatalf("name changed by rejected patch: %q", got.Name)
	}
}
