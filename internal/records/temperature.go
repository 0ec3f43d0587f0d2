package records

import (
	"context"
	"time"

	"github.com/google/uuid"

	"hygio/internal/auth"
	"hygio/internal/faults"
	"hygio/internal/models"
	"hygio/internal/repo"
)

type Temperatures struct {
	store  *repo.TemperatureStore
	idents *repo.IdentityStore
}

func NewTemperatures(store *repo.TemperatureStore, idents *repo.IdentityStore) *Temperatures {
	return &Temperatures{store: store, idents: idents}
}

// TemperatureInput — данные нового замера. TargetSiret указывает
// только super_admin; остальным scope назначает движок.
type TemperatureInput struct {
	TargetSiret string
	Kind        string
	Location    string
	Temperature float64
	CapturedAt  time.Time
	Notes       string
}

func (t *Temperatures) Create(ctx context.Context, actor auth.Identity, in TemperatureInput) (*models.TemperatureRecord, error) {
	if err := checkTargetSiret(actor, in.TargetSiret); err != nil {
		return nil, err
	}
	scope, err := requireScope(auth.Authorize(actor, auth.KindTemperature, auth.OpCreate, in.TargetSiret))
	if err != nil {
		return nil, err
	}
	if err := checkEmployerTenant(ctx, t.idents, actor, scope); err != nil {
		return nil, err
	}

	v := &faults.Validation{}
	if in.Kind == "" {
		v.Add("kind", "required")
	}
	if in.Location == "" {
		v.Add("location", "required")
	}
	if in.CapturedAt.IsZero() {
		v.Add("captured_at", "required")
	}
	if len(v.Fields) > 0 {
		return nil, v
	}

	m := &models.TemperatureRecord{
		UUID:        uuid.NewString(),
		TenantSiret: scope,
		AuthorUUID:  actor.UUID,
		Kind:        in.Kind,
		Location:    in.Location,
		Temperature: in.Temperature,
		CapturedAt:  in.CapturedAt.UTC(),
		Notes:       in.Notes,
	}
	if err := t.store.Create(ctx, m); err != nil {
		return nil, faults.WrapDB("temperature create", err)
	}
	return m, nil
}

func (t *Temperatures) List(ctx context.Context, actor auth.Identity, target string, f repo.ListFilter) ([]models.TemperatureRecord, error) {
	if err := checkTargetSiret(actor, target); err != nil {
		return nil, err
	}
	scope, err := requireScope(auth.Authorize(actor, auth.KindTemperature, auth.OpList, target))
	if err != nil {
		return nil, err
	}
	out, err := t.store.List(ctx, scope, f)
	if err != nil {
		return nil, faults.WrapDB("temperature list", err)
	}
	return out, nil
}

func (t *Temperatures) Get(ctx context.Context, actor auth.Identity, target, id string) (*models.TemperatureRecord, error) {
	if err := checkTargetSiret(actor, target); err != nil {
		return nil, err
	}
	scope, err := requireScope(auth.Authorize(actor, auth.KindTemperature, auth.OpRead, target))
	if err != nil {
		return nil, err
	}
	m, err := t.store.GetScoped(ctx, scope, id)
	if err != nil {
		return nil, faults.WrapDB("temperature get", err)
	}
	return m, nil
}

func (t *Temperatures) Update(ctx context.Context, actor auth.Identity, target, id string, p repo.TemperaturePatch) (*models.TemperatureRecord, error) {
	if err := checkTargetSiret(actor, target); err != nil {
		return nil, err
	}
	scope, err := requireScope(auth.Authorize(actor, auth.KindTemperature, auth.OpUpdate, target))
	if err != nil {
		return nil, err
	}

	// патч не может снять инварианты создания: обязательное поле
	// нельзя затереть пустым значением
	v := &faults.Validation{}
	if p.Kind != nil && *p.Kind == "" {
		v.Add("kind", "required")
	}
	if p.Location != nil && *p.Location == "" {
		v.Add("location", "required")
	}
	if p.CapturedAt != nil && p.CapturedAt.IsZero() {
		v.Add("captured_at", "required")
	}
	if len(v.Fields) > 0 {
		return nil, v
	}

	m, err := t.store.Update(ctx, scope, id, p)
	if err != nil {
		return nil, faults.WrapDB("temperature update", err)
	}
	return m, nil
}

// Delete: движок пропустит только admin_client и super_admin;
// сотрудник может создавать и править, но не удалять — след
// не должен затираться.
func (t *Temperatures) Delete(ctx context.Context, actor auth.Identity, target, id string) error {
	if err := checkTargetSiret(actor, target); err != nil {
		return err
	}
	scope, err := requireScope(auth.Authorize(actor, auth.KindTemperature, auth.OpDelete, target))
	if err != nil {
		return err
	}
	return faults.WrapDB("temperature delete", t.store.Delete(ctx, scope, id))
}
