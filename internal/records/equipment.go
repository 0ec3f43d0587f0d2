package records

import (
	"context"

	"github.com/google/uuid"

	"hygio/internal/auth"
	"hygio/internal/faults"
	"hygio/internal/models"
	"hygio/internal/repo"
)

type Equipments struct {
	store *repo.EquipmentStore
}

func NewEquipments(store *repo.EquipmentStore) *Equipments {
	return &Equipments{store: store}
}

// EquipmentInput — новое оборудование. Заводит только admin_client
// (или super_admin с явным SIRET); сотруднику движок отдаёт лишь
// чтение — его "мои локации".
type EquipmentInput struct {
	TargetSiret     string
	Name            string
	Kind            string
	TemperatureKind string
	MinTemp         float64
	MaxTemp         float64
}

func (e *Equipments) Create(ctx context.Context, actor auth.Identity, in EquipmentInput) (*models.Equipment, error) {
	if err := checkTargetSiret(actor, in.TargetSiret); err != nil {
		return nil, err
	}
	scope, err := requireScope(auth.Authorize(actor, auth.KindEquipment, auth.OpCreate, in.TargetSiret))
	if err != nil {
		return nil, err
	}

	v := &faults.Validation{}
	if in.Name == "" {
		v.Add("name", "required")
	}
	if in.MinTemp > in.MaxTemp {
		v.Add("min_temp", "must not exceed max_temp")
	}
	if len(v.Fields) > 0 {
		return nil, v
	}

	m := &models.Equipment{
		UUID:            uuid.NewString(),
		TenantSiret:     scope,
		Name:            in.Name,
		Kind:            in.Kind,
		TemperatureKind: in.TemperatureKind,
		MinTemp:         in.MinTemp,
		MaxTemp:         in.MaxTemp,
	}
	if err := e.store.Create(ctx, m); err != nil {
		return nil, faults.WrapDB("equipment create", err)
	}
	return m, nil
}

func (e *Equipments) List(ctx context.Context, actor auth.Identity, target string) ([]models.Equipment, error) {
	if err := checkTargetSiret(actor, target); err != nil {
		return nil, err
	}
	scope, err := requireScope(auth.Authorize(actor, auth.KindEquipment, auth.OpList, target))
	if err != nil {
		return nil, err
	}
	out, err := e.store.List(ctx, scope)
	if err != nil {
		return nil, faults.WrapDB("equipment list", err)
	}
	return out, nil
}

func (e *Equipments) Get(ctx context.Context, actor auth.Identity, target, id string) (*models.Equipment, error) {
	if err := checkTargetSiret(actor, target); err != nil {
		return nil, err
	}
	scope, err := requireScope(auth.Authorize(actor, auth.KindEquipment, auth.OpRead, target))
	if err != nil {
		return nil, err
	}
	m, err := e.store.GetScoped(ctx, scope, id)
	if err != nil {
		return nil, faults.WrapDB("equipment get", err)
	}
	return m, nil
}

func (e *Equipments) Update(ctx context.Context, actor auth.Identity, target, id string, p repo.EquipmentPatch) (*models.Equipment, error) {
	if err := checkTargetSiret(actor, target); err != nil {
		return nil, err
	}
	scope, err := requireScope(auth.Authorize(actor, auth.KindEquipment, auth.OpUpdate, target))
	if err != nil {
		return nil, err
	}

	// имя нельзя затереть патчем; границы температур сверяются
	// в хранилище на слитых значениях (патч может задать одну из двух)
	if p.Name != nil && *p.Name == "" {
		return nil, faults.NewValidation("name", "required")
	}

	m, err := e.store.Update(ctx, scope, id, p)
	if err != nil {
		return nil, faults.WrapDB("equipment update", err)
	}
	return m, nil
}

func (e *Equipments) Delete(ctx context.Context, actor auth.Identity, target, id string) error {
	if err := checkTargetSiret(actor, target); err != nil {
		return err
	}
	scope, err := requireScope(auth.Authorize(actor, auth.KindEquipment, auth.OpDelete, target))
	if err != nil {
		return err
	}
	return faults.WrapDB("equipment delete", e.store.Delete(ctx, scope, id))
}
