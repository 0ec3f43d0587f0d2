package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"hygio/internal/faults"
	"hygio/internal/models"
)

type EquipmentStore struct{ db *gorm.DB }

func NewEquipmentStore(db *gorm.DB) *EquipmentStore { return &EquipmentStore{db: db} }

func (s *EquipmentStore) Create(ctx context.Context, m *models.Equipment) error {
	return s.db.WithContext(ctx).Create(m).Error
}

func (s *EquipmentStore) List(ctx context.Context, scope string) ([]models.Equipment, error) {
	var out []models.Equipment
	err := s.db.WithContext(ctx).
		Where("tenant_siret = ?", scope).
		Order("name asc, id asc").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *EquipmentStore) GetScoped(ctx context.Context, scope, uuid string) (*models.Equipment, error) {
	var m models.Equipment
	err := s.db.WithContext(ctx).
		Where("uuid = ? AND tenant_siret = ?", uuid, scope).
		First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, faults.ErrNotFoundOrForbidden
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// EquipmentPatch — изменяемые поля оборудования.
type EquipmentPatch struct {
	Name            *string
	Kind            *string
	TemperatureKind *string
	MinTemp         *float64
	MaxTemp         *float64
}

func (s *EquipmentStore) Update(ctx context.Context, scope, uuid string, p EquipmentPatch) (*models.Equipment, error) {
	var m models.Equipment
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("uuid = ?", uuid).First(&m).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return faults.ErrNotFoundOrForbidden
			}
			return err
		}
		if m.TenantSiret != scope {
			return faults.ErrNotFoundOrForbidden
		}
		if p.Name != nil {
			m.Name = *p.Name
		}
		if p.Kind != nil {
			m.Kind = *p.Kind
		}
		if p.TemperatureKind != nil {
			m.TemperatureKind = *p.TemperatureKind
		}
		if p.MinTemp != nil {
			m.MinTemp = *p.MinTemp
		}
		if p.MaxTemp != nil {
			m.MaxTemp = *p.MaxTemp
		}
		// инвариант min<=max проверяется на слитых значениях:
		// патч мог сдвинуть только одну из границ
		if m.MinTemp > m.MaxTemp {
			return faults.NewValidation("min_temp", "must not exceed max_temp")
		}
		return tx.Save(&m).Error
	})
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *EquipmentStore) Delete(ctx context.Context, scope, uuid string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var m models.Equipment
		if err := tx.Where("uuid = ?", uuid).First(&m).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return faults.ErrNotFoundOrForbidden
			}
			return err
		}
		if m.TenantSiret != scope {
			return faults.ErrNotFoundOrForbidden
		}
		return tx.Delete(&m).Error
	})
}
