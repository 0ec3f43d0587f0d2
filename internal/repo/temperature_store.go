package repo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"hygio/internal/faults"
	"hygio/internal/models"
)

type TemperatureStore struct{ db *gorm.DB }

func NewTemperatureStore(db *gorm.DB) *TemperatureStore { return &TemperatureStore{db: db} }

func (s *TemperatureStore) Create(ctx context.Context, m *models.TemperatureRecord) error {
	return s.db.WithContext(ctx).Create(m).Error
}

// ListFilter — необязательные сужения списка поверх обязательного scope.
type ListFilter struct {
	Kind     string
	Location string
	From, To *time.Time // по captured_at
}

// List всегда фильтрует по scope — это не опция.
func (s *TemperatureStore) List(ctx context.Context, scope string, f ListFilter) ([]models.TemperatureRecord, error) {
	q := s.db.WithContext(ctx).Where("tenant_siret = ?", scope)
	if f.Kind != "" {
		q = q.Where("kind = ?", f.Kind)
	}
	if f.Location != "" {
		q = q.Where("location = ?", f.Location)
	}
	if f.From != nil {
		q = q.Where("captured_at >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("captured_at < ?", *f.To)
	}
	var out []models.TemperatureRecord
	if err := q.Order("captured_at desc, id desc").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (s *TemperatureStore) GetScoped(ctx context.Context, scope, uuid string) (*models.TemperatureRecord, error) {
	var m models.TemperatureRecord
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

// TemperaturePatch — изменяемые поля замера.
type TemperaturePatch struct {
	Kind        *string
	Location    *string
	Temperature *float64
	CapturedAt  *time.Time
	Notes       *string
}

// Update: в одной транзакции перечитываем строку, сверяем арендатора
// и только потом пишем. Несовпадение/отсутствие — одна и та же ошибка.
func (s *TemperatureStore) Update(ctx context.Context, scope, uuid string, p TemperaturePatch) (*models.TemperatureRecord, error) {
	var m models.TemperatureRecord
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
		if p.Kind != nil {
			m.Kind = *p.Kind
		}
		if p.Location != nil {
			m.Location = *p.Location
		}
		if p.Temperature != nil {
			m.Temperature = *p.Temperature
		}
		if p.CapturedAt != nil {
			m.CapturedAt = *p.CapturedAt
		}
		if p.Notes != nil {
			m.Notes = *p.Notes
		}
		return tx.Save(&m).Error
	})
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *TemperatureStore) Delete(ctx context.Context, scope, uuid string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var m models.TemperatureRecord
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

// CountInWindow — число замеров арендатора в [from, to).
// Используется watchdog-ом; отдельный короткий запрос на арендатора,
// соединение не держится на весь обход.
func (s *TemperatureStore) CountInWindow(ctx context.Context, siret string, from, to time.Time) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.TemperatureRecord{}).
		Where("tenant_siret = ? AND captured_at >= ? AND captured_at < ?", siret, from, to).
		Count(&n).Error
	return n, err
}
