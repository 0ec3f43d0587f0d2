package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"hygio/internal/faults"
	"hygio/internal/models"
)

type AlertStore struct{ db *gorm.DB }

func NewAlertStore(db *gorm.DB) *AlertStore { return &AlertStore{db: db} }

// Create — только для watchdog-а; публичного пути создания алертов нет.
// Нарушение уникального (tenant_siret, day) приходит как
// gorm.ErrDuplicatedKey — вызывающий трактует его как "уже есть".
func (s *AlertStore) Create(ctx context.Context, m *models.Alert) error {
	return s.db.WithContext(ctx).Create(m).Error
}

func (s *AlertStore) ExistsForDay(ctx context.Context, siret, day string) (bool, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Alert{}).
		Where("tenant_siret = ? AND day = ?", siret, day).
		Count(&n).Error
	return n > 0, err
}

func (s *AlertStore) List(ctx context.Context, scope string) ([]models.Alert, error) {
	var out []models.Alert
	err := s.db.WithContext(ctx).
		Where("tenant_siret = ?", scope).
		Order("day desc, id desc").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

// MarkRead: перечитать, сверить арендатора, перевести new→read.
// Повторный markRead — no-op, возвращаем строку как есть.
func (s *AlertStore) MarkRead(ctx context.Context, scope, uuid string) (*models.Alert, error) {
	var m models.Alert
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
		if m.Status == models.AlertStatusRead {
			return nil
		}
		m.Status = models.AlertStatusRead
		return tx.Save(&m).Error
	})
	if err != nil {
		return nil, err
	}
	return &m, nil
}
