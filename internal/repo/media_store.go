package repo

import (
	"context"
	"errors"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"hygio/internal/faults"
	"hygio/internal/models"
)

type MediaStore struct{ db *gorm.DB }

func NewMediaStore(db *gorm.DB) *MediaStore { return &MediaStore{db: db} }

func (s *MediaStore) Create(ctx context.Context, m *models.MediaRecord) error {
	return s.db.WithContext(ctx).Create(m).Error
}

func (s *MediaStore) List(ctx context.Context, scope, kind string) ([]models.MediaRecord, error) {
	q := s.db.WithContext(ctx).Where("tenant_siret = ?", scope)
	if kind != "" {
		q = q.Where("kind = ?", kind)
	}
	var out []models.MediaRecord
	if err := q.Order("captured_at desc, id desc").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (s *MediaStore) GetScoped(ctx context.Context, scope, uuid string) (*models.MediaRecord, error) {
	var m models.MediaRecord
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

// MediaPatch — изменяемые описательные поля; ссылка на blob и байты
// не меняются (замена файла = новая запись).
type MediaPatch struct {
	Title       *string
	Description *string
	Metadata    map[string]any
}

func (s *MediaStore) Update(ctx context.Context, scope, uuid string, p MediaPatch) (*models.MediaRecord, error) {
	var m models.MediaRecord
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
		if p.Title != nil {
			m.Title = *p.Title
		}
		if p.Description != nil {
			m.Description = *p.Description
		}
		if p.Metadata != nil {
			m.Metadata = datatypes.JSONMap(p.Metadata)
		}
		return tx.Save(&m).Error
	})
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Delete удаляет строку и возвращает её — ссылка на blob нужна
// вызывающему для best-effort очистки хранилища.
func (s *MediaStore) Delete(ctx context.Context, scope, uuid string) (*models.MediaRecord, error) {
	var m models.MediaRecord
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
		return tx.Delete(&m).Error
	})
	if err != nil {
		return nil, err
	}
	return &m, nil
}
