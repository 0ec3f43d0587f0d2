package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"hygio/internal/models"
)

type IdentityStore struct{ db *gorm.DB }

func NewIdentityStore(db *gorm.DB) *IdentityStore { return &IdentityStore{db: db} }

func (s *IdentityStore) Create(ctx context.Context, m *models.Identity) error {
	return s.db.WithContext(ctx).Create(m).Error
}

// GetByEmail — nil, nil если аккаунта нет (отсутствие — не ошибка,
// на этом строится идемпотентная регистрация).
func (s *IdentityStore) GetByEmail(ctx context.Context, email string) (*models.Identity, error) {
	var m models.Identity
	err := s.db.WithContext(ctx).Where(&models.Identity{Email: email}).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *IdentityStore) GetByUUID(ctx context.Context, uuid string) (*models.Identity, error) {
	var m models.Identity
	err := s.db.WithContext(ctx).Where(&models.Identity{UUID: uuid}).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// AdminBySiret — живой admin_client с данным own_siret, либо nil.
// На этом держится проверка целостности унаследованного SIRET.
func (s *IdentityStore) AdminBySiret(ctx context.Context, siret string) (*models.Identity, error) {
	var m models.Identity
	err := s.db.WithContext(ctx).
		Where("role = ? AND own_siret = ?", models.RoleAdminClient, siret).
		First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// ListAdminSirets — все арендаторы, за которыми стоит admin_client.
// Именно этот список обходит ежедневная проверка.
func (s *IdentityStore) ListAdminSirets(ctx context.Context) ([]string, error) {
	var sirets []string
	err := s.db.WithContext(ctx).Model(&models.Identity{}).
		Where("role = ? AND own_siret IS NOT NULL", models.RoleAdminClient).
		Distinct().Order("own_siret asc").
		Pluck("own_siret", &sirets).Error
	if err != nil {
		return nil, err
	}
	return sirets, nil
}
