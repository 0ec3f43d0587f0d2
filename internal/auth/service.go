package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"hygio/internal/faults"
	"hygio/internal/models"
	"hygio/internal/repo"
)

// Service — регистрация и вход.
type Service struct {
	idents *repo.IdentityStore
	secret []byte
	ttl    time.Duration
}

func NewService(idents *repo.IdentityStore, secret []byte, ttl time.Duration) *Service {
	return &Service{idents: idents, secret: secret, ttl: ttl}
}

// RegisterAdmin создаёт admin_client со своим SIRET.
// Повторная регистрация на тот же email НЕ ошибка — возвращается
// существующий профиль. Сознательный компромисс ради ретраев
// клиента: наружу не видно, занят email или нет.
func (s *Service) RegisterAdmin(ctx context.Context, email, password, siret string) (*models.Identity, error) {
	if err := validateCredentials(email, password); err != nil {
		return nil, err
	}
	if !ValidSiret(siret) {
		return nil, faults.NewValidation("siret", "must be exactly 14 digits")
	}

	email = normalizeEmail(email)
	existing, err := s.idents.GetByEmail(ctx, email)
	if err != nil {
		return nil, faults.WrapDB("identity lookup", err)
	}
	if existing != nil {
		return existing, nil
	}

	// SIRET глобально уникален среди admin_client
	taken, err := s.idents.AdminBySiret(ctx, siret)
	if err != nil {
		return nil, faults.WrapDB("siret lookup", err)
	}
	if taken != nil {
		return nil, faults.ErrConflict
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, faults.WrapDB("password hash", err)
	}
	m := &models.Identity{
		UUID:         uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		Role:         models.RoleAdminClient,
		OwnSiret:     &siret,
	}
	if err := s.idents.Create(ctx, m); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// гонка: либо email успел появиться (вернём его),
			// либо SIRET заняли — тогда это конфликт
			if again, lerr := s.idents.GetByEmail(ctx, email); lerr == nil && again != nil {
				return again, nil
			}
			return nil, faults.ErrConflict
		}
		return nil, faults.WrapDB("identity create", err)
	}
	return m, nil
}

// RegisterEmployee создаёт сотрудника. SIRET наследуется от
// admin_client в момент создания и больше не меняется
// (перепривязка сотрудника — вне этого ядра).
func (s *Service) RegisterEmployee(ctx context.Context, actor Identity, email, password, targetSiret string) (*models.Identity, error) {
	var siret string
	switch actor.Role {
	case models.RoleAdminClient:
		if targetSiret != "" && targetSiret != actor.OwnSiret {
			return nil, faults.ErrNotFoundOrForbidden
		}
		siret = actor.OwnSiret
	case models.RoleSuperAdmin:
		if targetSiret == "" {
			return nil, faults.NewValidation("siret", "required for super_admin")
		}
		siret = targetSiret
	default:
		return nil, faults.ErrNotFoundOrForbidden
	}
	if err := validateCredentials(email, password); err != nil {
		return nil, err
	}

	// SIRET должен вести на живого admin_client
	admin, err := s.idents.AdminBySiret(ctx, siret)
	if err != nil {
		return nil, faults.WrapDB("siret lookup", err)
	}
	if admin == nil {
		return nil, faults.ErrIdentityIntegrity
	}

	email = normalizeEmail(email)
	existing, err := s.idents.GetByEmail(ctx, email)
	if err != nil {
		return nil, faults.WrapDB("identity lookup", err)
	}
	if existing != nil {
		return existing, nil
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, faults.WrapDB("password hash", err)
	}
	m := &models.Identity{
		UUID:           uuid.NewString(),
		Email:          email,
		PasswordHash:   hash,
		Role:           models.RoleEmployer,
		InheritedSiret: &siret,
	}
	if err := s.idents.Create(ctx, m); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			if again, lerr := s.idents.GetByEmail(ctx, email); lerr == nil && again != nil {
				return again, nil
			}
			return nil, faults.ErrConflict
		}
		return nil, faults.WrapDB("identity create", err)
	}
	return m, nil
}

// Login проверяет пароль и выдаёт токен. Любой отказ — одна и та же
// ошибка аутентификации, без уточнений.
func (s *Service) Login(ctx context.Context, email, password string) (string, *models.Identity, error) {
	m, err := s.idents.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return "", nil, faults.WrapDB("identity lookup", err)
	}
	if m == nil || !VerifyPassword(password, m.PasswordHash) {
		return "", nil, faults.ErrAuthentication
	}
	token, err := IssueToken(s.secret, Principal(m), s.ttl)
	if err != nil {
		return "", nil, faults.WrapDB("token issue", err)
	}
	return token, m, nil
}

func validateCredentials(email, password string) error {
	v := &faults.Validation{}
	if !strings.Contains(email, "@") {
		v.Add("email", "malformed")
	}
	if len(password) < 8 {
		v.Add("password", "must be at least 8 characters")
	}
	if len(v.Fields) > 0 {
		return v
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
