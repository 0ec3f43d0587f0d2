// Package records — менеджеры жизненного цикла ресурсов.
// Единый порядок: авторизация → валидация → хранилище. Scope из
// решения движка подставляется в каждый запрос принудительно,
// самоограничение вызывающего не предполагается.
package records

import (
	"context"

	"hygio/internal/auth"
	"hygio/internal/faults"
	"hygio/internal/models"
	"hygio/internal/repo"
)

// requireScope: запрет — та же ошибка, что и "не найдено" (не
// раскрываем существование чужого); пустой scope допустим только
// у super_admin и означает, что арендатор не был указан явно.
func requireScope(d auth.Decision) (string, error) {
	if !d.Allow {
		return "", faults.ErrNotFoundOrForbidden
	}
	if d.Scope == "" {
		return "", faults.NewValidation("siret", "required")
	}
	return d.Scope, nil
}

// checkTargetSiret: явный SIRET супер-админа валидируется до
// вычисления scope — он и есть исходное поле для scope.
func checkTargetSiret(actor auth.Identity, target string) error {
	if actor.Role == models.RoleSuperAdmin && target != "" && !auth.ValidSiret(target) {
		return faults.NewValidation("siret", "must be exactly 14 digits")
	}
	return nil
}

// checkEmployerTenant ловит осиротевшего сотрудника: унаследованный
// SIRET обязан вести на живого admin_client в момент записи,
// а не только при логине.
func checkEmployerTenant(ctx context.Context, idents *repo.IdentityStore, actor auth.Identity, scope string) error {
	if actor.Role != models.RoleEmployer {
		return nil
	}
	admin, err := idents.AdminBySiret(ctx, scope)
	if err != nil {
		return faults.WrapDB("tenant lookup", err)
	}
	if admin == nil {
		return faults.ErrIdentityIntegrity
	}
	return nil
}
