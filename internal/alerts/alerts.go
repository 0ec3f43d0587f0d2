// Package alerts — чтение и квитирование алертов. Создание алертов
// здесь отсутствует намеренно: единственный пишущий — watchdog.
package alerts

import (
	"context"

	"hygio/internal/auth"
	"hygio/internal/faults"
	"hygio/internal/models"
	"hygio/internal/repo"
)

type Manager struct {
	store *repo.AlertStore
}

func New(store *repo.AlertStore) *Manager { return &Manager{store: store} }

func (m *Manager) List(ctx context.Context, actor auth.Identity, target string) ([]models.Alert, error) {
	scope, err := scopeFor(actor, auth.OpList, target)
	if err != nil {
		return nil, err
	}
	out, err := m.store.List(ctx, scope)
	if err != nil {
		return nil, faults.WrapDB("alert list", err)
	}
	return out, nil
}

// MarkRead — единственный переход конечного автомата алерта
// (new → read). Сверка арендатора та же, что у update-путей
// остальных ресурсов.
func (m *Manager) MarkRead(ctx context.Context, actor auth.Identity, target, id string) (*models.Alert, error) {
	scope, err := scopeFor(actor, auth.OpUpdate, target)
	if err != nil {
		return nil, err
	}
	a, err := m.store.MarkRead(ctx, scope, id)
	if err != nil {
		return nil, faults.WrapDB("alert mark read", err)
	}
	return a, nil
}

func scopeFor(actor auth.Identity, op auth.Op, target string) (string, error) {
	if actor.Role == models.RoleSuperAdmin && target != "" && !auth.ValidSiret(target) {
		return "", faults.NewValidation("siret", "must be exactly 14 digits")
	}
	d := auth.Authorize(actor, auth.KindAlert, op, target)
	if !d.Allow {
		return "", faults.ErrNotFoundOrForbidden
	}
	if d.Scope == "" {
		return "", faults.NewValidation("siret", "required")
	}
	return d.Scope, nil
}
