// Package auth — модель ролей, вычисление эффективного SIRET
// и чистый движок авторизации.
package auth

import "hygio/internal/models"

// Identity — принципал запроса, восстановленный из токена.
// Не путать с models.Identity (строка в БД).
type Identity struct {
	UUID           string
	Role           string
	OwnSiret       string // только admin_client
	InheritedSiret string // только employer
}

// ResolveEffectiveSiret возвращает арендатора, от имени которого
// действует принципал. Для super_admin арендатора нет —
// тот обязан указывать его явно в каждом запросе.
func ResolveEffectiveSiret(id Identity) (siret string, scoped bool) {
	switch id.Role {
	case models.RoleAdminClient:
		return id.OwnSiret, true
	case models.RoleEmployer:
		return id.InheritedSiret, true
	default:
		return "", false
	}
}

// ValidSiret — ровно 14 цифр ASCII.
func ValidSiret(s string) bool {
	if len(s) != 14 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// Principal строит принципала из строки БД.
func Principal(m *models.Identity) Identity {
	id := Identity{UUID: m.UUID, Role: m.Role}
	if m.OwnSiret != nil {
		id.OwnSiret = *m.OwnSiret
	}
	if m.InheritedSiret != nil {
		id.InheritedSiret = *m.InheritedSiret
	}
	return id
}
