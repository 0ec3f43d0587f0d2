package auth

import "hygio/internal/models"

// Виды ресурсов, известные движку.
type Kind string

const (
	KindTemperature Kind = "temperature"
	KindEquipment   Kind = "equipment"
	KindMedia       Kind = "media"
	KindAlert       Kind = "alert"
)

// Операции над ресурсами.
type Op string

const (
	OpCreate Op = "create"
	OpRead   Op = "read"
	OpList   Op = "list"
	OpUpdate Op = "update" // для алертов это new→read
	OpDelete Op = "delete"
)

// Decision — результат авторизации. Scope — обязательный фильтр
// по tenant_siret для всех запросов; пустой Scope (только у
// super_admin) значит "арендатор задаётся явно на уровне вызова".
type Decision struct {
	Allow bool
	Scope string
}

var deny = Decision{}

// Authorize — чистая функция решения. target — арендатор, явно
// указанный клиентом (может быть пустым). Порядок правил фиксирован:
// super_admin → admin_client → employer → запрет по умолчанию.
//
// Ключевое: admin_client-у движок НЕ верит на слово — чужой target
// отклоняется, а Scope всегда перезаписывается его собственным SIRET
// (закрывает confused-deputy через подмену siret в запросе).
func Authorize(id Identity, kind Kind, op Op, target string) Decision {
	// алерты создаёт только watchdog, мимо движка; публичного
	// create у них нет ни для какой роли
	if kind == KindAlert && op == OpCreate {
		return deny
	}

	switch id.Role {
	case models.RoleSuperAdmin:
		return Decision{Allow: true, Scope: target}

	case models.RoleAdminClient:
		if target != "" && target != id.OwnSiret {
			return deny
		}
		return Decision{Allow: true, Scope: id.OwnSiret}

	case models.RoleEmployer:
		if target != "" && target != id.InheritedSiret {
			return deny
		}
		if !employerAllowed(kind, op) {
			return deny
		}
		return Decision{Allow: true, Scope: id.InheritedSiret}
	}

	return deny
}

// Матрица прав сотрудника. Удаление замеров запрещено намеренно
// (защита от заметания следов), оборудование — только чтение.
func employerAllowed(kind Kind, op Op) bool {
	switch kind {
	case KindTemperature, KindMedia:
		switch op {
		case OpCreate, OpRead, OpList, OpUpdate:
			return true
		}
	case KindEquipment:
		switch op {
		case OpRead, OpList:
			return true
		}
	case KindAlert:
		switch op {
		case OpRead, OpList, OpUpdate:
			return true
		}
	}
	return false
}
