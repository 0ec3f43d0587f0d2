package models

import (
	"time"

	"gorm.io/gorm"
)

// Роли аккаунтов.
const (
	RoleSuperAdmin  = "super_admin"  // оператор платформы, вне арендаторов
	RoleAdminClient = "admin_client" // владелец заведения, свой SIRET
	RoleEmployer    = "employer"     // сотрудник, SIRET унаследован от admin_client
)

// Identity — аккаунт. SIRET-поля взаимоисключающие:
// OwnSiret только у admin_client, InheritedSiret только у employer.
// Указатели нужны, чтобы уникальный индекс по own_siret
// не срабатывал на пустых значениях (NULL не конфликтует).
type Identity struct {
	ID        uint           `gorm:"primaryKey" json:"-"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	UUID         string `gorm:"uniqueIndex;size:36;not null" json:"id"`
	Email        string `gorm:"uniqueIndex;size:255;not null" json:"email"`
	PasswordHash []byte `json:"-"`
	Role         string `gorm:"size:32;not null;index" json:"role"`

	OwnSiret       *string `gorm:"uniqueIndex;size:14" json:"own_siret,omitempty"`
	InheritedSiret *string `gorm:"index;size:14" json:"inherited_siret,omitempty"`
}
