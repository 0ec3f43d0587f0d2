package models

import (
	"time"

	"gorm.io/gorm"
)

// Equipment — оборудование заведения (холодильник, морозильник...).
// Управляет только admin_client; сотрудники видят список read-only.
type Equipment struct {
	ID        uint           `gorm:"primaryKey" json:"-"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	UUID            string  `gorm:"uniqueIndex;size:36;not null" json:"id"`
	TenantSiret     string  `gorm:"size:14;not null;index" json:"tenant_siret"`
	Name            string  `gorm:"size:255;not null" json:"name"`
	Kind            string  `gorm:"size:64" json:"kind"`
	TemperatureKind string  `gorm:"size:64" json:"temperature_kind"` // positive|negative
	MinTemp         float64 `json:"min_temp"`
	MaxTemp         float64 `json:"max_temp"`
}
