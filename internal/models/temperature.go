package models

import (
	"time"

	"gorm.io/gorm"
)

// TemperatureRecord — замер температуры. Принадлежит арендатору (SIRET),
// автор фиксируется для истории, но права считаются по арендатору.
type TemperatureRecord struct {
	ID        uint           `gorm:"primaryKey" json:"-"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	UUID        string    `gorm:"uniqueIndex;size:36;not null" json:"id"`
	TenantSiret string    `gorm:"size:14;not null;index" json:"tenant_siret"`
	AuthorUUID  string    `gorm:"size:36;index" json:"author_id"`
	Kind        string    `gorm:"size:64;not null" json:"kind"`     // frigo|congelateur|livraison|...
	Location    string    `gorm:"size:255;not null" json:"location"`
	Temperature float64   `json:"temperature"`
	CapturedAt  time.Time `gorm:"index;not null" json:"captured_at"` // момент замера, задаёт клиент
	Notes       string    `gorm:"size:1024" json:"notes,omitempty"`
}
