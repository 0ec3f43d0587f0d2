package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Виды медиа-записей.
const (
	MediaKindPhoto        = "photo"
	MediaKindTraceability = "traceability"
)

// MediaRecord — фото/этикетка прослеживаемости. Байты лежат во внешнем
// blob-хранилище, здесь только непрозрачная ссылка BlobRef.
type MediaRecord struct {
	ID        uint           `gorm:"primaryKey" json:"-"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	UUID        string            `gorm:"uniqueIndex;size:36;not null" json:"id"`
	TenantSiret string            `gorm:"size:14;not null;index" json:"tenant_siret"`
	AuthorUUID  string            `gorm:"size:36;index" json:"author_id"`
	AuthorRole  string            `gorm:"size:32" json:"author_role"`
	Kind        string            `gorm:"size:32;not null" json:"kind"` // photo|traceability
	BlobRef     string            `gorm:"size:512;not null" json:"blob_ref"`
	Title       string            `gorm:"size:255" json:"title"`
	Description string            `gorm:"size:1024" json:"description,omitempty"`
	ContentType string            `gorm:"size:128" json:"content_type"`
	CapturedAt  time.Time         `gorm:"index" json:"captured_at"`
	Metadata    datatypes.JSONMap `json:"metadata,omitempty"`
}
