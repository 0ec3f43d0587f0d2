package models

import "time"

// Статусы алерта: new — начальный, read — терминальный.
const (
	AlertStatusNew  = "new"
	AlertStatusRead = "read"
)

// Alert — "за день нет ни одного замера". Создаётся только watchdog-ом.
// Уникальный индекс (tenant_siret, day) делает вставку идемпотентной:
// повторный прогон за тот же день упирается в индекс, а не плодит дубли.
type Alert struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	UUID        string `gorm:"uniqueIndex;size:36;not null" json:"id"`
	TenantSiret string `gorm:"size:14;not null;uniqueIndex:uniq_alert_tenant_day" json:"tenant_siret"`
	Day         string `gorm:"size:10;not null;uniqueIndex:uniq_alert_tenant_day" json:"day"` // YYYY-MM-DD
	Message     string `gorm:"size:512" json:"message"`
	Status      string `gorm:"size:16;not null" json:"status"` // new|read
}
