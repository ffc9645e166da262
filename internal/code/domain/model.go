package domain

import (
	"strings"
	"time"
)

// VisualStatus is the status projected onto a code for display. It normally
// mirrors the bound order's status; a free code shows LIBERADO.
type VisualStatus string

const (
	VisualLiberado  VisualStatus = "LIBERADO"
	VisualAberto    VisualStatus = "ABERTO"
	VisualEmPreparo VisualStatus = "EM_PREPARO"
	VisualPronto    VisualStatus = "PRONTO"
	VisualEntregue  VisualStatus = "ENTREGUE"
	VisualCancelado VisualStatus = "CANCELADO"
)

var allowedVisualStatuses = map[VisualStatus]struct{}{
	VisualLiberado:  {},
	VisualAberto:    {},
	VisualEmPreparo: {},
	VisualPronto:    {},
	VisualEntregue:  {},
	VisualCancelado: {},
}

// NormalizeVisualStatus coerces arbitrary stored values into the closed set.
// Anything unknown reads as LIBERADO. Applied at the storage boundary so the
// rest of the code never sees a stray value.
func NormalizeVisualStatus(value string) VisualStatus {
	status := VisualStatus(strings.ToUpper(strings.TrimSpace(value)))
	if _, ok := allowedVisualStatuses[status]; ok {
		return status
	}
	return VisualLiberado
}

// CodeRecord is a reusable table/tab code. One code cycles through many
// orders over time; in_use guards against two live orders sharing it.
type CodeRecord struct {
	ID           int64        `gorm:"primaryKey" json:"id"`
	Code         string       `gorm:"type:text;not null;uniqueIndex:idx_tab_codes_code" json:"code"`
	Active       bool         `gorm:"not null;default:true" json:"active"`
	InUse        bool         `gorm:"column:in_use;not null;default:false" json:"in_use"`
	VisualStatus VisualStatus `gorm:"column:visual_status;type:text;not null;default:'LIBERADO'" json:"visual_status"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (CodeRecord) TableName() string { return "tab_codes" }

// NormalizeCode canonicalizes user input: trimmed, uppercased.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
