package entity

import "time"

// AlertPreference preferencias de notificación de alertas por usuario.
type AlertPreference struct {
	UserID            string
	NotifyEmail       bool
	NotifyInApp       bool
	LowStockThreshold int // umbral global sugerido para productos sin reorder level
	UpdatedAt         time.Time
}
