package entity

import "time"

// Severidades de alerta de stock bajo.
const (
	SeverityInfo     = "info"
	SeverityWarning  = "warning"
	SeverityCritical = "critical"
)

// LowStockAlert es el estado de alerta por producto. Invariante: a lo sumo
// una alerta NO reconocida por producto (índice parcial único); las
// reconocidas quedan como historial y un nuevo ciclo puede crear otra.
type LowStockAlert struct {
	ID           string
	ProductID    string
	Severity     string // info | warning | critical
	Message      string
	TriggeredAt  time.Time
	Acknowledged bool
	DaysLowStock int // ciclos consecutivos en bajo stock sobre la misma alerta
}
