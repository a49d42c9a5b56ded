package entity

import "time"

// Tipos de movimiento de stock.
const (
	MovementKindSale       = "SALE"
	MovementKindRestock    = "RESTOCK"
	MovementKindAdjustment = "ADJUSTMENT"
	MovementKindImport     = "IMPORT" // carga masiva (CSV)
)

// StockMovement es una entrada inmutable del historial de stock: un cambio
// atómico con signo sobre el balance de un producto TRACKED.
// Invariante: ResultingStock == balance anterior + Delta.
// Solo lo crea el StockLedger; nunca se modifica ni se borra.
type StockMovement struct {
	ID             string
	ProductID      string
	Delta          int64 // positivo entrada, negativo salida
	ResultingStock int64 // snapshot del balance después de aplicar Delta
	PerformedBy    *string
	Reason         string
	Kind           string // SALE | RESTOCK | ADJUSTMENT | IMPORT
	Timestamp      time.Time
}

// DefaultMovementKind deduce el tipo por el signo del delta cuando el caller
// no lo especifica: RESTOCK para entradas, SALE para salidas.
func DefaultMovementKind(delta int64) string {
	if delta > 0 {
		return MovementKindRestock
	}
	return MovementKindSale
}
