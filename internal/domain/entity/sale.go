package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale es el registro append-only de un checkout. Una vez fijado SyncedAt la
// venta y sus líneas son inmutables.
// ExternalID es la clave de idempotencia provista por el cliente (única);
// si el cliente no la envía, el servidor sintetiza una.
type Sale struct {
	ID              string
	SoldBy          string
	ExternalID      string // clave de idempotencia (UUID), única
	DeviceTag       string // terminal de origen; default "web"
	ClientTimestamp *time.Time // hora declarada por el cliente, solo informativa
	TotalAmount     decimal.Decimal // siempre recalculado en servidor
	Timestamp       time.Time  // recepción en servidor
	SyncedAt        *time.Time // marcador de completitud: efectos de stock aplicados
	Lines           []SaleLine
}

// SaleLine es un ítem dentro de una venta. Subtotal = Quantity × UnitPrice,
// calculado en servidor. Se crea una vez, nunca se actualiza.
type SaleLine struct {
	ID        string
	SaleID    string
	ProductID string
	Quantity  decimal.Decimal // fraccionable (productos volátiles / a granel)
	UnitPrice decimal.Decimal // snapshot al momento de la venta
	Subtotal  decimal.Decimal
}
