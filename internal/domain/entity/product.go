package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Modos de seguimiento de stock para Product.
const (
	TrackingTracked  = "TRACKED"  // stock persistido, descontado por ventas
	TrackingVolatile = "VOLATILE" // solo precio; el ledger nunca toca su stock
)

// Product representa un artículo del catálogo.
// UnitPrice es precio fijo para TRACKED y precio sugerido/último usado para VOLATILE.
// Stock y ReorderLevel solo tienen significado cuando Tracking == TRACKED.
type Product struct {
	ID           string
	OwnerID      *string // usuario dueño del producto (nullable)
	SKU          string  // único global
	Name         string
	Description  string
	UnitPrice    decimal.Decimal
	Unit         string // "unit", "kg", "lt", ...
	Tracking     string // TRACKED | VOLATILE
	Stock        *int64 // balance con signo; nil = ausente (se trata como 0 bajo lock)
	ReorderLevel *int64 // umbral de reorden; nil = sin alertas
	Active       bool   // soft-deactivate: nunca se borra mientras existan movimientos
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// StockState es el tipo etiquetado de dos variantes sobre el modo de stock.
// El ledger y el motor de alertas hacen switch exhaustivo sobre él en lugar
// de consultar un booleano en cada punto de decisión.
type StockState interface {
	isStockState()
}

// TrackedStock variante con balance persistido.
type TrackedStock struct {
	Balance      int64  // ausente => 0
	ReorderLevel *int64 // nil = sin umbral definido
}

// VolatileStock variante sin stock persistido (solo precio).
type VolatileStock struct{}

func (TrackedStock) isStockState()  {}
func (VolatileStock) isStockState() {}

// StockState devuelve la variante según el modo de seguimiento del producto.
func (p *Product) StockState() StockState {
	if p.Tracking == TrackingVolatile {
		return VolatileStock{}
	}
	var balance int64
	if p.Stock != nil {
		balance = *p.Stock
	}
	return TrackedStock{Balance: balance, ReorderLevel: p.ReorderLevel}
}

// IsTracked indica si el producto lleva stock persistido.
func (p *Product) IsTracked() bool {
	_, ok := p.StockState().(TrackedStock)
	return ok
}
