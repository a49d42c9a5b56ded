package repository

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/invorya/pos-sync-api/internal/domain/entity"
)

// SaleRepository es el puerto de persistencia para ventas (append-only).
type SaleRepository interface {
	Create(sale *entity.Sale) error
	CreateLine(line *entity.SaleLine) error
	// Finalize fija el total calculado en servidor y SyncedAt como última
	// escritura dentro de la transacción de la venta.
	Finalize(saleID string, total decimal.Decimal, syncedAt time.Time) error
	GetByID(id string) (*entity.Sale, error)
	// GetByExternalID resuelve la clave de idempotencia; nil si no existe.
	GetByExternalID(externalID string) (*entity.Sale, error)
	ListBySeller(sellerID string, limit, offset int) ([]*entity.Sale, error)
	ListByDate(day time.Time) ([]*entity.Sale, error)
}
