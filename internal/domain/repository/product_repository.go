package repository

import (
	"github.com/shopspring/decimal"

	"github.com/invorya/pos-sync-api/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	GetBySKU(sku string) (*entity.Product, error)
	// GetForUpdate bloquea la fila del producto (SELECT FOR UPDATE) para la
	// secuencia read-modify-write-append del ledger. Solo tiene sentido
	// dentro de una transacción.
	GetForUpdate(id string) (*entity.Product, error)
	Update(product *entity.Product) error
	// UpdateStock escribe solo el balance (usado por el StockLedger bajo lock).
	UpdateStock(productID string, stock int64) error
	// UpdateSuggestedPrice actualiza el precio sugerido/último usado de un
	// producto VOLATILE. No toca stock.
	UpdateSuggestedPrice(productID string, price decimal.Decimal) error
	List(limit, offset int) ([]*entity.Product, error)
	ListByOwner(ownerID string, limit, offset int) ([]*entity.Product, error)
	// Deactivate marca el producto como inactivo. Nunca se borra físicamente
	// mientras existan movimientos que lo referencien.
	Deactivate(id string) error
}
