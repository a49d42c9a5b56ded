package sales

import (
	"context"

	"github.com/invorya/pos-sync-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD con los
// repositorios que necesita la sincronización de ventas. Toda la petición
// (venta, líneas, ajustes de stock, synced_at) es una unidad atómica:
// cualquier fallo revierte todo, nunca queda una venta parcial.
type TxRunner interface {
	RunSale(ctx context.Context, fn func(
		saleRepo repository.SaleRepository,
		movRepo repository.StockMovementRepository,
		productRepo repository.ProductRepository,
	) error) error
}
