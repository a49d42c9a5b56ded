package repository

import "github.com/invorya/pos-sync-api/internal/domain/entity"

// StockMovementRepository es el puerto del historial de stock (MovementLog).
// Append-only: solo inserta y consulta; nunca actualiza ni borra.
type StockMovementRepository interface {
	Create(movement *entity.StockMovement) error
	// ListByProduct devuelve movimientos de un producto en orden
	// cronológico inverso (auditoría).
	ListByProduct(productID string, limit, offset int) ([]*entity.StockMovement, error)
	List(limit, offset int) ([]*entity.StockMovement, error)
}
