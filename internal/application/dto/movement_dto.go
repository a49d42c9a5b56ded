package dto

import (
	"time"

	"github.com/invorya/pos-sync-api/internal/domain/entity"
)

// AdjustStockRequest ajuste directo de stock (restock / corrección de operador).
// Delta debe ser distinto de cero. Esta ruta NO es idempotente: si el caller
// reintenta debe deduplicar por su cuenta (a diferencia de la ruta de ventas).
type AdjustStockRequest struct {
	ProductID string `json:"product_id"`
	Delta     int64  `json:"delta"`
	Reason    string `json:"reason"`
}

// AdjustStockResponse resultado de un ajuste. Applied=false significa que el
// ajuste fue un no-op (delta cero).
type AdjustStockResponse struct {
	Applied  bool              `json:"applied"`
	Movement *MovementResponse `json:"movement,omitempty"`
	Stock    *int64            `json:"stock,omitempty"`
}

// MovementResponse entrada del historial de movimientos.
type MovementResponse struct {
	ID             string    `json:"id"`
	ProductID      string    `json:"product_id"`
	Delta          int64     `json:"delta"`
	ResultingStock int64     `json:"resulting_stock"`
	PerformedBy    *string   `json:"performed_by,omitempty"`
	Reason         string    `json:"reason,omitempty"`
	Kind           string    `json:"movement_kind"`
	Timestamp      time.Time `json:"timestamp"`
}

// ToMovementResponse mapea la entidad al DTO de salida.
func ToMovementResponse(m *entity.StockMovement) *MovementResponse {
	if m == nil {
		return nil
	}
	return &MovementResponse{
		ID:             m.ID,
		ProductID:      m.ProductID,
		Delta:          m.Delta,
		ResultingStock: m.ResultingStock,
		PerformedBy:    m.PerformedBy,
		Reason:         m.Reason,
		Kind:           m.Kind,
		Timestamp:      m.Timestamp,
	}
}
