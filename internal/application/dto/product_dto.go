package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/invorya/pos-sync-api/internal/domain/entity"
)

// CreateProductRequest alta de producto en el catálogo.
type CreateProductRequest struct {
	SKU          string          `json:"sku"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	Unit         string          `json:"unit"`
	Tracking     string          `json:"tracking"` // TRACKED (default) | VOLATILE
	Stock        *int64          `json:"stock"`
	ReorderLevel *int64          `json:"reorder_level"`
}

// UpdateProductRequest edición parcial de catálogo: solo los campos
// presentes en el body se actualizan. El stock NO se edita por aquí: toda
// mutación de balance pasa por el ledger de movimientos.
type UpdateProductRequest struct {
	Name         string          `json:"name"`
	Description  *string         `json:"description"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	Unit         string          `json:"unit"`
	ReorderLevel *int64          `json:"reorder_level"`
}

// ProductResponse representación HTTP de un producto.
type ProductResponse struct {
	ID           string          `json:"id"`
	SKU          string          `json:"sku"`
	Name         string          `json:"name"`
	Description  string          `json:"description,omitempty"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	Unit         string          `json:"unit"`
	Tracking     string          `json:"tracking"`
	Stock        *int64          `json:"stock,omitempty"`
	ReorderLevel *int64          `json:"reorder_level,omitempty"`
	Active       bool            `json:"active"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// ToProductResponse mapea la entidad al DTO de salida.
func ToProductResponse(p *entity.Product) *ProductResponse {
	if p == nil {
		return nil
	}
	return &ProductResponse{
		ID:           p.ID,
		SKU:          p.SKU,
		Name:         p.Name,
		Description:  p.Description,
		UnitPrice:    p.UnitPrice,
		Unit:         p.Unit,
		Tracking:     p.Tracking,
		Stock:        p.Stock,
		ReorderLevel: p.ReorderLevel,
		Active:       p.Active,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}
