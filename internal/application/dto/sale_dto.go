package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/invorya/pos-sync-api/internal/domain/entity"
)

// InlineProductData datos mínimos para crear un producto al vuelo desde una
// línea de venta (conveniencia para terminales offline con catálogo viejo).
type InlineProductData struct {
	SKU       string          `json:"sku"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Unit      string          `json:"unit"`
	Tracking  string          `json:"tracking"` // default TRACKED
}

// SaleLineRequest una línea de la venta enviada por la terminal.
type SaleLineRequest struct {
	ProductID string             `json:"product_id"`
	Product   *InlineProductData `json:"product,omitempty"`
	Quantity  decimal.Decimal    `json:"quantity"`
	UnitPrice *decimal.Decimal   `json:"unit_price"` // obligatorio para VOLATILE; default catálogo para TRACKED
}

// SubmitSaleRequest petición de sincronización de una venta (online u offline).
// ExternalID es la clave de idempotencia: reenviar la misma venta cualquier
// número de veces es seguro. Cualquier total enviado por el cliente se ignora.
type SubmitSaleRequest struct {
	ExternalID      string            `json:"external_id"`
	DeviceTag       string            `json:"device_tag"`
	ClientTimestamp *time.Time        `json:"client_timestamp"`
	Lines           []SaleLineRequest `json:"lines"`
}

// SaleLineResponse línea de venta en la respuesta.
type SaleLineResponse struct {
	ProductID string          `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// SaleResponse representación HTTP de una venta sincronizada.
type SaleResponse struct {
	ID          string             `json:"id"`
	ExternalID  string             `json:"external_id"`
	SoldBy      string             `json:"sold_by"`
	DeviceTag   string             `json:"device_tag"`
	TotalAmount decimal.Decimal    `json:"total_amount"`
	Timestamp   time.Time          `json:"timestamp"`
	SyncedAt    *time.Time         `json:"synced_at"`
	Lines       []SaleLineResponse `json:"lines"`
}

// ToSaleResponse mapea la entidad al DTO de salida.
func ToSaleResponse(s *entity.Sale) *SaleResponse {
	if s == nil {
		return nil
	}
	lines := make([]SaleLineResponse, 0, len(s.Lines))
	for _, l := range s.Lines {
		lines = append(lines, SaleLineResponse{
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			Subtotal:  l.Subtotal,
		})
	}
	return &SaleResponse{
		ID:          s.ID,
		ExternalID:  s.ExternalID,
		SoldBy:      s.SoldBy,
		DeviceTag:   s.DeviceTag,
		TotalAmount: s.TotalAmount,
		Timestamp:   s.Timestamp,
		SyncedAt:    s.SyncedAt,
		Lines:       lines,
	}
}
