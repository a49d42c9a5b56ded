package dto

import "github.com/shopspring/decimal"

// DailySalesResponse resumen de ventas de un día.
type DailySalesResponse struct {
	Date         string          `json:"date"`
	Total        decimal.Decimal `json:"total"`
	Transactions int             `json:"transactions"`
	Sales        []SaleResponse  `json:"sales"`
}

// TrendPointResponse un punto de la serie de tendencia.
type TrendPointResponse struct {
	Date        string          `json:"date"`
	Count       int             `json:"count"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// ProductPeriodPoint desglose por periodo de ventas de un producto.
type ProductPeriodPoint struct {
	Date     string          `json:"date"`
	Quantity decimal.Decimal `json:"quantity"`
	Revenue  decimal.Decimal `json:"revenue"`
}

// ProductSalesResponse agregados de ventas de un producto (TRACKED o VOLATILE).
type ProductSalesResponse struct {
	Product          *ProductResponse     `json:"product"`
	TotalQuantity    decimal.Decimal      `json:"total_quantity_sold"`
	TotalRevenue     decimal.Decimal      `json:"total_revenue"`
	AverageUnitPrice decimal.Decimal      `json:"average_unit_price"`
	PeriodBreakdown  []ProductPeriodPoint `json:"period_breakdown"`
}
