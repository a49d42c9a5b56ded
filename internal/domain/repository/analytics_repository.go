package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Periodos de agregación para tendencias de venta.
const (
	PeriodDaily   = "daily"
	PeriodWeekly  = "weekly"
	PeriodMonthly = "monthly"
)

// DailySalesResult resumen de ventas de un día.
type DailySalesResult struct {
	Date         time.Time
	Transactions int
	TotalAmount  decimal.Decimal
}

// TrendBucketResult un punto de la serie de tendencia (agrupado por periodo).
type TrendBucketResult struct {
	Bucket      time.Time
	Count       int
	TotalAmount decimal.Decimal
}

// ProductPeriodResult desglose por periodo de ventas de un producto.
type ProductPeriodResult struct {
	Bucket   time.Time
	Quantity decimal.Decimal
	Revenue  decimal.Decimal
}

// ProductSalesResult agregados de ventas de un producto en un rango.
// Funciona igual para productos TRACKED y VOLATILE: los volátiles no tienen
// stock pero sus ventas sí se registran y agregan.
type ProductSalesResult struct {
	TotalQuantity decimal.Decimal
	TotalRevenue  decimal.Decimal
	Breakdown     []ProductPeriodResult
}

// AnalyticsRepository consultas de solo lectura para reporting de ventas.
type AnalyticsRepository interface {
	GetDailySales(ctx context.Context, day time.Time) (*DailySalesResult, error)
	GetSalesTrend(ctx context.Context, period string, since time.Time) ([]TrendBucketResult, error)
	GetProductSales(ctx context.Context, productID, period string, start, end time.Time) (*ProductSalesResult, error)
}
