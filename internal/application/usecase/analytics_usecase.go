package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/invorya/pos-sync-api/internal/application/dto"
	"github.com/invorya/pos-sync-api/internal/domain"
	"github.com/invorya/pos-sync-api/internal/domain/repository"
)

// AnalyticsUseCase reporting de ventas de solo lectura. Las agregaciones se
// resuelven en SQL; aquí solo se normalizan parámetros y se mapean DTOs.
type AnalyticsUseCase struct {
	analyticsRepo repository.AnalyticsRepository
	saleRepo      repository.SaleRepository
	productRepo   repository.ProductRepository
}

// NewAnalyticsUseCase construye el caso de uso.
func NewAnalyticsUseCase(
	analyticsRepo repository.AnalyticsRepository,
	saleRepo repository.SaleRepository,
	productRepo repository.ProductRepository,
) *AnalyticsUseCase {
	return &AnalyticsUseCase{analyticsRepo: analyticsRepo, saleRepo: saleRepo, productRepo: productRepo}
}

// SalesByDate resumen de un día: total, número de transacciones y ventas.
func (uc *AnalyticsUseCase) SalesByDate(ctx context.Context, day time.Time) (*dto.DailySalesResponse, error) {
	summary, err := uc.analyticsRepo.GetDailySales(ctx, day)
	if err != nil {
		return nil, err
	}
	sales, err := uc.saleRepo.ListByDate(day)
	if err != nil {
		return nil, err
	}
	out := &dto.DailySalesResponse{
		Date:         day.Format("2006-01-02"),
		Total:        summary.TotalAmount,
		Transactions: summary.Transactions,
		Sales:        make([]dto.SaleResponse, 0, len(sales)),
	}
	for _, s := range sales {
		out.Sales = append(out.Sales, *dto.ToSaleResponse(s))
	}
	return out, nil
}

// SalesTrend serie agregada por día, semana o mes.
func (uc *AnalyticsUseCase) SalesTrend(ctx context.Context, period string, since time.Time) ([]dto.TrendPointResponse, error) {
	period = normalizePeriod(period)
	buckets, err := uc.analyticsRepo.GetSalesTrend(ctx, period, since)
	if err != nil {
		return nil, err
	}
	out := make([]dto.TrendPointResponse, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, dto.TrendPointResponse{
			Date:        b.Bucket.Format("2006-01-02"),
			Count:       b.Count,
			TotalAmount: b.TotalAmount,
		})
	}
	return out, nil
}

// ProductSales agregados de ventas de un producto en un rango de fechas.
// Funciona igual para TRACKED y VOLATILE: los volátiles no tienen stock pero
// sus ventas sí se registran y agregan.
func (uc *AnalyticsUseCase) ProductSales(ctx context.Context, productID, period string, start, end time.Time) (*dto.ProductSalesResponse, error) {
	product, err := uc.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}

	period = normalizePeriod(period)
	res, err := uc.analyticsRepo.GetProductSales(ctx, productID, period, start, end)
	if err != nil {
		return nil, err
	}

	avg := decimal.Zero
	if res.TotalQuantity.GreaterThan(decimal.Zero) {
		avg = res.TotalRevenue.Div(res.TotalQuantity).Round(2)
	}
	out := &dto.ProductSalesResponse{
		Product:          dto.ToProductResponse(product),
		TotalQuantity:    res.TotalQuantity,
		TotalRevenue:     res.TotalRevenue,
		AverageUnitPrice: avg,
		PeriodBreakdown:  make([]dto.ProductPeriodPoint, 0, len(res.Breakdown)),
	}
	for _, p := range res.Breakdown {
		out.PeriodBreakdown = append(out.PeriodBreakdown, dto.ProductPeriodPoint{
			Date:     p.Bucket.Format("2006-01-02"),
			Quantity: p.Quantity,
			Revenue:  p.Revenue,
		})
	}
	return out, nil
}

func normalizePeriod(period string) string {
	switch period {
	case repository.PeriodDaily, repository.PeriodMonthly:
		return period
	default:
		return repository.PeriodWeekly
	}
}
