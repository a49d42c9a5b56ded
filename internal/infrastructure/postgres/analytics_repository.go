package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/invorya/pos-sync-api/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo consultas de agregación de ventas. Solo lectura, siempre
// sobre el pool (nunca participa en transacciones de escritura).
type AnalyticsRepo struct {
	pool *pgxpool.Pool
}

// NewAnalyticsRepository construye el adaptador de reporting.
func NewAnalyticsRepository(pool *pgxpool.Pool) *AnalyticsRepo {
	return &AnalyticsRepo{pool: pool}
}

// GetDailySales total y número de transacciones sincronizadas de un día.
func (r *AnalyticsRepo) GetDailySales(ctx context.Context, day time.Time) (*repository.DailySalesResult, error) {
	query := `
		SELECT COUNT(*), COALESCE(SUM(total_amount), 0)
		FROM sales
		WHERE synced_at IS NOT NULL AND timestamp::date = $1::date`
	res := &repository.DailySalesResult{Date: day}
	err := r.pool.QueryRow(ctx, query, day).Scan(&res.Transactions, &res.TotalAmount)
	if err != nil {
		return nil, fmt.Errorf("daily sales: %w", err)
	}
	return res, nil
}

// GetSalesTrend serie de ventas agrupada por periodo desde una fecha.
func (r *AnalyticsRepo) GetSalesTrend(ctx context.Context, period string, since time.Time) ([]repository.TrendBucketResult, error) {
	trunc, err := truncUnit(period)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`
		SELECT date_trunc('%s', timestamp) AS bucket, COUNT(*), COALESCE(SUM(total_amount), 0)
		FROM sales
		WHERE synced_at IS NOT NULL AND timestamp >= $1
		GROUP BY bucket
		ORDER BY bucket`, trunc)
	rows, err := r.pool.Query(ctx, query, since)
	if err != nil {
		return nil, fmt.Errorf("sales trend: %w", err)
	}
	defer rows.Close()

	var out []repository.TrendBucketResult
	for rows.Next() {
		var b repository.TrendBucketResult
		if err := rows.Scan(&b.Bucket, &b.Count, &b.TotalAmount); err != nil {
			return nil, fmt.Errorf("scan trend bucket: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// GetProductSales agregados y desglose por periodo de un producto en un rango.
func (r *AnalyticsRepo) GetProductSales(ctx context.Context, productID, period string, start, end time.Time) (*repository.ProductSalesResult, error) {
	trunc, err := truncUnit(period)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`
		SELECT date_trunc('%s', s.timestamp) AS bucket,
		       COALESCE(SUM(l.quantity), 0), COALESCE(SUM(l.subtotal), 0)
		FROM sale_lines l
		JOIN sales s ON s.id = l.sale_id
		WHERE s.synced_at IS NOT NULL AND l.product_id = $1
		  AND s.timestamp >= $2 AND s.timestamp < $3
		GROUP BY bucket
		ORDER BY bucket`, trunc)
	rows, err := r.pool.Query(ctx, query, productID, start, end)
	if err != nil {
		return nil, fmt.Errorf("product sales: %w", err)
	}
	defer rows.Close()

	res := &repository.ProductSalesResult{
		TotalQuantity: decimal.Zero,
		TotalRevenue:  decimal.Zero,
	}
	for rows.Next() {
		var p repository.ProductPeriodResult
		if err := rows.Scan(&p.Bucket, &p.Quantity, &p.Revenue); err != nil {
			return nil, fmt.Errorf("scan product bucket: %w", err)
		}
		res.TotalQuantity = res.TotalQuantity.Add(p.Quantity)
		res.TotalRevenue = res.TotalRevenue.Add(p.Revenue)
		res.Breakdown = append(res.Breakdown, p)
	}
	return res, rows.Err()
}

// truncUnit mapea el periodo de negocio a la unidad de date_trunc. Lista
// cerrada: nunca interpola entrada del cliente en el SQL.
func truncUnit(period string) (string, error) {
	switch period {
	case repository.PeriodDaily:
		return "day", nil
	case repository.PeriodWeekly:
		return "week", nil
	case repository.PeriodMonthly:
		return "month", nil
	default:
		return "", fmt.Errorf("periodo no soportado: %q", period)
	}
}
