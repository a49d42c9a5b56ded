package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/invorya/pos-sync-api/internal/domain"
	"github.com/invorya/pos-sync-api/internal/domain/entity"
	"github.com/invorya/pos-sync-api/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

const saleColumns = `id, sold_by, external_id, device_tag, client_timestamp, total_amount, timestamp, synced_at`

// SaleRepo persistencia de ventas sobre PostgreSQL (usable con pool o tx).
// Las ventas son append-only: una vez fijado synced_at no hay UPDATE posible
// fuera de Finalize.
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

// Create inserta la cabecera de la venta. Una violación del índice único de
// external_id se mapea a ErrDuplicate para que el motor de sincronización
// resuelva la carrera devolviendo la venta ganadora.
func (r *SaleRepo) Create(sale *entity.Sale) error {
	query := `
		INSERT INTO sales (` + saleColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		sale.ID, sale.SoldBy, sale.ExternalID, sale.DeviceTag, sale.ClientTimestamp,
		sale.TotalAmount, sale.Timestamp, sale.SyncedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert sale: %w", err)
	}
	return nil
}

// CreateLine inserta una línea de la venta. Una violación de FK significa
// que el producto desapareció entre la validación y el insert: se mapea a
// ErrNotFound para que el motor revierta la venta completa.
func (r *SaleRepo) CreateLine(line *entity.SaleLine) error {
	query := `
		INSERT INTO sale_lines (id, sale_id, product_id, quantity, unit_price, subtotal)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query,
		line.ID, line.SaleID, line.ProductID, line.Quantity, line.UnitPrice, line.Subtotal,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("insert sale line: %w", err)
	}
	return nil
}

// Finalize fija el total calculado en servidor y synced_at: la última
// escritura de la transacción de la venta.
func (r *SaleRepo) Finalize(saleID string, total decimal.Decimal, syncedAt time.Time) error {
	cmd, err := r.q.Exec(context.Background(),
		`UPDATE sales SET total_amount = $2, synced_at = $3 WHERE id = $1 AND synced_at IS NULL`,
		saleID, total, syncedAt,
	)
	if err != nil {
		return fmt.Errorf("finalize sale: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrConflict // ya sincronizada: las ventas son inmutables
	}
	return nil
}

// GetByID obtiene una venta con sus líneas.
func (r *SaleRepo) GetByID(id string) (*entity.Sale, error) {
	return r.getOne(`SELECT `+saleColumns+` FROM sales WHERE id = $1`, id)
}

// GetByExternalID resuelve la clave de idempotencia; nil si no existe.
func (r *SaleRepo) GetByExternalID(externalID string) (*entity.Sale, error) {
	return r.getOne(`SELECT `+saleColumns+` FROM sales WHERE external_id = $1`, externalID)
}

// ListBySeller ventas de un vendedor, más reciente primero.
func (r *SaleRepo) ListBySeller(sellerID string, limit, offset int) ([]*entity.Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM sales WHERE sold_by = $1 ORDER BY timestamp DESC LIMIT $2 OFFSET $3`
	return r.list(query, sellerID, limit, offset)
}

// ListByDate ventas recibidas en un día calendario.
func (r *SaleRepo) ListByDate(day time.Time) ([]*entity.Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM sales WHERE timestamp::date = $1::date ORDER BY timestamp DESC`
	return r.list(query, day)
}

func (r *SaleRepo) getOne(query string, args ...any) (*entity.Sale, error) {
	var s entity.Sale
	err := r.q.QueryRow(context.Background(), query, args...).Scan(
		&s.ID, &s.SoldBy, &s.ExternalID, &s.DeviceTag, &s.ClientTimestamp,
		&s.TotalAmount, &s.Timestamp, &s.SyncedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	if err := r.loadLines(&s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SaleRepo) list(query string, args ...any) ([]*entity.Sale, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()

	var list []*entity.Sale
	for rows.Next() {
		var s entity.Sale
		if err := rows.Scan(
			&s.ID, &s.SoldBy, &s.ExternalID, &s.DeviceTag, &s.ClientTimestamp,
			&s.TotalAmount, &s.Timestamp, &s.SyncedAt,
		); err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		list = append(list, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, s := range list {
		if err := r.loadLines(s); err != nil {
			return nil, err
		}
	}
	return list, nil
}

func (r *SaleRepo) loadLines(sale *entity.Sale) error {
	rows, err := r.q.Query(context.Background(),
		`SELECT id, sale_id, product_id, quantity, unit_price, subtotal
		 FROM sale_lines WHERE sale_id = $1 ORDER BY id`, sale.ID)
	if err != nil {
		return fmt.Errorf("list sale lines: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var l entity.SaleLine
		if err := rows.Scan(&l.ID, &l.SaleID, &l.ProductID, &l.Quantity, &l.UnitPrice, &l.Subtotal); err != nil {
			return fmt.Errorf("scan sale line: %w", err)
		}
		sale.Lines = append(sale.Lines, l)
	}
	return rows.Err()
}
