package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/invorya/pos-sync-api/internal/domain"
	"github.com/invorya/pos-sync-api/internal/domain/entity"
	"github.com/invorya/pos-sync-api/internal/domain/repository"
)

var _ repository.AlertRepository = (*AlertRepo)(nil)
var _ repository.AlertPreferenceRepository = (*AlertPreferenceRepo)(nil)

const alertColumns = `id, product_id, severity, message, triggered_at, acknowledged, days_low_stock`

// AlertRepo persistencia de LowStockAlert sobre PostgreSQL. El índice parcial
// único sobre (product_id) WHERE NOT acknowledged hace imposible tener dos
// alertas activas del mismo producto aunque dos ventas concurrentes lleguen
// al mismo tiempo.
type AlertRepo struct {
	q Querier
}

// NewAlertRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAlertRepository(q Querier) *AlertRepo {
	return &AlertRepo{q: q}
}

// Create inserta una alerta nueva (no reconocida).
func (r *AlertRepo) Create(alert *entity.LowStockAlert) error {
	query := `
		INSERT INTO low_stock_alerts (` + alertColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(context.Background(), query,
		alert.ID, alert.ProductID, alert.Severity, alert.Message,
		alert.TriggeredAt, alert.Acknowledged, alert.DaysLowStock,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert alert: %w", err)
	}
	return nil
}

// Update actualiza la alerta existente en el mismo registro (escalada).
func (r *AlertRepo) Update(alert *entity.LowStockAlert) error {
	query := `
		UPDATE low_stock_alerts
		SET severity = $2, message = $3, triggered_at = $4, days_low_stock = $5
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		alert.ID, alert.Severity, alert.Message, alert.TriggeredAt, alert.DaysLowStock,
	)
	if err != nil {
		return fmt.Errorf("update alert: %w", err)
	}
	return nil
}

// GetUnacknowledged devuelve la alerta activa del producto o nil.
func (r *AlertRepo) GetUnacknowledged(productID string) (*entity.LowStockAlert, error) {
	query := `SELECT ` + alertColumns + ` FROM low_stock_alerts WHERE product_id = $1 AND NOT acknowledged`
	var a entity.LowStockAlert
	err := r.q.QueryRow(context.Background(), query, productID).Scan(
		&a.ID, &a.ProductID, &a.Severity, &a.Message, &a.TriggeredAt, &a.Acknowledged, &a.DaysLowStock,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get unacknowledged alert: %w", err)
	}
	return &a, nil
}

// DeleteUnacknowledged borra la alerta activa si existe (idempotente).
func (r *AlertRepo) DeleteUnacknowledged(productID string) error {
	_, err := r.q.Exec(context.Background(),
		`DELETE FROM low_stock_alerts WHERE product_id = $1 AND NOT acknowledged`, productID)
	if err != nil {
		return fmt.Errorf("delete unacknowledged alert: %w", err)
	}
	return nil
}

// ListActiveByOwner alertas activas de los productos del owner, más reciente primero.
func (r *AlertRepo) ListActiveByOwner(ownerID string) ([]*entity.LowStockAlert, error) {
	query := `
		SELECT a.id, a.product_id, a.severity, a.message, a.triggered_at, a.acknowledged, a.days_low_stock
		FROM low_stock_alerts a
		JOIN products p ON p.id = a.product_id
		WHERE p.owner_id = $1 AND NOT a.acknowledged
		ORDER BY a.triggered_at DESC`
	return r.scanMany(query, ownerID)
}

// ListHistoryByOwner historial completo de alertas del owner.
func (r *AlertRepo) ListHistoryByOwner(ownerID string, limit, offset int) ([]*entity.LowStockAlert, error) {
	query := `
		SELECT a.id, a.product_id, a.severity, a.message, a.triggered_at, a.acknowledged, a.days_low_stock
		FROM low_stock_alerts a
		JOIN products p ON p.id = a.product_id
		WHERE p.owner_id = $1
		ORDER BY a.triggered_at DESC LIMIT $2 OFFSET $3`
	return r.scanMany(query, ownerID, limit, offset)
}

// Acknowledge marca como reconocidas las alertas del owner; devuelve cuántas.
func (r *AlertRepo) Acknowledge(ids []string, ownerID string) (int, error) {
	cmd, err := r.q.Exec(context.Background(), `
		UPDATE low_stock_alerts a
		SET acknowledged = true
		FROM products p
		WHERE p.id = a.product_id AND a.id = ANY($1) AND p.owner_id = $2 AND NOT a.acknowledged`,
		ids, ownerID,
	)
	if err != nil {
		return 0, fmt.Errorf("acknowledge alerts: %w", err)
	}
	return int(cmd.RowsAffected()), nil
}

func (r *AlertRepo) scanMany(query string, args ...any) ([]*entity.LowStockAlert, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list alerts: %w", err)
	}
	defer rows.Close()

	var list []*entity.LowStockAlert
	for rows.Next() {
		var a entity.LowStockAlert
		if err := rows.Scan(&a.ID, &a.ProductID, &a.Severity, &a.Message, &a.TriggeredAt, &a.Acknowledged, &a.DaysLowStock); err != nil {
			return nil, fmt.Errorf("scan alert: %w", err)
		}
		list = append(list, &a)
	}
	return list, rows.Err()
}

// AlertPreferenceRepo preferencias de notificación por usuario.
type AlertPreferenceRepo struct {
	q Querier
}

// NewAlertPreferenceRepository construye el adaptador.
func NewAlertPreferenceRepository(q Querier) *AlertPreferenceRepo {
	return &AlertPreferenceRepo{q: q}
}

// Get preferencias del usuario; nil si nunca guardó.
func (r *AlertPreferenceRepo) Get(userID string) (*entity.AlertPreference, error) {
	query := `
		SELECT user_id, notify_email, notify_inapp, low_stock_threshold, updated_at
		FROM alert_preferences WHERE user_id = $1`
	var p entity.AlertPreference
	err := r.q.QueryRow(context.Background(), query, userID).Scan(
		&p.UserID, &p.NotifyEmail, &p.NotifyInApp, &p.LowStockThreshold, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get alert preferences: %w", err)
	}
	return &p, nil
}

// Upsert inserta o actualiza las preferencias.
func (r *AlertPreferenceRepo) Upsert(pref *entity.AlertPreference) error {
	query := `
		INSERT INTO alert_preferences (user_id, notify_email, notify_inapp, low_stock_threshold, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id)
		DO UPDATE SET notify_email = EXCLUDED.notify_email, notify_inapp = EXCLUDED.notify_inapp,
			low_stock_threshold = EXCLUDED.low_stock_threshold, updated_at = EXCLUDED.updated_at`
	_, err := r.q.Exec(context.Background(), query,
		pref.UserID, pref.NotifyEmail, pref.NotifyInApp, pref.LowStockThreshold, pref.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert alert preferences: %w", err)
	}
	return nil
}
