package inventory

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/invorya/pos-sync-api/internal/domain/entity"
	"github.com/invorya/pos-sync-api/internal/domain/repository"
	"github.com/invorya/pos-sync-api/pkg/logger"
)

// Transiciones posibles del estado de alerta de un producto.
const (
	TransitionNone     = "none"     // sin umbral o producto volátil
	TransitionCreated  = "created"  // entró en bajo stock, nueva alerta
	TransitionUpdated  = "updated"  // escalada/desescalada sobre la misma alerta
	TransitionResolved = "resolved" // balance por encima del umbral
)

// AlertTransition describe el cambio de estado producido por Recompute.
type AlertTransition struct {
	Kind  string
	Alert *entity.LowStockAlert // nil para none/resolved
}

// AlertEngine deriva el estado de alerta de bajo stock a partir del balance.
// Es una máquina de estados por producto {sin alerta, alerta(severidad)};
// la transición terminal (reconocer) es externa.
type AlertEngine struct {
	alerts repository.AlertRepository
	log    *logger.Logger
}

// NewAlertEngine construye el motor de alertas.
func NewAlertEngine(alerts repository.AlertRepository, log *logger.Logger) *AlertEngine {
	return &AlertEngine{alerts: alerts, log: log}
}

// Recompute evalúa el estado de alerta del producto tras un cambio de balance.
// Se invoca después del commit del ajuste, nunca con el lock de fila tomado.
// Reglas:
//   - VOLATILE o sin umbral: no-op.
//   - balance > umbral: borra la alerta no reconocida si existe (idempotente).
//   - balance <= umbral: severidad por ratio balance/max(umbral,1); crea la
//     alerta si no hay una activa, o la actualiza en el mismo registro
//     (escalada: severidad/mensaje, DaysLowStock++, TriggeredAt). Nunca hay
//     dos alertas no reconocidas para el mismo producto.
func (e *AlertEngine) Recompute(product *entity.Product) (*AlertTransition, error) {
	st, ok := product.StockState().(entity.TrackedStock)
	if !ok || st.ReorderLevel == nil {
		return &AlertTransition{Kind: TransitionNone}, nil
	}

	threshold := *st.ReorderLevel
	if st.Balance > threshold {
		if err := e.alerts.DeleteUnacknowledged(product.ID); err != nil {
			return nil, err
		}
		e.log.Debug().Str("product_id", product.ID).Msg("alertas: estado resuelto")
		return &AlertTransition{Kind: TransitionResolved}, nil
	}

	severity := severityFor(st.Balance, threshold)
	message := fmt.Sprintf("stock bajo (%s): quedan %d unidades de %s", severity, st.Balance, product.Name)

	existing, err := e.alerts.GetUnacknowledged(product.ID)
	if err != nil {
		return nil, err
	}

	if existing == nil {
		alert := &entity.LowStockAlert{
			ID:           uuid.New().String(),
			ProductID:    product.ID,
			Severity:     severity,
			Message:      message,
			TriggeredAt:  time.Now(),
			DaysLowStock: 0,
		}
		if err := e.alerts.Create(alert); err != nil {
			return nil, err
		}
		e.log.Info().
			Str("product_id", product.ID).
			Str("severity", severity).
			Int64("balance", st.Balance).
			Msg("alertas: alerta creada")
		return &AlertTransition{Kind: TransitionCreated, Alert: alert}, nil
	}

	existing.Severity = severity
	existing.Message = message
	existing.DaysLowStock++
	existing.TriggeredAt = time.Now()
	if err := e.alerts.Update(existing); err != nil {
		return nil, err
	}
	e.log.Info().
		Str("product_id", product.ID).
		Str("severity", severity).
		Int("days_low_stock", existing.DaysLowStock).
		Msg("alertas: alerta actualizada")
	return &AlertTransition{Kind: TransitionUpdated, Alert: existing}, nil
}

// severityFor calcula la severidad por el ratio balance/umbral.
// Balances negativos dan ratio <= 0 y por tanto siempre critical.
func severityFor(balance, threshold int64) string {
	if threshold < 1 {
		threshold = 1
	}
	ratio := float64(balance) / float64(threshold)
	switch {
	case ratio <= 0.2:
		return entity.SeverityCritical
	case ratio <= 0.5:
		return entity.SeverityWarning
	default:
		return entity.SeverityInfo
	}
}
