package repository

import "github.com/invorya/pos-sync-api/internal/domain/entity"

// AlertRepository es el puerto de persistencia para LowStockAlert.
// La unicidad "una sola alerta no reconocida por producto" la garantiza el
// índice parcial único en la tabla; el repo solo la expone.
type AlertRepository interface {
	Create(alert *entity.LowStockAlert) error
	Update(alert *entity.LowStockAlert) error
	// GetUnacknowledged devuelve la alerta activa del producto o nil.
	GetUnacknowledged(productID string) (*entity.LowStockAlert, error)
	// DeleteUnacknowledged borra la alerta activa si existe (idempotente).
	DeleteUnacknowledged(productID string) error
	ListActiveByOwner(ownerID string) ([]*entity.LowStockAlert, error)
	ListHistoryByOwner(ownerID string, limit, offset int) ([]*entity.LowStockAlert, error)
	// Acknowledge marca como reconocidas las alertas indicadas que pertenezcan
	// a productos del owner; devuelve cuántas se actualizaron.
	Acknowledge(ids []string, ownerID string) (int, error)
}

// AlertPreferenceRepository preferencias de notificación por usuario.
type AlertPreferenceRepository interface {
	Get(userID string) (*entity.AlertPreference, error)
	Upsert(pref *entity.AlertPreference) error
}
