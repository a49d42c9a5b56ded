package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrInsufficientStock  = errors.New("stock insuficiente")
	// ErrLedgerUnavailable: el almacenamiento o el lock de fila no pudo
	// adquirirse o confirmarse. Seguro de reintentar en la ruta de ventas
	// (idempotencia por external_id); el ajuste directo requiere dedup del caller.
	ErrLedgerUnavailable = errors.New("ledger no disponible")
)
