package dto

import (
	"time"

	"github.com/invorya/pos-sync-api/internal/domain/entity"
)

// AlertResponse alerta de bajo stock.
type AlertResponse struct {
	ID           string    `json:"id"`
	ProductID    string    `json:"product_id"`
	Severity     string    `json:"severity"`
	Message      string    `json:"message"`
	TriggeredAt  time.Time `json:"triggered_at"`
	Acknowledged bool      `json:"acknowledged"`
	DaysLowStock int       `json:"days_low_stock"`
}

// AlertListResponse listado con contadores para la campana de la UI.
type AlertListResponse struct {
	Alerts        []AlertResponse `json:"alerts"`
	UnreadCount   int             `json:"unread_count"`
	CriticalCount int             `json:"critical_count"`
}

// AcknowledgeRequest reconocimiento masivo de alertas.
type AcknowledgeRequest struct {
	AlertIDs []string `json:"alert_ids"`
}

// AlertPreferenceRequest edición de preferencias de notificación.
type AlertPreferenceRequest struct {
	NotifyEmail       *bool `json:"notify_email"`
	NotifyInApp       *bool `json:"notify_inapp"`
	LowStockThreshold *int  `json:"low_stock_threshold"`
}

// AlertPreferenceResponse preferencias de notificación del usuario.
type AlertPreferenceResponse struct {
	NotifyEmail       bool `json:"notify_email"`
	NotifyInApp       bool `json:"notify_inapp"`
	LowStockThreshold int  `json:"low_stock_threshold"`
}

// ToAlertResponse mapea la entidad al DTO de salida.
func ToAlertResponse(a *entity.LowStockAlert) AlertResponse {
	return AlertResponse{
		ID:           a.ID,
		ProductID:    a.ProductID,
		Severity:     a.Severity,
		Message:      a.Message,
		TriggeredAt:  a.TriggeredAt,
		Acknowledged: a.Acknowledged,
		DaysLowStock: a.DaysLowStock,
	}
}
