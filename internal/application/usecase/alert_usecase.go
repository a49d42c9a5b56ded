package usecase

import (
	"time"

	"github.com/invorya/pos-sync-api/internal/application/dto"
	"github.com/invorya/pos-sync-api/internal/domain"
	"github.com/invorya/pos-sync-api/internal/domain/entity"
	"github.com/invorya/pos-sync-api/internal/domain/repository"
)

// AlertUseCase consultas y acciones de operador sobre alertas de bajo stock.
// La creación/actualización/borrado de alertas es exclusiva del AlertEngine;
// aquí solo se listan, reconocen y se gestionan preferencias.
type AlertUseCase struct {
	alertRepo repository.AlertRepository
	prefRepo  repository.AlertPreferenceRepository
}

// NewAlertUseCase construye el caso de uso.
func NewAlertUseCase(alertRepo repository.AlertRepository, prefRepo repository.AlertPreferenceRepository) *AlertUseCase {
	return &AlertUseCase{alertRepo: alertRepo, prefRepo: prefRepo}
}

// ListActive alertas no reconocidas de los productos del usuario, con
// contadores para la campana de la UI.
func (uc *AlertUseCase) ListActive(ownerID string) (*dto.AlertListResponse, error) {
	alerts, err := uc.alertRepo.ListActiveByOwner(ownerID)
	if err != nil {
		return nil, err
	}
	return buildAlertList(alerts), nil
}

// ListHistory historial completo de alertas (reconocidas incluidas).
func (uc *AlertUseCase) ListHistory(ownerID string, limit, offset int) (*dto.AlertListResponse, error) {
	alerts, err := uc.alertRepo.ListHistoryByOwner(ownerID, limit, offset)
	if err != nil {
		return nil, err
	}
	return buildAlertList(alerts), nil
}

// Acknowledge reconoce alertas en lote; devuelve cuántas se actualizaron.
// Reconocer cierra el ciclo: el próximo evento de bajo stock crea una alerta nueva.
func (uc *AlertUseCase) Acknowledge(ownerID string, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, domain.ErrInvalidInput
	}
	return uc.alertRepo.Acknowledge(ids, ownerID)
}

// GetPreferences devuelve las preferencias del usuario, con defaults si nunca guardó.
func (uc *AlertUseCase) GetPreferences(userID string) (*dto.AlertPreferenceResponse, error) {
	pref, err := uc.prefRepo.Get(userID)
	if err != nil {
		return nil, err
	}
	if pref == nil {
		pref = defaultPreference(userID)
	}
	return &dto.AlertPreferenceResponse{
		NotifyEmail:       pref.NotifyEmail,
		NotifyInApp:       pref.NotifyInApp,
		LowStockThreshold: pref.LowStockThreshold,
	}, nil
}

// UpdatePreferences actualización parcial de preferencias.
func (uc *AlertUseCase) UpdatePreferences(userID string, in dto.AlertPreferenceRequest) (*dto.AlertPreferenceResponse, error) {
	pref, err := uc.prefRepo.Get(userID)
	if err != nil {
		return nil, err
	}
	if pref == nil {
		pref = defaultPreference(userID)
	}
	if in.NotifyEmail != nil {
		pref.NotifyEmail = *in.NotifyEmail
	}
	if in.NotifyInApp != nil {
		pref.NotifyInApp = *in.NotifyInApp
	}
	if in.LowStockThreshold != nil {
		pref.LowStockThreshold = *in.LowStockThreshold
	}
	pref.UpdatedAt = time.Now()
	if err := uc.prefRepo.Upsert(pref); err != nil {
		return nil, err
	}
	return &dto.AlertPreferenceResponse{
		NotifyEmail:       pref.NotifyEmail,
		NotifyInApp:       pref.NotifyInApp,
		LowStockThreshold: pref.LowStockThreshold,
	}, nil
}

func defaultPreference(userID string) *entity.AlertPreference {
	return &entity.AlertPreference{
		UserID:      userID,
		NotifyEmail: true,
		NotifyInApp: true,
	}
}

func buildAlertList(alerts []*entity.LowStockAlert) *dto.AlertListResponse {
	out := &dto.AlertListResponse{Alerts: make([]dto.AlertResponse, 0, len(alerts))}
	for _, a := range alerts {
		out.Alerts = append(out.Alerts, dto.ToAlertResponse(a))
		if !a.Acknowledged {
			out.UnreadCount++
			if a.Severity == entity.SeverityCritical {
				out.CriticalCount++
			}
		}
	}
	return out
}
