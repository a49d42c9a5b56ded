package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/invorya/pos-sync-api/internal/application/dto"
	"github.com/invorya/pos-sync-api/internal/application/usecase"
)

// AlertHandler maneja alertas de bajo stock y preferencias de notificación.
type AlertHandler struct {
	uc *usecase.AlertUseCase
}

// NewAlertHandler construye el handler.
func NewAlertHandler(uc *usecase.AlertUseCase) *AlertHandler {
	return &AlertHandler{uc: uc}
}

// ListActive godoc
// @Summary      Alertas activas (no reconocidas) de mis productos
// @Tags         alerts
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.AlertListResponse
// @Router       /api/alerts [get]
func (h *AlertHandler) ListActive(c *fiber.Ctx) error {
	out, err := h.uc.ListActive(GetUserID(c))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// ListHistory godoc
// @Summary      Historial completo de alertas
// @Tags         alerts
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"   default(20)
// @Param        offset  query  int  false  "Offset"   default(0)
// @Success      200     {object}  dto.AlertListResponse
// @Router       /api/alerts/history [get]
func (h *AlertHandler) ListHistory(c *fiber.Ctx) error {
	limit, offset := pageParams(c)
	out, err := h.uc.ListHistory(GetUserID(c), limit, offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// Acknowledge godoc
// @Summary      Reconocer alertas (masivo)
// @Tags         alerts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AcknowledgeRequest  true  "IDs de alertas"
// @Success      200   {object}  map[string]int
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/alerts/acknowledge [post]
func (h *AlertHandler) Acknowledge(c *fiber.Ctx) error {
	var in dto.AcknowledgeRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if len(in.AlertIDs) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "alert_ids es requerido"})
	}
	count, err := h.uc.Acknowledge(GetUserID(c), in.AlertIDs)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(fiber.Map{"acknowledged": count})
}

// GetPreferences godoc
// @Summary      Preferencias de notificación del usuario
// @Tags         alerts
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.AlertPreferenceResponse
// @Router       /api/alerts/preferences [get]
func (h *AlertHandler) GetPreferences(c *fiber.Ctx) error {
	out, err := h.uc.GetPreferences(GetUserID(c))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// UpdatePreferences godoc
// @Summary      Actualizar preferencias de notificación
// @Tags         alerts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AlertPreferenceRequest  true  "Preferencias"
// @Success      200   {object}  dto.AlertPreferenceResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/alerts/preferences [put]
func (h *AlertHandler) UpdatePreferences(c *fiber.Ctx) error {
	var in dto.AlertPreferenceRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.UpdatePreferences(GetUserID(c), in)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}
