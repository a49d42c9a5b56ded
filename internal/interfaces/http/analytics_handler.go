package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/invorya/pos-sync-api/internal/application/dto"
	"github.com/invorya/pos-sync-api/internal/application/usecase"
	"github.com/invorya/pos-sync-api/internal/domain"
)

// AnalyticsHandler reporting de ventas (protegido).
type AnalyticsHandler struct {
	uc *usecase.AnalyticsUseCase
}

// NewAnalyticsHandler construye el handler.
func NewAnalyticsHandler(uc *usecase.AnalyticsUseCase) *AnalyticsHandler {
	return &AnalyticsHandler{uc: uc}
}

// SalesByDate godoc
// @Summary      Ventas de un día (resumen + listado)
// @Tags         analytics
// @Security     Bearer
// @Produce      json
// @Param        date  query  string  false  "Fecha YYYY-MM-DD (default hoy)"
// @Success      200   {object}  dto.DailySalesResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/analytics/sales [get]
func (h *AnalyticsHandler) SalesByDate(c *fiber.Ctx) error {
	day := time.Now()
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "date debe ser YYYY-MM-DD"})
		}
		day = parsed
	}
	out, err := h.uc.SalesByDate(c.Context(), day)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// SalesTrend godoc
// @Summary      Tendencia de ventas agrupada por periodo
// @Tags         analytics
// @Security     Bearer
// @Produce      json
// @Param        period  query  string  false  "daily | weekly | monthly"  default(weekly)
// @Param        days    query  int     false  "Rango hacia atrás en días"  default(90)
// @Success      200     {array}  dto.TrendPointResponse
// @Router       /api/analytics/trend [get]
func (h *AnalyticsHandler) SalesTrend(c *fiber.Ctx) error {
	days := c.QueryInt("days", 90)
	if days <= 0 {
		days = 90
	}
	since := time.Now().AddDate(0, 0, -days)
	out, err := h.uc.SalesTrend(c.Context(), c.Query("period"), since)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// ProductSales godoc
// @Summary      Ventas agregadas de un producto en un rango
// @Description  Funciona para productos TRACKED y VOLATILE por igual.
// @Tags         analytics
// @Security     Bearer
// @Produce      json
// @Param        id      path   string  true   "ID del producto"
// @Param        period  query  string  false  "daily | weekly | monthly"  default(weekly)
// @Param        start   query  string  false  "YYYY-MM-DD (default hace 30 días)"
// @Param        end     query  string  false  "YYYY-MM-DD (default mañana)"
// @Success      200     {object}  dto.ProductSalesResponse
// @Failure      404     {object}  dto.ErrorResponse
// @Router       /api/analytics/products/{id} [get]
func (h *AnalyticsHandler) ProductSales(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	now := time.Now()
	start := now.AddDate(0, 0, -30)
	end := now.AddDate(0, 0, 1)
	if raw := c.Query("start"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "start debe ser YYYY-MM-DD"})
		}
		start = parsed
	}
	if raw := c.Query("end"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "end debe ser YYYY-MM-DD"})
		}
		end = parsed.AddDate(0, 0, 1) // rango inclusivo para el caller
	}
	out, err := h.uc.ProductSales(c.Context(), id, c.Query("period"), start, end)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "producto no encontrado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}
