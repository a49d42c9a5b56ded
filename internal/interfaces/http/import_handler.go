package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/invorya/pos-sync-api/internal/application/catalog"
	"github.com/invorya/pos-sync-api/internal/application/dto"
)

// ImportHandler importación masiva de catálogo desde CSV (protegido).
type ImportHandler struct {
	uc *catalog.ImportUseCase
}

// NewImportHandler construye el handler.
func NewImportHandler(uc *catalog.ImportUseCase) *ImportHandler {
	return &ImportHandler{uc: uc}
}

// ImportCSV godoc
// @Summary      Importar productos desde un CSV
// @Description  Acepta UTF-8 y Latin-1. Cabeceras con alias en español e
// @Description  inglés. Filas inválidas no abortan la importación: el
// @Description  resultado lista los errores por fila.
// @Tags         catalog
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "Archivo CSV"
// @Success      200   {object}  dto.ImportResult
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/catalog/import [post]
func (h *ImportHandler) ImportCSV(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_FILE", Message: "archivo CSV requerido en el campo file"})
	}
	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_FILE", Message: "no se pudo leer el archivo"})
	}
	defer file.Close()

	out, err := h.uc.ImportProducts(GetUserID(c), file)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "IMPORT_FAILED", Message: err.Error()})
	}
	return c.JSON(out)
}
