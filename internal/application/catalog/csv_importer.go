// Package catalog implementa la carga masiva de productos desde CSV.
// Los archivos vienen de planillas de los clientes: encabezados con alias
// ("qty", "min stock", "product code"...), precios con símbolo de moneda y a
// veces codificación latin-1 en vez de UTF-8. Cada fila se procesa de forma
// independiente: las inválidas se reportan sin abortar la importación.
package catalog

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/invorya/pos-sync-api/internal/application/dto"
	"github.com/invorya/pos-sync-api/internal/domain/entity"
	"github.com/invorya/pos-sync-api/internal/domain/repository"
	"github.com/invorya/pos-sync-api/pkg/parsers"
)

// csvFieldAliases mapea encabezados reconocidos a campos del producto.
var csvFieldAliases = map[string][]string{
	"name":          {"name", "product name", "item", "item name", "nombre", "producto"},
	"sku":           {"sku", "product code", "item code", "stock keeping unit", "codigo", "código"},
	"stock":         {"stock", "quantity", "qty", "available stock", "cantidad"},
	"unit_price":    {"price", "unit price", "unit_price", "cost", "amount", "precio"},
	"description":   {"description", "details", "desc", "info", "descripcion", "descripción"},
	"reorder_level": {"reorder level", "min stock", "threshold", "alert level", "punto de reorden"},
}

var requiredFields = []string{"name", "sku", "stock", "unit_price"}

// ImportUseCase importa productos desde un CSV.
type ImportUseCase struct {
	productRepo repository.ProductRepository
}

// NewImportUseCase construye el caso de uso.
func NewImportUseCase(productRepo repository.ProductRepository) *ImportUseCase {
	return &ImportUseCase{productRepo: productRepo}
}

// ImportProducts lee el CSV completo y crea un producto TRACKED por fila
// válida. Devuelve status "success" si no hubo errores y "partial" si
// algunas filas fallaron (con el detalle por fila).
func (uc *ImportUseCase) ImportProducts(ownerID string, r io.Reader) (*dto.ImportResult, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("leer archivo: %w", err)
	}
	if !utf8.Valid(raw) {
		// Planillas exportadas desde Windows suelen venir en latin-1.
		decoded, _, err := transform.Bytes(charmap.ISO8859_1.NewDecoder(), raw)
		if err == nil {
			raw = decoded
		}
	}

	reader := csv.NewReader(bytes.NewReader(raw))
	reader.TrimLeadingSpace = true

	headers, err := reader.Read()
	if err != nil {
		return &dto.ImportResult{Status: "error", Errors: []string{"CSV vacío o sin encabezados"}}, nil
	}

	// índice de columna -> campo del modelo
	columnMap := make(map[int]string)
	for i, h := range headers {
		if field := matchField(h); field != "" {
			columnMap[i] = field
		}
	}
	if len(columnMap) == 0 {
		return &dto.ImportResult{Status: "error", Errors: []string{"ningún encabezado reconocido en el CSV"}}, nil
	}

	result := &dto.ImportResult{Errors: []string{}}
	for rowIndex := 1; ; rowIndex++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("fila %d: %v", rowIndex, err))
			continue
		}

		row := make(map[string]string)
		for i, field := range columnMap {
			if i < len(record) {
				row[field] = strings.TrimSpace(record[i])
			}
		}

		if err := uc.importRow(ownerID, row); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("fila %d: %v", rowIndex, err))
			continue
		}
		result.Created++
	}

	result.Status = "success"
	if len(result.Errors) > 0 {
		result.Status = "partial"
	}
	return result, nil
}

func (uc *ImportUseCase) importRow(ownerID string, row map[string]string) error {
	var missing []string
	for _, f := range requiredFields {
		if row[f] == "" {
			missing = append(missing, f)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("faltan campos requeridos: %s", strings.Join(missing, ", "))
	}

	stock, err := strconv.ParseInt(row["stock"], 10, 64)
	if err != nil {
		return fmt.Errorf("stock inválido: %q", row["stock"])
	}
	price, err := parsers.ParsePrice(row["unit_price"])
	if err != nil {
		return err
	}

	existing, err := uc.productRepo.GetBySKU(row["sku"])
	if err != nil {
		return err
	}
	if existing != nil {
		return fmt.Errorf("SKU duplicado: %s", row["sku"])
	}

	var reorderLevel *int64
	if row["reorder_level"] != "" {
		lvl, err := strconv.ParseInt(row["reorder_level"], 10, 64)
		if err != nil {
			return fmt.Errorf("reorder level inválido: %q", row["reorder_level"])
		}
		reorderLevel = &lvl
	}

	now := time.Now()
	owner := ownerID
	return uc.productRepo.Create(&entity.Product{
		ID:           uuid.New().String(),
		OwnerID:      &owner,
		SKU:          row["sku"],
		Name:         row["name"],
		Description:  row["description"],
		UnitPrice:    price,
		Unit:         "unit",
		Tracking:     entity.TrackingTracked,
		Stock:        &stock,
		ReorderLevel: reorderLevel,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
}

// matchField resuelve a qué campo del modelo corresponde un encabezado.
func matchField(header string) string {
	header = strings.ToLower(strings.TrimSpace(header))
	for field, aliases := range csvFieldAliases {
		for _, alias := range aliases {
			if header == alias {
				return field
			}
		}
	}
	return ""
}
