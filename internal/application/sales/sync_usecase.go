package sales

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/invorya/pos-sync-api/internal/application/dto"
	"github.com/invorya/pos-sync-api/internal/application/inventory"
	"github.com/invorya/pos-sync-api/internal/domain"
	"github.com/invorya/pos-sync-api/internal/domain/entity"
	"github.com/invorya/pos-sync-api/internal/domain/repository"
	"github.com/invorya/pos-sync-api/pkg/logger"
)

// DefaultDeviceTag etiqueta de terminal cuando el cliente no envía una.
const DefaultDeviceTag = "web"

// SyncUseCase es el motor de sincronización de ventas offline-first:
//   - deduplica por external_id (reintentos de la cola offline son silenciosos),
//   - valida y ejecuta todas las líneas en una sola transacción,
//   - descuenta stock vía el ledger para líneas TRACKED,
//   - recalcula totales siempre en servidor,
//   - dispara el recálculo de alertas después del commit.
type SyncUseCase struct {
	txRunner    TxRunner
	saleRepo    repository.SaleRepository    // lecturas fuera de transacción
	productRepo repository.ProductRepository // recarga post-commit para alertas
	ledger      *inventory.StockLedger
	alerts      *inventory.AlertEngine
	log         *logger.Logger
}

// NewSyncUseCase construye el motor de sincronización.
func NewSyncUseCase(
	txRunner TxRunner,
	saleRepo repository.SaleRepository,
	productRepo repository.ProductRepository,
	ledger *inventory.StockLedger,
	alerts *inventory.AlertEngine,
	log *logger.Logger,
) *SyncUseCase {
	return &SyncUseCase{
		txRunner:    txRunner,
		saleRepo:    saleRepo,
		productRepo: productRepo,
		ledger:      ledger,
		alerts:      alerts,
		log:         log,
	}
}

// Submit procesa una venta multi-línea.
// Si ya existe una venta con el mismo external_id devuelve esa venta sin
// tocar nada: reenviar una venta encolada offline es seguro cualquier número
// de veces, incluso si el contenido del reintento difiere del original.
func (uc *SyncUseCase) Submit(ctx context.Context, actorID string, in dto.SubmitSaleRequest) (*dto.SaleResponse, error) {
	if actorID == "" {
		return nil, domain.ErrUnauthorized
	}
	if err := validateRequest(in); err != nil {
		return nil, err
	}

	// Dedup por clave de idempotencia antes de abrir transacción.
	if in.ExternalID != "" {
		existing, err := uc.saleRepo.GetByExternalID(in.ExternalID)
		if err != nil {
			return nil, ledgerErr(err)
		}
		if existing != nil {
			uc.log.Info().
				Str("external_id", in.ExternalID).
				Str("sale_id", existing.ID).
				Msg("sync: reenvío detectado, venta ya sincronizada")
			return dto.ToSaleResponse(existing), nil
		}
	}

	externalID := in.ExternalID
	if externalID == "" {
		// Sin clave del cliente: la venta se registra igual, solo que el
		// caller no podrá deduplicarla en un reintento.
		externalID = uuid.New().String()
	}
	deviceTag := in.DeviceTag
	if deviceTag == "" {
		deviceTag = DefaultDeviceTag
	}

	saleID := uuid.New().String()
	now := time.Now()
	touched := make(map[string]struct{}) // productos TRACKED afectados

	uc.log.Debug().
		Str("external_id", externalID).
		Int("lines", len(in.Lines)).
		Msg("sync: iniciando transacción de venta")

	err := uc.txRunner.RunSale(ctx, func(
		saleRepo repository.SaleRepository,
		movRepo repository.StockMovementRepository,
		productRepo repository.ProductRepository,
	) error {
		sale := &entity.Sale{
			ID:              saleID,
			SoldBy:          actorID,
			ExternalID:      externalID,
			DeviceTag:       deviceTag,
			ClientTimestamp: in.ClientTimestamp,
			TotalAmount:     decimal.Zero,
			Timestamp:       now,
		}
		if err := saleRepo.Create(sale); err != nil {
			return err
		}

		total := decimal.Zero
		for _, line := range in.Lines {
			product, err := uc.resolveProduct(productRepo, actorID, line, now)
			if err != nil {
				return err
			}

			price, err := resolvePrice(product, line)
			if err != nil {
				return err
			}

			subtotal := line.Quantity.Mul(price)
			total = total.Add(subtotal)

			if err := saleRepo.CreateLine(&entity.SaleLine{
				ID:        uuid.New().String(),
				SaleID:    saleID,
				ProductID: product.ID,
				Quantity:  line.Quantity,
				UnitPrice: price,
				Subtotal:  subtotal,
			}); err != nil {
				return err
			}

			switch product.StockState().(type) {
			case entity.VolatileStock:
				// Volátiles quedan fuera del ledger: solo se recuerda el
				// último precio usado como sugerencia de catálogo.
				if err := productRepo.UpdateSuggestedPrice(product.ID, price); err != nil {
					return err
				}
			case entity.TrackedStock:
				qty := line.Quantity.IntPart()
				if qty != 0 {
					if _, err := uc.ledger.ApplyAdjust(movRepo, productRepo, inventory.AdjustInput{
						ProductID: product.ID,
						Delta:     -qty,
						ActorID:   actorID,
						Reason:    fmt.Sprintf("venta %s", externalID),
						Kind:      entity.MovementKindSale,
					}); err != nil {
						return err
					}
				}
				touched[product.ID] = struct{}{}
			}
		}

		// synced_at es la última escritura de la transacción: si está
		// fijado, los efectos de stock de la venta son durables.
		return saleRepo.Finalize(saleID, total, time.Now())
	})
	if err != nil {
		// Carrera sobre external_id: otro reintento concurrente ganó la
		// inserción. Se resuelve en silencio devolviendo la venta ganadora.
		if errors.Is(err, domain.ErrDuplicate) && in.ExternalID != "" {
			existing, lookupErr := uc.saleRepo.GetByExternalID(in.ExternalID)
			if lookupErr == nil && existing != nil {
				return dto.ToSaleResponse(existing), nil
			}
		}
		return nil, ledgerErr(err)
	}

	uc.recomputeAlerts(touched)

	sale, err := uc.saleRepo.GetByID(saleID)
	if err != nil {
		return nil, ledgerErr(err)
	}
	uc.log.Info().
		Str("sale_id", saleID).
		Str("external_id", externalID).
		Str("total", sale.TotalAmount.String()).
		Msg("sync: venta sincronizada")
	return dto.ToSaleResponse(sale), nil
}

// GetByID devuelve una venta con sus líneas.
func (uc *SyncUseCase) GetByID(id string) (*dto.SaleResponse, error) {
	sale, err := uc.saleRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.ErrNotFound
	}
	return dto.ToSaleResponse(sale), nil
}

// ListBySeller lista ventas del vendedor, más reciente primero.
func (uc *SyncUseCase) ListBySeller(sellerID string, limit, offset int) ([]*dto.SaleResponse, error) {
	sales, err := uc.saleRepo.ListBySeller(sellerID, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.SaleResponse, 0, len(sales))
	for _, s := range sales {
		out = append(out, dto.ToSaleResponse(s))
	}
	return out, nil
}

// resolveProduct obtiene el producto de la línea, creándolo al vuelo si la
// terminal mandó datos inline y el SKU aún no existe.
func (uc *SyncUseCase) resolveProduct(
	productRepo repository.ProductRepository,
	actorID string,
	line dto.SaleLineRequest,
	now time.Time,
) (*entity.Product, error) {
	if line.ProductID != "" {
		product, err := productRepo.GetByID(line.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, domain.ErrNotFound
		}
		return product, nil
	}

	data := line.Product
	existing, err := productRepo.GetBySKU(data.SKU)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	tracking := data.Tracking
	if tracking == "" {
		tracking = entity.TrackingTracked
	}
	unit := data.Unit
	if unit == "" {
		unit = "unit"
	}
	owner := actorID
	product := &entity.Product{
		ID:        uuid.New().String(),
		OwnerID:   &owner,
		SKU:       data.SKU,
		Name:      data.Name,
		UnitPrice: data.UnitPrice,
		Unit:      unit,
		Tracking:  tracking,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := productRepo.Create(product); err != nil {
		return nil, err
	}
	return product, nil
}

// recomputeAlerts recalcula alertas una vez por producto TRACKED tocado,
// después del commit. Un fallo aquí no revierte la venta (ya es durable):
// se registra y el siguiente movimiento del producto lo reconcilia.
func (uc *SyncUseCase) recomputeAlerts(touched map[string]struct{}) {
	for productID := range touched {
		product, err := uc.productRepo.GetByID(productID)
		if err != nil || product == nil {
			uc.log.Warn().Err(err).Str("product_id", productID).Msg("sync: no se pudo recargar producto para alertas")
			continue
		}
		if _, err := uc.alerts.Recompute(product); err != nil {
			uc.log.Warn().Err(err).Str("product_id", productID).Msg("sync: recálculo de alertas falló")
		}
	}
}

// validateRequest valida la petición completa antes de abrir transacción:
// cualquier línea inválida rechaza la venta entera.
func validateRequest(in dto.SubmitSaleRequest) error {
	if len(in.Lines) == 0 {
		return domain.ErrInvalidInput
	}
	for _, line := range in.Lines {
		if !line.Quantity.GreaterThan(decimal.Zero) {
			return domain.ErrInvalidInput
		}
		if line.ProductID == "" {
			if line.Product == nil || line.Product.SKU == "" || line.Product.Name == "" {
				return domain.ErrInvalidInput
			}
		}
		if line.UnitPrice != nil && line.UnitPrice.LessThan(decimal.Zero) {
			return domain.ErrInvalidInput
		}
	}
	return nil
}

// resolvePrice fija el precio unitario de la línea: el enviado por la
// terminal si viene; si no, para TRACKED el precio de catálogo y para
// VOLATILE es error (no hay fallback de catálogo para volátiles).
func resolvePrice(product *entity.Product, line dto.SaleLineRequest) (decimal.Decimal, error) {
	if line.UnitPrice != nil {
		return *line.UnitPrice, nil
	}
	if _, volatile := product.StockState().(entity.VolatileStock); volatile {
		return decimal.Zero, domain.ErrInvalidInput
	}
	return product.UnitPrice, nil
}

// ledgerErr reexpone la clasificación del ledger para fallas de
// almacenamiento en la ruta de ventas.
func ledgerErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, domain.ErrNotFound),
		errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrInsufficientStock),
		errors.Is(err, domain.ErrDuplicate),
		errors.Is(err, domain.ErrUnauthorized),
		errors.Is(err, domain.ErrForbidden):
		return err
	default:
		return fmt.Errorf("%w: %v", domain.ErrLedgerUnavailable, err)
	}
}
