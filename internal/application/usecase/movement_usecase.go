package usecase

import (
	"context"

	"github.com/invorya/pos-sync-api/internal/application/dto"
	"github.com/invorya/pos-sync-api/internal/application/inventory"
	"github.com/invorya/pos-sync-api/internal/domain"
	"github.com/invorya/pos-sync-api/internal/domain/entity"
	"github.com/invorya/pos-sync-api/internal/domain/repository"
	"github.com/invorya/pos-sync-api/pkg/logger"
)

// MovementUseCase expone el ledger para ajustes manuales (restock,
// correcciones) y el historial de movimientos.
type MovementUseCase struct {
	ledger      *inventory.StockLedger
	alerts      *inventory.AlertEngine
	movRepo     repository.StockMovementRepository
	productRepo repository.ProductRepository
	log         *logger.Logger
}

// NewMovementUseCase construye el caso de uso de movimientos.
func NewMovementUseCase(
	ledger *inventory.StockLedger,
	alerts *inventory.AlertEngine,
	movRepo repository.StockMovementRepository,
	productRepo repository.ProductRepository,
	log *logger.Logger,
) *MovementUseCase {
	return &MovementUseCase{
		ledger:      ledger,
		alerts:      alerts,
		movRepo:     movRepo,
		productRepo: productRepo,
		log:         log,
	}
}

// Adjust aplica un ajuste manual de stock sobre un producto propio. Delta
// positivo repone (RESTOCK), negativo corrige (ADJUSTMENT). Recalcula
// alertas tras el commit.
func (uc *MovementUseCase) Adjust(ctx context.Context, actorID string, in dto.AdjustStockRequest) (*dto.AdjustStockResponse, error) {
	if in.ProductID == "" {
		return nil, domain.ErrInvalidInput
	}
	product, err := uc.productRepo.GetByID(in.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if product.OwnerID != nil && *product.OwnerID != actorID {
		return nil, domain.ErrForbidden
	}
	if !product.IsTracked() {
		// El no-op silencioso sobre volátiles es del motor de ventas; un
		// operador ajustando un producto sin balance es un error de uso.
		return nil, domain.ErrInvalidInput
	}

	kind := entity.MovementKindAdjustment
	if in.Delta > 0 {
		kind = entity.MovementKindRestock
	}
	res, err := uc.ledger.Adjust(ctx, inventory.AdjustInput{
		ProductID: in.ProductID,
		Delta:     in.Delta,
		ActorID:   actorID,
		Reason:    in.Reason,
		Kind:      kind,
	})
	if err != nil {
		return nil, err
	}

	out := &dto.AdjustStockResponse{Applied: res.Applied}
	if res.Movement != nil {
		out.Movement = dto.ToMovementResponse(res.Movement)
	}
	if res.Applied && res.Product != nil {
		out.Stock = res.Product.Stock
		if _, err := uc.alerts.Recompute(res.Product); err != nil {
			// El ajuste ya es durable; la alerta se reconcilia en el
			// siguiente movimiento del producto.
			uc.log.Warn().Err(err).Str("product_id", in.ProductID).Msg("ajuste: recálculo de alertas falló")
		}
	}
	return out, nil
}

// History historial de movimientos de un producto, más reciente primero.
func (uc *MovementUseCase) History(productID string, limit, offset int) ([]*dto.MovementResponse, error) {
	product, err := uc.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	movements, err := uc.movRepo.ListByProduct(productID, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.MovementResponse, 0, len(movements))
	for _, m := range movements {
		out = append(out, dto.ToMovementResponse(m))
	}
	return out, nil
}

// List historial global de movimientos (auditoría).
func (uc *MovementUseCase) List(limit, offset int) ([]*dto.MovementResponse, error) {
	movements, err := uc.movRepo.List(limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.MovementResponse, 0, len(movements))
	for _, m := range movements {
		out = append(out, dto.ToMovementResponse(m))
	}
	return out, nil
}
