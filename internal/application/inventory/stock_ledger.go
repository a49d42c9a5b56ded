package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/invorya/pos-sync-api/internal/domain"
	"github.com/invorya/pos-sync-api/internal/domain/entity"
	"github.com/invorya/pos-sync-api/internal/domain/repository"
	"github.com/invorya/pos-sync-api/pkg/logger"
)

// StockLedger es el dueño del balance de stock: toda mutación pasa por aquí.
// Bajo SELECT FOR UPDATE sobre la fila del producto lee el balance, aplica el
// delta, persiste el nuevo balance y agrega el movimiento de auditoría, todo
// en una transacción. Productos VOLATILE nunca tocan el ledger.
type StockLedger struct {
	txRunner    TxRunner
	productRepo repository.ProductRepository // lecturas fuera de transacción
	rejectNeg   bool
	log         *logger.Logger
}

// Config opciones del ledger.
// RejectNegativeStock restaura el comportamiento estricto histórico
// (rechazar ventas que dejarían balance negativo). Por defecto los balances
// negativos se permiten y el alertado compensa.
type Config struct {
	RejectNegativeStock bool
}

// NewStockLedger construye el ledger.
func NewStockLedger(txRunner TxRunner, productRepo repository.ProductRepository, cfg Config, log *logger.Logger) *StockLedger {
	return &StockLedger{txRunner: txRunner, productRepo: productRepo, rejectNeg: cfg.RejectNegativeStock, log: log}
}

// AdjustInput entrada para un ajuste de stock.
type AdjustInput struct {
	ProductID string
	Delta     int64  // != 0; delta cero es no-op documentado
	ActorID   string // usuario que realiza el ajuste (puede ser vacío)
	Reason    string
	Kind      string // vacío => se deduce del signo del delta
}

// AdjustResult resultado de un ajuste.
// Applied es false en los no-ops (delta cero o producto VOLATILE): no se
// escribió movimiento y el estado devuelto es el vigente.
type AdjustResult struct {
	Product  *entity.Product
	Movement *entity.StockMovement
	Applied  bool
}

// Adjust aplica un ajuste de stock en su propia transacción.
// El caller es responsable de invocar AlertEngine.Recompute después del
// commit; el ledger no llama hacia afuera con el lock tomado.
func (l *StockLedger) Adjust(ctx context.Context, in AdjustInput) (*AdjustResult, error) {
	if in.ProductID == "" {
		return nil, domain.ErrInvalidInput
	}

	// No-ops resueltos sin abrir transacción: delta cero y producto volátil
	// devuelven el estado vigente sin escribir nada.
	if in.Delta == 0 {
		product, err := l.productRepo.GetByID(in.ProductID)
		if err != nil {
			return nil, ledgerErr(err)
		}
		if product == nil {
			return nil, domain.ErrNotFound
		}
		return &AdjustResult{Product: product, Applied: false}, nil
	}

	l.log.Debug().
		Str("product_id", in.ProductID).
		Int64("delta", in.Delta).
		Msg("ledger: ajuste pendiente de lock")

	var res *AdjustResult
	err := l.txRunner.Run(ctx, func(
		movRepo repository.StockMovementRepository,
		productRepo repository.ProductRepository,
	) error {
		r, err := l.ApplyAdjust(movRepo, productRepo, in)
		if err != nil {
			return err
		}
		res = r
		return nil
	})
	if err != nil {
		return nil, ledgerErr(err)
	}

	if res.Applied {
		l.log.Info().
			Str("product_id", in.ProductID).
			Int64("delta", res.Movement.Delta).
			Int64("resulting_stock", res.Movement.ResultingStock).
			Str("kind", res.Movement.Kind).
			Msg("ledger: ajuste confirmado")
	}
	return res, nil
}

// ApplyAdjust ejecuta el ajuste con repositorios ya atados a una transacción
// del caller (lo usa el motor de sincronización de ventas línea por línea).
// Adquiere el lock de fila, trata balance ausente como cero, permite
// resultados negativos salvo que la política estricta esté activa, y agrega
// el movimiento con el snapshot del balance resultante.
func (l *StockLedger) ApplyAdjust(
	movRepo repository.StockMovementRepository,
	productRepo repository.ProductRepository,
	in AdjustInput,
) (*AdjustResult, error) {
	product, err := productRepo.GetForUpdate(in.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}

	switch st := product.StockState().(type) {
	case entity.VolatileStock:
		// Los volátiles son entradas de solo precio: no-op silencioso.
		return &AdjustResult{Product: product, Applied: false}, nil

	case entity.TrackedStock:
		if in.Delta == 0 {
			return &AdjustResult{Product: product, Applied: false}, nil
		}
		newBalance := st.Balance + in.Delta
		if l.rejectNeg && newBalance < 0 {
			return nil, domain.ErrInsufficientStock
		}

		kind := in.Kind
		if kind == "" {
			kind = entity.DefaultMovementKind(in.Delta)
		}
		if err := productRepo.UpdateStock(product.ID, newBalance); err != nil {
			return nil, err
		}
		movement := &entity.StockMovement{
			ID:             uuid.New().String(),
			ProductID:      product.ID,
			Delta:          in.Delta,
			ResultingStock: newBalance,
			Reason:         in.Reason,
			Kind:           kind,
			Timestamp:      time.Now(),
		}
		if in.ActorID != "" {
			actor := in.ActorID
			movement.PerformedBy = &actor
		}
		if err := movRepo.Create(movement); err != nil {
			return nil, err
		}
		product.Stock = &newBalance
		return &AdjustResult{Product: product, Movement: movement, Applied: true}, nil

	default:
		return nil, fmt.Errorf("modo de stock desconocido: %T", st)
	}
}

// ledgerErr clasifica fallas de almacenamiento/lock como ErrLedgerUnavailable
// preservando los errores de dominio. El ledger no reintenta: la política de
// reintento pertenece al caller.
func ledgerErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, domain.ErrNotFound),
		errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrInsufficientStock),
		errors.Is(err, domain.ErrDuplicate),
		errors.Is(err, domain.ErrForbidden):
		return err
	default:
		return fmt.Errorf("%w: %v", domain.ErrLedgerUnavailable, err)
	}
}
