package sales

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/invorya/pos-sync-api/internal/domain"
	"github.com/invorya/pos-sync-api/internal/domain/entity"
	"github.com/invorya/pos-sync-api/internal/domain/repository"
	"github.com/invorya/pos-sync-api/pkg/logger"
)

// ReceiptLine es una línea de venta enriquecida con el nombre del producto,
// lista para renderizar.
type ReceiptLine struct {
	ProductName string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	Subtotal    decimal.Decimal
}

// ReceiptGenerator es el puerto de renderizado del recibo de venta (DIP:
// la aplicación no conoce la librería de PDF).
type ReceiptGenerator interface {
	GenerateReceipt(ctx context.Context, sale *entity.Sale, seller *entity.User, lines []ReceiptLine) ([]byte, error)
}

// ReceiptUseCase arma y genera el recibo PDF de una venta sincronizada.
type ReceiptUseCase struct {
	saleRepo    repository.SaleRepository
	productRepo repository.ProductRepository
	userRepo    repository.UserRepository
	generator   ReceiptGenerator
	log         *logger.Logger
}

// NewReceiptUseCase construye el caso de uso de recibos.
func NewReceiptUseCase(
	saleRepo repository.SaleRepository,
	productRepo repository.ProductRepository,
	userRepo repository.UserRepository,
	generator ReceiptGenerator,
	log *logger.Logger,
) *ReceiptUseCase {
	return &ReceiptUseCase{
		saleRepo:    saleRepo,
		productRepo: productRepo,
		userRepo:    userRepo,
		generator:   generator,
		log:         log,
	}
}

// Generate devuelve los bytes del PDF del recibo de la venta.
// Solo el vendedor de la venta (o un admin) puede generarlo.
func (uc *ReceiptUseCase) Generate(ctx context.Context, saleID, actorID, actorRole string) ([]byte, error) {
	sale, err := uc.saleRepo.GetByID(saleID)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.ErrNotFound
	}
	if sale.SoldBy != actorID && actorRole != entity.RoleAdmin {
		return nil, domain.ErrForbidden
	}

	seller, err := uc.userRepo.GetByID(sale.SoldBy)
	if err != nil {
		return nil, err
	}
	if seller == nil {
		return nil, domain.ErrNotFound
	}

	lines := make([]ReceiptLine, 0, len(sale.Lines))
	for _, l := range sale.Lines {
		name := "producto eliminado"
		product, err := uc.productRepo.GetByID(l.ProductID)
		if err != nil {
			return nil, err
		}
		if product != nil {
			name = product.Name
		}
		lines = append(lines, ReceiptLine{
			ProductName: name,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			Subtotal:    l.Subtotal,
		})
	}

	pdf, err := uc.generator.GenerateReceipt(ctx, sale, seller, lines)
	if err != nil {
		uc.log.Error().Err(err).Str("sale_id", saleID).Msg("recibo: generación de PDF falló")
		return nil, err
	}
	return pdf, nil
}
