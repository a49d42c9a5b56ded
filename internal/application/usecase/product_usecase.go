package usecase

import (
	"time"

	"github.com/google/uuid"

	"github.com/invorya/pos-sync-api/internal/application/dto"
	"github.com/invorya/pos-sync-api/internal/domain"
	"github.com/invorya/pos-sync-api/internal/domain/entity"
	"github.com/invorya/pos-sync-api/internal/domain/repository"
)

// ProductUseCase CRUD de catálogo. El stock NO se edita por aquí: toda
// mutación de balance pasa por el ledger de movimientos.
type ProductUseCase struct {
	productRepo repository.ProductRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(productRepo repository.ProductRepository) *ProductUseCase {
	return &ProductUseCase{productRepo: productRepo}
}

// Create da de alta un producto. SKU debe ser único.
func (uc *ProductUseCase) Create(ownerID string, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if in.SKU == "" || in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	tracking := in.Tracking
	switch tracking {
	case "":
		tracking = entity.TrackingTracked
	case entity.TrackingTracked, entity.TrackingVolatile:
	default:
		return nil, domain.ErrInvalidInput
	}

	existing, err := uc.productRepo.GetBySKU(in.SKU)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}

	unit := in.Unit
	if unit == "" {
		unit = "unit"
	}
	now := time.Now()
	owner := ownerID
	product := &entity.Product{
		ID:          uuid.New().String(),
		OwnerID:     &owner,
		SKU:         in.SKU,
		Name:        in.Name,
		Description: in.Description,
		UnitPrice:   in.UnitPrice,
		Unit:        unit,
		Tracking:    tracking,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	// Stock y umbral solo aplican a TRACKED; en volátiles se ignoran.
	if tracking == entity.TrackingTracked {
		product.Stock = in.Stock
		product.ReorderLevel = in.ReorderLevel
	}
	if err := uc.productRepo.Create(product); err != nil {
		return nil, err
	}
	return dto.ToProductResponse(product), nil
}

// GetByID obtiene un producto.
func (uc *ProductUseCase) GetByID(id string) (*dto.ProductResponse, error) {
	product, err := uc.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return dto.ToProductResponse(product), nil
}

// List lista el catálogo con paginación.
func (uc *ProductUseCase) List(limit, offset int) ([]*dto.ProductResponse, error) {
	products, err := uc.productRepo.List(limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, dto.ToProductResponse(p))
	}
	return out, nil
}

// Update edita catálogo (precio, descripción, umbral). El dueño no cambia y
// el balance no se toca.
func (uc *ProductUseCase) Update(id, actorID string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if product.OwnerID != nil && *product.OwnerID != actorID {
		return nil, domain.ErrForbidden
	}

	if in.Name != "" {
		product.Name = in.Name
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if !in.UnitPrice.IsZero() {
		product.UnitPrice = in.UnitPrice
	}
	if in.Unit != "" {
		product.Unit = in.Unit
	}
	if product.IsTracked() && in.ReorderLevel != nil {
		product.ReorderLevel = in.ReorderLevel
	}
	product.UpdatedAt = time.Now()
	if err := uc.productRepo.Update(product); err != nil {
		return nil, err
	}
	return dto.ToProductResponse(product), nil
}

// Deactivate desactiva un producto (soft delete). Nunca se borra físicamente
// mientras existan movimientos históricos que lo referencien.
func (uc *ProductUseCase) Deactivate(id, actorID string) error {
	product, err := uc.productRepo.GetByID(id)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.ErrNotFound
	}
	if product.OwnerID != nil && *product.OwnerID != actorID {
		return domain.ErrForbidden
	}
	return uc.productRepo.Deactivate(id)
}
