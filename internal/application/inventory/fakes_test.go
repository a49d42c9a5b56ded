package inventory_test

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/invorya/pos-sync-api/internal/application/inventory"
	"github.com/invorya/pos-sync-api/internal/domain"
	"github.com/invorya/pos-sync-api/internal/domain/entity"
	"github.com/invorya/pos-sync-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria para los tests del ledger y del motor de alertas
// ──────────────────────────────────────────────────────────────────────────────

type fakeProductRepo struct {
	products map[string]*entity.Product
}

func newFakeProductRepo(products ...*entity.Product) *fakeProductRepo {
	r := &fakeProductRepo{products: make(map[string]*entity.Product)}
	for _, p := range products {
		cp := *p
		r.products[p.ID] = &cp
	}
	return r
}

func (r *fakeProductRepo) Create(p *entity.Product) error {
	for _, existing := range r.products {
		if existing.SKU == p.SKU {
			return domain.ErrDuplicate
		}
	}
	cp := *p
	r.products[p.ID] = &cp
	return nil
}

func (r *fakeProductRepo) GetByID(id string) (*entity.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProductRepo) GetBySKU(sku string) (*entity.Product, error) {
	for _, p := range r.products {
		if p.SKU == sku {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeProductRepo) GetForUpdate(id string) (*entity.Product, error) {
	return r.GetByID(id)
}

func (r *fakeProductRepo) Update(p *entity.Product) error {
	if _, ok := r.products[p.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *p
	r.products[p.ID] = &cp
	return nil
}

func (r *fakeProductRepo) UpdateStock(productID string, stock int64) error {
	p, ok := r.products[productID]
	if !ok {
		return domain.ErrNotFound
	}
	p.Stock = &stock
	return nil
}

func (r *fakeProductRepo) UpdateSuggestedPrice(productID string, price decimal.Decimal) error {
	p, ok := r.products[productID]
	if !ok {
		return domain.ErrNotFound
	}
	p.UnitPrice = price
	return nil
}

func (r *fakeProductRepo) List(limit, offset int) ([]*entity.Product, error) {
	out := make([]*entity.Product, 0, len(r.products))
	for _, p := range r.products {
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeProductRepo) ListByOwner(ownerID string, limit, offset int) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range r.products {
		if p.OwnerID != nil && *p.OwnerID == ownerID {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeProductRepo) Deactivate(id string) error {
	p, ok := r.products[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.Active = false
	return nil
}

type fakeMovementRepo struct {
	movements []*entity.StockMovement
	failNext  bool
}

func (r *fakeMovementRepo) Create(m *entity.StockMovement) error {
	if r.failNext {
		r.failNext = false
		return errors.New("disco lleno")
	}
	cp := *m
	r.movements = append(r.movements, &cp)
	return nil
}

func (r *fakeMovementRepo) ListByProduct(productID string, limit, offset int) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	for i := len(r.movements) - 1; i >= 0; i-- {
		if r.movements[i].ProductID == productID {
			out = append(out, r.movements[i])
		}
	}
	return out, nil
}

func (r *fakeMovementRepo) List(limit, offset int) ([]*entity.StockMovement, error) {
	return r.movements, nil
}

// fakeTxRunner ejecuta el closure sobre los repos en memoria. Si el closure
// falla, restaura el snapshot previo (simula el rollback de la transacción).
type fakeTxRunner struct {
	movRepo     *fakeMovementRepo
	productRepo *fakeProductRepo
}

func (tx *fakeTxRunner) Run(
	_ context.Context,
	fn func(repository.StockMovementRepository, repository.ProductRepository) error,
) error {
	productSnap := snapshotProducts(tx.productRepo)
	movSnap := len(tx.movRepo.movements)
	if err := fn(tx.movRepo, tx.productRepo); err != nil {
		tx.productRepo.products = productSnap
		tx.movRepo.movements = tx.movRepo.movements[:movSnap]
		return err
	}
	return nil
}

func snapshotProducts(r *fakeProductRepo) map[string]*entity.Product {
	snap := make(map[string]*entity.Product, len(r.products))
	for id, p := range r.products {
		cp := *p
		if p.Stock != nil {
			s := *p.Stock
			cp.Stock = &s
		}
		snap[id] = &cp
	}
	return snap
}

var _ inventory.TxRunner = (*fakeTxRunner)(nil)

type fakeAlertRepo struct {
	active  map[string]*entity.LowStockAlert // por product_id
	history []*entity.LowStockAlert
}

func newFakeAlertRepo() *fakeAlertRepo {
	return &fakeAlertRepo{active: make(map[string]*entity.LowStockAlert)}
}

func (r *fakeAlertRepo) Create(a *entity.LowStockAlert) error {
	if _, ok := r.active[a.ProductID]; ok {
		return domain.ErrDuplicate
	}
	cp := *a
	r.active[a.ProductID] = &cp
	return nil
}

func (r *fakeAlertRepo) Update(a *entity.LowStockAlert) error {
	existing, ok := r.active[a.ProductID]
	if !ok || existing.ID != a.ID {
		return domain.ErrNotFound
	}
	cp := *a
	r.active[a.ProductID] = &cp
	return nil
}

func (r *fakeAlertRepo) GetUnacknowledged(productID string) (*entity.LowStockAlert, error) {
	a, ok := r.active[productID]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (r *fakeAlertRepo) DeleteUnacknowledged(productID string) error {
	delete(r.active, productID)
	return nil
}

func (r *fakeAlertRepo) ListActiveByOwner(ownerID string) ([]*entity.LowStockAlert, error) {
	out := make([]*entity.LowStockAlert, 0, len(r.active))
	for _, a := range r.active {
		out = append(out, a)
	}
	return out, nil
}

func (r *fakeAlertRepo) ListHistoryByOwner(ownerID string, limit, offset int) ([]*entity.LowStockAlert, error) {
	return r.history, nil
}

func (r *fakeAlertRepo) Acknowledge(ids []string, ownerID string) (int, error) {
	count := 0
	for productID, a := range r.active {
		for _, id := range ids {
			if a.ID == id {
				a.Acknowledged = true
				r.history = append(r.history, a)
				delete(r.active, productID)
				count++
			}
		}
	}
	return count, nil
}

var _ repository.AlertRepository = (*fakeAlertRepo)(nil)
var _ repository.ProductRepository = (*fakeProductRepo)(nil)
var _ repository.StockMovementRepository = (*fakeMovementRepo)(nil)

// ──────────────────────────────────────────────────────────────────────────────
// Builders
// ──────────────────────────────────────────────────────────────────────────────

func trackedProduct(id string, stock, reorder int64) *entity.Product {
	s := stock
	r := reorder
	return &entity.Product{
		ID:           id,
		SKU:          "SKU-" + id,
		Name:         "Producto " + id,
		UnitPrice:    decimal.NewFromInt(100),
		Unit:         "unit",
		Tracking:     entity.TrackingTracked,
		Stock:        &s,
		ReorderLevel: &r,
		Active:       true,
	}
}

func volatileProduct(id string) *entity.Product {
	return &entity.Product{
		ID:       id,
		SKU:      "SKU-" + id,
		Name:     "Granel " + id,
		Unit:     "kg",
		Tracking: entity.TrackingVolatile,
		Active:   true,
	}
}
