package sales_test

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/invorya/pos-sync-api/internal/application/inventory"
	"github.com/invorya/pos-sync-api/internal/application/sales"
	"github.com/invorya/pos-sync-api/internal/domain"
	"github.com/invorya/pos-sync-api/internal/domain/entity"
	"github.com/invorya/pos-sync-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria (mismo contrato que los adaptadores de postgres)
// ──────────────────────────────────────────────────────────────────────────────

type fakeStore struct {
	products  map[string]*entity.Product
	movements []*entity.StockMovement
	sales     map[string]*entity.Sale
	lines     map[string][]*entity.SaleLine // por sale_id
	alerts    map[string]*entity.LowStockAlert
}

func newFakeStore(products ...*entity.Product) *fakeStore {
	s := &fakeStore{
		products: make(map[string]*entity.Product),
		sales:    make(map[string]*entity.Sale),
		lines:    make(map[string][]*entity.SaleLine),
		alerts:   make(map[string]*entity.LowStockAlert),
	}
	for _, p := range products {
		cp := *p
		s.products[p.ID] = &cp
	}
	return s
}

// snapshot/restore simulan el commit/rollback de la transacción.
func (s *fakeStore) snapshot() *fakeStore {
	snap := newFakeStore()
	for id, p := range s.products {
		cp := *p
		if p.Stock != nil {
			v := *p.Stock
			cp.Stock = &v
		}
		snap.products[id] = &cp
	}
	snap.movements = append([]*entity.StockMovement(nil), s.movements...)
	for id, sale := range s.sales {
		cp := *sale
		snap.sales[id] = &cp
	}
	for id, ls := range s.lines {
		snap.lines[id] = append([]*entity.SaleLine(nil), ls...)
	}
	for id, a := range s.alerts {
		cp := *a
		snap.alerts[id] = &cp
	}
	return snap
}

func (s *fakeStore) restore(snap *fakeStore) {
	s.products = snap.products
	s.movements = snap.movements
	s.sales = snap.sales
	s.lines = snap.lines
	s.alerts = snap.alerts
}

// ── ProductRepository ─────────────────────────────────────────────────────────

type fakeProductRepo struct{ store *fakeStore }

func (r *fakeProductRepo) Create(p *entity.Product) error {
	for _, existing := range r.store.products {
		if existing.SKU == p.SKU {
			return domain.ErrDuplicate
		}
	}
	cp := *p
	r.store.products[p.ID] = &cp
	return nil
}

func (r *fakeProductRepo) GetByID(id string) (*entity.Product, error) {
	p, ok := r.store.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProductRepo) GetBySKU(sku string) (*entity.Product, error) {
	for _, p := range r.store.products {
		if p.SKU == sku {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeProductRepo) GetForUpdate(id string) (*entity.Product, error) { return r.GetByID(id) }

func (r *fakeProductRepo) Update(p *entity.Product) error {
	if _, ok := r.store.products[p.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *p
	r.store.products[p.ID] = &cp
	return nil
}

func (r *fakeProductRepo) UpdateStock(productID string, stock int64) error {
	p, ok := r.store.products[productID]
	if !ok {
		return domain.ErrNotFound
	}
	p.Stock = &stock
	return nil
}

func (r *fakeProductRepo) UpdateSuggestedPrice(productID string, price decimal.Decimal) error {
	p, ok := r.store.products[productID]
	if !ok {
		return domain.ErrNotFound
	}
	p.UnitPrice = price
	return nil
}

func (r *fakeProductRepo) List(limit, offset int) ([]*entity.Product, error) { return nil, nil }

func (r *fakeProductRepo) ListByOwner(ownerID string, limit, offset int) ([]*entity.Product, error) {
	return nil, nil
}

func (r *fakeProductRepo) Deactivate(id string) error { return nil }

// ── StockMovementRepository ───────────────────────────────────────────────────

type fakeMovementRepo struct{ store *fakeStore }

func (r *fakeMovementRepo) Create(m *entity.StockMovement) error {
	cp := *m
	r.store.movements = append(r.store.movements, &cp)
	return nil
}

func (r *fakeMovementRepo) ListByProduct(productID string, limit, offset int) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	for _, m := range r.store.movements {
		if m.ProductID == productID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *fakeMovementRepo) List(limit, offset int) ([]*entity.StockMovement, error) {
	return r.store.movements, nil
}

// ── SaleRepository ────────────────────────────────────────────────────────────

type fakeSaleRepo struct{ store *fakeStore }

func (r *fakeSaleRepo) Create(sale *entity.Sale) error {
	for _, existing := range r.store.sales {
		if existing.ExternalID == sale.ExternalID {
			return domain.ErrDuplicate
		}
	}
	cp := *sale
	r.store.sales[sale.ID] = &cp
	return nil
}

func (r *fakeSaleRepo) CreateLine(line *entity.SaleLine) error {
	cp := *line
	r.store.lines[line.SaleID] = append(r.store.lines[line.SaleID], &cp)
	return nil
}

func (r *fakeSaleRepo) Finalize(saleID string, total decimal.Decimal, syncedAt time.Time) error {
	sale, ok := r.store.sales[saleID]
	if !ok {
		return domain.ErrNotFound
	}
	if sale.SyncedAt != nil {
		return domain.ErrConflict
	}
	sale.TotalAmount = total
	ts := syncedAt
	sale.SyncedAt = &ts
	return nil
}

func (r *fakeSaleRepo) GetByID(id string) (*entity.Sale, error) {
	sale, ok := r.store.sales[id]
	if !ok {
		return nil, nil
	}
	return r.withLines(sale), nil
}

func (r *fakeSaleRepo) GetByExternalID(externalID string) (*entity.Sale, error) {
	for _, sale := range r.store.sales {
		if sale.ExternalID == externalID {
			return r.withLines(sale), nil
		}
	}
	return nil, nil
}

func (r *fakeSaleRepo) ListBySeller(sellerID string, limit, offset int) ([]*entity.Sale, error) {
	var out []*entity.Sale
	for _, sale := range r.store.sales {
		if sale.SoldBy == sellerID {
			out = append(out, r.withLines(sale))
		}
	}
	return out, nil
}

func (r *fakeSaleRepo) ListByDate(day time.Time) ([]*entity.Sale, error) {
	var out []*entity.Sale
	for _, sale := range r.store.sales {
		if sale.Timestamp.Format("2006-01-02") == day.Format("2006-01-02") {
			out = append(out, r.withLines(sale))
		}
	}
	return out, nil
}

func (r *fakeSaleRepo) withLines(sale *entity.Sale) *entity.Sale {
	cp := *sale
	cp.Lines = nil
	for _, l := range r.store.lines[sale.ID] {
		cp.Lines = append(cp.Lines, *l)
	}
	return &cp
}

// ── AlertRepository ───────────────────────────────────────────────────────────

type fakeAlertRepo struct{ store *fakeStore }

func (r *fakeAlertRepo) Create(a *entity.LowStockAlert) error {
	if _, ok := r.store.alerts[a.ProductID]; ok {
		return domain.ErrDuplicate
	}
	cp := *a
	r.store.alerts[a.ProductID] = &cp
	return nil
}

func (r *fakeAlertRepo) Update(a *entity.LowStockAlert) error {
	cp := *a
	r.store.alerts[a.ProductID] = &cp
	return nil
}

func (r *fakeAlertRepo) GetUnacknowledged(productID string) (*entity.LowStockAlert, error) {
	a, ok := r.store.alerts[productID]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (r *fakeAlertRepo) DeleteUnacknowledged(productID string) error {
	delete(r.store.alerts, productID)
	return nil
}

func (r *fakeAlertRepo) ListActiveByOwner(ownerID string) ([]*entity.LowStockAlert, error) {
	return nil, nil
}

func (r *fakeAlertRepo) ListHistoryByOwner(ownerID string, limit, offset int) ([]*entity.LowStockAlert, error) {
	return nil, nil
}

func (r *fakeAlertRepo) Acknowledge(ids []string, ownerID string) (int, error) { return 0, nil }

// ── TxRunner (ventas + ledger) ────────────────────────────────────────────────

// fakeTxRunner ejecuta los closures sobre el store en memoria; si el closure
// falla restaura el snapshot completo, igual que el rollback de postgres.
type fakeTxRunner struct{ store *fakeStore }

func (tx *fakeTxRunner) Run(
	_ context.Context,
	fn func(repository.StockMovementRepository, repository.ProductRepository) error,
) error {
	snap := tx.store.snapshot()
	if err := fn(&fakeMovementRepo{tx.store}, &fakeProductRepo{tx.store}); err != nil {
		tx.store.restore(snap)
		return err
	}
	return nil
}

func (tx *fakeTxRunner) RunSale(
	_ context.Context,
	fn func(repository.SaleRepository, repository.StockMovementRepository, repository.ProductRepository) error,
) error {
	snap := tx.store.snapshot()
	if err := fn(&fakeSaleRepo{tx.store}, &fakeMovementRepo{tx.store}, &fakeProductRepo{tx.store}); err != nil {
		tx.store.restore(snap)
		return err
	}
	return nil
}

var (
	_ sales.TxRunner                     = (*fakeTxRunner)(nil)
	_ inventory.TxRunner                 = (*fakeTxRunner)(nil)
	_ repository.SaleRepository          = (*fakeSaleRepo)(nil)
	_ repository.ProductRepository       = (*fakeProductRepo)(nil)
	_ repository.StockMovementRepository = (*fakeMovementRepo)(nil)
	_ repository.AlertRepository         = (*fakeAlertRepo)(nil)
)

// ── Builders ──────────────────────────────────────────────────────────────────

func trackedProduct(id string, stock, reorder int64, price int64) *entity.Product {
	s := stock
	r := reorder
	return &entity.Product{
		ID:           id,
		SKU:          "SKU-" + id,
		Name:         "Producto " + id,
		UnitPrice:    decimal.NewFromInt(price),
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
