package sales_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/invorya/pos-sync-api/internal/application/dto"
	"github.com/invorya/pos-sync-api/internal/application/inventory"
	"github.com/invorya/pos-sync-api/internal/application/sales"
	"github.com/invorya/pos-sync-api/internal/domain"
	"github.com/invorya/pos-sync-api/internal/domain/entity"
	"github.com/invorya/pos-sync-api/pkg/logger"
)

const sellerID = "00000000-0000-0000-0000-0000000000aa"

func newSyncEngine(t *testing.T, cfg inventory.Config, products ...*entity.Product) (*sales.SyncUseCase, *fakeStore) {
	t.Helper()
	store := newFakeStore(products...)
	tx := &fakeTxRunner{store: store}
	productRepo := &fakeProductRepo{store}
	ledger := inventory.NewStockLedger(tx, productRepo, cfg, logger.Nop())
	alerts := inventory.NewAlertEngine(&fakeAlertRepo{store}, logger.Nop())
	uc := sales.NewSyncUseCase(tx, &fakeSaleRepo{store}, productRepo, ledger, alerts, logger.Nop())
	return uc, store
}

func qty(n int64) decimal.Decimal { return decimal.NewFromInt(n) }

func price(n int64) *decimal.Decimal {
	d := decimal.NewFromInt(n)
	return &d
}

func TestSubmit_VentaSimple(t *testing.T) {
	uc, store := newSyncEngine(t, inventory.Config{},
		trackedProduct("p1", 10, 3, 100),
		trackedProduct("p2", 20, 5, 50),
	)

	out, err := uc.Submit(context.Background(), sellerID, dto.SubmitSaleRequest{
		ExternalID: "venta-001",
		DeviceTag:  "caja-2",
		Lines: []dto.SaleLineRequest{
			{ProductID: "p1", Quantity: qty(2)},
			{ProductID: "p2", Quantity: qty(3), UnitPrice: price(40)},
		},
	})
	require.NoError(t, err)

	// Total calculado en servidor: 2*100 (catálogo) + 3*40 (precio enviado).
	assert.True(t, out.TotalAmount.Equal(decimal.NewFromInt(320)), "total %s", out.TotalAmount)
	assert.Equal(t, "venta-001", out.ExternalID)
	assert.Equal(t, "caja-2", out.DeviceTag)
	require.NotNil(t, out.SyncedAt, "synced_at debe quedar fijado al commit")
	require.Len(t, out.Lines, 2)

	// Un movimiento SALE por línea TRACKED, con el stock descontado.
	require.Len(t, store.movements, 2)
	assert.Equal(t, entity.MovementKindSale, store.movements[0].Kind)
	assert.Equal(t, int64(8), *store.products["p1"].Stock)
	assert.Equal(t, int64(17), *store.products["p2"].Stock)
}

// Reenviar la misma venta es seguro cualquier número de veces: mismo ID,
// un solo juego de movimientos, stock descontado una sola vez.
func TestSubmit_ReenvioEsIdempotente(t *testing.T) {
	uc, store := newSyncEngine(t, inventory.Config{}, trackedProduct("p1", 10, 3, 100))

	req := dto.SubmitSaleRequest{
		ExternalID: "venta-001",
		Lines:      []dto.SaleLineRequest{{ProductID: "p1", Quantity: qty(2)}},
	}

	first, err := uc.Submit(context.Background(), sellerID, req)
	require.NoError(t, err)

	second, err := uc.Submit(context.Background(), sellerID, req)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, store.sales, 1)
	assert.Len(t, store.movements, 1)
	assert.Equal(t, int64(8), *store.products["p1"].Stock, "el stock se descuenta una sola vez")
}

// Un reintento con contenido distinto bajo la misma clave devuelve la venta
// original intacta: la clave de idempotencia manda sobre el payload.
func TestSubmit_ReintentoConContenidoDistinto(t *testing.T) {
	uc, store := newSyncEngine(t, inventory.Config{}, trackedProduct("p1", 10, 3, 100))

	first, err := uc.Submit(context.Background(), sellerID, dto.SubmitSaleRequest{
		ExternalID: "venta-001",
		Lines:      []dto.SaleLineRequest{{ProductID: "p1", Quantity: qty(2)}},
	})
	require.NoError(t, err)

	second, err := uc.Submit(context.Background(), sellerID, dto.SubmitSaleRequest{
		ExternalID: "venta-001",
		Lines:      []dto.SaleLineRequest{{ProductID: "p1", Quantity: qty(9)}},
	})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.True(t, second.TotalAmount.Equal(first.TotalAmount))
	assert.Equal(t, int64(8), *store.products["p1"].Stock)
}

// Sin external_id el servidor sintetiza una clave: la venta se registra pero
// el caller no podrá deduplicar un reintento.
func TestSubmit_SinClaveSintetizaExternalID(t *testing.T) {
	uc, _ := newSyncEngine(t, inventory.Config{}, trackedProduct("p1", 10, 3, 100))

	out, err := uc.Submit(context.Background(), sellerID, dto.SubmitSaleRequest{
		Lines: []dto.SaleLineRequest{{ProductID: "p1", Quantity: qty(1)}},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, out.ExternalID)
	assert.Equal(t, sales.DefaultDeviceTag, out.DeviceTag)
}

// Cualquier línea inválida rechaza la venta completa sin efectos.
func TestSubmit_ValidacionAtomica(t *testing.T) {
	uc, store := newSyncEngine(t, inventory.Config{}, trackedProduct("p1", 10, 3, 100))

	_, err := uc.Submit(context.Background(), sellerID, dto.SubmitSaleRequest{
		ExternalID: "venta-001",
		Lines: []dto.SaleLineRequest{
			{ProductID: "p1", Quantity: qty(2)},
			{ProductID: "p1", Quantity: qty(0)}, // cantidad inválida
		},
	})
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	assert.Empty(t, store.sales)
	assert.Empty(t, store.movements)
	assert.Equal(t, int64(10), *store.products["p1"].Stock)
}

func TestSubmit_ProductoInexistenteRevierteTodo(t *testing.T) {
	uc, store := newSyncEngine(t, inventory.Config{}, trackedProduct("p1", 10, 3, 100))

	_, err := uc.Submit(context.Background(), sellerID, dto.SubmitSaleRequest{
		ExternalID: "venta-001",
		Lines: []dto.SaleLineRequest{
			{ProductID: "p1", Quantity: qty(2)},
			{ProductID: "fantasma", Quantity: qty(1)},
		},
	})
	require.ErrorIs(t, err, domain.ErrNotFound)

	// Rollback: la primera línea ya había descontado stock dentro de la tx.
	assert.Empty(t, store.sales)
	assert.Empty(t, store.movements)
	assert.Equal(t, int64(10), *store.products["p1"].Stock)
}

// Los productos VOLATILE participan de la venta (línea + total) pero quedan
// fuera del ledger; su precio de catálogo se actualiza al último usado.
func TestSubmit_VolatileFueraDelLedger(t *testing.T) {
	uc, store := newSyncEngine(t, inventory.Config{},
		trackedProduct("p1", 10, 3, 100),
		volatileProduct("v1"),
	)

	out, err := uc.Submit(context.Background(), sellerID, dto.SubmitSaleRequest{
		ExternalID: "venta-001",
		Lines: []dto.SaleLineRequest{
			{ProductID: "p1", Quantity: qty(1)},
			{ProductID: "v1", Quantity: qty(2), UnitPrice: price(75)},
		},
	})
	require.NoError(t, err)

	assert.True(t, out.TotalAmount.Equal(decimal.NewFromInt(250)), "total %s", out.TotalAmount)
	require.Len(t, out.Lines, 2, "la línea volátil sí forma parte de la venta")

	// Pero el historial de stock solo registra la línea TRACKED.
	require.Len(t, store.movements, 1)
	assert.Equal(t, "p1", store.movements[0].ProductID)
	assert.Nil(t, store.products["v1"].Stock)
	assert.True(t, store.products["v1"].UnitPrice.Equal(decimal.NewFromInt(75)),
		"el precio sugerido del volátil se actualiza al último usado")
}

func TestSubmit_VolatileSinPrecioEsError(t *testing.T) {
	uc, store := newSyncEngine(t, inventory.Config{}, volatileProduct("v1"))

	_, err := uc.Submit(context.Background(), sellerID, dto.SubmitSaleRequest{
		ExternalID: "venta-001",
		Lines:      []dto.SaleLineRequest{{ProductID: "v1", Quantity: qty(1)}},
	})
	require.ErrorIs(t, err, domain.ErrInvalidInput,
		"un volátil no tiene precio de catálogo de respaldo")
	assert.Empty(t, store.sales)
}

// La terminal puede mandar el producto inline: si el SKU no existe se crea
// al vuelo (TRACKED por defecto) y la venta continúa.
func TestSubmit_ProductoInlineSeCreaAlVuelo(t *testing.T) {
	uc, store := newSyncEngine(t, inventory.Config{})

	out, err := uc.Submit(context.Background(), sellerID, dto.SubmitSaleRequest{
		ExternalID: "venta-001",
		Lines: []dto.SaleLineRequest{{
			Product:   &dto.InlineProductData{SKU: "NUEVO-1", Name: "Paracetamol 500mg"},
			Quantity:  qty(3),
			UnitPrice: price(20),
		}},
	})
	require.NoError(t, err)
	assert.True(t, out.TotalAmount.Equal(decimal.NewFromInt(60)))

	created, err := (&fakeProductRepo{store}).GetBySKU("NUEVO-1")
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, entity.TrackingTracked, created.Tracking)
	require.NotNil(t, created.Stock)
	assert.Equal(t, int64(-3), *created.Stock,
		"vender un producto recién creado deja balance negativo, no error")
}

// La venta permite dejar el stock negativo por defecto: lo vendido ya salió
// por la puerta aunque el catálogo dijera otra cosa.
func TestSubmit_PermiteSobreventa(t *testing.T) {
	uc, store := newSyncEngine(t, inventory.Config{}, trackedProduct("p1", 2, 3, 100))

	_, err := uc.Submit(context.Background(), sellerID, dto.SubmitSaleRequest{
		ExternalID: "venta-001",
		Lines:      []dto.SaleLineRequest{{ProductID: "p1", Quantity: qty(5)}},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(-3), *store.products["p1"].Stock)
}

func TestSubmit_ModoEstrictoRechazaSobreventa(t *testing.T) {
	uc, store := newSyncEngine(t, inventory.Config{RejectNegativeStock: true},
		trackedProduct("p1", 2, 3, 100))

	_, err := uc.Submit(context.Background(), sellerID, dto.SubmitSaleRequest{
		ExternalID: "venta-001",
		Lines:      []dto.SaleLineRequest{{ProductID: "p1", Quantity: qty(5)}},
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	assert.Empty(t, store.sales, "la venta entera se rechaza, no solo la línea")
	assert.Equal(t, int64(2), *store.products["p1"].Stock)
}

// La venta que deja el balance bajo el umbral dispara la alerta tras commit.
func TestSubmit_DisparaAlertaDeBajoStock(t *testing.T) {
	uc, store := newSyncEngine(t, inventory.Config{}, trackedProduct("p1", 10, 5, 100))

	_, err := uc.Submit(context.Background(), sellerID, dto.SubmitSaleRequest{
		ExternalID: "venta-001",
		Lines:      []dto.SaleLineRequest{{ProductID: "p1", Quantity: qty(9)}},
	})
	require.NoError(t, err)

	alert, ok := store.alerts["p1"]
	require.True(t, ok, "debe existir alerta activa para el producto")
	assert.Equal(t, entity.SeverityCritical, alert.Severity, "1/5 = 0.2 es critical")
}

// Cantidades fraccionarias en líneas TRACKED: el ledger descuenta la parte
// entera; una fracción pura no genera movimiento.
func TestSubmit_CantidadFraccionariaTruncaParaElLedger(t *testing.T) {
	uc, store := newSyncEngine(t, inventory.Config{}, trackedProduct("p1", 10, 3, 100))

	out, err := uc.Submit(context.Background(), sellerID, dto.SubmitSaleRequest{
		ExternalID: "venta-001",
		Lines: []dto.SaleLineRequest{{
			ProductID: "p1",
			Quantity:  decimal.NewFromFloat(2.5),
		}},
	})
	require.NoError(t, err)

	// El total usa la cantidad exacta; el stock solo la parte entera.
	assert.True(t, out.TotalAmount.Equal(decimal.NewFromInt(250)), "total %s", out.TotalAmount)
	require.Len(t, store.movements, 1)
	assert.Equal(t, int64(-2), store.movements[0].Delta)
	assert.Equal(t, int64(8), *store.products["p1"].Stock)
}

func TestSubmit_SinLineasEsError(t *testing.T) {
	uc, _ := newSyncEngine(t, inventory.Config{})

	_, err := uc.Submit(context.Background(), sellerID, dto.SubmitSaleRequest{ExternalID: "x"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSubmit_SinActorEsUnauthorized(t *testing.T) {
	uc, _ := newSyncEngine(t, inventory.Config{}, trackedProduct("p1", 10, 3, 100))

	_, err := uc.Submit(context.Background(), "", dto.SubmitSaleRequest{
		ExternalID: "venta-001",
		Lines:      []dto.SaleLineRequest{{ProductID: "p1", Quantity: qty(1)}},
	})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}
