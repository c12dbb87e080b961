package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/crm-api/internal/application/dto"
	"github.com/jhoicas/crm-api/internal/application/usecase"
	"github.com/jhoicas/crm-api/internal/domain"
	"github.com/jhoicas/crm-api/internal/domain/entity"
	"github.com/jhoicas/crm-api/internal/testutil/memrepo"
	"github.com/jhoicas/crm-api/pkg/validation"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func ptr[T any](v T) *T { return &v }

func newProducts(store *memrepo.Store) *usecase.ProductUseCase {
	return usecase.NewProductUseCase(store.Products(), store.Movements(), store.Sales(), store.PriceTiers(), validation.New("CO"))
}

// ──────────────────────────────────────────────────────────────────────────────
// Productos
// ──────────────────────────────────────────────────────────────────────────────

func TestProduct_CreateCodigoUnico(t *testing.T) {
	store := memrepo.New()
	uc := newProducts(store)
	ctx := context.Background()

	p, err := uc.Create(ctx, dto.CreateProductRequest{Code: " P-1 ", Name: "Protector Solar", Category: "Dermatología", SellPrice: d("30")})
	require.NoError(t, err)
	assert.Equal(t, "P-1", p.Code)
	assert.Nil(t, p.AvgPurchasePrice)
	assert.Contains(t, p.SearchKey, "dermatologia")

	_, err = uc.Create(ctx, dto.CreateProductRequest{Code: "p-1", Name: "Otro"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	_, err = uc.Create(ctx, dto.CreateProductRequest{Code: "P-2", Name: "", SellPrice: d("-1")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestProduct_UpdateNoTocaPromedio(t *testing.T) {
	store := memrepo.New()
	uc := newProducts(store)
	ctx := context.Background()

	p, err := uc.Create(ctx, dto.CreateProductRequest{Code: "P-1", Name: "Gel", SellPrice: d("10")})
	require.NoError(t, err)
	avg := d("4.250")
	require.NoError(t, store.Products().UpdateAvgPurchasePrice(ctx, p.ID, &avg))

	updated, err := uc.Update(ctx, p.ID, dto.UpdateProductRequest{Name: ptr("Gel frío"), SellPrice: ptr(d("12"))})
	require.NoError(t, err)
	assert.Equal(t, "Gel frío", updated.Name)

	got, err := uc.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, got.SellPrice.Equal(d("12")))
	require.NotNil(t, got.AvgPurchasePrice)
	assert.True(t, got.AvgPurchasePrice.Equal(avg))
}

func TestProduct_ListBusquedaSinTildesYArchivados(t *testing.T) {
	store := memrepo.New()
	uc := newProducts(store)
	ctx := context.Background()

	a, _ := uc.Create(ctx, dto.CreateProductRequest{Code: "A", Name: "Jabón Neutro"})
	_, _ = uc.Create(ctx, dto.CreateProductRequest{Code: "B", Name: "Champú"})
	_, err := uc.SetArchived(ctx, a.ID, true)
	require.NoError(t, err)

	list, page, err := uc.List(ctx, "JABON", "", false, dto.PageRequest{})
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.Equal(t, 20, page.Limit)

	list, _, err = uc.List(ctx, "JABON", "", true, dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, list[0].Archived)
}

func TestProduct_DeleteConHistoriaEsConflicto(t *testing.T) {
	store := memrepo.New()
	uc := newProducts(store)
	ctx := context.Background()

	p, _ := uc.Create(ctx, dto.CreateProductRequest{Code: "A", Name: "Crema"})
	require.NoError(t, store.Movements().Create(ctx, &entity.InventoryMovement{
		ID: "m1", ProductID: p.ID, Type: entity.MovementTypeIN, Quantity: d("1"), CreatedAt: time.Now(),
	}))
	assert.ErrorIs(t, uc.Delete(ctx, p.ID), domain.ErrInUse)

	q, _ := uc.Create(ctx, dto.CreateProductRequest{Code: "B", Name: "Loción"})
	require.NoError(t, uc.Delete(ctx, q.ID))
	_, err := uc.GetByID(ctx, q.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPriceTiers_QuoteEscalones(t *testing.T) {
	store := memrepo.New()
	uc := newProducts(store)
	ctx := context.Background()
	p, _ := uc.Create(ctx, dto.CreateProductRequest{Code: "A", Name: "Guantes", SellPrice: d("10")})

	_, err := uc.UpsertPriceTier(ctx, p.ID, dto.PriceTierRequest{MinQty: d("10"), UnitPrice: d("9")})
	require.NoError(t, err)
	_, err = uc.UpsertPriceTier(ctx, p.ID, dto.PriceTierRequest{MinQty: d("50"), UnitPrice: d("8")})
	require.NoError(t, err)
	_, err = uc.UpsertPriceTier(ctx, p.ID, dto.PriceTierRequest{MinQty: d("10"), UnitPrice: d("8.5")})
	require.NoError(t, err)

	_, err = uc.UpsertPriceTier(ctx, p.ID, dto.PriceTierRequest{MinQty: d("0.0004"), UnitPrice: d("8")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	tiers, err := uc.ListPriceTiers(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, tiers, 2, "(producto, min_qty) es único")

	q, err := uc.Quote(ctx, p.ID, d("5"))
	require.NoError(t, err)
	assert.True(t, q.UnitPrice.Equal(d("10")))
	assert.Nil(t, q.TierMin)

	q, err = uc.Quote(ctx, p.ID, d("20"))
	require.NoError(t, err)
	assert.True(t, q.UnitPrice.Equal(d("8.5")))
	assert.True(t, q.Total.Equal(d("170")))

	q, err = uc.Quote(ctx, p.ID, d("50"))
	require.NoError(t, err)
	assert.True(t, q.UnitPrice.Equal(d("8")))

	_, err = uc.Quote(ctx, p.ID, d("0"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	require.NoError(t, uc.DeletePriceTier(ctx, p.ID, d("50")))
	assert.ErrorIs(t, uc.DeletePriceTier(ctx, p.ID, d("50")), domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Clientes, proveedores y vendedores
// ──────────────────────────────────────────────────────────────────────────────

func TestClient_CRUDYBloqueoPorVentas(t *testing.T) {
	store := memrepo.New()
	uc := usecase.NewClientUseCase(store.Clients(), store.Sales(), validation.New("CO"))
	ctx := context.Background()

	c, err := uc.Create(ctx, dto.ClientRequest{Name: "Óptica Perú", Email: "INFO@optica.co", Phone: "300 123 4567"})
	require.NoError(t, err)
	assert.Equal(t, "info@optica.co", c.Email)
	assert.Equal(t, "+573001234567", c.Phone)

	_, err = uc.Create(ctx, dto.ClientRequest{Name: "X", Phone: "123"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	list, _, err := uc.List(ctx, "optica peru", dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, store.Sales().Create(ctx, &entity.Sale{ID: "s1", ClientID: c.ID, ProductID: "p", Quantity: d("1")}))
	assert.ErrorIs(t, uc.Delete(ctx, c.ID), domain.ErrInUse)

	updated, err := uc.Update(ctx, c.ID, dto.ClientRequest{Name: "Óptica Lima", City: "Lima"})
	require.NoError(t, err)
	assert.Equal(t, "Lima", updated.City)

	assert.ErrorIs(t, uc.Delete(ctx, "no-existe"), domain.ErrNotFound)
}

func TestSupplier_BloqueoPorLotes(t *testing.T) {
	store := memrepo.New()
	uc := usecase.NewSupplierUseCase(store.Suppliers(), store.Batches(), validation.New("CO"))
	ctx := context.Background()

	s, err := uc.Create(ctx, dto.SupplierRequest{Name: "Laboratorios Andinos"})
	require.NoError(t, err)
	free, err := uc.Create(ctx, dto.SupplierRequest{Name: "Distribuidora Sur"})
	require.NoError(t, err)

	_, err = store.Batches().UpsertActive(ctx, &entity.Batch{
		ID: "b1", ProductID: "p1", LotNumber: "L1", SupplierID: &s.ID, QtyReceived: d("1"), PurchasePrice: d("1"),
	}, "")
	require.NoError(t, err)

	assert.ErrorIs(t, uc.Delete(ctx, s.ID), domain.ErrInUse)
	require.NoError(t, uc.Delete(ctx, free.ID))
}

func TestSalesperson_DesactivarYBorrar(t *testing.T) {
	store := memrepo.New()
	uc := usecase.NewSalespersonUseCase(store.Salespersons(), store.Sales(), validation.New("CO"))
	ctx := context.Background()

	sp, err := uc.Create(ctx, dto.SalespersonRequest{Name: "Marta", CommissionRate: d("5")})
	require.NoError(t, err)
	assert.True(t, sp.Active)

	_, err = uc.Create(ctx, dto.SalespersonRequest{Name: "Pedro", CommissionRate: d("120")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	updated, err := uc.Update(ctx, sp.ID, dto.SalespersonRequest{Name: "Marta", CommissionRate: d("5"), Active: ptr(false)})
	require.NoError(t, err)
	assert.False(t, updated.Active)

	active, _, err := uc.List(ctx, true, dto.PageRequest{})
	require.NoError(t, err)
	assert.Empty(t, active)

	require.NoError(t, uc.Delete(ctx, sp.ID))
}

func TestUser_UpdateRolesYEstado(t *testing.T) {
	store := memrepo.New()
	uc := usecase.NewUserUseCase(store.Users(), validation.New("CO"))
	ctx := context.Background()
	require.NoError(t, store.Users().Create(ctx, &entity.User{ID: "u1", Email: "a@b.co", Active: true, Roles: []string{"seller"}}))

	u, err := uc.Update(ctx, "admin", "u1", dto.UpdateUserRequest{Roles: []string{"DOCTOR"}, Active: ptr(false)})
	require.NoError(t, err)
	assert.Equal(t, []string{"doctor"}, u.Roles)
	assert.False(t, u.Active)

	_, err = uc.Update(ctx, "u1", "u1", dto.UpdateUserRequest{Active: ptr(false)})
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = uc.Update(ctx, "admin", "u1", dto.UpdateUserRequest{Roles: []string{"root"}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Update(ctx, "admin", "nadie", dto.UpdateUserRequest{})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
