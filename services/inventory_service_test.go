package services

import (
	"abadas_server/lib"
	"abadas_server/structs/tables"
	"context"
	"testing"

	"github.com/MonkyMars/gecho"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type variantKey struct {
	productID int64
	size      string
	color     string
}

type fakeInventoryStore struct {
	products     map[int64]*tables.Product
	rows         map[variantKey]*tables.ProductStock
	statusWrites []tables.StockStatus
}

func newFakeInventoryStore(productIDs ...int64) *fakeInventoryStore {
	s := &fakeInventoryStore{
		products: map[int64]*tables.Product{},
		rows:     map[variantKey]*tables.ProductStock{},
	}
	for _, id := range productIDs {
		s.products[id] = &tables.Product{ID: id, StockStatus: tables.StockStatusOutOfStock}
	}
	return s
}

func (s *fakeInventoryStore) sum(productID int64) int64 {
	var total int64
	for k, r := range s.rows {
		if k.productID == productID {
			total += r.Quantity
		}
	}
	return total
}

func (s *fakeInventoryStore) WithProductLock(ctx context.Context, productID int64, fn func(ctx context.Context, tx InventoryTx, product *tables.Product) error) error {
	product, ok := s.products[productID]
	if !ok {
		return lib.ErrNotFound
	}
	return fn(ctx, &fakeInventoryTx{store: s}, product)
}

func (s *fakeInventoryStore) TotalStock(ctx context.Context, productID int64) (int64, error) {
	return s.sum(productID), nil
}

func (s *fakeInventoryStore) VariantRows(ctx context.Context, productID int64) ([]tables.ProductStock, error) {
	var out []tables.ProductStock
	for k, r := range s.rows {
		if k.productID == productID {
			out = append(out, *r)
		}
	}
	return out, nil
}

type fakeInventoryTx struct {
	store *fakeInventoryStore
}

func (t *fakeInventoryTx) UpsertQuantity(ctx context.Context, row *tables.ProductStock) error {
	clone := *row
	t.store.rows[variantKey{row.ProductID, row.Size, row.Color}] = &clone
	return nil
}

func (t *fakeInventoryTx) AdjustQuantity(ctx context.Context, productID int64, size, color string, delta int64) (int64, error) {
	r, ok := t.store.rows[variantKey{productID, size, color}]
	if !ok {
		return 0, nil
	}
	r.Quantity = max(r.Quantity+delta, 0)
	return 1, nil
}

func (t *fakeInventoryTx) InsertRow(ctx context.Context, row *tables.ProductStock) error {
	k := variantKey{row.ProductID, row.Size, row.Color}
	if _, exists := t.store.rows[k]; exists {
		return lib.ErrConflict
	}
	clone := *row
	t.store.rows[k] = &clone
	return nil
}

func (t *fakeInventoryTx) SumQuantities(ctx context.Context, productID int64) (int64, error) {
	return t.store.sum(productID), nil
}

func (t *fakeInventoryTx) SetStockStatus(ctx context.Context, productID int64, status tables.StockStatus) error {
	t.store.products[productID].StockStatus = status
	t.store.statusWrites = append(t.store.statusWrites, status)
	return nil
}

func newInventoryFixture(productIDs ...int64) (*InventoryService, *fakeInventoryStore) {
	store := newFakeInventoryStore(productIDs...)
	return NewInventoryService(gecho.NewDefaultLogger(), store), store
}

func TestSetQuantityCreatesVariantAndStatus(t *testing.T) {
	svc, store := newInventoryFixture(1)

	row, err := svc.SetQuantity(context.Background(), 1, "M", "Black", 5)
	require.NoError(t, err)
	assert.Equal(t, int64(5), row.Quantity)

	// The derived field follows the row sum in the same call.
	assert.Equal(t, tables.StockStatusInStock, store.products[1].StockStatus)

	total, err := svc.TotalStock(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
}

func TestSetQuantityClampsNegative(t *testing.T) {
	svc, store := newInventoryFixture(1)

	row, err := svc.SetQuantity(context.Background(), 1, "M", "Black", -3)
	require.NoError(t, err)
	assert.Equal(t, int64(0), row.Quantity)
	assert.Equal(t, tables.StockStatusOutOfStock, store.products[1].StockStatus)
}

func TestSetQuantityIdempotent(t *testing.T) {
	svc, store := newInventoryFixture(1)

	_, err := svc.SetQuantity(context.Background(), 1, "M", "Black", 5)
	require.NoError(t, err)
	_, err = svc.SetQuantity(context.Background(), 1, "M", "Black", 5)
	require.NoError(t, err)

	// One row per (product, size, color), not one per call.
	assert.Len(t, store.rows, 1)
	assert.Equal(t, int64(5), store.rows[variantKey{1, "M", "Black"}].Quantity)

	// The status only got persisted when it actually changed.
	assert.Equal(t, []tables.StockStatus{tables.StockStatusInStock}, store.statusWrites)
}

func TestSetQuantityStatusFollowsVariantSum(t *testing.T) {
	svc, store := newInventoryFixture(1)

	_, err := svc.SetQuantity(context.Background(), 1, "M", "Black", 2)
	require.NoError(t, err)
	_, err = svc.SetQuantity(context.Background(), 1, "L", "Black", 1)
	require.NoError(t, err)
	assert.Len(t, store.rows, 2)

	// Zeroing one variant keeps the product in stock while the other holds.
	_, err = svc.SetQuantity(context.Background(), 1, "M", "Black", 0)
	require.NoError(t, err)
	assert.Equal(t, tables.StockStatusInStock, store.products[1].StockStatus)

	_, err = svc.SetQuantity(context.Background(), 1, "L", "Black", 0)
	require.NoError(t, err)
	assert.Equal(t, tables.StockStatusOutOfStock, store.products[1].StockStatus)
}

func TestSetQuantityUnknownProduct(t *testing.T) {
	svc, _ := newInventoryFixture()

	_, err := svc.SetQuantity(context.Background(), 99, "M", "Black", 5)
	assert.ErrorIs(t, err, lib.ErrNotFound)
}

func TestApplyDeltaFloorsAtZero(t *testing.T) {
	svc, store := newInventoryFixture(1)

	_, err := svc.SetQuantity(context.Background(), 1, "M", "Black", 2)
	require.NoError(t, err)

	require.NoError(t, svc.ApplyDelta(context.Background(), 1, "M", "Black", -5))
	assert.Equal(t, int64(0), store.rows[variantKey{1, "M", "Black"}].Quantity)
	assert.Equal(t, tables.StockStatusOutOfStock, store.products[1].StockStatus)
}

func TestApplyDeltaMissingRow(t *testing.T) {
	svc, store := newInventoryFixture(1)

	// Decrementing a variant that was never stocked is a no-op.
	require.NoError(t, svc.ApplyDelta(context.Background(), 1, "M", "Black", -2))
	assert.Empty(t, store.rows)

	// A positive delta creates the row.
	require.NoError(t, svc.ApplyDelta(context.Background(), 1, "M", "Black", 3))
	require.Len(t, store.rows, 1)
	assert.Equal(t, int64(3), store.rows[variantKey{1, "M", "Black"}].Quantity)
	assert.Equal(t, tables.StockStatusInStock, store.products[1].StockStatus)
}
