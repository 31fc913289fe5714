package services

import (
	"abadas_server/structs/tables"
	"context"
	"testing"

	"github.com/MonkyMars/gecho"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTrendingStore struct {
	orders   []tables.Order
	products []tables.Product
}

func (f *fakeTrendingStore) AllOrders(ctx context.Context) ([]tables.Order, error) {
	return f.orders, nil
}

func (f *fakeTrendingStore) ProductsByIDs(ctx context.Context, ids []int64) ([]tables.Product, error) {
	want := make(map[int64]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var out []tables.Product
	for _, p := range f.products {
		if want[p.ID] {
			out = append(out, p)
		}
	}
	return out, nil
}

type fakeTrendingCache struct {
	ids    []int64
	loaded bool
	sets   int
}

func (f *fakeTrendingCache) GetTrendingIDs(ctx context.Context) ([]int64, bool) {
	return f.ids, f.loaded
}

func (f *fakeTrendingCache) SetTrendingIDs(ctx context.Context, ids []int64) {
	f.ids = ids
	f.loaded = true
	f.sets++
}

func orderWithItems(raw string) tables.Order {
	return tables.Order{ItemsJSON: raw}
}

func TestAccumulateQuantities(t *testing.T) {
	orders := []tables.Order{
		orderWithItems(`{"id1_black_m": [3, "Tee", "20.00", "Black", "M", ""]}`),
		orderWithItems(`{"id2_a": [5, "Hoodie", "45.00", "", "", ""]}`),
		orderWithItems(`{"id1_red_s": [2, "Tee", "20.00", "Red", "S", ""]}`),
	}

	counts := AccumulateQuantities(orders)
	assert.Equal(t, int64(5), counts[1])
	assert.Equal(t, int64(5), counts[2])
}

func TestAccumulateQuantitiesSkipsCorruption(t *testing.T) {
	orders := []tables.Order{
		// Whole snapshot unparseable: skipped entirely
		orderWithItems(`not json`),
		// One bad entry among good ones: only the bad entry is skipped
		orderWithItems(`{
			"id3_a": [2, "Cap", "15.00", "", "", ""],
			"badcode": [9, "Ghost", "1.00", "", "", ""],
			"id4_a": [1, "Sock", "5.00", "", "", ""]
		}`),
		// Zero and negative quantities contribute nothing
		orderWithItems(`{"id5_a": [0, "Belt", "9.00", "", "", ""], "id6_a": [-2, "Tie", "9.00", "", "", ""]}`),
	}

	counts := AccumulateQuantities(orders)
	assert.Equal(t, int64(2), counts[3])
	assert.Equal(t, int64(1), counts[4])
	assert.NotContains(t, counts, int64(5))
	assert.NotContains(t, counts, int64(6))
}

func TestRankProductIDs(t *testing.T) {
	counts := map[int64]int64{
		10: 7,
		3:  9,
		5:  7,
		8:  1,
		12: 0,
	}

	ids := RankProductIDs(counts, 6)
	// Descending count; equal counts break ties by ascending id; zero excluded.
	assert.Equal(t, []int64{3, 5, 10, 8}, ids)

	assert.Equal(t, []int64{3, 5}, RankProductIDs(counts, 2))
	assert.Empty(t, RankProductIDs(map[int64]int64{}, 6))
}

func TestTopProductsComputesAndCaches(t *testing.T) {
	store := &fakeTrendingStore{
		orders: []tables.Order{
			orderWithItems(`{"id1_a": [3, "Tee", "20.00", "", "", ""]}`),
			orderWithItems(`{"id2_a": [5, "Hoodie", "45.00", "", "", ""]}`),
			orderWithItems(`{"id1_b": [2, "Tee", "20.00", "", "", ""]}`),
		},
		products: []tables.Product{
			{ID: 1, Name: "Tee"},
			{ID: 2, Name: "Hoodie"},
		},
	}
	cache := &fakeTrendingCache{}
	ts := NewTrendingService(gecho.NewDefaultLogger(), store, cache)

	ranked, err := ts.TopProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, ranked, 2)

	// id1 and id2 both sold 5; the tie breaks to the lower id.
	assert.Equal(t, int64(1), ranked[0].ID)
	assert.Equal(t, int64(2), ranked[1].ID)
	assert.Equal(t, 1, cache.sets)

	// Second call hits the cache, not the store.
	store.orders = nil
	ranked, err = ts.TopProducts(context.Background())
	require.NoError(t, err)
	assert.Len(t, ranked, 2)
	assert.Equal(t, 1, cache.sets)
}

func TestTopProductsDropsDeletedProducts(t *testing.T) {
	store := &fakeTrendingStore{
		orders: []tables.Order{
			orderWithItems(`{"id1_a": [3, "Tee", "20.00", "", "", ""], "id99_a": [9, "Gone", "1.00", "", "", ""]}`),
		},
		products: []tables.Product{{ID: 1, Name: "Tee"}},
	}
	ts := NewTrendingService(gecho.NewDefaultLogger(), store, &fakeTrendingCache{})

	ranked, err := ts.TopProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, ranked, 1)
	assert.Equal(t, int64(1), ranked[0].ID)
}

func TestTopProductsEmpty(t *testing.T) {
	ts := NewTrendingService(gecho.NewDefaultLogger(), &fakeTrendingStore{}, &fakeTrendingCache{})

	ranked, err := ts.TopProducts(context.Background())
	require.NoError(t, err)
	assert.Empty(t, ranked)
}
