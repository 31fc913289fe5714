package services

import (
	"abadas_server/database"
	"abadas_server/lib"
	"abadas_server/structs"
	"abadas_server/structs/tables"
	"context"
	"encoding/json"
	"sort"

	"github.com/MonkyMars/gecho"
)

// TrendingLimit is how many ranked products the storefront shows.
const TrendingLimit = 6

// TrendingStore is the read surface the ranking runs over.
type TrendingStore interface {
	AllOrders(ctx context.Context) ([]tables.Order, error)
	ProductsByIDs(ctx context.Context, ids []int64) ([]tables.Product, error)
}

// TrendingCache holds a computed ranking for a short TTL.
type TrendingCache interface {
	GetTrendingIDs(ctx context.Context) ([]int64, bool)
	SetTrendingIDs(ctx context.Context, ids []int64)
}

// TrendingService ranks products by total quantity sold across all
// historical orders.
type TrendingService struct {
	logger *gecho.Logger
	store  TrendingStore
	cache  TrendingCache
}

func NewTrendingService(logger *gecho.Logger, store TrendingStore, cache TrendingCache) *TrendingService {
	return &TrendingService{
		logger: logger,
		store:  store,
		cache:  cache,
	}
}

// AccumulateQuantities walks every order's cart snapshot and sums quantity
// per embedded product id. Corruption is isolated: an order whose snapshot
// is not a JSON object is skipped whole, an entry whose tuple or code cannot
// be decoded is skipped alone. Nothing here aborts the computation.
func AccumulateQuantities(orders []tables.Order) map[int64]int64 {
	counts := make(map[int64]int64)
	for _, order := range orders {
		var m map[string][]json.RawMessage
		if err := json.Unmarshal([]byte(order.ItemsJSON), &m); err != nil {
			continue
		}
		for code, tuple := range m {
			item, err := structs.DecodeItemTuple(code, tuple)
			if err != nil {
				continue
			}
			if item.Quantity > 0 {
				counts[item.ProductID] += int64(item.Quantity)
			}
		}
	}
	return counts
}

// RankProductIDs orders product ids by accumulated quantity descending.
// Ties break by ascending product id: the accumulation is an unordered map,
// so the tie-break has to be an explicit, deterministic rule rather than an
// artifact of iteration order. Products with zero quantity never appear.
func RankProductIDs(counts map[int64]int64, limit int) []int64 {
	ids := make([]int64, 0, len(counts))
	for id, total := range counts {
		if total > 0 {
			ids = append(ids, id)
		}
	}

	sort.Slice(ids, func(i, j int) bool {
		if counts[ids[i]] != counts[ids[j]] {
			return counts[ids[i]] > counts[ids[j]]
		}
		return ids[i] < ids[j]
	})

	if len(ids) > limit {
		ids = ids[:limit]
	}
	return ids
}

// TopProducts returns the ranked trending products, fetched by id and
// reordered to the rank positions (the store returns rows in table order).
// Ids referencing deleted products drop out silently.
func (ts *TrendingService) TopProducts(ctx context.Context) ([]tables.Product, error) {
	ids, cached := ts.cache.GetTrendingIDs(ctx)
	if !cached {
		orders, err := ts.store.AllOrders(ctx)
		if err != nil {
			return nil, err
		}
		ids = RankProductIDs(AccumulateQuantities(orders), TrendingLimit)
		ts.cache.SetTrendingIDs(ctx, ids)
	}

	if len(ids) == 0 {
		return []tables.Product{}, nil
	}

	products, err := ts.store.ProductsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[int64]tables.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	ranked := make([]tables.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			ranked = append(ranked, p)
		}
	}
	return ranked, nil
}

// bunTrendingStore reads orders and products straight from the database.
type bunTrendingStore struct {
	db *database.DB
}

func NewTrendingStore(db *database.DB) TrendingStore {
	return &bunTrendingStore{db: db}
}

func (s *bunTrendingStore) AllOrders(ctx context.Context) ([]tables.Order, error) {
	orders, err := database.Query[tables.Order](s.db).All(ctx)
	if err != nil {
		return nil, lib.MapPgError(err)
	}
	return orders, nil
}

func (s *bunTrendingStore) ProductsByIDs(ctx context.Context, ids []int64) ([]tables.Product, error) {
	idArgs := make([]any, len(ids))
	for i, id := range ids {
		idArgs[i] = id
	}
	products, err := database.Query[tables.Product](s.db).
		WhereIn("id", idArgs).
		All(ctx)
	if err != nil {
		return nil, lib.MapPgError(err)
	}
	return products, nil
}
