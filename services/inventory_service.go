package services

import (
	"abadas_server/structs/tables"
	"context"
	"time"

	"github.com/MonkyMars/gecho"
)

// InventoryService owns the per-variant stock ledger. Every mutation path to
// inventory goes through it so the product's derived stock_status can never
// drift from the sum of its rows.
type InventoryService struct {
	logger *gecho.Logger
	store  InventoryStore
}

func NewInventoryService(logger *gecho.Logger, store InventoryStore) *InventoryService {
	return &InventoryService{
		logger: logger,
		store:  store,
	}
}

// SetQuantity creates or updates the unique (product, size, color) row and
// recomputes the parent product's stock status within the same transaction.
// Negative quantities are clamped to zero. The product row is locked first so
// concurrent variant writes serialize and the recomputation sees the final
// quantity.
func (is *InventoryService) SetQuantity(ctx context.Context, productID int64, size, color string, quantity int64) (*tables.ProductStock, error) {
	if quantity < 0 {
		quantity = 0
	}

	row := &tables.ProductStock{
		ProductID: productID,
		Size:      size,
		Color:     color,
		Quantity:  quantity,
		UpdatedAt: time.Now(),
	}

	err := is.store.WithProductLock(ctx, productID, func(ctx context.Context, tx InventoryTx, product *tables.Product) error {
		if err := tx.UpsertQuantity(ctx, row); err != nil {
			return err
		}
		return is.refreshStockStatus(ctx, tx, product)
	})
	if err != nil {
		return nil, err
	}

	is.logger.Info("Stock quantity set",
		gecho.Field("product_id", productID),
		gecho.Field("size", size),
		gecho.Field("color", color),
		gecho.Field("quantity", quantity))

	return row, nil
}

// ApplyDelta adjusts an existing variant row by delta, flooring at zero, and
// recomputes the product's stock status. A missing row is a no-op for
// negative deltas (nothing to decrement) and an insert for positive ones.
func (is *InventoryService) ApplyDelta(ctx context.Context, productID int64, size, color string, delta int64) error {
	return is.store.WithProductLock(ctx, productID, func(ctx context.Context, tx InventoryTx, product *tables.Product) error {
		affected, err := tx.AdjustQuantity(ctx, productID, size, color, delta)
		if err != nil {
			return err
		}
		if affected == 0 && delta > 0 {
			row := &tables.ProductStock{
				ProductID: productID,
				Size:      size,
				Color:     color,
				Quantity:  delta,
				UpdatedAt: time.Now(),
			}
			if err := tx.InsertRow(ctx, row); err != nil {
				return err
			}
		}

		return is.refreshStockStatus(ctx, tx, product)
	})
}

// TotalStock sums all variant rows for a product. No rows means zero.
func (is *InventoryService) TotalStock(ctx context.Context, productID int64) (int64, error) {
	return is.store.TotalStock(ctx, productID)
}

// VariantRows lists the stock rows for a product (admin stock view).
func (is *InventoryService) VariantRows(ctx context.Context, productID int64) ([]tables.ProductStock, error) {
	return is.store.VariantRows(ctx, productID)
}

// refreshStockStatus recomputes the derived field from the row sum and
// persists the product only when the value actually changed.
func (is *InventoryService) refreshStockStatus(ctx context.Context, tx InventoryTx, product *tables.Product) error {
	total, err := tx.SumQuantities(ctx, product.ID)
	if err != nil {
		return err
	}

	status := tables.StockStatusFor(total)
	if status == product.StockStatus {
		return nil
	}

	if err := tx.SetStockStatus(ctx, product.ID, status); err != nil {
		return err
	}

	is.logger.Info("Stock status recomputed",
		gecho.Field("product_id", product.ID),
		gecho.Field("total_stock", total),
		gecho.Field("stock_status", status))
	return nil
}
