package services

import (
	"abadas_server/database"
	"abadas_server/lib"
	"abadas_server/structs/tables"
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/uptrace/bun"
)

// InventoryStore is the persistence seam under the stock ledger. Mutations
// run through WithProductLock so a variant write and the stock-status
// recomputation see a consistent row set.
type InventoryStore interface {
	// WithProductLock locks the product row for update and runs fn inside
	// the same transaction. A missing product yields lib.ErrNotFound.
	WithProductLock(ctx context.Context, productID int64, fn func(ctx context.Context, tx InventoryTx, product *tables.Product) error) error
	TotalStock(ctx context.Context, productID int64) (int64, error)
	VariantRows(ctx context.Context, productID int64) ([]tables.ProductStock, error)
}

// InventoryTx is the slice of ledger operations available while the product
// row is held.
type InventoryTx interface {
	// UpsertQuantity writes the unique (product, size, color) row, replacing
	// the quantity if the row already exists.
	UpsertQuantity(ctx context.Context, row *tables.ProductStock) error
	// AdjustQuantity shifts an existing row by delta, flooring at zero, and
	// reports how many rows matched.
	AdjustQuantity(ctx context.Context, productID int64, size, color string, delta int64) (int64, error)
	InsertRow(ctx context.Context, row *tables.ProductStock) error
	SumQuantities(ctx context.Context, productID int64) (int64, error)
	SetStockStatus(ctx context.Context, productID int64, status tables.StockStatus) error
}

type bunInventoryStore struct {
	db *database.DB
}

func NewInventoryStore(db *database.DB) InventoryStore {
	return &bunInventoryStore{db: db}
}

func (s *bunInventoryStore) WithProductLock(ctx context.Context, productID int64, fn func(ctx context.Context, tx InventoryTx, product *tables.Product) error) error {
	return s.db.RunInTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		var product tables.Product
		err := tx.NewSelect().
			Model(&product).
			Where("? = ?", bun.Ident("id"), productID).
			For("UPDATE").
			Scan(ctx)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return lib.ErrNotFound
			}
			return lib.MapPgError(err)
		}
		return fn(ctx, &bunInventoryTx{tx: tx}, &product)
	})
}

func (s *bunInventoryStore) TotalStock(ctx context.Context, productID int64) (int64, error) {
	var total int64
	err := s.db.NewRaw(
		"SELECT COALESCE(SUM(quantity), 0) FROM product_stock WHERE product_id = ?",
		productID,
	).Scan(ctx, &total)
	if err != nil {
		return 0, lib.MapPgError(err)
	}
	return total, nil
}

func (s *bunInventoryStore) VariantRows(ctx context.Context, productID int64) ([]tables.ProductStock, error) {
	return database.Query[tables.ProductStock](s.db).
		Where("product_id", productID).
		OrderBy("size", database.ASC).
		OrderBy("color", database.ASC).
		All(ctx)
}

type bunInventoryTx struct {
	tx bun.Tx
}

func (t *bunInventoryTx) UpsertQuantity(ctx context.Context, row *tables.ProductStock) error {
	_, err := t.tx.NewInsert().
		Model(row).
		On("CONFLICT (product_id, size, color) DO UPDATE").
		Set("quantity = EXCLUDED.quantity").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	return lib.MapPgError(err)
}

func (t *bunInventoryTx) AdjustQuantity(ctx context.Context, productID int64, size, color string, delta int64) (int64, error) {
	res, err := t.tx.NewUpdate().
		Model((*tables.ProductStock)(nil)).
		Set("quantity = GREATEST(quantity + ?, 0)", delta).
		Set("updated_at = ?", time.Now()).
		Where("product_id = ? AND size = ? AND color = ?", productID, size, color).
		Exec(ctx)
	if err != nil {
		return 0, lib.MapPgError(err)
	}
	return res.RowsAffected()
}

func (t *bunInventoryTx) InsertRow(ctx context.Context, row *tables.ProductStock) error {
	_, err := t.tx.NewInsert().Model(row).Exec(ctx)
	return lib.MapPgError(err)
}

func (t *bunInventoryTx) SumQuantities(ctx context.Context, productID int64) (int64, error) {
	var total int64
	err := t.tx.NewRaw(
		"SELECT COALESCE(SUM(quantity), 0) FROM product_stock WHERE product_id = ?",
		productID,
	).Scan(ctx, &total)
	if err != nil {
		return 0, lib.MapPgError(err)
	}
	return total, nil
}

func (t *bunInventoryTx) SetStockStatus(ctx context.Context, productID int64, status tables.StockStatus) error {
	_, err := t.tx.NewUpdate().
		Model((*tables.Product)(nil)).
		Set("stock_status = ?", status).
		Set("updated_at = ?", time.Now()).
		Where("id = ?", productID).
		Exec(ctx)
	return lib.MapPgError(err)
}
