package services

import (
	"abadas_server/database"
	"abadas_server/lib"
	"abadas_server/structs/tables"
	"context"
	"time"
)

// OrderStore is the persistence seam the order workflow runs against.
type OrderStore interface {
	Insert(ctx context.Context, o *tables.Order) error
	Get(ctx context.Context, orderID int64) (*tables.Order, error)
	UpdatePayment(ctx context.Context, o *tables.Order) error
	// CompareAndSetStatus transitions the order only if it is still in the
	// `from` state, reporting whether the write happened. This is the
	// storage-layer guard that keeps a racing confirm and reject from both
	// succeeding.
	CompareAndSetStatus(ctx context.Context, orderID int64, from, to tables.OrderStatus) (bool, error)
}

type bunOrderStore struct {
	db *database.DB
}

func NewOrderStore(db *database.DB) OrderStore {
	return &bunOrderStore{db: db}
}

func (s *bunOrderStore) Insert(ctx context.Context, o *tables.Order) error {
	now := time.Now()
	o.CreatedAt = now
	o.UpdatedAt = now
	_, err := s.db.NewInsert().Model(o).Returning("*").Exec(ctx)
	return lib.MapPgError(err)
}

func (s *bunOrderStore) Get(ctx context.Context, orderID int64) (*tables.Order, error) {
	order, err := database.Query[tables.Order](s.db).
		Where("order_id", orderID).
		First(ctx)
	if err != nil {
		return nil, lib.MapPgError(err)
	}
	return order, nil
}

// UpdatePayment persists only the payment-path fields; the rest of the order
// is immutable after checkout.
func (s *bunOrderStore) UpdatePayment(ctx context.Context, o *tables.Order) error {
	_, err := s.db.NewUpdate().
		Model((*tables.Order)(nil)).
		Set("oid = ?", o.OID).
		Set("amount_paid = ?", o.AmountPaid).
		Set("payment_status = ?", o.PaymentStatus).
		Set("payid_proof_url = ?", o.PayIDProofURL).
		Set("updated_at = ?", time.Now()).
		Where("order_id = ?", o.OrderID).
		Exec(ctx)
	return lib.MapPgError(err)
}

func (s *bunOrderStore) CompareAndSetStatus(ctx context.Context, orderID int64, from, to tables.OrderStatus) (bool, error) {
	res, err := s.db.NewUpdate().
		Model((*tables.Order)(nil)).
		Set("status = ?", to).
		Set("updated_at = ?", time.Now()).
		Where("order_id = ? AND status = ?", orderID, from).
		Exec(ctx)
	if err != nil {
		return false, lib.MapPgError(err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}
