package services

import (
	"abadas_server/database"
	"abadas_server/lib"
	"abadas_server/structs"
	"abadas_server/structs/tables"
	"context"
	"errors"
	"fmt"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
)

// OrderNotifier is the fire-and-forget email collaborator. Implementations
// log their own failures; nothing in the order workflow retries a send.
type OrderNotifier interface {
	OrderPlaced(o *tables.Order)
	AdminNewOrder(o *tables.Order)
	OrderStatusChanged(o *tables.Order)
}

// InventoryAdjuster is the slice of the inventory ledger the fulfillment
// workflow needs: decrementing ordered variants on confirmation.
type InventoryAdjuster interface {
	ApplyDelta(ctx context.Context, productID int64, size, color string, delta int64) error
}

type OrderService struct {
	logger    *gecho.Logger
	cfg       *structs.Config
	db        *database.DB
	store     OrderStore
	payments  PaymentProvider
	notifier  OrderNotifier
	inventory InventoryAdjuster
}

func NewOrderService(
	logger *gecho.Logger,
	cfg *structs.Config,
	db *database.DB,
	store OrderStore,
	payments PaymentProvider,
	notifier OrderNotifier,
	inventory InventoryAdjuster,
) *OrderService {
	return &OrderService{
		logger:    logger,
		cfg:       cfg,
		db:        db,
		store:     store,
		payments:  payments,
		notifier:  notifier,
		inventory: inventory,
	}
}

// VerifyCheckoutAmount recomputes the order total from the cart snapshot and
// compares it to the client-supplied amount. The client value is never
// trusted on its own.
func VerifyCheckoutAmount(items []structs.OrderItem, shippingCents, claimedCents uint64) error {
	var total uint64
	for _, item := range items {
		unit, err := lib.ParsePriceCents(item.Price)
		if err != nil {
			return fmt.Errorf("%w: line item %q", lib.ErrAmountMismatch, item.Code)
		}
		if item.Quantity < 0 {
			return fmt.Errorf("%w: line item %q has negative quantity", lib.ErrAmountMismatch, item.Code)
		}
		total += unit * uint64(item.Quantity)
	}
	total += shippingCents

	if total != claimedCents {
		return fmt.Errorf("%w: computed %s, claimed %s",
			lib.ErrAmountMismatch, lib.FormatCents(total), lib.FormatCents(claimedCents))
	}
	return nil
}

// Checkout turns a submitted cart into a PLACED order and dispatches to the
// selected payment path. The order row is created before any payment is
// confirmed for both paths: it records an intent to purchase, not a sale.
// No inventory moves here; stock is decremented at admin confirmation.
func (os *OrderService) Checkout(ctx context.Context, req *structs.CheckoutRequest, userID *uuid.UUID, proofURL string) (*structs.CheckoutResponse, error) {
	items, err := structs.ParseOrderItems(req.ItemsJSON)
	if err != nil {
		return nil, err
	}

	claimedCents, err := lib.ParsePriceCents(req.Amount)
	if err != nil {
		return nil, err
	}

	var shippingCents uint64
	if req.ShippingCost != "" {
		shippingCents, err = lib.ParsePriceCents(req.ShippingCost)
		if err != nil {
			return nil, err
		}
	}

	if err := VerifyCheckoutAmount(items, shippingCents, claimedCents); err != nil {
		os.logger.Warn("Checkout amount rejected",
			gecho.Field("error", err),
			gecho.Field("claimed", req.Amount))
		return nil, err
	}

	// Orders persist the snapshot re-encoded, not as submitted: quantities
	// come out as integers and every code embeds its product id.
	snapshot, err := structs.EncodeOrderItems(items)
	if err != nil {
		return nil, err
	}

	order := &tables.Order{
		ItemsJSON:         snapshot,
		AmountCents:       claimedCents,
		Name:              req.Name,
		Email:             req.Email,
		Phone:             req.Phone,
		Address1:          req.Address1,
		Address2:          req.Address2,
		City:              req.City,
		State:             req.State,
		ZipCode:           req.ZipCode,
		ShippingMethod:    req.ShippingMethod,
		ShippingCostCents: shippingCents,
		Status:            tables.OrderStatusPlaced,
		UserID:            userID,
		IsGuestOrder:      userID == nil,
	}
	if err := order.ValidateItemsJSON(); err != nil {
		return nil, err
	}

	if err := os.store.Insert(ctx, order); err != nil {
		os.logger.Error("Failed to create order", gecho.Field("error", err))
		return nil, err
	}

	os.logger.Info("Order placed",
		gecho.Field("order_id", order.OrderID),
		gecho.Field("amount", lib.FormatCents(order.AmountCents)),
		gecho.Field("payment_method", req.PaymentMethod),
		gecho.Field("guest", order.IsGuestOrder))

	switch req.PaymentMethod {
	case "paypal":
		return os.startPayPal(ctx, order)
	case "payid":
		return os.finishPayID(ctx, order, proofURL)
	default:
		// The order row exists but nothing finalizes it; the caller reports
		// the error and the order stays in PLACED/unpaid limbo.
		return nil, fmt.Errorf("%w: %q (order %d)", lib.ErrUnknownPaymentMethod, req.PaymentMethod, order.OrderID)
	}
}

// startPayPal initiates the hosted transaction. The order id rides along on
// the return URL so the callback can find the pending order again after the
// externally-initiated redirect.
func (os *OrderService) startPayPal(ctx context.Context, order *tables.Order) (*structs.CheckoutResponse, error) {
	returnURL := fmt.Sprintf("%s/orders/payment/success?order_id=%d", os.cfg.Server.ServerURL, order.OrderID)
	cancelURL := fmt.Sprintf("%s/orders/payment/cancel?order_id=%d", os.cfg.Server.ServerURL, order.OrderID)
	description := fmt.Sprintf("Order #%d", order.OrderID)

	approvalURL, providerID, err := os.payments.CreatePayment(ctx, order.AmountCents, description, returnURL, cancelURL)
	if err != nil {
		// The order stays PLACED/unpaid; the customer retries by
		// resubmitting checkout.
		os.logger.Error("Payment initiation failed",
			gecho.Field("error", err),
			gecho.Field("order_id", order.OrderID))
		return nil, err
	}

	os.logger.Info("Payment initiated",
		gecho.Field("order_id", order.OrderID),
		gecho.Field("provider_order_id", providerID))

	return &structs.CheckoutResponse{
		OrderID:     order.OrderID,
		Status:      string(order.Status),
		RedirectURL: approvalURL,
	}, nil
}

// finishPayID records the manual proof-of-payment path: the customer paid
// externally and an admin later inspects the proof before confirming.
func (os *OrderService) finishPayID(ctx context.Context, order *tables.Order, proofURL string) (*structs.CheckoutResponse, error) {
	order.PayIDProofURL = proofURL
	order.PaymentStatus = tables.PaymentStatusPayID

	if err := os.store.UpdatePayment(ctx, order); err != nil {
		os.logger.Error("Failed to record PayID payment",
			gecho.Field("error", err),
			gecho.Field("order_id", order.OrderID))
		return nil, err
	}

	os.notifier.OrderPlaced(order)
	os.notifier.AdminNewOrder(order)

	return &structs.CheckoutResponse{
		OrderID: order.OrderID,
		Status:  string(order.Status),
	}, nil
}

// CapturePayPal reconciles the provider callback with the pending order:
// execute the approved payment, record the provider reference, notify.
// Fires at most once per order.
func (os *OrderService) CapturePayPal(ctx context.Context, orderID int64, paymentID, payerID string) (*tables.Order, error) {
	order, err := os.store.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.PaymentConfirmed() {
		return nil, lib.ErrPaymentFinalized
	}

	if _, err := os.payments.ExecutePayment(ctx, paymentID, payerID); err != nil {
		// Order left unpaid in its last good state; not deleted.
		return nil, err
	}

	order.PaymentStatus = tables.PaymentStatusPaid
	order.OID = paymentID
	order.AmountPaid = lib.FormatCents(order.AmountCents)

	if err := os.store.UpdatePayment(ctx, order); err != nil {
		os.logger.Error("Failed to persist captured payment",
			gecho.Field("error", err),
			gecho.Field("order_id", orderID),
			gecho.Field("payment_id", paymentID))
		return nil, err
	}

	os.logger.Info("Payment captured",
		gecho.Field("order_id", orderID),
		gecho.Field("payment_id", paymentID))

	os.notifier.OrderPlaced(order)
	os.notifier.AdminNewOrder(order)

	return order, nil
}

// ApplyDirectCapture handles the provider posting transaction details
// directly instead of redirecting with query parameters. It updates the
// checkout-time order in place so each purchase stays a single record.
func (os *OrderService) ApplyDirectCapture(ctx context.Context, req *structs.PaymentCaptureRequest) (*tables.Order, error) {
	order, err := os.store.Get(ctx, req.OrderID)
	if err != nil {
		return nil, err
	}
	if order.PaymentConfirmed() {
		return nil, lib.ErrPaymentFinalized
	}

	order.OID = req.TransactionID
	order.AmountPaid = req.AmountPaid
	order.PaymentStatus = tables.PaymentStatusSuccess

	if err := os.store.UpdatePayment(ctx, order); err != nil {
		os.logger.Error("Failed to persist direct capture",
			gecho.Field("error", err),
			gecho.Field("order_id", req.OrderID),
			gecho.Field("transaction_id", req.TransactionID))
		return nil, err
	}

	os.notifier.OrderPlaced(order)
	os.notifier.AdminNewOrder(order)

	return order, nil
}

// ConfirmOrder advances PLACED → CONFIRMED. The compare-and-set makes the
// transition idempotent: confirming an already-decided order changes nothing
// and sends no email. Returns whether the transition happened.
func (os *OrderService) ConfirmOrder(ctx context.Context, orderID int64) (bool, error) {
	changed, err := os.transition(ctx, orderID, tables.OrderStatusConfirmed)
	if err != nil || !changed {
		return changed, err
	}

	// Stock leaves the ledger when the sale is confirmed, not at checkout.
	os.decrementInventory(ctx, orderID)
	return true, nil
}

// RejectOrder advances PLACED → REJECTED with the same idempotent guard.
func (os *OrderService) RejectOrder(ctx context.Context, orderID int64) (bool, error) {
	return os.transition(ctx, orderID, tables.OrderStatusRejected)
}

func (os *OrderService) transition(ctx context.Context, orderID int64, to tables.OrderStatus) (bool, error) {
	changed, err := os.store.CompareAndSetStatus(ctx, orderID, tables.OrderStatusPlaced, to)
	if err != nil {
		return false, err
	}
	if !changed {
		// Distinguish "already decided" from "no such order" for the operator.
		if _, err := os.store.Get(ctx, orderID); err != nil {
			return false, err
		}
		os.logger.Info("Status transition skipped, order already decided",
			gecho.Field("order_id", orderID),
			gecho.Field("target", to))
		return false, nil
	}

	order, err := os.store.Get(ctx, orderID)
	if err != nil {
		// The status write already committed; the reload only feeds the
		// notification email. Skip it rather than reporting a failure for a
		// transition that happened.
		os.logger.Error("Order status updated but reload failed, skipping notification",
			gecho.Field("error", err),
			gecho.Field("order_id", orderID),
			gecho.Field("status", to))
		return true, nil
	}

	os.logger.Info("Order status updated",
		gecho.Field("order_id", orderID),
		gecho.Field("status", to))

	os.notifier.OrderStatusChanged(order)
	return true, nil
}

// decrementInventory applies the confirmed order's line items to the stock
// ledger. Best effort: a variant that cannot be adjusted is logged and
// skipped, never blocking the confirmation itself.
func (os *OrderService) decrementInventory(ctx context.Context, orderID int64) {
	order, err := os.store.Get(ctx, orderID)
	if err != nil {
		os.logger.Error("Cannot load order for inventory decrement",
			gecho.Field("error", err),
			gecho.Field("order_id", orderID))
		return
	}

	items, err := order.Items()
	if err != nil {
		os.logger.Warn("Skipping inventory decrement, malformed items snapshot",
			gecho.Field("order_id", orderID))
		return
	}

	for _, item := range items {
		if item.Quantity <= 0 {
			continue
		}
		err := os.inventory.ApplyDelta(ctx, item.ProductID, item.Size, item.Color, -int64(item.Quantity))
		if err != nil && !errors.Is(err, lib.ErrNotFound) {
			os.logger.Error("Inventory decrement failed",
				gecho.Field("error", err),
				gecho.Field("order_id", orderID),
				gecho.Field("product_id", item.ProductID))
		}
	}
}

// GetOrder fetches one order for the admin detail view.
func (os *OrderService) GetOrder(ctx context.Context, orderID int64) (*tables.Order, error) {
	return os.store.Get(ctx, orderID)
}

// ListOrders returns orders for the back office, newest first, optionally
// filtered by fulfillment or payment status.
func (os *OrderService) ListOrders(ctx context.Context, status *tables.OrderStatus, paymentStatus *string, page, pageSize int) ([]tables.Order, database.Pagination, error) {
	query := database.Query[tables.Order](os.db)
	if status != nil {
		query = query.Where("status", *status)
	}
	if paymentStatus != nil {
		query = query.Where("payment_status", *paymentStatus)
	}
	query = query.OrderBy("created_at", database.DESC)

	result, err := database.Paginate(query, ctx, page, pageSize)
	if err != nil {
		return nil, database.Pagination{}, lib.MapPgError(err)
	}
	return result.Data, result.Pagination, nil
}

// OrdersForUser lists a customer's own orders, newest first.
func (os *OrderService) OrdersForUser(ctx context.Context, userID uuid.UUID) ([]tables.Order, error) {
	orders, err := database.Query[tables.Order](os.db).
		WhereRaw("user_id = ?", userID).
		OrderBy("created_at", database.DESC).
		All(ctx)
	if err != nil {
		return nil, lib.MapPgError(err)
	}
	return orders, nil
}
