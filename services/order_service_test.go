package services

import (
	"abadas_server/config"
	"abadas_server/lib"
	"abadas_server/structs"
	"abadas_server/structs/tables"
	"context"
	"errors"
	"testing"

	"github.com/MonkyMars/gecho"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeOrderStore struct {
	orders map[int64]*tables.Order
	nextID int64
	getErr error // injected read failure
}

func newFakeOrderStore() *fakeOrderStore {
	return &fakeOrderStore{orders: map[int64]*tables.Order{}, nextID: 1}
}

func (f *fakeOrderStore) Insert(ctx context.Context, o *tables.Order) error {
	o.OrderID = f.nextID
	f.nextID++
	clone := *o
	f.orders[o.OrderID] = &clone
	return nil
}

func (f *fakeOrderStore) Get(ctx context.Context, orderID int64) (*tables.Order, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	o, ok := f.orders[orderID]
	if !ok {
		return nil, lib.ErrNotFound
	}
	clone := *o
	return &clone, nil
}

func (f *fakeOrderStore) UpdatePayment(ctx context.Context, o *tables.Order) error {
	stored, ok := f.orders[o.OrderID]
	if !ok {
		return lib.ErrNotFound
	}
	stored.OID = o.OID
	stored.AmountPaid = o.AmountPaid
	stored.PaymentStatus = o.PaymentStatus
	stored.PayIDProofURL = o.PayIDProofURL
	return nil
}

func (f *fakeOrderStore) CompareAndSetStatus(ctx context.Context, orderID int64, from, to tables.OrderStatus) (bool, error) {
	stored, ok := f.orders[orderID]
	if !ok || stored.Status != from {
		return false, nil
	}
	stored.Status = to
	return true, nil
}

type fakePayments struct {
	approvalURL string
	providerID  string
	captureErr  error
	captures    []string
}

func (f *fakePayments) CreatePayment(ctx context.Context, amountCents uint64, description, returnURL, cancelURL string) (string, string, error) {
	return f.approvalURL, f.providerID, nil
}

func (f *fakePayments) ExecutePayment(ctx context.Context, paymentID, payerID string) (string, error) {
	if f.captureErr != nil {
		return "", f.captureErr
	}
	f.captures = append(f.captures, paymentID)
	return "CAPTURE-" + paymentID, nil
}

type fakeNotifier struct {
	placed        int
	adminNotices  int
	statusChanges []tables.OrderStatus
}

func (f *fakeNotifier) OrderPlaced(o *tables.Order)     { f.placed++ }
func (f *fakeNotifier) AdminNewOrder(o *tables.Order)   { f.adminNotices++ }
func (f *fakeNotifier) OrderStatusChanged(o *tables.Order) {
	f.statusChanges = append(f.statusChanges, o.Status)
}

type inventoryCall struct {
	productID int64
	size      string
	color     string
	delta     int64
}

type fakeInventory struct {
	calls []inventoryCall
}

func (f *fakeInventory) ApplyDelta(ctx context.Context, productID int64, size, color string, delta int64) error {
	f.calls = append(f.calls, inventoryCall{productID, size, color, delta})
	return nil
}

type orderFixture struct {
	service   *OrderService
	store     *fakeOrderStore
	payments  *fakePayments
	notifier  *fakeNotifier
	inventory *fakeInventory
}

func newOrderFixture(t *testing.T) *orderFixture {
	t.Helper()
	f := &orderFixture{
		store:     newFakeOrderStore(),
		payments:  &fakePayments{approvalURL: "https://pay.example/approve", providerID: "PP-1"},
		notifier:  &fakeNotifier{},
		inventory: &fakeInventory{},
	}
	f.service = NewOrderService(gecho.NewDefaultLogger(), config.GetConfig(), nil,
		f.store, f.payments, f.notifier, f.inventory)
	return f
}

func validCheckout(method string) *structs.CheckoutRequest {
	return &structs.CheckoutRequest{
		ItemsJSON:      `{"id1_black_m": [2, "Tee", "20.00", "Black", "M", ""]}`,
		Amount:         "45.00",
		Name:           "Alex Doe",
		Email:          "alex@example.com",
		Address1:       "1 Main St",
		City:           "Sydney",
		State:          "NSW",
		ZipCode:        "2000",
		PaymentMethod:  method,
		ShippingMethod: "Standard",
		ShippingCost:   "5.00",
	}
}

func TestVerifyCheckoutAmount(t *testing.T) {
	items := []structs.OrderItem{
		{Code: "id1_a", ProductID: 1, Quantity: 2, Price: "20.00"},
		{Code: "id2_a", ProductID: 2, Quantity: 1, Price: "15.50"},
	}

	// 2*2000 + 1550 + 500 shipping = 6050
	require.NoError(t, VerifyCheckoutAmount(items, 500, 6050))
	assert.ErrorIs(t, VerifyCheckoutAmount(items, 500, 6000), lib.ErrAmountMismatch)
	assert.ErrorIs(t, VerifyCheckoutAmount(items, 0, 6050), lib.ErrAmountMismatch)

	bad := []structs.OrderItem{{Code: "id1_a", Quantity: 1, Price: "oops"}}
	assert.ErrorIs(t, VerifyCheckoutAmount(bad, 0, 100), lib.ErrAmountMismatch)
}

func TestCheckoutPayID(t *testing.T) {
	f := newOrderFixture(t)

	resp, err := f.service.Checkout(context.Background(), validCheckout("payid"), nil, "https://cdn/proof.jpg")
	require.NoError(t, err)
	assert.Equal(t, string(tables.OrderStatusPlaced), resp.Status)
	assert.Empty(t, resp.RedirectURL)

	order, err := f.store.Get(context.Background(), resp.OrderID)
	require.NoError(t, err)
	assert.Equal(t, tables.PaymentStatusPayID, order.PaymentStatus)
	assert.Equal(t, "https://cdn/proof.jpg", order.PayIDProofURL)
	assert.True(t, order.IsGuestOrder)

	// Customer receipt and admin notification, exactly once each.
	assert.Equal(t, 1, f.notifier.placed)
	assert.Equal(t, 1, f.notifier.adminNotices)
	assert.Empty(t, f.notifier.statusChanges)
}

func TestCheckoutNormalizesItemsSnapshot(t *testing.T) {
	f := newOrderFixture(t)

	// Some carts submit quantities as strings; the stored snapshot carries
	// them as numbers.
	req := validCheckout("payid")
	req.ItemsJSON = `{"id1_black_m": ["2", "Tee", "20.00", "Black", "M", ""]}`

	resp, err := f.service.Checkout(context.Background(), req, nil, "")
	require.NoError(t, err)

	order, err := f.store.Get(context.Background(), resp.OrderID)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id1_black_m": [2, "Tee", "20.00", "Black", "M", ""]}`, order.ItemsJSON)
}

func TestCheckoutPayPalRedirects(t *testing.T) {
	f := newOrderFixture(t)

	resp, err := f.service.Checkout(context.Background(), validCheckout("paypal"), nil, "")
	require.NoError(t, err)
	assert.Equal(t, "https://pay.example/approve", resp.RedirectURL)

	// No emails until the payment callback lands.
	assert.Equal(t, 0, f.notifier.placed)
	assert.Equal(t, 0, f.notifier.adminNotices)

	order, err := f.store.Get(context.Background(), resp.OrderID)
	require.NoError(t, err)
	assert.Equal(t, tables.OrderStatusPlaced, order.Status)
	assert.Empty(t, order.PaymentStatus)
}

func TestCheckoutRejectsAmountMismatch(t *testing.T) {
	f := newOrderFixture(t)

	req := validCheckout("payid")
	req.Amount = "10.00"

	_, err := f.service.Checkout(context.Background(), req, nil, "")
	assert.ErrorIs(t, err, lib.ErrAmountMismatch)
	assert.Empty(t, f.store.orders)
}

func TestCheckoutUnknownPaymentMethod(t *testing.T) {
	f := newOrderFixture(t)

	_, err := f.service.Checkout(context.Background(), validCheckout("bitcoin"), nil, "")
	assert.ErrorIs(t, err, lib.ErrUnknownPaymentMethod)

	// The order row still exists, unpaid.
	require.Len(t, f.store.orders, 1)
	assert.Equal(t, 0, f.notifier.placed)
}

func TestCapturePayPal(t *testing.T) {
	f := newOrderFixture(t)

	resp, err := f.service.Checkout(context.Background(), validCheckout("paypal"), nil, "")
	require.NoError(t, err)

	order, err := f.service.CapturePayPal(context.Background(), resp.OrderID, "PP-1", "PAYER-9")
	require.NoError(t, err)
	assert.Equal(t, tables.PaymentStatusPaid, order.PaymentStatus)
	assert.Equal(t, "PP-1", order.OID)
	assert.Equal(t, "45.00", order.AmountPaid)
	assert.Equal(t, []string{"PP-1"}, f.payments.captures)
	assert.Equal(t, 1, f.notifier.placed)
	assert.Equal(t, 1, f.notifier.adminNotices)

	// Second capture is refused before touching the provider again.
	_, err = f.service.CapturePayPal(context.Background(), resp.OrderID, "PP-1", "PAYER-9")
	assert.ErrorIs(t, err, lib.ErrPaymentFinalized)
	assert.Len(t, f.payments.captures, 1)
	assert.Equal(t, 1, f.notifier.placed)
}

func TestCapturePayPalUnknownOrder(t *testing.T) {
	f := newOrderFixture(t)

	_, err := f.service.CapturePayPal(context.Background(), 404, "PP-1", "PAYER-9")
	assert.ErrorIs(t, err, lib.ErrNotFound)
}

func TestApplyDirectCapture(t *testing.T) {
	f := newOrderFixture(t)

	resp, err := f.service.Checkout(context.Background(), validCheckout("paypal"), nil, "")
	require.NoError(t, err)

	order, err := f.service.ApplyDirectCapture(context.Background(), &structs.PaymentCaptureRequest{
		OrderID:       resp.OrderID,
		TransactionID: "TX-77",
		AmountPaid:    "45.00",
	})
	require.NoError(t, err)
	assert.Equal(t, tables.PaymentStatusSuccess, order.PaymentStatus)
	assert.Equal(t, "TX-77", order.OID)

	// No second order row was created.
	assert.Len(t, f.store.orders, 1)

	_, err = f.service.ApplyDirectCapture(context.Background(), &structs.PaymentCaptureRequest{
		OrderID:       resp.OrderID,
		TransactionID: "TX-78",
		AmountPaid:    "45.00",
	})
	assert.ErrorIs(t, err, lib.ErrPaymentFinalized)
}

func TestConfirmOrder(t *testing.T) {
	f := newOrderFixture(t)

	resp, err := f.service.Checkout(context.Background(), validCheckout("payid"), nil, "")
	require.NoError(t, err)
	f.notifier.placed = 0
	f.notifier.adminNotices = 0

	changed, err := f.service.ConfirmOrder(context.Background(), resp.OrderID)
	require.NoError(t, err)
	assert.True(t, changed)

	order, err := f.store.Get(context.Background(), resp.OrderID)
	require.NoError(t, err)
	assert.Equal(t, tables.OrderStatusConfirmed, order.Status)

	// Exactly one status email, and stock left the ledger.
	assert.Equal(t, []tables.OrderStatus{tables.OrderStatusConfirmed}, f.notifier.statusChanges)
	require.Len(t, f.inventory.calls, 1)
	assert.Equal(t, inventoryCall{1, "M", "Black", -2}, f.inventory.calls[0])

	// Confirming again is a no-op with no second email.
	changed, err = f.service.ConfirmOrder(context.Background(), resp.OrderID)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Len(t, f.notifier.statusChanges, 1)
	assert.Len(t, f.inventory.calls, 1)
}

func TestRejectOrder(t *testing.T) {
	f := newOrderFixture(t)

	resp, err := f.service.Checkout(context.Background(), validCheckout("payid"), nil, "")
	require.NoError(t, err)

	changed, err := f.service.RejectOrder(context.Background(), resp.OrderID)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, []tables.OrderStatus{tables.OrderStatusRejected}, f.notifier.statusChanges)

	// Rejection never touches inventory.
	assert.Empty(t, f.inventory.calls)

	// A rejected order cannot be confirmed afterwards.
	changed, err = f.service.ConfirmOrder(context.Background(), resp.OrderID)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Len(t, f.notifier.statusChanges, 1)
}

func TestConfirmOrderSurvivesReloadFailure(t *testing.T) {
	f := newOrderFixture(t)

	resp, err := f.service.Checkout(context.Background(), validCheckout("payid"), nil, "")
	require.NoError(t, err)

	// The status write lands but the follow-up read does not. The
	// transition still reports success; only the side effects are skipped.
	f.store.getErr = errors.New("connection reset")
	changed, err := f.service.ConfirmOrder(context.Background(), resp.OrderID)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, tables.OrderStatusConfirmed, f.store.orders[resp.OrderID].Status)
	assert.Empty(t, f.notifier.statusChanges)
	assert.Empty(t, f.inventory.calls)

	// A retry after the store recovers stays idempotent: no late email.
	f.store.getErr = nil
	changed, err = f.service.ConfirmOrder(context.Background(), resp.OrderID)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Empty(t, f.notifier.statusChanges)
}

func TestTransitionUnknownOrder(t *testing.T) {
	f := newOrderFixture(t)

	_, err := f.service.ConfirmOrder(context.Background(), 404)
	assert.ErrorIs(t, err, lib.ErrNotFound)
}
