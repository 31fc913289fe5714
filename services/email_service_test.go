package services

import (
	"abadas_server/structs/tables"
	"testing"

	"github.com/MonkyMars/gecho"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func payIDOrder() *tables.Order {
	return &tables.Order{
		OrderID:        7,
		ItemsJSON:      `{"id1_black_m": [2, "Tee", "20.00", "Black", "M", ""]}`,
		AmountCents:    4500,
		Name:           "Alex Doe",
		Email:          "alex@example.com",
		Phone:          "0400000000",
		Address1:       "1 Main St",
		City:           "Sydney",
		State:          "NSW",
		ZipCode:        "2000",
		ShippingMethod: "Standard",
		PaymentStatus:  tables.PaymentStatusPayID,
		PayIDProofURL:  "https://cdn.example/uploads/proofs/abc.jpg",
		Status:         tables.OrderStatusPlaced,
	}
}

func TestAdminEmailLinksPaymentProof(t *testing.T) {
	es := &EmailService{logger: gecho.NewDefaultLogger()}

	body, err := es.render(adminNewOrderTmpl, payIDOrder(), "", "")
	require.NoError(t, err)

	// The back office reviews the proof straight from the email.
	assert.Contains(t, body, `<a href="https://cdn.example/uploads/proofs/abc.jpg">payment proof</a>`)
	assert.Contains(t, body, "alex@example.com")
	assert.Contains(t, body, "1 Main St")
	assert.Contains(t, body, "$45.00")
}

func TestAdminEmailWithoutProof(t *testing.T) {
	es := &EmailService{logger: gecho.NewDefaultLogger()}

	order := payIDOrder()
	order.PaymentStatus = tables.PaymentStatusPaid
	order.PayIDProofURL = ""

	body, err := es.render(adminNewOrderTmpl, order, "", "")
	require.NoError(t, err)

	assert.NotContains(t, body, "payment proof")
	assert.Contains(t, body, tables.PaymentStatusPaid)
}

func TestStatusEmailRendersDecision(t *testing.T) {
	es := &EmailService{logger: gecho.NewDefaultLogger()}

	order := payIDOrder()
	order.Status = tables.OrderStatusConfirmed

	body, err := es.render(statusChangedTmpl, order, "Your order is confirmed", "On its way.")
	require.NoError(t, err)

	assert.Contains(t, body, "Your order is confirmed")
	assert.Contains(t, body, "Hi Alex Doe,")
	assert.Contains(t, body, "#7")
}
