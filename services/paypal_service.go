package services

import (
	"abadas_server/lib"
	"abadas_server/structs"
	"context"
	"fmt"

	"github.com/MonkyMars/gecho"
	"github.com/plutov/paypal/v4"
)

// PaymentProvider is the external hosted-payment collaborator: it initiates a
// transaction for an amount and later executes/captures it by its
// provider-side reference. Calls are blocking, single-attempt; failed calls
// surface to the user, who retries by resubmitting checkout.
type PaymentProvider interface {
	CreatePayment(ctx context.Context, amountCents uint64, description, returnURL, cancelURL string) (approvalURL string, providerID string, err error)
	ExecutePayment(ctx context.Context, paymentID, payerID string) (captureID string, err error)
}

// PayPalService implements PaymentProvider against the PayPal REST API.
type PayPalService struct {
	logger   *gecho.Logger
	cfg      *structs.Config
	client   *paypal.Client
	currency string
}

func NewPayPalService(logger *gecho.Logger, cfg *structs.Config) (*PayPalService, error) {
	apiBase := paypal.APIBaseSandBox
	if cfg.PayPal.Mode == "live" {
		apiBase = paypal.APIBaseLive
	}

	client, err := paypal.NewClient(cfg.PayPal.ClientID, cfg.PayPal.ClientSecret, apiBase)
	if err != nil {
		return nil, fmt.Errorf("failed to create paypal client: %w", err)
	}

	return &PayPalService{
		logger:   logger,
		cfg:      cfg,
		client:   client,
		currency: cfg.PayPal.Currency,
	}, nil
}

// CreatePayment initiates a hosted transaction and returns the approval URL
// the customer must be redirected to.
func (ps *PayPalService) CreatePayment(ctx context.Context, amountCents uint64, description, returnURL, cancelURL string) (string, string, error) {
	units := []paypal.PurchaseUnitRequest{
		{
			Amount: &paypal.PurchaseUnitAmount{
				Currency: ps.currency,
				Value:    lib.FormatCents(amountCents),
			},
			Description: description,
		},
	}

	order, err := ps.client.CreateOrder(ctx, paypal.OrderIntentCapture, units, nil, &paypal.ApplicationContext{
		ReturnURL: returnURL,
		CancelURL: cancelURL,
	})
	if err != nil {
		ps.logger.Error("PayPal order creation failed",
			gecho.Field("error", err),
			gecho.Field("amount", lib.FormatCents(amountCents)))
		return "", "", fmt.Errorf("%w: %v", lib.ErrPaymentFailed, err)
	}

	for _, link := range order.Links {
		if link.Rel == "approve" {
			return link.Href, order.ID, nil
		}
	}

	ps.logger.Error("PayPal order has no approval link", gecho.Field("provider_order_id", order.ID))
	return "", "", fmt.Errorf("%w: no approval link returned", lib.ErrPaymentFailed)
}

// ExecutePayment captures an approved transaction. payerID travels on the
// callback wire contract but the v2 capture call only needs the order id.
func (ps *PayPalService) ExecutePayment(ctx context.Context, paymentID, payerID string) (string, error) {
	capture, err := ps.client.CaptureOrder(ctx, paymentID, paypal.CaptureOrderRequest{})
	if err != nil {
		ps.logger.Error("PayPal capture failed",
			gecho.Field("error", err),
			gecho.Field("payment_id", paymentID),
			gecho.Field("payer_id", payerID))
		return "", fmt.Errorf("%w: %v", lib.ErrPaymentFailed, err)
	}

	if capture.Status != "COMPLETED" {
		ps.logger.Error("PayPal capture not completed",
			gecho.Field("payment_id", paymentID),
			gecho.Field("status", capture.Status))
		return "", fmt.Errorf("%w: capture status %s", lib.ErrPaymentFailed, capture.Status)
	}

	return capture.ID, nil
}
