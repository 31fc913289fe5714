package structs

// CheckoutRequest carries the submitted cart plus customer and shipping
// fields. It arrives as a multipart form (the PayID path may attach a proof
// image), so fields are populated by hand rather than JSON-decoded.
type CheckoutRequest struct {
	ItemsJSON      string `json:"items_json" validate:"required,max=5000"`
	Amount         string `json:"amount" validate:"required"` // decimal string, total incl. shipping
	Name           string `json:"name" validate:"required,min=2,max=90"`
	Email          string `json:"email" validate:"required,email"`
	Phone          string `json:"phone" validate:"omitempty,max=100"`
	Address1       string `json:"address1" validate:"required,max=200"`
	Address2       string `json:"address2" validate:"omitempty,max=200"`
	City           string `json:"city" validate:"required,max=100"`
	State          string `json:"state" validate:"required,max=100"`
	ZipCode        string `json:"zip_code" validate:"required,max=100"`
	PaymentMethod  string `json:"payment_method" validate:"required"`
	ShippingMethod string `json:"shipping_method" validate:"omitempty,max=100"`
	ShippingCost   string `json:"shipping_cost" validate:"omitempty"` // decimal string
}

// PaymentCaptureRequest is the direct form-post variant of the provider
// callback: the provider posts transaction details instead of redirecting
// with query parameters.
type PaymentCaptureRequest struct {
	OrderID       int64  `json:"order_id" validate:"required"`
	TransactionID string `json:"transaction_id" validate:"required"`
	AmountPaid    string `json:"amount_paid" validate:"required"`
}

// CheckoutResponse reports where the checkout ended up: the PayID path
// completes in place, the PayPal path hands back an approval URL to follow.
type CheckoutResponse struct {
	OrderID     int64  `json:"order_id"`
	Status      string `json:"status"`
	RedirectURL string `json:"redirect_url,omitempty"`
}
