package tables

import (
	"abadas_server/structs"
	"encoding/json"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/google/uuid"
)

type OrderStatus string

const (
	OrderStatusPlaced    OrderStatus = "PLACED"
	OrderStatusConfirmed OrderStatus = "CONFIRMED"
	OrderStatusRejected  OrderStatus = "REJECTED"
)

// Payment status labels are free text on the wire, not an enum: the PayID
// path writes "PayID", the provider callback writes "Paid", the direct form
// post writes "Success".
const (
	PaymentStatusPayID   = "PayID"
	PaymentStatusPaid    = "Paid"
	PaymentStatusSuccess = "Success"
)

type Order struct {
	tableName struct{} `bun:"table:orders,alias:o"`
	OrderID   int64    `bun:"order_id,pk,autoincrement" json:"order_id"`

	// Cart snapshot, serialized line items (see structs.OrderItem).
	ItemsJSON   string `bun:"items_json,notnull" json:"items_json" validate:"required,max=5000"`
	AmountCents uint64 `bun:"amount_cents,notnull" json:"amount_cents"` // total including shipping

	// Customer contact and shipping address
	Name     string `bun:"name,notnull" json:"name" validate:"required,min=2,max=90"`
	Email    string `bun:"email,notnull" json:"email" validate:"required,email"`
	Phone    string `bun:"phone,notnull,default:''" json:"phone"`
	Address1 string `bun:"address1,notnull" json:"address1" validate:"required,max=200"`
	Address2 string `bun:"address2" json:"address2,omitempty" validate:"max=200"`
	City     string `bun:"city,notnull" json:"city" validate:"required,max=100"`
	State    string `bun:"state,notnull" json:"state" validate:"required,max=100"`
	ZipCode  string `bun:"zip_code,notnull" json:"zip_code" validate:"required,max=100"`

	ShippingMethod    string `bun:"shipping_method" json:"shipping_method,omitempty"`
	ShippingCostCents uint64 `bun:"shipping_cost_cents,notnull,default:0" json:"shipping_cost_cents"`

	// Payment metadata, filled in by exactly one of the two payment paths.
	OID           string `bun:"oid" json:"oid,omitempty"` // provider transaction id
	AmountPaid    string `bun:"amount_paid" json:"amount_paid,omitempty"`
	PaymentStatus string `bun:"payment_status" json:"payment_status,omitempty"`
	PayIDProofURL string `bun:"payid_proof_url" json:"payid_proof_url,omitempty"`

	// Fulfillment
	Status OrderStatus `bun:"status,notnull,default:'PLACED'" json:"status"`

	// Null user ⇒ guest order.
	UserID       *uuid.UUID `bun:"user_id,type:uuid" json:"user_id,omitempty"`
	IsGuestOrder bool       `bun:"is_guest_order,notnull,default:false" json:"is_guest_order"`

	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time `bun:"updated_at,notnull,default:current_timestamp" json:"updated_at"`
}

// Items decodes the cart snapshot strictly.
func (o *Order) Items() ([]structs.OrderItem, error) {
	return structs.ParseOrderItems(o.ItemsJSON)
}

// InvalidItemsPlaceholder is rendered wherever a snapshot fails to decode;
// a corrupt order must never abort a page or an email.
const InvalidItemsPlaceholder = "Invalid items format"

// FormattedItems renders the snapshot as an HTML detail block for admin views
// and order emails. Malformed snapshots yield the placeholder text.
func (o *Order) FormattedItems() template.HTML {
	items, err := o.Items()
	if err != nil {
		return template.HTML(template.HTMLEscapeString(InvalidItemsPlaceholder))
	}

	var b strings.Builder
	for _, item := range items {
		fmt.Fprintf(&b, `<div>
			<strong>Product Name:</strong> %s<br>
			<strong>Quantity:</strong> %d<br>
			<strong>Price:</strong> $%s<br>
			<strong>Color:</strong> %s<br>
			<strong>Size:</strong> %s<br>
			<img src="%s" alt="%s" style="width: 50px; height: 50px;"/><br><br>
		</div>`,
			template.HTMLEscapeString(item.Name),
			item.Quantity,
			template.HTMLEscapeString(item.Price),
			template.HTMLEscapeString(item.Color),
			template.HTMLEscapeString(item.Size),
			template.HTMLEscapeString(item.ImageURL),
			template.HTMLEscapeString(item.Name),
		)
	}
	return template.HTML(b.String())
}

// PaymentConfirmed reports whether one of the payment paths already ran.
func (o *Order) PaymentConfirmed() bool {
	return o.PaymentStatus == PaymentStatusPaid || o.PaymentStatus == PaymentStatusSuccess
}

// ValidateItemsJSON guards the snapshot invariants before an order is persisted.
func (o *Order) ValidateItemsJSON() error {
	if len(o.ItemsJSON) > structs.MaxItemsJSONLen {
		return structs.ErrItemsTooLarge
	}
	var probe map[string]json.RawMessage
	if err := json.Unmarshal([]byte(o.ItemsJSON), &probe); err != nil || len(probe) == 0 {
		return structs.ErrInvalidItems
	}
	return nil
}
