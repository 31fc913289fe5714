package handling

import (
	"abadas_server/lib"
	"abadas_server/structs"
	"mime/multipart"
	"net/http"
	"strings"
)

// maxCheckoutFormMemory bounds the in-memory portion of the multipart parse;
// larger file parts spill to disk.
const maxCheckoutFormMemory = 4 << 20

// PaymentProofField is the file part name the PayID path uploads.
const PaymentProofField = "payment_proof"

// ParseCheckoutForm reads the multipart checkout submission into a
// CheckoutRequest and runs struct validation. The optional payment proof
// file is returned separately; callers own closing it.
func ParseCheckoutForm(r *http.Request) (*structs.CheckoutRequest, multipart.File, *multipart.FileHeader, error) {
	if err := r.ParseMultipartForm(maxCheckoutFormMemory); err != nil {
		return nil, nil, nil, err
	}

	form := func(key string) string {
		return strings.TrimSpace(r.FormValue(key))
	}

	req := &structs.CheckoutRequest{
		ItemsJSON:      r.FormValue("items_json"),
		Amount:         form("amount"),
		Name:           form("name"),
		Email:          form("email"),
		Phone:          form("phone"),
		Address1:       form("address1"),
		Address2:       form("address2"),
		City:           form("city"),
		State:          form("state"),
		ZipCode:        form("zip_code"),
		PaymentMethod:  strings.ToLower(form("payment_method")),
		ShippingMethod: form("shipping_method"),
		ShippingCost:   form("shipping_cost"),
	}

	if err := lib.ValidateStruct(req); err != nil {
		return nil, nil, nil, err
	}

	file, header, err := r.FormFile(PaymentProofField)
	if err == http.ErrMissingFile {
		return req, nil, nil, nil
	}
	if err != nil {
		return nil, nil, nil, err
	}
	return req, file, header, nil
}
