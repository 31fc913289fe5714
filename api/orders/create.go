package orders

import (
	"abadas_server/handling"
	"abadas_server/lib"
	"abadas_server/structs"
	"errors"
	"net/http"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
)

// Checkout handles POST /orders/checkout: the multipart cart submission.
// The PayID path may attach a proof-of-payment image; the PayPal path gets
// back a redirect URL to the hosted approval page.
func (orm *OrderRoutesManager) Checkout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req, proofFile, proofHeader, err := handling.ParseCheckoutForm(r)
	if err != nil {
		gecho.BadRequest(w,
			gecho.WithMessage("error.order.invalidRequestBody"),
			gecho.WithData(err.Error()),
			gecho.Send(),
		)
		return
	}
	if proofFile != nil {
		defer proofFile.Close()
	}

	// Guest checkout is the norm; a valid session just links the order.
	var userID *uuid.UUID
	if claims, err := lib.ExtractClaims(r, orm.mw.AccessTokenSecret()); err == nil {
		userID = &claims.Sub
	}

	var proofURL string
	if req.PaymentMethod == "payid" && proofFile != nil {
		proofURL, err = orm.imageService.StorePaymentProof(proofFile, proofHeader)
		if err != nil {
			orm.logger.Warn("Failed to store payment proof", gecho.Field("error", err))
			gecho.BadRequest(w,
				gecho.WithMessage("error.order.invalidPaymentProof"),
				gecho.Send(),
			)
			return
		}
	}

	resp, err := orm.orderService.Checkout(ctx, req, userID, proofURL)
	if err != nil {
		// No order was created; don't leave the stored proof behind.
		if proofURL != "" {
			if rmErr := orm.imageService.RemoveStoredFile(proofURL); rmErr != nil {
				orm.logger.Warn("Failed to remove payment proof of failed checkout",
					gecho.Field("error", rmErr),
					gecho.Field("url", proofURL))
			}
		}
		switch {
		case errors.Is(err, lib.ErrAmountMismatch):
			gecho.BadRequest(w,
				gecho.WithMessage("error.order.amountMismatch"),
				gecho.Send(),
			)
		case errors.Is(err, structs.ErrInvalidItems), errors.Is(err, structs.ErrItemsTooLarge):
			gecho.BadRequest(w,
				gecho.WithMessage("error.order.invalidItems"),
				gecho.Send(),
			)
		case errors.Is(err, lib.ErrUnknownPaymentMethod):
			gecho.BadRequest(w,
				gecho.WithMessage("error.order.unsupportedPaymentMethod"),
				gecho.Send(),
			)
		default:
			orm.logger.Error("Checkout failed", gecho.Field("error", err))
			gecho.InternalServerError(w,
				gecho.WithMessage("error.order.creationFailed"),
				gecho.Send(),
			)
		}
		return
	}

	gecho.Success(w,
		gecho.WithMessage("success.order.created"),
		gecho.WithData(resp),
		gecho.Send(),
	)
}
